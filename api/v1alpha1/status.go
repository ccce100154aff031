package v1alpha1

// StatusMessage narrows the free-form status.message field at the client
// boundary. The backend only documents "completed" as terminal; every
// other value, known or not, keeps a watch alive. If the backend ever
// introduces another terminal value (e.g. "failed"), it must be added to
// Terminal explicitly.
type StatusMessage string

const (
	StatusMessageCompleted  StatusMessage = "completed"
	StatusMessageProcessing StatusMessage = "processing"
)

func (m StatusMessage) Terminal() bool {
	return m == StatusMessageCompleted
}

func StringToStatusMessage(s string) StatusMessage {
	switch s {
	case string(StatusMessageCompleted):
		return StatusMessageCompleted
	case string(StatusMessageProcessing):
		return StatusMessageProcessing
	default:
		return StatusMessage(s)
	}
}
