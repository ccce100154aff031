package v1alpha1

import "encoding/json"

type JobKind string

const (
	JobKindComplianceCheck JobKind = "compliance-check"
	JobKindVGCListCreation JobKind = "vgc-list-creation"
)

// JobStatus is the status block returned on every poll. Message is a
// free-form string on the wire; Progress may be absent.
type JobStatus struct {
	Message  string   `json:"message"`
	Progress *float64 `json:"progress,omitempty"`
}

// CheckSubmission is the body of POST /checks.
// Date holds the expanded inclusive day sequence in DD-MM-YYYY format.
// DocumentKeys follows the fixed slot order; unbound optional slots are null.
type CheckSubmission struct {
	Date         []string  `json:"date"`
	Modules      []string  `json:"modules"`
	DocumentKeys []*string `json:"documentKeys"`
	Source       string    `json:"source"`
}

// VGCSubmission is the body of POST /create-vgc.
type VGCSubmission struct {
	DocumentKeys []*string `json:"documentKeys"`
	Source       string    `json:"source"`
	Group        string    `json:"group"`
}

type SubmitReply struct {
	CheckID string `json:"check_id"`
}

// JobStatusReply is the shape of GET /checks/{id} and
// GET /checks-create-vgc/{id}. The two endpoints differ only in the
// concrete type behind Result, so it stays raw here and is decoded by
// CheckResult or VGCResult once the job is terminal.
type JobStatusReply struct {
	Status     JobStatus       `json:"status"`
	Result     json.RawMessage `json:"result,omitempty"`
	Date       []string        `json:"date,omitempty"`
	Modules    []string        `json:"modules,omitempty"`
	Group      string          `json:"group,omitempty"`
	Summary    json.RawMessage `json:"summary,omitempty"`
	References json.RawMessage `json:"references,omitempty"`
}

func (r *JobStatusReply) CheckResult() ([]CheckResultRow, error) {
	if len(r.Result) == 0 {
		return nil, nil
	}
	var rows []CheckResultRow
	if err := json.Unmarshal(r.Result, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *JobStatusReply) VGCResult() (*VGCResult, error) {
	if len(r.Result) == 0 {
		return nil, nil
	}
	result := &VGCResult{}
	if err := json.Unmarshal(r.Result, result); err != nil {
		return nil, err
	}
	return result, nil
}

// CheckResultRow is one finding of a compliance check: a role observed in
// a file within a planning folder.
type CheckResultRow struct {
	Folder string `json:"folder"`
	File   string `json:"file"`
	Role   string `json:"role"`
	Detail string `json:"detail,omitempty"`
}

type VGCResult struct {
	VGCList []VGCEntry `json:"vgc_list"`
	Inputs  VGCInputs  `json:"inputs"`
}

type VGCEntry struct {
	Child            string      `json:"child"`
	Age              *float64    `json:"age,omitempty"`
	ChildDaysPresent int         `json:"child_days_present"`
	FixedFaces       []FixedFace `json:"fixed_faces"`
}

type FixedFace struct {
	Staff          string   `json:"staff"`
	OverlapDays    int      `json:"overlap_days"`
	OverlapMinutes int      `json:"overlap_minutes"`
	Coverage       *float64 `json:"coverage"`
}

type VGCInputs struct {
	DocumentKeys []*string `json:"documentKeys,omitempty"`
	Group        string    `json:"group,omitempty"`
}

// CheckSummary is one entry of GET /checks/list and
// GET /checks-create-vgc/list.
type CheckSummary struct {
	CheckID   string `json:"check_id"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

type UploadReply struct {
	ObjectKey string `json:"objectKey"`
	FileURL   string `json:"fileUrl,omitempty"`
}
