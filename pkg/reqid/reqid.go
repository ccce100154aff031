package reqid

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

var (
	prefix  = uuid.New().String()[:8]
	counter uint64
)

// NextRequestID returns a process-unique request id. It is attached to
// every outgoing request so the backend can correlate console calls.
func NextRequestID() string {
	return fmt.Sprintf("checkctl-%s-%06d", prefix, atomic.AddUint64(&counter, 1))
}
