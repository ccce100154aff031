// Package poller implements the client side of the job-progress
// protocol: a single-watch loop that fetches a job's status, publishes
// progress snapshots and detects the terminal state.
//
// The loop is deliberately serialized with itself: the next tick is
// scheduled only after the previous fetch settled, so at most one status
// request is ever in flight per watch. Fetch failures follow the
// continue-on-transient-error policy: they are logged and the watch stays
// alive until the job turns terminal or the watch is stopped.
package poller

import (
	"context"
	"math"
	"sync"
	"time"

	api "github.com/kovtools/checkctl/api/v1alpha1"
	"go.uber.org/zap"
)

const DefaultInterval = 3 * time.Second

// StatusFetcher performs a single status read for a job.
type StatusFetcher interface {
	FetchStatus(ctx context.Context, id string) (*api.JobStatusReply, error)
}

// FetcherFunc adapts a function to the StatusFetcher interface.
type FetcherFunc func(ctx context.Context, id string) (*api.JobStatusReply, error)

func (f FetcherFunc) FetchStatus(ctx context.Context, id string) (*api.JobStatusReply, error) {
	return f(ctx, id)
}

type State int

const (
	StateIdle State = iota
	StateWatching
	StateCompleted
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateWatching:
		return "watching"
	case StateCompleted:
		return "completed"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Snapshot is the latest observed progress of the watched job. Progress
// defaults to 0 when the backend sends none or sends a non-numeric value.
type Snapshot struct {
	JobID    string
	Message  string
	Progress float64
}

type Option func(*Poller)

func WithInterval(interval time.Duration) Option {
	return func(p *Poller) {
		p.interval = interval
	}
}

// WithOnUpdate registers a callback invoked after every successful
// non-terminal fetch with the fresh snapshot.
func WithOnUpdate(fn func(Snapshot)) Option {
	return func(p *Poller) {
		p.onUpdate = fn
	}
}

// WithOnComplete registers a callback invoked exactly once per watch,
// when the job reaches the terminal state, with the full final reply.
func WithOnComplete(fn func(jobID string, reply *api.JobStatusReply)) Option {
	return func(p *Poller) {
		p.onComplete = fn
	}
}

// Poller watches exactly one job at a time. StartWatching replaces the
// whole watch state (job id, cancellation, loop) atomically: the previous
// loop is cancelled and fully drained before the new one starts, so a
// stale response can never overwrite a newer watch.
type Poller struct {
	fetcher    StatusFetcher
	interval   time.Duration
	onUpdate   func(Snapshot)
	onComplete func(jobID string, reply *api.JobStatusReply)
	log        *zap.SugaredLogger

	mu       sync.Mutex
	state    State
	jobID    string
	cancel   context.CancelFunc
	done     chan struct{}
	snapshot Snapshot
}

func New(fetcher StatusFetcher, opts ...Option) *Poller {
	p := &Poller{
		fetcher:  fetcher,
		interval: DefaultInterval,
		state:    StateIdle,
		log:      zap.S().Named("poller"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// StartWatching binds the poller to jobID and begins polling. The first
// fetch is issued immediately, without an initial delay. Any previous
// watch is torn down first: its timer and in-flight request are cancelled
// and its loop has exited before the new watch begins.
func (p *Poller) StartWatching(ctx context.Context, jobID string) {
	p.teardown()

	watchCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	p.mu.Lock()
	p.state = StateWatching
	p.jobID = jobID
	p.cancel = cancel
	p.done = done
	p.snapshot = Snapshot{JobID: jobID}
	p.mu.Unlock()

	go p.watch(watchCtx, jobID, done)
}

// Stop cancels the pending tick and aborts any in-flight request. When it
// returns, no further callbacks fire. Stopping an idle or completed
// poller is a no-op.
func (p *Poller) Stop() {
	p.teardown()

	p.mu.Lock()
	if p.state == StateWatching {
		p.state = StateStopped
	}
	p.mu.Unlock()
}

// teardown cancels the current watch, if any, and waits for its loop to
// exit. The wait is what makes cancellation actual rather than advisory:
// once the loop has returned there is no timer, no in-flight request and
// no pending callback left.
func (p *Poller) teardown() {
	p.mu.Lock()
	cancel, done := p.cancel, p.done
	p.cancel, p.done = nil, nil
	p.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (p *Poller) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

func (p *Poller) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshot
}

func (p *Poller) watch(ctx context.Context, jobID string, done chan struct{}) {
	defer close(done)

	for {
		reply, err := p.fetcher.FetchStatus(ctx, jobID)
		if ctx.Err() != nil {
			return
		}

		switch {
		case err != nil:
			// Transient failure: keep the watch alive, the next tick
			// retries naturally.
			p.log.Warnf("status fetch for job %s failed: %v", jobID, err)
		case api.StringToStatusMessage(reply.Status.Message).Terminal():
			p.finish(ctx, jobID, reply)
			return
		default:
			p.publish(ctx, jobID, reply)
		}

		timer := time.NewTimer(p.interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}

func (p *Poller) publish(ctx context.Context, jobID string, reply *api.JobStatusReply) {
	snapshot := Snapshot{
		JobID:    jobID,
		Message:  reply.Status.Message,
		Progress: progressValue(reply.Status.Progress),
	}

	p.mu.Lock()
	if ctx.Err() != nil || p.state != StateWatching || p.jobID != jobID {
		p.mu.Unlock()
		return
	}
	p.snapshot = snapshot
	onUpdate := p.onUpdate
	p.mu.Unlock()

	if onUpdate != nil {
		onUpdate(snapshot)
	}
}

func (p *Poller) finish(ctx context.Context, jobID string, reply *api.JobStatusReply) {
	p.mu.Lock()
	if ctx.Err() != nil || p.state != StateWatching || p.jobID != jobID {
		p.mu.Unlock()
		return
	}
	p.state = StateCompleted
	p.snapshot = Snapshot{JobID: jobID, Message: reply.Status.Message, Progress: 100}
	onComplete := p.onComplete
	p.mu.Unlock()

	p.log.Infof("job %s completed", jobID)
	if onComplete != nil {
		onComplete(jobID, reply)
	}
}

func progressValue(progress *float64) float64 {
	if progress == nil || math.IsNaN(*progress) {
		return 0
	}
	return *progress
}
