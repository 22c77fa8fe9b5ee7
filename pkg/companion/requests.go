package companion

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrStale is returned by Finish for a request that was superseded or
// cancelled. Its result must be discarded.
var ErrStale = errors.New("request superseded")

// Phase is the lifecycle state of the most recent oracle request.
type Phase int

const (
	PhaseIdle Phase = iota
	PhasePending
	PhaseResolved
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhasePending:
		return "pending"
	case PhaseResolved:
		return "resolved"
	case PhaseFailed:
		return "failed"
	default:
		return "idle"
	}
}

// Kind says what a request is for.
type Kind string

const (
	KindGoal       Kind = "goal"
	KindReflection Kind = "reflection"
)

// Request is one outstanding oracle call.
type Request struct {
	ID   uint64
	Kind Kind

	// Ctx carries the timeout and is cancelled when the request is superseded.
	Ctx    context.Context
	cancel context.CancelFunc
}

// Tracker serializes oracle requests: at most one is pending, and a newer
// request always wins over an older one.
type Tracker struct {
	mu      sync.Mutex
	timeout time.Duration
	seq     uint64
	current *Request
	phase   Phase
	lastErr error
}

// NewTracker creates a Tracker. A timeout of zero means none.
func NewTracker(timeout time.Duration) *Tracker {
	return &Tracker{timeout: timeout}
}

// Begin starts a request, cancelling any request still pending.
func (t *Tracker) Begin(ctx context.Context, kind Kind) *Request {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.current != nil {
		t.current.cancel()
	}

	var reqCtx context.Context
	var cancel context.CancelFunc
	if t.timeout > 0 {
		reqCtx, cancel = context.WithTimeout(ctx, t.timeout)
	} else {
		reqCtx, cancel = context.WithCancel(ctx)
	}

	t.seq++
	t.current = &Request{ID: t.seq, Kind: kind, Ctx: reqCtx, cancel: cancel}
	t.phase = PhasePending
	t.lastErr = nil
	return t.current
}

// Finish settles req with the outcome of its call. It returns ErrStale when req
// is no longer the current request; otherwise it returns err, annotated when the
// request ran out of time.
func (t *Tracker) Finish(req *Request, err error) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	req.cancel()
	if t.current != req {
		return ErrStale
	}
	t.current = nil

	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			err = fmt.Errorf("%s request timed out after %s: %w", req.Kind, t.timeout, err)
		}
		t.phase = PhaseFailed
		t.lastErr = err
		return err
	}
	t.phase = PhaseResolved
	return nil
}

// Cancel aborts the pending request, if any. It reports whether one was
// pending.
func (t *Tracker) Cancel() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.current == nil {
		return false
	}
	t.current.cancel()
	t.current = nil
	t.phase = PhaseIdle
	return true
}

// Busy reports whether a request is pending.
func (t *Tracker) Busy() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.phase == PhasePending
}

// Phase returns the current lifecycle phase.
func (t *Tracker) Phase() Phase {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.phase
}

// Pending returns the kind of the pending request.
func (t *Tracker) Pending() (Kind, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.current == nil {
		return "", false
	}
	return t.current.Kind, true
}

// LastErr returns the error of the last failed request.
func (t *Tracker) LastErr() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lastErr
}
