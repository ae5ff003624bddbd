package pager

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/mveigas/quire/internal/watch"
)

// State names the reconciler's position in the reload cycle. Between
// Check calls it reads StateIdle, or StateFailed when the last pass
// could not reopen the document.
type State string

const (
	StateIdle        State = "idle"
	StateDetecting   State = "detecting"
	StateReopening   State = "reopening"
	StateReconciling State = "reconciling"
	StateFailed      State = "failed"
)

// Prober reports the on-disk identity of the watched file.
type Prober interface {
	Probe() (watch.Fingerprint, error)
}

// OutcomeKind classifies the result of one Check pass.
type OutcomeKind string

const (
	OutcomeUnchanged OutcomeKind = "unchanged"
	OutcomeReloaded  OutcomeKind = "reloaded"
	OutcomeFailed    OutcomeKind = "failed"
)

// Outcome is what one Check pass produced. Previous and Cursor are
// meaningful for reloaded and failed outcomes; Err carries the probe or
// reopen failure when there was one.
type Outcome struct {
	Kind       OutcomeKind
	Previous   Cursor
	Cursor     Cursor
	Generation uint64
	Err        error
}

// Reconciler decides, on each watch signal, whether the document really
// changed and drives the session through an atomic reload when it did.
type Reconciler struct {
	mu      sync.Mutex
	session *Session
	probe   Prober
	last    watch.Fingerprint
	state   State
}

// NewReconciler records the file's current fingerprint as the baseline
// future probes are compared against.
func NewReconciler(session *Session, probe Prober) (*Reconciler, error) {
	fp, err := probe.Probe()
	if err != nil {
		return nil, fmt.Errorf("initial probe: %w", err)
	}
	return &Reconciler{
		session: session,
		probe:   probe,
		last:    fp,
		state:   StateIdle,
	}, nil
}

// Check runs one detect-and-reload pass. A probe failure counts as no
// change: the file may be mid-rewrite and a later signal will see it
// whole. The stored fingerprint is committed only after a successful
// reload, so a failed pass is retried in full on the next signal.
func (r *Reconciler) Check() Outcome {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.state = StateDetecting
	fp, err := r.probe.Probe()
	if err != nil {
		r.state = StateIdle
		return Outcome{Kind: OutcomeUnchanged, Err: err}
	}
	if fp == r.last {
		r.state = StateIdle
		return Outcome{Kind: OutcomeUnchanged}
	}

	r.state = StateReopening
	started := time.Now()
	result, err := r.session.Reload()
	if err != nil {
		r.state = StateFailed
		log.Printf("[reload] reopen failed (will retry): %v", err)
		return Outcome{
			Kind:       OutcomeFailed,
			Previous:   result.Previous,
			Cursor:     result.Cursor,
			Generation: result.Generation,
			Err:        err,
		}
	}

	r.state = StateReconciling
	// fp was taken before the reopen. A write landing during the reload
	// leaves it stale, which forces another pass on the next signal.
	r.last = fp
	log.Printf("[reload] generation %d, %d -> %d pages (duration=%s)",
		result.Generation, result.Previous.Total, result.Cursor.Total,
		time.Since(started).Round(time.Millisecond))
	r.state = StateIdle
	return Outcome{
		Kind:       OutcomeReloaded,
		Previous:   result.Previous,
		Cursor:     result.Cursor,
		Generation: result.Generation,
	}
}

// State reports the reconciler's resting state.
func (r *Reconciler) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Fingerprint returns the last committed fingerprint.
func (r *Reconciler) Fingerprint() watch.Fingerprint {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}
