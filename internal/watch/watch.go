// Package watch notices when a file may have changed on disk and nudges
// whoever is paging through it. Watchers deliver bare signals; deciding
// whether the file really changed belongs to the consumer.
package watch

import "context"

// Watcher emits a signal whenever the watched file may have changed.
// Signals are coalesced: a slow consumer sees at least one signal for a
// burst of activity, not one per event.
type Watcher interface {
	Start(ctx context.Context) error
	Signals() <-chan struct{}
	Stop()
}
