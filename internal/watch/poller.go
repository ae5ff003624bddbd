package watch

import (
	"context"
	"sync"
	"time"
)

// DefaultInterval is the poll cadence used when none is configured.
const DefaultInterval = time.Second

var _ Watcher = (*Poller)(nil)

// Poller signals on a fixed interval and leaves change detection to the
// consumer. It never touches the file itself, so a vanished or briefly
// unreadable file cannot kill the loop.
type Poller struct {
	interval time.Duration
	signals  chan struct{}
	stop     chan struct{}
	once     sync.Once
}

// NewPoller ticks every interval, falling back to DefaultInterval for
// non-positive values.
func NewPoller(interval time.Duration) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Poller{
		interval: interval,
		signals:  make(chan struct{}, 1),
		stop:     make(chan struct{}),
	}
}

// Start begins ticking until ctx is done or Stop is called.
func (p *Poller) Start(ctx context.Context) error {
	go p.run(ctx)
	return nil
}

func (p *Poller) run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-p.stop:
			return
		case <-ticker.C:
			p.emit()
		}
	}
}

func (p *Poller) emit() {
	select {
	case p.signals <- struct{}{}:
	default:
	}
}

// Signals returns the tick channel.
func (p *Poller) Signals() <-chan struct{} { return p.signals }

// Stop ends the loop. Safe to call more than once.
func (p *Poller) Stop() { p.once.Do(func() { close(p.stop) }) }
