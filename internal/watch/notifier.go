package watch

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the notifier waits for an event burst to
// settle before signaling.
const DefaultDebounce = 250 * time.Millisecond

var _ Watcher = (*Notifier)(nil)

// Notifier signals on filesystem events for a single file. It watches
// the parent directory rather than the file: editors and build tools
// replace files by writing a temp name and renaming over the original,
// which detaches a watch placed on the file itself.
type Notifier struct {
	path     string
	base     string
	debounce time.Duration

	fw      *fsnotify.Watcher
	signals chan struct{}
	stop    chan struct{}
	once    sync.Once
}

// NewNotifier watches path, coalescing event bursts with debounce.
func NewNotifier(path string, debounce time.Duration) (*Notifier, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Notifier{
		path:     abs,
		base:     filepath.Base(abs),
		debounce: debounce,
		signals:  make(chan struct{}, 1),
		stop:     make(chan struct{}),
	}, nil
}

// Start registers the directory watch and begins delivering signals.
// It fails when the platform watcher cannot be created, in which case
// the caller should fall back to polling.
func (n *Notifier) Start(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	dir := filepath.Dir(n.path)
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	n.fw = fw
	go n.run(ctx)
	return nil
}

func (n *Notifier) run(ctx context.Context) {
	defer n.fw.Close()

	const relevant = fsnotify.Write | fsnotify.Create | fsnotify.Rename | fsnotify.Remove

	var timer *time.Timer
	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return
		case <-n.stop:
			return
		case event, ok := <-n.fw.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != n.base {
				continue
			}
			if event.Op&relevant == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(n.debounce)
				pending = timer.C
				continue
			}
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(n.debounce)
		case <-pending:
			timer = nil
			pending = nil
			n.emit()
		case err, ok := <-n.fw.Errors:
			if !ok {
				return
			}
			log.Printf("[watch] %v", err)
		}
	}
}

func (n *Notifier) emit() {
	select {
	case n.signals <- struct{}{}:
	default:
	}
}

// Signals returns the debounced event channel.
func (n *Notifier) Signals() <-chan struct{} { return n.signals }

// Stop ends the loop. Safe to call more than once.
func (n *Notifier) Stop() { n.once.Do(func() { close(n.stop) }) }
