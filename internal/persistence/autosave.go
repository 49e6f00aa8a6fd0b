package persistence

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hammamikhairi/pantrycost/internal/domain"
	"github.com/hammamikhairi/pantrycost/internal/logger"
)

// Source is what the autosaver reads: a versioned state it can snapshot.
type Source interface {
	Snapshot() *domain.State
	Version() uint64
}

// AutosaveOption configures the autosaver.
type AutosaveOption func(*Autosaver)

// WithInterval sets how often the autosaver checks for changes.
func WithInterval(d time.Duration) AutosaveOption {
	return func(a *Autosaver) {
		a.interval = d
	}
}

// WithNotifier reports failed saves to the user.
func WithNotifier(n domain.Notifier) AutosaveOption {
	return func(a *Autosaver) {
		a.notifier = n
	}
}

// SaveStatus describes the last save attempt.
type SaveStatus struct {
	Dirty     bool // the state changed since the last successful save
	LastSaved time.Time
	LastErr   error
}

// Autosaver runs in the background and saves the state whenever its
// version moved since the last successful save. Failed saves are not
// retried as such; the next tick serializes whatever is current.
type Autosaver struct {
	source   Source
	repo     domain.StateRepository
	notifier domain.Notifier
	log      *logger.Logger
	interval time.Duration

	saveMu    sync.Mutex // serializes saves from the loop and Flush
	statusMu  sync.RWMutex
	saved     uint64
	lastSaved time.Time
	lastErr   error

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewAutosaver creates an autosaver. The current version of source counts
// as already saved.
func NewAutosaver(source Source, repo domain.StateRepository, log *logger.Logger, opts ...AutosaveOption) *Autosaver {
	a := &Autosaver{
		source:   source,
		repo:     repo,
		log:      log,
		interval: 30 * time.Second,
		saved:    source.Version(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Start begins the background loop. Non-blocking.
func (a *Autosaver) Start(ctx context.Context) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.running {
		a.log.Warn("autosaver already running")
		return
	}

	childCtx, cancel := context.WithCancel(ctx)
	a.cancel = cancel
	a.running = true
	a.done = make(chan struct{})

	go a.loop(childCtx, a.done)

	a.log.Info("autosaver started (interval=%s)", a.interval)
}

// Stop shuts down the loop and waits for an in-flight save to finish.
func (a *Autosaver) Stop() {
	a.mu.Lock()
	if !a.running {
		a.mu.Unlock()
		return
	}
	a.cancel()
	a.running = false
	done := a.done
	a.mu.Unlock()

	<-done
	a.log.Info("autosaver stopped")
}

// Flush saves now if anything changed. Used when the app quits.
func (a *Autosaver) Flush(ctx context.Context) error {
	return a.saveIfChanged(ctx)
}

// Status reports whether unsaved changes exist and how the last save went.
func (a *Autosaver) Status() SaveStatus {
	version := a.source.Version()

	a.statusMu.RLock()
	defer a.statusMu.RUnlock()
	return SaveStatus{
		Dirty:     version != a.saved,
		LastSaved: a.lastSaved,
		LastErr:   a.lastErr,
	}
}

func (a *Autosaver) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := a.saveIfChanged(ctx); err != nil && ctx.Err() == nil {
				a.log.Error("autosave: %v", err)
			}
		}
	}
}

func (a *Autosaver) saveIfChanged(ctx context.Context) error {
	a.saveMu.Lock()
	defer a.saveMu.Unlock()

	// Read the version before the snapshot: if a change lands in between,
	// the snapshot is newer than the recorded version and the next check
	// saves once more.
	version := a.source.Version()

	a.statusMu.RLock()
	unchanged := version == a.saved
	a.statusMu.RUnlock()
	if unchanged {
		return nil
	}

	err := <-SaveAsync(ctx, a.repo, a.source.Snapshot())

	a.statusMu.Lock()
	a.lastErr = err
	if err == nil {
		a.saved = version
		a.lastSaved = time.Now()
	}
	a.statusMu.Unlock()

	if err != nil {
		if a.notifier != nil {
			if nerr := a.notifier.NotifyUrgent(ctx, fmt.Sprintf("Saving failed: %v", err)); nerr != nil {
				a.log.Error("autosave: notifying failure: %v", nerr)
			}
		}
		return err
	}
	a.log.Debug("autosave: saved v%d", version)
	return nil
}
