// Package bootstrap owns the once-per-process engine lifecycle: helper
// process dispatch, engine initialization, and a shutdown gate that waits for
// every live browser to finish closing before the engine is torn down.
// Tearing the engine down while a browser still exists is undefined behavior
// on the engine side, so the gate is not optional.
package bootstrap

import (
	"errors"
	"sync"

	"go.uber.org/zap"

	"webframe/pkg/engine"
)

// State is the bootstrap lifecycle phase.
type State int32

const (
	StateNew State = iota
	StateReady
	StateShuttingDown
	StateDown
)

func (s State) String() string {
	switch s {
	case StateNew:
		return "new"
	case StateReady:
		return "ready"
	case StateShuttingDown:
		return "shutting-down"
	case StateDown:
		return "down"
	default:
		return "unknown"
	}
}

var (
	// ErrNotReady is returned when the engine has not been initialized.
	ErrNotReady = errors.New("bootstrap: engine not initialized")

	// ErrShuttingDown is returned when a new browser is requested after
	// shutdown started.
	ErrShuttingDown = errors.New("bootstrap: engine is shutting down")
)

// Bootstrap drives an engine.Launcher through its lifecycle. It also
// implements webview.BrowserTracker so browser sessions register with the
// shutdown gate.
type Bootstrap struct {
	log      *zap.Logger
	launcher engine.Launcher

	mu       sync.Mutex
	cond     *sync.Cond
	state    State
	alive    int
	shutdown chan struct{}
}

// Option configures a Bootstrap.
type Option func(*Bootstrap)

// WithLogger attaches a logger.
func WithLogger(log *zap.Logger) Option {
	return func(b *Bootstrap) { b.log = log }
}

// New wraps launcher. The engine is not started until Init.
func New(launcher engine.Launcher, opts ...Option) *Bootstrap {
	b := &Bootstrap{
		log:      zap.NewNop(),
		launcher: launcher,
		shutdown: make(chan struct{}),
	}
	b.cond = sync.NewCond(&b.mu)
	for _, o := range opts {
		o(b)
	}
	return b
}

// SetLogger replaces the logger. Useful when the logger itself depends on
// flags that cannot be parsed until helper dispatch is done.
func (b *Bootstrap) SetLogger(log *zap.Logger) {
	if log == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.log = log
}

// ExecProcess must be called first thing in main: if the current process was
// started as an engine helper it runs the helper to completion and reports
// true, in which case main must exit without doing anything else.
func (b *Bootstrap) ExecProcess(args []string) (bool, error) {
	return b.launcher.ExecProcess(args)
}

// Init validates settings and starts the engine. It may be called once.
func (b *Bootstrap) Init(s Settings) error {
	s = s.withDefaults()
	if err := s.Validate(); err != nil {
		return err
	}

	b.mu.Lock()
	if b.state != StateNew {
		b.mu.Unlock()
		return errors.New("bootstrap: already initialized")
	}
	b.mu.Unlock()

	if err := b.launcher.Initialize(s.launchOptions()); err != nil {
		return err
	}

	b.mu.Lock()
	b.state = StateReady
	b.mu.Unlock()
	b.log.Info("engine ready", zap.String("locale", s.Locale))
	return nil
}

// Ready reports whether browsers may be created.
func (b *Bootstrap) Ready() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state == StateReady
}

// State returns the current lifecycle phase.
func (b *Bootstrap) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// ShuttingDown is closed when Shutdown begins. Hosts use it to close their
// remaining browsers.
func (b *Bootstrap) ShuttingDown() <-chan struct{} {
	return b.shutdown
}

// BrowserCreated registers a live browser with the shutdown gate. Creating a
// browser after shutdown started is a programming error.
func (b *Bootstrap) BrowserCreated() {
	b.mu.Lock()
	defer b.mu.Unlock()
	switch b.state {
	case StateReady:
	case StateNew:
		panic(ErrNotReady)
	default:
		panic(ErrShuttingDown)
	}
	b.alive++
}

// BrowserDestroyed removes a browser from the shutdown gate.
func (b *Bootstrap) BrowserDestroyed() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.alive == 0 {
		panic("bootstrap: browser count underflow")
	}
	b.alive--
	if b.alive == 0 {
		b.cond.Broadcast()
	}
}

// AliveBrowsers reports the number of browsers the gate is waiting on.
func (b *Bootstrap) AliveBrowsers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.alive
}

// Shutdown blocks until every registered browser reported destroyed, then
// tears the engine down. Safe to call more than once; later calls wait for
// the first to finish.
func (b *Bootstrap) Shutdown() {
	b.mu.Lock()
	switch b.state {
	case StateNew:
		b.state = StateDown
		b.mu.Unlock()
		return
	case StateDown:
		b.mu.Unlock()
		return
	case StateShuttingDown:
		for b.state != StateDown {
			b.cond.Wait()
		}
		b.mu.Unlock()
		return
	}
	b.state = StateShuttingDown
	close(b.shutdown)
	b.log.Info("shutdown started", zap.Int("alive_browsers", b.alive))
	for b.alive > 0 {
		b.cond.Wait()
	}
	b.mu.Unlock()

	b.launcher.Shutdown()

	b.mu.Lock()
	b.state = StateDown
	b.cond.Broadcast()
	b.mu.Unlock()
	b.log.Info("shutdown complete")
}
