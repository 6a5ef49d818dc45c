package enginesim

import (
	"errors"
	"strings"
	"sync"

	"go.uber.org/zap"

	"webframe/pkg/engine"
)

// Launcher implements engine.Launcher over a simulated engine. Initialize
// starts the UI loop, Shutdown stops it; ExecProcess recognizes the
// engine-style "--type=..." helper flag but has no real helpers to run.
type Launcher struct {
	log  *zap.Logger
	opts []Option

	mu     sync.Mutex
	eng    *Engine
	launch engine.LaunchOptions
}

// NewLauncher returns a launcher whose engine is built with opts on
// Initialize.
func NewLauncher(log *zap.Logger, opts ...Option) *Launcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Launcher{log: log, opts: opts}
}

// SetLogger replaces the launcher's logger. Must be called before
// Initialize; the engine built there inherits it.
func (l *Launcher) SetLogger(log *zap.Logger) {
	if log == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.log = log
}

func (l *Launcher) Initialize(opts engine.LaunchOptions) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.eng != nil {
		return errors.New("enginesim: already initialized")
	}
	l.launch = opts
	l.eng = New(append([]Option{WithLogger(l.log)}, l.opts...)...)
	l.log.Info("engine initialized",
		zap.String("locale", opts.Locale),
		zap.String("cache_path", opts.CachePath),
	)
	return nil
}

func (l *Launcher) ExecProcess(args []string) (bool, error) {
	for _, arg := range args {
		if strings.HasPrefix(arg, "--type=") {
			// A real engine would run the helper here and exit. The
			// simulator has no helper processes.
			return true, nil
		}
	}
	return false, nil
}

func (l *Launcher) Shutdown() {
	l.mu.Lock()
	eng := l.eng
	l.eng = nil
	l.mu.Unlock()
	if eng == nil {
		return
	}
	eng.Close()
	l.log.Info("engine shut down")
}

// Engine returns the running engine, or nil before Initialize.
func (l *Launcher) Engine() *Engine {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.eng
}

// LaunchOptions returns the options Initialize was called with.
func (l *Launcher) LaunchOptions() engine.LaunchOptions {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.launch
}
