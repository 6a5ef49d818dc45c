// Package enginesim is a deterministic in-process browser engine used by the
// webframe tests and the demo host. It runs a real single-goroutine UI loop
// with affinity checking, creates scripted browsers, and exposes injection
// helpers that deliver native events to a registered client exactly the way
// an engine binding would: on the loop, one at a time.
package enginesim

import (
	"fmt"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"webframe/pkg/engine"
)

// Engine implements engine.Engine on a dedicated loop goroutine.
type Engine struct {
	log *zap.Logger

	tasks     chan func()
	stop      chan struct{}
	loopDone  chan struct{}
	loopReady chan struct{}
	loopID    atomic.Uint64

	mu           sync.Mutex
	closed       bool
	holdCreation bool
	pending      []*pendingCreation
	browsers     []*Browser
}

type pendingCreation struct {
	opts   engine.BrowserOptions
	client engine.Client
}

// Option configures the simulator.
type Option func(*Engine)

// WithLogger attaches a logger to the simulator.
func WithLogger(log *zap.Logger) Option {
	return func(e *Engine) { e.log = log }
}

// WithHeldCreation defers browser creation until CompleteCreation is called,
// so tests can exercise the pre-creation command queue.
func WithHeldCreation() Option {
	return func(e *Engine) { e.holdCreation = true }
}

// New starts the simulator's UI loop.
func New(opts ...Option) *Engine {
	e := &Engine{
		log:       zap.NewNop(),
		tasks:     make(chan func(), 256),
		stop:      make(chan struct{}),
		loopDone:  make(chan struct{}),
		loopReady: make(chan struct{}),
	}
	for _, o := range opts {
		o(e)
	}
	go e.loop()
	<-e.loopReady
	return e
}

func (e *Engine) loop() {
	e.loopID.Store(goid())
	close(e.loopReady)
	defer close(e.loopDone)
	for {
		select {
		case task := <-e.tasks:
			task()
		case <-e.stop:
			return
		}
	}
}

// Post schedules task onto the UI loop. Safe from any goroutine; tasks
// posted after Close are dropped.
func (e *Engine) Post(task func()) {
	e.mu.Lock()
	closed := e.closed
	e.mu.Unlock()
	if closed {
		e.log.Warn("task posted after engine close")
		return
	}
	select {
	case e.tasks <- task:
	case <-e.stop:
	}
}

// OnLoop reports whether the caller runs on the UI loop goroutine.
func (e *Engine) OnLoop() bool {
	return goid() == e.loopID.Load()
}

// CreateBrowser schedules asynchronous browser creation. Unless creation is
// held, the client's OnAfterCreated fires on the loop shortly after.
func (e *Engine) CreateBrowser(opts engine.BrowserOptions, client engine.Client) {
	e.mu.Lock()
	hold := e.holdCreation
	if hold {
		e.pending = append(e.pending, &pendingCreation{opts: opts, client: client})
	}
	e.mu.Unlock()
	if hold {
		return
	}
	e.Post(func() {
		e.finishCreation(opts, client)
	})
}

// CompleteCreation fires OnAfterCreated for every browser whose creation was
// held, in creation order, and waits until delivery finished.
func (e *Engine) CompleteCreation() {
	e.mu.Lock()
	pending := e.pending
	e.pending = nil
	e.mu.Unlock()
	for _, p := range pending {
		e.Run(func() {
			e.finishCreation(p.opts, p.client)
		})
	}
}

// finishCreation runs on the loop.
func (e *Engine) finishCreation(opts engine.BrowserOptions, client engine.Client) {
	b := newBrowser(e, opts, client)
	e.mu.Lock()
	e.browsers = append(e.browsers, b)
	e.mu.Unlock()
	e.log.Debug("browser created", zap.Int("width", opts.Width), zap.Int("height", opts.Height))
	client.OnAfterCreated(b)
}

// Run posts task onto the loop and waits for it to finish. It is a test and
// scripting convenience; calling it from the loop itself would deadlock, so
// it panics there instead.
func (e *Engine) Run(task func()) {
	if e.OnLoop() {
		panic("enginesim: Run called from the UI loop")
	}
	done := make(chan struct{})
	e.Post(func() {
		defer close(done)
		task()
	})
	select {
	case <-done:
	case <-e.loopDone:
	}
}

// Sync waits until every task posted before it has run.
func (e *Engine) Sync() {
	e.Run(func() {})
}

// Browsers returns the browsers created so far.
func (e *Engine) Browsers() []*Browser {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]*Browser(nil), e.browsers...)
}

// Close stops the UI loop. Remaining queued tasks are dropped; close all
// browsers first if teardown ordering matters.
func (e *Engine) Close() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	e.mu.Unlock()
	close(e.stop)
	<-e.loopDone
}

// goid parses the current goroutine id out of the stack header. The
// simulator needs real affinity checks and Go deliberately hides goroutine
// identity, so the stack header is the only stable source.
func goid() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	fields := strings.Fields(string(buf[:n]))
	if len(fields) < 2 {
		panic(fmt.Sprintf("enginesim: unexpected stack header %q", buf[:n]))
	}
	id, err := strconv.ParseUint(fields[1], 10, 64)
	if err != nil {
		panic(fmt.Sprintf("enginesim: unexpected goroutine id %q", fields[1]))
	}
	return id
}
