package webview

import (
	"fmt"
	"sync/atomic"

	"webframe/pkg/engine"
)

// Frame is a non-owning reference to one navigation frame inside a browser.
// The adapter creates a fresh Frame per event delivery; the host may retain
// it across calls but must call Release exactly once when done. Using a
// released frame is a contract violation and panics.
type Frame struct {
	eng      engine.TaskRunner
	ref      engine.Frame
	released atomic.Bool
}

func newFrame(eng engine.TaskRunner, ref engine.Frame) *Frame {
	return &Frame{eng: eng, ref: ref}
}

func (f *Frame) use(op string) engine.Frame {
	if f.released.Load() {
		panic(fmt.Sprintf("webview: frame %s after Release", op))
	}
	return f.ref
}

// Identifier returns the engine's stable frame identifier.
func (f *Frame) Identifier() string {
	return f.use("Identifier").Identifier()
}

// Name returns the frame name, empty for unnamed frames.
func (f *Frame) Name() string {
	return f.use("Name").Name()
}

// URL returns the frame's current URL.
func (f *Frame) URL() string {
	return f.use("URL").URL()
}

// IsMain reports whether this is the browser's main frame.
func (f *Frame) IsMain() bool {
	return f.use("IsMain").IsMain()
}

// LoadURL navigates the frame. Safe to call from any goroutine.
func (f *Frame) LoadURL(url string) {
	ref := f.use("LoadURL")
	if url == "" {
		return
	}
	f.eng.Post(func() {
		ref.LoadURL(url)
	})
}

// Release drops the reference. Exactly one Release per Frame; a second call
// panics.
func (f *Frame) Release() {
	if !f.released.CompareAndSwap(false, true) {
		panic("webview: frame released twice")
	}
}
