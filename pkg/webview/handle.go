package webview

import (
	"fmt"
	"sync/atomic"

	"webframe/pkg/engine"
)

// Handle lifecycle. A handle boxes exactly one engine continuation and is
// consumed by exactly one of: resolve-success, resolve-failure, or
// adapter-forced release during teardown. Resolving twice, or resolving after
// teardown already released the continuation, is a caller error and panics.
// Resolution is allowed from any goroutine; the continuation itself is only
// touched on the UI loop.

const (
	statePending int32 = iota
	stateResolved
	stateReleased
)

type handleCore struct {
	kind  string
	state atomic.Int32
}

// consume transitions pending -> resolved, panicking on a second resolution.
func (h *handleCore) consume(op string) {
	if !h.state.CompareAndSwap(statePending, stateResolved) {
		panic(fmt.Sprintf("webview: %s handle: %s called but the handle was already resolved or released", h.kind, op))
	}
}

// release transitions pending -> released. Reports false when the handle was
// already consumed.
func (h *handleCore) release() bool {
	return h.state.CompareAndSwap(statePending, stateReleased)
}

// disown marks a handle dead without touching the continuation, used when
// the host declines an event and ownership stays with the engine.
func (h *handleCore) disown() {
	h.state.Store(stateReleased)
}

func (h *handleCore) pending() bool {
	return h.state.Load() == statePending
}

// forceReleasable is implemented by every handle kind; teardown paths call it
// on the UI loop.
type forceReleasable interface {
	forceRelease()
}

// FileDialogHandle answers a file dialog event.
type FileDialogHandle struct {
	core handleCore
	c    *client
	cont engine.FileDialogContinuation
}

func newFileDialogHandle(c *client, cont engine.FileDialogContinuation) *FileDialogHandle {
	return &FileDialogHandle{core: handleCore{kind: "file dialog"}, c: c, cont: cont}
}

// Accept completes the dialog with the chosen paths.
func (h *FileDialogHandle) Accept(paths []string) {
	h.core.consume("Accept")
	chosen := append([]string(nil), paths...)
	h.c.eng.Post(func() {
		h.c.untrackDialog(h)
		h.cont.Continue(chosen)
	})
	metricHandlesResolved.WithLabelValues("file_dialog").Inc()
}

// Cancel dismisses the dialog without a selection.
func (h *FileDialogHandle) Cancel() {
	h.core.consume("Cancel")
	h.c.eng.Post(func() {
		h.c.untrackDialog(h)
		h.cont.Cancel()
	})
	metricHandlesResolved.WithLabelValues("file_dialog").Inc()
}

// forceRelease runs on the UI loop during teardown.
func (h *FileDialogHandle) forceRelease() {
	if !h.core.release() {
		return
	}
	h.cont.Cancel()
	metricHandlesForceReleased.WithLabelValues("file_dialog").Inc()
}

// JSDialogHandle answers an alert, confirm or prompt dialog.
type JSDialogHandle struct {
	core handleCore
	c    *client
	cont engine.JSDialogContinuation
}

func newJSDialogHandle(c *client, cont engine.JSDialogContinuation) *JSDialogHandle {
	return &JSDialogHandle{core: handleCore{kind: "js dialog"}, c: c, cont: cont}
}

// Accept completes the dialog. userInput is only meaningful for prompts.
func (h *JSDialogHandle) Accept(userInput string) {
	h.core.consume("Accept")
	h.c.eng.Post(func() {
		h.c.untrackDialog(h)
		h.cont.Continue(true, userInput)
	})
	metricHandlesResolved.WithLabelValues("js_dialog").Inc()
}

// Cancel dismisses the dialog.
func (h *JSDialogHandle) Cancel() {
	h.core.consume("Cancel")
	h.c.eng.Post(func() {
		h.c.untrackDialog(h)
		h.cont.Continue(false, "")
	})
	metricHandlesResolved.WithLabelValues("js_dialog").Inc()
}

func (h *JSDialogHandle) forceRelease() {
	if !h.core.release() {
		return
	}
	h.cont.Continue(false, "")
	metricHandlesForceReleased.WithLabelValues("js_dialog").Inc()
}

// QueryHandle answers a page-initiated query.
type QueryHandle struct {
	core       handleCore
	c          *client
	r          *queryRouter
	id         int64
	persistent bool
	cont       engine.QueryContinuation
}

// ID returns the engine-assigned transaction identifier.
func (h *QueryHandle) ID() int64 { return h.id }

// Persistent reports whether the page expects a response stream.
func (h *QueryHandle) Persistent() bool { return h.persistent }

// Succeed delivers a success payload to the page. For one-shot queries it is
// terminal; for persistent queries it may be called repeatedly until the
// query ends. A Succeed racing teardown of a persistent query is dropped
// silently, mirroring the engine router's handling of stale stream responses.
func (h *QueryHandle) Succeed(response string) {
	if h.persistent {
		switch h.core.state.Load() {
		case stateReleased:
			return
		case stateResolved:
			panic("webview: query handle: Succeed called after Fail")
		}
		h.c.eng.Post(func() {
			// Teardown may have won the race; the continuation is gone then.
			// A host Fail is fine: its Failure is queued behind this task.
			if h.core.state.Load() == stateReleased {
				return
			}
			h.cont.Success(response)
			h.r.markResponded(h.id)
		})
		metricQueriesResolved.WithLabelValues("success").Inc()
		return
	}
	h.core.consume("Succeed")
	h.c.eng.Post(func() {
		h.cont.Success(response)
		h.r.complete(h.id)
	})
	metricQueriesResolved.WithLabelValues("success").Inc()
	metricHandlesResolved.WithLabelValues("query").Inc()
}

// Fail delivers an error to the page. Always terminal.
func (h *QueryHandle) Fail(errorCode int, errorMessage string) {
	h.core.consume("Fail")
	h.c.eng.Post(func() {
		h.cont.Failure(errorCode, errorMessage)
		h.r.complete(h.id)
	})
	metricQueriesResolved.WithLabelValues("failure").Inc()
	metricHandlesResolved.WithLabelValues("query").Inc()
}

// forceRelease runs on the UI loop when the owning frame, browser or render
// process goes away before the host resolved the query.
func (h *QueryHandle) forceRelease() {
	if !h.core.release() {
		return
	}
	h.cont.Failure(QueryErrorCanceled, "the query has been canceled")
	metricHandlesForceReleased.WithLabelValues("query").Inc()
}
