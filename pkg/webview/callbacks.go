// Package webview embeds an off-process browser engine behind a host-facing
// callback table. It translates the engine's native event interfaces into the
// table, manages one-shot continuation handles for deferred answers (file
// dialogs, JS dialogs, page queries), and routes the page-to-host query pipe.
//
// All engine events arrive on the engine's single UI loop. Host control
// operations on Browser are safe from any goroutine; they are marshalled onto
// the loop internally. Handle resolutions are likewise safe from any
// goroutine and re-marshal before touching engine state.
package webview

import "webframe/pkg/engine"

// BrowserCallbacks is the fixed event table a host supplies at browser
// creation. Nil fields ignore the corresponding event. All callbacks are
// invoked on the engine's UI loop; buffers and slices passed in are only
// valid for the duration of the call.
type BrowserCallbacks struct {
	// OnCreated fires once the engine browser exists. Any navigation queued
	// before creation has already been applied when this fires.
	OnCreated func()

	// OnClosed fires when the engine confirms close completion. It is the
	// terminal event for the browser; no callback fires after it.
	OnClosed func()

	// OnPopupShow toggles visibility of the engine's popup widget
	// (dropdowns and similar), rendered by the host.
	OnPopupShow func(show bool)

	// OnPopupPosition places the popup widget in view coordinates.
	OnPopupPosition func(rect engine.Rect)

	// OnPaint delivers a BGRA pixel buffer and the dirty rectangles updated
	// since the previous paint. The buffer is borrowed; copy it to retain.
	OnPaint func(kind engine.PaintElementType, dirtyRects []engine.Rect, buffer []byte, width, height int)

	// OnImeCompositionRangeChanged reports the bounding rectangle of the
	// current IME composition.
	OnImeCompositionRangeChanged func(bounds engine.Rect)

	// OnCursorChanged reports a cursor shape change. Return true when the
	// host updated its cursor. custom is non-nil only for CursorCustom.
	OnCursorChanged func(cursor engine.CursorType, custom *engine.CustomCursorInfo) bool

	OnAddressChanged     func(frame *Frame, url string)
	OnTitleChanged       func(title string)
	OnFaviconURLsChanged func(urls []string)
	OnTooltip            func(text string)
	OnStatusMessage      func(text string)
	OnConsoleMessage     func(message string, level engine.LogSeverity, source string, line int)

	// OnBeforePopup fires when the page asks to open a new window. The
	// adapter always cancels the popup; the host may navigate instead.
	OnBeforePopup func(targetURL string)

	// OnLoadingProgressChanged reports overall progress in [0.0, 1.0].
	OnLoadingProgressChanged func(progress float64)

	OnLoadingStateChanged func(isLoading, canGoBack, canGoForward bool)
	OnLoadStart           func(frame *Frame)
	OnLoadEnd             func(frame *Frame)
	OnLoadError           func(frame *Frame, errorText, failedURL string)

	// OnFileDialog asks the host to run a file chooser. Return true and
	// resolve the handle exactly once (possibly later, from any goroutine),
	// or return false to leave the dialog to the engine; in that case the
	// handle is dead and must not be resolved.
	OnFileDialog func(req engine.FileDialogRequest, h *FileDialogHandle) bool

	// OnJSDialog asks the host to run an alert/confirm/prompt dialog, with
	// the same handle contract as OnFileDialog. Before-unload dialogs never
	// reach the host; the adapter accepts them itself.
	OnJSDialog func(kind engine.JSDialogType, message, defaultPrompt string, h *JSDialogHandle) bool

	// OnContextMenu reports a context menu request. The engine's native
	// menu is always suppressed; showing a menu is entirely up to the host.
	OnContextMenu func(frame *Frame, params engine.ContextMenuParams)

	OnFindResult func(identifier, count int, selectionRect engine.Rect, activeMatchOrdinal int, finalUpdate bool)

	// OnQuery delivers a page-initiated query. Resolve the handle with
	// Succeed or Fail; persistent queries accept repeated Succeed calls
	// until the page cancels or the frame is destroyed.
	OnQuery func(frame *Frame, request string, persistent bool, h *QueryHandle)

	// OnQueryCancelled reports that a query the host has not yet answered
	// was cancelled (page-side cancel, frame navigation or teardown). The
	// handle for that query is dead. Queries already answered do not
	// produce this notification.
	OnQueryCancelled func(queryID int64)

	// OnRenderProcessTerminated reports an engine renderer crash or kill.
	// Outstanding queries for the browser have already been cancelled when
	// this fires.
	OnRenderProcessTerminated func(status engine.TerminationStatus, errorCode int, errorMessage string)
}
