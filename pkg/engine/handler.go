package engine

// The handler interfaces below are the callback surface an embedding client
// presents to the engine, one narrow interface per event category. A client
// typically implements all of them on a single type (the webframe dispatcher
// does); the engine only depends on the role it is invoking.
//
// Every method is invoked on the UI loop. Slices and buffers passed in are
// borrowed for the duration of the call only.

// RenderHandler supplies view geometry and receives windowless rendering
// events.
type RenderHandler interface {
	// ScreenInfo describes the virtual screen. Returning ok=false leaves the
	// engine defaults in place.
	ScreenInfo() (info ScreenInfo, ok bool)

	// ViewRect returns the browser view rectangle in logical coordinates.
	ViewRect() Rect

	OnPopupShow(b Browser, show bool)
	OnPopupSize(b Browser, rect Rect)

	// OnPaint delivers a pixel buffer (BGRA, width*height*4 bytes) and the
	// rectangles that changed since the last paint.
	OnPaint(b Browser, kind PaintElementType, dirtyRects []Rect, buffer []byte, width, height int)

	OnIMECompositionRangeChanged(b Browser, selectedRange Range, characterBounds []Rect)

	// OnCursorChange reports a cursor shape change. Returning true marks the
	// change handled by the embedder.
	OnCursorChange(b Browser, cursor CursorType, custom *CustomCursorInfo) bool
}

// DisplayHandler receives address, title and other page display changes.
type DisplayHandler interface {
	OnAddressChange(b Browser, frame Frame, url string)
	OnTitleChange(b Browser, title string)
	OnFaviconURLChange(b Browser, iconURLs []string)
	// OnTooltip returns true when the embedder handles tooltip display.
	OnTooltip(b Browser, text string) bool
	OnStatusMessage(b Browser, text string)
	// OnConsoleMessage returns true to suppress default console output.
	OnConsoleMessage(b Browser, level LogSeverity, message, source string, line int) bool
	OnLoadingProgressChange(b Browser, progress float64)
}

// LifeSpanHandler receives browser lifetime events.
type LifeSpanHandler interface {
	OnAfterCreated(b Browser)
	// OnBeforePopup returns true to cancel the popup.
	OnBeforePopup(b Browser, frame Frame, targetURL string) bool
	// DoClose returns true to cancel the close.
	DoClose(b Browser) bool
	// OnBeforeClose is the terminal event: the browser object is invalid
	// after this call returns.
	OnBeforeClose(b Browser)
}

// LoadHandler receives navigation progress events.
type LoadHandler interface {
	OnLoadingStateChange(b Browser, isLoading, canGoBack, canGoForward bool)
	OnLoadStart(b Browser, frame Frame)
	OnLoadEnd(b Browser, frame Frame, httpStatusCode int)
	OnLoadError(b Browser, frame Frame, errorText, failedURL string)
}

// DialogHandler receives file dialog requests.
type DialogHandler interface {
	// OnFileDialog returns true when the embedder will run the dialog and
	// eventually resolve the continuation.
	OnFileDialog(b Browser, req FileDialogRequest, cont FileDialogContinuation) bool
}

// ContextMenuHandler receives context menu requests.
type ContextMenuHandler interface {
	// RunContextMenu returns true when the embedder displays its own menu,
	// suppressing the engine's native one.
	RunContextMenu(b Browser, frame Frame, params *ContextMenuParams) bool
}

// FindHandler receives find-in-page results.
type FindHandler interface {
	OnFindResult(b Browser, identifier, count int, selectionRect Rect, activeMatchOrdinal int, finalUpdate bool)
}

// JSDialogHandler receives JavaScript dialog requests.
type JSDialogHandler interface {
	// OnJSDialog returns true when the embedder handles the dialog.
	OnJSDialog(b Browser, originURL string, kind JSDialogType, message, defaultPrompt string, cont JSDialogContinuation) bool
	// OnBeforeUnloadDialog returns true when the embedder handles the dialog.
	OnBeforeUnloadDialog(b Browser, message string, isReload bool, cont JSDialogContinuation) bool
}

// RequestHandler receives navigation and render-process events.
type RequestHandler interface {
	// OnBeforeBrowse returns true to cancel the navigation.
	OnBeforeBrowse(b Browser, frame Frame) bool
	OnRenderProcessTerminated(b Browser, status TerminationStatus, errorCode int, errorMessage string)
}

// FocusHandler receives focus transitions.
type FocusHandler interface {
	OnTakeFocus(b Browser, next bool)
	// OnSetFocus returns true to cancel the focus change.
	OnSetFocus(b Browser) bool
}

// PermissionHandler receives permission prompts.
type PermissionHandler interface {
	// OnRequestMediaAccessPermission returns true when the embedder resolves
	// the continuation itself.
	OnRequestMediaAccessPermission(b Browser, frame Frame, requestingOrigin string, requested MediaPermission, cont MediaAccessContinuation) bool
}

// QueryHandler receives the page-to-host query pipe, multiplexed over the
// engine's process messaging.
type QueryHandler interface {
	// OnQuery returns true when the embedder takes ownership of the query
	// and will resolve the continuation.
	OnQuery(b Browser, frame Frame, queryID int64, request string, persistent bool, cont QueryContinuation) bool
	// OnQueryCanceled reports that the page side abandoned a pending query.
	OnQueryCanceled(b Browser, frame Frame, queryID int64)
}

// Client is the full callback surface a browser registers with the engine.
type Client interface {
	RenderHandler
	DisplayHandler
	LifeSpanHandler
	LoadHandler
	DialogHandler
	ContextMenuHandler
	FindHandler
	JSDialogHandler
	RequestHandler
	FocusHandler
	PermissionHandler
	QueryHandler
}
