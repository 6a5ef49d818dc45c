package webview

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"webframe/pkg/engine"
)

// client is the single point of contact the engine calls into for one
// browser session. It implements every handler interface in pkg/engine and
// fans events out to the host callback table, constructing frame references
// and continuation handles as needed.
//
// Apart from the size fields (guarded by mu so SetSize works cross-thread),
// all state is UI-loop affine.
type client struct {
	b   *Browser
	eng engine.Engine
	cbs BrowserCallbacks
	log *zap.Logger

	mu     sync.Mutex
	width  int
	height int
	scale  float64

	router  *queryRouter
	dialogs map[forceReleasable]struct{}

	// destroyed is set by OnBeforeClose; everything after it is dropped.
	destroyed bool
}

func newClient(b *Browser, opts Options) *client {
	return &client{
		b:       b,
		eng:     b.eng,
		cbs:     opts.Callbacks,
		log:     opts.Logger.Named("webview").With(zap.String("browser_id", opts.ID)),
		width:   opts.Width,
		height:  opts.Height,
		scale:   opts.DeviceScaleFactor,
		dialogs: make(map[forceReleasable]struct{}),
	}
}

// affine asserts the engine's delivery contract. Events off the UI loop are
// programming errors, not recoverable runtime states.
func (c *client) affine(event string) {
	if !c.eng.OnLoop() {
		panic(fmt.Sprintf("webview: %s delivered off the engine UI loop", event))
	}
}

// gone reports (and logs) callbacks racing browser teardown.
func (c *client) gone(event string) bool {
	if !c.destroyed {
		return false
	}
	c.log.Warn("dropped engine callback after close", zap.String("event", event))
	return true
}

// setSize is idempotent: it reports false when nothing changed.
func (c *client) setSize(width, height int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.width == width && c.height == height {
		return false
	}
	c.width = width
	c.height = height
	return true
}

func (c *client) size() (int, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.width, c.height
}

func (c *client) trackDialog(h forceReleasable) {
	c.dialogs[h] = struct{}{}
}

// untrackDialog runs on the UI loop from handle resolutions.
func (c *client) untrackDialog(h forceReleasable) {
	if c.dialogs != nil {
		delete(c.dialogs, h)
	}
}

/////////////////////////////////////////////////////////////////
// engine.RenderHandler
/////////////////////////////////////////////////////////////////

func (c *client) ScreenInfo() (engine.ScreenInfo, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return engine.ScreenInfo{DeviceScaleFactor: c.scale}, true
}

func (c *client) ViewRect() engine.Rect {
	c.mu.Lock()
	defer c.mu.Unlock()
	return engine.Rect{
		Width:  int(float64(c.width) / c.scale),
		Height: int(float64(c.height) / c.scale),
	}
}

func (c *client) OnPopupShow(b engine.Browser, show bool) {
	c.affine("OnPopupShow")
	if c.gone("OnPopupShow") {
		return
	}
	if c.cbs.OnPopupShow != nil {
		c.cbs.OnPopupShow(show)
	}
}

func (c *client) OnPopupSize(b engine.Browser, rect engine.Rect) {
	c.affine("OnPopupSize")
	if c.gone("OnPopupSize") {
		return
	}
	if c.cbs.OnPopupPosition != nil {
		c.cbs.OnPopupPosition(rect)
	}
}

func (c *client) OnPaint(b engine.Browser, kind engine.PaintElementType, dirtyRects []engine.Rect, buffer []byte, width, height int) {
	c.affine("OnPaint")
	if c.gone("OnPaint") {
		return
	}
	if c.cbs.OnPaint != nil {
		c.cbs.OnPaint(kind, dirtyRects, buffer, width, height)
	}
}

func (c *client) OnIMECompositionRangeChanged(b engine.Browser, selectedRange engine.Range, characterBounds []engine.Rect) {
	c.affine("OnIMECompositionRangeChanged")
	if c.gone("OnIMECompositionRangeChanged") {
		return
	}
	if c.cbs.OnImeCompositionRangeChanged == nil {
		return
	}
	c.cbs.OnImeCompositionRangeChanged(boundingRect(characterBounds))
}

// boundingRect is the union of the character bounds, matching what hosts
// need to place an IME candidate window.
func boundingRect(rects []engine.Rect) engine.Rect {
	if len(rects) == 0 {
		return engine.Rect{}
	}
	xmin, ymin := rects[0].X, rects[0].Y
	xmax, ymax := rects[0].X+rects[0].Width, rects[0].Y+rects[0].Height
	for _, r := range rects[1:] {
		if r.X < xmin {
			xmin = r.X
		}
		if r.Y < ymin {
			ymin = r.Y
		}
		if r.X+r.Width > xmax {
			xmax = r.X + r.Width
		}
		if r.Y+r.Height > ymax {
			ymax = r.Y + r.Height
		}
	}
	return engine.Rect{X: xmin, Y: ymin, Width: xmax - xmin, Height: ymax - ymin}
}

func (c *client) OnCursorChange(b engine.Browser, cursor engine.CursorType, custom *engine.CustomCursorInfo) bool {
	c.affine("OnCursorChange")
	if c.gone("OnCursorChange") {
		return false
	}
	if c.cbs.OnCursorChanged == nil {
		return false
	}
	if cursor != engine.CursorCustom {
		custom = nil
	}
	return c.cbs.OnCursorChanged(cursor, custom)
}

/////////////////////////////////////////////////////////////////
// engine.DisplayHandler
/////////////////////////////////////////////////////////////////

func (c *client) OnAddressChange(b engine.Browser, frame engine.Frame, url string) {
	c.affine("OnAddressChange")
	if c.gone("OnAddressChange") {
		return
	}
	if c.cbs.OnAddressChanged != nil {
		c.cbs.OnAddressChanged(newFrame(c.eng, frame), url)
	}
}

func (c *client) OnTitleChange(b engine.Browser, title string) {
	c.affine("OnTitleChange")
	if c.gone("OnTitleChange") {
		return
	}
	if c.cbs.OnTitleChanged != nil {
		c.cbs.OnTitleChanged(title)
	}
}

func (c *client) OnFaviconURLChange(b engine.Browser, iconURLs []string) {
	c.affine("OnFaviconURLChange")
	if c.gone("OnFaviconURLChange") {
		return
	}
	if c.cbs.OnFaviconURLsChanged != nil {
		c.cbs.OnFaviconURLsChanged(iconURLs)
	}
}

func (c *client) OnTooltip(b engine.Browser, text string) bool {
	c.affine("OnTooltip")
	if c.gone("OnTooltip") {
		return false
	}
	if c.cbs.OnTooltip != nil {
		c.cbs.OnTooltip(text)
	}
	return true
}

func (c *client) OnStatusMessage(b engine.Browser, text string) {
	c.affine("OnStatusMessage")
	if c.gone("OnStatusMessage") {
		return
	}
	if c.cbs.OnStatusMessage != nil {
		c.cbs.OnStatusMessage(text)
	}
}

func (c *client) OnConsoleMessage(b engine.Browser, level engine.LogSeverity, message, source string, line int) bool {
	c.affine("OnConsoleMessage")
	if c.gone("OnConsoleMessage") {
		return false
	}
	if c.cbs.OnConsoleMessage != nil {
		c.cbs.OnConsoleMessage(message, level, source, line)
	}
	return false
}

func (c *client) OnLoadingProgressChange(b engine.Browser, progress float64) {
	c.affine("OnLoadingProgressChange")
	if c.gone("OnLoadingProgressChange") {
		return
	}
	if c.cbs.OnLoadingProgressChanged != nil {
		c.cbs.OnLoadingProgressChanged(progress)
	}
}

/////////////////////////////////////////////////////////////////
// engine.LifeSpanHandler
/////////////////////////////////////////////////////////////////

func (c *client) OnAfterCreated(b engine.Browser) {
	c.affine("OnAfterCreated")
	if c.gone("OnAfterCreated") {
		return
	}
	c.router = newQueryRouter(c)
	c.b.browser = b
	if c.b.pendingURL != "" {
		b.MainFrame().LoadURL(c.b.pendingURL)
		c.b.pendingURL = ""
	}
	c.b.created.Store(true)
	metricBrowsersCreated.Inc()
	c.log.Info("browser created")
	if c.cbs.OnCreated != nil {
		c.cbs.OnCreated()
	}
	if c.b.closeRequested {
		host := b.Host()
		c.eng.Post(func() {
			host.Close(false)
		})
	}
}

func (c *client) OnBeforePopup(b engine.Browser, frame engine.Frame, targetURL string) bool {
	c.affine("OnBeforePopup")
	if c.gone("OnBeforePopup") {
		return true
	}
	if c.cbs.OnBeforePopup != nil {
		c.cbs.OnBeforePopup(targetURL)
	}
	return true
}

func (c *client) DoClose(b engine.Browser) bool {
	return false
}

func (c *client) OnBeforeClose(b engine.Browser) {
	c.affine("OnBeforeClose")
	if c.gone("OnBeforeClose") {
		return
	}
	if c.router != nil {
		c.router.shutdown()
	}
	for h := range c.dialogs {
		h.forceRelease()
	}
	c.dialogs = nil
	c.b.browser = nil
	c.b.created.Store(false)
	c.destroyed = true
	metricBrowsersClosed.Inc()
	c.log.Info("browser closed")
	if c.b.tracker != nil {
		c.b.tracker.BrowserDestroyed()
	}
	if c.cbs.OnClosed != nil {
		c.cbs.OnClosed()
	}
	close(c.b.done)
}

/////////////////////////////////////////////////////////////////
// engine.LoadHandler
/////////////////////////////////////////////////////////////////

func (c *client) OnLoadingStateChange(b engine.Browser, isLoading, canGoBack, canGoForward bool) {
	c.affine("OnLoadingStateChange")
	if c.gone("OnLoadingStateChange") {
		return
	}
	if c.cbs.OnLoadingStateChanged != nil {
		c.cbs.OnLoadingStateChanged(isLoading, canGoBack, canGoForward)
	}
}

func (c *client) OnLoadStart(b engine.Browser, frame engine.Frame) {
	c.affine("OnLoadStart")
	if c.gone("OnLoadStart") {
		return
	}
	if c.cbs.OnLoadStart != nil {
		c.cbs.OnLoadStart(newFrame(c.eng, frame))
	}
}

func (c *client) OnLoadEnd(b engine.Browser, frame engine.Frame, httpStatusCode int) {
	c.affine("OnLoadEnd")
	if c.gone("OnLoadEnd") {
		return
	}
	if c.cbs.OnLoadEnd != nil {
		c.cbs.OnLoadEnd(newFrame(c.eng, frame))
	}
	if c.b.browser != nil {
		c.b.browser.Host().SetFocus(c.b.focus)
	}
}

func (c *client) OnLoadError(b engine.Browser, frame engine.Frame, errorText, failedURL string) {
	c.affine("OnLoadError")
	if c.gone("OnLoadError") {
		return
	}
	if c.cbs.OnLoadError != nil {
		c.cbs.OnLoadError(newFrame(c.eng, frame), errorText, failedURL)
	}
}

/////////////////////////////////////////////////////////////////
// engine.DialogHandler
/////////////////////////////////////////////////////////////////

func (c *client) OnFileDialog(b engine.Browser, req engine.FileDialogRequest, cont engine.FileDialogContinuation) bool {
	c.affine("OnFileDialog")
	if c.gone("OnFileDialog") {
		cont.Cancel()
		return true
	}
	if c.cbs.OnFileDialog == nil {
		return false
	}
	h := newFileDialogHandle(c, cont)
	c.trackDialog(h)
	if !c.cbs.OnFileDialog(req, h) {
		c.untrackDialog(h)
		h.core.disown()
		return false
	}
	return true
}

/////////////////////////////////////////////////////////////////
// engine.ContextMenuHandler
/////////////////////////////////////////////////////////////////

func (c *client) RunContextMenu(b engine.Browser, frame engine.Frame, params *engine.ContextMenuParams) bool {
	c.affine("RunContextMenu")
	if c.gone("RunContextMenu") {
		return true
	}
	if c.cbs.OnContextMenu != nil {
		c.cbs.OnContextMenu(newFrame(c.eng, frame), *params)
	}
	// The native menu is always suppressed; menu UI belongs to the host.
	return true
}

/////////////////////////////////////////////////////////////////
// engine.FindHandler
/////////////////////////////////////////////////////////////////

func (c *client) OnFindResult(b engine.Browser, identifier, count int, selectionRect engine.Rect, activeMatchOrdinal int, finalUpdate bool) {
	c.affine("OnFindResult")
	if c.gone("OnFindResult") {
		return
	}
	if c.cbs.OnFindResult != nil {
		c.cbs.OnFindResult(identifier, count, selectionRect, activeMatchOrdinal, finalUpdate)
	}
}

/////////////////////////////////////////////////////////////////
// engine.JSDialogHandler
/////////////////////////////////////////////////////////////////

func (c *client) OnJSDialog(b engine.Browser, originURL string, kind engine.JSDialogType, message, defaultPrompt string, cont engine.JSDialogContinuation) bool {
	c.affine("OnJSDialog")
	if c.gone("OnJSDialog") {
		cont.Continue(false, "")
		return true
	}
	if c.cbs.OnJSDialog == nil {
		return false
	}
	h := newJSDialogHandle(c, cont)
	c.trackDialog(h)
	if !c.cbs.OnJSDialog(kind, message, defaultPrompt, h) {
		c.untrackDialog(h)
		h.core.disown()
		return false
	}
	return true
}

func (c *client) OnBeforeUnloadDialog(b engine.Browser, message string, isReload bool, cont engine.JSDialogContinuation) bool {
	c.affine("OnBeforeUnloadDialog")
	// Always proceed with the unload; the host is never consulted.
	cont.Continue(true, "")
	return true
}

/////////////////////////////////////////////////////////////////
// engine.RequestHandler
/////////////////////////////////////////////////////////////////

func (c *client) OnBeforeBrowse(b engine.Browser, frame engine.Frame) bool {
	c.affine("OnBeforeBrowse")
	if c.gone("OnBeforeBrowse") {
		return false
	}
	if c.router != nil {
		c.router.onNavigate(frame)
	}
	return false
}

func (c *client) OnRenderProcessTerminated(b engine.Browser, status engine.TerminationStatus, errorCode int, errorMessage string) {
	c.affine("OnRenderProcessTerminated")
	if c.gone("OnRenderProcessTerminated") {
		return
	}
	if c.router != nil {
		c.router.onRenderProcessTerminated()
	}
	c.log.Warn("render process terminated",
		zap.Int("status", int(status)),
		zap.Int("error_code", errorCode),
		zap.String("error", errorMessage))
	if c.cbs.OnRenderProcessTerminated != nil {
		c.cbs.OnRenderProcessTerminated(status, errorCode, errorMessage)
	}
}

/////////////////////////////////////////////////////////////////
// engine.FocusHandler
/////////////////////////////////////////////////////////////////

func (c *client) OnTakeFocus(b engine.Browser, next bool) {}

func (c *client) OnSetFocus(b engine.Browser) bool {
	return false
}

/////////////////////////////////////////////////////////////////
// engine.PermissionHandler
/////////////////////////////////////////////////////////////////

func (c *client) OnRequestMediaAccessPermission(b engine.Browser, frame engine.Frame, requestingOrigin string, requested engine.MediaPermission, cont engine.MediaAccessContinuation) bool {
	c.affine("OnRequestMediaAccessPermission")
	// Conservative default: no host policy hook exists, deny everything.
	cont.Continue(engine.MediaPermissionNone)
	return true
}

/////////////////////////////////////////////////////////////////
// engine.QueryHandler
/////////////////////////////////////////////////////////////////

func (c *client) OnQuery(b engine.Browser, frame engine.Frame, queryID int64, request string, persistent bool, cont engine.QueryContinuation) bool {
	c.affine("OnQuery")
	if c.gone("OnQuery") {
		cont.Failure(QueryErrorCanceled, "the query has been canceled")
		return true
	}
	if c.router == nil {
		return false
	}
	return c.router.onQuery(frame, queryID, request, persistent, cont)
}

func (c *client) OnQueryCanceled(b engine.Browser, frame engine.Frame, queryID int64) {
	c.affine("OnQueryCanceled")
	if c.gone("OnQueryCanceled") {
		return
	}
	if c.router != nil {
		c.router.onQueryCanceled(queryID)
	}
}
