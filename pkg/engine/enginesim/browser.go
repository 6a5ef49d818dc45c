package enginesim

import (
	"fmt"
	"sync"

	"webframe/pkg/engine"
)

// Browser is a scripted engine browser. Command methods (the engine.Browser
// and engine.BrowserHost surfaces) enforce UI-loop affinity the way a real
// engine binding would; Emit helpers deliver native events to the client
// synchronously and may be called from any goroutine except the loop.
type Browser struct {
	e      *Engine
	opts   engine.BrowserOptions
	client engine.Client
	host   *Host
	main   *Frame

	mu           sync.Mutex
	frames       map[string]*Frame
	focusedFrame *Frame
	closed       bool
	canGoBack    bool
	canGoForward bool
	backs        int
	forwards     int
	reloads      int
	hardReloads  int
	nextFrameID  int
}

func newBrowser(e *Engine, opts engine.BrowserOptions, client engine.Client) *Browser {
	b := &Browser{
		e:      e,
		opts:   opts,
		client: client,
		frames: make(map[string]*Frame),
	}
	b.host = &Host{b: b}
	b.main = b.addFrameLocked("", true)
	b.focusedFrame = b.main
	return b
}

func (b *Browser) onLoop(op string) {
	if !b.e.OnLoop() {
		panic(fmt.Sprintf("enginesim: %s called off the UI loop", op))
	}
}

func (b *Browser) addFrameLocked(name string, main bool) *Frame {
	f := &Frame{
		id:   fmt.Sprintf("frame-%d", b.nextFrameID),
		name: name,
		main: main,
	}
	b.nextFrameID++
	b.frames[f.id] = f
	return f
}

// AddFrame registers a named subframe and returns it.
func (b *Browser) AddFrame(name string) *Frame {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.addFrameLocked(name, false)
}

// Main returns the concrete main frame.
func (b *Browser) Main() *Frame { return b.main }

// Options returns the options the browser was created with.
func (b *Browser) Options() engine.BrowserOptions { return b.opts }

// Closed reports whether the browser finished closing.
func (b *Browser) Closed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closed
}

// SetHistoryState scripts the back/forward availability.
func (b *Browser) SetHistoryState(canGoBack, canGoForward bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.canGoBack = canGoBack
	b.canGoForward = canGoForward
}

/////////////////////////////////////////////////////////////////
// engine.Browser
/////////////////////////////////////////////////////////////////

func (b *Browser) Host() engine.BrowserHost { return b.host }

func (b *Browser) MainFrame() engine.Frame {
	return b.main
}

func (b *Browser) FocusedFrame() engine.Frame {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.focusedFrame == nil {
		return nil
	}
	return b.focusedFrame
}

func (b *Browser) FrameByName(name string) engine.Frame {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, f := range b.frames {
		if f.name == name {
			return f
		}
	}
	return nil
}

func (b *Browser) FrameByIdentifier(id string) engine.Frame {
	b.mu.Lock()
	defer b.mu.Unlock()
	if f, ok := b.frames[id]; ok {
		return f
	}
	return nil
}

func (b *Browser) CanGoBack() bool {
	b.onLoop("CanGoBack")
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.canGoBack
}

func (b *Browser) CanGoForward() bool {
	b.onLoop("CanGoForward")
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.canGoForward
}

func (b *Browser) GoBack() {
	b.onLoop("GoBack")
	b.mu.Lock()
	defer b.mu.Unlock()
	b.backs++
}

func (b *Browser) GoForward() {
	b.onLoop("GoForward")
	b.mu.Lock()
	defer b.mu.Unlock()
	b.forwards++
}

func (b *Browser) Reload() {
	b.onLoop("Reload")
	b.mu.Lock()
	defer b.mu.Unlock()
	b.reloads++
}

func (b *Browser) ReloadIgnoreCache() {
	b.onLoop("ReloadIgnoreCache")
	b.mu.Lock()
	defer b.mu.Unlock()
	b.hardReloads++
}

// Reloads reports recorded plain and cache-bypassing reloads.
func (b *Browser) Reloads() (plain, ignoreCache int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.reloads, b.hardReloads
}

// HistoryMoves reports recorded back/forward commands.
func (b *Browser) HistoryMoves() (backs, forwards int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.backs, b.forwards
}

/////////////////////////////////////////////////////////////////
// Host
/////////////////////////////////////////////////////////////////

// Host implements engine.BrowserHost, recording every command.
type Host struct {
	b *Browser

	mu           sync.Mutex
	closeCalls   int
	resizes      int
	lastViewRect engine.Rect
	focusCalls   []bool
	audioMuted   bool
	findCalls    []FindCall
	mouseClicks  []MouseClick
	mouseMoves   []engine.MouseEvent
	wheels       []WheelEvent
	keys         []engine.KeyEvent
	compositions []string
	commits      []string
}

// FindCall records one Find command.
type FindCall struct {
	Text      string
	Forward   bool
	MatchCase bool
	FindNext  bool
}

// MouseClick records one click command.
type MouseClick struct {
	Event      engine.MouseEvent
	Button     engine.MouseButton
	MouseUp    bool
	ClickCount int
}

// WheelEvent records one scroll command.
type WheelEvent struct {
	Event  engine.MouseEvent
	DeltaX int
	DeltaY int
}

func (h *Host) Close(force bool) {
	h.b.onLoop("Close")
	h.mu.Lock()
	h.closeCalls++
	h.mu.Unlock()
	h.b.mu.Lock()
	if h.b.closed {
		h.b.mu.Unlock()
		return
	}
	h.b.mu.Unlock()
	// Close completion is asynchronous, like the real engine.
	h.b.e.Post(func() {
		h.b.mu.Lock()
		closed := h.b.closed
		h.b.mu.Unlock()
		if closed || h.b.client.DoClose(h.b) {
			return
		}
		h.b.mu.Lock()
		h.b.closed = true
		h.b.mu.Unlock()
		h.b.e.log.Debug("browser closing")
		h.b.client.OnBeforeClose(h.b)
	})
}

func (h *Host) WasResized() {
	h.b.onLoop("WasResized")
	rect := h.b.client.ViewRect()
	h.mu.Lock()
	defer h.mu.Unlock()
	h.resizes++
	h.lastViewRect = rect
}

// Resizes reports the number of WasResized commands and the view rect the
// client reported at the last one.
func (h *Host) Resizes() (int, engine.Rect) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.resizes, h.lastViewRect
}

func (h *Host) SetFocus(focus bool) {
	h.b.onLoop("SetFocus")
	h.mu.Lock()
	defer h.mu.Unlock()
	h.focusCalls = append(h.focusCalls, focus)
}

// FocusCalls returns the recorded focus commands.
func (h *Host) FocusCalls() []bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]bool(nil), h.focusCalls...)
}

func (h *Host) SetAudioMuted(mute bool) {
	h.b.onLoop("SetAudioMuted")
	h.mu.Lock()
	defer h.mu.Unlock()
	h.audioMuted = mute
}

func (h *Host) AudioMuted() bool {
	h.b.onLoop("AudioMuted")
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.audioMuted
}

func (h *Host) Find(text string, forward, matchCase, findNext bool) {
	h.b.onLoop("Find")
	h.mu.Lock()
	defer h.mu.Unlock()
	h.findCalls = append(h.findCalls, FindCall{Text: text, Forward: forward, MatchCase: matchCase, FindNext: findNext})
}

// FindCalls returns the recorded find commands.
func (h *Host) FindCalls() []FindCall {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]FindCall(nil), h.findCalls...)
}

func (h *Host) SendMouseClick(ev engine.MouseEvent, button engine.MouseButton, mouseUp bool, clickCount int) {
	h.b.onLoop("SendMouseClick")
	h.mu.Lock()
	defer h.mu.Unlock()
	h.mouseClicks = append(h.mouseClicks, MouseClick{Event: ev, Button: button, MouseUp: mouseUp, ClickCount: clickCount})
}

func (h *Host) SendMouseMove(ev engine.MouseEvent, leave bool) {
	h.b.onLoop("SendMouseMove")
	h.mu.Lock()
	defer h.mu.Unlock()
	h.mouseMoves = append(h.mouseMoves, ev)
}

func (h *Host) SendMouseWheel(ev engine.MouseEvent, deltaX, deltaY int) {
	h.b.onLoop("SendMouseWheel")
	h.mu.Lock()
	defer h.mu.Unlock()
	h.wheels = append(h.wheels, WheelEvent{Event: ev, DeltaX: deltaX, DeltaY: deltaY})
}

func (h *Host) SendKeyEvent(ev engine.KeyEvent) {
	h.b.onLoop("SendKeyEvent")
	h.mu.Lock()
	defer h.mu.Unlock()
	h.keys = append(h.keys, ev)
}

// InputLog returns the recorded input commands.
func (h *Host) InputLog() (clicks []MouseClick, moves []engine.MouseEvent, wheels []WheelEvent, keys []engine.KeyEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]MouseClick(nil), h.mouseClicks...),
		append([]engine.MouseEvent(nil), h.mouseMoves...),
		append([]WheelEvent(nil), h.wheels...),
		append([]engine.KeyEvent(nil), h.keys...)
}

func (h *Host) IMESetComposition(text string, cursor engine.Range) {
	h.b.onLoop("IMESetComposition")
	h.mu.Lock()
	defer h.mu.Unlock()
	h.compositions = append(h.compositions, text)
}

func (h *Host) IMECommitText(text string) {
	h.b.onLoop("IMECommitText")
	h.mu.Lock()
	defer h.mu.Unlock()
	h.commits = append(h.commits, text)
}

// IMELog returns the recorded composition updates and commits.
func (h *Host) IMELog() (compositions, commits []string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.compositions...), append([]string(nil), h.commits...)
}

// CloseCalls reports how many Close commands the host received.
func (h *Host) CloseCalls() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.closeCalls
}

/////////////////////////////////////////////////////////////////
// Frame
/////////////////////////////////////////////////////////////////

// Frame is a scripted engine frame.
type Frame struct {
	mu   sync.Mutex
	id   string
	name string
	url  string
	main bool

	loads []string
}

func (f *Frame) Identifier() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.id
}

func (f *Frame) Name() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.name
}

func (f *Frame) URL() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.url
}

func (f *Frame) IsMain() bool {
	return f.main
}

func (f *Frame) LoadURL(url string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.url = url
	f.loads = append(f.loads, url)
}

// Loads returns every URL the frame was asked to load.
func (f *Frame) Loads() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.loads...)
}

/////////////////////////////////////////////////////////////////
// Event injection
/////////////////////////////////////////////////////////////////

// EmitAddressChange delivers an address change for frame.
func (b *Browser) EmitAddressChange(f *Frame, url string) {
	b.e.Run(func() {
		f.mu.Lock()
		f.url = url
		f.mu.Unlock()
		b.client.OnAddressChange(b, f, url)
	})
}

// EmitTitleChange delivers a title change.
func (b *Browser) EmitTitleChange(title string) {
	b.e.Run(func() { b.client.OnTitleChange(b, title) })
}

// EmitFaviconURLChange delivers a favicon URL set.
func (b *Browser) EmitFaviconURLChange(urls []string) {
	b.e.Run(func() { b.client.OnFaviconURLChange(b, urls) })
}

// EmitTooltip delivers a tooltip request and reports whether the client
// handled it.
func (b *Browser) EmitTooltip(text string) bool {
	var handled bool
	b.e.Run(func() { handled = b.client.OnTooltip(b, text) })
	return handled
}

// EmitStatusMessage delivers a status message.
func (b *Browser) EmitStatusMessage(text string) {
	b.e.Run(func() { b.client.OnStatusMessage(b, text) })
}

// EmitConsoleMessage delivers a console message and reports whether default
// logging was suppressed.
func (b *Browser) EmitConsoleMessage(level engine.LogSeverity, message, source string, line int) bool {
	var suppressed bool
	b.e.Run(func() { suppressed = b.client.OnConsoleMessage(b, level, message, source, line) })
	return suppressed
}

// EmitLoadingProgress delivers a loading progress update.
func (b *Browser) EmitLoadingProgress(progress float64) {
	b.e.Run(func() { b.client.OnLoadingProgressChange(b, progress) })
}

// EmitLoadingStateChange delivers a loading state update.
func (b *Browser) EmitLoadingStateChange(isLoading, canGoBack, canGoForward bool) {
	b.SetHistoryState(canGoBack, canGoForward)
	b.e.Run(func() { b.client.OnLoadingStateChange(b, isLoading, canGoBack, canGoForward) })
}

// EmitLoadStart delivers a load start for frame.
func (b *Browser) EmitLoadStart(f *Frame) {
	b.e.Run(func() { b.client.OnLoadStart(b, f) })
}

// EmitLoadEnd delivers a load end for frame.
func (b *Browser) EmitLoadEnd(f *Frame, httpStatusCode int) {
	b.e.Run(func() { b.client.OnLoadEnd(b, f, httpStatusCode) })
}

// EmitLoadError delivers a load failure for frame.
func (b *Browser) EmitLoadError(f *Frame, errorText, failedURL string) {
	b.e.Run(func() { b.client.OnLoadError(b, f, errorText, failedURL) })
}

// EmitPaint delivers a paint with a zeroed BGRA buffer of the given size.
func (b *Browser) EmitPaint(kind engine.PaintElementType, dirty []engine.Rect, width, height int) {
	buf := make([]byte, width*height*4)
	b.e.Run(func() { b.client.OnPaint(b, kind, dirty, buf, width, height) })
}

// EmitPopupShow delivers a popup visibility change.
func (b *Browser) EmitPopupShow(show bool) {
	b.e.Run(func() { b.client.OnPopupShow(b, show) })
}

// EmitPopupSize delivers a popup placement.
func (b *Browser) EmitPopupSize(rect engine.Rect) {
	b.e.Run(func() { b.client.OnPopupSize(b, rect) })
}

// EmitCursorChange delivers a cursor change and reports whether the client
// handled it.
func (b *Browser) EmitCursorChange(cursor engine.CursorType, custom *engine.CustomCursorInfo) bool {
	var handled bool
	b.e.Run(func() { handled = b.client.OnCursorChange(b, cursor, custom) })
	return handled
}

// EmitIMECompositionBounds delivers IME character bounds.
func (b *Browser) EmitIMECompositionBounds(selected engine.Range, bounds []engine.Rect) {
	b.e.Run(func() { b.client.OnIMECompositionRangeChanged(b, selected, bounds) })
}

// EmitFindResult delivers a find-in-page result.
func (b *Browser) EmitFindResult(identifier, count int, selection engine.Rect, activeMatchOrdinal int, finalUpdate bool) {
	b.e.Run(func() { b.client.OnFindResult(b, identifier, count, selection, activeMatchOrdinal, finalUpdate) })
}

// EmitContextMenu delivers a context menu request and reports whether the
// native menu was suppressed.
func (b *Browser) EmitContextMenu(f *Frame, params engine.ContextMenuParams) bool {
	var suppressed bool
	b.e.Run(func() { suppressed = b.client.RunContextMenu(b, f, &params) })
	return suppressed
}

// EmitBeforePopup delivers a popup request and reports whether it was
// cancelled.
func (b *Browser) EmitBeforePopup(f *Frame, targetURL string) bool {
	var cancelled bool
	b.e.Run(func() { cancelled = b.client.OnBeforePopup(b, f, targetURL) })
	return cancelled
}

// EmitFileDialog delivers a file dialog request. It returns the continuation
// recorder and whether the client took the dialog.
func (b *Browser) EmitFileDialog(req engine.FileDialogRequest) (*FileDialogRecorder, bool) {
	rec := &FileDialogRecorder{}
	var handled bool
	b.e.Run(func() { handled = b.client.OnFileDialog(b, req, rec) })
	return rec, handled
}

// EmitJSDialog delivers a JS dialog request. It returns the continuation
// recorder and whether the client took the dialog.
func (b *Browser) EmitJSDialog(originURL string, kind engine.JSDialogType, message, defaultPrompt string) (*JSDialogRecorder, bool) {
	rec := &JSDialogRecorder{}
	var handled bool
	b.e.Run(func() { handled = b.client.OnJSDialog(b, originURL, kind, message, defaultPrompt, rec) })
	return rec, handled
}

// EmitBeforeUnloadDialog delivers a before-unload dialog request.
func (b *Browser) EmitBeforeUnloadDialog(message string, isReload bool) (*JSDialogRecorder, bool) {
	rec := &JSDialogRecorder{}
	var handled bool
	b.e.Run(func() { handled = b.client.OnBeforeUnloadDialog(b, message, isReload, rec) })
	return rec, handled
}

// EmitMediaAccessRequest delivers a media permission prompt.
func (b *Browser) EmitMediaAccessRequest(f *Frame, origin string, requested engine.MediaPermission) (*MediaAccessRecorder, bool) {
	rec := &MediaAccessRecorder{}
	var handled bool
	b.e.Run(func() { handled = b.client.OnRequestMediaAccessPermission(b, f, origin, requested, rec) })
	return rec, handled
}

// EmitQuery delivers a page query. It returns the continuation recorder and
// whether the client took the query.
func (b *Browser) EmitQuery(f *Frame, queryID int64, request string, persistent bool) (*QueryRecorder, bool) {
	rec := &QueryRecorder{}
	var handled bool
	b.e.Run(func() { handled = b.client.OnQuery(b, f, queryID, request, persistent, rec) })
	return rec, handled
}

// EmitQueryCancel delivers a page-side query cancellation.
func (b *Browser) EmitQueryCancel(f *Frame, queryID int64) {
	b.e.Run(func() { b.client.OnQueryCanceled(b, f, queryID) })
}

// EmitBeforeBrowse delivers a navigation start for frame and reports whether
// the navigation was cancelled.
func (b *Browser) EmitBeforeBrowse(f *Frame) bool {
	var cancelled bool
	b.e.Run(func() { cancelled = b.client.OnBeforeBrowse(b, f) })
	return cancelled
}

// KillRenderProcess delivers a render process termination.
func (b *Browser) KillRenderProcess(status engine.TerminationStatus, errorCode int, errorMessage string) {
	b.e.Run(func() { b.client.OnRenderProcessTerminated(b, status, errorCode, errorMessage) })
}
