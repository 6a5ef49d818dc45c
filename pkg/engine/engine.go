// Package engine defines the boundary between the webframe adapter and an
// embedded browser engine. The engine is a black box: it delivers events on a
// single designated loop goroutine and accepts commands through the interfaces
// below. An engine binding implements this package; the adapter in pkg/webview
// consumes it and implements the handler interfaces the engine calls back on.
package engine

// TaskRunner schedules work onto the engine's UI loop. Every engine callback
// is delivered on that loop, and every command that touches engine state must
// be made from it.
type TaskRunner interface {
	// Post schedules task to run on the UI loop. It is safe to call from any
	// goroutine, including the loop itself (the task runs later, not inline).
	Post(task func())

	// OnLoop reports whether the caller is running on the UI loop.
	OnLoop() bool
}

// BrowserOptions is the engine-level configuration for a new browser.
type BrowserOptions struct {
	Width             int
	Height            int
	DeviceScaleFactor float64
	FrameRate         int
	BackgroundColor   uint32
	InjectJavaScript  string
}

// Engine creates browsers. Creation is asynchronous: CreateBrowser returns
// immediately and the engine invokes Client.OnAfterCreated on the UI loop once
// the browser exists.
type Engine interface {
	TaskRunner
	CreateBrowser(opts BrowserOptions, client Client)
}

// Launcher is the once-per-process bootstrap surface: engine initialization,
// helper-process dispatch and final teardown. Consumed by pkg/bootstrap.
type Launcher interface {
	// Initialize starts the engine's browser process machinery.
	Initialize(opts LaunchOptions) error

	// ExecProcess runs a helper process if the arguments identify one.
	// It reports true when the current process was a helper and has finished.
	ExecProcess(args []string) (bool, error)

	// Shutdown tears the engine down. All browsers must already be closed.
	Shutdown()
}

// LaunchOptions mirrors the process-wide engine settings.
type LaunchOptions struct {
	Locale         string
	CachePath      string
	RootCachePath  string
	SubprocessPath string
}

// Browser is the engine-side browser object, valid between the
// OnAfterCreated and OnBeforeClose callbacks for its client.
type Browser interface {
	Host() BrowserHost
	MainFrame() Frame
	FocusedFrame() Frame
	FrameByName(name string) Frame
	FrameByIdentifier(id string) Frame
	CanGoBack() bool
	CanGoForward() bool
	GoBack()
	GoForward()
	Reload()
	ReloadIgnoreCache()
}

// BrowserHost is the command surface of a browser: window management, focus,
// input injection and find. All methods must be called on the UI loop.
type BrowserHost interface {
	// Close initiates browser teardown. When force is true the unload
	// handlers are skipped. Completion is reported via OnBeforeClose.
	Close(force bool)

	// WasResized tells the engine the view rect changed; it re-queries
	// RenderHandler.ViewRect and repaints.
	WasResized()

	SetFocus(focus bool)
	SetAudioMuted(mute bool)
	AudioMuted() bool

	Find(text string, forward, matchCase, findNext bool)

	SendMouseClick(ev MouseEvent, button MouseButton, mouseUp bool, clickCount int)
	SendMouseMove(ev MouseEvent, leave bool)
	SendMouseWheel(ev MouseEvent, deltaX, deltaY int)
	SendKeyEvent(ev KeyEvent)

	IMESetComposition(text string, cursor Range)
	IMECommitText(text string)
}

// Frame is one navigable document context inside a browser. Frame values are
// reference-counted engine objects; the adapter wraps them in non-owning
// references before handing them to the host.
type Frame interface {
	Identifier() string
	Name() string
	URL() string
	IsMain() bool
	LoadURL(url string)
}
