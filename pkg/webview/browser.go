package webview

import (
	"sync/atomic"

	"webframe/pkg/engine"
)

// SizeResult reports whether a SetSize call changed anything.
type SizeResult int

const (
	SizeUnchanged SizeResult = iota
	SizeChanged
)

// Browser is one embedded browser session. Creation is asynchronous: the
// engine browser exists only between the OnCreated and OnClosed callbacks,
// and navigation or focus requested before creation is queued and applied
// once. Control methods are safe from any goroutine unless documented
// loop-affine; they never act on engine state inline, always via the loop.
type Browser struct {
	id      string
	eng     engine.Engine
	client  *client
	tracker BrowserTracker

	created atomic.Bool
	done    chan struct{}

	// Loop-affine session state.
	pendingURL     string
	focus          bool
	closeRequested bool
	browser        engine.Browser
	cursorX        int
	cursorY        int
}

// NewBrowser asks the engine to create a browser session. The returned
// Browser is usable immediately; commands issued before creation completes
// are queued.
func NewBrowser(eng engine.Engine, opts Options) (*Browser, error) {
	if eng == nil {
		return nil, ErrUnavailable
	}
	opts = opts.withDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	b := &Browser{
		id:      opts.ID,
		eng:     eng,
		tracker: opts.Tracker,
		done:    make(chan struct{}),
	}
	b.client = newClient(b, opts)
	url := opts.URL
	focus := opts.Focus
	closeAfterCreate := opts.CloseAfterCreate
	eng.Post(func() {
		b.pendingURL = url
		b.focus = focus
		b.closeRequested = closeAfterCreate
	})
	if b.tracker != nil {
		b.tracker.BrowserCreated()
	}
	eng.CreateBrowser(opts.engineOptions(), b.client)
	return b, nil
}

// ID returns the session identifier given at creation.
func (b *Browser) ID() string { return b.id }

// IsCreated reports whether the engine browser currently exists.
func (b *Browser) IsCreated() bool { return b.created.Load() }

// Done is closed when the engine confirms close completion.
func (b *Browser) Done() <-chan struct{} { return b.done }

// Size returns the current view size in pixels.
func (b *Browser) Size() (width, height int) {
	return b.client.size()
}

// SetSize resizes the view. Idempotent: resizing to the current size reports
// SizeUnchanged and does not touch the engine.
func (b *Browser) SetSize(width, height int) SizeResult {
	if !b.client.setSize(width, height) {
		return SizeUnchanged
	}
	b.eng.Post(func() {
		if b.browser != nil {
			b.browser.Host().WasResized()
		}
	})
	return SizeChanged
}

// LoadURL navigates the main frame. Before creation completes the URL is
// queued and applied exactly once when the browser exists.
func (b *Browser) LoadURL(url string) {
	if url == "" {
		return
	}
	b.eng.Post(func() {
		if b.browser == nil {
			b.pendingURL = url
			return
		}
		b.browser.MainFrame().LoadURL(url)
	})
}

// SetFocus requests or drops input focus. Queued until creation completes.
func (b *Browser) SetFocus(focus bool) {
	b.eng.Post(func() {
		b.focus = focus
		if b.browser != nil {
			b.browser.Host().SetFocus(focus)
		}
	})
}

// Destroy initiates browser teardown. If creation has not completed yet the
// close is queued and performed right after creation. Close completion is
// reported through OnClosed and Done.
func (b *Browser) Destroy() {
	b.eng.Post(func() {
		if b.browser == nil {
			b.closeRequested = true
			return
		}
		b.browser.Host().Close(false)
	})
}

// GoBack navigates one entry back in history, if possible.
func (b *Browser) GoBack() {
	b.eng.Post(func() {
		if b.browser != nil {
			b.browser.GoBack()
		}
	})
}

// GoForward navigates one entry forward in history, if possible.
func (b *Browser) GoForward() {
	b.eng.Post(func() {
		if b.browser != nil {
			b.browser.GoForward()
		}
	})
}

// Reload reloads the current page.
func (b *Browser) Reload() {
	b.eng.Post(func() {
		if b.browser != nil {
			b.browser.Reload()
		}
	})
}

// ReloadIgnoreCache reloads the current page bypassing the cache.
func (b *Browser) ReloadIgnoreCache() {
	b.eng.Post(func() {
		if b.browser != nil {
			b.browser.ReloadIgnoreCache()
		}
	})
}

// Find starts or continues a find-in-page. Results arrive via OnFindResult.
func (b *Browser) Find(text string, forward, matchCase, findNext bool) {
	b.eng.Post(func() {
		if b.browser != nil {
			b.browser.Host().Find(text, forward, matchCase, findNext)
		}
	})
}

// SetAudioMuted mutes or unmutes page audio.
func (b *Browser) SetAudioMuted(mute bool) {
	b.eng.Post(func() {
		if b.browser != nil {
			b.browser.Host().SetAudioMuted(mute)
		}
	})
}

// CanGoBack reports whether history navigation back is possible.
// Loop-affine: call from within a callback.
func (b *Browser) CanGoBack() bool {
	b.mustOnLoop("CanGoBack")
	return b.browser != nil && b.browser.CanGoBack()
}

// CanGoForward reports whether history navigation forward is possible.
// Loop-affine: call from within a callback.
func (b *Browser) CanGoForward() bool {
	b.mustOnLoop("CanGoForward")
	return b.browser != nil && b.browser.CanGoForward()
}

// AudioMuted reports whether page audio is muted. Loop-affine.
func (b *Browser) AudioMuted() bool {
	b.mustOnLoop("AudioMuted")
	return b.browser != nil && b.browser.Host().AudioMuted()
}

// MainFrame returns a reference to the main frame, or nil before creation.
// Loop-affine.
func (b *Browser) MainFrame() *Frame {
	b.mustOnLoop("MainFrame")
	if b.browser == nil {
		return nil
	}
	return newFrame(b.eng, b.browser.MainFrame())
}

// FocusedFrame returns a reference to the focused frame, or nil. Loop-affine.
func (b *Browser) FocusedFrame() *Frame {
	b.mustOnLoop("FocusedFrame")
	if b.browser == nil {
		return nil
	}
	f := b.browser.FocusedFrame()
	if f == nil {
		return nil
	}
	return newFrame(b.eng, f)
}

// FrameByName returns a reference to the named frame, or nil. Loop-affine.
func (b *Browser) FrameByName(name string) *Frame {
	b.mustOnLoop("FrameByName")
	if b.browser == nil {
		return nil
	}
	f := b.browser.FrameByName(name)
	if f == nil {
		return nil
	}
	return newFrame(b.eng, f)
}

// FrameByIdentifier returns a reference to the identified frame, or nil.
// Loop-affine.
func (b *Browser) FrameByIdentifier(id string) *Frame {
	b.mustOnLoop("FrameByIdentifier")
	if b.browser == nil {
		return nil
	}
	f := b.browser.FrameByIdentifier(id)
	if f == nil {
		return nil
	}
	return newFrame(b.eng, f)
}

func (b *Browser) mustOnLoop(op string) {
	if !b.eng.OnLoop() {
		panic("webview: " + op + " must be called on the engine UI loop")
	}
}

/////////////////////////////////////////////////////////////////
// Input injection
/////////////////////////////////////////////////////////////////

// SendMouseClick injects a click at the last mouse-move position.
func (b *Browser) SendMouseClick(button engine.MouseButton, mouseUp bool, clickCount int, modifiers engine.KeyModifiers) {
	if clickCount > 3 {
		clickCount = 3
	}
	b.eng.Post(func() {
		if b.browser == nil {
			return
		}
		ev := engine.MouseEvent{X: b.cursorX, Y: b.cursorY, Modifiers: modifiers}
		b.browser.Host().SendMouseClick(ev, button, mouseUp, clickCount)
	})
}

// SendMouseMove injects a pointer move and records the cursor position used
// by later click and wheel events.
func (b *Browser) SendMouseMove(x, y int, modifiers engine.KeyModifiers) {
	b.eng.Post(func() {
		if b.browser == nil {
			return
		}
		ev := engine.MouseEvent{X: x, Y: y, Modifiers: modifiers}
		b.browser.Host().SendMouseMove(ev, false)
		b.cursorX = x
		b.cursorY = y
	})
}

// SendMouseWheel injects a scroll at the last mouse-move position.
func (b *Browser) SendMouseWheel(deltaX, deltaY int) {
	b.eng.Post(func() {
		if b.browser == nil {
			return
		}
		ev := engine.MouseEvent{X: b.cursorX, Y: b.cursorY}
		b.browser.Host().SendMouseWheel(ev, deltaX, deltaY)
	})
}

// SendKey injects a raw key transition.
func (b *Browser) SendKey(down bool, keyCode int, modifiers engine.KeyModifiers) {
	b.eng.Post(func() {
		if b.browser == nil {
			return
		}
		kind := engine.KeyEventUp
		if down {
			kind = engine.KeyEventDown
		}
		b.browser.Host().SendKeyEvent(engine.KeyEvent{
			Type:      kind,
			KeyCode:   keyCode,
			Modifiers: modifiers,
		})
	})
}

// SendChar injects a character input event.
func (b *Browser) SendChar(ch rune) {
	b.eng.Post(func() {
		if b.browser == nil {
			return
		}
		b.browser.Host().SendKeyEvent(engine.KeyEvent{
			Type:      engine.KeyEventChar,
			KeyCode:   int(ch),
			Character: ch,
		})
	})
}

// IMESetComposition updates the in-progress IME composition.
func (b *Browser) IMESetComposition(text string, cursorBegin, cursorEnd int) {
	b.eng.Post(func() {
		if b.browser == nil {
			return
		}
		b.browser.Host().IMESetComposition(text, engine.Range{From: cursorBegin, To: cursorEnd})
	})
}

// IMECommitText commits composed text.
func (b *Browser) IMECommitText(text string) {
	b.eng.Post(func() {
		if b.browser == nil {
			return
		}
		b.browser.Host().IMECommitText(text)
	})
}
