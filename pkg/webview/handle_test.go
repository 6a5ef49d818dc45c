package webview_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"webframe/pkg/engine"
	"webframe/pkg/engine/enginesim"
	"webframe/pkg/webview"
)

func TestFileDialogAccept(t *testing.T) {
	var got *webview.FileDialogHandle
	var gotReq engine.FileDialogRequest
	eng, _, page := newSession(t, webview.Options{
		Callbacks: webview.BrowserCallbacks{
			OnFileDialog: func(req engine.FileDialogRequest, h *webview.FileDialogHandle) bool {
				gotReq = req
				got = h
				return true
			},
		},
	})

	rec, handled := page.EmitFileDialog(engine.FileDialogRequest{
		Mode:  engine.FileDialogOpen,
		Title: "Pick a file",
	})
	require.True(t, handled)
	require.Equal(t, "Pick a file", gotReq.Title)
	require.NotNil(t, got)

	// Resolution may come from any goroutine; the continuation fires on the
	// loop.
	got.Accept([]string{"/tmp/a.txt", "/tmp/b.txt"})
	eng.Sync()

	continued, cancels := rec.Resolutions()
	require.Equal(t, [][]string{{"/tmp/a.txt", "/tmp/b.txt"}}, continued)
	require.Equal(t, 0, cancels)

	// The handle is spent.
	require.Panics(t, func() { got.Accept(nil) })
	require.Panics(t, func() { got.Cancel() })
}

func TestFileDialogCancel(t *testing.T) {
	var got *webview.FileDialogHandle
	eng, _, page := newSession(t, webview.Options{
		Callbacks: webview.BrowserCallbacks{
			OnFileDialog: func(req engine.FileDialogRequest, h *webview.FileDialogHandle) bool {
				got = h
				return true
			},
		},
	})

	rec, handled := page.EmitFileDialog(engine.FileDialogRequest{})
	require.True(t, handled)

	got.Cancel()
	eng.Sync()

	continued, cancels := rec.Resolutions()
	require.Empty(t, continued)
	require.Equal(t, 1, cancels)
}

func TestFileDialogDeclinedStaysWithEngine(t *testing.T) {
	var got *webview.FileDialogHandle
	_, b, page := newSession(t, webview.Options{
		Callbacks: webview.BrowserCallbacks{
			OnFileDialog: func(req engine.FileDialogRequest, h *webview.FileDialogHandle) bool {
				got = h
				return false
			},
		},
	})

	rec, handled := page.EmitFileDialog(engine.FileDialogRequest{})
	require.False(t, handled)

	// Declining hands the continuation back to the engine; the dead handle
	// rejects any later resolution.
	require.Panics(t, func() { got.Accept(nil) })

	// Teardown must not touch the declined continuation either.
	b.Destroy()
	waitDone(t, b)
	continued, cancels := rec.Resolutions()
	require.Empty(t, continued)
	require.Equal(t, 0, cancels)
}

func TestFileDialogForceReleasedOnClose(t *testing.T) {
	var got *webview.FileDialogHandle
	_, b, page := newSession(t, webview.Options{
		Callbacks: webview.BrowserCallbacks{
			OnFileDialog: func(req engine.FileDialogRequest, h *webview.FileDialogHandle) bool {
				got = h
				return true
			},
		},
	})

	rec, handled := page.EmitFileDialog(engine.FileDialogRequest{})
	require.True(t, handled)

	b.Destroy()
	waitDone(t, b)

	// Teardown cancelled the dialog on the host's behalf.
	_, cancels := rec.Resolutions()
	require.Equal(t, 1, cancels)

	// Resolving a released handle is a caller error.
	require.Panics(t, func() { got.Accept([]string{"/tmp/late"}) })
}

func TestFileDialogAfterCloseCancelledInline(t *testing.T) {
	called := false
	_, b, page := newSession(t, webview.Options{
		Callbacks: webview.BrowserCallbacks{
			OnFileDialog: func(req engine.FileDialogRequest, h *webview.FileDialogHandle) bool {
				called = true
				return true
			},
		},
	})
	b.Destroy()
	waitDone(t, b)

	rec, handled := page.EmitFileDialog(engine.FileDialogRequest{})
	require.True(t, handled)
	require.False(t, called)
	_, cancels := rec.Resolutions()
	require.Equal(t, 1, cancels)
}

func TestJSDialogPrompt(t *testing.T) {
	var got *webview.JSDialogHandle
	var gotKind engine.JSDialogType
	var gotDefault string
	eng, _, page := newSession(t, webview.Options{
		Callbacks: webview.BrowserCallbacks{
			OnJSDialog: func(kind engine.JSDialogType, message, defaultPrompt string, h *webview.JSDialogHandle) bool {
				gotKind = kind
				gotDefault = defaultPrompt
				got = h
				return true
			},
		},
	})

	rec, handled := page.EmitJSDialog("https://example.com", engine.JSDialogPrompt, "Name?", "anonymous")
	require.True(t, handled)
	require.Equal(t, engine.JSDialogPrompt, gotKind)
	require.Equal(t, "anonymous", gotDefault)

	got.Accept("ferris")
	eng.Sync()
	require.Equal(t, []enginesim.JSDialogResult{{Success: true, UserInput: "ferris"}}, rec.Results())

	require.Panics(t, func() { got.Cancel() })
}

func TestJSDialogCancelAndForceRelease(t *testing.T) {
	handles := make([]*webview.JSDialogHandle, 0, 2)
	eng, b, page := newSession(t, webview.Options{
		Callbacks: webview.BrowserCallbacks{
			OnJSDialog: func(kind engine.JSDialogType, message, defaultPrompt string, h *webview.JSDialogHandle) bool {
				handles = append(handles, h)
				return true
			},
		},
	})

	recA, _ := page.EmitJSDialog("https://example.com", engine.JSDialogConfirm, "Sure?", "")
	recB, _ := page.EmitJSDialog("https://example.com", engine.JSDialogAlert, "Hello", "")
	require.Len(t, handles, 2)

	handles[0].Cancel()
	eng.Sync()
	require.Equal(t, []enginesim.JSDialogResult{{Success: false}}, recA.Results())

	// The second dialog is still pending at close; teardown dismisses it.
	b.Destroy()
	waitDone(t, b)
	require.Equal(t, []enginesim.JSDialogResult{{Success: false}}, recB.Results())
}

func TestBeforeUnloadDialogAutoAccepted(t *testing.T) {
	jsDialogCalled := false
	_, _, page := newSession(t, webview.Options{
		Callbacks: webview.BrowserCallbacks{
			OnJSDialog: func(kind engine.JSDialogType, message, defaultPrompt string, h *webview.JSDialogHandle) bool {
				jsDialogCalled = true
				return true
			},
		},
	})

	rec, handled := page.EmitBeforeUnloadDialog("Leave site?", false)
	require.True(t, handled)
	// The unload proceeds without consulting the host.
	require.False(t, jsDialogCalled)
	require.Equal(t, []enginesim.JSDialogResult{{Success: true}}, rec.Results())
}

func TestMediaAccessAutoDenied(t *testing.T) {
	_, _, page := newSession(t, webview.Options{})

	rec, handled := page.EmitMediaAccessRequest(page.Main(), "https://example.com",
		engine.MediaPermissionAudioCapture|engine.MediaPermissionVideoCapture)
	require.True(t, handled)
	allowed, cancels := rec.Resolutions()
	require.Equal(t, []engine.MediaPermission{engine.MediaPermissionNone}, allowed)
	require.Equal(t, 0, cancels)
}
