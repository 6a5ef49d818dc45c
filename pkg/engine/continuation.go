package engine

// Continuations are one-shot engine objects representing a deferred answer to
// an event. The engine hands one out with the event; exactly one terminal call
// must eventually be made on it, on the UI loop, or engine-side resources for
// the pending operation leak. The adapter enforces the exactly-once contract
// in pkg/webview and never leaves a continuation unresolved at teardown.

// FileDialogContinuation answers a file dialog request.
type FileDialogContinuation interface {
	// Continue completes the dialog with the chosen paths.
	Continue(paths []string)
	// Cancel dismisses the dialog without a selection.
	Cancel()
}

// JSDialogContinuation answers an alert/confirm/prompt or before-unload
// dialog. userInput is only meaningful for prompt dialogs.
type JSDialogContinuation interface {
	Continue(success bool, userInput string)
}

// QueryContinuation answers a page-initiated query. For persistent queries
// Success may be invoked repeatedly; Failure is always terminal.
type QueryContinuation interface {
	Success(response string)
	Failure(errorCode int, errorMessage string)
}

// MediaAccessContinuation answers a media capture permission request with the
// granted subset of the requested permissions.
type MediaAccessContinuation interface {
	Continue(allowed MediaPermission)
	Cancel()
}
