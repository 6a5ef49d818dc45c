package enginesim

import (
	"sync"

	"webframe/pkg/engine"
)

// The recorders below implement the engine continuation interfaces and store
// every terminal call so tests can assert on resolution order and payloads.
// They do not enforce the exactly-once contract themselves; that is the
// adapter's job, and the recorders exist to observe it.

// FileDialogRecorder records the resolution of a file dialog continuation.
type FileDialogRecorder struct {
	mu        sync.Mutex
	continued [][]string
	cancels   int
}

func (r *FileDialogRecorder) Continue(paths []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.continued = append(r.continued, append([]string(nil), paths...))
}

func (r *FileDialogRecorder) Cancel() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cancels++
}

// Resolutions returns the recorded Continue payloads and Cancel count.
func (r *FileDialogRecorder) Resolutions() (continued [][]string, cancels int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([][]string(nil), r.continued...), r.cancels
}

// JSDialogRecorder records the resolution of a JS dialog continuation.
type JSDialogRecorder struct {
	mu      sync.Mutex
	results []JSDialogResult
}

// JSDialogResult is one Continue call on a JS dialog continuation.
type JSDialogResult struct {
	Success   bool
	UserInput string
}

func (r *JSDialogRecorder) Continue(success bool, userInput string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results = append(r.results, JSDialogResult{Success: success, UserInput: userInput})
}

// Results returns the recorded Continue calls.
func (r *JSDialogRecorder) Results() []JSDialogResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]JSDialogResult(nil), r.results...)
}

// QueryRecorder records the resolution of a query continuation.
type QueryRecorder struct {
	mu        sync.Mutex
	successes []string
	failures  []QueryFailure
}

// QueryFailure is one Failure call on a query continuation.
type QueryFailure struct {
	Code    int
	Message string
}

func (r *QueryRecorder) Success(response string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.successes = append(r.successes, response)
}

func (r *QueryRecorder) Failure(errorCode int, errorMessage string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures = append(r.failures, QueryFailure{Code: errorCode, Message: errorMessage})
}

// Successes returns the recorded Success payloads in delivery order.
func (r *QueryRecorder) Successes() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.successes...)
}

// Failures returns the recorded Failure calls.
func (r *QueryRecorder) Failures() []QueryFailure {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]QueryFailure(nil), r.failures...)
}

// MediaAccessRecorder records the resolution of a media permission
// continuation.
type MediaAccessRecorder struct {
	mu      sync.Mutex
	allowed []engine.MediaPermission
	cancels int
}

func (r *MediaAccessRecorder) Continue(allowed engine.MediaPermission) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.allowed = append(r.allowed, allowed)
}

func (r *MediaAccessRecorder) Cancel() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cancels++
}

// Resolutions returns the recorded Continue payloads and Cancel count.
func (r *MediaAccessRecorder) Resolutions() (allowed []engine.MediaPermission, cancels int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]engine.MediaPermission(nil), r.allowed...), r.cancels
}
