package webview_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"webframe/pkg/engine/enginesim"
	"webframe/pkg/webview"
)

// queryHost collects the query traffic a test session sees.
type queryHost struct {
	handles   map[int64]*webview.QueryHandle
	requests  []string
	cancelled []int64
}

func newQueryHost() *queryHost {
	return &queryHost{handles: make(map[int64]*webview.QueryHandle)}
}

func (q *queryHost) callbacks() webview.BrowserCallbacks {
	return webview.BrowserCallbacks{
		OnQuery: func(frame *webview.Frame, request string, persistent bool, h *webview.QueryHandle) {
			q.handles[h.ID()] = h
			q.requests = append(q.requests, request)
		},
		OnQueryCancelled: func(queryID int64) {
			q.cancelled = append(q.cancelled, queryID)
		},
	}
}

func TestQueryDelivery(t *testing.T) {
	host := newQueryHost()
	eng, _, page := newSession(t, webview.Options{Callbacks: host.callbacks()})

	rec, handled := page.EmitQuery(page.Main(), 7, "getTitle", false)
	require.True(t, handled)
	require.Equal(t, []string{"getTitle"}, host.requests)

	h := host.handles[7]
	require.NotNil(t, h)
	require.Equal(t, int64(7), h.ID())
	require.False(t, h.Persistent())

	h.Succeed("A Title")
	eng.Sync()
	require.Equal(t, []string{"A Title"}, rec.Successes())
	require.Empty(t, rec.Failures())

	// One-shot queries are spent after the first resolution.
	require.Panics(t, func() { h.Succeed("again") })
	require.Panics(t, func() { h.Fail(1, "late") })
}

func TestQueryFailure(t *testing.T) {
	host := newQueryHost()
	eng, _, page := newSession(t, webview.Options{Callbacks: host.callbacks()})

	rec, _ := page.EmitQuery(page.Main(), 1, "doThing", false)
	host.handles[1].Fail(404, "no such thing")
	eng.Sync()

	require.Empty(t, rec.Successes())
	require.Equal(t, []enginesim.QueryFailure{{Code: 404, Message: "no such thing"}}, rec.Failures())
}

func TestQueryWithoutHostHandler(t *testing.T) {
	_, _, page := newSession(t, webview.Options{})

	_, handled := page.EmitQuery(page.Main(), 1, "anyone home?", false)
	require.False(t, handled)
}

func TestPersistentQueryStreaming(t *testing.T) {
	host := newQueryHost()
	eng, _, page := newSession(t, webview.Options{Callbacks: host.callbacks()})

	rec, handled := page.EmitQuery(page.Main(), 42, "subscribe", true)
	require.True(t, handled)
	h := host.handles[42]
	require.True(t, h.Persistent())

	for i := 0; i < 3; i++ {
		h.Succeed(fmt.Sprintf("update-%d", i))
	}
	eng.Sync()
	require.Equal(t, []string{"update-0", "update-1", "update-2"}, rec.Successes())

	// The page navigates away: the stream ends. The host already answered,
	// so it is not told about the cancellation.
	page.EmitBeforeBrowse(page.Main())
	require.Empty(t, host.cancelled)
	require.Len(t, rec.Failures(), 1)
	require.Equal(t, webview.QueryErrorCanceled, rec.Failures()[0].Code)

	// A response racing the teardown is dropped, not a panic.
	h.Succeed("stale")
	eng.Sync()
	require.Equal(t, []string{"update-0", "update-1", "update-2"}, rec.Successes())

	// Fail after teardown is still a caller error.
	require.Panics(t, func() { h.Fail(1, "late") })
}

func TestPersistentQueryFailEndsStream(t *testing.T) {
	host := newQueryHost()
	eng, _, page := newSession(t, webview.Options{Callbacks: host.callbacks()})

	rec, _ := page.EmitQuery(page.Main(), 5, "subscribe", true)
	h := host.handles[5]
	h.Succeed("update-0")
	h.Fail(500, "source went away")
	eng.Sync()

	require.Equal(t, []string{"update-0"}, rec.Successes())
	require.Equal(t, []enginesim.QueryFailure{{Code: 500, Message: "source went away"}}, rec.Failures())

	// Succeed after Fail on a persistent handle is a caller error.
	require.Panics(t, func() { h.Succeed("after fail") })
}

func TestQueryCancelledByPage(t *testing.T) {
	host := newQueryHost()
	eng, _, page := newSession(t, webview.Options{Callbacks: host.callbacks()})

	rec, _ := page.EmitQuery(page.Main(), 9, "slowThing", false)
	page.EmitQueryCancel(page.Main(), 9)
	eng.Sync()

	// The host still owed an answer, so it hears about the cancellation and
	// the continuation is failed on its behalf.
	require.Equal(t, []int64{9}, host.cancelled)
	require.Len(t, rec.Failures(), 1)
	require.Equal(t, webview.QueryErrorCanceled, rec.Failures()[0].Code)

	require.Panics(t, func() { host.handles[9].Succeed("too late") })
}

func TestNavigationCancelsOnlyThatFramesQueries(t *testing.T) {
	host := newQueryHost()
	_, _, page := newSession(t, webview.Options{Callbacks: host.callbacks()})
	sub := page.AddFrame("sidebar")

	mainRec, _ := page.EmitQuery(page.Main(), 1, "main query", false)
	subRec, _ := page.EmitQuery(sub, 2, "sidebar query", false)

	page.EmitBeforeBrowse(sub)

	require.Equal(t, []int64{2}, host.cancelled)
	require.Empty(t, mainRec.Failures())
	require.Len(t, subRec.Failures(), 1)
}

func TestRenderProcessDeathCancelsAllQueries(t *testing.T) {
	host := newQueryHost()
	_, _, page := newSession(t, webview.Options{Callbacks: host.callbacks()})
	sub := page.AddFrame("sidebar")

	recA, _ := page.EmitQuery(page.Main(), 1, "a", false)
	recB, _ := page.EmitQuery(sub, 2, "b", true)

	page.KillRenderProcess(0, 9, "killed")

	require.ElementsMatch(t, []int64{1, 2}, host.cancelled)
	require.Len(t, recA.Failures(), 1)
	require.Len(t, recB.Failures(), 1)
}

func TestBrowserCloseCancelsPendingQueries(t *testing.T) {
	host := newQueryHost()
	_, b, page := newSession(t, webview.Options{Callbacks: host.callbacks()})

	rec, _ := page.EmitQuery(page.Main(), 3, "pending", false)
	b.Destroy()
	waitDone(t, b)

	require.Equal(t, []int64{3}, host.cancelled)
	require.Len(t, rec.Failures(), 1)
	require.Equal(t, webview.QueryErrorCanceled, rec.Failures()[0].Code)
}

func TestQueryAfterCloseFailedInline(t *testing.T) {
	host := newQueryHost()
	_, b, page := newSession(t, webview.Options{Callbacks: host.callbacks()})
	b.Destroy()
	waitDone(t, b)

	rec, handled := page.EmitQuery(page.Main(), 11, "late", false)
	require.True(t, handled)
	require.Empty(t, host.requests)
	require.Len(t, rec.Failures(), 1)
	require.Equal(t, webview.QueryErrorCanceled, rec.Failures()[0].Code)
}

func TestQueryResolutionFromAnotherGoroutine(t *testing.T) {
	done := make(chan struct{})
	eng, _, page := newSession(t, webview.Options{
		Callbacks: webview.BrowserCallbacks{
			OnQuery: func(frame *webview.Frame, request string, persistent bool, h *webview.QueryHandle) {
				go func() {
					defer close(done)
					h.Succeed("from a worker")
				}()
			},
		},
	})

	rec, handled := page.EmitQuery(page.Main(), 1, "work", false)
	require.True(t, handled)
	<-done
	eng.Sync()
	require.Equal(t, []string{"from a worker"}, rec.Successes())
}
