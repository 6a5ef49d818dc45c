package webview

import (
	"go.uber.org/zap"

	"webframe/pkg/engine"
)

// queryRouter books page-to-host query transactions for one browser. All of
// its state is UI-loop affine: events mutate it directly, and handle
// resolutions post onto the loop before touching it.
type queryTxn struct {
	id         int64
	frameID    string
	persistent bool
	// responded is set once a persistent query delivered its first
	// response; such transactions are released silently at teardown.
	responded bool
	handle    *QueryHandle
}

type queryRouter struct {
	c *client
	// txns is nil once the router shut down.
	txns map[int64]*queryTxn
}

func newQueryRouter(c *client) *queryRouter {
	return &queryRouter{c: c, txns: make(map[int64]*queryTxn)}
}

// onQuery registers a transaction and delivers it to the host. Reports
// whether the query was taken.
func (r *queryRouter) onQuery(frame engine.Frame, queryID int64, request string, persistent bool, cont engine.QueryContinuation) bool {
	if r.c.cbs.OnQuery == nil {
		return false
	}
	h := &QueryHandle{
		core:       handleCore{kind: "query"},
		c:          r.c,
		r:          r,
		id:         queryID,
		persistent: persistent,
		cont:       cont,
	}
	r.txns[queryID] = &queryTxn{
		id:         queryID,
		frameID:    frame.Identifier(),
		persistent: persistent,
		handle:     h,
	}
	metricQueriesOpened.Inc()
	r.c.log.Debug("query opened",
		zap.Int64("query_id", queryID),
		zap.Bool("persistent", persistent))
	r.c.cbs.OnQuery(newFrame(r.c.eng, frame), request, persistent, h)
	return true
}

// onQueryCanceled handles a page-side cancellation.
func (r *queryRouter) onQueryCanceled(queryID int64) {
	if t, ok := r.txns[queryID]; ok {
		r.cancel(t)
	}
}

// onNavigate cancels transactions owned by a frame that is navigating away.
func (r *queryRouter) onNavigate(frame engine.Frame) {
	id := frame.Identifier()
	for _, t := range r.snapshot() {
		if t.frameID == id {
			r.cancel(t)
		}
	}
}

// onRenderProcessTerminated force-cancels every transaction; the renderer
// holding the page side is gone.
func (r *queryRouter) onRenderProcessTerminated() {
	for _, t := range r.snapshot() {
		r.cancel(t)
	}
}

// shutdown runs from OnBeforeClose; it must not fail and must leave no
// continuation unresolved.
func (r *queryRouter) shutdown() {
	for _, t := range r.snapshot() {
		r.cancel(t)
	}
	r.txns = nil
}

func (r *queryRouter) snapshot() []*queryTxn {
	out := make([]*queryTxn, 0, len(r.txns))
	for _, t := range r.txns {
		out = append(out, t)
	}
	return out
}

// cancel ends a transaction. The host is notified only when it still owes an
// answer; the continuation is always resolved.
func (r *queryRouter) cancel(t *queryTxn) {
	delete(r.txns, t.id)
	unanswered := t.handle.core.pending() && !t.responded
	t.handle.forceRelease()
	metricQueriesCancelled.Inc()
	r.c.log.Debug("query cancelled",
		zap.Int64("query_id", t.id),
		zap.Bool("notified", unanswered))
	if unanswered && r.c.cbs.OnQueryCancelled != nil {
		r.c.cbs.OnQueryCancelled(t.id)
	}
}

// complete removes a transaction terminated by a host resolution. Runs on
// the loop, possibly after shutdown.
func (r *queryRouter) complete(queryID int64) {
	if r.txns == nil {
		return
	}
	delete(r.txns, queryID)
}

// markResponded records the first streamed response of a persistent query.
func (r *queryRouter) markResponded(queryID int64) {
	if r.txns == nil {
		return
	}
	if t, ok := r.txns[queryID]; ok {
		t.responded = true
	}
}
