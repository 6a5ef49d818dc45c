package webview

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metricBrowsersCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "webframe",
		Name:      "browsers_created_total",
		Help:      "Browsers whose engine-side creation completed.",
	})
	metricBrowsersClosed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "webframe",
		Name:      "browsers_closed_total",
		Help:      "Browsers whose engine-side close completed.",
	})
	metricQueriesOpened = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "webframe",
		Name:      "queries_opened_total",
		Help:      "Page-to-host query transactions delivered to the host.",
	})
	metricQueriesResolved = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "webframe",
		Name:      "queries_resolved_total",
		Help:      "Host resolutions of query transactions, by result.",
	}, []string{"result"})
	metricQueriesCancelled = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "webframe",
		Name:      "queries_cancelled_total",
		Help:      "Query transactions ended by cancellation or teardown.",
	})
	metricHandlesResolved = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "webframe",
		Name:      "handles_resolved_total",
		Help:      "Continuation handles resolved by the host, by kind.",
	}, []string{"kind"})
	metricHandlesForceReleased = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "webframe",
		Name:      "handles_force_released_total",
		Help:      "Continuation handles released by teardown before the host resolved them, by kind.",
	}, []string{"kind"})
)
