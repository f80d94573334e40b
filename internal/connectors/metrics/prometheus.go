package metrics

import (
	"fmt"
	"runtime"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Store struct {
	Prometheus      *prometheus.Registry
	BuildInfo       prometheus.Counter
	RpcRequests     *prometheus.CounterVec
	SummaryHandlers *prometheus.HistogramVec
}

const Status = `status`
const Method = `method`

const StatusOk = `Ok`
const StatusFail = `Fail`

var Commit string

func New(promRegistry *prometheus.Registry, prefix, appName, env string) *Store {
	store := &Store{
		Prometheus: promRegistry,
		BuildInfo: promauto.NewCounter(prometheus.CounterOpts{
			Name: fmt.Sprintf("%s_metric_build_info", prefix),
			Help: "Build information",
			ConstLabels: prometheus.Labels{
				"name":    appName,
				"env":     env,
				"commit":  Commit,
				"version": runtime.Version(),
			},
		}),
		RpcRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: fmt.Sprintf("%s_upstream_rpc_requests_total", prefix),
			Help: "The total number of JSON-RPC calls forwarded to the node",
		}, []string{Method, Status}),
		SummaryHandlers: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    fmt.Sprintf("%s_upstream_rpc_seconds", prefix),
			Help:    "Time spent waiting for the node to answer a JSON-RPC call",
			Buckets: prometheus.DefBuckets,
		}, []string{Method}),
	}

	store.Prometheus.MustRegister(
		store.BuildInfo,
		store.RpcRequests,
		store.SummaryHandlers,
	)

	return store
}
