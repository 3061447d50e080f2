package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "backtest_runs_total", Help: "Backtest pipeline runs completed"},
		[]string{"session"},
	)
	RowsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "pipeline_rows_total", Help: "Rows processed per pipeline stage"},
		[]string{"stage"},
	)
)

func init() {
	prometheus.MustRegister(RunsTotal, RowsTotal)
}

func Serve(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() { _ = srv.ListenAndServe() }()
	return srv
}
