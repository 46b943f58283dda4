package metrics

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shouni/go-geeknews/pkg/httpclient"
)

const namespace = "geeknews"

// Recorder はツールサーバーのメトリクスを独自のレジストリで管理します。
type Recorder struct {
	registry *prometheus.Registry

	pipelineRuns     *prometheus.CounterVec
	pipelineDuration *prometheus.HistogramVec
	fetches          *prometheus.CounterVec
	fetchDuration    prometheus.Histogram
	httpRequests     *prometheus.CounterVec
}

// New は Recorder を生成します。
func New() *Recorder {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		pipelineRuns: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "pipeline",
				Name:      "runs_total",
				Help:      "Total number of pipeline runs by operation and envelope status",
			},
			[]string{"operation", "status"},
		),
		pipelineDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "pipeline",
				Name:      "duration_seconds",
				Help:      "Pipeline run duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		fetches: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "fetch",
				Name:      "requests_total",
				Help:      "Total number of upstream fetches by outcome",
			},
			[]string{"outcome"},
		),
		fetchDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "fetch",
				Name:      "duration_seconds",
				Help:      "Upstream fetch duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
		),
		httpRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "server",
				Name:      "requests_total",
				Help:      "Total number of tool server requests",
			},
			[]string{"route", "code"},
		),
	}
}

// Registry は内部のレジストリを返します。
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler は /metrics 用のハンドラーです。
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// ObservePipeline はパイプライン1回分の結果を記録します。
func (r *Recorder) ObservePipeline(operation, status string, elapsed time.Duration) {
	r.pipelineRuns.WithLabelValues(operation, status).Inc()
	r.pipelineDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// ObserveRequest はツールサーバーへのリクエストを記録します。
func (r *Recorder) ObserveRequest(route string, code int) {
	r.httpRequests.WithLabelValues(route, strconv.Itoa(code)).Inc()
}

// InstrumentFetcher は取得ごとの結果と所要時間を記録するデコレーターを返します。
func (r *Recorder) InstrumentFetcher(next httpclient.Fetcher) httpclient.Fetcher {
	return &instrumentedFetcher{next: next, recorder: r}
}

type instrumentedFetcher struct {
	next     httpclient.Fetcher
	recorder *Recorder
}

func (f *instrumentedFetcher) FetchBytes(ctx context.Context, url string) ([]byte, error) {
	start := time.Now()
	body, err := f.next.FetchBytes(ctx, url)
	f.recorder.fetchDuration.Observe(time.Since(start).Seconds())
	f.recorder.fetches.WithLabelValues(outcome(err)).Inc()
	return body, err
}

// outcome はエラーをメトリクスのラベル値に分類します。
func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	if code, ok := httpclient.StatusCode(err); ok {
		return "status_" + strconv.Itoa(code)
	}
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	default:
		return "error"
	}
}
