package prometheus

import (
	"errors"
	"fmt"
	"time"

	"github.com/idlebridge/go-idle-bridge/core"
	prom "github.com/prometheus/client_golang/prometheus"
)

// ExporterOptions controls collector configuration.
type ExporterOptions struct {
	DurationBuckets []float64
}

// MetricsExporter adapts core.Metrics to Prometheus collectors.
type MetricsExporter struct {
	taskDurationSeconds prom.Histogram
	taskPanicTotal      prom.Counter
	idleNotifyTotal     prom.Counter
	queueDepth          prom.Gauge
}

var _ core.Metrics = (*MetricsExporter)(nil)

// NewMetricsExporter creates and registers Prometheus collectors for
// core.Metrics. Pass the exporter as SchedulerConfig.Metrics.
func NewMetricsExporter(namespace string, reg prom.Registerer, opts ExporterOptions) (*MetricsExporter, error) {
	if namespace == "" {
		namespace = "idlebridge"
	}
	if reg == nil {
		reg = prom.DefaultRegisterer
	}
	buckets := opts.DurationBuckets
	if len(buckets) == 0 {
		buckets = prom.DefBuckets
	}

	duration := prom.NewHistogram(prom.HistogramOpts{
		Namespace: namespace,
		Name:      "task_duration_seconds",
		Help:      "Pumped task execution duration in seconds.",
		Buckets:   buckets,
	})
	panicTotal := prom.NewCounter(prom.CounterOpts{
		Namespace: namespace,
		Name:      "task_panic_total",
		Help:      "Total number of task panics contained by the pump.",
	})
	notifyTotal := prom.NewCounter(prom.CounterOpts{
		Namespace: namespace,
		Name:      "idle_notify_total",
		Help:      "Total number of host idle notifications fired.",
	})
	depth := prom.NewGauge(prom.GaugeOpts{
		Namespace: namespace,
		Name:      "queue_depth",
		Help:      "Current number of tasks waiting for the pump.",
	})

	var err error
	if duration, err = registerCollector(reg, duration); err != nil {
		return nil, err
	}
	if panicTotal, err = registerCollector(reg, panicTotal); err != nil {
		return nil, err
	}
	if notifyTotal, err = registerCollector(reg, notifyTotal); err != nil {
		return nil, err
	}
	if depth, err = registerCollector(reg, depth); err != nil {
		return nil, err
	}

	return &MetricsExporter{
		taskDurationSeconds: duration,
		taskPanicTotal:      panicTotal,
		idleNotifyTotal:     notifyTotal,
		queueDepth:          depth,
	}, nil
}

// RecordTaskDuration records task execution duration.
func (m *MetricsExporter) RecordTaskDuration(duration time.Duration) {
	if m == nil {
		return
	}
	m.taskDurationSeconds.Observe(duration.Seconds())
}

// RecordTaskPanic records task panic events.
func (m *MetricsExporter) RecordTaskPanic(panicInfo any) {
	if m == nil {
		return
	}
	m.taskPanicTotal.Inc()
}

// RecordQueueDepth records queue depth.
func (m *MetricsExporter) RecordQueueDepth(depth int) {
	if m == nil {
		return
	}
	m.queueDepth.Set(float64(depth))
}

// RecordIdleNotify records host idle notifications.
func (m *MetricsExporter) RecordIdleNotify() {
	if m == nil {
		return
	}
	m.idleNotifyTotal.Inc()
}

func registerCollector[T prom.Collector](reg prom.Registerer, collector T) (T, error) {
	err := reg.Register(collector)
	if err == nil {
		return collector, nil
	}

	var alreadyRegisteredErr prom.AlreadyRegisteredError
	if errors.As(err, &alreadyRegisteredErr) {
		existing, ok := alreadyRegisteredErr.ExistingCollector.(T)
		if !ok {
			return collector, fmt.Errorf("collector type mismatch for %T", collector)
		}
		return existing, nil
	}

	return collector, err
}
