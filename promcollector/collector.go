// Package promcollector exports engine metrics to Prometheus.
package promcollector

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hupe1980/resredis"
)

var _ resredis.MetricsCollector = (*Collector)(nil)

// Collector implements resredis.MetricsCollector with Prometheus vectors.
type Collector struct {
	opLatency *prometheus.HistogramVec
	ops       *prometheus.CounterVec
	scanned   prometheus.Counter
	matched   prometheus.Counter
}

// New creates a Collector and registers it with reg.
// A nil reg uses prometheus.DefaultRegisterer.
func New(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	c := &Collector{
		opLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "resredis_operation_latency_seconds",
			Help:    "Latency of engine operations",
			Buckets: prometheus.DefBuckets,
		}, []string{"op", "status"}),
		ops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "resredis_operations_total",
			Help: "Total engine operations",
		}, []string{"op", "status"}),
		scanned: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "resredis_scan_records_scanned_total",
			Help: "Index entries fetched by scans",
		}),
		matched: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "resredis_scan_records_matched_total",
			Help: "Records returned by scans",
		}),
	}

	for _, col := range []prometheus.Collector{c.opLatency, c.ops, c.scanned, c.matched} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// MustNew is like New but panics on registration errors.
func MustNew(reg prometheus.Registerer) *Collector {
	c, err := New(reg)
	if err != nil {
		panic(err)
	}
	return c
}

func status(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, resredis.ErrNotFound):
		return "not_found"
	default:
		return "error"
	}
}

func (c *Collector) observe(op string, d time.Duration, err error) {
	s := status(err)
	c.opLatency.WithLabelValues(op, s).Observe(d.Seconds())
	c.ops.WithLabelValues(op, s).Inc()
}

// RecordGet implements resredis.MetricsCollector.
func (c *Collector) RecordGet(d time.Duration, err error) { c.observe("get", d, err) }

// RecordSave implements resredis.MetricsCollector.
func (c *Collector) RecordSave(d time.Duration, err error) { c.observe("save", d, err) }

// RecordUpdate implements resredis.MetricsCollector.
func (c *Collector) RecordUpdate(d time.Duration, err error) { c.observe("update", d, err) }

// RecordDestroy implements resredis.MetricsCollector.
func (c *Collector) RecordDestroy(d time.Duration, err error) { c.observe("destroy", d, err) }

// RecordScan implements resredis.MetricsCollector.
func (c *Collector) RecordScan(scanned, matched int, d time.Duration, err error) {
	c.observe("scan", d, err)
	c.scanned.Add(float64(scanned))
	c.matched.Add(float64(matched))
}
