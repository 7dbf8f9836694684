// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

// Package execstats exports execution counters as prometheus metrics.
package execstats

import "github.com/prometheus/client_golang/prometheus"

const namespace = "execcore"

// Metrics holds the prometheus collectors updated by operators. All methods
// are safe to call on a nil *Metrics, which records nothing.
type Metrics struct {
	RowsEmitted        *prometheus.CounterVec
	BuildRows          prometheus.Counter
	HashTableBytes     prometheus.Gauge
	LazyDecodeErrors   prometheus.Counter
	OperatorsInitiated *prometheus.CounterVec
}

// NewMetrics creates the execution metrics and registers them with reg,
// which may be nil.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		RowsEmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_emitted_total",
			Help:      "Number of rows returned by operators.",
		}, []string{"operator"}),
		BuildRows: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "build_rows_total",
			Help:      "Number of rows inserted into hash join build tables.",
		}),
		HashTableBytes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "hash_table_bytes",
			Help:      "Memory currently accounted to hash join build tables.",
		}),
		LazyDecodeErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lazy_decode_errors_total",
			Help:      "Number of column values that failed to decode and were read as NULL.",
		}),
		OperatorsInitiated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operators_initiated_total",
			Help:      "Number of operators initialized.",
		}, []string{"operator"}),
	}
	if reg != nil {
		for _, c := range []prometheus.Collector{
			m.RowsEmitted, m.BuildRows, m.HashTableBytes, m.LazyDecodeErrors, m.OperatorsInitiated,
		} {
			if err := reg.Register(c); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

// RowEmitted records one output row of the named operator.
func (m *Metrics) RowEmitted(operator string) {
	if m == nil {
		return
	}
	m.RowsEmitted.WithLabelValues(operator).Inc()
}

// OperatorInitiated records the initialization of the named operator.
func (m *Metrics) OperatorInitiated(operator string) {
	if m == nil {
		return
	}
	m.OperatorsInitiated.WithLabelValues(operator).Inc()
}

// BuildRowAdded records a row inserted into a hash table.
func (m *Metrics) BuildRowAdded() {
	if m == nil {
		return
	}
	m.BuildRows.Inc()
}

// HashTableGrown accounts delta bytes (possibly negative) of hash table
// memory.
func (m *Metrics) HashTableGrown(delta int64) {
	if m == nil {
		return
	}
	m.HashTableBytes.Add(float64(delta))
}

// DecodeErrorMasked records a decode error that was turned into NULL.
func (m *Metrics) DecodeErrorMasked() {
	if m == nil {
		return
	}
	m.LazyDecodeErrors.Inc()
}
