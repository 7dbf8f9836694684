// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package execstats

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewMetrics(reg)
	require.NoError(t, err)

	m.RowEmitted("hashjoiner")
	m.RowEmitted("hashjoiner")
	m.RowEmitted("values")
	m.BuildRowAdded()
	m.HashTableGrown(100)
	m.HashTableGrown(-40)
	m.DecodeErrorMasked()
	m.OperatorInitiated("values")

	require.Equal(t, 2.0, testutil.ToFloat64(m.RowsEmitted.WithLabelValues("hashjoiner")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.RowsEmitted.WithLabelValues("values")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.BuildRows))
	require.Equal(t, 60.0, testutil.ToFloat64(m.HashTableBytes))
	require.Equal(t, 1.0, testutil.ToFloat64(m.LazyDecodeErrors))

	n, err := testutil.GatherAndCount(reg, "execcore_rows_emitted_total")
	require.NoError(t, err)
	require.Equal(t, 2, n)

	// Registering twice fails.
	_, err = NewMetrics(reg)
	require.Error(t, err)

	// A nil *Metrics is a no-op.
	var nilMetrics *Metrics
	nilMetrics.RowEmitted("values")
	nilMetrics.BuildRowAdded()
	nilMetrics.HashTableGrown(1)
	nilMetrics.DecodeErrorMasked()
	nilMetrics.OperatorInitiated("values")
}
