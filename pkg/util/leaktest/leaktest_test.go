// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package leaktest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDiffGoroutines(t *testing.T) {
	orig := interestingGoroutines()
	stop := make(chan struct{})
	go func() { <-stop }()
	require.Error(t, diffGoroutines(orig, 20*time.Millisecond))
	close(stop)
	require.NoError(t, diffGoroutines(orig, 5*time.Second))
}

func TestGoroutineID(t *testing.T) {
	require.Equal(t, int64(12), goroutineID("goroutine 12 [running]:"))
	require.Equal(t, int64(-1), goroutineID("garbage"))
}
