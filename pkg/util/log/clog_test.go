// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package log

import (
	"bytes"
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func captureOutput(t *testing.T) *bytes.Buffer {
	var buf bytes.Buffer
	prev := SetOutput(&buf)
	prevRedactable := SetRedactable(false)
	t.Cleanup(func() {
		SetOutput(prev)
		SetRedactable(prevRedactable)
	})
	return &buf
}

func TestEntryFormat(t *testing.T) {
	buf := captureOutput(t)
	prevNow := timeNow
	timeNow = func() time.Time { return time.Date(2026, 10, 19, 15, 4, 5, 0, time.UTC) }
	defer func() { timeNow = prevNow }()

	ctx := WithLogTag(context.Background(), "join", 3)
	Infof(ctx, "built %d rows", 10)
	require.Regexp(t,
		regexp.MustCompile(`^I261019 15:04:05\.000000 clog_test\.go:\d+ \[join=3\] built 10 rows\n$`),
		buf.String())
}

func TestSeverityFilter(t *testing.T) {
	buf := captureOutput(t)
	prev := SetMinSeverity(Severity_WARNING)
	defer SetMinSeverity(prev)

	Infof(context.Background(), "hidden")
	Warningf(context.Background(), "shown")
	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), "shown")
	require.Equal(t, byte('W'), buf.Bytes()[0])
}

func TestVerbosity(t *testing.T) {
	buf := captureOutput(t)
	prev := SetVerbosity(0)
	defer SetVerbosity(prev)

	ctx := context.Background()
	VEventf(ctx, 2, "quiet")
	require.Empty(t, buf.String())
	require.False(t, ExpensiveLogEnabled(ctx, 1))

	SetVerbosity(2)
	VEventf(ctx, 2, "loud")
	VInfof(ctx, 3, "too loud")
	require.Contains(t, buf.String(), "loud")
	require.NotContains(t, buf.String(), "too loud")
}

func TestRedactable(t *testing.T) {
	buf := captureOutput(t)
	prev := SetRedactable(false)
	defer SetRedactable(prev)

	Infof(context.Background(), "value %s", "secret")
	require.Contains(t, buf.String(), "value secret")
	require.NotContains(t, buf.String(), "‹")

	buf.Reset()
	SetRedactable(true)
	Infof(context.Background(), "value %s", "secret")
	require.Contains(t, buf.String(), "value ‹secret›")
}

func TestFatalCallsExitFunc(t *testing.T) {
	_ = captureOutput(t)
	var code int
	prev := SetExitFunc(func(c int) { code = c })
	defer SetExitFunc(prev)

	Fatalf(context.Background(), "boom")
	require.Equal(t, 255, code)
}

func TestFormatWithContextTags(t *testing.T) {
	ctx := WithLogTag(context.Background(), "op", "hashjoin")
	require.Equal(t, "[op=hashjoin] x=1", FormatWithContextTags(ctx, "x=%d", 1))
	require.Equal(t, "x=1", FormatWithContextTags(context.Background(), "x=%d", 1))
}

func TestEveryN(t *testing.T) {
	prev := SetVerbosity(0)
	defer SetVerbosity(prev)

	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	e := Every(time.Minute)
	require.True(t, e.shouldLog(start))
	require.False(t, e.shouldLog(start.Add(time.Second)))
	require.True(t, e.shouldLog(start.Add(time.Minute)))
}

func TestStdLogger(t *testing.T) {
	buf := captureOutput(t)
	l := NewStdLogger(Severity_WARNING, "pkg/storage")
	l.Print("compaction stalled")
	require.Regexp(t, `^W\d{6} .* \(gostd\) pkg/storage/clog_test\.go:\d+ compaction stalled\n$`, buf.String())
}

func TestSeverityByName(t *testing.T) {
	sev, err := SeverityByName("warning")
	require.NoError(t, err)
	require.Equal(t, Severity_WARNING, sev)
	_, err = SeverityByName("loud")
	require.Error(t, err)
}
