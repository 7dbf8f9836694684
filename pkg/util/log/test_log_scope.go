// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package log

import (
	"bytes"
	"io"
	"sync"
)

// tShim is the part of testing.TB used by TestLogScope.
type tShim interface {
	Helper()
	Failed() bool
	Logf(format string, args ...interface{})
}

// TestLogScope captures the log output produced during a test. The
// output is replayed through t.Logf if the test fails, and discarded
// otherwise.
type TestLogScope struct {
	prevOut       io.Writer
	prevVerbosity int32
	buf           *syncBuffer
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// Scope redirects log output to an in-memory buffer for the duration of a
// test. Use as:
//
//	defer log.Scope(t).Close(t)
func Scope(t tShim) *TestLogScope {
	t.Helper()
	sb := &syncBuffer{}
	return &TestLogScope{
		prevOut:       SetOutput(sb),
		prevVerbosity: logging.verbosity.Load(),
		buf:           sb,
	}
}

// Contents returns everything logged since the scope was created.
func (l *TestLogScope) Contents() string {
	return l.buf.String()
}

// Close restores the previous log output. If the test failed, the captured
// output is written to the test log.
func (l *TestLogScope) Close(t tShim) {
	t.Helper()
	SetOutput(l.prevOut)
	SetVerbosity(l.prevVerbosity)
	if t.Failed() {
		if s := l.buf.String(); s != "" {
			t.Logf("captured log output:\n%s", s)
		}
	}
}
