// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/redact"
)

// loggingT collects all the global state of the logging setup.
type loggingT struct {
	verbosity  atomic.Int32
	minSev     atomic.Int32
	redactable atomic.Bool

	mu struct {
		sync.Mutex
		out     io.Writer
		color   *colorProfile
		exitFn  func(int)
		entries uint64
	}
}

var logging = func() *loggingT {
	l := &loggingT{}
	l.mu.out = os.Stderr
	l.mu.exitFn = os.Exit
	l.minSev.Store(int32(Severity_INFO))
	l.redactable.Store(true)
	return l
}()

// V returns true if the logging verbosity is set to the specified level or
// higher.
func V(level int32) bool {
	return logging.verbosity.Load() >= level
}

// SetVerbosity sets the global verbosity and returns the previous value.
func SetVerbosity(level int32) int32 {
	return logging.verbosity.Swap(level)
}

// SetMinSeverity drops entries below the given severity. It returns the
// previous threshold.
func SetMinSeverity(sev Severity) Severity {
	return Severity(logging.minSev.Swap(int32(sev)))
}

// SetRedactable controls whether redaction markers are kept in the output.
// When false, markers are stripped and the output is plain text.
func SetRedactable(b bool) (old bool) {
	return logging.redactable.Swap(b)
}

// SetOutput redirects log output. The previous writer is returned so that
// callers can restore it.
func SetOutput(w io.Writer) io.Writer {
	logging.mu.Lock()
	defer logging.mu.Unlock()
	old := logging.mu.out
	logging.mu.out = w
	logging.mu.color = nil
	if f, ok := w.(*os.File); ok {
		logging.mu.color = colorProfileFor(f)
	}
	return old
}

// SetExitFunc overrides the function called after a FATAL entry has been
// written. It returns the previous function.
func SetExitFunc(fn func(int)) func(int) {
	logging.mu.Lock()
	defer logging.mu.Unlock()
	old := logging.mu.exitFn
	logging.mu.exitFn = fn
	return old
}

// logEntry is one formatted log line before rendering.
type logEntry struct {
	sev     Severity
	time    time.Time
	file    string
	line    int
	tags    string
	payload redact.RedactableString
}

func makeEntry(
	ctx context.Context, sev Severity, depth int, format string, args []interface{},
) logEntry {
	e := logEntry{sev: sev, time: timeNow()}
	if _, file, line, ok := runtime.Caller(depth + 1); ok {
		e.file = filepath.Base(file)
		e.line = line
	} else {
		e.file = "???"
		e.line = 1
	}
	e.tags = formatTags(ctx)
	if len(args) == 0 {
		e.payload = redact.Sprint(redact.Safe(format))
	} else {
		e.payload = redact.Sprintf(format, args...)
	}
	return e
}

// format renders the entry in the crdb-v1 style:
//
//	I261019 15:04:05.000000 file.go:123  [tags] message
func (e logEntry) format(buf *bytes.Buffer, cp *colorProfile, redactable bool) {
	if cp != nil {
		buf.Write(cp.prefixFor(e.sev))
	}
	buf.WriteByte(e.sev.letter())
	buf.WriteString(e.time.Format("060102 15:04:05.000000"))
	if cp != nil {
		buf.Write(colorReset)
	}
	fmt.Fprintf(buf, " %s:%d ", e.file, e.line)
	if e.tags != "" {
		buf.WriteByte('[')
		buf.WriteString(e.tags)
		buf.WriteString("] ")
	}
	if redactable {
		buf.WriteString(string(e.payload))
	} else {
		buf.WriteString(e.payload.StripMarkers())
	}
	if buf.Len() == 0 || buf.Bytes()[buf.Len()-1] != '\n' {
		buf.WriteByte('\n')
	}
}

func (l *loggingT) outputLogEntry(e logEntry) {
	var buf bytes.Buffer
	l.mu.Lock()
	e.format(&buf, l.mu.color, l.redactable.Load())
	_, _ = l.mu.out.Write(buf.Bytes())
	l.mu.entries++
	exitFn := l.mu.exitFn
	l.mu.Unlock()
	if e.sev == Severity_FATAL {
		exitFn(255)
	}
}

// timeNow is overridden in tests.
var timeNow = time.Now
