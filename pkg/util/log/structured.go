// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package log

import (
	"context"
	"fmt"
	"strings"

	"github.com/cockroachdb/logtags"
)

// FormatWithContextTags formats the string and prepends the context
// tags.
//
// Redaction markers are *not* inserted. The resulting
// string is generally unsafe for reporting.
func FormatWithContextTags(ctx context.Context, format string, args ...interface{}) string {
	var buf strings.Builder
	if tags := formatTags(ctx); tags != "" {
		buf.WriteByte('[')
		buf.WriteString(tags)
		buf.WriteString("] ")
	}
	fmt.Fprintf(&buf, format, args...)
	return buf.String()
}

// WithLogTag returns a context annotated with the given tag. The tag is
// rendered in every log line produced with the returned context.
func WithLogTag(ctx context.Context, name string, value interface{}) context.Context {
	return logtags.AddTag(ctx, name, value)
}

func formatTags(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	tags := logtags.FromContext(ctx)
	if tags == nil {
		return ""
	}
	var buf strings.Builder
	tags.FormatToString(&buf)
	return buf.String()
}

// addStructured creates a structured log entry to be written to the
// output of the logger.
func addStructured(
	ctx context.Context, sev Severity, depth int, format string, args []interface{},
) {
	if sev < Severity(logging.minSev.Load()) {
		return
	}
	entry := makeEntry(ctx, sev, depth+1, format, args)
	logging.outputLogEntry(entry)
}

// Infof logs to the INFO log.
// It extracts log tags from the context and logs them along with the given
// message. Arguments are handled in the manner of fmt.Printf.
func Infof(ctx context.Context, format string, args ...interface{}) {
	addStructured(ctx, Severity_INFO, 1, format, args)
}

// Info logs to the INFO log.
func Info(ctx context.Context, msg string) {
	addStructured(ctx, Severity_INFO, 1, msg, nil)
}

// Warningf logs to the WARNING and INFO logs.
func Warningf(ctx context.Context, format string, args ...interface{}) {
	addStructured(ctx, Severity_WARNING, 1, format, args)
}

// Errorf logs to the ERROR, WARNING, and INFO logs.
func Errorf(ctx context.Context, format string, args ...interface{}) {
	addStructured(ctx, Severity_ERROR, 1, format, args)
}

// Fatalf logs to the INFO, WARNING, ERROR, and FATAL logs, and then exits
// the process (or calls the function installed by SetExitFunc).
func Fatalf(ctx context.Context, format string, args ...interface{}) {
	addStructured(ctx, Severity_FATAL, 1, format, args)
}

// VInfof logs to the INFO log if the verbosity is at or above level.
func VInfof(ctx context.Context, level int32, format string, args ...interface{}) {
	if V(level) {
		addStructured(ctx, Severity_INFO, 1, format, args)
	}
}

// VEventf logs the message at INFO when the verbosity level is at or above
// the given level. It is the call used for per-row and per-phase events in
// the execution engine.
func VEventf(ctx context.Context, level int32, format string, args ...interface{}) {
	if V(level) {
		addStructured(ctx, Severity_INFO, 1, format, args)
	}
}

// ExpensiveLogEnabled is used to test whether effort should be used to
// produce log messages whose construction has a measurable cost.
func ExpensiveLogEnabled(ctx context.Context, level int32) bool {
	return V(level)
}
