// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package log

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// Severity identifies the sort of log: info, warning etc.
type Severity int32

// These constants identify the log levels in order of increasing severity.
const (
	Severity_UNKNOWN Severity = iota
	Severity_INFO
	Severity_WARNING
	Severity_ERROR
	Severity_FATAL
)

var severityNames = [...]string{
	Severity_UNKNOWN: "UNKNOWN",
	Severity_INFO:    "INFO",
	Severity_WARNING: "WARNING",
	Severity_ERROR:   "ERROR",
	Severity_FATAL:   "FATAL",
}

func (s Severity) String() string {
	if s < 0 || int(s) >= len(severityNames) {
		return "UNKNOWN"
	}
	return severityNames[s]
}

// SafeValue implements redact.SafeValue.
func (Severity) SafeValue() {}

// letter returns the single-character prefix used in log lines.
func (s Severity) letter() byte {
	return s.String()[0]
}

// SeverityByName attempts to parse the passed in string into a severity.
func SeverityByName(s string) (Severity, error) {
	for i, name := range severityNames {
		if i > 0 && strings.EqualFold(name, s) {
			return Severity(i), nil
		}
	}
	return Severity_UNKNOWN, errors.Newf("unknown severity %q", s)
}
