// Copyright 2020 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package execinfrapb

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// ComponentStats contains statistics for an operator. A zero field means
// the statistic was not collected.
type ComponentStats struct {
	// Component is the name of the operator the stats belong to.
	Component string
	Inputs    []InputStats
	Exec      ExecStats
	Output    OutputStats
}

// InputStats contains statistics about the rows received from an input.
type InputStats struct {
	NumTuples uint64
}

// ExecStats contains statistics about the execution of an operator.
type ExecStats struct {
	ExecTime        time.Duration
	MaxAllocatedMem uint64
	// DecodeErrors counts column values that were read as NULL because
	// they failed to decode.
	DecodeErrors uint64
}

// OutputStats contains statistics about the output of an operator.
type OutputStats struct {
	NumTuples uint64
}

// Stats returns the statistics as key/value pairs, keys in lower case with
// dots instead of spaces.
func (s *ComponentStats) Stats() map[string]string {
	result := make(map[string]string, 4)
	s.formatStats(func(key string, value interface{}) {
		key = strings.ToLower(strings.ReplaceAll(key, " ", "."))
		result[key] = fmt.Sprint(value)
	})
	return result
}

// StatsForQueryPlan returns the statistics formatted as "key: value"
// lines, for rendering next to the plan.
func (s *ComponentStats) StatsForQueryPlan() []string {
	result := make([]string, 0, 4)
	s.formatStats(func(key string, value interface{}) {
		result = append(result, fmt.Sprintf("%s: %v", key, value))
	})
	return result
}

// formatStats calls fn for each statistic that is set.
func (s *ComponentStats) formatStats(fn func(suffix string, value interface{})) {
	// Input stats.
	switch len(s.Inputs) {
	case 1:
		if s.Inputs[0].NumTuples != 0 {
			fn("input tuples", s.Inputs[0].NumTuples)
		}

	case 2:
		if s.Inputs[0].NumTuples != 0 {
			fn("left tuples", s.Inputs[0].NumTuples)
		}
		if s.Inputs[1].NumTuples != 0 {
			fn("right tuples", s.Inputs[1].NumTuples)
		}
	}

	// Exec stats.
	if s.Exec.ExecTime != 0 {
		fn("execution time", s.Exec.ExecTime.Round(time.Microsecond))
	}
	if s.Exec.MaxAllocatedMem != 0 {
		fn("max memory allocated", humanize.IBytes(s.Exec.MaxAllocatedMem))
	}
	if s.Exec.DecodeErrors != 0 {
		fn("decode errors", s.Exec.DecodeErrors)
	}

	// Output stats.
	if s.Output.NumTuples != 0 {
		fn("tuples output", s.Output.NumTuples)
	}
}

// MakeDeterministic is used only for testing; it modifies any non-deterministic
// statistics like elapsed time or exact number of bytes to fixed or
// manufactured values.
func (s *ComponentStats) MakeDeterministic() {
	if s.Exec.ExecTime != 0 {
		s.Exec.ExecTime = time.Microsecond
	}
	if s.Exec.MaxAllocatedMem != 0 {
		s.Exec.MaxAllocatedMem = 1024
	}
}
