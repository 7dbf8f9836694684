// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

// Package cliflags defines the command-line flags of the execcore binary.
package cliflags

import "strings"

// FlagInfo contains the static information for a CLI flag and helper
// to format the description.
type FlagInfo struct {
	// Name of the flag as used on the command line.
	Name string

	// Shorthand is the short form of the flag (optional).
	Shorthand string

	// EnvVar is the name of the environment variable through which the flag
	// may be set if it is not given on the command line.
	EnvVar string

	// Description of the flag.
	Description string
}

// Usage returns the description, augmented with the environment variable
// that can be used to set the flag.
func (f FlagInfo) Usage() string {
	s := strings.TrimSpace(f.Description)
	if f.EnvVar != "" {
		s += "\nEnvironment variable: " + f.EnvVar
	}
	return s
}

var (
	Plan = FlagInfo{
		Name:        "plan",
		Shorthand:   "p",
		Description: `Path to the YAML physical plan to execute.`,
	}

	Config = FlagInfo{
		Name:   "config",
		EnvVar: "EXECCORE_CONFIG",
		Description: `
Path to a YAML or TOML file of execution settings, for example
sql.exec.join.algorithm. Settings given with --set and the plan
itself take precedence.`,
	}

	Set = FlagInfo{
		Name: "set",
		Description: `
Override an execution setting, as key=value. May be repeated.`,
	}

	JoinAlgorithm = FlagInfo{
		Name: "join-algorithm",
		Description: `
Algorithm used for inner and left outer joins whose plan does not name
one: "hash" or "nested_loop".`,
	}

	TableDisplayFormat = FlagInfo{
		Name: "format",
		Description: `
Selects how to display result rows. Valid values: table, tsv, csv,
records. Defaults to table if the output is a terminal, tsv otherwise.`,
	}

	Stats = FlagInfo{
		Name:        "stats",
		Description: `Print the execution statistics of every operator after the rows.`,
	}

	Metrics = FlagInfo{
		Name:        "metrics",
		Description: `Print the execution metrics, in Prometheus text format, after the rows.`,
	}

	Verbosity = FlagInfo{
		Name:        "verbosity",
		Shorthand:   "v",
		EnvVar:      "EXECCORE_VERBOSITY",
		Description: `Log verbosity level; 1 and above log operator events.`,
	}

	From = FlagInfo{
		Name:        "from",
		Description: `Path of the table file to read.`,
	}

	To = FlagInfo{
		Name:        "to",
		Description: `Path of the table file to create.`,
	}

	FromFormat = FlagInfo{
		Name:        "from-format",
		Description: `Format of the source table file: text or block.`,
	}

	ToFormat = FlagInfo{
		Name:        "to-format",
		Description: `Format of the created table file: text or block.`,
	}

	Columns = FlagInfo{
		Name: "columns",
		Description: `
Comma-separated column declarations of the table, each written as
"name type", for example "t.id int4,t.name text".`,
	}

	Codec = FlagInfo{
		Name:        "codec",
		Description: `Compression of block files: snappy, zstd or none.`,
	}

	BuildDeps = FlagInfo{
		Name:        "build-deps",
		Description: `Print the modules linked into the binary.`,
	}
)
