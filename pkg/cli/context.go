// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package cli

import (
	"github.com/cockroachdb/execcore/pkg/cli/clisqlexec"
	"github.com/spf13/afero"
)

// cliContext captures the command-line parameters shared by all commands.
type cliContext struct {
	// fs is the filesystem plans, configs and tables are read from.
	fs afero.Fs

	// verbosity is the log verbosity of the process.
	verbosity int32

	// versionIncludesDeps lists the build dependencies in the version
	// output.
	versionIncludesDeps bool
}

// cliCtx captures the command-line parameters common to most CLI
// commands. See setCliContextDefaults() for defaults.
var cliCtx = cliContext{}

// setCliContextDefaults set the default values in cliCtx. This
// function is called by initCLIDefaults() and thus re-called in every
// test that exercises command-line parsing.
func setCliContextDefaults() {
	cliCtx.fs = afero.NewOsFs()
	cliCtx.verbosity = 0
	cliCtx.versionIncludesDeps = false
}

// runContext captures the command-line parameters of the `run` command.
type runContext struct {
	planPath      string
	configPath    string
	settings      []string
	joinAlgorithm string
	displayFormat clisqlexec.TableDisplayFormat
	showStats     bool
	showMetrics   bool
}

var runCtx runContext

func setRunContextDefaults() {
	runCtx.planPath = ""
	runCtx.configPath = ""
	runCtx.settings = nil
	runCtx.joinAlgorithm = ""
	runCtx.displayFormat = clisqlexec.TableDisplayTSV
	if isInteractive {
		runCtx.displayFormat = clisqlexec.TableDisplayTable
	}
	runCtx.showStats = false
	runCtx.showMetrics = false
}

// convertContext captures the command-line parameters of the `convert`
// command.
type convertContext struct {
	from, to             string
	fromFormat, toFormat string
	columns              []string
	codec                string
}

var convertCtx convertContext

func setConvertContextDefaults() {
	convertCtx.from = ""
	convertCtx.to = ""
	convertCtx.fromFormat = "text"
	convertCtx.toFormat = "block"
	convertCtx.columns = nil
	convertCtx.codec = "snappy"
}

// initCLIDefaults serves as the single point of truth for configuration
// defaults. It is suitable for calling between tests of the CLI utilities
// inside a single package.
func initCLIDefaults() {
	setCliContextDefaults()
	setRunContextDefaults()
	setConvertContextDefaults()
}

func init() {
	initCLIDefaults()
}
