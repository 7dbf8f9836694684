// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

// Package cli implements the execcore command line: it reads a physical
// plan, runs it and prints its rows.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/execcore/pkg/build"
	"github.com/cockroachdb/execcore/pkg/cli/exit"
	"github.com/cockroachdb/execcore/pkg/sql/pgwire/pgerror"
	"github.com/cockroachdb/execcore/pkg/util/log"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

// Main is the entry point for the cli, with a single line calling it
// intended to be the body of an action package main `main` func elsewhere.
func Main() {
	ctx := context.Background()
	errCode := exit.Success()
	if err := Run(os.Args[1:]); err != nil {
		errCode = exitCodeFor(err)
		printError(ctx, err)
	}
	exit.WithCode(errCode)
}

// Run runs the command line with the given arguments.
func Run(args []string) error {
	execcoreCmd.SetArgs(args)
	return execcoreCmd.Execute()
}

// cliError associates an exit code with an error.
type cliError struct {
	exitCode exit.Code
	cause    error
}

func (e *cliError) Error() string { return e.cause.Error() }
func (e *cliError) Cause() error  { return e.cause }
func (e *cliError) Unwrap() error { return e.cause }

func withExitCode(err error, code exit.Code) error {
	if err == nil {
		return nil
	}
	return &cliError{exitCode: code, cause: err}
}

func exitCodeFor(err error) exit.Code {
	var ce *cliError
	if errors.As(err, &ce) {
		return ce.exitCode
	}
	return exit.UnspecifiedError()
}

// printError reports err on stderr, along with its SQLSTATE and hints.
func printError(ctx context.Context, err error) {
	if code := pgerror.GetPGCode(err); pgerror.HasCandidateCode(err) {
		fmt.Fprintf(stderr, "ERROR: %v\nSQLSTATE: %s\n", err, code)
	} else {
		fmt.Fprintf(stderr, "ERROR: %v\n", err)
	}
	for _, hint := range errors.GetAllHints(err) {
		fmt.Fprintf(stderr, "HINT: %s\n", hint)
	}
	if log.V(1) {
		log.Errorf(ctx, "%+v", err)
	}
}

// Proxy to allow overrides in tests.
var stderr io.Writer = os.Stderr

// isInteractive indicates whether stdout refers to a terminal.
var isInteractive = isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "output version information",
	Long: `
Output build version information.
`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		info := build.GetInfo()
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 2, 1, 2, ' ', 0)
		fmt.Fprintf(tw, "Build Tag:\t%s\n", info.Tag)
		fmt.Fprintf(tw, "Build Time:\t%s\n", info.Time)
		fmt.Fprintf(tw, "Revision:\t%s\n", info.Revision)
		fmt.Fprintf(tw, "Platform:\t%s\n", info.Platform)
		fmt.Fprintf(tw, "Go Version:\t%s\n", info.GoVersion)
		if cliCtx.versionIncludesDeps {
			fmt.Fprintf(tw, "Build Deps:\n")
			for _, dep := range info.Dependencies {
				fmt.Fprintf(tw, "\t%s\n", dep)
			}
		}
		return tw.Flush()
	},
}

var execcoreCmd = &cobra.Command{
	Use:   "execcore [command] (flags)",
	Short: "execcore runs physical query plans",
	Long: `execcore builds the operator tree of a physical query plan, runs it
over local table files and prints the result rows.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.EnableCommandSorting = false

	execcoreCmd.AddCommand(
		runCmd,
		convertCmd,
		versionCmd,
	)
}
