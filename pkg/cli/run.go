// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/execcore/pkg/cli/clisqlexec"
	"github.com/cockroachdb/execcore/pkg/cli/exit"
	"github.com/cockroachdb/execcore/pkg/settings"
	"github.com/cockroachdb/execcore/pkg/sql/execinfra"
	"github.com/cockroachdb/execcore/pkg/sql/execinfrapb"
	"github.com/cockroachdb/execcore/pkg/sql/execstats"
	"github.com/cockroachdb/execcore/pkg/sql/rowexec"
	"github.com/cockroachdb/execcore/pkg/util/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run --plan <file> [flags]",
	Short: "run a physical plan and print its rows",
	Long: `
Builds the operator tree of the plan stored in the given YAML file, runs it
and prints the result rows.

Execution settings are taken, in increasing order of precedence, from their
defaults, the --config file, the --set and --join-algorithm flags and the
settings section of the plan.
`,
	Args: cobra.NoArgs,
	RunE: runPlan,
}

func runPlan(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	if runCtx.planPath == "" {
		return withExitCode(errors.New("--plan is required"), exit.CommandLineFlagError())
	}
	sv, err := makeSettings()
	if err != nil {
		return withExitCode(err, exit.CommandLineFlagError())
	}
	reg := prometheus.NewRegistry()
	metrics, err := execstats.NewMetrics(reg)
	if err != nil {
		return err
	}
	flowCtx := &execinfra.FlowCtx{Settings: sv, Metrics: metrics, Fs: cliCtx.fs}

	ctx := log.WithLogTag(context.Background(), "plan", runCtx.planPath)
	spec, err := execinfrapb.ReadPlanFile(cliCtx.fs, runCtx.planPath)
	if err != nil {
		return withExitCode(err, exit.InvalidPlan())
	}
	op, err := rowexec.NewOperator(ctx, flowCtx, spec)
	if err != nil {
		return withExitCode(err, exit.InvalidPlan())
	}
	if err := runOperator(ctx, out, op); err != nil {
		return withExitCode(err, exit.PlanFailed())
	}
	if runCtx.showStats {
		printStats(out, op)
	}
	if runCtx.showMetrics {
		if err := printMetrics(out, reg); err != nil {
			return err
		}
	}
	return nil
}

// makeSettings assembles the execution settings given on the command line.
func makeSettings() (*settings.Values, error) {
	sv := settings.NewValues()
	if runCtx.configPath != "" {
		if err := settings.LoadFile(cliCtx.fs, runCtx.configPath, sv); err != nil {
			return nil, err
		}
	}
	for _, kv := range runCtx.settings {
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			return nil, errors.Newf("invalid setting %q, expected key=value", kv)
		}
		if err := sv.Set(strings.TrimSpace(key), strings.TrimSpace(value)); err != nil {
			return nil, err
		}
	}
	if runCtx.joinAlgorithm != "" {
		if err := sv.Set(execinfra.JoinAlgorithmSetting.Key(), runCtx.joinAlgorithm); err != nil {
			return nil, err
		}
	}
	return sv, nil
}

// runOperator initializes op, prints all its rows to w and closes it.
func runOperator(ctx context.Context, w io.Writer, op execinfra.Operator) (retErr error) {
	defer func() {
		retErr = errors.CombineErrors(retErr, op.Close(ctx))
	}()
	if err := op.Init(ctx); err != nil {
		return err
	}
	n, err := clisqlexec.PrintQueryOutput(w, clisqlexec.ColumnNames(op),
		clisqlexec.NewOperatorIter(ctx, op), runCtx.displayFormat)
	if err != nil {
		return err
	}
	log.VEventf(ctx, 1, "returned %d rows", n)
	return nil
}

// printStats prints the statistics of every operator of the tree rooted at
// op, parents first.
func printStats(w io.Writer, op execinfra.Operator) {
	for _, s := range execinfra.CollectStats(op) {
		fmt.Fprintf(w, "• %s\n", s.Component)
		for _, line := range s.StatsForQueryPlan() {
			fmt.Fprintf(w, "  %s\n", line)
		}
	}
}

func printMetrics(w io.Writer, reg *prometheus.Registry) error {
	families, err := reg.Gather()
	if err != nil {
		return errors.Wrap(err, "gathering metrics")
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}
