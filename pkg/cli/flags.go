// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package cli

import (
	"os"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/execcore/pkg/cli/cliflags"
	"github.com/cockroachdb/execcore/pkg/cli/exit"
	"github.com/cockroachdb/execcore/pkg/util/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// flagsWithEnv maps the name of the flags that can be set through the
// environment to their description.
var flagsWithEnv = map[string]cliflags.FlagInfo{}

func trackEnv(flagInfo cliflags.FlagInfo) {
	if flagInfo.EnvVar != "" {
		flagsWithEnv[flagInfo.Name] = flagInfo
	}
}

// StringFlag creates a string flag and registers it with the FlagSet.
func StringFlag(f *pflag.FlagSet, valPtr *string, flagInfo cliflags.FlagInfo) {
	trackEnv(flagInfo)
	f.StringVarP(valPtr, flagInfo.Name, flagInfo.Shorthand, *valPtr, flagInfo.Usage())
}

// StringSliceFlag creates a string slice flag and registers it with the
// FlagSet.
func StringSliceFlag(f *pflag.FlagSet, valPtr *[]string, flagInfo cliflags.FlagInfo) {
	trackEnv(flagInfo)
	f.StringSliceVarP(valPtr, flagInfo.Name, flagInfo.Shorthand, *valPtr, flagInfo.Usage())
}

// BoolFlag creates a bool flag and registers it with the FlagSet.
func BoolFlag(f *pflag.FlagSet, valPtr *bool, flagInfo cliflags.FlagInfo) {
	trackEnv(flagInfo)
	f.BoolVarP(valPtr, flagInfo.Name, flagInfo.Shorthand, *valPtr, flagInfo.Usage())
}

// Int32Flag creates an int32 flag and registers it with the FlagSet.
func Int32Flag(f *pflag.FlagSet, valPtr *int32, flagInfo cliflags.FlagInfo) {
	trackEnv(flagInfo)
	f.Int32VarP(valPtr, flagInfo.Name, flagInfo.Shorthand, *valPtr, flagInfo.Usage())
}

// VarFlag creates a custom-variable flag and registers it with the FlagSet.
func VarFlag(f *pflag.FlagSet, value pflag.Value, flagInfo cliflags.FlagInfo) {
	trackEnv(flagInfo)
	f.VarP(value, flagInfo.Name, flagInfo.Shorthand, flagInfo.Usage())
}

// AddPersistentPreRunE add 'fn' as a persistent pre-run function to 'cmd'.
// If the command has an existing pre-run function, it is saved and will be called
// at the beginning of 'fn'.
func AddPersistentPreRunE(cmd *cobra.Command, fn func(*cobra.Command, []string) error) {
	// Save any existing hooks.
	wrapped := cmd.PersistentPreRunE

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		// Run the previous hook if it exists.
		if wrapped != nil {
			if err := wrapped(cmd, args); err != nil {
				return err
			}
		}
		return fn(cmd, args)
	}
}

// processEnvVarDefaults injects the values of the environment variables of
// the flags that were not given on the command line.
func processEnvVarDefaults(cmd *cobra.Command) error {
	var retErr error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		info, ok := flagsWithEnv[f.Name]
		if !ok || f.Changed || retErr != nil {
			return
		}
		val, set := os.LookupEnv(info.EnvVar)
		if !set {
			return
		}
		if err := cmd.Flags().Set(f.Name, val); err != nil {
			retErr = errors.Wrapf(err, "setting --%s from %s", f.Name, info.EnvVar)
		}
	})
	return retErr
}

func init() {
	// The log verbosity applies to every command.
	pf := execcoreCmd.PersistentFlags()
	Int32Flag(pf, &cliCtx.verbosity, cliflags.Verbosity)

	AddPersistentPreRunE(execcoreCmd, func(cmd *cobra.Command, _ []string) error {
		if err := processEnvVarDefaults(cmd); err != nil {
			return withExitCode(err, exit.CommandLineFlagError())
		}
		log.SetVerbosity(cliCtx.verbosity)
		return nil
	})

	{
		f := runCmd.Flags()
		StringFlag(f, &runCtx.planPath, cliflags.Plan)
		StringFlag(f, &runCtx.configPath, cliflags.Config)
		StringSliceFlag(f, &runCtx.settings, cliflags.Set)
		StringFlag(f, &runCtx.joinAlgorithm, cliflags.JoinAlgorithm)
		VarFlag(f, &runCtx.displayFormat, cliflags.TableDisplayFormat)
		BoolFlag(f, &runCtx.showStats, cliflags.Stats)
		BoolFlag(f, &runCtx.showMetrics, cliflags.Metrics)
	}

	{
		f := convertCmd.Flags()
		StringFlag(f, &convertCtx.from, cliflags.From)
		StringFlag(f, &convertCtx.to, cliflags.To)
		StringFlag(f, &convertCtx.fromFormat, cliflags.FromFormat)
		StringFlag(f, &convertCtx.toFormat, cliflags.ToFormat)
		StringSliceFlag(f, &convertCtx.columns, cliflags.Columns)
		StringFlag(f, &convertCtx.codec, cliflags.Codec)
	}

	BoolFlag(versionCmd.Flags(), &cliCtx.versionIncludesDeps, cliflags.BuildDeps)
}
