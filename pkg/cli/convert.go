// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/execcore/pkg/cli/exit"
	"github.com/cockroachdb/execcore/pkg/sql/execinfrapb"
	"github.com/cockroachdb/execcore/pkg/storage"
	"github.com/cockroachdb/execcore/pkg/util/log"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var convertCmd = &cobra.Command{
	Use:   "convert --from <file> --to <file> --columns <decls> [flags]",
	Short: "rewrite a table file in another format",
	Long: `
Reads every row of a table file and writes it to a new file, for example to
turn a delimited text file into a compressed block file:

  execcore convert --from t.tbl --to t.blk --columns "t.id int4,t.name text"

Values that fail to decode are an error.
`,
	Args: cobra.NoArgs,
	RunE: runConvert,
}

func runConvert(cmd *cobra.Command, _ []string) error {
	if convertCtx.from == "" || convertCtx.to == "" {
		return withExitCode(errors.New("--from and --to are required"), exit.CommandLineFlagError())
	}
	specs := make([]execinfrapb.ColumnSpec, len(convertCtx.columns))
	for i, decl := range convertCtx.columns {
		fields := strings.Fields(decl)
		if len(fields) != 2 {
			return withExitCode(
				errors.Newf("column must be written as \"name type\", found %q", decl),
				exit.CommandLineFlagError())
		}
		specs[i] = execinfrapb.ColumnSpec{Name: fields[0], Type: fields[1]}
	}
	schema, err := execinfrapb.MakeSchema(specs)
	if err != nil {
		return withExitCode(err, exit.CommandLineFlagError())
	}
	codec, err := storage.ParseCodec(convertCtx.codec)
	if err != nil {
		return withExitCode(err, exit.CommandLineFlagError())
	}
	opts := storage.ScanOptions{Strict: true, Codec: codec}

	ctx := context.Background()
	s, err := storage.NewScanner(cliCtx.fs, storage.Format(convertCtx.fromFormat), convertCtx.from, schema, opts)
	if err != nil {
		return withExitCode(err, exit.CommandLineFlagError())
	}
	a, err := storage.NewAppender(cliCtx.fs, storage.Format(convertCtx.toFormat), convertCtx.to, schema, opts)
	if err != nil {
		return withExitCode(err, exit.CommandLineFlagError())
	}
	n, err := copyTable(s, a)
	if err != nil {
		return err
	}
	if fi, err := cliCtx.fs.Stat(convertCtx.to); err == nil {
		log.Infof(ctx, "wrote %s (%s)", convertCtx.to, humanize.IBytes(uint64(fi.Size())))
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d row%s written to %s\n", n, pluralize(n), convertCtx.to)
	return nil
}

// copyTable copies every row of s to a, closing both.
func copyTable(s storage.Scanner, a storage.Appender) (n int, retErr error) {
	if err := s.Init(); err != nil {
		return 0, err
	}
	defer func() { retErr = errors.CombineErrors(retErr, s.Close()) }()
	if err := a.Init(); err != nil {
		return 0, err
	}
	defer func() { retErr = errors.CombineErrors(retErr, a.Close()) }()
	return storage.Copy(s, a)
}

func pluralize(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
