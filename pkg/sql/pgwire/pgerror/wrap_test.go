// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package pgerror_test

import (
	"io"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/execcore/pkg/sql/pgwire/pgcode"
	"github.com/cockroachdb/execcore/pkg/sql/pgwire/pgerror"
	"github.com/stretchr/testify/require"
)

func TestWrap(t *testing.T) {
	err := pgerror.Newf(pgcode.UndefinedColumn, "column %q does not exist", "a.b")
	require.Equal(t, pgcode.UndefinedColumn, pgerror.GetPGCode(err))
	require.Equal(t, `column "a.b" does not exist`, err.Error())

	// Wrapping keeps the innermost code.
	wrapped := pgerror.Wrapf(err, pgcode.Internal, "evaluating %s", "x")
	require.Equal(t, pgcode.UndefinedColumn, pgerror.GetPGCode(wrapped))
	require.Equal(t, `evaluating x: column "a.b" does not exist`, wrapped.Error())

	// Wrapping a plain error attaches the code.
	ioErr := pgerror.Wrap(io.ErrUnexpectedEOF, pgcode.Io, "")
	require.Equal(t, pgcode.Io, pgerror.GetPGCode(ioErr))
	require.True(t, errors.Is(ioErr, io.ErrUnexpectedEOF))
	require.Equal(t, io.ErrUnexpectedEOF.Error(), ioErr.Error())

	require.Equal(t, pgcode.Uncategorized, pgerror.GetPGCode(errors.New("boom")))
	require.False(t, pgerror.HasCandidateCode(errors.New("boom")))
	require.Equal(t, pgcode.Internal, pgerror.GetPGCode(errors.AssertionFailedf("bad state")))
	require.Nil(t, pgerror.WithCandidateCode(nil, pgcode.Internal))
}
