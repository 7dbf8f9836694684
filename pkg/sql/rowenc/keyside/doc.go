// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

// Package keyside contains the canonical encoding of join and grouping keys.
//
// Encoded keys are compared bytewise: two key vectors encode to the same
// bytes iff their datums compare equal column by column. To get there,
// numeric values are normalized across families (an INT4 3, an INT8 3, a
// FLOAT8 3.0 and a DECIMAL 3.00 share one encoding), CHAR and TEXT share an
// encoding, and NULL gets its own tag so callers can detect it.
//
// The encoding is not order-preserving and is not meant to be persisted.
package keyside
