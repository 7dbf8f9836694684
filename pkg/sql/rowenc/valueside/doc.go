// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

// Package valueside contains the column value encodings used by the storage
// leaves: a human-readable text encoding for delimited files and a compact
// binary encoding for block files. Both implement rowenc.ValueDecoder so
// that scanners can hand raw columns to a LazyTuple.
package valueside
