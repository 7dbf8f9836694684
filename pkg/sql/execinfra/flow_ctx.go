// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package execinfra

import (
	"github.com/cockroachdb/execcore/pkg/settings"
	"github.com/cockroachdb/execcore/pkg/sql/execstats"
	"github.com/spf13/afero"
)

// JoinAlgorithm identifies a physical join implementation.
type JoinAlgorithm int64

const (
	// HashJoin builds a hash table over the right input and probes it with
	// the left input.
	HashJoin JoinAlgorithm = iota
	// NestedLoopJoin rescans the right input for every left row.
	NestedLoopJoin
)

var joinAlgorithmNames = map[int64]string{
	int64(HashJoin):       "hash",
	int64(NestedLoopJoin): "nested_loop",
}

func (a JoinAlgorithm) String() string {
	if s, ok := joinAlgorithmNames[int64(a)]; ok {
		return s
	}
	return "unknown"
}

// ParseJoinAlgorithm parses the name of a join algorithm.
func ParseJoinAlgorithm(s string) (JoinAlgorithm, bool) {
	v, ok := JoinAlgorithmSetting.ParseEnum(s)
	return JoinAlgorithm(v), ok
}

// JoinAlgorithmSetting is the algorithm used for joins whose spec does not
// name one. Anti and semi joins always use a hash join.
var JoinAlgorithmSetting = settings.RegisterEnumSetting(
	"sql.exec.join.algorithm",
	"algorithm used to execute equality joins",
	"hash",
	joinAlgorithmNames,
)

// HashJoinInitialCapacity is the number of buckets the hash join table is
// created with.
var HashJoinInitialCapacity = settings.RegisterIntSetting(
	"sql.exec.hash_join.initial_capacity",
	"initial number of buckets of the hash join table",
	64,
	settings.PositiveInt,
)

// LenientDecode controls what happens when a lazily decoded column fails
// to decode: if set, the column reads as NULL and the error is counted,
// otherwise the scan fails.
var LenientDecode = settings.RegisterBoolSetting(
	"sql.exec.lazy_decode.lenient",
	"if set, values that fail to decode are read as NULL instead of failing the scan",
	true,
)

// NullMarker is the encoding of NULL in text table files.
var NullMarker = settings.RegisterStringSetting(
	"sql.exec.null_marker",
	"text that denotes NULL in text table files",
	`\N`,
	nil,
)

// TextDelimiter separates the fields of text table files.
var TextDelimiter = settings.RegisterStringSetting(
	"sql.exec.text.delimiter",
	"field delimiter of text table files",
	"|",
	settings.NonEmptyString,
)

// FlowCtx is the execution context shared by every operator of a plan.
type FlowCtx struct {
	Settings *settings.Values
	// Metrics may be nil.
	Metrics *execstats.Metrics
	// Fs is the filesystem table files are read from.
	Fs afero.Fs
}

// NewTestFlowCtx returns a FlowCtx with default settings, no metrics and an
// in-memory filesystem.
func NewTestFlowCtx() *FlowCtx {
	return &FlowCtx{
		Settings: settings.NewValues(),
		Fs:       afero.NewMemMapFs(),
	}
}

// JoinAlgorithm returns the algorithm hint of the flow.
func (f *FlowCtx) JoinAlgorithm() JoinAlgorithm {
	return JoinAlgorithm(JoinAlgorithmSetting.Get(f.Settings))
}

// HashJoinInitialCapacity returns the initial bucket count of hash tables.
func (f *FlowCtx) HashJoinInitialCapacity() int {
	return int(HashJoinInitialCapacity.Get(f.Settings))
}

// LenientDecode returns whether decode errors are masked as NULL.
func (f *FlowCtx) LenientDecode() bool {
	return LenientDecode.Get(f.Settings)
}

// NullMarker returns the text encoding of NULL.
func (f *FlowCtx) NullMarker() string {
	return NullMarker.Get(f.Settings)
}

// TextDelimiter returns the field delimiter of text files.
func (f *FlowCtx) TextDelimiter() string {
	return TextDelimiter.Get(f.Settings)
}
