// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

// Package execinfrapb contains the specifications of physical plans: the
// processors of an operator tree, their inputs, post-processing and
// expressions. Plans are decoded from YAML.
package execinfrapb

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/execcore/pkg/sql/catalog/colinfo"
	"github.com/cockroachdb/execcore/pkg/sql/types"
	"gopkg.in/yaml.v3"
)

// JoinType is the join variant computed by a joiner.
type JoinType int

const (
	InnerJoin JoinType = iota
	LeftOuterJoin
	LeftSemiJoin
	LeftAntiJoin
)

var joinTypeNames = map[JoinType]string{
	InnerJoin:     "inner",
	LeftOuterJoin: "left_outer",
	LeftSemiJoin:  "left_semi",
	LeftAntiJoin:  "left_anti",
}

func (j JoinType) String() string {
	if s, ok := joinTypeNames[j]; ok {
		return s
	}
	return "unknown"
}

// ShouldIncludeRightColsInOutput returns true if the join type emits the
// columns of the right input.
func (j JoinType) ShouldIncludeRightColsInOutput() bool {
	return j == InnerJoin || j == LeftOuterJoin
}

// ParseJoinType parses the name of a join type.
func ParseJoinType(s string) (JoinType, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	switch name {
	case "", "join":
		return InnerJoin, nil
	case "left", "left_join", "left_outer_join":
		return LeftOuterJoin, nil
	case "semi", "left_semi_join":
		return LeftSemiJoin, nil
	case "anti", "left_anti_join":
		return LeftAntiJoin, nil
	}
	for j, n := range joinTypeNames {
		if n == name {
			return j, nil
		}
	}
	return 0, errors.Newf("unknown join type %q", s)
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (j *JoinType) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	var err error
	*j, err = ParseJoinType(s)
	return err
}

// ColumnSpec declares a column. In YAML it is written either as a mapping
// or as the scalar "qualifier.name type".
type ColumnSpec struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (c *ColumnSpec) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		fields := strings.Fields(value.Value)
		if len(fields) != 2 {
			return errors.Newf("line %d: column must be written as \"name type\", found %q",
				value.Line, value.Value)
		}
		c.Name, c.Type = fields[0], fields[1]
		return nil
	}
	type plain ColumnSpec
	return value.Decode((*plain)(c))
}

// Column returns the column described by the spec.
func (c ColumnSpec) Column() (colinfo.Column, error) {
	typ, err := types.FromString(c.Type)
	if err != nil {
		return colinfo.Column{}, errors.Wrapf(err, "column %s", c.Name)
	}
	return colinfo.MakeColumn(c.Name, typ), nil
}

// MakeSchema builds a schema out of column specs.
func MakeSchema(specs []ColumnSpec) (*colinfo.Schema, error) {
	cols := make([]colinfo.Column, len(specs))
	for i, s := range specs {
		col, err := s.Column()
		if err != nil {
			return nil, err
		}
		cols[i] = col
	}
	return colinfo.NewSchema(cols...)
}

// ValuesCoreSpec is the specification of an in-memory row source. Values are
// written in their text form; a YAML null is SQL NULL.
type ValuesCoreSpec struct {
	Columns []ColumnSpec `yaml:"columns"`
	Rows    [][]*string  `yaml:"rows"`
}

// StorageFormat identifies the encoding of a table file.
type StorageFormat string

const (
	// TextFormat is a delimited text file.
	TextFormat StorageFormat = "text"
	// BlockFormat is a compressed block row file.
	BlockFormat StorageFormat = "block"
)

// TableReaderSpec is the specification of a table scan.
type TableReaderSpec struct {
	Path    string        `yaml:"path"`
	Format  StorageFormat `yaml:"format"`
	Columns []ColumnSpec  `yaml:"columns"`
	// Filter is the scan qualifier, evaluated against the table schema.
	Filter *Expression `yaml:"filter,omitempty"`
	// Render is the scan target list; the full row is returned if empty.
	Render []TargetSpec `yaml:"render,omitempty"`
}

// TargetSpec is a named output expression of a projection.
type TargetSpec struct {
	Name string     `yaml:"name"`
	Expr Expression `yaml:"expr"`
}

// FiltererSpec is the specification of a processor that passes the rows of
// its input for which Filter is true.
type FiltererSpec struct {
	Filter Expression `yaml:"filter"`
}

// ProjectionSpec is the specification of a projection of its input.
type ProjectionSpec struct {
	Render []TargetSpec `yaml:"render"`
}

// JoinerSpec is the specification of a join of two inputs, the first one
// being the left (probe) side. If the equality columns are not given they
// are derived from the equality conjuncts of OnExpr.
type JoinerSpec struct {
	Type           JoinType    `yaml:"type"`
	LeftEqColumns  []string    `yaml:"left_eq_columns,omitempty"`
	RightEqColumns []string    `yaml:"right_eq_columns,omitempty"`
	OnExpr         *Expression `yaml:"on_expr,omitempty"`
	// Algorithm overrides the join algorithm of the flow ("hash" or
	// "nested_loop").
	Algorithm string `yaml:"algorithm,omitempty"`
}

// ProcessorCoreUnion holds the core of a processor. Exactly one field must
// be set.
type ProcessorCoreUnion struct {
	Values      *ValuesCoreSpec  `yaml:"values,omitempty"`
	TableReader *TableReaderSpec `yaml:"table_reader,omitempty"`
	Filterer    *FiltererSpec    `yaml:"filterer,omitempty"`
	Projection  *ProjectionSpec  `yaml:"projection,omitempty"`
	Joiner      *JoinerSpec      `yaml:"joiner,omitempty"`
}

// Name returns the name of the set core.
func (c *ProcessorCoreUnion) Name() string {
	switch {
	case c.Values != nil:
		return "values"
	case c.TableReader != nil:
		return "table_reader"
	case c.Filterer != nil:
		return "filterer"
	case c.Projection != nil:
		return "projection"
	case c.Joiner != nil:
		return "joiner"
	}
	return ""
}

func (c *ProcessorCoreUnion) numSet() int {
	n := 0
	for _, set := range []bool{
		c.Values != nil, c.TableReader != nil, c.Filterer != nil, c.Projection != nil, c.Joiner != nil,
	} {
		if set {
			n++
		}
	}
	return n
}

// NumInputs returns the number of inputs the core requires.
func (c *ProcessorCoreUnion) NumInputs() int {
	switch {
	case c.Values != nil, c.TableReader != nil:
		return 0
	case c.Joiner != nil:
		return 2
	}
	return 1
}

// PostProcessSpec describes the processing applied to the output of a
// processor core, in order: filter, render, offset and limit.
type PostProcessSpec struct {
	Filter *Expression  `yaml:"filter,omitempty"`
	Render []TargetSpec `yaml:"render,omitempty"`
	Offset uint64       `yaml:"offset,omitempty"`
	Limit  uint64       `yaml:"limit,omitempty"`
}

// Empty returns whether the post-processing is a no-op.
func (p *PostProcessSpec) Empty() bool {
	return p.Filter == nil && len(p.Render) == 0 && p.Offset == 0 && p.Limit == 0
}

// ProcessorSpec is a node of a physical plan.
type ProcessorSpec struct {
	Core  ProcessorCoreUnion `yaml:"core"`
	Post  PostProcessSpec    `yaml:"post,omitempty"`
	Input []ProcessorSpec    `yaml:"input,omitempty"`
}

// Validate checks the shape of the tree rooted at p.
func (p *ProcessorSpec) Validate() error {
	if n := p.Core.numSet(); n != 1 {
		return errors.Newf("processor must have exactly one core, found %d", n)
	}
	if want := p.Core.NumInputs(); len(p.Input) != want {
		return errors.Newf("%s requires %d inputs, found %d", p.Core.Name(), want, len(p.Input))
	}
	for i := range p.Input {
		if err := p.Input[i].Validate(); err != nil {
			return errors.Wrapf(err, "%s input %d", p.Core.Name(), i)
		}
	}
	return nil
}
