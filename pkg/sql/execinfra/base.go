// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package execinfra

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/execcore/pkg/sql/catalog/colinfo"
	"github.com/cockroachdb/execcore/pkg/sql/execinfrapb"
	"github.com/cockroachdb/execcore/pkg/sql/rowenc"
	"github.com/cockroachdb/execcore/pkg/util/log"
)

// Operator is a pull-based source of rows. The lifecycle of an operator is
// Init, any number of Next and Rescan calls, then Close.
//
// Next returns the next row, or nil once the operator is exhausted. After
// the first nil every further call returns nil again. The returned tuple is
// only valid until the next call to Next or Rescan; consumers that retain a
// row must copy it.
//
// Rescan rewinds the operator so that Next produces the same sequence of
// rows again. Close releases all resources; it is idempotent and may be
// called without a prior Init.
type Operator interface {
	Init(ctx context.Context) error
	Next(ctx context.Context) (rowenc.Tuple, error)
	Rescan(ctx context.Context) error
	Close(ctx context.Context) error
	// OutputSchema describes the rows returned by Next.
	OutputSchema() *colinfo.Schema
}

// OpNode is implemented by operators that expose their inputs and
// statistics, which lets a flow walk the operator tree.
type OpNode interface {
	Operator
	Inputs() []Operator
	Stats() *execinfrapb.ComponentStats
}

// OperatorState is the lifecycle state of an operator.
type OperatorState int

const (
	// StateUninitialized is the state before Init.
	StateUninitialized OperatorState = iota
	// StateRunning is the state in which Next may produce rows.
	StateRunning
	// StateExhausted is the state after Next returned the end of the
	// stream. Rescan moves the operator back to StateRunning.
	StateExhausted
	// StateClosed is the terminal state.
	StateClosed
)

func (s OperatorState) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateRunning:
		return "running"
	case StateExhausted:
		return "exhausted"
	case StateClosed:
		return "closed"
	}
	return "unknown"
}

// OperatorBase is meant to be embedded by operators. It implements the
// lifecycle state machine, input bookkeeping, output statistics and the
// default Rescan and Close behavior.
//
// An operator using OperatorBase typically looks like:
//
//	func (f *Filter) Init(ctx context.Context) error {
//		_, err := f.StartInternal(ctx)
//		return err
//	}
//
//	func (f *Filter) Next(ctx context.Context) (rowenc.Tuple, error) {
//		if err := f.MustBeRunning(); err != nil || f.State == execinfra.StateExhausted {
//			return nil, err
//		}
//		...
//		f.MoveToExhausted()
//		return nil, nil
//	}
type OperatorBase struct {
	FlowCtx *FlowCtx
	// Ctx is the context passed to Init, annotated with the operator's log
	// tag. It is only meant for logging.
	Ctx   context.Context
	State OperatorState

	name      string
	schema    *colinfo.Schema
	inputs    []Operator
	stats     execinfrapb.ComponentStats
	startTime time.Time
}

// InitBase sets up the base. It must be called by the operator's
// constructor.
func (ob *OperatorBase) InitBase(
	flowCtx *FlowCtx, name string, schema *colinfo.Schema, inputs ...Operator,
) {
	ob.FlowCtx = flowCtx
	ob.Ctx = context.Background()
	ob.name = name
	ob.schema = schema
	ob.inputs = inputs
	ob.stats = execinfrapb.ComponentStats{
		Component: name,
		Inputs:    make([]execinfrapb.InputStats, len(inputs)),
	}
}

// StartInternal initializes the inputs and moves the operator to
// StateRunning. It returns the annotated context.
func (ob *OperatorBase) StartInternal(ctx context.Context) (context.Context, error) {
	if ob.State != StateUninitialized {
		return ctx, errors.AssertionFailedf("%s: Init called in state %s", ob.name, ob.State)
	}
	ctx = log.WithLogTag(ctx, ob.name, nil)
	ob.Ctx = ctx
	for i, input := range ob.inputs {
		if err := input.Init(ctx); err != nil {
			return ctx, errors.Wrapf(err, "initializing input %d", i)
		}
	}
	ob.State = StateRunning
	ob.startTime = time.Now()
	ob.FlowCtx.Metrics.OperatorInitiated(ob.name)
	log.VEventf(ctx, 2, "initialized")
	return ctx, nil
}

// MustBeRunning returns an assertion failure unless the operator was
// initialized and not closed yet. An exhausted operator is still running
// as far as the lifecycle is concerned.
func (ob *OperatorBase) MustBeRunning() error {
	switch ob.State {
	case StateRunning, StateExhausted:
		return nil
	case StateUninitialized:
		return errors.AssertionFailedf("%s: used before Init", ob.name)
	}
	return errors.AssertionFailedf("%s: used after Close", ob.name)
}

// MoveToExhausted records the end of the stream. Subsequent calls to Next
// must return nil without touching the inputs.
func (ob *OperatorBase) MoveToExhausted() {
	if ob.State != StateRunning {
		return
	}
	ob.State = StateExhausted
	ob.stats.Exec.ExecTime += time.Since(ob.startTime)
	log.VEventf(ob.Ctx, 2, "exhausted after %d rows", ob.stats.Output.NumTuples)
}

// NextInput pulls the next row from input i and counts it.
func (ob *OperatorBase) NextInput(ctx context.Context, i int) (rowenc.Tuple, error) {
	row, err := ob.inputs[i].Next(ctx)
	if err != nil || row == nil {
		return nil, err
	}
	ob.stats.Inputs[i].NumTuples++
	return row, nil
}

// Emit records an output row and returns it.
func (ob *OperatorBase) Emit(row rowenc.Tuple) rowenc.Tuple {
	ob.stats.Output.NumTuples++
	ob.FlowCtx.Metrics.RowEmitted(ob.name)
	if log.V(3) {
		log.Infof(ob.Ctx, "emitting row %s", rowenc.String(row))
	}
	return row
}

// Rescan implements the Operator interface. It rescans every input and
// moves the operator back to StateRunning. Operators with state of their
// own override Rescan and call RescanInternal.
func (ob *OperatorBase) Rescan(ctx context.Context) error {
	return ob.RescanInternal(ctx)
}

// RescanInternal rescans the inputs and resets the state.
func (ob *OperatorBase) RescanInternal(ctx context.Context) error {
	if err := ob.MustBeRunning(); err != nil {
		return err
	}
	for i, input := range ob.inputs {
		if err := input.Rescan(ctx); err != nil {
			return errors.Wrapf(err, "rescanning input %d", i)
		}
	}
	if ob.State == StateExhausted {
		ob.startTime = time.Now()
	}
	ob.State = StateRunning
	log.VEventf(ob.Ctx, 2, "rescanned")
	return nil
}

// InternalClose moves the operator to StateClosed. It returns true the
// first time it is called; operators release their resources only in that
// case, which makes Close idempotent.
func (ob *OperatorBase) InternalClose() bool {
	if ob.State == StateClosed {
		return false
	}
	if ob.State == StateRunning {
		ob.stats.Exec.ExecTime += time.Since(ob.startTime)
	}
	ob.State = StateClosed
	log.VEventf(ob.Ctx, 2, "closed")
	return true
}

// CloseInputs closes every input, returning the combined errors.
func (ob *OperatorBase) CloseInputs(ctx context.Context) error {
	var err error
	for _, input := range ob.inputs {
		err = errors.CombineErrors(err, input.Close(ctx))
	}
	return err
}

// Close implements the Operator interface.
func (ob *OperatorBase) Close(ctx context.Context) error {
	if !ob.InternalClose() {
		return nil
	}
	return ob.CloseInputs(ctx)
}

// OutputSchema implements the Operator interface.
func (ob *OperatorBase) OutputSchema() *colinfo.Schema { return ob.schema }

// Name returns the operator's name, which is also its log tag.
func (ob *OperatorBase) Name() string { return ob.name }

// Inputs implements the OpNode interface.
func (ob *OperatorBase) Inputs() []Operator { return ob.inputs }

// Stats implements the OpNode interface. The returned value is a copy.
func (ob *OperatorBase) Stats() *execinfrapb.ComponentStats {
	s := ob.stats
	s.Inputs = append([]execinfrapb.InputStats(nil), ob.stats.Inputs...)
	return &s
}

// CollectStats returns the statistics of every operator of the tree rooted
// at op, in pre-order.
func CollectStats(op Operator) []*execinfrapb.ComponentStats {
	var res []*execinfrapb.ComponentStats
	var walk func(Operator)
	walk = func(op Operator) {
		n, ok := op.(OpNode)
		if !ok {
			return
		}
		res = append(res, n.Stats())
		for _, input := range n.Inputs() {
			walk(input)
		}
	}
	walk(op)
	return res
}
