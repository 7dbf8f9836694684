// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package builtins

import (
	"sort"
	"strings"

	"github.com/cockroachdb/execcore/pkg/sql/pgwire/pgcode"
	"github.com/cockroachdb/execcore/pkg/sql/pgwire/pgerror"
	"github.com/cockroachdb/execcore/pkg/sql/sem/tree"
	"github.com/cockroachdb/execcore/pkg/sql/types"
)

// Overload is one signature of a builtin function.
type Overload struct {
	// Types are the parameter types. A nil entry accepts any type. When
	// Variadic is set, the last entry applies to every remaining argument.
	Types    []*types.T
	Variadic bool
	// ReturnType computes the result type from the argument types.
	ReturnType func(args []*types.T) *types.T
	// CalledOnNullInput is set when Fn must see NULL arguments. Otherwise
	// a NULL argument yields NULL without calling Fn.
	CalledOnNullInput bool
	Fn                func(args []tree.Datum) (tree.Datum, error)
	Info              string
}

// Definition groups the overloads of one function name.
type Definition struct {
	Name      string
	Overloads []Overload
}

// Builtins contains the built-in functions indexed by lower-case name.
var Builtins = map[string]*Definition{}

// AllBuiltinNames is an array containing all the built-in function
// names, sorted in alphabetical order. This can be used for a
// deterministic walk through the Builtins map.
var AllBuiltinNames []string

func register(name string, overloads ...Overload) {
	Builtins[name] = &Definition{Name: name, Overloads: overloads}
}

func init() {
	initStringBuiltins()
	initMathBuiltins()
	initCompressionBuiltins()

	AllBuiltinNames = make([]string, 0, len(Builtins))
	for name := range Builtins {
		AllBuiltinNames = append(AllBuiltinNames, name)
	}
	sort.Strings(AllBuiltinNames)
}

// Lookup returns the definition of the named function.
func Lookup(name string) (*Definition, error) {
	def, ok := Builtins[strings.ToLower(name)]
	if !ok {
		return nil, pgerror.Newf(pgcode.UndefinedFunction, "unknown function: %s()", name)
	}
	return def, nil
}

// Resolve picks the first overload that accepts the argument types.
func (d *Definition) Resolve(args []*types.T) (*Overload, error) {
	for i := range d.Overloads {
		if d.Overloads[i].matches(args) {
			return &d.Overloads[i], nil
		}
	}
	names := make([]string, len(args))
	for i, t := range args {
		names[i] = t.String()
	}
	return nil, pgerror.Newf(pgcode.UndefinedFunction,
		"unknown signature: %s(%s)", d.Name, strings.Join(names, ", "))
}

func (o *Overload) matches(args []*types.T) bool {
	if o.Variadic {
		if len(args) < len(o.Types)-1 {
			return false
		}
	} else if len(args) != len(o.Types) {
		return false
	}
	for i, arg := range args {
		want := o.Types[min(i, len(o.Types)-1)]
		if want == nil || arg.Family == types.UnknownFamily {
			continue
		}
		if want.Family != arg.Family {
			return false
		}
	}
	return true
}

// Call invokes the overload, applying the NULL-input rule.
func (o *Overload) Call(args []tree.Datum) (tree.Datum, error) {
	if !o.CalledOnNullInput {
		for _, a := range args {
			if a == tree.DNull {
				return tree.DNull, nil
			}
		}
	}
	return o.Fn(args)
}

func fixedReturnType(t *types.T) func([]*types.T) *types.T {
	return func([]*types.T) *types.T { return t }
}

// identityReturnType returns the type of the first argument.
func identityReturnType(args []*types.T) *types.T {
	return args[0]
}

// firstNonNullReturnType returns the first argument type that is not the
// NULL type.
func firstNonNullReturnType(args []*types.T) *types.T {
	for _, t := range args {
		if t.Family != types.UnknownFamily {
			return t
		}
	}
	return types.Unknown
}
