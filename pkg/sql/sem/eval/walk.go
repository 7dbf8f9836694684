// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package eval

import (
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Visitor defines methods that are called for the nodes of an expression
// tree during a Walk.
type Visitor interface {
	// VisitPre is called for each node before its children are walked. If
	// recurse is false, the children of the node are skipped and VisitPost
	// is not called for it.
	VisitPre(e Expr) (recurse bool)

	// VisitPost is called for each node after all its children were
	// walked.
	VisitPost(e Expr)
}

// Walk traverses the tree rooted at e, depth first.
func Walk(v Visitor, e Expr) {
	if !v.VisitPre(e) {
		return
	}
	for _, c := range e.Children() {
		Walk(v, c)
	}
	v.VisitPost(e)
}

type fnVisitor struct {
	pre  func(Expr) bool
	post func(Expr)
}

func (v fnVisitor) VisitPre(e Expr) bool {
	if v.pre == nil {
		return true
	}
	return v.pre(e)
}

func (v fnVisitor) VisitPost(e Expr) {
	if v.post != nil {
		v.post(e)
	}
}

// WalkPreOrder calls fn for every node before its children. Returning false
// from fn skips the children of that node.
func WalkPreOrder(e Expr, fn func(Expr) bool) {
	Walk(fnVisitor{pre: fn}, e)
}

// WalkPostOrder calls fn for every node after its children.
func WalkPostOrder(e Expr, fn func(Expr)) {
	Walk(fnVisitor{post: fn}, e)
}

// Fields returns the column references of e in pre-order.
func Fields(e Expr) []*FieldExpr {
	var res []*FieldExpr
	WalkPreOrder(e, func(e Expr) bool {
		if f, ok := e.(*FieldExpr); ok {
			res = append(res, f)
		}
		return true
	})
	return res
}

// label describes the node itself, ignoring its children. Two nodes of the
// same kind with the same label and equal children are equal.
func label(e Expr) string {
	switch t := e.(type) {
	case *FieldExpr:
		return t.Name + ":" + t.Typ.SQLString()
	case *ConstExpr:
		return t.Datum.ResolvedType().SQLString() + ":" + t.Datum.String()
	case *ComparisonExpr:
		return t.Op.String()
	case *BinaryExpr:
		return t.Op.String()
	case *BetweenExpr:
		return strconv.FormatBool(t.Not) + ":" + strconv.FormatBool(t.Symmetric)
	case *IsNullExpr:
		return strconv.FormatBool(t.Negated)
	case *FuncExpr:
		return t.Name
	case *CastExpr:
		return t.Type.SQLString()
	}
	return ""
}

// Equal returns whether two expression trees are structurally equal. Column
// references compare by name and type; the ordinal a FieldExpr may have
// cached is ignored.
func Equal(a, b Expr) bool {
	if a.Kind() != b.Kind() || label(a) != label(b) {
		return false
	}
	ac, bc := a.Children(), b.Children()
	if len(ac) != len(bc) {
		return false
	}
	for i := range ac {
		if !Equal(ac[i], bc[i]) {
			return false
		}
	}
	return true
}

// Fingerprint returns a hash of the structure of e such that Equal
// expressions have the same fingerprint.
func Fingerprint(e Expr) uint64 {
	var b strings.Builder
	writeFingerprint(&b, e)
	return xxhash.Sum64String(b.String())
}

func writeFingerprint(b *strings.Builder, e Expr) {
	b.WriteString(e.Kind().String())
	b.WriteByte('[')
	b.WriteString(label(e))
	for _, c := range e.Children() {
		b.WriteByte(' ')
		writeFingerprint(b, c)
	}
	b.WriteByte(']')
}
