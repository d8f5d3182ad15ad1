package expressivo

import (
	"fmt"
	"hash/fnv"
	"strings"
)

// ============================================================
// Rendering
// ============================================================

// String renders e in canonical form. Parentheses appear only where
// precedence or left associativity requires them: (x + y) * z, x + (y + z).
func String(e Expr) string { return e.String() }

func render(e Expr) string {
	var b strings.Builder
	writeExpr(&b, e)
	return b.String()
}

func writeExpr(b *strings.Builder, e Expr) {
	switch e := e.(type) {
	case *Number, *Variable:
		b.WriteString(e.String())
	case *Sum:
		writeOperand(b, e.left, needsParens(KindSum, e.left, false))
		b.WriteString(" + ")
		writeOperand(b, e.right, needsParens(KindSum, e.right, true))
	case *Product:
		writeOperand(b, e.left, needsParens(KindProduct, e.left, false))
		b.WriteString(" * ")
		writeOperand(b, e.right, needsParens(KindProduct, e.right, true))
	default:
		panic(fmt.Sprintf("unhandled case: %T", e))
	}
}

func writeOperand(b *strings.Builder, e Expr, parens bool) {
	if !parens {
		writeExpr(b, e)
		return
	}
	b.WriteByte('(')
	writeExpr(b, e)
	b.WriteByte(')')
}

// needsParens reports whether child must be bracketed under an operator
// of kind parent so that a left-associative reader, with * binding
// tighter than +, rebuilds the same tree.
func needsParens(parent Kind, child Expr, right bool) bool {
	if Primitive(child) {
		return false
	}
	switch parent {
	case KindSum:
		// a + b * c and a + b + c read back unchanged; a + (b + c) does not.
		return right && child.Kind() == KindSum
	case KindProduct:
		return right || child.Kind() == KindSum
	}
	return true
}

// ============================================================
// Structural equality and hashing
// ============================================================

// Equal reports whether a and b have the same shape and leaves. Operand
// order matters: x + 1 and 1 + x are different trees.
func Equal(a, b Expr) bool {
	switch a := a.(type) {
	case *Number:
		o, ok := b.(*Number)
		return ok && a.val.Cmp(o.val) == 0
	case *Variable:
		o, ok := b.(*Variable)
		return ok && a.name == o.name
	case *Sum:
		o, ok := b.(*Sum)
		return ok && Equal(a.left, o.left) && Equal(a.right, o.right)
	case *Product:
		o, ok := b.(*Product)
		return ok && Equal(a.left, o.left) && Equal(a.right, o.right)
	default:
		panic(fmt.Sprintf("unhandled case: %T", a))
	}
}

const (
	sumHashFactor     = 31
	productHashFactor = 37
)

// Hash returns a hash consistent with Equal.
func Hash(e Expr) uint64 {
	switch e := e.(type) {
	case *Number:
		return leafHash('n', e.String())
	case *Variable:
		return leafHash('v', e.name)
	case *Sum:
		return sumHashFactor*Hash(e.left) + Hash(e.right)
	case *Product:
		return productHashFactor*Hash(e.left) + Hash(e.right)
	default:
		panic(fmt.Sprintf("unhandled case: %T", e))
	}
}

func leafHash(tag byte, text string) uint64 {
	h := fnv.New64a()
	h.Write([]byte{tag})
	h.Write([]byte(text))
	return h.Sum64()
}
