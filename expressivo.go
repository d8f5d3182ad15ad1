// Package expressivo provides an immutable algebraic expression tree
// with symbolic differentiation and constant folding.
//
// Design goals:
//   - Four node kinds: Number, Variable, Sum, Product
//   - Exact decimal arithmetic (math/big.Rat), four fractional digits
//   - Structural, order-sensitive equality with a consistent hash
//   - Canonical rendering that re-parses into an equal tree
//
// Parsing text into a tree is left to callers; the JSON codec and the
// tool interface in this package cover machine-to-machine use.
package expressivo

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
)

// ============================================================
// Core Interface
// ============================================================

// Kind identifies the node type of an Expr.
type Kind int

const (
	KindNumber Kind = iota + 1
	KindVariable
	KindSum
	KindProduct
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindVariable:
		return "variable"
	case KindSum:
		return "sum"
	case KindProduct:
		return "product"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Expr is a node of an expression tree. The set of implementations is
// closed: *Number, *Variable, *Sum and *Product.
type Expr interface {
	String() string
	Kind() Kind
	sealed()
}

var (
	_ Expr = (*Number)(nil)
	_ Expr = (*Variable)(nil)
	_ Expr = (*Sum)(nil)
	_ Expr = (*Product)(nil)
)

var (
	ErrInvalidLiteral    = errors.New("invalid numeric literal")
	ErrInvalidIdentifier = errors.New("invalid identifier")
)

// Env binds variable names to values for Simplify.
type Env map[string]float64

// ============================================================
// Variable — named symbol
// ============================================================

var identifierPattern = regexp.MustCompile(`^[a-zA-Z]+$`)

type Variable struct{ name string }

// NewVariable returns a variable named name. The name must be a
// non-empty run of ASCII letters.
func NewVariable(name string) (*Variable, error) {
	if !identifierPattern.MatchString(name) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidIdentifier, name)
	}
	return &Variable{name: name}, nil
}

// MustVariable is like NewVariable but panics on an invalid name.
func MustVariable(name string) *Variable {
	v, err := NewVariable(name)
	if err != nil {
		panic("expressivo: " + err.Error())
	}
	return v
}

func (v *Variable) String() string { return v.name }
func (v *Variable) Kind() Kind     { return KindVariable }
func (v *Variable) Name() string   { return v.name }
func (v *Variable) sealed()        {}

// ============================================================
// Sum and Product — binary operators
// ============================================================

type Sum struct{ left, right Expr }

// NewSum returns left + right.
func NewSum(left, right Expr) *Sum { return &Sum{left: left, right: right} }

func (s *Sum) String() string { return render(s) }
func (s *Sum) Kind() Kind     { return KindSum }
func (s *Sum) Left() Expr     { return s.left }
func (s *Sum) Right() Expr    { return s.right }
func (s *Sum) sealed()        {}

type Product struct{ left, right Expr }

// NewProduct returns left * right.
func NewProduct(left, right Expr) *Product { return &Product{left: left, right: right} }

func (p *Product) String() string { return render(p) }
func (p *Product) Kind() Kind     { return KindProduct }
func (p *Product) Left() Expr     { return p.left }
func (p *Product) Right() Expr    { return p.right }
func (p *Product) sealed()        {}

// ============================================================
// Predicates and traversal
// ============================================================

// Constant reports whether e is a numeric leaf.
func Constant(e Expr) bool {
	_, ok := e.(*Number)
	return ok
}

// Primitive reports whether e is a leaf, i.e. renders without
// parentheses inside an operator.
func Primitive(e Expr) bool {
	switch e.(type) {
	case *Number, *Variable:
		return true
	case *Sum, *Product:
		return false
	default:
		panic(fmt.Sprintf("unhandled case: %T", e))
	}
}

// Walk calls fn for e and each of its descendants in pre-order.
// Returning false from fn skips the children of that node.
func Walk(e Expr, fn func(Expr) bool) {
	if !fn(e) {
		return
	}
	switch e := e.(type) {
	case *Number, *Variable:
	case *Sum:
		Walk(e.left, fn)
		Walk(e.right, fn)
	case *Product:
		Walk(e.left, fn)
		Walk(e.right, fn)
	default:
		panic(fmt.Sprintf("unhandled case: %T", e))
	}
}

// FreeVariables returns the sorted, distinct names of the variables in e.
func FreeVariables(e Expr) []string {
	seen := map[string]struct{}{}
	Walk(e, func(n Expr) bool {
		if v, ok := n.(*Variable); ok {
			seen[v.name] = struct{}{}
		}
		return true
	})
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
