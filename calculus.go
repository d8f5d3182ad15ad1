package expressivo

import "fmt"

// ============================================================
// Differentiation
// ============================================================

// Diff returns the derivative of e with respect to varName. The result
// is not simplified: d/dx(x*x) is x*1 + x*1. Call Simplify to fold
// constants. The result reuses subtrees of e rather than copying them.
func Diff(e Expr, varName string) Expr {
	switch e := e.(type) {
	case *Number:
		return numInt(0)
	case *Variable:
		if e.name == varName {
			return numInt(1)
		}
		return numInt(0)
	case *Sum:
		return NewSum(Diff(e.left, varName), Diff(e.right, varName))
	case *Product:
		// product rule: (uv)' = u*v' + v*u'
		return NewSum(
			NewProduct(e.left, Diff(e.right, varName)),
			NewProduct(e.right, Diff(e.left, varName)),
		)
	default:
		panic(fmt.Sprintf("unhandled case: %T", e))
	}
}

// DiffN applies Diff n times.
func DiffN(e Expr, varName string, n int) Expr {
	for i := 0; i < n; i++ {
		e = Diff(e, varName)
	}
	return e
}

// ============================================================
// Simplification
// ============================================================

// Simplify substitutes the variables bound in env and folds every
// operator whose operands are both numbers. Nothing else is rewritten:
// x + 0 and x * 1 are left alone. Bindings that are negative, NaN or
// infinite cannot be written as a numeral and leave the variable unbound.
func Simplify(e Expr, env Env) Expr {
	switch e := e.(type) {
	case *Number:
		return e
	case *Variable:
		if v, ok := env[e.name]; ok {
			if n, ok := numFloat(v); ok {
				return n
			}
		}
		return e
	case *Sum:
		l, r := Simplify(e.left, env), Simplify(e.right, env)
		ln, lok := l.(*Number)
		rn, rok := r.(*Number)
		if lok && rok {
			return numAdd(ln, rn)
		}
		return NewSum(l, r)
	case *Product:
		l, r := Simplify(e.left, env), Simplify(e.right, env)
		ln, lok := l.(*Number)
		rn, rok := r.(*Number)
		if lok && rok {
			return numMul(ln, rn)
		}
		return NewProduct(l, r)
	default:
		panic(fmt.Sprintf("unhandled case: %T", e))
	}
}
