package expressivo

import (
	"fmt"
	"math"
	"math/big"
	"regexp"
	"strconv"
	"strings"
)

// ============================================================
// Number — exact decimal constant
// ============================================================

// fractionDigits is the number of significant fractional digits a
// Number keeps. Anything past it is truncated.
const fractionDigits = 4

// Leading zeros are dropped; fractional digits past the fourth match
// the trailing \d* and are discarded.
var numeralPattern = regexp.MustCompile(`^0*(\d+(?:\.\d{1,4})?)\d*$`)

var fractionScale = new(big.Int).Exp(big.NewInt(10), big.NewInt(fractionDigits), nil)

type Number struct{ val *big.Rat }

// ParseNumber returns the Number denoted by text: an integer part with an
// optional fractional part of at least one digit.
func ParseNumber(text string) (*Number, error) {
	m := numeralPattern.FindStringSubmatch(text)
	if m == nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidLiteral, text)
	}
	r, ok := new(big.Rat).SetString(m[1])
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidLiteral, text)
	}
	return &Number{val: r}, nil
}

func MustParseNumber(text string) *Number {
	n, err := ParseNumber(text)
	if err != nil {
		panic("expressivo: " + err.Error())
	}
	return n
}

func numInt(n int64) *Number { return &Number{val: new(big.Rat).SetInt64(n)} }

// numRat truncates r to fractionDigits and wraps it. r is not retained.
func numRat(r *big.Rat) *Number { return &Number{val: truncate(r)} }

// numFloat converts a bound environment value. The shortest decimal
// form of f is used, then truncated like a literal. Negative and
// non-finite values have no numeral and report false.
func numFloat(f float64) (*Number, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return nil, false
	}
	r, ok := new(big.Rat).SetString(strconv.FormatFloat(f, 'f', -1, 64))
	if !ok {
		return nil, false
	}
	return numRat(r), true
}

func truncate(r *big.Rat) *big.Rat {
	if r.IsInt() {
		return new(big.Rat).Set(r)
	}
	scaled := new(big.Int).Mul(r.Num(), fractionScale)
	scaled.Quo(scaled, r.Denom())
	return new(big.Rat).SetFrac(scaled, fractionScale)
}

func numAdd(a, b *Number) *Number { return numRat(new(big.Rat).Add(a.val, b.val)) }
func numMul(a, b *Number) *Number { return numRat(new(big.Rat).Mul(a.val, b.val)) }

func (n *Number) Kind() Kind { return KindNumber }
func (n *Number) sealed()    {}

// Value returns a copy of the number's exact value.
func (n *Number) Value() *big.Rat { return new(big.Rat).Set(n.val) }

func (n *Number) Float64() float64 { f, _ := n.val.Float64(); return f }
func (n *Number) IsZero() bool     { return n.val.Sign() == 0 }
func (n *Number) IsInteger() bool  { return n.val.IsInt() }

// String renders the plain decimal form with no trailing zeros.
func (n *Number) String() string {
	if n.val.IsInt() {
		return n.val.Num().String()
	}
	s := n.val.FloatString(fractionDigits)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
