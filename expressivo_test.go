package expressivo_test

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/njchilds90/expressivo"
)

func num(s string) expressivo.Expr { return expressivo.MustParseNumber(s) }
func sym(s string) expressivo.Expr { return expressivo.MustVariable(s) }
func add(l, r expressivo.Expr) expressivo.Expr {
	return expressivo.NewSum(l, r)
}
func mul(l, r expressivo.Expr) expressivo.Expr {
	return expressivo.NewProduct(l, r)
}

// ============================================================
// Number tests
// ============================================================

func TestNumber_Canonical(t *testing.T) {
	cases := []struct{ in, want string }{
		{"0", "0"},
		{"000", "0"},
		{"7", "7"},
		{"007.5000", "7.5"},
		{"3.00", "3"},
		{"2.00", "2"},
		{"1.50", "1.5"},
		{"0.0001", "0.0001"},
		{"0.00001", "0"},
		{"1.23456789", "1.2345"},
		{"1.99999", "1.9999"},
		{"123456789012345678901234567890", "123456789012345678901234567890"},
	}
	for _, c := range cases {
		n, err := expressivo.ParseNumber(c.in)
		if err != nil {
			t.Errorf("ParseNumber(%q): unexpected error %v", c.in, err)
			continue
		}
		if n.String() != c.want {
			t.Errorf("ParseNumber(%q): want %s, got %s", c.in, c.want, n.String())
		}
	}
}

func TestNumber_Invalid(t *testing.T) {
	for _, in := range []string{"", ".", "1.", ".5", "-1", "+1", "1e5", "1.5.2", " 1", "1 ", "x", "1,5", "٣"} {
		_, err := expressivo.ParseNumber(in)
		if !errors.Is(err, expressivo.ErrInvalidLiteral) {
			t.Errorf("ParseNumber(%q): want ErrInvalidLiteral, got %v", in, err)
		}
	}
}

func TestNumber_EqualAcrossSpellings(t *testing.T) {
	if !expressivo.Equal(num("1.50"), num("1.5")) {
		t.Errorf("1.50 and 1.5 should be equal")
	}
	if expressivo.Hash(num("1.50")) != expressivo.Hash(num("01.5")) {
		t.Errorf("1.50 and 01.5 should hash alike")
	}
	if expressivo.Equal(num("1.5"), num("1.51")) {
		t.Errorf("1.5 and 1.51 should differ")
	}
}

func TestNumber_Diff_IsZero(t *testing.T) {
	result := expressivo.Diff(num("5"), "x")
	if expressivo.String(result) != "0" {
		t.Errorf("d/dx(5) should be 0, got %s", expressivo.String(result))
	}
}

func TestNumber_Simplify_Identity(t *testing.T) {
	n := num("2.5")
	if got := expressivo.Simplify(n, expressivo.Env{"x": 1}); got != n {
		t.Errorf("Simplify(number) should return the same node")
	}
	if !expressivo.Constant(n) || !expressivo.Primitive(n) {
		t.Errorf("a number is constant and primitive")
	}
}

func TestNumber_Value(t *testing.T) {
	n := expressivo.MustParseNumber("2.25")
	v := n.Value()
	v.SetInt64(9)
	if n.String() != "2.25" {
		t.Errorf("Value must return a copy, number became %s", n.String())
	}
	if n.Float64() != 2.25 || n.IsInteger() || n.IsZero() {
		t.Errorf("unexpected accessors for 2.25")
	}
}

func TestMustParseNumber_Panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("MustParseNumber should panic on bad input")
		}
	}()
	expressivo.MustParseNumber("abc")
}

// ============================================================
// Variable tests
// ============================================================

func TestVariable_Valid(t *testing.T) {
	for _, name := range []string{"x", "X", "foo", "camelCase"} {
		v, err := expressivo.NewVariable(name)
		if err != nil {
			t.Errorf("NewVariable(%q): unexpected error %v", name, err)
			continue
		}
		if v.String() != name || v.Name() != name {
			t.Errorf("want %s, got %s", name, v.String())
		}
	}
}

func TestVariable_Invalid(t *testing.T) {
	for _, name := range []string{"", "x1", "_x", "x y", "é", "x-y", "1"} {
		_, err := expressivo.NewVariable(name)
		if !errors.Is(err, expressivo.ErrInvalidIdentifier) {
			t.Errorf("NewVariable(%q): want ErrInvalidIdentifier, got %v", name, err)
		}
	}
}

func TestVariable_CaseSensitive(t *testing.T) {
	if expressivo.Equal(sym("x"), sym("X")) {
		t.Errorf("x and X should differ")
	}
	if got := expressivo.String(expressivo.Diff(sym("X"), "x")); got != "0" {
		t.Errorf("d/dx(X) should be 0, got %s", got)
	}
}

func TestVariable_Diff_Self(t *testing.T) {
	result := expressivo.Diff(sym("x"), "x")
	if expressivo.String(result) != "1" {
		t.Errorf("d/dx(x) should be 1, got %s", expressivo.String(result))
	}
}

func TestVariable_Diff_Other(t *testing.T) {
	result := expressivo.Diff(sym("x"), "y")
	if expressivo.String(result) != "0" {
		t.Errorf("d/dy(x) should be 0, got %s", expressivo.String(result))
	}
}

func TestVariable_Simplify(t *testing.T) {
	x := sym("x")
	if got := expressivo.String(expressivo.Simplify(x, expressivo.Env{"x": 4.0})); got != "4" {
		t.Errorf("want 4, got %s", got)
	}
	if got := expressivo.Simplify(x, expressivo.Env{"y": 4.0}); got != x {
		t.Errorf("unbound variable should pass through unchanged, got %s", got)
	}
	if got := expressivo.Simplify(x, nil); got != x {
		t.Errorf("nil env should leave x unchanged, got %s", got)
	}
}

func TestVariable_Simplify_BindingPrecision(t *testing.T) {
	cases := []struct {
		val  float64
		want string
	}{
		{4.0, "4"},
		{0.1, "0.1"},
		{2.5, "2.5"},
		{1.23456, "1.2345"},
		{1e-5, "0"},
		{1e20, "100000000000000000000"},
	}
	for _, c := range cases {
		got := expressivo.Simplify(sym("x"), expressivo.Env{"x": c.val})
		if !expressivo.Constant(got) || got.String() != c.want {
			t.Errorf("x=%v: want %s, got %s", c.val, c.want, got)
		}
	}
}

// ============================================================
// Sum and Product tests
// ============================================================

func TestSum_String(t *testing.T) {
	cases := []struct {
		e    expressivo.Expr
		want string
	}{
		{add(sym("x"), num("1")), "x + 1"},
		{add(add(sym("a"), sym("b")), sym("c")), "a + b + c"},
		{add(sym("a"), add(sym("b"), sym("c"))), "a + (b + c)"},
		{add(mul(sym("a"), sym("b")), mul(sym("c"), sym("d"))), "a * b + c * d"},
		{mul(add(sym("a"), sym("b")), sym("c")), "(a + b) * c"},
		{mul(sym("a"), add(sym("b"), sym("c"))), "a * (b + c)"},
		{mul(mul(sym("a"), sym("b")), sym("c")), "a * b * c"},
		{mul(sym("a"), mul(sym("b"), sym("c"))), "a * (b * c)"},
		{mul(num("2.50"), sym("y")), "2.5 * y"},
	}
	for _, c := range cases {
		if got := expressivo.String(c.e); got != c.want {
			t.Errorf("want %q, got %q", c.want, got)
		}
		if got := c.e.String(); got != c.want {
			t.Errorf("method String: want %q, got %q", c.want, got)
		}
	}
}

func TestSum_NotCommutative(t *testing.T) {
	a := add(sym("x"), num("1"))
	b := add(num("1"), sym("x"))
	if expressivo.Equal(a, b) {
		t.Errorf("x + 1 and 1 + x must not be structurally equal")
	}
	if !expressivo.Equal(a, add(sym("x"), num("1.0"))) {
		t.Errorf("x + 1 and x + 1.0 should be equal")
	}
}

func TestSumProduct_DistinctKinds(t *testing.T) {
	s := add(sym("x"), sym("y"))
	p := mul(sym("x"), sym("y"))
	if expressivo.Equal(s, p) || expressivo.Equal(p, s) {
		t.Errorf("sum and product with the same operands must differ")
	}
	if expressivo.Hash(s) == expressivo.Hash(p) {
		t.Errorf("sum and product with the same operands should hash differently")
	}
	if expressivo.Equal(sym("x"), num("1")) || expressivo.Equal(num("1"), s) {
		t.Errorf("leaves of different kinds must differ")
	}
}

func TestSum_Diff(t *testing.T) {
	// d/dx(x + y) = 1 + 0
	d := expressivo.Diff(add(sym("x"), sym("y")), "x")
	if got := expressivo.String(d); got != "1 + 0" {
		t.Errorf("want '1 + 0', got %s", got)
	}
}

func TestProduct_Diff_Scenario(t *testing.T) {
	d := expressivo.Diff(mul(sym("x"), sym("x")), "x")
	s := expressivo.Simplify(d, expressivo.Env{})
	if got := expressivo.String(s); got != "x * 1 + x * 1" {
		t.Errorf("want 'x * 1 + x * 1', got %s", got)
	}
	if got := expressivo.String(expressivo.Simplify(d, expressivo.Env{"x": 3})); got != "6" {
		t.Errorf("want 6 with x=3, got %s", got)
	}
}

func TestSimplify_FoldSum(t *testing.T) {
	got := expressivo.Simplify(add(num("2"), num("3")), expressivo.Env{})
	if expressivo.String(got) != "5" {
		t.Errorf("want 5, got %s", expressivo.String(got))
	}
}

func TestSimplify_FoldExact(t *testing.T) {
	cases := []struct {
		e    expressivo.Expr
		want string
	}{
		{add(num("0.1"), num("0.2")), "0.3"},
		{add(num("1.5"), num("1.5")), "3"},
		{mul(num("1.5"), num("2")), "3"},
		{mul(num("0.01"), num("0.01")), "0.0001"},
		{mul(num("0.001"), num("0.01")), "0"},
		{mul(num("1.2345"), num("1.2345")), "1.5239"},
		{mul(add(num("1"), num("2")), add(num("3"), num("4"))), "21"},
	}
	for _, c := range cases {
		if got := expressivo.String(expressivo.Simplify(c.e, nil)); got != c.want {
			t.Errorf("%s: want %s, got %s", c.e, c.want, got)
		}
	}
}

func TestSimplify_NoIdentityFolding(t *testing.T) {
	cases := []struct {
		e    expressivo.Expr
		want string
	}{
		{add(sym("x"), num("0")), "x + 0"},
		{mul(sym("x"), num("1")), "x * 1"},
		{mul(num("0"), sym("x")), "0 * x"},
		{add(add(sym("x"), num("1")), num("2")), "x + 1 + 2"},
		{add(sym("x"), sym("x")), "x + x"},
	}
	for _, c := range cases {
		if got := expressivo.String(expressivo.Simplify(c.e, nil)); got != c.want {
			t.Errorf("want %s, got %s", c.want, got)
		}
	}
}

func TestSimplify_PartialBinding(t *testing.T) {
	e := add(mul(sym("x"), sym("y")), add(sym("x"), num("1")))
	got := expressivo.Simplify(e, expressivo.Env{"x": 2})
	if s := expressivo.String(got); s != "2 * y + 3" {
		t.Errorf("want '2 * y + 3', got %s", s)
	}
}

func TestSimplify_UnrepresentableBindingIgnored(t *testing.T) {
	for _, v := range []float64{math.Inf(1), math.Inf(-1), math.NaN(), -2, -0.5} {
		got := expressivo.Simplify(add(sym("x"), num("1")), expressivo.Env{"x": v})
		if s := expressivo.String(got); s != "x + 1" {
			t.Errorf("x=%v: want 'x + 1', got %s", v, s)
		}
	}
}

func TestSimplify_LeavesInputUntouched(t *testing.T) {
	e := add(mul(sym("x"), num("2")), num("3"))
	before := expressivo.String(e)
	_ = expressivo.Simplify(e, expressivo.Env{"x": 5})
	_ = expressivo.Diff(e, "x")
	if expressivo.String(e) != before {
		t.Errorf("input changed from %s to %s", before, expressivo.String(e))
	}
}

func TestDiff_ReusesOperands(t *testing.T) {
	u, v := add(sym("x"), num("1")), sym("y")
	d, ok := expressivo.Diff(mul(u, v), "x").(*expressivo.Sum)
	if !ok {
		t.Fatalf("want a Sum, got %T", d)
	}
	left, lok := d.Left().(*expressivo.Product)
	right, rok := d.Right().(*expressivo.Product)
	if !lok || !rok {
		t.Fatalf("want Product operands, got %s", d)
	}
	if left.Left() != u || right.Left() != v {
		t.Errorf("want the input operands reused, got %s", d)
	}
	if s := expressivo.String(u); s != "x + 1" {
		t.Errorf("operand changed to %s", s)
	}
}

// ============================================================
// Accessors, predicates and traversal
// ============================================================

func TestAccessors(t *testing.T) {
	x, one := sym("x"), num("1")
	s := expressivo.NewSum(x, one)
	if s.Left() != x || s.Right() != one || s.Kind() != expressivo.KindSum {
		t.Errorf("sum accessors wrong")
	}
	p := expressivo.NewProduct(one, x)
	if p.Left() != one || p.Right() != x || p.Kind() != expressivo.KindProduct {
		t.Errorf("product accessors wrong")
	}
	if expressivo.Primitive(s) || expressivo.Constant(s) || expressivo.Constant(x) {
		t.Errorf("predicates wrong")
	}
	if expressivo.KindVariable.String() != "variable" || expressivo.Kind(99).String() != "Kind(99)" {
		t.Errorf("Kind.String wrong")
	}
}

func TestFreeVariables(t *testing.T) {
	e := add(mul(sym("y"), sym("x")), add(sym("x"), mul(num("2"), sym("B"))))
	got := expressivo.FreeVariables(e)
	want := []string{"B", "x", "y"}
	if len(got) != len(want) {
		t.Fatalf("want %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("want %v, got %v", want, got)
		}
	}
	if len(expressivo.FreeVariables(num("3"))) != 0 {
		t.Errorf("a number has no variables")
	}
}

func TestWalk_SkipChildren(t *testing.T) {
	e := add(mul(sym("a"), sym("b")), sym("c"))
	var seen []string
	expressivo.Walk(e, func(n expressivo.Expr) bool {
		seen = append(seen, n.Kind().String())
		return n.Kind() != expressivo.KindProduct
	})
	want := "sum product variable"
	if got := strings.Join(seen, " "); got != want {
		t.Errorf("want %q, got %q", want, got)
	}
}

func TestDiffN(t *testing.T) {
	e := mul(sym("x"), mul(sym("x"), sym("x")))
	d3 := expressivo.Simplify(expressivo.DiffN(e, "x", 3), expressivo.Env{"x": 7})
	if got := expressivo.String(d3); got != "6" {
		t.Errorf("d3/dx3(x^3) should be 6, got %s", got)
	}
	if expressivo.DiffN(e, "x", 0) != e {
		t.Errorf("DiffN with n=0 should return the input")
	}
}

func TestSimplify_NegativeBindingStaysReadable(t *testing.T) {
	e := mul(sym("x"), sym("y"))
	got := expressivo.Simplify(e, expressivo.Env{"x": -2, "y": 3})
	if !expressivo.Equal(got, mul(sym("x"), num("3"))) {
		t.Fatalf("want 'x * 3', got %s", got)
	}

	j, err := expressivo.ToJSON(got)
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}
	back, err := expressivo.ParseJSON([]byte(j))
	if err != nil {
		t.Fatalf("ParseJSON(%s): %v", j, err)
	}
	if !expressivo.Equal(got, back) {
		t.Errorf("want %s, got %s", got, back)
	}
}
