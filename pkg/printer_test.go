package ember

import (
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	fuzz "github.com/google/gofuzz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrinterStrings(t *testing.T) {
	nodes := []interface{}{
		bin(BinaryAddition, lit(1), bin(BinaryMultiplication, lit(2), lit(3))),
		bin(BinaryMultiplication, bin(BinaryAddition, lit(1), lit(3)), lit(2)),
		bin(BinarySubtraction, bin(BinarySubtraction, lit(1), lit(2)), lit(3)),
		bin(BinarySubtraction, lit(1), bin(BinarySubtraction, lit(2), lit(3))),
		bin(BinaryAddition, id("a"), bin(BinarySubtraction, id("b"), id("c"))),
		bin(BinarySubtraction, bin(BinaryAddition, id("a"), id("b")), id("c")),
		&FuncCall{Name: "foo", Args: []Expr{lit(1), bin(BinaryAddition, lit(2), lit(3))}},
		&FuncCall{Name: "bar"},
		lit(2.5),
		&FuncDecl{
			Proto: &Prototype{Name: "add", Params: []string{"a", "b"}},
			Body:  bin(BinaryAddition, id("a"), id("b")),
		},
		&ExternDecl{Proto: &Prototype{Name: "sin", Params: []string{"x"}}},
		topLevel(bin(BinaryLess, id("x"), lit(1))),
	}
	strs := []string{
		"1 + 2 * 3",
		"(1 + 3) * 2",
		"1 - 2 - 3",
		"1 - (2 - 3)",
		"a + b - c",
		"(a + b) - c",
		"foo(1, 2 + 3)",
		"bar()",
		"2.5",
		"func add(a b) a + b",
		"extern sin(x)",
		"x < 1",
	}

	for i, n := range nodes {
		assert.Equal(t, strs[i], n.(interface{ String() string }).String(), "node %d", i)
	}
}

func TestPrinterProgram(t *testing.T) {
	stmts := []Stmt{
		&ExternDecl{Proto: &Prototype{Name: "cos", Params: []string{"x"}}},
		&EOS{},
		topLevel(&FuncCall{Name: "cos", Args: []Expr{lit(0)}}),
	}

	assert.Equal(t, "extern cos(x)\ncos(0)", NewPrinter(nil).Program(stmts))
}

func randomName(c fuzz.Continue) string {
	const letters = "abxyz"

	name := make([]byte, 1+c.Intn(3))
	for i := range name {
		name[i] = letters[c.Intn(len(letters))]
	}

	return string(name)
}

func randomExpr(c fuzz.Continue, depth int) Expr {
	kinds := 4
	if depth == 0 {
		kinds = 2
	}

	switch c.Intn(kinds) {
	case 0:
		if c.Intn(50) == 0 {
			return lit(math.Inf(1))
		}

		return lit(float64(c.Intn(10000)) / 8)
	case 1:
		return id(randomName(c))
	case 2:
		ops := []BinaryOp{BinaryLess, BinaryAddition, BinarySubtraction, BinaryMultiplication}
		return bin(ops[c.Intn(len(ops))], randomExpr(c, depth-1), randomExpr(c, depth-1))
	default:
		var args []Expr
		for i := c.Intn(3); i > 0; i-- {
			args = append(args, randomExpr(c, depth-1))
		}

		return &FuncCall{Name: randomName(c), Args: args}
	}
}

func newExprFuzzer(seed int64) *fuzz.Fuzzer {
	return fuzz.NewWithSeed(seed).NilChance(0).Funcs(
		func(e *Expr, c fuzz.Continue) {
			*e = randomExpr(c, 5)
		},
		func(p *Prototype, c fuzz.Continue) {
			p.Name = randomName(c)
			p.Params = nil
			for i := c.Intn(4); i > 0; i-- {
				p.Params = append(p.Params, randomName(c))
			}
		},
	)
}

func TestPrinterRoundTrip(t *testing.T) {
	printer := NewPrinter(nil)

	for seed := int64(0); seed < 300; seed++ {
		var want Expr
		newExprFuzzer(seed).Fuzz(&want)

		src := printer.Expr(want)
		p := newSourceParser(src)

		got, err := p.ParseExpression()
		require.NoError(t, err, src)
		assert.Equal(t, TokenEOF, p.cur.Typ, src)

		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("%s: tree changed after reparse (-want +got):\n%s", src, diff)
		}
	}
}

func TestPrinterOverflowingLiteral(t *testing.T) {
	src := strings.Repeat("9", 400) + " * 2"

	e, err := newSourceParser(src).ParseExpression()
	require.NoError(t, err)
	require.Equal(t, bin(BinaryMultiplication, lit(math.Inf(1)), lit(2)), e)

	out := NewPrinter(nil).Expr(e)
	assert.NotContains(t, out, "Inf")

	got, err := newSourceParser(out).ParseExpression()
	require.NoError(t, err, out)
	assert.Equal(t, e, got)
}

func TestPrinterStmtRoundTrip(t *testing.T) {
	printer := NewPrinter(nil)

	for seed := int64(0); seed < 100; seed++ {
		f := newExprFuzzer(seed)

		var proto Prototype
		var body Expr
		f.Fuzz(&proto)
		f.Fuzz(&body)

		stmts := []Stmt{
			&FuncDecl{Proto: &proto, Body: body},
			&ExternDecl{Proto: &proto},
			topLevel(body),
		}

		src := printer.Program(stmts)
		got := newSourceParser(src).Run()
		require.Empty(t, got.Errors, src)

		if diff := cmp.Diff(stmts, got.Statements); diff != "" {
			t.Errorf("%s: statements changed after reparse (-want +got):\n%s", src, diff)
		}
	}
}

func TestPrinterCustomPrecedence(t *testing.T) {
	prec := PrecedenceTable{'+': 50, '*': 10}
	e := bin(BinaryMultiplication, lit(1), bin(BinaryAddition, lit(2), lit(3)))

	src := NewPrinter(prec).Expr(e)
	assert.Equal(t, "1 * 2 + 3", src)

	got, err := NewParser(NewLexer(strings.NewReader(src)), prec).ParseExpression()
	require.NoError(t, err)
	assert.Equal(t, e, got)
}
