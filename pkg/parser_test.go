package ember

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.ember.dev/internal/test"
)

type BufferedTokenizerMocker struct {
	buf []Token
	pos int
}

func NewBufferedTokenizerMocker(toks []Token) *BufferedTokenizerMocker {
	return &BufferedTokenizerMocker{
		buf: toks,
		pos: 0,
	}
}

func (b *BufferedTokenizerMocker) Get() Token {
	if len(b.buf) <= b.pos {
		return Token{Typ: TokenEOF}
	}

	tok := b.buf[b.pos]
	b.pos++

	return tok
}

func (b *BufferedTokenizerMocker) GetFilename() string {
	return "testing"
}

func ident(name string) Token {
	return Token{Typ: TokenIdentifier, Value: name}
}

func num(v float64) Token {
	return Token{Typ: TokenNumber, Value: strconv.FormatFloat(v, 'f', -1, 64), Num: v}
}

func chr(r rune) Token {
	return Token{Typ: TokenChar, Value: string(r)}
}

var (
	tokFunc   = Token{Typ: TokenFunc, Value: "func"}
	tokExtern = Token{Typ: TokenExtern, Value: "extern"}
)

func bin(op BinaryOp, lhs, rhs Expr) *BinaryExpr {
	return &BinaryExpr{Operation: op, Op1: lhs, Op2: rhs}
}

func lit(v float64) *LiteralExpr {
	return &LiteralExpr{Value: v}
}

func id(name string) *Identifier {
	return &Identifier{Name: name}
}

func topLevel(body Expr) *TopLevelExpr {
	return &TopLevelExpr{Func: &FuncDecl{Proto: &Prototype{}, Body: body}}
}

func TestParser(t *testing.T) {
	cases := []struct {
		data   []Token
		fail   bool
		expect []Stmt
	}{
		{
			[]Token{tokFunc, ident("main"), chr('('), chr(')'), num(1)},
			false,
			[]Stmt{
				&FuncDecl{
					Proto: &Prototype{Name: "main"},
					Body:  lit(1),
				},
			},
		},
		{
			[]Token{tokExtern, ident("sin"), chr('('), ident("x"), chr(')')},
			false,
			[]Stmt{
				&ExternDecl{Proto: &Prototype{Name: "sin", Params: []string{"x"}}},
			},
		},
		{
			[]Token{ident("foo"), chr('('), chr(')')},
			false,
			[]Stmt{
				topLevel(&FuncCall{Name: "foo", Args: nil}),
			},
		},
		{
			[]Token{ident("foo"), chr('('), num(1), chr(','), num(2), chr('+'), num(3), chr(')')},
			false,
			[]Stmt{
				topLevel(&FuncCall{
					Name: "foo",
					Args: []Expr{
						lit(1),
						bin(BinaryAddition, lit(2), lit(3)),
					},
				}),
			},
		},
		{
			[]Token{num(1), chr('+'), num(2), chr('*'), num(3)},
			false,
			[]Stmt{
				topLevel(bin(BinaryAddition, lit(1), bin(BinaryMultiplication, lit(2), lit(3)))),
			},
		},
		{
			[]Token{num(1), chr('*'), num(2), chr('+'), num(3)},
			false,
			[]Stmt{
				topLevel(bin(BinaryAddition, bin(BinaryMultiplication, lit(1), lit(2)), lit(3))),
			},
		},
		{
			[]Token{num(1), chr('-'), num(2), chr('-'), num(3)},
			false,
			[]Stmt{
				topLevel(bin(BinarySubtraction, bin(BinarySubtraction, lit(1), lit(2)), lit(3))),
			},
		},
		{
			// '-' outranks '+' in the default table
			[]Token{num(1), chr('+'), num(2), chr('-'), num(3)},
			false,
			[]Stmt{
				topLevel(bin(BinaryAddition, lit(1), bin(BinarySubtraction, lit(2), lit(3)))),
			},
		},
		{
			[]Token{ident("a"), chr('<'), ident("b"), chr('+'), ident("c")},
			false,
			[]Stmt{
				topLevel(bin(BinaryLess, id("a"), bin(BinaryAddition, id("b"), id("c")))),
			},
		},
		{
			[]Token{chr('('), num(1), chr('+'), num(3), chr(')'), chr('*'), num(2)},
			false,
			[]Stmt{
				topLevel(bin(BinaryMultiplication, bin(BinaryAddition, lit(1), lit(3)), lit(2))),
			},
		},
		{
			[]Token{
				tokFunc, ident("add"), chr('('), ident("a"), ident("b"), chr(')'),
				ident("a"), chr('+'), ident("b"),
			},
			false,
			[]Stmt{
				&FuncDecl{
					Proto: &Prototype{Name: "add", Params: []string{"a", "b"}},
					Body:  bin(BinaryAddition, id("a"), id("b")),
				},
			},
		},
		{
			[]Token{chr(';'), ident("x"), chr(';'), chr(';'), tokExtern, ident("f"), chr('('), chr(')'), chr(';')},
			false,
			[]Stmt{
				topLevel(id("x")),
				&ExternDecl{Proto: &Prototype{Name: "f"}},
			},
		},
		{
			// '/' is not in the default table, so it ends the expression
			[]Token{ident("a"), chr('/'), ident("b")},
			true,
			nil,
		},
		{
			[]Token{ident("foo"), chr('('), num(1), num(2), chr(')')},
			true,
			nil,
		},
		{
			[]Token{tokFunc, chr('{'), chr('}')},
			true,
			nil,
		},
		{
			[]Token{chr('('), num(1), chr('+'), num(2)},
			true,
			nil,
		},
		{
			[]Token{tokFunc, ident("f"), chr('('), ident("a"), chr(','), ident("b"), chr(')'), ident("a")},
			true,
			nil,
		},
		{
			[]Token{tokExtern, ident("f"), ident("x")},
			true,
			nil,
		},
		{
			[]Token{chr(')')},
			true,
			nil,
		},
		{
			[]Token{{Typ: TokenError, Value: "read error: boom"}},
			true,
			nil,
		},
	}

	for _, c := range cases {
		tokenizer := NewBufferedTokenizerMocker(c.data)
		p := NewParser(tokenizer, nil)

		got := p.Run()
		expect := &AST{
			Filename:   "testing",
			Statements: c.expect,
		}

		if c.fail {
			assert.NotEmpty(t, got.Errors, "expected parsing to fail, but succeeded")

			failed := 0
			for _, node := range got.Statements {
				if _, ok := node.(*BadStmt); ok {
					failed++
				}
			}
			assert.Equal(t, len(got.Errors), failed)

			continue
		}

		assert.Equal(t, expect, got)
	}
}

func newSourceParser(src string) *Parser {
	return NewParser(NewLexer(strings.NewReader(src)), nil)
}

func TestParseExpression(t *testing.T) {
	p := newSourceParser("1+2*3")

	e, err := p.ParseExpression()
	require.NoError(t, err)
	assert.Equal(t, bin(BinaryAddition, lit(1), bin(BinaryMultiplication, lit(2), lit(3))), e)
}

func TestParseDefinition(t *testing.T) {
	p := newSourceParser("func add(a b) a+b")

	f, err := p.ParseDefinition()
	require.NoError(t, err)
	assert.Equal(t, &Prototype{Name: "add", Params: []string{"a", "b"}}, f.Proto)
	assert.Equal(t, bin(BinaryAddition, id("a"), id("b")), f.Body)
	assert.IsType(t, &EOS{}, p.Next())
}

func TestParseExtern(t *testing.T) {
	p := newSourceParser("extern atan2(y x)")

	proto, err := p.ParseExtern()
	require.NoError(t, err)
	assert.Equal(t, &Prototype{Name: "atan2", Params: []string{"y", "x"}}, proto)
	assert.False(t, proto.Anonymous())
}

func TestParseTopLevelExpr(t *testing.T) {
	p := newSourceParser("fib(10)")

	f, err := p.ParseTopLevelExpr()
	require.NoError(t, err)
	assert.True(t, f.Proto.Anonymous())
	assert.Empty(t, f.Proto.Params)
	assert.Equal(t, &FuncCall{Name: "fib", Args: []Expr{lit(10)}}, f.Body)
}

func TestParseBinOpRHSStopsBelowMinPrecedence(t *testing.T) {
	p := newSourceParser("+ 2 < 3")

	e, err := p.ParseBinOpRHS(20, id("a"))
	require.NoError(t, err)
	assert.Equal(t, bin(BinaryAddition, id("a"), lit(2)), e)

	// The '<' is left for the caller
	assert.Equal(t, 10, p.prec.Of(p.cur))
}

func TestParserSyntaxError(t *testing.T) {
	cases := []struct {
		data     string
		expected string
		got      TokenType
	}{
		{"foo(1 2)", "')' or ',' in argument list", TokenNumber},
		{"(1", "')'", TokenEOF},
		{")", "expression", TokenChar},
		{"func 1() 2", "function name in prototype", TokenNumber},
		{"func f x", "'(' in prototype", TokenIdentifier},
		{"extern f(x, y)", "')' in prototype", TokenChar},
		{"func f()", "expression", TokenEOF},
	}

	for _, c := range cases {
		p := newSourceParser(c.data)

		bad, ok := p.Next().(*BadStmt)
		require.True(t, ok, c.data)

		err, ok := bad.Err.(*SyntaxError)
		require.True(t, ok, c.data)
		assert.Equal(t, c.expected, err.Expected, c.data)
		assert.Equal(t, c.got, err.Got.Typ, c.data)
		assert.Contains(t, err.Error(), "expected "+c.expected, c.data)
	}
}

func TestParserSyntaxErrorLocation(t *testing.T) {
	p := NewParser(NewNamedLexer("bad.em", strings.NewReader("func f(a)\n  a +")), nil)

	bad, ok := p.Next().(*BadStmt)
	require.True(t, ok)
	assert.Equal(t, "bad.em:2:6 unexpected end of input, expected expression", bad.Err.Error())
}

func TestParserEOSIsIdempotent(t *testing.T) {
	p := newSourceParser("x")

	assert.IsType(t, &TopLevelExpr{}, p.Next())
	for i := 0; i < 5; i++ {
		assert.IsType(t, &EOS{}, p.Next())
		p.Recover()
	}
}

func TestParserWithoutRecoverRepeatsError(t *testing.T) {
	p := newSourceParser(") 1")

	first := p.Next()
	second := p.Next()
	assert.IsType(t, &BadStmt{}, first)
	assert.Equal(t, first, second)

	p.Recover()
	assert.Equal(t, topLevel(lit(1)), p.Next())
}

func TestParserCustomPrecedence(t *testing.T) {
	prec := PrecedenceTable{'+': 10, '*': 5, '/': 20}
	p := NewParser(NewLexer(strings.NewReader("1*2+3/4")), prec)

	e, err := p.ParseExpression()
	require.NoError(t, err)
	assert.Equal(t,
		bin(BinaryMultiplication, lit(1), bin(BinaryAddition, lit(2), bin(BinaryDivision, lit(3), lit(4)))),
		e,
	)
}

// flatten lists the leaves and operators of e in order.
func flatten(e Expr) []string {
	switch e := e.(type) {
	case *BinaryExpr:
		return append(append(flatten(e.Op1), e.Operation.String()), flatten(e.Op2)...)
	case *Identifier:
		return []string{e.Name}
	case *LiteralExpr:
		return []string{strconv.FormatFloat(e.Value, 'f', -1, 64)}
	default:
		return nil
	}
}

func TestParseExpressionKeepsOperatorOrder(t *testing.T) {
	for _, src := range []string{
		"a+b*c-d<e*f",
		"1<2<3",
		"a*b*c+d-e-f",
		"x-y+z*w<v",
	} {
		toks, err := NewLexer(strings.NewReader(src)).Tokenize()
		require.NoError(t, err)

		var want []string
		for _, tok := range toks {
			want = append(want, tok.Value)
		}

		e, err := newSourceParser(src).ParseExpression()
		require.NoError(t, err)
		assert.Equal(t, want, flatten(e), src)
	}
}

func TestParserAlwaysTerminates(t *testing.T) {
	for i := 0; i < 50; i++ {
		src := test.GetRandomTokens(200)

		ast := newSourceParser(src).Run()
		for _, stmt := range ast.Statements {
			assert.NotNil(t, stmt)
		}
	}
}

// Use a package-level variable to avoid compiler optimisation
var benchAST *AST

func benchmarkParser(size int, b *testing.B) {
	for n := 0; n < b.N; n++ {
		b.StopTimer()
		p := newSourceParser(test.GetRandomProgram(size))
		b.StartTimer()

		benchAST = p.Run()
		if len(benchAST.Errors) != 0 {
			b.Fatal(benchAST.Errors[0])
		}
	}
}

func BenchmarkParser10(b *testing.B) {
	benchmarkParser(10, b)
}

func BenchmarkParser1000(b *testing.B) {
	benchmarkParser(1000, b)
}
