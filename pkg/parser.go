package ember

import (
	"github.com/ethereum/go-ethereum/log"
)

type SyntacticAnalyzer interface {
	Next() Stmt
	Recover()
	GetFilename() string
}

// Parser builds top-level constructs from a token stream with a single token of
// lookahead. Each Parser owns its tokenizer; independent streams need
// independent parsers.
type Parser struct {
	filename  string
	tokenizer Tokenizer
	prec      PrecedenceTable
	cur       Token
	log       log.Logger
}

// NewParser primes the lookahead, so the first token is read immediately. A nil
// table selects DefaultPrecedence.
func NewParser(tokenizer Tokenizer, prec PrecedenceTable) *Parser {
	if prec == nil {
		prec = DefaultPrecedence()
	}

	p := &Parser{
		filename:  tokenizer.GetFilename(),
		tokenizer: tokenizer,
		prec:      prec,
		log:       log.New("file", tokenizer.GetFilename()),
	}
	p.consume()

	return p
}

func (p *Parser) GetFilename() string {
	return p.filename
}

// Next parses one top-level construct. Stray ';' tokens between constructs are
// skipped. After a *BadStmt the caller must call Recover before calling Next
// again, or the same error is returned forever.
func (p *Parser) Next() Stmt {
	for p.cur.is(';') {
		p.consume()
	}

	switch p.cur.Typ {
	case TokenEOF:
		return &EOS{}
	case TokenFunc:
		f, err := p.ParseDefinition()
		if err != nil {
			return &BadStmt{Err: err}
		}

		return f
	case TokenExtern:
		proto, err := p.ParseExtern()
		if err != nil {
			return &BadStmt{Err: err}
		}

		return &ExternDecl{Proto: proto}
	default:
		f, err := p.ParseTopLevelExpr()
		if err != nil {
			return &BadStmt{Err: err}
		}

		return &TopLevelExpr{Func: f}
	}
}

// Recover skips the current token. It does nothing at the end of the stream.
func (p *Parser) Recover() {
	if p.cur.Typ == TokenEOF {
		return
	}

	p.log.Trace("Skipping token", "tok", p.cur, "loc", p.cur.Loc)
	p.consume()
}

// Run parses the whole stream, recovering after every error.
func (p *Parser) Run() *AST {
	ast := &AST{Filename: p.filename}

	for {
		stmt := p.Next()
		if _, ok := stmt.(*EOS); ok {
			return ast
		}

		ast.Statements = append(ast.Statements, stmt)

		if bad, ok := stmt.(*BadStmt); ok {
			ast.Errors = append(ast.Errors, bad.Err)
			p.Recover()
		}
	}
}

func (p *Parser) consume() Token {
	p.cur = p.tokenizer.Get()
	return p.cur
}

func (p *Parser) errorf(expected string) error {
	err := &SyntaxError{
		Loc:      p.cur.Loc,
		Expected: expected,
		Got:      p.cur,
	}
	p.log.Debug("Syntax error", "loc", err.Loc, "expected", expected, "got", p.cur)

	return err
}

// ParsePrimary parses a number, an identifier or call, or a parenthesised
// expression.
func (p *Parser) ParsePrimary() (Expr, error) {
	switch tok := p.cur; {
	case tok.Typ == TokenIdentifier:
		return p.ParseIdentifierExpr()
	case tok.Typ == TokenNumber:
		p.consume()
		return &LiteralExpr{Value: tok.Num}, nil
	case tok.is('('):
		return p.parenthesisedExpr()
	default:
		return nil, p.errorf("expression")
	}
}

func (p *Parser) parenthesisedExpr() (Expr, error) {
	p.consume() // Skip '('

	exp, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}

	if !p.cur.is(')') {
		return nil, p.errorf("')'")
	}
	p.consume()

	return exp, nil
}

// ParseIdentifierExpr parses a variable reference or a call with a comma
// separated argument list.
func (p *Parser) ParseIdentifierExpr() (Expr, error) {
	if p.cur.Typ != TokenIdentifier {
		return nil, p.errorf("identifier")
	}

	name := p.cur.Value
	p.consume()

	if !p.cur.is('(') {
		return &Identifier{Name: name}, nil
	}
	p.consume()

	var args []Expr
	if !p.cur.is(')') {
		for {
			arg, err := p.ParseExpression()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)

			if p.cur.is(')') {
				break
			}

			if !p.cur.is(',') {
				return nil, p.errorf("')' or ',' in argument list")
			}
			p.consume()
		}
	}
	p.consume() // Skip ')'

	return &FuncCall{
		Name: name,
		Args: args,
	}, nil
}

func (p *Parser) ParseExpression() (Expr, error) {
	lhs, err := p.ParsePrimary()
	if err != nil {
		return nil, err
	}

	return p.ParseBinOpRHS(0, lhs)
}

// ParseBinOpRHS folds "op primary" pairs into lhs while the operator binds at
// least as tight as minPrec. Equal precedence associates to the left; a tighter
// operator to the right pulls its operands into the right-hand side first.
func (p *Parser) ParseBinOpRHS(minPrec int, lhs Expr) (Expr, error) {
	for {
		prec := p.prec.Of(p.cur)
		if prec < minPrec {
			return lhs, nil
		}

		op := BinaryOp(p.cur.Rune())
		p.consume()

		rhs, err := p.ParsePrimary()
		if err != nil {
			return nil, err
		}

		if prec < p.prec.Of(p.cur) {
			rhs, err = p.ParseBinOpRHS(prec+1, rhs)
			if err != nil {
				return nil, err
			}
		}

		lhs = &BinaryExpr{
			Operation: op,
			Op1:       lhs,
			Op2:       rhs,
		}
	}
}

// ParsePrototype parses "name(a b c)". Parameters are separated by whitespace,
// not commas.
func (p *Parser) ParsePrototype() (*Prototype, error) {
	if p.cur.Typ != TokenIdentifier {
		return nil, p.errorf("function name in prototype")
	}

	name := p.cur.Value
	p.consume()

	if !p.cur.is('(') {
		return nil, p.errorf("'(' in prototype")
	}

	var params []string
	for p.consume().Typ == TokenIdentifier {
		params = append(params, p.cur.Value)
	}

	if !p.cur.is(')') {
		return nil, p.errorf("')' in prototype")
	}
	p.consume()

	return &Prototype{
		Name:   name,
		Params: params,
	}, nil
}

func (p *Parser) ParseDefinition() (*FuncDecl, error) {
	if p.cur.Typ != TokenFunc {
		return nil, p.errorf("'func'")
	}
	p.consume()

	proto, err := p.ParsePrototype()
	if err != nil {
		return nil, err
	}

	body, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}

	return &FuncDecl{
		Proto: proto,
		Body:  body,
	}, nil
}

func (p *Parser) ParseExtern() (*Prototype, error) {
	if p.cur.Typ != TokenExtern {
		return nil, p.errorf("'extern'")
	}
	p.consume()

	return p.ParsePrototype()
}

// ParseTopLevelExpr wraps a bare expression in a function with an anonymous
// prototype.
func (p *Parser) ParseTopLevelExpr() (*FuncDecl, error) {
	body, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}

	return &FuncDecl{
		Proto: &Prototype{},
		Body:  body,
	}, nil
}
