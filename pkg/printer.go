package ember

import (
	"math"
	"strconv"
	"strings"
)

var defaultPrinter = NewPrinter(nil)

// infLiteral is past the largest float64, so the lexer reads it back as +Inf.
var infLiteral = "1" + strings.Repeat("0", 309)

func formatNumber(v float64) string {
	if math.IsInf(v, 1) {
		return infLiteral
	}

	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Printer turns trees back into source. Parentheses are only written where the
// precedence table would otherwise group the operands differently, so the
// output parses back to the same tree.
type Printer struct {
	prec PrecedenceTable
}

func NewPrinter(prec PrecedenceTable) *Printer {
	if prec == nil {
		prec = DefaultPrecedence()
	}

	return &Printer{prec: prec}
}

func (p *Printer) Expr(e Expr) string {
	var str strings.Builder
	p.expr(&str, e)

	return str.String()
}

func (p *Printer) Prototype(proto *Prototype) string {
	return proto.Name + "(" + strings.Join(proto.Params, " ") + ")"
}

func (p *Printer) Stmt(s Stmt) string {
	switch s := s.(type) {
	case *FuncDecl:
		if s.Proto.Anonymous() {
			return p.Expr(s.Body)
		}

		return "func " + p.Prototype(s.Proto) + " " + p.Expr(s.Body)
	case *ExternDecl:
		return "extern " + p.Prototype(s.Proto)
	case *TopLevelExpr:
		return p.Expr(s.Func.Body)
	case *BadStmt:
		return "<error: " + s.Err.Error() + ">"
	default:
		return ""
	}
}

// Program prints statements one per line.
func (p *Printer) Program(stmts []Stmt) string {
	var lines []string
	for _, s := range stmts {
		if line := p.Stmt(s); line != "" {
			lines = append(lines, line)
		}
	}

	return strings.Join(lines, "\n")
}

func (p *Printer) expr(str *strings.Builder, e Expr) {
	switch e := e.(type) {
	case *LiteralExpr:
		str.WriteString(formatNumber(e.Value))
	case *Identifier:
		str.WriteString(e.Name)
	case *FuncCall:
		str.WriteString(e.Name)
		str.WriteByte('(')
		for i, arg := range e.Args {
			if i != 0 {
				str.WriteString(", ")
			}
			p.expr(str, arg)
		}
		str.WriteByte(')')
	case *BinaryExpr:
		prec := p.prec[rune(e.Operation)]

		// Equal precedence groups to the left, so only the right operand needs
		// parentheses at the same level.
		p.operand(str, e.Op1, p.precedence(e.Op1) < prec)
		str.WriteString(" " + e.Operation.String() + " ")
		p.operand(str, e.Op2, p.precedence(e.Op2) <= prec)
	}
}

func (p *Printer) operand(str *strings.Builder, e Expr, paren bool) {
	if !paren {
		p.expr(str, e)
		return
	}

	str.WriteByte('(')
	p.expr(str, e)
	str.WriteByte(')')
}

// precedence of an operand; anything that is not a binary expression is atomic.
func (p *Printer) precedence(e Expr) int {
	if b, ok := e.(*BinaryExpr); ok {
		return p.prec[rune(b.Operation)]
	}

	return math.MaxInt
}
