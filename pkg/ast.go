package ember

type AST struct {
	Filename   string
	Statements []Stmt
	Errors     []error
}

// Expr is one of *LiteralExpr, *Identifier, *BinaryExpr or *FuncCall.
type Expr interface {
	exprNode()
}

// Stmt is a top-level construct: *FuncDecl, *ExternDecl, *TopLevelExpr, *BadStmt
// or *EOS.
type Stmt interface {
	stmtNode()
}

type LiteralExpr struct {
	Value float64
}

type Identifier struct {
	Name string
}

type BinaryOp rune

const (
	BinaryLess           BinaryOp = '<'
	BinaryAddition       BinaryOp = '+'
	BinarySubtraction    BinaryOp = '-'
	BinaryMultiplication BinaryOp = '*'
	BinaryDivision       BinaryOp = '/'
)

func (op BinaryOp) String() string {
	return string(op)
}

type BinaryExpr struct {
	Operation BinaryOp
	Op1       Expr
	Op2       Expr
}

type FuncCall struct {
	Name string
	Args []Expr
}

func (*LiteralExpr) exprNode() {}
func (*Identifier) exprNode()  {}
func (*BinaryExpr) exprNode()  {}
func (*FuncCall) exprNode()    {}

// Prototype is a function name and its parameter names. Parameter names are
// not checked for duplicates here.
type Prototype struct {
	Name   string
	Params []string
}

// Anonymous reports whether p belongs to a top-level expression.
func (p *Prototype) Anonymous() bool {
	return p.Name == ""
}

type FuncDecl struct {
	Proto *Prototype
	Body  Expr
}

type ExternDecl struct {
	Proto *Prototype
}

// TopLevelExpr is an expression to be evaluated immediately. Func has an
// anonymous prototype.
type TopLevelExpr struct {
	Func *FuncDecl
}

// BadStmt replaces a construct that failed to parse. Nothing of the failed
// construct is kept.
type BadStmt struct {
	Err error
}

// EOS marks the end of the token stream.
type EOS struct{}

func (*FuncDecl) stmtNode()     {}
func (*ExternDecl) stmtNode()   {}
func (*TopLevelExpr) stmtNode() {}
func (*BadStmt) stmtNode()      {}
func (*EOS) stmtNode()          {}

func (e *LiteralExpr) String() string  { return defaultPrinter.Expr(e) }
func (e *Identifier) String() string   { return defaultPrinter.Expr(e) }
func (e *BinaryExpr) String() string   { return defaultPrinter.Expr(e) }
func (e *FuncCall) String() string     { return defaultPrinter.Expr(e) }
func (p *Prototype) String() string    { return defaultPrinter.Prototype(p) }
func (s *FuncDecl) String() string     { return defaultPrinter.Stmt(s) }
func (s *ExternDecl) String() string   { return defaultPrinter.Stmt(s) }
func (s *TopLevelExpr) String() string { return defaultPrinter.Stmt(s) }
