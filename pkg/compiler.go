package ember

import (
	"io"

	"github.com/ethereum/go-ethereum/log"
	"github.com/llir/llvm/ir"
	"github.com/pkg/errors"
)

// Event reports what happened to one top-level construct.
type Event struct {
	Stmt Stmt
	IR   string // LLVM IR of the declared or defined function
	Err  error
}

type Result struct {
	Module     *ir.Module
	Statements []Stmt
	Errors     []error
}

func (r *Result) String() string {
	return r.Module.String()
}

type Compiler struct {
	cfg *Config
}

// NewCompiler creates a compiler; a nil config selects DefaultConfig.
func NewCompiler(cfg *Config) *Compiler {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	return &Compiler{cfg: cfg}
}

func (c *Compiler) Compile(filename string) (*Result, error) {
	lexer, err := OpenLexer(filename)
	if err != nil {
		return nil, errors.Wrap(err, "cannot open source")
	}
	defer lexer.Close()

	return c.compile(lexer, nil)
}

func (c *Compiler) CompileFromReader(name string, reader io.Reader) (*Result, error) {
	return c.compile(NewNamedLexer(name, reader), nil)
}

// Stream compiles constructs as they are read from reader and calls handler
// after each one. It is what the REPL runs on.
func (c *Compiler) Stream(name string, reader io.Reader, handler func(*Event)) (*Result, error) {
	return c.compile(NewNamedLexer(name, reader), handler)
}

func (c *Compiler) compile(tokenizer Tokenizer, handler func(*Event)) (*Result, error) {
	prec, err := c.cfg.Precedence()
	if err != nil {
		return nil, err
	}

	parser := NewParser(tokenizer, prec)
	gen := NewLLVMIRBuilder(c.cfg.Codegen.ModuleName)
	if c.cfg.Codegen.Builtins {
		gen.DefineBuiltins()
	}
	logger := log.New("file", tokenizer.GetFilename())

	res := &Result{Module: gen.Module()}
	for {
		stmt := parser.Next()
		if _, ok := stmt.(*EOS); ok {
			return res, nil
		}

		ev := c.handle(parser, gen, stmt, logger)
		if ev.Err != nil {
			res.Errors = append(res.Errors, ev.Err)
		} else {
			res.Statements = append(res.Statements, stmt)
		}

		if handler != nil {
			handler(ev)
		}
	}
}

func (c *Compiler) handle(parser SyntacticAnalyzer, gen IRGenerator, stmt Stmt, logger log.Logger) *Event {
	ev := &Event{Stmt: stmt}

	if bad, ok := stmt.(*BadStmt); ok {
		ev.Err = bad.Err
		// Skip token for error recovery.
		parser.Recover()

		return ev
	}

	f, err := gen.Generate(stmt)
	if err != nil {
		logger.Debug("Code generation failed", "stmt", stmt, "err", err)
		ev.Err = err

		return ev
	}
	ev.IR = f.LLString()

	switch stmt.(type) {
	case *FuncDecl:
		logger.Debug("Read function definition", "name", f.Name())
	case *ExternDecl:
		logger.Debug("Read extern", "name", f.Name())
	case *TopLevelExpr:
		logger.Debug("Read top-level expression", "name", f.Name())
		if !c.cfg.Codegen.KeepTopLevel {
			// Remove the anonymous expression.
			gen.Erase(f)
		}
	}

	return ev
}
