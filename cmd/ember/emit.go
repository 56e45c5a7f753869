package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/davecgh/go-spew/spew"
	"github.com/olekukonko/tablewriter"

	"go.ember.dev/pkg"
)

// emitter writes one representation of file to w and returns the diagnostics
// found in it. The returned error is reserved for failures unrelated to the
// source, like a missing file.
type emitter func(cfg *ember.Config, file string, w io.Writer) ([]error, error)

func emitterFor(name string) (emitter, error) {
	switch name {
	case "tokens":
		return emitTokens, nil
	case "ast":
		return emitAST, nil
	case "dump":
		return emitDump, nil
	case "ir":
		return emitIR, nil
	}

	return nil, fmt.Errorf("unknown output %q, want tokens, ast, dump or ir", name)
}

func emitTokens(_ *ember.Config, file string, w io.Writer) ([]error, error) {
	lexer, err := ember.OpenLexer(file)
	if err != nil {
		return nil, err
	}
	defer lexer.Close()

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Line", "Col", "Type", "Value"})

	var errs []error
	for tok := lexer.Get(); tok.Typ != ember.TokenEOF; tok = lexer.Get() {
		if tok.Typ == ember.TokenError {
			errs = append(errs, fmt.Errorf("%s %s", tok.Loc, tok.Value))
			continue
		}

		table.Append([]string{
			strconv.Itoa(tok.Loc.Line),
			strconv.Itoa(tok.Loc.Col),
			tok.Typ.String(),
			tok.Value,
		})
	}
	table.Render()

	return errs, nil
}

func parseFile(cfg *ember.Config, file string) (*ember.AST, *ember.Printer, error) {
	prec, err := cfg.Precedence()
	if err != nil {
		return nil, nil, err
	}

	lexer, err := ember.OpenLexer(file)
	if err != nil {
		return nil, nil, err
	}
	defer lexer.Close()

	return ember.NewParser(lexer, prec).Run(), ember.NewPrinter(prec), nil
}

func emitAST(cfg *ember.Config, file string, w io.Writer) ([]error, error) {
	ast, printer, err := parseFile(cfg, file)
	if err != nil {
		return nil, err
	}

	var good []ember.Stmt
	for _, stmt := range ast.Statements {
		if _, bad := stmt.(*ember.BadStmt); !bad {
			good = append(good, stmt)
		}
	}

	if len(good) != 0 {
		fmt.Fprintln(w, printer.Program(good))
	}
	return ast.Errors, nil
}

func emitDump(cfg *ember.Config, file string, w io.Writer) ([]error, error) {
	ast, _, err := parseFile(cfg, file)
	if err != nil {
		return nil, err
	}

	dumper := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, DisableCapacities: true}
	dumper.Fdump(w, ast.Statements)

	return ast.Errors, nil
}

func emitIR(cfg *ember.Config, file string, w io.Writer) ([]error, error) {
	res, err := ember.NewCompiler(cfg).Compile(file)
	if err != nil {
		return nil, err
	}

	fmt.Fprint(w, res)
	return res.Errors, nil
}
