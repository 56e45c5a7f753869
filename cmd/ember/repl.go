package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/peterh/liner"

	"go.ember.dev/pkg"
)

const prompt = "ready> "

// promptReader feeds the lexer from an interactive prompt. A line is only
// requested once the previous one has been consumed, so the prompt shows up
// exactly when the compiler needs more input.
type promptReader struct {
	line *liner.State
	buf  []byte
}

func (r *promptReader) Read(p []byte) (int, error) {
	for len(r.buf) == 0 {
		input, err := r.line.Prompt(prompt)
		if err == liner.ErrPromptAborted {
			return 0, io.EOF
		}
		if err != nil {
			return 0, err
		}

		if input != "" {
			r.line.AppendHistory(input)
		}
		r.buf = append(r.buf, input...)
		r.buf = append(r.buf, '\n')
	}

	n := copy(p, r.buf)
	r.buf = r.buf[n:]

	return n, nil
}

var reportLabel = color.New(color.FgGreen).SprintFunc()

func report(ev *ember.Event) {
	if ev.Err != nil {
		printErrors([]error{ev.Err})
		return
	}

	switch ev.Stmt.(type) {
	case *ember.FuncDecl:
		fmt.Fprintln(os.Stderr, reportLabel("Read function definition:"))
	case *ember.ExternDecl:
		fmt.Fprintln(os.Stderr, reportLabel("Read extern:"))
	case *ember.TopLevelExpr:
		fmt.Fprintln(os.Stderr, reportLabel("Read top-level expression:"))
	}
	fmt.Fprintln(os.Stderr, ev.IR)
}

// repl compiles constructs as they are typed and prints the whole module when
// the input ends.
func repl(cfg *ember.Config) error {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	res, err := ember.NewCompiler(cfg).Stream("stdin", &promptReader{line: line}, report)
	if err != nil {
		return err
	}

	fmt.Fprintln(os.Stderr)
	fmt.Fprint(os.Stdout, res)
	return nil
}
