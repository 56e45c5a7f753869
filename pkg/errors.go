package ember

import "fmt"

// SyntaxError is reported by the parser when the current token does not fit the
// grammar.
type SyntaxError struct {
	Loc      *Location
	Expected string
	Got      Token
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s unexpected %s, expected %s", e.Loc, e.Got, e.Expected)
}

type UndefinedError struct {
	Kind string // "variable" or "function"
	Name string
}

func (e *UndefinedError) Error() string {
	return fmt.Sprintf("undefined %s: %s", e.Kind, e.Name)
}

type ArityError struct {
	Name     string
	Expected int
	Got      int
}

func (e *ArityError) Error() string {
	return fmt.Sprintf("%s expects %d arguments, got %d", e.Name, e.Expected, e.Got)
}

type UnknownOperatorError struct {
	Op BinaryOp
}

func (e *UnknownOperatorError) Error() string {
	return fmt.Sprintf("invalid binary operator '%s'", e.Op)
}

type RedefinitionError struct {
	Name   string
	Reason string
}

func (e *RedefinitionError) Error() string {
	return fmt.Sprintf("cannot redefine %s: %s", e.Name, e.Reason)
}
