package ember

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// PrecedenceTable maps binary operator characters to their priority. Higher
// binds tighter; characters missing from the table are not operators.
type PrecedenceTable map[rune]int

func DefaultPrecedence() PrecedenceTable {
	return PrecedenceTable{
		'<': 10,
		'+': 20,
		'-': 30,
		'*': 40,
	}
}

// reserved characters carry grammar meaning and can never be operators.
const reserved = "(),;#."

// ParsePrecedence builds a table from "operator -> priority" pairs, typically
// loaded from a config file. Operators with priority zero are left out.
func ParsePrecedence(ops map[string]int) (PrecedenceTable, error) {
	table := make(PrecedenceTable, len(ops))
	for op, prec := range ops {
		r, size := utf8.DecodeRuneInString(op)
		if size == 0 || size != len(op) {
			return nil, fmt.Errorf("operator %q must be a single character", op)
		}

		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) || strings.ContainsRune(reserved, r) {
			return nil, fmt.Errorf("character %q cannot be used as an operator", op)
		}

		if prec < 0 {
			return nil, fmt.Errorf("operator %q has negative precedence %d", op, prec)
		}

		if prec == 0 {
			// Zero switches an operator off, which lets config files drop defaults
			continue
		}

		table[r] = prec
	}

	return table, nil
}

// Of returns the precedence of tok, or -1 when tok is not a binary operator.
func (t PrecedenceTable) Of(tok Token) int {
	if tok.Typ != TokenChar {
		return -1
	}

	prec, ok := t[tok.Rune()]
	if !ok || prec <= 0 {
		return -1
	}

	return prec
}

// Strings is the inverse of ParsePrecedence.
func (t PrecedenceTable) Strings() map[string]int {
	ops := make(map[string]int, len(t))
	for r, prec := range t {
		ops[string(r)] = prec
	}

	return ops
}
