package test

import (
	"math/rand"
	"strconv"
	"strings"
)

const validTokens = "func;extern;main;fib;x;y;(;);,;+;-;*;<;1;42;3.1415;.5;#comment\n;\n"

func GetRandomTokens(size int) string {
	return GetRandomTokensWithSep(size, " ")
}

func GetRandomTokensWithSep(size int, sep string) string {
	valid := strings.Split(validTokens, ";")

	var toks []string
	for len(toks) < size {
		toks = append(toks, valid[rand.Intn(len(valid))])
	}

	return strings.Join(toks, sep)
}

// GetRandomProgram returns size definitions, each calling the previous one, so
// the result parses and compiles without errors.
func GetRandomProgram(size int) string {
	ops := []string{"+", "-", "*", "<"}

	var str strings.Builder
	str.WriteString("extern seed(x)\n")

	prev := "seed"
	for i := 0; i < size; i++ {
		name := "f" + strconv.Itoa(i)
		str.WriteString("func " + name + "(a b) " + prev + "(a " + ops[rand.Intn(len(ops))] + " b")
		if prev != "seed" {
			str.WriteString(", b")
		}
		str.WriteString(") " + ops[rand.Intn(len(ops))] + " 2\n")
		prev = name
	}

	return str.String()
}
