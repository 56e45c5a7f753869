package ember

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ethereum/go-ethereum/log"
)

type TokenType uint64
type stateFunc func(l *Lexer) stateFunc

// EOF is returned by peek and next once the reader is drained.
const EOF rune = -1

//go:generate stringer -type=TokenType -trimprefix=Token
const (
	TokenError TokenType = iota
	TokenEOF

	TokenFunc
	TokenExtern

	TokenIdentifier
	TokenNumber
	TokenChar
)

var keywordTable = map[string]TokenType{
	"func":   TokenFunc,
	"extern": TokenExtern,
}

// Location points at the first character of a token.
type Location struct {
	Filename string
	Line     int
	Col      int
}

func (l *Location) String() string {
	if l == nil {
		return "<unknown>"
	}

	if l.Filename == "" {
		return fmt.Sprintf("%d:%d", l.Line, l.Col)
	}

	return fmt.Sprintf("%s:%d:%d", l.Filename, l.Line, l.Col)
}

type Token struct {
	Typ   TokenType
	Value string
	Num   float64
	Loc   *Location
}

// Rune returns the character carried by a TokenChar, or EOF for any other token.
func (t Token) Rune() rune {
	if t.Typ != TokenChar {
		return EOF
	}

	r, _ := utf8.DecodeRuneInString(t.Value)
	return r
}

func (t Token) String() string {
	switch t.Typ {
	case TokenEOF:
		return "end of input"
	case TokenError:
		return "error (" + t.Value + ")"
	case TokenIdentifier:
		return fmt.Sprintf("identifier '%s'", t.Value)
	case TokenNumber:
		return fmt.Sprintf("number %s", t.Value)
	default:
		return fmt.Sprintf("'%s'", t.Value)
	}
}

func (t Token) isValid() bool {
	return t.Typ != TokenError && t.Typ != TokenEOF
}

func (t Token) is(r rune) bool {
	return t.Typ == TokenChar && t.Rune() == r
}

// Tokenizer is the parser's view of a lexer.
type Tokenizer interface {
	Get() Token
	GetFilename() string
}

// Lexer turns a character stream into tokens on demand. Tokens are produced one
// Get call at a time; the lexer never looks more than one rune ahead.
type Lexer struct {
	filename string
	reader   *bufio.Reader
	closer   io.Closer
	log      log.Logger

	state stateFunc
	out   *Token
	err   error

	line  int
	col   int
	start *Location
}

func NewLexer(reader io.Reader) *Lexer {
	return NewNamedLexer("", reader)
}

func NewNamedLexer(filename string, reader io.Reader) *Lexer {
	return &Lexer{
		filename: filename,
		reader:   bufio.NewReader(reader),
		log:      log.New("file", filename),
		state:    defaultState,
		line:     1,
	}
}

// OpenLexer lexes the named file. The caller must Close the lexer.
func OpenLexer(filename string) (*Lexer, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}

	l := NewNamedLexer(filename, f)
	l.closer = f

	return l, nil
}

func (l *Lexer) Close() error {
	if l.closer == nil {
		return nil
	}

	return l.closer.Close()
}

func (l *Lexer) GetFilename() string {
	return l.filename
}

// Get returns the next token. Once the input is exhausted every call returns a
// TokenEOF token.
func (l *Lexer) Get() Token {
	for l.out == nil {
		l.state = l.state(l)
	}

	tok := *l.out
	l.out = nil

	return tok
}

// Tokenize drains the lexer. The terminating TokenEOF is not included.
func (l *Lexer) Tokenize() ([]Token, error) {
	var tokens []Token
	for {
		switch t := l.Get(); t.Typ {
		case TokenEOF:
			return tokens, nil
		case TokenError:
			return nil, errors.New(t.Value)
		default:
			tokens = append(tokens, t)
		}
	}
}

func defaultState(l *Lexer) stateFunc {
	for {
		switch r := l.peek(); {
		case r == EOF:
			return eofState
		case unicode.IsSpace(r):
			l.next()
			continue
		case r == '#':
			return commentState
		case unicode.IsLetter(r):
			return identifierState
		case isDigit(r) || r == '.':
			return numberState
		default:
			return charState
		}
	}
}

func identifierState(l *Lexer) stateFunc {
	l.mark()

	var id strings.Builder
	for r := l.peek(); unicode.IsLetter(r) || unicode.IsDigit(r); r = l.peek() {
		id.WriteRune(l.next())
	}

	if t, ok := keywordTable[id.String()]; ok {
		return l.emitValue(t, id.String())
	}

	return l.emitValue(TokenIdentifier, id.String())
}

// numberState reads digits with at most one decimal point. A second point ends
// the literal, so "1.2.3" is read as 1.2 followed by .3
func numberState(l *Lexer) stateFunc {
	l.mark()

	var num strings.Builder
	point := false
	for r := l.peek(); isDigit(r) || (r == '.' && !point); r = l.peek() {
		if r == '.' {
			point = true
		}

		num.WriteRune(l.next())
	}

	v, err := strconv.ParseFloat(num.String(), 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		// Only a lone "." gets here
		l.log.Debug("Malformed number literal", "literal", num.String(), "loc", l.start)
		v = 0
	}

	l.out = &Token{
		Typ:   TokenNumber,
		Value: num.String(),
		Num:   v,
		Loc:   l.start,
	}

	return defaultState
}

func commentState(l *Lexer) stateFunc {
	l.next() // Skip the '#'

	for r := l.peek(); r != '\n' && r != '\r' && r != EOF; r = l.peek() {
		l.next()
	}

	return defaultState
}

func charState(l *Lexer) stateFunc {
	l.mark()

	return l.emitValue(TokenChar, string(l.next()))
}

// eofState is terminal: it reports a pending read error once, then EOF forever.
func eofState(l *Lexer) stateFunc {
	l.mark()

	if l.err != nil {
		err := l.err
		l.err = nil

		return l.errorf("read error: %v", err)
	}

	l.emitValue(TokenEOF, "")
	return eofState
}

func (l *Lexer) errorf(format string, args ...interface{}) stateFunc {
	l.out = &Token{
		Typ:   TokenError,
		Value: fmt.Sprintf(format, args...),
		Loc:   l.start,
	}

	return eofState
}

func (l *Lexer) emitValue(t TokenType, val string) stateFunc {
	l.out = &Token{
		Typ:   t,
		Value: val,
		Loc:   l.start,
	}

	return defaultState
}

func (l *Lexer) mark() {
	l.start = &Location{
		Filename: l.filename,
		Line:     l.line,
		Col:      l.col + 1,
	}
}

func (l *Lexer) peek() rune {
	if l.err != nil {
		return EOF
	}

	r, _, err := l.reader.ReadRune()
	if err != nil {
		return l.fail(err)
	}

	_ = l.reader.UnreadRune()

	return r
}

func (l *Lexer) next() rune {
	if l.err != nil {
		return EOF
	}

	r, _, err := l.reader.ReadRune()
	if err != nil {
		return l.fail(err)
	}

	if r == '\n' {
		l.line++
		l.col = 0
	} else {
		l.col++
	}

	return r
}

func (l *Lexer) fail(err error) rune {
	if err != io.EOF && l.err == nil {
		l.err = err
	}

	return EOF
}

func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}
