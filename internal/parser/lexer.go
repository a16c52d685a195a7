package parser

import (
	"strings"
	"unicode"
)

type Lexer struct {
	input  string
	pos    int
	line   int
	column int
}

func NewLexer(input string) *Lexer {
	return &Lexer{
		input:  input,
		pos:    0,
		line:   1,
		column: 1,
	}
}

var singleCharTokens = map[byte]TokenType{
	',': TOKEN_COMMA,
	';': TOKEN_SEMICOLON,
	'(': TOKEN_LPAREN,
	')': TOKEN_RPAREN,
	'*': TOKEN_ASTERISK,
	'=': TOKEN_EQUALS,
	'<': TOKEN_LT,
	'>': TOKEN_GT,
}

var twoCharTokens = map[string]TokenType{
	"<=": TOKEN_LE,
	">=": TOKEN_GE,
	"<>": TOKEN_NE,
	"!=": TOKEN_NE,
}

func (l *Lexer) NextToken() Token {
	l.skipWhitespace()

	tok := Token{Type: TOKEN_EOF, Line: l.line, Column: l.column}
	if l.pos >= len(l.input) {
		return tok
	}
	ch := l.input[l.pos]

	if l.pos+2 <= len(l.input) {
		if tt, ok := twoCharTokens[l.input[l.pos:l.pos+2]]; ok {
			tok.Type, tok.Literal = tt, l.input[l.pos:l.pos+2]
			l.advance()
			l.advance()
			return tok
		}
	}
	if tt, ok := singleCharTokens[ch]; ok {
		tok.Type, tok.Literal = tt, string(ch)
		l.advance()
		return tok
	}

	switch {
	case ch == '\'':
		tok.Type, tok.Literal = TOKEN_STRING, l.readString(ch)
	case ch == '"':
		// Quoted identifiers keep their case and may contain '$'.
		tok.Type, tok.Literal = TOKEN_IDENT, l.readString(ch)
	case ch == '-' && isDigit(l.peek()):
		l.advance()
		tok.Type, tok.Literal = TOKEN_NUMBER, "-"+l.readNumber()
	case isDigit(ch):
		tok.Type, tok.Literal = TOKEN_NUMBER, l.readNumber()
	case unicode.IsLetter(rune(ch)):
		tok.Literal = l.readIdentifier()
		tok.Type = LookupKeyword(strings.ToUpper(tok.Literal))
	default:
		tok.Type, tok.Literal = TOKEN_ILLEGAL, string(ch)
		l.advance()
	}
	return tok
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func (l *Lexer) peek() byte {
	if l.pos+1 >= len(l.input) {
		return 0
	}
	return l.input[l.pos+1]
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.input) && unicode.IsSpace(rune(l.input[l.pos])) {
		if l.input[l.pos] == '\n' {
			l.line++
			l.column = 1
		} else {
			l.column++
		}
		l.pos++
	}
}

func (l *Lexer) advance() {
	l.pos++
	l.column++
}

// Catalog names use '$' (RDB$RELATIONS), so it is an identifier character.
func (l *Lexer) readIdentifier() string {
	start := l.pos
	for l.pos < len(l.input) {
		c := l.input[l.pos]
		if !unicode.IsLetter(rune(c)) && !isDigit(c) && c != '_' && c != '$' {
			break
		}
		l.advance()
	}
	return l.input[start:l.pos]
}

func (l *Lexer) readNumber() string {
	start := l.pos
	for l.pos < len(l.input) && isDigit(l.input[l.pos]) {
		l.advance()
	}
	return l.input[start:l.pos]
}

func (l *Lexer) readString(quote byte) string {
	l.advance() // skip opening quote
	start := l.pos
	for l.pos < len(l.input) && l.input[l.pos] != quote {
		l.advance()
	}
	str := l.input[start:l.pos]
	if l.pos < len(l.input) {
		l.advance() // skip closing quote
	}
	return str
}
