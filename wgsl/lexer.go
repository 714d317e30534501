// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package wgsl

import (
	"fmt"
	"unicode"
	"unicode/utf8"
)

// Lexer tokenizes WGSL source code.
type Lexer struct {
	source string
	pos    int
	line   int
	column int
	start  int
	tokens []Token
}

// NewLexer creates a new lexer for the given source.
func NewLexer(source string) *Lexer {
	// Estimate ~1 token per 6 characters of source.
	estTokens := max(len(source)/6, 16)
	return &Lexer{
		source: source,
		line:   1,
		column: 1,
		tokens: make([]Token, 0, estTokens),
	}
}

// Tokenize returns all tokens from the source, ending with TokenEOF.
// Unknown characters and unterminated block comments are errors.
func (l *Lexer) Tokenize() ([]Token, error) {
	for !l.isAtEnd() {
		l.start = l.pos
		if err := l.scanToken(); err != nil {
			return nil, err
		}
	}

	l.tokens = append(l.tokens, Token{
		Kind:   TokenEOF,
		Line:   l.line,
		Column: l.column,
	})

	return l.tokens, nil
}

func (l *Lexer) scanToken() error {
	r := l.advance()

	switch r {
	case '(':
		l.addToken(TokenLeftParen)
	case ')':
		l.addToken(TokenRightParen)
	case '{':
		l.addToken(TokenLeftBrace)
	case '}':
		l.addToken(TokenRightBrace)
	case '[':
		l.addToken(TokenLeftBracket)
	case ']':
		l.addToken(TokenRightBracket)
	case ',':
		l.addToken(TokenComma)
	case '.':
		l.addToken(TokenDot)
	case ':':
		l.addToken(TokenColon)
	case ';':
		l.addToken(TokenSemicolon)
	case '@':
		l.addToken(TokenAt)
	case '~':
		l.addToken(TokenTilde)
	case '%':
		l.addToken(l.pick('=', TokenPercentEqual, TokenPercent))
	case '^':
		l.addToken(l.pick('=', TokenCaretEqual, TokenCaret))
	case '*':
		l.addToken(l.pick('=', TokenStarEqual, TokenStar))
	case '=':
		l.addToken(l.pick('=', TokenEqualEqual, TokenEqual))
	case '!':
		l.addToken(l.pick('=', TokenBangEqual, TokenBang))

	case '+':
		if l.match('+') {
			l.addToken(TokenPlusPlus)
		} else {
			l.addToken(l.pick('=', TokenPlusEqual, TokenPlus))
		}
	case '-':
		if l.match('-') {
			l.addToken(TokenMinusMinus)
		} else if l.match('>') {
			l.addToken(TokenArrow)
		} else {
			l.addToken(l.pick('=', TokenMinusEqual, TokenMinus))
		}
	case '/':
		if l.match('/') {
			for l.peek() != '\n' && !l.isAtEnd() {
				l.advance()
			}
		} else if l.match('*') {
			return l.blockComment()
		} else {
			l.addToken(l.pick('=', TokenSlashEqual, TokenSlash))
		}
	case '<':
		if l.match('<') {
			l.addToken(l.pick('=', TokenLessLessEqual, TokenLessLess))
		} else {
			l.addToken(l.pick('=', TokenLessEqual, TokenLess))
		}
	case '>':
		if l.match('>') {
			l.addToken(l.pick('=', TokenGreaterGreaterEqual, TokenGreaterGreater))
		} else {
			l.addToken(l.pick('=', TokenGreaterEqual, TokenGreater))
		}
	case '&':
		if l.match('&') {
			l.addToken(TokenAmpAmp)
		} else {
			l.addToken(l.pick('=', TokenAmpEqual, TokenAmpersand))
		}
	case '|':
		if l.match('|') {
			l.addToken(TokenPipePipe)
		} else {
			l.addToken(l.pick('=', TokenPipeEqual, TokenPipe))
		}

	case ' ', '\r', '\t':
	case '\n':
		l.line++
		l.column = 1

	default:
		switch {
		case isDigit(r):
			l.number()
		case isAlpha(r) || r == '_':
			l.identifier()
		default:
			return fmt.Errorf("%d:%d: unexpected character %q", l.line, l.column-1, r)
		}
	}

	return nil
}

// pick consumes next and returns matched when it follows, otherwise single.
func (l *Lexer) pick(next rune, matched, single TokenKind) TokenKind {
	if l.match(next) {
		return matched
	}
	return single
}

func (l *Lexer) blockComment() error {
	line, column := l.line, l.column-2
	depth := 1
	for depth > 0 {
		if l.isAtEnd() {
			return fmt.Errorf("%d:%d: unterminated block comment", line, column)
		}
		switch {
		case l.peek() == '/' && l.peekNext() == '*':
			l.advance()
			l.advance()
			depth++
		case l.peek() == '*' && l.peekNext() == '/':
			l.advance()
			l.advance()
			depth--
		default:
			if l.advance() == '\n' {
				l.line++
				l.column = 1
			}
		}
	}
	return nil
}

func (l *Lexer) number() {
	if l.source[l.start] == '0' && (l.peek() == 'x' || l.peek() == 'X') {
		l.advance()
		for isHexDigit(l.peek()) {
			l.advance()
		}
		if l.peek() == 'i' || l.peek() == 'u' {
			l.advance()
		}
		l.addToken(TokenIntLiteral)
		return
	}

	for isDigit(l.peek()) {
		l.advance()
	}

	// "1." and "1.5" are floats, "1.x" is a member access on 1.
	float := false
	if next := l.peekNext(); l.peek() == '.' && !isAlpha(next) && next != '_' {
		l.advance()
		for isDigit(l.peek()) {
			l.advance()
		}
		float = true
	}
	if l.peek() == 'e' || l.peek() == 'E' {
		l.advance()
		if l.peek() == '+' || l.peek() == '-' {
			l.advance()
		}
		for isDigit(l.peek()) {
			l.advance()
		}
		float = true
	}

	switch {
	case l.peek() == 'f' || l.peek() == 'h':
		l.advance()
		l.addToken(TokenFloatLiteral)
	case float:
		l.addToken(TokenFloatLiteral)
	default:
		if l.peek() == 'i' || l.peek() == 'u' {
			l.advance()
		}
		l.addToken(TokenIntLiteral)
	}
}

func (l *Lexer) identifier() {
	for isAlphaNumeric(l.peek()) || l.peek() == '_' {
		l.advance()
	}
	l.addToken(lookupKeyword(l.source[l.start:l.pos]))
}

func lookupKeyword(text string) TokenKind {
	switch {
	case text == "true" || text == "false":
		return TokenBoolLiteral
	case IsReserved(text):
		return TokenKeyword
	default:
		return TokenIdent
	}
}

func (l *Lexer) addToken(kind TokenKind) {
	l.tokens = append(l.tokens, Token{
		Kind:   kind,
		Lexeme: l.source[l.start:l.pos],
		Line:   l.line,
		Column: l.column - utf8.RuneCountInString(l.source[l.start:l.pos]),
	})
}

func (l *Lexer) advance() rune {
	r, size := utf8.DecodeRuneInString(l.source[l.pos:])
	l.pos += size
	l.column++
	return r
}

func (l *Lexer) peek() rune {
	if l.isAtEnd() {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.source[l.pos:])
	return r
}

func (l *Lexer) peekNext() rune {
	if l.pos+1 >= len(l.source) {
		return 0
	}
	_, size := utf8.DecodeRuneInString(l.source[l.pos:])
	r, _ := utf8.DecodeRuneInString(l.source[l.pos+size:])
	return r
}

func (l *Lexer) match(expected rune) bool {
	if l.isAtEnd() {
		return false
	}
	r, size := utf8.DecodeRuneInString(l.source[l.pos:])
	if r != expected {
		return false
	}
	l.pos += size
	l.column++
	return true
}

func (l *Lexer) isAtEnd() bool {
	return l.pos >= len(l.source)
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isHexDigit(r rune) bool {
	return isDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

func isAlpha(r rune) bool {
	return unicode.IsLetter(r)
}

func isAlphaNumeric(r rune) bool {
	return isAlpha(r) || isDigit(r)
}
