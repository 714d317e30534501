// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package wgsl

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/gogpu/shade/ir"
)

// minI32Literal is the only i32 value whose negation does not fit in i32,
// so it cannot be written as a negated suffixed literal.
const minI32Literal = "i32(-2147483648)"

// FormatLiteral renders a literal with its type suffix: 33u, -4i, 1.5f,
// true, vec2<u32>(1u, 2u).
func FormatLiteral(v ir.LiteralValue) (string, error) {
	switch v := v.(type) {
	case ir.LiteralBool:
		if v {
			return "true", nil
		}
		return "false", nil
	case ir.LiteralI32:
		if v == math.MinInt32 {
			return minI32Literal, nil
		}
		return strconv.FormatInt(int64(v), 10) + "i", nil
	case ir.LiteralU32:
		return strconv.FormatUint(uint64(v), 10) + "u", nil
	case ir.LiteralF32:
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return "", fmt.Errorf("float literal %v has no WGSL spelling", f)
		}
		return strconv.FormatFloat(f, 'g', -1, 32) + "f", nil
	case ir.LiteralVector:
		t := v.Type()
		if t == nil {
			return "", fmt.Errorf("malformed vector literal with %d components", len(v.Components))
		}
		parts := make([]string, len(v.Components))
		for i, c := range v.Components {
			s, err := FormatLiteral(c)
			if err != nil {
				return "", err
			}
			parts[i] = s
		}
		return ir.TypeName(t) + "(" + strings.Join(parts, ", ") + ")", nil
	default:
		return "", fmt.Errorf("unknown literal %T", v)
	}
}

// ParseLiteral parses a literal in the form FormatLiteral writes it. The
// text is tokenized as WGSL, and the suffix of each number selects its
// type.
func ParseLiteral(text string) (ir.LiteralValue, error) {
	tokens, err := NewLexer(text).Tokenize()
	if err != nil {
		return nil, fmt.Errorf("literal %q: %w", text, err)
	}
	p := &literalParser{text: text, tokens: tokens}
	v, err := p.literal()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.Kind != TokenEOF {
		return nil, p.errorf("unexpected %q after literal", tok.Lexeme)
	}
	return v, nil
}

// literalParser reads one literal from a token stream.
type literalParser struct {
	text   string
	tokens []Token
	pos    int
}

func (p *literalParser) peek() Token {
	return p.tokens[p.pos]
}

func (p *literalParser) next() Token {
	tok := p.tokens[p.pos]
	if tok.Kind != TokenEOF {
		p.pos++
	}
	return tok
}

func (p *literalParser) expect(kind TokenKind) error {
	if tok := p.next(); tok.Kind != kind {
		return p.errorf("expected %s, found %q", kind, tok.Lexeme)
	}
	return nil
}

func (p *literalParser) errorf(format string, args ...any) error {
	return fmt.Errorf("literal %q: %s", p.text, fmt.Sprintf(format, args...))
}

func (p *literalParser) literal() (ir.LiteralValue, error) {
	tok := p.peek()
	switch tok.Kind {
	case TokenEOF:
		return nil, p.errorf("empty literal")
	case TokenBoolLiteral:
		p.next()
		return ir.LiteralBool(tok.Lexeme == "true"), nil
	case TokenMinus, TokenIntLiteral, TokenFloatLiteral:
		return p.number("")
	case TokenKeyword:
		switch tok.Lexeme {
		case "i32", "u32", "f32":
			return p.conversion()
		case "vec2", "vec3", "vec4":
			return p.vector()
		}
	}
	return nil, p.errorf("unexpected %q", tok.Lexeme)
}

// conversion reads i32(-2147483648) and its kin. Numbers inside may omit
// their suffix.
func (p *literalParser) conversion() (ir.LiteralValue, error) {
	scalar := p.next().Lexeme
	if err := p.expect(TokenLeftParen); err != nil {
		return nil, err
	}
	v, err := p.number(scalar)
	if err != nil {
		return nil, err
	}
	if err := p.expect(TokenRightParen); err != nil {
		return nil, err
	}
	return v, nil
}

func (p *literalParser) vector() (ir.LiteralValue, error) {
	head := p.next().Lexeme
	if err := p.expect(TokenLess); err != nil {
		return nil, err
	}
	scalar := p.next()
	if scalar.Kind != TokenKeyword {
		return nil, p.errorf("expected scalar type, found %q", scalar.Lexeme)
	}
	if err := p.expect(TokenGreater); err != nil {
		return nil, err
	}
	if err := p.expect(TokenLeftParen); err != nil {
		return nil, err
	}
	var v ir.LiteralVector
	for {
		c, err := p.literal()
		if err != nil {
			return nil, err
		}
		v.Components = append(v.Components, c)
		if p.peek().Kind != TokenComma {
			break
		}
		p.next()
	}
	if err := p.expect(TokenRightParen); err != nil {
		return nil, err
	}
	want := head + "<" + scalar.Lexeme + ">"
	if t := v.Type(); t == nil || ir.TypeName(t) != want {
		return nil, p.errorf("components do not form %s", want)
	}
	return v, nil
}

// number reads an optionally negated number. scalar names the enclosing
// conversion, or is empty at top level where a suffix is required.
func (p *literalParser) number(scalar string) (ir.LiteralValue, error) {
	sign := ""
	if p.peek().Kind == TokenMinus {
		p.next()
		sign = "-"
	}
	tok := p.next()
	body := tok.Lexeme
	kind := scalar
	switch tok.Kind {
	case TokenIntLiteral:
		switch body[len(body)-1] {
		case 'i':
			kind, body = "i32", body[:len(body)-1]
		case 'u':
			kind, body = "u32", body[:len(body)-1]
		}
	case TokenFloatLiteral:
		switch body[len(body)-1] {
		case 'f':
			kind, body = "f32", body[:len(body)-1]
		case 'h':
			return nil, p.errorf("f16 literals are not supported")
		}
	default:
		return nil, p.errorf("expected number, found %q", tok.Lexeme)
	}
	if scalar != "" && kind != scalar {
		return nil, p.errorf("%s value inside %s conversion", kind, scalar)
	}

	switch kind {
	case "i32":
		n, err := parseInt(sign+body, true)
		if err != nil {
			return nil, p.errorf("%v", err)
		}
		return ir.LiteralI32(n), nil
	case "u32":
		if sign != "" {
			return nil, p.errorf("negative u32")
		}
		n, err := parseInt(body, false)
		if err != nil {
			return nil, p.errorf("%v", err)
		}
		return ir.LiteralU32(n), nil
	case "f32":
		f, err := strconv.ParseFloat(sign+body, 32)
		if err != nil {
			return nil, p.errorf("%v", err)
		}
		return ir.LiteralF32(f), nil
	default:
		return nil, p.errorf("number %s has no type suffix", tok.Lexeme)
	}
}

// parseInt parses a decimal or 0x-prefixed integer into 32 bits.
func parseInt(text string, signed bool) (int64, error) {
	neg := strings.HasPrefix(text, "-")
	digits := strings.TrimPrefix(text, "-")
	base := 10
	if rest, ok := strings.CutPrefix(strings.ToLower(digits), "0x"); ok {
		base, digits = 16, rest
	}
	if neg {
		digits = "-" + digits
	}
	if signed {
		return strconv.ParseInt(digits, base, 32)
	}
	n, err := strconv.ParseUint(digits, base, 32)
	return int64(n), err
}
