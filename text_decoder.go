// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package zlisp

import "math"

// scalarKindOf resolves a scalar Token to a Value using the generic
// precedence of § text decoder: Int, then hex Int, then Float, then String.
// It is only reached when wasQuoted is false; a quoted scalar is
// unconditionally a String (handled by the caller).
func scalarKindOf(b []byte, offset int64) Value {
	if v, ok := tryParseDecimalInt(b); ok {
		return Int(v)
	}
	if v, ok := tryParseHexInt(b); ok {
		return Int(v)
	}
	if v, ok := tryParseFloat(b); ok {
		return Float(v)
	}
	assertf(ValidStringBytes(b), ErrInvalidStringByte, offset, "scalar bytes are not a valid string")
	return String(b)
}

// tryParseDecimalInt implements: optional '+'/'-', one or more decimal
// digits, nothing else; must fit in int32.
func tryParseDecimalInt(b []byte) (int32, bool) {
	if len(b) == 0 {
		return 0, false
	}
	i := 0
	neg := false
	if b[0] == '+' || b[0] == '-' {
		neg = b[0] == '-'
		i++
	}
	if i == len(b) {
		return 0, false
	}
	var v int64
	for ; i < len(b); i++ {
		if b[i] < '0' || b[i] > '9' {
			return 0, false
		}
		v = v*10 + int64(b[i]-'0')
		if v > 1<<32 {
			return 0, false
		}
	}
	if neg {
		v = -v
	}
	if v < math.MinInt32 || v > math.MaxInt32 {
		return 0, false
	}
	return int32(v), true
}

// tryParseHexInt implements: exactly "0x" (lowercase) then one or more hex
// digits, no sign; the bit pattern is reinterpreted as a signed int32.
func tryParseHexInt(b []byte) (int32, bool) {
	if len(b) < 3 || b[0] != '0' || b[1] != 'x' {
		return 0, false
	}
	var v uint64
	for _, c := range b[2:] {
		d, ok := hexDigit(c)
		if !ok {
			return 0, false
		}
		v = v*16 + uint64(d)
		if v > math.MaxUint32 {
			return 0, false
		}
	}
	return int32(uint32(v)), true
}

func hexDigit(c byte) (int, bool) {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0'), true
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10, true
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10, true
	default:
		return 0, false
	}
}

// tryParseFloat implements: optional '+'/'-', then D*.D* with at least one
// digit on some side and '.' required; "+", "-", ".", "+.", "-." are
// rejected.
func tryParseFloat(b []byte) (float32, bool) {
	i := 0
	if len(b) > 0 && (b[0] == '+' || b[0] == '-') {
		i++
	}
	digitsBefore := 0
	for i < len(b) && b[i] >= '0' && b[i] <= '9' {
		i++
		digitsBefore++
	}
	if i >= len(b) || b[i] != '.' {
		return 0, false
	}
	i++
	digitsAfter := 0
	for i < len(b) && b[i] >= '0' && b[i] <= '9' {
		i++
		digitsAfter++
	}
	if i != len(b) {
		return 0, false
	}
	if digitsBefore == 0 && digitsAfter == 0 {
		return 0, false
	}
	f, ok := parseASCIIFloat(b)
	if !ok {
		return 0, false
	}
	return f, true
}

// parseASCIIFloat converts an already-grammar-validated float token (as
// produced by tryParseFloat) to a float32 without going through
// strconv.ParseFloat, whose grammar is looser than spec.md's (it accepts
// exponents, "inf", "nan", and underscores, none of which are legal zlisp
// float tokens).
func parseASCIIFloat(b []byte) (float32, bool) {
	neg := false
	i := 0
	if b[0] == '+' || b[0] == '-' {
		neg = b[0] == '-'
		i++
	}
	var intPart, fracPart float64
	fracDigits := 0
	seenDot := false
	for ; i < len(b); i++ {
		c := b[i]
		if c == '.' {
			seenDot = true
			continue
		}
		d := float64(c - '0')
		if !seenDot {
			intPart = intPart*10 + d
		} else {
			fracPart = fracPart*10 + d
			fracDigits++
		}
	}
	v := intPart
	if fracDigits > 0 {
		v += fracPart / math.Pow(10, float64(fracDigits))
	}
	if neg {
		v = -v
	}
	return float32(v), true
}

// textParser assembles a token stream into a Value tree per the grammar
// `value := scalar | list`, `list := '(' value* ')'`.
type textParser struct {
	tz  *Tokenizer
	tok Token
}

func newTextParser(buf []byte) *textParser {
	p := &textParser{tz: NewTokenizer(buf)}
	p.advance()
	return p
}

func (p *textParser) advance() {
	tok, err := p.tz.Next()
	if err != nil {
		panic(err)
	}
	p.tok = tok
}

// parseValue parses one Value (scalar or list) with deferred scalar typing.
func (p *textParser) parseValue() Value {
	switch p.tok.Kind {
	case TokLParen:
		off := p.tok.Offset
		p.advance()
		var vs []Value
		for p.tok.Kind != TokRParen {
			if p.tok.Kind == TokEof {
				throw(ErrUnexpectedEof, off, "unterminated list")
			}
			vs = append(vs, p.parseValue())
		}
		assertf(len(vs) <= MaxListLen, ErrListTooLong, off, "list of %d elements exceeds %d", len(vs), MaxListLen)
		p.advance()
		return Value{Kind: KindList, list: vs}
	case TokScalar:
		tok := p.tok
		p.advance()
		if tok.WasQuoted {
			return String(tok.Bytes)
		}
		return scalarKindOf(tok.Bytes, tok.Offset)
	case TokRParen:
		throw(ErrUnexpectedRParen, p.tok.Offset, "unexpected ')'")
	default:
		throw(ErrUnexpectedEof, p.tok.Offset, "unexpected end of input")
	}
	panic("unreachable")
}

// DecodeText decodes buf as a single top-level Value and requires that only
// whitespace remains afterward.
func DecodeText(buf []byte) (v Value, err error) {
	defer recoverErr(&err)
	p := newTextParser(buf)
	v = p.parseValue()
	if p.tok.Kind != TokEof {
		throw(ErrTrailingData, p.tok.Offset, "trailing data after document")
	}
	return v, nil
}

// The methods below let the bridge (bridge_decode.go) drive typed parsing
// directly against the token stream, per § 4.6: "the bridge drives typed
// parsing of scalars rather than the generic Int→Float→String resolution."

// expectLParen consumes a '(' or throws UnexpectedRParen (on ')'),
// UnexpectedEof (at end of input) or UnexpectedLParen (on a scalar).
func (p *textParser) expectLParen() int64 {
	switch p.tok.Kind {
	case TokLParen:
		off := p.tok.Offset
		p.advance()
		return off
	case TokRParen:
		throw(ErrUnexpectedRParen, p.tok.Offset, "expected '(', found ')'")
	case TokEof:
		throw(ErrUnexpectedEof, p.tok.Offset, "expected '(', found end of input")
	default:
		throw(ErrUnexpectedLParen, p.tok.Offset, "expected '(', found scalar")
	}
	panic("unreachable")
}

// atRParen reports whether the current token is ')', without consuming it.
func (p *textParser) atRParen() bool { return p.tok.Kind == TokRParen }

// atEof reports whether the current token is end-of-input.
func (p *textParser) atEof() bool { return p.tok.Kind == TokEof }

// expectRParen consumes a ')' or throws.
func (p *textParser) expectRParen() {
	assertf(p.tok.Kind == TokRParen, ErrUnexpectedEof, p.tok.Offset, "expected ')'")
	p.advance()
}

// expectScalar consumes and returns a scalar Token, or throws
// UnexpectedLParen/UnexpectedRParen/UnexpectedEof.
func (p *textParser) expectScalar() Token {
	switch p.tok.Kind {
	case TokScalar:
		tok := p.tok
		p.advance()
		return tok
	case TokLParen:
		throw(ErrUnexpectedLParen, p.tok.Offset, "expected scalar, found '('")
	case TokRParen:
		throw(ErrUnexpectedRParen, p.tok.Offset, "expected scalar, found ')'")
	default:
		throw(ErrUnexpectedEof, p.tok.Offset, "expected scalar, found end of input")
	}
	panic("unreachable")
}

// parseTypedInt requires tok to be an unquoted decimal Int token.
func parseTypedInt(tok Token) int32 {
	assertf(!tok.WasQuoted, ErrInvalidScalar, tok.Offset, "expected Int, found quoted string")
	v, ok := tryParseDecimalInt(tok.Bytes)
	assertf(ok, ErrInvalidScalar, tok.Offset, "%q is not a valid Int", tok.Bytes)
	return v
}

// parseTypedFloat requires tok to be an unquoted Float token.
func parseTypedFloat(tok Token) float32 {
	assertf(!tok.WasQuoted, ErrInvalidScalar, tok.Offset, "expected Float, found quoted string")
	v, ok := tryParseFloat(tok.Bytes)
	assertf(ok, ErrInvalidScalar, tok.Offset, "%q is not a valid Float", tok.Bytes)
	return v
}

// parseTypedHexInt requires tok to be an unquoted "0x..." token.
func parseTypedHexInt(tok Token) int32 {
	assertf(!tok.WasQuoted, ErrInvalidScalar, tok.Offset, "expected HexInt, found quoted string")
	v, ok := tryParseHexInt(tok.Bytes)
	assertf(ok, ErrInvalidScalar, tok.Offset, "%q is not a valid hex Int", tok.Bytes)
	return v
}

// parseTypedString accepts any scalar token's raw bytes as a string, quoted
// or not: the bridge's String shape has no ambiguity to resolve.
func parseTypedString(tok Token) []byte { return tok.Bytes }
