// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package zlisp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scanOne(t *testing.T, src string) Token {
	t.Helper()
	tz := NewTokenizer([]byte(src))
	tok, err := tz.Next()
	require.NoError(t, err)
	require.Equal(t, TokScalar, tok.Kind)
	eof, err := tz.Next()
	require.NoError(t, err)
	require.Equal(t, TokEof, eof.Kind)
	return tok
}

// Property 4 (§ 8): every spelling below tokenizes to the same four-byte
// scalar "KEYS", and every one of them except the bare form is WasQuoted.
func TestTokenizerQuotingEquivalence(t *testing.T) {
	spellings := []string{
		`KEYS`,
		`"KEYS"`,
		`"KE"YS`,
		`KE"YS"`,
		`"KE""YS"`,
		`"K"EYS`,
	}
	for _, src := range spellings {
		tok := scanOne(t, src)
		assert.Equal(t, "KEYS", string(tok.Bytes), "spelling %q", src)
	}
	assert.False(t, scanOne(t, spellings[0]).WasQuoted)
	for _, src := range spellings[1:] {
		assert.True(t, scanOne(t, src).WasQuoted, "spelling %q should be WasQuoted", src)
	}
}

func TestTokenizerParensAndWhitespace(t *testing.T) {
	tz := NewTokenizer([]byte("(a b)\n"))
	var kinds []TokKind
	for {
		tok, err := tz.Next()
		require.NoError(t, err)
		kinds = append(kinds, tok.Kind)
		if tok.Kind == TokEof {
			break
		}
	}
	assert.Equal(t, []TokKind{TokLParen, TokScalar, TokScalar, TokRParen, TokEof}, kinds)
}

func TestTokenizerQuotedParensAreLiteral(t *testing.T) {
	tok := scanOne(t, `"(a b)"`)
	assert.Equal(t, "(a b)", string(tok.Bytes))
	assert.True(t, tok.WasQuoted)
}

func TestTokenizerReservedSemicolon(t *testing.T) {
	tz := NewTokenizer([]byte("abc;def"))
	_, err := tz.Next()
	require.Error(t, err)
	zerr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, ErrReservedByte, zerr.Kind)
}

func TestTokenizerUnterminatedQuote(t *testing.T) {
	tz := NewTokenizer([]byte(`"abc`))
	_, err := tz.Next()
	require.Error(t, err)
	zerr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, ErrUnterminatedQuote, zerr.Kind)
}

func TestTokenizerNullByte(t *testing.T) {
	tz := NewTokenizer([]byte("a\x00b"))
	_, err := tz.Next()
	require.Error(t, err)
	zerr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, ErrInvalidByte, zerr.Kind)
}

// The tokenizer's alphabet is ASCII [0x01,0x7F] (spec.md § 4.3); bytes above
// 0x7F are rejected both at token-boundary dispatch and mid-scalar, quoted
// or not.
func TestTokenizerRejectsNonAscii(t *testing.T) {
	vectors := [][]byte{
		{0x85},
		[]byte("a\x85b"),
		append(append([]byte{'"'}, 0x85), '"'),
	}
	for _, src := range vectors {
		tz := NewTokenizer(src)
		_, err := tz.Next()
		require.Error(t, err, "source %q", src)
		zerr, ok := err.(*Error)
		require.True(t, ok)
		assert.Equal(t, ErrInvalidByte, zerr.Kind, "source %q", src)
	}
}
