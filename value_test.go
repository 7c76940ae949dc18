// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package zlisp

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValueEqual(t *testing.T) {
	vectors := []struct {
		a, b  Value
		equal bool
	}{
		{Int(42), Int(42), true},
		{Int(42), Int(43), false},
		{Float(1.5), Float(1.5), true},
		{Float(float32(math.NaN())), Float(float32(math.NaN())), true},
		{StringFrom("hi"), StringFrom("hi"), true},
		{StringFrom("hi"), StringFrom("ho"), false},
		{List(nil), List(nil), true},
		{List([]Value{Int(1)}), List(nil), false},
		{List([]Value{Int(1), StringFrom("a")}), List([]Value{Int(1), StringFrom("a")}), true},
		{Int(0), Float(0), false},
	}
	for _, v := range vectors {
		assert.Equal(t, v.equal, v.a.Equal(v.b), "Equal(%v, %v)", v.a, v.b)
	}
}

func TestValidStringBytes(t *testing.T) {
	assert.True(t, ValidStringBytes([]byte("hello world")))
	assert.False(t, ValidStringBytes([]byte("has\x00null")))
	assert.False(t, ValidStringBytes([]byte(`has"quote`)))
	assert.False(t, ValidStringBytes([]byte{0x80}))
	assert.False(t, ValidStringBytes(make([]byte, MaxStringLen+1)))
}
