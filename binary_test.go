// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package zlisp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TerranMechworks/zlisp/internal/testutil"
)

// S1 from § 8: "04 00 00 00 02 00 00 00 01 00 00 00 2A 00 00 00" decodes to
// Int(42).
func TestDecodeBinaryScenario1(t *testing.T) {
	data := testutil.MustDecodeHex("0400000002000000010000002A000000")
	v, err := DecodeBinary(data)
	require.NoError(t, err)
	assert.True(t, Int(42).Equal(v))
}

// S2 from § 8: encoding String("hi") produces the outer-wrapped string frame.
func TestEncodeBinaryScenario2(t *testing.T) {
	data, err := EncodeBinary(StringFrom("hi"))
	require.NoError(t, err)
	want := testutil.MustDecodeHex("04000000020000000300000002000000" + "6869")
	assert.Equal(t, want, data)
}

func TestBinaryRoundTrip(t *testing.T) {
	vectors := []Value{
		Int(0),
		Int(-1),
		Int(2147483647),
		Int(-2147483648),
		Float(0),
		Float(-1.5),
		StringFrom(""),
		StringFrom("hello world"),
		List(nil),
		List([]Value{Int(1), Float(2), StringFrom("3"), List(nil)}),
		List([]Value{List([]Value{List([]Value{Int(7)})})}),
	}
	for _, v := range vectors {
		data, err := EncodeBinary(v)
		require.NoError(t, err)
		got, err := DecodeBinary(data)
		require.NoError(t, err)
		assert.True(t, v.Equal(got), "round trip mismatch for %v", v)
	}
}

func TestBinaryRoundTripRandomized(t *testing.T) {
	r := testutil.NewRand(1)
	for i := 0; i < 200; i++ {
		v := randomValue(r, 4)
		data, err := EncodeBinary(v)
		require.NoError(t, err)
		got, err := DecodeBinary(data)
		require.NoError(t, err)
		assert.True(t, v.Equal(got), "round trip mismatch for %v", v)
	}
}

func TestDecodeBinaryMissingOuterFrame(t *testing.T) {
	// tag=1 (Int) where the outer wrapper must be tag=4 (List).
	data := testutil.MustDecodeHex("010000002A000000")
	_, err := DecodeBinary(data)
	require.Error(t, err)
	zerr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, ErrOuterFrameMissing, zerr.Kind)
}

func TestDecodeBinaryBadOuterLength(t *testing.T) {
	// outer encoded-length must be exactly 2.
	data := testutil.MustDecodeHex("0400000003000000010000002A000000")
	_, err := DecodeBinary(data)
	require.Error(t, err)
	zerr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, ErrOuterFrameMissing, zerr.Kind)
}

func TestDecodeBinaryTrailingBytes(t *testing.T) {
	data := append(testutil.MustDecodeHex("0400000002000000010000002A000000"), 0xFF)
	_, err := DecodeBinary(data)
	require.Error(t, err)
	zerr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, ErrTrailingBytes, zerr.Kind)
}

func TestEncodeBinaryStringTooLong(t *testing.T) {
	_, err := EncodeBinary(String(make([]byte, MaxStringLen+1)))
	require.Error(t, err)
	zerr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, ErrStringTooLong, zerr.Kind)
}

func TestEncodeBinaryInvalidStringByte(t *testing.T) {
	_, err := EncodeBinary(Value{Kind: KindString, s: []byte{0x00}})
	require.Error(t, err)
	zerr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, ErrInvalidStringByte, zerr.Kind)
}

func TestDecodeBinaryNestingTooDeep(t *testing.T) {
	// Build MaxDepth+1 nested single-element lists.
	inner := Int(1)
	for i := 0; i < DefaultMaxDepth+1; i++ {
		inner = List([]Value{inner})
	}
	enc, err := EncodeBinary(inner)
	require.NoError(t, err)
	_, err = DecodeBinary(enc)
	require.Error(t, err)
	zerr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, ErrNestingTooDeep, zerr.Kind)
}

// randomValue generates a bounded-depth random Value tree for round-trip
// fuzzing, in the style of the teacher's deterministic testutil.Rand-driven
// generators.
func randomValue(r *testutil.Rand, maxDepth int) Value {
	kind := r.Intn(4)
	if maxDepth <= 0 {
		kind = r.Intn(3)
	}
	switch kind {
	case 0:
		return Int(int32(r.Int()))
	case 1:
		return Float(float32(r.Int()%1000) / 3)
	case 2:
		n := r.Intn(8)
		b := make([]byte, 0, n)
		for len(b) < n {
			c := byte(0x20 + r.Intn(0x5F))
			if ValidStringByte(c) {
				b = append(b, c)
			}
		}
		return String(b)
	default:
		n := r.Intn(4)
		vs := make([]Value, n)
		for i := range vs {
			vs[i] = randomValue(r, maxDepth-1)
		}
		return List(vs)
	}
}
