// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package zlisp

import (
	"bytes"
	"io"
	"math"
)

// Encoder writes zlisp values to the binary wire format. It is the inverse
// of Decoder: every Encode call injects the mandatory outer-list wrapper.
type Encoder struct {
	w   io.Writer
	off int64
}

// NewEncoder returns an Encoder writing to w.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

// Encode writes the outer-list-wrapped frame for v.
func (e *Encoder) Encode(v Value) (err error) {
	defer recoverErr(&err)
	e.writeI32(tagList)
	e.writeI32(2)
	e.encodeValue(v, 0)
	return nil
}

// EncodeBinary is the non-streaming convenience form of Encode.
func EncodeBinary(v Value) ([]byte, error) {
	var buf bytes.Buffer
	if err := NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (e *Encoder) encodeValue(v Value, idx int64) {
	switch v.Kind {
	case KindInt:
		e.writeI32(tagInt)
		e.writeI32(v.i)
	case KindFloat:
		e.writeI32(tagFloat)
		e.writeU32(math.Float32bits(v.f))
	case KindString:
		assertf(len(v.s) <= MaxStringLen, ErrStringTooLong, idx, "string of %d bytes exceeds %d", len(v.s), MaxStringLen)
		for i, b := range v.s {
			assertf(ValidStringByte(b), ErrInvalidStringByte, idx, "invalid string byte 0x%02x at index %d", b, i)
		}
		e.writeI32(tagString)
		e.writeI32(int32(len(v.s)))
		e.write(v.s)
	case KindList:
		assertf(len(v.list) <= MaxListLen, ErrListTooLong, idx, "list of %d elements exceeds %d", len(v.list), MaxListLen)
		e.writeI32(tagList)
		e.writeI32(int32(len(v.list) + 1))
		for i, c := range v.list {
			e.encodeValue(c, int64(i))
		}
	default:
		throw(ErrInvalidTag, idx, "value has no kind set")
	}
}

func (e *Encoder) write(b []byte) {
	n, err := e.w.Write(b)
	e.off += int64(n)
	assertf(err == nil, ErrUnexpectedEof, e.off, "short write")
}

func (e *Encoder) writeU32(v uint32) {
	e.write([]byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)})
}

func (e *Encoder) writeI32(v int32) {
	e.writeU32(uint32(v))
}
