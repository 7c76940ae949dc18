// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package zlisp

import (
	"bytes"
	"io"
	"math"

	gioutil "github.com/dsnet/golib/ioutil"
)

const (
	tagInt    int32 = 1
	tagFloat  int32 = 2
	tagString int32 = 3
	tagList   int32 = 4
)

// Decoder reads zlisp values from the binary wire format (§ binary wire in
// package doc). It borrows from the underlying reader the way dsnet/golib's
// ioutil.ByteReader does for xflate/meta.Reader: a thin byteReader wrapper
// that tracks how many bytes have been consumed, so every Error can carry an
// accurate Offset.
type Decoder struct {
	rd       gioutil.ByteReader
	offset   int64
	MaxDepth int // 0 means unbounded; see DefaultMaxDepth.
}

// NewDecoder returns a Decoder reading from r.
func NewDecoder(r io.Reader) *Decoder {
	d := &Decoder{MaxDepth: DefaultMaxDepth}
	d.rd.Reader = r
	return d
}

// DecodeOne decodes a single top-level Value (the outer-list wrapper plus
// its sole child, per § binary wire) and leaves the reader positioned right
// after it; trailing bytes, if any, are left unread. This is the streaming
// "consume one" entry point required by spec.md § 4.1.
func (d *Decoder) DecodeOne() (v Value, err error) {
	defer recoverErr(&err)
	v = d.decodeFrame()
	return v, nil
}

// DecodeBinary decodes data as a single framed document and requires that no
// bytes remain afterward (the "consume all" entry point).
func DecodeBinary(data []byte) (v Value, err error) {
	d := NewDecoder(bytes.NewReader(data))
	v, err = d.DecodeOne()
	if err != nil {
		return Value{}, err
	}
	if d.offset < int64(len(data)) {
		return Value{}, &Error{Kind: ErrTrailingBytes, Offset: d.offset, Msg: "trailing bytes after document"}
	}
	return v, nil
}

// decodeFrame validates and strips the mandatory outer List(tag=4,
// encoded-length=2) wrapper and decodes the single wrapped Value.
func (d *Decoder) decodeFrame() Value {
	off := d.offset
	tag, ok := d.tryReadI32()
	if !ok || tag != tagList {
		throw(ErrOuterFrameMissing, off, "missing outer list header")
	}
	encLen, ok := d.tryReadI32()
	if !ok || encLen != 2 {
		throw(ErrOuterFrameMissing, off, "outer list encoded-length must be 2, got %v", encLen)
	}
	return d.decodeValue(0)
}

// decodeValue decodes one Value at the given nesting depth.
func (d *Decoder) decodeValue(depth int) Value {
	off := d.offset
	tag := d.readI32()
	switch tag {
	case tagInt:
		return Int(d.readI32())
	case tagFloat:
		return Float(d.readF32())
	case tagString:
		lenOff := d.offset
		ln := d.readI32()
		assertf(ln >= 0 && ln <= MaxStringLen, ErrInvalidLength, lenOff, "string length %d out of range", ln)
		buf := d.readN(int(ln))
		for i, b := range buf {
			assertf(ValidStringByte(b), ErrInvalidStringByte, d.offset-int64(len(buf))+int64(i), "invalid string byte 0x%02x", b)
		}
		return String(buf)
	case tagList:
		lenOff := d.offset
		encLen := d.readI32()
		assertf(encLen >= 1, ErrInvalidLength, lenOff, "list encoded-length %d must be >= 1", encLen)
		n := encLen - 1
		if d.MaxDepth > 0 {
			assertf(depth < d.MaxDepth, ErrNestingTooDeep, off, "list nesting exceeds %d", d.MaxDepth)
		}
		vs := make([]Value, n)
		for i := range vs {
			vs[i] = d.decodeValue(depth + 1)
		}
		return Value{Kind: KindList, list: vs}
	default:
		throw(ErrInvalidTag, off, "invalid tag %d", tag)
		panic("unreachable")
	}
}

func (d *Decoder) readN(n int) []byte {
	off := d.offset
	buf := make([]byte, n)
	cnt, err := io.ReadFull(&d.rd, buf)
	d.offset += int64(cnt)
	assertf(err == nil, ErrUnexpectedEof, off, "unexpected end of input")
	return buf
}

func (d *Decoder) readI32() int32 {
	buf := d.readN(4)
	return int32(uint32(buf[0]) | uint32(buf[1])<<8 | uint32(buf[2])<<16 | uint32(buf[3])<<24)
}

func (d *Decoder) readF32() float32 {
	buf := d.readN(4)
	bits := uint32(buf[0]) | uint32(buf[1])<<8 | uint32(buf[2])<<16 | uint32(buf[3])<<24
	return math.Float32frombits(bits)
}

// tryReadI32 reads 4 bytes, reporting false instead of throwing on
// short reads. Used only for the outer-frame check, where a short read
// means "not a zlisp document" (OuterFrameMissing) rather than
// UnexpectedEof.
func (d *Decoder) tryReadI32() (int32, bool) {
	buf := make([]byte, 4)
	cnt, err := io.ReadFull(&d.rd, buf)
	d.offset += int64(cnt)
	if err != nil {
		return 0, false
	}
	return int32(uint32(buf[0]) | uint32(buf[1])<<8 | uint32(buf[2])<<16 | uint32(buf[3])<<24), true
}
