// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package zlisp

import (
	"bytes"
	"math"
	"strconv"
)

// EncodeText renders v to the ASCII text wire format.
func EncodeText(v Value) (out []byte, err error) {
	defer recoverErr(&err)
	var buf bytes.Buffer
	writeTextValue(&buf, v, 0)
	return buf.Bytes(), nil
}

func writeTextValue(buf *bytes.Buffer, v Value, idx int64) {
	switch v.Kind {
	case KindInt:
		buf.WriteString(strconv.FormatInt(int64(v.i), 10))
	case KindFloat:
		writeTextFloat(buf, v.f, idx)
	case KindString:
		assertf(ValidStringBytes(v.s), ErrInvalidStringByte, idx, "string is not valid zlisp text")
		buf.Write(v.s)
	case KindList:
		buf.WriteByte(byteLParen)
		for i, c := range v.list {
			if i > 0 {
				buf.WriteByte(byteSpace)
			}
			writeTextValue(buf, c, int64(i))
		}
		buf.WriteByte(byteRParen)
	default:
		throw(ErrInvalidTag, idx, "value has no kind set")
	}
}

// writeTextFloat renders a Float using the shortest round-trip form that
// still matches the "[-+]?D*.D*" grammar, always including a '.' even for
// integral values (e.g. "1.0", never "1"). NaN and ±Inf have no such
// representation.
func writeTextFloat(buf *bytes.Buffer, f float32, idx int64) {
	assertf(!math.IsNaN(float64(f)) && !math.IsInf(float64(f), 0), ErrFloatNotRepresentable, idx, "%v has no text representation", f)
	s := strconv.FormatFloat(float64(f), 'f', -1, 32)
	if !bytes.ContainsRune([]byte(s), '.') {
		s += ".0"
	}
	buf.WriteString(s)
}

// writeTextHexInt renders a HexInt as "0x" followed by lowercase hex digits
// of the unsigned bit pattern, no sign, no leading zero-padding beyond what
// is needed.
func writeTextHexInt(buf *bytes.Buffer, v int32) {
	buf.WriteString("0x")
	buf.WriteString(strconv.FormatUint(uint64(uint32(v)), 16))
}
