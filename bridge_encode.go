// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package zlisp

import (
	"bytes"
	"reflect"
)

// toValue walks rv per the shape table of spec.md § 4.6 and produces a
// Value tree. idx is the index of rv within a parent sequence (0 at the root
// and for option, map and struct members); it is only used as the Offset of
// errors raised for rv.
func toValue(rv reflect.Value, idx int64) Value {
	if !rv.IsValid() {
		throw(ErrBridgeUnsupported, idx, "nil interface has no zlisp image")
	}
	if rv.Type() == hexIntType {
		return Int(int32(rv.Int()))
	}
	if e, ok := asEnum(rv); ok {
		return encodeEnum(e, idx)
	}
	switch rv.Kind() {
	case reflect.Int32:
		return Int(int32(rv.Int()))
	case reflect.Float32:
		return Float(float32(rv.Float()))
	case reflect.String:
		s := []byte(rv.String())
		assertf(len(s) <= MaxStringLen, ErrStringTooLong, idx, "string of %d bytes exceeds %d", len(s), MaxStringLen)
		assertf(ValidStringBytes(s), ErrInvalidStringByte, idx, "string contains a byte not representable in zlisp")
		return String(s)
	case reflect.Ptr:
		if rv.IsNil() {
			return List(nil) // option: None
		}
		return List([]Value{toValue(rv.Elem(), 0)}) // option: Some(x)
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() == reflect.Uint8 {
			throw(ErrBridgeUnsupported, idx, "raw byte arrays have no zlisp image")
		}
		vs := make([]Value, rv.Len())
		for i := range vs {
			vs[i] = toValue(rv.Index(i), int64(i))
		}
		return List(vs)
	case reflect.Map:
		return encodeMap(rv, idx)
	case reflect.Struct:
		return encodeStruct(rv, idx)
	case reflect.Interface:
		if rv.IsNil() {
			throw(ErrBridgeUnsupported, idx, "nil interface has no zlisp image")
		}
		return toValue(rv.Elem(), idx)
	default:
		throw(ErrBridgeUnsupported, idx, "%s has no zlisp image", rv.Kind())
	}
	panic("unreachable")
}

// asEnum reports whether rv's type implements Enum, returning it boxed.
func asEnum(rv reflect.Value) (Enum, bool) {
	if rv.Type().Implements(enumType) {
		e, _ := rv.Interface().(Enum)
		return e, e != nil
	}
	if rv.CanAddr() && reflect.PtrTo(rv.Type()).Implements(enumType) {
		e, _ := rv.Addr().Interface().(Enum)
		return e, e != nil
	}
	return nil, false
}

// encodeEnum renders e per its concrete shape: unit (no fields) -> String;
// one inline field -> newtype variant; slice/array -> tuple variant;
// positional struct fields -> tuple variant; named struct fields -> struct
// variant.
func encodeEnum(e Enum, idx int64) Value {
	name := e.ZlispVariant()
	rv := reflect.ValueOf(e)
	for rv.Kind() == reflect.Ptr {
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Struct:
		fields := exportedFields(rv.Type())
		if len(fields) == 0 {
			return StringFrom(name)
		}
		if len(fields) == 1 && fields[0].tag.inline {
			return List([]Value{StringFrom(name), toValue(rv.Field(fields[0].idx), 0)})
		}
		if allPositional(fields) {
			vs := []Value{StringFrom(name)}
			for _, f := range fields {
				vs = append(vs, toValue(rv.Field(f.idx), 0))
			}
			return List(vs)
		}
		vs := []Value{StringFrom(name)}
		for _, f := range fields {
			vs = append(vs, StringFrom(f.tag.name), toValue(rv.Field(f.idx), 0))
		}
		return List(vs)
	case reflect.Slice, reflect.Array:
		vs := []Value{StringFrom(name)}
		for i := 0; i < rv.Len(); i++ {
			vs = append(vs, toValue(rv.Index(i), int64(i)))
		}
		return List(vs)
	default:
		throw(ErrBridgeUnsupported, idx, "enum variant %q has an unsupported underlying shape %s", name, rv.Kind())
	}
	panic("unreachable")
}

// writeBridgeEnumText renders e's payload the same shapes as encodeEnum,
// except every field goes through writeBridgeText instead of toValue, so a
// HexInt nested anywhere in the payload still renders as "0x..." rather
// than losing its hex-rendering intent to the generic Value tree.
func writeBridgeEnumText(buf *bytes.Buffer, e Enum, idx int64) {
	name := e.ZlispVariant()
	rv := reflect.ValueOf(e)
	for rv.Kind() == reflect.Ptr {
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Struct:
		fields := exportedFields(rv.Type())
		if len(fields) == 0 {
			buf.WriteString(name)
			return
		}
		if len(fields) == 1 && fields[0].tag.inline {
			buf.WriteByte(byteLParen)
			buf.WriteString(name)
			buf.WriteByte(byteSpace)
			writeBridgeText(buf, rv.Field(fields[0].idx), 0)
			buf.WriteByte(byteRParen)
			return
		}
		buf.WriteByte(byteLParen)
		buf.WriteString(name)
		if allPositional(fields) {
			for _, f := range fields {
				buf.WriteByte(byteSpace)
				writeBridgeText(buf, rv.Field(f.idx), 0)
			}
		} else {
			for _, f := range fields {
				buf.WriteByte(byteSpace)
				buf.WriteString(f.tag.name)
				buf.WriteByte(byteSpace)
				writeBridgeText(buf, rv.Field(f.idx), 0)
			}
		}
		buf.WriteByte(byteRParen)
	case reflect.Slice, reflect.Array:
		buf.WriteByte(byteLParen)
		buf.WriteString(name)
		for i := 0; i < rv.Len(); i++ {
			buf.WriteByte(byteSpace)
			writeBridgeText(buf, rv.Index(i), int64(i))
		}
		buf.WriteByte(byteRParen)
	default:
		throw(ErrBridgeUnsupported, idx, "enum variant %q has an unsupported underlying shape %s", name, rv.Kind())
	}
}

func allPositional(fields []struct {
	idx int
	tag fieldTag
}) bool {
	for _, f := range fields {
		if !f.tag.pos {
			return false
		}
	}
	return true
}

// encodeMap renders a map as "(k1 v1 k2 v2 ...)" in the map's own iteration
// order. Go's map iteration is randomized, so the output is deterministic
// only insofar as the caller's map is (spec.md § 4.6: "deterministic only if
// the source is deterministic").
func encodeMap(rv reflect.Value, idx int64) Value {
	var vs []Value
	iter := rv.MapRange()
	for iter.Next() {
		vs = append(vs, toValue(iter.Key(), 0), toValue(iter.Value(), 0))
	}
	return List(vs)
}

// encodeStruct renders a plain (non-enum) struct as "(k1 v1 k2 v2 ...)",
// except a single `zlisp:",inline"` field, which makes the struct a
// transparent newtype wrapper around that field's image.
func encodeStruct(rv reflect.Value, idx int64) Value {
	fields := exportedFields(rv.Type())
	if len(fields) == 1 && fields[0].tag.inline {
		return toValue(rv.Field(fields[0].idx), 0)
	}
	var vs []Value
	for _, f := range fields {
		vs = append(vs, StringFrom(f.tag.name), toValue(rv.Field(f.idx), 0))
	}
	return List(vs)
}

// writeBridgeText renders rv directly to text bytes, the same shapes as
// toValue, except HexInt leaves render as "0x...".
func writeBridgeText(buf *bytes.Buffer, rv reflect.Value, idx int64) {
	if !rv.IsValid() {
		throw(ErrBridgeUnsupported, idx, "nil interface has no zlisp image")
	}
	if rv.Type() == hexIntType {
		writeTextHexInt(buf, int32(rv.Int()))
		return
	}
	if e, ok := asEnum(rv); ok {
		writeBridgeEnumText(buf, e, idx)
		return
	}
	switch rv.Kind() {
	case reflect.Ptr:
		if rv.IsNil() {
			buf.WriteString("()")
			return
		}
		buf.WriteByte(byteLParen)
		writeBridgeText(buf, rv.Elem(), 0)
		buf.WriteByte(byteRParen)
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() == reflect.Uint8 {
			throw(ErrBridgeUnsupported, idx, "raw byte arrays have no zlisp image")
		}
		buf.WriteByte(byteLParen)
		for i := 0; i < rv.Len(); i++ {
			if i > 0 {
				buf.WriteByte(byteSpace)
			}
			writeBridgeText(buf, rv.Index(i), int64(i))
		}
		buf.WriteByte(byteRParen)
	case reflect.Map:
		buf.WriteByte(byteLParen)
		first := true
		iter := rv.MapRange()
		for iter.Next() {
			if !first {
				buf.WriteByte(byteSpace)
			}
			first = false
			writeBridgeText(buf, iter.Key(), 0)
			buf.WriteByte(byteSpace)
			writeBridgeText(buf, iter.Value(), 0)
		}
		buf.WriteByte(byteRParen)
	case reflect.Struct:
		fields := exportedFields(rv.Type())
		if len(fields) == 1 && fields[0].tag.inline {
			writeBridgeText(buf, rv.Field(fields[0].idx), 0)
			return
		}
		buf.WriteByte(byteLParen)
		for i, f := range fields {
			if i > 0 {
				buf.WriteByte(byteSpace)
			}
			buf.WriteString(f.tag.name)
			buf.WriteByte(byteSpace)
			writeBridgeText(buf, rv.Field(f.idx), 0)
		}
		buf.WriteByte(byteRParen)
	case reflect.Interface:
		writeBridgeText(buf, rv.Elem(), idx)
	default:
		writeTextValue(buf, toValue(rv, idx), idx)
	}
}
