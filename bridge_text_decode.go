// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package zlisp

import "reflect"

// assignFromText populates dst by parsing tokens directly out of p, the way
// spec.md § 4.6 requires: "the bridge drives typed parsing of scalars
// rather than the generic Int→Float→String resolution." Structural shapes
// (lists, options, maps, structs, enums) are the same as assignFromValue;
// only scalar leaves differ, because only the token stream still carries
// was_quoted and the exact hex/decimal/float spelling needed to parse
// strictly.
func assignFromText(p *textParser, dst reflect.Value) {
	if dst.Type() == hexIntType {
		dst.SetInt(int64(parseTypedHexInt(p.expectScalar())))
		return
	}
	if t, ok := enumTargetType(dst); ok {
		dst.Set(decodeEnumText(p, t))
		return
	}
	switch dst.Kind() {
	case reflect.Int32:
		dst.SetInt(int64(parseTypedInt(p.expectScalar())))
	case reflect.Float32:
		dst.SetFloat(float64(parseTypedFloat(p.expectScalar())))
	case reflect.String:
		dst.SetString(string(parseTypedString(p.expectScalar())))
	case reflect.Ptr:
		p.expectLParen()
		if p.atRParen() {
			p.expectRParen()
			dst.Set(reflect.Zero(dst.Type()))
			return
		}
		elem := reflect.New(dst.Type().Elem())
		assignFromText(p, elem.Elem())
		p.expectRParen()
		dst.Set(elem)
	case reflect.Slice:
		assertf(dst.Type().Elem().Kind() != reflect.Uint8, ErrBridgeUnsupported, p.tok.Offset, "raw byte arrays have no zlisp image")
		p.expectLParen()
		var out reflect.Value
		n := 0
		for !p.atRParen() {
			elem := reflect.New(dst.Type().Elem()).Elem()
			assignFromText(p, elem)
			if !out.IsValid() {
				out = reflect.MakeSlice(dst.Type(), 0, 4)
			}
			out = reflect.Append(out, elem)
			n++
		}
		p.expectRParen()
		if !out.IsValid() {
			out = reflect.MakeSlice(dst.Type(), 0, 0)
		}
		dst.Set(out)
	case reflect.Array:
		p.expectLParen()
		for i := 0; i < dst.Len(); i++ {
			assertf(!p.atRParen(), ErrEnumShapeMismatch, p.tok.Offset, "tuple has fewer than %d elements", dst.Len())
			assignFromText(p, dst.Index(i))
		}
		assertf(p.atRParen(), ErrEnumShapeMismatch, p.tok.Offset, "tuple has more than %d elements", dst.Len())
		p.expectRParen()
	case reflect.Map:
		p.expectLParen()
		out := reflect.MakeMap(dst.Type())
		for !p.atRParen() {
			k := reflect.New(dst.Type().Key()).Elem()
			assignFromText(p, k)
			assertf(!p.atRParen(), ErrMapOddLength, p.tok.Offset, "map has an odd number of elements")
			mv := reflect.New(dst.Type().Elem()).Elem()
			assignFromText(p, mv)
			out.SetMapIndex(k, mv)
		}
		p.expectRParen()
		dst.Set(out)
	case reflect.Struct:
		assignStructFromText(p, dst)
	case reflect.Interface:
		throw(ErrBridgeUnsupported, p.tok.Offset, "cannot decode into a bare interface{}; register and target an Enum type")
	default:
		throw(ErrBridgeUnsupported, p.tok.Offset, "%s has no zlisp image", dst.Kind())
	}
}

func assignStructFromText(p *textParser, dst reflect.Value) {
	fields := exportedFields(dst.Type())
	if len(fields) == 1 && fields[0].tag.inline {
		assignFromText(p, dst.Field(fields[0].idx))
		return
	}
	p.expectLParen()
	seen := map[string]bool{}
	for !p.atRParen() {
		keyTok := p.expectScalar()
		key := string(parseTypedString(keyTok))
		idx := fieldIndexByName(fields, key)
		assertf(idx >= 0, ErrBridgeUnsupported, keyTok.Offset, "unknown struct field %q", key)
		assertf(!p.atRParen(), ErrMapOddLength, p.tok.Offset, "struct list has an odd number of elements")
		assignFromText(p, dst.Field(fields[idx].idx))
		seen[key] = true
	}
	p.expectRParen()
	for _, f := range fields {
		assertf(seen[f.tag.name], ErrBridgeUnsupported, p.tok.Offset, "missing struct field %q", f.tag.name)
	}
}

func fieldIndexByName(fields []struct {
	idx int
	tag fieldTag
}, name string) int {
	for i, f := range fields {
		if f.tag.name == name {
			return i
		}
	}
	return -1
}

// decodeEnumText resolves and parses a registered enum variant directly
// from the token stream, mirroring decodeEnumValue.
func decodeEnumText(p *textParser, t reflect.Type) reflect.Value {
	if p.tok.Kind == TokScalar {
		tok := p.expectScalar()
		assertf(!tok.WasQuoted, ErrEnumShapeMismatch, tok.Offset, "enum unit variant must not be a quoted string")
		name := string(tok.Bytes)
		ct, ok := lookupVariant(name)
		assertf(ok, ErrEnumUnknownVariant, tok.Offset, "unknown enum variant %q", name)
		inst := reflect.New(ct).Elem()
		fields := exportedFields(ct)
		assertf(len(fields) == 0, ErrEnumShapeMismatch, tok.Offset, "variant %q is not a unit variant", name)
		return asInterface(inst, t, name)
	}
	off := p.expectLParen()
	nameTok := p.expectScalar()
	assertf(!nameTok.WasQuoted, ErrEnumShapeMismatch, nameTok.Offset, "enum variant name must not be a quoted string")
	name := string(nameTok.Bytes)
	ct, ok := lookupVariant(name)
	assertf(ok, ErrEnumUnknownVariant, off, "unknown enum variant %q", name)
	inst := reflect.New(ct).Elem()
	decodeEnumPayloadText(p, inst, name)
	p.expectRParen()
	return asInterface(inst, t, name)
}

func decodeEnumPayloadText(p *textParser, inst reflect.Value, name string) {
	switch inst.Kind() {
	case reflect.Slice:
		var out reflect.Value
		for !p.atRParen() {
			elem := reflect.New(inst.Type().Elem()).Elem()
			assignFromText(p, elem)
			if !out.IsValid() {
				out = reflect.MakeSlice(inst.Type(), 0, 4)
			}
			out = reflect.Append(out, elem)
		}
		if !out.IsValid() {
			out = reflect.MakeSlice(inst.Type(), 0, 0)
		}
		inst.Set(out)
	case reflect.Array:
		for i := 0; i < inst.Len(); i++ {
			assertf(!p.atRParen(), ErrEnumShapeMismatch, p.tok.Offset, "variant %q tuple has fewer than %d elements", name, inst.Len())
			assignFromText(p, inst.Index(i))
		}
		assertf(p.atRParen(), ErrEnumShapeMismatch, p.tok.Offset, "variant %q tuple has more than %d elements", name, inst.Len())
	case reflect.Struct:
		fields := exportedFields(inst.Type())
		if len(fields) == 1 && fields[0].tag.inline {
			assignFromText(p, inst.Field(fields[0].idx))
			return
		}
		if allPositional(fields) {
			for _, f := range fields {
				assertf(!p.atRParen(), ErrEnumShapeMismatch, p.tok.Offset, "variant %q tuple arity mismatch", name)
				assignFromText(p, inst.Field(f.idx))
			}
			return
		}
		seen := map[string]bool{}
		for !p.atRParen() {
			keyTok := p.expectScalar()
			key := string(parseTypedString(keyTok))
			idx := fieldIndexByName(fields, key)
			assertf(idx >= 0, ErrEnumShapeMismatch, keyTok.Offset, "variant %q has no field %q", name, key)
			assertf(!p.atRParen(), ErrMapOddLength, p.tok.Offset, "variant %q struct payload has an odd number of elements", name)
			assignFromText(p, inst.Field(fields[idx].idx))
			seen[key] = true
		}
		for _, f := range fields {
			assertf(seen[f.tag.name], ErrEnumShapeMismatch, p.tok.Offset, "variant %q missing field %q", name, f.tag.name)
		}
	default:
		throw(ErrEnumShapeMismatch, p.tok.Offset, "variant %q has an unsupported underlying shape %s", name, inst.Kind())
	}
}
