// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package zlisp

import "reflect"

// assignFromValue populates dst from an already-decoded Value tree (the
// binary path: binary framing disambiguates Int/Float/String/List on the
// wire, so no typed scalar parsing is needed here -- see assignFromText for
// the text path, which must drive typed parsing at the token level).
func assignFromValue(dst reflect.Value, v Value) {
	if dst.Type() == hexIntType {
		assertf(v.Kind == KindInt, ErrBridgeUnsupported, 0, "expected Int for HexInt field, got %s", v.Kind)
		dst.SetInt(int64(v.i))
		return
	}
	if t, ok := enumTargetType(dst); ok {
		dst.Set(decodeEnumValue(t, v))
		return
	}
	switch dst.Kind() {
	case reflect.Int32:
		assertf(v.Kind == KindInt, ErrBridgeUnsupported, 0, "expected Int, got %s", v.Kind)
		dst.SetInt(int64(v.i))
	case reflect.Float32:
		assertf(v.Kind == KindFloat, ErrBridgeUnsupported, 0, "expected Float, got %s", v.Kind)
		dst.SetFloat(float64(v.f))
	case reflect.String:
		assertf(v.Kind == KindString, ErrBridgeUnsupported, 0, "expected String, got %s", v.Kind)
		dst.SetString(string(v.s))
	case reflect.Ptr:
		assertf(v.Kind == KindList, ErrBridgeUnsupported, 0, "expected option List, got %s", v.Kind)
		switch len(v.list) {
		case 0:
			dst.Set(reflect.Zero(dst.Type()))
		case 1:
			elem := reflect.New(dst.Type().Elem())
			assignFromValue(elem.Elem(), v.list[0])
			dst.Set(elem)
		default:
			throw(ErrBridgeUnsupported, 0, "option list must have 0 or 1 elements, got %d", len(v.list))
		}
	case reflect.Slice:
		assertf(dst.Type().Elem().Kind() != reflect.Uint8, ErrBridgeUnsupported, 0, "raw byte arrays have no zlisp image")
		assertf(v.Kind == KindList, ErrBridgeUnsupported, 0, "expected sequence List, got %s", v.Kind)
		out := reflect.MakeSlice(dst.Type(), len(v.list), len(v.list))
		for i, c := range v.list {
			assignFromValue(out.Index(i), c)
		}
		dst.Set(out)
	case reflect.Array:
		assertf(v.Kind == KindList, ErrBridgeUnsupported, 0, "expected tuple List, got %s", v.Kind)
		assertf(len(v.list) == dst.Len(), ErrBridgeUnsupported, 0, "tuple of %d elements does not match array length %d", len(v.list), dst.Len())
		for i, c := range v.list {
			assignFromValue(dst.Index(i), c)
		}
	case reflect.Map:
		assertf(v.Kind == KindList, ErrBridgeUnsupported, 0, "expected map List, got %s", v.Kind)
		assertf(len(v.list)%2 == 0, ErrMapOddLength, 0, "map list has odd length %d", len(v.list))
		out := reflect.MakeMapWithSize(dst.Type(), len(v.list)/2)
		for i := 0; i < len(v.list); i += 2 {
			k := reflect.New(dst.Type().Key()).Elem()
			assignFromValue(k, v.list[i])
			mv := reflect.New(dst.Type().Elem()).Elem()
			assignFromValue(mv, v.list[i+1])
			out.SetMapIndex(k, mv)
		}
		dst.Set(out)
	case reflect.Struct:
		assignStructFromValue(dst, v)
	case reflect.Interface:
		throw(ErrBridgeUnsupported, 0, "cannot decode into a bare interface{}; register and target an Enum type")
	default:
		throw(ErrBridgeUnsupported, 0, "%s has no zlisp image", dst.Kind())
	}
}

func assignStructFromValue(dst reflect.Value, v Value) {
	fields := exportedFields(dst.Type())
	if len(fields) == 1 && fields[0].tag.inline {
		assignFromValue(dst.Field(fields[0].idx), v)
		return
	}
	assertf(v.Kind == KindList, ErrBridgeUnsupported, 0, "expected struct List, got %s", v.Kind)
	assertf(len(v.list)%2 == 0, ErrMapOddLength, 0, "struct list has odd length %d", len(v.list))
	byName := map[string]Value{}
	for i := 0; i < len(v.list); i += 2 {
		k, ok := v.list[i].AsString()
		assertf(ok, ErrBridgeUnsupported, 0, "struct key must be a String")
		byName[string(k)] = v.list[i+1]
	}
	for _, f := range fields {
		fv, ok := byName[f.tag.name]
		assertf(ok, ErrBridgeUnsupported, 0, "missing struct field %q", f.tag.name)
		assignFromValue(dst.Field(f.idx), fv)
	}
}

// enumTargetType reports whether dst should be decoded as an Enum, and if
// so, the interface type to check the registry's concrete types against.
func enumTargetType(dst reflect.Value) (reflect.Type, bool) {
	if dst.Kind() == reflect.Interface && dst.Type().Implements(enumType) {
		return dst.Type(), true
	}
	return nil, false
}

// decodeEnumValue resolves a Value to a registered enum variant and returns
// a value assignable to the interface type t.
func decodeEnumValue(t reflect.Type, v Value) reflect.Value {
	switch v.Kind {
	case KindString:
		name := string(v.s)
		ct, ok := lookupVariant(name)
		assertf(ok, ErrEnumUnknownVariant, 0, "unknown enum variant %q", name)
		inst := reflect.New(ct).Elem()
		fields := exportedFields(ct)
		assertf(len(fields) == 0, ErrEnumShapeMismatch, 0, "variant %q is not a unit variant", name)
		return asInterface(inst, t, name)
	case KindList:
		assertf(len(v.list) >= 1, ErrEnumShapeMismatch, 0, "enum list must have at least a variant name")
		name, ok := v.list[0].AsString()
		assertf(ok, ErrEnumShapeMismatch, 0, "enum list's first element must be a String")
		ct, ok := lookupVariant(string(name))
		assertf(ok, ErrEnumUnknownVariant, 0, "unknown enum variant %q", name)
		inst := reflect.New(ct).Elem()
		decodeEnumPayload(inst, v.list[1:], string(name))
		return asInterface(inst, t, string(name))
	default:
		throw(ErrEnumShapeMismatch, 0, "enum must be a String or a List, got %s", v.Kind)
	}
	panic("unreachable")
}

func decodeEnumPayload(inst reflect.Value, payload []Value, name string) {
	switch inst.Kind() {
	case reflect.Slice, reflect.Array:
		if inst.Kind() == reflect.Array {
			assertf(len(payload) == inst.Len(), ErrEnumShapeMismatch, 0, "variant %q tuple arity mismatch", name)
		} else {
			inst.Set(reflect.MakeSlice(inst.Type(), len(payload), len(payload)))
		}
		for i, c := range payload {
			assignFromValue(inst.Index(i), c)
		}
	case reflect.Struct:
		fields := exportedFields(inst.Type())
		if len(fields) == 1 && fields[0].tag.inline {
			assertf(len(payload) == 1, ErrEnumShapeMismatch, 0, "variant %q newtype arity mismatch", name)
			assignFromValue(inst.Field(fields[0].idx), payload[0])
			return
		}
		if allPositional(fields) {
			assertf(len(payload) == len(fields), ErrEnumShapeMismatch, 0, "variant %q tuple arity mismatch", name)
			for i, f := range fields {
				assignFromValue(inst.Field(f.idx), payload[i])
			}
			return
		}
		assertf(len(payload)%2 == 0, ErrMapOddLength, 0, "variant %q struct payload has odd length", name)
		byName := map[string]Value{}
		for i := 0; i < len(payload); i += 2 {
			k, ok := payload[i].AsString()
			assertf(ok, ErrEnumShapeMismatch, 0, "variant %q struct key must be a String", name)
			byName[string(k)] = payload[i+1]
		}
		for _, f := range fields {
			fv, ok := byName[f.tag.name]
			assertf(ok, ErrEnumShapeMismatch, 0, "variant %q missing field %q", name, f.tag.name)
			assignFromValue(inst.Field(f.idx), fv)
		}
	default:
		throw(ErrEnumShapeMismatch, 0, "variant %q has an unsupported underlying shape %s", name, inst.Kind())
	}
}

// asInterface returns inst (or &inst if t requires a pointer receiver to
// implement Enum) boxed as an interface value of type t.
func asInterface(inst reflect.Value, t reflect.Type, name string) reflect.Value {
	if inst.Type().Implements(enumType) {
		return inst
	}
	pv := inst.Addr()
	assertf(pv.Type().Implements(enumType), ErrEnumShapeMismatch, 0, "variant %q's registered type does not implement Enum", name)
	return pv
}
