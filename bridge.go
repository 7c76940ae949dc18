// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package zlisp

import (
	"bytes"
	"reflect"
	"strings"
	"sync"
)

// Enum is the marker interface a Go type must implement to participate as
// an enum variant of the data-model bridge (§ 4.6). ZlispVariant returns the
// wire name of the variant -- the String image used for a unit variant, or
// the leading V of List(V, ...) for the other three variant shapes.
type Enum interface {
	ZlispVariant() string
}

var enumType = reflect.TypeOf((*Enum)(nil)).Elem()

var (
	variantMu      sync.RWMutex
	variantsByName = map[string]reflect.Type{}
)

// RegisterVariant associates a wire variant name with the concrete Go type
// of zero (which must implement Enum). It must be called once per variant
// type before that variant can be decoded; it mirrors the registration
// pattern reflect-based codecs in the pack use for interface-typed fields
// (e.g. other_examples' classicvalues-go-6 codec's concrete-type lookup
// table for interface kinds).
func RegisterVariant(name string, zero Enum) {
	t := reflect.TypeOf(zero)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	variantMu.Lock()
	variantsByName[name] = t
	variantMu.Unlock()
}

func lookupVariant(name string) (reflect.Type, bool) {
	variantMu.RLock()
	t, ok := variantsByName[name]
	variantMu.RUnlock()
	return t, ok
}

// HexInt's reflect.Type, used to special-case hex rendering/parsing without
// threading a side channel through Value.
var hexIntType = reflect.TypeOf(HexInt(0))

// Unit is a convenience type for the bridge's "unit" shape (spec.md § 4.6):
// a struct with no fields, which the generic struct/newtype walk already
// renders as the empty list "()" with no special-casing required.
type Unit struct{}

// fieldTag is the parsed form of a `zlisp:"..."` struct tag.
type fieldTag struct {
	name   string
	inline bool
	pos    bool
	skip   bool
}

func parseFieldTag(sf reflect.StructField) fieldTag {
	raw, ok := sf.Tag.Lookup("zlisp")
	ft := fieldTag{name: sf.Name}
	if !ok {
		return ft
	}
	parts := strings.Split(raw, ",")
	if parts[0] == "-" && len(parts) == 1 {
		ft.skip = true
		return ft
	}
	if parts[0] != "" {
		ft.name = parts[0]
	}
	for _, opt := range parts[1:] {
		switch opt {
		case "inline":
			ft.inline = true
		case "pos":
			ft.pos = true
		}
	}
	return ft
}

// exportedFields returns the usable (exported, non-skipped) fields of a
// struct type together with their parsed tags, in declaration order.
func exportedFields(t reflect.Type) []struct {
	idx int
	tag fieldTag
} {
	var out []struct {
		idx int
		tag fieldTag
	}
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if sf.PkgPath != "" { // unexported
			continue
		}
		tag := parseFieldTag(sf)
		if tag.skip {
			continue
		}
		out = append(out, struct {
			idx int
			tag fieldTag
		}{i, tag})
	}
	return out
}

// Marshal maps v onto a Value tree per the shape table in spec.md § 4.6.
func Marshal(v interface{}) (val Value, err error) {
	defer recoverErr(&err)
	val = toValue(reflect.ValueOf(v), 0)
	return val, nil
}

// Unmarshal populates *out (out must be a non-nil pointer) from val.
func Unmarshal(val Value, out interface{}) (err error) {
	defer recoverErr(&err)
	rv := reflect.ValueOf(out)
	assertf(rv.Kind() == reflect.Ptr && !rv.IsNil(), ErrBridgeUnsupported, 0, "Unmarshal requires a non-nil pointer")
	assignFromValue(rv.Elem(), val)
	return nil
}

// EncodeBinaryOf marshals v and encodes the result as binary.
func EncodeBinaryOf(v interface{}) ([]byte, error) {
	val, err := Marshal(v)
	if err != nil {
		return nil, err
	}
	return EncodeBinary(val)
}

// DecodeBinaryAs decodes binary data and unmarshals it into out.
func DecodeBinaryAs(data []byte, out interface{}) error {
	val, err := DecodeBinary(data)
	if err != nil {
		return err
	}
	return Unmarshal(val, out)
}

// EncodeTextOf renders v directly to the text wire format, rendering any
// HexInt leaves in hex form. It does not round-trip through Marshal+
// EncodeText because the Value tree cannot itself carry the "render as hex"
// bit (spec.md § 3: HexInt is "indistinguishable from Int" in the tree).
func EncodeTextOf(v interface{}) (out []byte, err error) {
	defer recoverErr(&err)
	var buf bytes.Buffer
	writeBridgeText(&buf, reflect.ValueOf(v), 0)
	return buf.Bytes(), nil
}

// DecodeTextAs parses data directly against the shape of out, driving typed
// scalar resolution (Int/Float/HexInt/String) from out's reflected type
// rather than the generic Int→Float→String precedence (spec.md § 4.6).
func DecodeTextAs(data []byte, out interface{}) (err error) {
	defer recoverErr(&err)
	rv := reflect.ValueOf(out)
	assertf(rv.Kind() == reflect.Ptr && !rv.IsNil(), ErrBridgeUnsupported, 0, "DecodeTextAs requires a non-nil pointer")
	p := newTextParser(data)
	assignFromText(p, rv.Elem())
	if !p.atEof() {
		throw(ErrTrailingData, p.tok.Offset, "trailing data after document")
	}
	return nil
}
