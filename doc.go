// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package zlisp implements a codec for zlisp, a small Lisp-shaped data
// language used by certain game engines.
//
// A zlisp document is a tree of exactly four value kinds: signed 32-bit
// integers, 32-bit IEEE 754 floats, short ASCII strings, and ordered lists.
// The tree has two wire representations: a compact binary format (see
// Decoder/Encoder and DecodeBinary/EncodeBinary) and a human-readable text
// format (see DecodeText/EncodeText). A bridge (Marshal/Unmarshal) maps a richer
// external Go data model -- options, units, tuples, maps, structs,
// newtypes, and enum variants -- onto the four zlisp kinds.
//
// The binary format always wraps the document in a one-element outer list;
// the text format does not. Text scalars are typed lazily: a bare token is
// not committed to Int, Float, or String until something asks for one,
// because "42" is simultaneously a valid Int and a valid String.
package zlisp
