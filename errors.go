// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package zlisp

import (
	"fmt"

	"github.com/dsnet/golib/errs"
)

// ErrKind identifies the stable, user-visible error taxonomy of package
// zlisp.
type ErrKind string

const (
	ErrUnexpectedEof         ErrKind = "UnexpectedEof"
	ErrTrailingBytes         ErrKind = "TrailingBytes"
	ErrInvalidTag            ErrKind = "InvalidTag"
	ErrInvalidLength         ErrKind = "InvalidLength"
	ErrOuterFrameMissing     ErrKind = "OuterFrameMissing"
	ErrInvalidStringByte     ErrKind = "InvalidStringByte"
	ErrStringTooLong         ErrKind = "StringTooLong"
	ErrListTooLong           ErrKind = "ListTooLong"
	ErrNestingTooDeep        ErrKind = "NestingTooDeep"
	ErrInvalidByte           ErrKind = "InvalidByte"
	ErrReservedByte          ErrKind = "ReservedByte"
	ErrUnterminatedQuote     ErrKind = "UnterminatedQuote"
	ErrTokenTooLong          ErrKind = "TokenTooLong"
	ErrUnexpectedLParen      ErrKind = "UnexpectedLParen"
	ErrUnexpectedRParen      ErrKind = "UnexpectedRParen"
	ErrInvalidScalar         ErrKind = "InvalidScalar"
	ErrTrailingData          ErrKind = "TrailingData"
	ErrBridgeUnsupported     ErrKind = "BridgeUnsupported"
	ErrMapOddLength          ErrKind = "MapOddLength"
	ErrEnumUnknownVariant    ErrKind = "EnumUnknownVariant"
	ErrEnumShapeMismatch     ErrKind = "EnumShapeMismatch"
	ErrFloatNotRepresentable ErrKind = "FloatNotRepresentable"
)

// Error is the error type returned by every decode and encode entry point in
// package zlisp. Offset is the byte offset into the input at which the
// failure was detected (for encode failures with no byte stream, it is the
// index of the offending element within its parent list).
type Error struct {
	Kind   ErrKind
	Offset int64
	Msg    string
}

func (e *Error) Error() string {
	if e.Msg == "" {
		return fmt.Sprintf("zlisp: %s at offset %d", e.Kind, e.Offset)
	}
	return fmt.Sprintf("zlisp: %s at offset %d: %s", e.Kind, e.Offset, e.Msg)
}

// throw panics with an *Error. It is always paired with a deferred
// recoverErr higher up the call stack, mirroring the teacher's
// errs.Recover/errs.Panic pairing in xflate/meta.
func throw(kind ErrKind, offset int64, format string, args ...interface{}) {
	errs.Panic(&Error{Kind: kind, Offset: offset, Msg: fmt.Sprintf(format, args...)})
}

// assertf panics with kind unless cond holds.
func assertf(cond bool, kind ErrKind, offset int64, format string, args ...interface{}) {
	errs.Assert(cond, &Error{Kind: kind, Offset: offset, Msg: fmt.Sprintf(format, args...)})
}

// recoverErr recovers a panic raised by throw/assertf and stores it into
// *err. It delegates to errs.Recover, which re-panics a runtime.Error (a
// programmer bug such as an out-of-bounds slice access) and any panic value
// that is not an error, matching the teacher's errRecover convention
// used throughout bzip2/flate/brotli but backed by the shared library
// instead of a second hand-rolled copy.
func recoverErr(err *error) {
	errs.Recover(err)
}
