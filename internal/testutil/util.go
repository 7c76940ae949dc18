// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package testutil is a collection of testing helper methods.
package testutil

import "encoding/hex"

// MustDecodeHex must decode a hexadecimal string or else panics. Tests use
// it to spell binary wire golden vectors inline, e.g.
// "0400000002000000" for an outer list frame header.
func MustDecodeHex(s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic(err)
	}
	return b
}
