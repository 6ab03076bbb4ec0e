// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package vcd

import (
	"strings"

	"github.com/db47h/hwtrace/fault"
)

// Identifier codes are made of printable ASCII characters from '!' to '~'.
const (
	idFirst = '!'
	idLast  = '~'
	idBase  = idLast - idFirst + 1 // 94

	// MaxIDLen is the length of the longest identifier code that Hash
	// accepts. Hash values of such codes still fit in 63 bits.
	MaxIDLen = 9
)

// Hash returns the bijective base-94 value of an identifier code, least
// significant character first. It fails on empty codes, codes longer than
// MaxIDLen and codes with characters outside '!'..'~'.
//
func Hash(id string) (uint64, error) {
	if id == "" {
		return 0, fault.Errorf("empty identifier code")
	}
	if len(id) > MaxIDLen {
		return 0, fault.Errorf("identifier code %q too long", id)
	}
	var h, m uint64 = 0, 1
	for i := 0; i < len(id); i++ {
		c := id[i]
		if c < idFirst || c > idLast {
			return 0, fault.Errorf("invalid character %q in identifier code %q", c, id)
		}
		h += uint64(c-idFirst+1) * m
		m *= idBase
	}
	return h, nil
}

// Unhash is the inverse of Hash. Unhash(0) is the empty string.
//
func Unhash(h uint64) string {
	var b strings.Builder
	for h > 0 {
		h--
		b.WriteByte(byte(h%idBase) + idFirst)
		h /= idBase
	}
	return b.String()
}
