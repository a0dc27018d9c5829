// Copyright (c) 2016-2017 Daniel Oaks <daniel@danieloaks.net>
// released under the MIT license

// Package ircfmt converts between raw IRC formatting control codes and a
// readable $-escaped representation (bold, colour, italic, underline,
// reset).
package ircfmt

import "strings"

const escapeChar = "$"

var formatCodes = []struct {
	escape string
	raw    string
}{
	{"b", "\x02"}, // bold
	{"c", "\x03"}, // color
	{"i", "\x1d"}, // italic
	{"u", "\x1f"}, // underline
	{"r", "\x0f"}, // reset
}

// Escape turns raw formatting codes into their $-escaped representation.
func Escape(in string) string {
	// protect literal $ before substituting codes
	in = strings.Replace(in, escapeChar, "\x00", -1)
	for _, code := range formatCodes {
		in = strings.Replace(in, code.raw, escapeChar+code.escape, -1)
	}
	return strings.Replace(in, "\x00", escapeChar+escapeChar, -1)
}

// Unescape turns $-escaped formatting back into raw control codes.
// Unknown escapes pass the escaped character through literally.
func Unescape(in string) string {
	var out strings.Builder
	for i := 0; i < len(in); i++ {
		if in[i] != '$' || i+1 >= len(in) {
			out.WriteByte(in[i])
			continue
		}
		i++
		key := in[i]
		if key == '$' {
			out.WriteByte('$')
			continue
		}
		replaced := false
		for _, code := range formatCodes {
			if code.escape == string(key) {
				out.WriteString(code.raw)
				replaced = true
				break
			}
		}
		if !replaced {
			out.WriteByte(key)
		}
	}
	return out.String()
}
