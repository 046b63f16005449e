package codegen

import (
	"fmt"
	"strings"
	"unicode/utf16"
)

// escapeCodeUnit renders a UTF-16 code unit as a JavaScript escape
// sequence: \xHH for units up to 0xFF, \uHHHH above that. Hex digits
// are uppercase.
func escapeCodeUnit(unit uint16) string {
	if unit <= 0xFF {
		return fmt.Sprintf(`\x%02X`, unit)
	}
	return fmt.Sprintf(`\u%04X`, unit)
}

// quoteJS renders s as a JavaScript double-quoted string literal.
//
// ECMA-262, 5th ed., 7.8.4: all characters may appear literally in a
// string literal except for the closing quote character, backslash,
// carriage return, line separator, paragraph separator, and line feed.
// Everything outside ASCII is emitted as an escape sequence so the
// generated parser does not depend on its own file's encoding.
func quoteJS(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, unit := range utf16.Encode([]rune(s)) {
		switch {
		case unit == '\\':
			b.WriteString(`\\`)
		case unit == '"':
			b.WriteString(`\"`)
		case unit == '\r':
			b.WriteString(`\r`)
		case unit == '\n':
			b.WriteString(`\n`)
		case unit >= 0x80:
			b.WriteString(escapeCodeUnit(unit))
		default:
			b.WriteByte(byte(unit))
		}
	}
	b.WriteByte('"')
	return b.String()
}

// escapeForRegexpClass renders a character for use inside a JavaScript
// regular-expression character class. Characters with special meaning
// in that context are backslash-escaped; non-ASCII and control
// characters are emitted as escape sequences.
func escapeForRegexpClass(ch rune) string {
	switch ch {
	case '\\', '/', ']', '^', '-':
		return `\` + string(ch)
	case 0:
		return `\0`
	case '\t':
		return `\t`
	case '\n':
		return `\n`
	case '\r':
		return `\r`
	}
	if ch >= 0x20 && ch < 0x7F {
		return string(ch)
	}
	var b strings.Builder
	for _, unit := range utf16.Encode([]rune{ch}) {
		b.WriteString(escapeCodeUnit(unit))
	}
	return b.String()
}

// jsStringLen returns the length of s as JavaScript sees it: the
// number of UTF-16 code units. The generated recognizer for a literal
// advances pos by this count, not by the byte length of the Go string.
func jsStringLen(s string) int {
	return len(utf16.Encode([]rune(s)))
}
