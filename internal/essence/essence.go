// Package essence reduces text fragments to a canonical token form and
// derives seedable CRC-32 checksums from it.
//
// Two fragments that differ only in whitespace style (runs of blanks, tabs,
// line endings, trailing blank lines) share the same essence and therefore
// the same checksum.
package essence

import (
	"fmt"
	"hash/crc32"
	"strings"
	"unicode"
)

// Essence canonicalizes s:
//   - every whitespace run becomes a single space;
//   - identifiers ([letter_][letter digit _]*) and numbers ([digit][digit .]*)
//     stay atomic, and two adjacent tokens are always separated by a space;
//   - any other character passes through unchanged;
//   - trailing spaces are dropped.
func Essence(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	rs := []rune(s)
	isToken := false
	for i := 0; i < len(rs); {
		ch := rs[i]
		switch {
		case unicode.IsLetter(ch) || ch == '_':
			if isToken {
				b.WriteByte(' ')
			}
			isToken = true
			b.WriteRune(ch)
			for i++; i < len(rs) && isIdentRune(rs[i]); i++ {
				b.WriteRune(rs[i])
			}
		case unicode.IsNumber(ch):
			if isToken {
				b.WriteByte(' ')
			}
			isToken = true
			b.WriteRune(ch)
			for i++; i < len(rs) && (unicode.IsNumber(rs[i]) || rs[i] == '.'); i++ {
				b.WriteRune(rs[i])
			}
		case unicode.IsSpace(ch):
			b.WriteByte(' ')
			isToken = false
			for i++; i < len(rs) && unicode.IsSpace(rs[i]); i++ {
			}
		default:
			isToken = false
			b.WriteRune(ch)
			i++
		}
	}
	return strings.TrimRight(b.String(), " ")
}

func isIdentRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsNumber(r) || r == '_'
}

// Hash folds the essence of s into seed using the IEEE CRC-32 polynomial.
// Hash(b, Hash(a, 0)) chains fragments into one running checksum; an
// empty essence leaves seed unchanged.
func Hash(s string, seed uint32) uint32 {
	return crc32.Update(seed, crc32.IEEETable, []byte(Essence(s)))
}

// HashLines folds every line of lines into seed, in order.
func HashLines(lines []string, seed uint32) uint32 {
	for _, l := range lines {
		seed = Hash(l, seed)
	}
	return seed
}

// Hex renders a checksum as the 8-digit uppercase form exposed to callers.
func Hex(sum uint32) string {
	return fmt.Sprintf("%08X", sum)
}
