package line

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Token patterns for the code-likeness score. They are compiled once and
// never mutated.
var (
	rePrint     = regexp.MustCompile(`^M117\s+(.*)`)
	reGCode     = regexp.MustCompile(`^([GM][\d]+)\s*(.*)`)
	reParams    = regexp.MustCompile(`^(params\.\w+)\s*(.*)`)
	reDefault   = regexp.MustCompile(`^(\|\s*default\([\d\.]+\))\s*(.*)`)
	reCast      = regexp.MustCompile(`^(\|\s*(?:int|float))\s*(.*)`)
	reIdent     = regexp.MustCompile(`^([a-zA-Z_]\w*)\s*(.*)`)
	reWordLike  = regexp.MustCompile(`^(:?[A-Z]+|[a-zA-Z][a-z]*)$`)
	reIDValue   = regexp.MustCompile(`^([a-zA-Z_][\w\.]+)\s*(.*)`)
	reScalar    = regexp.MustCompile(`^(\d+(?:\.\d+)?[a-zA-Z]{1,4})\b`)
	reNumber    = regexp.MustCompile(`^(\d+(?:\.\d+)?)\s*(.*)`)
	reQuoteDbl  = regexp.MustCompile(`^(.*?)(".*?")(.*)`)
	reQuoteSngl = regexp.MustCompile(`^(.*?)('.*?')(.*)`)
)

var reservedWords = map[string]bool{"False": true, "True": true}

// stringPlaceholder stands in for a quoted literal; it reads as an identifier.
const stringPlaceholder = " s123 "

// IsLikeCode scores txt as program text (G-code, template expressions,
// identifiers and numbers) versus natural-language prose, and reports
// whether the program score wins. It decides whether a commented-out
// indented line is a deactivated continuation or an ordinary comment.
//
// The score is a heuristic and can be fooled by adversarial input.
func IsLikeCode(txt string) bool {
	shape, txt := unquote(txt)
	var s strings.Builder
	s.WriteString(shape)
	for len(txt) > 0 {
		if m := rePrint.FindStringSubmatch(txt); m != nil {
			// A display message: the rest is free text, not prose.
			cur := strings.ReplaceAll(s.String(), "x", "")
			s.Reset()
			s.WriteString(cur)
			s.WriteString("gggg")
			txt = txt[2:]
			continue
		}
		switch ch := txt[0]; {
		case ch == ' ' || ch == '\t':
			txt = strings.TrimLeft(txt, " \t")
		case strings.HasPrefix(txt, "{%") || strings.HasPrefix(txt, "%}"):
			s.WriteByte('g')
			txt = txt[2:]
		default:
			var tok byte
			tok, txt = scoreToken(txt, s.String())
			if tok != 0 {
				s.WriteByte(tok)
			}
		}
	}
	return weigh(s.String())
}

// scoreToken consumes one token from txt and returns its score letter.
func scoreToken(txt, sofar string) (byte, string) {
	for _, re := range []*regexp.Regexp{reGCode, reParams, reDefault, reCast} {
		if m := re.FindStringSubmatch(txt); m != nil {
			return 'g', m[2]
		}
	}
	if m := reIdent.FindStringSubmatch(txt); m != nil {
		if reWordLike.MatchString(m[1]) && !reservedWords[m[1]] {
			if len(m[1]) == 1 {
				return 'w', m[2]
			}
			return 'W', m[2]
		}
		return 'i', m[2]
	}
	if m := reIDValue.FindStringSubmatch(txt); m != nil {
		return 'i', m[2]
	}
	if loc := reScalar.FindStringIndex(txt); loc != nil {
		return 'w', txt[loc[1]:]
	}
	if m := reNumber.FindStringSubmatch(txt); m != nil {
		return 'n', m[2]
	}
	ch := txt[0]
	switch {
	case strings.IndexByte(",.=-", ch) >= 0:
		return ch, txt[1:]
	case strings.IndexByte("{}<>/[]*", ch) >= 0:
		return 'o', txt[1:]
	case ch > 127:
		if strings.HasSuffix(sofar, "x") {
			return 0, txt[1:]
		}
		return 'x', txt[1:]
	}
	return ch, txt[1:]
}

// weigh compares the program score of a shape string against its prose score.
func weigh(s string) bool {
	count := func(sub string) int { return strings.Count(s, sub) }
	pgm := 3*count("g") + 2*count("i") + count("o") + count("n") + count("-n") + count("w")
	pgm += 2 * (count("i=n") + count("i=w") + count("i=W"))
	pgm += count("w=n") + count("W=n") + count("w=w") + count("w=W") + count("W=w")
	pgm += 2 * (count("w=i") + count("W=i"))

	nat := count("W") + count("w") + count("x")
	if n := count("W"); n > 3 {
		nat += 2 * n
	}
	if n := count("n"); n <= 3 {
		nat += n
	}
	for _, end := range []string{"...", ".", ",", "!", "?"} {
		if strings.HasSuffix(s, end) {
			nat++
			break
		}
	}
	return pgm >= nat
}

// unquote replaces quoted literals with a placeholder, marks every
// non-ASCII rune as prose, and folds accented letters to ASCII.
func unquote(txt string) (string, string) {
	txt = strings.TrimSpace(txt)
	txt = strings.NewReplacer(`\"`, "`", `\'`, "`").Replace(txt)
	var out strings.Builder
	for len(txt) > 0 {
		if m := reQuoteDbl.FindStringSubmatch(txt); m != nil {
			out.WriteString(" " + m[1] + stringPlaceholder)
			txt = m[3]
		} else if m := reQuoteSngl.FindStringSubmatch(txt); m != nil {
			out.WriteString(" " + m[1] + stringPlaceholder)
			txt = m[3]
		} else {
			out.WriteString(txt)
			break
		}
	}
	var shape strings.Builder
	for _, r := range out.String() {
		if r > 127 {
			shape.WriteByte('x')
		}
	}
	return shape.String(), fold(out.String())
}

// fold strips diacritics so that accented prose scores like ASCII prose.
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	r, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return r
}
