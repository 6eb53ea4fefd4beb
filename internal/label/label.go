// Package label tokenizes section labels and matches them against queries.
package label

import (
	"strings"
	"sync"

	"github.com/gobwas/glob"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	// Wildcard as the first query token matches every label.
	Wildcard = "*"

	// MacroKeyword introduces macro sections; the token after it is always
	// stored upper-cased, as the target system does.
	MacroKeyword = "gcode_macro"

	// IncludeKeyword marks the reserved `[include path]` section form.
	IncludeKeyword = "include"
)

// upper folds a token to upper case. A Caser carries state, so one is made
// per call rather than shared.
func upper(s string) string {
	return cases.Upper(language.Und).String(s)
}

// Label is the ordered token list naming a section.
type Label struct {
	tokens []string
}

// Parse splits text on whitespace. When the first token is MacroKeyword,
// the following token is upper-cased.
func Parse(text string) Label {
	fields := strings.Fields(text)
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(tokens) == 1 && tokens[0] == MacroKeyword {
			f = upper(f)
		}
		tokens = append(tokens, f)
	}
	return Label{tokens: tokens}
}

// Len is the number of tokens.
func (l Label) Len() int { return len(l.tokens) }

// IsZero reports whether the label has no tokens.
func (l Label) IsZero() bool { return len(l.tokens) == 0 }

// String joins the tokens with single spaces, without brackets.
func (l Label) String() string { return strings.Join(l.tokens, " ") }

// Header renders the label as a section header: `[tokens]`.
func (l Label) Header() string { return "[" + l.String() + "]" }

// IsInclude reports whether the label is an include directive.
func (l Label) IsInclude() bool {
	return len(l.tokens) > 0 && l.tokens[0] == IncludeKeyword
}

// IncludePath returns the file named by an include label.
func (l Label) IncludePath() string {
	if !l.IsInclude() {
		return ""
	}
	return strings.Join(l.tokens[1:], " ")
}

// MatchesAll reports whether l, used as a query, matches every label.
func (l Label) MatchesAll() bool {
	return len(l.tokens) > 0 && l.tokens[0] == Wildcard
}

// Equal reports token-wise identity.
func (l Label) Equal(o Label) bool {
	return l.String() == o.String()
}

// patterns caches compiled query tokens; queries repeat across groups.
var patterns sync.Map // string -> glob.Glob, nil for a literal

// compile returns the glob for pat, or nil when pat is not a valid
// pattern and must compare literally.
func compile(pat string) glob.Glob {
	if v, ok := patterns.Load(pat); ok {
		g, _ := v.(glob.Glob)
		return g
	}
	g, err := glob.Compile(pat)
	if err != nil {
		g = nil
	}
	patterns.Store(pat, g)
	return g
}

func matchToken(tok, pat string) bool {
	if g := compile(pat); g != nil {
		return g.Match(tok)
	}
	return tok == pat
}

// Match reports whether l satisfies query. Token counts must agree; each
// token is a shell glob (`*`, `?`, `[seq]`, `[!seq]`); tokens after the
// first compare case-insensitively.
func (l Label) Match(query Label) bool {
	if query.MatchesAll() {
		return true
	}
	if len(l.tokens) != len(query.tokens) {
		return false
	}
	for i, tok := range l.tokens {
		pat := query.tokens[i]
		if i > 0 {
			tok = upper(tok)
			pat = upper(pat)
		}
		if !matchToken(tok, pat) {
			return false
		}
	}
	return true
}
