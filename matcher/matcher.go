// Package matcher compiles a query string and a set of flags into an
// immutable predicate that can be shared across QueryEngine workers
// without synchronization.
//
// A literal query is always compiled down to a regular expression via
// escaping (regexp.QuoteMeta mirrors the original implementation's
// regex::escape), and case-insensitive matching is the inline (?i) flag
// (mirroring RegexBuilder::case_insensitive) — see DESIGN.md for why no
// third-party regex engine from the pack was a better fit than the
// standard library's regexp here.
package matcher

import (
	"os"
	"regexp"
	"strings"
	"unicode"
)

// CaseSensitivity selects how Compile decides case folding.
type CaseSensitivity int

const (
	// CaseSmart is sensitive iff the query contains an uppercase letter.
	CaseSmart CaseSensitivity = iota
	CaseSensitive
	CaseInsensitive
)

// PathPolicy selects whether the Matcher is applied to a basename or a
// full reconstructed path.
type PathPolicy int

const (
	// MatchPathAuto promotes to MatchPathOn iff the query contains a path
	// separator.
	MatchPathAuto PathPolicy = iota
	MatchPathOff
	MatchPathOn
)

// Flags configures Compile. The zero Flags is CaseSmart, MatchPathAuto,
// regex disabled.
type Flags struct {
	Case      CaseSensitivity
	Regex     bool
	MatchPath PathPolicy
}

// Matcher is a compiled, immutable predicate over strings. It is safe to
// share across goroutines without synchronization once returned from
// Compile.
type Matcher struct {
	pattern     *regexp.Regexp
	matchPath   bool
	insensitive bool

	// isLiteral and literal support QueryEngine's fold-interner fast path:
	// case-insensitive matching consults the folded interner when one is
	// available, falling back to on-the-fly folding otherwise. literal is
	// only meaningful when isLiteral is true.
	isLiteral bool
	literal   string
}

// Compile builds a Matcher from query and flags. An empty, non-regex
// query compiles to a pattern that matches every entry, since
// regexp.QuoteMeta("") is the empty pattern.
func Compile(query string, flags Flags) (*Matcher, error) {
	insensitive := resolveCaseInsensitive(flags.Case, query)
	matchPath := resolveMatchPath(flags.MatchPath, query, flags.Regex)

	src := query
	if !flags.Regex {
		src = regexp.QuoteMeta(query)
	}
	if insensitive {
		src = "(?i)" + src
	}

	re, err := regexp.Compile(src)
	if err != nil {
		return nil, &InvalidRegex{Query: query, Detail: err}
	}

	m := &Matcher{pattern: re, matchPath: matchPath, insensitive: insensitive}
	if !flags.Regex {
		m.isLiteral = true
		m.literal = query
		if insensitive {
			m.literal = asciiFold(query)
		}
	}
	return m, nil
}

// MatchesFullPath reports whether this Matcher was resolved to test
// against the full reconstructed path rather than just the basename.
// QueryEngine uses this to decide whether it needs to reconstruct a path
// for each candidate entry at all.
func (m *Matcher) MatchesFullPath() bool { return m.matchPath }

// IsMatch reports whether text matches the compiled pattern.
func (m *Matcher) IsMatch(text string) bool {
	return m.pattern.MatchString(text)
}

// FindSpan returns the byte range of the first match in text, for UI
// highlighting. ok is false if there is no match.
func (m *Matcher) FindSpan(text string) (start, end int, ok bool) {
	loc := m.pattern.FindStringIndex(text)
	if loc == nil {
		return 0, 0, false
	}
	return loc[0], loc[1], true
}

// IsLiteralSubstring reports whether this Matcher evaluates a plain
// substring search rather than a general regular expression. QueryEngine
// consults this to decide whether a fold-interner fast path applies.
func (m *Matcher) IsLiteralSubstring() bool { return m.isLiteral }

// CaseInsensitive reports whether Compile resolved this query to
// case-insensitive matching, whether requested explicitly or via
// CaseSmart.
func (m *Matcher) CaseInsensitive() bool { return m.insensitive }

// FoldedLiteral returns the literal query text, ASCII-lowercased when
// CaseInsensitive reports true. Only meaningful when IsLiteralSubstring
// is true; QueryEngine compares this against a candidate's precomputed
// folded name instead of re-folding the name on every search.
func (m *Matcher) FoldedLiteral() string { return m.literal }

// asciiFold lowercases ASCII letters only, matching the interner
// package's fold-interner convention so a literal query can be compared
// directly against a precomputed folded fragment.
func asciiFold(s string) string {
	b := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		b[i] = c
	}
	return string(b)
}

func resolveCaseInsensitive(c CaseSensitivity, query string) bool {
	switch c {
	case CaseSensitive:
		return false
	case CaseInsensitive:
		return true
	default: // CaseSmart
		for _, r := range query {
			if unicode.IsUpper(r) {
				return false
			}
		}
		return true
	}
}

func resolveMatchPath(p PathPolicy, query string, regex bool) bool {
	switch p {
	case MatchPathOn:
		return true
	case MatchPathOff:
		return false
	default: // MatchPathAuto
		// A bare backslash in a regex pattern is an escape character, not
		// a path separator, so on platforms where the path separator is
		// itself a backslash, only promote when the query has an escaped
		// (literal) separator. Everywhere else the separator character
		// never doubles as regex syntax, so a plain contains check is
		// correct whether or not the query is a regex.
		if regex && os.PathSeparator == '\\' {
			return strings.Contains(query, `\\`)
		}
		return strings.Contains(query, string(os.PathSeparator))
	}
}
