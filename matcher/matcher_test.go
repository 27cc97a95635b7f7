package matcher

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileEmptyQueryMatchesEverything(t *testing.T) {
	m, err := Compile("", Flags{})
	require.NoError(t, err)
	assert.True(t, m.IsMatch("anything"))
	assert.True(t, m.IsMatch(""))
}

func TestCompileLiteralQueryEscapesRegexMetacharacters(t *testing.T) {
	m, err := Compile("a.txt", Flags{})
	require.NoError(t, err)
	assert.True(t, m.IsMatch("a.txt"))
	assert.False(t, m.IsMatch("aXtxt"), "literal '.' must not behave as a regex wildcard")
}

// S3: regex query anchored at the end, match_path=on.
func TestScenarioRegexMatchPathOn(t *testing.T) {
	m, err := Compile(`\.txt$`, Flags{Regex: true, MatchPath: MatchPathOn})
	require.NoError(t, err)
	assert.True(t, m.MatchesFullPath())
	assert.True(t, m.IsMatch("/t/a.txt"))
	assert.True(t, m.IsMatch("/t/b/c.txt"))
	assert.False(t, m.IsMatch("/t/b/d.md"))
}

// S4: smart case with an uppercase query is sensitive, so it misses an
// all-lowercase tree.
func TestScenarioSmartCaseIsSensitiveWithUppercaseQuery(t *testing.T) {
	m, err := Compile("C.TXT", Flags{Case: CaseSmart})
	require.NoError(t, err)
	assert.False(t, m.IsMatch("c.txt"))
}

func TestSmartCaseIsInsensitiveWithLowercaseQuery(t *testing.T) {
	m, err := Compile("readme", Flags{Case: CaseSmart})
	require.NoError(t, err)
	assert.True(t, m.IsMatch("README"))
}

func TestMatchPathAutoPromotesOnSeparator(t *testing.T) {
	m, err := Compile("b/", Flags{MatchPath: MatchPathAuto})
	require.NoError(t, err)
	assert.True(t, m.MatchesFullPath())
}

func TestMatchPathAutoStaysOffWithoutSeparator(t *testing.T) {
	m, err := Compile("c", Flags{MatchPath: MatchPathAuto})
	require.NoError(t, err)
	assert.False(t, m.MatchesFullPath())
}

// On non-Windows platforms a backslash in a regex query is an escape
// character, not a path separator, so it must not promote match_path=auto
// to full-path matching the way an actual '/' does.
func TestMatchPathAutoRegexBackslashIsNotASeparatorOnUnix(t *testing.T) {
	if os.PathSeparator == '\\' {
		t.Skip("backslash is the path separator on this platform")
	}
	m, err := Compile(`\d+`, Flags{Regex: true, MatchPath: MatchPathAuto})
	require.NoError(t, err)
	assert.False(t, m.MatchesFullPath())
}

func TestCompileInvalidRegexReportsDetail(t *testing.T) {
	_, err := Compile("(unclosed", Flags{Regex: true})
	require.Error(t, err)
	var ir *InvalidRegex
	require.ErrorAs(t, err, &ir)
	assert.Equal(t, "(unclosed", ir.Query)
}

func TestFindSpanReturnsMatchRange(t *testing.T) {
	m, err := Compile("txt", Flags{})
	require.NoError(t, err)
	start, end, ok := m.FindSpan("a.txt")
	require.True(t, ok)
	assert.Equal(t, "txt", "a.txt"[start:end])
}

func TestFindSpanNoMatch(t *testing.T) {
	m, err := Compile("zzz", Flags{})
	require.NoError(t, err)
	_, _, ok := m.FindSpan("a.txt")
	assert.False(t, ok)
}
