package query

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wildflower-tools/indexa/crawler"
	"github.com/wildflower-tools/indexa/database"
	"github.com/wildflower-tools/indexa/matcher"
)

// buildScenarioTree lays out /t/a.txt, /t/b/c.txt, /t/b/d.md.
func buildScenarioTree(t *testing.T, attrs database.AttrFlags) *database.Database {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "b"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "b", "c.txt"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "b", "d.md"), nil, 0o644))

	c, err := crawler.New(crawler.Config{Roots: []string{root}, Attributes: attrs})
	require.NoError(t, err)
	db, _, err := c.Build(context.Background())
	require.NoError(t, err)
	return db
}

func collectHits(t *testing.T, e *Engine, db *database.Database, m *matcher.Matcher, maxHits int) []string {
	t.Helper()
	var paths []string
	_, err := e.Search(context.Background(), db, m, nil, maxHits, func(id int32) bool {
		p, ok := db.PathOf(id)
		require.True(t, ok)
		paths = append(paths, p)
		return true
	})
	require.NoError(t, err)
	return paths
}

// S1: literal "c", match_path off. One hit: /t/b/c.txt.
func TestScenarioLiteralBasenameSearch(t *testing.T) {
	db := buildScenarioTree(t, 0)
	m, err := matcher.Compile("c", matcher.Flags{})
	require.NoError(t, err)

	hits := collectHits(t, NewEngine(4), db, m, Unbounded)
	require.Len(t, hits, 1)
	assert.Equal(t, filepath.Join(db.Roots()[0].Path, "b", "c.txt"), hits[0])
}

// S2: "b/" auto-promotes to match_path=on; two hits, in id order.
func TestScenarioAutoPathPromotion(t *testing.T) {
	db := buildScenarioTree(t, 0)
	m, err := matcher.Compile("b/", matcher.Flags{MatchPath: matcher.MatchPathAuto})
	require.NoError(t, err)

	hits := collectHits(t, NewEngine(4), db, m, Unbounded)
	require.Len(t, hits, 2)
	root := db.Roots()[0].Path
	assert.Equal(t, []string{filepath.Join(root, "b", "c.txt"), filepath.Join(root, "b", "d.md")}, hits)
}

// S5: attributes={size,mtime}; size present, mode absent.
func TestScenarioAttributeSelection(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "f.bin"), make([]byte, 1024), 0o644))

	c, err := crawler.New(crawler.Config{Roots: []string{root}, Attributes: database.AttrSize | database.AttrModTime})
	require.NoError(t, err)
	db, _, err := c.Build(context.Background())
	require.NoError(t, err)

	m, err := matcher.Compile("f.bin", matcher.Flags{})
	require.NoError(t, err)

	var id int32
	_, err = NewEngine(2).Search(context.Background(), db, m, nil, Unbounded, func(hit int32) bool {
		id = hit
		return true
	})
	require.NoError(t, err)

	attrs, ok := db.Attribute(id)
	require.True(t, ok)
	assert.EqualValues(t, 1024, attrs.Size)
	assert.Zero(t, attrs.Mode) // mode was never collected; the field is simply unset
}

func TestResultsAreDeliveredInIncreasingEntryIDOrder(t *testing.T) {
	db := buildScenarioTree(t, 0)
	m, err := matcher.Compile("", matcher.Flags{})
	require.NoError(t, err)

	var ids []int32
	_, err = NewEngine(4).Search(context.Background(), db, m, nil, Unbounded, func(id int32) bool {
		ids = append(ids, id)
		return true
	})
	require.NoError(t, err)

	for i := 1; i < len(ids); i++ {
		assert.Less(t, ids[i-1], ids[i])
	}
}

func TestEmptyQueryMatchesEveryEntry(t *testing.T) {
	db := buildScenarioTree(t, 0)
	m, err := matcher.Compile("", matcher.Flags{})
	require.NoError(t, err)

	hits := collectHits(t, NewEngine(4), db, m, Unbounded)
	assert.Len(t, hits, db.NumEntries())
}

func TestCancellationBeforeStartYieldsZeroHits(t *testing.T) {
	db := buildScenarioTree(t, 0)
	m, err := matcher.Compile("", matcher.Flags{})
	require.NoError(t, err)

	token := NewCancelToken()
	token.Cancel()

	var hits []int32
	_, err = NewEngine(4).Search(context.Background(), db, m, token, Unbounded, func(id int32) bool {
		hits = append(hits, id)
		return true
	})
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestMaxHitsZeroReturnsImmediatelyAndCancels(t *testing.T) {
	db := buildScenarioTree(t, 0)
	m, err := matcher.Compile("", matcher.Flags{})
	require.NoError(t, err)

	var called bool
	token, err := NewEngine(4).Search(context.Background(), db, m, nil, 0, func(id int32) bool {
		called = true
		return true
	})
	require.NoError(t, err)
	assert.False(t, called)
	assert.True(t, token.Cancelled())
}

func TestMaxHitsCapsDelivery(t *testing.T) {
	db := buildScenarioTree(t, 0)
	m, err := matcher.Compile("", matcher.Flags{})
	require.NoError(t, err)

	hits := collectHits(t, NewEngine(4), db, m, 2)
	assert.Len(t, hits, 2)
}

func TestNewSearchImplicitlyCancelsPrevious(t *testing.T) {
	db := buildScenarioTree(t, 0)
	m, err := matcher.Compile("", matcher.Flags{})
	require.NoError(t, err)

	e := NewEngine(4)
	firstToken, err := e.Search(context.Background(), db, m, nil, Unbounded, func(id int32) bool { return true })
	require.NoError(t, err)

	_, err = e.Search(context.Background(), db, m, nil, Unbounded, func(id int32) bool { return true })
	require.NoError(t, err)

	assert.True(t, firstToken.Cancelled())
}

// TestCaseFoldedLiteralSearchUsesPrecomputedFoldInterner exercises the
// fold-interner fast path directly: the database is built with CaseFold
// enabled, so matchEntry compares against a precomputed folded name
// instead of falling back to IsMatch's regex evaluation.
func TestCaseFoldedLiteralSearchUsesPrecomputedFoldInterner(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "Report.TXT"), nil, 0o644))

	c, err := crawler.New(crawler.Config{Roots: []string{root}, CaseFold: true})
	require.NoError(t, err)
	db, _, err := c.Build(context.Background())
	require.NoError(t, err)
	require.True(t, db.FoldEnabled())

	m, err := matcher.Compile("report.txt", matcher.Flags{Case: matcher.CaseInsensitive})
	require.NoError(t, err)
	require.True(t, m.IsLiteralSubstring())
	require.True(t, m.CaseInsensitive())

	hits := collectHits(t, NewEngine(2), db, m, Unbounded)
	require.Len(t, hits, 1)
	assert.Equal(t, filepath.Join(root, "Report.TXT"), hits[0])
}

func TestOnHitStopReturnHaltsDelivery(t *testing.T) {
	db := buildScenarioTree(t, 0)
	m, err := matcher.Compile("", matcher.Flags{})
	require.NoError(t, err)

	count := 0
	_, err = NewEngine(4).Search(context.Background(), db, m, nil, Unbounded, func(id int32) bool {
		count++
		return count < 2
	})
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
