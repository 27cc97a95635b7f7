package crawler

import (
	"runtime"

	"github.com/wildflower-tools/indexa/database"
)

// Config configures one Crawler run. The zero Config has no Roots, so
// Build rejects it with ErrEmptyRootsAfterFiltering; every other field's
// zero value is a usable default.
type Config struct {
	// Roots is the non-empty list of absolute paths to crawl. Duplicates
	// and paths nested under another root are collapsed to the shallower
	// root by canonicalizeRoots.
	Roots []string

	// IgnoreHidden skips entries whose basename starts with '.'.
	IgnoreHidden bool

	// FollowSymlinks makes the walker descend into symlinked directories.
	// When enabled, cycles are detected via (device, inode) tracking on the
	// current ancestor chain and refused.
	FollowSymlinks bool

	// StayOnFilesystem refuses to cross into a child directory whose
	// device id differs from its parent's.
	StayOnFilesystem bool

	// Attributes selects which optional attribute columns to collect.
	// Zero value collects none.
	Attributes database.AttrFlags

	// CaseFold builds a case-folded sibling interner alongside the
	// primary one, so a case-insensitive literal query can test a
	// precomputed folded name instead of folding it again on every
	// search. Matching still works without this; it only removes the
	// per-query folding cost for the literal (non-regex) path.
	CaseFold bool

	// Threads is the worker pool size. Zero means host logical CPUs.
	Threads int

	// ExcludeFile, if non-empty, is loaded as a gitignore-style pattern
	// file applied against every candidate path in addition to
	// IgnoreHidden.
	ExcludeFile string

	// ExcludePatterns are additional gitignore-style lines, evaluated the
	// same way as ExcludeFile's contents.
	ExcludePatterns []string
}

// resolvedThreads returns Threads, or runtime.NumCPU() when Threads <= 0.
func (c Config) resolvedThreads() int {
	if c.Threads > 0 {
		return c.Threads
	}
	return runtime.NumCPU()
}
