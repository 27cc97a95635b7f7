package crawler

import "errors"

// ErrNoReadableRoots is returned by Build when every configured root
// failed to open; a crawl that manages to read at least one root instead
// accumulates a Warning for each one that failed.
var ErrNoReadableRoots = errors.New("indexa: crawler: no readable roots")

// ErrEmptyRootsAfterFiltering is returned by Build when canonicalization
// and dedup of Config.Roots leaves nothing to crawl — either Roots was
// empty, or every entry failed to resolve to an absolute path. It blocks
// the whole build→search pipeline before a single directory is opened,
// so it surfaces here rather than as a per-path Warning.
var ErrEmptyRootsAfterFiltering = errors.New("indexa: crawler: empty roots after filtering")

// Warning records a non-fatal problem encountered against one path during
// a crawl. The crawl continues; warnings are returned alongside the
// Database it still produced.
type Warning struct {
	Path  string
	Cause error
}

func (w Warning) Error() string {
	return "indexa: crawler: " + w.Path + ": " + w.Cause.Error()
}
