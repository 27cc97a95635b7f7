package crawler

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/armon/go-radix"
)

// canonicalizeRoots resolves every path in roots to an absolute, symlink-
// resolved, cleaned form, drops exact duplicates, and then drops any root
// that is a descendant of another, keeping the shallower one, regardless
// of which order the caller listed them in. Each descendant drop records a
// Warning; exact duplicates are dropped without one.
//
// Exact-duplicate resolution (two distinct inputs canonicalizing to the
// identical path) is the one case where caller order still matters — the
// first occurrence wins, since there is no shallower/deeper distinction
// to break the tie on; see DESIGN.md.
func canonicalizeRoots(roots []string) ([]string, []Warning) {
	var warnings []Warning

	type candidate struct {
		real  string
		depth int
	}

	seen := make(map[string]bool, len(roots))
	candidates := make([]candidate, 0, len(roots))

	for _, r := range roots {
		abs, err := filepath.Abs(r)
		if err != nil {
			warnings = append(warnings, Warning{Path: r, Cause: fmt.Errorf("resolve absolute path: %w", err)})
			continue
		}
		real, err := filepath.EvalSymlinks(abs)
		if err != nil {
			// Root does not exist or cannot be stat'd; keep the cleaned
			// absolute form so the crawl still attempts to open it and
			// reports the failure as its own directory-open warning.
			real = filepath.Clean(abs)
		} else {
			real = filepath.Clean(real)
		}

		if seen[real] {
			continue
		}
		seen[real] = true

		candidates = append(candidates, candidate{
			real:  real,
			depth: strings.Count(real, string(os.PathSeparator)),
		})
	}

	// Process shallowest first so a descendant is always the one dropped,
	// never the ancestor, no matter which order the caller supplied them
	// in. Ties (same depth) keep caller order via the stable sort.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].depth < candidates[j].depth
	})

	tree := radix.New()
	accepted := make([]string, 0, len(candidates))
	for _, c := range candidates {
		probe := c.real + string(os.PathSeparator)
		if _, _, ok := tree.LongestPrefix(probe); ok {
			warnings = append(warnings, Warning{Path: c.real, Cause: fmt.Errorf("dropped: nested under an already-configured root")})
			continue
		}
		tree.Insert(probe, struct{}{})
		accepted = append(accepted, c.real)
	}

	return accepted, warnings
}
