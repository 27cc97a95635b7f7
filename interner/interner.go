// Package interner implements the PathInterner entity from the database
// data model: a dense, append-only mapping from string fragment to a
// stable integer handle. Handles are assigned in insertion order and never
// change once issued, so callers may cache them for the lifetime of the
// Database that was built against this Interner.
//
// Concurrency is a single short-held mutex over the fragment table:
// crawler workers intern basenames from many goroutines at once, so
// every mutating operation holds the lock only long enough to touch the
// map and slice.
package interner

import (
	"sync"

	"github.com/armon/go-radix"
)

// Handle is a dense, zero-based id into an Interner's fragment table.
type Handle = uint32

// Interner deduplicates string fragments (directory and file basenames)
// and hands back a small integer handle for each distinct fragment.
type Interner struct {
	mu       sync.RWMutex
	byFrag   map[string]Handle
	frags    []string
	prefixes *radix.Tree

	foldMu   sync.Mutex
	fold     *Interner // lazily created case-folded sibling interner
	foldByID map[Handle]Handle
}

// New creates an empty Interner.
func New() *Interner {
	return &Interner{
		byFrag:   make(map[string]Handle),
		prefixes: radix.New(),
	}
}

// Intern returns the handle for fragment, assigning a new one if this is
// the first time the fragment has been seen. Safe for concurrent use.
func (in *Interner) Intern(fragment string) Handle {
	in.mu.RLock()
	if h, ok := in.byFrag[fragment]; ok {
		in.mu.RUnlock()
		return h
	}
	in.mu.RUnlock()

	in.mu.Lock()
	defer in.mu.Unlock()
	// Re-check: another goroutine may have interned it while we waited for
	// the write lock.
	if h, ok := in.byFrag[fragment]; ok {
		return h
	}
	h := Handle(len(in.frags))
	in.frags = append(in.frags, fragment)
	in.byFrag[fragment] = h
	in.prefixes.Insert(fragment, h)
	return h
}

// Resolve returns the fragment stored under handle. O(1).
func (in *Interner) Resolve(h Handle) (string, bool) {
	in.mu.RLock()
	defer in.mu.RUnlock()
	if int(h) >= len(in.frags) {
		return "", false
	}
	return in.frags[h], true
}

// Len reports the number of distinct fragments interned so far.
func (in *Interner) Len() int {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return len(in.frags)
}

// WalkPrefix invokes fn for every interned fragment that starts with
// prefix, in lexical order, stopping early if fn returns true. This is a
// debugging/inspection convenience grounded on the teacher's
// PatriciaPathIndex.PrefixLookup; it is not on the hot path of Intern or
// Resolve and does not participate in handle stability.
func (in *Interner) WalkPrefix(prefix string, fn func(fragment string, h Handle) bool) {
	in.mu.RLock()
	defer in.mu.RUnlock()
	in.prefixes.WalkPrefix(prefix, func(key string, value interface{}) bool {
		return fn(key, value.(Handle))
	})
}

// Fragments returns every interned fragment in handle order (fragment i
// is stored under handle i). persist.Save walks this to serialize the
// interner block.
func (in *Interner) Fragments() []string {
	in.mu.RLock()
	defer in.mu.RUnlock()
	out := make([]string, len(in.frags))
	copy(out, in.frags)
	return out
}

// FoldMapping returns a copy of the original-handle → folded-handle
// mapping, or nil if Fold has never been called on this interner.
func (in *Interner) FoldMapping() map[Handle]Handle {
	in.foldMu.Lock()
	defer in.foldMu.Unlock()
	if in.foldByID == nil {
		return nil
	}
	out := make(map[Handle]Handle, len(in.foldByID))
	for k, v := range in.foldByID {
		out[k] = v
	}
	return out
}

// Fold returns the handle of the case-folded (lowercased) equivalent of
// the fragment stored under h, interning it lazily into a sibling
// case-fold interner the first time it is requested for a given h.
func (in *Interner) Fold(h Handle) Handle {
	frag, ok := in.Resolve(h)
	if !ok {
		return h
	}

	in.foldMu.Lock()
	defer in.foldMu.Unlock()

	if in.fold == nil {
		in.fold = New()
		in.foldByID = make(map[Handle]Handle)
	}
	if fh, ok := in.foldByID[h]; ok {
		return fh
	}

	fh := in.fold.Intern(foldCase(frag))
	in.foldByID[h] = fh
	return fh
}

// RestoreFold wires a previously persisted case-fold sibling interner and
// its handle mapping back onto in. It exists for persist.Load, which
// reconstructs both interners from a snapshot without replaying Fold
// calls in their original order.
func (in *Interner) RestoreFold(fold *Interner, mapping map[Handle]Handle) {
	in.foldMu.Lock()
	defer in.foldMu.Unlock()
	in.fold = fold
	in.foldByID = mapping
}

// FoldInterner returns the sibling interner holding case-folded fragments,
// or nil if Fold has never been called. The persist package writes it
// separately when case-insensitive search was enabled at build time.
func (in *Interner) FoldInterner() *Interner {
	in.foldMu.Lock()
	defer in.foldMu.Unlock()
	return in.fold
}

// foldCase lowercases ASCII letters only; non-ASCII bytes pass through
// unchanged, matching most filesystems' byte-oriented case-fold behavior.
func foldCase(s string) string {
	b := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		b = append(b, c)
	}
	return string(b)
}
