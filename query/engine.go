// Package query drives a matcher.Matcher in parallel over a
// database.Database and delivers hits in strictly increasing entry-id
// order.
//
// The parallel partition scan reuses sourcegraph/conc/pool the same way
// crawler does for directory traversal, and merges per-partition matches
// through a roaring.Bitmap union the way the teacher's
// vvfs/indexing/bitmaps.go merges attribute bitmaps — the union's bit
// iteration order is already sorted, so no separate sort step is needed
// to satisfy the entry-id ordering invariant.
package query

import (
	"context"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/RoaringBitmap/roaring"
	"github.com/sourcegraph/conc/pool"

	"github.com/wildflower-tools/indexa/database"
	"github.com/wildflower-tools/indexa/matcher"
)

// Unbounded, passed as maxHits, means deliver every matching entry.
const Unbounded = -1

// chunkSize is how many entries a worker scans between cancellation
// checks, keeping the pause between a cancel request and a worker
// actually stopping short enough to stay interactive.
const chunkSize = 1024

// Engine runs searches against a database.Database. The zero Engine is
// usable; NewEngine only exists to let a caller fix the worker count.
type Engine struct {
	threads int

	mu          sync.Mutex
	generation  uint64
	activeToken *CancelToken
}

// NewEngine returns an Engine with threads workers. threads <= 0 means
// runtime.GOMAXPROCS(0) workers.
func NewEngine(threads int) *Engine {
	return &Engine{threads: threads}
}

// Search evaluates m over every entry in db, calling onHit once per match
// in increasing entry-id order. onHit returning false stops delivery
// early without cancelling the underlying scan result (the scan has
// already completed by the time onHit is called).
//
// token may be nil, in which case Search creates one. Either way Search
// returns the token it ran under once it has finished, so the caller can
// tell whether that search was cancelled; to cancel a search from another
// goroutine while it runs, pass a token in.
// Starting a new Search on the same Engine implicitly cancels whatever
// token was active from a previous call, since only the most recent
// query's keystroke is worth finishing.
func (e *Engine) Search(ctx context.Context, db *database.Database, m *matcher.Matcher, token *CancelToken, maxHits int, onHit func(id int32) bool) (*CancelToken, error) {
	if token == nil {
		token = NewCancelToken()
	}

	e.mu.Lock()
	e.generation++
	if e.activeToken != nil {
		e.activeToken.Cancel()
	}
	e.activeToken = token
	e.mu.Unlock()

	if maxHits == 0 {
		token.Cancel()
		return token, nil
	}
	if token.Cancelled() {
		return token, nil
	}

	entries := db.Entries()
	n := len(entries)
	if n == 0 {
		return token, nil
	}

	threads := e.threads
	if threads <= 0 {
		threads = runtime.GOMAXPROCS(0)
	}
	if threads > n {
		threads = n
	}

	partitionSize := (n + threads - 1) / threads
	bitmaps := make([]*roaring.Bitmap, threads)

	// found lets every partition see how many hits have already turned
	// up across all the others. Once that shared total reaches maxHits,
	// the remaining partitions stop scanning instead of running to
	// completion only to have their extra hits discarded at delivery
	// time below.
	var found atomic.Int64

	p := pool.New().WithMaxGoroutines(threads).WithContext(ctx)
	for w := 0; w < threads; w++ {
		w := w
		start := w * partitionSize
		end := start + partitionSize
		if end > n {
			end = n
		}
		if start >= end {
			bitmaps[w] = roaring.New()
			continue
		}

		p.Go(func(ctx context.Context) error {
			bm := roaring.New()
			bitmaps[w] = bm
			for id := start; id < end; id++ {
				if (id-start)%chunkSize == 0 {
					select {
					case <-ctx.Done():
						return ctx.Err()
					default:
					}
					if token.Cancelled() {
						return nil
					}
					if maxHits != Unbounded && found.Load() >= int64(maxHits) {
						return nil
					}
				}
				if matchEntry(db, m, int32(id)) {
					bm.Add(uint32(id))
					if maxHits != Unbounded {
						found.Add(1)
					}
				}
			}
			return nil
		})
	}

	if err := p.Wait(); err != nil {
		return token, nil
	}

	merged := roaring.New()
	for _, bm := range bitmaps {
		if bm != nil {
			merged.Or(bm)
		}
	}

	delivered := 0
	it := merged.Iterator()
	for it.HasNext() {
		if maxHits != Unbounded && delivered >= maxHits {
			break
		}
		if token.Cancelled() {
			break
		}
		id := int32(it.Next())
		if !onHit(id) {
			break
		}
		delivered++
	}

	return token, nil
}

func matchEntry(db *database.Database, m *matcher.Matcher, id int32) bool {
	e, ok := db.Entry(id)
	if !ok {
		return false
	}
	if m.MatchesFullPath() {
		path, ok := db.PathOf(id)
		if !ok {
			return false
		}
		return m.IsMatch(path)
	}

	// Literal case-insensitive queries test a precomputed folded name
	// instead of asking the regex engine to fold the candidate on every
	// call. Anything else — regex queries, or a database built without
	// CaseFold — falls back to IsMatch.
	if m.IsLiteralSubstring() && m.CaseInsensitive() && db.FoldEnabled() {
		if fold := db.Interner().FoldInterner(); fold != nil {
			if name, ok := fold.Resolve(e.FoldID); ok {
				return strings.Contains(name, m.FoldedLiteral())
			}
		}
	}

	name, ok := db.Interner().Resolve(e.NameID)
	if !ok {
		return false
	}
	return m.IsMatch(name)
}
