package interner

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInternDeduplicates(t *testing.T) {
	in := New()

	h1 := in.Intern("Documents")
	h2 := in.Intern("Documents")
	h3 := in.Intern("Downloads")

	assert.Equal(t, h1, h2, "interning the same fragment twice returns the same handle")
	assert.NotEqual(t, h1, h3)
	assert.Equal(t, 2, in.Len())
}

func TestResolveRoundTrips(t *testing.T) {
	in := New()
	h := in.Intern("etc")

	frag, ok := in.Resolve(h)
	require.True(t, ok)
	assert.Equal(t, "etc", frag)

	_, ok = in.Resolve(h + 100)
	assert.False(t, ok, "resolving an unassigned handle reports absent")
}

func TestInternConcurrentInsertion(t *testing.T) {
	in := New()
	const workers = 16
	const perWorker = 200

	var wg sync.WaitGroup
	handles := make([][]Handle, workers)
	for w := 0; w < workers; w++ {
		w := w
		handles[w] = make([]Handle, perWorker)
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				// Every worker interns the same small alphabet so we can
				// assert collisions collapse to one handle each.
				frag := string(rune('a' + i%5))
				handles[w][i] = in.Intern(frag)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 5, in.Len())
	for _, row := range handles {
		for i, h := range row {
			want, ok := in.Resolve(h)
			require.True(t, ok)
			assert.Equal(t, string(rune('a'+i%5)), want)
		}
	}
}

func TestFoldLazilyInternsLowercase(t *testing.T) {
	in := New()
	h := in.Intern("README.TXT")

	fh := in.Fold(h)
	folded, ok := in.FoldInterner().Resolve(fh)
	require.True(t, ok)
	assert.Equal(t, "readme.txt", folded)

	// Folding the same handle again returns the cached folded handle.
	assert.Equal(t, fh, in.Fold(h))
}

func TestWalkPrefix(t *testing.T) {
	in := New()
	in.Intern("main.go")
	in.Intern("main_test.go")
	in.Intern("README.md")

	var seen []string
	in.WalkPrefix("main", func(fragment string, h Handle) bool {
		seen = append(seen, fragment)
		return false
	})

	assert.ElementsMatch(t, []string{"main.go", "main_test.go"}, seen)
}
