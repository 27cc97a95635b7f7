// Package crawler implements a parallel directory walker that
// produces a database.Database from a set of root paths, subject to
// hidden-file, symlink, filesystem-boundary, and gitignore-style
// exclusion rules.
//
// The traversal shape follows the teacher's
// vvfs/filesystem.ConcurrentTraverser: a conc/pool.ContextPool processes
// one tree level at a time, so a bounded worker count never has to block
// submitting its own children's jobs back into the same pool.
package crawler

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"sync/atomic"

	ignore "github.com/sabhiram/go-gitignore"
	"github.com/sourcegraph/conc/pool"

	"github.com/wildflower-tools/indexa/database"
	"github.com/wildflower-tools/indexa/indexalog"
	"github.com/wildflower-tools/indexa/interner"
)

// Crawler runs one build against a Config, producing a Database and a
// list of non-fatal Warnings.
type Crawler struct {
	cfg     Config
	ignores *ignore.GitIgnore

	visitedMu sync.Mutex
	visited   map[deviceInode]bool // physical directories already entered, only tracked when FollowSymlinks is set

	warnMu   sync.Mutex
	warnings []Warning

	dirsOpened int64 // atomic count of directories successfully opened, across every level
}

// New constructs a Crawler from cfg. Exclude patterns and an exclude file,
// if configured, are compiled once up front the way the teacher compiles
// its desktop-cleaner-ignore file per directory — here it is compiled
// once and shared read-only across workers since patterns never vary per
// directory.
func New(cfg Config) (*Crawler, error) {
	lines := append([]string{}, cfg.ExcludePatterns...)
	if cfg.ExcludeFile != "" {
		contents, err := os.ReadFile(cfg.ExcludeFile)
		if err != nil {
			return nil, fmt.Errorf("indexa: crawler: read exclude file: %w", err)
		}
		lines = append(lines, splitLines(string(contents))...)
	}

	var gi *ignore.GitIgnore
	if len(lines) > 0 {
		gi = ignore.CompileIgnoreLines(lines...)
	}

	return &Crawler{
		cfg:     cfg,
		ignores: gi,
		visited: make(map[deviceInode]bool),
	}, nil
}

func splitLines(s string) []string {
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	if start < len(s) {
		out = append(out, s[start:])
	}
	return out
}

// dirJob describes one directory still to be read. ancestors is only
// populated when FollowSymlinks is set; it is copied (never shared) as a
// job descends so sibling branches don't see each other's ancestors.
type dirJob struct {
	path      string
	entryID   int32
	device    uint64
	ancestors map[deviceInode]bool
}

// Build runs the crawl to completion or until ctx is cancelled. It always
// returns whatever warnings it accumulated, even on error.
func (c *Crawler) Build(ctx context.Context) (*database.Database, []Warning, error) {
	roots, rootWarnings := canonicalizeRoots(c.cfg.Roots)
	c.addWarnings(rootWarnings...)
	if len(roots) == 0 {
		return nil, c.warnings, ErrEmptyRootsAfterFiltering
	}

	in := interner.New()
	builder := database.NewBuilder(in, c.cfg.Attributes, c.cfg.CaseFold)

	rootEntries := make([]database.Entry, len(roots))
	for i, r := range roots {
		nameID := in.Intern(filepath.Base(r))
		var foldID interner.Handle
		if c.cfg.CaseFold {
			foldID = in.Fold(nameID)
		}
		rootEntries[i] = database.Entry{
			NameID: nameID,
			FoldID: foldID,
			Parent: database.NoParent,
			IsDir:  true,
			AttrID: database.NoAttributes,
		}
	}
	rootStart := builder.Commit(rootEntries, nil)

	descriptors := make([]database.RootDescriptor, len(roots))
	currentLevel := make([]dirJob, len(roots))
	for i, r := range roots {
		id := rootStart + int32(i)
		descriptors[i] = database.RootDescriptor{Path: r, EntryID: id}

		var dev uint64
		var ancestors map[deviceInode]bool
		if ident, err := statIdentity(r); err == nil {
			dev = ident.Dev
			if c.cfg.FollowSymlinks {
				ancestors = map[deviceInode]bool{ident: true}
				c.markVisited(ident)
			}
		}
		currentLevel[i] = dirJob{path: r, entryID: id, device: dev, ancestors: ancestors}
	}

	threads := c.cfg.resolvedThreads()
	for len(currentLevel) > 0 {
		levelPool := pool.New().WithMaxGoroutines(threads).WithContext(ctx)
		var nextMu sync.Mutex
		var next []dirJob

		for _, job := range currentLevel {
			job := job
			levelPool.Go(func(ctx context.Context) error {
				select {
				case <-ctx.Done():
					return ctx.Err()
				default:
				}
				children := c.processDirectory(job, in, builder)
				if len(children) > 0 {
					nextMu.Lock()
					next = append(next, children...)
					nextMu.Unlock()
				}
				return nil
			})
		}

		if err := levelPool.Wait(); err != nil {
			return nil, c.warnings, err
		}
		currentLevel = next
	}

	if atomic.LoadInt64(&c.dirsOpened) == 0 {
		return nil, c.warnings, ErrNoReadableRoots
	}

	db := builder.Finish(descriptors)
	return db, c.warnings, nil
}

// processDirectory reads one directory, reserves and commits its children
// in sorted-basename order, and returns the subset of children that are
// directories the caller should enqueue for the next level.
func (c *Crawler) processDirectory(job dirJob, in *interner.Interner, builder *database.Builder) []dirJob {
	entries, err := os.ReadDir(job.path)
	if err != nil {
		c.addWarnings(Warning{Path: job.path, Cause: fmt.Errorf("open directory: %w", err)})
		return nil
	}
	atomic.AddInt64(&c.dirsOpened, 1)

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	children := make([]database.Entry, 0, len(entries))
	childAttrs := make([]database.Attributes, 0, len(entries))
	childPaths := make([]string, 0, len(entries))

	for _, de := range entries {
		name := de.Name()
		if c.cfg.IgnoreHidden && len(name) > 0 && name[0] == '.' {
			continue
		}
		childPath := filepath.Join(job.path, name)
		if c.ignores != nil && c.ignores.MatchesPath(childPath) {
			continue
		}

		info, err := de.Info()
		if err != nil {
			c.addWarnings(Warning{Path: childPath, Cause: fmt.Errorf("stat entry: %w", err)})
			continue
		}

		isDir := de.IsDir()
		isSymlink := info.Mode()&os.ModeSymlink != 0

		if isSymlink {
			if !c.cfg.FollowSymlinks {
				continue
			}
			target, err := os.Stat(childPath) // follows the symlink
			if err != nil {
				c.addWarnings(Warning{Path: childPath, Cause: fmt.Errorf("resolve symlink: %w", err)})
				continue
			}
			isDir = target.IsDir()
		}

		attrID := database.NoAttributes
		if c.cfg.Attributes != 0 {
			attrID = int32(len(childAttrs))
			childAttrs = append(childAttrs, collectAttributes(info, c.cfg.Attributes))
		}

		nameID := in.Intern(name)
		var foldID interner.Handle
		if c.cfg.CaseFold {
			foldID = in.Fold(nameID)
		}
		entry := database.Entry{
			NameID: nameID,
			FoldID: foldID,
			Parent: job.entryID,
			IsDir:  isDir,
			AttrID: attrID,
		}
		children = append(children, entry)
		childPaths = append(childPaths, childPath)
	}

	start := builder.Commit(children, childAttrs)
	builder.SetChildRange(job.entryID, start, int32(len(children)))

	var next []dirJob
	for i, e := range children {
		if !e.IsDir {
			continue
		}
		childID := start + int32(i)
		childPath := childPaths[i]

		ident, statErr := statIdentity(childPath)

		if c.cfg.StayOnFilesystem && statErr == nil && ident.Dev != job.device && job.device != 0 {
			continue
		}

		ancestors := job.ancestors
		if c.cfg.FollowSymlinks {
			if statErr == nil {
				if job.ancestors[ident] {
					c.addWarnings(Warning{Path: childPath, Cause: fmt.Errorf("symlink cycle detected")})
					continue
				}
				c.visitedMu.Lock()
				alreadyVisited := c.visited[ident]
				if !alreadyVisited {
					c.visited[ident] = true
				}
				c.visitedMu.Unlock()
				if alreadyVisited {
					continue
				}
				ancestors = make(map[deviceInode]bool, len(job.ancestors)+1)
				for k := range job.ancestors {
					ancestors[k] = true
				}
				ancestors[ident] = true
			}
		}

		var dev uint64
		if statErr == nil {
			dev = ident.Dev
		}

		next = append(next, dirJob{path: childPath, entryID: childID, device: dev, ancestors: ancestors})
	}

	return next
}

func (c *Crawler) addWarnings(ws ...Warning) {
	if len(ws) == 0 {
		return
	}
	c.warnMu.Lock()
	c.warnings = append(c.warnings, ws...)
	c.warnMu.Unlock()
	logger := indexalog.Logger()
	for _, w := range ws {
		logger.Warn().Str("path", w.Path).Err(w.Cause).Msg("indexa: crawler warning")
	}
}

func (c *Crawler) markVisited(id deviceInode) {
	c.visitedMu.Lock()
	c.visited[id] = true
	c.visitedMu.Unlock()
}
