// Package indexalog provides the structured logger shared by the crawler
// and the persistence layer. It wraps zerolog the same way the
// teacher's vvfs.GetLogger does, with a package-level default that callers
// may replace wholesale (tests, embedding applications with their own sink).
package indexalog

import (
	"os"
	"sync"

	"github.com/rs/zerolog"
)

var (
	mu     sync.RWMutex
	logger = New(os.Stderr)
)

// New returns a fresh zerolog.Logger writing to w with a timestamp field,
// matching the teacher's vvfs.GetLogger construction.
func New(w *os.File) zerolog.Logger {
	return zerolog.New(w).With().Timestamp().Logger()
}

// Logger returns the current package-level logger.
func Logger() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// SetLogger replaces the package-level logger. Intended for callers that
// want to route indexa's diagnostics into their own logging pipeline.
func SetLogger(l zerolog.Logger) {
	mu.Lock()
	defer mu.Unlock()
	logger = l
}
