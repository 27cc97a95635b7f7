//go:build windows

package crawler

import (
	"os"
	"path/filepath"
)

// deviceInode identifies a physical directory independent of the path
// used to reach it. Windows os.FileInfo does not expose a volume/file-id
// pair through the standard library, so this falls back to the resolved
// path string itself; it still catches the common case (a symlink that
// points directly back at an ancestor path) but not every possible hard
// link / junction alias of the same physical directory.
type deviceInode struct {
	Path string
}

func statIdentity(path string) (deviceInode, error) {
	resolved, err := os.Stat(path)
	if err != nil {
		return deviceInode{}, err
	}
	_ = resolved
	real, err := filepath.EvalSymlinks(path)
	if err != nil {
		return deviceInode{}, err
	}
	real, err = filepath.Abs(real)
	if err != nil {
		return deviceInode{}, err
	}
	return deviceInode{Path: real}, nil
}
