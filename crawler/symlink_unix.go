//go:build !windows

package crawler

import (
	"fmt"
	"os"
	"syscall"
)

// deviceInode identifies a physical directory independent of the path
// used to reach it, which is what cycle detection needs: a symlink loop
// revisits the same (device, inode) pair under a different path.
type deviceInode struct {
	Dev uint64
	Ino uint64
}

func statIdentity(path string) (deviceInode, error) {
	info, err := os.Stat(path)
	if err != nil {
		return deviceInode{}, err
	}
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return deviceInode{}, fmt.Errorf("stat_t unavailable for %s", path)
	}
	return deviceInode{Dev: uint64(st.Dev), Ino: st.Ino}, nil
}
