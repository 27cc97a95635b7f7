//go:build linux || freebsd || netbsd || openbsd

package crawler

import (
	"os"
	"syscall"
	"time"

	"github.com/wildflower-tools/indexa/database"
)

// collectAttributes fills the Attributes row selected by flags from info.
// ctime here is whatever syscall.Stat_t.Ctim exposes on the host — inode
// change time on Linux, not a creation time. That host-defined meaning is
// recorded as-is rather than normalized to a creation time; see
// DESIGN.md.
func collectAttributes(info os.FileInfo, flags database.AttrFlags) database.Attributes {
	var a database.Attributes
	if flags.Has(database.AttrSize) {
		a.Size = info.Size()
	}
	if flags.Has(database.AttrModTime) {
		a.ModTime = info.ModTime()
	}
	if flags.Has(database.AttrMode) {
		a.Mode = uint32(info.Mode())
	}
	if flags.Has(database.AttrCreatedAt) || flags.Has(database.AttrAccessedAt) {
		if st, ok := info.Sys().(*syscall.Stat_t); ok {
			if flags.Has(database.AttrCreatedAt) {
				a.CreatedAt = time.Unix(st.Ctim.Sec, st.Ctim.Nsec)
			}
			if flags.Has(database.AttrAccessedAt) {
				a.AccessedAt = time.Unix(st.Atim.Sec, st.Atim.Nsec)
			}
		}
	}
	return a
}
