// entry_other.go -- os.FileInfo to Entry, for platforms without unix stat(2)
//
// (c) 2024- Sudhi Herle <sudhi@herle.net>
//
// Licensing Terms: GPLv2
//
// If you need a commercial license for this work, please contact
// the author.
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim  is made to its
// suitability for any purpose.

//go:build !unix

package globwalk

import (
	"os"
	"path/filepath"
)

// Statm populates fi with nm's metadata, following symlinks. Platforms
// without a unix stat(2) have no (device, inode) pair; fi records the
// canonical absolute path instead, and Identity uses that.
func Statm(nm string, fi *Entry) error {
	st, err := os.Stat(nm)
	if err != nil {
		return &PathError{Op: "stat", Path: nm, Err: err}
	}
	makeEntryFromOS(fi, nm, st)
	return nil
}

// Lstatm populates fi with nm's own metadata, not following a final symlink.
func Lstatm(nm string, fi *Entry) error {
	st, err := os.Lstat(nm)
	if err != nil {
		return &PathError{Op: "lstat", Path: nm, Err: err}
	}
	makeEntryFromOS(fi, nm, st)
	return nil
}

func makeEntryFromOS(fi *Entry, nm string, st os.FileInfo) {
	*fi = Entry{
		Siz:   st.Size(),
		Mod:   st.Mode(),
		Nlink: 1,
		Mtim:  st.ModTime(),
		path:  nm,
		canon: canonicalPath(nm, st),
	}
}

// canonicalPath resolves nm to an absolute, symlink-free path so
// Identity can dedup by path identity in the absence of a (device,
// inode) pair - mirroring the original walker's PathBuf-keyed
// VisitKey on platforms without stat(2). A symlink itself (as seen via
// Lstatm) is left unresolved past Abs: resolving it here would make
// Lstat describe the link's target, not the link.
func canonicalPath(nm string, st os.FileInfo) string {
	abs, err := filepath.Abs(nm)
	if err != nil {
		abs = nm
	}
	if st.Mode()&os.ModeSymlink != 0 {
		return abs
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved
	}
	return abs
}

// sameFS always returns true on platforms without a device id; OneFS mount
// crossing detection degrades to a no-op (Unsupported) there.
func sameFS(a, b *Entry) bool {
	return true
}

// OneFSSupported reports whether this platform can detect a mount
// point crossing during traversal. It cannot here; callers asking for
// one-filesystem traversal get Unsupported instead of a silent no-op.
const OneFSSupported = false
