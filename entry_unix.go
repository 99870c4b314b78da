// entry_unix.go -- syscall.Stat_t to Entry, for unix-ish platforms
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

//go:build unix

package globwalk

import (
	"io/fs"
	"time"

	"golang.org/x/sys/unix"
)

// Statm populates fi with nm's metadata, following symlinks.
func Statm(nm string, fi *Entry) error {
	var st unix.Stat_t
	if err := unix.Stat(nm, &st); err != nil {
		return &PathError{Op: "stat", Path: nm, Err: err}
	}
	makeEntry(fi, nm, &st)
	return nil
}

// Lstatm populates fi with nm's own metadata, not following a final symlink.
func Lstatm(nm string, fi *Entry) error {
	var st unix.Stat_t
	if err := unix.Lstat(nm, &st); err != nil {
		return &PathError{Op: "lstat", Path: nm, Err: err}
	}
	makeEntry(fi, nm, &st)
	return nil
}

func makeEntry(fi *Entry, nm string, st *unix.Stat_t) {
	*fi = Entry{
		Ino:  st.Ino,
		Siz:  st.Size,
		Dev:  uint64(st.Dev),
		Rdev: uint64(st.Rdev),

		Mod:   fs.FileMode(st.Mode & 0777),
		Nlink: uint32(st.Nlink),

		Mtim: time.Unix(st.Mtim.Sec, st.Mtim.Nsec),

		path: nm,
	}

	switch st.Mode & unix.S_IFMT {
	case unix.S_IFBLK:
		fi.Mod |= fs.ModeDevice
	case unix.S_IFCHR:
		fi.Mod |= fs.ModeDevice | fs.ModeCharDevice
	case unix.S_IFDIR:
		fi.Mod |= fs.ModeDir
	case unix.S_IFIFO:
		fi.Mod |= fs.ModeNamedPipe
	case unix.S_IFLNK:
		fi.Mod |= fs.ModeSymlink
	case unix.S_IFREG:
		// nothing to do
	case unix.S_IFSOCK:
		fi.Mod |= fs.ModeSocket
	}
	if st.Mode&unix.S_ISGID != 0 {
		fi.Mod |= fs.ModeSetgid
	}
	if st.Mode&unix.S_ISUID != 0 {
		fi.Mod |= fs.ModeSetuid
	}
	if st.Mode&unix.S_ISVTX != 0 {
		fi.Mod |= fs.ModeSticky
	}
}

// sameFS returns true if a and b live on the same mounted file system.
func sameFS(a, b *Entry) bool {
	return a.Dev == b.Dev
}

// OneFSSupported reports whether this platform can detect a mount
// point crossing during traversal (it can, via st_dev).
const OneFSSupported = true
