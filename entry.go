// entry.go - normalized file system entry metadata used for canonical identity
//
// (c) 2022- Sudhi Herle <sudhi@herle.net>
//
// Licensing Terms: GPLv2
//
// If you need a commercial license for this work, please contact
// the author.
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim  is made to its
// suitability for any purpose.

// Package globwalk implements a parallel glob-matching file system walker.
// Patterns compile into a small segment-by-segment matcher (package
// github.com/sherle/globwalk/glob); the walker in package
// github.com/sherle/globwalk/walk descends a directory tree with bounded
// concurrency, pruning subtrees the pattern set can never match and
// de-duplicating entries by canonical (device, inode) identity.
package globwalk

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"time"
)

// Entry is a normalized view of a file system entry's metadata. It satisfies
// fs.FileInfo and additionally carries the raw (device, inode) pair that the
// walker uses as a dedup key - two entries with the same (Dev, Ino) are the
// same file, regardless of how many names point at it.
type Entry struct {
	Ino  uint64
	Dev  uint64
	Rdev uint64
	Siz  int64

	Mod   fs.FileMode
	Nlink uint32

	Mtim time.Time

	path string

	// canon is the resolved canonical path, populated only on
	// platforms without a usable (device, inode) pair (see
	// entry_other.go's makeEntryFromOS). It backs Identity there
	// instead of Dev/Ino, which stay zero.
	canon string
}

var _ fs.FileInfo = &Entry{}

// Stat is like os.Stat but returns an Entry with identity fields populated.
func Stat(nm string) (*Entry, error) {
	var e Entry
	if err := Statm(nm, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// Lstat is like os.Lstat but returns an Entry with identity fields populated.
// The symlink itself is described, not its target.
func Lstat(nm string) (*Entry, error) {
	var e Entry
	if err := Lstatm(nm, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// Name returns the basename of the entry.
func (e *Entry) Name() string {
	return filepath.Base(e.path)
}

// Path returns the path this Entry was resolved from.
func (e *Entry) Path() string {
	return e.path
}

// SetPath overrides the path recorded on this entry.
func (e *Entry) SetPath(p string) {
	e.path = p
}

// Size returns the entry's size in bytes.
func (e *Entry) Size() int64 {
	return e.Siz
}

// Mode returns the file mode bits.
func (e *Entry) Mode() fs.FileMode {
	return e.Mod
}

// ModTime returns the entry's modification time.
func (e *Entry) ModTime() time.Time {
	return e.Mtim
}

// IsDir returns true if this entry is a directory.
func (e *Entry) IsDir() bool {
	return e.Mod.IsDir()
}

// IsRegular returns true if this entry is a regular file.
func (e *Entry) IsRegular() bool {
	return e.Mod.IsRegular()
}

// IsSymlink returns true if this entry (as lstat'd) is a symlink.
func (e *Entry) IsSymlink() bool {
	return e.Mod&fs.ModeSymlink != 0
}

// Identity is the canonical dedup key for an entry: its (device, inode)
// pair where the platform supports it, or its resolved canonical path
// where it doesn't (see entry_other.go). Two entries with equal
// Identity values are the same underlying file, however many paths
// reach it.
type Identity struct {
	Dev  uint64
	Ino  uint64
	Path string
}

// Identity returns the canonical dedup key for this entry. On
// platforms with a usable (device, inode) pair that pair is the key;
// Path stays empty. Elsewhere Dev and Ino are always zero and Path -
// the entry's resolved canonical path - carries the key instead, so
// two zero-valued Entry.Dev/Ino never collapse distinct files into one
// dedup bucket.
func (e *Entry) Identity() Identity {
	if e.Dev != 0 || e.Ino != 0 {
		return Identity{Dev: e.Dev, Ino: e.Ino}
	}
	return Identity{Path: e.canon}
}

// Sys returns the Entry itself, mirroring fs.FileInfo convention.
func (e *Entry) Sys() any {
	return e
}

// String is a debug representation of an Entry.
func (e *Entry) String() string {
	return fmt.Sprintf("%s: %d bytes; dev/ino %d:%d; %s", e.path, e.Siz, e.Dev, e.Ino, e.Mod)
}
