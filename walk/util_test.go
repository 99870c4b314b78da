package walk

import (
	"os"
	"path/filepath"
	"testing"
)

// newAsserter returns the hand-rolled assertion closure used
// throughout this module's tests instead of a third-party assertion
// library.
func newAsserter(t *testing.T) func(cond bool, msg string, args ...interface{}) {
	t.Helper()
	return func(cond bool, msg string, args ...interface{}) {
		if !cond {
			t.Fatalf(msg, args...)
		}
	}
}

// rootdir is a disposable directory tree builder for tests.
type rootdir struct {
	t    *testing.T
	base string
}

func newRootdir(t *testing.T) *rootdir {
	t.Helper()
	return &rootdir{t: t, base: t.TempDir()}
}

func (r *rootdir) path(rel string) string {
	return filepath.Join(r.base, filepath.FromSlash(rel))
}

func (r *rootdir) mkdir(rel string) string {
	r.t.Helper()
	p := r.path(rel)
	if err := os.MkdirAll(p, 0755); err != nil {
		r.t.Fatalf("mkdir %s: %s", rel, err)
	}
	return p
}

func (r *rootdir) mkfile(rel string, body string) string {
	r.t.Helper()
	p := r.path(rel)
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		r.t.Fatalf("mkdir for %s: %s", rel, err)
	}
	if err := os.WriteFile(p, []byte(body), 0644); err != nil {
		r.t.Fatalf("mkfile %s: %s", rel, err)
	}
	return p
}

func (r *rootdir) symlink(oldrel, newrel string) string {
	r.t.Helper()
	newp := r.path(newrel)
	if err := os.MkdirAll(filepath.Dir(newp), 0755); err != nil {
		r.t.Fatalf("mkdir for symlink %s: %s", newrel, err)
	}
	oldp := oldrel
	if !filepath.IsAbs(oldrel) {
		oldp = r.path(oldrel)
	}
	if err := os.Symlink(oldp, newp); err != nil {
		r.t.Fatalf("symlink %s -> %s: %s", newrel, oldrel, err)
	}
	return newp
}

// collect drains a Walker to completion, returning the relative paths
// of every emitted event and the terminal error (nil on a clean end).
func collect(t *testing.T, w *Walker) ([]string, error) {
	t.Helper()
	var got []string
	for {
		ev, err := w.Next()
		if err != nil {
			return got, err
		}
		if ev == nil {
			return got, nil
		}
		got = append(got, ev.RelPath)
	}
}

func contains(xs []string, s string) bool {
	for _, x := range xs {
		if x == s {
			return true
		}
	}
	return false
}
