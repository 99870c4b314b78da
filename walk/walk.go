// walk.go - parallel glob-matching directory walker
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

// Package walk implements the traversal engine: it compiles a pattern
// set (package github.com/sherle/globwalk/glob), seeds a pending
// queue from the patterns' literal prefixes, and descends the tree in
// batches of bounded concurrency, pruning subtrees no include pattern
// can ever select and deduplicating by canonical (device, inode)
// identity. Results stream out on a channel as they're found, rather
// than being collected into a slice, so a caller sees the first match
// long before a large tree finishes scanning.
package walk

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	gw "github.com/sherle/globwalk"
	"github.com/sherle/globwalk/glob"
	"github.com/opencoff/go-logger"
	"github.com/puzpuzpuz/xsync/v3"
)

// Options configures a Walker's concurrency, filesystem-crossing
// policy, and logging.
type Options struct {
	// Concurrency bounds the number of directories scanned at once
	// within a batch. Zero selects max(4, runtime.NumCPU()*2).
	Concurrency int

	// ChannelCapacity bounds the result stream's buffering. Zero
	// selects a default of 256.
	ChannelCapacity int

	// OneFS restricts the walk to the root's own file system; entries
	// on a different device are pruned rather than descended into.
	// Requesting this on a platform without a usable device id
	// (see gw.OneFSSupported) fails construction with Unsupported
	// rather than silently ignoring the request.
	OneFS bool

	// Logger receives debug-level traversal tracing. Nil installs a
	// quiet default that only logs at LOG_ERR and above.
	Logger logger.Logger
}

func (o *Options) setDefaults() error {
	if o.Concurrency <= 0 {
		o.Concurrency = max(4, runtime.NumCPU()*2)
	}
	if o.ChannelCapacity <= 0 {
		o.ChannelCapacity = 256
	}
	if o.Logger == nil {
		l, err := logger.NewLogger("STDOUT", logger.LOG_ERR, "globwalk",
			logger.Ldate|logger.Ltime|logger.Lmicroseconds)
		if err != nil {
			return err
		}
		o.Logger = l
	}
	return nil
}

// Walker streams filesystem entries matching a compiled pattern set.
// It starts its producer goroutine at construction; callers consume
// results via Next or Results until both are exhausted.
type Walker struct {
	root  string
	rules *glob.RuleSet
	opt   Options

	oneFS   bool
	rootDev uint64

	out chan Result

	deadline atomic.Int64 // UnixNano; 0 means unset

	visited *xsync.MapOf[gw.Identity, struct{}]
	seen    *xsync.MapOf[gw.Identity, struct{}]

	deferredErr atomic.Pointer[WalkError]

	done      chan struct{}
	closeOnce sync.Once
}

// New compiles patterns against cwd and starts walking. cwd need not
// be the process's actual working directory - it is simply the root
// relative patterns are resolved against and the starting point of the
// traversal.
func New(patterns []string, cwd string, opts ...Options) (*Walker, error) {
	var opt Options
	if len(opts) > 0 {
		opt = opts[0]
	}
	if err := opt.setDefaults(); err != nil {
		return nil, ioError(cwd, err)
	}

	root, err := filepath.Abs(cwd)
	if err != nil {
		return nil, ioError(cwd, err)
	}
	root = filepath.Clean(root)

	rules, err := glob.CompileAll(patterns, root)
	if err != nil {
		return nil, invalidInputFrom(err)
	}

	w := &Walker{
		root:    root,
		rules:   rules,
		opt:     opt,
		oneFS:   opt.OneFS,
		out:     make(chan Result, opt.ChannelCapacity),
		visited: xsync.NewMapOf[gw.Identity, struct{}](),
		seen:    xsync.NewMapOf[gw.Identity, struct{}](),
		done:    make(chan struct{}),
	}

	if opt.OneFS {
		if !gw.OneFSSupported {
			return nil, unsupportedErr("one-filesystem traversal", root)
		}
		rootEntry, err := gw.Stat(root)
		if err != nil {
			return nil, ioError(root, err)
		}
		w.rootDev = rootEntry.Dev
	}

	go w.run()
	return w, nil
}

// SetDeadline installs an absolute instant past which the walk reports
// TimedOut and closes its stream. A Walker holds one deadline; a later
// call replaces the earlier one.
func (w *Walker) SetDeadline(t time.Time) {
	w.deadline.Store(t.UnixNano())
}

func (w *Walker) deadlineExpired() bool {
	d := w.deadline.Load()
	return d != 0 && time.Now().UnixNano() >= d
}

// Next returns the next matched entry, or (nil, nil) when the walk is
// exhausted, or (nil, err) when the walk ended in error.
func (w *Walker) Next() (*WalkEvent, error) {
	if w.deadlineExpired() {
		w.Close()
		return nil, errTimedOut
	}
	r, ok := <-w.out
	if !ok {
		return nil, nil
	}
	if r.Err != nil {
		return nil, r.Err
	}
	return r.Event, nil
}

// Results exposes the walker as a stream, for callers that prefer to
// range over a channel rather than poll Next.
func (w *Walker) Results() <-chan Result {
	return w.out
}

// Close signals the walker to stop producing results as soon as
// possible, as though the consumer had dropped the receiving end of
// the stream. It is safe to call more than once.
func (w *Walker) Close() {
	w.closeOnce.Do(func() { close(w.done) })
}

// run is the sole orchestrator goroutine: it drains the pending queue
// in batches, scanning every directory in a batch concurrently
// (bounded by opt.Concurrency) before moving to the next.
func (w *Walker) run() {
	defer close(w.out)

	pending := seedTasks(w.root, w.rules)
	w.opt.Logger.Debug("globwalk: root %s: %d seed directories", w.root, len(pending))
	for _, t := range pending {
		w.markVisited(t.absPath)
	}

	for len(pending) > 0 {
		if w.deadlineExpired() {
			w.opt.Logger.Debug("globwalk: deadline reached with %d directories still pending", len(pending))
			w.sendTimedOut()
			return
		}

		var mu sync.Mutex
		var next []directoryTask

		pool := gw.NewWorkPool[directoryTask](w.opt.Concurrency, func(_ int, task directoryTask) error {
			children := w.scanDirectory(task)
			if len(children) > 0 {
				mu.Lock()
				next = append(next, children...)
				mu.Unlock()
			}
			return nil
		})
		for _, t := range pending {
			pool.Submit(t)
		}
		pool.Close()
		if err := pool.Wait(); err != nil {
			// A scan worker panicked - a join failure, which spec
			// classifies as fatal: surface it immediately and close
			// the stream, rather than deferring it like an ordinary
			// per-directory I/O error.
			w.opt.Logger.Debug("globwalk: scan task join failure: %s", err)
			w.publishFatal(ioError(w.root, err))
			return
		}

		select {
		case <-w.done:
			return
		default:
		}

		pending = next
	}

	// A deadline that expired while the last batch was scanning cut
	// that scan short; report it rather than closing as a clean end.
	if w.deadlineExpired() {
		w.opt.Logger.Debug("globwalk: deadline reached during the final batch")
		w.sendTimedOut()
		return
	}

	if errp := w.deferredErr.Load(); errp != nil {
		w.opt.Logger.Debug("globwalk: surfacing deferred error after queue drain: %s", errp)
		select {
		case w.out <- Result{Err: errp}:
		case <-w.done:
		}
	}
}

func (w *Walker) markVisited(absPath string) {
	e, err := gw.Stat(absPath)
	if err != nil {
		return
	}
	w.visited.Store(e.Identity(), struct{}{})
}

// scanDirectory reads one directory, classifies each entry, publishes
// terminal file matches, and returns the subdirectories that should be
// scanned in the next batch. Directories are never matched/emitted
// themselves - only could_match_subtree gates whether they're
// descended into - matching spec scenario 1, where a bare "**" over a
// tree of files and directories yields one event per file, never one
// for the directories that merely contain them.
func (w *Walker) scanDirectory(task directoryTask) []directoryTask {
	entries, err := os.ReadDir(task.absPath)
	if err != nil {
		if isRecoverable(err) {
			w.opt.Logger.Debug("globwalk: skipping unreadable directory %s: %s", task.absPath, err)
			return nil
		}
		w.deferError(ioError(task.absPath, err))
		return nil
	}

	var children []directoryTask
	for _, de := range entries {
		if w.deadlineExpired() {
			return children
		}

		name := de.Name()
		childAbs := filepath.Join(task.absPath, name)
		childRel := name
		if task.relPath != "" {
			childRel = task.relPath + "/" + name
		}

		kind, entry, err := w.classify(childAbs, de)
		if err != nil {
			if isRecoverable(err) {
				continue
			}
			w.deferError(ioError(childAbs, err))
			continue
		}
		if kind == Other {
			continue
		}
		if w.oneFS && entry.Dev != w.rootDev {
			continue
		}

		switch kind {
		case Dir:
			if !w.rules.CouldMatchSubtree(childRel) {
				continue
			}
			if _, loaded := w.visited.LoadOrStore(entry.Identity(), struct{}{}); loaded {
				continue
			}
			children = append(children, directoryTask{absPath: childAbs, relPath: childRel})

		case File:
			if !w.rules.Matches(childRel) {
				continue
			}
			if !w.tryEmit(entry.Identity()) {
				continue
			}
			if !w.publish(WalkEvent{AbsPath: childAbs, RelPath: childRel, Kind: File}) {
				return children
			}
		}
	}
	return children
}

// tryEmit reports whether id has not been seen before, recording it as
// seen in the same step - the single LoadOrStore that makes
// duplicate-alias suppression race-free across concurrent scans.
func (w *Walker) tryEmit(id gw.Identity) bool {
	_, loaded := w.seen.LoadOrStore(id, struct{}{})
	return !loaded
}

// classify obtains entry metadata and maps it to a Kind, following a
// symlink to its target once (and reporting the target's identity so
// dedup is keyed on the real file, not the link). A broken symlink is
// reported as Other with no error - it is silently skipped, never
// fatal.
func (w *Walker) classify(absPath string, de os.DirEntry) (Kind, *gw.Entry, error) {
	typ := de.Type()
	switch {
	case typ&os.ModeSymlink != 0:
		target, err := gw.Stat(absPath)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return Other, nil, nil
			}
			return Other, nil, err
		}
		if target.IsDir() {
			return Dir, target, nil
		}
		return File, target, nil

	case typ.IsDir():
		e, err := gw.Lstat(absPath)
		if err != nil {
			return Other, nil, err
		}
		return Dir, e, nil

	case typ.IsRegular():
		e, err := gw.Lstat(absPath)
		if err != nil {
			return Other, nil, err
		}
		return File, e, nil

	default:
		return Other, nil, nil
	}
}

// publish delivers ev on the result stream, honoring an early Close
// as a cancellation signal. It reports false when the walk should stop.
func (w *Walker) publish(ev WalkEvent) bool {
	select {
	case w.out <- Result{Event: &ev}:
		return true
	case <-w.done:
		return false
	}
}

// deferError records e as the walk's single deferred error, if none is
// already recorded. Subsequent calls are dropped - single-writer-wins.
func (w *Walker) deferError(e *WalkError) {
	w.deferredErr.CompareAndSwap(nil, e)
}

func (w *Walker) sendTimedOut() {
	w.publishFatal(errTimedOut)
}

// publishFatal delivers e as the walk's final result and closes the
// stream - used for failures spec classifies as fatal (deadline
// expiry, scan task join failure), as opposed to the single deferred
// slot used for ordinary per-directory I/O errors that shouldn't halt
// an in-flight drain.
func (w *Walker) publishFatal(e *WalkError) {
	select {
	case w.out <- Result{Err: e}:
	case <-w.done:
	}
}
