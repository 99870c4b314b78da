// nfa.go - segment-by-segment NFA state advance for compiled glob programs
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

package glob

import "path"

// SegKind identifies the kind of a single compiled path segment.
type SegKind int

const (
	// SegLiteral consumes exactly one path component equal to Text.
	SegLiteral SegKind = iota

	// SegWildcard consumes exactly one path component matching the
	// single-component glob in Text ('*' and '?', never crossing '/').
	SegWildcard

	// SegDescend consumes zero or more path components. Consecutive
	// '**' segments are collapsed into a single SegDescend at compile
	// time, so a program never contains two in a row.
	SegDescend
)

// Segment is one element of a compiled pattern's segment program.
type Segment struct {
	Kind SegKind
	Text string
}

// state is the set of segment-indices reachable after consuming some
// prefix of path components. Index len(segs) denotes "pattern fully
// consumed" (the accepting position).
type state map[int]struct{}

func newState(segs []Segment) state {
	s := state{0: struct{}{}}
	return epsilonClosure(segs, s)
}

// epsilonClosure expands a state by following Descend's zero-width
// transition: being at a Descend segment also means being at the
// segment after it, without consuming anything.
func epsilonClosure(segs []Segment, in state) state {
	out := make(state, len(in))
	for i := range in {
		out[i] = struct{}{}
	}
	for changed := true; changed; {
		changed = false
		for i := range out {
			if i < len(segs) && segs[i].Kind == SegDescend {
				if _, ok := out[i+1]; !ok {
					out[i+1] = struct{}{}
					changed = true
				}
			}
		}
	}
	return out
}

// advance consumes one path component, returning the new state. A
// Descend segment both re-admits itself (it can swallow any number of
// components) and, via the epsilon closure above, lets the segment
// that follows it try to match the same component.
func advance(segs []Segment, cur state, component string) state {
	closed := epsilonClosure(segs, cur)
	next := make(state)
	for i := range closed {
		if i >= len(segs) {
			continue
		}
		seg := segs[i]
		switch seg.Kind {
		case SegDescend:
			next[i] = struct{}{}
		case SegLiteral:
			if component == seg.Text {
				next[i+1] = struct{}{}
			}
		case SegWildcard:
			if matchComponent(seg.Text, component) {
				next[i+1] = struct{}{}
			}
		}
	}
	return epsilonClosure(segs, next)
}

// accepts reports whether the fully-consumed position is reachable
// from cur without consuming any further component.
func accepts(segs []Segment, cur state) bool {
	closed := epsilonClosure(segs, cur)
	_, ok := closed[len(segs)]
	return ok
}

// matchesPath runs the whole program against a '/'-joined relative
// path, one component at a time, and reports whether it accepts. This
// walks the NFA forward exactly once per component - no backtracking
// over the path as a whole - which is what keeps matching cheap even
// for patterns with several wildcard segments.
func matchesPath(segs []Segment, relPath string) bool {
	st := newState(segs)
	if relPath == "" {
		return accepts(segs, st)
	}
	start := 0
	for i := 0; i <= len(relPath); i++ {
		if i == len(relPath) || relPath[i] == '/' {
			st = advance(segs, st, relPath[start:i])
			if len(st) == 0 {
				return false
			}
			start = i + 1
		}
	}
	return accepts(segs, st)
}

// matchComponent matches a single path component (never containing a
// '/') against a single-component glob pattern.
func matchComponent(pattern, component string) bool {
	ok, err := path.Match(pattern, component)
	return err == nil && ok
}
