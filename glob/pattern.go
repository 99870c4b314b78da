// pattern.go - glob pattern normalization and compilation
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

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"
)

// MaxPatterns is the largest number of patterns a single RuleSet will
// accept. Beyond this, CompileAll fails fast with InvalidPatternError
// rather than let a caller build an unbounded rule set.
const MaxPatterns = 4096

// MaxPatternLength is the largest accepted length, in bytes, of a
// single raw pattern string (including a leading '!' for excludes).
const MaxPatternLength = 4096

// InvalidPatternError reports a pattern that was rejected at compile
// time: empty input, an empty exclude body, or too many/too long
// patterns.
type InvalidPatternError struct {
	Pattern string
	Reason  string
}

func (e *InvalidPatternError) Error() string {
	if e.Pattern == "" {
		return fmt.Sprintf("glob: invalid pattern: %s", e.Reason)
	}
	return fmt.Sprintf("glob: invalid pattern %q: %s", e.Pattern, e.Reason)
}

// matcherKind tags which of the three representations a Matcher holds.
type matcherKind int

const (
	// kindAnyPath matches any non-empty relative path; it is the
	// compiled form of a bare "**" pattern.
	kindAnyPath matcherKind = iota

	// kindPrefixSuffix is the fast path for "prefix/**/*.suffix" and
	// "**/*.suffix" shaped patterns: a literal prefix check and a
	// literal suffix check, no segment walk required.
	kindPrefixSuffix

	// kindSegments is the general case: a compiled Segment program
	// walked component-by-component through the NFA in nfa.go.
	kindSegments
)

// Matcher is a compiled pattern body (the part after a leading '!' and
// after cwd-resolution/normalization has been applied).
type Matcher struct {
	kind   matcherKind
	prefix string
	suffix string
	segs   []Segment
}

// Matches reports whether relPath (already slash-separated and
// relative to the walk root) satisfies this matcher.
func (m *Matcher) Matches(relPath string) bool {
	switch m.kind {
	case kindAnyPath:
		return relPath != ""
	case kindPrefixSuffix:
		return strings.HasPrefix(relPath, m.prefix) && strings.HasSuffix(relPath, m.suffix)
	default:
		return matchesPath(m.segs, relPath)
	}
}

// Rule is one compiled include or exclude pattern, tagged with its
// position in the original pattern list (ties in last-match-wins
// resolution are broken by this order).
type Rule struct {
	Include       bool
	OriginalIndex int
	Matcher       *Matcher

	// IncludePrefix is the longest literal path prefix this rule's
	// pattern can ever produce a match under, used by could_match_subtree
	// style pruning. It is only meaningful when Include is true; it is
	// the empty string when the pattern has no literal prefix (e.g.
	// starts with a wildcard or "**"), meaning "no constraint - seed at
	// the walk root".
	IncludePrefix string
}

func (r *Rule) matches(relPath string) bool {
	return r.Matcher.Matches(relPath)
}

// buildCwdPrefixes returns the candidate working-directory prefixes an
// absolute pattern is resolved against. Mirrors a single-cwd walk
// root; kept as a slice (rather than a single string) so the pattern
// resolver's prefix-matching loop has one shape regardless of how many
// candidate roots a future caller wants to support.
func buildCwdPrefixes(cwd string) []string {
	return []string{filepath.ToSlash(cwd)}
}

// compile turns one raw pattern string into a Rule. index is the
// pattern's position in the caller's original list; cwdPrefixes comes
// from buildCwdPrefixes.
func compile(index int, raw string, cwdPrefixes []string) (*Rule, error) {
	if len(raw) == 0 {
		return nil, &InvalidPatternError{Reason: "empty pattern"}
	}
	if len(raw) > MaxPatternLength {
		return nil, &InvalidPatternError{Pattern: raw, Reason: "pattern too long"}
	}

	include := true
	body := raw
	if strings.HasPrefix(raw, "!") {
		include = false
		body = raw[1:]
	}
	if len(body) == 0 {
		return nil, &InvalidPatternError{Pattern: raw, Reason: "empty exclude body"}
	}

	resolved := resolveForCwd(body, cwdPrefixes)
	normalized := normalizePattern(resolved)

	m, err := compileMatcher(normalized)
	if err != nil {
		return nil, &InvalidPatternError{Pattern: raw, Reason: err.Error()}
	}

	r := &Rule{
		Include:       include,
		OriginalIndex: index,
		Matcher:       m,
	}
	if include {
		r.IncludePrefix = extractStaticPrefix(normalized)
	}
	return r, nil
}

// resolveForCwd rewrites an absolute pattern body relative to one of
// cwdPrefixes, so a pattern like "/home/u/proj/src/**/*.go" compiled
// while running from "/home/u/proj" becomes "src/**/*.go". A relative
// body is returned unchanged. If none of cwdPrefixes shares a root with
// an absolute body (which in practice only happens if cwdPrefixes is
// empty), the body is kept absolute - it then matches no relative path
// produced by a walk, which is the documented behavior for a pattern
// rooted outside of any known cwd.
func resolveForCwd(body string, cwdPrefixes []string) string {
	if !strings.HasPrefix(body, "/") && !hasWindowsDriveRoot(body) {
		return body
	}
	normalizedBody := strings.ReplaceAll(body, "\\", "/")
	for _, cwd := range cwdPrefixes {
		if normalizedBody == cwd {
			return ""
		}
		withSep := cwd + "/"
		if strings.HasPrefix(normalizedBody, withSep) {
			return strings.TrimPrefix(normalizedBody, withSep)
		}
		return relativeViaCommonAncestor(cwd, normalizedBody)
	}
	return body
}

func hasWindowsDriveRoot(s string) bool {
	return len(s) >= 3 && s[1] == ':' && (s[2] == '/' || s[2] == '\\')
}

// relativeViaCommonAncestor expresses pattern (absolute) relative to
// cwd (absolute) by popping cwd down to their common ancestor with
// ".." and pushing the remainder of pattern back on top. This is what
// lets a pattern like "/home/u/other/*.txt" compiled from
// "/home/u/proj" resolve to "../other/*.txt" instead of staying
// absolute and matching nothing.
func relativeViaCommonAncestor(cwd, pattern string) string {
	cwdParts := splitAbsComponents(cwd)
	patParts := splitAbsComponents(pattern)

	n := 0
	for n < len(cwdParts) && n < len(patParts) && cwdParts[n] == patParts[n] {
		n++
	}

	parts := make([]string, 0, (len(cwdParts)-n)+(len(patParts)-n))
	for range cwdParts[n:] {
		parts = append(parts, "..")
	}
	parts = append(parts, patParts[n:]...)
	return strings.Join(parts, "/")
}

func splitAbsComponents(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

// normalizePattern applies the textual rewrites that make a pattern
// body ready for tokenizing: backslashes become slashes, a leading
// "./" is stripped, "/**." becomes "/**/*." (so "logs/**.txt" means
// what a user expects), and a leading "**." becomes "**/*." (so
// "**.txt" becomes "**/*.txt").
func normalizePattern(input string) string {
	out := strings.ReplaceAll(input, "\\", "/")
	out = strings.TrimPrefix(out, "./")
	out = strings.ReplaceAll(out, "/**.", "/**/*.")
	if strings.HasPrefix(out, "**.") {
		out = "**/*" + out[2:]
	}
	return out
}

// compileMatcher picks the cheapest matcher shape that implements
// pattern: the bare AnyPath case, the PrefixSuffix fast path, or
// failing both, a general segment program.
func compileMatcher(pattern string) (*Matcher, error) {
	if pattern == "**" {
		return &Matcher{kind: kindAnyPath}, nil
	}
	if m, ok := tryPrefixSuffix(pattern); ok {
		return m, nil
	}
	segs, err := tokenize(pattern)
	if err != nil {
		return nil, err
	}
	return &Matcher{kind: kindSegments, segs: segs}, nil
}

// tryPrefixSuffix recognizes "**/*.suffix" and "prefix/**/*.suffix"
// shapes, where prefix and suffix are both wildcard-free. These are
// the overwhelming majority of real-world patterns (extension filters,
// optionally rooted under a fixed directory) and don't need a segment
// walk at all.
func tryPrefixSuffix(pattern string) (*Matcher, bool) {
	const marker = "**/*."
	idx := strings.Index(pattern, marker)
	if idx < 0 {
		return nil, false
	}
	prefix := pattern[:idx]
	suffix := "." + pattern[idx+len(marker):]

	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		return nil, false
	}
	trimmedPrefix := strings.TrimSuffix(prefix, "/")
	prefixOK := trimmedPrefix == "" || isLiteralFragment(trimmedPrefix)
	if prefixOK && isLiteralFragment(suffix[1:]) {
		return &Matcher{kind: kindPrefixSuffix, prefix: prefix, suffix: suffix}, true
	}
	return nil, false
}

func isLiteralFragment(s string) bool {
	return s != "" && !strings.ContainsAny(s, "*?")
}

// tokenize splits a normalized pattern body on '/' into a Segment
// program. A '**' appearing embedded inside a path component (rather
// than filling the whole component) is split so a Descend segment sits
// between the literal/wildcard fragments on either side of it, each
// widened into a single-sided wildcard.
func tokenize(pattern string) ([]Segment, error) {
	parts := strings.Split(pattern, "/")
	segs := make([]Segment, 0, len(parts))

	push := func(s Segment) {
		if s.Kind == SegDescend && len(segs) > 0 && segs[len(segs)-1].Kind == SegDescend {
			return
		}
		segs = append(segs, s)
	}

	for _, part := range parts {
		switch {
		case part == "":
			continue
		case part == "**":
			push(Segment{Kind: SegDescend})
		case strings.Contains(part, "**"):
			pos := strings.Index(part, "**")
			pre, post := part[:pos], part[pos+2:]
			switch {
			case pre == "" && post == "":
				push(Segment{Kind: SegDescend})
			case pre == "":
				push(Segment{Kind: SegDescend})
				push(Segment{Kind: SegWildcard, Text: "*" + post})
			case post == "":
				push(Segment{Kind: SegWildcard, Text: pre + "*"})
				push(Segment{Kind: SegDescend})
			default:
				push(Segment{Kind: SegWildcard, Text: pre + "*"})
				push(Segment{Kind: SegDescend})
				push(Segment{Kind: SegWildcard, Text: "*" + post})
			}
		case strings.ContainsAny(part, "*?"):
			if _, err := path.Match(part, ""); err != nil {
				return nil, fmt.Errorf("bad wildcard segment %q: %w", part, err)
			}
			push(Segment{Kind: SegWildcard, Text: part})
		default:
			push(Segment{Kind: SegLiteral, Text: part})
		}
	}
	return segs, nil
}

// extractStaticPrefix returns the longest run of leading literal
// segments, joined by '/'. It stops at the first segment that contains
// a wildcard or is a Descend, and returns "" if the very first segment
// is already one of those.
func extractStaticPrefix(pattern string) string {
	parts := strings.Split(pattern, "/")
	kept := make([]string, 0, len(parts))
	for _, part := range parts {
		if part == "" || part == "**" || strings.ContainsAny(part, "*?") {
			break
		}
		kept = append(kept, part)
	}
	return strings.Join(kept, "/")
}
