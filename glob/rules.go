// rules.go - ordered include/exclude rule sets and subtree pruning
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

import "strings"

// RuleSet is a compiled, ordered collection of include/exclude rules
// plus the literal prefixes used to prune directory subtrees that no
// include rule can ever select from.
type RuleSet struct {
	rules           []*Rule
	includePrefixes []string
}

// CompileAll compiles raws, in order, into a RuleSet. cwd is used to
// resolve any absolute pattern in raws against the caller's working
// directory (see resolveForCwd). A pattern beginning with '!' is an
// exclude; all others are includes.
func CompileAll(raws []string, cwd string) (*RuleSet, error) {
	if len(raws) > MaxPatterns {
		return nil, &InvalidPatternError{Reason: "too many patterns"}
	}

	cwdPrefixes := buildCwdPrefixes(cwd)
	rules := make([]*Rule, 0, len(raws))
	prefixes := make([]string, 0, len(raws))

	for i, raw := range raws {
		r, err := compile(i, raw, cwdPrefixes)
		if err != nil {
			return nil, err
		}
		rules = append(rules, r)
		if r.Include {
			prefixes = append(prefixes, r.IncludePrefix)
		}
	}

	return &RuleSet{rules: rules, includePrefixes: prefixes}, nil
}

// Rules returns the compiled rules in their original order.
func (rs *RuleSet) Rules() []*Rule {
	return rs.rules
}

// IncludePrefixes returns the literal prefixes contributed by include
// rules, used by seed-directory discovery (walk package) to pick
// concrete starting points instead of always scanning from the root.
func (rs *RuleSet) IncludePrefixes() []string {
	return rs.includePrefixes
}

// Matches applies every rule to relPath in order and returns the
// polarity of the last rule that matched - last-match-wins. A path no
// rule matches is not selected.
func (rs *RuleSet) Matches(relPath string) bool {
	selected := false
	for _, r := range rs.rules {
		if r.matches(relPath) {
			selected = r.Include
		}
	}
	return selected
}

// CouldMatchSubtree reports whether the subtree rooted at dirRelPath
// could possibly contain a path some include rule selects, or could
// itself be contained within one of the include prefixes (so that
// descending further might reach it). It never considers exclude
// rules: an exclude can only remove matches an include rule already
// produced, so it can't make a pruned subtree relevant again.
//
// An empty includePrefixes set means there were no include rules at
// all (only excludes, or none), in which case nothing can ever be
// selected and every subtree is pruned.
func (rs *RuleSet) CouldMatchSubtree(dirRelPath string) bool {
	if len(rs.includePrefixes) == 0 {
		return false
	}
	if dirRelPath == "" {
		return true
	}
	for _, prefix := range rs.includePrefixes {
		if prefix == "" {
			return true
		}
		if isPathPrefix(dirRelPath, prefix) || isPathPrefix(prefix, dirRelPath) {
			return true
		}
	}
	return false
}

// isPathPrefix reports whether prefix is path, or a path-component
// prefix of it (i.e. prefix followed by a full path separator, never a
// partial-segment match like "ab" against "abc").
func isPathPrefix(path, prefix string) bool {
	if path == prefix {
		return true
	}
	return strings.HasPrefix(path, prefix+"/")
}
