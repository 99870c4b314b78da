package glob

import "testing"

func TestNFADescendSpansZeroOrMoreComponents(t *testing.T) {
	assert := newAsserter(t)

	segs := []Segment{
		{Kind: SegLiteral, Text: "a"},
		{Kind: SegDescend},
		{Kind: SegLiteral, Text: "z"},
	}
	assert(matchesPath(segs, "a/z"), "descend should allow zero components between a and z")
	assert(matchesPath(segs, "a/b/z"), "descend should allow one component between a and z")
	assert(matchesPath(segs, "a/b/c/z"), "descend should allow several components between a and z")
	assert(!matchesPath(segs, "a/z/extra"), "program should not accept trailing unmatched components")
	assert(!matchesPath(segs, "a"), "program should not accept a truncated path")
}

func TestNFALiteralConsumesExactlyOneComponent(t *testing.T) {
	assert := newAsserter(t)

	segs := []Segment{
		{Kind: SegLiteral, Text: "a"},
		{Kind: SegLiteral, Text: "b"},
	}
	assert(matchesPath(segs, "a/b"), "expected literal/literal program to match a/b")
	assert(!matchesPath(segs, "a/x/b"), "literal segment must not skip a component")
	assert(!matchesPath(segs, "a"), "expected no match on incomplete path")
}

func TestNFAWildcardSingleComponent(t *testing.T) {
	assert := newAsserter(t)

	segs := []Segment{
		{Kind: SegWildcard, Text: "*.go"},
	}
	assert(matchesPath(segs, "main.go"), "expected wildcard match at top level")
	assert(!matchesPath(segs, "pkg/main.go"), "wildcard segment must not cross a directory boundary")
}

func TestNFATrailingDescendAcceptsAnyDepth(t *testing.T) {
	assert := newAsserter(t)

	segs := []Segment{
		{Kind: SegLiteral, Text: "src"},
		{Kind: SegDescend},
	}
	assert(matchesPath(segs, "src"), "trailing descend should accept the prefix itself")
	assert(matchesPath(segs, "src/a"), "trailing descend should accept one extra component")
	assert(matchesPath(segs, "src/a/b/c"), "trailing descend should accept many extra components")
	assert(!matchesPath(segs, "other"), "program must still require the literal prefix")
}

func TestNFAConsecutiveDescendCollapsed(t *testing.T) {
	assert := newAsserter(t)

	segs, err := tokenize("a/**/**/b")
	if err != nil {
		t.Fatalf("tokenize: %v", err)
	}
	count := 0
	for _, s := range segs {
		if s.Kind == SegDescend {
			count++
		}
	}
	assert(count == 1, "expected consecutive ** segments to collapse into one Descend, got %d", count)
}
