package glob

import "testing"

func TestNormalizePattern(t *testing.T) {
	assert := newAsserter(t)

	cases := []struct{ in, want string }{
		{"./src/foo.go", "src/foo.go"},
		{`a\b\c`, "a/b/c"},
		{"logs/**.txt", "logs/**/*.txt"},
		{"**.txt", "**/*.txt"},
		{"src/**/*.go", "src/**/*.go"},
	}
	for _, c := range cases {
		got := normalizePattern(c.in)
		assert(got == c.want, "normalizePattern(%q) = %q, want %q", c.in, got, c.want)
	}
}

func TestCompileMatcherPrefixSuffixFastPath(t *testing.T) {
	assert := newAsserter(t)

	m, err := compileMatcher("src/**/*.go")
	assert(err == nil, "compile: %v", err)
	assert(m.kind == kindPrefixSuffix, "expected prefix/suffix fast path, got kind %d", m.kind)
	assert(m.Matches("src/a/b/c.go"), "expected match under prefix")
	assert(!m.Matches("other/a.go"), "expected no match outside prefix")
	assert(!m.Matches("src/a/b/c.txt"), "expected no match on wrong suffix")

	m2, err := compileMatcher("**/*.txt")
	assert(err == nil, "compile: %v", err)
	assert(m2.kind == kindPrefixSuffix, "expected prefix/suffix fast path")
	assert(m2.Matches("a/b/c.txt"), "expected match anywhere")
	assert(m2.Matches("c.txt"), "expected match at top level")
}

func TestCompileMatcherAnyPath(t *testing.T) {
	assert := newAsserter(t)

	m, err := compileMatcher("**")
	assert(err == nil, "compile: %v", err)
	assert(m.kind == kindAnyPath, "expected AnyPath matcher")
	assert(m.Matches("a/b/c"), "AnyPath should match any non-empty path")
	assert(!m.Matches(""), "AnyPath should not match the empty path")
}

func TestCompileMatcherSegmentsWildcardSingleComponent(t *testing.T) {
	assert := newAsserter(t)

	m, err := compileMatcher("a/*/c.txt")
	assert(err == nil, "compile: %v", err)
	assert(m.kind == kindSegments, "expected general segment program")
	assert(m.Matches("a/b/c.txt"), "expected match through single wildcard component")
	assert(!m.Matches("a/b/d/c.txt"), "single '*' must not cross a directory boundary")
}

func TestCompileMatcherEmbeddedDoubleStar(t *testing.T) {
	assert := newAsserter(t)

	// "a**b" embedded in a single path component splits into
	// Wildcard("a*"), Descend, Wildcard("*b") - three program
	// positions, so the pre-part and post-part each need their own
	// path component even when the Descend between them spans zero.
	m, err := compileMatcher("a**b/c.txt")
	assert(err == nil, "compile: %v", err)
	assert(m.kind == kindSegments, "expected general segment program")
	assert(m.Matches("aX/Zb/c.txt"), "expected the split wildcard/descend/wildcard to match with zero components between")
	assert(m.Matches("aX/Y/Zb/c.txt"), "expected descend to span an extra component")
	assert(!m.Matches("aXZb/c.txt"), "pre-part and post-part must land in separate components")
}

func TestCompileRejectsEmptyAndTooLong(t *testing.T) {
	assert := newAsserter(t)

	_, err := compile(0, "", nil)
	assert(err != nil, "expected error for empty pattern")

	_, err = compile(0, "!", nil)
	assert(err != nil, "expected error for empty exclude body")

	long := make([]byte, MaxPatternLength+1)
	for i := range long {
		long[i] = 'a'
	}
	_, err = compile(0, string(long), nil)
	assert(err != nil, "expected error for too-long pattern")
}

func TestCompileExcludePattern(t *testing.T) {
	assert := newAsserter(t)

	r, err := compile(0, "!*.tmp", nil)
	assert(err == nil, "compile: %v", err)
	assert(!r.Include, "expected exclude rule")
	assert(r.IncludePrefix == "", "exclude rules carry no include prefix")
	assert(r.matches("a.tmp"), "expected exclude pattern body to still match its glob")
}

func TestExtractStaticPrefix(t *testing.T) {
	assert := newAsserter(t)

	cases := []struct{ pattern, want string }{
		{"src/pkg/*.go", "src/pkg"},
		{"*.go", ""},
		{"**/*.go", ""},
		{"a/b/c", "a/b/c"},
	}
	for _, c := range cases {
		got := extractStaticPrefix(c.pattern)
		assert(got == c.want, "extractStaticPrefix(%q) = %q, want %q", c.pattern, got, c.want)
	}
}

func TestResolveForCwdAbsolutePattern(t *testing.T) {
	assert := newAsserter(t)

	cwdPrefixes := buildCwdPrefixes("/home/u/proj")

	got := resolveForCwd("/home/u/proj/src/**/*.go", cwdPrefixes)
	assert(got == "src/**/*.go", "expected pattern rooted under cwd to become relative, got %q", got)

	got = resolveForCwd("/home/u/proj", cwdPrefixes)
	assert(got == "", "expected pattern equal to cwd to resolve to empty body, got %q", got)

	got = resolveForCwd("/home/u/other/*.txt", cwdPrefixes)
	assert(got == "../other/*.txt", "expected common-ancestor relative path, got %q", got)

	got = resolveForCwd("rel/**/*.go", cwdPrefixes)
	assert(got == "rel/**/*.go", "relative pattern should pass through unchanged, got %q", got)
}
