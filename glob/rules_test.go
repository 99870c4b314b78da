package glob

import "testing"

func TestRuleSetLastMatchWins(t *testing.T) {
	assert := newAsserter(t)

	rs, err := CompileAll([]string{"**/*.go", "!**/*_test.go", "main_test.go"}, "")
	assert(err == nil, "CompileAll: %v", err)

	assert(rs.Matches("pkg/foo.go"), "expected plain .go file to be selected")
	assert(!rs.Matches("pkg/foo_test.go"), "expected _test.go file to be excluded")
	assert(rs.Matches("main_test.go"), "expected later include rule to win over the earlier exclude")
}

func TestRuleSetNoIncludeRulesSelectsNothing(t *testing.T) {
	assert := newAsserter(t)

	rs, err := CompileAll([]string{"!*.tmp"}, "")
	assert(err == nil, "CompileAll: %v", err)
	assert(!rs.Matches("a.tmp"), "exclude-only rule set must never select")
	assert(!rs.Matches("a.go"), "exclude-only rule set must never select")
}

func TestCouldMatchSubtreePruning(t *testing.T) {
	assert := newAsserter(t)

	rs, err := CompileAll([]string{"src/pkg/*.go"}, "")
	assert(err == nil, "CompileAll: %v", err)

	assert(rs.CouldMatchSubtree(""), "root must always be a candidate")
	assert(rs.CouldMatchSubtree("src"), "ancestor of the include prefix must be a candidate")
	assert(rs.CouldMatchSubtree("src/pkg"), "the include prefix itself must be a candidate")
	assert(rs.CouldMatchSubtree("src/pkg/sub"), "descendant of the include prefix must be a candidate")
	assert(!rs.CouldMatchSubtree("other"), "sibling outside the include prefix must be pruned")
	assert(!rs.CouldMatchSubtree("srcx"), "a same-prefix-string sibling must not be treated as a path prefix")
}

func TestCouldMatchSubtreeNoPrefixMeansNoPruning(t *testing.T) {
	assert := newAsserter(t)

	rs, err := CompileAll([]string{"**/*.go"}, "")
	assert(err == nil, "CompileAll: %v", err)
	assert(rs.CouldMatchSubtree("anything/at/all"), "an include rule with no literal prefix must never be pruned")
}

func TestCompileAllRejectsTooManyPatterns(t *testing.T) {
	assert := newAsserter(t)

	raws := make([]string, MaxPatterns+1)
	for i := range raws {
		raws[i] = "*.go"
	}
	_, err := CompileAll(raws, "")
	assert(err != nil, "expected error for too many patterns")
}

func TestIncludePrefixesIgnoresExcludes(t *testing.T) {
	assert := newAsserter(t)

	rs, err := CompileAll([]string{"!vendor/**", "src/**/*.go"}, "")
	assert(err == nil, "CompileAll: %v", err)
	prefixes := rs.IncludePrefixes()
	assert(len(prefixes) == 1, "expected exactly one include prefix, got %d", len(prefixes))
	assert(prefixes[0] == "src", "expected include prefix 'src', got %q", prefixes[0])
}
