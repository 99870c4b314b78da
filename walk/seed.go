// seed.go - resolving a rule set's include prefixes into starting directories
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

package walk

import (
	"os"
	"path/filepath"

	"github.com/sherle/globwalk/glob"
)

// directoryTask is one unit of pending work: a directory to be read
// and its entries classified, matched, and (for subdirectories)
// re-enqueued.
type directoryTask struct {
	absPath string
	relPath string
}

// seedTasks resolves rules' include prefixes into starting
// directoryTasks so the walk never has to scan a sibling of a prefix
// it can prove is irrelevant. A prefix that doesn't exist on disk, or
// names something other than a directory, is simply skipped - most
// commonly because the prefix is itself a concrete filename, in which
// case there's nothing to seed a descent from. "../other"-shaped
// prefixes (from a pattern resolved relative to cwd via a common
// ancestor) resolve outside root exactly as filepath.Join intends.
// When nothing is usable - patterns that are pure wildcards, or an
// empty rule set - the walk root itself is the sole seed.
func seedTasks(root string, rules *glob.RuleSet) []directoryTask {
	prefixes := rules.IncludePrefixes()
	seen := make(map[string]bool, len(prefixes)+1)
	var tasks []directoryTask

	addSeed := func(rel string) {
		if seen[rel] {
			return
		}
		seen[rel] = true

		abs := root
		if rel != "" {
			abs = filepath.Join(root, rel)
		}
		fi, err := os.Stat(abs)
		if err != nil || !fi.IsDir() {
			return
		}
		tasks = append(tasks, directoryTask{absPath: abs, relPath: rel})
	}

	for _, p := range prefixes {
		addSeed(p)
	}
	if len(tasks) == 0 {
		addSeed("")
	}
	return tasks
}
