// main.go - reference command line front-end for the globwalk library
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

package main

import (
	"fmt"
	"os"
	"path"
	"time"

	flag "github.com/opencoff/pflag"

	"github.com/sherle/globwalk/walk"
)

var Z = path.Base(os.Args[0])

const usageStr = `%s - walk a directory tree matching glob patterns

Usage: %s [options] <pattern> [pattern...]

Each pattern may be prefixed with '!' to exclude matches it would
otherwise select; patterns are applied in order and the last pattern
to match any given path wins.

`

func main() {
	var help bool
	var chdir string
	var concurrency int
	var oneFS bool
	var timeout time.Duration

	fs := flag.NewFlagSet(Z, flag.ExitOnError)
	fs.BoolVarP(&help, "help", "h", false, "Show help and exit [False]")
	fs.StringVarP(&chdir, "chdir", "C", ".", "Walk from `DIR` instead of the current directory")
	fs.IntVarP(&concurrency, "concurrency", "c", 0, "Scan up to `N` directories concurrently [max(4, 2 x cores)]")
	fs.BoolVarP(&oneFS, "one-file-system", "x", false, "Don't descend into a different file system [False]")
	fs.DurationVarP(&timeout, "timeout", "t", 0, "Abort the walk after `DURATION` [no deadline]")
	fs.SetOutput(os.Stdout)

	if err := fs.Parse(os.Args[1:]); err != nil {
		Die("%s", err)
	}
	if help {
		usage(fs)
	}

	patterns := fs.Args()
	if len(patterns) == 0 {
		fmt.Fprintf(os.Stderr, "Usage: %s <pattern> [pattern...]\n", Z)
		os.Exit(2)
	}

	w, err := walk.New(patterns, chdir, walk.Options{
		Concurrency: concurrency,
		OneFS:       oneFS,
	})
	if err != nil {
		exitOn(err)
	}

	if timeout > 0 {
		w.SetDeadline(time.Now().Add(timeout))
	}

	for {
		ev, err := w.Next()
		if err != nil {
			exitOn(err)
		}
		if ev == nil {
			break
		}
		fmt.Printf("%s\t%s\n", ev.Kind, ev.RelPath)
	}
}

// exitOn maps a terminal walk error to the CLI's documented exit
// codes: 2 for bad input, 1 for everything else.
func exitOn(err error) {
	if we, ok := err.(*walk.WalkError); ok && we.Kind == walk.InvalidInput {
		fmt.Fprintf(os.Stderr, "%s: %s\n", Z, err)
		os.Exit(2)
	}
	Die("%s", err)
}

func usage(fs *flag.FlagSet) {
	fmt.Printf(usageStr, Z, Z)
	fs.PrintDefaults()
	os.Exit(1)
}

// Die prints a formatted error to stderr and exits with status 1.
func Die(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "%s: %s\n", Z, fmt.Sprintf(format, args...))
	os.Exit(1)
}
