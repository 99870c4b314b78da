package glob

import "testing"

// newAsserter returns a closure that fails the test with a formatted
// message when cond is false - the hand-rolled assertion style used
// throughout this module instead of a third-party assertion library.
func newAsserter(t *testing.T) func(cond bool, msg string, args ...interface{}) {
	t.Helper()
	return func(cond bool, msg string, args ...interface{}) {
		if !cond {
			t.Fatalf(msg, args...)
		}
	}
}
