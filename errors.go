// errors.go - descriptive errors shared across the globwalk packages
//
// (c) 2024 Sudhi Herle <sudhi@herle.net>
//
// Licensing Terms: GPLv2
//
// If you need a commercial license for this work, please contact
// the author.
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim  is made to its
// suitability for any purpose.

package globwalk

import (
	"fmt"
)

// PathError is returned by Statm/Lstatm when the underlying stat(2)
// (or its platform equivalent) fails.
type PathError struct {
	Op   string
	Path string
	Err  error
}

// Error returns a string representation of PathError.
func (e *PathError) Error() string {
	return fmt.Sprintf("globwalk: %s '%s': %s", e.Op, e.Path, e.Err.Error())
}

// Unwrap returns the underlying wrapped error.
func (e *PathError) Unwrap() error {
	return e.Err
}

var _ error = &PathError{}
