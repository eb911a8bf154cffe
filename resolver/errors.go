/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package resolver

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates no candidate file or directory matched.
	ErrNotFound = errors.New("module not found")

	// ErrUnsupportedPackageMain indicates a package.json was found but its
	// main entry is not honored; such packages must ship an index file.
	ErrUnsupportedPackageMain = errors.New("package.json main is not supported")

	// ErrUnsupportedFile indicates the importing file is not a real path.
	ErrUnsupportedFile = errors.New("node resolver supports only files")
)

// ResolutionError reports a failed resolution together with every path
// that was probed.
type ResolutionError struct {
	Base      string
	Specifier string
	Attempted []string
	Err       error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("cannot resolve %q from %s: %v", e.Specifier, e.Base, e.Err)
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}
