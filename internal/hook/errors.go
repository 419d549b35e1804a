// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package hook

import (
	"errors"
	"fmt"
	"strings"
)

// Kinds of step failures, matched with errors.Is against a *StepError.
var (
	ErrLint         = errors.New("lint failed")
	ErrTest         = errors.New("tests failed")
	ErrDocBuild     = errors.New("documentation build failed")
	ErrCIValidation = errors.New("CI configuration is invalid")
)

// StepError reports a failed check.
type StepError struct {
	Step string
	Kind error
	Err  error
}

func (e *StepError) Error() string { return fmt.Sprintf("%v: %v", e.Kind, e.Err) }

func (e *StepError) Unwrap() []error { return []error{e.Kind, e.Err} }

// ExitCode returns the exit status of the failed tool, if there was one.
func (e *StepError) ExitCode() int {
	var ec interface{ ExitCode() int }
	if errors.As(e.Err, &ec) && ec.ExitCode() > 0 {
		return ec.ExitCode()
	}
	return 1
}

// InstallPendingError is returned by the first run of the hook after it
// installed itself. The commit is stopped so that it goes through the
// checks when retried.
type InstallPendingError struct {
	Link   string
	Target string
}

func (e *InstallPendingError) Error() string {
	return fmt.Sprintf("installed pre-commit hook %s -> %s; run the commit again to check it", e.Link, e.Target)
}

// DriftError reports staged files that were edited afterwards, so the
// commit would not contain what is on disk.
type DriftError struct {
	Paths []string
}

func (e *DriftError) Error() string {
	return fmt.Sprintf("modified after staging: %s (stage or stash the changes)", strings.Join(e.Paths, ", "))
}
