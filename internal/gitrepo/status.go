// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package gitrepo

import (
	"fmt"
	"slices"
	"strings"
)

// StatusCode is one column of git's short status format.
type StatusCode byte

// Status codes, as printed by 'git status --short'.
const (
	Unmodified         StatusCode = ' '
	Modified           StatusCode = 'M'
	Added              StatusCode = 'A'
	Deleted            StatusCode = 'D'
	Renamed            StatusCode = 'R'
	Copied             StatusCode = 'C'
	UpdatedButUnmerged StatusCode = 'U'
	Untracked          StatusCode = '?'
	Ignored            StatusCode = '!'
)

// Valid reports whether c belongs to the short status vocabulary.
func (c StatusCode) Valid() bool {
	switch c {
	case Unmodified, Modified, Added, Deleted, Renamed, Copied, UpdatedButUnmerged, Untracked, Ignored:
		return true
	}
	return false
}

// StagedFile is a single entry of the change set.
type StagedFile struct {
	// Path is slash-separated and relative to the repository root.
	Path     string
	Index    StatusCode
	Worktree StatusCode
}

// String formats f the way 'git status --short' does.
func (f StagedFile) String() string {
	return fmt.Sprintf("%c%c %s", f.Index, f.Worktree, f.Path)
}

// Staged reports whether the index holds a modification, rename or
// addition of the file.
func (f StagedFile) Staged() bool {
	switch f.Index {
	case Modified, Renamed, Added:
		return true
	}
	return false
}

// Drifted reports whether the file was modified in the working tree after
// it was staged.
func (f StagedFile) Drifted() bool {
	return f.Staged() && f.Worktree == Modified
}

// Changes returns the entries that are staged or modified in the working
// tree, sorted by path.
func Changes(files []StagedFile) []StagedFile {
	var changes []StagedFile
	for _, f := range files {
		if f.Staged() || f.Worktree == Modified {
			changes = append(changes, f)
		}
	}
	slices.SortFunc(changes, func(a, b StagedFile) int { return strings.Compare(a.Path, b.Path) })
	return changes
}
