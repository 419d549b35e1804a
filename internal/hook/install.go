// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package hook

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// InstallState tells whether the hook is installed.
type InstallState int

const (
	NotInstalled InstallState = iota
	Installed
)

func (s InstallState) String() string {
	if s == Installed {
		return "installed"
	}
	return "not installed"
}

// Installer links the hook into the hooks directory of a repository.
type Installer struct {
	// Link is the hook path git runs, usually .git/hooks/pre-commit.
	Link string
	// Target is the canonical path of the hook executable.
	Target string
}

// State reports whether something exists at Link. A hook the user put there
// counts as installed and is left alone.
func (in *Installer) State() (InstallState, error) {
	_, err := os.Lstat(in.Link)
	if errors.Is(err, fs.ErrNotExist) {
		return NotInstalled, nil
	}
	if err != nil {
		return NotInstalled, err
	}
	return Installed, nil
}

// Install creates Link as a symlink to Target.
func (in *Installer) Install() error {
	if err := os.MkdirAll(filepath.Dir(in.Link), 0o755); err != nil {
		return err
	}
	return os.Symlink(in.Target, in.Link)
}

// CanonicalExecutable returns the path of the running executable with all
// symlinks resolved.
func CanonicalExecutable() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(exe)
}
