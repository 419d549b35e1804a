// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package hook

import (
	"os"
	"path/filepath"
	"testing"

	"go.astrophena.name/precommit/testutil"
)

func TestInstaller(t *testing.T) {
	root := t.TempDir()
	in := &Installer{
		Link:   filepath.Join(root, ".git", "hooks", "pre-commit"),
		Target: filepath.Join(root, "bin", "pre-commit"),
	}

	state, err := in.State()
	if err != nil {
		t.Fatal(err)
	}
	testutil.AssertEqual(t, state, NotInstalled)

	if err := in.Install(); err != nil {
		t.Fatalf("Install(): %v", err)
	}
	target, err := os.Readlink(in.Link)
	if err != nil {
		t.Fatal(err)
	}
	testutil.AssertEqual(t, target, in.Target)

	// A dangling link still counts.
	state, err = in.State()
	if err != nil {
		t.Fatal(err)
	}
	testutil.AssertEqual(t, state, Installed)
	testutil.AssertEqual(t, state.String(), "installed")

	if err := in.Install(); err == nil {
		t.Fatal("second Install() succeeded, want an error for the existing link")
	}
}

func TestInstallerKeepsUserHook(t *testing.T) {
	root := t.TempDir()
	link := testutil.WriteFile(t, root, ".git/hooks/pre-commit", "#!/bin/sh\nexit 0\n")
	in := &Installer{Link: link, Target: "/opt/pre-commit"}
	state, err := in.State()
	if err != nil {
		t.Fatal(err)
	}
	testutil.AssertEqual(t, state, Installed)
}

func TestCanonicalExecutable(t *testing.T) {
	exe, err := CanonicalExecutable()
	if err != nil {
		t.Fatal(err)
	}
	if !filepath.IsAbs(exe) {
		t.Fatalf("CanonicalExecutable() = %q, want an absolute path", exe)
	}
	resolved, err := filepath.EvalSymlinks(exe)
	if err != nil {
		t.Fatal(err)
	}
	testutil.AssertEqual(t, resolved, exe)
}
