// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package hook

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.astrophena.name/precommit/testutil"
)

func readTree(t *testing.T, dir string) map[string]string {
	t.Helper()
	files := make(map[string]string)
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		b, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		rel, _ := filepath.Rel(dir, path)
		files[filepath.ToSlash(rel)] = string(b)
		return nil
	})
	if err != nil {
		t.Fatalf("reading %s: %v", dir, err)
	}
	return files
}

func TestReplaceDir(t *testing.T) {
	t.Run("replaces existing", func(t *testing.T) {
		root := t.TempDir()
		testutil.WriteFile(t, root, "out/index.html", "new\n")
		testutil.WriteFile(t, root, "out/api.html", "api\n")
		testutil.WriteFile(t, root, "pub/index.html", "old\n")
		testutil.WriteFile(t, root, "pub/removed.html", "gone\n")

		if err := replaceDir(filepath.Join(root, "out"), filepath.Join(root, "pub")); err != nil {
			t.Fatalf("replaceDir(): %v", err)
		}
		testutil.AssertEqual(t, readTree(t, filepath.Join(root, "pub")), map[string]string{
			"index.html": "new\n",
			"api.html":   "api\n",
		})
		for _, name := range []string{"out", ".pub.old"} {
			if _, err := os.Stat(filepath.Join(root, name)); !errors.Is(err, os.ErrNotExist) {
				t.Errorf("%s still exists: %v", name, err)
			}
		}
	})

	t.Run("creates missing destination", func(t *testing.T) {
		root := t.TempDir()
		testutil.WriteFile(t, root, "out/index.html", "new\n")
		if err := replaceDir(filepath.Join(root, "out"), filepath.Join(root, "docs", "html")); err != nil {
			t.Fatalf("replaceDir(): %v", err)
		}
		testutil.AssertEqual(t, readTree(t, filepath.Join(root, "docs", "html")), map[string]string{"index.html": "new\n"})
	})

	t.Run("stale backup is cleared", func(t *testing.T) {
		root := t.TempDir()
		testutil.WriteFile(t, root, "out/index.html", "new\n")
		testutil.WriteFile(t, root, "pub/index.html", "old\n")
		testutil.WriteFile(t, root, ".pub.old/leftover.html", "crash\n")
		if err := replaceDir(filepath.Join(root, "out"), filepath.Join(root, "pub")); err != nil {
			t.Fatalf("replaceDir(): %v", err)
		}
		if _, err := os.Stat(filepath.Join(root, ".pub.old")); !errors.Is(err, os.ErrNotExist) {
			t.Errorf("backup still exists: %v", err)
		}
	})

	t.Run("output is a file", func(t *testing.T) {
		root := t.TempDir()
		testutil.WriteFile(t, root, "out", "not a dir\n")
		testutil.WriteFile(t, root, "pub/index.html", "old\n")
		err := replaceDir(filepath.Join(root, "out"), filepath.Join(root, "pub"))
		if err == nil || !strings.Contains(err.Error(), "not a directory") {
			t.Fatalf("replaceDir() error = %v, want not a directory", err)
		}
		testutil.AssertEqual(t, readTree(t, filepath.Join(root, "pub")), map[string]string{"index.html": "old\n"})
	})

	t.Run("failed restore is reported", func(t *testing.T) {
		root := t.TempDir()
		testutil.WriteFile(t, root, "out/index.html", "new\n")
		testutil.WriteFile(t, root, "pub/index.html", "old\n")

		old := rename
		calls := 0
		rename = func(src, dst string) error {
			calls++
			if calls == 1 {
				return old(src, dst)
			}
			return errors.New("read-only file system")
		}
		t.Cleanup(func() { rename = old })

		err := replaceDir(filepath.Join(root, "out"), filepath.Join(root, "pub"))
		if err == nil || !strings.Contains(err.Error(), "restoring") {
			t.Fatalf("replaceDir() error = %v, want a restore failure", err)
		}
		// Nothing was deleted; the old docs wait in the backup.
		testutil.AssertEqual(t, readTree(t, filepath.Join(root, ".pub.old")), map[string]string{"index.html": "old\n"})
	})
}
