// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Package gitrepo locates git metadata and reads and updates the index of a
// working tree.
package gitrepo

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
)

// ErrEnvironment is returned when the working tree has no git metadata
// directory.
var ErrEnvironment = errors.New("no git metadata directory found")

// MetadataDir returns the git metadata directory of the working tree rooted
// at root. root/.git is either that directory or a file redirecting to it
// with a "gitdir: <path>" line, as in linked worktrees and submodules.
func MetadataDir(root string) (string, error) {
	dotGit := filepath.Join(root, ".git")
	fi, err := os.Stat(dotGit)
	if errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("%w: %s does not exist", ErrEnvironment, dotGit)
	}
	if err != nil {
		return "", err
	}
	if fi.IsDir() {
		return dotGit, nil
	}

	content, err := os.ReadFile(dotGit)
	if err != nil {
		return "", err
	}
	line, _, _ := bytes.Cut(content, []byte("\n"))
	target, ok := bytes.CutPrefix(bytes.TrimSpace(line), []byte("gitdir:"))
	if !ok {
		return "", fmt.Errorf("%w: %s is not a gitdir redirect", ErrEnvironment, dotGit)
	}
	dir := string(bytes.TrimSpace(target))
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(root, dir)
	}
	if fi, err := os.Stat(dir); err != nil || !fi.IsDir() {
		return "", fmt.Errorf("%w: %s points to missing %s", ErrEnvironment, dotGit, dir)
	}
	return dir, nil
}

// HooksDir returns the directory git reads hooks from for the metadata
// directory gitDir. Linked worktrees share the hooks of the main repository,
// which their commondir file points to.
func HooksDir(gitDir string) string {
	content, err := os.ReadFile(filepath.Join(gitDir, "commondir"))
	if err != nil {
		return filepath.Join(gitDir, "hooks")
	}
	common := strings.TrimSpace(string(content))
	if common == "" {
		return filepath.Join(gitDir, "hooks")
	}
	if !filepath.IsAbs(common) {
		common = filepath.Join(gitDir, common)
	}
	return filepath.Join(common, "hooks")
}

// Repo is a git working tree.
type Repo struct {
	wt *git.Worktree
}

// Open opens the working tree rooted at root. If indexFile is not empty,
// the index is read from and written to that file instead of the
// repository's own, as git does for GIT_INDEX_FILE.
func Open(root, indexFile string) (*Repo, error) {
	r, err := git.PlainOpenWithOptions(root, &git.PlainOpenOptions{EnableDotGitCommonDir: true})
	if err != nil {
		return nil, fmt.Errorf("opening repository at %s: %w", root, err)
	}
	if indexFile != "" {
		r, err = withIndexFile(r, indexFile)
		if err != nil {
			return nil, fmt.Errorf("opening repository at %s: %w", root, err)
		}
	}
	wt, err := r.Worktree()
	if err != nil {
		return nil, fmt.Errorf("opening worktree at %s: %w", root, err)
	}
	return &Repo{wt: wt}, nil
}

// FindRoot returns the root of the working tree containing dir.
func FindRoot(dir string) (string, error) {
	r, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{
		DetectDotGit:          true,
		EnableDotGitCommonDir: true,
	})
	if errors.Is(err, git.ErrRepositoryNotExists) {
		return "", fmt.Errorf("%w: %s is not inside a working tree", ErrEnvironment, dir)
	}
	if err != nil {
		return "", err
	}
	wt, err := r.Worktree()
	if errors.Is(err, git.ErrIsBareRepository) {
		return "", fmt.Errorf("%w: %s is a bare repository", ErrEnvironment, dir)
	}
	if err != nil {
		return "", err
	}
	return wt.Filesystem.Root(), nil
}

// Status returns an entry for every file that differs between HEAD, the
// index and the working tree, including untracked files. Ignored files are
// left out.
func (r *Repo) Status() ([]StagedFile, error) {
	st, err := r.wt.Status()
	if err != nil {
		return nil, fmt.Errorf("reading status: %w", err)
	}
	files := make([]StagedFile, 0, len(st))
	for p, s := range st {
		files = append(files, StagedFile{
			Path:     p,
			Index:    StatusCode(s.Staging),
			Worktree: StatusCode(s.Worktree),
		})
	}
	return files, nil
}

// Stage records the working tree state of every file under dir in the
// index, including additions and deletions. dir is slash-separated and
// relative to the repository root.
func (r *Repo) Stage(dir string) error {
	st, err := r.wt.Status()
	if err != nil {
		return fmt.Errorf("reading status: %w", err)
	}
	dir = path.Clean(dir)
	for p, s := range st {
		if dir != "." && p != dir && !strings.HasPrefix(p, dir+"/") {
			continue
		}
		if c := StatusCode(s.Worktree); c == Unmodified || c == Ignored {
			continue
		}
		// Add removes the index entry of a deleted file.
		if _, err := r.wt.Add(p); err != nil {
			return fmt.Errorf("staging %s: %w", p, err)
		}
	}
	return nil
}
