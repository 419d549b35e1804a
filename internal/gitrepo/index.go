// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package gitrepo

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/format/index"
	"github.com/go-git/go-git/v5/storage/filesystem"
)

// indexFileStorage keeps the index in a file of its own, leaving objects,
// references and configuration to the repository.
type indexFileStorage struct {
	*filesystem.Storage
	path string
}

func withIndexFile(r *git.Repository, path string) (*git.Repository, error) {
	st, ok := r.Storer.(*filesystem.Storage)
	if !ok {
		return nil, fmt.Errorf("storage %T does not support a separate index file", r.Storer)
	}
	wt, err := r.Worktree()
	if err != nil {
		return nil, err
	}
	return git.Open(&indexFileStorage{Storage: st, path: path}, wt.Filesystem)
}

func (s *indexFileStorage) Index() (*index.Index, error) {
	idx := &index.Index{Version: 2}
	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return idx, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if err := index.NewDecoder(bufio.NewReader(f)).Decode(idx); err != nil {
		return nil, fmt.Errorf("decoding index %s: %w", s.path, err)
	}
	return idx, nil
}

// SetIndex writes idx to a temporary file next to the index file and renames
// it into place.
func (s *indexFileStorage) SetIndex(idx *index.Index) (err error) {
	f, err := os.CreateTemp(filepath.Dir(s.path), ".index-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			os.Remove(f.Name())
		}
	}()

	if err := f.Chmod(0o644); err != nil {
		f.Close()
		return err
	}
	bw := bufio.NewWriter(f)
	if err := index.NewEncoder(bw).Encode(idx); err != nil {
		f.Close()
		return fmt.Errorf("encoding index %s: %w", s.path, err)
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), s.path)
}
