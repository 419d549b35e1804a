// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package hook

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// rename is replaced in tests to simulate failing moves.
var rename = os.Rename

// replaceDir moves src to dst, replacing whatever dst held. The previous dst
// is kept aside until src is in place and restored if the move fails, so dst
// is never left missing.
func replaceDir(src, dst string) error {
	fi, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("build output: %w", err)
	}
	if !fi.IsDir() {
		return fmt.Errorf("build output %s is not a directory", src)
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}

	backup := filepath.Join(filepath.Dir(dst), "."+filepath.Base(dst)+".old")
	// Left behind by an interrupted run.
	if err := os.RemoveAll(backup); err != nil {
		return err
	}

	hadOld := true
	if err := rename(dst, backup); errors.Is(err, fs.ErrNotExist) {
		hadOld = false
	} else if err != nil {
		return fmt.Errorf("moving aside %s: %w", dst, err)
	}

	if err := rename(src, dst); err != nil {
		err = fmt.Errorf("moving %s to %s: %w", src, dst, err)
		if hadOld {
			if rerr := rename(backup, dst); rerr != nil {
				return errors.Join(err, fmt.Errorf("restoring %s from %s: %w", dst, backup, rerr))
			}
		}
		return err
	}

	if hadOld {
		return os.RemoveAll(backup)
	}
	return nil
}
