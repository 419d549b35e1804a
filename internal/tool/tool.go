// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Package tool runs external programs on behalf of the hook.
package tool

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"go.astrophena.name/precommit/logger"
)

// Error reports a tool that could not be started or exited unsuccessfully.
type Error struct {
	Argv []string
	// Code is the exit status, or -1 if the tool did not run to completion.
	Code int
	// Output holds the combined stdout and stderr of the tool.
	Output string
	Err    error
}

func (e *Error) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%q failed: %v", e.Argv, e.Err)
	if out := strings.TrimRight(e.Output, "\n"); out != "" {
		sb.WriteString(":\n")
		sb.WriteString(out)
	}
	return sb.String()
}

func (e *Error) Unwrap() error { return e.Err }

// ExitCode returns the tool's exit status.
func (e *Error) ExitCode() int { return e.Code }

// Exec runs tools as child processes in Dir.
type Exec struct {
	Dir string
	// Env, if non-nil, replaces the environment of child processes.
	Env []string
}

// Run runs argv and waits for it to exit. It returns *Error if the tool
// cannot be started or exits with a non-zero status.
func (x *Exec) Run(ctx context.Context, argv ...string) error {
	if len(argv) == 0 {
		return errors.New("tool: empty command")
	}
	logger.Debug(ctx, "running tool", slog.Any("argv", argv), slog.String("dir", x.Dir))

	var buf bytes.Buffer
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = x.Dir
	cmd.Env = x.Env
	cmd.Stdout = &buf
	cmd.Stderr = &buf
	err := cmd.Run()
	if err == nil {
		return nil
	}

	code := -1
	var ee *exec.ExitError
	if errors.As(err, &ee) {
		code = ee.ExitCode()
	}
	return &Error{
		Argv:   append([]string(nil), argv...),
		Code:   code,
		Output: buf.String(),
		Err:    err,
	}
}
