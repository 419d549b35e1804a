// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package tool

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"testing"

	"go.astrophena.name/precommit/testutil"
)

func TestExecRun(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh is not available")
	}

	cases := map[string]struct {
		argv       []string
		wantErr    bool
		wantCode   int
		wantOutput string
	}{
		"success": {
			argv: []string{"sh", "-c", "echo ok"},
		},
		"exit code is kept": {
			argv:       []string{"sh", "-c", "echo broken >&2; exit 3"},
			wantErr:    true,
			wantCode:   3,
			wantOutput: "broken\n",
		},
		"missing binary": {
			argv:     []string{"pre-commit-no-such-tool"},
			wantErr:  true,
			wantCode: -1,
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			x := &Exec{Dir: t.TempDir()}
			err := x.Run(context.Background(), tc.argv...)
			if !tc.wantErr {
				testutil.AssertEqual(t, err, nil)
				return
			}
			var te *Error
			if !errors.As(err, &te) {
				t.Fatalf("want *Error, got %v (%T)", err, err)
			}
			testutil.AssertEqual(t, te.ExitCode(), tc.wantCode)
			testutil.AssertEqual(t, te.Output, tc.wantOutput)
			testutil.AssertEqual(t, te.Argv, tc.argv)
		})
	}
}

func TestExecRunDir(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh is not available")
	}
	dir := t.TempDir()
	x := &Exec{Dir: dir}
	if err := x.Run(context.Background(), "sh", "-c", "echo hi > marker"); err != nil {
		t.Fatal(err)
	}
	if err := x.Run(context.Background(), "test", "-f", "marker"); err != nil {
		t.Fatalf("tool did not run in %q: %v", dir, err)
	}
}

func TestExecRunEmpty(t *testing.T) {
	x := &Exec{}
	if err := x.Run(context.Background()); err == nil {
		t.Fatal("want error for empty argv")
	}
}

func TestErrorMessage(t *testing.T) {
	err := &Error{
		Argv:   []string{"pylint", "--errors-only", "a.py"},
		Code:   2,
		Output: "a.py:1:0: E0001: syntax error\n",
		Err:    errors.New("exit status 2"),
	}
	got := err.Error()
	want := `["pylint" "--errors-only" "a.py"] failed: exit status 2:` + "\n" + "a.py:1:0: E0001: syntax error"
	testutil.AssertEqual(t, got, want)
	if strings.HasSuffix(got, "\n") {
		t.Errorf("message ends with a newline: %q", got)
	}
}
