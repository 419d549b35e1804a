// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Package hook implements the checks of the pre-commit hook.
//
// A [Runner] executes its steps strictly in order: install, changes, guard,
// lint, test, docs and ci. The first failing step stops the run and its
// error decides the exit status of the hook.
package hook

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"go.astrophena.name/precommit/internal/gitrepo"
	"go.astrophena.name/precommit/logger"
)

// Repository is the working tree the hook checks.
type Repository interface {
	// Status returns every changed, staged or untracked file.
	Status() ([]gitrepo.StagedFile, error)
	// Stage records all changes under a slash-separated directory in the
	// index.
	Stage(dir string) error
}

// Tools runs external programs in the repository root.
type Tools interface {
	Run(ctx context.Context, argv ...string) error
}

// Runner runs the hook.
type Runner struct {
	// Root is the repository root. Tools run there.
	Root   string
	Config Config
	// Installer creates the hook link. Nil skips the install step, as in CI.
	Installer *Installer
	// OpenRepo is called once after the install step.
	OpenRepo func() (Repository, error)
	Tools    Tools
	// Progress receives a line before each step. Nil discards them.
	Progress io.Writer
	// Width is the terminal width of Progress, or 0 if it is not a terminal.
	Width int
}

type step struct {
	name  string
	label func() string
	run   func(context.Context) error
}

// run holds what one invocation learns as it goes.
type run struct {
	*Runner
	repo    Repository
	changes []gitrepo.StagedFile
}

// Run executes all steps.
func (r *Runner) Run(ctx context.Context) error {
	rr := &run{Runner: r}
	steps := rr.steps()
	for i, s := range steps {
		if r.Progress != nil {
			fmt.Fprintln(r.Progress, progressMessage(i+1, len(steps), s.label(), r.Width))
		}
		logger.Debug(ctx, "running step", slog.String("step", s.name))
		if err := s.run(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (rr *run) steps() []step {
	cfg := rr.Config
	return []step{
		{name: "install", label: constLabel("install"), run: rr.install},
		{name: "changes", label: constLabel("changes"), run: rr.inspect},
		{name: "guard", label: constLabel("guard"), run: rr.guard},
		{name: "lint", label: func() string { return fmt.Sprintf("lint (%d files)", len(rr.lintable())) }, run: rr.lint},
		{name: "test", label: commandLabel("test", cfg.Test), run: rr.test},
		{name: "docs", label: commandLabel("docs", cfg.Docs.Build), run: rr.docs},
		{name: "ci", label: ciLabel(cfg.CI), run: rr.ci},
	}
}

func constLabel(name string) func() string { return func() string { return name } }

func commandLabel(name string, argv []string) func() string {
	return func() string {
		cmd := strings.TrimSpace(strings.Join(argv, " "))
		if cmd == "" {
			return name
		}
		return name + ": " + cmd
	}
}

func ciLabel(ci CIConfig) func() string {
	if ci.File == "" {
		return constLabel("ci")
	}
	return commandLabel("ci", slices.Concat(ci.Validate, []string{ci.File}))
}

// progressMessage formats the line printed before a step, shortened to
// fit terminalWidth if it is positive. The "[n/N] Running step " prefix is
// always kept whole.
func progressMessage(current, total int, label string, terminalWidth int) string {
	prefix := fmt.Sprintf("[%d/%d] Running step ", current, total)
	msg := prefix + label
	if terminalWidth <= 0 || len(msg) <= terminalWidth {
		return msg
	}
	if len(prefix) >= terminalWidth {
		return prefix
	}
	room := terminalWidth - len(prefix)
	if room <= 3 {
		return prefix + truncate(label, room)
	}
	return prefix + truncate(label, room-3) + "..."
}

// truncate returns the longest prefix of s that is at most n bytes long and
// does not split a UTF-8 sequence.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func (rr *run) install(ctx context.Context) error {
	if rr.Installer == nil {
		logger.Debug(ctx, "skipping hook installation")
		return nil
	}
	state, err := rr.Installer.State()
	if err != nil {
		return err
	}
	logger.Debug(ctx, "hook state", slog.String("link", rr.Installer.Link), slog.String("state", state.String()))
	if state == Installed {
		return nil
	}
	if err := rr.Installer.Install(); err != nil {
		return fmt.Errorf("installing hook: %w", err)
	}
	return &InstallPendingError{Link: rr.Installer.Link, Target: rr.Installer.Target}
}

func (rr *run) inspect(ctx context.Context) error {
	repo, err := rr.OpenRepo()
	if err != nil {
		return err
	}
	files, err := repo.Status()
	if err != nil {
		return err
	}
	rr.repo = repo
	rr.changes = gitrepo.Changes(files)
	for _, f := range rr.changes {
		logger.Debug(ctx, "change", slog.String("status", f.String()))
	}
	return nil
}

func (rr *run) guard(ctx context.Context) error {
	var drifted []string
	for _, f := range rr.changes {
		if f.Drifted() {
			drifted = append(drifted, f.Path)
		}
	}
	if len(drifted) > 0 {
		return &DriftError{Paths: drifted}
	}
	return nil
}

// lintable returns the staged files that have a checker.
func (rr *run) lintable() []gitrepo.StagedFile {
	var files []gitrepo.StagedFile
	for _, f := range rr.changes {
		if f.Staged() && len(rr.Config.Lint[path.Ext(f.Path)]) > 0 {
			files = append(files, f)
		}
	}
	return files
}

func (rr *run) lint(ctx context.Context) error {
	for _, f := range rr.lintable() {
		argv := slices.Concat(rr.Config.Lint[path.Ext(f.Path)], []string{filepath.FromSlash(f.Path)})
		if err := rr.Tools.Run(ctx, argv...); err != nil {
			return &StepError{Step: "lint", Kind: ErrLint, Err: fmt.Errorf("%s: %w", f.Path, err)}
		}
	}
	return nil
}

func (rr *run) test(ctx context.Context) error {
	if len(rr.Config.Test) == 0 {
		logger.Debug(ctx, "no test command configured")
		return nil
	}
	if err := rr.Tools.Run(ctx, rr.Config.Test...); err != nil {
		return &StepError{Step: "test", Kind: ErrTest, Err: err}
	}
	return nil
}

func (rr *run) docs(ctx context.Context) error {
	docs := rr.Config.Docs
	if len(docs.Build) == 0 {
		logger.Debug(ctx, "no documentation build configured")
		return nil
	}
	fail := func(err error) error { return &StepError{Step: "docs", Kind: ErrDocBuild, Err: err} }

	if err := rr.Tools.Run(ctx, docs.Build...); err != nil {
		return fail(err)
	}
	output := filepath.Join(rr.Root, filepath.FromSlash(docs.Output))
	publish := filepath.Join(rr.Root, filepath.FromSlash(docs.Publish))
	if err := replaceDir(output, publish); err != nil {
		return fail(err)
	}
	if err := rr.repo.Stage(path.Clean(docs.Publish)); err != nil {
		return fail(err)
	}
	logger.Debug(ctx, "documentation staged", slog.String("dir", docs.Publish))
	return nil
}

func (rr *run) ci(ctx context.Context) error {
	ci := rr.Config.CI
	if ci.File == "" {
		logger.Debug(ctx, "no CI configuration file configured")
		return nil
	}
	fail := func(err error) error { return &StepError{Step: "ci", Kind: ErrCIValidation, Err: err} }

	data, err := os.ReadFile(filepath.Join(rr.Root, filepath.FromSlash(ci.File)))
	if err != nil {
		return fail(err)
	}
	if err := checkYAMLMapping(data); err != nil {
		return fail(fmt.Errorf("%s: %w", ci.File, err))
	}
	if len(ci.Validate) == 0 {
		return nil
	}
	argv := slices.Concat(ci.Validate, []string{filepath.FromSlash(ci.File)})
	if err := rr.Tools.Run(ctx, argv...); err != nil {
		return fail(fmt.Errorf("%s: %w", ci.File, err))
	}
	return nil
}

// checkYAMLMapping reports whether data is exactly one YAML document whose
// top level is a mapping, which every CI service expects.
func checkYAMLMapping(data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	var doc yaml.Node
	if err := dec.Decode(&doc); errors.Is(err, io.EOF) {
		return errors.New("empty document")
	} else if err != nil {
		return err
	}
	if len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return errors.New("top level is not a mapping")
	}
	var extra yaml.Node
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		if err != nil {
			return err
		}
		return errors.New("more than one document")
	}
	return nil
}
