// © 2025 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"go.astrophena.name/precommit/cli"
	"go.astrophena.name/precommit/internal/gitrepo"
	"go.astrophena.name/precommit/internal/hook"
	"go.astrophena.name/precommit/internal/tool"
	"go.astrophena.name/precommit/logger"
)

func main() { cli.Main(new(app)) }

type app struct {
	verbose bool
}

func (a *app) Flags(fs *flag.FlagSet) {
	fs.BoolVar(&a.verbose, "v", false, "Log each step and tool invocation.")
}

func (a *app) Run(ctx context.Context) error {
	env := cli.GetEnv(ctx)
	if len(env.Args) > 0 {
		return fmt.Errorf("%w: no arguments expected, got %q", cli.ErrInvalidArgs, env.Args)
	}

	level := new(slog.LevelVar)
	if a.verbose {
		level.Set(slog.LevelDebug)
	}
	ctx = logger.Put(ctx, logger.New(env.Stderr, logger.Options{
		Level: level,
		Color: cli.WritesToTerminal(env.Stderr),
	}))

	wd, err := os.Getwd()
	if err != nil {
		return err
	}
	root, err := gitrepo.FindRoot(wd)
	if err != nil {
		return err
	}
	// Set by git for commit -a and commit <paths>, relative to the directory
	// the hook runs in.
	indexFile := env.Getenv("GIT_INDEX_FILE")
	if indexFile != "" {
		if !filepath.IsAbs(indexFile) {
			indexFile = filepath.Join(wd, indexFile)
		}
		logger.Debug(ctx, "using index file", slog.String("path", indexFile))
	}

	gitDir, err := gitrepo.MetadataDir(root)
	if err != nil {
		return err
	}
	cfg, err := hook.LoadConfig(root)
	if err != nil {
		return err
	}

	r := &hook.Runner{
		Root:   root,
		Config: cfg,
		OpenRepo: func() (hook.Repository, error) {
			repo, err := gitrepo.Open(root, indexFile)
			if err != nil {
				return nil, err
			}
			return repo, nil
		},
		Tools:    &tool.Exec{Dir: root},
		Progress: env.Stderr,
		Width:    cli.TerminalWidth(env.Stderr),
	}

	if env.Getenv("CI") != "true" {
		target, err := hook.CanonicalExecutable()
		if err != nil {
			return fmt.Errorf("locating the hook executable: %w", err)
		}
		r.Installer = &hook.Installer{
			Link:   filepath.Join(gitrepo.HooksDir(gitDir), "pre-commit"),
			Target: target,
		}
	} else {
		logger.Debug(ctx, "running in CI, hook installation is skipped")
	}

	return r.Run(ctx)
}
