// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package hook

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"strings"

	"golang.org/x/tools/txtar"
)

// ConfigArchive is the txtar archive, relative to the repository root, that
// may carry the hook configuration in a member named [ConfigFile].
const (
	ConfigArchive = ".devtools.txtar"
	ConfigFile    = "pre-commit.json"
)

// Config describes the checks run by the hook. An empty command disables
// the corresponding step.
type Config struct {
	// Lint maps a file extension, including the dot, to the checker run on
	// each staged file with that extension. The file path is appended.
	Lint map[string][]string `json:"lint"`
	// Test is the test suite command.
	Test []string   `json:"test"`
	Docs DocsConfig `json:"docs"`
	CI   CIConfig   `json:"ci"`
}

// DocsConfig describes how HTML documentation is rebuilt.
type DocsConfig struct {
	// Build writes fresh documentation into Output.
	Build []string `json:"build"`
	// Output is where Build leaves the HTML, relative to the repository root.
	Output string `json:"output"`
	// Publish is the committed documentation directory Output replaces,
	// slash-separated and relative to the repository root.
	Publish string `json:"publish"`
}

// CIConfig describes the continuous integration configuration check.
type CIConfig struct {
	// File is the YAML configuration, relative to the repository root.
	// Empty disables the check.
	File string `json:"file"`
	// Validate is run with File appended after File parses as YAML.
	Validate []string `json:"validate"`
}

// DefaultConfig returns the configuration used when the repository does not
// provide one. It suits a Python project documented with Sphinx and built on
// CircleCI.
func DefaultConfig() Config {
	return Config{
		Lint: map[string][]string{
			".py": {"pylint", "--errors-only"},
		},
		Test: []string{"./setup.py", "test"},
		Docs: DocsConfig{
			Build:   []string{"sphinx-build", "-M", "html", "sphinx", "sphinx/_build", "-Q"},
			Output:  "sphinx/_build/html",
			Publish: "htmldoc",
		},
		CI: CIConfig{
			File:     ".circleci/config.yml",
			Validate: []string{"circleci", "config", "validate"},
		},
	}
}

// LoadConfig reads the configuration of the repository rooted at root.
// Fields present in the configuration file override [DefaultConfig], the
// lint map included; a missing archive or member means the defaults.
func LoadConfig(root string) (Config, error) {
	cfg := DefaultConfig()

	ar, err := txtar.ParseFile(filepath.Join(root, ConfigArchive))
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, err
	}
	for _, f := range ar.Files {
		if f.Name != ConfigFile {
			continue
		}
		// A lint map in the file replaces the default one as a whole.
		lint := cfg.Lint
		cfg.Lint = nil
		if err := json.Unmarshal(f.Data, &cfg); err != nil {
			return Config{}, fmt.Errorf("%s: %s: %w", ConfigArchive, ConfigFile, err)
		}
		if cfg.Lint == nil {
			cfg.Lint = lint
		}
	}
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %s: %w", ConfigArchive, ConfigFile, err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	for ext := range c.Lint {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("lint extension %q must start with a dot", ext)
		}
	}
	if len(c.Docs.Build) > 0 {
		if c.Docs.Output == "" || c.Docs.Publish == "" {
			return errors.New("docs.output and docs.publish are required when docs.build is set")
		}
		if !inRepo(c.Docs.Output) || !inRepo(c.Docs.Publish) {
			return errors.New("docs.output and docs.publish must be relative paths inside the repository")
		}
	}
	return nil
}

func inRepo(p string) bool {
	if path.IsAbs(p) || filepath.IsAbs(p) {
		return false
	}
	p = path.Clean(p)
	return p != "." && p != ".." && !strings.HasPrefix(p, "../")
}
