// © 2025 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

/*
Pre-commit installs and runs a Git pre-commit hook.

Run it once from anywhere inside a working tree: it links itself as
.git/hooks/pre-commit (or into the hooks directory a .git redirect file
points to) and exits with status 1, so that the commit that triggered the
installation is retried with the checks in place. Later runs, started by
git on every commit, go through these steps in order and stop at the first
failure:

  - changes: read the status of the index and the working tree.
  - guard: refuse the commit if a staged file was modified after staging.
  - lint: run the checker configured for each staged file's extension.
  - test: run the test suite.
  - docs: rebuild the HTML documentation, replace the published copy and
    stage it.
  - ci: check that the CI configuration is a YAML mapping and run its
    validator.

When the CI environment variable is set to "true" the hook is never
installed and the checks run right away.

If git names a temporary index in GIT_INDEX_FILE, as it does for
"git commit -a" and "git commit <paths>", the changes are read from that
index and the documentation is staged into it.

A failing tool makes the hook exit with the tool's own exit status, and its
output is printed to stderr.

Checks are configured through a .devtools.txtar file in the project's root
directory. This file is a txtar archive and can contain a pre-commit.json
file with the following fields, each overriding the default:

  - lint: maps an extension, such as ".py", to the checker command; the
    file is appended. The map replaces the default one as a whole.
    Default: {".py": ["pylint", "--errors-only"]}.
  - test: the test command. Default: ["./setup.py", "test"].
  - docs.build, docs.output, docs.publish: the documentation build
    command, the directory it writes HTML to, and the committed directory
    that is replaced by it. Default: sphinx-build into sphinx/_build/html,
    published as htmldoc.
  - ci.file, ci.validate: the CI configuration file and the validator
    command it is appended to. Default: .circleci/config.yml checked with
    "circleci config validate". An empty ci.file disables the check.

An empty command disables its step.
*/
package main

import (
	_ "embed"

	"go.astrophena.name/precommit/cli"
)

//go:embed doc.go
var doc []byte

func init() { cli.SetDocComment(doc) }
