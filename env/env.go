// Package env models the two isolated Python virtual environments the
// benchmark sides run in, and provisions them on demand.
//
// FTL2 modifies the Ansible package at import time, so the two sides
// cannot coexist in one venv; each gets its own under the env root.
package env

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
)

const (
	ansibleVenvDir = ".venv-ansible"
	ftl2VenvDir    = ".venv-ftl2"
)

// Env locates the per-side virtual environments under a root
// directory.
type Env struct {
	Root string
}

// AnsibleVenv returns the Ansible side's venv directory.
func (e Env) AnsibleVenv() string {
	return filepath.Join(e.Root, ansibleVenvDir)
}

// FTL2Venv returns the FTL2 side's venv directory.
func (e Env) FTL2Venv() string {
	return filepath.Join(e.Root, ftl2VenvDir)
}

// AnsiblePlaybook returns the ansible-playbook binary inside the
// Ansible venv.
func (e Env) AnsiblePlaybook() string {
	return filepath.Join(e.AnsibleVenv(), "bin", "ansible-playbook")
}

// FTL2Python returns the python binary inside the FTL2 venv.
func (e Env) FTL2Python() string {
	return filepath.Join(e.FTL2Venv(), "bin", "python")
}

// AnsibleArgv builds the command line that runs a playbook under the
// Ansible venv. An empty inventory falls back to an implicit
// localhost.
func (e Env) AnsibleArgv(playbook, inventory string) []string {
	if inventory == "" {
		inventory = "localhost,"
	}

	return []string{
		e.AnsiblePlaybook(), playbook, "-i", inventory, "-c", "local",
	}
}

// FTL2Argv builds the command line that runs an FTL2 script under the
// FTL2 venv.
func (e Env) FTL2Argv(script string) []string {
	return []string{e.FTL2Python(), script}
}

// Check reports whether each side's interpreter is present.
func (e Env) Check() (ansibleOK, ftl2OK bool) {
	_, err := os.Stat(e.AnsiblePlaybook())
	ansibleOK = err == nil

	_, err = os.Stat(e.FTL2Python())
	ftl2OK = err == nil

	return ansibleOK, ftl2OK
}

// ResolveFTL2Repo picks the FTL2 source checkout to install from:
// the explicit path if given, then $FTL2_REPO, then the conventional
// sibling checkout under the user's home.
func ResolveFTL2Repo(explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}

	if fromEnv := os.Getenv("FTL2_REPO"); fromEnv != "" {
		return fromEnv, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}

	return filepath.Join(home, "git", "faster-than-light2"), nil
}

// Setup creates both virtual environments and installs each side's
// packages: ansible-core into the Ansible venv, FTL2 (editable, from
// ftl2Repo) into the FTL2 venv. Provisioning is not part of the timing
// path; subprocess output passes through to stderr.
func Setup(
	ctx context.Context,
	logger *slog.Logger,
	e Env,
	ftl2Repo string,
) error {
	repo, err := ResolveFTL2Repo(ftl2Repo)
	if err != nil {
		return err
	}

	if _, err := os.Stat(repo); err != nil {
		return fmt.Errorf(
			"FTL2 repo not found at %s (clone it or set FTL2_REPO): %w",
			repo, err,
		)
	}

	if err := createVenv(ctx, logger, e.AnsibleVenv()); err != nil {
		return err
	}

	logger.InfoContext(ctx, "installing ansible-core",
		slog.String("venv", e.AnsibleVenv()),
	)

	if err := run(ctx, venvPython(e.AnsibleVenv()),
		"-m", "pip", "install", "-q", "ansible-core",
	); err != nil {
		return fmt.Errorf("install ansible-core: %w", err)
	}

	if err := createVenv(ctx, logger, e.FTL2Venv()); err != nil {
		return err
	}

	logger.InfoContext(ctx, "installing ftl2",
		slog.String("venv", e.FTL2Venv()),
		slog.String("repo", repo),
	)

	if err := run(ctx, venvPython(e.FTL2Venv()),
		"-m", "pip", "install", "-q", "-e", repo,
	); err != nil {
		return fmt.Errorf("install ftl2: %w", err)
	}

	logger.InfoContext(ctx, "setup complete",
		slog.String("ansible", e.AnsiblePlaybook()),
		slog.String("ftl2", e.FTL2Python()),
	)

	return nil
}

func createVenv(ctx context.Context, logger *slog.Logger, dir string) error {
	if _, err := os.Stat(dir); err == nil {
		logger.InfoContext(ctx, "venv exists", slog.String("dir", dir))

		return nil
	}

	logger.InfoContext(ctx, "creating venv", slog.String("dir", dir))

	if err := run(ctx, "python3", "-m", "venv", dir); err != nil {
		return fmt.Errorf("create venv %s: %w", dir, err)
	}

	return nil
}

func venvPython(venv string) string {
	return filepath.Join(venv, "bin", "python")
}

func run(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = os.Stderr
	cmd.Stderr = os.Stderr

	return cmd.Run()
}
