package env

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaths(t *testing.T) {
	e := Env{Root: "/srv/bench"}

	assert.Equal(t, "/srv/bench/.venv-ansible", e.AnsibleVenv())
	assert.Equal(t, "/srv/bench/.venv-ftl2", e.FTL2Venv())
	assert.Equal(t,
		"/srv/bench/.venv-ansible/bin/ansible-playbook",
		e.AnsiblePlaybook())
	assert.Equal(t, "/srv/bench/.venv-ftl2/bin/python", e.FTL2Python())
}

func TestAnsibleArgv(t *testing.T) {
	e := Env{Root: "/srv/bench"}

	argv := e.AnsibleArgv("/b/playbook.yml", "")
	assert.Equal(t, []string{
		"/srv/bench/.venv-ansible/bin/ansible-playbook",
		"/b/playbook.yml", "-i", "localhost,", "-c", "local",
	}, argv)

	argv = e.AnsibleArgv("/b/playbook.yml", "/b/inventory")
	assert.Equal(t, "/b/inventory", argv[3])
}

func TestFTL2Argv(t *testing.T) {
	e := Env{Root: "/srv/bench"}

	assert.Equal(t, []string{
		"/srv/bench/.venv-ftl2/bin/python", "/b/ftl2_script.py",
	}, e.FTL2Argv("/b/ftl2_script.py"))
}

func TestCheck(t *testing.T) {
	root := t.TempDir()
	e := Env{Root: root}

	ansibleOK, ftl2OK := e.Check()
	assert.False(t, ansibleOK)
	assert.False(t, ftl2OK)

	require.NoError(t, os.MkdirAll(
		filepath.Dir(e.AnsiblePlaybook()), 0o755))
	require.NoError(t, os.WriteFile(
		e.AnsiblePlaybook(), []byte("#!/bin/sh\n"), 0o755))

	ansibleOK, ftl2OK = e.Check()
	assert.True(t, ansibleOK)
	assert.False(t, ftl2OK)

	require.NoError(t, os.MkdirAll(filepath.Dir(e.FTL2Python()), 0o755))
	require.NoError(t, os.WriteFile(
		e.FTL2Python(), []byte("#!/bin/sh\n"), 0o755))

	ansibleOK, ftl2OK = e.Check()
	assert.True(t, ansibleOK)
	assert.True(t, ftl2OK)
}

func TestResolveFTL2Repo(t *testing.T) {
	repo, err := ResolveFTL2Repo("/explicit/path")
	require.NoError(t, err)
	assert.Equal(t, "/explicit/path", repo)

	t.Setenv("FTL2_REPO", "/from/env")

	repo, err = ResolveFTL2Repo("")
	require.NoError(t, err)
	assert.Equal(t, "/from/env", repo)

	t.Setenv("FTL2_REPO", "")

	repo, err = ResolveFTL2Repo("")
	require.NoError(t, err)
	assert.Contains(t, repo, "faster-than-light2")
}
