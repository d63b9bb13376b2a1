package registry

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeBenchmark(t *testing.T, root, name, description string) string {
	t.Helper()

	dir := filepath.Join(root, name)
	require.NoError(t, os.MkdirAll(dir, 0o755))

	meta := "description: " + description + "\n"
	if description == "" {
		meta = "{}\n"
	}

	require.NoError(t, os.WriteFile(
		filepath.Join(dir, "bench.yaml"), []byte(meta), 0o644))
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, "playbook.yml"), []byte("- hosts: all\n"), 0o644))
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, "ftl2_script.py"), []byte("print()\n"), 0o644))

	return dir
}

func TestDiscover(t *testing.T) {
	root := t.TempDir()

	writeBenchmark(t, root, "uri_get", "HTTP GET requests")
	writeBenchmark(t, root, "copy_files", "Copy a set of files")

	// Not benchmarks: a directory missing an entry point and a stray
	// plain file.
	incomplete := filepath.Join(root, "half_done")
	require.NoError(t, os.MkdirAll(incomplete, 0o755))
	require.NoError(t, os.WriteFile(
		filepath.Join(incomplete, "bench.yaml"),
		[]byte("description: nope\n"), 0o644))
	require.NoError(t, os.WriteFile(
		filepath.Join(root, "README.md"), []byte("docs\n"), 0o644))

	defs, err := Discover(root, testLogger())
	require.NoError(t, err)

	require.Len(t, defs, 2)
	assert.Equal(t, "copy_files", defs[0].Name)
	assert.Equal(t, "Copy a set of files", defs[0].Description)
	assert.Equal(t, "uri_get", defs[1].Name)
	assert.Equal(t, filepath.Join(root, "uri_get", "playbook.yml"),
		defs[1].Playbook)
	assert.Equal(t, filepath.Join(root, "uri_get", "ftl2_script.py"),
		defs[1].FTL2Script)
	assert.Empty(t, defs[1].Inventory)
}

func TestDiscoverDescriptionFallsBackToName(t *testing.T) {
	root := t.TempDir()
	writeBenchmark(t, root, "unnamed", "")

	defs, err := Discover(root, testLogger())
	require.NoError(t, err)
	require.Len(t, defs, 1)
	assert.Equal(t, "unnamed", defs[0].Description)
}

func TestDiscoverPicksUpInventory(t *testing.T) {
	root := t.TempDir()
	dir := writeBenchmark(t, root, "with_inventory", "uses inventory")
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, "inventory"), []byte("localhost\n"), 0o644))

	defs, err := Discover(root, testLogger())
	require.NoError(t, err)
	require.Len(t, defs, 1)
	assert.Equal(t, filepath.Join(dir, "inventory"), defs[0].Inventory)
}

func TestDiscoverSkipsBadMetadata(t *testing.T) {
	root := t.TempDir()
	writeBenchmark(t, root, "good", "fine")

	bad := writeBenchmark(t, root, "bad", "overwritten below")
	require.NoError(t, os.WriteFile(
		filepath.Join(bad, "bench.yaml"), []byte("- 1\n- 2\n"), 0o644))

	defs, err := Discover(root, testLogger())
	require.NoError(t, err)
	require.Len(t, defs, 1)
	assert.Equal(t, "good", defs[0].Name)
}

func TestDiscoverMissingRoot(t *testing.T) {
	_, err := Discover(filepath.Join(t.TempDir(), "nope"), testLogger())
	assert.Error(t, err)
}

func TestResolve(t *testing.T) {
	root := t.TempDir()
	writeBenchmark(t, root, "uri_get", "HTTP GET requests")

	def, err := Resolve(root, "uri_get", testLogger())
	require.NoError(t, err)
	assert.Equal(t, "uri_get", def.Name)
}

func TestResolveNotFound(t *testing.T) {
	root := t.TempDir()
	writeBenchmark(t, root, "uri_get", "HTTP GET requests")

	_, err := Resolve(root, "does_not_exist", testLogger())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}
