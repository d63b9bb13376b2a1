// Package registry discovers benchmark definitions on disk.
//
// A benchmark is a subdirectory of the benchmarks root containing a
// bench.yaml metadata file plus one entry point per side: playbook.yml
// for Ansible and ftl2_script.py for FTL2. Directories missing any of
// the three are not benchmarks and are skipped.
package registry

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	metadataFile  = "bench.yaml"
	playbookFile  = "playbook.yml"
	ftl2File      = "ftl2_script.py"
	inventoryFile = "inventory"
)

// ErrNotFound reports that no benchmark with the requested name exists.
var ErrNotFound = errors.New("benchmark not found")

// BenchmarkDefinition describes one discovered benchmark. Immutable
// after discovery.
type BenchmarkDefinition struct {
	Name        string
	Description string
	Dir         string
	Playbook    string
	FTL2Script  string
	Inventory   string // optional, empty when the benchmark has none
}

type metadata struct {
	Description string `yaml:"description"`
}

// Discover scans root and returns one definition per benchmark
// directory, ordered by name. Non-benchmark entries are skipped;
// a bench.yaml that fails to parse skips that directory with a
// warning rather than aborting discovery.
func Discover(root string, logger *slog.Logger) ([]BenchmarkDefinition, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("read benchmarks dir %s: %w", root, err)
	}

	var defs []BenchmarkDefinition

	// ReadDir returns entries sorted by filename, which fixes the
	// run and report order.
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		def, ok := load(filepath.Join(root, entry.Name()), entry.Name(), logger)
		if !ok {
			continue
		}

		defs = append(defs, def)
	}

	return defs, nil
}

// Resolve returns the single definition matching name.
func Resolve(root, name string, logger *slog.Logger) (BenchmarkDefinition, error) {
	defs, err := Discover(root, logger)
	if err != nil {
		return BenchmarkDefinition{}, err
	}

	for _, def := range defs {
		if def.Name == name {
			return def, nil
		}
	}

	return BenchmarkDefinition{}, fmt.Errorf("benchmark %q: %w", name, ErrNotFound)
}

func load(dir, name string, logger *slog.Logger) (BenchmarkDefinition, bool) {
	for _, required := range []string{metadataFile, playbookFile, ftl2File} {
		if _, err := os.Stat(filepath.Join(dir, required)); err != nil {
			logger.Debug("skipping directory",
				slog.String("dir", dir),
				slog.String("missing", required),
			)

			return BenchmarkDefinition{}, false
		}
	}

	raw, err := os.ReadFile(filepath.Join(dir, metadataFile))
	if err != nil {
		logger.Warn("skipping benchmark: unreadable metadata",
			slog.String("dir", dir),
			slog.String("error", err.Error()),
		)

		return BenchmarkDefinition{}, false
	}

	var meta metadata
	if err := yaml.Unmarshal(raw, &meta); err != nil {
		logger.Warn("skipping benchmark: bad metadata",
			slog.String("dir", dir),
			slog.String("error", err.Error()),
		)

		return BenchmarkDefinition{}, false
	}

	description := meta.Description
	if description == "" {
		description = name
	}

	def := BenchmarkDefinition{
		Name:        name,
		Description: description,
		Dir:         dir,
		Playbook:    filepath.Join(dir, playbookFile),
		FTL2Script:  filepath.Join(dir, ftl2File),
	}

	if _, err := os.Stat(filepath.Join(dir, inventoryFile)); err == nil {
		def.Inventory = filepath.Join(dir, inventoryFile)
	}

	return def, true
}
