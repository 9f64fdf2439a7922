// Package catalog loads and validates the versioned rule and control
// catalogs the decision core runs against.
package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/steph544/compliance-app-sub001/internal/core"
	"github.com/steph544/compliance-app-sub001/internal/validation"
)

// Bundle is one loaded catalog generation: the declarative rules plus the
// control reference data they select from.
type Bundle struct {
	Version  string         `yaml:"version"`
	Rules    []core.Rule    `yaml:"rules"`
	Controls []core.Control `yaml:"controls"`
}

// Validate checks the bundle and returns the indexed control catalog.
func (b *Bundle) Validate() (map[string]core.Control, error) {
	controls, err := validation.ValidateControls(b.Controls)
	if err != nil {
		return nil, fmt.Errorf("validating controls: %w", err)
	}

	known := make(map[string]struct{}, len(controls))
	for id := range controls {
		known[id] = struct{}{}
	}

	validRules, err := validation.ValidateRules(b.Rules, known)
	if err != nil {
		return nil, fmt.Errorf("validating rules: %w", err)
	}
	b.Rules = validRules

	return controls, nil
}

// Load reads a catalog from a YAML file or from a directory of YAML files.
// Directory files are merged in lexical order so rule ordering within equal
// priorities stays reproducible.
func Load(path string) (*Bundle, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog path: %w", err)
	}

	var files []string
	if info.IsDir() {
		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, fmt.Errorf("reading catalog directory: %w", err)
		}
		for _, entry := range entries {
			name := entry.Name()
			if entry.IsDir() || (!strings.HasSuffix(name, ".yaml") && !strings.HasSuffix(name, ".yml")) {
				continue
			}
			files = append(files, filepath.Join(path, name))
		}
		slices.Sort(files)
		if len(files) == 0 {
			return nil, fmt.Errorf("no catalog files found in %s", path)
		}
	} else {
		files = []string{path}
	}

	var bundle Bundle
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("reading catalog file %s: %w", file, err)
		}
		var partial Bundle
		if err := yaml.Unmarshal(data, &partial); err != nil {
			return nil, fmt.Errorf("parsing catalog file %s: %w", file, err)
		}
		bundle.Rules = append(bundle.Rules, partial.Rules...)
		bundle.Controls = append(bundle.Controls, partial.Controls...)
		if partial.Version != "" {
			bundle.Version = partial.Version
		}
	}

	return &bundle, nil
}

// Parse unmarshals a single catalog document from memory. Used by remote
// catalog sources that fetch file contents themselves.
func Parse(data []byte) (*Bundle, error) {
	var bundle Bundle
	if err := yaml.Unmarshal(data, &bundle); err != nil {
		return nil, fmt.Errorf("parsing catalog document: %w", err)
	}
	return &bundle, nil
}
