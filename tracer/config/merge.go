package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jdginn/go-raytracer/log"
)

var logger = log.New("config")

// readMaterialLibrary decodes a material library. The format follows the
// extension: .yaml / .yml as YAML, anything else as JSON.
func readMaterialLibrary(path string) (map[string]Material, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading materials file: %w", err)
	}

	var lib map[string]Material
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &lib)
	default:
		err = json.Unmarshal(data, &lib)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing materials file %s: %w", filepath.Base(path), err)
	}
	return lib, nil
}

// MergeMaterials adds the materials of FromFile to Inline. Inline
// definitions win.
func (m *Materials) MergeMaterials() error {
	if m.FromFile == "" {
		return nil
	}
	lib, err := readMaterialLibrary(m.FromFile)
	if err != nil {
		return err
	}

	if m.Inline == nil {
		m.Inline = make(map[string]Material, len(lib))
	}
	for name, material := range lib {
		if _, ok := m.Inline[name]; ok {
			logger.Debugf("inline material %q overrides %s", name, m.FromFile)
			continue
		}
		m.Inline[name] = material
	}
	logger.Infof("loaded %d material(s) from %s", len(lib), m.FromFile)
	return nil
}

// HasMaterial reports whether name is defined inline (after merging).
func (m *Materials) HasMaterial(name string) bool {
	_, exists := m.Inline[name]
	return exists
}

// LoadAndMerge pulls every referenced file into the config.
func (c *RenderConfig) LoadAndMerge() error {
	if err := c.Materials.MergeMaterials(); err != nil {
		return fmt.Errorf("merging materials: %w", err)
	}
	return nil
}
