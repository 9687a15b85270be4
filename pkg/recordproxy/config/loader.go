package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads a .yaml, .yml or .json document from path.
func Load(path string) (Config, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml", ".json":
	default:
		return Config{}, fmt.Errorf("unsupported document type %q", ext)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes a YAML document. JSON is accepted as the YAML subset it is.
func Parse(data []byte) (Config, error) {
	var values map[string]any
	if err := yaml.Unmarshal(data, &values); err != nil {
		return Config{}, fmt.Errorf("decode document: %w", err)
	}
	return New(values), nil
}
