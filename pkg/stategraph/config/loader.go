package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jmallon/stategraph/pkg/stategraph/template"
)

// FromFile loads configuration from a file, detecting the format by
// extension. Supported extensions: .yaml, .yml, .json.
func FromFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return FromYAML(data)
	case ".json":
		return FromJSON(data)
	default:
		return Config{}, fmt.Errorf("unsupported config file extension: %s", ext)
	}
}

// FromYAML parses YAML data into a Config.
func FromYAML(data []byte) (Config, error) {
	var m map[string]any
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Config{}, fmt.Errorf("parse yaml: %w", err)
	}
	return New(m), nil
}

// FromJSON parses JSON data into a Config.
func FromJSON(data []byte) (Config, error) {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return Config{}, fmt.Errorf("parse json: %w", err)
	}
	return New(m), nil
}

// Expand returns a copy of the Config with ${name} and $name placeholders
// in string values substituted from vars, falling back to the process
// environment. Missing placeholders fail the call.
func (c Config) Expand(vars map[string]any) (Config, error) {
	exp := template.NewExpander(
		template.WithEnvFallback(true),
		template.WithMissingAction(template.MissingError),
	)
	expanded, err := exp.ExpandMap(c.data, vars)
	if err != nil {
		return Config{}, fmt.Errorf("expand config: %w", err)
	}
	return New(expanded), nil
}
