package config

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Environment variables that carry a complete configuration, for deployments
// where an orchestrator or CI job hands the generator its settings. JSON wins
// when both are set.
const (
	EnvJSON    = "TERRAINGEN_CONFIG_JSON"
	EnvYAMLB64 = "TERRAINGEN_CONFIG_YAML_B64"
)

// LoadEnv resolves the configuration for a run. Without an environment
// payload it behaves like Load(path). A payload is decoded on top of the
// defaults, validated and takes precedence over the file; when path is set the
// result is written there so later runs without the environment see the same
// settings.
func LoadEnv(path string, getenv func(string) string) (*Config, error) {
	if getenv == nil {
		getenv = os.Getenv
	}
	jsonPayload := getenv(EnvJSON)
	yamlPayload := getenv(EnvYAMLB64)
	if jsonPayload == "" && yamlPayload == "" {
		return Load(path)
	}

	cfg := Default()
	if jsonPayload != "" {
		if err := decode(cfg, []byte(jsonPayload), false); err != nil {
			return nil, fmt.Errorf("%s: %w", EnvJSON, err)
		}
	} else {
		data, err := base64.StdEncoding.DecodeString(yamlPayload)
		if err != nil {
			return nil, fmt.Errorf("%s: decode base64: %w", EnvYAMLB64, err)
		}
		if err := decode(cfg, data, true); err != nil {
			return nil, fmt.Errorf("%s: %w", EnvYAMLB64, err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate environment config: %w", err)
	}

	if path != "" {
		if err := Save(path, cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// Save writes cfg to path, as YAML for .yaml/.yml files and indented JSON
// otherwise. Missing parent directories are created.
func Save(path string, cfg *Config) error {
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(cfg)
	} else {
		data, err = json.MarshalIndent(cfg, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
