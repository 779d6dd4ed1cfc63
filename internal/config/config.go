// Package config resolves where letsdo keeps its history log and running-task
// marker. Settings come from an optional YAML file, by default ~/.letsdo.
// When the file is absent both files live in the home directory; when it is
// present it must name both directories.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rezmoss/letsdo/internal/store/file"
)

const (
	// DefaultConfigFile is the config file name in the home directory.
	DefaultConfigFile = ".letsdo"

	// EnvConfig overrides the config file location.
	EnvConfig = "LETSDO_CONFIG"
)

// Config is the resolved configuration.
type Config struct {
	// DataPath is the full path of the history log.
	DataPath string

	// TaskPath is the full path of the running-task marker.
	TaskPath string

	// LogLevel is the diagnostics level (debug, info, warn, error).
	LogLevel string
}

// fileConfig mirrors the YAML document.
type fileConfig struct {
	DataPath      string `yaml:"datapath"`
	DataDirectory string `yaml:"DATA_DIRECTORY"`
	TaskPath      string `yaml:"taskpath"`
	LogLevel      string `yaml:"log_level"`
}

// Path returns the config file to read: flag, then $LETSDO_CONFIG, then
// ~/.letsdo.
func Path(flag string) (string, error) {
	if p := strings.TrimSpace(flag); p != "" {
		return expand(p)
	}
	if p := strings.TrimSpace(os.Getenv(EnvConfig)); p != "" {
		return expand(p)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home directory: %w", err)
	}
	return filepath.Join(home, DefaultConfigFile), nil
}

// Defaults places both files in the home directory.
func Defaults() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("home directory: %w", err)
	}
	return &Config{
		DataPath: filepath.Join(home, file.DataFile),
		TaskPath: filepath.Join(home, file.TaskFile),
		LogLevel: "warn",
	}, nil
}

// Load reads the config file at path. A missing file yields Defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Defaults()
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	dataDir := fc.DataPath
	if dataDir == "" {
		dataDir = fc.DataDirectory
	}
	var missing []string
	if strings.TrimSpace(dataDir) == "" {
		missing = append(missing, "datapath")
	}
	if strings.TrimSpace(fc.TaskPath) == "" {
		missing = append(missing, "taskpath")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%s: missing %s", path, strings.Join(missing, ", "))
	}

	dataDir, err = expand(dataDir)
	if err != nil {
		return nil, err
	}
	taskDir, err := expand(fc.TaskPath)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		DataPath: filepath.Join(dataDir, file.DataFile),
		TaskPath: filepath.Join(taskDir, file.TaskFile),
		LogLevel: fc.LogLevel,
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "warn"
	}
	return cfg, nil
}

// expand resolves a leading ~ to the home directory.
func expand(p string) (string, error) {
	p = strings.TrimSpace(p)
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return filepath.Clean(p), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("expand %s: %w", p, err)
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~")), nil
}
