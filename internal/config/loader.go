package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".crawlbound"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// LoadConfigFile loads per-host crawl profiles from a YAML file.
// If the file does not exist, it returns ErrConfigNotFound; callers
// decide whether that matters based on whether the path was explicitly
// specified by the user.
//
// Unknown keys are rejected. A typo like "exclue_patterns" silently
// widening a crawl is worse than a hard error at startup.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var cf File
	if err := dec.Decode(&cf); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	if cf.Hosts == nil {
		cf.Hosts = make(map[string]HostProfile)
	}
	return &cf, nil
}

// FindConfigFile searches for the configuration file in order:
// the explicit path if given, then .crawlbound in the current directory,
// then .crawlbound in the user's home directory.
//
// Returns the path if found, or empty string if not.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	cwd, err := os.Getwd()
	if err == nil {
		cwdConfig := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(cwdConfig); err == nil {
			return cwdConfig
		}
	}

	home, err := os.UserHomeDir()
	if err == nil {
		homeConfig := filepath.Join(home, DefaultConfigFile)
		if _, err := os.Stat(homeConfig); err == nil {
			return homeConfig
		}
	}

	return ""
}
