package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// UserFile returns the path of the per-user config file.
func UserFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// Save writes the config to UserFile, where Load finds it when the working
// directory has no propscatter.yaml.
func (c *Config) Save() error {
	return c.SaveTo(UserFile())
}

// SaveTo writes the config as YAML to path, creating parent directories.
func (c *Config) SaveTo(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
