package config

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	appDir         = "autorelease"
	projectDirName = ".autorelease"
	configFileName = "config.yml"
)

// UserConfigPath is config.yml under the OS user config directory,
// e.g. ~/.config/autorelease/config.yml on Linux.
func UserConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appDir, configFileName), nil
}

// ProjectConfigPath is .autorelease/config.yml under root. An empty root
// resolves against the working directory.
func ProjectConfigPath(root string) string {
	return filepath.Join(root, projectDirName, configFileName)
}

// LegacyUserConfigPath is the pre-YAML user config, ~/.autorelease/config.json.
func LegacyUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, projectDirName, "config.json"), nil
}

// legacyPathFor is the JSON file that sits next to a YAML config.
func legacyPathFor(yamlPath string) string {
	return strings.TrimSuffix(yamlPath, filepath.Ext(yamlPath)) + ".json"
}
