package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// MigrationResult reports what a JSON to YAML migration did or would do.
type MigrationResult struct {
	SourcePath string
	TargetPath string
	Success    bool
	DryRun     bool
	Message    string
}

const migratedHeader = "# Autorelease Configuration\n# Migrated from JSON format\n\n"

// MigrateJSONToYAML rewrites the legacy JSON config at jsonPath as YAML at
// yamlPath and keeps the original as jsonPath.bak. An existing YAML file
// wins and is left alone, as is a missing JSON file.
func MigrateJSONToYAML(jsonPath, yamlPath string, dryRun bool) (*MigrationResult, error) {
	res := &MigrationResult{SourcePath: jsonPath, TargetPath: yamlPath, DryRun: dryRun}

	raw, err := os.ReadFile(jsonPath)
	switch {
	case os.IsNotExist(err):
		res.Message = "No JSON config found at " + jsonPath
		return res, nil
	case err != nil:
		return nil, fmt.Errorf("reading %s: %w", jsonPath, err)
	}

	var values map[string]any
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", jsonPath, err)
	}
	if fileExists(yamlPath) {
		res.Message = fmt.Sprintf("%s already exists (skipped %s)", yamlPath, jsonPath)
		return res, nil
	}

	res.Success = true
	if dryRun {
		res.Message = fmt.Sprintf("Would migrate %s to %s", jsonPath, yamlPath)
		return res, nil
	}
	if err := writeMigrated(yamlPath, values); err != nil {
		return nil, err
	}
	if err := os.Rename(jsonPath, jsonPath+".bak"); err != nil {
		return nil, fmt.Errorf("keeping %s as backup: %w", jsonPath, err)
	}
	res.Message = fmt.Sprintf("Migrated %s to %s (original kept as %s.bak)", jsonPath, yamlPath, filepath.Base(jsonPath))
	return res, nil
}

func writeMigrated(path string, values map[string]any) error {
	out, err := yaml.Marshal(values)
	if err != nil {
		return fmt.Errorf("encoding YAML: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, append([]byte(migratedHeader), out...), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// MigrateUserConfig migrates ~/.autorelease/config.json to the user config.yml.
func MigrateUserConfig(dryRun bool) (*MigrationResult, error) {
	jsonPath, err := LegacyUserConfigPath()
	if err != nil {
		return nil, fmt.Errorf("locating legacy user config: %w", err)
	}
	yamlPath, err := UserConfigPath()
	if err != nil {
		return nil, fmt.Errorf("locating user config: %w", err)
	}
	return MigrateJSONToYAML(jsonPath, yamlPath, dryRun)
}

// MigrateProjectConfig migrates .autorelease/config.json under root.
func MigrateProjectConfig(root string, dryRun bool) (*MigrationResult, error) {
	yamlPath := ProjectConfigPath(root)
	return MigrateJSONToYAML(legacyPathFor(yamlPath), yamlPath, dryRun)
}
