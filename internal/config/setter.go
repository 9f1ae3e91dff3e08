package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrEmptyKeyPath is returned for an empty dotted key.
var ErrEmptyKeyPath = errors.New("config key path is empty")

// ParseKeyPath splits a dotted key ("summary.model") into its segments.
func ParseKeyPath(path string) ([]string, error) {
	if strings.TrimSpace(path) == "" {
		return nil, ErrEmptyKeyPath
	}
	parts := strings.Split(path, ".")
	for _, p := range parts {
		if p == "" {
			return nil, fmt.Errorf("invalid config key path %q", path)
		}
	}
	return parts, nil
}

// SetConfigValue validates value against the key schema and writes it into
// the YAML file at configPath, creating the file if needed. Existing keys,
// ordering and comments are preserved.
func SetConfigValue(configPath, key, value string) error {
	parsed, err := ValidateValue(key, value)
	if err != nil {
		return err
	}
	keyPath, err := ParseKeyPath(key)
	if err != nil {
		return err
	}

	var root yaml.Node
	data, err := os.ReadFile(configPath)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("reading config: %w", err)
	}
	if len(bytes.TrimSpace(data)) > 0 {
		if err := yaml.Unmarshal(data, &root); err != nil {
			return fmt.Errorf("parsing config %s: %w", configPath, err)
		}
	}

	if err := SetNestedValue(&root, keyPath, parsed.Parsed); err != nil {
		return err
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(4)
	if err := enc.Encode(&root); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(configPath, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// SetNestedValue sets keyPath to value inside a YAML document node, creating
// intermediate mappings as needed.
func SetNestedValue(root *yaml.Node, keyPath []string, value interface{}) error {
	if len(keyPath) == 0 {
		return ErrEmptyKeyPath
	}
	if root.Kind == 0 {
		root.Kind = yaml.DocumentNode
	}
	if root.Kind != yaml.DocumentNode {
		return fmt.Errorf("expected YAML document, got node kind %d", root.Kind)
	}
	if len(root.Content) == 0 {
		root.Content = []*yaml.Node{{Kind: yaml.MappingNode, Tag: "!!map"}}
	}

	node := root.Content[0]
	for i, key := range keyPath {
		if node.Kind != yaml.MappingNode {
			return fmt.Errorf("cannot set %s: %s is not a mapping", strings.Join(keyPath, "."), strings.Join(keyPath[:i], "."))
		}
		last := i == len(keyPath)-1

		child := lookup(node, key)
		if child == nil {
			child = &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
			node.Content = append(node.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}, child)
		}
		if last {
			var encoded yaml.Node
			if err := encoded.Encode(value); err != nil {
				return fmt.Errorf("encoding value for %s: %w", key, err)
			}
			encoded.HeadComment = child.HeadComment
			encoded.LineComment = child.LineComment
			*child = encoded
			return nil
		}
		node = child
	}
	return nil
}

// GetNestedValue returns the node at keyPath, or nil when absent.
func GetNestedValue(root *yaml.Node, keyPath []string) *yaml.Node {
	if root == nil || root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return nil
	}
	node := root.Content[0]
	for _, key := range keyPath {
		if node.Kind != yaml.MappingNode {
			return nil
		}
		if node = lookup(node, key); node == nil {
			return nil
		}
	}
	return node
}

func lookup(mapping *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key {
			return mapping.Content[i+1]
		}
	}
	return nil
}
