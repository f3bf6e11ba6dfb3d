package helpers

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/doeshing/tunemate-go/internal/app"
	configapp "github.com/doeshing/tunemate-go/internal/application/config"
	"github.com/doeshing/tunemate-go/internal/domain"
	configinfra "github.com/doeshing/tunemate-go/internal/infrastructure/config"
)

// GetConfigLoader returns the container's file loader.
func GetConfigLoader(container *app.Container) (*configinfra.FileLoader, error) {
	if container.ConfigLoader == nil {
		return nil, errors.New("config loader unavailable")
	}
	return container.ConfigLoader, nil
}

// SaveConfigWithValidation validates cfg, backs up the current file and saves.
func SaveConfigWithValidation(container *app.Container, cfg domain.Config) error {
	loader, err := GetConfigLoader(container)
	if err != nil {
		return err
	}

	if err := configapp.Validate(cfg); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	if err := createBackupIfExists(loader); err != nil {
		return err
	}

	if err := loader.Save(cfg); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	return nil
}

func createBackupIfExists(loader *configinfra.FileLoader) error {
	if _, err := os.Stat(loader.Path()); err == nil {
		if _, err := loader.Backup(); err != nil {
			return fmt.Errorf("failed to create configuration backup: %w", err)
		}
	}
	return nil
}

// ParseYAMLValue parses a string value as YAML, falling back to literal string
func ParseYAMLValue(input string) interface{} {
	var parsed interface{}
	if err := yaml.Unmarshal([]byte(input), &parsed); err != nil {
		return input
	}
	return parsed
}

// SetNestedMapValue sets a value by dotted key path. Numeric segments index
// into lists (models.0.max_tokens); scalars in the way are replaced by maps.
// An out-of-range index leaves root untouched.
func SetNestedMapValue(root map[string]interface{}, keyPath []string, value interface{}) bool {
	if len(keyPath) == 0 {
		return false
	}
	_, ok := setPath(root, keyPath, value)
	return ok
}

func setPath(node interface{}, keys []string, value interface{}) (interface{}, bool) {
	if len(keys) == 0 {
		return value, true
	}
	if list, isList := node.([]interface{}); isList {
		idx, err := strconv.Atoi(keys[0])
		if err != nil || idx < 0 || idx >= len(list) {
			return node, false
		}
		child, ok := setPath(list[idx], keys[1:], value)
		if !ok {
			return node, false
		}
		list[idx] = child
		return list, true
	}
	m, isMap := node.(map[string]interface{})
	if !isMap {
		m = map[string]interface{}{}
	}
	child, ok := setPath(m[keys[0]], keys[1:], value)
	if !ok {
		return node, false
	}
	m[keys[0]] = child
	return m, true
}

// TraverseNestedMap reads a value by key path, indexing lists on numeric segments.
func TraverseNestedMap(data interface{}, keyPath []string) (interface{}, bool) {
	if len(keyPath) == 0 {
		return data, true
	}
	switch node := data.(type) {
	case map[string]interface{}:
		next, exists := node[keyPath[0]]
		if !exists {
			return nil, false
		}
		return TraverseNestedMap(next, keyPath[1:])
	case []interface{}:
		idx, err := strconv.Atoi(keyPath[0])
		if err != nil || idx < 0 || idx >= len(node) {
			return nil, false
		}
		return TraverseNestedMap(node[idx], keyPath[1:])
	default:
		return nil, false
	}
}

// LoadPromptMessagesFromFile reads a YAML list of role/content messages.
func LoadPromptMessagesFromFile(path string) ([]domain.PromptMessage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompt file %s: %w", path, err)
	}

	var prompts []domain.PromptMessage
	if err := yaml.Unmarshal(data, &prompts); err != nil {
		return nil, fmt.Errorf("failed to parse prompt file %s: %w", path, err)
	}

	return prompts, nil
}

// RemoveModelFromList removes a model from the models list by name
// Returns the updated list and the index where it was found (-1 if not found)
func RemoveModelFromList(models []domain.ModelDefinition, name string) ([]domain.ModelDefinition, int) {
	for i, model := range models {
		if model.Name == name {
			return append(models[:i:i], models[i+1:]...), i
		}
	}
	return models, -1
}
