// Package assets embeds the bootstrap configuration written on first run.
package assets

import (
	_ "embed"
	"os"
)

// DefaultConfigYAML contains the embedded default configuration.
//
//go:embed defaults/config.yaml
var DefaultConfigYAML []byte

// WriteDefaultConfig writes the embedded configuration to path, readable
// only by the owner since it names API key variables.
func WriteDefaultConfig(path string) error {
	return os.WriteFile(path, DefaultConfigYAML, 0o600)
}
