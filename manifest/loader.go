package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/lixenwraith/ducky/asset"
	"github.com/lixenwraith/ducky/parameter"
)

// SourceEmbedded names the built-in manifest in Load results
const SourceEmbedded = "embedded"

// ErrConfigNotFound is returned when an explicitly requested manifest file does not exist
var ErrConfigNotFound = errors.New("config file not found")

// DefaultPath is the external manifest checked before the embedded one
func DefaultPath() string {
	return filepath.Join(parameter.DefaultConfigDir, parameter.DefaultConfigFile)
}

// LoadAuto loads the manifest with priority: customPath > DefaultPath > embedded
// Returns the manifest and where it came from
func LoadAuto(customPath string) (*Manifest, string, error) {
	// Priority 1: Custom path from CLI
	if customPath != "" {
		m, err := LoadFile(customPath)
		return m, customPath, err
	}

	// Priority 2: Default external config
	if path := DefaultPath(); fileExists(path) {
		m, err := LoadFile(path)
		return m, path, err
	}

	// Priority 3: Embedded fallback
	m, err := LoadEmbedded()
	return m, SourceEmbedded, err
}

// LoadFile reads and parses a manifest file
func LoadFile(path string) (*Manifest, error) {
	if !fileExists(path) {
		return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// LoadEmbedded parses the built-in manifest
func LoadEmbedded() (*Manifest, error) {
	m, err := Parse([]byte(asset.DefaultManifest))
	if err != nil {
		return nil, fmt.Errorf("embedded manifest: %w", err)
	}
	return m, nil
}

// fileExists checks if a file exists and is not a directory
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
