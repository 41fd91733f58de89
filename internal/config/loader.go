package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Format is a configuration file syntax.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatForPath picks the syntax from the file extension. Anything that is
// not .toml is read as YAML.
func FormatForPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return FormatTOML
	}
	return FormatYAML
}

// ParseFormat maps a name such as "yaml" or "toml" to a Format.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "yaml", "yml":
		return FormatYAML, nil
	case "toml":
		return FormatTOML, nil
	}
	return "", fmt.Errorf("config: unknown format %q", name)
}

// Load loads the trainer configuration and the path it came from.
// Search order: customPath -> ~/.nback/configs/nback.yaml -> ~/.nback/configs/nback.toml
// -> ./configs/nback.yaml -> embedded default. Each file overlays the defaults,
// so keys it leaves out keep their default values.
func Load(customPath string) (NBackConfig, string, error) {
	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return DefaultConfig(), "", fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		cfg, err := Decode(data, FormatForPath(customPath))
		if err != nil {
			return DefaultConfig(), "", fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, customPath, nil
	}

	candidates := userConfigPaths()
	candidates = append(candidates, filepath.Join("configs", "nback.yaml"))

	for _, path := range candidates {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		if cfg, err := Decode(data, FormatForPath(path)); err == nil {
			return cfg, path, nil
		}
	}

	// Use embedded default YAML
	cfg, err := Decode(defaultNBackYAML, FormatYAML)
	if err != nil {
		return DefaultConfig(), "", nil // Fallback to hardcoded if embed fails
	}
	return cfg, "embedded", nil
}

// Decode parses data on top of DefaultConfig.
func Decode(data []byte, format Format) (NBackConfig, error) {
	cfg := DefaultConfig()
	switch format {
	case FormatTOML:
		if _, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&cfg); err != nil {
			return DefaultConfig(), err
		}
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return DefaultConfig(), err
		}
	}
	return cfg, nil
}

// Encode renders cfg in the given syntax.
func Encode(cfg NBackConfig, format Format) ([]byte, error) {
	switch format {
	case FormatTOML:
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
			return nil, fmt.Errorf("config: encode toml: %w", err)
		}
		return buf.Bytes(), nil
	default:
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return nil, fmt.Errorf("config: encode yaml: %w", err)
		}
		return data, nil
	}
}

// userConfigPaths returns the user config files, or nil if home is unavailable.
func userConfigPaths() []string {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	dir := filepath.Join(home, ".nback", "configs")
	return []string{
		filepath.Join(dir, "nback.yaml"),
		filepath.Join(dir, "nback.toml"),
	}
}

// ExpandPath replaces a leading ~ with the user's home directory.
func ExpandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}

// EncodeGame renders the game section as YAML, the form the menu stores
// between sessions.
func EncodeGame(g GameSettings) (string, error) {
	data, err := yaml.Marshal(g)
	if err != nil {
		return "", fmt.Errorf("config: encode game: %w", err)
	}
	return string(data), nil
}

// DecodeGame parses a stored game section on top of base.
func DecodeGame(data string, base GameSettings) (GameSettings, error) {
	g := base
	if err := yaml.Unmarshal([]byte(data), &g); err != nil {
		return base, fmt.Errorf("config: decode game: %w", err)
	}
	return g, nil
}
