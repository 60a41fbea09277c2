package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains output locations. Relative entries other than OutputDir are
// resolved against OutputDir.
type Paths struct {
	OutputDir       string `toml:"output_dir"`
	RegistryFile    string `toml:"registry_file"`
	ImagesDir       string `toml:"images_dir"`
	InstructionsDir string `toml:"instructions_dir"`
	LogDir          string `toml:"log_dir"`
}

// OTA describes the upstream build-metadata repository.
type OTA struct {
	APIBaseURL        string `toml:"api_base_url"`
	RawBaseURL        string `toml:"raw_base_url"`
	Owner             string `toml:"owner"`
	Repo              string `toml:"repo"`
	BuildsPath        string `toml:"builds_path"`
	MetadataExtension string `toml:"metadata_extension"`
	UserAgent         string `toml:"user_agent"`
}

// Assets describes the secondary device image feed.
type Assets struct {
	BaseURL string `toml:"base_url"`
}

// Mirror controls the download link written into instruction documents.
// The template understands the {device} and {version} placeholders.
type Mirror struct {
	DownloadURLTemplate string `toml:"download_url_template"`
}

// HTTP contains transport settings shared by every upstream client.
type HTTP struct {
	// TimeoutSeconds of zero leaves the transport default in place (no client timeout).
	TimeoutSeconds int `toml:"timeout_seconds"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for otadocs.
//
// Configuration sections:
//   - Paths: output tree (registry snapshot, images, instructions) and logs
//   - OTA: upstream branch/device/descriptor endpoints
//   - Assets: secondary image feed
//   - Mirror: download link template for instruction documents
//   - HTTP: client timeout
//   - Logging: log format and level
type Config struct {
	Paths   Paths   `toml:"paths"`
	OTA     OTA     `toml:"ota"`
	Assets  Assets  `toml:"assets"`
	Mirror  Mirror  `toml:"mirror"`
	HTTP    HTTP    `toml:"http"`
	Logging Logging `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized. A missing file is not an error; defaults apply.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config %s: %w", resolvedPath, err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs(projectConfigName)
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the output tree used by a run.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.OutputDir, c.Paths.ImagesDir, c.Paths.InstructionsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	if strings.TrimSpace(c.Paths.LogDir) != "" {
		if err := os.MkdirAll(c.Paths.LogDir, 0o755); err != nil {
			return fmt.Errorf("create log directory %q: %w", c.Paths.LogDir, err)
		}
	}
	return nil
}

// HTTPTimeout returns the configured client timeout. Zero means none.
func (c *Config) HTTPTimeout() time.Duration {
	if c.HTTP.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(c.HTTP.TimeoutSeconds) * time.Second
}

// LockPath returns the lock file guarding the output tree.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.OutputDir, lockFileName)
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// resolveUnder expands ~ and joins relative values onto base.
func resolveUnder(base, pathValue string) (string, error) {
	pathValue = strings.TrimSpace(pathValue)
	if pathValue == "" {
		return base, nil
	}
	if strings.HasPrefix(pathValue, "~") || filepath.IsAbs(pathValue) {
		return expandPath(pathValue)
	}
	return filepath.Clean(filepath.Join(base, pathValue)), nil
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
