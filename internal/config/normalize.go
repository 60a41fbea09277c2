package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeOTA()
	c.normalizeAssets()
	c.normalizeLogging()
	c.Mirror.DownloadURLTemplate = strings.TrimSpace(c.Mirror.DownloadURLTemplate)
	if c.Mirror.DownloadURLTemplate == "" {
		c.Mirror.DownloadURLTemplate = defaultDownloadURLTemplate
	}
	return nil
}

func (c *Config) normalizePaths() error {
	if value, ok := os.LookupEnv("OTADOCS_OUTPUT_DIR"); ok && strings.TrimSpace(value) != "" {
		c.Paths.OutputDir = strings.TrimSpace(value)
	}
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		c.Paths.OutputDir = defaultOutputDir
	}

	var err error
	if c.Paths.OutputDir, err = expandPath(strings.TrimSpace(c.Paths.OutputDir)); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.RegistryFile) == "" {
		c.Paths.RegistryFile = defaultRegistryFile
	}
	if c.Paths.RegistryFile, err = resolveUnder(c.Paths.OutputDir, c.Paths.RegistryFile); err != nil {
		return fmt.Errorf("paths.registry_file: %w", err)
	}
	if strings.TrimSpace(c.Paths.ImagesDir) == "" {
		c.Paths.ImagesDir = defaultImagesDir
	}
	if c.Paths.ImagesDir, err = resolveUnder(c.Paths.OutputDir, c.Paths.ImagesDir); err != nil {
		return fmt.Errorf("paths.images_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.InstructionsDir) == "" {
		c.Paths.InstructionsDir = defaultInstructionsDir
	}
	if c.Paths.InstructionsDir, err = resolveUnder(c.Paths.OutputDir, c.Paths.InstructionsDir); err != nil {
		return fmt.Errorf("paths.instructions_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) != "" {
		if c.Paths.LogDir, err = resolveUnder(c.Paths.OutputDir, c.Paths.LogDir); err != nil {
			return fmt.Errorf("paths.log_dir: %w", err)
		}
	}
	return nil
}

func (c *Config) normalizeOTA() {
	c.OTA.APIBaseURL = strings.TrimRight(strings.TrimSpace(c.OTA.APIBaseURL), "/")
	if c.OTA.APIBaseURL == "" {
		c.OTA.APIBaseURL = defaultAPIBaseURL
	}
	c.OTA.RawBaseURL = strings.TrimRight(strings.TrimSpace(c.OTA.RawBaseURL), "/")
	if c.OTA.RawBaseURL == "" {
		c.OTA.RawBaseURL = defaultRawBaseURL
	}
	c.OTA.Owner = strings.TrimSpace(c.OTA.Owner)
	c.OTA.Repo = strings.TrimSpace(c.OTA.Repo)
	c.OTA.BuildsPath = strings.Trim(strings.TrimSpace(c.OTA.BuildsPath), "/")
	if c.OTA.BuildsPath == "" {
		c.OTA.BuildsPath = defaultBuildsPath
	}
	c.OTA.MetadataExtension = strings.ToLower(strings.TrimSpace(c.OTA.MetadataExtension))
	if c.OTA.MetadataExtension == "" {
		c.OTA.MetadataExtension = defaultMetadataExtension
	} else if !strings.HasPrefix(c.OTA.MetadataExtension, ".") {
		c.OTA.MetadataExtension = "." + c.OTA.MetadataExtension
	}
	c.OTA.UserAgent = strings.TrimSpace(c.OTA.UserAgent)
	if c.OTA.UserAgent == "" {
		c.OTA.UserAgent = defaultUserAgent
	}
}

func (c *Config) normalizeAssets() {
	c.Assets.BaseURL = strings.TrimRight(strings.TrimSpace(c.Assets.BaseURL), "/")
	if c.Assets.BaseURL == "" {
		c.Assets.BaseURL = defaultAssetsBaseURL
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
