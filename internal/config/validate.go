package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateOTA(); err != nil {
		return err
	}
	if err := validateBaseURL("assets.base_url", c.Assets.BaseURL); err != nil {
		return err
	}
	if err := c.validateMirror(); err != nil {
		return err
	}
	if c.HTTP.TimeoutSeconds < 0 {
		return errors.New("http.timeout_seconds must be zero or positive")
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateOTA() error {
	if err := validateBaseURL("ota.api_base_url", c.OTA.APIBaseURL); err != nil {
		return err
	}
	if err := validateBaseURL("ota.raw_base_url", c.OTA.RawBaseURL); err != nil {
		return err
	}
	if c.OTA.Owner == "" {
		return errors.New("ota.owner must be set")
	}
	if c.OTA.Repo == "" {
		return errors.New("ota.repo must be set")
	}
	if strings.ContainsAny(c.OTA.Owner+c.OTA.Repo, "/ ") {
		return fmt.Errorf("ota.owner and ota.repo must be bare names, got %q/%q", c.OTA.Owner, c.OTA.Repo)
	}
	if c.OTA.MetadataExtension == "." {
		return errors.New("ota.metadata_extension must name an extension")
	}
	return nil
}

func (c *Config) validateMirror() error {
	tmpl := c.Mirror.DownloadURLTemplate
	if !strings.Contains(tmpl, "{device}") || !strings.Contains(tmpl, "{version}") {
		return fmt.Errorf("mirror.download_url_template must contain {device} and {version}, got %q", tmpl)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}

func validateBaseURL(field, value string) error {
	parsed, err := url.Parse(value)
	if err != nil {
		return fmt.Errorf("%s: %w", field, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("%s must be an http(s) URL, got %q", field, value)
	}
	if parsed.Host == "" {
		return fmt.Errorf("%s is missing a host: %q", field, value)
	}
	return nil
}
