// Package config loads, normalizes, and validates otadocs configuration data.
//
// It supplies repository defaults (the Evolution X OTA repository, the
// LineageOS wiki image feed, the SourceForge mirror), expands user paths
// including tilde shortcuts, reads TOML files, and honours the
// OTADOCS_OUTPUT_DIR environment override. Relative output paths are anchored
// on paths.output_dir so the registry snapshot, images, and instruction tree
// always land together.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths and clear validation errors.
package config
