package config

const (
	defaultConfigPath          = "~/.config/otadocs/config.toml"
	projectConfigName          = "otadocs.toml"
	lockFileName               = ".otadocs.lock"
	defaultOutputDir           = "."
	defaultRegistryFile        = "devices.json"
	defaultImagesDir           = "images"
	defaultInstructionsDir     = "instructions"
	defaultAPIBaseURL          = "https://api.github.com"
	defaultRawBaseURL          = "https://raw.githubusercontent.com"
	defaultOTAOwner            = "Evolution-X"
	defaultOTARepo             = "OTA"
	defaultBuildsPath          = "builds"
	defaultMetadataExtension   = ".json"
	defaultUserAgent           = "otadocs"
	defaultAssetsBaseURL       = "https://raw.githubusercontent.com/LineageOS/lineage_wiki/refs/heads/main/images/devices"
	defaultDownloadURLTemplate = "https://sourceforge.net/projects/evolution-x/files/{device}/{version}/"
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			OutputDir:       defaultOutputDir,
			RegistryFile:    defaultRegistryFile,
			ImagesDir:       defaultImagesDir,
			InstructionsDir: defaultInstructionsDir,
		},
		OTA: OTA{
			APIBaseURL:        defaultAPIBaseURL,
			RawBaseURL:        defaultRawBaseURL,
			Owner:             defaultOTAOwner,
			Repo:              defaultOTARepo,
			BuildsPath:        defaultBuildsPath,
			MetadataExtension: defaultMetadataExtension,
			UserAgent:         defaultUserAgent,
		},
		Assets: Assets{
			BaseURL: defaultAssetsBaseURL,
		},
		Mirror: Mirror{
			DownloadURLTemplate: defaultDownloadURLTemplate,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
