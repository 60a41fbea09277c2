package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"otadocs/internal/config"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	configCmd.AddCommand(newConfigValidateCommand(ctx))
	configCmd.AddCommand(newConfigInitCommand())

	return configCmd
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Create a sample configuration file",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target := strings.TrimSpace(targetPath)
			if target == "" {
				defaultPath, err := config.DefaultConfigPath()
				if err != nil {
					return fmt.Errorf("determine default config path: %w", err)
				}
				target = defaultPath
			} else {
				expanded, err := config.ExpandPath(target)
				if err != nil {
					return fmt.Errorf("resolve config path: %w", err)
				}
				target = expanded
			}

			dir := filepath.Dir(target)
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create config directory %q: %w", dir, err)
			}

			if !overwrite {
				if _, err := os.Stat(target); err == nil {
					return fmt.Errorf("config file already exists at %s (use --overwrite to replace it)", target)
				} else if !os.IsNotExist(err) {
					return fmt.Errorf("check config path: %w", err)
				}
			}

			if err := config.CreateSample(target); err != nil {
				return fmt.Errorf("create sample config: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote sample configuration to %s\n", target)
			fmt.Fprintln(out, "Next steps:")
			fmt.Fprintln(out, "  - set paths.output_dir to the checkout that publishes devices.json, images/, and instructions/")
			fmt.Fprintln(out, "    (OTADOCS_OUTPUT_DIR overrides it for a single run)")
			fmt.Fprintln(out, "  - point mirror.download_url_template at your release mirror; it must keep {device} and {version}")
			fmt.Fprintln(out, "  - run `otadocs config validate`, then `otadocs <GITHUB_TOKEN>`")
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing configuration if present")
	return cmd
}

func newConfigValidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config path: %s\n", ctx.configPath)
			if !ctx.configSeen {
				fmt.Fprintln(out, "Config file did not exist; defaults were used")
			}
			fmt.Fprintf(out, "Output directory: %s\n", cfg.Paths.OutputDir)
			fmt.Fprintf(out, "  registry:     %s\n", cfg.Paths.RegistryFile)
			fmt.Fprintf(out, "  images:       %s\n", cfg.Paths.ImagesDir)
			fmt.Fprintf(out, "  instructions: %s\n", cfg.Paths.InstructionsDir)
			fmt.Fprintf(out, "OTA repository: %s/%s (%s/*%s)\n", cfg.OTA.Owner, cfg.OTA.Repo, cfg.OTA.BuildsPath, cfg.OTA.MetadataExtension)
			fmt.Fprintf(out, "Image feed: %s\n", cfg.Assets.BaseURL)
			fmt.Fprintf(out, "Mirror template: %s\n", cfg.Mirror.DownloadURLTemplate)
			if timeout := cfg.HTTPTimeout(); timeout > 0 {
				fmt.Fprintf(out, "HTTP timeout: %s\n", timeout)
			} else {
				fmt.Fprintln(out, "HTTP timeout: none")
			}
			fmt.Fprintln(out, "Configuration valid")
			return nil
		},
	}
}
