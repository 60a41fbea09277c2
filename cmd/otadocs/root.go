package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"otadocs/internal/pipeline"
	"otadocs/internal/services"
)

func newRootCommand() *cobra.Command {
	var configFlag string

	ctx := newCommandContext(&configFlag)

	rootCmd := &cobra.Command{
		Use:   "otadocs <GITHUB_TOKEN>",
		Short: "Generate the Evolution-X device registry, images, and flashing instructions",
		Long: "otadocs reads build metadata from the Evolution-X OTA repository, writes a\n" +
			"device registry snapshot, downloads missing device images, and renders a\n" +
			"Markdown installation page per device and branch.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          tokenArg,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			runCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()
			return pipeline.Run(runCtx, cfg, args[0], logger, pipeline.WithOutput(cmd.OutOrStdout()))
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return services.Wrap(services.ErrUsage, "", "", cmd.UseLine(), err)
	})

	rootCmd.AddCommand(newConfigCommand(ctx))
	rootCmd.AddCommand(newListCommand(ctx))

	return rootCmd
}

func tokenArg(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return services.Wrap(services.ErrUsage, "", "", fmt.Sprintf("usage: %s", cmd.UseLine()), nil)
	}
	return nil
}
