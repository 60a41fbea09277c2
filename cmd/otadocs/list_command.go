package main

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"otadocs/internal/fileutil"
	"otadocs/internal/registry"
)

func newListCommand(ctx *commandContext) *cobra.Command {
	var branch string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show the devices recorded in the last registry snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			reg, err := registry.Load(cfg.Paths.RegistryFile)
			if err != nil {
				if errors.Is(err, fs.ErrNotExist) {
					return fmt.Errorf("no registry snapshot at %s; run otadocs with a token first", cfg.Paths.RegistryFile)
				}
				return err
			}

			branch = strings.TrimSpace(branch)
			rows := make([]deviceRow, 0, reg.Len())
			for _, device := range reg.Keys() {
				branches := reg.Branches(device)
				if branch != "" && !slices.Contains(branches, branch) {
					continue
				}
				pages := 0
				for _, b := range branches {
					if fileutil.FileExists(filepath.Join(cfg.Paths.InstructionsDir, filepath.FromSlash(b), device+".md")) {
						pages++
					}
				}
				rows = append(rows, deviceRow{
					Device:   device,
					Branches: strings.Join(branches, ", "),
					Image:    yesNo(fileutil.FileExists(filepath.Join(cfg.Paths.ImagesDir, device+".png"))),
					Pages:    fmt.Sprintf("%d/%d", pages, len(branches)),
				})
			}

			out := cmd.OutOrStdout()
			if len(rows) == 0 {
				if branch != "" {
					fmt.Fprintf(out, "No devices on branch %s\n", branch)
				} else {
					fmt.Fprintln(out, "Registry is empty")
				}
				return nil
			}
			fmt.Fprintln(out, renderDeviceTable(rows))
			fmt.Fprintf(out, "%d devices\n", len(rows))
			return nil
		},
	}

	cmd.Flags().StringVarP(&branch, "branch", "b", "", "Only show devices published on this branch")
	return cmd
}
