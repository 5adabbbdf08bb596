package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/enexmark/internal/convert"
	"github.com/pdiddy/enexmark/pkg/types"
)

var packCmd = &cobra.Command{
	Use:   "pack [files-or-dirs...]",
	Short: "Bundle Markdown files into an ENEX document",
	Long: `Pack parses Markdown files (directories are searched recursively for
.md files), loads the resources their bodies reference, and writes a single
ENEX document. Resources are looked up next to each file, in conventional
asset subdirectories, and in any extra --resource-dir paths. References
that resolve nowhere stay as literal text with a warning.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := types.PackConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   viper.GetDuration("http.timeout"),
				UserAgent: "enexmark/" + version,
			},
			OutputFile: flagOrConfig(cmd, "out", "pack.output_file", "notes.enex"),
			Author:     flagOrConfig(cmd, "author", "pack.author", ""),
		}
		cfg.ResourceDirs, _ = cmd.Flags().GetStringArray("resource-dir")
		cfg.FetchRemote, _ = cmd.Flags().GetBool("fetch-remote")
		if cfg.Timeout <= 0 {
			cfg.Timeout = 30 * time.Second
		}

		files, err := convert.CollectMarkdownFiles(args)
		if err != nil {
			return err
		}
		if len(files) == 0 {
			return fmt.Errorf("no markdown files found")
		}

		result, err := convert.Pack(cmd.Context(), files, cfg, log, os.Stdout)
		if err != nil {
			return err
		}
		if result.HasFailures() {
			return fmt.Errorf("%d of %d files failed", result.Failed, result.Total())
		}
		return nil
	},
}

func init() {
	packCmd.Flags().String("out", "", "output ENEX file (default \"notes.enex\")")
	packCmd.Flags().StringArray("resource-dir", nil, "extra directory searched for referenced resources (repeatable)")
	packCmd.Flags().Bool("fetch-remote", false, "download resources referenced by http(s) URL")
	packCmd.Flags().String("author", "", "author recorded on notes that have none")

	rootCmd.AddCommand(packCmd)
}
