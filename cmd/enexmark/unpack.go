package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/enexmark/internal/convert"
	"github.com/pdiddy/enexmark/internal/mark"
	"github.com/pdiddy/enexmark/pkg/types"
)

var unpackCmd = &cobra.Command{
	Use:   "unpack [files.enex...]",
	Short: "Convert ENEX exports to Markdown files",
	Long: `Unpack reads ENEX export files and writes one Markdown file per note,
with attachments decoded into an assets subdirectory next to the notes.
Malformed note records are skipped with a warning; a structurally broken
ENEX document fails that file and the batch continues.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := types.UnpackConfig{
			OutputDir:     flagOrConfig(cmd, "out", "unpack.output_dir", "notes"),
			AssetsDirName: flagOrConfig(cmd, "assets-dir", "unpack.assets_dir", mark.DefaultAssetsDir),
		}
		cfg.UseManifest, _ = cmd.Flags().GetBool("manifest")

		result, err := convert.Unpack(args, cfg, log, os.Stdout)
		if err != nil {
			return err
		}
		if result.HasFailures() {
			return fmt.Errorf("%d of %d notes failed", result.Failed, result.Total())
		}
		return nil
	},
}

func init() {
	unpackCmd.Flags().String("out", "", "output directory for markdown files (default \"notes\")")
	unpackCmd.Flags().String("assets-dir", "", "name of the resource subdirectory (default \"assets\")")
	unpackCmd.Flags().Bool("manifest", false, "track conversions in a manifest and skip unchanged notes")

	rootCmd.AddCommand(unpackCmd)
}

// flagOrConfig resolves a string setting: explicit flag, then config file,
// then the built-in default.
func flagOrConfig(cmd *cobra.Command, flag, key, fallback string) string {
	if v, _ := cmd.Flags().GetString(flag); v != "" {
		return v
	}
	if v := viper.GetString(key); v != "" {
		return v
	}
	return fallback
}
