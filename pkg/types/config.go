// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings for stages that fetch remote resources.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "enexmark/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// UnpackConfig holds settings for the ENEX-to-Markdown direction.
type UnpackConfig struct {
	// OutputDir is the directory that receives the .md files and the
	// assets subdirectory.
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// AssetsDirName is the name of the resource subdirectory created
	// inside OutputDir (default "assets").
	AssetsDirName string `json:"assets_dir_name" yaml:"assets_dir_name"`

	// UseManifest enables the sqlite conversion manifest inside OutputDir,
	// which lets re-runs skip notes whose content is unchanged.
	UseManifest bool `json:"use_manifest" yaml:"use_manifest"`
}

// PackConfig holds settings for the Markdown-to-ENEX direction.
type PackConfig struct {
	HTTPConfig `yaml:",inline"`

	// OutputFile is the path of the ENEX document to write.
	OutputFile string `json:"output_file" yaml:"output_file"`

	// ResourceDirs lists extra directories searched for referenced
	// resource files, after the markdown file's own directory and the
	// conventional asset subdirectories.
	ResourceDirs []string `json:"resource_dirs,omitempty" yaml:"resource_dirs,omitempty"`

	// FetchRemote enables downloading resources referenced by http(s) URL.
	FetchRemote bool `json:"fetch_remote" yaml:"fetch_remote"`

	// Author is recorded on notes that carry no author of their own.
	Author string `json:"author,omitempty" yaml:"author,omitempty"`
}
