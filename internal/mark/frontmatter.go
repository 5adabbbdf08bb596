// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package mark

import (
	"fmt"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/enexmark/internal/enex"
	"github.com/pdiddy/enexmark/pkg/types"
)

// metaEnvelope is the frontmatter block read from a markdown file. Tags may
// be a YAML list or a comma-separated string, so it decodes loosely.
type metaEnvelope struct {
	Title    string      `yaml:"title"`
	Created  string      `yaml:"created"`
	Updated  string      `yaml:"updated"`
	Tags     interface{} `yaml:"tags"`
	Author   string      `yaml:"author"`
	Source   string      `yaml:"source"`
	Notebook string      `yaml:"notebook"`
}

// tagList normalizes the tags field: a list passes through, a string is
// split on commas, anything else is dropped.
func (m metaEnvelope) tagList() []string {
	switch v := m.Tags.(type) {
	case []interface{}:
		var tags []string
		for _, item := range v {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				tags = append(tags, strings.TrimSpace(s))
			}
		}
		return tags
	case string:
		var tags []string
		for _, s := range strings.Split(v, ",") {
			if t := strings.TrimSpace(s); t != "" {
				tags = append(tags, t)
			}
		}
		return tags
	}
	return nil
}

// headerBlock is the serialized frontmatter written ahead of a body. Field
// order here is the order keys appear in the output.
type headerBlock struct {
	Title    string   `yaml:"title"`
	Created  string   `yaml:"created"`
	Updated  string   `yaml:"updated"`
	Tags     []string `yaml:"tags,omitempty"`
	Author   string   `yaml:"author,omitempty"`
	Source   string   `yaml:"source,omitempty"`
	Notebook string   `yaml:"notebook,omitempty"`
}

// serializeHeader renders the metadata block for a note, delimited by ---
// lines, followed by a blank line.
func serializeHeader(note *types.Note) (string, error) {
	block := headerBlock{
		Title:    note.Title,
		Created:  enex.FormatTime(note.Created),
		Updated:  enex.FormatTime(note.Updated),
		Tags:     note.Tags,
		Author:   note.Author,
		Source:   note.SourceURL,
		Notebook: note.Notebook,
	}

	out, err := yaml.Marshal(block)
	if err != nil {
		return "", fmt.Errorf("serializing metadata block: %w", err)
	}
	return "---\n" + string(out) + "---\n\n", nil
}
