// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package mark

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/enexmark/pkg/types"
)

func TestTagList(t *testing.T) {
	tests := []struct {
		name string
		tags interface{}
		want []string
	}{
		{"yaml list", []interface{}{"a", " b ", ""}, []string{"a", "b"}},
		{"comma string", "x, y,z", []string{"x", "y", "z"}},
		{"absent", nil, nil},
		{"unsupported shape", 42, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := metaEnvelope{Tags: tt.tags}
			assert.Equal(t, tt.want, m.tagList())
		})
	}
}

func TestSerializeHeader(t *testing.T) {
	note := &types.Note{
		Title:   "Trip Notes",
		Created: time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC),
		Updated: time.Date(2024, 3, 16, 10, 0, 0, 0, time.UTC),
		Tags:    []string{"travel"},
	}

	got, err := serializeHeader(note)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(got, "---\n"))
	assert.True(t, strings.HasSuffix(got, "---\n\n"))
	assert.Contains(t, got, "title: Trip Notes")
	assert.Contains(t, got, "created: 20240315T093000Z")
	assert.Contains(t, got, "updated: 20240316T100000Z")

	// Optional fields stay out of the block when empty.
	assert.NotContains(t, got, "author:")
	assert.NotContains(t, got, "source:")
	assert.NotContains(t, got, "notebook:")

	// Title precedes the timestamps.
	assert.Less(t, strings.Index(got, "title:"), strings.Index(got, "created:"))
}

func TestFragmentRoundTrip(t *testing.T) {
	body, err := ParseFragment(`<div>hello <en-media hash="aa" type="image/png"></en-media></div>`)
	require.NoError(t, err)

	out, err := RenderFragment(body)
	require.NoError(t, err)
	assert.Contains(t, out, "<div>hello ")
	assert.Contains(t, out, `<en-media hash="aa" type="image/png">`)
}
