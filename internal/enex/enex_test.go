// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package enex

import (
	"bytes"
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/pdiddy/enexmark/internal/logger"
	"github.com/pdiddy/enexmark/internal/resource"
	"github.com/pdiddy/enexmark/pkg/types"
)

func TestParseTime(t *testing.T) {
	fallback := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		in   string
		want time.Time
	}{
		{"valid timestamp", "20240315T093000Z", time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC)},
		{"empty falls back", "", fallback},
		{"malformed falls back", "2024-03-15", fallback},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseTime(tt.in, fallback); !got.Equal(tt.want) {
				t.Errorf("ParseTime(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormatTimeUTC(t *testing.T) {
	loc := time.FixedZone("plus2", 2*3600)
	in := time.Date(2024, 3, 15, 11, 30, 0, 0, loc)
	if got := FormatTime(in); got != "20240315T093000Z" {
		t.Errorf("FormatTime = %q, want 20240315T093000Z", got)
	}
}

const sampleDoc = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE en-export SYSTEM "http://xml.evernote.com/pub/evernote-export3.dtd">
<en-export export-date="20240401T000000Z" application="Evernote" version="10.0">
  <note>
    <title>Trip Notes</title>
    <content><![CDATA[<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE en-note SYSTEM "http://xml.evernote.com/pub/enml2.dtd">
<en-note><div>Hello</div></en-note>]]></content>
    <created>20240315T093000Z</created>
    <updated>20240316T100000Z</updated>
    <tag>travel</tag>
    <tag>2024</tag>
    <note-attributes>
      <author>Ann</author>
      <source-url>https://example.com/src</source-url>
    </note-attributes>
    <resource>
      <data encoding="base64" hash="cafebabe">aGVsbG8gd29ybGQ=</data>
      <mime>application/pdf</mime>
      <width>120</width>
      <height>80</height>
      <resource-attributes>
        <file-name>doc.pdf</file-name>
      </resource-attributes>
    </resource>
  </note>
  <note>
    <title></title>
    <content><![CDATA[<en-note>second</en-note>]]></content>
  </note>
</en-export>
`

func newTestReader() *Reader {
	log := logger.Discard()
	return NewReader(resource.NewStore(log), log)
}

func TestReadDocument(t *testing.T) {
	notes, skipped, err := newTestReader().Read(strings.NewReader(sampleDoc))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if skipped != 0 {
		t.Errorf("skipped = %d, want 0", skipped)
	}
	if len(notes) != 2 {
		t.Fatalf("notes = %d, want 2", len(notes))
	}

	n := notes[0]
	if n.Title != "Trip Notes" {
		t.Errorf("title = %q", n.Title)
	}
	if want := time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC); !n.Created.Equal(want) {
		t.Errorf("created = %v, want %v", n.Created, want)
	}
	if len(n.Tags) != 2 || n.Tags[0] != "travel" || n.Tags[1] != "2024" {
		t.Errorf("tags = %v", n.Tags)
	}
	if n.Author != "Ann" || n.SourceURL != "https://example.com/src" {
		t.Errorf("attributes = %q / %q", n.Author, n.SourceURL)
	}
	if !strings.Contains(n.Body, "<div>Hello</div>") {
		t.Errorf("body = %q", n.Body)
	}

	if len(n.Resources) != 1 {
		t.Fatalf("resources = %d, want 1", len(n.Resources))
	}
	r := n.Resources[0]
	if string(r.Data) != "hello world" {
		t.Errorf("resource data = %q", r.Data)
	}
	if r.Hash != "cafebabe" {
		t.Errorf("resource hash = %q, want declared hash", r.Hash)
	}
	if r.Mime != "application/pdf" || r.FileName != "doc.pdf" {
		t.Errorf("resource mime/name = %q / %q", r.Mime, r.FileName)
	}
	if r.Width != 120 || r.Height != 80 {
		t.Errorf("resource dims = %dx%d, want 120x80", r.Width, r.Height)
	}

	// Second note has no title: the fallback applies.
	if notes[1].Title != "Untitled" {
		t.Errorf("title = %q, want Untitled", notes[1].Title)
	}
}

func TestReadSkipsNoteWithoutContent(t *testing.T) {
	doc := `<en-export>
  <note><title>Empty</title><content></content></note>
  <note><title>Kept</title><content><![CDATA[<en-note>x</en-note>]]></content></note>
</en-export>`

	notes, skipped, err := newTestReader().Read(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if skipped != 1 {
		t.Errorf("skipped = %d, want 1", skipped)
	}
	if len(notes) != 1 || notes[0].Title != "Kept" {
		t.Errorf("notes = %+v", notes)
	}
}

func TestReadSkipsMalformedResource(t *testing.T) {
	doc := `<en-export>
  <note>
    <title>One</title>
    <content><![CDATA[<en-note>x</en-note>]]></content>
    <resource><data encoding="base64">%%%not-base64%%%</data><mime>image/png</mime></resource>
    <resource><data encoding="base64" hash="aa">` + base64.StdEncoding.EncodeToString([]byte("ok")) + `</data><mime>text/plain</mime></resource>
  </note>
</en-export>`

	notes, skipped, err := newTestReader().Read(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if skipped != 0 {
		t.Errorf("skipped = %d, want 0 (resource failure is not a note failure)", skipped)
	}
	if len(notes) != 1 {
		t.Fatalf("notes = %d, want 1", len(notes))
	}
	if len(notes[0].Resources) != 1 || string(notes[0].Resources[0].Data) != "ok" {
		t.Errorf("resources = %+v", notes[0].Resources)
	}
}

func TestReadTruncatedDocumentFails(t *testing.T) {
	doc := `<en-export><note><title>Broken</title><content>`
	if _, _, err := newTestReader().Read(strings.NewReader(doc)); err == nil {
		t.Error("Read accepted a truncated document")
	}
}

func TestWriterRoundTrip(t *testing.T) {
	note := &types.Note{
		Title:   "Round Trip",
		Body:    "<div>payload</div>",
		Created: time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC),
		Updated: time.Date(2024, 3, 16, 10, 0, 0, 0, time.UTC),
		Tags:    []string{"one", "two"},
		Author:  "Ann",
	}
	note.AddResource(&types.Resource{
		Mime:     "image/png",
		Data:     []byte("fake image bytes"),
		Hash:     "feedface",
		FileName: "pic.png",
		Width:    10,
		Height:   20,
	})

	w := NewWriter(logger.Discard())
	w.Add(note)

	var buf bytes.Buffer
	if err := w.WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, exportDoctype) {
		t.Error("output missing en-export doctype")
	}
	if !strings.Contains(out, "<![CDATA[") {
		t.Error("content not wrapped in CDATA")
	}

	notes, skipped, err := newTestReader().Read(&buf)
	if err != nil {
		t.Fatalf("re-reading document: %v", err)
	}
	if skipped != 0 || len(notes) != 1 {
		t.Fatalf("notes = %d, skipped = %d", len(notes), skipped)
	}

	got := notes[0]
	if got.Title != note.Title {
		t.Errorf("title = %q, want %q", got.Title, note.Title)
	}
	if !got.Created.Equal(note.Created) || !got.Updated.Equal(note.Updated) {
		t.Errorf("timestamps = %v / %v", got.Created, got.Updated)
	}
	if len(got.Tags) != 2 || got.Tags[0] != "one" {
		t.Errorf("tags = %v", got.Tags)
	}
	if got.Author != "Ann" {
		t.Errorf("author = %q", got.Author)
	}
	if !strings.Contains(got.Body, "<en-note><div>payload</div></en-note>") {
		t.Errorf("body = %q", got.Body)
	}

	if len(got.Resources) != 1 {
		t.Fatalf("resources = %d, want 1", len(got.Resources))
	}
	r := got.Resources[0]
	if r.Hash != "feedface" || string(r.Data) != "fake image bytes" {
		t.Errorf("resource = %+v", r)
	}
	if r.FileName != "pic.png" || r.Width != 10 || r.Height != 20 {
		t.Errorf("resource attrs = %+v", r)
	}
}

func TestWrapENML(t *testing.T) {
	got := WrapENML("<div>x</div>")
	if !strings.HasPrefix(got, `<?xml version="1.0" encoding="UTF-8"?>`) {
		t.Errorf("missing xml prolog: %q", got)
	}
	if !strings.Contains(got, "<en-note><div>x</div></en-note>") {
		t.Errorf("missing en-note wrapper: %q", got)
	}
}
