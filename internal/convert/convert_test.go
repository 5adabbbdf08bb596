// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pdiddy/enexmark/internal/enex"
	"github.com/pdiddy/enexmark/internal/logger"
	"github.com/pdiddy/enexmark/internal/resource"
	"github.com/pdiddy/enexmark/pkg/types"
)

// helloHash is the MD5 of "hello world", the payload of the sample resource.
const helloHash = "5eb63bbbe01eeed093cb22bb8f5acdc3"

// aGVsbG8gd29ybGQ= is base64("hello world").
const sampleEnex = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE en-export SYSTEM "http://xml.evernote.com/pub/evernote-export3.dtd">
<en-export export-date="20240401T000000Z" application="Evernote" version="10.0">
  <note>
    <title>Trip Notes</title>
    <content><![CDATA[<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE en-note SYSTEM "http://xml.evernote.com/pub/enml2.dtd">
<en-note><div>Hello from the road</div><div><en-media hash="` + helloHash + `" type="image/png"/></div></en-note>]]></content>
    <created>20240315T093000Z</created>
    <updated>20240316T100000Z</updated>
    <tag>travel</tag>
    <resource>
      <data encoding="base64" hash="` + helloHash + `">aGVsbG8gd29ybGQ=</data>
      <mime>image/png</mime>
      <resource-attributes>
        <file-name>pic.png</file-name>
      </resource-attributes>
    </resource>
  </note>
</en-export>
`

func writeSampleEnex(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "export.enex")
	if err := os.WriteFile(path, []byte(sampleEnex), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestUnpack(t *testing.T) {
	enexPath := writeSampleEnex(t)
	outDir := t.TempDir()

	var progress bytes.Buffer
	result, err := Unpack([]string{enexPath}, types.UnpackConfig{OutputDir: outDir}, logger.Discard(), &progress)
	if err != nil {
		t.Fatalf("Unpack: %v", err)
	}
	if result.Converted != 1 || result.Failed != 0 {
		t.Errorf("result = %+v", result)
	}
	if !strings.Contains(progress.String(), "converted: Trip Notes") {
		t.Errorf("progress = %q", progress.String())
	}
	if !strings.Contains(progress.String(), "Batch summary: 1 converted") {
		t.Errorf("progress = %q", progress.String())
	}

	md, err := os.ReadFile(filepath.Join(outDir, "Trip Notes.md"))
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	text := string(md)
	if !strings.Contains(text, "title: Trip Notes") {
		t.Errorf("output missing metadata: %q", text)
	}
	if !strings.Contains(text, "Hello from the road") {
		t.Errorf("output missing body text: %q", text)
	}
	if !strings.Contains(text, "![pic.png](assets/pic.png)") {
		t.Errorf("output missing image reference: %q", text)
	}

	asset, err := os.ReadFile(filepath.Join(outDir, "assets", "pic.png"))
	if err != nil {
		t.Fatalf("reading asset: %v", err)
	}
	if string(asset) != "hello world" {
		t.Errorf("asset = %q", asset)
	}
}

func TestUnpackManifestSkipsUnchanged(t *testing.T) {
	enexPath := writeSampleEnex(t)
	cfg := types.UnpackConfig{OutputDir: t.TempDir(), UseManifest: true}

	var first bytes.Buffer
	if _, err := Unpack([]string{enexPath}, cfg, logger.Discard(), &first); err != nil {
		t.Fatalf("first run: %v", err)
	}

	var second bytes.Buffer
	result, err := Unpack([]string{enexPath}, cfg, logger.Discard(), &second)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if result.Skipped != 1 || result.Converted != 0 {
		t.Errorf("result = %+v", result)
	}
	if !strings.Contains(second.String(), "skipped: Trip Notes (unchanged)") {
		t.Errorf("progress = %q", second.String())
	}
}

func TestUnpackBadInputs(t *testing.T) {
	outDir := t.TempDir()
	badDoc := filepath.Join(t.TempDir(), "broken.enex")
	if err := os.WriteFile(badDoc, []byte("<en-export><note><content>"), 0o644); err != nil {
		t.Fatal(err)
	}

	var progress bytes.Buffer
	result, err := Unpack([]string{"no-such-file.enex", badDoc}, types.UnpackConfig{OutputDir: outDir}, logger.Discard(), &progress)
	if err != nil {
		t.Fatalf("Unpack: %v", err)
	}
	if result.Failed != 2 {
		t.Errorf("result = %+v, want 2 failures", result)
	}
	if !result.HasFailures() {
		t.Error("HasFailures = false")
	}
	if got := strings.Count(progress.String(), "failed:"); got != 2 {
		t.Errorf("failure lines = %d, want 2\n%s", got, progress.String())
	}
}

func TestPackAndRoundTrip(t *testing.T) {
	// Unpack first, then pack the result and read it back.
	enexPath := writeSampleEnex(t)
	outDir := t.TempDir()

	var discard bytes.Buffer
	if _, err := Unpack([]string{enexPath}, types.UnpackConfig{OutputDir: outDir}, logger.Discard(), &discard); err != nil {
		t.Fatalf("Unpack: %v", err)
	}

	packed := filepath.Join(t.TempDir(), "repacked.enex")
	files, err := CollectMarkdownFiles([]string{outDir})
	if err != nil {
		t.Fatalf("CollectMarkdownFiles: %v", err)
	}

	var progress bytes.Buffer
	result, err := Pack(context.Background(), files, types.PackConfig{OutputFile: packed}, logger.Discard(), &progress)
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}
	if result.Converted != 1 || result.Failed != 0 {
		t.Errorf("result = %+v", result)
	}

	f, err := os.Open(packed)
	if err != nil {
		t.Fatalf("opening packed file: %v", err)
	}
	defer f.Close()

	log := logger.Discard()
	notes, skipped, err := enex.NewReader(resource.NewStore(log), log).Read(f)
	if err != nil {
		t.Fatalf("re-reading packed document: %v", err)
	}
	if skipped != 0 || len(notes) != 1 {
		t.Fatalf("notes = %d, skipped = %d", len(notes), skipped)
	}

	note := notes[0]
	if note.Title != "Trip Notes" {
		t.Errorf("title = %q", note.Title)
	}
	if want := time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC); !note.Created.Equal(want) {
		t.Errorf("created = %v, want %v", note.Created, want)
	}
	if want := time.Date(2024, 3, 16, 10, 0, 0, 0, time.UTC); !note.Updated.Equal(want) {
		t.Errorf("updated = %v, want %v", note.Updated, want)
	}
	if len(note.Tags) != 1 || note.Tags[0] != "travel" {
		t.Errorf("tags = %v", note.Tags)
	}
	if !strings.Contains(note.Body, "Hello from the road") {
		t.Errorf("body = %q", note.Body)
	}

	// The resource survives with the same content identity.
	if len(note.Resources) != 1 {
		t.Fatalf("resources = %d, want 1", len(note.Resources))
	}
	if note.Resources[0].Hash != helloHash {
		t.Errorf("resource hash = %q, want %q", note.Resources[0].Hash, helloHash)
	}
	if !strings.Contains(note.Body, helloHash) {
		t.Errorf("body lost its media marker: %q", note.Body)
	}
}

func TestPackWithNoConvertibleFilesFails(t *testing.T) {
	var progress bytes.Buffer
	_, err := Pack(context.Background(), nil, types.PackConfig{OutputFile: filepath.Join(t.TempDir(), "out.enex")}, logger.Discard(), &progress)
	if err == nil {
		t.Error("Pack accepted an empty batch")
	}
}

func TestCollectMarkdownFiles(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "nested")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"a.md", "skip.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(sub, "b.md"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	files, err := CollectMarkdownFiles([]string{dir})
	if err != nil {
		t.Fatalf("CollectMarkdownFiles: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("files = %v, want the two .md files", files)
	}
	for _, f := range files {
		if filepath.Ext(f) != ".md" {
			t.Errorf("unexpected file %s", f)
		}
	}

	if _, err := CollectMarkdownFiles([]string{"no-such-path"}); err == nil {
		t.Error("missing path accepted")
	}
}
