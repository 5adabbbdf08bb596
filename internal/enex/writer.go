// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package enex

import (
	"encoding/base64"
	"encoding/xml"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pdiddy/enexmark/pkg/types"
)

const (
	exportDoctype = `<!DOCTYPE en-export SYSTEM "http://xml.evernote.com/pub/evernote-export3.dtd">`
	enmlHeader    = `<?xml version="1.0" encoding="UTF-8"?>` + "\n" +
		`<!DOCTYPE en-note SYSTEM "http://xml.evernote.com/pub/enml2.dtd">` + "\n"

	application = "enexmark"
	version     = "1.0"
)

// exportEnvelope is the serialized en-export root.
type exportEnvelope struct {
	XMLName     xml.Name       `xml:"en-export"`
	ExportDate  string         `xml:"export-date,attr"`
	Application string         `xml:"application,attr"`
	Version     string         `xml:"version,attr"`
	Notes       []noteEnvelope `xml:"note"`
}

type noteEnvelope struct {
	Title      string             `xml:"title"`
	Content    cdata              `xml:"content"`
	Created    string             `xml:"created"`
	Updated    string             `xml:"updated"`
	Tags       []string           `xml:"tag,omitempty"`
	Attributes *noteAttributes    `xml:"note-attributes,omitempty"`
	Resources  []resourceEnvelope `xml:"resource"`
}

// cdata keeps the ENML fragment verbatim: the inner markup must not be
// escaped again by the outer document.
type cdata struct {
	Value string `xml:",cdata"`
}

type resourceEnvelope struct {
	Data       dataEnvelope        `xml:"data"`
	Mime       string              `xml:"mime"`
	Width      int                 `xml:"width,omitempty"`
	Height     int                 `xml:"height,omitempty"`
	Attributes *resourceAttributes `xml:"resource-attributes,omitempty"`
}

type dataEnvelope struct {
	Encoding string `xml:"encoding,attr"`
	Hash     string `xml:"hash,attr"`
	Value    string `xml:",chardata"`
}

// Writer accumulates notes and serializes them as one ENEX document.
type Writer struct {
	notes []*types.Note
	log   *logrus.Logger
	now   func() time.Time
}

// NewWriter returns an empty writer.
func NewWriter(log *logrus.Logger) *Writer {
	return &Writer{log: log, now: time.Now}
}

// Add appends a note to the pending document.
func (w *Writer) Add(note *types.Note) {
	w.notes = append(w.notes, note)
}

// Len reports how many notes the document will contain.
func (w *Writer) Len() int { return len(w.notes) }

// WriteTo serializes the accumulated notes. Nothing is written until every
// note's in-memory form has been built, so a failed note never leaves a
// partial document behind.
func (w *Writer) WriteTo(out io.Writer) error {
	envelope := exportEnvelope{
		ExportDate:  FormatTime(w.now()),
		Application: application,
		Version:     version,
	}
	for _, note := range w.notes {
		envelope.Notes = append(envelope.Notes, w.noteEnvelope(note))
	}

	body, err := xml.MarshalIndent(envelope, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding enex document: %w", err)
	}

	if _, err := fmt.Fprintf(out, "%s%s\n%s\n", xml.Header, exportDoctype, body); err != nil {
		return fmt.Errorf("writing enex document: %w", err)
	}
	return nil
}

func (w *Writer) noteEnvelope(note *types.Note) noteEnvelope {
	env := noteEnvelope{
		Title:   note.Title,
		Content: cdata{Value: WrapENML(note.Body)},
		Created: FormatTime(note.Created),
		Updated: FormatTime(note.Updated),
		Tags:    note.Tags,
	}

	if note.Author != "" || note.SourceURL != "" || note.Notebook != "" {
		env.Attributes = &noteAttributes{
			Author:    note.Author,
			SourceURL: note.SourceURL,
			Notebook:  note.Notebook,
		}
	}

	for _, res := range note.Resources {
		envRes := resourceEnvelope{
			Data: dataEnvelope{
				Encoding: "base64",
				Hash:     res.Hash,
				Value:    base64.StdEncoding.EncodeToString(res.Data),
			},
			Mime:   res.Mime,
			Width:  res.Width,
			Height: res.Height,
		}
		if res.FileName != "" {
			envRes.Attributes = &resourceAttributes{FileName: res.FileName}
		}
		env.Resources = append(env.Resources, envRes)
	}

	return env
}

// WrapENML wraps a body fragment in the en-note document envelope the
// content element requires.
func WrapENML(body string) string {
	return enmlHeader + "<en-note>" + body + "</en-note>"
}
