// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package enex

import (
	"encoding/base64"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pdiddy/enexmark/internal/resource"
	"github.com/pdiddy/enexmark/pkg/types"
)

// fallbackTitle is used when a note record carries no title.
const fallbackTitle = "Untitled"

// noteRecord mirrors one <note> element.
type noteRecord struct {
	Title      string           `xml:"title"`
	Content    string           `xml:"content"`
	Created    string           `xml:"created"`
	Updated    string           `xml:"updated"`
	Tags       []string         `xml:"tag"`
	Attributes *noteAttributes  `xml:"note-attributes"`
	Resources  []resourceRecord `xml:"resource"`
}

type noteAttributes struct {
	Author    string `xml:"author"`
	SourceURL string `xml:"source-url"`
	Notebook  string `xml:"notebook"`
}

type resourceRecord struct {
	Data       dataRecord          `xml:"data"`
	Mime       string              `xml:"mime"`
	Width      string              `xml:"width"`
	Height     string              `xml:"height"`
	Attributes *resourceAttributes `xml:"resource-attributes"`
}

type dataRecord struct {
	Encoding string `xml:"encoding,attr"`
	Hash     string `xml:"hash,attr"`
	Value    string `xml:",chardata"`
}

type resourceAttributes struct {
	FileName string `xml:"file-name"`
}

// Reader decodes ENEX documents into Notes.
type Reader struct {
	store *resource.Store
	log   *logrus.Logger
}

// NewReader returns a reader that builds resources through store.
func NewReader(store *resource.Store, log *logrus.Logger) *Reader {
	return &Reader{store: store, log: log}
}

// Read decodes every note record in the document. A malformed document is a
// fatal error; a malformed single note record is skipped with a warning and
// its siblings continue. The skipped count is reported alongside the notes.
func (r *Reader) Read(rd io.Reader) (notes []*types.Note, skipped int, err error) {
	dec := xml.NewDecoder(rd)
	// ENEX files reference external DTD entities; read them leniently.
	dec.Strict = false

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, skipped, fmt.Errorf("parsing enex document: %w", err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "note" {
			continue
		}

		var rec noteRecord
		if err := dec.DecodeElement(&rec, &start); err != nil {
			var syntaxErr *xml.SyntaxError
			if errors.As(err, &syntaxErr) {
				// The token stream itself is broken: nothing after this
				// point can be trusted.
				return nil, skipped, fmt.Errorf("parsing enex document: %w", err)
			}
			skipped++
			r.log.WithError(err).Warn("skipping malformed note record")
			continue
		}

		note, err := r.buildNote(rec)
		if err != nil {
			skipped++
			r.log.WithError(err).WithField("title", rec.Title).Warn("skipping note record")
			continue
		}
		notes = append(notes, note)
	}

	return notes, skipped, nil
}

func (r *Reader) buildNote(rec noteRecord) (*types.Note, error) {
	title := strings.TrimSpace(rec.Title)
	if title == "" {
		title = fallbackTitle
	}
	if strings.TrimSpace(rec.Content) == "" {
		return nil, fmt.Errorf("note %q has no content", title)
	}

	now := time.Now()
	note := &types.Note{
		Title:   title,
		Body:    rec.Content,
		Created: ParseTime(rec.Created, now),
		Updated: ParseTime(rec.Updated, now),
	}
	for _, tag := range rec.Tags {
		note.AddTag(strings.TrimSpace(tag))
	}
	if rec.Attributes != nil {
		note.Author = rec.Attributes.Author
		note.SourceURL = rec.Attributes.SourceURL
		note.Notebook = rec.Attributes.Notebook
	}

	for i, res := range rec.Resources {
		built, err := r.buildResource(res)
		if err != nil {
			// Per-resource failure: the note keeps its remaining resources.
			r.log.WithError(err).WithFields(logrus.Fields{
				"title": title,
				"index": i,
			}).Warn("skipping resource record")
			continue
		}
		note.AddResource(built)
	}

	return note, nil
}

func (r *Reader) buildResource(rec resourceRecord) (*types.Resource, error) {
	payload := strings.Map(dropSpace, rec.Data.Value)
	if payload == "" {
		return nil, fmt.Errorf("resource has no data")
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("decoding resource data: %w", err)
	}

	mime := rec.Mime
	if mime == "" {
		mime = "application/octet-stream"
	}
	filename := ""
	if rec.Attributes != nil {
		filename = rec.Attributes.FileName
	}

	res := r.store.Ingest(data, mime, filename, rec.Data.Hash)
	if res.Width == 0 {
		res.Width = atoiOrZero(rec.Width)
	}
	if res.Height == 0 {
		res.Height = atoiOrZero(rec.Height)
	}
	return res, nil
}

func atoiOrZero(s string) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || v < 0 {
		return 0
	}
	return v
}

func dropSpace(r rune) rune {
	switch r {
	case ' ', '\t', '\n', '\r':
		return -1
	}
	return r
}
