// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types holds the data structures shared between conversion stages.
package types

import "time"

// Note is the in-memory form of a single note while it moves through a
// conversion pipeline. Body holds the rich-text fragment in whichever
// representation the active direction uses: an ENML/XHTML fragment when
// reading ENEX, rendered Markdown when writing it back out.
type Note struct {
	// Title is the note title. Readers substitute a fallback when the
	// source omits it.
	Title string `json:"title" yaml:"title"`

	// Body is the note content fragment (ENML/XHTML or Markdown).
	Body string `json:"body" yaml:"body"`

	// Created and Updated are the note timestamps.
	Created time.Time `json:"created" yaml:"created"`
	Updated time.Time `json:"updated" yaml:"updated"`

	// Tags lists the note tags in insertion order, duplicates suppressed.
	Tags []string `json:"tags,omitempty" yaml:"tags,omitempty"`

	// Resources lists the note attachments in source order.
	Resources []*Resource `json:"resources,omitempty" yaml:"resources,omitempty"`

	// Notebook, Author and SourceURL are optional note attributes.
	Notebook  string `json:"notebook,omitempty" yaml:"notebook,omitempty"`
	Author    string `json:"author,omitempty" yaml:"author,omitempty"`
	SourceURL string `json:"source_url,omitempty" yaml:"source_url,omitempty"`
}

// AddTag appends tag unless it is empty or already present.
func (n *Note) AddTag(tag string) {
	if tag == "" {
		return
	}
	for _, t := range n.Tags {
		if t == tag {
			return
		}
	}
	n.Tags = append(n.Tags, tag)
}

// AddResource appends a resource to the note.
func (n *Note) AddResource(r *Resource) {
	n.Resources = append(n.Resources, r)
}

// ResourceByHash returns the resource with the given content hash, or nil.
// Hash is the authoritative identity: two resources with equal hash are the
// same attachment regardless of filename.
func (n *Note) ResourceByHash(hash string) *Resource {
	for _, r := range n.Resources {
		if r.Hash == hash {
			return r
		}
	}
	return nil
}

// Resource is a binary attachment carried by a note.
type Resource struct {
	// Mime is the attachment MIME type (e.g. "image/png").
	Mime string `json:"mime" yaml:"mime"`

	// Data is the raw attachment payload.
	Data []byte `json:"-" yaml:"-"`

	// Hash is the MD5 digest of Data in lowercase hex. Once set it is the
	// resource's stable identity across both formats.
	Hash string `json:"hash" yaml:"hash"`

	// FileName is the original attachment filename, when known.
	FileName string `json:"file_name,omitempty" yaml:"file_name,omitempty"`

	// Size is the payload length in bytes.
	Size int `json:"size,omitempty" yaml:"size,omitempty"`

	// Width and Height are best-effort pixel dimensions for image resources.
	Width  int `json:"width,omitempty" yaml:"width,omitempty"`
	Height int `json:"height,omitempty" yaml:"height,omitempty"`
}

// IsImage reports whether the resource carries an image MIME type.
func (r *Resource) IsImage() bool {
	return len(r.Mime) >= 6 && r.Mime[:6] == "image/"
}
