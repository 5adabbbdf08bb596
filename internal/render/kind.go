// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package render walks a parsed document tree and emits Markdown text.
package render

import (
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Kind is the closed set of node kinds the renderer dispatches on. Tag
// names are classified once; the switch over Kind is exhaustive, with
// KindUnknown rendering children transparently so unanticipated tags
// degrade to pass-through instead of misbehaving silently.
type Kind int

const (
	KindUnknown Kind = iota
	KindSkip         // comments, doctypes, declarations
	KindText
	KindHeading
	KindBlock // p, div and other generic block containers
	KindLineBreak
	KindInline // span and friends: render children transparently
	KindList
	KindListItem
	KindImage
	KindLink
	KindBold
	KindItalic
	KindCode
	KindCodeBlock
	KindBlockquote
	KindRule
	KindTable
)

// Classify maps a parsed node to its renderer kind. Heading nodes also
// report their level (1-6); other kinds return level 0.
func Classify(n *html.Node) (Kind, int) {
	switch n.Type {
	case html.TextNode:
		return KindText, 0
	case html.CommentNode, html.DoctypeNode:
		return KindSkip, 0
	case html.ElementNode:
		// classified below
	default:
		return KindSkip, 0
	}

	switch n.DataAtom {
	case atom.H1:
		return KindHeading, 1
	case atom.H2:
		return KindHeading, 2
	case atom.H3:
		return KindHeading, 3
	case atom.H4:
		return KindHeading, 4
	case atom.H5:
		return KindHeading, 5
	case atom.H6:
		return KindHeading, 6
	case atom.P, atom.Div:
		return KindBlock, 0
	case atom.Br:
		return KindLineBreak, 0
	case atom.Span, atom.Font:
		return KindInline, 0
	case atom.Ul, atom.Ol:
		return KindList, 0
	case atom.Li:
		return KindListItem, 0
	case atom.Img:
		return KindImage, 0
	case atom.A:
		return KindLink, 0
	case atom.Strong, atom.B:
		return KindBold, 0
	case atom.Em, atom.I:
		return KindItalic, 0
	case atom.Code:
		return KindCode, 0
	case atom.Pre:
		return KindCodeBlock, 0
	case atom.Blockquote:
		return KindBlockquote, 0
	case atom.Hr:
		return KindRule, 0
	case atom.Table:
		return KindTable, 0
	}
	return KindUnknown, 0
}
