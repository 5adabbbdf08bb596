// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"regexp"
	"strings"
)

var (
	tripleNewline = regexp.MustCompile(`\n\s*\n\s*\n+`)
	bareURL       = regexp.MustCompile(`<(https?://[^>]+)>`)
	escapedPunct  = regexp.MustCompile(`\\([#\-*_.>])`)
	orderedMark   = regexp.MustCompile(`^\d+\. `)
)

// Cleanup applies the whole-output fixups: collapse runs of 3+ newlines to
// exactly 2, rewrite bare angle-bracket URLs as links, drop stray escapes
// left by upstream renderers, and separate lists from preceding prose.
func Cleanup(s string) string {
	s = tripleNewline.ReplaceAllString(s, "\n\n")
	s = bareURL.ReplaceAllString(s, "[$1]($1)")
	s = escapedPunct.ReplaceAllString(s, "$1")
	s = separateLists(s)
	return strings.TrimSpace(s)
}

// separateLists inserts a blank line before a list marker that directly
// follows a non-blank prose line, so the list does not merge visually with
// the preceding paragraph. Lines inside a list (markers and two-space
// continuations) are left alone.
func separateLists(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))

	for i, line := range lines {
		if i > 0 && isListMarker(line) {
			prev := lines[i-1]
			if strings.TrimSpace(prev) != "" && !isListMarker(prev) && !strings.HasPrefix(prev, "  ") {
				out = append(out, "")
			}
		}
		out = append(out, line)
	}

	return strings.Join(out, "\n")
}

func isListMarker(line string) bool {
	return strings.HasPrefix(line, "- ") || orderedMark.MatchString(line)
}
