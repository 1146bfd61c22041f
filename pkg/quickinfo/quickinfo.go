// Package quickinfo holds hover documentation entries for symbols and the
// bounded cache that keeps repeated language-service lookups cheap.
package quickinfo

import "strings"

// Entry is the hover documentation for a symbol at a specific offset.
type Entry struct {
	// DisplayText is the signature-like headline, e.g. "const a: number".
	DisplayText string
	// DocumentationText is the prose documentation, possibly empty.
	DocumentationText string
}

// Key identifies a quick-info lookup: one symbol offset in one file.
type Key struct {
	Path   string
	Offset int
}

// Sanitizer rewrites quick-info text so it never leaks the local filesystem
// layout: absolute project paths become relative-friendly ones and the
// virtual-module marker used for inline snippets disappears entirely.
type Sanitizer struct {
	// RootDir is the absolute project root to strip, e.g. "/home/me/project".
	RootDir string
	// VirtualMarker is the scheme prefix used for unrealized snippet files.
	VirtualMarker string
}

// Sanitize returns a copy of e with local path prefixes removed.
func (s Sanitizer) Sanitize(e Entry) Entry {
	e.DisplayText = s.clean(e.DisplayText)
	e.DocumentationText = s.clean(e.DocumentationText)
	return e
}

func (s Sanitizer) clean(text string) string {
	if s.VirtualMarker != "" {
		text = strings.ReplaceAll(text, s.VirtualMarker, "")
	}
	if s.RootDir != "" {
		root := strings.TrimSuffix(s.RootDir, "/")
		text = strings.ReplaceAll(text, root+"/", "")
		text = strings.ReplaceAll(text, root, ".")
	}
	return text
}
