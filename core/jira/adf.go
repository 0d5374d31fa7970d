package jira

import (
	"strings"
)

// Document is an Atlassian Document Format (ADF) document, the rich text
// representation used by REST API v3 for descriptions and comments.
type Document struct {
	Type    string `json:"type"`
	Version int    `json:"version"`
	Content []Node `json:"content"`
}

// Node is a single ADF node. Only the parts needed for plain text are modelled.
type Node struct {
	Type    string `json:"type"`
	Text    string `json:"text,omitempty"`
	Content []Node `json:"content,omitempty"`
}

// ParagraphDocument wraps text in a document containing a single paragraph.
func ParagraphDocument(text string) *Document {
	return &Document{
		Type:    "doc",
		Version: 1,
		Content: []Node{{
			Type:    "paragraph",
			Content: []Node{{Type: "text", Text: text}},
		}},
	}
}

// PlainText flattens the document to text. Top-level blocks are separated by newlines.
func (d *Document) PlainText() string {
	if d == nil {
		return ""
	}
	blocks := make([]string, 0, len(d.Content))
	for _, n := range d.Content {
		var b strings.Builder
		n.writeText(&b)
		if s := strings.TrimSpace(b.String()); s != "" {
			blocks = append(blocks, s)
		}
	}
	return strings.Join(blocks, "\n")
}

var inlineNodes = map[string]bool{
	"text":       true,
	"hardBreak":  true,
	"mention":    true,
	"emoji":      true,
	"inlineCard": true,
}

func (n Node) writeText(b *strings.Builder) {
	switch n.Type {
	case "text":
		b.WriteString(n.Text)
		return
	case "hardBreak":
		b.WriteString("\n")
		return
	}
	for i, c := range n.Content {
		// nested blocks (list items, quotes) go on their own lines
		if i > 0 && !inlineNodes[c.Type] {
			b.WriteString("\n")
		}
		c.writeText(b)
	}
}
