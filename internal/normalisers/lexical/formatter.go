package lexical

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/accords-library/search-sync/internal/core/domain"
	"github.com/accords-library/search-sync/internal/core/ports/driven"
)

// Ensure Formatter implements the interface.
var _ driven.TextFormatter = (*Formatter)(nil)

// Node types with dedicated handling.
const (
	nodeRoot      = "root"
	nodeText      = "text"
	nodeLinebreak = "linebreak"
	nodeTab       = "tab"
	nodeList      = "list"
	nodeBlock     = "block"
)

// Separators between flattened siblings.
const (
	blockSeparator    = "\n\n"
	listItemSeparator = "\n"
)

// Formatter converts backend titles and rich text to plain strings.
type Formatter struct{}

// New creates a new formatter.
func New() *Formatter {
	return &Formatter{}
}

// InlineTitle renders "{pretitle}: {title} - {subtitle}", dropping the
// parts that are empty.
func (f *Formatter) InlineTitle(pretitle, title, subtitle string) string {
	var b strings.Builder
	if pretitle != "" {
		b.WriteString(pretitle)
		b.WriteString(": ")
	}
	b.WriteString(title)
	if subtitle != "" {
		b.WriteString(" - ")
		b.WriteString(subtitle)
	}
	return b.String()
}

// RichText flattens a Lexical document to plain text.
// An empty or null document yields the empty string.
func (f *Formatter) RichText(content domain.RichText) (string, error) {
	if content.IsEmpty() {
		return "", nil
	}

	var doc document
	if err := json.Unmarshal(content, &doc); err != nil {
		return "", fmt.Errorf("%w: decode rich text: %w", domain.ErrInvalidInput, err)
	}
	if doc.Root == nil {
		return "", fmt.Errorf("%w: rich text has no root node", domain.ErrInvalidInput)
	}
	return flatten(doc.Root), nil
}

// document is the top-level Lexical value.
type document struct {
	Root *node `json:"root"`
}

// node is any Lexical node. Fields irrelevant to flattening are ignored.
type node struct {
	Type     string                     `json:"type"`
	Text     string                     `json:"text"`
	Children []*node                    `json:"children"`
	Fields   map[string]json.RawMessage `json:"fields"`
}

// flatten renders a node and its descendants.
func flatten(n *node) string {
	if n == nil {
		return ""
	}

	switch n.Type {
	case nodeText:
		return n.Text
	case nodeLinebreak:
		return "\n"
	case nodeTab:
		return "\t"
	case nodeRoot:
		return joinNonEmpty(n.Children, blockSeparator)
	case nodeList:
		return joinNonEmpty(n.Children, listItemSeparator)
	case nodeBlock:
		return flattenBlockFields(n.Fields)
	}

	var b strings.Builder
	for _, child := range n.Children {
		b.WriteString(flatten(child))
	}
	return b.String()
}

// joinNonEmpty flattens children and joins those with text.
func joinNonEmpty(children []*node, sep string) string {
	parts := make([]string, 0, len(children))
	for _, child := range children {
		if text := flatten(child); strings.TrimSpace(text) != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, sep)
}

// flattenBlockFields renders the rich-text documents embedded in a block
// node's fields, in field name order. Other fields are skipped.
func flattenBlockFields(fields map[string]json.RawMessage) string {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		var nested document
		if err := json.Unmarshal(fields[name], &nested); err != nil || nested.Root == nil {
			continue
		}
		if text := flatten(nested.Root); strings.TrimSpace(text) != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, blockSeparator)
}
