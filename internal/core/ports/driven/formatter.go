package driven

import "github.com/accords-library/search-sync/internal/core/domain"

// TextFormatter turns structured content into the plain strings indexed.
type TextFormatter interface {
	// InlineTitle composes a single-line title from its optional parts.
	InlineTitle(pretitle, title, subtitle string) string

	// RichText flattens rich-text content into plain text.
	RichText(content domain.RichText) (string, error)
}
