package domain

import (
	"strconv"
	"strings"
)

// keySeparator joins an item ID and a language into a document key.
const keySeparator = "_"

// SearchDocument is the unit persisted to the search index.
// One SearchDocument exists per language variant of a content item, or a
// single language-neutral one for untranslated items that have a fallback.
type SearchDocument struct {
	// DocumentKey is the index primary key, unique across a rebuild.
	DocumentKey string `json:"meilid"`

	// ItemID identifies the source item. It is shared by every language
	// variant and used as the index's distinct attribute.
	ItemID string `json:"id"`

	// Languages lists the languages the item has variants in.
	// Some categories always report an empty list to stay out of the
	// language facet.
	Languages []string `json:"languages"`

	// Title is absent only for chronology events without a title.
	Title *string `json:"title,omitempty"`

	// Content is the flattened plain-text body.
	Content *string `json:"content,omitempty"`

	// Description is the flattened plain-text description.
	Description *string `json:"description,omitempty"`

	// UpdatedAt is the last modification time in epoch milliseconds.
	UpdatedAt *int64 `json:"updatedAt,omitempty"`

	// Type is the category tag.
	Type Category `json:"type"`

	// Data echoes the source record for client-side rendering.
	Data any `json:"data"`
}

// Language returns the language this document is a variant of, or the
// empty string for language-neutral fallback documents.
func (d SearchDocument) Language() string {
	_, language, ok := SplitDocumentKey(d.DocumentKey, d.ItemID)
	if !ok {
		return ""
	}
	return language
}

// ComposeDocumentKey builds the document key for an item variant.
// An empty language yields the bare item ID (fallback documents).
func ComposeDocumentKey(itemID, language string) string {
	if language == "" {
		return itemID
	}
	return itemID + keySeparator + language
}

// SplitDocumentKey decomposes a document key given the item ID it belongs
// to. It returns ok=false when key was not composed from itemID.
// Item IDs may themselves contain the separator (chronology events), which
// is why the item ID is required rather than parsed out of the key.
func SplitDocumentKey(key, itemID string) (string, string, bool) {
	if key == itemID {
		return itemID, "", true
	}
	language, found := strings.CutPrefix(key, itemID+keySeparator)
	if !found || language == "" {
		return "", "", false
	}
	return itemID, language, true
}

// NestedItemID builds the item ID of the index-th sub-item of a record.
func NestedItemID(parentID string, index int) string {
	return parentID + keySeparator + strconv.Itoa(index)
}
