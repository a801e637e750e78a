package domain

import (
	"bytes"
	"encoding/json"
)

// ContentIDs is the content backend's inventory: every slug or ID of every
// category at the time of the call.
type ContentIDs struct {
	Pages            SlugList `json:"pages"`
	Collectibles     SlugList `json:"collectibles"`
	Folders          SlugList `json:"folders"`
	Audios           IDList   `json:"audios"`
	Images           IDList   `json:"images"`
	Videos           IDList   `json:"videos"`
	Recorders        IDList   `json:"recorders"`
	Files            IDList   `json:"files"`
	ChronologyEvents IDList   `json:"chronologyEvents"`
}

// SlugList holds the slugs of a slug-addressed category.
type SlugList struct {
	Slugs []string `json:"slugs"`
}

// IDList holds the IDs of an ID-addressed category.
type IDList struct {
	IDs []string `json:"ids"`
}

// RichText is structured rich-text content as stored by the backend.
// It is kept raw and flattened by a TextFormatter.
type RichText json.RawMessage

// IsEmpty reports whether the field is absent or null.
func (r RichText) IsEmpty() bool {
	trimmed := bytes.TrimSpace(r)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// MarshalJSON implements json.Marshaler.
func (r RichText) MarshalJSON() ([]byte, error) {
	if r.IsEmpty() {
		return []byte("null"), nil
	}
	return r, nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *RichText) UnmarshalJSON(data []byte) error {
	*r = append((*r)[0:0], data...)
	return nil
}

// Page is an editorial page.
type Page struct {
	ID           string            `json:"id"`
	Slug         string            `json:"slug"`
	UpdatedAt    string            `json:"updatedAt"`
	Translations []PageTranslation `json:"translations"`

	// Raw is the record body as returned by the backend.
	Raw json.RawMessage `json:"-"`
}

// PageTranslation is a language variant of a page.
type PageTranslation struct {
	Language string   `json:"language"`
	Pretitle string   `json:"pretitle,omitempty"`
	Title    string   `json:"title"`
	Subtitle string   `json:"subtitle,omitempty"`
	Summary  RichText `json:"summary,omitempty"`
	Content  RichText `json:"content"`
}

// Collectible is a catalogued item.
type Collectible struct {
	ID           string                   `json:"id"`
	Slug         string                   `json:"slug"`
	UpdatedAt    string                   `json:"updatedAt"`
	Translations []CollectibleTranslation `json:"translations"`

	Raw json.RawMessage `json:"-"`
}

// CollectibleTranslation is a language variant of a collectible.
type CollectibleTranslation struct {
	Language    string   `json:"language"`
	Pretitle    string   `json:"pretitle,omitempty"`
	Title       string   `json:"title"`
	Subtitle    string   `json:"subtitle,omitempty"`
	Description RichText `json:"description,omitempty"`
}

// Folder groups other content.
type Folder struct {
	ID           string              `json:"id"`
	Slug         string              `json:"slug"`
	Translations []TitledTranslation `json:"translations"`

	Raw json.RawMessage `json:"-"`
}

// TitledTranslation is the title/description variant shared by folders
// and media.
type TitledTranslation struct {
	Language    string   `json:"language"`
	Title       string   `json:"title"`
	Description RichText `json:"description,omitempty"`
}

// Media is an audio, video, image or file record.
// Filename is empty for audios and videos, which have no fallback.
type Media struct {
	ID           string              `json:"id"`
	Filename     string              `json:"filename"`
	UpdatedAt    string              `json:"updatedAt"`
	Translations []TitledTranslation `json:"translations"`

	Raw json.RawMessage `json:"-"`
}

// Recorder is a contributor profile.
type Recorder struct {
	ID           string                `json:"id"`
	Username     string                `json:"username"`
	Translations []RecorderTranslation `json:"translations"`

	Raw json.RawMessage `json:"-"`
}

// RecorderTranslation is a language variant of a recorder's biography.
type RecorderTranslation struct {
	Language  string   `json:"language"`
	Biography RichText `json:"biography,omitempty"`
}

// ChronologyEvent is a dated record holding several independently
// translated events.
type ChronologyEvent struct {
	ID     string                `json:"id"`
	Date   json.RawMessage       `json:"date"`
	Events []ChronologyEventItem `json:"events"`

	Raw json.RawMessage `json:"-"`
}

// ChronologyEventItem is one event of a chronology record.
type ChronologyEventItem struct {
	Translations []ChronologyEventTranslation `json:"translations"`

	// Raw is the event body as returned by the backend.
	Raw json.RawMessage `json:"-"`
}

// UnmarshalJSON keeps the raw event body alongside the decoded fields.
func (e *ChronologyEventItem) UnmarshalJSON(data []byte) error {
	type plain ChronologyEventItem
	var decoded plain
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	*e = ChronologyEventItem(decoded)
	e.Raw = append(json.RawMessage(nil), data...)
	return nil
}

// ChronologyEventTranslation is a language variant of a chronology event.
type ChronologyEventTranslation struct {
	Language    string   `json:"language"`
	Title       string   `json:"title,omitempty"`
	Description RichText `json:"description,omitempty"`
	Notes       RichText `json:"notes,omitempty"`
}
