package domain

import "fmt"

// Category is a content category of the backend. Its value is the
// document type tag stored in the index.
type Category string

const (
	// CategoryPages are editorial pages, addressed by slug.
	CategoryPages Category = "Pages"
	// CategoryCollectibles are catalogued physical items, addressed by slug.
	CategoryCollectibles Category = "Collectibles"
	// CategoryFolders group other content, addressed by slug.
	CategoryFolders Category = "Folders"
	// CategoryAudios are audio media.
	CategoryAudios Category = "Audios"
	// CategoryImages are image media.
	CategoryImages Category = "Images"
	// CategoryVideos are video media.
	CategoryVideos Category = "Videos"
	// CategoryRecorders are contributor profiles.
	CategoryRecorders Category = "Recorders"
	// CategoryFiles are other downloadable media.
	CategoryFiles Category = "Files"
	// CategoryChronologyEvents are dated records holding several events.
	CategoryChronologyEvents Category = "ChronologyEvents"
)

// AllCategories returns every category in rebuild order.
func AllCategories() []Category {
	return []Category{
		CategoryPages,
		CategoryCollectibles,
		CategoryFolders,
		CategoryAudios,
		CategoryImages,
		CategoryVideos,
		CategoryRecorders,
		CategoryFiles,
		CategoryChronologyEvents,
	}
}

// ParseCategory validates a category tag.
func ParseCategory(s string) (Category, error) {
	for _, c := range AllCategories() {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: unknown category %q", ErrInvalidInput, s)
}

// String implements fmt.Stringer.
func (c Category) String() string {
	return string(c)
}
