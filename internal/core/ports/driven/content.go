package driven

import (
	"context"

	"github.com/accords-library/search-sync/internal/core/domain"
)

// ContentBackend reads records from the content-management backend.
// Backed by the Payload CMS REST API. Implementations handle authentication
// and token caching transparently.
type ContentBackend interface {
	// GetAllIDs returns the slugs or IDs of every category in one snapshot.
	GetAllIDs(ctx context.Context) (*domain.ContentIDs, error)

	// GetPage fetches a page by slug.
	GetPage(ctx context.Context, slug string) (*domain.Page, error)

	// GetCollectible fetches a collectible by slug.
	GetCollectible(ctx context.Context, slug string) (*domain.Collectible, error)

	// GetFolder fetches a folder by slug.
	GetFolder(ctx context.Context, slug string) (*domain.Folder, error)

	// GetAudio fetches an audio by ID.
	GetAudio(ctx context.Context, id string) (*domain.Media, error)

	// GetImage fetches an image by ID.
	GetImage(ctx context.Context, id string) (*domain.Media, error)

	// GetVideo fetches a video by ID.
	GetVideo(ctx context.Context, id string) (*domain.Media, error)

	// GetRecorder fetches a recorder by ID.
	GetRecorder(ctx context.Context, id string) (*domain.Recorder, error)

	// GetFile fetches a file by ID.
	GetFile(ctx context.Context, id string) (*domain.Media, error)

	// GetChronologyEvent fetches a chronology record by ID.
	GetChronologyEvent(ctx context.Context, id string) (*domain.ChronologyEvent, error)
}
