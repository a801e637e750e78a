package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/accords-library/search-sync/internal/core/domain"
	"github.com/accords-library/search-sync/internal/core/ports/driven"
)

// --- Fakes shared by the services tests ---

// fakeSearchEngine implements driven.SearchEngine with call recording.
type fakeSearchEngine struct {
	mu sync.Mutex

	version    string
	versionErr error
	indexes    []string
	listErr    error
	deleteErrs map[string]error
	createErr  error
	configErr  error
	addErr     error

	// block, when set, is waited on by Version.
	block chan struct{}

	calls     []string
	deleted   []string
	schema    *domain.IndexSchema
	submitted [][]domain.SearchDocument
}

var _ driven.SearchEngine = (*fakeSearchEngine)(nil)

func newFakeSearchEngine(indexes ...string) *fakeSearchEngine {
	return &fakeSearchEngine{
		version:    "1.8.0",
		indexes:    indexes,
		deleteErrs: make(map[string]error),
	}
}

func (e *fakeSearchEngine) call(name string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls = append(e.calls, name)
}

func (e *fakeSearchEngine) Version(_ context.Context) (string, error) {
	if e.block != nil {
		<-e.block
	}
	e.call("version")
	return e.version, e.versionErr
}

func (e *fakeSearchEngine) ListIndexes(_ context.Context) ([]string, error) {
	e.call("list")
	if e.listErr != nil {
		return nil, e.listErr
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.indexes...), nil
}

func (e *fakeSearchEngine) DeleteIndex(_ context.Context, uid string) error {
	e.call("delete")
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.deleteErrs[uid]; err != nil {
		return err
	}
	e.deleted = append(e.deleted, uid)
	remaining := e.indexes[:0]
	for _, existing := range e.indexes {
		if existing != uid {
			remaining = append(remaining, existing)
		}
	}
	e.indexes = remaining
	return nil
}

func (e *fakeSearchEngine) CreateIndex(_ context.Context, uid, _ string) error {
	e.call("create")
	if e.createErr != nil {
		return e.createErr
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.indexes = append(e.indexes, uid)
	return nil
}

func (e *fakeSearchEngine) ConfigureIndex(_ context.Context, schema domain.IndexSchema) error {
	e.call("configure")
	if e.configErr != nil {
		return e.configErr
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.schema = &schema
	return nil
}

func (e *fakeSearchEngine) AddDocuments(_ context.Context, _ string, docs []domain.SearchDocument) error {
	e.call("add")
	if e.addErr != nil {
		return e.addErr
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.submitted = append(e.submitted, append([]domain.SearchDocument(nil), docs...))
	return nil
}

// allSubmitted flattens every AddDocuments batch.
func (e *fakeSearchEngine) allSubmitted() []domain.SearchDocument {
	e.mu.Lock()
	defer e.mu.Unlock()
	var all []domain.SearchDocument
	for _, batch := range e.submitted {
		all = append(all, batch...)
	}
	return all
}

// callsWithoutDeletes returns the call sequence with delete calls collapsed,
// since deletions run concurrently.
func (e *fakeSearchEngine) callSequence() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	seq := make([]string, 0, len(e.calls))
	for _, c := range e.calls {
		if c == "delete" && len(seq) > 0 && seq[len(seq)-1] == "delete" {
			continue
		}
		seq = append(seq, c)
	}
	return seq
}

// fakeContentBackend implements driven.ContentBackend over maps.
type fakeContentBackend struct {
	ids              domain.ContentIDs
	idsErr           error
	pages            map[string]*domain.Page
	collectibles     map[string]*domain.Collectible
	folders          map[string]*domain.Folder
	audios           map[string]*domain.Media
	images           map[string]*domain.Media
	videos           map[string]*domain.Media
	recorders        map[string]*domain.Recorder
	files            map[string]*domain.Media
	chronologyEvents map[string]*domain.ChronologyEvent
	fetchErr         error

	fetches int
}

var _ driven.ContentBackend = (*fakeContentBackend)(nil)

func newFakeContentBackend() *fakeContentBackend {
	return &fakeContentBackend{
		pages:            make(map[string]*domain.Page),
		collectibles:     make(map[string]*domain.Collectible),
		folders:          make(map[string]*domain.Folder),
		audios:           make(map[string]*domain.Media),
		images:           make(map[string]*domain.Media),
		videos:           make(map[string]*domain.Media),
		recorders:        make(map[string]*domain.Recorder),
		files:            make(map[string]*domain.Media),
		chronologyEvents: make(map[string]*domain.ChronologyEvent),
	}
}

func lookup[T any](b *fakeContentBackend, m map[string]*T, key string) (*T, error) {
	b.fetches++
	if b.fetchErr != nil {
		return nil, b.fetchErr
	}
	v, ok := m[key]
	if !ok {
		return nil, fmt.Errorf("%s: %w", key, domain.ErrNotFound)
	}
	return v, nil
}

func (b *fakeContentBackend) GetAllIDs(_ context.Context) (*domain.ContentIDs, error) {
	if b.idsErr != nil {
		return nil, b.idsErr
	}
	ids := b.ids
	return &ids, nil
}

func (b *fakeContentBackend) GetPage(_ context.Context, slug string) (*domain.Page, error) {
	return lookup(b, b.pages, slug)
}

func (b *fakeContentBackend) GetCollectible(_ context.Context, slug string) (*domain.Collectible, error) {
	return lookup(b, b.collectibles, slug)
}

func (b *fakeContentBackend) GetFolder(_ context.Context, slug string) (*domain.Folder, error) {
	return lookup(b, b.folders, slug)
}

func (b *fakeContentBackend) GetAudio(_ context.Context, id string) (*domain.Media, error) {
	return lookup(b, b.audios, id)
}

func (b *fakeContentBackend) GetImage(_ context.Context, id string) (*domain.Media, error) {
	return lookup(b, b.images, id)
}

func (b *fakeContentBackend) GetVideo(_ context.Context, id string) (*domain.Media, error) {
	return lookup(b, b.videos, id)
}

func (b *fakeContentBackend) GetRecorder(_ context.Context, id string) (*domain.Recorder, error) {
	return lookup(b, b.recorders, id)
}

func (b *fakeContentBackend) GetFile(_ context.Context, id string) (*domain.Media, error) {
	return lookup(b, b.files, id)
}

func (b *fakeContentBackend) GetChronologyEvent(_ context.Context, id string) (*domain.ChronologyEvent, error) {
	return lookup(b, b.chronologyEvents, id)
}

// Registration helpers keep the inventory in sync with the records.

func (b *fakeContentBackend) addPage(slug string, page *domain.Page) {
	b.ids.Pages.Slugs = append(b.ids.Pages.Slugs, slug)
	b.pages[slug] = page
}

func (b *fakeContentBackend) addCollectible(slug string, c *domain.Collectible) {
	b.ids.Collectibles.Slugs = append(b.ids.Collectibles.Slugs, slug)
	b.collectibles[slug] = c
}

func (b *fakeContentBackend) addFolder(slug string, f *domain.Folder) {
	b.ids.Folders.Slugs = append(b.ids.Folders.Slugs, slug)
	b.folders[slug] = f
}

func (b *fakeContentBackend) addAudio(m *domain.Media) {
	b.ids.Audios.IDs = append(b.ids.Audios.IDs, m.ID)
	b.audios[m.ID] = m
}

func (b *fakeContentBackend) addImage(m *domain.Media) {
	b.ids.Images.IDs = append(b.ids.Images.IDs, m.ID)
	b.images[m.ID] = m
}

func (b *fakeContentBackend) addVideo(m *domain.Media) {
	b.ids.Videos.IDs = append(b.ids.Videos.IDs, m.ID)
	b.videos[m.ID] = m
}

func (b *fakeContentBackend) addRecorder(r *domain.Recorder) {
	b.ids.Recorders.IDs = append(b.ids.Recorders.IDs, r.ID)
	b.recorders[r.ID] = r
}

func (b *fakeContentBackend) addFile(m *domain.Media) {
	b.ids.Files.IDs = append(b.ids.Files.IDs, m.ID)
	b.files[m.ID] = m
}

func (b *fakeContentBackend) addChronologyEvent(c *domain.ChronologyEvent) {
	b.ids.ChronologyEvents.IDs = append(b.ids.ChronologyEvents.IDs, c.ID)
	b.chronologyEvents[c.ID] = c
}

// fakeFormatter implements driven.TextFormatter. Rich text fixtures are JSON
// strings whose value is the flattened text; the string "!bad" fails.
type fakeFormatter struct{}

var _ driven.TextFormatter = fakeFormatter{}

func (fakeFormatter) InlineTitle(pretitle, title, subtitle string) string {
	parts := []string{}
	if pretitle != "" {
		parts = append(parts, pretitle+":")
	}
	parts = append(parts, title)
	if subtitle != "" {
		parts = append(parts, "-", subtitle)
	}
	return strings.Join(parts, " ")
}

func (fakeFormatter) RichText(content domain.RichText) (string, error) {
	var text string
	if err := json.Unmarshal(content, &text); err != nil {
		return "", err
	}
	if text == "!bad" {
		return "", errors.New("unsupported node")
	}
	return text, nil
}

// rich builds a rich text fixture flattening to text.
func rich(text string) domain.RichText {
	data, _ := json.Marshal(text)
	return domain.RichText(data)
}

// deref returns the pointed-to string, or "<nil>".
func deref(s *string) string {
	if s == nil {
		return "<nil>"
	}
	return *s
}

const (
	testUpdatedAt       = "2024-03-01T12:00:00.000Z"
	testUpdatedAtMillis = int64(1709294400000)
)
