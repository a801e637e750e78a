package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/accords-library/search-sync/internal/core/domain"
	"github.com/accords-library/search-sync/internal/core/ports/driven"
)

// languagesPolicy decides what a category reports in SearchDocument.Languages.
type languagesPolicy int

const (
	// languagesFromTranslations lists every language the unit has a variant in.
	languagesFromTranslations languagesPolicy = iota
	// languagesForcedEmpty keeps the category out of the language facet.
	languagesForcedEmpty
)

// unitVariant is one language variant of an expansion unit, with every
// text field already resolved by the category's title and body rules.
type unitVariant struct {
	language    string
	title       *string
	content     *string
	description *string
}

// expansionUnit is the category-independent form a record is reduced to.
// Most records yield one unit; chronology records yield one per event.
type expansionUnit struct {
	itemID        string
	variants      []unitVariant
	fallbackTitle string
	updatedAt     *int64
	data          any
}

// categoryPolicy carries the rules of one content category.
type categoryPolicy struct {
	category  domain.Category
	languages languagesPolicy

	// fallback makes an untranslated unit produce a single
	// language-neutral document titled by unit.fallbackTitle.
	fallback bool

	ids  func(ids *domain.ContentIDs) []string
	load func(ctx context.Context, id string) ([]expansionUnit, error)
}

// expand turns a unit into its search documents.
func (p categoryPolicy) expand(unit expansionUnit) []domain.SearchDocument {
	if len(unit.variants) == 0 {
		if !p.fallback {
			return nil
		}
		title := unit.fallbackTitle
		return []domain.SearchDocument{{
			DocumentKey: domain.ComposeDocumentKey(unit.itemID, ""),
			ItemID:      unit.itemID,
			Languages:   []string{},
			Title:       &title,
			UpdatedAt:   unit.updatedAt,
			Type:        p.category,
			Data:        unit.data,
		}}
	}

	docs := make([]domain.SearchDocument, 0, len(unit.variants))
	for _, v := range unit.variants {
		docs = append(docs, domain.SearchDocument{
			DocumentKey: domain.ComposeDocumentKey(unit.itemID, v.language),
			ItemID:      unit.itemID,
			Languages:   p.languagesOf(unit),
			Title:       v.title,
			Content:     v.content,
			Description: v.description,
			UpdatedAt:   unit.updatedAt,
			Type:        p.category,
			Data:        unit.data,
		})
	}
	return docs
}

func (p categoryPolicy) languagesOf(unit expansionUnit) []string {
	if p.languages == languagesForcedEmpty {
		return []string{}
	}
	languages := make([]string, 0, len(unit.variants))
	for _, v := range unit.variants {
		languages = append(languages, v.language)
	}
	return languages
}

// transformer fetches records and reduces them to expansion units.
type transformer struct {
	content   driven.ContentBackend
	formatter driven.TextFormatter
}

// categoryPolicies returns the policy of every category in rebuild order.
func categoryPolicies(content driven.ContentBackend, formatter driven.TextFormatter) []categoryPolicy {
	t := &transformer{content: content, formatter: formatter}

	return []categoryPolicy{
		{
			category:  domain.CategoryPages,
			languages: languagesFromTranslations,
			ids:       func(ids *domain.ContentIDs) []string { return ids.Pages.Slugs },
			load:      t.page,
		},
		{
			category:  domain.CategoryCollectibles,
			languages: languagesFromTranslations,
			ids:       func(ids *domain.ContentIDs) []string { return ids.Collectibles.Slugs },
			load:      t.collectible,
		},
		{
			// Folders report no languages although their translations
			// carry one. Whether folders belong in the language facet is
			// unconfirmed, so this stays as is.
			category:  domain.CategoryFolders,
			languages: languagesForcedEmpty,
			ids:       func(ids *domain.ContentIDs) []string { return ids.Folders.Slugs },
			load:      t.folder,
		},
		{
			category:  domain.CategoryAudios,
			languages: languagesFromTranslations,
			ids:       func(ids *domain.ContentIDs) []string { return ids.Audios.IDs },
			load:      t.media(content.GetAudio, false),
		},
		{
			category:  domain.CategoryImages,
			languages: languagesForcedEmpty,
			fallback:  true,
			ids:       func(ids *domain.ContentIDs) []string { return ids.Images.IDs },
			load:      t.media(content.GetImage, true),
		},
		{
			category:  domain.CategoryVideos,
			languages: languagesFromTranslations,
			ids:       func(ids *domain.ContentIDs) []string { return ids.Videos.IDs },
			load:      t.media(content.GetVideo, false),
		},
		{
			category:  domain.CategoryRecorders,
			languages: languagesForcedEmpty,
			fallback:  true,
			ids:       func(ids *domain.ContentIDs) []string { return ids.Recorders.IDs },
			load:      t.recorder,
		},
		{
			category:  domain.CategoryFiles,
			languages: languagesForcedEmpty,
			fallback:  true,
			ids:       func(ids *domain.ContentIDs) []string { return ids.Files.IDs },
			load:      t.media(content.GetFile, true),
		},
		{
			category:  domain.CategoryChronologyEvents,
			languages: languagesFromTranslations,
			ids:       func(ids *domain.ContentIDs) []string { return ids.ChronologyEvents.IDs },
			load:      t.chronologyEvent,
		},
	}
}

func (t *transformer) page(ctx context.Context, slug string) ([]expansionUnit, error) {
	page, err := t.content.GetPage(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("get page: %w", err)
	}
	if err := requireID(page.ID); err != nil {
		return nil, err
	}
	updatedAt, err := epochMillis(page.UpdatedAt)
	if err != nil {
		return nil, err
	}

	unit := expansionUnit{itemID: page.ID, updatedAt: updatedAt, data: echo(page.Raw, page)}
	for _, tr := range page.Translations {
		if err := requireLanguage(tr.Language); err != nil {
			return nil, err
		}
		content, err := t.pageContent(tr)
		if err != nil {
			return nil, err
		}
		unit.variants = append(unit.variants, unitVariant{
			language: tr.Language,
			title:    stringPtr(t.formatter.InlineTitle(tr.Pretitle, tr.Title, tr.Subtitle)),
			content:  content,
		})
	}
	return []expansionUnit{unit}, nil
}

// pageContent puts the summary ahead of the body.
func (t *transformer) pageContent(tr domain.PageTranslation) (*string, error) {
	if tr.Summary.IsEmpty() && tr.Content.IsEmpty() {
		return nil, nil
	}

	var text string
	if !tr.Summary.IsEmpty() {
		summary, err := t.richText(tr.Summary)
		if err != nil {
			return nil, err
		}
		text = summary + "\n\n\n"
	}
	if !tr.Content.IsEmpty() {
		body, err := t.richText(tr.Content)
		if err != nil {
			return nil, err
		}
		text += body
	}
	return &text, nil
}

func (t *transformer) collectible(ctx context.Context, slug string) ([]expansionUnit, error) {
	collectible, err := t.content.GetCollectible(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("get collectible: %w", err)
	}
	if err := requireID(collectible.ID); err != nil {
		return nil, err
	}
	updatedAt, err := epochMillis(collectible.UpdatedAt)
	if err != nil {
		return nil, err
	}

	unit := expansionUnit{itemID: collectible.ID, updatedAt: updatedAt, data: echo(collectible.Raw, collectible)}
	for _, tr := range collectible.Translations {
		if err := requireLanguage(tr.Language); err != nil {
			return nil, err
		}
		description, err := t.optionalRichText(tr.Description)
		if err != nil {
			return nil, err
		}
		unit.variants = append(unit.variants, unitVariant{
			language:    tr.Language,
			title:       stringPtr(t.formatter.InlineTitle(tr.Pretitle, tr.Title, tr.Subtitle)),
			description: description,
		})
	}
	return []expansionUnit{unit}, nil
}

func (t *transformer) folder(ctx context.Context, slug string) ([]expansionUnit, error) {
	folder, err := t.content.GetFolder(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("get folder: %w", err)
	}
	if err := requireID(folder.ID); err != nil {
		return nil, err
	}

	unit := expansionUnit{itemID: folder.ID, data: echo(folder.Raw, folder)}
	variants, err := t.titledVariants(folder.Translations)
	if err != nil {
		return nil, err
	}
	unit.variants = variants
	return []expansionUnit{unit}, nil
}

// media loads audios, images, videos and files. Filename-titled fallbacks
// only apply to images and files.
func (t *transformer) media(
	get func(ctx context.Context, id string) (*domain.Media, error),
	filenameFallback bool,
) func(ctx context.Context, id string) ([]expansionUnit, error) {
	return func(ctx context.Context, id string) ([]expansionUnit, error) {
		media, err := get(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("get media: %w", err)
		}
		if err := requireID(media.ID); err != nil {
			return nil, err
		}
		updatedAt, err := epochMillis(media.UpdatedAt)
		if err != nil {
			return nil, err
		}

		unit := expansionUnit{itemID: media.ID, updatedAt: updatedAt, data: echo(media.Raw, media)}
		if filenameFallback && len(media.Translations) == 0 {
			if media.Filename == "" {
				return nil, fmt.Errorf("%w: media %s has neither translations nor filename", domain.ErrRecordTransform, media.ID)
			}
			unit.fallbackTitle = media.Filename
		}
		variants, err := t.titledVariants(media.Translations)
		if err != nil {
			return nil, err
		}
		unit.variants = variants
		return []expansionUnit{unit}, nil
	}
}

func (t *transformer) titledVariants(translations []domain.TitledTranslation) ([]unitVariant, error) {
	variants := make([]unitVariant, 0, len(translations))
	for _, tr := range translations {
		if err := requireLanguage(tr.Language); err != nil {
			return nil, err
		}
		description, err := t.optionalRichText(tr.Description)
		if err != nil {
			return nil, err
		}
		variants = append(variants, unitVariant{
			language:    tr.Language,
			title:       stringPtr(tr.Title),
			description: description,
		})
	}
	return variants, nil
}

// recorder titles every document by username, translated or not.
func (t *transformer) recorder(ctx context.Context, id string) ([]expansionUnit, error) {
	recorder, err := t.content.GetRecorder(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get recorder: %w", err)
	}
	if err := requireID(recorder.ID); err != nil {
		return nil, err
	}
	if recorder.Username == "" {
		return nil, fmt.Errorf("%w: recorder %s has no username", domain.ErrRecordTransform, recorder.ID)
	}

	unit := expansionUnit{
		itemID:        recorder.ID,
		fallbackTitle: recorder.Username,
		data:          echo(recorder.Raw, recorder),
	}
	for _, tr := range recorder.Translations {
		if err := requireLanguage(tr.Language); err != nil {
			return nil, err
		}
		biography, err := t.optionalRichText(tr.Biography)
		if err != nil {
			return nil, err
		}
		unit.variants = append(unit.variants, unitVariant{
			language:    tr.Language,
			title:       stringPtr(recorder.Username),
			description: biography,
		})
	}
	return []expansionUnit{unit}, nil
}

// chronologyData is the data echo of a chronology event document.
type chronologyData struct {
	Date  json.RawMessage `json:"date"`
	Event any             `json:"event"`
}

// chronologyEvent yields one unit per nested event, keyed by position.
func (t *transformer) chronologyEvent(ctx context.Context, id string) ([]expansionUnit, error) {
	record, err := t.content.GetChronologyEvent(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get chronology event: %w", err)
	}
	if err := requireID(record.ID); err != nil {
		return nil, err
	}

	units := make([]expansionUnit, 0, len(record.Events))
	for index, event := range record.Events {
		unit := expansionUnit{
			itemID: domain.NestedItemID(record.ID, index),
			data: chronologyData{
				Date:  record.Date,
				Event: echo(event.Raw, event),
			},
		}
		for _, tr := range event.Translations {
			if err := requireLanguage(tr.Language); err != nil {
				return nil, err
			}
			content, err := t.chronologyContent(tr)
			if err != nil {
				return nil, err
			}
			v := unitVariant{language: tr.Language, content: content}
			if tr.Title != "" {
				v.title = stringPtr(tr.Title)
			}
			unit.variants = append(unit.variants, v)
		}
		units = append(units, unit)
	}
	return units, nil
}

func (t *transformer) chronologyContent(tr domain.ChronologyEventTranslation) (*string, error) {
	if tr.Description.IsEmpty() && tr.Notes.IsEmpty() {
		return nil, nil
	}
	var description, notes string
	var err error
	if !tr.Description.IsEmpty() {
		if description, err = t.richText(tr.Description); err != nil {
			return nil, err
		}
	}
	if !tr.Notes.IsEmpty() {
		if notes, err = t.richText(tr.Notes); err != nil {
			return nil, err
		}
	}
	text := description + "\n\n" + notes
	return &text, nil
}

func (t *transformer) optionalRichText(content domain.RichText) (*string, error) {
	if content.IsEmpty() {
		return nil, nil
	}
	text, err := t.richText(content)
	if err != nil {
		return nil, err
	}
	return &text, nil
}

func (t *transformer) richText(content domain.RichText) (string, error) {
	text, err := t.formatter.RichText(content)
	if err != nil {
		return "", fmt.Errorf("%w: format rich text: %w", domain.ErrRecordTransform, err)
	}
	return text, nil
}

func requireID(id string) error {
	if id == "" {
		return fmt.Errorf("%w: record has no id", domain.ErrRecordTransform)
	}
	return nil
}

func requireLanguage(language string) error {
	if language == "" {
		return fmt.Errorf("%w: translation has no language", domain.ErrRecordTransform)
	}
	return nil
}

// epochMillis converts a backend timestamp to epoch milliseconds.
func epochMillis(timestamp string) (*int64, error) {
	parsed, err := time.Parse(time.RFC3339Nano, timestamp)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid updatedAt %q: %w", domain.ErrRecordTransform, timestamp, err)
	}
	millis := parsed.UnixMilli()
	return &millis, nil
}

// echo returns the raw record body, or the decoded record when the backend
// did not provide one.
func echo(raw json.RawMessage, record any) any {
	if len(raw) > 0 {
		return raw
	}
	return record
}

func stringPtr(s string) *string {
	return &s
}
