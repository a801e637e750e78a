package services

import (
	"context"
	"fmt"

	"github.com/accords-library/search-sync/internal/core/domain"
	"github.com/accords-library/search-sync/internal/core/ports/driven"
	"github.com/accords-library/search-sync/internal/logger"
)

// documentAccumulator collects the documents of one rebuild in production
// order. It is owned by a single rebuild and needs no locking.
type documentAccumulator struct {
	docs []domain.SearchDocument
	keys map[string]struct{}
}

func newDocumentAccumulator() *documentAccumulator {
	return &documentAccumulator{keys: make(map[string]struct{})}
}

// add appends documents, rejecting keys already seen in this rebuild.
func (a *documentAccumulator) add(docs ...domain.SearchDocument) error {
	for _, doc := range docs {
		if _, seen := a.keys[doc.DocumentKey]; seen {
			return fmt.Errorf("%w: %w: %s", domain.ErrRecordTransform, domain.ErrDuplicateDocumentKey, doc.DocumentKey)
		}
		a.keys[doc.DocumentKey] = struct{}{}
		a.docs = append(a.docs, doc)
	}
	return nil
}

func (a *documentAccumulator) count() int {
	return len(a.docs)
}

func (a *documentAccumulator) documents() []domain.SearchDocument {
	return a.docs
}

// submit sends the documents to the index. A batch size of zero or less
// submits everything in one call; otherwise documents go out in chunks of
// batchSize, in order.
func (a *documentAccumulator) submit(ctx context.Context, engine driven.SearchEngine, uid string, batchSize int) error {
	logger.Info("Adding %d documents", len(a.docs))

	if batchSize <= 0 || len(a.docs) <= batchSize {
		return engine.AddDocuments(ctx, uid, a.docs)
	}

	for start := 0; start < len(a.docs); start += batchSize {
		end := min(start+batchSize, len(a.docs))
		logger.Debug("Submitting documents %d-%d", start, end)
		if err := engine.AddDocuments(ctx, uid, a.docs[start:end]); err != nil {
			return fmt.Errorf("submit documents %d-%d: %w", start, end, err)
		}
	}
	return nil
}
