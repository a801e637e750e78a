package domain

// Index defaults applied by a rebuild.
const (
	// DefaultIndexUID is the identifier of the rebuilt index.
	DefaultIndexUID = "DOCUMENT"

	// DefaultMaxTotalHits is the pagination ceiling of the index.
	DefaultMaxTotalHits = 100_000
)

// Document attribute names as stored in the index.
const (
	AttributeDocumentKey = "meilid"
	AttributeItemID      = "id"
	AttributeLanguages   = "languages"
	AttributeType        = "type"
	AttributeTitle       = "title"
	AttributeContent     = "content"
	AttributeUpdatedAt   = "updatedAt"
)

// IndexSchema describes the index created by a rebuild.
type IndexSchema struct {
	// UID is the index identifier.
	UID string

	// PrimaryKey is the document attribute used as primary key.
	PrimaryKey string

	// MaxTotalHits caps the number of hits a search can page through.
	MaxTotalHits int64

	// Filterable attributes may be used in filters and facets.
	Filterable []string

	// Sortable attributes may be used to sort results.
	Sortable []string

	// Searchable attributes are matched against the query, in ranking order.
	Searchable []string

	// Distinct collapses results sharing the same value of this attribute.
	Distinct string
}

// DefaultIndexSchema returns the schema every rebuild applies.
func DefaultIndexSchema() IndexSchema {
	return IndexSchema{
		UID:          DefaultIndexUID,
		PrimaryKey:   AttributeDocumentKey,
		MaxTotalHits: DefaultMaxTotalHits,
		Filterable:   []string{AttributeLanguages, AttributeType},
		Sortable:     []string{AttributeTitle, AttributeUpdatedAt},
		Searchable:   []string{AttributeTitle, AttributeContent},
		Distinct:     AttributeItemID,
	}
}
