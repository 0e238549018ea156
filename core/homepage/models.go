package homepage

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/madrasa/core"
)

// Kind identifies a homepage section.
type Kind string

const (
	KindNews    Kind = "news"
	KindGallery Kind = "gallery"
)

// MaxItemsLimit caps the number of items an admin can put in a section.
const MaxItemsLimit = 50

// Item is any content that can be shown in a homepage section.
type Item interface {
	ItemID() string
	ItemActive() bool
}

// Source is the content repository a section reads from.
type Source[T Item] interface {
	// ListActive returns active items sorted by `orderings`, at most `limit` of them.
	ListActive(ctx context.Context, orderings []core.DBOrdering, limit int) ([]T, error)
	// FindByIDs returns the items matching `ids`, in no particular order. Unknown ids are ignored.
	FindByIDs(ctx context.Context, ids []string) ([]T, error)
}

// Section binds a Kind to its content Source and its fallback rule:
// when no selection is active, the first FallbackMax items sorted by Fallback are shown.
type Section[T Item] struct {
	Kind        Kind
	Source      Source[T]
	Fallback    []core.DBOrdering
	FallbackMax int
}

// Selection is an admin-curated, ordered list of items for a section.
// At most one Selection per Kind is active.
type Selection struct {
	ID        string    `json:"id"`
	Kind      Kind      `json:"kind"`
	ItemIDs   []string  `json:"itemIds"`
	MaxItems  int       `json:"maxItems"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"` // UTC
	UpdatedAt time.Time `json:"updatedAt"` // UTC
}

// Resolved is what a homepage section renders.
type Resolved[T Item] struct {
	Items             []T  `json:"items"`
	MaxItems          int  `json:"maxItems"`
	IsCustomSelection bool `json:"isCustomSelection"`
}

// SaveSelection contains information needed to save a new active Selection.
type SaveSelection struct {
	ItemIDs  []string `json:"itemIds" validate:"required,min=1,dive,required"`
	MaxItems int      `json:"maxItems" validate:"gte=1,lte=50"`
}

// Validate drops blank & duplicate ids (first occurrence wins) and defaults MaxItems to `defaultMax`.
func (ss *SaveSelection) Validate(defaultMax int, validate *validator.Validate) error {
	if ss.ItemIDs != nil {
		ss.ItemIDs = core.UniqueStrings(ss.ItemIDs)
	}
	if ss.MaxItems == 0 {
		ss.MaxItems = defaultMax
	}
	return validate.Struct(ss)
}
