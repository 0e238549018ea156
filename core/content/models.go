package content

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/madrasa/core"
)

// News categories
const (
	CategoryNews  = "news"
	CategoryEvent = "event"
)

var (
	// NewsFreshness is the natural order of news: latest published first.
	NewsFreshness = []core.DBOrdering{
		{Field: core.FieldPublishedAt},
	}
	// GalleryFreshness is the natural order of gallery images: explicit order first, then latest.
	GalleryFreshness = []core.DBOrdering{
		{Field: core.FieldOrder, Ascending: true},
		{Field: core.FieldCreatedAt},
	}
)

// News is a news article or an event announcement.
type News struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Summary     string     `json:"summary"`
	Body        string     `json:"body"`
	Category    string     `json:"category"`
	ImageURL    string     `json:"imageUrl"`
	EventDate   *time.Time `json:"eventDate,omitempty"` // UTC
	PublishedAt time.Time  `json:"publishedAt"`         // UTC
	IsActive    bool       `json:"isActive"`
	CreatedAt   time.Time  `json:"createdAt"` // UTC
	UpdatedAt   time.Time  `json:"updatedAt"` // UTC
}

func (n News) ItemID() string   { return n.ID }
func (n News) ItemActive() bool { return n.IsActive }

// GalleryImage is a picture shown in the school gallery.
type GalleryImage struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Caption   string    `json:"caption"`
	ImageURL  string    `json:"imageUrl"`
	Order     int       `json:"order"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"` // UTC
	UpdatedAt time.Time `json:"updatedAt"` // UTC
}

func (g GalleryImage) ItemID() string   { return g.ID }
func (g GalleryImage) ItemActive() bool { return g.IsActive }

// NewNews contains information needed to publish a News.
type NewNews struct {
	Title       string     `json:"title" validate:"required,notblank,max=200"`
	Summary     string     `json:"summary" validate:"max=500"`
	Body        string     `json:"body"`
	Category    string     `json:"category" validate:"omitempty,oneof=news event"`
	ImageURL    string     `json:"imageUrl" validate:"omitempty,url"`
	EventDate   *time.Time `json:"eventDate"`
	PublishedAt *time.Time `json:"publishedAt"`
	IsActive    *bool      `json:"isActive"`
}

func (nn *NewNews) Validate(validate *validator.Validate) error {
	nn.Title = core.CleanString(nn.Title)
	nn.Summary = core.CleanString(nn.Summary)
	nn.Category = core.CleanString(nn.Category, true /* lower */)
	nn.ImageURL = core.CleanString(nn.ImageURL)
	if nn.Category == "" {
		nn.Category = CategoryNews
	}
	return validate.Struct(nn)
}

// UpdateNews defines what information may be provided to modify an existing News.
// blank fields keep their original value.
type UpdateNews struct {
	Title       string     `json:"title" validate:"max=200"`
	Summary     string     `json:"summary" validate:"max=500"`
	Body        string     `json:"body"`
	Category    string     `json:"category" validate:"omitempty,oneof=news event"`
	ImageURL    string     `json:"imageUrl" validate:"omitempty,url"`
	EventDate   *time.Time `json:"eventDate"`
	PublishedAt *time.Time `json:"publishedAt"`
	IsActive    *bool      `json:"isActive"`
}

func (un *UpdateNews) Validate(orig News, validate *validator.Validate) error {
	un.Title = keepOrig(core.CleanString(un.Title), orig.Title)
	un.Summary = keepOrig(core.CleanString(un.Summary), orig.Summary)
	un.Body = keepOrig(un.Body, orig.Body)
	un.Category = keepOrig(core.CleanString(un.Category, true /* lower */), orig.Category)
	un.ImageURL = keepOrig(core.CleanString(un.ImageURL), orig.ImageURL)
	if un.EventDate == nil {
		un.EventDate = orig.EventDate
	}
	if un.PublishedAt == nil {
		un.PublishedAt = &orig.PublishedAt
	}
	if un.IsActive == nil {
		un.IsActive = &orig.IsActive
	}
	return validate.Struct(un)
}

// NewGalleryImage contains information needed to add a GalleryImage.
type NewGalleryImage struct {
	Title    string `json:"title" validate:"required,notblank,max=200"`
	Caption  string `json:"caption" validate:"max=500"`
	ImageURL string `json:"imageUrl" validate:"required,url"`
	Order    int    `json:"order" validate:"gte=0"`
	IsActive *bool  `json:"isActive"`
}

func (ng *NewGalleryImage) Validate(validate *validator.Validate) error {
	ng.Title = core.CleanString(ng.Title)
	ng.Caption = core.CleanString(ng.Caption)
	ng.ImageURL = core.CleanString(ng.ImageURL)
	return validate.Struct(ng)
}

// UpdateGalleryImage defines what information may be provided to modify an existing GalleryImage.
type UpdateGalleryImage struct {
	Title    string `json:"title" validate:"max=200"`
	Caption  string `json:"caption" validate:"max=500"`
	ImageURL string `json:"imageUrl" validate:"omitempty,url"`
	Order    *int   `json:"order" validate:"omitempty,gte=0"`
	IsActive *bool  `json:"isActive"`
}

func (ug *UpdateGalleryImage) Validate(orig GalleryImage, validate *validator.Validate) error {
	ug.Title = keepOrig(core.CleanString(ug.Title), orig.Title)
	ug.Caption = keepOrig(core.CleanString(ug.Caption), orig.Caption)
	ug.ImageURL = keepOrig(core.CleanString(ug.ImageURL), orig.ImageURL)
	if ug.Order == nil {
		ug.Order = &orig.Order
	}
	if ug.IsActive == nil {
		ug.IsActive = &orig.IsActive
	}
	return validate.Struct(ug)
}

type QueryFilter struct {
	ActiveOnly bool              `query:"active"`
	Limit      int               `query:"limit"`
	Orderings  []core.DBOrdering `query:"-"`
}

// Clean drops the orderings on fields other than `fields`, falling back to `defaults` when none is left.
func (qf *QueryFilter) Clean(defaults []core.DBOrdering, fields ...string) {
	if qf.Limit < 0 {
		qf.Limit = 0
	}
	orderings := make([]core.DBOrdering, 0, len(qf.Orderings))
	for _, ord := range qf.Orderings {
		for _, f := range fields {
			if ord.Field == f {
				orderings = append(orderings, ord)
				break
			}
		}
	}
	if len(orderings) == 0 {
		orderings = defaults
	}
	qf.Orderings = orderings
}

func keepOrig(val, orig string) string {
	if val == "" {
		return orig
	}
	return val
}
