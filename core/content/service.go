package content

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/madrasa/core"
)

var (
	// errors
	ErrNewsNotFound    = core.NewNotFoundError("news not found")
	ErrGalleryNotFound = core.NewNotFoundError("gallery image not found")
)

type (
	NewsRepository interface {
		CreateNews(ctx context.Context, news News) (News, error)
		GetNews(ctx context.Context, id string) (News, error)
		QueryNews(ctx context.Context, filter QueryFilter) ([]News, error)
		UpdateNews(ctx context.Context, news News) (News, error)
		DeleteNews(ctx context.Context, ids ...string) error
		// ListActive returns active news sorted by `orderings`, at most `limit` of them.
		ListActive(ctx context.Context, orderings []core.DBOrdering, limit int) ([]News, error)
		// FindByIDs returns the news matching `ids`, in no particular order. Unknown ids are ignored.
		FindByIDs(ctx context.Context, ids []string) ([]News, error)
	}

	GalleryRepository interface {
		CreateGalleryImage(ctx context.Context, img GalleryImage) (GalleryImage, error)
		GetGalleryImage(ctx context.Context, id string) (GalleryImage, error)
		QueryGalleryImages(ctx context.Context, filter QueryFilter) ([]GalleryImage, error)
		UpdateGalleryImage(ctx context.Context, img GalleryImage) (GalleryImage, error)
		DeleteGalleryImages(ctx context.Context, ids ...string) error
		ListActive(ctx context.Context, orderings []core.DBOrdering, limit int) ([]GalleryImage, error)
		FindByIDs(ctx context.Context, ids []string) ([]GalleryImage, error)
	}

	Service struct {
		news     NewsRepository
		gallery  GalleryRepository
		validate *validator.Validate
	}
)

func NewService(news NewsRepository, gallery GalleryRepository, validate *validator.Validate) *Service {
	return &Service{news: news, gallery: gallery, validate: validate}
}

// News

func (svc *Service) CreateNews(ctx context.Context, nn NewNews) (News, error) {
	if err := nn.Validate(svc.validate); err != nil {
		return News{}, err
	}

	now := time.Now().UTC()
	news := News{
		ID:          core.NewID(),
		Title:       nn.Title,
		Summary:     nn.Summary,
		Body:        nn.Body,
		Category:    nn.Category,
		ImageURL:    nn.ImageURL,
		EventDate:   utcPtr(nn.EventDate),
		PublishedAt: now,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if nn.PublishedAt != nil {
		news.PublishedAt = nn.PublishedAt.UTC()
	}
	if nn.IsActive != nil {
		news.IsActive = *nn.IsActive
	}
	return svc.news.CreateNews(ctx, news)
}

func (svc *Service) GetNews(ctx context.Context, id string) (News, error) {
	return svc.news.GetNews(ctx, id)
}

// QueryNews lists news sorted by filter.Orderings, on published_at and created_at only.
func (svc *Service) QueryNews(ctx context.Context, filter QueryFilter) ([]News, error) {
	filter.Clean(NewsFreshness, core.FieldPublishedAt, core.FieldCreatedAt)
	return svc.news.QueryNews(ctx, filter)
}

func (svc *Service) UpdateNews(ctx context.Context, id string, un UpdateNews) (News, error) {
	orig, err := svc.news.GetNews(ctx, id)
	if err != nil {
		return News{}, errors.Wrap(err, "getting news")
	}
	if err = un.Validate(orig, svc.validate); err != nil {
		return News{}, err
	}

	orig.Title = un.Title
	orig.Summary = un.Summary
	orig.Body = un.Body
	orig.Category = un.Category
	orig.ImageURL = un.ImageURL
	orig.EventDate = utcPtr(un.EventDate)
	orig.PublishedAt = un.PublishedAt.UTC()
	orig.IsActive = *un.IsActive
	orig.UpdatedAt = time.Now().UTC()
	return svc.news.UpdateNews(ctx, orig)
}

func (svc *Service) DeleteNews(ctx context.Context, ids ...string) error {
	return svc.news.DeleteNews(ctx, ids...)
}

// Gallery

func (svc *Service) CreateGalleryImage(ctx context.Context, ng NewGalleryImage) (GalleryImage, error) {
	if err := ng.Validate(svc.validate); err != nil {
		return GalleryImage{}, err
	}

	now := time.Now().UTC()
	img := GalleryImage{
		ID:        core.NewID(),
		Title:     ng.Title,
		Caption:   ng.Caption,
		ImageURL:  ng.ImageURL,
		Order:     ng.Order,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if ng.IsActive != nil {
		img.IsActive = *ng.IsActive
	}
	return svc.gallery.CreateGalleryImage(ctx, img)
}

func (svc *Service) GetGalleryImage(ctx context.Context, id string) (GalleryImage, error) {
	return svc.gallery.GetGalleryImage(ctx, id)
}

func (svc *Service) QueryGalleryImages(ctx context.Context, filter QueryFilter) ([]GalleryImage, error) {
	filter.Clean(GalleryFreshness, core.FieldOrder, core.FieldCreatedAt)
	return svc.gallery.QueryGalleryImages(ctx, filter)
}

func (svc *Service) UpdateGalleryImage(ctx context.Context, id string, ug UpdateGalleryImage) (GalleryImage, error) {
	orig, err := svc.gallery.GetGalleryImage(ctx, id)
	if err != nil {
		return GalleryImage{}, errors.Wrap(err, "getting gallery image")
	}
	if err = ug.Validate(orig, svc.validate); err != nil {
		return GalleryImage{}, err
	}

	orig.Title = ug.Title
	orig.Caption = ug.Caption
	orig.ImageURL = ug.ImageURL
	orig.Order = *ug.Order
	orig.IsActive = *ug.IsActive
	orig.UpdatedAt = time.Now().UTC()
	return svc.gallery.UpdateGalleryImage(ctx, orig)
}

func (svc *Service) DeleteGalleryImages(ctx context.Context, ids ...string) error {
	return svc.gallery.DeleteGalleryImages(ctx, ids...)
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	utc := t.UTC()
	return &utc
}
