package inmemdb

import (
	"context"

	"github.com/trezcool/madrasa/core"
	"github.com/trezcool/madrasa/core/content"
)

type newsRepository struct {
	db *table[content.News]
}

var _ content.NewsRepository = (*newsRepository)(nil)

func NewNewsRepository(db *DB) content.NewsRepository {
	return &newsRepository{db: db.news}
}

func newsColumn(n content.News, field string) interface{} {
	switch field {
	case core.FieldCreatedAt:
		return n.CreatedAt
	case core.FieldPublishedAt:
		return n.PublishedAt
	default:
		return n.ID
	}
}

func (repo *newsRepository) CreateNews(_ context.Context, news content.News) (content.News, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()
	repo.db.rows[news.ID] = news
	return news, nil
}

func (repo *newsRepository) GetNews(_ context.Context, id string) (content.News, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	if news, ok := repo.db.rows[id]; ok {
		return news, nil
	}
	return content.News{}, content.ErrNewsNotFound
}

func (repo *newsRepository) QueryNews(_ context.Context, filter content.QueryFilter) ([]content.News, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	rows := make([]content.News, 0, len(repo.db.rows))
	for _, n := range repo.db.rows {
		if !filter.ActiveOnly || n.IsActive {
			rows = append(rows, n)
		}
	}
	sortRows(rows, filter.Orderings, newsColumn)
	return limitRows(rows, filter.Limit), nil
}

func (repo *newsRepository) UpdateNews(_ context.Context, news content.News) (content.News, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()
	if _, ok := repo.db.rows[news.ID]; !ok {
		return content.News{}, content.ErrNewsNotFound
	}
	repo.db.rows[news.ID] = news
	return news, nil
}

func (repo *newsRepository) DeleteNews(_ context.Context, ids ...string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()
	for _, id := range ids {
		delete(repo.db.rows, id)
	}
	return nil
}

func (repo *newsRepository) ListActive(_ context.Context, orderings []core.DBOrdering, limit int) ([]content.News, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	rows := make([]content.News, 0, len(repo.db.rows))
	for _, n := range repo.db.rows {
		if n.IsActive {
			rows = append(rows, n)
		}
	}
	sortRows(rows, orderings, newsColumn)
	return limitRows(rows, limit), nil
}

func (repo *newsRepository) FindByIDs(_ context.Context, ids []string) ([]content.News, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	rows := make([]content.News, 0, len(ids))
	for _, id := range ids {
		if n, ok := repo.db.rows[id]; ok {
			rows = append(rows, n)
		}
	}
	return rows, nil
}

type galleryRepository struct {
	db *table[content.GalleryImage]
}

var _ content.GalleryRepository = (*galleryRepository)(nil)

func NewGalleryRepository(db *DB) content.GalleryRepository {
	return &galleryRepository{db: db.gallery}
}

func galleryColumn(g content.GalleryImage, field string) interface{} {
	switch field {
	case core.FieldCreatedAt:
		return g.CreatedAt
	case core.FieldOrder:
		return g.Order
	default:
		return g.ID
	}
}

func (repo *galleryRepository) CreateGalleryImage(_ context.Context, img content.GalleryImage) (content.GalleryImage, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()
	repo.db.rows[img.ID] = img
	return img, nil
}

func (repo *galleryRepository) GetGalleryImage(_ context.Context, id string) (content.GalleryImage, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	if img, ok := repo.db.rows[id]; ok {
		return img, nil
	}
	return content.GalleryImage{}, content.ErrGalleryNotFound
}

func (repo *galleryRepository) QueryGalleryImages(_ context.Context, filter content.QueryFilter) ([]content.GalleryImage, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	rows := make([]content.GalleryImage, 0, len(repo.db.rows))
	for _, g := range repo.db.rows {
		if !filter.ActiveOnly || g.IsActive {
			rows = append(rows, g)
		}
	}
	sortRows(rows, filter.Orderings, galleryColumn)
	return limitRows(rows, filter.Limit), nil
}

func (repo *galleryRepository) UpdateGalleryImage(_ context.Context, img content.GalleryImage) (content.GalleryImage, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()
	if _, ok := repo.db.rows[img.ID]; !ok {
		return content.GalleryImage{}, content.ErrGalleryNotFound
	}
	repo.db.rows[img.ID] = img
	return img, nil
}

func (repo *galleryRepository) DeleteGalleryImages(_ context.Context, ids ...string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()
	for _, id := range ids {
		delete(repo.db.rows, id)
	}
	return nil
}

func (repo *galleryRepository) ListActive(_ context.Context, orderings []core.DBOrdering, limit int) ([]content.GalleryImage, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	rows := make([]content.GalleryImage, 0, len(repo.db.rows))
	for _, g := range repo.db.rows {
		if g.IsActive {
			rows = append(rows, g)
		}
	}
	sortRows(rows, orderings, galleryColumn)
	return limitRows(rows, limit), nil
}

func (repo *galleryRepository) FindByIDs(_ context.Context, ids []string) ([]content.GalleryImage, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	rows := make([]content.GalleryImage, 0, len(ids))
	for _, id := range ids {
		if g, ok := repo.db.rows[id]; ok {
			rows = append(rows, g)
		}
	}
	return rows, nil
}
