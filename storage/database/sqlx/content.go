package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/madrasa/core"
	"github.com/trezcool/madrasa/core/content"
)

type newsRow struct {
	ID          string    `db:"id"`
	Title       string    `db:"title"`
	Summary     string    `db:"summary"`
	Body        string    `db:"body"`
	Category    string    `db:"category"`
	ImageURL    string    `db:"image_url"`
	EventDate   null.Time `db:"event_date"`
	PublishedAt time.Time `db:"published_at"`
	IsActive    bool      `db:"is_active"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func toNewsRow(n content.News) newsRow {
	return newsRow{
		ID:          n.ID,
		Title:       n.Title,
		Summary:     n.Summary,
		Body:        n.Body,
		Category:    n.Category,
		ImageURL:    n.ImageURL,
		EventDate:   nullTime(n.EventDate),
		PublishedAt: n.PublishedAt,
		IsActive:    n.IsActive,
		CreatedAt:   n.CreatedAt,
		UpdatedAt:   n.UpdatedAt,
	}
}

func (r newsRow) toNews() content.News {
	return content.News{
		ID:          r.ID,
		Title:       r.Title,
		Summary:     r.Summary,
		Body:        r.Body,
		Category:    r.Category,
		ImageURL:    r.ImageURL,
		EventDate:   timePtr(r.EventDate),
		PublishedAt: r.PublishedAt.UTC(),
		IsActive:    r.IsActive,
		CreatedAt:   r.CreatedAt.UTC(),
		UpdatedAt:   r.UpdatedAt.UTC(),
	}
}

func toNewsList(rows []newsRow) []content.News {
	list := make([]content.News, 0, len(rows))
	for _, r := range rows {
		list = append(list, r.toNews())
	}
	return list
}

const newsColumns = `id, title, summary, body, category, image_url, event_date, published_at, is_active, created_at, updated_at`

type newsRepository struct {
	db *sqlx.DB
}

var _ content.NewsRepository = (*newsRepository)(nil)

func NewNewsRepository(db *sqlx.DB) content.NewsRepository {
	return &newsRepository{db: db}
}

func (repo *newsRepository) CreateNews(ctx context.Context, news content.News) (content.News, error) {
	q := `INSERT INTO news (` + newsColumns + `)
		VALUES (:id, :title, :summary, :body, :category, :image_url, :event_date, :published_at, :is_active, :created_at, :updated_at)`
	if _, err := repo.db.NamedExecContext(ctx, q, toNewsRow(news)); err != nil {
		return content.News{}, errors.Wrap(err, "inserting news")
	}
	return news, nil
}

func (repo *newsRepository) GetNews(ctx context.Context, id string) (content.News, error) {
	var row newsRow
	err := repo.db.GetContext(ctx, &row, `SELECT `+newsColumns+` FROM news WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return content.News{}, content.ErrNewsNotFound
	}
	if err != nil {
		return content.News{}, errors.Wrap(err, "selecting news")
	}
	return row.toNews(), nil
}

func (repo *newsRepository) QueryNews(ctx context.Context, filter content.QueryFilter) ([]content.News, error) {
	q := `SELECT ` + newsColumns + ` FROM news`
	if filter.ActiveOnly {
		q += ` WHERE is_active`
	}
	q += orderBy(filter.Orderings, core.FieldPublishedAt, core.FieldCreatedAt)
	return repo.selectNews(ctx, q, filter.Limit)
}

func (repo *newsRepository) UpdateNews(ctx context.Context, news content.News) (content.News, error) {
	q := `UPDATE news SET title = :title, summary = :summary, body = :body, category = :category,
		image_url = :image_url, event_date = :event_date, published_at = :published_at,
		is_active = :is_active, updated_at = :updated_at
		WHERE id = :id`
	res, err := repo.db.NamedExecContext(ctx, q, toNewsRow(news))
	if err != nil {
		return content.News{}, errors.Wrap(err, "updating news")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return content.News{}, content.ErrNewsNotFound
	}
	return news, nil
}

func (repo *newsRepository) DeleteNews(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := repo.db.ExecContext(ctx, `DELETE FROM news WHERE id = ANY($1)`, pq.StringArray(ids))
	return errors.Wrap(err, "deleting news")
}

func (repo *newsRepository) ListActive(ctx context.Context, orderings []core.DBOrdering, limit int) ([]content.News, error) {
	q := `SELECT ` + newsColumns + ` FROM news WHERE is_active` +
		orderBy(orderings, core.FieldPublishedAt, core.FieldCreatedAt)
	return repo.selectNews(ctx, q, limit)
}

func (repo *newsRepository) FindByIDs(ctx context.Context, ids []string) ([]content.News, error) {
	if len(ids) == 0 {
		return []content.News{}, nil
	}
	var rows []newsRow
	q := `SELECT ` + newsColumns + ` FROM news WHERE id = ANY($1)`
	if err := repo.db.SelectContext(ctx, &rows, q, pq.StringArray(ids)); err != nil {
		return nil, errors.Wrap(err, "selecting news by ids")
	}
	return toNewsList(rows), nil
}

func (repo *newsRepository) selectNews(ctx context.Context, q string, limit int) ([]content.News, error) {
	var (
		rows []newsRow
		args []interface{}
	)
	if limit > 0 {
		q += ` LIMIT $1`
		args = append(args, limit)
	}
	if err := repo.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "selecting news")
	}
	return toNewsList(rows), nil
}

type galleryRow struct {
	ID        string    `db:"id"`
	Title     string    `db:"title"`
	Caption   string    `db:"caption"`
	ImageURL  string    `db:"image_url"`
	Order     int       `db:"display_order"`
	IsActive  bool      `db:"is_active"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func toGalleryRow(g content.GalleryImage) galleryRow {
	return galleryRow{
		ID:        g.ID,
		Title:     g.Title,
		Caption:   g.Caption,
		ImageURL:  g.ImageURL,
		Order:     g.Order,
		IsActive:  g.IsActive,
		CreatedAt: g.CreatedAt,
		UpdatedAt: g.UpdatedAt,
	}
}

func (r galleryRow) toGalleryImage() content.GalleryImage {
	return content.GalleryImage{
		ID:        r.ID,
		Title:     r.Title,
		Caption:   r.Caption,
		ImageURL:  r.ImageURL,
		Order:     r.Order,
		IsActive:  r.IsActive,
		CreatedAt: r.CreatedAt.UTC(),
		UpdatedAt: r.UpdatedAt.UTC(),
	}
}

func toGalleryList(rows []galleryRow) []content.GalleryImage {
	list := make([]content.GalleryImage, 0, len(rows))
	for _, r := range rows {
		list = append(list, r.toGalleryImage())
	}
	return list
}

const galleryColumns = `id, title, caption, image_url, display_order, is_active, created_at, updated_at`

type galleryRepository struct {
	db *sqlx.DB
}

var _ content.GalleryRepository = (*galleryRepository)(nil)

func NewGalleryRepository(db *sqlx.DB) content.GalleryRepository {
	return &galleryRepository{db: db}
}

func (repo *galleryRepository) CreateGalleryImage(ctx context.Context, img content.GalleryImage) (content.GalleryImage, error) {
	q := `INSERT INTO gallery_images (` + galleryColumns + `)
		VALUES (:id, :title, :caption, :image_url, :display_order, :is_active, :created_at, :updated_at)`
	if _, err := repo.db.NamedExecContext(ctx, q, toGalleryRow(img)); err != nil {
		return content.GalleryImage{}, errors.Wrap(err, "inserting gallery image")
	}
	return img, nil
}

func (repo *galleryRepository) GetGalleryImage(ctx context.Context, id string) (content.GalleryImage, error) {
	var row galleryRow
	err := repo.db.GetContext(ctx, &row, `SELECT `+galleryColumns+` FROM gallery_images WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return content.GalleryImage{}, content.ErrGalleryNotFound
	}
	if err != nil {
		return content.GalleryImage{}, errors.Wrap(err, "selecting gallery image")
	}
	return row.toGalleryImage(), nil
}

func (repo *galleryRepository) QueryGalleryImages(ctx context.Context, filter content.QueryFilter) ([]content.GalleryImage, error) {
	q := `SELECT ` + galleryColumns + ` FROM gallery_images`
	if filter.ActiveOnly {
		q += ` WHERE is_active`
	}
	q += orderBy(filter.Orderings, core.FieldOrder, core.FieldCreatedAt)
	return repo.selectImages(ctx, q, filter.Limit)
}

func (repo *galleryRepository) UpdateGalleryImage(ctx context.Context, img content.GalleryImage) (content.GalleryImage, error) {
	q := `UPDATE gallery_images SET title = :title, caption = :caption, image_url = :image_url,
		display_order = :display_order, is_active = :is_active, updated_at = :updated_at
		WHERE id = :id`
	res, err := repo.db.NamedExecContext(ctx, q, toGalleryRow(img))
	if err != nil {
		return content.GalleryImage{}, errors.Wrap(err, "updating gallery image")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return content.GalleryImage{}, content.ErrGalleryNotFound
	}
	return img, nil
}

func (repo *galleryRepository) DeleteGalleryImages(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := repo.db.ExecContext(ctx, `DELETE FROM gallery_images WHERE id = ANY($1)`, pq.StringArray(ids))
	return errors.Wrap(err, "deleting gallery images")
}

func (repo *galleryRepository) ListActive(ctx context.Context, orderings []core.DBOrdering, limit int) ([]content.GalleryImage, error) {
	q := `SELECT ` + galleryColumns + ` FROM gallery_images WHERE is_active` +
		orderBy(orderings, core.FieldOrder, core.FieldCreatedAt)
	return repo.selectImages(ctx, q, limit)
}

func (repo *galleryRepository) FindByIDs(ctx context.Context, ids []string) ([]content.GalleryImage, error) {
	if len(ids) == 0 {
		return []content.GalleryImage{}, nil
	}
	var rows []galleryRow
	q := `SELECT ` + galleryColumns + ` FROM gallery_images WHERE id = ANY($1)`
	if err := repo.db.SelectContext(ctx, &rows, q, pq.StringArray(ids)); err != nil {
		return nil, errors.Wrap(err, "selecting gallery images by ids")
	}
	return toGalleryList(rows), nil
}

func (repo *galleryRepository) selectImages(ctx context.Context, q string, limit int) ([]content.GalleryImage, error) {
	var (
		rows []galleryRow
		args []interface{}
	)
	if limit > 0 {
		q += ` LIMIT $1`
		args = append(args, limit)
	}
	if err := repo.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "selecting gallery images")
	}
	return toGalleryList(rows), nil
}
