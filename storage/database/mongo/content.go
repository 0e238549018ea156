package mongorepos

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/trezcool/madrasa/core"
	"github.com/trezcool/madrasa/core/content"
)

type newsDoc struct {
	ID          string     `bson:"_id"`
	Title       string     `bson:"title"`
	Summary     string     `bson:"summary"`
	Body        string     `bson:"body"`
	Category    string     `bson:"category"`
	ImageURL    string     `bson:"image_url"`
	EventDate   *time.Time `bson:"event_date,omitempty"`
	PublishedAt time.Time  `bson:"published_at"`
	IsActive    bool       `bson:"is_active"`
	CreatedAt   time.Time  `bson:"created_at"`
	UpdatedAt   time.Time  `bson:"updated_at"`
}

func (d newsDoc) toNews() content.News {
	return content.News{
		ID:          d.ID,
		Title:       d.Title,
		Summary:     d.Summary,
		Body:        d.Body,
		Category:    d.Category,
		ImageURL:    d.ImageURL,
		EventDate:   utcPtr(d.EventDate),
		PublishedAt: utc(d.PublishedAt),
		IsActive:    d.IsActive,
		CreatedAt:   utc(d.CreatedAt),
		UpdatedAt:   utc(d.UpdatedAt),
	}
}

type newsRepository struct {
	coll *mongo.Collection
}

var _ content.NewsRepository = (*newsRepository)(nil)

func NewNewsRepository(db *mongo.Database) content.NewsRepository {
	return &newsRepository{coll: db.Collection(newsColl)}
}

func (repo *newsRepository) CreateNews(ctx context.Context, news content.News) (content.News, error) {
	if _, err := repo.coll.InsertOne(ctx, newsDoc(news)); err != nil {
		return content.News{}, errors.Wrap(err, "inserting news")
	}
	return news, nil
}

func (repo *newsRepository) GetNews(ctx context.Context, id string) (content.News, error) {
	var doc newsDoc
	err := repo.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return content.News{}, content.ErrNewsNotFound
	}
	if err != nil {
		return content.News{}, errors.Wrap(err, "finding news")
	}
	return doc.toNews(), nil
}

func (repo *newsRepository) QueryNews(ctx context.Context, filter content.QueryFilter) ([]content.News, error) {
	query := bson.M{}
	if filter.ActiveOnly {
		query["is_active"] = true
	}
	list, err := findAll(ctx, repo.coll, query, findOptions(sortBy(filter.Orderings), filter.Limit), newsDoc.toNews)
	return list, errors.Wrap(err, "finding news")
}

func (repo *newsRepository) UpdateNews(ctx context.Context, news content.News) (content.News, error) {
	res, err := repo.coll.ReplaceOne(ctx, bson.M{"_id": news.ID}, newsDoc(news))
	if err != nil {
		return content.News{}, errors.Wrap(err, "replacing news")
	}
	if res.MatchedCount == 0 {
		return content.News{}, content.ErrNewsNotFound
	}
	return news, nil
}

func (repo *newsRepository) DeleteNews(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := repo.coll.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	return errors.Wrap(err, "deleting news")
}

func (repo *newsRepository) ListActive(ctx context.Context, orderings []core.DBOrdering, limit int) ([]content.News, error) {
	list, err := findAll(ctx, repo.coll, bson.M{"is_active": true}, findOptions(sortBy(orderings), limit), newsDoc.toNews)
	return list, errors.Wrap(err, "finding active news")
}

func (repo *newsRepository) FindByIDs(ctx context.Context, ids []string) ([]content.News, error) {
	if len(ids) == 0 {
		return []content.News{}, nil
	}
	list, err := findAll(ctx, repo.coll, bson.M{"_id": bson.M{"$in": ids}}, findOptions(nil, 0), newsDoc.toNews)
	return list, errors.Wrap(err, "finding news by ids")
}

type galleryDoc struct {
	ID        string    `bson:"_id"`
	Title     string    `bson:"title"`
	Caption   string    `bson:"caption"`
	ImageURL  string    `bson:"image_url"`
	Order     int       `bson:"display_order"`
	IsActive  bool      `bson:"is_active"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func (d galleryDoc) toGalleryImage() content.GalleryImage {
	img := content.GalleryImage(d)
	img.CreatedAt, img.UpdatedAt = utc(d.CreatedAt), utc(d.UpdatedAt)
	return img
}

type galleryRepository struct {
	coll *mongo.Collection
}

var _ content.GalleryRepository = (*galleryRepository)(nil)

func NewGalleryRepository(db *mongo.Database) content.GalleryRepository {
	return &galleryRepository{coll: db.Collection(galleryColl)}
}

func (repo *galleryRepository) CreateGalleryImage(ctx context.Context, img content.GalleryImage) (content.GalleryImage, error) {
	if _, err := repo.coll.InsertOne(ctx, galleryDoc(img)); err != nil {
		return content.GalleryImage{}, errors.Wrap(err, "inserting gallery image")
	}
	return img, nil
}

func (repo *galleryRepository) GetGalleryImage(ctx context.Context, id string) (content.GalleryImage, error) {
	var doc galleryDoc
	err := repo.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return content.GalleryImage{}, content.ErrGalleryNotFound
	}
	if err != nil {
		return content.GalleryImage{}, errors.Wrap(err, "finding gallery image")
	}
	return doc.toGalleryImage(), nil
}

func (repo *galleryRepository) QueryGalleryImages(ctx context.Context, filter content.QueryFilter) ([]content.GalleryImage, error) {
	query := bson.M{}
	if filter.ActiveOnly {
		query["is_active"] = true
	}
	list, err := findAll(ctx, repo.coll, query, findOptions(sortBy(filter.Orderings), filter.Limit), galleryDoc.toGalleryImage)
	return list, errors.Wrap(err, "finding gallery images")
}

func (repo *galleryRepository) UpdateGalleryImage(ctx context.Context, img content.GalleryImage) (content.GalleryImage, error) {
	res, err := repo.coll.ReplaceOne(ctx, bson.M{"_id": img.ID}, galleryDoc(img))
	if err != nil {
		return content.GalleryImage{}, errors.Wrap(err, "replacing gallery image")
	}
	if res.MatchedCount == 0 {
		return content.GalleryImage{}, content.ErrGalleryNotFound
	}
	return img, nil
}

func (repo *galleryRepository) DeleteGalleryImages(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := repo.coll.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	return errors.Wrap(err, "deleting gallery images")
}

func (repo *galleryRepository) ListActive(ctx context.Context, orderings []core.DBOrdering, limit int) ([]content.GalleryImage, error) {
	list, err := findAll(ctx, repo.coll, bson.M{"is_active": true}, findOptions(sortBy(orderings), limit), galleryDoc.toGalleryImage)
	return list, errors.Wrap(err, "finding active gallery images")
}

func (repo *galleryRepository) FindByIDs(ctx context.Context, ids []string) ([]content.GalleryImage, error) {
	if len(ids) == 0 {
		return []content.GalleryImage{}, nil
	}
	list, err := findAll(ctx, repo.coll, bson.M{"_id": bson.M{"$in": ids}}, findOptions(nil, 0), galleryDoc.toGalleryImage)
	return list, errors.Wrap(err, "finding gallery images by ids")
}
