package content_test

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/madrasa/core"
	"github.com/trezcool/madrasa/core/content"
	inmemdb "github.com/trezcool/madrasa/storage/database/inmem"
	"github.com/trezcool/madrasa/testutil"
)

func setup() (*content.Service, content.NewsRepository, content.GalleryRepository) {
	validate, _ := core.NewValidator()
	db := inmemdb.NewDB()
	news, gallery := inmemdb.NewNewsRepository(db), inmemdb.NewGalleryRepository(db)
	return content.NewService(news, gallery, validate), news, gallery
}

func titles[T any](items []T, title func(T) string) []string {
	res := make([]string, 0, len(items))
	for _, item := range items {
		res = append(res, title(item))
	}
	return res
}

func newsTitle(n content.News) string          { return n.Title }
func galleryTitle(g content.GalleryImage) string { return g.Title }

func TestQueryFilter_Clean(t *testing.T) {
	tests := []struct {
		name      string
		filter    content.QueryFilter
		wantLimit int
		wantOrd   []core.DBOrdering
	}{
		{name: "defaults", wantOrd: content.NewsFreshness},
		{
			name:      "negative limit",
			filter:    content.QueryFilter{Limit: -3},
			wantLimit: 0,
			wantOrd:   content.NewsFreshness,
		},
		{
			name:    "unknown fields dropped",
			filter:  content.QueryFilter{Orderings: []core.DBOrdering{{Field: "password"}, {Field: core.FieldCreatedAt, Ascending: true}}},
			wantOrd: []core.DBOrdering{{Field: core.FieldCreatedAt, Ascending: true}},
		},
		{
			name:    "only unknown fields",
			filter:  content.QueryFilter{Orderings: []core.DBOrdering{{Field: "1; DROP TABLE news"}}},
			wantOrd: content.NewsFreshness,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.filter.Clean(content.NewsFreshness, core.FieldPublishedAt, core.FieldCreatedAt)
			assert.Equal(t, tc.wantLimit, tc.filter.Limit)
			assert.Equal(t, tc.wantOrd, tc.filter.Orderings)
		})
	}
}

func TestService_CreateNews(t *testing.T) {
	svc, _, _ := setup()
	ctx := context.Background()

	_, err := svc.CreateNews(ctx, content.NewNews{Title: "  "})
	assert.IsType(t, validator.ValidationErrors{}, err)

	_, err = svc.CreateNews(ctx, content.NewNews{Title: "Sports Day", Category: "party"})
	assert.IsType(t, validator.ValidationErrors{}, err)

	published := time.Date(2025, 3, 1, 9, 0, 0, 0, time.FixedZone("EAT", 3*60*60))
	inactive := false
	news, err := svc.CreateNews(ctx, content.NewNews{
		Title:       " Sports Day ",
		Category:    " EVENT ",
		PublishedAt: &published,
		IsActive:    &inactive,
	})
	require.NoError(t, err)
	assert.Equal(t, "Sports Day", news.Title)
	assert.Equal(t, content.CategoryEvent, news.Category)
	assert.Equal(t, time.UTC, news.PublishedAt.Location())
	assert.True(t, news.PublishedAt.Equal(published))
	assert.False(t, news.IsActive)

	news, err = svc.CreateNews(ctx, content.NewNews{Title: "Term starts"})
	require.NoError(t, err)
	assert.Equal(t, content.CategoryNews, news.Category)
	assert.True(t, news.IsActive, "news are active by default")
}

func TestService_UpdateNews(t *testing.T) {
	svc, repo, _ := setup()
	ctx := context.Background()
	orig := testutil.CreateNews(t, repo, "Open Day", true)

	_, err := svc.UpdateNews(ctx, "lol", content.UpdateNews{})
	assert.True(t, core.IsNotFound(err))

	_, err = svc.UpdateNews(ctx, orig.ID, content.UpdateNews{ImageURL: "not a url"})
	assert.IsType(t, validator.ValidationErrors{}, err)

	inactive := false
	news, err := svc.UpdateNews(ctx, orig.ID, content.UpdateNews{Summary: "Parents welcome", IsActive: &inactive})
	require.NoError(t, err)
	assert.Equal(t, "Open Day", news.Title)
	assert.Equal(t, "Parents welcome", news.Summary)
	assert.False(t, news.IsActive)
	assert.True(t, news.PublishedAt.Equal(orig.PublishedAt))
	assert.False(t, news.UpdatedAt.Before(orig.UpdatedAt))

	got, err := svc.GetNews(ctx, orig.ID)
	require.NoError(t, err)
	assert.Equal(t, news, got)
}

func TestService_QueryNews(t *testing.T) {
	svc, repo, _ := setup()
	ctx := context.Background()
	now := time.Now().UTC()
	testutil.CreateNews(t, repo, "A", true, now.Add(-2*time.Hour))
	testutil.CreateNews(t, repo, "B", false, now.Add(-time.Hour))
	testutil.CreateNews(t, repo, "C", true, now)

	tests := []struct {
		name   string
		filter content.QueryFilter
		want   []string
	}{
		{name: "latest first", want: []string{"C", "B", "A"}},
		{name: "active only", filter: content.QueryFilter{ActiveOnly: true}, want: []string{"C", "A"}},
		{name: "limit", filter: content.QueryFilter{Limit: 1}, want: []string{"C"}},
		{
			name:   "oldest first",
			filter: content.QueryFilter{Orderings: []core.DBOrdering{{Field: core.FieldPublishedAt, Ascending: true}}},
			want:   []string{"A", "B", "C"},
		},
		{
			name:   "unknown ordering",
			filter: content.QueryFilter{Orderings: []core.DBOrdering{{Field: "title", Ascending: true}}},
			want:   []string{"C", "B", "A"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			news, err := svc.QueryNews(ctx, tc.filter)
			require.NoError(t, err)
			assert.Equal(t, tc.want, titles(news, newsTitle))
		})
	}
}

func TestService_galleryImages(t *testing.T) {
	svc, _, repo := setup()
	ctx := context.Background()

	_, err := svc.CreateGalleryImage(ctx, content.NewGalleryImage{Title: "Assembly", Order: -1, ImageURL: "https://cdn.madrasa.test/a.jpg"})
	assert.IsType(t, validator.ValidationErrors{}, err)

	img, err := svc.CreateGalleryImage(ctx, content.NewGalleryImage{Title: " Assembly ", ImageURL: "https://cdn.madrasa.test/a.jpg", Order: 2})
	require.NoError(t, err)
	assert.Equal(t, "Assembly", img.Title)
	assert.True(t, img.IsActive)

	now := time.Now().UTC()
	testutil.CreateGalleryImage(t, repo, "Library", 1, true, now.Add(-time.Hour))
	testutil.CreateGalleryImage(t, repo, "Garden", 1, true, now)

	images, err := svc.QueryGalleryImages(ctx, content.QueryFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Garden", "Library", "Assembly"}, titles(images, galleryTitle))

	images, err = svc.QueryGalleryImages(ctx, content.QueryFilter{Orderings: []core.DBOrdering{{Field: core.FieldOrder}}})
	require.NoError(t, err)
	assert.Equal(t, "Assembly", images[0].Title)

	order := 0
	img, err = svc.UpdateGalleryImage(ctx, img.ID, content.UpdateGalleryImage{Order: &order, Caption: "Morning"})
	require.NoError(t, err)
	assert.Equal(t, 0, img.Order)
	assert.Equal(t, "Morning", img.Caption)
	assert.Equal(t, "https://cdn.madrasa.test/a.jpg", img.ImageURL)

	require.NoError(t, svc.DeleteGalleryImages(ctx, img.ID))
	_, err = svc.GetGalleryImage(ctx, img.ID)
	assert.ErrorIs(t, err, content.ErrGalleryNotFound)
}
