package inmemdb

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/madrasa/core"
	"github.com/trezcool/madrasa/core/content"
	"github.com/trezcool/madrasa/core/homepage"
	"github.com/trezcool/madrasa/core/newsletter"
)

func TestSortRows(t *testing.T) {
	now := time.Now()
	rows := []content.GalleryImage{
		{ID: "c", Order: 2, CreatedAt: now},
		{ID: "b", Order: 1, CreatedAt: now.Add(-time.Hour)},
		{ID: "a", Order: 1, CreatedAt: now},
	}
	sortRows(rows, content.GalleryFreshness, galleryColumn)

	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{"a", "b", "c"}, ids)
}

func TestLimitRows(t *testing.T) {
	rows := []int{1, 2, 3}
	assert.Equal(t, []int{1, 2}, limitRows(rows, 2))
	assert.Equal(t, rows, limitRows(rows, 0))
	assert.Equal(t, rows, limitRows(rows, 5))
}

func TestSelectionRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewSelectionRepository(NewDB())

	_, err := repo.GetActiveSelection(ctx, homepage.KindNews)
	assert.Equal(t, homepage.ErrNotFound, err)

	newSelection := func(kind homepage.Kind, ids ...string) homepage.Selection {
		now := time.Now().UTC()
		return homepage.Selection{ID: core.NewID(), Kind: kind, ItemIDs: ids, MaxItems: 3, CreatedAt: now, UpdatedAt: now}
	}

	first, err := repo.ReplaceActiveSelection(ctx, newSelection(homepage.KindNews, "a"))
	require.NoError(t, err)
	gallery, err := repo.ReplaceActiveSelection(ctx, newSelection(homepage.KindGallery, "g"))
	require.NoError(t, err)
	second, err := repo.ReplaceActiveSelection(ctx, newSelection(homepage.KindNews, "b", "c"))
	require.NoError(t, err)

	active, err := repo.GetActiveSelection(ctx, homepage.KindNews)
	require.NoError(t, err)
	assert.Equal(t, second.ID, active.ID)
	assert.Equal(t, []string{"b", "c"}, active.ItemIDs)

	// at most one active selection per kind, previous rows are kept
	sr := repo.(*selectionRepository)
	var activeNews int
	for _, sel := range sr.db.rows {
		if sel.Kind == homepage.KindNews && sel.IsActive {
			activeNews++
		}
	}
	assert.Equal(t, 1, activeNews)
	assert.False(t, sr.db.rows[first.ID].IsActive)

	// callers cannot mutate the stored ids
	active.ItemIDs[0] = "lol"
	active, err = repo.GetActiveSelection(ctx, homepage.KindNews)
	require.NoError(t, err)
	assert.Equal(t, "b", active.ItemIDs[0])

	require.NoError(t, repo.DeactivateSelections(ctx, homepage.KindNews))
	_, err = repo.GetActiveSelection(ctx, homepage.KindNews)
	assert.Equal(t, homepage.ErrNotFound, err)
	assert.Len(t, sr.db.rows, 3)

	active, err = repo.GetActiveSelection(ctx, homepage.KindGallery)
	require.NoError(t, err)
	assert.Equal(t, gallery.ID, active.ID)
}

func TestSubscriberRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewSubscriberRepository(NewDB())

	sub := newsletter.Subscriber{ID: core.NewID(), Email: "parent@example.com", Status: newsletter.StatusActive, SubscribedAt: time.Now().UTC()}
	_, err := repo.CreateSubscriber(ctx, sub)
	require.NoError(t, err)

	dup := sub
	dup.ID = core.NewID()
	dup.Email = "PARENT@example.com"
	_, err = repo.CreateSubscriber(ctx, dup)
	assert.Equal(t, newsletter.ErrAlreadySubscribed, err)

	found, err := repo.GetSubscriberByEmail(ctx, "Parent@Example.com")
	require.NoError(t, err)
	assert.Equal(t, sub.ID, found.ID)

	_, err = repo.GetSubscriberByEmail(ctx, "who@example.com")
	assert.Equal(t, newsletter.ErrSubscriberNotFound, err)

	_, err = repo.UpdateSubscriber(ctx, dup)
	assert.Equal(t, newsletter.ErrSubscriberNotFound, err)
}

func TestNewsRepository_FindByIDs(t *testing.T) {
	ctx := context.Background()
	repo := NewNewsRepository(NewDB())

	for _, id := range []string{"a", "b", "c"} {
		_, err := repo.CreateNews(ctx, content.News{ID: id, IsActive: id != "b"})
		require.NoError(t, err)
	}

	found, err := repo.FindByIDs(ctx, []string{"c", "lol", "b"})
	require.NoError(t, err)
	require.Len(t, found, 2, "unknown ids are ignored, inactive ones are returned")

	active, err := repo.ListActive(ctx, content.NewsFreshness, 0)
	require.NoError(t, err)
	assert.Len(t, active, 2)
}
