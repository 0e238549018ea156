package mongorepos

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/trezcool/madrasa/core"
	"github.com/trezcool/madrasa/core/content"
)

func TestSortBy(t *testing.T) {
	assert.Equal(t, bson.D{{Key: "published_at", Value: -1}}, sortBy(content.NewsFreshness))
	assert.Equal(t,
		bson.D{{Key: "display_order", Value: 1}, {Key: "created_at", Value: -1}},
		sortBy(content.GalleryFreshness),
	)
	assert.Empty(t, sortBy(nil))
}

func TestFindOptions(t *testing.T) {
	opts := findOptions(sortBy([]core.DBOrdering{{Field: "created_at"}}), 6)
	if assert.NotNil(t, opts.Limit) {
		assert.Equal(t, int64(6), *opts.Limit)
	}
	assert.Equal(t, bson.D{{Key: "created_at", Value: -1}}, opts.Sort)

	opts = findOptions(nil, 0)
	assert.Nil(t, opts.Limit)
	assert.Nil(t, opts.Sort)
}

func TestSubscriberDoc(t *testing.T) {
	loc := time.FixedZone("EAT", 3*3600)
	at := time.Date(2024, 3, 1, 10, 0, 0, 0, loc)
	sub := subscriberDoc{ID: "1", Email: "a@b.c", Status: "unsubscribed", SubscribedAt: at, UnsubscribedAt: &at}.toSubscriber()
	assert.Equal(t, time.UTC, sub.SubscribedAt.Location())
	if assert.NotNil(t, sub.UnsubscribedAt) {
		assert.True(t, sub.UnsubscribedAt.Equal(at))
		assert.Equal(t, time.UTC, sub.UnsubscribedAt.Location())
	}
}
