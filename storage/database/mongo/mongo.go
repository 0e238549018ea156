package mongorepos

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/trezcool/madrasa/core"
)

// Collections
const (
	newsColl        = "news"
	galleryColl     = "gallery_images"
	selectionsColl  = "homepage_selections"
	subscribersColl = "subscribers"
	examsColl       = "exam_results"
	scholarsColl    = "scholarships"
	absencesColl    = "absences"
)

// Open connects to the configured MongoDB server and ensures the indexes exist.
func Open(ctx context.Context, conf *core.Config) (*mongo.Database, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(conf.Database.URI))
	if err != nil {
		return nil, errors.Wrap(err, "connecting to mongodb")
	}
	if err = client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(err, "pinging mongodb")
	}

	db := client.Database(conf.Database.Name)
	if err = EnsureIndexes(ctx, db); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return db, nil
}

// EnsureIndexes creates the indexes the repositories rely on. It is idempotent.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := map[string][]mongo.IndexModel{
		newsColl: {
			{Keys: bson.D{{Key: "is_active", Value: 1}, {Key: "published_at", Value: -1}}},
		},
		galleryColl: {
			{Keys: bson.D{{Key: "is_active", Value: 1}, {Key: "display_order", Value: 1}, {Key: "created_at", Value: -1}}},
		},
		selectionsColl: {
			{Keys: bson.D{{Key: "kind", Value: 1}, {Key: "is_active", Value: 1}}},
		},
		subscribersColl: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "status", Value: 1}}},
		},
		absencesColl: {
			{Keys: bson.D{{Key: "absent_on", Value: -1}}},
		},
	}
	for coll, models := range indexes {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return errors.Wrapf(err, "creating %s indexes", coll)
		}
	}
	return nil
}

// sortBy converts orderings to a bson sort document, the first ordering being the most significant.
func sortBy(orderings []core.DBOrdering) bson.D {
	sort := make(bson.D, 0, len(orderings))
	for _, ord := range orderings {
		direction := -1
		if ord.Ascending {
			direction = 1
		}
		sort = append(sort, bson.E{Key: ord.Field, Value: direction})
	}
	return sort
}

func findOptions(sort bson.D, limit int) *options.FindOptions {
	opts := options.Find()
	if len(sort) > 0 {
		opts.SetSort(sort)
	}
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	return opts
}

// findAll decodes every document matching `filter` into `D`, then converts them with `conv`.
func findAll[D any, T any](ctx context.Context, coll *mongo.Collection, filter interface{}, opts *options.FindOptions, conv func(D) T) ([]T, error) {
	cur, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	var docs []D
	if err = cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	list := make([]T, 0, len(docs))
	for _, d := range docs {
		list = append(list, conv(d))
	}
	return list, nil
}

func utc(t time.Time) time.Time { return t.UTC() }

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
