package mongorepos

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/trezcool/madrasa/core/newsletter"
)

type subscriberDoc struct {
	ID             string     `bson:"_id"`
	Email          string     `bson:"email"`
	Status         string     `bson:"status"`
	SubscribedAt   time.Time  `bson:"subscribed_at"`
	UnsubscribedAt *time.Time `bson:"unsubscribed_at,omitempty"`
}

func (d subscriberDoc) toSubscriber() newsletter.Subscriber {
	return newsletter.Subscriber{
		ID:             d.ID,
		Email:          d.Email,
		Status:         d.Status,
		SubscribedAt:   utc(d.SubscribedAt),
		UnsubscribedAt: utcPtr(d.UnsubscribedAt),
	}
}

type subscriberRepository struct {
	coll *mongo.Collection
}

var _ newsletter.Repository = (*subscriberRepository)(nil)

func NewSubscriberRepository(db *mongo.Database) newsletter.Repository {
	return &subscriberRepository{coll: db.Collection(subscribersColl)}
}

func (repo *subscriberRepository) CreateSubscriber(ctx context.Context, sub newsletter.Subscriber) (newsletter.Subscriber, error) {
	if _, err := repo.coll.InsertOne(ctx, subscriberDoc(sub)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return newsletter.Subscriber{}, newsletter.ErrAlreadySubscribed
		}
		return newsletter.Subscriber{}, errors.Wrap(err, "inserting subscriber")
	}
	return sub, nil
}

func (repo *subscriberRepository) GetSubscriberByEmail(ctx context.Context, email string) (newsletter.Subscriber, error) {
	var doc subscriberDoc
	err := repo.coll.FindOne(ctx, bson.M{"email": email}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return newsletter.Subscriber{}, newsletter.ErrSubscriberNotFound
	}
	if err != nil {
		return newsletter.Subscriber{}, errors.Wrap(err, "finding subscriber")
	}
	return doc.toSubscriber(), nil
}

func (repo *subscriberRepository) QuerySubscribers(ctx context.Context, filter newsletter.QueryFilter) ([]newsletter.Subscriber, error) {
	query := bson.M{}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	opts := options.Find().SetSort(bson.D{{Key: "subscribed_at", Value: 1}})
	list, err := findAll(ctx, repo.coll, query, opts, subscriberDoc.toSubscriber)
	return list, errors.Wrap(err, "finding subscribers")
}

func (repo *subscriberRepository) UpdateSubscriber(ctx context.Context, sub newsletter.Subscriber) (newsletter.Subscriber, error) {
	res, err := repo.coll.ReplaceOne(ctx, bson.M{"_id": sub.ID}, subscriberDoc(sub))
	if err != nil {
		return newsletter.Subscriber{}, errors.Wrap(err, "replacing subscriber")
	}
	if res.MatchedCount == 0 {
		return newsletter.Subscriber{}, newsletter.ErrSubscriberNotFound
	}
	return sub, nil
}

func (repo *subscriberRepository) DeleteSubscribers(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := repo.coll.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	return errors.Wrap(err, "deleting subscribers")
}
