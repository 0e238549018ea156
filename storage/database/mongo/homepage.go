package mongorepos

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/trezcool/madrasa/core/homepage"
)

type selectionDoc struct {
	ID        string    `bson:"_id"`
	Kind      string    `bson:"kind"`
	ItemIDs   []string  `bson:"item_ids"`
	MaxItems  int       `bson:"max_items"`
	IsActive  bool      `bson:"is_active"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

type selectionRepository struct {
	coll *mongo.Collection
}

var _ homepage.Repository = (*selectionRepository)(nil)

func NewSelectionRepository(db *mongo.Database) homepage.Repository {
	return &selectionRepository{coll: db.Collection(selectionsColl)}
}

func (repo *selectionRepository) GetActiveSelection(ctx context.Context, kind homepage.Kind) (homepage.Selection, error) {
	var doc selectionDoc
	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})
	err := repo.coll.FindOne(ctx, bson.M{"kind": string(kind), "is_active": true}, opts).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return homepage.Selection{}, homepage.ErrNotFound
	}
	if err != nil {
		return homepage.Selection{}, errors.Wrap(err, "finding active selection")
	}
	return homepage.Selection{
		ID:        doc.ID,
		Kind:      homepage.Kind(doc.Kind),
		ItemIDs:   doc.ItemIDs,
		MaxItems:  doc.MaxItems,
		IsActive:  doc.IsActive,
		CreatedAt: utc(doc.CreatedAt),
		UpdatedAt: utc(doc.UpdatedAt),
	}, nil
}

// ReplaceActiveSelection deactivates then inserts. Without a transaction two concurrent saves may
// both stay active for a moment; GetActiveSelection then returns the newest one.
func (repo *selectionRepository) ReplaceActiveSelection(ctx context.Context, sel homepage.Selection) (homepage.Selection, error) {
	if err := repo.deactivate(ctx, sel.Kind, sel.UpdatedAt); err != nil {
		return homepage.Selection{}, err
	}

	sel.IsActive = true
	doc := selectionDoc{
		ID:        sel.ID,
		Kind:      string(sel.Kind),
		ItemIDs:   sel.ItemIDs,
		MaxItems:  sel.MaxItems,
		IsActive:  sel.IsActive,
		CreatedAt: sel.CreatedAt,
		UpdatedAt: sel.UpdatedAt,
	}
	if _, err := repo.coll.InsertOne(ctx, doc); err != nil {
		return homepage.Selection{}, errors.Wrap(err, "inserting selection")
	}
	return sel, nil
}

func (repo *selectionRepository) DeactivateSelections(ctx context.Context, kind homepage.Kind) error {
	return repo.deactivate(ctx, kind, time.Now().UTC())
}

func (repo *selectionRepository) deactivate(ctx context.Context, kind homepage.Kind, now time.Time) error {
	_, err := repo.coll.UpdateMany(ctx,
		bson.M{"kind": string(kind), "is_active": true},
		bson.M{"$set": bson.M{"is_active": false, "updated_at": now}},
	)
	return errors.Wrap(err, "deactivating selections")
}
