package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/trezcool/madrasa/core/homepage"
)

type selectionRow struct {
	ID        string         `db:"id"`
	Kind      string         `db:"kind"`
	ItemIDs   pq.StringArray `db:"item_ids"`
	MaxItems  int            `db:"max_items"`
	IsActive  bool           `db:"is_active"`
	CreatedAt time.Time      `db:"created_at"`
	UpdatedAt time.Time      `db:"updated_at"`
}

func (r selectionRow) toSelection() homepage.Selection {
	return homepage.Selection{
		ID:        r.ID,
		Kind:      homepage.Kind(r.Kind),
		ItemIDs:   []string(r.ItemIDs),
		MaxItems:  r.MaxItems,
		IsActive:  r.IsActive,
		CreatedAt: r.CreatedAt.UTC(),
		UpdatedAt: r.UpdatedAt.UTC(),
	}
}

type selectionRepository struct {
	db *sqlx.DB
}

var _ homepage.Repository = (*selectionRepository)(nil)

func NewSelectionRepository(db *sqlx.DB) homepage.Repository {
	return &selectionRepository{db: db}
}

func (repo *selectionRepository) GetActiveSelection(ctx context.Context, kind homepage.Kind) (homepage.Selection, error) {
	var row selectionRow
	q := `SELECT id, kind, item_ids, max_items, is_active, created_at, updated_at
		FROM homepage_selections WHERE kind = $1 AND is_active
		ORDER BY created_at DESC LIMIT 1`
	err := repo.db.GetContext(ctx, &row, q, string(kind))
	if err == sql.ErrNoRows {
		return homepage.Selection{}, homepage.ErrNotFound
	}
	if err != nil {
		return homepage.Selection{}, errors.Wrap(err, "selecting active selection")
	}
	return row.toSelection(), nil
}

// ReplaceActiveSelection runs in a transaction; the kind's rows are locked so concurrent saves serialize.
func (repo *selectionRepository) ReplaceActiveSelection(ctx context.Context, sel homepage.Selection) (homepage.Selection, error) {
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return homepage.Selection{}, errors.Wrap(err, "beginning transaction")
	}
	defer func() { _ = tx.Rollback() }()

	if _, err = tx.ExecContext(ctx, `SELECT id FROM homepage_selections WHERE kind = $1 FOR UPDATE`, string(sel.Kind)); err != nil {
		return homepage.Selection{}, errors.Wrap(err, "locking selections")
	}
	if err = deactivate(ctx, tx, sel.Kind, sel.UpdatedAt); err != nil {
		return homepage.Selection{}, err
	}

	sel.IsActive = true
	q := `INSERT INTO homepage_selections (id, kind, item_ids, max_items, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err = tx.ExecContext(ctx, q, sel.ID, string(sel.Kind), pq.StringArray(sel.ItemIDs), sel.MaxItems, sel.IsActive, sel.CreatedAt, sel.UpdatedAt)
	if err != nil {
		return homepage.Selection{}, errors.Wrap(err, "inserting selection")
	}
	if err = tx.Commit(); err != nil {
		return homepage.Selection{}, errors.Wrap(err, "committing transaction")
	}
	return sel, nil
}

func (repo *selectionRepository) DeactivateSelections(ctx context.Context, kind homepage.Kind) error {
	return deactivate(ctx, repo.db, kind, time.Now().UTC())
}

func deactivate(ctx context.Context, db sqlx.ExecerContext, kind homepage.Kind, now time.Time) error {
	q := `UPDATE homepage_selections SET is_active = FALSE, updated_at = $2 WHERE kind = $1 AND is_active`
	if _, err := db.ExecContext(ctx, q, string(kind), now); err != nil {
		return errors.Wrap(err, "deactivating selections")
	}
	return nil
}
