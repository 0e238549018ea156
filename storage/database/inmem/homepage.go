package inmemdb

import (
	"context"
	"time"

	"github.com/trezcool/madrasa/core/homepage"
)

type selectionRepository struct {
	db *table[homepage.Selection]
}

var _ homepage.Repository = (*selectionRepository)(nil)

func NewSelectionRepository(db *DB) homepage.Repository {
	return &selectionRepository{db: db.selections}
}

func (repo *selectionRepository) GetActiveSelection(_ context.Context, kind homepage.Kind) (homepage.Selection, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	var (
		active homepage.Selection
		found  bool
	)
	for _, sel := range repo.db.rows {
		if sel.Kind == kind && sel.IsActive && (!found || sel.CreatedAt.After(active.CreatedAt)) {
			active, found = sel, true
		}
	}
	if !found {
		return homepage.Selection{}, homepage.ErrNotFound
	}
	active.ItemIDs = append([]string(nil), active.ItemIDs...)
	return active, nil
}

func (repo *selectionRepository) ReplaceActiveSelection(_ context.Context, sel homepage.Selection) (homepage.Selection, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.deactivate(sel.Kind, sel.CreatedAt)
	sel.IsActive = true
	sel.ItemIDs = append([]string(nil), sel.ItemIDs...)
	repo.db.rows[sel.ID] = sel
	return sel, nil
}

func (repo *selectionRepository) DeactivateSelections(_ context.Context, kind homepage.Kind) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()
	repo.deactivate(kind, time.Now().UTC())
	return nil
}

// deactivate must be called with the lock held.
func (repo *selectionRepository) deactivate(kind homepage.Kind, now time.Time) {
	for id, sel := range repo.db.rows {
		if sel.Kind == kind && sel.IsActive {
			sel.IsActive = false
			sel.UpdatedAt = now
			repo.db.rows[id] = sel
		}
	}
}
