package homepage

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/madrasa/core"
)

var (
	// errors
	ErrNotFound = core.NewNotFoundError("no active homepage selection")
)

type (
	Repository interface {
		// GetActiveSelection returns the active Selection of `kind` or ErrNotFound.
		GetActiveSelection(ctx context.Context, kind Kind) (Selection, error)
		// ReplaceActiveSelection deactivates every Selection of `sel.Kind`, then stores `sel` as the active one.
		ReplaceActiveSelection(ctx context.Context, sel Selection) (Selection, error)
		// DeactivateSelections deactivates every Selection of `kind`. Rows are kept.
		DeactivateSelections(ctx context.Context, kind Kind) error
	}

	// Cache holds the active Selection of each section between requests.
	Cache interface {
		Get(key string) (interface{}, bool)
		Set(key string, val interface{})
		Delete(key string)
	}

	Metrics interface {
		ObserveResolve(kind Kind, custom bool)
	}

	Options struct {
		Cache   Cache   // optional
		Metrics Metrics // optional
	}

	// Resolver picks the items a homepage section shows: the active admin Selection when there is one,
	// the latest items otherwise.
	Resolver[T Item] struct {
		section  Section[T]
		repo     Repository
		validate *validator.Validate
		cache    Cache
		metrics  Metrics
	}
)

func NewResolver[T Item](section Section[T], repo Repository, validate *validator.Validate, opts Options) *Resolver[T] {
	r := &Resolver[T]{
		section:  section,
		repo:     repo,
		validate: validate,
		cache:    opts.Cache,
		metrics:  opts.Metrics,
	}
	if r.metrics == nil {
		r.metrics = nopMetrics{}
	}
	return r
}

func (r *Resolver[T]) Kind() Kind { return r.section.Kind }

func (r *Resolver[T]) cacheKey() string { return "homepage:selection:" + string(r.section.Kind) }

// Resolve returns the items to render, never more than the returned MaxItems.
// Selected items that no longer exist (or were deactivated) are silently skipped.
func (r *Resolver[T]) Resolve(ctx context.Context) (Resolved[T], error) {
	sel, found, err := r.activeSelection(ctx)
	if err != nil {
		return Resolved[T]{}, err
	}

	res, err := r.resolve(ctx, sel, found)
	if err != nil {
		return Resolved[T]{}, err
	}
	r.metrics.ObserveResolve(r.section.Kind, res.IsCustomSelection)
	return res, nil
}

type cachedSelection struct {
	sel   Selection
	found bool
}

// activeSelection reads the active Selection through the cache. Only the Selection is cached:
// items are always read from the Source so deleted or deactivated ones never resurface.
func (r *Resolver[T]) activeSelection(ctx context.Context) (Selection, bool, error) {
	if r.cache != nil {
		if cached, ok := r.cache.Get(r.cacheKey()); ok {
			if cs, ok := cached.(cachedSelection); ok {
				return cs.sel, cs.found, nil
			}
		}
	}

	sel, err := r.repo.GetActiveSelection(ctx, r.section.Kind)
	if err != nil && errors.Cause(err) != ErrNotFound {
		return Selection{}, false, errors.Wrap(err, "getting active selection")
	}
	found := err == nil
	if r.cache != nil {
		r.cache.Set(r.cacheKey(), cachedSelection{sel: sel, found: found})
	}
	return sel, found, nil
}

func (r *Resolver[T]) resolve(ctx context.Context, sel Selection, found bool) (Resolved[T], error) {
	if found && len(sel.ItemIDs) > 0 {
		items, err := r.section.Source.FindByIDs(ctx, sel.ItemIDs)
		if err != nil {
			return Resolved[T]{}, errors.Wrap(err, "finding selected items")
		}
		return Resolved[T]{
			Items:             orderBySelection(items, sel.ItemIDs, sel.MaxItems),
			MaxItems:          sel.MaxItems,
			IsCustomSelection: true,
		}, nil
	}

	// fallback: latest items
	items, err := r.section.Source.ListActive(ctx, r.section.Fallback, r.section.FallbackMax)
	if err != nil {
		return Resolved[T]{}, errors.Wrap(err, "listing latest items")
	}
	if len(items) > r.section.FallbackMax {
		items = items[:r.section.FallbackMax]
	}
	if items == nil {
		items = []T{}
	}
	return Resolved[T]{
		Items:    items,
		MaxItems: r.section.FallbackMax,
	}, nil
}

// Active returns the active Selection, or ErrNotFound.
func (r *Resolver[T]) Active(ctx context.Context) (Selection, error) {
	return r.repo.GetActiveSelection(ctx, r.section.Kind)
}

// Save makes a new Selection the active one. Nothing is changed when `data` is invalid.
func (r *Resolver[T]) Save(ctx context.Context, data SaveSelection) (Selection, error) {
	if err := data.Validate(r.section.FallbackMax, r.validate); err != nil {
		return Selection{}, err
	}

	now := time.Now().UTC()
	sel, err := r.repo.ReplaceActiveSelection(ctx, Selection{
		ID:        core.NewID(),
		Kind:      r.section.Kind,
		ItemIDs:   data.ItemIDs,
		MaxItems:  data.MaxItems,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return Selection{}, errors.Wrap(err, "replacing active selection")
	}
	r.invalidate()
	return sel, nil
}

// Reset deactivates the active Selection (if any) so the section falls back to the latest items.
func (r *Resolver[T]) Reset(ctx context.Context) error {
	if err := r.repo.DeactivateSelections(ctx, r.section.Kind); err != nil {
		return errors.Wrap(err, "deactivating selections")
	}
	r.invalidate()
	return nil
}

func (r *Resolver[T]) invalidate() {
	if r.cache != nil {
		r.cache.Delete(r.cacheKey())
	}
}

// orderBySelection keeps the active `items` listed in `ids`, in `ids` order, at most `limit` of them.
func orderBySelection[T Item](items []T, ids []string, limit int) []T {
	byID := make(map[string]T, len(items))
	for _, item := range items {
		if item.ItemActive() {
			byID[item.ItemID()] = item
		}
	}

	size := len(byID)
	if size > limit {
		size = limit
	}
	ordered := make([]T, 0, size)
	for _, id := range ids {
		if len(ordered) >= limit {
			break
		}
		if item, ok := byID[id]; ok {
			ordered = append(ordered, item)
			delete(byID, id) // duplicate ids are shown once
		}
	}
	return ordered
}

type nopMetrics struct{}

func (nopMetrics) ObserveResolve(Kind, bool) {}
