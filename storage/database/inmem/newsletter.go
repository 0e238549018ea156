package inmemdb

import (
	"context"
	"sort"
	"strings"

	"github.com/trezcool/madrasa/core/newsletter"
)

type subscriberRepository struct {
	db *table[newsletter.Subscriber]
}

var _ newsletter.Repository = (*subscriberRepository)(nil)

func NewSubscriberRepository(db *DB) newsletter.Repository {
	return &subscriberRepository{db: db.subscribers}
}

func (repo *subscriberRepository) CreateSubscriber(_ context.Context, sub newsletter.Subscriber) (newsletter.Subscriber, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, s := range repo.db.rows {
		if strings.EqualFold(s.Email, sub.Email) {
			return newsletter.Subscriber{}, newsletter.ErrAlreadySubscribed
		}
	}
	repo.db.rows[sub.ID] = sub
	return sub, nil
}

func (repo *subscriberRepository) GetSubscriberByEmail(_ context.Context, email string) (newsletter.Subscriber, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, s := range repo.db.rows {
		if strings.EqualFold(s.Email, email) {
			return s, nil
		}
	}
	return newsletter.Subscriber{}, newsletter.ErrSubscriberNotFound
}

func (repo *subscriberRepository) QuerySubscribers(_ context.Context, filter newsletter.QueryFilter) ([]newsletter.Subscriber, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	subs := make([]newsletter.Subscriber, 0, len(repo.db.rows))
	for _, s := range repo.db.all() {
		if filter.Status == "" || s.Status == filter.Status {
			subs = append(subs, s)
		}
	}
	sort.Slice(subs, func(i, j int) bool { return subs[i].SubscribedAt.Before(subs[j].SubscribedAt) })
	return subs, nil
}

func (repo *subscriberRepository) UpdateSubscriber(_ context.Context, sub newsletter.Subscriber) (newsletter.Subscriber, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.rows[sub.ID]; !ok {
		return newsletter.Subscriber{}, newsletter.ErrSubscriberNotFound
	}
	repo.db.rows[sub.ID] = sub
	return sub, nil
}

func (repo *subscriberRepository) DeleteSubscribers(_ context.Context, ids ...string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()
	for _, id := range ids {
		delete(repo.db.rows, id)
	}
	return nil
}
