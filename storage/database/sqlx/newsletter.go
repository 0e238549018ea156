package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/madrasa/core/newsletter"
)

type subscriberRow struct {
	ID             string    `db:"id"`
	Email          string    `db:"email"`
	Status         string    `db:"status"`
	SubscribedAt   time.Time `db:"subscribed_at"`
	UnsubscribedAt null.Time `db:"unsubscribed_at"`
}

func toSubscriberRow(s newsletter.Subscriber) subscriberRow {
	return subscriberRow{
		ID:             s.ID,
		Email:          s.Email,
		Status:         s.Status,
		SubscribedAt:   s.SubscribedAt,
		UnsubscribedAt: nullTime(s.UnsubscribedAt),
	}
}

func (r subscriberRow) toSubscriber() newsletter.Subscriber {
	return newsletter.Subscriber{
		ID:             r.ID,
		Email:          r.Email,
		Status:         r.Status,
		SubscribedAt:   r.SubscribedAt.UTC(),
		UnsubscribedAt: timePtr(r.UnsubscribedAt),
	}
}

const subscriberColumns = `id, email, status, subscribed_at, unsubscribed_at`

type subscriberRepository struct {
	db *sqlx.DB
}

var _ newsletter.Repository = (*subscriberRepository)(nil)

func NewSubscriberRepository(db *sqlx.DB) newsletter.Repository {
	return &subscriberRepository{db: db}
}

func (repo *subscriberRepository) CreateSubscriber(ctx context.Context, sub newsletter.Subscriber) (newsletter.Subscriber, error) {
	q := `INSERT INTO subscribers (` + subscriberColumns + `)
		VALUES (:id, :email, :status, :subscribed_at, :unsubscribed_at)`
	if _, err := repo.db.NamedExecContext(ctx, q, toSubscriberRow(sub)); err != nil {
		if isUniqueViolation(err) {
			return newsletter.Subscriber{}, newsletter.ErrAlreadySubscribed
		}
		return newsletter.Subscriber{}, errors.Wrap(err, "inserting subscriber")
	}
	return sub, nil
}

func (repo *subscriberRepository) GetSubscriberByEmail(ctx context.Context, email string) (newsletter.Subscriber, error) {
	var row subscriberRow
	err := repo.db.GetContext(ctx, &row, `SELECT `+subscriberColumns+` FROM subscribers WHERE lower(email) = lower($1)`, email)
	if err == sql.ErrNoRows {
		return newsletter.Subscriber{}, newsletter.ErrSubscriberNotFound
	}
	if err != nil {
		return newsletter.Subscriber{}, errors.Wrap(err, "selecting subscriber")
	}
	return row.toSubscriber(), nil
}

func (repo *subscriberRepository) QuerySubscribers(ctx context.Context, filter newsletter.QueryFilter) ([]newsletter.Subscriber, error) {
	var (
		rows []subscriberRow
		args []interface{}
	)
	q := `SELECT ` + subscriberColumns + ` FROM subscribers`
	if filter.Status != "" {
		q += ` WHERE status = $1`
		args = append(args, filter.Status)
	}
	q += ` ORDER BY subscribed_at ASC`

	if err := repo.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "selecting subscribers")
	}
	subs := make([]newsletter.Subscriber, 0, len(rows))
	for _, r := range rows {
		subs = append(subs, r.toSubscriber())
	}
	return subs, nil
}

func (repo *subscriberRepository) UpdateSubscriber(ctx context.Context, sub newsletter.Subscriber) (newsletter.Subscriber, error) {
	q := `UPDATE subscribers SET email = :email, status = :status, subscribed_at = :subscribed_at,
		unsubscribed_at = :unsubscribed_at WHERE id = :id`
	res, err := repo.db.NamedExecContext(ctx, q, toSubscriberRow(sub))
	if err != nil {
		return newsletter.Subscriber{}, errors.Wrap(err, "updating subscriber")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return newsletter.Subscriber{}, newsletter.ErrSubscriberNotFound
	}
	return sub, nil
}

func (repo *subscriberRepository) DeleteSubscribers(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := repo.db.ExecContext(ctx, `DELETE FROM subscribers WHERE id = ANY($1)`, pq.StringArray(ids))
	return errors.Wrap(err, "deleting subscribers")
}
