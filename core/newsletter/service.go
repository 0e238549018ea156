package newsletter

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/madrasa/core"
)

var (
	// errors
	ErrSubscriberNotFound = core.NewNotFoundError("subscriber not found")
	ErrAlreadySubscribed  = errors.New("this email is already subscribed")
)

type (
	Repository interface {
		// CreateSubscriber returns ErrAlreadySubscribed when the email is taken.
		CreateSubscriber(ctx context.Context, sub Subscriber) (Subscriber, error)
		GetSubscriberByEmail(ctx context.Context, email string) (Subscriber, error)
		// QuerySubscribers lists subscribers with the given filter.Status, or all of them when it is blank.
		QuerySubscribers(ctx context.Context, filter QueryFilter) ([]Subscriber, error)
		UpdateSubscriber(ctx context.Context, sub Subscriber) (Subscriber, error)
		DeleteSubscribers(ctx context.Context, ids ...string) error
	}

	Service struct {
		repo     Repository
		validate *validator.Validate
	}
)

func NewService(repo Repository, validate *validator.Validate) *Service {
	return &Service{repo: repo, validate: validate}
}

// Subscribe registers a new Subscriber, or re-activates an unsubscribed one.
func (svc *Service) Subscribe(ctx context.Context, data SubscriptionRequest) (Subscriber, error) {
	if err := data.Validate(svc.validate); err != nil {
		return Subscriber{}, err
	}

	sub, err := svc.repo.GetSubscriberByEmail(ctx, data.Email)
	switch {
	case err == nil:
		if sub.IsActive() {
			return Subscriber{}, alreadySubscribedErr()
		}
		sub.Status = StatusActive
		sub.SubscribedAt = time.Now().UTC()
		sub.UnsubscribedAt = nil
		return svc.repo.UpdateSubscriber(ctx, sub)
	case errors.Cause(err) != ErrSubscriberNotFound:
		return Subscriber{}, errors.Wrap(err, "getting subscriber by email")
	}

	sub, err = svc.repo.CreateSubscriber(ctx, Subscriber{
		ID:           core.NewID(),
		Email:        data.Email,
		Status:       StatusActive,
		SubscribedAt: time.Now().UTC(),
	})
	if errors.Cause(err) == ErrAlreadySubscribed { // lost a race with another signup
		return Subscriber{}, alreadySubscribedErr()
	}
	return sub, err
}

// Unsubscribe marks the Subscriber as unsubscribed. Unsubscribing twice is a no-op.
func (svc *Service) Unsubscribe(ctx context.Context, data SubscriptionRequest) error {
	if err := data.Validate(svc.validate); err != nil {
		return err
	}

	sub, err := svc.repo.GetSubscriberByEmail(ctx, data.Email)
	if err != nil {
		return errors.Wrap(err, "getting subscriber by email")
	}
	if !sub.IsActive() {
		return nil
	}

	now := time.Now().UTC()
	sub.Status = StatusUnsubscribed
	sub.UnsubscribedAt = &now
	_, err = svc.repo.UpdateSubscriber(ctx, sub)
	return errors.Wrap(err, "updating subscriber")
}

func (svc *Service) Query(ctx context.Context, filter QueryFilter) ([]Subscriber, error) {
	filter.Clean()
	return svc.repo.QuerySubscribers(ctx, filter)
}

func (svc *Service) Delete(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteSubscribers(ctx, ids...)
}

func alreadySubscribedErr() error {
	return core.NewValidationError(ErrAlreadySubscribed, core.FieldError{Field: "email", Error: ErrAlreadySubscribed.Error()})
}
