package newsletter_test

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/madrasa/core"
	"github.com/trezcool/madrasa/core/newsletter"
	"github.com/trezcool/madrasa/testutil"
)

func TestService_Subscribe(t *testing.T) {
	f := setup(t)
	svc := newsletter.NewService(f.repo, f.validate)
	ctx := context.Background()

	sub, err := svc.Subscribe(ctx, newsletter.SubscriptionRequest{Email: "  Parent@Example.com "})
	require.NoError(t, err)
	assert.Equal(t, "parent@example.com", sub.Email)
	assert.True(t, sub.IsActive())
	assert.NotEmpty(t, sub.ID)

	t.Run("invalid email", func(t *testing.T) {
		_, err := svc.Subscribe(ctx, newsletter.SubscriptionRequest{Email: "not-an-email"})
		assert.IsType(t, validator.ValidationErrors{}, err)
	})

	t.Run("already subscribed", func(t *testing.T) {
		_, err := svc.Subscribe(ctx, newsletter.SubscriptionRequest{Email: "PARENT@example.com"})
		var verr *core.ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, newsletter.ErrAlreadySubscribed, verr.Err)
		assert.Equal(t, "email", verr.Fields[0].Field)
	})

	t.Run("re-subscribe", func(t *testing.T) {
		gone := testutil.CreateSubscriber(t, f.repo, "gone@example.com", newsletter.StatusUnsubscribed)

		sub, err := svc.Subscribe(ctx, newsletter.SubscriptionRequest{Email: "gone@example.com"})
		require.NoError(t, err)
		assert.Equal(t, gone.ID, sub.ID)
		assert.True(t, sub.IsActive())
		assert.Nil(t, sub.UnsubscribedAt)
	})
}

func TestService_Unsubscribe(t *testing.T) {
	f := setup(t)
	svc := newsletter.NewService(f.repo, f.validate)
	ctx := context.Background()

	testutil.CreateSubscriber(t, f.repo, "parent@example.com", newsletter.StatusActive)

	require.NoError(t, svc.Unsubscribe(ctx, newsletter.SubscriptionRequest{Email: "Parent@example.com"}))
	sub, err := f.repo.GetSubscriberByEmail(ctx, "parent@example.com")
	require.NoError(t, err)
	assert.Equal(t, newsletter.StatusUnsubscribed, sub.Status)
	require.NotNil(t, sub.UnsubscribedAt)

	// twice is a no-op
	require.NoError(t, svc.Unsubscribe(ctx, newsletter.SubscriptionRequest{Email: "parent@example.com"}))

	err = svc.Unsubscribe(ctx, newsletter.SubscriptionRequest{Email: "unknown@example.com"})
	assert.True(t, core.IsNotFound(err))
}

func TestService_Query(t *testing.T) {
	f := setup(t)
	svc := newsletter.NewService(f.repo, f.validate)
	ctx := context.Background()

	active := testutil.CreateSubscriber(t, f.repo, "a@example.com", newsletter.StatusActive)
	gone := testutil.CreateSubscriber(t, f.repo, "b@example.com", newsletter.StatusUnsubscribed)

	subs, err := svc.Query(ctx, newsletter.QueryFilter{})
	require.NoError(t, err)
	assert.Len(t, subs, 2)

	subs, err = svc.Query(ctx, newsletter.QueryFilter{Status: " ACTIVE "})
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, active.ID, subs[0].ID)

	require.NoError(t, svc.Delete(ctx, gone.ID))
	subs, err = svc.Query(ctx, newsletter.QueryFilter{})
	require.NoError(t, err)
	assert.Len(t, subs, 1)
}
