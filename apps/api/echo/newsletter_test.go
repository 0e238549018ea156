package echoapi_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/madrasa/core"
	"github.com/trezcool/madrasa/core/newsletter"
	"github.com/trezcool/madrasa/testutil"
)

func Test_newsletterApi_subscription(t *testing.T) {
	app := newTestApp(t)
	adminToken := app.adminToken(t)

	req, rec := newRequest(http.MethodPost, "/v1/newsletter/subscribe", []byte(`{"email": " Parent@Example.com "}`))
	app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var sub newsletter.Subscriber
	decode(t, rec, &sub)
	assert.Equal(t, "parent@example.com", sub.Email)
	assert.Equal(t, newsletter.StatusActive, sub.Status)

	app.run(t, []httpTest{
		{
			name: "subscribe: invalid email", method: http.MethodPost, path: "/v1/newsletter/subscribe",
			body: [][]byte{[]byte(`{"email": "lol"}`)}, wantCode: http.StatusBadRequest,
			wantData: []byte(`{"email": "email must be a valid email address"}`),
		},
		{
			name: "subscribe: duplicate", method: http.MethodPost, path: "/v1/newsletter/subscribe",
			body: [][]byte{[]byte(`{"email": "parent@example.com"}`)}, wantCode: http.StatusBadRequest,
			wantData: []byte(`{"email": "this email is already subscribed"}`),
		},
		{
			name: "subscribers: admin required", path: "/v1/newsletter/subscribers", token: app.visitorToken(t),
			wantCode: http.StatusForbidden,
		},
		{
			name: "subscribers", path: "/v1/newsletter/subscribers?status=active", token: adminToken,
			wantData: marshalObj(t, []newsletter.Subscriber{sub}),
		},
		{
			name: "unsubscribe", method: http.MethodPost, path: "/v1/newsletter/unsubscribe",
			body:     [][]byte{[]byte(`{"email": "parent@example.com"}`)},
			wantData: []byte(`{"success": "You have been unsubscribed from the newsletter."}`),
		},
		{
			name: "unsubscribe: unknown", method: http.MethodPost, path: "/v1/newsletter/unsubscribe",
			body: [][]byte{[]byte(`{"email": "who@example.com"}`)}, wantCode: http.StatusNotFound,
			wantData: marshalObj(t, httpErr{Error: "subscriber not found"}),
		},
		{name: "no active subscriber left", path: "/v1/newsletter/subscribers?status=active", token: adminToken, wantData: []byte(`[]`)},
		{
			name: "delete", method: http.MethodDelete, path: "/v1/newsletter/subscribers/" + sub.ID, token: adminToken,
			wantCode: http.StatusNoContent,
		},
		{name: "deleted", path: "/v1/newsletter/subscribers", token: adminToken, wantData: []byte(`[]`)},
	})
}

func Test_newsletterApi_notify(t *testing.T) {
	app := newTestApp(t)
	adminToken := app.adminToken(t)
	body := []byte(`{"type": "academic", "title": "New Exam Scheduled", "message": "Math exam for Class 5 on 2025-05-01"}`)

	app.run(t, []httpTest{
		{
			name: "auth required", method: http.MethodPost, path: "/v1/newsletter/notify",
			body: [][]byte{body}, wantCode: http.StatusUnauthorized, wantData: marshalObj(t, errMissingToken),
		},
		{
			name: "validation", method: http.MethodPost, path: "/v1/newsletter/notify", token: adminToken,
			body: [][]byte{[]byte(`{"type": "news", "title": "Open Day"}`)}, wantCode: http.StatusBadRequest,
			wantData: []byte(`{"message": "this field is required"}`),
		},
		{
			name: "no subscribers", method: http.MethodPost, path: "/v1/newsletter/notify", token: adminToken,
			body: [][]byte{body},
			wantData: marshalObj(t, newsletter.Result{
				Success: true,
				Status:  newsletter.DispatchNoSubscribers,
				Message: "no active subscribers",
			}),
		},
	})

	testutil.CreateSubscriber(t, app.subscribers, "parent1@example.com", newsletter.StatusActive)
	testutil.CreateSubscriber(t, app.subscribers, "parent2@example.com", newsletter.StatusActive)
	testutil.CreateSubscriber(t, app.subscribers, "gone@example.com", newsletter.StatusUnsubscribed)

	req, rec := newAuthRequest(http.MethodPost, "/v1/newsletter/notify", adminToken, body)
	app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var res newsletter.Result
	decode(t, rec, &res)
	assert.True(t, res.Success)
	assert.Equal(t, newsletter.DispatchSent, res.Status)
	assert.Equal(t, 2, res.SubscribersCount)
	assert.Equal(t, 2, res.Successful)
	assert.Zero(t, res.Failed)
	assert.Equal(t, "[Madrasa] Academic Update: New Exam Scheduled", res.Subject)
	assert.Len(t, app.mailer.SentMessages(), 2)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	assert.Contains(t, raw, "perRecipientResults")
	assert.Len(t, res.Results, 2)
}

func Test_newsletterApi_notify_preview(t *testing.T) {
	app := newTestApp(t, func(conf *core.Config) {
		conf.Email.Provider = core.EmailProviderSendgrid
		conf.Email.SendgridAPIKey = ""
	})

	testutil.CreateSubscriber(t, app.subscribers, "parent1@example.com", newsletter.StatusActive)
	testutil.CreateSubscriber(t, app.subscribers, "parent2@example.com", newsletter.StatusActive)

	body := []byte(`{"type": "academic", "title": "New Exam Scheduled", "message": "Math exam for Class 5 on 2025-05-01"}`)
	req, rec := newAuthRequest(http.MethodPost, "/v1/newsletter/notify", app.adminToken(t), body)
	app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var res newsletter.Result
	decode(t, rec, &res)
	assert.True(t, res.Success)
	assert.Equal(t, newsletter.DispatchPreview, res.Status)
	assert.Equal(t, "[Madrasa] Academic Update: New Exam Scheduled", res.Subject)
	assert.ElementsMatch(t, []string{"parent1@example.com", "parent2@example.com"}, res.Recipients)
	assert.Empty(t, app.mailer.SentMessages())
}
