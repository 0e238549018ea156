package echoapi_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/madrasa/core/content"
	"github.com/trezcool/madrasa/testutil"
)

func Test_contentApi_news(t *testing.T) {
	app := newTestApp(t)
	adminToken := app.adminToken(t)

	req, rec := newAuthRequest(http.MethodPost, "/v1/news", adminToken, []byte(`{"title": " Open Day ", "category": "EVENT"}`))
	app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var news content.News
	decode(t, rec, &news)
	assert.Equal(t, "Open Day", news.Title)
	assert.Equal(t, content.CategoryEvent, news.Category)
	assert.True(t, news.IsActive)

	app.run(t, []httpTest{
		{
			name: "create: admin required", method: http.MethodPost, path: "/v1/news", token: app.visitorToken(t),
			body: [][]byte{[]byte(`{"title": "Lol"}`)}, wantCode: http.StatusForbidden,
		},
		{
			name: "create: validation", method: http.MethodPost, path: "/v1/news", token: adminToken,
			body: [][]byte{[]byte(`{"title": "  "}`)}, wantCode: http.StatusBadRequest,
			wantData: []byte(`{"title": "this field is required"}`),
		},
		{name: "retrieve", path: "/v1/news/" + news.ID, wantData: marshalObj(t, news)},
		{
			name: "retrieve: not found", path: "/v1/news/lol", wantCode: http.StatusNotFound,
			wantData: marshalObj(t, httpErr{Error: "news not found"}),
		},
		{name: "list", path: "/v1/news", wantData: marshalObj(t, []content.News{news})},
	})

	req, rec = newAuthRequest(http.MethodPut, "/v1/news/"+news.ID, adminToken, []byte(`{"isActive": false}`))
	app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var updated content.News
	decode(t, rec, &updated)
	assert.False(t, updated.IsActive)
	assert.Equal(t, "Open Day", updated.Title, "blank fields keep their value")

	app.run(t, []httpTest{
		{name: "list active only", path: "/v1/news?active=true", wantData: []byte(`[]`)},
		{name: "delete", method: http.MethodDelete, path: "/v1/news/" + news.ID, token: adminToken, wantCode: http.StatusNoContent},
		{name: "deleted", path: "/v1/news/" + news.ID, wantCode: http.StatusNotFound},
	})
}

func Test_contentApi_gallery(t *testing.T) {
	app := newTestApp(t)
	adminToken := app.adminToken(t)

	app.run(t, []httpTest{
		{
			name: "create: validation", method: http.MethodPost, path: "/v1/gallery", token: adminToken,
			body: [][]byte{[]byte(`{"title": "Assembly"}`)}, wantCode: http.StatusBadRequest,
			wantData: []byte(`{"imageUrl": "this field is required"}`),
		},
	})

	req, rec := newAuthRequest(http.MethodPost, "/v1/gallery", adminToken, []byte(`{"title": "Assembly", "imageUrl": "https://cdn.madrasa.test/a.jpg", "order": 2}`))
	app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var img content.GalleryImage
	decode(t, rec, &img)
	assert.Equal(t, 2, img.Order)

	req, rec = newAuthRequest(http.MethodPut, "/v1/gallery/"+img.ID, adminToken, []byte(`{"order": 0, "caption": "Morning assembly"}`))
	app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	decode(t, rec, &img)
	assert.Equal(t, 0, img.Order)
	assert.Equal(t, "Morning assembly", img.Caption)

	app.run(t, []httpTest{
		{name: "list", path: "/v1/gallery", wantData: marshalObj(t, []content.GalleryImage{img})},
		{name: "update: not found", method: http.MethodPut, path: "/v1/gallery/lol", token: adminToken, body: [][]byte{[]byte(`{}`)}, wantCode: http.StatusNotFound},
	})
}

func Test_contentApi_ordering(t *testing.T) {
	app := newTestApp(t)
	now := time.Now().UTC()
	older := testutil.CreateNews(t, app.news, "Older", true, now.Add(-time.Hour))
	newer := testutil.CreateNews(t, app.news, "Newer", true, now)

	app.run(t, []httpTest{
		{name: "default", path: "/v1/news", wantData: marshalObj(t, []content.News{newer, older})},
		{name: "ascending", path: "/v1/news?ordering=published_at", wantData: marshalObj(t, []content.News{older, newer})},
		{name: "descending", path: "/v1/news?ordering=-created_at", wantData: marshalObj(t, []content.News{newer, older})},
		{name: "unknown field", path: "/v1/news?ordering=title", wantData: marshalObj(t, []content.News{newer, older})},
		{name: "with limit", path: "/v1/news?ordering=published_at&limit=1", wantData: marshalObj(t, []content.News{older})},
	})
}
