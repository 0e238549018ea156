package echoapi_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/madrasa/core/content"
	"github.com/trezcool/madrasa/core/homepage"
	"github.com/trezcool/madrasa/testutil"
)

func Test_homepageApi_news(t *testing.T) {
	app := newTestApp(t)
	adminToken := app.adminToken(t)
	now := time.Now().UTC()

	a := testutil.CreateNews(t, app.news, "A", true, now.Add(-3*time.Hour))
	b := testutil.CreateNews(t, app.news, "B", true, now.Add(-2*time.Hour))
	c := testutil.CreateNews(t, app.news, "C", true, now.Add(-time.Hour))
	d := testutil.CreateNews(t, app.news, "D", true, now)

	fallback := marshalObj(t, homepage.Resolved[content.News]{
		Items:    []content.News{d, c, b},
		MaxItems: content.NewsFallbackMax,
	})
	saveBody := marshalObj(t, homepage.SaveSelection{ItemIDs: []string{c.ID, a.ID, b.ID}, MaxItems: 6})

	app.run(t, []httpTest{
		{name: "fallback: latest first", path: "/v1/homepage-news", wantData: fallback},
		{
			name: "save: auth required", method: http.MethodPost, path: "/v1/homepage-news",
			body: [][]byte{saveBody}, wantCode: http.StatusUnauthorized, wantData: marshalObj(t, errMissingToken),
		},
		{
			name: "save: admin required", method: http.MethodPost, path: "/v1/homepage-news", token: app.visitorToken(t),
			body: [][]byte{saveBody}, wantCode: http.StatusForbidden, wantData: marshalObj(t, httpErr{Error: "permission denied"}),
		},
		{
			name: "save: itemIds required", method: http.MethodPost, path: "/v1/homepage-news", token: adminToken,
			body: [][]byte{[]byte(`{"maxItems": 3}`)}, wantCode: http.StatusBadRequest,
			wantData: []byte(`{"itemIds": "this field is required"}`),
		},
		{
			name: "save: empty itemIds", method: http.MethodPut, path: "/v1/homepage-news", token: adminToken,
			body: [][]byte{[]byte(`{"itemIds": []}`)}, wantCode: http.StatusBadRequest,
		},
		{
			name: "selection: none active", path: "/v1/homepage-news/selection", token: adminToken,
			wantCode: http.StatusNotFound, wantData: marshalObj(t, httpErr{Error: "no active homepage selection"}),
		},
		{name: "still fallback", path: "/v1/homepage-news", wantData: fallback},
	})

	// save then resolve in selection order
	req, rec := newAuthRequest(http.MethodPost, "/v1/homepage-news", adminToken, saveBody)
	app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var sel homepage.Selection
	decode(t, rec, &sel)
	assert.Equal(t, homepage.KindNews, sel.Kind)
	assert.Equal(t, []string{c.ID, a.ID, b.ID}, sel.ItemIDs)
	assert.True(t, sel.IsActive)

	require.NoError(t, app.news.DeleteNews(req.Context(), c.ID))

	app.run(t, []httpTest{
		{
			name: "custom selection without deleted items", path: "/v1/homepage-news",
			wantData: marshalObj(t, homepage.Resolved[content.News]{
				Items:             []content.News{a, b},
				MaxItems:          6,
				IsCustomSelection: true,
			}),
		},
		{name: "selection", path: "/v1/homepage-news/selection", token: adminToken, wantData: marshalObj(t, sel)},
		{
			name: "reset: admin required", method: http.MethodDelete, path: "/v1/homepage-news", token: app.visitorToken(t),
			wantCode: http.StatusForbidden,
		},
		{
			name: "reset", method: http.MethodDelete, path: "/v1/homepage-news", token: adminToken,
			wantData: []byte(`{"success": "Homepage section reset to the latest items."}`),
		},
		{
			name: "reset again", method: http.MethodDelete, path: "/v1/homepage-news", token: adminToken,
			wantData: []byte(`{"success": "Homepage section reset to the latest items."}`),
		},
		{
			name: "fallback after reset", path: "/v1/homepage-news",
			wantData: marshalObj(t, homepage.Resolved[content.News]{
				Items:    []content.News{d, b, a},
				MaxItems: content.NewsFallbackMax,
			}),
		},
	})
}

func Test_homepageApi_contentChanges(t *testing.T) {
	app := newTestApp(t)
	require.NotZero(t, app.conf.Homepage.CacheTTL, "resolves go through the cache")
	adminToken := app.adminToken(t)
	now := time.Now().UTC()

	a := testutil.CreateNews(t, app.news, "A", true, now.Add(-2*time.Hour))
	b := testutil.CreateNews(t, app.news, "B", true, now.Add(-time.Hour))

	req, rec := newAuthRequest(http.MethodPost, "/v1/homepage-news", adminToken,
		marshalObj(t, homepage.SaveSelection{ItemIDs: []string{a.ID, b.ID}}))
	app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	app.run(t, []httpTest{
		{
			name: "custom selection", path: "/v1/homepage-news",
			wantData: marshalObj(t, homepage.Resolved[content.News]{
				Items:             []content.News{a, b},
				MaxItems:          content.NewsFallbackMax,
				IsCustomSelection: true,
			}),
		},
		{name: "delete selected news", method: http.MethodDelete, path: "/v1/news/" + a.ID, token: adminToken, wantCode: http.StatusNoContent},
		{
			name: "deleted news dropped", path: "/v1/homepage-news",
			wantData: marshalObj(t, homepage.Resolved[content.News]{
				Items:             []content.News{b},
				MaxItems:          content.NewsFallbackMax,
				IsCustomSelection: true,
			}),
		},
		{
			name: "reset", method: http.MethodDelete, path: "/v1/homepage-news", token: adminToken,
			wantData: []byte(`{"success": "Homepage section reset to the latest items."}`),
		},
		{
			name: "fallback after reset", path: "/v1/homepage-news",
			wantData: marshalObj(t, homepage.Resolved[content.News]{
				Items:    []content.News{b},
				MaxItems: content.NewsFallbackMax,
			}),
		},
	})

	// news published after the fallback was resolved show up right away
	req, rec = newAuthRequest(http.MethodPost, "/v1/news", adminToken, []byte(`{"title": "C"}`))
	app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var c content.News
	decode(t, rec, &c)

	app.run(t, []httpTest{
		{
			name: "fallback with new news", path: "/v1/homepage-news",
			wantData: marshalObj(t, homepage.Resolved[content.News]{
				Items:    []content.News{c, b},
				MaxItems: content.NewsFallbackMax,
			}),
		},
	})
}

func Test_homepageApi_gallery(t *testing.T) {
	app := newTestApp(t)
	adminToken := app.adminToken(t)

	first := testutil.CreateGalleryImage(t, app.gallery, "First", 1, true)
	second := testutil.CreateGalleryImage(t, app.gallery, "Second", 2, true)

	app.run(t, []httpTest{
		{
			name: "fallback", path: "/v1/homepage-gallery",
			wantData: marshalObj(t, homepage.Resolved[content.GalleryImage]{
				Items:    []content.GalleryImage{first, second},
				MaxItems: content.GalleryFallbackMax,
			}),
		},
		{
			name: "save", method: http.MethodPut, path: "/v1/homepage-gallery", token: adminToken,
			body:     [][]byte{marshalObj(t, homepage.SaveSelection{ItemIDs: []string{second.ID, first.ID}, MaxItems: 1})},
			wantCode: http.StatusOK,
		},
		{
			name: "truncated custom selection", path: "/v1/homepage-gallery",
			wantData: marshalObj(t, homepage.Resolved[content.GalleryImage]{
				Items:             []content.GalleryImage{second},
				MaxItems:          1,
				IsCustomSelection: true,
			}),
		},
		{
			name: "news section untouched", path: "/v1/homepage-news",
			wantData: []byte(`{"items": [], "maxItems": 3, "isCustomSelection": false}`),
		},
	})
}
