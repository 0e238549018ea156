package metricsvc

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/trezcool/madrasa/core/homepage"
	"github.com/trezcool/madrasa/core/newsletter"
)

func TestPrometheus(t *testing.T) {
	p := NewPrometheus()

	p.ObserveDispatch(newsletter.ModeManual, newsletter.DispatchSent)
	p.ObserveDispatch(newsletter.ModeManual, newsletter.DispatchSent)
	p.ObserveDispatch(newsletter.ModeAutomatic, newsletter.DispatchPreview)
	p.ObserveEmail(true)
	p.ObserveEmail(false)
	p.ObserveEmail(true)
	p.ObserveResolve(homepage.KindNews, true)
	p.ObserveResolve(homepage.KindGallery, false)

	assert.Equal(t, float64(2), testutil.ToFloat64(p.dispatches.WithLabelValues(newsletter.ModeManual, newsletter.DispatchSent)))
	assert.Equal(t, float64(1), testutil.ToFloat64(p.dispatches.WithLabelValues(newsletter.ModeAutomatic, newsletter.DispatchPreview)))
	assert.Equal(t, float64(2), testutil.ToFloat64(p.emails.WithLabelValues("sent")))
	assert.Equal(t, float64(1), testutil.ToFloat64(p.emails.WithLabelValues("failed")))
	assert.Equal(t, float64(1), testutil.ToFloat64(p.resolves.WithLabelValues("news", "custom")))
	assert.Equal(t, float64(1), testutil.ToFloat64(p.resolves.WithLabelValues("gallery", "fallback")))
}
