// Package testutil holds fixtures shared by the tests of several packages.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/trezcool/madrasa/core"
	"github.com/trezcool/madrasa/core/content"
	"github.com/trezcool/madrasa/core/newsletter"
)

// Config returns a test configuration: in-memory storage, console emails.
func Config() *core.Config {
	return &core.Config{
		Env:             "TEST",
		Build:           "test",
		TestMode:        true,
		AppName:         "Madrasa",
		SecretKey:       "test-secret",
		FrontendBaseURL: "https://madrasa.test",
		Server: core.ServerConfig{
			Address:            ":0",
			ShutdownTimeout:    time.Second,
			DisableReqLogs:     true,
			JWTExpirationDelta: time.Hour,
		},
		Database: core.DatabaseConfig{Engine: core.EngineMemory},
		Email: core.EmailConfig{
			Provider:    core.EmailProviderConsole,
			FromAddress: "noreply@madrasa.test",
			FromName:    "Madrasa",
		},
		Homepage: core.HomepageConfig{CacheTTL: 30 * time.Second},
		Newsletter: core.NewsletterConfig{
			Concurrency: 4,
			SendTimeout: time.Second,
			QueueSize:   8,
		},
	}
}

func CreateNews(t *testing.T, repo content.NewsRepository, title string, isActive bool, publishedAt ...time.Time) content.News {
	t.Helper()

	tstamp := time.Now().UTC()
	if len(publishedAt) > 0 {
		tstamp = publishedAt[0].UTC()
	}
	news, err := repo.CreateNews(context.Background(), content.News{
		ID:          core.NewID(),
		Title:       title,
		Category:    content.CategoryNews,
		PublishedAt: tstamp,
		IsActive:    isActive,
		CreatedAt:   tstamp,
		UpdatedAt:   tstamp,
	})
	if err != nil {
		t.Fatalf("CreateNews() failed: %v", err)
	}
	return news
}

func CreateGalleryImage(t *testing.T, repo content.GalleryRepository, title string, order int, isActive bool, createdAt ...time.Time) content.GalleryImage {
	t.Helper()

	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	img, err := repo.CreateGalleryImage(context.Background(), content.GalleryImage{
		ID:        core.NewID(),
		Title:     title,
		ImageURL:  "https://cdn.madrasa.test/" + core.NewID() + ".jpg",
		Order:     order,
		IsActive:  isActive,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	})
	if err != nil {
		t.Fatalf("CreateGalleryImage() failed: %v", err)
	}
	return img
}

func CreateSubscriber(t *testing.T, repo newsletter.Repository, email, status string) newsletter.Subscriber {
	t.Helper()

	sub := newsletter.Subscriber{
		ID:           core.NewID(),
		Email:        email,
		Status:       status,
		SubscribedAt: time.Now().UTC(),
	}
	if status == newsletter.StatusUnsubscribed {
		now := time.Now().UTC()
		sub.UnsubscribedAt = &now
	}
	sub, err := repo.CreateSubscriber(context.Background(), sub)
	if err != nil {
		t.Fatalf("CreateSubscriber() failed: %v", err)
	}
	return sub
}
