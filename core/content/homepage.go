package content

import "github.com/trezcool/madrasa/core/homepage"

// Number of items shown on the homepage when no selection is active.
const (
	NewsFallbackMax    = 3
	GalleryFallbackMax = 6
)

// NewsSection describes the homepage "News & Events" section.
func NewsSection(repo NewsRepository) homepage.Section[News] {
	return homepage.Section[News]{
		Kind:        homepage.KindNews,
		Source:      repo,
		Fallback:    NewsFreshness,
		FallbackMax: NewsFallbackMax,
	}
}

// GallerySection describes the homepage gallery section.
func GallerySection(repo GalleryRepository) homepage.Section[GalleryImage] {
	return homepage.Section[GalleryImage]{
		Kind:        homepage.KindGallery,
		Source:      repo,
		Fallback:    GalleryFreshness,
		FallbackMax: GalleryFallbackMax,
	}
}
