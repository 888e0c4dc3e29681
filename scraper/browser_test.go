package scraper

import (
	"testing"

	"zillow_scraper/config"
)

func TestPlaywrightBrowserAsProviderFactory(t *testing.T) {
	factory := ProviderFactory(func() (PageSourceProvider, error) {
		return NewPlaywrightBrowser(config.ScrollConfig{}, config.SiteConfig{}, true), nil
	})

	provider, err := factory()
	if err != nil {
		t.Fatalf("factory failed: %v", err)
	}
	if provider == nil {
		t.Fatal("expected a provider")
	}

	// Release before any fetch must be a no-op, not a crash.
	provider.Release()
}
