package config

import (
	"os"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Site.BaseURL != "https://www.zillow.com" {
		t.Errorf("unexpected base URL %q", cfg.Site.BaseURL)
	}
	if cfg.Site.SearchPathTemplate != "/homes/%s_rb/" {
		t.Errorf("unexpected search template %q", cfg.Site.SearchPathTemplate)
	}
	if len(cfg.Site.ContainerSelectors) != 3 {
		t.Errorf("expected 3 container selectors, got %d", len(cfg.Site.ContainerSelectors))
	}
	if cfg.Site.ContainerSelectors[0] != "#search-page-list-container" {
		t.Errorf("unexpected first selector %q", cfg.Site.ContainerSelectors[0])
	}

	if cfg.Scroll.SettleWait != 5*time.Second {
		t.Errorf("unexpected settle wait %s", cfg.Scroll.SettleWait)
	}
	if cfg.Scroll.MinChunkPx != 100 || cfg.Scroll.MaxChunkPx != 200 {
		t.Errorf("unexpected chunk range %d-%d", cfg.Scroll.MinChunkPx, cfg.Scroll.MaxChunkPx)
	}
	if cfg.Scroll.LazyLoadWait != 2500*time.Millisecond {
		t.Errorf("unexpected lazy load wait %s", cfg.Scroll.LazyLoadWait)
	}
	if cfg.Scroll.BottomSlackPx != 100 {
		t.Errorf("unexpected bottom slack %d", cfg.Scroll.BottomSlackPx)
	}
}

func writeSiteOverlay(t *testing.T, yaml string) {
	t.Helper()
	t.Chdir(t.TempDir())
	if err := os.MkdirAll("config", 0755); err != nil {
		t.Fatalf("mkdir failed: %v", err)
	}
	if err := os.WriteFile(siteConfigPath, []byte(yaml), 0644); err != nil {
		t.Fatalf("write overlay failed: %v", err)
	}
}

func TestLoadSiteOverlay(t *testing.T) {
	writeSiteOverlay(t, "scroll:\n  min_chunk_px: 300\n  max_chunk_px: 400\nsite:\n  base_url: https://zillow.example\n")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Scroll.MinChunkPx != 300 || cfg.Scroll.MaxChunkPx != 400 {
		t.Errorf("unexpected chunk range %d-%d", cfg.Scroll.MinChunkPx, cfg.Scroll.MaxChunkPx)
	}
	if cfg.Site.BaseURL != "https://zillow.example" {
		t.Errorf("unexpected base URL %q", cfg.Site.BaseURL)
	}
	// Untouched keys keep their defaults.
	if cfg.Scroll.SettleWait != 5*time.Second {
		t.Errorf("unexpected settle wait %s", cfg.Scroll.SettleWait)
	}
}

func TestLoadRejectsInvertedChunkRange(t *testing.T) {
	// Only the lower bound moves, crossing the default max of 200.
	writeSiteOverlay(t, "scroll:\n  min_chunk_px: 300\n")

	if _, err := Load(); err == nil {
		t.Fatal("expected an error for min chunk above max chunk")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("SCROLL_MAX_PASSES", "25")
	t.Setenv("DB_PATH", "custom.db")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Scroll.MaxPasses != 25 {
		t.Errorf("expected max passes 25, got %d", cfg.Scroll.MaxPasses)
	}
	if cfg.DBPath != "custom.db" {
		t.Errorf("expected custom.db, got %q", cfg.DBPath)
	}
}
