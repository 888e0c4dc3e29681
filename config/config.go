package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	OutputDir   string
	DBPath      string
	PostgresURL string
	LogPath     string

	Scroll   ScrollConfig
	Site     SiteConfig
	Snapshot SnapshotConfig
}

// ScrollConfig tunes the scroll/load controller. MaxPasses bounds the
// stability loop; 0 keeps the loop running until the rendered height stops
// growing, whatever that takes.
type ScrollConfig struct {
	SettleWait    time.Duration `yaml:"settle_wait"`
	MinChunkPx    int           `yaml:"min_chunk_px"`
	MaxChunkPx    int           `yaml:"max_chunk_px"`
	BottomSlackPx int           `yaml:"bottom_slack_px"`
	LazyLoadWait  time.Duration `yaml:"lazy_load_wait"`
	MaxPasses     int           `yaml:"max_passes"`
	NavTimeout    time.Duration `yaml:"nav_timeout"`
}

// SiteConfig carries the target site's URL layout and the selectors the
// extraction engine starts from. Selector drift is the most common reason
// to redeploy, so these can be overridden from config/zillow.yaml without
// touching code.
type SiteConfig struct {
	BaseURL            string   `yaml:"base_url"`
	SearchPathTemplate string   `yaml:"search_path_template"`
	SearchPathMarker   string   `yaml:"search_path_marker"`
	DetailPathMarker   string   `yaml:"detail_path_marker"`
	ContainerSelectors []string `yaml:"container_selectors"`
}

type SnapshotConfig struct {
	Bucket          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
}

// Enabled reports whether snapshot archiving is configured.
func (c SnapshotConfig) Enabled() bool {
	return c.Bucket != "" && c.AccessKeyID != ""
}

const siteConfigPath = "config/zillow.yaml"

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		OutputDir:   getEnv("OUTPUT_DIR", "./output"),
		DBPath:      getEnv("DB_PATH", "scraper.db"),
		PostgresURL: os.Getenv("POSTGRES_URL"),
		LogPath:     getEnv("LOG_PATH", "scraper.log"),
		Scroll: ScrollConfig{
			SettleWait:    5 * time.Second,
			MinChunkPx:    100,
			MaxChunkPx:    200,
			BottomSlackPx: 100,
			LazyLoadWait:  2500 * time.Millisecond,
			MaxPasses:     getEnvInt("SCROLL_MAX_PASSES", 0),
			NavTimeout:    60 * time.Second,
		},
		Site: SiteConfig{
			BaseURL:            "https://www.zillow.com",
			SearchPathTemplate: "/homes/%s_rb/",
			SearchPathMarker:   "/homes",
			DetailPathMarker:   "/homedetails/",
			ContainerSelectors: []string{
				"#search-page-list-container",
				"div.search-page-list-container",
				"[class*='search-page-list-container']",
			},
		},
		Snapshot: SnapshotConfig{
			Bucket:          os.Getenv("SNAPSHOT_S3_BUCKET"),
			Region:          getEnv("SNAPSHOT_S3_REGION", "us-east-1"),
			Endpoint:        os.Getenv("SNAPSHOT_S3_ENDPOINT"),
			AccessKeyID:     os.Getenv("SNAPSHOT_S3_ACCESS_KEY"),
			SecretAccessKey: os.Getenv("SNAPSHOT_S3_SECRET_KEY"),
		},
	}

	if err := cfg.loadSiteOverrides(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadSiteOverrides overlays config/zillow.yaml onto the built-in site and
// scroll defaults when the file exists.
func (c *Config) loadSiteOverrides() error {
	data, err := os.ReadFile(siteConfigPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	var overlay struct {
		Site   SiteConfig   `yaml:"site"`
		Scroll ScrollConfig `yaml:"scroll"`
	}
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return fmt.Errorf("parse %s: %w", siteConfigPath, err)
	}

	if overlay.Site.BaseURL != "" {
		c.Site.BaseURL = overlay.Site.BaseURL
	}
	if overlay.Site.SearchPathTemplate != "" {
		c.Site.SearchPathTemplate = overlay.Site.SearchPathTemplate
	}
	if overlay.Site.SearchPathMarker != "" {
		c.Site.SearchPathMarker = overlay.Site.SearchPathMarker
	}
	if overlay.Site.DetailPathMarker != "" {
		c.Site.DetailPathMarker = overlay.Site.DetailPathMarker
	}
	if len(overlay.Site.ContainerSelectors) > 0 {
		c.Site.ContainerSelectors = overlay.Site.ContainerSelectors
	}
	if overlay.Scroll.SettleWait > 0 {
		c.Scroll.SettleWait = overlay.Scroll.SettleWait
	}
	if overlay.Scroll.MinChunkPx > 0 {
		c.Scroll.MinChunkPx = overlay.Scroll.MinChunkPx
	}
	if overlay.Scroll.MaxChunkPx > 0 {
		c.Scroll.MaxChunkPx = overlay.Scroll.MaxChunkPx
	}
	if overlay.Scroll.BottomSlackPx > 0 {
		c.Scroll.BottomSlackPx = overlay.Scroll.BottomSlackPx
	}
	if overlay.Scroll.LazyLoadWait > 0 {
		c.Scroll.LazyLoadWait = overlay.Scroll.LazyLoadWait
	}
	if overlay.Scroll.MaxPasses > 0 {
		c.Scroll.MaxPasses = overlay.Scroll.MaxPasses
	}

	// The scroll chunk is drawn from [min, max]; an overlay that moves only
	// one bound can invert the range.
	if c.Scroll.MinChunkPx > c.Scroll.MaxChunkPx {
		return fmt.Errorf("parse %s: min_chunk_px %d exceeds max_chunk_px %d",
			siteConfigPath, c.Scroll.MinChunkPx, c.Scroll.MaxChunkPx)
	}

	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}
