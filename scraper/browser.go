package scraper

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"sync"

	"github.com/playwright-community/playwright-go"
	"zillow_scraper/config"
)

// PageSourceProvider is one live acquisition session: navigate, force the
// page to fully render, hand back the HTML. Failures surface as empty HTML,
// never as errors — callers treat empty as "nothing to extract".
type PageSourceProvider interface {
	FetchSource(ctx context.Context, url string) string
	Release()
}

// PlaywrightBrowser drives a stealth Chromium session and scrolls lazily
// rendered listing containers until their content stops growing.
type PlaywrightBrowser struct {
	scroll   config.ScrollConfig
	site     config.SiteConfig
	headless bool

	mu      sync.Mutex
	pw      *playwright.Playwright
	browser playwright.Browser
	page    playwright.Page
	started bool
}

func NewPlaywrightBrowser(scroll config.ScrollConfig, site config.SiteConfig, headless bool) *PlaywrightBrowser {
	return &PlaywrightBrowser{scroll: scroll, site: site, headless: headless}
}

func (b *PlaywrightBrowser) start() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.started {
		return nil
	}

	pw, err := playwright.Run()
	if err != nil {
		return fmt.Errorf("failed to start playwright: %w", err)
	}
	b.pw = pw

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(b.headless),
		Args: []string{
			"--disable-blink-features=AutomationControlled",
			"--disable-dev-shm-usage",
			"--no-sandbox",
		},
	})
	if err != nil {
		pw.Stop()
		return fmt.Errorf("failed to launch browser: %w", err)
	}
	b.browser = browser

	page, err := browser.NewPage()
	if err != nil {
		browser.Close()
		pw.Stop()
		return fmt.Errorf("failed to create page: %w", err)
	}
	b.page = page
	b.started = true
	return nil
}

// FetchSource navigates to url, lets the page framework settle, scrolls the
// listings container to exhaustion, and returns the final HTML snapshot.
// Any failure along the way returns "".
func (b *PlaywrightBrowser) FetchSource(ctx context.Context, url string) string {
	if err := b.start(); err != nil {
		log.Printf("Browser error: %v", err)
		return ""
	}

	log.Printf("Navigating to %s", url)
	_, err := b.page.Goto(url, playwright.PageGotoOptions{
		Timeout:   playwright.Float(float64(b.scroll.NavTimeout.Milliseconds())),
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
	})
	if err != nil {
		log.Printf("Browser error: navigation failed: %v", err)
		return ""
	}

	// Initial wait for page framework
	b.page.WaitForTimeout(float64(b.scroll.SettleWait.Milliseconds()))

	selector := b.findScrollContainer()
	b.humanScroll(ctx, selector)

	html, err := b.page.Content()
	if err != nil {
		log.Printf("Browser error: reading page source: %v", err)
		return ""
	}
	return html
}

// findScrollContainer tries each configured container selector in order and
// falls back to the document body when none match.
func (b *PlaywrightBrowser) findScrollContainer() string {
	for _, sel := range b.site.ContainerSelectors {
		res, err := b.page.Evaluate(fmt.Sprintf(`document.querySelector(%q) !== null`, sel))
		if err != nil {
			continue
		}
		if found, ok := res.(bool); ok && found {
			log.Printf("Found scroll container using: %s", sel)
			return sel
		}
	}
	log.Println("Could not identify specific list container. Falling back to body.")
	return "body"
}

// humanScroll advances the container in randomized wheel-sized ticks until
// two consecutive reached-bottom checks show no scrollHeight growth. A
// single jump to the bottom trips lazy-load heuristics, so the offset walks
// down in small increments with short randomized pauses. MaxPasses of zero
// means no iteration cap.
func (b *PlaywrightBrowser) humanScroll(ctx context.Context, selector string) {
	log.Println("Starting human-like gradual scroll...")

	position := 0
	for pass := 0; b.scroll.MaxPasses == 0 || pass < b.scroll.MaxPasses; pass++ {
		select {
		case <-ctx.Done():
			log.Printf("Scroll aborted: %v", ctx.Err())
			return
		default:
		}

		position += b.scroll.MinChunkPx + rand.Intn(b.scroll.MaxChunkPx-b.scroll.MinChunkPx+1)

		visible, scrolled, total, ok := b.scrollAndMeasure(selector, position)
		if !ok {
			return
		}

		b.page.WaitForTimeout(float64(10 + rand.Intn(90)))

		if scrolled+visible >= total-float64(b.scroll.BottomSlackPx) {
			log.Println("Hit bottom. Waiting for lazy load...")
			b.page.WaitForTimeout(float64(b.scroll.LazyLoadWait.Milliseconds()))

			newTotal, ok := b.measureHeight(selector)
			if !ok {
				return
			}
			if newTotal == total {
				log.Println("Height did not increase. End of list reached.")
				return
			}
			log.Printf("New items loaded! Height grew from %.0f to %.0f", total, newTotal)
		}
	}
	log.Printf("Scroll pass limit (%d) reached, taking snapshot as-is", b.scroll.MaxPasses)
}

func (b *PlaywrightBrowser) scrollAndMeasure(selector string, position int) (visible, scrolled, total float64, ok bool) {
	js := fmt.Sprintf(
		`(() => { const el = document.querySelector(%q) || document.body; el.scrollTo(0, %d); return [el.clientHeight, el.scrollTop, el.scrollHeight]; })()`,
		selector, position,
	)
	res, err := b.page.Evaluate(js)
	if err != nil {
		log.Printf("Browser error: scroll script failed: %v", err)
		return 0, 0, 0, false
	}
	metrics, isSlice := res.([]interface{})
	if !isSlice || len(metrics) != 3 {
		return 0, 0, 0, false
	}
	return asFloat(metrics[0]), asFloat(metrics[1]), asFloat(metrics[2]), true
}

func (b *PlaywrightBrowser) measureHeight(selector string) (float64, bool) {
	js := fmt.Sprintf(
		`(() => { const el = document.querySelector(%q) || document.body; return el.scrollHeight; })()`,
		selector,
	)
	res, err := b.page.Evaluate(js)
	if err != nil {
		log.Printf("Browser error: height script failed: %v", err)
		return 0, false
	}
	return asFloat(res), true
}

func asFloat(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	default:
		return 0
	}
}

// Release tears the session down. Safe to call once per session on every
// exit path; the resolver owns that obligation.
func (b *PlaywrightBrowser) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()

	log.Println("Closing browser...")
	if b.page != nil {
		b.page.Close()
		b.page = nil
	}
	if b.browser != nil {
		b.browser.Close()
		b.browser = nil
	}
	if b.pw != nil {
		b.pw.Stop()
		b.pw = nil
	}
	b.started = false
}
