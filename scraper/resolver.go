package scraper

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"strings"

	"zillow_scraper/config"
	"zillow_scraper/models"
)

var (
	// ErrEmptyPage means acquisition came back empty: a failed fetch, not a
	// page with zero results.
	ErrEmptyPage = errors.New("acquisition returned empty page")
	// ErrNoSearchResults means the search page rendered but held no cards.
	ErrNoSearchResults = errors.New("search returned no listings")
	// ErrNoResultLink means the first search result carried no usable link.
	ErrNoResultLink = errors.New("first search result has no usable link")
	// ErrExtractionFailed means the detail page rendered but could not be
	// mapped onto a record.
	ErrExtractionFailed = errors.New("detail extraction failed")
)

// ProviderFactory opens a fresh acquisition session. The resolver is the
// only component that opens or closes sessions, and it releases each one
// exactly once — a listings page's render state is never valid context for
// a detail page, so the search->detail hop always gets a new session.
type ProviderFactory func() (PageSourceProvider, error)

// Archiver receives each successfully acquired HTML snapshot, best-effort.
type Archiver interface {
	Archive(ctx context.Context, pageURL, html string)
}

// Resolver turns a target — detail URL, search URL, or free-text address —
// into a comprehensive property record, chaining a search fetch to a detail
// fetch across two page loads when needed.
type Resolver struct {
	site        config.SiteConfig
	newProvider ProviderFactory
	listings    *ListingParser
	detail      *DetailParser
	full        *ComprehensiveParser
	archiver    Archiver
}

func NewResolver(site config.SiteConfig, factory ProviderFactory) *Resolver {
	return &Resolver{
		site:        site,
		newProvider: factory,
		listings:    NewListingParser(site.BaseURL),
		detail:      NewDetailParser(),
		full:        NewComprehensiveParser(),
	}
}

// SetArchiver wires an optional snapshot sink for acquired HTML.
func (r *Resolver) SetArchiver(a Archiver) {
	r.archiver = a
}

type targetKind int

const (
	targetAddress targetKind = iota
	targetSearchURL
	targetDetailURL
)

func (r *Resolver) classify(target string) targetKind {
	if !strings.HasPrefix(target, "http://") && !strings.HasPrefix(target, "https://") {
		return targetAddress
	}
	if strings.Contains(target, r.site.SearchPathMarker) && !strings.Contains(target, r.site.DetailPathMarker) {
		return targetSearchURL
	}
	return targetDetailURL
}

// IsSearchTarget reports whether the target is a listing-search URL.
func (r *Resolver) IsSearchTarget(target string) bool {
	return r.classify(target) == targetSearchURL
}

// SearchURLFor builds the search URL for a free-text address.
func (r *Resolver) SearchURLFor(address string) string {
	return r.site.BaseURL + fmt.Sprintf(r.site.SearchPathTemplate, url.PathEscape(address))
}

// Resolve runs the full pipeline for one target and returns its
// comprehensive record. Direct detail URLs skip the search hop entirely.
// Every terminal path — success, no results, extraction failure, or a panic
// mid-pipeline — leaves no acquisition session open.
func (r *Resolver) Resolve(ctx context.Context, target string) (detail *models.PropertyDetail, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("Resolution failed: %v", rec)
			detail, err = nil, fmt.Errorf("resolution failed: %v", rec)
		}
	}()

	detailURL := target
	switch r.classify(target) {
	case targetDetailURL:
		log.Printf("Detected property detail URL: %s", target)
	case targetSearchURL:
		log.Printf("Detected listing search URL: %s", target)
		if detailURL, err = r.searchForDetailURL(ctx, target); err != nil {
			return nil, err
		}
	case targetAddress:
		log.Printf("Detected address string: %s", target)
		if detailURL, err = r.searchForDetailURL(ctx, r.SearchURLFor(target)); err != nil {
			return nil, err
		}
	}

	html := r.acquire(ctx, detailURL)
	if html == "" {
		return nil, ErrEmptyPage
	}
	record := r.full.Parse(html, detailURL)
	if record == nil {
		return nil, ErrExtractionFailed
	}
	return record, nil
}

// ResolveSummary resolves a target the same way Resolve does but maps the
// property page onto the flat record via the basic detail extractor, for
// callers that want a CSV row rather than the nested record. Addresses and
// search URLs take the same search hop before the detail fetch.
func (r *Resolver) ResolveSummary(ctx context.Context, target string) (listing *models.Listing, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("Summary resolution failed: %v", rec)
			listing, err = nil, fmt.Errorf("summary resolution failed: %v", rec)
		}
	}()

	detailURL := target
	switch r.classify(target) {
	case targetSearchURL:
		if detailURL, err = r.searchForDetailURL(ctx, target); err != nil {
			return nil, err
		}
	case targetAddress:
		if detailURL, err = r.searchForDetailURL(ctx, r.SearchURLFor(target)); err != nil {
			return nil, err
		}
	}

	html := r.acquire(ctx, detailURL)
	if html == "" {
		return nil, ErrEmptyPage
	}
	result := r.detail.Parse(html)
	if result == nil {
		return nil, ErrExtractionFailed
	}
	return result, nil
}

// FetchListings acquires a search page and extracts every card on it.
func (r *Resolver) FetchListings(ctx context.Context, searchURL string) (listings []models.Listing, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("Listing fetch failed: %v", rec)
			listings, err = nil, fmt.Errorf("listing fetch failed: %v", rec)
		}
	}()

	html := r.acquire(ctx, searchURL)
	if html == "" {
		return nil, ErrEmptyPage
	}
	return r.listings.Parse(html), nil
}

// searchForDetailURL acquires the search page and takes the first result's
// link as the canonical property URL. No retry, no alternate candidate.
func (r *Resolver) searchForDetailURL(ctx context.Context, searchURL string) (string, error) {
	html := r.acquire(ctx, searchURL)
	if html == "" {
		return "", ErrEmptyPage
	}
	results := r.listings.Parse(html)
	if len(results) == 0 {
		return "", ErrNoSearchResults
	}
	link := results[0].Link
	if link == "" || link == models.NotAvailable {
		return "", ErrNoResultLink
	}
	log.Printf("Search resolved to %s", link)
	return link, nil
}

// acquire opens a fresh session, fetches the page through the scroll/load
// controller, and tears the session down before returning. Release runs on
// every exit path, panics included.
func (r *Resolver) acquire(ctx context.Context, pageURL string) string {
	provider, err := r.newProvider()
	if err != nil {
		log.Printf("Could not open acquisition session: %v", err)
		return ""
	}
	defer provider.Release()

	html := provider.FetchSource(ctx, pageURL)
	if html != "" && r.archiver != nil {
		r.archiver.Archive(ctx, pageURL, html)
	}
	return html
}
