package scraper

import (
	"log"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"zillow_scraper/models"
)

// ListingParser maps a fully rendered search-results page onto flat listing
// records, one per property card. Cards degrade to the N/A sentinel field by
// field; a card is only skipped when its whole extraction blows up.
type ListingParser struct {
	baseURL string
}

func NewListingParser(baseURL string) *ListingParser {
	return &ListingParser{baseURL: baseURL}
}

// Parse extracts every property card from the page. HTML with no cards
// yields an empty result, not an error.
func (p *ListingParser) Parse(html string) []models.Listing {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		log.Printf("Listing parse error: %v", err)
		return nil
	}

	results := []models.Listing{}
	cards := doc.Find("article[data-test='property-card']")
	log.Printf("Parser found %d raw property cards.", cards.Length())

	cards.Each(func(_ int, card *goquery.Selection) {
		if listing, ok := p.parseCard(card); ok {
			results = append(results, listing)
		}
	})

	return results
}

// parseCard is isolated per card: a panic while processing one card is
// logged and that card skipped, never aborting the page.
func (p *ListingParser) parseCard(card *goquery.Selection) (listing models.Listing, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Skipping a card due to error: %v", r)
			ok = false
		}
	}()

	listing = models.NewListing()

	if price := strings.TrimSpace(card.Find("span[data-test='property-card-price']").First().Text()); price != "" {
		listing.Price = price
	}
	if address := strings.TrimSpace(card.Find("address").First().Text()); address != "" {
		listing.Address = address
	}
	if href, exists := card.Find("a[data-test='property-card-link']").First().Attr("href"); exists && href != "" {
		if !strings.HasPrefix(href, "http") {
			href = p.baseURL + href
		}
		listing.Link = href
	}

	card.Find("ul[data-testid='property-card-details'] li").Each(func(_ int, li *goquery.Selection) {
		text := strings.ToLower(strings.TrimSpace(li.Text()))
		switch {
		case strings.Contains(text, "bds") || strings.Contains(text, "bd"):
			listing.Beds = strings.TrimSpace(strings.NewReplacer("bds", "", "bd", "").Replace(text))
		case strings.Contains(text, "ba"):
			listing.Baths = strings.TrimSpace(strings.Replace(text, "ba", "", 1))
		case strings.Contains(text, "sqft"):
			listing.SqFt = strings.TrimSpace(strings.Replace(text, "sqft", "", 1))
		}
	})

	return listing, true
}
