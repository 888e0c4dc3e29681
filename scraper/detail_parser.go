package scraper

import (
	"log"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"zillow_scraper/models"
)

// DetailParser maps a single property page onto one flat listing record.
// Unlike the listing parser, total failure here returns nil: a detail page
// has a single subject, and failing on it is a different outcome than
// "zero listings on a search page".
type DetailParser struct{}

func NewDetailParser() *DetailParser {
	return &DetailParser{}
}

var detailPriceChain = []fieldStrategy{
	{"span[data-testid='price']", nodeText},
	{"[data-testid='price'] span", nodeText},
	{"span[class*='price']", nodeText},
}

var detailAddressChain = []fieldStrategy{
	{"h1[class*='Text']", nodeText},
	{"h1", nodeText},
}

// Parse extracts the flat record from a property detail page. Empty input,
// or anything escaping the pass, yields nil.
func (p *DetailParser) Parse(html string) (listing *models.Listing) {
	if strings.TrimSpace(html) == "" {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Detail parse failed: %v", r)
			listing = nil
		}
	}()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		log.Printf("Detail parse error: %v", err)
		return nil
	}

	result := models.NewListing()
	result.Price = firstMatch(doc, detailPriceChain, models.NotAvailable)
	result.Address = firstMatch(doc, detailAddressChain, models.NotAvailable)

	// Primary facts container first; whatever stays unresolved gets one more
	// pass over the summary container with the same classification rules.
	p.classifyFacts(doc.Find("span[data-testid='bed-bath-item']"), &result)
	if result.Beds == models.NotAvailable || result.Baths == models.NotAvailable || result.SqFt == models.NotAvailable {
		p.classifyFacts(doc.Find("div[class*='summary-container'] span"), &result)
	}

	eachFactPair(doc, func(label, value string) {
		switch {
		case strings.Contains(label, "type"):
			result.PropertyType = value
		case strings.Contains(label, "year built"):
			result.YearBuilt = value
		case strings.Contains(label, "lot"):
			result.LotSize = value
		case strings.Contains(label, "hoa"):
			result.HOA = value
		}
	})

	if href, exists := doc.Find("link[rel='canonical']").Attr("href"); exists && href != "" {
		result.Link = href
	}

	return &result
}

// classifyFacts fills beds/baths/sqft from a span collection by substring
// classification, touching only fields still at the sentinel.
func (p *DetailParser) classifyFacts(spans *goquery.Selection, listing *models.Listing) {
	spans.Each(func(_ int, span *goquery.Selection) {
		text := strings.ToLower(strings.TrimSpace(span.Text()))
		switch {
		case listing.Beds == models.NotAvailable && (strings.Contains(text, "bds") || strings.Contains(text, "bd")):
			listing.Beds = strings.TrimSpace(strings.NewReplacer("bds", "", "bd", "").Replace(text))
		case listing.Baths == models.NotAvailable && strings.Contains(text, "ba") && !strings.Contains(text, "sqft"):
			listing.Baths = strings.TrimSpace(strings.Replace(text, "ba", "", 1))
		case listing.SqFt == models.NotAvailable && (strings.Contains(text, "sqft") || strings.Contains(text, "sq. ft.")):
			listing.SqFt = cleanSquareFootage(text)
		}
	})
}

// eachFactPair walks the label/value pairs of the page's fact list. Pairs
// are either two sibling spans or a single "Label: value" text node; labels
// are matched lower-cased by the caller.
func eachFactPair(doc *goquery.Document, fn func(label, value string)) {
	items := doc.Find("ul[class*='fact-list'] li")
	if items.Length() == 0 {
		items = doc.Find("li")
	}
	items.Each(func(_ int, li *goquery.Selection) {
		spans := li.Find("span")
		if spans.Length() >= 2 {
			label := strings.ToLower(strings.TrimSpace(spans.Eq(0).Text()))
			value := strings.TrimSpace(spans.Eq(1).Text())
			if label != "" && value != "" {
				fn(strings.TrimSuffix(label, ":"), value)
			}
			return
		}
		text := strings.TrimSpace(li.Text())
		if idx := strings.Index(text, ":"); idx > 0 && idx < len(text)-1 {
			fn(strings.ToLower(strings.TrimSpace(text[:idx])), strings.TrimSpace(text[idx+1:]))
		}
	})
}
