package scraper

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// fieldStrategy is one (matcher, extractor) pair in an ordered fallback
// chain. Chains are evaluated in sequence, returning on first non-empty
// result — the single most repeated pattern in this extraction engine.
type fieldStrategy struct {
	selector string
	extract  func(*goquery.Selection) string
}

func nodeText(sel *goquery.Selection) string {
	return sel.Text()
}

func attrValue(name string) func(*goquery.Selection) string {
	return func(sel *goquery.Selection) string {
		v, _ := sel.Attr(name)
		return v
	}
}

// firstMatch runs the strategy chain against the document and returns the
// first trimmed non-empty extraction, else fallback.
func firstMatch(doc *goquery.Document, strategies []fieldStrategy, fallback string) string {
	for _, st := range strategies {
		sel := doc.Find(st.selector).First()
		if sel.Length() == 0 {
			continue
		}
		if v := strings.TrimSpace(st.extract(sel)); v != "" {
			return v
		}
	}
	return fallback
}

var (
	dollarPattern = regexp.MustCompile(`\$\s?([0-9][0-9,]*)`)
	intPattern    = regexp.MustCompile(`[0-9][0-9,]*`)
	floatPattern  = regexp.MustCompile(`[0-9]+(?:\.[0-9]+)?`)
)

// parseDollar extracts the first dollar figure from text, absent when none
// parses. Numeric fields stay absent rather than guessing zero so callers
// can tell "value is zero" from "value was not on the page".
func parseDollar(text string) *int {
	m := dollarPattern.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	return intFrom(m[1])
}

// intFrom extracts the first integer in text, tolerating thousands
// separators. Absent on no match or parse failure.
func intFrom(text string) *int {
	m := intPattern.FindString(text)
	if m == "" {
		return nil
	}
	n, err := strconv.Atoi(strings.ReplaceAll(m, ",", ""))
	if err != nil {
		return nil
	}
	return &n
}

// floatFrom extracts the first decimal number in text, absent otherwise.
func floatFrom(text string) *float64 {
	m := floatPattern.FindString(text)
	if m == "" {
		return nil
	}
	f, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return nil
	}
	return &f
}

var sqftCleaner = strings.NewReplacer("sq. ft.", "", "sqft", "", ",", "")

// cleanSquareFootage strips unit tokens and thousands separators:
// "1,800 sqft" -> "1800", "1,150 sq. ft." -> "1150".
func cleanSquareFootage(text string) string {
	return strings.TrimSpace(sqftCleaner.Replace(text))
}

// splitList turns a comma-separated value into an ordered list of trimmed
// non-empty items.
func splitList(value string) []string {
	parts := strings.Split(value, ",")
	items := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}
