package scraper

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func TestCleanSquareFootage(t *testing.T) {
	cases := map[string]string{
		"1,800 sqft":    "1800",
		"1,150 sq. ft.": "1150",
		"900 sqft":      "900",
		"750":           "750",
	}
	for in, want := range cases {
		if got := cleanSquareFootage(in); got != want {
			t.Errorf("cleanSquareFootage(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParseDollar(t *testing.T) {
	if v := parseDollar("$1,500,000"); v == nil || *v != 1500000 {
		t.Errorf("expected 1500000, got %v", v)
	}
	if v := parseDollar("HOA: $ 200/month"); v == nil || *v != 200 {
		t.Errorf("expected 200, got %v", v)
	}
	if v := parseDollar("no figures here"); v != nil {
		t.Errorf("expected absent, got %d", *v)
	}
	if v := parseDollar("1,000 without sign"); v != nil {
		t.Errorf("expected absent without dollar sign, got %d", *v)
	}
}

func TestIntFrom(t *testing.T) {
	if v := intFrom("14 days on Zillow"); v == nil || *v != 14 {
		t.Errorf("expected 14, got %v", v)
	}
	if v := intFrom("5,000"); v == nil || *v != 5000 {
		t.Errorf("expected 5000, got %v", v)
	}
	if v := intFrom("none"); v != nil {
		t.Errorf("expected absent, got %d", *v)
	}
}

func TestFloatFrom(t *testing.T) {
	if v := floatFrom("2.5 ba"); v == nil || *v != 2.5 {
		t.Errorf("expected 2.5, got %v", v)
	}
	if v := floatFrom("3 ba"); v == nil || *v != 3 {
		t.Errorf("expected 3, got %v", v)
	}
	if v := floatFrom("no numbers"); v != nil {
		t.Errorf("expected absent, got %f", *v)
	}
}

func TestSplitList(t *testing.T) {
	items := splitList("Garage - Attached, Covered, ")
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d: %v", len(items), items)
	}
	if items[0] != "Garage - Attached" || items[1] != "Covered" {
		t.Errorf("unexpected items %v", items)
	}
	if items := splitList(""); len(items) != 0 {
		t.Errorf("expected empty list, got %v", items)
	}
}

func TestFirstMatch(t *testing.T) {
	html := `<div><span class="secondary">fallback value</span><h2 id="target">primary value</h2></div>`
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("failed to build doc: %v", err)
	}

	chain := []fieldStrategy{
		{"h2#target", nodeText},
		{"span.secondary", nodeText},
	}
	if got := firstMatch(doc, chain, "none"); got != "primary value" {
		t.Errorf("expected primary value, got %q", got)
	}

	chain = []fieldStrategy{
		{"h3.missing", nodeText},
		{"span.secondary", nodeText},
	}
	if got := firstMatch(doc, chain, "none"); got != "fallback value" {
		t.Errorf("expected fallback value, got %q", got)
	}

	chain = []fieldStrategy{{"h3.missing", nodeText}}
	if got := firstMatch(doc, chain, "none"); got != "none" {
		t.Errorf("expected chain fallback, got %q", got)
	}
}
