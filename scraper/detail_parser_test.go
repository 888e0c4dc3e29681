package scraper

import (
	"testing"

	"zillow_scraper/models"
)

func TestDetailParser_PropertyPage(t *testing.T) {
	parser := NewDetailParser()
	listing := parser.Parse(loadFixture(t, "property_detail.html"))

	if listing == nil {
		t.Fatal("expected a listing, got nil")
	}
	if listing.Price != "$1,500,000" {
		t.Errorf("expected price $1,500,000, got %q", listing.Price)
	}
	if listing.Address != "123 Main St, Springfield, IL 62704" {
		t.Errorf("unexpected address %q", listing.Address)
	}
	if listing.Beds != "3" {
		t.Errorf("expected beds 3, got %q", listing.Beds)
	}
	if listing.Baths != "2" {
		t.Errorf("expected baths 2, got %q", listing.Baths)
	}
	if listing.SqFt != "1800" {
		t.Errorf("expected sqft 1800 with separator stripped, got %q", listing.SqFt)
	}
	if listing.PropertyType != "Single Family" {
		t.Errorf("expected Single Family, got %q", listing.PropertyType)
	}
	if listing.YearBuilt != "1985" {
		t.Errorf("expected year built 1985, got %q", listing.YearBuilt)
	}
	if listing.LotSize != "5,000 sqft" {
		t.Errorf("expected lot size 5,000 sqft, got %q", listing.LotSize)
	}
	if listing.HOA != "$200/month" {
		t.Errorf("expected HOA $200/month, got %q", listing.HOA)
	}
	if listing.Link != "https://www.zillow.com/homedetails/123-Main-St-Springfield-IL-62704/88231456_zpid/" {
		t.Errorf("expected canonical link, got %q", listing.Link)
	}
}

func TestDetailParser_MissingFields(t *testing.T) {
	parser := NewDetailParser()
	listing := parser.Parse("<html><body><h1>748 Cottage Ct</h1></body></html>")

	if listing == nil {
		t.Fatal("expected a listing, got nil")
	}
	if listing.Address != "748 Cottage Ct" {
		t.Errorf("unexpected address %q", listing.Address)
	}
	if listing.Price != models.NotAvailable {
		t.Errorf("expected N/A price, got %q", listing.Price)
	}
	if listing.Beds != models.NotAvailable || listing.HOA != models.NotAvailable {
		t.Errorf("expected N/A facts, got %q / %q", listing.Beds, listing.HOA)
	}
}

func TestDetailParser_EmptyInput(t *testing.T) {
	parser := NewDetailParser()
	if listing := parser.Parse(""); listing != nil {
		t.Fatalf("expected nil for empty input, got %+v", listing)
	}
	if listing := parser.Parse("   \n  "); listing != nil {
		t.Fatalf("expected nil for blank input, got %+v", listing)
	}
}
