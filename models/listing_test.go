package models

import (
	"testing"
	"time"
)

func TestNewListingDefaults(t *testing.T) {
	l := NewListing()

	fields := map[string]string{
		"Address":      l.Address,
		"Price":        l.Price,
		"Link":         l.Link,
		"Beds":         l.Beds,
		"Baths":        l.Baths,
		"SqFt":         l.SqFt,
		"PropertyType": l.PropertyType,
		"YearBuilt":    l.YearBuilt,
		"LotSize":      l.LotSize,
		"HOA":          l.HOA,
	}
	for name, val := range fields {
		if val != NotAvailable {
			t.Errorf("expected %s to default to %q, got %q", name, NotAvailable, val)
		}
	}

	if _, err := time.Parse(time.RFC3339, l.ScrapedAt); err != nil {
		t.Fatalf("expected RFC3339 timestamp, got %q: %v", l.ScrapedAt, err)
	}
}

func TestCSVHeader(t *testing.T) {
	header := CSVHeader()
	want := []string{
		"Scraped_At", "Price", "Beds", "Baths", "Sqft", "Address",
		"Link", "Property_Type", "Year_Built", "Lot_Size", "HOA",
	}
	if len(header) != 11 {
		t.Fatalf("expected 11 columns, got %d", len(header))
	}
	for i := range want {
		if header[i] != want[i] {
			t.Fatalf("column %d: expected %q, got %q", i, want[i], header[i])
		}
	}
}

func TestCSVRowOrder(t *testing.T) {
	l := Listing{
		Address:      "748 Cottage Ct, Mountain View, CA 94043",
		Price:        "$1,188,000",
		Link:         "https://www.zillow.com/homedetails/748-Cottage-Ct/19479346_zpid/",
		Beds:         "2",
		Baths:        "2",
		SqFt:         "1,150",
		PropertyType: "Condo",
		YearBuilt:    "1984",
		LotSize:      "N/A",
		HOA:          "$350/month",
		ScrapedAt:    "2026-08-23T10:00:00Z",
	}

	row := l.CSVRow()
	if len(row) != 11 {
		t.Fatalf("expected 11 values, got %d", len(row))
	}
	if row[0] != l.ScrapedAt {
		t.Errorf("expected timestamp first, got %q", row[0])
	}
	if row[1] != "$1,188,000" {
		t.Errorf("expected price at index 1, got %q", row[1])
	}
	if row[5] != l.Address {
		t.Errorf("expected address at index 5, got %q", row[5])
	}
	if row[6] != l.Link {
		t.Errorf("expected link at index 6, got %q", row[6])
	}
	if row[7] != "Condo" || row[8] != "1984" || row[9] != "N/A" || row[10] != "$350/month" {
		t.Errorf("unexpected tail columns: %v", row[7:])
	}
}
