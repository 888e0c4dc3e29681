package models

import "time"

// NotAvailable is the sentinel written for any listing field that could not
// be located in the page. Listing fields are display strings, so downstream
// CSV serialization never has to branch on missing values.
const NotAvailable = "N/A"

// Listing is one flat property record: one per search-result card, or one
// per basic detail fetch. Every field is always populated.
type Listing struct {
	Address      string `json:"address"`
	Price        string `json:"price"`
	Link         string `json:"link"`
	Beds         string `json:"beds"`
	Baths        string `json:"baths"`
	SqFt         string `json:"sqft"`
	PropertyType string `json:"property_type"`
	YearBuilt    string `json:"year_built"`
	LotSize      string `json:"lot_size"`
	HOA          string `json:"hoa"`
	ScrapedAt    string `json:"scraped_at"`
}

// NewListing returns a Listing with every field set to the N/A sentinel and
// the scrape timestamp set to now. Extractors overwrite only what they find.
func NewListing() Listing {
	return Listing{
		Address:      NotAvailable,
		Price:        NotAvailable,
		Link:         NotAvailable,
		Beds:         NotAvailable,
		Baths:        NotAvailable,
		SqFt:         NotAvailable,
		PropertyType: NotAvailable,
		YearBuilt:    NotAvailable,
		LotSize:      NotAvailable,
		HOA:          NotAvailable,
		ScrapedAt:    time.Now().Format(time.RFC3339),
	}
}

// CSVHeader is the fixed 11-column header for listing exports.
func CSVHeader() []string {
	return []string{
		"Scraped_At", "Price", "Beds", "Baths", "Sqft", "Address",
		"Link", "Property_Type", "Year_Built", "Lot_Size", "HOA",
	}
}

// CSVRow serializes the listing in the fixed column order matching CSVHeader.
func (l Listing) CSVRow() []string {
	return []string{
		l.ScrapedAt, l.Price, l.Beds, l.Baths, l.SqFt, l.Address,
		l.Link, l.PropertyType, l.YearBuilt, l.LotSize, l.HOA,
	}
}
