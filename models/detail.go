package models

import "time"

// PropertyDetail is the comprehensive record built from a single property
// page. String fields default to the N/A sentinel; numeric fields are
// pointers so "not found" stays distinguishable from a real zero. Every
// sub-record is owned by value and is always structurally present, even
// when the page yielded nothing for it.
type PropertyDetail struct {
	URL       string `json:"url"`
	ScrapedAt string `json:"scraped_at"`

	Address      Address            `json:"address"`
	Price        PriceDetails       `json:"price_details"`
	Basics       PropertyBasics     `json:"property_basics"`
	Interior     InteriorFeatures   `json:"interior_features"`
	Community    CommunityAmenities `json:"community_amenities"`
	Scores       LocationScores     `json:"location_scores"`
	Schools      []SchoolInfo       `json:"schools"`
	ListingInfo  ListingInfo        `json:"listing_info"`
}

type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
}

type PriceDetails struct {
	ListPrice         *int `json:"listPrice"`
	PricePerSqft      *int `json:"pricePerSqft"`
	EstMonthlyPayment *int `json:"estMonthlyPayment"`
	Zestimate         *int `json:"zestimate"`
	TaxAssessedValue  *int `json:"taxAssessedValue"`
	AnnualTaxAmount   *int `json:"annualTaxAmount"`
}

type PropertyBasics struct {
	HomeType      string   `json:"homeType"`
	Bedrooms      *int     `json:"bedrooms"`
	Bathrooms     *float64 `json:"bathrooms"`
	FullBathrooms *int     `json:"fullBathrooms"`
	SquareFootage *int     `json:"squareFootage"`
	YearBuilt     *int     `json:"yearBuilt"`
	Stories       *int     `json:"stories"`
	Zoning        string   `json:"zoning"`
	ParcelNumber  string   `json:"parcelNumber"`
}

type ParkingInfo struct {
	TotalSpaces  *int     `json:"totalSpaces"`
	GarageSpaces *int     `json:"garageSpaces"`
	Features     []string `json:"features"`
}

type InteriorFeatures struct {
	Flooring         []string `json:"flooring"`
	Kitchen          []string `json:"kitchen"`
	BathroomFeatures []string `json:"bathroomFeatures"`
	AdditionalRooms  []string `json:"additionalRooms"`
	Highlights       []string `json:"highlights"`
	Laundry          string   `json:"laundry"`
	Cooling          string   `json:"cooling"`
	Heating          string   `json:"heating"`
}

type CommunityAmenities struct {
	HOAFeeMonthly *int        `json:"hoaFeeMonthly"`
	Parking       ParkingInfo `json:"parking"`
	Pool          string      `json:"pool"`
	Storage       string      `json:"storage"`
	Accessibility []string    `json:"accessibility"`
}

type LocationScores struct {
	WalkScore    *int `json:"walkScore"`
	TransitScore *int `json:"transitScore"`
	BikeScore    *int `json:"bikeScore"`
}

type SchoolInfo struct {
	Name   string `json:"name"`
	Rating string `json:"rating"`
	Grades string `json:"grades"`
}

type ListingInfo struct {
	Status       string `json:"status"`
	MLSNumber    string `json:"mlsNumber"`
	ListingAgent string `json:"listingAgent"`
	LastUpdated  string `json:"lastUpdated"`
	DaysOnZillow *int   `json:"daysOnZillow"`
}

// NewPropertyDetail returns a fully shaped record with sentinel defaults in
// every string field and the scrape timestamp set to now.
func NewPropertyDetail(url string) *PropertyDetail {
	return &PropertyDetail{
		URL:         url,
		ScrapedAt:   time.Now().Format(time.RFC3339),
		Address:     NewAddress(),
		Basics:      NewPropertyBasics(),
		Interior:    NewInteriorFeatures(),
		Community:   NewCommunityAmenities(),
		Schools:     []SchoolInfo{},
		ListingInfo: NewListingInfo(),
	}
}

func NewAddress() Address {
	return Address{Street: NotAvailable, City: NotAvailable, State: NotAvailable, ZipCode: NotAvailable}
}

func NewPropertyBasics() PropertyBasics {
	return PropertyBasics{HomeType: NotAvailable, Zoning: NotAvailable, ParcelNumber: NotAvailable}
}

func NewInteriorFeatures() InteriorFeatures {
	return InteriorFeatures{
		Flooring:         []string{},
		Kitchen:          []string{},
		BathroomFeatures: []string{},
		AdditionalRooms:  []string{},
		Highlights:       []string{},
		Laundry:          NotAvailable,
		Cooling:          NotAvailable,
		Heating:          NotAvailable,
	}
}

func NewCommunityAmenities() CommunityAmenities {
	return CommunityAmenities{
		Parking:       ParkingInfo{Features: []string{}},
		Pool:          NotAvailable,
		Storage:       NotAvailable,
		Accessibility: []string{},
	}
}

func NewListingInfo() ListingInfo {
	return ListingInfo{
		Status:       NotAvailable,
		MLSNumber:    NotAvailable,
		ListingAgent: NotAvailable,
		LastUpdated:  NotAvailable,
	}
}
