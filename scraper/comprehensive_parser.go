package scraper

import (
	"log"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"zillow_scraper/models"
)

// ComprehensiveParser maps a property page onto the full nested detail
// record. Each sub-record is built by its own isolated branch: a branch that
// blows up degrades to its zero-value shape and is logged, never aborting
// the record. Only a failure to build the parse tree itself (or a panic
// escaping every branch guard) fails the whole pass.
type ComprehensiveParser struct{}

func NewComprehensiveParser() *ComprehensiveParser {
	return &ComprehensiveParser{}
}

func (p *ComprehensiveParser) Parse(html, sourceURL string) (detail *models.PropertyDetail) {
	if strings.TrimSpace(html) == "" {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Comprehensive parse failed: %v", r)
			detail = nil
		}
	}()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		log.Printf("Comprehensive parse error: %v", err)
		return nil
	}

	d := models.NewPropertyDetail(sourceURL)
	branch("address", func() { d.Address = parseAddress(doc) })
	branch("price_details", func() { d.Price = parsePriceDetails(doc) })
	branch("property_basics", func() { d.Basics = parseBasics(doc) })
	branch("interior_features", func() { d.Interior = parseInterior(doc) })
	branch("community_amenities", func() { d.Community = parseCommunity(doc) })
	branch("location_scores", func() { d.Scores = parseScores(doc) })
	branch("schools", func() { d.Schools = parseSchools(doc) })
	branch("listing_info", func() { d.ListingInfo = parseListingInfo(doc) })
	return d
}

// branch runs one sub-extraction with its own guard so a malformed section
// only loses that section.
func branch(name string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Section %s failed, keeping defaults: %v", name, r)
		}
	}()
	fn()
}

// parseAddress splits the page heading on commas into street / city /
// "state zip", then splits the third segment on whitespace.
func parseAddress(doc *goquery.Document) models.Address {
	addr := models.NewAddress()

	heading := firstMatch(doc, detailAddressChain, "")
	if heading == "" {
		return addr
	}

	parts := strings.Split(heading, ",")
	if v := strings.TrimSpace(parts[0]); v != "" {
		addr.Street = v
	}
	if len(parts) > 1 {
		if v := strings.TrimSpace(parts[1]); v != "" {
			addr.City = v
		}
	}
	if len(parts) > 2 {
		fields := strings.Fields(parts[2])
		if len(fields) > 0 {
			addr.State = fields[0]
		}
		if len(fields) > 1 {
			addr.ZipCode = fields[1]
		}
	}
	return addr
}

func parsePriceDetails(doc *goquery.Document) models.PriceDetails {
	pd := models.PriceDetails{}
	pd.ListPrice = parseDollar(firstMatch(doc, detailPriceChain, ""))
	pd.PricePerSqft = dollarNear(doc, "/sqft")
	pd.EstMonthlyPayment = dollarNear(doc, "est.", "/mo")
	pd.Zestimate = dollarNear(doc, "zestimate")
	pd.TaxAssessedValue = dollarNear(doc, "tax assessed")
	pd.AnnualTaxAmount = dollarNear(doc, "annual tax")
	return pd
}

// dollarNear anchors extraction on the first element whose text carries all
// keywords, then takes the nearest dollar figure: the element's own text
// first, its parent's text second.
func dollarNear(doc *goquery.Document, keywords ...string) *int {
	var result *int
	doc.Find("span, dt, dd, li").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		text := strings.ToLower(sel.Text())
		for _, kw := range keywords {
			if !strings.Contains(text, kw) {
				return true
			}
		}
		if v := parseDollar(sel.Text()); v != nil {
			result = v
			return false
		}
		if v := parseDollar(sel.Parent().Text()); v != nil {
			result = v
			return false
		}
		return true
	})
	return result
}

func parseBasics(doc *goquery.Document) models.PropertyBasics {
	b := models.NewPropertyBasics()

	doc.Find("span[data-testid='bed-bath-item']").Each(func(_ int, span *goquery.Selection) {
		text := strings.ToLower(strings.TrimSpace(span.Text()))
		switch {
		case strings.Contains(text, "bd") || strings.Contains(text, "bed"):
			if b.Bedrooms == nil {
				b.Bedrooms = intFrom(text)
			}
		case strings.Contains(text, "sqft") || strings.Contains(text, "sq. ft."):
			if b.SquareFootage == nil {
				b.SquareFootage = intFrom(cleanSquareFootage(text))
			}
		case strings.Contains(text, "ba"):
			if b.Bathrooms == nil {
				b.Bathrooms = floatFrom(text)
			}
		}
	})

	eachFactPair(doc, func(label, value string) {
		switch {
		case strings.Contains(label, "full bath"):
			b.FullBathrooms = intFrom(value)
		case strings.Contains(label, "bathroom features"):
			// interior section, not a basic
		case strings.Contains(label, "bedrooms"):
			if b.Bedrooms == nil {
				b.Bedrooms = intFrom(value)
			}
		case strings.Contains(label, "bathrooms"):
			if b.Bathrooms == nil {
				b.Bathrooms = floatFrom(value)
			}
		case strings.Contains(label, "type"):
			b.HomeType = value
		case strings.Contains(label, "year built"):
			b.YearBuilt = intFrom(value)
		case strings.Contains(label, "stories"):
			b.Stories = intFrom(value)
		case strings.Contains(label, "zoning"):
			b.Zoning = value
		case strings.Contains(label, "parcel"):
			b.ParcelNumber = value
		case strings.Contains(label, "square footage") || label == "sqft":
			if b.SquareFootage == nil {
				b.SquareFootage = intFrom(cleanSquareFootage(value))
			}
		}
	})

	return b
}

func parseParking(doc *goquery.Document) models.ParkingInfo {
	parking := models.ParkingInfo{Features: []string{}}
	eachFactPair(doc, func(label, value string) {
		switch {
		case strings.Contains(label, "total spaces"):
			parking.TotalSpaces = intFrom(value)
		case strings.Contains(label, "garage spaces"):
			parking.GarageSpaces = intFrom(value)
		case strings.Contains(label, "parking features"):
			parking.Features = splitList(value)
		}
	})
	return parking
}

func parseInterior(doc *goquery.Document) models.InteriorFeatures {
	interior := models.NewInteriorFeatures()
	eachFactPair(doc, func(label, value string) {
		switch {
		case strings.Contains(label, "flooring"):
			interior.Flooring = splitList(value)
		case strings.Contains(label, "kitchen"):
			interior.Kitchen = splitList(value)
		case strings.Contains(label, "bathroom features"):
			interior.BathroomFeatures = splitList(value)
		case strings.Contains(label, "additional rooms"):
			interior.AdditionalRooms = splitList(value)
		case strings.Contains(label, "highlights") || strings.Contains(label, "interior features"):
			interior.Highlights = splitList(value)
		case strings.Contains(label, "laundry"):
			interior.Laundry = value
		case strings.Contains(label, "cooling"):
			interior.Cooling = value
		case strings.Contains(label, "heating"):
			interior.Heating = value
		}
	})
	return interior
}

func parseCommunity(doc *goquery.Document) models.CommunityAmenities {
	community := models.NewCommunityAmenities()
	community.Parking = parseParking(doc)
	eachFactPair(doc, func(label, value string) {
		switch {
		case strings.Contains(label, "hoa"):
			community.HOAFeeMonthly = parseDollar(value)
		case strings.Contains(label, "pool"):
			community.Pool = value
		case strings.Contains(label, "storage"):
			community.Storage = value
		case strings.Contains(label, "accessibility"):
			community.Accessibility = splitList(value)
		}
	})
	return community
}

func parseScores(doc *goquery.Document) models.LocationScores {
	return models.LocationScores{
		WalkScore:    scoreValue(doc, "walk score"),
		TransitScore: scoreValue(doc, "transit score"),
		BikeScore:    scoreValue(doc, "bike score"),
	}
}

// scoreValue finds the element naming the score and pulls the nearest
// 0-100 figure from it or its parent.
func scoreValue(doc *goquery.Document, keyword string) *int {
	var result *int
	doc.Find("span, a").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if !strings.Contains(strings.ToLower(sel.Text()), keyword) {
			return true
		}
		if v := intFrom(sel.Text()); inScoreRange(v) {
			result = v
			return false
		}
		if v := intFrom(sel.Parent().Text()); inScoreRange(v) {
			result = v
			return false
		}
		return true
	})
	return result
}

func inScoreRange(v *int) bool {
	return v != nil && *v >= 0 && *v <= 100
}

func parseSchools(doc *goquery.Document) []models.SchoolInfo {
	schools := []models.SchoolInfo{}
	doc.Find("[class*='school-listing'], li[class*='school-item']").Each(func(_ int, sel *goquery.Selection) {
		school := models.SchoolInfo{
			Name:   models.NotAvailable,
			Rating: models.NotAvailable,
			Grades: models.NotAvailable,
		}
		if name := strings.TrimSpace(sel.Find("a, h4, h5").First().Text()); name != "" {
			school.Name = name
		}
		if rating := strings.TrimSpace(sel.Find("[class*='rating']").First().Text()); rating != "" {
			school.Rating = rating
		}
		if grades := strings.TrimSpace(sel.Find("[class*='grades']").First().Text()); grades != "" {
			school.Grades = grades
		}
		schools = append(schools, school)
	})
	return schools
}

func parseListingInfo(doc *goquery.Document) models.ListingInfo {
	info := models.NewListingInfo()

	info.Status = firstMatch(doc, []fieldStrategy{
		{"span[data-testid='home-status']", nodeText},
		{"[class*='listing-status']", nodeText},
	}, models.NotAvailable)

	if v := keywordRemainder(doc, "mls"); v != "" {
		info.MLSNumber = v
	}
	if v := keywordRemainder(doc, "listed by"); v != "" {
		info.ListingAgent = v
	}
	if v := keywordRemainder(doc, "last updated"); v != "" {
		info.LastUpdated = v
	}

	doc.Find("span, dt, dd, li").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		text := strings.ToLower(sel.Text())
		if strings.Contains(text, "days on zillow") {
			if v := intFrom(text); v != nil {
				info.DaysOnZillow = v
				return false
			}
		}
		return true
	})

	return info
}

// keywordRemainder finds the first element whose text carries the keyword
// and returns the text after its first colon, e.g. "MLS #: ML81234567".
func keywordRemainder(doc *goquery.Document, keyword string) string {
	var result string
	doc.Find("span, p, dd, li").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		text := strings.TrimSpace(sel.Text())
		if !strings.Contains(strings.ToLower(text), keyword) {
			return true
		}
		if idx := strings.Index(text, ":"); idx >= 0 && idx < len(text)-1 {
			result = strings.TrimSpace(text[idx+1:])
			return false
		}
		return true
	})
	return result
}
