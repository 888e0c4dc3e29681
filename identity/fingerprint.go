package identity

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"

	"zillow_scraper/models"
)

var (
	streetReplacements = map[string]string{
		"street":    "st",
		"avenue":    "ave",
		"drive":     "dr",
		"road":      "rd",
		"boulevard": "blvd",
		"lane":      "ln",
		"court":     "ct",
		"place":     "pl",
		"circle":    "cir",
		"terrace":   "ter",
		"highway":   "hwy",
		"parkway":   "pkwy",
		"square":    "sq",
		"north":     "n",
		"south":     "s",
		"east":      "e",
		"west":      "w",
		"northeast": "ne",
		"northwest": "nw",
		"southeast": "se",
		"southwest": "sw",
		"apartment": "apt",
		"suite":     "ste",
		"floor":     "fl",
		"building":  "bldg",
	}
	multiSpaceRegex = regexp.MustCompile(`\s+`)
	nonAlnumRegex   = regexp.MustCompile(`[^a-z0-9\s]`)
)

// Fingerprint derives a stable identity for a listing from its normalized
// address and headline facts. The same property scraped twice, with the
// address formatted differently, fingerprints identically.
func Fingerprint(l models.Listing) string {
	input := fmt.Sprintf("%s|%s|%s|%s|%s",
		NormalizeAddress(l.Address),
		strings.TrimSpace(l.Beds),
		strings.TrimSpace(l.Baths),
		strings.ReplaceAll(strings.TrimSpace(l.SqFt), ",", ""),
		strings.ToLower(strings.TrimSpace(l.PropertyType)),
	)
	hash := sha256.Sum256([]byte(input))
	return hex.EncodeToString(hash[:16])
}

// NormalizeAddress lower-cases, strips punctuation, and collapses common
// street-suffix and direction words to their USPS abbreviations.
func NormalizeAddress(addr string) string {
	addr = strings.ToLower(strings.TrimSpace(addr))
	addr = nonAlnumRegex.ReplaceAllString(addr, " ")
	for full, abbrev := range streetReplacements {
		addr = strings.ReplaceAll(addr, full, abbrev)
	}
	addr = multiSpaceRegex.ReplaceAllString(addr, " ")
	return strings.TrimSpace(addr)
}

// Dedupe drops listings whose fingerprint was already seen, keeping first
// occurrences in order.
func Dedupe(listings []models.Listing) []models.Listing {
	seen := make(map[string]struct{}, len(listings))
	out := make([]models.Listing, 0, len(listings))
	for _, l := range listings {
		fp := Fingerprint(l)
		if _, dup := seen[fp]; dup {
			continue
		}
		seen[fp] = struct{}{}
		out = append(out, l)
	}
	return out
}
