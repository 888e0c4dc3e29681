package identity

import (
	"testing"

	"zillow_scraper/models"
)

func TestNormalizeAddress(t *testing.T) {
	cases := map[string]string{
		"748 Cottage Court, Mountain View, CA 94043": "748 cottage ct mountain view ca 94043",
		"748 Cottage Ct, Mountain View, CA 94043":    "748 cottage ct mountain view ca 94043",
		"  12 North   Oak Avenue ":                   "12 n oak ave",
	}
	for in, want := range cases {
		if got := NormalizeAddress(in); got != want {
			t.Errorf("NormalizeAddress(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFingerprint_StableAcrossFormatting(t *testing.T) {
	a := models.NewListing()
	a.Address = "748 Cottage Court, Mountain View, CA 94043"
	a.Beds = "2"
	a.Baths = "2"
	a.SqFt = "1,150"

	b := models.NewListing()
	b.Address = "748 Cottage Ct, Mountain View, CA 94043"
	b.Beds = "2"
	b.Baths = "2"
	b.SqFt = "1150"

	if Fingerprint(a) != Fingerprint(b) {
		t.Error("expected identical fingerprints for reformatted address and sqft")
	}

	c := b
	c.Beds = "3"
	if Fingerprint(b) == Fingerprint(c) {
		t.Error("expected different fingerprints for different bed counts")
	}
}

func TestDedupe(t *testing.T) {
	a := models.NewListing()
	a.Address = "748 Cottage Court, Mountain View, CA 94043"
	dup := a
	dup.Address = "748 Cottage Ct, Mountain View, CA 94043"
	other := models.NewListing()
	other.Address = "1510 Oak Ave, Palo Alto, CA 94306"

	out := Dedupe([]models.Listing{a, dup, other})
	if len(out) != 2 {
		t.Fatalf("expected 2 listings after dedupe, got %d", len(out))
	}
	if out[0].Address != a.Address {
		t.Errorf("expected first occurrence kept, got %q", out[0].Address)
	}
}
