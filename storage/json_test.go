package storage

import (
	"encoding/json"
	"strings"
	"testing"

	"zillow_scraper/models"
)

func TestMarshalDetail(t *testing.T) {
	detail := models.NewPropertyDetail("https://www.zillow.com/homedetails/1_zpid/")
	price := 1500000
	detail.Price.ListPrice = &price

	data, err := MarshalDetail(detail)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	out := string(data)
	// Absent numerics render null, empty collections render [].
	if !strings.Contains(out, `"zestimate": null`) {
		t.Error("expected absent zestimate to render null")
	}
	if !strings.Contains(out, `"listPrice": 1500000`) {
		t.Error("expected list price in output")
	}
	if !strings.Contains(out, `"schools": []`) {
		t.Error("expected empty schools array, not null")
	}
	if !strings.Contains(out, `"street": "N/A"`) {
		t.Error("expected sentinel street in output")
	}
}
