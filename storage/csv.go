package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"zillow_scraper/models"
)

// SaveListingsCSV writes listings to path with the fixed 11-column header,
// creating intermediate directories as needed.
func SaveListingsCSV(path string, listings []models.Listing) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("csv: create file %q: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(models.CSVHeader()); err != nil {
		return fmt.Errorf("csv: write header: %w", err)
	}
	for _, l := range listings {
		if err := w.Write(l.CSVRow()); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	w.Flush()
	return w.Error()
}
