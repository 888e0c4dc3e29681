package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"zillow_scraper/models"
)

// MarshalDetail renders the full nested record as indented JSON.
func MarshalDetail(detail *models.PropertyDetail) ([]byte, error) {
	data, err := json.MarshalIndent(detail, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("json: marshal detail: %w", err)
	}
	return data, nil
}

// SaveDetailJSON writes the full nested record to path, creating
// intermediate directories as needed.
func SaveDetailJSON(path string, detail *models.PropertyDetail) error {
	data, err := MarshalDetail(detail)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("json: create output dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("json: write %q: %w", path, err)
	}
	return nil
}
