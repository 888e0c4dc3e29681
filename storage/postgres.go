package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"zillow_scraper/models"
)

// PostgresStore is the optional durable sink for comprehensive property
// records, keyed by canonical URL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, connString string) (*PostgresStore, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = 30 * time.Minute
	config.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	store := &PostgresStore{pool: pool}
	if err := store.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return store, nil
}

func (s *PostgresStore) Close() {
	s.pool.Close()
}

func (s *PostgresStore) migrate(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS property_details (
		id UUID PRIMARY KEY,
		url TEXT UNIQUE NOT NULL,
		street TEXT,
		city TEXT,
		state TEXT,
		zip_code TEXT,
		list_price BIGINT,
		zestimate BIGINT,
		beds INTEGER,
		baths DOUBLE PRECISION,
		sqft INTEGER,
		year_built INTEGER,
		record JSONB NOT NULL,
		scraped_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	CREATE INDEX IF NOT EXISTS idx_details_city ON property_details(city, state);
	`
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// UpsertDetail stores one comprehensive record, replacing any previous scrape
// of the same canonical URL. Promoted columns carry the common query fields;
// the record column keeps the full nested shape.
func (s *PostgresStore) UpsertDetail(ctx context.Context, d *models.PropertyDetail) error {
	record, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}

	scrapedAt, err := time.Parse(time.RFC3339, d.ScrapedAt)
	if err != nil {
		scrapedAt = time.Now()
	}

	query := `
		INSERT INTO property_details (
			id, url, street, city, state, zip_code,
			list_price, zestimate, beds, baths, sqft, year_built,
			record, scraped_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, NOW())
		ON CONFLICT (url) DO UPDATE SET
			street = EXCLUDED.street,
			city = EXCLUDED.city,
			state = EXCLUDED.state,
			zip_code = EXCLUDED.zip_code,
			list_price = COALESCE(EXCLUDED.list_price, property_details.list_price),
			zestimate = COALESCE(EXCLUDED.zestimate, property_details.zestimate),
			beds = COALESCE(EXCLUDED.beds, property_details.beds),
			baths = COALESCE(EXCLUDED.baths, property_details.baths),
			sqft = COALESCE(EXCLUDED.sqft, property_details.sqft),
			year_built = COALESCE(EXCLUDED.year_built, property_details.year_built),
			record = EXCLUDED.record,
			scraped_at = EXCLUDED.scraped_at,
			updated_at = NOW()`

	_, err = s.pool.Exec(ctx, query,
		uuid.New(), d.URL, d.Address.Street, d.Address.City, d.Address.State, d.Address.ZipCode,
		d.Price.ListPrice, d.Price.Zestimate, d.Basics.Bedrooms, d.Basics.Bathrooms,
		d.Basics.SquareFootage, d.Basics.YearBuilt,
		record, scrapedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert detail: %w", err)
	}
	return nil
}
