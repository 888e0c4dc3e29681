package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"zillow_scraper/config"
	"zillow_scraper/identity"
	"zillow_scraper/logging"
	"zillow_scraper/models"
	"zillow_scraper/scheduler"
	"zillow_scraper/scraper"
	"zillow_scraper/storage"
)

var (
	headless  = flag.Bool("headless", true, "Run the browser headless")
	csvOut    = flag.String("csv", "", "Write results to this CSV path (empty = auto path under output dir)")
	jsonOut   = flag.String("json", "", "Write the property record to this JSON path (empty = stdout)")
	summary   = flag.Bool("summary", false, "Extract the flat summary row instead of the full record")
	watchCron = flag.String("watch", "", "Re-run the target on this cron expression")
	watchInt  = flag.Duration("every", 0, "Re-run the target at this interval")
)

func main() {
	flag.Parse()
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	if flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: zillow_scraper [flags] <address | search URL | property URL>")
		flag.PrintDefaults()
		os.Exit(1)
	}
	target := flag.Arg(0)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logFile, err := logging.Setup(cfg.LogPath)
	if err != nil {
		log.Printf("Warning: could not set up file logging: %v", err)
	} else {
		defer logFile.Close()
	}

	log.Println("Starting zillow_scraper...")

	ctx := context.Background()

	sqliteStore, err := storage.NewSQLiteStore(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open SQLite: %v", err)
	}
	defer sqliteStore.Close()
	log.Printf("SQLite database: %s", cfg.DBPath)

	var pgStore *storage.PostgresStore
	if cfg.PostgresURL != "" {
		pgStore, err = storage.NewPostgresStore(ctx, cfg.PostgresURL)
		if err != nil {
			log.Fatalf("Failed to connect to Postgres: %v", err)
		}
		defer pgStore.Close()
		log.Println("Connected to Postgres")
	}

	a := &app{
		cfg:    cfg,
		sqlite: sqliteStore,
		pg:     pgStore,
	}

	factory := func() (scraper.PageSourceProvider, error) {
		return scraper.NewPlaywrightBrowser(cfg.Scroll, cfg.Site, *headless), nil
	}
	a.resolver = scraper.NewResolver(cfg.Site, factory)

	if cfg.Snapshot.Enabled() {
		archiver, err := storage.NewSnapshotArchiver(ctx, cfg.Snapshot)
		if err != nil {
			log.Printf("Warning: snapshot archiving disabled: %v", err)
		} else {
			a.resolver.SetArchiver(archiver)
			log.Printf("Snapshot archiving to bucket %s", cfg.Snapshot.Bucket)
		}
	}

	if *watchCron == "" && *watchInt == 0 {
		if err := a.runOnce(ctx, target); err != nil {
			log.Fatalf("Scrape failed: %v", err)
		}
		return
	}

	// Watch mode
	watcher := scheduler.New(*watchCron, *watchInt, func(ctx context.Context) {
		if err := a.runOnce(ctx, target); err != nil {
			log.Printf("Scheduled scrape failed: %v", err)
		}
	})

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := watcher.Start(ctx); err != nil {
		log.Fatalf("Failed to start watcher: %v", err)
	}
	log.Println("Watching. Press Ctrl+C to stop.")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("Shutting down...")
	watcher.Stop()
}

type app struct {
	cfg      *config.Config
	sqlite   *storage.SQLiteStore
	pg       *storage.PostgresStore
	resolver *scraper.Resolver
}

// runOnce executes one full pipeline pass for the target: a search URL
// produces the whole result set, anything else resolves to one property.
func (a *app) runOnce(ctx context.Context, target string) error {
	if last, err := a.sqlite.GetLastRunTime(target); err == nil && !last.IsZero() {
		log.Printf("Last run for this target: %s", last.Format(time.RFC3339))
	}

	if a.resolver.IsSearchTarget(target) {
		return a.runSearch(ctx, target)
	}
	if *summary {
		return a.runSummary(ctx, target)
	}
	return a.runDetail(ctx, target)
}

func (a *app) runSearch(ctx context.Context, searchURL string) error {
	run := &models.ScrapeRun{
		Target:    searchURL,
		Kind:      "search",
		StartedAt: time.Now(),
		Status:    models.RunStatusRunning,
	}
	runID, err := a.sqlite.CreateRun(run)
	if err != nil {
		log.Printf("Could not record run: %v", err)
	}
	run.ID = runID

	listings, err := a.resolver.FetchListings(ctx, searchURL)
	if err != nil {
		a.finishRun(run, 0, err)
		return err
	}

	if deduped := identity.Dedupe(listings); len(deduped) < len(listings) {
		log.Printf("Dropped %d duplicate cards", len(listings)-len(deduped))
		listings = deduped
	}

	fmt.Printf("\nSCRAPE COMPLETE: Found %d Listings\n", len(listings))
	fmt.Println("----------------------------------------")
	for _, l := range listings {
		fmt.Printf("%-12s | %2s bd | %2s ba | %6s sqft | %s\n",
			l.Price, l.Beds, l.Baths, l.SqFt, l.Address)
	}

	csvPath := *csvOut
	if csvPath == "" {
		csvPath = filepath.Join(a.cfg.OutputDir,
			fmt.Sprintf("results_%s.csv", time.Now().Format("20060102_150405")))
	}
	if err := storage.SaveListingsCSV(csvPath, listings); err != nil {
		log.Printf("Could not write CSV: %v", err)
	} else {
		log.Printf("Saved %d listings to %s", len(listings), csvPath)
	}

	if run.ID != 0 {
		if err := a.sqlite.SaveListings(run.ID, listings); err != nil {
			log.Printf("Could not save listings: %v", err)
		}
	}
	a.finishRun(run, len(listings), nil)
	return nil
}

func (a *app) runDetail(ctx context.Context, target string) error {
	run := &models.ScrapeRun{
		Target:    target,
		Kind:      "detail",
		StartedAt: time.Now(),
		Status:    models.RunStatusRunning,
	}
	runID, err := a.sqlite.CreateRun(run)
	if err != nil {
		log.Printf("Could not record run: %v", err)
	}
	run.ID = runID

	detail, err := a.resolver.Resolve(ctx, target)
	if err != nil {
		a.finishRun(run, 0, err)
		if isNotFound(err) {
			fmt.Println("No property found.")
			return nil
		}
		return err
	}

	if *jsonOut != "" {
		if err := storage.SaveDetailJSON(*jsonOut, detail); err != nil {
			return err
		}
		log.Printf("Saved property record to %s", *jsonOut)
	} else {
		data, err := storage.MarshalDetail(detail)
		if err != nil {
			return err
		}
		fmt.Println(string(data))
	}

	if a.pg != nil {
		if err := a.pg.UpsertDetail(ctx, detail); err != nil {
			log.Printf("Could not upsert property record: %v", err)
		} else {
			log.Printf("Upserted property record for %s", detail.URL)
		}
	}

	a.finishRun(run, 1, nil)
	return nil
}

func (a *app) runSummary(ctx context.Context, target string) error {
	listing, err := a.resolver.ResolveSummary(ctx, target)
	if err != nil {
		if isNotFound(err) {
			fmt.Println("No property found.")
			return nil
		}
		return err
	}

	fmt.Printf("%-12s | %2s bd | %2s ba | %6s sqft | %s\n",
		listing.Price, listing.Beds, listing.Baths, listing.SqFt, listing.Address)

	csvPath := *csvOut
	if csvPath == "" {
		csvPath = filepath.Join(a.cfg.OutputDir,
			fmt.Sprintf("property_%s.csv", time.Now().Format("20060102_150405")))
	}
	if err := storage.SaveListingsCSV(csvPath, []models.Listing{*listing}); err != nil {
		return err
	}
	log.Printf("Saved property summary to %s", csvPath)
	return nil
}

func (a *app) finishRun(run *models.ScrapeRun, found int, runErr error) {
	if run.ID == 0 {
		return
	}
	now := time.Now()
	run.FinishedAt = &now
	run.ListingsFound = found
	if runErr != nil {
		run.Status = models.RunStatusFailed
		run.ErrorsCount = 1
		a.sqlite.Log(&run.ID, models.LogLevelError, runErr.Error())
	} else {
		run.Status = models.RunStatusCompleted
	}
	if err := a.sqlite.UpdateRun(run); err != nil {
		log.Printf("Could not finish run record: %v", err)
	}
}

// isNotFound distinguishes "the site had nothing for this target" from an
// operational failure.
func isNotFound(err error) bool {
	return errors.Is(err, scraper.ErrNoSearchResults) ||
		errors.Is(err, scraper.ErrNoResultLink) ||
		errors.Is(err, scraper.ErrEmptyPage) ||
		errors.Is(err, scraper.ErrExtractionFailed)
}
