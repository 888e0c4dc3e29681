package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// Watcher re-runs a single scrape job on a cron schedule or a fixed
// interval. It repeats one target; it is not a crawl frontier.
type Watcher struct {
	cronSpec string
	interval time.Duration
	job      func(context.Context)

	cron   *cron.Cron
	ticker *time.Ticker
	stopCh chan struct{}
}

func New(cronSpec string, interval time.Duration, job func(context.Context)) *Watcher {
	return &Watcher{
		cronSpec: cronSpec,
		interval: interval,
		job:      job,
		cron:     cron.New(),
		stopCh:   make(chan struct{}),
	}
}

func (w *Watcher) Start(ctx context.Context) error {
	switch {
	case w.cronSpec != "":
		log.Printf("Starting watch with cron: %s", w.cronSpec)
		_, err := w.cron.AddFunc(w.cronSpec, func() { w.job(ctx) })
		if err != nil {
			return fmt.Errorf("invalid cron expression: %w", err)
		}
		w.cron.Start()
	case w.interval > 0:
		log.Printf("Starting watch with interval: %s", w.interval)
		w.ticker = time.NewTicker(w.interval)
		go func() {
			for {
				select {
				case <-w.ticker.C:
					w.job(ctx)
				case <-w.stopCh:
					return
				case <-ctx.Done():
					return
				}
			}
		}()
	default:
		return fmt.Errorf("no schedule configured")
	}

	return nil
}

func (w *Watcher) Stop() {
	if w.cron != nil {
		w.cron.Stop()
	}
	if w.ticker != nil {
		w.ticker.Stop()
	}
	close(w.stopCh)
}
