// Package scheduler runs the background price jobs: a nightly refresh and a
// weekly backfill, on cron expressions from configuration.
package scheduler

import (
	"context"
	"log"

	"github.com/robfig/cron/v3"

	"github.com/tallyhq/networth-backend/internal/config"
	"github.com/tallyhq/networth-backend/internal/service"
)

// Scheduler owns the cron runner for the background price jobs.
type Scheduler struct {
	cron            *cron.Cron
	refreshService  *service.RefreshService
	backfillService *service.BackfillService
}

// New creates a Scheduler and registers the jobs whose cron expressions are
// non-empty. An invalid expression is an error; an empty one disables the
// job.
func New(cfg config.SchedulerConfig, refreshService *service.RefreshService, backfillService *service.BackfillService) (*Scheduler, error) {
	s := &Scheduler{
		cron:            cron.New(),
		refreshService:  refreshService,
		backfillService: backfillService,
	}

	if cfg.RefreshCron != "" {
		if _, err := s.cron.AddFunc(cfg.RefreshCron, s.runRefresh); err != nil {
			return nil, err
		}
	}
	if cfg.BackfillCron != "" {
		if _, err := s.cron.AddFunc(cfg.BackfillCron, s.runBackfill); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Start begins running the registered jobs in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts scheduling and waits for any running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Scheduler) runRefresh() {
	log.Println("scheduled refresh starting")
	result, err := s.refreshService.RefreshAll(context.Background(), nil)
	if err != nil {
		log.Printf("scheduled refresh failed: %v", err)
		return
	}
	log.Printf("scheduled refresh done: %d holdings updated, %d errors",
		len(result.UpdatedItems), len(result.Errors))
	for _, tickerErr := range result.Errors {
		log.Printf("scheduled refresh: %v", tickerErr)
	}
}

func (s *Scheduler) runBackfill() {
	log.Println("scheduled backfill starting")
	result, err := s.backfillService.BackfillAll(context.Background(), nil)
	if err != nil {
		log.Printf("scheduled backfill failed: %v", err)
		return
	}
	log.Printf("scheduled backfill done: %d tickers, %d errors",
		len(result.BackfilledTickers), len(result.Errors))
	for _, tickerErr := range result.Errors {
		log.Printf("scheduled backfill: %v", tickerErr)
	}
}
