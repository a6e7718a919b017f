package scheduler

import (
	"context"
	"time"

	"pricescout/logger"
	"pricescout/repository"
	"pricescout/scraper"

	"github.com/robfig/cron/v3"
)

// dealsPerRefresh bounds how many offers one refresh stores.
const dealsPerRefresh = 50

// DealsRefresher periodically re-scrapes the weekly offers page so the
// /deals endpoint can serve from the stored snapshot.
type DealsRefresher struct {
	cron     *cron.Cron
	scraper  *scraper.DealsScraper
	dealRepo *repository.DealRepository
	spec     string
}

// NewDealsRefresher creates a refresher with a cron spec (seconds field
// included, e.g. "0 0 6 * * *" for 6 AM daily).
func NewDealsRefresher(s *scraper.DealsScraper, dealRepo *repository.DealRepository, spec string) *DealsRefresher {
	return &DealsRefresher{
		cron:     cron.New(cron.WithSeconds()),
		scraper:  s,
		dealRepo: dealRepo,
		spec:     spec,
	}
}

// Start schedules the refresh job and runs one refresh immediately so a
// fresh deployment doesn't serve an empty snapshot until the first tick.
func (dr *DealsRefresher) Start() error {
	if _, err := dr.cron.AddFunc(dr.spec, dr.refresh); err != nil {
		return err
	}
	dr.cron.Start()
	go dr.refresh()

	logger.Log.Infof("Deals refresher started (spec %q)", dr.spec)
	return nil
}

// Stop halts the schedule.
func (dr *DealsRefresher) Stop() {
	if dr.cron != nil {
		dr.cron.Stop()
	}
}

func (dr *DealsRefresher) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	deals, err := dr.scraper.FetchDeals(ctx, dealsPerRefresh)
	if err != nil {
		logger.Log.Warnf("deals refresh: %v", err)
		return
	}
	if len(deals) == 0 {
		logger.Log.Warn("deals refresh: no offers parsed, keeping previous snapshot")
		return
	}

	if err := dr.dealRepo.ReplaceDeals("Kaufland", deals); err != nil {
		logger.Log.Errorf("deals refresh: %v", err)
		return
	}
	logger.Log.Infof("Deals refreshed: %d offers stored", len(deals))
}
