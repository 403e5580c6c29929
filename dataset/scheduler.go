package dataset

import (
	"context"
	"fmt"
	"strings"

	"energy-insights/logger"

	"github.com/robfig/cron/v3"
)

// Reloader loads the dataset from Location and installs it in Store.
type Reloader struct {
	Location string
	Options  LoadOptions
	Store    *Store
	Log      *logger.Logger
}

// Reload performs one load. On failure the store keeps its current dataset,
// or stays unloaded if there is none.
func (r *Reloader) Reload(ctx context.Context) error {
	records, err := Load(ctx, r.Location, r.Options)
	if err != nil {
		return err
	}
	version := r.Store.Replace(records)
	if r.Log != nil {
		r.Log.Component("dataset").
			WithField("version", version).
			WithField("records", len(records)).
			Info("dataset installed")
	}
	return nil
}

// StartReloadScheduler reloads the dataset on a standard 5-field cron
// schedule (minute hour day-of-month month day-of-week), e.g. "0 3 * * *".
// An empty schedule disables reloading and returns a nil scheduler.
func StartReloadScheduler(ctx context.Context, schedule string, r *Reloader) (*cron.Cron, error) {
	schedule = strings.TrimSpace(schedule)
	log := r.Log
	if log == nil {
		log = r.Options.withDefaults().Log
	}
	log = log.Component("dataset.reload")
	if schedule == "" {
		log.Info("dataset reload disabled (reload_schedule not set)")
		return nil, nil
	}

	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		if err := r.Reload(ctx); err != nil {
			log.WithError(err).Warn("scheduled dataset reload failed")
		}
	})
	if err != nil {
		return nil, fmt.Errorf("invalid reload_schedule %q: %w", schedule, err)
	}
	c.Start()
	log.WithField("schedule", schedule).Info("dataset reload scheduled")

	go func() {
		<-ctx.Done()
		<-c.Stop().Done()
	}()
	return c, nil
}
