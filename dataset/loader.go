// Package dataset loads the insight records and keeps the current snapshot in
// memory for the dashboard.
package dataset

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"energy-insights/database"
	"energy-insights/logger"
	"energy-insights/models"

	"github.com/cenkalti/backoff/v4"
)

const sqlitePrefix = "sqlite:"

type LoadOptions struct {
	// HTTPClient defaults to a client with Timeout.
	HTTPClient *http.Client
	Timeout    time.Duration
	// MaxElapsed bounds the retries of a remote fetch.
	MaxElapsed time.Duration
	Log        *logger.Logger
}

func (o LoadOptions) withDefaults() LoadOptions {
	if o.Timeout <= 0 {
		o.Timeout = 30 * time.Second
	}
	if o.MaxElapsed <= 0 {
		o.MaxElapsed = time.Minute
	}
	if o.HTTPClient == nil {
		o.HTTPClient = &http.Client{Timeout: o.Timeout}
	}
	if o.Log == nil {
		o.Log = logger.New(logger.Options{Output: io.Discard})
	}
	return o
}

// Load reads the dataset from location. URLs are fetched over HTTP, .xlsx
// files are read as spreadsheets, SQLite files through the database package
// and anything else is parsed as a JSON array.
func Load(ctx context.Context, location string, opts LoadOptions) ([]models.InsightRecord, error) {
	opts = opts.withDefaults()
	log := opts.Log.Component("dataset").WithField("location", location)
	start := time.Now()

	records, err := load(ctx, location, opts)
	if err != nil {
		log.WithField("error", err.Error()).Error("dataset load failed")
		return nil, err
	}
	log.WithField("records", len(records)).
		WithField("duration_ms", time.Since(start).Milliseconds()).
		Info("dataset loaded")
	return records, nil
}

func load(ctx context.Context, location string, opts LoadOptions) ([]models.InsightRecord, error) {
	lower := strings.ToLower(location)
	switch {
	case strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://"):
		body, err := fetch(ctx, location, opts)
		if err != nil {
			return nil, err
		}
		return DecodeJSON(body, opts.Log)
	case strings.HasPrefix(lower, sqlitePrefix):
		return loadSQLite(location[len(sqlitePrefix):])
	}

	switch filepath.Ext(lower) {
	case ".xlsx":
		return LoadXLSX(location)
	case ".db", ".sqlite", ".sqlite3":
		return loadSQLite(location)
	}
	b, err := os.ReadFile(location)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}
	return DecodeJSON(b, opts.Log)
}

func loadSQLite(path string) ([]models.InsightRecord, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("open sqlite dataset: %w", err)
	}
	db, err := database.OpenReadOnly(path)
	if err != nil {
		return nil, err
	}
	defer database.Close(db)
	return database.LoadInsights(db)
}

type statusError struct {
	status int
	body   string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("fetch dataset: unexpected status %d: %s", e.status, e.body)
}

// fetch GETs url, retrying transport errors and 5xx responses with
// exponential backoff. 4xx responses are not retried.
func fetch(ctx context.Context, url string, opts LoadOptions) ([]byte, error) {
	log := opts.Log.Component("dataset.fetch").WithField("url", url)
	var body []byte

	op := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("build request: %w", err))
		}
		req.Header.Set("Accept", "application/json")

		resp, err := opts.HTTPClient.Do(req)
		if err != nil {
			log.WithField("error", err.Error()).Warn("dataset request failed")
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
			serr := &statusError{status: resp.StatusCode, body: strings.TrimSpace(string(b))}
			if resp.StatusCode >= 400 && resp.StatusCode < 500 {
				return backoff.Permanent(serr)
			}
			log.WithField("http_status", resp.StatusCode).Warn("dataset request returned server error")
			return serr
		}
		b, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("read body: %w", err)
		}
		body = b
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = opts.MaxElapsed
	if err := backoff.Retry(op, backoff.WithContext(b, ctx)); err != nil {
		var serr *statusError
		if errors.As(err, &serr) {
			return nil, serr
		}
		return nil, fmt.Errorf("fetch dataset: %w", err)
	}
	return body, nil
}

// DecodeJSON parses a JSON array of records. Elements that are not objects
// are skipped; no other validation is applied.
func DecodeJSON(b []byte, log *logger.Logger) ([]models.InsightRecord, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("decode dataset: %w", err)
	}
	records := make([]models.InsightRecord, 0, len(raw))
	skipped := 0
	for _, item := range raw {
		item = bytes.TrimSpace(item)
		if len(item) == 0 || item[0] != '{' {
			skipped++
			continue
		}
		var r models.InsightRecord
		if err := json.Unmarshal(item, &r); err != nil {
			skipped++
			continue
		}
		records = append(records, r)
	}
	if skipped > 0 && log != nil {
		log.Component("dataset").WithField("skipped", skipped).Warn("skipped malformed dataset entries")
	}
	return records, nil
}
