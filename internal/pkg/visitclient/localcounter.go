// Package visitclient is the browser side of visit counting, rendered
// as a Go client: it calls the daily-visit endpoint once and, when the
// server or its store is unreachable, replays the same dedup semantics
// against a JSON file with a device fingerprint as identity. The local
// data is a degraded substitute, never reconciled with server counts.
package visitclient

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nlzhang/homepage/internal/pkg/visit"
)

const localFileName = "daily-visit.json"

// localData mirrors the browser's persisted structure: every
// fingerprint ever seen per date, plus the unique-visitor total.
type localData struct {
	DailyVisits         map[string][]string `json:"dailyVisits"`
	TotalUniqueVisitors int                 `json:"totalUniqueVisitors"`
}

// LocalCounter counts visits in a local JSON file when the server path
// is unavailable. Dates are never pruned: the global total is the union
// of fingerprints across all recorded dates.
type LocalCounter struct {
	path        string
	fingerprint string
}

// NewLocalCounter stores its data under the user config directory.
func NewLocalCounter() (*LocalCounter, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("visitclient: no user config dir: %w", err)
	}
	return NewLocalCounterAt(filepath.Join(configDir, "homepage", localFileName), Fingerprint()), nil
}

// NewLocalCounterAt uses an explicit file path and fingerprint.
func NewLocalCounterAt(path, fingerprint string) *LocalCounter {
	return &LocalCounter{path: path, fingerprint: fingerprint}
}

// RecordVisitLocal counts one visit for this device on the given date.
// The first call per (date, fingerprint) extends the day's set and
// recomputes the unique-visitor total; later calls only read.
func (c *LocalCounter) RecordVisitLocal(date string) (visit.Result, error) {
	if !visit.ValidDate(date) {
		return visit.Result{}, visit.ErrInvalidDate
	}

	data := c.load()
	day := data.DailyVisits[date]

	for _, fp := range day {
		if fp == c.fingerprint {
			return visit.Result{
				TodayCount: len(day),
				TotalCount: data.TotalUniqueVisitors,
				IsNewVisit: false,
			}, nil
		}
	}

	data.DailyVisits[date] = append(day, c.fingerprint)
	// Full re-scan instead of an incremental bump so the total stays
	// right even when the file was hand-edited or partially corrupted.
	data.TotalUniqueVisitors = countUniqueFingerprints(data.DailyVisits)

	if err := c.save(data); err != nil {
		return visit.Result{}, err
	}

	return visit.Result{
		TodayCount: len(data.DailyVisits[date]),
		TotalCount: data.TotalUniqueVisitors,
		IsNewVisit: true,
	}, nil
}

func countUniqueFingerprints(dailyVisits map[string][]string) int {
	seen := make(map[string]struct{})
	for _, fingerprints := range dailyVisits {
		for _, fp := range fingerprints {
			seen[fp] = struct{}{}
		}
	}
	return len(seen)
}

// load returns the persisted data, falling back to an empty structure
// when the file is missing or unreadable.
func (c *LocalCounter) load() localData {
	data := localData{DailyVisits: map[string][]string{}}

	raw, err := os.ReadFile(c.path)
	if err != nil {
		return data
	}
	if err := json.Unmarshal(raw, &data); err != nil || data.DailyVisits == nil {
		return localData{DailyVisits: map[string][]string{}}
	}
	return data
}

func (c *LocalCounter) save(data localData) error {
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("visitclient: create data dir: %w", err)
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("visitclient: marshal visit data: %w", err)
	}
	if err := os.WriteFile(c.path, raw, 0o644); err != nil {
		return fmt.Errorf("visitclient: write visit data: %w", err)
	}
	return nil
}
