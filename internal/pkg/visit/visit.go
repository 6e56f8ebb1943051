// Package visit implements the daily visit counter: one count per
// visitor identity per calendar date, plus a global unique-visit total.
//
// Dedup markers carry a fixed 24-hour TTL that is intentionally not
// anchored to midnight, so a visitor returning near a day boundary can
// be counted twice (or missed once). That skew is inherited behavior
// and is left as-is.
package visit

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strconv"
	"time"

	"github.com/nlzhang/homepage/internal/pkg/kvstore"
)

const (
	// Persisted key layout. Must stay bit-exact: existing KV contents
	// were written with these keys.
	DayKeyFormat    = "daily-visit:%s"    // format with date YYYY-MM-DD
	TotalKey        = "daily-visit:total" // global unique-visit total
	MarkerKeyFormat = "daily-visit:ip:%s:%s"

	// MarkerTTL approximates "once per calendar day per visitor".
	MarkerTTL = 86400 * time.Second
)

var (
	// ErrInvalidDate means the date did not match YYYY-MM-DD. Checked
	// before any store access.
	ErrInvalidDate = errors.New("visit: date must be YYYY-MM-DD")

	// ErrNotConfigured means no store is bound; callers fall back to
	// local counting.
	ErrNotConfigured = errors.New("visit: store not configured")

	dateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// Result is the outcome of recording one visit.
type Result struct {
	TodayCount int  `json:"todayCount"`
	TotalCount int  `json:"totalCount"`
	IsNewVisit bool `json:"isNewVisit"`
}

// Counts is the read-only view of a single day.
type Counts struct {
	TodayCount int    `json:"todayCount"`
	TotalCount int    `json:"totalCount"`
	Date       string `json:"date"`
}

// Service counts visits against a KV store. A nil store means the
// backend is not configured and every call returns ErrNotConfigured.
type Service struct {
	store kvstore.Store
	now   func() time.Time
}

func NewService(store kvstore.Store) *Service {
	return &Service{store: store, now: time.Now}
}

// ValidDate reports whether date is a well-formed YYYY-MM-DD string.
func ValidDate(date string) bool {
	return dateRe.MatchString(date)
}

// RecordVisit counts one visit for the given identity on the given
// date. The first call per (date, identity) increments both counters;
// later calls only read them. Never retries.
func (s *Service) RecordVisit(ctx context.Context, date, identity string) (Result, error) {
	if !ValidDate(date) {
		return Result{}, ErrInvalidDate
	}
	if s.store == nil {
		return Result{}, ErrNotConfigured
	}

	markerKey := fmt.Sprintf(MarkerKeyFormat, date, identity)
	marker := strconv.FormatInt(s.now().Unix(), 10)

	if cs, ok := s.store.(kvstore.ConditionalStore); ok {
		return s.recordConditional(ctx, cs, date, identity, markerKey, marker)
	}
	return s.recordCheckThenWrite(ctx, date, identity, markerKey, marker)
}

// recordConditional uses the marker creation as the sole arbiter of
// "new visit": counters are only touched when PutIfAbsent won, so two
// concurrent requests from the same identity cannot both count.
func (s *Service) recordConditional(ctx context.Context, store kvstore.ConditionalStore, date, identity, markerKey, marker string) (Result, error) {
	created, err := store.PutIfAbsent(ctx, markerKey, marker, MarkerTTL)
	if err != nil {
		return Result{}, fmt.Errorf("visit: marker write failed: %w", err)
	}

	dayKey := fmt.Sprintf(DayKeyFormat, date)

	if !created {
		return s.readCounts(ctx, dayKey)
	}

	todayCount, err := store.Incr(ctx, dayKey)
	if err != nil {
		return Result{}, fmt.Errorf("visit: day counter increment failed: %w", err)
	}
	totalCount, err := store.Incr(ctx, TotalKey)
	if err != nil {
		return Result{}, fmt.Errorf("visit: total counter increment failed: %w", err)
	}

	log.Printf("New visit from %s, date: %s, todayCount: %d, totalCount: %d", identity, date, todayCount, totalCount)

	return Result{TodayCount: int(todayCount), TotalCount: int(totalCount), IsNewVisit: true}, nil
}

// recordCheckThenWrite is the baseline for stores without a conditional
// create. Between the existence check and the marker write two
// concurrent requests from the same identity can both count; with no
// lock primitive in the store that over-count of 1 is accepted.
func (s *Service) recordCheckThenWrite(ctx context.Context, date, identity, markerKey, marker string) (Result, error) {
	_, err := s.store.Get(ctx, markerKey)
	if err == nil {
		return s.readCounts(ctx, fmt.Sprintf(DayKeyFormat, date))
	}
	if !errors.Is(err, kvstore.ErrNotFound) {
		return Result{}, fmt.Errorf("visit: marker read failed: %w", err)
	}

	dayKey := fmt.Sprintf(DayKeyFormat, date)
	todayCount, err := s.bumpCounter(ctx, dayKey)
	if err != nil {
		return Result{}, err
	}
	totalCount, err := s.bumpCounter(ctx, TotalKey)
	if err != nil {
		return Result{}, err
	}
	if err := s.store.Put(ctx, markerKey, marker, MarkerTTL); err != nil {
		return Result{}, fmt.Errorf("visit: marker write failed: %w", err)
	}

	log.Printf("New visit from %s, date: %s, todayCount: %d, totalCount: %d", identity, date, todayCount, totalCount)

	return Result{TodayCount: todayCount, TotalCount: totalCount, IsNewVisit: true}, nil
}

// GetCounts returns the current counters for a date without mutation.
func (s *Service) GetCounts(ctx context.Context, date string) (Counts, error) {
	if !ValidDate(date) {
		return Counts{}, ErrInvalidDate
	}
	if s.store == nil {
		return Counts{}, ErrNotConfigured
	}

	result, err := s.readCounts(ctx, fmt.Sprintf(DayKeyFormat, date))
	if err != nil {
		return Counts{}, err
	}
	return Counts{TodayCount: result.TodayCount, TotalCount: result.TotalCount, Date: date}, nil
}

func (s *Service) readCounts(ctx context.Context, dayKey string) (Result, error) {
	todayCount, err := s.counterValue(ctx, dayKey)
	if err != nil {
		return Result{}, err
	}
	totalCount, err := s.counterValue(ctx, TotalKey)
	if err != nil {
		return Result{}, err
	}
	return Result{TodayCount: todayCount, TotalCount: totalCount}, nil
}

// counterValue reads a counter, treating a missing key as 0.
func (s *Service) counterValue(ctx context.Context, key string) (int, error) {
	raw, err := s.store.Get(ctx, key)
	if errors.Is(err, kvstore.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("visit: counter read failed: %w", err)
	}
	count, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("visit: counter %s holds non-numeric value %q", key, raw)
	}
	return count, nil
}

// bumpCounter is the read-then-write increment used on plain stores.
func (s *Service) bumpCounter(ctx context.Context, key string) (int, error) {
	current, err := s.counterValue(ctx, key)
	if err != nil {
		return 0, err
	}
	current++
	if err := s.store.Put(ctx, key, strconv.Itoa(current), 0); err != nil {
		return 0, fmt.Errorf("visit: counter write failed: %w", err)
	}
	return current, nil
}
