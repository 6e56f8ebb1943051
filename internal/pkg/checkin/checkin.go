// Package checkin stores the per-visitor check-in day list in the KV
// store. Visitors are identified by an opaque uid the client keeps in
// its own storage; the server issues a fresh one on request.
package checkin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/nlzhang/homepage/internal/pkg/kvstore"
	"github.com/nlzhang/homepage/internal/pkg/visit"
)

// KeyFormat is the KV key per visitor uid.
const KeyFormat = "checkin:%s"

// ErrInvalidDay means the day did not match YYYY-MM-DD.
var ErrInvalidDay = errors.New("checkin: day must be YYYY-MM-DD")

type dayList struct {
	Days []string `json:"days"`
}

// Service reads and extends check-in day lists.
type Service struct {
	store kvstore.Store
}

func NewService(store kvstore.Store) *Service {
	return &Service{store: store}
}

// NewUID issues an identifier for a client that has none yet.
func NewUID() string {
	return uuid.New().String()
}

// Days returns the sorted day list for uid, empty when nothing is
// stored or the stored value is unreadable.
func (s *Service) Days(ctx context.Context, uid string) ([]string, error) {
	if s.store == nil {
		return nil, kvstore.ErrNotConfigured
	}

	raw, err := s.store.Get(ctx, fmt.Sprintf(KeyFormat, uid))
	if errors.Is(err, kvstore.ErrNotFound) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("checkin: read failed: %w", err)
	}
	return parseDays(raw), nil
}

// Add merges day into uid's list and returns the updated sorted list.
// Adding an already-present day is a no-op.
func (s *Service) Add(ctx context.Context, uid, day string) ([]string, error) {
	if !visit.ValidDate(day) {
		return nil, ErrInvalidDay
	}
	if s.store == nil {
		return nil, kvstore.ErrNotConfigured
	}

	key := fmt.Sprintf(KeyFormat, uid)

	var days []string
	raw, err := s.store.Get(ctx, key)
	if err != nil && !errors.Is(err, kvstore.ErrNotFound) {
		return nil, fmt.Errorf("checkin: read failed: %w", err)
	}
	if err == nil {
		days = parseDays(raw)
	}

	seen := make(map[string]struct{}, len(days)+1)
	for _, d := range days {
		seen[d] = struct{}{}
	}
	if _, ok := seen[day]; !ok {
		days = append(days, day)
		sort.Strings(days)
	}

	merged, err := json.Marshal(dayList{Days: days})
	if err != nil {
		return nil, fmt.Errorf("checkin: marshal days: %w", err)
	}
	if err := s.store.Put(ctx, key, string(merged), 0); err != nil {
		return nil, fmt.Errorf("checkin: write failed: %w", err)
	}
	return days, nil
}

// parseDays tolerates malformed stored values by treating them as an
// empty list, same as the data being absent.
func parseDays(raw string) []string {
	var data dayList
	if err := json.Unmarshal([]byte(raw), &data); err != nil || data.Days == nil {
		return []string{}
	}
	return data.Days
}
