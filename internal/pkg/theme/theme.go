// Package theme persists the homepage's global accent color in the KV
// store so every visitor sees the same gradient.
package theme

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/nlzhang/homepage/internal/pkg/kvstore"
)

// ColorKey is the fixed KV key holding the accent color JSON.
const ColorKey = "global_theme_color"

var validate = validator.New()

// Color is the stored accent color. Angle/saturation/lightness default
// to 0/100/50 when the client omits them.
type Color struct {
	R          int    `json:"r" validate:"min=0,max=255"`
	G          int    `json:"g" validate:"min=0,max=255"`
	B          int    `json:"b" validate:"min=0,max=255"`
	Angle      int    `json:"angle" validate:"min=0,max=360"`
	Saturation int    `json:"saturation" validate:"min=0,max=100"`
	Lightness  int    `json:"lightness" validate:"min=0,max=100"`
	Timestamp  int64  `json:"timestamp"`
	UserAgent  string `json:"userAgent"`
}

// Validate checks the color ranges.
func (c *Color) Validate() error {
	return validate.Struct(c)
}

// Service reads and writes the global theme color. A nil store means
// the backend is not configured.
type Service struct {
	store kvstore.Store
	now   func() time.Time
}

func NewService(store kvstore.Store) *Service {
	return &Service{store: store, now: time.Now}
}

// Get returns the stored color, or nil when none is set.
func (s *Service) Get(ctx context.Context) (*Color, error) {
	if s.store == nil {
		return nil, kvstore.ErrNotConfigured
	}

	raw, err := s.store.Get(ctx, ColorKey)
	if errors.Is(err, kvstore.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("theme: read failed: %w", err)
	}

	var color Color
	if err := json.Unmarshal([]byte(raw), &color); err != nil {
		return nil, fmt.Errorf("theme: stored color is unreadable: %w", err)
	}
	return &color, nil
}

// Set validates and stores the color, stamping it with the write time
// and the caller's user agent.
func (s *Service) Set(ctx context.Context, color Color, userAgent string) (*Color, error) {
	if s.store == nil {
		return nil, kvstore.ErrNotConfigured
	}
	if err := color.Validate(); err != nil {
		return nil, err
	}

	color.Timestamp = s.now().UnixMilli()
	if userAgent == "" {
		userAgent = "unknown"
	}
	color.UserAgent = userAgent

	raw, err := json.Marshal(color)
	if err != nil {
		return nil, fmt.Errorf("theme: marshal color: %w", err)
	}
	if err := s.store.Put(ctx, ColorKey, string(raw), 0); err != nil {
		return nil, fmt.Errorf("theme: write failed: %w", err)
	}
	return &color, nil
}

// Reset removes the stored color so clients fall back to their default.
func (s *Service) Reset(ctx context.Context) error {
	if s.store == nil {
		return kvstore.ErrNotConfigured
	}
	if err := s.store.Delete(ctx, ColorKey); err != nil {
		return fmt.Errorf("theme: delete failed: %w", err)
	}
	return nil
}
