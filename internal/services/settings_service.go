package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/leadscout/backend/internal/models"
	"github.com/leadscout/backend/internal/repositories"
)

var validTones = map[string]bool{"friendly": true, "professional": true, "casual": true}
var validLengths = map[string]bool{"short": true, "medium": true, "long": true}

// SettingsService covers user preferences, quota reporting and the full
// data reset.
type SettingsService struct {
	repo   *repositories.StateRepo
	limits models.Limits
	log    *zap.Logger
}

func NewSettingsService(repo *repositories.StateRepo, limits models.Limits, log *zap.Logger) *SettingsService {
	return &SettingsService{repo: repo, limits: limits, log: log}
}

func (s *SettingsService) Get() models.Settings {
	return s.repo.Settings()
}

func (s *SettingsService) Update(ctx context.Context, settings models.Settings) (models.Settings, error) {
	style := &settings.CommentStyle
	if style.Tone == "" {
		style.Tone = "friendly"
	}
	if style.Length == "" {
		style.Length = "medium"
	}
	if !validTones[style.Tone] {
		return models.Settings{}, fmt.Errorf("unknown tone %q", style.Tone)
	}
	if !validLengths[style.Length] {
		return models.Settings{}, fmt.Errorf("unknown length %q", style.Length)
	}
	if err := s.repo.SaveSettings(ctx, settings); err != nil {
		return models.Settings{}, err
	}
	return settings, nil
}

// UsageReport pairs the consumed counters with their configured ceilings.
type UsageReport struct {
	Usage  models.Usage  `json:"usage"`
	Limits models.Limits `json:"limits"`
}

func (s *SettingsService) Usage() UsageReport {
	return UsageReport{Usage: s.repo.Usage(), Limits: s.limits}
}

// Clear wipes every stored collection and zeroes usage counters. This is the
// only way counters reset.
func (s *SettingsService) Clear(ctx context.Context) error {
	s.log.Warn("clearing all application data")
	return s.repo.Clear(ctx)
}
