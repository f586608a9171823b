package services

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/leadscout/backend/internal/models"
	"github.com/leadscout/backend/internal/repositories"
	"github.com/leadscout/backend/internal/store"
)

func newSettingsService(t *testing.T) *SettingsService {
	t.Helper()
	log := zap.NewNop()
	repo := repositories.NewStateRepo(context.Background(), store.NewMemoryStore(), log)
	return NewSettingsService(repo, defaultLimits(), log)
}

func TestUpdateSettingsDefaultsStyle(t *testing.T) {
	svc := newSettingsService(t)

	updated, err := svc.Update(context.Background(), models.Settings{DisplayName: "sam"})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.CommentStyle.Tone != "friendly" || updated.CommentStyle.Length != "medium" {
		t.Errorf("style = %+v, want friendly/medium defaults", updated.CommentStyle)
	}
	if got := svc.Get(); got.DisplayName != "sam" {
		t.Errorf("Get().DisplayName = %q, want %q", got.DisplayName, "sam")
	}
}

func TestUpdateSettingsRejectsUnknownStyle(t *testing.T) {
	svc := newSettingsService(t)

	tests := []struct {
		name  string
		style models.CommentStyle
	}{
		{"bad tone", models.CommentStyle{Tone: "sarcastic", Length: "short"}},
		{"bad length", models.CommentStyle{Tone: "casual", Length: "epic"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Update(context.Background(), models.Settings{CommentStyle: tt.style}); err == nil {
				t.Error("Update() error = nil, want non-nil")
			}
		})
	}
}

func TestUsageReportCarriesLimits(t *testing.T) {
	svc := newSettingsService(t)

	report := svc.Usage()
	if report.Limits != defaultLimits() {
		t.Errorf("Limits = %+v, want %+v", report.Limits, defaultLimits())
	}
	if report.Usage != (models.Usage{}) {
		t.Errorf("Usage = %+v, want zero", report.Usage)
	}
}
