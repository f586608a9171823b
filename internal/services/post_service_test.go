package services

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/leadscout/backend/internal/models"
	"github.com/leadscout/backend/internal/repositories"
	"github.com/leadscout/backend/internal/store"
)

func newPostService(t *testing.T, limits models.Limits) (*PostService, *repositories.StateRepo) {
	t.Helper()
	log := zap.NewNop()
	repo := repositories.NewStateRepo(context.Background(), store.NewMemoryStore(), log)

	c := campaignDef()
	c.ID = 1
	if _, err := repo.ApplyCreate(context.Background(), c, []models.Post{{
		ID:         1,
		CampaignID: 1,
		Source:     models.SourceReddit,
		SourceName: "r/foo",
		Title:      "t",
		Content:    "c",
		URL:        "https://www.reddit.com/r/foo/comments/abc/t/",
		Relevance:  80,
		Status:     models.PostStatusNew,
		PainPoint:  "p",
	}}, 0); err != nil {
		t.Fatalf("seed: %v", err)
	}

	// Clients stay nil: the paths under test never reach them.
	return NewPostService(repo, nil, nil, limits, log), repo
}

func TestAuthorSummaryReturnsCacheWithoutGeneration(t *testing.T) {
	svc, repo := newPostService(t, defaultLimits())
	ctx := context.Background()

	if _, err := repo.SetAuthorSummary(ctx, 1, "a freelance designer"); err != nil {
		t.Fatalf("SetAuthorSummary() error = %v", err)
	}

	post, err := svc.AuthorSummary(ctx, 1)
	if err != nil {
		t.Fatalf("AuthorSummary() error = %v", err)
	}
	if post.AuthorSummary != "a freelance designer" {
		t.Errorf("AuthorSummary = %q, want cached value", post.AuthorSummary)
	}
	if got := repo.Usage().GenerationsUsed; got != 0 {
		t.Errorf("GenerationsUsed = %d, want 0 for a cache hit", got)
	}
}

func TestAuthorSummaryQuotaRefused(t *testing.T) {
	svc, _ := newPostService(t, models.Limits{MaxCampaigns: 10, MaxRefreshes: 10, MaxGenerations: 0})

	_, err := svc.AuthorSummary(context.Background(), 1)
	if !errors.Is(err, ErrQuotaExceeded) {
		t.Fatalf("AuthorSummary() error = %v, want ErrQuotaExceeded", err)
	}
}

func TestDraftCommentQuotaRefused(t *testing.T) {
	svc, _ := newPostService(t, models.Limits{MaxCampaigns: 10, MaxRefreshes: 10, MaxGenerations: 0})

	_, err := svc.DraftComment(context.Background(), 1)
	if !errors.Is(err, ErrQuotaExceeded) {
		t.Fatalf("DraftComment() error = %v, want ErrQuotaExceeded", err)
	}
}

func TestRecordCommentRejectsBlank(t *testing.T) {
	svc, _ := newPostService(t, defaultLimits())

	if err := svc.RecordComment(context.Background(), 1, "   "); err == nil {
		t.Error("RecordComment(blank) error = nil, want non-nil")
	}
	if err := svc.RecordComment(context.Background(), 1, "  hey, saw your post  "); err != nil {
		t.Fatalf("RecordComment() error = %v", err)
	}
	comments, err := svc.Comments(1)
	if err != nil {
		t.Fatalf("Comments() error = %v", err)
	}
	if len(comments) != 1 || comments[0] != "hey, saw your post" {
		t.Errorf("Comments() = %v, want trimmed single entry", comments)
	}
}

func TestPostOpsUnknownPost(t *testing.T) {
	svc, _ := newPostService(t, defaultLimits())
	ctx := context.Background()

	if _, err := svc.MarkContacted(ctx, 99); !errors.Is(err, ErrNotFound) {
		t.Errorf("MarkContacted(99) error = %v, want ErrNotFound", err)
	}
	if _, err := svc.Hide(ctx, 99); !errors.Is(err, ErrNotFound) {
		t.Errorf("Hide(99) error = %v, want ErrNotFound", err)
	}
	if err := svc.RecordComment(ctx, 99, "x"); !errors.Is(err, ErrNotFound) {
		t.Errorf("RecordComment(99) error = %v, want ErrNotFound", err)
	}
}
