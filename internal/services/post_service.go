package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/leadscout/backend/internal/models"
	"github.com/leadscout/backend/internal/repositories"
)

// PostService covers per-lead operations: contact tracking, hiding, lazy
// author summaries and outreach comment drafting. Summary and draft
// generation count against the AI-generation quota.
type PostService struct {
	repo    *repositories.StateRepo
	gemini  *GeminiClient
	summary *SummaryClient
	limits  models.Limits
	log     *zap.Logger
}

func NewPostService(
	repo *repositories.StateRepo,
	gemini *GeminiClient,
	summary *SummaryClient,
	limits models.Limits,
	log *zap.Logger,
) *PostService {
	return &PostService{
		repo:    repo,
		gemini:  gemini,
		summary: summary,
		limits:  limits,
		log:     log,
	}
}

func (s *PostService) Get(id int) (models.Post, error) {
	p, ok := s.repo.Post(id)
	if !ok {
		return models.Post{}, ErrNotFound
	}
	return p, nil
}

// MarkContacted is idempotent: the owning campaign's counter moves exactly
// once per post.
func (s *PostService) MarkContacted(ctx context.Context, id int) (models.Post, error) {
	if _, ok := s.repo.Post(id); !ok {
		return models.Post{}, ErrNotFound
	}
	return s.repo.MarkContacted(ctx, id)
}

func (s *PostService) Hide(ctx context.Context, id int) (models.Post, error) {
	if _, ok := s.repo.Post(id); !ok {
		return models.Post{}, ErrNotFound
	}
	return s.repo.HidePost(ctx, id)
}

// AuthorSummary returns the cached summary or generates it once. A failed
// generation leaves the field unset; nothing partial is ever stored.
func (s *PostService) AuthorSummary(ctx context.Context, id int) (models.Post, error) {
	post, ok := s.repo.Post(id)
	if !ok {
		return models.Post{}, ErrNotFound
	}
	if post.AuthorSummary != "" {
		return post, nil
	}
	if !s.repo.Usage().CanGenerate(s.limits) {
		return models.Post{}, fmt.Errorf("%w: generation limit reached", ErrQuotaExceeded)
	}

	text, err := s.summary.Summarize(ctx, post)
	if err != nil {
		return models.Post{}, err
	}

	updated, err := s.repo.SetAuthorSummary(ctx, id, text)
	if err != nil {
		return models.Post{}, err
	}
	if err := s.repo.IncrementGenerations(ctx); err != nil {
		s.log.Warn("failed to persist generation counter", zap.Error(err))
	}
	return updated, nil
}

// DraftComment produces an outreach comment draft for a lead. The draft is
// returned, not persisted — history records only comments actually used.
func (s *PostService) DraftComment(ctx context.Context, id int) (string, error) {
	post, ok := s.repo.Post(id)
	if !ok {
		return "", ErrNotFound
	}
	if !s.repo.Usage().CanGenerate(s.limits) {
		return "", fmt.Errorf("%w: generation limit reached", ErrQuotaExceeded)
	}

	campaign, _ := s.repo.Campaign(post.CampaignID)
	settings := s.repo.Settings()

	draft, err := s.gemini.Generate(ctx, buildCommentPrompt(campaign, post, settings))
	if err != nil {
		return "", err
	}
	draft = strings.TrimSpace(draft)
	if draft == "" {
		return "", fmt.Errorf("model returned an empty draft")
	}
	if err := s.repo.IncrementGenerations(ctx); err != nil {
		s.log.Warn("failed to persist generation counter", zap.Error(err))
	}
	return draft, nil
}

func (s *PostService) Comments(id int) ([]string, error) {
	if _, ok := s.repo.Post(id); !ok {
		return nil, ErrNotFound
	}
	return s.repo.Comments(id), nil
}

// RecordComment remembers a comment the user actually posted.
func (s *PostService) RecordComment(ctx context.Context, id int, text string) error {
	if _, ok := s.repo.Post(id); !ok {
		return ErrNotFound
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return fmt.Errorf("comment text is required")
	}
	return s.repo.AppendComment(ctx, id, text)
}

func buildCommentPrompt(campaign models.Campaign, post models.Post, settings models.Settings) string {
	var sb strings.Builder
	sb.WriteString("Write a reply to the post below from someone whose product genuinely solves the author's problem. ")
	sb.WriteString("Be helpful first, mention the product naturally, never sound like an ad.\n\n")

	style := settings.CommentStyle
	fmt.Fprintf(&sb, "Tone: %s. Length: %s.\n", orDefault(style.Tone, "friendly"), orDefault(style.Length, "medium"))
	if style.IncludeLink && campaign.TargetURL != "" {
		fmt.Fprintf(&sb, "Work in this link once: %s\n", campaign.TargetURL)
	}
	if settings.DisplayName != "" {
		fmt.Fprintf(&sb, "The commenter goes by %q.\n", settings.DisplayName)
	}

	fmt.Fprintf(&sb, "\nProduct: %s\n", campaign.Description)
	fmt.Fprintf(&sb, "\nPost on %s:\nTitle: %s\n%s\n\nAuthor's pain point: %s\n",
		post.SourceName, post.Title, post.Content, post.PainPoint)
	sb.WriteString("\nRespond with the comment text only.")
	return sb.String()
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
