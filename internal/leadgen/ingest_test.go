package leadgen

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/leadscout/backend/internal/models"
)

type fakeSearcher struct {
	responses map[models.LeadSource]string
	errs      map[models.LeadSource]error
}

func (f *fakeSearcher) Search(_ context.Context, source models.LeadSource, _ models.Campaign) (string, error) {
	if err := f.errs[source]; err != nil {
		return "", err
	}
	return f.responses[source], nil
}

func redditBatch(n, baseRelevance int) string {
	var sb strings.Builder
	sb.WriteString("[")
	for i := 0; i < n; i++ {
		if i > 0 {
			sb.WriteString(",")
		}
		fmt.Fprintf(&sb,
			`{"url":"/r/foo/comments/p%d/t/","source_name":"r/foo","title":"t%d","content":"c%d","pain_point":"pp%d","relevance":%d}`,
			i, i, i, i, baseRelevance+i)
	}
	sb.WriteString("]")
	return sb.String()
}

func testCampaign(sources ...models.LeadSource) models.Campaign {
	return models.Campaign{
		ID:       7,
		Name:     "test",
		Keywords: []string{"tool"},
		Sources:  sources,
	}
}

func TestIngestRankingAndCap(t *testing.T) {
	// 20 admitted candidates with distinct relevance 70..89.
	searcher := &fakeSearcher{responses: map[models.LeadSource]string{
		models.SourceReddit: redditBatch(20, 70),
	}}
	in := NewIngestor(searcher, zap.NewNop())

	res, err := in.Run(context.Background(), testCampaign(models.SourceReddit), nil, 0)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if len(res.Posts) != MaxLeadsPerIngestion {
		t.Fatalf("got %d posts, want %d", len(res.Posts), MaxLeadsPerIngestion)
	}
	for i, p := range res.Posts {
		want := 89 - i
		if p.Relevance != want {
			t.Errorf("post %d relevance = %d, want %d (descending)", i, p.Relevance, want)
		}
	}
}

func TestIngestIDAssignment(t *testing.T) {
	searcher := &fakeSearcher{responses: map[models.LeadSource]string{
		models.SourceReddit: redditBatch(3, 80),
	}}
	in := NewIngestor(searcher, zap.NewNop())

	res, err := in.Run(context.Background(), testCampaign(models.SourceReddit), nil, 41)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if len(res.Posts) != 3 {
		t.Fatalf("got %d posts, want 3", len(res.Posts))
	}
	for i, p := range res.Posts {
		if p.ID != 42+i {
			t.Errorf("post %d ID = %d, want %d", i, p.ID, 42+i)
		}
		if p.CampaignID != 7 {
			t.Errorf("post %d CampaignID = %d, want 7", i, p.CampaignID)
		}
		if p.Status != models.PostStatusNew {
			t.Errorf("post %d status = %q, want %q", i, p.Status, models.PostStatusNew)
		}
	}
}

func TestIngestIdempotentRefresh(t *testing.T) {
	searcher := &fakeSearcher{responses: map[models.LeadSource]string{
		models.SourceReddit: redditBatch(5, 80),
	}}
	in := NewIngestor(searcher, zap.NewNop())
	campaign := testCampaign(models.SourceReddit)

	first, err := in.Run(context.Background(), campaign, nil, 0)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	if len(first.Posts) != 5 {
		t.Fatalf("first run got %d posts, want 5", len(first.Posts))
	}

	existing := make(map[string]bool)
	for _, p := range first.Posts {
		existing[p.URL] = true
	}

	second, err := in.Run(context.Background(), campaign, existing, 5)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if len(second.Posts) != 0 {
		t.Errorf("second run got %d posts, want 0 (identical upstream results)", len(second.Posts))
	}
}

func TestIngestInBatchDeduplication(t *testing.T) {
	// Same post reported with two raw URLs that canonicalize identically.
	raw := `[
		{"url":"https://old.reddit.com/r/foo/comments/abc/t/?utm=1","source_name":"r/foo","title":"t","content":"c","pain_point":"pp","relevance":90},
		{"url":"/r/foo/comments/abc/t/","source_name":"r/foo","title":"t dup","content":"c","pain_point":"pp","relevance":88}
	]`
	searcher := &fakeSearcher{responses: map[models.LeadSource]string{models.SourceReddit: raw}}
	in := NewIngestor(searcher, zap.NewNop())

	res, err := in.Run(context.Background(), testCampaign(models.SourceReddit), nil, 0)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if len(res.Posts) != 1 {
		t.Fatalf("got %d posts, want 1", len(res.Posts))
	}
	if res.Posts[0].Title != "t" {
		t.Errorf("kept title %q, want the first occurrence", res.Posts[0].Title)
	}
}

func TestIngestPartialSourceFailure(t *testing.T) {
	searcher := &fakeSearcher{
		responses: map[models.LeadSource]string{
			models.SourceDiscord: `[{"url":"discord.com/channels/1/2/3","source_name":"srv#gen","title":"t","content":"c","pain_point":"pp","relevance":96}]`,
		},
		errs: map[models.LeadSource]error{
			models.SourceReddit: errors.New("upstream 503"),
		},
	}
	in := NewIngestor(searcher, zap.NewNop())

	res, err := in.Run(context.Background(), testCampaign(models.SourceReddit, models.SourceDiscord), nil, 0)
	if err != nil {
		t.Fatalf("partial failure must not abort: %v", err)
	}
	if len(res.Posts) != 1 {
		t.Fatalf("got %d posts, want 1", len(res.Posts))
	}
	if res.HighPotential != 1 {
		t.Errorf("HighPotential = %d, want 1 (relevance 96)", res.HighPotential)
	}
}

func TestIngestAllSourcesFailed(t *testing.T) {
	searcher := &fakeSearcher{errs: map[models.LeadSource]error{
		models.SourceReddit:  errors.New("boom"),
		models.SourceDiscord: errors.New("boom"),
	}}
	in := NewIngestor(searcher, zap.NewNop())

	_, err := in.Run(context.Background(), testCampaign(models.SourceReddit, models.SourceDiscord), nil, 0)
	if !errors.Is(err, ErrAllSourcesFailed) {
		t.Errorf("err = %v, want ErrAllSourcesFailed", err)
	}
}

func TestIngestHighPotentialBoundary(t *testing.T) {
	raw := `[
		{"url":"/r/a/comments/one/t/","source_name":"r/a","title":"t","content":"c","pain_point":"pp","relevance":95},
		{"url":"/r/a/comments/two/t/","source_name":"r/a","title":"t","content":"c","pain_point":"pp","relevance":96}
	]`
	searcher := &fakeSearcher{responses: map[models.LeadSource]string{models.SourceReddit: raw}}
	in := NewIngestor(searcher, zap.NewNop())

	res, err := in.Run(context.Background(), testCampaign(models.SourceReddit), nil, 0)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if res.HighPotential != 1 {
		t.Errorf("HighPotential = %d, want 1 (strictly greater than 95)", res.HighPotential)
	}
}
