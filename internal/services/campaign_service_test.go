package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/leadscout/backend/internal/events"
	"github.com/leadscout/backend/internal/leadgen"
	"github.com/leadscout/backend/internal/models"
	"github.com/leadscout/backend/internal/repositories"
	"github.com/leadscout/backend/internal/store"
)

type countingSearcher struct {
	mu       sync.Mutex
	calls    int
	response string
	err      error
}

func (c *countingSearcher) Search(_ context.Context, _ models.LeadSource, _ models.Campaign) (string, error) {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
	return c.response, c.err
}

func (c *countingSearcher) callCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

const searchResponse = `[
	{"url":"/r/foo/comments/abc/t/","source_name":"r/foo","title":"t","content":"c","pain_point":"pp","relevance":97},
	{"url":"/r/foo/comments/def/t/","source_name":"r/foo","title":"t2","content":"c2","pain_point":"pp2","relevance":80}
]`

func newTestService(t *testing.T, searcher leadgen.Searcher, limits models.Limits) (*CampaignService, *repositories.StateRepo) {
	t.Helper()
	log := zap.NewNop()
	repo := repositories.NewStateRepo(context.Background(), store.NewMemoryStore(), log)
	svc := NewCampaignService(repo, leadgen.NewIngestor(searcher, log), events.NopPublisher{}, limits, log)
	return svc, repo
}

func campaignDef() models.Campaign {
	return models.Campaign{
		Name:     "acme",
		Keywords: []string{"tool"},
		Sources:  []models.LeadSource{models.SourceReddit},
	}
}

func defaultLimits() models.Limits {
	return models.Limits{MaxCampaigns: 10, MaxRefreshes: 10, MaxGenerations: 10}
}

func TestCreateSuccess(t *testing.T) {
	searcher := &countingSearcher{response: searchResponse}
	svc, repo := newTestService(t, searcher, defaultLimits())

	c, err := svc.Create(context.Background(), campaignDef())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if c.LeadsFound != 2 || c.HighPotential != 1 {
		t.Errorf("counters = %d/%d, want 2/1", c.LeadsFound, c.HighPotential)
	}
	if got := repo.Usage().CampaignsCreated; got != 1 {
		t.Errorf("CampaignsCreated = %d, want 1", got)
	}
	if svc.OpState(c.ID) != models.OpSucceeded {
		t.Errorf("op state = %q, want succeeded", svc.OpState(c.ID))
	}
}

func TestCreateNotPersistedOnTotalFailure(t *testing.T) {
	searcher := &countingSearcher{err: errors.New("upstream down")}
	svc, repo := newTestService(t, searcher, defaultLimits())

	_, err := svc.Create(context.Background(), campaignDef())
	if !errors.Is(err, leadgen.ErrAllSourcesFailed) {
		t.Fatalf("err = %v, want ErrAllSourcesFailed", err)
	}
	if got := len(repo.Campaigns()); got != 0 {
		t.Errorf("campaigns persisted = %d, want 0", got)
	}
	if got := repo.Usage().CampaignsCreated; got != 0 {
		t.Errorf("CampaignsCreated = %d, want 0", got)
	}
}

func TestCreateZeroLeadsStillPersists(t *testing.T) {
	// A blocked/empty response is a legitimate zero-result pass, not failure.
	searcher := &countingSearcher{response: "[]"}
	svc, repo := newTestService(t, searcher, defaultLimits())

	c, err := svc.Create(context.Background(), campaignDef())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if c.LeadsFound != 0 {
		t.Errorf("LeadsFound = %d, want 0", c.LeadsFound)
	}
	if got := len(repo.Campaigns()); got != 1 {
		t.Errorf("campaigns = %d, want 1", got)
	}
}

func TestCreateQuotaRefusedBeforeSearch(t *testing.T) {
	searcher := &countingSearcher{response: searchResponse}
	svc, _ := newTestService(t, searcher, models.Limits{MaxCampaigns: 1, MaxRefreshes: 10, MaxGenerations: 10})

	if _, err := svc.Create(context.Background(), campaignDef()); err != nil {
		t.Fatalf("first Create: %v", err)
	}
	callsAfterFirst := searcher.callCount()

	_, err := svc.Create(context.Background(), campaignDef())
	if !errors.Is(err, ErrQuotaExceeded) {
		t.Fatalf("err = %v, want ErrQuotaExceeded", err)
	}
	if searcher.callCount() != callsAfterFirst {
		t.Errorf("quota refusal still performed an external call")
	}
}

func TestDeleteFreesCampaignQuota(t *testing.T) {
	searcher := &countingSearcher{response: searchResponse}
	svc, repo := newTestService(t, searcher, models.Limits{MaxCampaigns: 1, MaxRefreshes: 10, MaxGenerations: 10})

	c, err := svc.Create(context.Background(), campaignDef())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := svc.Delete(context.Background(), c.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if got := repo.Usage().CampaignsCreated; got != 0 {
		t.Errorf("CampaignsCreated = %d, want 0 after delete", got)
	}
	if _, err := svc.Create(context.Background(), campaignDef()); err != nil {
		t.Errorf("Create after delete: %v, want quota freed", err)
	}
}

func TestRefreshQuotaDeclinedWithoutExternalCall(t *testing.T) {
	searcher := &countingSearcher{response: searchResponse}
	svc, repo := newTestService(t, searcher, models.Limits{MaxCampaigns: 10, MaxRefreshes: 0, MaxGenerations: 10})

	c, err := svc.Create(context.Background(), campaignDef())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	callsAfterCreate := searcher.callCount()

	outcome, err := svc.Refresh(context.Background(), c.ID)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if !outcome.Declined || outcome.NewLeads != 0 {
		t.Errorf("outcome = %+v, want declined with 0 new", outcome)
	}
	if searcher.callCount() != callsAfterCreate {
		t.Errorf("declined refresh still performed an external call")
	}
	if got := repo.Usage().RefreshesUsed; got != 0 {
		t.Errorf("RefreshesUsed = %d, want 0", got)
	}
}

func TestRefreshIdempotentWithIdenticalResults(t *testing.T) {
	searcher := &countingSearcher{response: searchResponse}
	svc, repo := newTestService(t, searcher, defaultLimits())

	c, err := svc.Create(context.Background(), campaignDef())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	before, _ := repo.Campaign(c.ID)

	outcome, err := svc.Refresh(context.Background(), c.ID)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if outcome.NewLeads != 0 {
		t.Errorf("NewLeads = %d, want 0 for identical upstream results", outcome.NewLeads)
	}
	after := outcome.Campaign
	if after.LeadsFound != before.LeadsFound || after.HighPotential != before.HighPotential {
		t.Errorf("lead counters moved on idempotent refresh: %d/%d -> %d/%d",
			before.LeadsFound, before.HighPotential, after.LeadsFound, after.HighPotential)
	}
	if !after.LastRefreshed.After(*before.LastRefreshed) && !after.LastRefreshed.Equal(*before.LastRefreshed) {
		t.Error("LastRefreshed did not advance")
	}
}

func TestRefreshUnknownCampaign(t *testing.T) {
	searcher := &countingSearcher{response: searchResponse}
	svc, _ := newTestService(t, searcher, defaultLimits())

	_, err := svc.Refresh(context.Background(), 999)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
