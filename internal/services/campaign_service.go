package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/leadscout/backend/internal/events"
	"github.com/leadscout/backend/internal/leadgen"
	"github.com/leadscout/backend/internal/models"
	"github.com/leadscout/backend/internal/repositories"
)

// CampaignService drives campaign lifecycle and lead ingestion. It owns the
// per-campaign operation state machine and serializes ingestion commits so
// identifier assignment stays unique.
type CampaignService struct {
	repo      *repositories.StateRepo
	ingestor  *leadgen.Ingestor
	publisher events.Publisher
	limits    models.Limits
	log       *zap.Logger

	ingestMu sync.Mutex
	opMu     sync.Mutex
	ops      map[int]models.OpState
}

func NewCampaignService(
	repo *repositories.StateRepo,
	ingestor *leadgen.Ingestor,
	publisher events.Publisher,
	limits models.Limits,
	log *zap.Logger,
) *CampaignService {
	return &CampaignService{
		repo:      repo,
		ingestor:  ingestor,
		publisher: publisher,
		limits:    limits,
		log:       log,
		ops:       make(map[int]models.OpState),
	}
}

// RefreshOutcome reports one refresh attempt. Declined outcomes (quota) are
// not errors: no external call happened and no counter moved.
type RefreshOutcome struct {
	Campaign models.Campaign `json:"campaign"`
	NewLeads int             `json:"new_leads"`
	Declined bool            `json:"declined"`
	Reason   string          `json:"reason,omitempty"`
}

func (s *CampaignService) List() []models.Campaign {
	return s.repo.Campaigns()
}

func (s *CampaignService) Get(id int) (models.Campaign, error) {
	c, ok := s.repo.Campaign(id)
	if !ok {
		return models.Campaign{}, ErrNotFound
	}
	return c, nil
}

func (s *CampaignService) Posts(campaignID int) ([]models.Post, error) {
	if _, ok := s.repo.Campaign(campaignID); !ok {
		return nil, ErrNotFound
	}
	return s.repo.Posts(campaignID), nil
}

// OpState reports the last known ingestion state for a campaign.
func (s *CampaignService) OpState(campaignID int) models.OpState {
	s.opMu.Lock()
	defer s.opMu.Unlock()
	if st, ok := s.ops[campaignID]; ok {
		return st
	}
	return models.OpIdle
}

func (s *CampaignService) setOp(campaignID int, st models.OpState) {
	s.opMu.Lock()
	s.ops[campaignID] = st
	s.opMu.Unlock()
	_ = s.publisher.Publish(context.Background(), events.StreamLeads, events.Event{
		Type:    events.EventOpStateChanged,
		Payload: map[string]any{"campaign_id": campaignID, "state": string(st)},
	})
}

// tryBeginOp refuses a second in-flight ingestion for the same campaign.
func (s *CampaignService) tryBeginOp(campaignID int) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()
	if s.ops[campaignID] == models.OpRunning {
		return ErrOpInFlight
	}
	s.ops[campaignID] = models.OpRunning
	return nil
}

// Create runs the initial ingestion pass for a new campaign definition. The
// campaign is only persisted when the pass does not fail outright; quota is
// checked before any external call.
func (s *CampaignService) Create(ctx context.Context, def models.Campaign) (models.Campaign, error) {
	if err := def.Validate(); err != nil {
		return models.Campaign{}, err
	}
	if !s.repo.Usage().CanCreateCampaign(s.limits) {
		return models.Campaign{}, fmt.Errorf("%w: campaign limit reached", ErrQuotaExceeded)
	}

	s.ingestMu.Lock()
	defer s.ingestMu.Unlock()

	def.ID = s.repo.NextCampaignID()
	if err := s.tryBeginOp(def.ID); err != nil {
		return models.Campaign{}, err
	}

	res, err := s.ingestor.Run(ctx, def, nil, s.repo.MaxPostID())
	if err != nil {
		s.setOp(def.ID, models.OpFailed)
		s.publishFailure(def.ID, err)
		return models.Campaign{}, fmt.Errorf("initial lead search failed: %w", err)
	}

	created, err := s.repo.ApplyCreate(ctx, def, res.Posts, res.HighPotential)
	if err != nil {
		s.setOp(def.ID, models.OpFailed)
		return models.Campaign{}, err
	}
	s.setOp(created.ID, models.OpSucceeded)

	_ = s.publisher.Publish(ctx, events.StreamLeads, events.Event{
		Type: events.EventCampaignCreated,
		Payload: map[string]any{
			"campaign_id": created.ID,
			"leads_found": created.LeadsFound,
		},
	})
	s.log.Info("campaign created",
		zap.Int("campaign_id", created.ID),
		zap.Int("leads", created.LeadsFound))
	return created, nil
}

// Refresh runs a repeat ingestion pass. Quota exhaustion declines the
// request before any external call; identical upstream results yield zero
// new leads while LastRefreshed still advances.
func (s *CampaignService) Refresh(ctx context.Context, campaignID int) (*RefreshOutcome, error) {
	campaign, ok := s.repo.Campaign(campaignID)
	if !ok {
		return nil, ErrNotFound
	}

	if !s.repo.Usage().CanRefresh(s.limits) {
		return &RefreshOutcome{
			Campaign: campaign,
			Declined: true,
			Reason:   "refresh limit reached",
		}, nil
	}

	if err := s.tryBeginOp(campaignID); err != nil {
		return nil, err
	}

	s.ingestMu.Lock()
	defer s.ingestMu.Unlock()

	res, err := s.ingestor.Run(ctx, campaign, s.repo.ExistingURLs(campaignID), s.repo.MaxPostID())
	if err != nil {
		s.setOp(campaignID, models.OpFailed)
		s.publishFailure(campaignID, err)
		return nil, fmt.Errorf("refresh failed: %w", err)
	}

	updated, err := s.repo.ApplyRefresh(ctx, campaignID, res.Posts, res.HighPotential)
	if err != nil {
		s.setOp(campaignID, models.OpFailed)
		return nil, err
	}
	s.setOp(campaignID, models.OpSucceeded)

	_ = s.publisher.Publish(ctx, events.StreamLeads, events.Event{
		Type: events.EventCampaignRefreshed,
		Payload: map[string]any{
			"campaign_id": campaignID,
			"new_leads":   len(res.Posts),
		},
	})
	s.log.Info("campaign refreshed",
		zap.Int("campaign_id", campaignID),
		zap.Int("new_leads", len(res.Posts)))
	return &RefreshOutcome{Campaign: updated, NewLeads: len(res.Posts)}, nil
}

// RefreshAllActive refreshes every active campaign, isolating per-campaign
// failures. Used by the scheduler.
func (s *CampaignService) RefreshAllActive(ctx context.Context) {
	for _, c := range s.repo.Campaigns() {
		if c.Status != models.CampaignStatusActive {
			continue
		}
		outcome, err := s.Refresh(ctx, c.ID)
		switch {
		case errors.Is(err, ErrOpInFlight):
			continue
		case err != nil:
			s.log.Warn("scheduled refresh failed", zap.Int("campaign_id", c.ID), zap.Error(err))
		case outcome.Declined:
			s.log.Info("scheduled refresh declined", zap.Int("campaign_id", c.ID), zap.String("reason", outcome.Reason))
			return // quota is global, no point trying the rest
		}
	}
}

func (s *CampaignService) Pause(ctx context.Context, id int) (models.Campaign, error) {
	return s.setStatus(ctx, id, models.CampaignStatusPaused)
}

func (s *CampaignService) Resume(ctx context.Context, id int) (models.Campaign, error) {
	return s.setStatus(ctx, id, models.CampaignStatusActive)
}

func (s *CampaignService) setStatus(ctx context.Context, id int, status string) (models.Campaign, error) {
	c, err := s.repo.SetCampaignStatus(ctx, id, status)
	if err != nil {
		return models.Campaign{}, ErrNotFound
	}
	return c, nil
}

// Delete removes the campaign and everything that references it.
func (s *CampaignService) Delete(ctx context.Context, id int) error {
	if _, ok := s.repo.Campaign(id); !ok {
		return ErrNotFound
	}
	if err := s.repo.DeleteCampaign(ctx, id); err != nil {
		return err
	}
	s.opMu.Lock()
	delete(s.ops, id)
	s.opMu.Unlock()

	_ = s.publisher.Publish(ctx, events.StreamLeads, events.Event{
		Type:    events.EventCampaignDeleted,
		Payload: map[string]any{"campaign_id": id},
	})
	return nil
}

func (s *CampaignService) publishFailure(campaignID int, err error) {
	_ = s.publisher.Publish(context.Background(), events.StreamLeads, events.Event{
		Type:    events.EventRefreshFailed,
		Payload: map[string]any{"campaign_id": campaignID, "error": err.Error()},
	})
}
