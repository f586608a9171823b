package leadgen

import (
	"context"
	"errors"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/leadscout/backend/internal/models"
)

// MaxLeadsPerIngestion caps how many new leads a single pass may produce.
// The cap is per call, not cumulative over a campaign's lifetime.
const MaxLeadsPerIngestion = 15

// ErrAllSourcesFailed is returned when every requested source search failed.
// Partial failure is not an error — it just yields fewer results.
var ErrAllSourcesFailed = errors.New("all lead sources failed")

// Searcher is the opaque per-source search collaborator.
type Searcher interface {
	Search(ctx context.Context, source models.LeadSource, campaign models.Campaign) (string, error)
}

type Ingestor struct {
	searcher Searcher
	log      *zap.Logger
}

func NewIngestor(searcher Searcher, log *zap.Logger) *Ingestor {
	return &Ingestor{searcher: searcher, log: log}
}

// Result is one ingestion pass's output: genuinely new records with fresh
// identifiers, plus the counter deltas the owning campaign should absorb.
type Result struct {
	Posts         []models.Post
	HighPotential int
}

// Run fires one search per configured source, settles all branches, pipes
// each raw response through extraction and validation, deduplicates by
// canonical URL (against existingURLs and within the batch), ranks by
// relevance descending and truncates. A failed branch contributes an empty
// result; only all branches failing aborts the pass.
func (in *Ingestor) Run(ctx context.Context, campaign models.Campaign, existingURLs map[string]bool, maxPostID int) (*Result, error) {
	type branch struct {
		posts []models.Post
		err   error
	}

	branches := make([]branch, len(campaign.Sources))
	var wg sync.WaitGroup
	for i, src := range campaign.Sources {
		wg.Add(1)
		go func(i int, src models.LeadSource) {
			defer wg.Done()
			raw, err := in.searcher.Search(ctx, src, campaign)
			if err != nil {
				in.log.Warn("source search failed",
					zap.String("source", string(src)),
					zap.String("campaign", campaign.Name),
					zap.Error(err))
				branches[i].err = err
				return
			}
			cands := ExtractRecords(raw, in.log)
			branches[i].posts = MapCandidates(cands, src, in.log)
		}(i, src)
	}
	wg.Wait()

	failed := 0
	var admitted []models.Post
	for _, b := range branches {
		if b.err != nil {
			failed++
			continue
		}
		admitted = append(admitted, b.posts...)
	}
	if len(branches) > 0 && failed == len(branches) {
		return nil, ErrAllSourcesFailed
	}

	seen := make(map[string]bool, len(existingURLs)+len(admitted))
	for u := range existingURLs {
		seen[u] = true
	}
	var fresh []models.Post
	for _, p := range admitted {
		if seen[p.URL] {
			continue
		}
		seen[p.URL] = true
		fresh = append(fresh, p)
	}

	// Stable: ties keep discovery order.
	sort.SliceStable(fresh, func(i, j int) bool {
		return fresh[i].Relevance > fresh[j].Relevance
	})
	if len(fresh) > MaxLeadsPerIngestion {
		fresh = fresh[:MaxLeadsPerIngestion]
	}

	res := &Result{Posts: fresh}
	for i := range fresh {
		fresh[i].ID = maxPostID + i + 1
		fresh[i].CampaignID = campaign.ID
		fresh[i].Status = models.PostStatusNew
		if fresh[i].IsHighPotential() {
			res.HighPotential++
		}
	}
	return res, nil
}
