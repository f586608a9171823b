package leadgen

import (
	"go.uber.org/zap"

	"github.com/leadscout/backend/internal/models"
)

// MinRelevance is the admission floor: candidates scored below it are noise.
const MinRelevance = 70

// MapCandidates narrows loosely-typed candidates into lead records for one
// source. Candidates failing admission are dropped with a log line — noisy
// or partial model output is expected, not exceptional. Identifiers are left
// unset; the orchestrator assigns them.
func MapCandidates(cands []RawCandidate, source models.LeadSource, log *zap.Logger) []models.Post {
	var out []models.Post
	for _, c := range cands {
		if c == nil {
			continue
		}

		canonical := NormalizeURL(source, c.stringField("url", "link"))
		if canonical == "" {
			log.Debug("candidate dropped: unusable url", zap.String("source", string(source)))
			continue
		}

		rel, ok := c.numberField("relevance")
		if !ok || rel < MinRelevance {
			log.Debug("candidate dropped: below relevance floor",
				zap.String("url", canonical), zap.Float64("relevance", rel))
			continue
		}

		p := models.Post{
			Source:     source,
			SourceName: c.stringField("source_name", "subreddit"),
			Title:      c.stringField("title"),
			Content:    c.stringField("content"),
			URL:        canonical,
			Relevance:  int(rel),
			PainPoint:  c.stringField("pain_point", "painPoint"),
		}
		if p.Title == "" || p.Content == "" || p.PainPoint == "" || p.SourceName == "" {
			log.Debug("candidate dropped: missing required field", zap.String("url", canonical))
			continue
		}
		out = append(out, p)
	}
	return out
}
