package models

import (
	"fmt"
	"time"
)

type LeadSource string

const (
	SourceReddit  LeadSource = "reddit"
	SourceDiscord LeadSource = "discord"
)

type DateRange string

const (
	DateRangeLastDay   DateRange = "lastDay"
	DateRangeLastWeek  DateRange = "lastWeek"
	DateRangeLastMonth DateRange = "lastMonth"
)

const (
	CampaignStatusActive = "active"
	CampaignStatusPaused = "paused"
)

// HighPotentialThreshold is the relevance score above which a lead counts as
// high potential. Distinct from the validator's admission floor of 70.
const HighPotentialThreshold = 95

type Campaign struct {
	ID               int          `json:"id"`
	Name             string       `json:"name"`
	Description      string       `json:"description"`
	Keywords         []string     `json:"keywords"`
	NegativeKeywords []string     `json:"negative_keywords,omitempty"`
	TargetSubreddits []string     `json:"target_subreddits,omitempty"`
	TargetURL        string       `json:"target_url,omitempty"`
	DateRange        DateRange    `json:"date_range"`
	Sources          []LeadSource `json:"sources"`
	Status           string       `json:"status"`
	LeadsFound       int          `json:"leads_found"`
	HighPotential    int          `json:"high_potential"`
	Contacted        int          `json:"contacted"`
	CreatedAt        time.Time    `json:"created_at"`
	LastRefreshed    *time.Time   `json:"last_refreshed,omitempty"`
}

func (c *Campaign) HasSource(s LeadSource) bool {
	for _, src := range c.Sources {
		if src == s {
			return true
		}
	}
	return false
}

// Validate checks a campaign definition before any ingestion is attempted.
func (c *Campaign) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("name is required")
	}
	if len(c.Keywords) == 0 {
		return fmt.Errorf("at least one keyword is required")
	}
	if len(c.Sources) == 0 {
		return fmt.Errorf("at least one lead source is required")
	}
	for _, s := range c.Sources {
		if s != SourceReddit && s != SourceDiscord {
			return fmt.Errorf("unknown lead source %q", s)
		}
	}
	switch c.DateRange {
	case DateRangeLastDay, DateRangeLastWeek, DateRangeLastMonth:
	case "":
		c.DateRange = DateRangeLastWeek
	default:
		return fmt.Errorf("unknown date range %q", c.DateRange)
	}
	return nil
}

// OpState tracks the lifecycle of a single ingestion operation per campaign.
type OpState string

const (
	OpIdle      OpState = "idle"
	OpRunning   OpState = "running"
	OpSucceeded OpState = "succeeded"
	OpFailed    OpState = "failed"
)
