package dto

import "github.com/leadscout/backend/internal/models"

type CreateCampaignRequest struct {
	Name             string              `json:"name"`
	Description      string              `json:"description"`
	Keywords         []string            `json:"keywords"`
	NegativeKeywords []string            `json:"negativeKeywords"`
	TargetSubreddits []string            `json:"targetSubreddits"`
	TargetURL        string              `json:"targetUrl"`
	DateRange        models.DateRange    `json:"dateRange"`
	Sources          []models.LeadSource `json:"sources"`
}

func (r CreateCampaignRequest) ToModel() models.Campaign {
	return models.Campaign{
		Name:             r.Name,
		Description:      r.Description,
		Keywords:         r.Keywords,
		NegativeKeywords: r.NegativeKeywords,
		TargetSubreddits: r.TargetSubreddits,
		TargetURL:        r.TargetURL,
		DateRange:        r.DateRange,
		Sources:          r.Sources,
	}
}

type UpdateSettingsRequest struct {
	DisplayName  string              `json:"displayName"`
	CommentStyle models.CommentStyle `json:"commentStyle"`
	GeminiAPIKey string              `json:"geminiApiKey"`
}

type RecordCommentRequest struct {
	Text string `json:"text"`
}
