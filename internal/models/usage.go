package models

// Usage holds the monotonically incrementing quota counters. The campaigns
// counter mirrors the live campaign count, so deleting a campaign frees
// quota; refreshes and generations only reset on a full data clear.
type Usage struct {
	CampaignsCreated int `json:"campaigns_created"`
	RefreshesUsed    int `json:"refreshes_used"`
	GenerationsUsed  int `json:"generations_used"`
}

// Limits are the fixed ceilings the counters are checked against.
type Limits struct {
	MaxCampaigns   int `json:"max_campaigns"`
	MaxRefreshes   int `json:"max_refreshes"`
	MaxGenerations int `json:"max_generations"`
}

func (u Usage) CanCreateCampaign(l Limits) bool {
	return u.CampaignsCreated < l.MaxCampaigns
}

func (u Usage) CanRefresh(l Limits) bool {
	return u.RefreshesUsed < l.MaxRefreshes
}

func (u Usage) CanGenerate(l Limits) bool {
	return u.GenerationsUsed < l.MaxGenerations
}
