package models

const (
	PostStatusNew       = "new"
	PostStatusContacted = "contacted"
	PostStatusHidden    = "hidden"
)

// Post is a single lead record. URL is canonical per the source rules and
// unique across a campaign's leads; AuthorSummary is populated lazily and
// never regenerated once set.
type Post struct {
	ID            int        `json:"id"`
	CampaignID    int        `json:"campaign_id"`
	Source        LeadSource `json:"source"`
	SourceName    string     `json:"source_name"`
	Title         string     `json:"title"`
	Content       string     `json:"content"`
	URL           string     `json:"url"`
	Relevance     int        `json:"relevance"`
	Status        string     `json:"status"`
	PainPoint     string     `json:"pain_point"`
	AuthorSummary string     `json:"author_summary,omitempty"`
}

func (p *Post) IsHighPotential() bool {
	return p.Relevance > HighPotentialThreshold
}
