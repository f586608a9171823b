package models

// CommentStyle controls how outreach comment drafts are phrased.
type CommentStyle struct {
	Tone        string `json:"tone"`   // friendly / professional / casual
	Length      string `json:"length"` // short / medium / long
	IncludeLink bool   `json:"include_link"`
}

// Settings is the user-facing configuration blob. DisplayName is cosmetic,
// there is no authentication behind it.
type Settings struct {
	DisplayName  string       `json:"display_name,omitempty"`
	CommentStyle CommentStyle `json:"comment_style"`
	GeminiAPIKey string       `json:"gemini_api_key,omitempty"`
}

func DefaultSettings() Settings {
	return Settings{
		CommentStyle: CommentStyle{Tone: "friendly", Length: "medium"},
	}
}

// MaxCommentHistory caps each post's remembered outreach comments. History
// is newest-first and deduplicated by exact text.
const MaxCommentHistory = 10
