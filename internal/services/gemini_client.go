package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/leadscout/backend/internal/models"
)

// GeminiClient talks to the generative-language API. It is the opaque search
// collaborator behind lead ingestion and also backs summaries and comment
// drafts. Prompt construction lives here; nothing downstream assumes how the
// raw text looks.
type GeminiClient struct {
	baseURL    string
	model      string
	keyFn      func() string
	httpClient *http.Client
	log        *zap.Logger
}

// NewGeminiClient builds a client. keyFn is consulted per request so a key
// saved through settings takes effect without a restart.
func NewGeminiClient(baseURL, model string, keyFn func() string, log *zap.Logger) *GeminiClient {
	return &GeminiClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		keyFn:   keyFn,
		httpClient: &http.Client{
			Timeout: 90 * time.Second,
		},
		log: log,
	}
}

// Search runs one per-source lead search and returns the model's raw text.
// The caller extracts and validates whatever structure it can find.
func (c *GeminiClient) Search(ctx context.Context, source models.LeadSource, campaign models.Campaign) (string, error) {
	return c.Generate(ctx, buildSearchPrompt(source, campaign))
}

type generatePart struct {
	Text string `json:"text"`
}

type generateContent struct {
	Parts []generatePart `json:"parts"`
}

type generateRequest struct {
	Contents []generateContent `json:"contents"`
}

type generateResponse struct {
	Candidates []struct {
		Content generateContent `json:"content"`
	} `json:"candidates"`
}

// Generate sends a single prompt and concatenates the response part texts.
// A blocked or empty response yields "", not an error.
func (c *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	key := c.keyFn()
	if key == "" {
		return "", fmt.Errorf("gemini api key is not configured")
	}

	reqBody := generateRequest{
		Contents: []generateContent{{Parts: []generatePart{{Text: prompt}}}},
	}
	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", c.baseURL, c.model, key)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("generative api unavailable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("generative api returned %d: %s", resp.StatusCode, truncate(string(b), 300))
	}

	var genResp generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
		return "", fmt.Errorf("decode generative api response: %w", err)
	}

	var sb strings.Builder
	for _, cand := range genResp.Candidates {
		for _, part := range cand.Content.Parts {
			sb.WriteString(part.Text)
		}
	}
	return sb.String(), nil
}

func buildSearchPrompt(source models.LeadSource, c models.Campaign) string {
	var sb strings.Builder
	switch source {
	case models.SourceDiscord:
		sb.WriteString("Search public Discord communities for recent messages from people who need the product below. ")
		sb.WriteString("Every url must be a message link of the form https://discord.com/channels/{guild}/{channel}/{message} and source_name must be \"server#channel\".\n")
	default:
		sb.WriteString("Search Reddit for recent posts from people who need the product below. ")
		sb.WriteString("Every url must be a post or comment permalink containing /comments/ and source_name must be the subreddit.\n")
	}

	fmt.Fprintf(&sb, "\nProduct: %s\n", c.Description)
	fmt.Fprintf(&sb, "Keywords: %s\n", strings.Join(c.Keywords, ", "))
	if len(c.NegativeKeywords) > 0 {
		fmt.Fprintf(&sb, "Exclude posts mentioning: %s\n", strings.Join(c.NegativeKeywords, ", "))
	}
	if source == models.SourceReddit && len(c.TargetSubreddits) > 0 {
		fmt.Fprintf(&sb, "Limit the search to these subreddits: %s\n", strings.Join(c.TargetSubreddits, ", "))
	}
	fmt.Fprintf(&sb, "Time window: %s\n", describeDateRange(c.DateRange))

	sb.WriteString("\nRespond with a JSON array only. Each element: ")
	sb.WriteString(`{"url": string, "source_name": string, "title": string, "content": string, "pain_point": one sentence, "relevance": integer 0-100}. `)
	sb.WriteString("Include only posts with relevance 70 or higher. Return [] if nothing qualifies.")
	return sb.String()
}

func describeDateRange(r models.DateRange) string {
	switch r {
	case models.DateRangeLastDay:
		return "the last 24 hours"
	case models.DateRangeLastMonth:
		return "the last month"
	default:
		return "the last week"
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
