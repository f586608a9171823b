package services

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/leadscout/backend/internal/models"
)

const maxPageTextLen = 4000

// SummaryClient is the author-summary collaborator: it fetches the lead's
// post page, extracts the readable text and asks the model for a short
// profile summary. Any failure surfaces as an error — a partial or garbage
// summary must never be persisted.
type SummaryClient struct {
	gemini     *GeminiClient
	httpClient *http.Client
	log        *zap.Logger
}

func NewSummaryClient(gemini *GeminiClient, log *zap.Logger) *SummaryClient {
	return &SummaryClient{
		gemini: gemini,
		httpClient: &http.Client{
			Timeout: 20 * time.Second,
		},
		log: log,
	}
}

func (c *SummaryClient) Summarize(ctx context.Context, post models.Post) (string, error) {
	pageText, err := c.fetchPageText(ctx, post.URL)
	if err != nil {
		return "", fmt.Errorf("fetch post page: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("Summarize the author of the following post in one short paragraph: ")
	sb.WriteString("who they likely are, what they are trying to do and what they struggle with. ")
	sb.WriteString("Plain text only, no preamble.\n\n")
	fmt.Fprintf(&sb, "Source: %s (%s)\nTitle: %s\n\n%s", post.SourceName, post.Source, post.Title, pageText)

	summary, err := c.gemini.Generate(ctx, sb.String())
	if err != nil {
		return "", err
	}
	summary = strings.TrimSpace(summary)
	if summary == "" {
		return "", fmt.Errorf("model returned an empty summary")
	}
	return summary, nil
}

func (c *SummaryClient) fetchPageText(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP %d for %s", resp.StatusCode, url)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", err
	}
	doc.Find("script, style, noscript").Remove()

	text := strings.TrimSpace(doc.Find("body").Text())
	text = strings.Join(strings.Fields(text), " ")
	if text == "" {
		return "", fmt.Errorf("no readable text at %s", url)
	}
	if len(text) > maxPageTextLen {
		text = text[:maxPageTextLen]
	}
	return text, nil
}
