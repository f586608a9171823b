package leadgen

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/leadscout/backend/internal/models"
)

var discordChannelPath = regexp.MustCompile(`^/channels/\d+/\d+/\d+$`)

// NormalizeURL canonicalizes a raw link per the source's rule. It is total:
// any invalid or off-platform link yields "", never an error.
func NormalizeURL(source models.LeadSource, raw string) string {
	switch source {
	case models.SourceReddit:
		return NormalizeRedditURL(raw)
	case models.SourceDiscord:
		return NormalizeDiscordURL(raw)
	}
	return ""
}

// NormalizeRedditURL accepts post/comment permalinks on any reddit host and
// rebuilds them as https://www.reddit.com + path, dropping query and
// fragment. Bare "/r/..." paths are accepted too.
func NormalizeRedditURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if strings.HasPrefix(raw, "/r/") {
		raw = "https://www.reddit.com" + raw
	}
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	switch strings.ToLower(u.Hostname()) {
	case "reddit.com", "www.reddit.com", "old.reddit.com", "new.reddit.com":
	default:
		return ""
	}
	// Only post/comment permalinks qualify as leads.
	if !strings.Contains(u.Path, "/comments/") {
		return ""
	}
	return "https://www.reddit.com" + u.Path
}

// NormalizeDiscordURL accepts message links of the form
// discord.com/channels/{guild}/{channel}/{message} and rebuilds them as
// origin + path, dropping query and fragment.
func NormalizeDiscordURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	if strings.ToLower(u.Hostname()) != "discord.com" {
		return ""
	}
	if !discordChannelPath.MatchString(u.Path) {
		return ""
	}
	return u.Scheme + "://" + u.Host + u.Path
}
