package leadgen

import (
	"encoding/json"
	"strings"

	"go.uber.org/zap"
)

// ExtractRecords pulls every top-level JSON array out of raw model output.
// The text may wrap the JSON in a markdown fence, surround it with prose, or
// concatenate several arrays; malformed segments are skipped, never fatal.
// An empty result is a legitimate outcome (blocked or empty response).
func ExtractRecords(raw string, log *zap.Logger) []RawCandidate {
	text := strings.TrimSpace(raw)
	if text == "" {
		return nil
	}

	if inner, ok := fencedBlock(text); ok {
		text = inner
	}

	// Fast path: the whole text is a single JSON array.
	var whole any
	if err := json.Unmarshal([]byte(text), &whole); err == nil {
		if arr, ok := whole.([]any); ok {
			return asCandidates(arr)
		}
	}

	var out []RawCandidate
	for i := 0; i < len(text); {
		start := strings.IndexByte(text[i:], '[')
		if start < 0 {
			break
		}
		start += i

		end := matchBracket(text, start)
		if end < 0 {
			// Unterminated array: stop scanning, keep what we have.
			break
		}

		var arr []any
		if err := json.Unmarshal([]byte(text[start:end+1]), &arr); err != nil {
			log.Warn("skipping malformed segment in model response",
				zap.Int("offset", start), zap.Error(err))
			i = start + 1
			continue
		}
		out = append(out, asCandidates(arr)...)
		i = end + 1
	}
	return out
}

// fencedBlock returns the interior of the first triple-backtick block, which
// may carry a "json" language tag on the fence.
func fencedBlock(s string) (string, bool) {
	start := strings.Index(s, "```")
	if start < 0 {
		return "", false
	}
	inner := s[start+3:]
	inner = strings.TrimPrefix(inner, "json")
	if end := strings.Index(inner, "```"); end >= 0 {
		inner = inner[:end]
	}
	return strings.TrimSpace(inner), true
}

// matchBracket returns the index of the ']' closing the '[' at start, or -1
// if it is never closed. Depth counting skips nested arrays and ignores
// brackets inside string literals.
func matchBracket(s string, start int) int {
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// asCandidates keeps object elements as candidates and null elements as nil
// placeholders; scalar elements carry no fields and are dropped here.
func asCandidates(vals []any) []RawCandidate {
	out := make([]RawCandidate, 0, len(vals))
	for _, v := range vals {
		switch m := v.(type) {
		case map[string]any:
			out = append(out, RawCandidate(m))
		case nil:
			out = append(out, nil)
		}
	}
	return out
}
