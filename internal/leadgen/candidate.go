package leadgen

// RawCandidate is one loosely-typed object pulled out of a model response.
// Field names vary between responses, so lookups go through the accessors
// below instead of assuming a single shape.
type RawCandidate map[string]any

// stringField returns the first non-empty string found under the given keys.
func (c RawCandidate) stringField(keys ...string) string {
	for _, k := range keys {
		if v, ok := c[k].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

// numberField returns the first numeric value found under the given keys.
func (c RawCandidate) numberField(keys ...string) (float64, bool) {
	for _, k := range keys {
		if v, ok := c[k].(float64); ok {
			return v, true
		}
	}
	return 0, false
}
