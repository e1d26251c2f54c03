package storage

import (
	"encoding/json"
	"fmt"
)

// EncodeMilestones serializes an unlocked milestone set as a JSON object
// of id to true, the format shared by the SQL backends.
func EncodeMilestones(m map[string]bool) (string, error) {
	if len(m) == 0 {
		return "{}", nil
	}
	data, err := json.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("failed to encode milestones: %w", err)
	}
	return string(data), nil
}

// DecodeMilestones parses the JSON object written by EncodeMilestones.
// Entries with a false value are dropped.
func DecodeMilestones(raw string) (map[string]bool, error) {
	out := map[string]bool{}
	if raw == "" {
		return out, nil
	}
	var decoded map[string]bool
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return nil, fmt.Errorf("failed to decode milestones: %w", err)
	}
	for id, ok := range decoded {
		if ok {
			out[id] = true
		}
	}
	return out, nil
}
