package tools

import (
	"encoding/json"
	"fmt"
)

// decodeArgs converts a raw argument map into a typed input record through
// a JSON round-trip. Unknown fields are ignored; fields absent from the map
// keep whatever value the record was initialized with, which is how tools
// apply their defaults.
func decodeArgs(args map[string]any, v any) error {
	data, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

// clampLimit folds a raw limit argument into [1, max], using def when the
// argument was omitted.
func clampLimit(raw *float64, def, max int) int {
	if raw == nil {
		return def
	}
	limit := int(*raw)
	if limit < 1 {
		return 1
	}
	if limit > max {
		return max
	}
	return limit
}
