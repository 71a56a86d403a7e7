package metals

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var errMissingField = errors.New("missing price field")

// lookupPrice finds the first usable number under any of keys, checking the
// top level and then a nested "rates" object. Providers disagree on naming
// (gold/XAU/GOLD) and sometimes send numbers as strings.
func lookupPrice(body map[string]interface{}, keys ...string) (float64, error) {
	scopes := []map[string]interface{}{body}
	if nested, ok := body["rates"].(map[string]interface{}); ok {
		scopes = append(scopes, nested)
	}

	for _, scope := range scopes {
		for _, k := range keys {
			raw, ok := scope[k]
			if !ok || raw == nil {
				continue
			}
			v, err := toFloat(raw)
			if err != nil {
				return 0, fmt.Errorf("field %q: %w", k, err)
			}
			return v, nil
		}
	}
	return 0, fmt.Errorf("%w: %s", errMissingField, strings.Join(keys, "/"))
}

func toFloat(raw interface{}) (float64, error) {
	switch v := raw.(type) {
	case json.Number:
		return v.Float64()
	case float64:
		return v, nil
	case string:
		return strconv.ParseFloat(strings.TrimSpace(v), 64)
	case map[string]interface{}:
		// {"price": ...} wrappers
		if p, ok := v["price"]; ok {
			return toFloat(p)
		}
	}
	return 0, fmt.Errorf("not a number: %T", raw)
}
