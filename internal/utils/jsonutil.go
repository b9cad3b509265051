package utils

import "encoding/json"

// ToJSON marshals v for logging and cache writes; failures degrade to "{}"
// rather than propagating.
func ToJSON(v interface{}) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(b)
}
