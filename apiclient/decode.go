package apiclient

import (
	"bytes"
	"encoding/json"
)

// envelope accepts both a bare payload and one wrapped in {"<key>": ...};
// the upstream is not consistent between endpoints.
type envelope struct {
	key string
	out any
}

func (e envelope) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var wrapped map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &wrapped); err == nil {
			if inner, ok := wrapped[e.key]; ok {
				return json.Unmarshal(inner, e.out)
			}
		}
	}
	return json.Unmarshal(trimmed, e.out)
}

func unwrap(key string, out any) *envelope {
	return &envelope{key: key, out: out}
}
