package model

import (
	"encoding/json"
	"strconv"
)

// WebhookData is the raw trigger payload: {"event": {"pulseId": ..., "pulseName": ...}}.
type WebhookData map[string]any

func (w WebhookData) event() map[string]any {
	ev, _ := w["event"].(map[string]any)
	return ev
}

// ItemID returns event.pulseId as a string, or "" when absent.
func (w WebhookData) ItemID() string {
	return scalarString(w.event()["pulseId"])
}

func (w WebhookData) ItemName() string {
	return scalarString(w.event()["pulseName"])
}

func (w WebhookData) BoardID() string {
	return scalarString(w.event()["boardId"])
}

func (w WebhookData) Clone() WebhookData {
	if w == nil {
		return nil
	}
	return deepCopy(map[string]any(w)).(map[string]any)
}

func deepCopy(v any) any {
	switch v := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, e := range v {
			out[k] = deepCopy(e)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = deepCopy(e)
		}
		return out
	default:
		return v
	}
}

func scalarString(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}
