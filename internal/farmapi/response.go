package farmapi

import (
	"encoding/json"
	"strings"
)

// Response is a fully read HTTP response.
type Response struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

// OK reports a 2xx status.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// IsJSON reports whether the server declared a JSON body.
func (r *Response) IsJSON() bool {
	return strings.Contains(strings.ToLower(r.ContentType), "application/json")
}

// DetailMessage extracts the server's error message from a JSON body. It
// understands {"detail": "..."}, FastAPI validation lists
// ({"detail": [{"msg": "..."}]}) and {"message": "..."}. fallback is returned
// when none is present.
func DetailMessage(resp *Response, fallback string) string {
	if resp == nil {
		return fallback
	}

	var body struct {
		Detail  any    `json:"detail"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		return fallback
	}
	if msg := detailText(body.Detail); msg != "" {
		return msg
	}
	if body.Message != "" {
		return body.Message
	}
	return fallback
}

func detailText(v any) string {
	switch d := v.(type) {
	case string:
		return d
	case map[string]any:
		msg, _ := d["msg"].(string)
		return msg
	case []any:
		msgs := make([]string, 0, len(d))
		for _, item := range d {
			if msg := detailText(item); msg != "" {
				msgs = append(msgs, msg)
			}
		}
		return strings.Join(msgs, "; ")
	}
	return ""
}
