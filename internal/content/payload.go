// Package content turns loosely shaped farm API payloads into canonical
// content records. Every function here is total: malformed input degrades to
// defaults instead of failing.
package content

import "encoding/json"

// Shape identifies which recognized payload variant a response body matched.
type Shape int

const (
	ShapeUnrecognized Shape = iota
	ShapeList
	ShapeWrapped
)

func (s Shape) String() string {
	switch s {
	case ShapeList:
		return "list"
	case ShapeWrapped:
		return "wrapped"
	default:
		return "unrecognized"
	}
}

// listKeys is probed in order; the first key holding a list wins.
var listKeys = []string{"items", "articles", "data", "results", "docs", "records"}

// Payload is a classified response body. Key is only set for ShapeWrapped.
// Items is never nil.
type Payload struct {
	Shape Shape
	Key   string
	Items []any
}

// Classify determines the payload variant of a decoded JSON value.
func Classify(payload any) Payload {
	if items, ok := asList(payload); ok {
		return Payload{Shape: ShapeList, Items: items}
	}
	if m, ok := payload.(map[string]any); ok {
		for _, key := range listKeys {
			if items, ok := asList(m[key]); ok {
				return Payload{Shape: ShapeWrapped, Key: key, Items: items}
			}
		}
	}
	return Payload{Shape: ShapeUnrecognized, Items: []any{}}
}

// Decode classifies a raw JSON body. Bodies that are not JSON are unrecognized.
func Decode(body []byte) Payload {
	var v any
	if err := json.Unmarshal(body, &v); err != nil {
		return Payload{Shape: ShapeUnrecognized, Items: []any{}}
	}
	return Classify(v)
}

// ExtractList returns the list carried by payload, or an empty list.
func ExtractList(payload any) []any {
	return Classify(payload).Items
}

func asList(v any) ([]any, bool) {
	switch list := v.(type) {
	case []any:
		if list == nil {
			return []any{}, true
		}
		return list, true
	case []map[string]any:
		items := make([]any, len(list))
		for i, m := range list {
			items[i] = m
		}
		return items, true
	}
	return nil, false
}
