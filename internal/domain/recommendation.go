package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strconv"
	"time"

	"github.com/spf13/cast"
)

var (
	CropTypes = []string{"Wheat", "Rice", "Maize", "Cotton", "Sugarcane"}
	SoilTypes = []string{"Sandy", "Loamy", "Clay", "Silty", "Peaty"}
)

// RecommendationRequest is the soil/crop input sent to POST /api/recommend/.
type RecommendationRequest struct {
	N           float64 `json:"N"`
	P           float64 `json:"P"`
	K           float64 `json:"K"`
	PH          float64 `json:"pH"`
	Moisture    float64 `json:"moisture"`
	Temperature float64 `json:"temperature"`
	CropType    string  `json:"crop_type"`
	SoilType    string  `json:"soil_type"`
}

// Validate checks that every numeric is finite and both categoricals are
// members of their enumerations.
func (r RecommendationRequest) Validate() FieldErrors {
	errs := FieldErrors{}
	numerics := []struct {
		name  string
		value float64
	}{
		{"N", r.N}, {"P", r.P}, {"K", r.K},
		{"pH", r.PH}, {"moisture", r.Moisture}, {"temperature", r.Temperature},
	}
	for _, n := range numerics {
		if math.IsNaN(n.value) || math.IsInf(n.value, 0) {
			errs[n.name] = n.name + " must be a number"
		}
	}
	if !slices.Contains(CropTypes, r.CropType) {
		errs["crop_type"] = "Select a crop type"
	}
	if !slices.Contains(SoilTypes, r.SoilType) {
		errs["soil_type"] = "Select a soil type"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// Quantity is a number that the server may encode either as a JSON number or
// as a string. It keeps the textual form for display.
type Quantity string

func (q *Quantity) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*q = ""
		return nil
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("decode quantity: %w", err)
	}
	parsed, ok := quantityOf(v)
	if !ok {
		return fmt.Errorf("decode quantity: unsupported value %s", data)
	}
	*q = parsed
	return nil
}

// quantityOf renders a decoded JSON scalar. Objects and arrays are rejected.
func quantityOf(v any) (Quantity, bool) {
	if v == nil {
		return "", false
	}
	if f, ok := v.(float64); ok {
		return Quantity(strconv.FormatFloat(f, 'f', -1, 64)), true
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return "", false
	}
	return Quantity(s), true
}

func (q Quantity) String() string {
	return string(q)
}

// MarketPrice is the pricing sub-record of a recommendation.
type MarketPrice struct {
	AvgPrice  Quantity   `json:"avg_price"`
	Currency  string     `json:"currency"`
	Unit      string     `json:"unit"`
	PackSizes []Quantity `json:"pack_sizes,omitempty"`
}

// RecommendationDetails carries everything shown in the result tabs. Each
// field is independently optional.
type RecommendationDetails struct {
	Name         string       `json:"name,omitempty"`
	Image        string       `json:"image,omitempty"`
	Description  string       `json:"description,omitempty"`
	Application  string       `json:"application,omitempty"`
	Market       *MarketPrice `json:"market,omitempty"`
	Alternatives []string     `json:"alternatives,omitempty"`
}

// UnmarshalJSON reads every field on its own. A field with an unexpected
// shape is left empty and list elements that are not scalars are dropped.
func (d *RecommendationDetails) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode details: %w", err)
	}

	*d = RecommendationDetails{}
	m, ok := raw.(map[string]any)
	if !ok {
		return nil
	}

	d.Name = textOf(m["name"])
	d.Image = textOf(m["image"])
	d.Description = textOf(m["description"])
	d.Application = textOf(m["application"])
	d.Market = marketOf(m["market"])
	d.Alternatives = alternativesOf(m["alternatives"])
	return nil
}

func textOf(v any) string {
	q, _ := quantityOf(v)
	return string(q)
}

func marketOf(v any) *MarketPrice {
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}

	market := &MarketPrice{
		Currency: textOf(m["currency"]),
		Unit:     textOf(m["unit"]),
	}
	market.AvgPrice, _ = quantityOf(m["avg_price"])

	sizes, _ := m["pack_sizes"].([]any)
	for _, size := range sizes {
		if q, ok := quantityOf(size); ok && q != "" {
			market.PackSizes = append(market.PackSizes, q)
		}
	}
	return market
}

// alternativesOf accepts plain names as well as objects carrying a name.
func alternativesOf(v any) []string {
	items, _ := v.([]any)

	var names []string
	for _, item := range items {
		if obj, ok := item.(map[string]any); ok {
			item = obj["name"]
		}
		if name := textOf(item); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// RecommendationResult is the decoded success body of the recommend endpoint.
type RecommendationResult struct {
	Fertilizer string                `json:"fertilizer"`
	Details    RecommendationDetails `json:"details"`
}

// SavedRecommendation is one entry of a user's recommendation history.
type SavedRecommendation struct {
	ID        int64
	UserEmail string
	Request   RecommendationRequest
	Result    RecommendationResult
	SavedAt   time.Time
}
