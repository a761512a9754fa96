package views

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"strconv"
	"strings"
	"sync"

	"agri_advisor/internal/domain"
)

const (
	MsgUsageFallback = "Follow local agronomy recommendations."
	MsgNoPricing     = "No pricing info"
	MsgSaved         = "Recommendation saved to your history."
	MsgSaveLogin     = "Please login to save recommendations."
)

// Recommender submits a validated recommendation request.
type Recommender interface {
	Submit(ctx context.Context, req domain.RecommendationRequest) (*domain.RecommendationResult, error)
}

// HistorySaver persists a recommendation for the signed-in user.
type HistorySaver interface {
	Save(ctx context.Context, user domain.Identity, req domain.RecommendationRequest, result domain.RecommendationResult) (*domain.SavedRecommendation, error)
}

// RecommendationInput is the raw form input. Numerics are text as typed.
type RecommendationInput struct {
	N           string
	P           string
	K           string
	PH          string
	Moisture    string
	Temperature string
	CropType    string
	SoilType    string
}

// Parse converts the input into a request, collecting a problem per field.
func (in RecommendationInput) Parse() (domain.RecommendationRequest, domain.FieldErrors) {
	errs := domain.FieldErrors{}
	number := func(name, raw string) float64 {
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			errs[name] = name + " must be a number"
			return 0
		}
		return v
	}

	req := domain.RecommendationRequest{
		N:           number("N", in.N),
		P:           number("P", in.P),
		K:           number("K", in.K),
		PH:          number("pH", in.PH),
		Moisture:    number("moisture", in.Moisture),
		Temperature: number("temperature", in.Temperature),
		CropType:    strings.TrimSpace(in.CropType),
		SoilType:    strings.TrimSpace(in.SoilType),
	}
	for field, msg := range req.Validate() {
		if _, ok := errs[field]; !ok {
			errs[field] = msg
		}
	}
	if len(errs) == 0 {
		return req, nil
	}
	return req, errs
}

type RecommendationState struct {
	Submitting bool
	Fields     domain.FieldErrors
	Error      string
	Request    domain.RecommendationRequest
	Result     *ResultView
}

// RecommendationForm drives the recommendation flow: parse, submit, then show
// the result in tabs. A newer submission supersedes an older one still in
// flight.
type RecommendationForm struct {
	recommender Recommender
	history     HistorySaver
	session     SessionReader
	logger      *slog.Logger

	seq   sequence
	mu    sync.RWMutex
	state RecommendationState
}

// NewRecommendationForm creates the form. history may be nil, in which case
// results cannot be saved.
func NewRecommendationForm(recommender Recommender, history HistorySaver, session SessionReader, logger *slog.Logger) *RecommendationForm {
	return &RecommendationForm{
		recommender: recommender,
		history:     history,
		session:     session,
		logger:      logger.With("component", "views", "form", "recommendation"),
	}
}

func (f *RecommendationForm) Submit(ctx context.Context, in RecommendationInput) RecommendationState {
	n := f.seq.next()
	f.set(n, RecommendationState{Submitting: true})

	req, errs := in.Parse()
	if errs != nil {
		f.set(n, RecommendationState{Fields: errs, Request: req})
		return f.State()
	}

	result, err := f.recommender.Submit(ctx, req)
	if err != nil {
		next := RecommendationState{Request: req}
		var derr *domain.Error
		if errors.As(err, &derr) && derr.Kind == domain.KindValidation {
			next.Fields = derr.Fields
		} else {
			next.Error = domain.Message(err)
		}
		f.set(n, next)
		return f.State()
	}

	f.set(n, RecommendationState{Request: req, Result: NewResultView(*result)})
	return f.State()
}

// Save stores the current result in the user's history.
func (f *RecommendationForm) Save(ctx context.Context) (string, error) {
	state := f.State()
	if state.Result == nil {
		return "", errors.New("no recommendation to save")
	}
	if f.history == nil {
		return "", errors.New("recommendation history is not configured")
	}

	user := f.session.State().User
	if user == nil {
		return "", domain.NewUnauthenticated(MsgSaveLogin)
	}

	saved, err := f.history.Save(ctx, *user, state.Request, state.Result.Result())
	if err != nil {
		return "", fmt.Errorf("save recommendation: %w", err)
	}

	f.logger.Info("recommendation saved", "id", saved.ID, "fertilizer", saved.Result.Fertilizer)
	return MsgSaved, nil
}

func (f *RecommendationForm) State() RecommendationState {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.state
}

func (f *RecommendationForm) Close() {
	f.seq.close()
}

func (f *RecommendationForm) set(n uint64, state RecommendationState) {
	f.seq.apply(n, func() {
		f.mu.Lock()
		f.state = state
		f.mu.Unlock()
	})
}

// Tab identifies one panel of the result card.
type Tab string

const (
	TabDescription  Tab = "desc"
	TabUsage        Tab = "usage"
	TabPrice        Tab = "price"
	TabAlternatives Tab = "alts"
)

var Tabs = []Tab{TabDescription, TabUsage, TabPrice, TabAlternatives}

func (t Tab) Label() string {
	switch t {
	case TabDescription:
		return "Description"
	case TabUsage:
		return "Usage Guidelines"
	case TabPrice:
		return "Market Price"
	case TabAlternatives:
		return "Alternatives"
	}
	return string(t)
}

// ParseTab accepts a tab id or its label, case-insensitively.
func ParseTab(s string) (Tab, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, t := range Tabs {
		if s == string(t) || s == strings.ToLower(t.Label()) {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown tab %q", s)
}

// ResultView presents a recommendation result in four independent tabs.
type ResultView struct {
	result domain.RecommendationResult

	mu     sync.Mutex
	active Tab
}

func NewResultView(result domain.RecommendationResult) *ResultView {
	return &ResultView{result: result, active: TabDescription}
}

func (v *ResultView) Result() domain.RecommendationResult {
	return v.result
}

func (v *ResultView) Title() string {
	return v.result.Fertilizer
}

func (v *ResultView) Image() string {
	return v.result.Details.Image
}

func (v *ResultView) Active() Tab {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.active
}

func (v *ResultView) Select(tab Tab) error {
	if !slices.Contains(Tabs, tab) {
		return fmt.Errorf("unknown tab %q", tab)
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.active = tab
	return nil
}

// Render returns the text of the active tab.
func (v *ResultView) Render() string {
	return v.RenderTab(v.Active())
}

func (v *ResultView) RenderTab(tab Tab) string {
	details := v.result.Details
	switch tab {
	case TabDescription:
		return details.Description
	case TabUsage:
		if details.Application != "" {
			return details.Application
		}
		return MsgUsageFallback
	case TabPrice:
		return priceText(details.Market)
	case TabAlternatives:
		return strings.Join(details.Alternatives, "\n")
	}
	return ""
}

func priceText(m *domain.MarketPrice) string {
	if m == nil {
		return MsgNoPricing
	}
	text := fmt.Sprintf("Avg Price: %s %s / %s", m.AvgPrice, m.Currency, m.Unit)
	if len(m.PackSizes) > 0 {
		packs := make([]string, 0, len(m.PackSizes))
		for _, p := range m.PackSizes {
			packs = append(packs, p.String())
		}
		text += fmt.Sprintf(" • Packs: %s %s", strings.Join(packs, ", "), m.Unit)
	}
	return text
}
