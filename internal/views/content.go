package views

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"agri_advisor/internal/content"
	"agri_advisor/internal/domain"
)

const (
	DefaultHomeLimit     = 4
	DefaultAboutLimit    = 4
	DefaultExcerptLength = 150
	BriefLength          = 180
)

// ContentSource fetches normalized content records.
type ContentSource interface {
	ListContent(ctx context.Context, kind domain.ContentKind, opts domain.ListOptions) ([]domain.ContentRecord, error)
	GetContent(ctx context.Context, kind domain.ContentKind, id string) (*domain.ContentRecord, error)
}

// SessionReader exposes the current session snapshot.
type SessionReader interface {
	State() domain.SessionState
}

// ListConfig describes what a list view shows.
type ListConfig struct {
	Kind    domain.ContentKind
	Options domain.ListOptions
	// Limit caps the displayed records. Zero shows everything.
	Limit int
	// Fallback records are shown when the list comes back empty or fails.
	Fallback []domain.ContentRecord
}

type ListState struct {
	Loading       bool
	Records       []domain.ContentRecord
	UsingFallback bool
	Err           error
}

// Empty reports a finished load with nothing to show.
func (s ListState) Empty() bool {
	return !s.Loading && len(s.Records) == 0
}

// ListView is the state behind an article or technique listing.
type ListView struct {
	source ContentSource
	cfg    ListConfig
	logger *slog.Logger

	seq   sequence
	mu    sync.RWMutex
	state ListState
}

func NewListView(source ContentSource, cfg ListConfig, logger *slog.Logger) *ListView {
	return &ListView{
		source: source,
		cfg:    cfg,
		logger: logger.With("component", "views", "view", "list", "kind", cfg.Kind),
		state:  ListState{Records: []domain.ContentRecord{}},
	}
}

// NewArticlesIndex lists every article and falls back to sample articles.
func NewArticlesIndex(source ContentSource, logger *slog.Logger) *ListView {
	return NewListView(source, ListConfig{
		Kind:     domain.KindArticle,
		Fallback: SampleArticles(),
	}, logger)
}

// NewTechniquesIndex lists techniques, optionally filtered.
func NewTechniquesIndex(source ContentSource, opts domain.ListOptions, logger *slog.Logger) *ListView {
	return NewListView(source, ListConfig{
		Kind:    domain.KindTechnique,
		Options: opts,
		Limit:   opts.Limit,
	}, logger)
}

// NewAboutArticles lists the articles shown on the about page.
func NewAboutArticles(source ContentSource, logger *slog.Logger) *ListView {
	return NewListView(source, ListConfig{
		Kind:    domain.KindArticle,
		Options: domain.ListOptions{Section: "about", Limit: DefaultAboutLimit},
		Limit:   DefaultAboutLimit,
	}, logger)
}

// Load fetches the list. A response that arrives after a newer Load or after
// Close is dropped, and the returned state is whatever the view then holds.
func (v *ListView) Load(ctx context.Context) ListState {
	n := v.seq.next()
	v.seq.apply(n, func() {
		v.mu.Lock()
		v.state.Loading = true
		v.mu.Unlock()
	})

	records, err := v.source.ListContent(ctx, v.cfg.Kind, v.cfg.Options)
	if err != nil {
		v.logger.Warn("failed to load list", "error", err)
		records = nil
	}

	next := ListState{Records: limit(records, v.cfg.Limit), Err: err}
	if len(next.Records) == 0 && len(v.cfg.Fallback) > 0 {
		next.Records = limit(slices.Clone(v.cfg.Fallback), v.cfg.Limit)
		next.UsingFallback = true
	}

	if !v.seq.apply(n, func() {
		v.mu.Lock()
		v.state = next
		v.mu.Unlock()
	}) {
		v.logger.Debug("dropping stale list response")
	}
	return v.State()
}

func (v *ListView) State() ListState {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.state
}

func (v *ListView) Kind() domain.ContentKind {
	return v.cfg.Kind
}

// Close invalidates every request still in flight.
func (v *ListView) Close() {
	v.seq.close()
}

func limit(records []domain.ContentRecord, n int) []domain.ContentRecord {
	if records == nil {
		return []domain.ContentRecord{}
	}
	if n > 0 && len(records) > n {
		return records[:n]
	}
	return records
}

type DetailState struct {
	Loading bool
	Record  *domain.ContentRecord
	Err     error
}

// NotFound reports a finished load without a record.
func (s DetailState) NotFound() bool {
	return !s.Loading && s.Record == nil
}

// Brief is the short lead shown above the body.
func (s DetailState) Brief() string {
	if s.Record == nil {
		return ""
	}
	return content.Excerpt(content.Summary(*s.Record), BriefLength)
}

// Published renders the publication date, or "" when unknown.
func (s DetailState) Published() string {
	if s.Record == nil {
		return ""
	}
	return content.FormatDate(s.Record.PublishedAt)
}

// DetailView is the state behind a single article or technique page.
type DetailView struct {
	source ContentSource
	kind   domain.ContentKind
	logger *slog.Logger

	seq   sequence
	mu    sync.RWMutex
	state DetailState
}

func NewDetailView(source ContentSource, kind domain.ContentKind, logger *slog.Logger) *DetailView {
	return &DetailView{
		source: source,
		kind:   kind,
		logger: logger.With("component", "views", "view", "detail", "kind", kind),
	}
}

// Load fetches the record with the given id. Any failure leaves the view in
// the not-found state.
func (v *DetailView) Load(ctx context.Context, id string) DetailState {
	n := v.seq.next()
	v.seq.apply(n, func() {
		v.mu.Lock()
		v.state = DetailState{Loading: true}
		v.mu.Unlock()
	})

	record, err := v.source.GetContent(ctx, v.kind, id)
	if err != nil {
		if !domain.IsKind(err, domain.KindNotFound) {
			v.logger.Warn("failed to load record", "id", id, "error", err)
		}
		record = nil
	}

	v.seq.apply(n, func() {
		v.mu.Lock()
		v.state = DetailState{Record: record, Err: err}
		v.mu.Unlock()
	})
	return v.State()
}

func (v *DetailView) State() DetailState {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.state
}

func (v *DetailView) Close() {
	v.seq.close()
}

// Card is a list entry as rendered on index pages.
type Card struct {
	ID        string
	Title     string
	Image     string
	Excerpt   string
	Published string
	Link      string
}

// Cards renders records as cards with excerpts of at most excerptLen runes.
func Cards(kind domain.ContentKind, records []domain.ContentRecord, excerptLen int) []Card {
	if excerptLen <= 0 {
		excerptLen = DefaultExcerptLength
	}
	cards := make([]Card, 0, len(records))
	for _, r := range records {
		cards = append(cards, Card{
			ID:        r.ID,
			Title:     r.Title,
			Image:     r.Image,
			Excerpt:   content.Excerpt(content.Summary(r), excerptLen),
			Published: content.FormatDate(r.PublishedAt),
			Link:      "/" + string(kind) + "/" + r.ID,
		})
	}
	return cards
}

type HomeState struct {
	Articles   []domain.ContentRecord
	Techniques []domain.ContentRecord
	// ShowRecommendation is set while the session holds a token.
	ShowRecommendation bool
}

// Home combines the landing page lists and gates the recommendation form on
// the session.
type Home struct {
	Articles   *ListView
	Techniques *ListView
	session    SessionReader
}

func NewHome(source ContentSource, session SessionReader, limit int, logger *slog.Logger) *Home {
	if limit <= 0 {
		limit = DefaultHomeLimit
	}
	return &Home{
		Articles: NewListView(source, ListConfig{
			Kind:  domain.KindArticle,
			Limit: limit,
		}, logger),
		Techniques: NewListView(source, ListConfig{
			Kind:    domain.KindTechnique,
			Options: domain.ListOptions{Limit: limit},
			Limit:   limit,
		}, logger),
		session: session,
	}
}

// Load fetches both lists concurrently.
func (h *Home) Load(ctx context.Context) HomeState {
	var g errgroup.Group
	g.Go(func() error {
		h.Articles.Load(ctx)
		return nil
	})
	g.Go(func() error {
		h.Techniques.Load(ctx)
		return nil
	})
	_ = g.Wait()
	return h.State()
}

func (h *Home) State() HomeState {
	return HomeState{
		Articles:           h.Articles.State().Records,
		Techniques:         h.Techniques.State().Records,
		ShowRecommendation: h.ShowRecommendation(),
	}
}

func (h *Home) ShowRecommendation() bool {
	return h.session.State().Authenticated()
}

func (h *Home) Close() {
	h.Articles.Close()
	h.Techniques.Close()
}

// SampleArticles are shown by the articles index when the server has none.
func SampleArticles() []domain.ContentRecord {
	published := time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)
	return []domain.ContentRecord{
		{
			ID:          "sample-soil-testing",
			Title:       "Why Soil Testing Comes First",
			Image:       domain.PlaceholderImage,
			Description: "A soil test tells you which nutrients are missing before you spend money on fertilizer.",
			Content:     "A soil test tells you which nutrients are missing before you spend money on fertilizer. Sample at the same depth across the field and send the mix to an accredited lab.",
			PublishedAt: &published,
			Author:      domain.DefaultAuthor,
			Tags:        []string{"soil"},
		},
		{
			ID:          "sample-npk-basics",
			Title:       "NPK Basics for Cereal Crops",
			Image:       domain.PlaceholderImage,
			Description: "Nitrogen drives leaf growth, phosphorus roots and potassium grain fill.",
			Content:     "Nitrogen drives leaf growth, phosphorus roots and potassium grain fill. Split nitrogen doses to match crop uptake and reduce losses.",
			PublishedAt: &published,
			Author:      domain.DefaultAuthor,
			Tags:        []string{"nutrients"},
		},
		{
			ID:          "sample-moisture",
			Title:       "Reading Soil Moisture",
			Image:       domain.PlaceholderImage,
			Description: "Fertilizer works best when applied to moist soil.",
			Content:     "Fertilizer works best when applied to moist soil. Avoid application right before heavy rain to limit runoff.",
			PublishedAt: &published,
			Author:      domain.DefaultAuthor,
			Tags:        []string{"irrigation"},
		},
	}
}
