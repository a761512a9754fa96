package views

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agri_advisor/internal/domain"
)

const (
	timeout = time.Second
	tick    = 5 * time.Millisecond
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

type listCall struct {
	kind domain.ContentKind
	opts domain.ListOptions
}

type fakeSource struct {
	mu        sync.Mutex
	lists     map[domain.ContentKind][]domain.ContentRecord
	records   map[string]*domain.ContentRecord
	listErr   error
	listCalls []listCall
	// gates block a GetContent for a given id until closed.
	gates map[string]chan struct{}
	// listGates block successive ListContent calls, in order.
	listGates []chan struct{}
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		lists:   map[domain.ContentKind][]domain.ContentRecord{},
		records: map[string]*domain.ContentRecord{},
		gates:   map[string]chan struct{}{},
	}
}

func (f *fakeSource) ListContent(_ context.Context, kind domain.ContentKind, opts domain.ListOptions) ([]domain.ContentRecord, error) {
	f.mu.Lock()
	f.listCalls = append(f.listCalls, listCall{kind: kind, opts: opts})
	err := f.listErr
	list := append([]domain.ContentRecord(nil), f.lists[kind]...)
	var gate chan struct{}
	if len(f.listGates) > 0 {
		gate, f.listGates = f.listGates[0], f.listGates[1:]
	}
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (f *fakeSource) listCallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.listCalls)
}

func (f *fakeSource) setList(kind domain.ContentKind, list []domain.ContentRecord) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists[kind] = list
}

func (f *fakeSource) GetContent(_ context.Context, kind domain.ContentKind, id string) (*domain.ContentRecord, error) {
	f.mu.Lock()
	gate := f.gates[id]
	record := f.records[string(kind)+"/"+id]
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if record == nil {
		return nil, domain.NewNotFound(string(kind) + "/" + id)
	}
	return record, nil
}

func records(n int) []domain.ContentRecord {
	out := make([]domain.ContentRecord, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, domain.ContentRecord{ID: fmt.Sprintf("r%d", i), Title: fmt.Sprintf("Record %d", i), Tags: []string{}})
	}
	return out
}

type staticSession struct {
	state domain.SessionState
}

func (s staticSession) State() domain.SessionState { return s.state }

func TestListView_SlicesToLimit(t *testing.T) {
	source := newFakeSource()
	source.lists[domain.KindArticle] = records(7)

	view := NewListView(source, ListConfig{Kind: domain.KindArticle, Limit: 4}, testLogger())
	state := view.Load(context.Background())

	assert.False(t, state.Loading)
	assert.Len(t, state.Records, 4)
	assert.Equal(t, "r0", state.Records[0].ID)
	assert.False(t, state.UsingFallback)
}

func TestListView_FailureShowsEmptyList(t *testing.T) {
	source := newFakeSource()
	source.listErr = domain.NewNetworkError(errors.New("connection refused"))

	view := NewListView(source, ListConfig{Kind: domain.KindTechnique}, testLogger())
	state := view.Load(context.Background())

	assert.True(t, state.Empty())
	assert.NotNil(t, state.Records)
	assert.Error(t, state.Err)
}

func TestArticlesIndex_FallsBackToSamples(t *testing.T) {
	source := newFakeSource()

	state := NewArticlesIndex(source, testLogger()).Load(context.Background())
	assert.True(t, state.UsingFallback)
	assert.Equal(t, SampleArticles(), state.Records)

	source.listErr = errors.New("boom")
	state = NewArticlesIndex(source, testLogger()).Load(context.Background())
	assert.True(t, state.UsingFallback)
	assert.Len(t, state.Records, len(SampleArticles()))

	source.listErr = nil
	source.lists[domain.KindArticle] = records(2)
	state = NewArticlesIndex(source, testLogger()).Load(context.Background())
	assert.False(t, state.UsingFallback)
	assert.Len(t, state.Records, 2)
}

func TestAboutArticles_QueriesSection(t *testing.T) {
	source := newFakeSource()
	source.lists[domain.KindArticle] = records(6)

	state := NewAboutArticles(source, testLogger()).Load(context.Background())

	require.Len(t, source.listCalls, 1)
	assert.Equal(t, domain.ListOptions{Section: "about", Limit: 4}, source.listCalls[0].opts)
	assert.Len(t, state.Records, 4)
}

func TestHome_LoadsBothListsAndGatesForm(t *testing.T) {
	source := newFakeSource()
	source.lists[domain.KindArticle] = records(9)
	source.lists[domain.KindTechnique] = records(5)

	anonymous := NewHome(source, staticSession{}, 0, testLogger())
	state := anonymous.Load(context.Background())

	assert.Len(t, state.Articles, 4)
	assert.Len(t, state.Techniques, 4)
	assert.False(t, state.ShowRecommendation)

	var techOpts domain.ListOptions
	for _, c := range source.listCalls {
		if c.kind == domain.KindTechnique {
			techOpts = c.opts
		}
	}
	assert.Equal(t, 4, techOpts.Limit)

	signedIn := NewHome(source, staticSession{state: domain.SessionState{Token: "tok"}}, 0, testLogger())
	assert.True(t, signedIn.ShowRecommendation())
}

func TestDetailView_LastRequestWins(t *testing.T) {
	source := newFakeSource()
	source.records["articles/slow"] = &domain.ContentRecord{ID: "slow", Title: "Slow"}
	source.records["articles/fast"] = &domain.ContentRecord{ID: "fast", Title: "Fast"}
	gate := make(chan struct{})
	source.gates["slow"] = gate

	view := NewDetailView(source, domain.KindArticle, testLogger())

	done := make(chan struct{})
	go func() {
		view.Load(context.Background(), "slow")
		close(done)
	}()

	require.Eventually(t, func() bool { return view.State().Loading }, timeout, tick)
	state := view.Load(context.Background(), "fast")
	require.NotNil(t, state.Record)
	assert.Equal(t, "fast", state.Record.ID)

	close(gate)
	<-done

	assert.Equal(t, "fast", view.State().Record.ID)
}

func TestListView_LastRequestWins(t *testing.T) {
	source := newFakeSource()
	source.lists[domain.KindTechnique] = []domain.ContentRecord{{ID: "old", Title: "Old"}}
	gate := make(chan struct{})
	source.listGates = []chan struct{}{gate}

	view := NewTechniquesIndex(source, domain.ListOptions{}, testLogger())

	done := make(chan struct{})
	go func() {
		view.Load(context.Background())
		close(done)
	}()

	require.Eventually(t, func() bool { return source.listCallCount() == 1 }, timeout, tick)
	source.setList(domain.KindTechnique, []domain.ContentRecord{{ID: "new", Title: "New"}})

	state := view.Load(context.Background())
	require.Len(t, state.Records, 1)
	assert.Equal(t, "new", state.Records[0].ID)

	close(gate)
	<-done

	got := view.State()
	require.Len(t, got.Records, 1)
	assert.Equal(t, "new", got.Records[0].ID)
	assert.False(t, got.Loading)
}

func TestDetailView_CloseDropsInFlight(t *testing.T) {
	source := newFakeSource()
	source.records["techniques/t1"] = &domain.ContentRecord{ID: "t1"}
	gate := make(chan struct{})
	source.gates["t1"] = gate

	view := NewDetailView(source, domain.KindTechnique, testLogger())
	done := make(chan struct{})
	go func() {
		view.Load(context.Background(), "t1")
		close(done)
	}()

	require.Eventually(t, func() bool { return view.State().Loading }, timeout, tick)
	view.Close()
	close(gate)
	<-done

	assert.Nil(t, view.State().Record)
}

func TestDetailView_NotFound(t *testing.T) {
	view := NewDetailView(newFakeSource(), domain.KindArticle, testLogger())

	state := view.Load(context.Background(), "missing")

	assert.True(t, state.NotFound())
	assert.True(t, domain.IsKind(state.Err, domain.KindNotFound))
	assert.Empty(t, state.Brief())
}

func TestDetailState_Brief(t *testing.T) {
	long := ""
	for i := 0; i < 40; i++ {
		long += "soil "
	}
	state := DetailState{Record: &domain.ContentRecord{Description: long}}

	brief := []rune(state.Brief())
	assert.Len(t, brief, BriefLength+1)
	assert.Equal(t, '…', brief[len(brief)-1])
}

func TestCards(t *testing.T) {
	cards := Cards(domain.KindTechnique, []domain.ContentRecord{
		{ID: "t1", Title: "Drip", Content: "Body only"},
		{ID: "t2", Title: "Mulch", Description: "Short"},
	}, 0)

	require.Len(t, cards, 2)
	assert.Equal(t, "/techniques/t1", cards[0].Link)
	assert.Equal(t, "Body only", cards[0].Excerpt)
	assert.Equal(t, "Short", cards[1].Excerpt)
}
