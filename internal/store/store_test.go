package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/capevent/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func str(s string) *string { return &s }

func testEvent(id string, eventType model.EventType, occurred string, graphSafe bool) *model.CapitalEvent {
	ev := &model.CapitalEvent{
		SchemaVersion:   model.SchemaVersion,
		EngineVersion:   model.EngineVersion,
		EventID:         id,
		Source:          model.Source{Publisher: "TechCrunch", URL: "https://techcrunch.com/" + id, Title: "Zepto raises $200M"},
		EventType:       eventType,
		Verb:            "raises",
		FrameType:       model.FrameSelfEvent,
		FrameConfidence: 0.9,
		Subject:         str("Zepto"),
		Entities: []model.Entity{
			{Name: "Zepto", Role: model.RoleSubject, Provenance: model.ProvenanceFrame, Confidence: 0.9},
		},
		Notes: []string{},
		Extraction: model.Extraction{
			PatternID: "self_fund_raise",
			Decision:  model.DecisionAccept,
			GraphSafe: graphSafe,
		},
	}
	if occurred != "" {
		ev.OccurredAt = str(occurred)
	}
	return ev
}

func TestOpen_CreatesSchema(t *testing.T) {
	s := newTestStore(t)

	var name string
	err := s.db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='capital_events'").Scan(&name)
	require.NoError(t, err)
	assert.Equal(t, "capital_events", name)
}

func TestOpen_FileDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "events.db")
	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Put(context.Background(), testEvent("e1", model.EventFunding, "", true)))
	require.NoError(t, s.Close())

	// Reopen and read back
	s, err = Open(path)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	ev, err := s.Get(context.Background(), "e1")
	require.NoError(t, err)
	assert.Equal(t, "Zepto", *ev.Subject)
}

func TestOpen_EmptyPath(t *testing.T) {
	_, err := Open("")
	assert.Error(t, err)
}

func TestPutGet_RoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	in := testEvent("e1", model.EventFunding, "2024-03-01T00:00:00Z", true)
	in.Amount = &model.Amount{Raw: "$200M", Currency: "USD", Value: 200, Magnitude: model.MagnitudeM}
	require.NoError(t, s.Put(ctx, in))

	out, err := s.Get(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, in.EventType, out.EventType)
	assert.Equal(t, in.Entities, out.Entities)
	require.NotNil(t, out.Amount)
	assert.Equal(t, 200.0, out.Amount.Value)
	assert.Equal(t, "2024-03-01T00:00:00Z", *out.OccurredAt)
}

func TestPut_Upserts(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, testEvent("e1", model.EventFunding, "", true)))
	require.NoError(t, s.Put(ctx, testEvent("e1", model.EventInvestment, "", false)))

	ev, err := s.Get(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, model.EventInvestment, ev.EventType)

	st, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), st.Total)
	assert.Equal(t, int64(0), st.GraphSafe)
}

func TestPut_MissingID(t *testing.T) {
	s := newTestStore(t)
	err := s.Put(context.Background(), testEvent("", model.EventFunding, "", true))
	assert.Error(t, err)

	st, err := s.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(0), st.Total, "failed batch is rolled back")
}

func TestGet_NotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Get(context.Background(), "missing")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestList_FiltersAndOrder(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.PutBatch(ctx, []*model.CapitalEvent{
		testEvent("old", model.EventFunding, "2023-01-01T00:00:00Z", true),
		testEvent("new", model.EventFunding, "2024-06-01T00:00:00Z", true),
		testEvent("undated", model.EventFunding, "", true),
		testEvent("merger", model.EventMerger, "2024-01-01T00:00:00Z", false),
	}))

	all, err := s.List(ctx, ListOpts{})
	require.NoError(t, err)
	ids := make([]string, 0, len(all))
	for _, ev := range all {
		ids = append(ids, ev.EventID)
	}
	assert.Equal(t, []string{"new", "merger", "old", "undated"}, ids)

	funding, err := s.List(ctx, ListOpts{EventType: model.EventFunding, Limit: 2})
	require.NoError(t, err)
	require.Len(t, funding, 2)
	assert.Equal(t, "new", funding[0].EventID)

	safe, err := s.List(ctx, ListOpts{GraphSafeOnly: true})
	require.NoError(t, err)
	assert.Len(t, safe, 3)

	page, err := s.List(ctx, ListOpts{Limit: 2, Offset: 3})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "undated", page[0].EventID)
}

func TestStats(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	rejected := testEvent("topic", model.EventFiltered, "", false)
	rejected.Extraction.Decision = model.DecisionReject

	require.NoError(t, s.PutBatch(ctx, []*model.CapitalEvent{
		testEvent("a", model.EventFunding, "", true),
		testEvent("b", model.EventFunding, "", false),
		rejected,
	}))

	st, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), st.Total)
	assert.Equal(t, int64(1), st.GraphSafe)
	assert.Equal(t, int64(1), st.Rejected)
	assert.Equal(t, int64(2), st.ByType[model.EventFunding])
	assert.Equal(t, int64(1), st.ByType[model.EventFiltered])
}

func TestPut_StoredAtUsesClock(t *testing.T) {
	s := newTestStore(t)
	fixed := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	require.NoError(t, s.Put(context.Background(), testEvent("e1", model.EventFunding, "", true)))

	var storedAt string
	require.NoError(t, s.db.QueryRow("SELECT stored_at FROM capital_events WHERE event_id = 'e1'").Scan(&storedAt))
	assert.Equal(t, "2025-01-02T03:04:05Z", storedAt)
}
