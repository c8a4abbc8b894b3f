package sessionstore

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"miosa/internal/consult"
	"miosa/internal/workers/plan"
)

func newFileStore(t *testing.T) *Store {
	t.Helper()
	return New(filepath.Join(t.TempDir(), "sessions.json"))
}

func TestPutGetRoundTrip(t *testing.T) {
	s := newFileStore(t)

	sess := Session{
		SessionID: "sess-1",
		CreatedAt: time.Unix(100, 0).UTC(),
		Progress:  42,
		Phase:     consult.PhaseProcessUnderstanding,
		Facts: consult.Facts{
			"business_type": consult.StringValue("law firm"),
		},
	}
	s.Put(sess)

	got, ok := s.Get("sess-1")
	require.True(t, ok)
	require.Equal(t, 42, got.Progress)
	require.Equal(t, consult.PhaseProcessUnderstanding, got.Phase)
	require.Equal(t, "law firm", got.Facts.Get("business_type"))
	require.Equal(t, plan.StatusIdle, got.PlanStatus.Status)
}

func TestGetReturnsDetachedSession(t *testing.T) {
	s := newFileStore(t)
	s.Put(Session{
		SessionID: "sess-1",
		Facts:     consult.Facts{"business_type": consult.StringValue("law firm")},
		Messages:  []Message{{Role: "user", Content: "hello"}},
	})

	got, ok := s.Get("sess-1")
	require.True(t, ok)
	got.Facts["business_type"] = consult.StringValue("changed")
	got.Messages[0].Content = "changed"

	reread, _ := s.Get("sess-1")
	require.Equal(t, "law firm", reread.Facts.Get("business_type"))
	require.Equal(t, "hello", reread.Messages[0].Content)
}

func TestGetMissing(t *testing.T) {
	s := newFileStore(t)
	_, ok := s.Get("nope")
	require.False(t, ok)
}

func TestUpdateMutatesInPlace(t *testing.T) {
	s := newFileStore(t)
	s.Put(Session{SessionID: "sess-1", Progress: 10})

	got, ok := s.Update("sess-1", func(sess *Session) {
		sess.Progress = 25
		sess.Phase = consult.PhaseProblemDiscovery
	})
	require.True(t, ok)
	require.Equal(t, 25, got.Progress)

	reread, _ := s.Get("sess-1")
	require.Equal(t, 25, reread.Progress)
	require.Equal(t, consult.PhaseProblemDiscovery, reread.Phase)
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sessions.json")
	s := New(path)
	s.Put(Session{
		SessionID: "sess-1",
		Progress:  70,
		Facts:     consult.Facts{"industry": consult.StringValue("legal")},
		PlanStatus: plan.StatusRecord{
			Status:   plan.StatusPlanningArchitecture,
			Progress: 50,
		},
	})
	s.Save()

	fresh := New(path)
	got, ok := fresh.Get("sess-1")
	require.True(t, ok)
	require.Equal(t, 70, got.Progress)
	require.Equal(t, plan.StatusPlanningArchitecture, got.PlanStatus.Status)
	require.Equal(t, "legal", got.Facts.Get("industry"))
}

func TestTryStartPlanGate(t *testing.T) {
	s := newFileStore(t)
	s.Put(Session{SessionID: "sess-1"})

	require.True(t, s.TryStartPlan("sess-1"), "first start should pass the gate")
	require.False(t, s.TryStartPlan("sess-1"), "second start must be a no-op while planning")

	got, _ := s.Get("sess-1")
	require.Equal(t, plan.StatusPlanning, got.PlanStatus.Status)
	require.False(t, got.PlanStatus.LastUpdate.IsZero(), "gate must stamp LastUpdate")

	s.SetPlanStatus("sess-1", plan.StatusRecord{Status: plan.StatusError, Error: "model unavailable"})
	require.True(t, s.TryStartPlan("sess-1"), "error status must allow a retry")
}

func TestTryStartPlanUnknownSession(t *testing.T) {
	s := newFileStore(t)
	require.False(t, s.TryStartPlan("ghost"))
}

func TestSetPlanStoresDocument(t *testing.T) {
	s := newFileStore(t)
	s.Put(Session{SessionID: "sess-1"})

	doc := plan.Document{GeneratedAt: time.Unix(200, 0).UTC()}
	s.SetPlan("sess-1", doc)

	got, _ := s.Get("sess-1")
	require.NotNil(t, got.Plan)
	require.Equal(t, doc.GeneratedAt, got.Plan.GeneratedAt)
}

func TestListOrdersByUpdatedAt(t *testing.T) {
	s := newFileStore(t)
	s.Put(Session{SessionID: "old", UpdatedAt: time.Unix(100, 0)})
	s.Put(Session{SessionID: "new", UpdatedAt: time.Unix(200, 0)})

	list := s.List()
	require.Len(t, list, 2)
	require.Equal(t, "new", list[0].SessionID)
}
