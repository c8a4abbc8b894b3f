package consultation

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"miosa/internal/consult"
	"miosa/internal/gateway/repository/artifact"
	"miosa/internal/gateway/repository/sessionstore"
	"miosa/internal/runner"
	"miosa/internal/workers/plan"
)

type fakeLLM struct {
	fail  bool
	calls int
}

func (f *fakeLLM) Name() string { return "fake" }
func (f *fakeLLM) Close() error { return nil }

func (f *fakeLLM) GenerateJSON(_ context.Context, prompt string, _ any) (json.RawMessage, error) {
	f.calls++
	if f.fail {
		return nil, errors.New("fake llm down")
	}
	if strings.Contains(prompt, "consultant message") {
		return json.RawMessage(`{"response":"Tell me more about your workflow."}`), nil
	}
	return json.RawMessage(`{"step":"done"}`), nil
}

type fakeExtractor struct {
	facts   consult.Facts
	perCall []consult.Facts
	calls   int
}

func (f *fakeExtractor) Extract(_ context.Context, _ string, _ consult.Facts) (consult.Facts, error) {
	f.calls++
	if len(f.perCall) > 0 {
		out := f.perCall[0]
		f.perCall = f.perCall[1:]
		return out.Clone(), nil
	}
	return f.facts.Clone(), nil
}

func newTestService(t *testing.T, llm *fakeLLM, ex *fakeExtractor) *Service {
	t.Helper()
	store := sessionstore.New(filepath.Join(t.TempDir(), "sessions.json"))
	svc := New(store, artifact.NewMemoryStore(), llm)
	if ex != nil {
		svc.Extractor = ex
	}
	return svc
}

func TestHandleTurnGreeting(t *testing.T) {
	llm := &fakeLLM{}
	ex := &fakeExtractor{}
	svc := newTestService(t, llm, ex)

	sess, err := svc.StartSession(context.Background())
	if err != nil {
		t.Fatalf("StartSession() error = %v", err)
	}

	res, err := svc.HandleTurn(context.Background(), sess.SessionID, "hey there")
	if err != nil {
		t.Fatalf("HandleTurn() error = %v", err)
	}
	if res.Reply != greetingReply {
		t.Fatalf("HandleTurn() reply = %q, want greeting", res.Reply)
	}
	if res.Progress != 0 {
		t.Fatalf("HandleTurn() progress = %d, want 0", res.Progress)
	}
	if ex.calls != 0 || llm.calls != 0 {
		t.Fatalf("greeting turn hit extractor (%d) or llm (%d)", ex.calls, llm.calls)
	}
}

func TestHandleTurnVague(t *testing.T) {
	svc := newTestService(t, &fakeLLM{}, &fakeExtractor{})
	sess, _ := svc.StartSession(context.Background())

	res, err := svc.HandleTurn(context.Background(), sess.SessionID, "idk")
	if err != nil {
		t.Fatalf("HandleTurn() error = %v", err)
	}
	if !strings.Contains(res.Reply, "start simple") {
		t.Fatalf("HandleTurn() reply = %q, want clarification nudge", res.Reply)
	}
}

func TestHandleTurnUnknownSession(t *testing.T) {
	svc := newTestService(t, &fakeLLM{}, &fakeExtractor{})
	if _, err := svc.HandleTurn(context.Background(), "session-missing", "hello world business"); err == nil {
		t.Fatalf("HandleTurn() expected error for unknown session")
	}
}

func TestHandleTurnClassifiesAndScores(t *testing.T) {
	ex := &fakeExtractor{facts: consult.Facts{
		"specific_problem": consult.StringValue("contract drafting is entirely manual and slow"),
		"team_size":        consult.NumberValue(4),
	}}
	svc := newTestService(t, &fakeLLM{}, ex)
	sess, _ := svc.StartSession(context.Background())

	msg := "I run a law firm with 15 attorneys handling corporate litigation"
	res, err := svc.HandleTurn(context.Background(), sess.SessionID, msg)
	if err != nil {
		t.Fatalf("HandleTurn() error = %v", err)
	}

	if res.Profile == nil || res.Profile.Category != consult.CategoryProfessionalServices {
		t.Fatalf("HandleTurn() profile = %+v, want professional_services", res.Profile)
	}
	if res.Progress <= 0 {
		t.Fatalf("HandleTurn() progress = %d, want > 0", res.Progress)
	}
	if res.Phase != consult.PhaseFor(res.Progress) {
		t.Fatalf("HandleTurn() phase = %q inconsistent with progress %d", res.Phase, res.Progress)
	}

	stored, ok := svc.GetSession(sess.SessionID)
	if !ok {
		t.Fatalf("session not persisted")
	}
	if got := stored.Facts.Get("business_type"); got != string(consult.CategoryProfessionalServices) {
		t.Fatalf("business_type fact = %q, want seeded category", got)
	}
	if len(stored.Messages) != 2 {
		t.Fatalf("stored messages = %d, want user + assistant", len(stored.Messages))
	}
}

func TestHandleTurnAccumulatesFacts(t *testing.T) {
	ex := &fakeExtractor{perCall: []consult.Facts{
		{"specific_problem": consult.StringValue("losing track of customer orders every single day")},
		{"volume_metrics": consult.StringValue("about 120 orders per month")},
	}}
	svc := newTestService(t, &fakeLLM{}, ex)
	sess, _ := svc.StartSession(context.Background())

	first, err := svc.HandleTurn(context.Background(), sess.SessionID, "I sell handmade furniture through my online store")
	if err != nil {
		t.Fatalf("HandleTurn() first error = %v", err)
	}
	second, err := svc.HandleTurn(context.Background(), sess.SessionID, "we ship about 120 orders per month")
	if err != nil {
		t.Fatalf("HandleTurn() second error = %v", err)
	}

	stored, _ := svc.GetSession(sess.SessionID)
	if stored.Facts.Get("specific_problem") == "" {
		t.Fatalf("specific_problem from first turn lost: %v", stored.Facts)
	}
	if stored.Facts.Get("volume_metrics") == "" {
		t.Fatalf("volume_metrics from second turn missing: %v", stored.Facts)
	}
	if second.Progress <= first.Progress {
		t.Fatalf("progress did not grow with facts: first = %d, second = %d", first.Progress, second.Progress)
	}
}

func TestHandleTurnReplyFallback(t *testing.T) {
	ex := &fakeExtractor{facts: consult.Facts{
		"specific_problem": consult.StringValue("losing track of customer orders every single day"),
	}}
	svc := newTestService(t, &fakeLLM{fail: true}, ex)
	sess, _ := svc.StartSession(context.Background())

	res, err := svc.HandleTurn(context.Background(), sess.SessionID, "I sell handmade furniture through my online store")
	if err != nil {
		t.Fatalf("HandleTurn() error = %v", err)
	}
	if res.Reply == "" {
		t.Fatalf("HandleTurn() reply empty, want deterministic fallback")
	}
}

func TestHandleTurnStartsPlanOnce(t *testing.T) {
	ex := &fakeExtractor{facts: consult.Facts{
		"business_type":    consult.StringValue("professional_services"),
		"specific_problem": consult.StringValue("contract drafting is entirely manual and slow"),
	}}
	svc := newTestService(t, &fakeLLM{}, ex)
	sess, _ := svc.StartSession(context.Background())

	res, err := svc.HandleTurn(context.Background(), sess.SessionID, "sounds good, start building the system for us")
	if err != nil {
		t.Fatalf("HandleTurn() error = %v", err)
	}
	if !res.PlanStarted {
		t.Fatalf("HandleTurn() plan not started on build trigger")
	}

	// The background run finishes quickly against the fake client. The
	// artifact upload is the run's last step, so wait for it rather than
	// for the status flip.
	deadline := time.Now().Add(2 * time.Second)
	for {
		names, _ := svc.PlanArtifacts(context.Background(), sess.SessionID)
		if len(names) > 0 {
			break
		}
		if time.Now().After(deadline) {
			stored, _ := svc.GetSession(sess.SessionID)
			t.Fatalf("plan run did not finish, status = %q", stored.PlanStatus.Status)
		}
		time.Sleep(10 * time.Millisecond)
	}

	stored, _ := svc.GetSession(sess.SessionID)
	if stored.PlanStatus.Status != plan.StatusReady {
		t.Fatalf("plan status = %q, want %q", stored.PlanStatus.Status, plan.StatusReady)
	}
	if stored.Plan == nil {
		t.Fatalf("plan finished but no plan document stored")
	}

	blob, err := svc.PlanDocument(context.Background(), sess.SessionID)
	if err != nil {
		t.Fatalf("PlanDocument() error = %v", err)
	}
	var doc plan.Document
	if err := json.Unmarshal(blob, &doc); err != nil {
		t.Fatalf("PlanDocument() returned invalid JSON: %v", err)
	}
	names, _ := svc.PlanArtifacts(context.Background(), sess.SessionID)
	found := false
	for _, n := range names {
		if n == planArtifactName {
			found = true
		}
	}
	if !found {
		t.Fatalf("PlanArtifacts() = %v, want %q listed", names, planArtifactName)
	}

	res2, err := svc.HandleTurn(context.Background(), sess.SessionID, "start building it again please")
	if err != nil {
		t.Fatalf("HandleTurn() second trigger error = %v", err)
	}
	if res2.PlanStarted {
		t.Fatalf("HandleTurn() restarted plan for a finished session")
	}
}

func TestRecommendSolution(t *testing.T) {
	cases := []struct {
		problem string
		want    string
	}{
		{"support tickets pile up faster than we answer them", "Customer Service Platform"},
		{"our sales pipeline lives in a spreadsheet", "Sales Automation System"},
		{"inventory and scheduling are chaos", "Operations Dashboard"},
		{"we have no reports or analytics at all", "Analytics Platform"},
		{"everything is sticky notes", "Workflow Automation System"},
	}
	for _, tc := range cases {
		facts := consult.Facts{"specific_problem": consult.StringValue(tc.problem)}
		got := recommendSolution(facts, nil)
		if got.Name != tc.want {
			t.Fatalf("recommendSolution(%q) = %q, want %q", tc.problem, got.Name, tc.want)
		}
	}
}

func TestIsGreeting(t *testing.T) {
	cases := []struct {
		message string
		want    bool
	}{
		{"hi", true},
		{"Hello!", true},
		{"good morning", true},
		{"hello, I run a bakery and need help with orders", false},
		{"my business ships furniture", false},
	}
	for _, tc := range cases {
		if got := isGreeting(tc.message); got != tc.want {
			t.Fatalf("isGreeting(%q) = %v, want %v", tc.message, got, tc.want)
		}
	}
}

func TestHubSubscribePublish(t *testing.T) {
	hub := NewHub()
	ch, cancel := hub.Subscribe("session-1")
	defer cancel()

	events := make(chan runner.RunEvent, 4)
	emitter := &runner.ChannelEmitter{Ch: events, Task: "plan"}
	emitter.EmitStatus("planning", 5)
	hub.Publish("session-1", <-events)

	select {
	case ev := <-ch:
		if ev.Status != "planning" || ev.Progress != 5 || ev.Task != "plan" {
			t.Fatalf("event = %+v, want planning/5 from plan task", ev)
		}
	case <-time.After(time.Second):
		t.Fatalf("no event delivered")
	}

	hub.Publish("session-other", runner.RunEvent{Type: runner.EventTypeLog, Message: "x"})
	select {
	case ev := <-ch:
		t.Fatalf("unexpected cross-session event %+v", ev)
	default:
	}
}
