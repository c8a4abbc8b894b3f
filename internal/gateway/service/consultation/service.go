package consultation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"miosa/internal/consult"
	"miosa/internal/gateway/repository/artifact"
	"miosa/internal/gateway/repository/sessionstore"
	llmclient "miosa/internal/llm/client"
	"miosa/internal/runner"
	"miosa/internal/util/jsonutil"
	"miosa/internal/workers/plan"
)

// Service runs the consultation loop: it classifies the business, extracts
// facts, scores progress, and kicks off background planning once the session
// is ready.
type Service struct {
	Store     *sessionstore.Store
	Artifacts artifact.Store
	LLM       llmclient.LLMClient
	Extractor Extractor
	Hub       *Hub

	classifier *consult.Classifier
	scorer     *consult.Scorer
	planner    *plan.Planner

	// minConfidence is the classification confidence below which a profile
	// is not stored on the session.
	minConfidence float64
}

func New(store *sessionstore.Store, artifacts artifact.Store, llm llmclient.LLMClient) *Service {
	return &Service{
		Store:         store,
		Artifacts:     artifacts,
		LLM:           llm,
		Extractor:     &LLMExtractor{LLM: llm},
		Hub:           NewHub(),
		classifier:    consult.NewClassifier(),
		scorer:        consult.NewScorer(),
		planner:       &plan.Planner{LLM: llm},
		minConfidence: 0.3,
	}
}

// TurnResult is what one consultation turn returns to the caller.
type TurnResult struct {
	SessionID   string            `json:"session_id"`
	Reply       string            `json:"response"`
	Phase       consult.Phase     `json:"phase"`
	Progress    int               `json:"progress"`
	Profile     *consult.Profile  `json:"profile,omitempty"`
	Ready       bool              `json:"ready_for_generation"`
	PlanStarted bool              `json:"plan_started"`
	PlanStatus  plan.StatusRecord `json:"plan_status"`
	Solution    *Solution         `json:"recommended_solution,omitempty"`
}

// StartSession creates a new empty session and returns it.
func (s *Service) StartSession(ctx context.Context) (sessionstore.Session, error) {
	s.Store.EnsureLoaded()
	now := time.Now()
	sess := sessionstore.Session{
		SessionID: fmt.Sprintf("session-%d", now.UnixNano()),
		CreatedAt: now,
		UpdatedAt: now,
		Phase:     consult.PhaseInitial,
		Facts:     consult.Facts{},
	}
	sess.PlanStatus.Status = plan.StatusIdle
	s.Store.Put(sess)
	s.Store.Save()
	return sess, nil
}

// GetSession returns one session by ID.
func (s *Service) GetSession(sessionID string) (sessionstore.Session, bool) {
	s.Store.EnsureLoaded()
	return s.Store.Get(sessionID)
}

// ListSessions returns all sessions.
func (s *Service) ListSessions() []sessionstore.Session {
	s.Store.EnsureLoaded()
	return s.Store.List()
}

const planArtifactName = "plan.json"

// PlanDocument returns the finished plan JSON, preferring the artifact store
// copy and falling back to the session record.
func (s *Service) PlanDocument(ctx context.Context, sessionID string) ([]byte, error) {
	if s.Artifacts != nil {
		blob, err := s.Artifacts.Get(ctx, sessionID, planArtifactName)
		if err == nil {
			return blob, nil
		}
		if !errors.Is(err, artifact.ErrNotFound) {
			return nil, err
		}
	}
	sess, ok := s.Store.Get(sessionID)
	if !ok || sess.Plan == nil {
		return nil, artifact.ErrNotFound
	}
	return json.Marshal(sess.Plan)
}

// PlanArtifacts lists the stored artifact names for a session and, when the
// backend can presign, a download URL for the plan document.
func (s *Service) PlanArtifacts(ctx context.Context, sessionID string) ([]string, string) {
	if s.Artifacts == nil {
		return nil, ""
	}
	names, err := s.Artifacts.List(ctx, sessionID)
	if err != nil {
		log.Printf("consultation: artifact list failed for %s: %v", sessionID, err)
		return nil, ""
	}
	url, err := s.Artifacts.GetURL(ctx, sessionID, planArtifactName)
	if err != nil {
		url = ""
	}
	return names, url
}

// HandleTurn processes one user message for a session and advances its state.
func (s *Service) HandleTurn(ctx context.Context, sessionID, message string) (TurnResult, error) {
	s.Store.EnsureLoaded()
	sess, ok := s.Store.Get(sessionID)
	if !ok {
		return TurnResult{}, fmt.Errorf("consultation: session %q not found", sessionID)
	}

	message = strings.TrimSpace(message)
	if message == "" {
		return TurnResult{}, fmt.Errorf("consultation: empty message")
	}

	now := time.Now()
	sess.Messages = append(sess.Messages, sessionstore.Message{
		Role: "user", Content: message, CreatedAt: now,
	})

	// Greetings and throwaway replies get a canned answer without spending
	// an LLM call or disturbing the score.
	if reply := s.localReply(message); reply != "" {
		return s.finishTurn(sess, reply, nil, false), nil
	}

	// Classify once, as early as a confident read is possible.
	if sess.Profile.Category == "" || sess.Profile.Category == consult.CategoryUnknown {
		profile := s.classifier.Identify(message)
		if profile.Confidence > s.minConfidence {
			sess.Profile = profile
			seedProfileFacts(&sess)
		}
	}

	// Extract structured facts and merge them into what we already know.
	if extracted, err := s.Extractor.Extract(ctx, message, sess.Facts); err != nil {
		log.Printf("consultation: fact extraction failed for %s: %v", sessionID, err)
	} else if sess.Facts.Merge(extracted) {
		log.Printf("consultation: facts updated for %s", sessionID)
	}

	result := s.scorer.Score(sess.Facts, sess.Progress)
	sess.Progress = result.Progress
	sess.Phase = consult.PhaseFor(result.Progress)

	ready := consult.ReadyForGeneration(result.Progress)
	shouldBuild := consult.ShouldBuild(message, result.Progress, result.ComprehensiveDetected, sess.Facts)

	var solution *Solution
	if ready || result.ComprehensiveDetected {
		sol := recommendSolution(sess.Facts, &sess.Profile)
		solution = &sol
	}

	reply, err := s.composeReply(ctx, &sess, message, solution)
	if err != nil {
		log.Printf("consultation: reply generation failed for %s: %v", sessionID, err)
		reply = s.fallbackReply(&sess)
	}

	planStarted := false
	if shouldBuild || (ready && plan.CanStart(sess.Facts)) {
		planStarted = s.startPlan(sess)
	}

	return s.finishTurn(sess, reply, solution, planStarted), nil
}

func (s *Service) localReply(message string) string {
	if isGreeting(message) {
		return greetingReply
	}
	return vagueReply(message)
}

// seedProfileFacts copies the classified business type into the fact map so
// scoring credits it before extraction confirms it.
func seedProfileFacts(sess *sessionstore.Session) {
	if sess.Facts == nil {
		sess.Facts = consult.Facts{}
	}
	sess.Facts.Merge(consult.Facts{
		"business_type":        consult.StringValue(string(sess.Profile.Category)),
		"business_subcategory": consult.StringValue(sess.Profile.Subcategory),
	})
}

// finishTurn persists the turn's changes without touching the plan fields,
// which the background planner owns once a run has started.
func (s *Service) finishTurn(sess sessionstore.Session, reply string, solution *Solution, planStarted bool) TurnResult {
	sess.Messages = append(sess.Messages, sessionstore.Message{
		Role: "assistant", Content: reply, CreatedAt: time.Now(),
	})
	sess.UpdatedAt = time.Now()

	stored, ok := s.Store.Update(sess.SessionID, func(cur *sessionstore.Session) {
		cur.Messages = sess.Messages
		cur.Facts = sess.Facts
		cur.Profile = sess.Profile
		cur.Phase = sess.Phase
		cur.Progress = sess.Progress
		cur.UpdatedAt = sess.UpdatedAt
	})
	if !ok {
		s.Store.Put(sess)
		stored = sess
	}
	s.Store.Save()
	sess.PlanStatus = stored.PlanStatus

	res := TurnResult{
		SessionID:   sess.SessionID,
		Reply:       reply,
		Phase:       sess.Phase,
		Progress:    sess.Progress,
		Ready:       consult.ReadyForGeneration(sess.Progress),
		PlanStarted: planStarted,
		PlanStatus:  sess.PlanStatus,
		Solution:    solution,
	}
	if sess.Profile.Category != "" {
		profile := sess.Profile
		res.Profile = &profile
	}
	return res
}

const replyPrompt = `You are a business consultant gathering requirements for a custom software build.
Given the conversation state, write the next consultant message.
Be concise and concrete. Ask at most two questions, chosen to fill the
largest gaps in the known facts. If a recommended solution is present,
describe it briefly and ask whether to start building.
Return JSON: {"response": "<the message>"}.`

func (s *Service) composeReply(ctx context.Context, sess *sessionstore.Session, message string, solution *Solution) (string, error) {
	input := map[string]any{
		"message":  message,
		"facts":    sess.Facts,
		"phase":    sess.Phase,
		"progress": sess.Progress,
	}
	if sess.Profile.Category != "" {
		input["profile"] = sess.Profile
	}
	if solution != nil {
		input["recommended_solution"] = solution
	}
	raw, err := s.LLM.GenerateJSON(ctx, replyPrompt, input)
	if err != nil {
		return "", err
	}
	var out struct {
		Response string `json:"response"`
	}
	if err := jsonutil.UnmarshalFlex(raw, &out); err != nil {
		return "", fmt.Errorf("decode reply: %w", err)
	}
	if strings.TrimSpace(out.Response) == "" {
		return "", fmt.Errorf("empty reply")
	}
	return out.Response, nil
}

// fallbackReply produces a deterministic next question when the LLM reply
// fails, drawn from the classifier's suggested questions.
func (s *Service) fallbackReply(sess *sessionstore.Session) string {
	if len(sess.Profile.SuggestedQuestions) > 0 {
		return sess.Profile.SuggestedQuestions[0]
	}
	return "Could you walk me through your current process for this problem, step by step?"
}

// startPlan gates on the store and, if this turn won the race, launches the
// planner in the background.
func (s *Service) startPlan(sess sessionstore.Session) bool {
	if !s.Store.TryStartPlan(sess.SessionID) {
		return false
	}

	in := plan.In{
		SessionID: sess.SessionID,
		Facts:     sess.Facts.Clone(),
		Profile:   sess.Profile,
	}
	go s.runPlan(in)
	return true
}

func (s *Service) runPlan(in plan.In) {
	ctx := context.Background()
	if s.Hub != nil {
		events := make(chan runner.RunEvent, 32)
		forwarded := make(chan struct{})
		go func() {
			defer close(forwarded)
			for evt := range events {
				s.Hub.Publish(in.SessionID, evt)
			}
		}()
		defer func() {
			close(events)
			<-forwarded
		}()
		ctx = runner.WithEmitter(ctx, &runner.ChannelEmitter{Ch: events, Task: "plan"})
	}

	sink := func(ctx context.Context, rec plan.StatusRecord) error {
		s.Store.SetPlanStatus(in.SessionID, rec)
		s.Store.Save()
		return nil
	}

	doc, err := s.planner.Run(ctx, in, sink)
	if err != nil {
		log.Printf("consultation: plan run failed for %s: %v", in.SessionID, err)
		return
	}

	s.Store.SetPlan(in.SessionID, doc)
	s.Store.Save()

	if s.Artifacts != nil {
		if blob, err := json.Marshal(doc); err == nil {
			if err := s.Artifacts.Put(ctx, in.SessionID, planArtifactName, blob); err != nil {
				log.Printf("consultation: plan artifact upload failed for %s: %v", in.SessionID, err)
			}
		}
	}
}
