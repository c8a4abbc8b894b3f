package sessionstore

import (
	"strings"
	"time"

	"miosa/internal/consult"
	"miosa/internal/workers/plan"
)

// Message is one conversational turn kept on the session.
type Message struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Session is the full persisted state of one consultation.
type Session struct {
	SessionID  string            `json:"session_id"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
	Phase      consult.Phase     `json:"phase,omitempty"`
	Progress   int               `json:"progress"`
	Messages   []Message         `json:"messages,omitempty"`
	Facts      consult.Facts     `json:"facts,omitempty"`
	Profile    consult.Profile   `json:"profile,omitempty"`
	PlanStatus plan.StatusRecord `json:"plan_status"`
	Plan       *plan.Document    `json:"plan,omitempty"`
}

// normalizeSession fills defaults and detaches the session from any shared
// state. Facts and Messages are copied so a session handed out by the store
// never aliases the stored one across goroutines.
func normalizeSession(s Session) Session {
	s.SessionID = strings.TrimSpace(s.SessionID)
	if s.Phase == "" {
		s.Phase = consult.PhaseInitial
	}
	if s.PlanStatus.Status == "" {
		s.PlanStatus.Status = plan.StatusIdle
	}
	s.Facts = s.Facts.Clone()
	if s.Messages != nil {
		s.Messages = append([]Message(nil), s.Messages...)
	}
	return s
}

type rowScanner interface {
	Scan(dest ...any) error
}
