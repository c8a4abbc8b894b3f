package sessionstore

import (
	"encoding/json"
	"strings"
	"time"

	"miosa/internal/workers/plan"
)

func (s *Store) ensureSchema() error {
	if s == nil || s.db == nil {
		return nil
	}
	s.schemaOnce.Do(func() {
		_, s.schemaErr = s.db.Exec(`
CREATE TABLE IF NOT EXISTS sessions (
  session_id TEXT PRIMARY KEY,
  state JSONB NOT NULL,
  plan_status TEXT NOT NULL DEFAULT 'idle',
  updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_sessions_updated_at ON sessions (updated_at DESC);
`)
	})
	return s.schemaErr
}

func scanSession(row rowScanner) (Session, bool) {
	var raw []byte
	if err := row.Scan(&raw); err != nil {
		return Session{}, false
	}
	var sess Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return Session{}, false
	}
	return normalizeSession(sess), true
}

func (s *Store) getDB(sessionID string) (Session, bool) {
	if err := s.ensureSchema(); err != nil {
		return Session{}, false
	}
	id := strings.TrimSpace(sessionID)
	if id == "" {
		return Session{}, false
	}
	row := s.db.QueryRow(`SELECT state FROM sessions WHERE session_id = $1`, id)
	return scanSession(row)
}

func (s *Store) putDB(sess Session) {
	if err := s.ensureSchema(); err != nil {
		return
	}
	n := normalizeSession(sess)
	if n.SessionID == "" {
		return
	}
	raw, err := json.Marshal(n)
	if err != nil {
		return
	}
	_, _ = s.db.Exec(`
INSERT INTO sessions (session_id, state, plan_status, updated_at)
VALUES ($1, $2, $3, NOW())
ON CONFLICT (session_id)
DO UPDATE SET state=EXCLUDED.state,
  plan_status=EXCLUDED.plan_status,
  updated_at=NOW()`,
		n.SessionID, raw, string(n.PlanStatus.Status))
}

func (s *Store) updateDB(sessionID string, update func(*Session)) (Session, bool) {
	if err := s.ensureSchema(); err != nil {
		return Session{}, false
	}
	tx, err := s.db.Begin()
	if err != nil {
		return Session{}, false
	}
	defer func() { _ = tx.Rollback() }()

	id := strings.TrimSpace(sessionID)
	row := tx.QueryRow(`SELECT state FROM sessions WHERE session_id = $1 FOR UPDATE`, id)
	cur, ok := scanSession(row)
	if !ok {
		return Session{}, false
	}
	update(&cur)
	cur.SessionID = id
	cur = normalizeSession(cur)
	raw, err := json.Marshal(cur)
	if err != nil {
		return Session{}, false
	}
	_, err = tx.Exec(`UPDATE sessions SET state=$2, plan_status=$3, updated_at=NOW() WHERE session_id=$1`,
		cur.SessionID, raw, string(cur.PlanStatus.Status))
	if err != nil {
		return Session{}, false
	}
	if err := tx.Commit(); err != nil {
		return Session{}, false
	}
	return cur, true
}

func (s *Store) listDB() []Session {
	if err := s.ensureSchema(); err != nil {
		return nil
	}
	rows, err := s.db.Query(`SELECT state FROM sessions ORDER BY updated_at DESC`)
	if err != nil {
		return nil
	}
	defer rows.Close()
	out := make([]Session, 0, 32)
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			continue
		}
		var sess Session
		if err := json.Unmarshal(raw, &sess); err != nil {
			continue
		}
		out = append(out, normalizeSession(sess))
	}
	return out
}

// tryStartPlanDB performs the start gate as a compare-and-set on the
// plan_status column, so two gateway replicas cannot both spawn a planner
// for the same session.
func (s *Store) tryStartPlanDB(sessionID string) bool {
	if err := s.ensureSchema(); err != nil {
		return false
	}
	id := strings.TrimSpace(sessionID)
	if id == "" {
		return false
	}
	rec := plan.StatusRecord{Status: plan.StatusPlanning, Progress: 5, LastUpdate: time.Now()}
	patch, err := json.Marshal(rec)
	if err != nil {
		return false
	}
	res, err := s.db.Exec(`
UPDATE sessions
SET plan_status = 'planning',
    state = jsonb_set(state, '{plan_status}', $2::jsonb),
    updated_at = NOW()
WHERE session_id = $1 AND plan_status IN ('idle', 'error')`,
		id, patch)
	if err != nil {
		return false
	}
	n, err := res.RowsAffected()
	return err == nil && n == 1
}
