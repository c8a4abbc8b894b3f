package sessionstore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"miosa/internal/workers/plan"
)

func (s *Store) ensureLoadedFile() {
	s.loadOnce.Do(func() {
		b, err := os.ReadFile(s.path)
		if err != nil {
			return
		}
		var rows []Session
		if err := json.Unmarshal(b, &rows); err != nil {
			return
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		for _, row := range rows {
			id := strings.TrimSpace(row.SessionID)
			if id == "" {
				continue
			}
			s.byID[id] = normalizeSession(row)
		}
	})
}

func (s *Store) saveFile() {
	s.ensureLoadedFile()
	// Marshal while holding the lock so no concurrent Update mutates a fact
	// map mid-encode.
	s.mu.RLock()
	rows := make([]Session, 0, len(s.byID))
	for _, sess := range s.byID {
		rows = append(rows, normalizeSession(sess))
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].SessionID < rows[j].SessionID })
	b, err := json.MarshalIndent(rows, "", "  ")
	s.mu.RUnlock()
	if err != nil {
		return
	}
	_ = os.MkdirAll(filepath.Dir(s.path), 0o755)
	_ = os.WriteFile(s.path, b, 0o644)
}

func (s *Store) getFile(sessionID string) (Session, bool) {
	s.ensureLoadedFile()
	id := strings.TrimSpace(sessionID)
	if id == "" {
		return Session{}, false
	}
	s.mu.RLock()
	sess, ok := s.byID[id]
	s.mu.RUnlock()
	if !ok {
		return Session{}, false
	}
	return normalizeSession(sess), true
}

func (s *Store) putFile(sess Session) {
	s.ensureLoadedFile()
	normalized := normalizeSession(sess)
	if normalized.SessionID == "" {
		return
	}
	s.mu.Lock()
	s.byID[normalized.SessionID] = normalized
	s.mu.Unlock()
}

func (s *Store) updateFile(sessionID string, update func(*Session)) (Session, bool) {
	s.ensureLoadedFile()
	id := strings.TrimSpace(sessionID)
	if id == "" {
		return Session{}, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.byID[id]
	if !ok {
		return Session{}, false
	}
	update(&sess)
	sess.SessionID = id
	sess = normalizeSession(sess)
	s.byID[id] = sess
	return sess, true
}

func (s *Store) listFile() []Session {
	s.ensureLoadedFile()
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Session, 0, len(s.byID))
	for _, sess := range s.byID {
		out = append(out, normalizeSession(sess))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out
}

func (s *Store) tryStartPlanFile(sessionID string) bool {
	s.ensureLoadedFile()
	id := strings.TrimSpace(sessionID)
	if id == "" {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.byID[id]
	if !ok {
		return false
	}
	if !plan.StartAllowed(sess.PlanStatus.Status) {
		return false
	}
	sess.PlanStatus = plan.StatusRecord{Status: plan.StatusPlanning, Progress: 5, LastUpdate: time.Now()}
	s.byID[id] = normalizeSession(sess)
	return true
}
