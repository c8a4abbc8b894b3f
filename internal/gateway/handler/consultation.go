package handler

import (
	"encoding/json"
	"net/http"
	"sort"
	"strings"

	"miosa/internal/gateway/repository/sessionstore"
)

func (h *ConsultationHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *ConsultationHandler) HandleStart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	sess, err := h.svc.StartSession(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"session_id": sess.SessionID,
		"phase":      sess.Phase,
		"progress":   sess.Progress,
		"created_at": sess.CreatedAt,
	})
}

func (h *ConsultationHandler) HandleContinue(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var in struct {
		SessionID string `json:"session_id"`
		Message   string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	sessionID := strings.TrimSpace(in.SessionID)
	message := strings.TrimSpace(in.Message)
	if sessionID == "" || message == "" {
		writeError(w, http.StatusBadRequest, "session_id and message are required")
		return
	}

	res, err := h.svc.HandleTurn(r.Context(), sessionID, message)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *ConsultationHandler) HandleListSessions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	sessions := h.svc.ListSessions()
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].UpdatedAt.After(sessions[j].UpdatedAt)
	})

	out := make([]map[string]any, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, sessionSummary(s))
	}
	writeJSON(w, http.StatusOK, map[string]any{"sessions": out})
}

// HandleSession serves GET /api/v1/sessions/{id} and its /plan subresource.
func (h *ConsultationHandler) HandleSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/v1/sessions/"), "/")
	sessionID, sub, _ := strings.Cut(rest, "/")
	if sessionID == "" {
		writeError(w, http.StatusBadRequest, "session id is required")
		return
	}

	sess, ok := h.svc.GetSession(sessionID)
	if !ok {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}

	switch sub {
	case "":
		writeJSON(w, http.StatusOK, sess)
	case "plan":
		out := map[string]any{
			"session_id":  sess.SessionID,
			"plan_status": sess.PlanStatus,
		}
		if sess.Plan != nil {
			out["plan"] = sess.Plan
		}
		if names, url := h.svc.PlanArtifacts(r.Context(), sess.SessionID); len(names) > 0 {
			out["artifacts"] = names
			if url != "" {
				out["download_url"] = url
			}
		}
		writeJSON(w, http.StatusOK, out)
	case "plan/download":
		blob, err := h.svc.PlanDocument(r.Context(), sess.SessionID)
		if err != nil {
			writeError(w, http.StatusNotFound, "plan not available")
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(blob)
	default:
		writeError(w, http.StatusNotFound, "unknown subresource: "+sub)
	}
}

func sessionSummary(s sessionstore.Session) map[string]any {
	summary := map[string]any{
		"session_id":  s.SessionID,
		"phase":       s.Phase,
		"progress":    s.Progress,
		"plan_status": s.PlanStatus.Status,
		"created_at":  s.CreatedAt,
		"updated_at":  s.UpdatedAt,
		"messages":    len(s.Messages),
	}
	if s.Profile.Category != "" {
		summary["category"] = s.Profile.Category
	}
	return summary
}
