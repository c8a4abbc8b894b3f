package handler

import (
	"encoding/json"
	"net/http"

	"miosa/internal/gateway/service/consultation"
)

// ConsultationHandler serves the consultation HTTP endpoints.
// It holds the consultation service as its single dependency.
type ConsultationHandler struct {
	svc *consultation.Service
}

func NewConsultationHandler(svc *consultation.Service) *ConsultationHandler {
	return &ConsultationHandler{svc: svc}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
