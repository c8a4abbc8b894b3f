package server

import (
	"net/http"

	"miosa/internal/gateway/handler"
	"miosa/internal/gateway/middleware"
)

func NewMux(consultationHandler *handler.ConsultationHandler) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", consultationHandler.HandleHealth)
	mux.HandleFunc("/api/v1/consultation/start", consultationHandler.HandleStart)
	mux.HandleFunc("/api/v1/consultation/continue", consultationHandler.HandleContinue)
	mux.HandleFunc("/api/v1/sessions", consultationHandler.HandleListSessions)
	mux.HandleFunc("/api/v1/sessions/", consultationHandler.HandleSession)

	// Websocket endpoint for watching background plan runs
	mux.HandleFunc("/api/v1/watch", consultationHandler.HandleWatchWS)

	// Middleware
	return middleware.CORS(mux)
}
