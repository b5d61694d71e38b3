package httpadapter

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/escuelasabatica/lesson-assistant/internal/config"
	"github.com/escuelasabatica/lesson-assistant/internal/core/ports"
	"github.com/escuelasabatica/lesson-assistant/internal/observability/metrics"
)

const serviceName = "api"

type Router struct {
	cfg      config.Config
	ingestUC ports.LessonIngestor
	answerer ports.QuestionAnswerer
	docs     ports.DocumentReader
	metrics  *metrics.HTTPServerMetrics

	// vectorHealth reports knowledge base reachability for /healthz.
	// Optional; nil means the check is skipped.
	vectorHealth func(ctx context.Context) error
}

func NewRouter(
	cfg config.Config,
	ingestUC ports.LessonIngestor,
	answerer ports.QuestionAnswerer,
	docs ports.DocumentReader,
) *Router {
	return &Router{
		cfg:      cfg,
		ingestUC: ingestUC,
		answerer: answerer,
		docs:     docs,
	}
}

func (rt *Router) WithMetrics(m *metrics.HTTPServerMetrics) *Router {
	rt.metrics = m
	return rt
}

func (rt *Router) WithVectorHealth(check func(ctx context.Context) error) *Router {
	rt.vectorHealth = check
	return rt
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	mux.HandleFunc("/v1/lessons", rt.uploadLesson)
	mux.HandleFunc("/v1/lessons/", rt.getLessonByID)
	mux.HandleFunc("/v1/ask", rt.ask)
	mux.HandleFunc("/v1/chat", rt.chat)
	if rt.metrics != nil {
		mux.Handle("/metrics", rt.metrics.Handler())
	}

	var handler http.Handler = mux
	if rt.metrics != nil {
		handler = rt.metrics.Middleware(serviceName, handler)
	}
	handler = rateLimitMiddleware(handler, rt.cfg.APIRateLimitRPS, rt.cfg.APIRateLimitBurst)
	handler = accessLogMiddleware(handler)
	handler = requestIDMiddleware(handler)
	return handler
}

func (rt *Router) healthz(w http.ResponseWriter, r *http.Request) {
	payload := map[string]string{
		"status":     "ok",
		"collection": rt.cfg.QdrantCollection,
	}
	if rt.vectorHealth != nil {
		if err := rt.vectorHealth(r.Context()); err != nil {
			payload["status"] = "degraded"
			payload["vector_store"] = err.Error()
			writeJSON(w, http.StatusServiceUnavailable, payload)
			return
		}
	}
	writeJSON(w, http.StatusOK, payload)
}

func (rt *Router) uploadLesson(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "multipart field 'file' is required"})
		return
	}
	defer file.Close()

	doc, err := rt.ingestUC.Upload(
		r.Context(),
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		file,
	)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusAccepted, doc)
}

func (rt *Router) getLessonByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/v1/lessons/")
	if id == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "lesson id is required"})
		return
	}

	doc, err := rt.docs.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (rt *Router) ask(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var req struct {
		Question string `json:"question"`
		Limit    int    `json:"limit"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "question is required"})
		return
	}

	start := time.Now()
	answer, err := rt.answerer.Ask(r.Context(), req.Question, req.Limit)
	if err != nil {
		writeError(w, err)
		return
	}
	if rt.metrics != nil {
		rt.metrics.RecordAnswerObservation(serviceName, "ask", len(answer.Sources), time.Since(start))
		if answer.Cached {
			rt.metrics.RecordCacheHit(serviceName, "ask")
		}
		if answer.DateDetected {
			rt.metrics.RecordDateDetected(serviceName, "ask")
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"answer":          answer.Text,
		"sources":         answer.Sources,
		"documents_found": len(answer.Sources),
	})
}

func (rt *Router) chat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var req struct {
		Message        string   `json:"message"`
		ConversationID string   `json:"conversation_id"`
		History        []string `json:"history"`
		Limit          int      `json:"limit"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "message is required"})
		return
	}

	start := time.Now()
	answer, conversationID, err := rt.answerer.Chat(r.Context(), req.ConversationID, req.Message, req.History, req.Limit)
	if err != nil {
		writeError(w, err)
		return
	}
	if rt.metrics != nil {
		rt.metrics.RecordAnswerObservation(serviceName, "chat", len(answer.Sources), time.Since(start))
		if answer.DateDetected {
			rt.metrics.RecordDateDetected(serviceName, "chat")
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"answer":          answer.Text,
		"sources":         answer.Sources,
		"conversation_id": conversationID,
	})
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
