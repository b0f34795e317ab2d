// internal/adapters/http_server/handlers.go
package httpserver

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"smarttravel/internal/domain"
)

type ItineraryGenerator interface {
	Generate(ctx context.Context, req domain.ItineraryRequest) (domain.Itinerary, error)
}

type SentimentAnalyzer interface {
	AnalyzeByQuery(ctx context.Context, query string) (domain.SentimentLookup, error)
	AnalyzeByID(ctx context.Context, placeID string) (domain.SentimentReport, error)
}

type Handlers struct {
	Itinerary ItineraryGenerator
	Sentiment SentimentAnalyzer
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/", h.root)
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Post("/itinerary/generate", h.generateItinerary)
	s.mux.Get("/sentiment/analyze", h.analyzeByQuery)
	s.mux.Get("/sentiment/{place_id}", h.analyzeByID)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeError maps service errors: a no-match lookup is 404, anything else
// (upstream not-found included) is an opaque 500 carrying the underlying message.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, domain.ErrNoMatch) {
		writeProblem(w, http.StatusNotFound, "Not Found", err.Error())
		return
	}
	log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	writeProblem(w, http.StatusInternalServerError, "Service Error", err.Error())
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

func writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if body == nil {
		writeProblem(w, http.StatusInternalServerError, "Service Error", "response encoding failed")
		return
	}
	// If client already has this version, short-circuit.
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("failed to write body")
	}
}

func (h *Handlers) root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, map[string]string{"message": "SmartTravelSystem API is running"})
}

func (h *Handlers) generateItinerary(w http.ResponseWriter, r *http.Request) {
	var req domain.ItineraryRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	if err := dec.Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid body", err.Error())
		return
	}
	if strings.TrimSpace(req.Destination) == "" {
		writeProblem(w, http.StatusBadRequest, "Invalid destination", "destination is required")
		return
	}

	out, err := h.Itinerary.Generate(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, out)
}

func (h *Handlers) analyzeByQuery(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("query"))
	if q == "" {
		writeProblem(w, http.StatusBadRequest, "Invalid query", "query is required")
		return
	}
	out, err := h.Sentiment.AnalyzeByQuery(r.Context(), q)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, out)
}

func (h *Handlers) analyzeByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "place_id")
	out, err := h.Sentiment.AnalyzeByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, out)
}
