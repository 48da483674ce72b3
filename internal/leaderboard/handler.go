package leaderboard

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
)

// Routes served by Handler.
const (
	PathGetScores   = "/api/get-scores"
	PathSubmitScore = "/api/submit-score"
	PathLive        = "/api/scores/live"
)

// maxBody caps submission request bodies.
const maxBody = 4 << 10

// Handler serves the leaderboard HTTP API.
type Handler struct {
	svc    *Service
	hub    *Hub
	logger *log.Logger
	mux    *http.ServeMux
}

// NewHandler creates the API handler. hub may be nil to disable the live feed.
func NewHandler(svc *Service, hub *Hub, logger *log.Logger) *Handler {
	if logger == nil {
		logger = log.Default()
	}
	h := &Handler{svc: svc, hub: hub, logger: logger, mux: http.NewServeMux()}
	h.mux.HandleFunc(PathGetScores, h.getScores)
	h.mux.HandleFunc(PathSubmitScore, h.submitScore)
	if hub != nil {
		h.mux.HandleFunc(PathLive, h.live)
		svc.OnChange(hub.Broadcast)
	}
	return h
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *Handler) getScores(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Top(r.Context(), DefaultTop))
}

// submitRequest accepts the score as a JSON number or a numeric string.
type submitRequest struct {
	Name  string          `json:"name"`
	Score json.RawMessage `json:"score"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *Handler) submitScore(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "Method Not Allowed"})
		return
	}

	var req submitRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody))
	if err := dec.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid JSON in request body"})
		return
	}

	if strings.TrimSpace(req.Name) == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Name is required"})
		return
	}
	score, err := parseScore(req.Score)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Valid score is required"})
		return
	}

	res, err := h.svc.SubmitFloat(r.Context(), req.Name, score)
	switch {
	case errors.Is(err, ErrNameRequired):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Name is required"})
	case errors.Is(err, ErrInvalidScore):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Valid score is required"})
	case err != nil:
		h.logger.Error("Submit failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Internal Server Error"})
	default:
		writeJSON(w, http.StatusOK, res)
	}
}

// parseScore reads a JSON number or a string holding one.
func parseScore(raw json.RawMessage) (float64, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, ErrInvalidScore
	}

	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, ErrInvalidScore
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return 0, ErrInvalidScore
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, ErrInvalidScore
		}
		return f, nil
	}

	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return 0, ErrInvalidScore
	}
	return f, nil
}

func (h *Handler) live(w http.ResponseWriter, r *http.Request) {
	h.hub.ServeWS(w, r, h.svc.Top(r.Context(), DefaultTop))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
