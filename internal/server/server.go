// Package server exposes the dashboard's render plan over HTTP.
//
// Routes:
//
//	GET    /health        → liveness
//	GET    /board         → current snapshot with cards
//	GET    /filter        → current search filter
//	PUT    /filter        → update salary, flags and period
//	POST   /terms         → add a search term
//	DELETE /terms/{term}  → remove a search term
//	POST   /search        → run a fetch cycle now
//	POST   /refresh       → trigger a backend re-scrape, then fetch
package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"jobmate/dashboard-service/internal/board"
	"jobmate/dashboard-service/internal/model"
)

// ─── Response types ───────────────────────────────────────────────────────────

// BoardView is the JSON shape returned to renderers.
type BoardView struct {
	Status      string       `json:"status"`
	Generation  uint64       `json:"generation"`
	JobCount    int          `json:"jobCount"`
	CountText   string       `json:"countText"`
	NewCount    int          `json:"newCount"`
	LastUpdated string       `json:"lastUpdated"`
	Error       string       `json:"error,omitempty"`
	Jobs        []board.Card `json:"jobs"`
}

// NewBoardView converts a snapshot into its JSON view.
func NewBoardView(s board.Snapshot) BoardView {
	return BoardView{
		Status:      string(s.Status),
		Generation:  s.Generation,
		JobCount:    len(s.Jobs),
		CountText:   s.CountText(),
		NewCount:    s.NewCount(),
		LastUpdated: s.LastUpdated(),
		Error:       s.Error,
		Jobs:        s.Cards(),
	}
}

// ─── Handler ─────────────────────────────────────────────────────────────────

// Handler holds shared dependencies.
type Handler struct {
	board   *board.Board
	version string
}

// NewHandler returns a configured Handler.
func NewHandler(b *board.Board, version string) *Handler {
	return &Handler{board: b, version: version}
}

// Routes returns the router with every dashboard route mounted.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Get("/health", h.health)
	r.Get("/board", h.getBoard)
	r.Route("/filter", func(r chi.Router) {
		r.Get("/", h.getFilter)
		r.Put("/", h.putFilter)
	})
	r.Route("/terms", func(r chi.Router) {
		r.Post("/", h.addTerm)
		r.Delete("/{term}", h.removeTerm)
	})
	r.Post("/search", h.search)
	r.Post("/refresh", h.refresh)
	return r
}

// ─── Individual handlers ──────────────────────────────────────────────────────

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	jsonOK(w, map[string]string{
		"status":  "ok",
		"service": "dashboard-service",
		"version": h.version,
	})
}

func (h *Handler) getBoard(w http.ResponseWriter, r *http.Request) {
	jsonOK(w, NewBoardView(h.board.Snapshot()))
}

func (h *Handler) getFilter(w http.ResponseWriter, r *http.Request) {
	jsonOK(w, h.board.Filter())
}

func (h *Handler) putFilter(w http.ResponseWriter, r *http.Request) {
	var body struct {
		MinSalary      *int  `json:"minSalary"`
		RemoteOnly     *bool `json:"remoteOnly"`
		FullTimeOnly   *bool `json:"fullTimeOnly"`
		TimePeriodDays *int  `json:"timePeriodDays"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		jsonError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	f, err := h.board.UpdateFilter(func(f *model.SearchFilter) error {
		if body.MinSalary != nil {
			f.MinSalary = *body.MinSalary
		}
		if body.RemoteOnly != nil {
			f.RemoteOnly = *body.RemoteOnly
		}
		if body.FullTimeOnly != nil {
			f.FullTimeOnly = *body.FullTimeOnly
		}
		if body.TimePeriodDays != nil {
			f.TimePeriodDays = *body.TimePeriodDays
		}
		return nil
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	jsonOK(w, f)
}

func (h *Handler) addTerm(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Term string `json:"term"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		jsonError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	f, err := h.board.UpdateFilter(func(f *model.SearchFilter) error {
		return f.AddTerm(body.Term)
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	jsonOK(w, f)
}

func (h *Handler) removeTerm(w http.ResponseWriter, r *http.Request) {
	// chi matches on RawPath when the request carries one, leaving the
	// parameter escaped.
	term := chi.URLParam(r, "term")
	if r.URL.RawPath != "" {
		var err error
		if term, err = url.PathUnescape(term); err != nil {
			jsonError(w, "invalid term", http.StatusBadRequest)
			return
		}
	}

	f, err := h.board.UpdateFilter(func(f *model.SearchFilter) error {
		return f.RemoveTerm(term)
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	jsonOK(w, f)
}

// search runs a cycle. Network and data failures are reported inside the
// NO_RESULTS view rather than as an HTTP error.
func (h *Handler) search(w http.ResponseWriter, r *http.Request) {
	snap, err := h.board.Fetch(r.Context())
	if err != nil {
		log.Printf("[server] search cycle failed: %v", err)
	}
	jsonOK(w, NewBoardView(snap))
}

func (h *Handler) refresh(w http.ResponseWriter, r *http.Request) {
	msg, snap, err := h.board.Refresh(r.Context())
	if err != nil && msg == "" {
		log.Printf("[server] refresh trigger failed: %v", err)
		jsonError(w, err.Error(), http.StatusBadGateway)
		return
	}
	if err != nil {
		log.Printf("[server] refresh cycle failed: %v", err)
	}
	jsonOK(w, map[string]any{
		"message": msg,
		"board":   NewBoardView(snap),
	})
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

// writeDomainError maps model errors to HTTP statuses.
func writeDomainError(w http.ResponseWriter, err error) {
	var ve *model.ValidationError
	switch {
	case errors.As(err, &ve):
		jsonError(w, ve.Msg, http.StatusBadRequest)
	case errors.Is(err, model.ErrDuplicateTerm):
		jsonError(w, err.Error(), http.StatusConflict)
	case errors.Is(err, model.ErrTermNotFound):
		jsonError(w, err.Error(), http.StatusNotFound)
	default:
		log.Printf("[server] unexpected error: %v", err)
		jsonError(w, "internal server error", http.StatusInternalServerError)
	}
}

func jsonOK(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
