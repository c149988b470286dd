package trackselect

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// Refresher re-reads the engine catalog on demand. *Binding implements it.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// selectRequest is the body of POST /tracks/select.
type selectRequest struct {
	Index *int `json:"index"`
}

// Handler exposes a control's selection state to a rendering client over HTTP.
type Handler struct {
	ctrl          *Controller
	refresher     Refresher
	log           *slog.Logger
	switchTimeout time.Duration
}

// NewHandler returns a Handler over ctrl. refresher may be nil, in which case
// POST /tracks/refresh answers 503. A positive switchTimeout bounds each
// engine switch.
func NewHandler(ctrl *Controller, refresher Refresher, log *slog.Logger, switchTimeout time.Duration) *Handler {
	return &Handler{
		ctrl:          ctrl,
		refresher:     refresher,
		log:           log,
		switchTimeout: switchTimeout,
	}
}

// Routes mounts the track endpoints on r.
func (h *Handler) Routes(r chi.Router) {
	r.Route("/tracks", func(r chi.Router) {
		r.Get("/", h.GetTracks)
		r.Post("/select", h.SelectTrack)
		r.Post("/refresh", h.RefreshTracks)
	})
}

// GetTracks handles GET /tracks.
func (h *Handler) GetTracks(w http.ResponseWriter, r *http.Request) {
	h.writeState(w, http.StatusOK)
}

// SelectTrack handles POST /tracks/select.
// Body: { "index": 2 }.
func (h *Handler) SelectTrack(w http.ResponseWriter, r *http.Request) {
	var req selectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Index == nil {
		h.log.Debug("invalid select body")
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	if h.switchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.switchTimeout)
		defer cancel()
	}

	if err := h.ctrl.Select(ctx, *req.Index); err != nil {
		switch {
		case errors.Is(err, ErrInvalidIndex):
			h.log.Info("select rejected", slog.Int("index", *req.Index), slog.String("error", err.Error()))
			w.WriteHeader(http.StatusBadRequest)
		case errors.Is(err, ErrSwitchFailed):
			h.log.Warn("select failed", slog.Int("index", *req.Index), slog.String("error", err.Error()))
			w.WriteHeader(http.StatusBadGateway)
		default:
			h.log.Error("select failed", slog.String("error", err.Error()))
			w.WriteHeader(http.StatusInternalServerError)
		}
		return
	}
	h.writeState(w, http.StatusOK)
}

// RefreshTracks handles POST /tracks/refresh.
func (h *Handler) RefreshTracks(w http.ResponseWriter, r *http.Request) {
	if h.refresher == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	if err := h.refresher.Refresh(r.Context()); err != nil {
		switch {
		case errors.Is(err, ErrFetchFailed):
			h.log.Warn("refresh failed", slog.String("error", err.Error()))
			w.WriteHeader(http.StatusBadGateway)
		case errors.Is(err, ErrDetached):
			w.WriteHeader(http.StatusServiceUnavailable)
		default:
			h.log.Error("refresh failed", slog.String("error", err.Error()))
			w.WriteHeader(http.StatusInternalServerError)
		}
		return
	}
	h.writeState(w, http.StatusOK)
}

func (h *Handler) writeState(w http.ResponseWriter, status int) {
	st := h.ctrl.State()
	if st.Options == nil {
		st.Options = []TrackOption{}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(st); err != nil {
		h.log.Error("encode state failed", slog.String("error", err.Error()))
	}
}
