package trackselect

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/go-chi/chi/v5"
)

type stubRefresher struct {
	err   error
	calls int
}

func (s *stubRefresher) Refresh(context.Context) error {
	s.calls++
	return s.err
}

func newTestRouter(t *testing.T, eng *fakeEngine, ref Refresher) (*chi.Mux, *Controller) {
	t.Helper()
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	ctrl := NewController(eng, log, nil)
	ctrl.SetOptions(threeStreams(), 0)
	h := NewHandler(ctrl, ref, log, 0)
	r := chi.NewRouter()
	h.Routes(r)
	return r, ctrl
}

func decodeState(t *testing.T, rec *httptest.ResponseRecorder) SelectionState {
	t.Helper()
	var st SelectionState
	if err := json.NewDecoder(rec.Body).Decode(&st); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return st
}

func TestHandler_GetTracks(t *testing.T) {
	r, _ := newTestRouter(t, newFakeEngine(), nil)

	req := httptest.NewRequest(http.MethodGet, "/tracks", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected application/json, got %s", ct)
	}
	st := decodeState(t, rec)
	if len(st.Options) != 3 || st.Options[0].Name != "Main" || st.CurrentIndex != 0 {
		t.Errorf("unexpected state: %+v", st)
	}
}

func TestHandler_GetTracks_empty_list_is_array(t *testing.T) {
	r, ctrl := newTestRouter(t, newFakeEngine(), nil)
	ctrl.SetOptions(nil, 0)

	req := httptest.NewRequest(http.MethodGet, "/tracks", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if !bytes.Contains(rec.Body.Bytes(), []byte(`"options":[]`)) {
		t.Errorf("expected empty options array: %s", rec.Body.String())
	}
}

func TestHandler_SelectTrack(t *testing.T) {
	eng := newFakeEngine()
	r, _ := newTestRouter(t, eng, nil)

	req := httptest.NewRequest(http.MethodPost, "/tracks/select", bytes.NewReader([]byte(`{"index":2}`)))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if st := decodeState(t, rec); st.CurrentIndex != 2 {
		t.Errorf("expected current index 2, got %d", st.CurrentIndex)
	}
	if len(eng.switches) != 1 || eng.switches[0] != StreamValue(3) {
		t.Errorf("expected one switch to stream 3, got %v", eng.switches)
	}
}

func TestHandler_SelectTrack_bad_request(t *testing.T) {
	r, _ := newTestRouter(t, newFakeEngine(), nil)

	for _, body := range []string{"not json", `{}`, `{"index":"1"}`} {
		req := httptest.NewRequest(http.MethodPost, "/tracks/select", bytes.NewReader([]byte(body)))
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %q: expected 400, got %d", body, rec.Code)
		}
	}
}

func TestHandler_SelectTrack_invalid_index(t *testing.T) {
	r, _ := newTestRouter(t, newFakeEngine(), nil)

	req := httptest.NewRequest(http.MethodPost, "/tracks/select", bytes.NewReader([]byte(`{"index":9}`)))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestHandler_SelectTrack_switch_failure(t *testing.T) {
	eng := newFakeEngine()
	eng.switchErr = errors.New("unsupported")
	r, ctrl := newTestRouter(t, eng, nil)

	req := httptest.NewRequest(http.MethodPost, "/tracks/select", bytes.NewReader([]byte(`{"index":1}`)))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Errorf("expected 502, got %d", rec.Code)
	}
	if ctrl.State().CurrentIndex != 0 {
		t.Errorf("index moved after failed switch: %d", ctrl.State().CurrentIndex)
	}
}

func TestHandler_RefreshTracks(t *testing.T) {
	ref := &stubRefresher{}
	r, _ := newTestRouter(t, newFakeEngine(), ref)

	req := httptest.NewRequest(http.MethodPost, "/tracks/refresh", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if ref.calls != 1 {
		t.Errorf("expected 1 refresh, got %d", ref.calls)
	}
}

func TestHandler_RefreshTracks_errors(t *testing.T) {
	tests := []struct {
		name string
		ref  Refresher
		want int
	}{
		{"no refresher", nil, http.StatusServiceUnavailable},
		{"fetch failure", &stubRefresher{err: ErrFetchFailed}, http.StatusBadGateway},
		{"detached", &stubRefresher{err: ErrDetached}, http.StatusServiceUnavailable},
		{"unexpected", &stubRefresher{err: errors.New("boom")}, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := newTestRouter(t, newFakeEngine(), tt.ref)
			req := httptest.NewRequest(http.MethodPost, "/tracks/refresh", nil)
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("expected %d, got %d", tt.want, rec.Code)
			}
		})
	}
}
