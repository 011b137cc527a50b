package in

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/gorilla/mux"

	"scanmask/internal/modules/timeline/dto"
	timelinein "scanmask/internal/modules/timeline/port/in"
	apperrors "scanmask/internal/platform/errors"
)

const (
	eventBuffer  = 64
	writeTimeout = 5 * time.Second
)

// Server exposes a running timeline to browser clients: a JSON status
// endpoint, a websocket event stream and volume/stop controls.
type Server struct {
	engine  timelinein.Engine
	events  timelinein.Events
	log     *slog.Logger
	router  *mux.Router
	origins []string
}

type volumeRequest struct {
	Scale *float64 `json:"scale"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func NewServer(engine timelinein.Engine, events timelinein.Events, log *slog.Logger) *Server {
	s := &Server{engine: engine, events: events, log: log, router: mux.NewRouter()}
	s.router.HandleFunc("/status", s.handleStatus).Methods(http.MethodGet)
	s.router.HandleFunc("/events", s.handleEvents).Methods(http.MethodGet)
	s.router.HandleFunc("/volume", s.handleVolume).Methods(http.MethodPost)
	s.router.HandleFunc("/stop", s.handleStop).Methods(http.MethodPost)
	return s
}

// AllowOrigins adds host patterns whose pages may open the event stream.
// Same-host pages and clients that send no Origin are always accepted.
// Call it before serving.
func (s *Server) AllowOrigins(patterns ...string) {
	s.origins = append(s.origins, patterns...)
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Serve runs until ctx is cancelled, then shuts the listener down.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{Handler: s.router, ReadHeaderTimeout: 5 * time.Second}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()
	s.log.Info("progress server listening", "addr", ln.Addr().String())

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.engine.State())
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{OriginPatterns: s.origins})
	if err != nil {
		s.log.Warn("websocket accept failed", "error", err)
		return
	}
	defer conn.CloseNow()

	ch, unsubscribe := s.events.Subscribe(eventBuffer)
	defer unsubscribe()
	ctx := conn.CloseRead(r.Context())

	if err := s.write(ctx, conn, snapshot(s.engine.State())); err != nil {
		return
	}
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			if err := s.write(ctx, conn, event); err != nil {
				s.log.Debug("websocket write failed", "error", err)
				return
			}
		}
	}
}

func (s *Server) write(ctx context.Context, conn *websocket.Conn, event dto.Event) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return wsjson.Write(ctx, conn, event)
}

func (s *Server) handleVolume(w http.ResponseWriter, r *http.Request) {
	var req volumeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Scale == nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "body must be {\"scale\": <0..1>}"})
		return
	}
	if err := s.engine.SetVolumeScale(*req.Scale); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, apperrors.ErrInvalidVolume) {
			status = http.StatusBadRequest
		}
		writeJSON(w, status, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, s.engine.State())
}

func (s *Server) handleStop(w http.ResponseWriter, _ *http.Request) {
	s.engine.Stop()
	writeJSON(w, http.StatusOK, s.engine.State())
}

func snapshot(state dto.StateOutput) dto.Event {
	return dto.Event{
		Kind: dto.EventSnapshot,
		Run:  state.Run,
		Progress: dto.Progress{
			ProgressPercent:  state.ProgressPercent,
			RemainingSeconds: state.RemainingSeconds,
			ElapsedSeconds:   state.ElapsedSeconds,
			PhaseIndex:       state.CurrentPhaseIndex,
			PhaseLabel:       state.PhaseLabel,
			AppliedVolume:    state.AppliedVolume,
		},
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
