package main

import (
	"context"
	stderrors "errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/loom/internal/errors"
	"github.com/vango-dev/loom/internal/host"
)

const writeWait = 10 * time.Second

// liveMessage is sent by /live clients to dispatch a callback.
type liveMessage struct {
	ID      string `json:"id"`
	Event   string `json:"event,omitempty"`
	Payload any    `json:"payload,omitempty"`
}

// liveReply reports a failed dispatch to a /live client.
type liveReply struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

type server struct {
	loop     *host.Loop
	logger   *slog.Logger
	upgrader websocket.Upgrader
}

// newRouter exposes loop over HTTP:
//
//	GET  /render         serialized tree
//	POST /dispatch/{id}  run a callback (?event=onInput), body is the payload
//	GET  /live           WebSocket stream of serialized trees
//	GET  <metricsPath>   Prometheus metrics from reg
func newRouter(loop *host.Loop, reg *prometheus.Registry, metricsPath string, logger *slog.Logger) http.Handler {
	s := &server{
		loop:   loop,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	r.Get("/render", s.handleRender)
	r.Post("/dispatch/{id}", s.handleDispatch)
	r.Get("/live", s.handleLive)
	r.Handle(metricsPath, promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	return r
}

func (s *server) handleRender(w http.ResponseWriter, r *http.Request) {
	out, err := s.loop.Snapshot(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeText(w, out)
}

func (s *server) handleDispatch(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	body, err := io.ReadAll(io.LimitReader(r.Body, 64<<10))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	var payload any
	if len(body) > 0 {
		payload = string(body)
	}

	if event := r.URL.Query().Get("event"); event != "" {
		err = s.loop.DispatchEvent(r.Context(), id, event, payload)
	} else {
		err = s.loop.Dispatch(r.Context(), id, payload)
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.handleRender(w, r)
}

func (s *server) handleLive(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	subID, updates, cancel := s.loop.Subscribe()
	defer cancel()
	logger := s.logger.With("subscriber", subID, "request_id", middleware.GetReqID(r.Context()))
	logger.Debug("live client connected")

	ctx, stop := context.WithCancel(r.Context())
	defer stop()

	// Reader: dispatch client messages until the connection closes.
	replies := make(chan liveReply, 1)
	go func() {
		defer stop()
		for {
			var msg liveMessage
			if err := conn.ReadJSON(&msg); err != nil {
				return
			}
			var derr error
			if msg.Event != "" {
				derr = s.loop.DispatchEvent(ctx, msg.ID, msg.Event, msg.Payload)
			} else {
				derr = s.loop.Dispatch(ctx, msg.ID, msg.Payload)
			}
			if derr != nil {
				select {
				case replies <- liveReply{Error: derr.Error(), Code: errors.Code(derr)}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			logger.Debug("live client disconnected")
			return
		case reply := <-replies:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(reply); err != nil {
				return
			}
		case out, ok := <-updates:
			if !ok {
				conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "loop stopped"),
					time.Now().Add(writeWait))
				return
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, []byte(out)); err != nil {
				return
			}
		}
	}
}

func (s *server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Code(err) == "E107":
		status = http.StatusNotFound
	case stderrors.Is(err, host.ErrLoopTerminated):
		status = http.StatusServiceUnavailable
	case r.Context().Err() != nil:
		return
	}
	s.logger.Warn("request failed", "path", r.URL.Path, "status", status, "error", err)
	http.Error(w, err.Error(), status)
}

func writeText(w http.ResponseWriter, s string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, s+"\n")
}
