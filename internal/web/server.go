// Package web serves the event page, the gate snapshot API and the live
// websocket stream.
package web

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/websocket"

	"greenx/internal/core/model"
	"greenx/internal/core/timekeeper"
	"greenx/internal/site"
	"greenx/resources"
)

// Keeper is the part of the TimeKeeper the server reads from.
type Keeper interface {
	Snapshot() timekeeper.Snapshot
}

// Server renders the site against live gate snapshots.
type Server struct {
	site      model.Site
	keeper    Keeper
	hub       *Hub
	templates *template.Template
	upgrader  websocket.Upgrader
	logger    *slog.Logger
}

// NewServer parses the page templates and returns a Server.
func NewServer(siteConfig model.Site, keeper Keeper, hub *Hub, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}
	templates, err := template.New("").ParseFS(resources.Templates(), "*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Server{
		site:      siteConfig,
		keeper:    keeper,
		hub:       hub,
		templates: templates,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		logger: logger,
	}, nil
}

// Handler returns an http.Handler with all routes registered.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /problems/{id}", s.handleProblem)
	mux.HandleFunc("GET /api/gates", s.handleGates)
	mux.HandleFunc("GET /api/problems/{id}", s.handleAPIProblem)
	mux.HandleFunc("GET /ws", s.handleWebsocket)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(resources.Static())))
	return mux
}

// handleIndex handles GET /.
func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	page, err := site.Build(s.site, s.keeper.Snapshot())
	if err != nil {
		s.logger.Error("build page", "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	s.render(w, "page.html", page)
}

// handleProblem handles GET /problems/{id}. A problem that is still
// locked is indistinguishable from one that does not exist.
func (s *Server) handleProblem(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	page, err := site.Build(s.site, s.keeper.Snapshot())
	if err != nil {
		s.logger.Error("build page", "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	problem, ok := page.Problem(id)
	if !ok {
		http.NotFound(w, r)
		return
	}
	s.render(w, "problem.html", struct {
		Page    site.Page
		Problem site.ProblemView
	}{page, problem})
}

// handleGates handles GET /api/gates.
func (s *Server) handleGates(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.keeper.Snapshot())
}

// handleAPIProblem handles GET /api/problems/{id}.
func (s *Server) handleAPIProblem(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid problem id")
		return
	}
	page, err := site.Build(s.site, s.keeper.Snapshot())
	if err != nil {
		s.logger.Error("build page", "err", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	problem, ok := page.Problem(id)
	if !ok {
		writeError(w, http.StatusNotFound, "problem not found")
		return
	}
	writeJSON(w, http.StatusOK, problem)
}

// handleHealth handles GET /healthz.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleWebsocket handles GET /ws. The first frame on a new connection is
// the current snapshot; later frames are TimeKeeper events.
func (s *Server) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "err", err)
		return
	}

	client := newClient(s.hub, conn)
	snapshot := s.keeper.Snapshot()
	initial, err := json.Marshal(timekeeper.Event{
		Type:     timekeeper.EventTimeline,
		Snapshot: snapshot,
		At:       snapshot.At,
	})
	if err != nil {
		s.logger.Error("failed to serialize snapshot", "err", err)
		conn.Close()
		return
	}
	client.send <- initial

	if !s.hub.addClient(client) {
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

func (s *Server) render(w http.ResponseWriter, name string, data any) {
	var buffer bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buffer, name, data); err != nil {
		s.logger.Error("render template", "template", name, "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buffer.WriteTo(w)
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
