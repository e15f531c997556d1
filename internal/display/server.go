package display

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"lectern/internal/collection"
	"lectern/internal/presenter"
	"lectern/internal/projection"
	"lectern/internal/resolve"
	"lectern/internal/services"
	"lectern/internal/store"
)

// Server exposes the presentation surface over HTTP: a websocket feed for
// display outputs and a small JSON API for the operator.
type Server struct {
	store    *store.Store
	svc      *collection.Service
	resolver *resolve.Resolver
	tracker  *presenter.Tracker
	hub      *Hub
	logger   *slog.Logger
	upgrader websocket.Upgrader
}

// NewServer wires the presentation surface together. The returned server
// implements presenter.Notifier; hand it to the tracker so state changes
// reach connected displays.
func NewServer(st *store.Store, svc *collection.Service, resolver *resolve.Resolver, hub *Hub, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s := &Server{
		store:    st,
		svc:      svc,
		resolver: resolver,
		hub:      hub,
		logger:   logger.With("component", "display"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Displays are local fixtures; the bind address is the boundary.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
	s.tracker = presenter.NewTracker(s, logger)
	return s
}

// Tracker returns the presentation tracker owned by this server.
func (s *Server) Tracker() *presenter.Tracker { return s.tracker }

// Router builds the HTTP routes.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/ws", s.handleWS).Methods(http.MethodGet)
	r.HandleFunc("/api/state", s.handleState).Methods(http.MethodGet)
	r.HandleFunc("/api/queue", s.handleQueue).Methods(http.MethodGet)
	r.HandleFunc("/api/present", s.handlePresent).Methods(http.MethodPost)
	r.HandleFunc("/api/next", s.handleNext).Methods(http.MethodPost)
	r.HandleFunc("/api/prev", s.handlePrev).Methods(http.MethodPost)
	r.HandleFunc("/api/clear", s.handleClear).Methods(http.MethodPost)
	return r
}

type frameDTO struct {
	ItemID    int64  `json:"itemId"`
	SubIndex  int    `json:"subIndex"`
	FlatIndex int    `json:"flatIndex"`
	Kind      string `json:"kind"`
	Title     string `json:"title"`
	Body      string `json:"body,omitempty"`
	Reference string `json:"reference,omitempty"`
	SceneName string `json:"sceneName,omitempty"`
}

type stateEvent struct {
	Event string    `json:"event"`
	State string    `json:"state"`
	Frame *frameDTO `json:"frame,omitempty"`
}

func toDTO(f projection.Frame) *frameDTO {
	return &frameDTO{
		ItemID:    f.ItemID,
		SubIndex:  f.SubIndex,
		FlatIndex: f.FlatIndex,
		Kind:      f.Kind,
		Title:     f.Title,
		Body:      f.Body,
		Reference: f.Reference,
		SceneName: f.SceneName,
	}
}

// PresentationChanged implements presenter.Notifier by broadcasting the new
// state to every connected display.
func (s *Server) PresentationChanged(state presenter.State, frame *projection.Frame) {
	event := stateEvent{Event: "presentation", State: string(state)}
	if frame != nil {
		event.Frame = toDTO(*frame)
	}
	data, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("encoding presentation event", "error", err)
		return
	}
	s.hub.Broadcast(data)
}

// project rebuilds the flat projection of the queue. Every movement uses a
// fresh projection so edits since the last step are always reflected.
func (s *Server) project(ctx context.Context) (*projection.Projection, error) {
	queue, err := s.store.QueueCollection(ctx)
	if err != nil {
		return nil, err
	}
	items, err := s.svc.Items(ctx, queue.ID)
	if err != nil {
		return nil, err
	}
	resolved, err := s.resolver.ResolveAll(ctx, items)
	if err != nil {
		return nil, err
	}
	return projection.Project(resolved), nil
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	client := s.hub.attach(conn)
	go client.writeLoop()
	go client.readLoop(s.hub)

	// Catch the new display up with the current state, including the live
	// frame so a display joining mid-presentation can render immediately.
	state, pos := s.tracker.State()
	event := stateEvent{Event: "presentation", State: string(state)}
	if pos != nil {
		if p, err := s.project(r.Context()); err == nil {
			if flat, ok := p.Locate(pos.ItemID, pos.SubIndex); ok {
				if frame, ok := p.Frame(flat); ok {
					event.Frame = toDTO(frame)
				}
			}
		}
	}
	if data, err := json.Marshal(event); err == nil {
		select {
		case client.send <- data:
		default:
		}
	}
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	state, pos := s.tracker.State()
	resp := struct {
		State    string              `json:"state"`
		Position *presenter.Position `json:"position,omitempty"`
	}{State: string(state), Position: pos}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleQueue(w http.ResponseWriter, r *http.Request) {
	p, err := s.project(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	frames := make([]*frameDTO, 0, p.Len())
	for _, frame := range p.Frames() {
		frames = append(frames, toDTO(frame))
	}
	writeJSON(w, http.StatusOK, struct {
		Frames []*frameDTO `json:"frames"`
	}{Frames: frames})
}

func (s *Server) handlePresent(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ItemID   int64 `json:"itemId"`
		SubIndex int   `json:"subIndex"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	p, err := s.project(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	frame, ok := s.tracker.Present(p, req.ItemID, req.SubIndex)
	if !ok {
		http.Error(w, "frame not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, toDTO(frame))
}

func (s *Server) handleNext(w http.ResponseWriter, r *http.Request) {
	s.handleAdvance(w, r, (*presenter.Tracker).Next)
}

func (s *Server) handlePrev(w http.ResponseWriter, r *http.Request) {
	s.handleAdvance(w, r, (*presenter.Tracker).Prev)
}

func (s *Server) handleAdvance(w http.ResponseWriter, r *http.Request, move func(*presenter.Tracker, *projection.Projection) (projection.Frame, bool)) {
	p, err := s.project(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	frame, ok := move(s.tracker, p)
	resp := stateEvent{Event: "presentation", State: string(presenter.StateHidden)}
	if ok {
		resp.State = string(presenter.StateLive)
		resp.Frame = toDTO(frame)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	s.tracker.Clear()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	s.logger.Error("request failed", "error", err)
	status := http.StatusInternalServerError
	if errors.Is(err, services.ErrNotFound) {
		status = http.StatusNotFound
	}
	http.Error(w, err.Error(), status)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
