// Package api exposes the capture engine over HTTP for remote triggering.
package api

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/xurtis/screencap/internal/capture"
	"github.com/xurtis/screencap/internal/config"
	"github.com/xurtis/screencap/internal/ffmpeg"
)

// Event describes a capture lifecycle change broadcast to websocket
// subscribers.
type Event struct {
	Event  string    `json:"event"` // "started" or "finished"
	Mode   string    `json:"mode"`
	Region string    `json:"region"`
	Path   string    `json:"path,omitempty"`
	Error  string    `json:"error,omitempty"`
	Time   time.Time `json:"time"`
}

// Server represents the HTTP API server
type Server struct {
	router    *mux.Router
	configMgr *config.Manager
	capturer  *capture.Capturer
	upgrader  websocket.Upgrader

	// one capture at a time; concurrent grabs would fight over the screen
	captureMu sync.Mutex
	capturing bool

	subMu       sync.Mutex
	subscribers map[chan Event]struct{}
}

// NewServer creates a new API server
func NewServer(configMgr *config.Manager, capturer *capture.Capturer) *Server {
	s := &Server{
		router:      mux.NewRouter(),
		configMgr:   configMgr,
		capturer:    capturer,
		subscribers: make(map[chan Event]struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // local trigger surface, no origin policy
			},
		},
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures the API routes
func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/health", s.handleHealth).Methods("GET")
	api.HandleFunc("/capabilities", s.handleCapabilities).Methods("GET")
	api.HandleFunc("/region", s.handleRegion).Methods("GET")
	api.HandleFunc("/config", s.handleGetConfig).Methods("GET")
	api.HandleFunc("/capture", s.handleCapture).Methods("POST")
	api.HandleFunc("/events", s.handleEvents)
}

// Start starts the HTTP server
func (s *Server) Start(port int) error {
	addr := fmt.Sprintf(":%d", port)
	log.Printf("Starting server on http://localhost%s\n", addr)
	return http.ListenAndServe(addr, s.router)
}

// Handler returns the root handler, for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// handleCapabilities reports ffmpeg's parsed capability tables and the
// codec selection they produce.
func (s *Server) handleCapabilities(w http.ResponseWriter, r *http.Request) {
	formats, err := ffmpeg.Formats()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	video, err := ffmpeg.VideoEncoders()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	audio, err := ffmpeg.AudioEncoders()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	response := struct {
		Formats       []ffmpeg.Support   `json:"formats"`
		VideoEncoders []ffmpeg.Support   `json:"video_encoders"`
		AudioEncoders []ffmpeg.Support   `json:"audio_encoders"`
		Selection     *capture.Selection `json:"selection,omitempty"`
	}{Formats: formats, VideoEncoders: video, AudioEncoders: audio}

	if sel, err := capture.SelectCodecs(s.configMgr.Get().Codecs); err == nil {
		response.Selection = &sel
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

func (s *Server) handleRegion(w http.ResponseWriter, r *http.Request) {
	kind := r.URL.Query().Get("kind")
	if kind == "" {
		kind = "screen"
	}
	regionKind, err := capture.ParseRegion(kind)
	if err != nil || regionKind == capture.RegionSelect {
		http.Error(w, "kind must be screen or window", http.StatusBadRequest)
		return
	}

	region, err := s.capturer.Region(regionKind)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(region)
}

func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	cfg := s.configMgr.Get()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(cfg)
}

// handleCapture triggers a capture in the background. Progress is reported
// on the events stream; the response only acknowledges the request.
func (s *Server) handleCapture(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Mode      string `json:"mode"`
		Region    string `json:"region"`
		Framerate int    `json:"framerate"`
		Duration  int    `json:"duration"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Mode == "" {
		req.Mode = "image"
	}
	if req.Region == "" {
		req.Region = "screen"
	}

	mode, err := capture.ParseMode(req.Mode)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	region, err := capture.ParseRegion(req.Region)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if mode == capture.ModeVideo && region == capture.RegionSelect {
		http.Error(w, "cannot select a region for video capture", http.StatusBadRequest)
		return
	}
	if mode == capture.ModeVideo && req.Duration <= 0 {
		http.Error(w, "video capture over the API requires a duration", http.StatusBadRequest)
		return
	}

	s.captureMu.Lock()
	if s.capturing {
		s.captureMu.Unlock()
		http.Error(w, "a capture is already in progress", http.StatusConflict)
		return
	}
	s.capturing = true
	s.captureMu.Unlock()

	opts := capture.Options{
		Mode:      mode,
		Region:    region,
		Framerate: req.Framerate,
		Duration:  req.Duration,
	}

	go func() {
		s.broadcast(Event{Event: "started", Mode: mode.String(), Region: region.String(), Time: time.Now()})

		path, err := s.capturer.Capture(opts)

		event := Event{Event: "finished", Mode: mode.String(), Region: region.String(), Path: path, Time: time.Now()}
		if err != nil {
			event.Error = err.Error()
		}
		s.broadcast(event)

		s.captureMu.Lock()
		s.capturing = false
		s.captureMu.Unlock()
	}()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]string{"status": "accepted"})
}

// handleEvents streams capture lifecycle events over a websocket.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v\n", err)
		return
	}
	defer conn.Close()

	events := s.subscribe()
	defer s.unsubscribe(events)

	for event := range events {
		if err := conn.WriteJSON(event); err != nil {
			log.Printf("WebSocket write error: %v\n", err)
			return
		}
	}
}

func (s *Server) subscribe() chan Event {
	ch := make(chan Event, 8)
	s.subMu.Lock()
	s.subscribers[ch] = struct{}{}
	s.subMu.Unlock()
	return ch
}

func (s *Server) unsubscribe(ch chan Event) {
	s.subMu.Lock()
	delete(s.subscribers, ch)
	s.subMu.Unlock()
}

func (s *Server) broadcast(event Event) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for ch := range s.subscribers {
		select {
		case ch <- event:
		default:
			// Slow subscriber, drop rather than block the capture.
		}
	}
}
