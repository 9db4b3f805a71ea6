package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"scrollstitch/internal/pipeline"
	"scrollstitch/internal/storage"
)

// Server exposes job submission, history, and live progress over HTTP.
type Server struct {
	addr     string
	store    *storage.Store
	pipeline *pipeline.Pipeline
	log      *slog.Logger
	hub      *wsHub
	server   *http.Server
}

// NewServer creates the HTTP surface over a running pipeline.
func NewServer(addr string, store *storage.Store, pipe *pipeline.Pipeline, log *slog.Logger) *Server {
	return &Server{
		addr:     addr,
		store:    store,
		pipeline: pipe,
		log:      log,
		hub:      newWSHub(),
	}
}

// Handler builds the route table. Split out so tests can drive it without a
// listening socket.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", s.handleHealth).Methods("GET")
	r.HandleFunc("/jobs", s.handleJobs).Methods("GET")
	r.HandleFunc("/jobs", s.handleSubmit).Methods("POST")
	r.HandleFunc("/jobs/{id}/joins", s.handleJoins).Methods("GET")
	r.HandleFunc("/stream", s.handleJobStream).Methods("GET")
	r.HandleFunc("/ws", s.handleWebSocket).Methods("GET")
	return r
}

// Start serves until ctx is cancelled, relaying pipeline results to
// websocket clients along the way.
func (s *Server) Start(ctx context.Context) error {
	go s.hub.run()
	go s.relayResults(ctx)

	s.server = &http.Server{
		Addr:    s.addr,
		Handler: s.Handler(),
	}

	go func() {
		<-ctx.Done()
		s.log.Info("shutting down server")
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.server.Shutdown(ctxShutdown)
	}()

	s.log.Info("server starting", "addr", s.addr,
		"endpoints", []string{"/healthz", "/jobs", "/stream", "/ws"})
	err := s.server.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

func (s *Server) relayResults(ctx context.Context) {
	resCh, unsubscribe := s.pipeline.Subscribe()
	defer unsubscribe()
	for {
		select {
		case <-ctx.Done():
			return
		case res, ok := <-resCh:
			if !ok {
				return
			}
			payload, err := json.Marshal(resultEnvelope(res))
			if err != nil {
				continue
			}
			s.hub.broadcast <- payload
		}
	}
}

func resultEnvelope(res pipeline.Result) map[string]any {
	env := map[string]any{
		"id":     res.Job.ID,
		"type":   res.Job.Type,
		"input":  res.Job.InputPath,
		"output": res.Job.Output,
		"meta":   res.Meta,
	}
	if res.Error != nil {
		env["error"] = res.Error.Error()
	}
	return env
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (s *Server) handleJobs(w http.ResponseWriter, r *http.Request) {
	recs, err := s.store.RecentJobs(100)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(recs)
}

type submitRequest struct {
	Type    string         `json:"type"`
	Input   string         `json:"input"`
	Output  string         `json:"output"`
	Options map[string]any `json:"options"`
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	jobType := pipeline.JobType(req.Type)
	if jobType == "" {
		jobType = pipeline.JobStitch
	}
	if jobType != pipeline.JobStitch && jobType != pipeline.JobEstimate {
		http.Error(w, "unknown job type", http.StatusBadRequest)
		return
	}
	if req.Input == "" {
		http.Error(w, "input is required", http.StatusBadRequest)
		return
	}

	job := pipeline.Job{
		ID:        pipeline.NewID(string(jobType)),
		Type:      jobType,
		InputPath: req.Input,
		Output:    req.Output,
		Options:   req.Options,
	}
	if err := s.pipeline.Submit(job); err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]string{"id": job.ID})
}

func (s *Server) handleJoins(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	joins, err := s.store.JobJoins(id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	type joinView struct {
		Index         int     `json:"index"`
		OffsetPx      int     `json:"offset_px"`
		Confidence    float64 `json:"confidence"`
		LowConfidence bool    `json:"low_confidence"`
	}
	views := make([]joinView, 0, len(joins))
	for _, j := range joins {
		views = append(views, joinView{
			Index:         j.JoinIndex,
			OffsetPx:      j.OffsetPx,
			Confidence:    j.Confidence,
			LowConfidence: j.LowConfidence,
		})
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(views)
}

func (s *Server) handleJobStream(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}
	resCh, unsubscribe := s.pipeline.Subscribe()
	defer unsubscribe()
	for {
		select {
		case <-r.Context().Done():
			return
		case res, ok := <-resCh:
			if !ok {
				return
			}
			payload, _ := json.Marshal(resultEnvelope(res))
			w.Write([]byte("data: " + string(payload) + "\n\n"))
			flusher.Flush()
		}
	}
}
