// Package httpapi is the thin HTTP wrapper over the core services. It only
// decodes requests, delegates, and maps error kinds to status codes.
package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/user/debatearena/internal/arena"
	"github.com/user/debatearena/internal/ingest"
	"github.com/user/debatearena/internal/match"
	"github.com/user/debatearena/internal/types"
)

// Server exposes the REST endpoints.
type Server struct {
	agents   types.AgentStore
	packs    types.PackStore
	matches  types.MatchStore
	matchSvc *match.Service
	arenaSvc *arena.Service
	fetcher  *ingest.Fetcher
	mux      *http.ServeMux
}

// NewServer wires the routes.
func NewServer(agents types.AgentStore, packs types.PackStore, matches types.MatchStore, matchSvc *match.Service, arenaSvc *arena.Service, fetcher *ingest.Fetcher) *Server {
	s := &Server{
		agents:   agents,
		packs:    packs,
		matches:  matches,
		matchSvc: matchSvc,
		arenaSvc: arenaSvc,
		fetcher:  fetcher,
		mux:      http.NewServeMux(),
	}
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("POST /knowledge-packs", s.handleCreatePack)
	s.mux.HandleFunc("POST /knowledge-packs/import", s.handleImportPack)
	s.mux.HandleFunc("GET /knowledge-packs", s.handleListPacks)
	s.mux.HandleFunc("POST /agents", s.handleCreateAgent)
	s.mux.HandleFunc("GET /agents", s.handleListAgents)
	s.mux.HandleFunc("POST /matches", s.handleCreateMatch)
	s.mux.HandleFunc("GET /matches", s.handleListMatches)
	s.mux.HandleFunc("GET /matches/{id}", s.handleGetMatch)
	s.mux.HandleFunc("POST /arenas", s.handleCreateArena)
	s.mux.HandleFunc("GET /arenas/{code}", s.handleGetArena)
	s.mux.HandleFunc("POST /arenas/join", s.handleJoinArena)
	s.mux.HandleFunc("POST /arenas/select", s.handleSelectAgent)
	s.mux.HandleFunc("POST /arenas/ready", s.handleSetReady)
	s.mux.HandleFunc("POST /arenas/start", s.handleStartArena)
	return s
}

// ServeHTTP delegates to the internal mux, implementing http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

// writeError maps the core error kinds onto status codes.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, types.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, types.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, types.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, types.ErrCollaborator):
		status = http.StatusBadGateway
	}
	if status == http.StatusInternalServerError {
		slog.Error("request failed", "error", err)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, `{"error":"invalid JSON"}`, http.StatusBadRequest)
		return false
	}
	return true
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

type createPackRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	OwnerID string `json:"owner_id"`
}

func (s *Server) handleCreatePack(w http.ResponseWriter, r *http.Request) {
	var req createPackRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Title == "" || req.Content == "" {
		http.Error(w, `{"error":"title and content are required"}`, http.StatusBadRequest)
		return
	}
	pack := &types.KnowledgePack{Title: req.Title, Content: req.Content, OwnerID: req.OwnerID}
	if err := s.packs.Create(r.Context(), pack); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, pack)
}

type importPackRequest struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	OwnerID string `json:"owner_id"`
}

func (s *Server) handleImportPack(w http.ResponseWriter, r *http.Request) {
	var req importPackRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Title == "" || req.URL == "" {
		http.Error(w, `{"error":"title and url are required"}`, http.StatusBadRequest)
		return
	}
	content, err := s.fetcher.Fetch(r.Context(), req.URL)
	if err != nil {
		writeError(w, err)
		return
	}
	pack := &types.KnowledgePack{Title: req.Title, Content: content, OwnerID: req.OwnerID}
	if err := s.packs.Create(r.Context(), pack); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, pack)
}

func (s *Server) handleListPacks(w http.ResponseWriter, r *http.Request) {
	packs, err := s.packs.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, packs)
}

type createAgentRequest struct {
	Name           string   `json:"name"`
	PackIDs        []string `json:"pack_ids"`
	OwnerID        string   `json:"owner_id"`
	Specialization string   `json:"specialization"`
}

func (s *Server) handleCreateAgent(w http.ResponseWriter, r *http.Request) {
	var req createAgentRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Name == "" || len(req.PackIDs) == 0 {
		http.Error(w, `{"error":"name and at least one pack are required"}`, http.StatusBadRequest)
		return
	}
	packIDs := make([]types.PackID, 0, len(req.PackIDs))
	for _, id := range req.PackIDs {
		if _, err := s.packs.Get(r.Context(), types.PackID(id)); err != nil {
			writeError(w, err)
			return
		}
		packIDs = append(packIDs, types.PackID(id))
	}
	agent := &types.Agent{
		Name:           req.Name,
		PackIDs:        packIDs,
		OwnerID:        req.OwnerID,
		Specialization: req.Specialization,
	}
	if err := s.agents.Create(r.Context(), agent); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, agent)
}

func (s *Server) handleListAgents(w http.ResponseWriter, r *http.Request) {
	agents, err := s.agents.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, agents)
}

type createMatchRequest struct {
	Topic    string `json:"topic"`
	AgentAID string `json:"agent_a_id"`
	AgentBID string `json:"agent_b_id"`
}

func (s *Server) handleCreateMatch(w http.ResponseWriter, r *http.Request) {
	var req createMatchRequest
	if !decode(w, r, &req) {
		return
	}
	m, err := s.matchSvc.Run(r.Context(), req.Topic, types.AgentID(req.AgentAID), types.AgentID(req.AgentBID))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, m)
}

func (s *Server) handleListMatches(w http.ResponseWriter, r *http.Request) {
	matches, err := s.matches.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, matches)
}

func (s *Server) handleGetMatch(w http.ResponseWriter, r *http.Request) {
	m, err := s.matches.Get(r.Context(), types.MatchID(r.PathValue("id")))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, m)
}

type createArenaRequest struct {
	Topic     string `json:"topic"`
	CreatorID string `json:"creator_id"`
}

func (s *Server) handleCreateArena(w http.ResponseWriter, r *http.Request) {
	var req createArenaRequest
	if !decode(w, r, &req) {
		return
	}
	a, err := s.arenaSvc.Create(r.Context(), req.Topic, req.CreatorID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, a)
}

func (s *Server) handleGetArena(w http.ResponseWriter, r *http.Request) {
	a, err := s.arenaSvc.Get(r.Context(), r.PathValue("code"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, a)
}

type joinArenaRequest struct {
	Code     string `json:"code"`
	JoinerID string `json:"joiner_id"`
}

func (s *Server) handleJoinArena(w http.ResponseWriter, r *http.Request) {
	var req joinArenaRequest
	if !decode(w, r, &req) {
		return
	}
	a, err := s.arenaSvc.Join(r.Context(), req.Code, req.JoinerID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, a)
}

type selectAgentRequest struct {
	Code    string `json:"code"`
	Side    string `json:"side"`
	AgentID string `json:"agent_id"`
}

func (s *Server) handleSelectAgent(w http.ResponseWriter, r *http.Request) {
	var req selectAgentRequest
	if !decode(w, r, &req) {
		return
	}
	a, err := s.arenaSvc.SelectAgent(r.Context(), req.Code, arena.Side(req.Side), types.AgentID(req.AgentID))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, a)
}

type setReadyRequest struct {
	Code  string `json:"code"`
	Seat  string `json:"seat"`
	Ready bool   `json:"ready"`
}

func (s *Server) handleSetReady(w http.ResponseWriter, r *http.Request) {
	var req setReadyRequest
	if !decode(w, r, &req) {
		return
	}
	a, err := s.arenaSvc.SetReady(r.Context(), req.Code, arena.Seat(req.Seat), req.Ready)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, a)
}

type startArenaRequest struct {
	Code string `json:"code"`
}

type startArenaResponse struct {
	Arena *types.Arena `json:"arena"`
	Match *types.Match `json:"match"`
}

func (s *Server) handleStartArena(w http.ResponseWriter, r *http.Request) {
	var req startArenaRequest
	if !decode(w, r, &req) {
		return
	}
	a, m, err := s.arenaSvc.Start(r.Context(), req.Code)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, startArenaResponse{Arena: a, Match: m})
}
