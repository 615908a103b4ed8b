package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/skip2/go-qrcode"
	"github.com/user/noodle-factory/config"
	"github.com/user/noodle-factory/internal/game"
	"github.com/user/noodle-factory/internal/interfaces"
	"github.com/user/noodle-factory/internal/types"
	"go.uber.org/zap"
)

// Server exposes the game to the desktop shell over HTTP
type Server struct {
	gameManager interfaces.GameManager
	hub         *ChaosHub
	config      config.Config
	logger      *zap.Logger
	upgrader    websocket.Upgrader
}

// New creates a server. The hub is primed with the current chaos level so
// new feed subscribers receive it immediately.
func New(cfg config.Config, gameManager interfaces.GameManager, hub *ChaosHub, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	level := gameManager.State().ChaosLevel
	hub.OnChaosChange(level, game.ChaosTier(level))

	return &Server{
		gameManager: gameManager,
		hub:         hub,
		config:      cfg,
		logger:      logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The shell loads the UI from a local origin
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Router builds the chi router with every route mounted
func (s *Server) Router() http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// The websocket route must not sit behind the timeout middleware
	router.Get("/ws/chaos", s.handleChaosFeed)

	router.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(60 * time.Second))

		r.Get("/state", s.handleState)
		r.Get("/cards", s.handleEligibleCards)
		r.Post("/cards/draw", s.handleDrawCard)
		r.Post("/cards/{name}/play", s.handlePlayCard)
		r.Post("/events/draw", s.handleDrawEvent)
		r.Post("/events/{id}/resolve", s.handleResolveEvent)
		r.Post("/turn", s.handleAdvanceTurn)
		r.Post("/game/new", s.handleNewGame)
		r.Post("/progress/reset", s.handleResetProgress)
		r.Get("/history", s.handleHistory)
		r.Get("/achievements", s.handleAchievements)
		r.Get("/achievements/share.png", s.handleShareQR)
	})

	return router
}

// HTTPServer wraps the router in an http.Server on the configured port
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:    ":" + s.config.Server.Port,
		Handler: s.Router(),
	}
}

type stateResponse struct {
	SessionID  string              `json:"session_id"`
	Turn       int                 `json:"turn"`
	State      types.ResourceState `json:"state"`
	ChaosTier  int                 `json:"chaos_tier"`
	Completion float64             `json:"completion"`
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	state := s.gameManager.State()
	writeJSON(w, http.StatusOK, stateResponse{
		SessionID:  s.gameManager.SessionID(),
		Turn:       s.gameManager.Turn(),
		State:      state,
		ChaosTier:  game.ChaosTier(state.ChaosLevel),
		Completion: s.gameManager.CompletionPercent(),
	})
}

func (s *Server) handleEligibleCards(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.gameManager.EligibleCards())
}

func (s *Server) handleDrawCard(w http.ResponseWriter, r *http.Request) {
	card, err := s.gameManager.DrawCard()
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, card)
}

func (s *Server) handlePlayCard(w http.ResponseWriter, r *http.Request) {
	name, err := url.PathUnescape(chi.URLParam(r, "name"))
	if err != nil {
		http.Error(w, "Invalid card name", http.StatusBadRequest)
		return
	}

	result, err := s.gameManager.PlayCard(name)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleDrawEvent(w http.ResponseWriter, r *http.Request) {
	event, err := s.gameManager.DrawEvent()
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, event)
}

func (s *Server) handleResolveEvent(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Choice types.Side `json:"choice"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	result, err := s.gameManager.ResolveEvent(chi.URLParam(r, "id"), req.Choice)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleAdvanceTurn(w http.ResponseWriter, r *http.Request) {
	result, err := s.gameManager.AdvanceTurn()
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.gameManager.NewGame())
}

func (s *Server) handleResetProgress(w http.ResponseWriter, r *http.Request) {
	if err := s.gameManager.ResetProgress(); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.gameManager.History())
}

func (s *Server) handleAchievements(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.gameManager.Achievements())
}

// shareURL encodes a summary of the player's progress into the share link
func (s *Server) shareURL() string {
	unlocked := 0
	for _, a := range s.gameManager.Achievements() {
		if a.Unlocked {
			unlocked++
		}
	}
	q := url.Values{}
	q.Set("session", s.gameManager.SessionID())
	q.Set("unlocked", fmt.Sprintf("%d", unlocked))
	q.Set("completion", fmt.Sprintf("%.0f", s.gameManager.CompletionPercent()))
	return s.config.Server.ShareBaseURL + "?" + q.Encode()
}

func (s *Server) handleShareQR(w http.ResponseWriter, r *http.Request) {
	png, err := qrcode.Encode(s.shareURL(), qrcode.Medium, 256)
	if err != nil {
		s.logger.Error("Failed to generate QR code", zap.Error(err))
		http.Error(w, "Failed to generate QR code", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}

func (s *Server) handleChaosFeed(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("Chaos feed upgrade failed", zap.Error(err))
		return
	}

	client := newChaosClient(s.hub, conn)
	s.hub.add(client)
	s.logger.Debug("Chaos feed subscriber connected", zap.String("remote_addr", r.RemoteAddr))

	go client.writePump()
	client.readPump()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps game errors onto HTTP statuses
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, game.ErrRequirementNotMet),
		errors.Is(err, game.ErrCardNotEligible),
		errors.Is(err, game.ErrEventNotPending):
		status = http.StatusConflict
	case errors.Is(err, game.ErrCardNotFound),
		errors.Is(err, game.ErrEventNotFound),
		errors.Is(err, game.ErrNoEligibleCards),
		errors.Is(err, game.ErrNoEvents):
		status = http.StatusNotFound
	case errors.Is(err, game.ErrInvalidChoice):
		status = http.StatusBadRequest
	}

	if status == http.StatusInternalServerError {
		s.logger.Error("Request failed", zap.Error(err))
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
