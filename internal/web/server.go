package web

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/skip2/go-qrcode"
	"github.com/user/hsk-life/config"
	"github.com/user/hsk-life/internal/game"
	"go.uber.org/zap"
)

type ctxKey struct{}

const requestTimeout = 60 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // the browser shell may be served from another origin
	},
}

// Server exposes the game over HTTP
type Server struct {
	manager *game.Manager
	hub     *Hub
	config  config.ServerConfig
	Logger  *zap.Logger
}

// NewServer creates a new HTTP front end
func NewServer(cfg config.ServerConfig, manager *game.Manager, hub *Hub, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		manager: manager,
		hub:     hub,
		config:  cfg,
		Logger:  logger,
	}
}

// Router builds the route table
func (s *Server) Router() http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	router.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(requestTimeout))
		r.Get("/content", s.handleContent)
		r.Get("/players", s.handleListPlayers)
		r.Post("/players", s.handleRegister)
	})

	router.Route("/players/{id}", func(r chi.Router) {
		r.Use(s.loadSession)

		// websockets are long-lived and stay outside the request timeout
		r.Get("/ws", s.handleWebsocket)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(requestTimeout))

			r.Get("/", s.handleView)
			r.Delete("/", s.handleRemove)
			r.Get("/qr", s.handleQR)

			r.Post("/speak", s.handleSpeak)
			r.Post("/interact", s.handleInteract)
			r.Post("/chat/close", s.simple((*game.Session).CloseChat))
			r.Post("/zone", s.handleZone)

			r.Post("/exam/start", s.simple((*game.Session).StartExam))
			r.Post("/exam/answer", s.handleExamAnswer)

			r.Post("/job/open", s.handleJobOpen)
			r.Post("/job/task", s.handleJobTask)
			r.Post("/job/finish", s.handleJobFinish)
			r.Post("/job/cancel", s.simple((*game.Session).CancelJob))

			r.Post("/minigame/start", s.handleMinigameStart)
			r.Post("/minigame/catch", s.handleMinigameCatch)
			r.Post("/minigame/miss", s.minigame((*game.Session).MissWord))
			r.Post("/minigame/finish", s.minigame((*game.Session).FinishMinigame))

			r.Post("/partner/enter", s.simple((*game.Session).EnterPartnerRoom))
			r.Post("/partner/leave", s.simple((*game.Session).LeavePartnerRoom))

			r.Post("/reset", s.handleReset)
			r.Post("/speech-error", s.handleSpeechError)
		})
	})

	return router
}

// HTTPServer wraps the router in a server listening on the configured port
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:    ":" + s.config.Port,
		Handler: s.Router(),
	}
}

// loadSession resolves the {id} URL parameter to a running session
func (s *Server) loadSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, err := s.manager.GetSession(chi.URLParam(r, "id"))
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, session)))
	})
}

func sessionFrom(r *http.Request) *game.Session {
	return r.Context().Value(ctxKey{}).(*game.Session)
}

// actionResponse pairs an action's own result with the state it left behind
type actionResponse struct {
	Result any       `json:"result,omitempty"`
	State  game.View `json:"state"`
}

type textRequest struct {
	Text string `json:"text"`
}

func (s *Server) respond(w http.ResponseWriter, session *game.Session, result any) {
	writeJSON(w, http.StatusOK, actionResponse{Result: result, State: session.View()})
}

// simple adapts a session action that only changes state
func (s *Server) simple(action func(*game.Session) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session := sessionFrom(r)
		if err := action(session); err != nil {
			s.writeError(w, r, err)
			return
		}
		s.respond(w, session, nil)
	}
}

func (s *Server) minigame(action func(*game.Session) (game.MinigameResult, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session := sessionFrom(r)
		result, err := action(session)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		s.respond(w, session, result)
	}
}

func (s *Server) handleContent(w http.ResponseWriter, r *http.Request) {
	catalog := s.manager.Catalog()
	writeJSON(w, http.StatusOK, map[string]any{
		"zones": catalog.Zones(),
		"npcs":  catalog.AllNPCs(),
		"items": catalog.Items(),
		"jobs":  catalog.Jobs(),
	})
}

type playerSummary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func (s *Server) handleListPlayers(w http.ResponseWriter, r *http.Request) {
	sessions := s.manager.Players()
	players := make([]playerSummary, 0, len(sessions))
	for _, session := range sessions {
		players = append(players, playerSummary{ID: session.ID, Name: session.Name, CreatedAt: session.CreatedAt})
	}
	writeJSON(w, http.StatusOK, players)
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	if !s.decode(w, r, &req) {
		return
	}
	session, err := s.manager.RegisterPlayer(r.Context(), req.ID, strings.TrimSpace(req.Name))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, session.View())
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, sessionFrom(r).View())
}

func (s *Server) handleRemove(w http.ResponseWriter, r *http.Request) {
	if err := s.manager.RemovePlayer(sessionFrom(r).ID); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleQR renders a pairing code for opening the player's session on another device
func (s *Server) handleQR(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r)
	link := strings.TrimRight(s.config.PublicURL, "/") + "/?player=" + session.ID
	png, err := qrcode.Encode(link, qrcode.Medium, 256)
	if err != nil {
		s.Logger.Error("Failed to generate QR code",
			zap.String("player_id", session.ID),
			zap.Error(err))
		http.Error(w, "Failed to generate QR code", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}

func (s *Server) handleSpeak(w http.ResponseWriter, r *http.Request) {
	var req textRequest
	if !s.decode(w, r, &req) {
		return
	}
	session := sessionFrom(r)
	result, err := session.Speak(r.Context(), req.Text)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.respond(w, session, result)
}

func (s *Server) handleInteract(w http.ResponseWriter, r *http.Request) {
	var req struct {
		NPCID string `json:"npc_id"`
	}
	if !s.decode(w, r, &req) {
		return
	}
	session := sessionFrom(r)
	if err := session.Interact(req.NPCID); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.respond(w, session, nil)
}

// handleZone moves to a named zone, or to a neighbour with direction next/prev
func (s *Server) handleZone(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ZoneID    string `json:"zone_id"`
		Direction string `json:"direction"`
	}
	if !s.decode(w, r, &req) {
		return
	}
	session := sessionFrom(r)

	var err error
	switch {
	case req.ZoneID != "":
		err = session.MoveZone(req.ZoneID)
	case req.Direction == "next":
		err = session.NextZone()
	case req.Direction == "prev":
		err = session.PrevZone()
	default:
		http.Error(w, "zone_id or direction (next, prev) required", http.StatusBadRequest)
		return
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.respond(w, session, nil)
}

func (s *Server) handleExamAnswer(w http.ResponseWriter, r *http.Request) {
	var req textRequest
	if !s.decode(w, r, &req) {
		return
	}
	session := sessionFrom(r)
	reply, err := session.AnswerExam(r.Context(), req.Text)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.respond(w, session, reply)
}

func (s *Server) handleJobOpen(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r)
	job, err := session.OpenJobBoard()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.respond(w, session, job)
}

func (s *Server) handleJobTask(w http.ResponseWriter, r *http.Request) {
	var req textRequest
	if !s.decode(w, r, &req) {
		return
	}
	session := sessionFrom(r)
	result, err := session.AttemptJobTask(req.Text)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.respond(w, session, result)
}

func (s *Server) handleJobFinish(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r)
	earned, err := session.FinishJob()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.respond(w, session, map[string]int{"earned": earned})
}

func (s *Server) handleMinigameStart(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r)
	word, err := session.StartMinigame()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.respond(w, session, word)
}

func (s *Server) handleMinigameCatch(w http.ResponseWriter, r *http.Request) {
	var req textRequest
	if !s.decode(w, r, &req) {
		return
	}
	session := sessionFrom(r)
	result, err := session.CatchWord(req.Text)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.respond(w, session, result)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r)
	session.Reset()
	s.respond(w, session, nil)
}

func (s *Server) handleSpeechError(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Reason string `json:"reason"`
	}
	if !s.decode(w, r, &req) {
		return
	}
	session := sessionFrom(r)
	session.ReportSpeechError(req.Reason)
	s.respond(w, session, nil)
}

func (s *Server) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r)
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.Logger.Error("Failed to upgrade websocket connection",
			zap.String("player_id", session.ID),
			zap.Error(err))
		return
	}
	s.hub.Attach(session.ID, conn)
}

// decode reads a JSON body; an empty body leaves v at its zero value
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if r.Body == nil {
		return true
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return false
	}
	return true
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, game.ErrPlayerNotFound):
		return http.StatusNotFound
	case errors.Is(err, game.ErrInvalidPlayerID),
		errors.Is(err, game.ErrUnknownNPC),
		errors.Is(err, game.ErrUnknownZone):
		return http.StatusBadRequest
	case errors.Is(err, game.ErrZoneLocked):
		return http.StatusForbidden
	case errors.Is(err, game.ErrPlayerExists),
		errors.Is(err, game.ErrNoActiveNPC),
		errors.Is(err, game.ErrInvalidTransition),
		errors.Is(err, game.ErrGameOver),
		errors.Is(err, game.ErrStaleTurn):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.Logger.Error("Request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err))
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
