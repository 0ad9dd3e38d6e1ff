package server

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/gorilla/websocket"

	"github.com/sportsight/dashboard-core/internal/navstate"
	"github.com/sportsight/dashboard-core/internal/viewmodel"
	"github.com/sportsight/dashboard-core/pkg/models"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Handler serves derived view-models to dashboard frontends.
type Handler struct {
	svc *viewmodel.Service
	hub *Hub
}

// NewHandler creates the view-model handler set.
func NewHandler(svc *viewmodel.Service, hub *Hub) *Handler {
	return &Handler{svc: svc, hub: hub}
}

// NewRouter assembles the gateway router.
func NewRouter(h *Handler, corsOrigins []string) chi.Router {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: corsOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", h.HandleHealth)
	r.Get("/ws", h.HandleWebSocket)

	r.Route("/view", func(r chi.Router) {
		r.Get("/dashboard", h.HandleDashboard)
		r.Get("/calibration", h.HandleCalibration)
		r.Get("/games", h.HandleGames)
		r.Get("/games/{game_id}", h.HandleGameDetail)
		r.Get("/teams", h.HandleTeams)
		r.Get("/nav", h.HandleGetNav)
		r.Post("/nav", h.HandleNavAction)
	})

	return r
}

// HandleHealth reports gateway liveness.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"status":     "healthy",
		"service":    "dashboard-core",
		"ws_clients": h.hub.ClientCount(),
	})
}

// HandleDashboard returns the accuracy dashboard view-model.
// GET /view/dashboard
func (h *Handler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.svc.Dashboard(r.Context()))
}

// HandleCalibration returns the calibration view-model.
// GET /view/calibration?sport=ALL|NBA|NFL|NHL|MLB|NCAAB|NCAAF
func (h *Handler) HandleCalibration(w http.ResponseWriter, r *http.Request) {
	sport := r.URL.Query().Get("sport")
	if sport == "" {
		sport = viewmodel.AllSports
	}
	if sport != viewmodel.AllSports && !models.Sport(sport).IsValid() {
		http.Error(w, "unknown sport", http.StatusBadRequest)
		return
	}
	writeJSON(w, h.svc.Calibration(r.Context(), sport))
}

// HandleGames returns the games list for the current navigation state.
// GET /view/games
func (h *Handler) HandleGames(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.svc.Games(r.Context()))
}

// HandleGameDetail returns one game's detail view-model.
// GET /view/games/{game_id}
func (h *Handler) HandleGameDetail(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "game_id"))
	if err != nil {
		http.Error(w, "game_id must be an integer", http.StatusBadRequest)
		return
	}
	writeJSON(w, h.svc.GameDetail(r.Context(), id))
}

// HandleTeams returns the team list for the selected sport.
// GET /view/teams
func (h *Handler) HandleTeams(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.svc.Teams(r.Context()))
}

// HandleGetNav returns the current navigation state.
// GET /view/nav
func (h *Handler) HandleGetNav(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.svc.Nav().Current())
}

// navRequest is the wire form of a navigation action.
type navRequest struct {
	Action string `json:"action"`
	Sport  string `json:"sport,omitempty"`
	Date   string `json:"date,omitempty"`
}

// HandleNavAction dispatches one navigation action and returns the new
// state.
// POST /view/nav {"action": "set_sport"|"set_date"|"next_day"|"prev_day", ...}
func (h *Handler) HandleNavAction(w http.ResponseWriter, r *http.Request) {
	var req navRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	var action navstate.Action
	switch req.Action {
	case "set_sport":
		sport := models.Sport(req.Sport)
		if !sport.IsValid() {
			http.Error(w, "unknown sport", http.StatusBadRequest)
			return
		}
		action = navstate.SetSport{Sport: sport}
	case "set_date":
		if _, err := time.Parse(navstate.DateLayout, req.Date); err != nil {
			http.Error(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		action = navstate.SetDate{Date: req.Date}
	case "next_day":
		action = navstate.NextDay{}
	case "prev_day":
		action = navstate.PrevDay{}
	default:
		http.Error(w, "unknown action", http.StatusBadRequest)
		return
	}

	writeJSON(w, h.svc.Nav().Dispatch(action))
}

// HandleWebSocket upgrades the connection and streams cache updates,
// optionally filtered to one query domain via ?domain=.
// GET /ws?domain=accuracy
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade failed: %v", err)
		return
	}

	c := newWSClient(conn, h.hub, r.URL.Query().Get("domain"))
	h.hub.add(c)

	go c.writePump()
	go c.readPump()
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encoding response: %v", err)
	}
}
