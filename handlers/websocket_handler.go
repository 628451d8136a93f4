package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Ruben10-R/pro-league/live"
	"github.com/Ruben10-R/pro-league/services"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// TODO: restrict to the frontend origin once it is deployed.
		return true
	},
}

type WebSocketHandler struct {
	hub               *live.Hub
	tournamentService services.TournamentService
}

func NewWebSocketHandler(hub *live.Hub, tournamentService services.TournamentService) *WebSocketHandler {
	return &WebSocketHandler{
		hub:               hub,
		tournamentService: tournamentService,
	}
}

// ServeWs upgrades GET /ws/tournaments/{tournamentID} and joins the
// caller to that tournament's event room.
func (h *WebSocketHandler) ServeWs(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}

	// Reject rooms for tournaments that do not exist. A bare existence
	// read is enough here; the detail view's preloads are not needed.
	if err := h.tournamentService.Exists(r.Context(), tournamentID); err != nil {
		mapServiceError(w, r, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already replied to the client.
		slog.Warn("websocket upgrade failed",
			slog.Int("tournamentId", tournamentID),
			slog.Any("error", err))
		return
	}

	live.NewClient(h.hub, conn, tournamentID)
}
