// Package live fans out tournament events to WebSocket subscribers.
// Each tournament gets its own room; services publish events after a
// successful mutation and subscribers of that tournament receive them.
package live

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
)

const (
	EventTournamentUpdated     = "TOURNAMENT_UPDATED"
	EventParticipantRegistered = "PARTICIPANT_REGISTERED"
	EventParticipantUpdated    = "PARTICIPANT_UPDATED"
	EventMatchCreated          = "MATCH_CREATED"
	EventMatchUpdated          = "MATCH_UPDATED"
)

type Event struct {
	Type         string      `json:"type"`
	TournamentID int         `json:"tournamentId"`
	Payload      interface{} `json:"payload"`
}

type Hub struct {
	register   chan *Client
	unregister chan *Client
	rooms      map[string]map[*Client]bool
	mu         sync.RWMutex
	logger     *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		rooms:      make(map[string]map[*Client]bool),
		logger:     logger,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if _, ok := h.rooms[client.room]; !ok {
				h.rooms[client.room] = make(map[*Client]bool)
			}
			h.rooms[client.room][client] = true
			h.logger.Debug("client joined room",
				slog.String("room", client.room),
				slog.Int("clients", len(h.rooms[client.room])))
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.rooms[client.room]; ok {
				if _, present := clients[client]; present {
					client.closeSend()
					delete(clients, client)
					if len(clients) == 0 {
						delete(h.rooms, client.room)
					}
				}
			}
			h.mu.Unlock()
		}
	}
}

// Publish sends an event to every subscriber of the event's tournament.
// Slow clients are skipped rather than blocking the publisher.
func (h *Hub) Publish(event Event) {
	message, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("failed to marshal live event", slog.Any("error", err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	clients, ok := h.rooms[roomID(event.TournamentID)]
	if !ok {
		return
	}
	for client := range clients {
		client.trySend(message)
	}
}

func roomID(tournamentID int) string {
	return fmt.Sprintf("tournament_%d", tournamentID)
}
