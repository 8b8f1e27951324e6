package server

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/asurahunt/karma-server-go/internal/game"
	"github.com/asurahunt/karma-server-go/internal/room"
	"go.uber.org/zap"
)

// Hub owns every connected client and fans room publications out to the
// clients observing each room. It is the websocket implementation of
// room.Publisher; the room core never sees a connection.
type Hub struct {
	register   chan *Client
	unregister chan *Client

	mu       sync.RWMutex
	clients  map[*Client]bool
	byID     map[string]*Client
	roomSubs map[string]map[*Client]bool

	mgr    *room.Manager
	logger *zap.Logger
}

// NewHub creates a hub. The room manager is wired afterwards via SetManager
// because manager construction needs the hub as its publisher.
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		byID:       make(map[string]*Client),
		roomSubs:   make(map[string]map[*Client]bool),
		logger:     logger,
	}
}

// SetManager wires the room registry. Set once during startup.
func (h *Hub) SetManager(mgr *room.Manager) {
	h.mgr = mgr
}

// Run processes client registration until the context is cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.byID[client.id] = client
			h.mu.Unlock()
			h.logger.Debug("client registered", zap.String("client_id", client.id))

		case client := <-h.unregister:
			h.dropClient(client)

		case <-ctx.Done():
			return
		}
	}
}

func (h *Hub) dropClient(client *Client) {
	h.mu.Lock()
	if _, ok := h.clients[client]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, client)
	delete(h.byID, client.id)
	for _, subs := range h.roomSubs {
		delete(subs, client)
	}
	client.closeSend()
	roomCode, playerID := client.roomCode, client.playerID
	h.mu.Unlock()

	h.logger.Debug("client unregistered", zap.String("client_id", client.id))

	// Seat stays reserved; the room just shows the player as offline.
	if roomCode != "" && playerID != "" {
		h.mgr.MarkDisconnected(roomCode, playerID)
	}
}

// subscribe adds the client to a room's observer set.
func (h *Hub) subscribe(client *Client, roomCode string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	subs, ok := h.roomSubs[roomCode]
	if !ok {
		subs = make(map[*Client]bool)
		h.roomSubs[roomCode] = subs
	}
	subs[client] = true
	client.roomCode = roomCode
}

// PublishRoom fans the snapshot out to every observer of the room. The
// client named by targetClientID additionally learns its assigned player id
// and is subscribed to the room if it was not already.
func (h *Hub) PublishRoom(roomCode string, snap game.RoomSnapshot, targetClientID, assignedPlayerID string) {
	plain, err := marshalEnvelope(msgRoomUpdated, roomUpdatedPayload{Room: snap})
	if err != nil {
		h.logger.Error("failed to marshal room snapshot", zap.Error(err))
		return
	}

	var target *Client
	if targetClientID != "" {
		h.mu.RLock()
		target = h.byID[targetClientID]
		h.mu.RUnlock()
	}

	if target != nil && assignedPlayerID != "" {
		h.subscribe(target, roomCode)
		h.mu.Lock()
		target.playerID = assignedPlayerID
		h.mu.Unlock()

		targeted, err := marshalEnvelope(msgRoomUpdated, roomUpdatedPayload{
			Room:            snap,
			CurrentPlayerID: assignedPlayerID,
		})
		if err == nil {
			target.enqueue(targeted)
		}
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.roomSubs[roomCode] {
		if client == target && assignedPlayerID != "" {
			continue // already got the targeted copy
		}
		client.enqueue(plain)
	}
}

// PublishError delivers an error message to a single caller.
func (h *Hub) PublishError(targetClientID, message string) {
	h.mu.RLock()
	client := h.byID[targetClientID]
	h.mu.RUnlock()
	if client == nil {
		return
	}

	data, err := marshalEnvelope(msgError, errorPayload{Message: message})
	if err != nil {
		return
	}
	client.enqueue(data)
}

// handleMessage dispatches one decoded intent from a client into the room
// registry.
func (h *Hub) handleMessage(client *Client, msg Envelope) {
	ctx := context.Background()

	switch msg.Type {
	case msgCreateRoom:
		var intent room.CreateRoomIntent
		if err := json.Unmarshal(msg.Data, &intent); err != nil {
			h.PublishError(client.id, "malformed create_room intent")
			return
		}
		h.mgr.CreateRoom(ctx, client.id, intent)

	case msgJoinRoom:
		var intent room.JoinRoomIntent
		if err := json.Unmarshal(msg.Data, &intent); err != nil {
			h.PublishError(client.id, "malformed join_room intent")
			return
		}
		h.mgr.JoinRoom(ctx, client.id, intent)

	case msgReclaim:
		var intent reclaimIntent
		if err := json.Unmarshal(msg.Data, &intent); err != nil {
			h.PublishError(client.id, "malformed reclaim_player intent")
			return
		}
		h.subscribe(client, intent.RoomCode)
		h.mgr.ReclaimPlayer(ctx, client.id, intent.RoomCode, intent.ClientKey)

	case msgWatchRoom:
		var intent roomScopedIntent
		if err := json.Unmarshal(msg.Data, &intent); err != nil {
			return
		}
		h.subscribe(client, intent.RoomID)
		if snap, ok := h.mgr.SnapshotRoom(intent.RoomID); ok {
			if data, err := marshalEnvelope(msgRoomUpdated, roomUpdatedPayload{Room: snap}); err == nil {
				client.enqueue(data)
			}
		}

	case msgToggleReady:
		var intent roomScopedIntent
		if err := json.Unmarshal(msg.Data, &intent); err != nil {
			return
		}
		h.mgr.ToggleReady(intent.RoomID, intent.PlayerID)

	case msgChatMessage:
		var intent roomScopedIntent
		if err := json.Unmarshal(msg.Data, &intent); err != nil {
			return
		}
		h.mgr.ChatMessage(intent.RoomID, intent.PlayerID, intent.PlayerName, intent.Text)

	case msgStartGame:
		var intent roomScopedIntent
		if err := json.Unmarshal(msg.Data, &intent); err != nil {
			return
		}
		h.mgr.StartGame(intent.RoomID)

	case msgResetRoom:
		var intent roomScopedIntent
		if err := json.Unmarshal(msg.Data, &intent); err != nil {
			return
		}
		h.mgr.ResetRoom(intent.RoomID)

	case msgGameAction:
		var intent gameActionIntent
		if err := json.Unmarshal(msg.Data, &intent); err != nil {
			return
		}
		h.mgr.SubmitAction(intent.RoomID, intent.PlayerID, intent.ActionRequest)

	default:
		h.logger.Warn("unknown intent type",
			zap.String("type", msg.Type),
			zap.String("client_id", client.id),
		)
	}
}
