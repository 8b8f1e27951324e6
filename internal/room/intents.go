package room

import (
	"context"

	"github.com/asurahunt/karma-server-go/internal/bot"
	"github.com/asurahunt/karma-server-go/internal/game"
	"go.uber.org/zap"
)

// CreateRoomIntent is the payload of a create_room intent.
type CreateRoomIntent struct {
	RoomName       string `json:"roomName"`
	MaxPlayers     int    `json:"maxPlayers"`
	PlayerName     string `json:"playerName"`
	Color          string `json:"color"`
	IsSinglePlayer bool   `json:"isSinglePlayer"`
}

// JoinRoomIntent is the payload of a join_room intent.
type JoinRoomIntent struct {
	RoomCode   string `json:"roomCode"`
	PlayerName string `json:"playerName"`
	Color      string `json:"color"`
}

// CreateRoom creates a room with the caller seated as creator and publishes
// the result, directing the assigned player id at the caller. Single-player
// rooms are filled with bots and started immediately.
func (m *Manager) CreateRoom(ctx context.Context, clientID string, intent CreateRoomIntent) {
	color := intent.Color
	if color == "" {
		color = game.PickColor()
	}

	maxPlayers := intent.MaxPlayers
	if maxPlayers <= 0 {
		maxPlayers = m.defaultMaxPlayers
	}

	m.mu.Lock()
	r := m.newRoomLocked(intent.RoomName, maxPlayers)
	m.mu.Unlock()

	creator := r.AddCreator(intent.PlayerName, color)
	m.rememberIdentity(ctx, clientID, creator.ID)

	if intent.IsSinglePlayer {
		for i := 0; i < m.singlePlayerBots; i++ {
			r.AddBot(bot.NewBotID(), bot.Name(i), game.PickColor())
		}
		r.Start()
	}

	m.logger.Info("room created",
		zap.String("room_code", r.RoomCode),
		zap.String("creator_id", creator.ID),
		zap.Bool("single_player", intent.IsSinglePlayer),
	)

	m.publish(r, clientID, creator.ID)
	m.pokeBots(r.RoomCode)
}

// JoinRoom seats a player in an existing room. Capacity and lookup failures
// are surfaced as a directed error to the caller only.
func (m *Manager) JoinRoom(ctx context.Context, clientID string, intent JoinRoomIntent) {
	r, ok := m.GetRoom(intent.RoomCode)
	if !ok {
		m.publisher.PublishError(clientID, "room not found")
		return
	}

	color := intent.Color
	if color == "" {
		color = game.PickColor()
	}

	p, err := r.AddPlayer(intent.PlayerName, color)
	if err != nil {
		m.publisher.PublishError(clientID, err.Error())
		return
	}
	m.rememberIdentity(ctx, clientID, p.ID)

	m.logger.Info("player joined",
		zap.String("room_code", r.RoomCode),
		zap.String("player_id", p.ID),
	)

	m.publish(r, clientID, p.ID)
}

// ReclaimPlayer reconnects a client to the seat its identity key maps to.
// The player is marked connected again and the caller relearns its id.
func (m *Manager) ReclaimPlayer(ctx context.Context, clientID, roomCode, clientKey string) {
	r, ok := m.GetRoom(roomCode)
	if !ok {
		m.publisher.PublishError(clientID, "room not found")
		return
	}

	playerID, err := m.identities.Get(ctx, clientKey)
	if err != nil || playerID == "" {
		m.publisher.PublishError(clientID, "no seat to reclaim")
		return
	}
	if !r.SetConnected(playerID, true) {
		m.publisher.PublishError(clientID, "no seat to reclaim")
		return
	}

	m.publish(r, clientID, playerID)
}

// ToggleReady flips a player's ready flag. Unknown rooms or players change
// nothing.
func (m *Manager) ToggleReady(roomCode, playerID string) {
	r, ok := m.GetRoom(roomCode)
	if !ok {
		return
	}
	if r.ToggleReady(playerID) {
		m.publish(r, "", "")
	}
}

// ChatMessage appends a chat message stamped with server time.
func (m *Manager) ChatMessage(roomCode, playerID, playerName, text string) {
	r, ok := m.GetRoom(roomCode)
	if !ok {
		return
	}
	r.AppendMessage(playerID, playerName, text)
	m.publish(r, "", "")
}

// StartGame deals a fresh game. Host-gating is the UI's concern; the
// machine starts whenever asked while the room holds players.
func (m *Manager) StartGame(roomCode string) {
	r, ok := m.GetRoom(roomCode)
	if !ok {
		return
	}
	if r.PlayerCount() == 0 {
		return
	}
	r.Start()

	m.logger.Info("game started",
		zap.String("room_code", roomCode),
		zap.Int("players", r.PlayerCount()),
	)

	m.publish(r, "", "")
	m.pokeBots(roomCode)
}

// ResetRoom returns the room to the lobby, cancelling any running bot turn.
func (m *Manager) ResetRoom(roomCode string) {
	r, ok := m.GetRoom(roomCode)
	if !ok {
		return
	}
	if m.bots != nil {
		m.bots.Stop(roomCode)
	}
	r.Reset(bot.IsBot)

	m.logger.Info("room reset", zap.String("room_code", roomCode))

	m.publish(r, "", "")
}

// SubmitAction applies an in-game action. Invalid or stale actions change
// nothing and publish nothing; valid ones republish the room and let the
// bot driver continue if the turn passed to a bot.
func (m *Manager) SubmitAction(roomCode, playerID string, intent game.ActionRequest) {
	r, ok := m.GetRoom(roomCode)
	if !ok {
		return
	}

	var changed bool
	switch intent.ActionType {
	case game.ActionDrawCard:
		changed = r.DrawCard(playerID)
	case game.ActionPlayCard:
		changed = r.PlayCard(playerID, intent.CardID, intent.Cost, intent.Target)
	case game.ActionCaptureResult:
		changed = r.ResolveCapture(playerID, intent.CardID, intent.IsCaptured, intent.Cost)
	case game.ActionEndTurn:
		changed = r.EndTurn(playerID)
	default:
		m.logger.Warn("unknown game action",
			zap.String("room_code", roomCode),
			zap.String("action", string(intent.ActionType)),
		)
		return
	}

	if !changed {
		return
	}

	m.publish(r, "", "")
	m.pokeBots(roomCode)
}

// MarkDisconnected flags a player's seat as disconnected and republishes.
func (m *Manager) MarkDisconnected(roomCode, playerID string) {
	r, ok := m.GetRoom(roomCode)
	if !ok {
		return
	}
	if r.SetConnected(playerID, false) {
		m.publish(r, "", "")
	}
}

// rememberIdentity persists the clientKey -> playerID mapping. Identity
// storage is best-effort; a failing store never blocks seating.
func (m *Manager) rememberIdentity(ctx context.Context, clientKey, playerID string) {
	if m.identities == nil || clientKey == "" {
		return
	}
	if err := m.identities.Set(ctx, clientKey, playerID); err != nil {
		m.logger.Warn("failed to persist player identity",
			zap.String("player_id", playerID),
			zap.Error(err),
		)
	}
}
