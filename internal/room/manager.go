package room

import (
	"context"
	"errors"
	"sync"

	"github.com/asurahunt/karma-server-go/internal/game"
	"go.uber.org/zap"
)

// ErrRoomNotFound is returned when no live room matches the given code.
var ErrRoomNotFound = errors.New("room not found")

// Publisher fans a room snapshot out to every observer of that room. When
// assignedPlayerID is non-empty, the message delivered to targetClientID
// additionally carries that player id so the client learns its identity;
// all other observers receive the plain snapshot. PublishError is directed
// at a single caller only.
type Publisher interface {
	PublishRoom(roomCode string, snap game.RoomSnapshot, targetClientID, assignedPlayerID string)
	PublishError(targetClientID, message string)
}

// IdentityStore remembers which player id a client key maps to, so a
// reconnecting client can reclaim its seat. The core only touches it at
// create/join/reclaim time.
type IdentityStore interface {
	Get(ctx context.Context, clientKey string) (string, error)
	Set(ctx context.Context, clientKey, playerID string) error
	Remove(ctx context.Context, clientKey string) error
}

// BotDriver is poked after every applied intent; it decides whether the new
// active player is a bot and, if so, runs the bot's turn.
type BotDriver interface {
	MaybeRun(roomCode string)
	Stop(roomCode string)
}

// Manager is the room registry: the single process-wide owner of all live
// rooms, keyed by room code. Rooms are independent single-writer aggregates;
// the registry lock only guards the map itself.
type Manager struct {
	rooms      map[string]*game.Room
	mu         sync.RWMutex
	logger     *zap.Logger
	publisher  Publisher
	identities IdentityStore
	bots       BotDriver
	rules      game.Rules

	// How many bots fill out a single-player room.
	singlePlayerBots int

	// Room size used when a create_room intent omits maxPlayers.
	defaultMaxPlayers int
}

// NewManager creates a room registry.
func NewManager(rules game.Rules, publisher Publisher, identities IdentityStore, logger *zap.Logger) *Manager {
	return &Manager{
		rooms:             make(map[string]*game.Room),
		logger:            logger,
		publisher:         publisher,
		identities:        identities,
		rules:             rules,
		singlePlayerBots:  2,
		defaultMaxPlayers: 4,
	}
}

// SetSinglePlayerBots overrides how many bots seat into a single-player
// room. Values below one are ignored.
func (m *Manager) SetSinglePlayerBots(n int) {
	if n > 0 {
		m.singlePlayerBots = n
	}
}

// SetDefaultMaxPlayers overrides the room size used when a create_room
// intent omits maxPlayers. Values below one are ignored.
func (m *Manager) SetDefaultMaxPlayers(n int) {
	if n > 0 {
		m.defaultMaxPlayers = n
	}
}

// SetBotDriver wires the bot driver. Set once during startup, before any
// intent is accepted.
func (m *Manager) SetBotDriver(d BotDriver) {
	m.bots = d
}

// Rules returns the rule set rooms in this registry play under.
func (m *Manager) Rules() game.Rules {
	return m.rules
}

// GetRoom retrieves a live room by code.
func (m *Manager) GetRoom(roomCode string) (*game.Room, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	r, ok := m.rooms[roomCode]
	return r, ok
}

// RemoveRoom drops a room from the registry.
func (m *Manager) RemoveRoom(roomCode string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.rooms, roomCode)
	m.logger.Info("room removed", zap.String("room_code", roomCode))
}

// RoomCount returns the number of live rooms.
func (m *Manager) RoomCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rooms)
}

// SnapshotRoom returns a deep-copied snapshot of the named room.
func (m *Manager) SnapshotRoom(roomCode string) (game.RoomSnapshot, bool) {
	r, ok := m.GetRoom(roomCode)
	if !ok {
		return game.RoomSnapshot{}, false
	}
	return r.Snapshot(), true
}

// newRoomLocked allocates a room under a code no live room is using.
// Callers must hold the registry lock.
func (m *Manager) newRoomLocked(roomName string, maxPlayers int) *game.Room {
	code := game.NewRoomCode()
	for {
		if _, taken := m.rooms[code]; !taken {
			break
		}
		code = game.NewRoomCode()
	}
	r := game.NewRoom(code, roomName, maxPlayers, m.rules)
	m.rooms[code] = r
	return r
}

// publish validates and fans out the room's current snapshot. A snapshot
// that fails validation is never published: observers keep the last good
// state instead of receiving a corrupted one.
func (m *Manager) publish(r *game.Room, targetClientID, assignedPlayerID string) {
	snap := r.Snapshot()
	if err := snap.Validate(); err != nil {
		m.logger.Error("refusing to publish corrupted room snapshot",
			zap.String("room_code", r.RoomCode),
			zap.Error(err),
		)
		return
	}
	m.publisher.PublishRoom(r.RoomCode, snap, targetClientID, assignedPlayerID)
}

// pokeBots lets the bot driver continue play if the active player is a bot.
func (m *Manager) pokeBots(roomCode string) {
	if m.bots != nil {
		m.bots.MaybeRun(roomCode)
	}
}
