package game

import (
	"fmt"
	"time"
)

// PlayerSnapshot captures player state for external use.
type PlayerSnapshot struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Color       string  `json:"color"`
	IsReady     bool    `json:"isReady"`
	IsCreator   bool    `json:"isCreator"`
	IsConnected bool    `json:"isConnected"`
	KarmaPoints int     `json:"karmaPoints"`
	General     *Card   `json:"general,omitempty"`
	Hand        []*Card `json:"hand"`
	Sena        []*Card `json:"sena"`
	Jail        []*Card `json:"jail"`
}

// RoomSnapshot captures a consistent deep copy of a room. Snapshots are what
// the publication layer fans out; they never alias live state, so a snapshot
// taken under the lock stays valid after the room moves on.
type RoomSnapshot struct {
	RoomCode          string           `json:"roomCode"`
	RoomName          string           `json:"roomName"`
	MaxPlayers        int              `json:"maxPlayers"`
	Players           []PlayerSnapshot `json:"players"`
	Status            RoomStatus       `json:"status"`
	CreatedAt         time.Time        `json:"createdAt"`
	Messages          []Message        `json:"messages"`
	CurrentTurn       int              `json:"currentTurn"`
	TurnStartTime     time.Time        `json:"turnStartTime"`
	ActivePlayerIndex int              `json:"activePlayerIndex"`
	Assuras           []*Card          `json:"assuras"`
	AssuraReserveLen  int              `json:"assuraReserveCount"`
	GameLogs          []LogEntry       `json:"gameLogs"`
	DrawDeckLen       int              `json:"drawDeckCount"`
	SubmergePileLen   int              `json:"submergePileCount"`
	Winner            *Winner          `json:"winner,omitempty"`
}

// Validate checks the internal-consistency invariants a snapshot must hold
// before it may be published. A violation means the state machine itself is
// broken; the publisher refuses to fan out corrupted state.
func (s RoomSnapshot) Validate() error {
	for _, p := range s.Players {
		if p.KarmaPoints < 0 {
			return fmt.Errorf("player %s has negative karma %d", p.ID, p.KarmaPoints)
		}
	}
	if s.Status == StatusInGame {
		if s.ActivePlayerIndex < 0 || s.ActivePlayerIndex >= len(s.Players) {
			return fmt.Errorf("active player index %d out of range for %d players", s.ActivePlayerIndex, len(s.Players))
		}
	}
	if len(s.Assuras) > AssuraRealmSize {
		return fmt.Errorf("assura realm holds %d cards, max %d", len(s.Assuras), AssuraRealmSize)
	}
	return nil
}

// Snapshot returns a consistent deep copy of the room state.
func (r *Room) Snapshot() RoomSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	players := make([]PlayerSnapshot, 0, len(r.Players))
	for _, p := range r.Players {
		players = append(players, PlayerSnapshot{
			ID:          p.ID,
			Name:        p.Name,
			Color:       p.Color,
			IsReady:     p.IsReady,
			IsCreator:   p.IsCreator,
			IsConnected: p.IsConnected,
			KarmaPoints: p.KarmaPoints,
			General:     p.General.Clone(),
			Hand:        cloneCards(p.Hand),
			Sena:        cloneCards(p.Sena),
			Jail:        cloneCards(p.Jail),
		})
	}

	var winner *Winner
	if r.Winner != nil {
		w := *r.Winner
		winner = &w
	}

	return RoomSnapshot{
		RoomCode:          r.RoomCode,
		RoomName:          r.RoomName,
		MaxPlayers:        r.MaxPlayers,
		Players:           players,
		Status:            r.Status,
		CreatedAt:         r.CreatedAt,
		Messages:          append([]Message(nil), r.Messages...),
		CurrentTurn:       r.CurrentTurn,
		TurnStartTime:     r.TurnStartTime,
		ActivePlayerIndex: r.ActivePlayerIndex,
		Assuras:           cloneCards(r.Assuras),
		AssuraReserveLen:  len(r.AssuraReserve),
		GameLogs:          append([]LogEntry(nil), r.GameLogs...),
		DrawDeckLen:       len(r.DrawDeck),
		SubmergePileLen:   len(r.SubmergePile),
		Winner:            winner,
	}
}
