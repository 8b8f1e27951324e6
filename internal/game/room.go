package game

import (
	"sync"
	"time"
)

// RoomStatus is the lifecycle stage of a room.
type RoomStatus string

const (
	// StatusWaiting is the lobby state where players join and ready up.
	StatusWaiting RoomStatus = "waiting"
	// StatusInGame is the active game state.
	StatusInGame RoomStatus = "in-game"
	// StatusFinished is the terminal state after a win condition fired.
	StatusFinished RoomStatus = "finished"
)

// AssuraRealmSize is the number of face-up Assuras kept in the central pool.
const AssuraRealmSize = 3

// JailWinCount is the number of captured Assuras required to win.
const JailWinCount = 3

// Rules carries the tunable rule constants a room plays under.
type Rules struct {
	StartingKarma int
	TurnKarma     int
	MaxKarma      int
	HandSize      int
	DrawCost      int
	CaptureCost   int
}

// DefaultRules returns the canonical rule set.
func DefaultRules() Rules {
	return Rules{
		StartingKarma: 3,
		TurnKarma:     3,
		MaxKarma:      10,
		HandSize:      5,
		DrawCost:      1,
		CaptureCost:   2,
	}
}

// Player is a participant in a room.
type Player struct {
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

// Message is a single chat message.
type Message struct {
	ID         string    `json:"id"`
	PlayerID   string    `json:"playerId"`
	PlayerName string    `json:"playerName"`
	Text       string    `json:"text"`
	Timestamp  time.Time `json:"timestamp"`
}

// LogType classifies game log entries.
type LogType string

const (
	LogDraw    LogType = "draw"
	LogPlay    LogType = "play"
	LogCapture LogType = "capture"
	LogTurn    LogType = "turn"
	LogSystem  LogType = "system"
)

// LogEntry is a single narrated game history entry.
type LogEntry struct {
	ID        string    `json:"id"`
	Type      LogType   `json:"type"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// Winner records the first detected win, set at most once per game.
type Winner struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	Condition string    `json:"condition"`
	Timestamp time.Time `json:"timestamp"`
}

const (
	maxMessages = 200
	maxGameLogs = 500
)

// Room is the aggregate root holding all authoritative state for one game
// room. Every mutation goes through a method that holds the room mutex, so
// intents against one room are applied strictly one at a time.
type Room struct {
	RoomCode          string
	RoomName          string
	MaxPlayers        int
	Players           []*Player // order = turn order, fixed at join time
	Status            RoomStatus
	CreatedAt         time.Time
	Messages          []Message
	CurrentTurn       int
	TurnStartTime     time.Time
	ActivePlayerIndex int
	Assuras           []*Card
	AssuraReserve     []*Card
	GameLogs          []LogEntry
	DrawDeck          []*Card
	SubmergePile      []*Card
	Winner            *Winner

	rules Rules
	mu    sync.Mutex
}

// NewRoom creates an empty waiting room. The creator joins through
// AddCreator so that player construction lives in one place.
func NewRoom(roomCode, roomName string, maxPlayers int, rules Rules) *Room {
	if maxPlayers < 2 {
		maxPlayers = 2
	}
	if maxPlayers > 6 {
		maxPlayers = 6
	}
	return &Room{
		RoomCode:      roomCode,
		RoomName:      roomName,
		MaxPlayers:    maxPlayers,
		Players:       make([]*Player, 0, maxPlayers),
		Status:        StatusWaiting,
		CreatedAt:     time.Now(),
		Messages:      make([]Message, 0),
		CurrentTurn:   1,
		Assuras:       make([]*Card, 0, AssuraRealmSize),
		AssuraReserve: make([]*Card, 0),
		GameLogs:      make([]LogEntry, 0),
		DrawDeck:      make([]*Card, 0),
		SubmergePile:  make([]*Card, 0),
		rules:         rules,
	}
}

// Rules returns the rule set the room plays under.
func (r *Room) Rules() Rules {
	return r.rules
}

func newPlayer(name, color string) *Player {
	return &Player{
		ID:          NewID(),
		Name:        name,
		Color:       color,
		IsConnected: true,
		Hand:        make([]*Card, 0),
		Sena:        make([]*Card, 0),
		Jail:        make([]*Card, 0),
	}
}

// AddCreator seats the room creator. Creators start with the full karma
// allowance even in the lobby so single-player games can begin immediately.
func (r *Room) AddCreator(name, color string) *Player {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := newPlayer(name, color)
	p.IsCreator = true
	p.IsReady = true
	p.KarmaPoints = r.rules.StartingKarma
	r.Players = append(r.Players, p)
	return p
}

// AddPlayer seats a joining player, or returns ErrRoomFull.
func (r *Room) AddPlayer(name, color string) (*Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.Players) >= r.MaxPlayers {
		return nil, ErrRoomFull
	}

	p := newPlayer(name, color)
	r.Players = append(r.Players, p)
	return p, nil
}

// AddBot appends an automated player. Bots are always ready.
func (r *Room) AddBot(id, name, color string) *Player {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := newPlayer(name, color)
	p.ID = id
	p.IsReady = true
	r.Players = append(r.Players, p)
	return p
}

// ToggleReady flips the ready flag of the given player. Unknown players are
// silently ignored.
func (r *Room) ToggleReady(playerID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.Players {
		if p.ID == playerID {
			p.IsReady = !p.IsReady
			return true
		}
	}
	return false
}

// SetConnected marks a player connected or disconnected. Unknown players
// are silently ignored.
func (r *Room) SetConnected(playerID string, connected bool) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.Players {
		if p.ID == playerID {
			p.IsConnected = connected
			return true
		}
	}
	return false
}

// AppendMessage adds a chat message stamped with server time.
func (r *Room) AppendMessage(playerID, playerName, text string) Message {
	r.mu.Lock()
	defer r.mu.Unlock()

	msg := Message{
		ID:         NewID(),
		PlayerID:   playerID,
		PlayerName: playerName,
		Text:       text,
		Timestamp:  time.Now(),
	}
	r.Messages = append(r.Messages, msg)
	if len(r.Messages) > maxMessages {
		r.Messages = r.Messages[len(r.Messages)-maxMessages:]
	}
	return msg
}

// Start deals a fresh game: new shuffled decks, one General plus a starting
// hand per player, starting karma for everyone, first three Assuras face up.
func (r *Room) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()

	deck := NewMasterDeck()
	assuras := NewAssuraPool()
	generals := NewGenerals()

	for i, p := range r.Players {
		p.General = generals[i%len(generals)].Clone()
		p.Hand = make([]*Card, 0, r.rules.HandSize)
		for j := 0; j < r.rules.HandSize && len(deck) > 0; j++ {
			p.Hand = append(p.Hand, deck[0])
			deck = deck[1:]
		}
		p.Sena = make([]*Card, 0)
		p.Jail = make([]*Card, 0)
		p.KarmaPoints = r.rules.StartingKarma
		p.IsReady = true
	}

	r.Status = StatusInGame
	r.DrawDeck = deck
	r.SubmergePile = make([]*Card, 0)
	if len(assuras) > AssuraRealmSize {
		r.Assuras = assuras[:AssuraRealmSize]
		r.AssuraReserve = assuras[AssuraRealmSize:]
	} else {
		r.Assuras = assuras
		r.AssuraReserve = make([]*Card, 0)
	}
	r.ActivePlayerIndex = 0
	r.CurrentTurn = 1
	r.TurnStartTime = time.Now()
	r.Winner = nil
	r.GameLogs = make([]LogEntry, 0)
	r.appendLog(LogSystem, "The hunt begins.")
}

// Reset returns the room to the lobby, clearing per-player game state but
// preserving room identity and membership. Bots stay ready.
func (r *Room) Reset(botCheck func(playerID string) bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.Status = StatusWaiting
	r.Winner = nil
	r.CurrentTurn = 1
	r.ActivePlayerIndex = 0
	r.GameLogs = make([]LogEntry, 0)
	r.DrawDeck = make([]*Card, 0)
	r.SubmergePile = make([]*Card, 0)
	r.Assuras = make([]*Card, 0, AssuraRealmSize)
	r.AssuraReserve = make([]*Card, 0)

	for _, p := range r.Players {
		p.IsReady = botCheck != nil && botCheck(p.ID)
		p.General = nil
		p.Hand = make([]*Card, 0)
		p.Sena = make([]*Card, 0)
		p.Jail = make([]*Card, 0)
		p.KarmaPoints = 0
	}
}

// Status helpers used by callers that do not need a full snapshot.

// CurrentStatus returns the room status.
func (r *Room) CurrentStatus() RoomStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.Status
}

// ActivePlayerID returns the id of the player whose turn it is, or "" when
// no game is running.
func (r *Room) ActivePlayerID() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Status != StatusInGame {
		return ""
	}
	if r.ActivePlayerIndex < 0 || r.ActivePlayerIndex >= len(r.Players) {
		return ""
	}
	return r.Players[r.ActivePlayerIndex].ID
}

// PlayerCount returns the number of seated players.
func (r *Room) PlayerCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.Players)
}

// findPlayer returns the seated player with the given id. Callers must hold
// the room mutex.
func (r *Room) findPlayer(playerID string) *Player {
	for _, p := range r.Players {
		if p.ID == playerID {
			return p
		}
	}
	return nil
}

// appendLog adds a narrated history entry. Callers must hold the room mutex.
func (r *Room) appendLog(logType LogType, message string) {
	r.GameLogs = append(r.GameLogs, LogEntry{
		ID:        NewID(),
		Type:      logType,
		Message:   message,
		Timestamp: time.Now(),
	})
	if len(r.GameLogs) > maxGameLogs {
		r.GameLogs = r.GameLogs[len(r.GameLogs)-maxGameLogs:]
	}
}
