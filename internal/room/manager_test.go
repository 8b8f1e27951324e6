package room

import (
	"context"
	"sync"
	"testing"

	"github.com/asurahunt/karma-server-go/internal/bot"
	"github.com/asurahunt/karma-server-go/internal/game"
	"github.com/asurahunt/karma-server-go/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type publishedRoom struct {
	RoomCode         string
	Snap             game.RoomSnapshot
	TargetClientID   string
	AssignedPlayerID string
}

type publishedError struct {
	TargetClientID string
	Message        string
}

// recordingPublisher captures publications for assertions.
type recordingPublisher struct {
	mu    sync.Mutex
	rooms []publishedRoom
	errs  []publishedError
}

func (p *recordingPublisher) PublishRoom(roomCode string, snap game.RoomSnapshot, targetClientID, assignedPlayerID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.rooms = append(p.rooms, publishedRoom{roomCode, snap, targetClientID, assignedPlayerID})
}

func (p *recordingPublisher) PublishError(targetClientID, message string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.errs = append(p.errs, publishedError{targetClientID, message})
}

func (p *recordingPublisher) lastRoom(t *testing.T) publishedRoom {
	t.Helper()
	p.mu.Lock()
	defer p.mu.Unlock()
	require.NotEmpty(t, p.rooms)
	return p.rooms[len(p.rooms)-1]
}

func (p *recordingPublisher) roomCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.rooms)
}

// recordingBots captures bot driver pokes.
type recordingBots struct {
	mu       sync.Mutex
	maybeRun []string
	stopped  []string
}

func (b *recordingBots) MaybeRun(roomCode string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.maybeRun = append(b.maybeRun, roomCode)
}

func (b *recordingBots) Stop(roomCode string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.stopped = append(b.stopped, roomCode)
}

func newTestManager(t *testing.T) (*Manager, *recordingPublisher, *recordingBots) {
	t.Helper()

	pub := &recordingPublisher{}
	bots := &recordingBots{}
	mgr := NewManager(game.DefaultRules(), pub, repository.NewMemoryIdentityStore(), zap.NewNop())
	mgr.SetBotDriver(bots)
	return mgr, pub, bots
}

func TestCreateRoom_PublishesTargetedIdentity(t *testing.T) {
	mgr, pub, _ := newTestManager(t)

	mgr.CreateRoom(context.Background(), "client-1", CreateRoomIntent{
		RoomName:   "the hunt",
		MaxPlayers: 4,
		PlayerName: "Arya",
		Color:      "crimson",
	})

	last := pub.lastRoom(t)
	assert.Equal(t, "client-1", last.TargetClientID)
	assert.NotEmpty(t, last.AssignedPlayerID)
	assert.Equal(t, game.StatusWaiting, last.Snap.Status)
	require.Len(t, last.Snap.Players, 1)
	assert.Equal(t, last.AssignedPlayerID, last.Snap.Players[0].ID)
	assert.True(t, last.Snap.Players[0].IsCreator)

	r, ok := mgr.GetRoom(last.RoomCode)
	require.True(t, ok)
	assert.Equal(t, 1, r.PlayerCount())
	assert.Len(t, last.RoomCode, game.RoomCodeLength)
}

func TestCreateRoom_OmittedMaxPlayersUsesDefault(t *testing.T) {
	mgr, pub, _ := newTestManager(t)
	mgr.SetDefaultMaxPlayers(5)

	mgr.CreateRoom(context.Background(), "client-1", CreateRoomIntent{
		RoomName:   "open table",
		PlayerName: "Arya",
	})

	r, ok := mgr.GetRoom(pub.lastRoom(t).RoomCode)
	require.True(t, ok)
	assert.Equal(t, 5, r.MaxPlayers, "zero-valued maxPlayers takes the configured default")
}

func TestCreateRoom_SinglePlayerStartsWithBots(t *testing.T) {
	mgr, pub, bots := newTestManager(t)

	mgr.CreateRoom(context.Background(), "client-1", CreateRoomIntent{
		RoomName:       "solo",
		MaxPlayers:     4,
		PlayerName:     "Arya",
		IsSinglePlayer: true,
	})

	last := pub.lastRoom(t)
	assert.Equal(t, game.StatusInGame, last.Snap.Status)
	require.Len(t, last.Snap.Players, 3)
	assert.False(t, bot.IsBot(last.Snap.Players[0].ID))
	assert.True(t, bot.IsBot(last.Snap.Players[1].ID))
	assert.True(t, bot.IsBot(last.Snap.Players[2].ID))

	for _, p := range last.Snap.Players {
		assert.Len(t, p.Hand, 5)
		assert.Equal(t, 3, p.KarmaPoints)
	}

	bots.mu.Lock()
	defer bots.mu.Unlock()
	assert.NotEmpty(t, bots.maybeRun, "bot driver must be poked after creation")
}

func TestJoinRoom_FullSurfacesErrorToCallerOnly(t *testing.T) {
	mgr, pub, _ := newTestManager(t)
	ctx := context.Background()

	mgr.CreateRoom(ctx, "client-1", CreateRoomIntent{RoomName: "duel", MaxPlayers: 2, PlayerName: "Arya"})
	code := pub.lastRoom(t).RoomCode

	mgr.JoinRoom(ctx, "client-2", JoinRoomIntent{RoomCode: code, PlayerName: "Bheem"})
	require.Len(t, pub.lastRoom(t).Snap.Players, 2)

	before := pub.roomCount()
	mgr.JoinRoom(ctx, "client-3", JoinRoomIntent{RoomCode: code, PlayerName: "Chitra"})

	assert.Equal(t, before, pub.roomCount(), "a rejected join must not republish the room")
	pub.mu.Lock()
	defer pub.mu.Unlock()
	require.Len(t, pub.errs, 1)
	assert.Equal(t, "client-3", pub.errs[0].TargetClientID)
	assert.Equal(t, "room at capacity", pub.errs[0].Message)

	r, _ := mgr.GetRoom(code)
	assert.Equal(t, 2, r.PlayerCount())
}

func TestJoinRoom_UnknownCode(t *testing.T) {
	mgr, pub, _ := newTestManager(t)

	mgr.JoinRoom(context.Background(), "client-9", JoinRoomIntent{RoomCode: "ZZZZZZ", PlayerName: "Ghost"})

	pub.mu.Lock()
	defer pub.mu.Unlock()
	require.Len(t, pub.errs, 1)
	assert.Equal(t, "room not found", pub.errs[0].Message)
	assert.Empty(t, pub.rooms)
}

func TestReclaimPlayer(t *testing.T) {
	mgr, pub, _ := newTestManager(t)
	ctx := context.Background()

	mgr.CreateRoom(ctx, "client-key-1", CreateRoomIntent{RoomName: "r", MaxPlayers: 2, PlayerName: "Arya"})
	created := pub.lastRoom(t)

	r, _ := mgr.GetRoom(created.RoomCode)
	r.SetConnected(created.AssignedPlayerID, false)

	// Same identity key, new connection.
	mgr.ReclaimPlayer(ctx, "client-key-1", created.RoomCode, "client-key-1")

	last := pub.lastRoom(t)
	assert.Equal(t, created.AssignedPlayerID, last.AssignedPlayerID)
	assert.True(t, last.Snap.Players[0].IsConnected)
}

func TestStartGameAndActions(t *testing.T) {
	mgr, pub, bots := newTestManager(t)
	ctx := context.Background()

	mgr.CreateRoom(ctx, "c1", CreateRoomIntent{RoomName: "r", MaxPlayers: 2, PlayerName: "Arya"})
	code := pub.lastRoom(t).RoomCode
	mgr.JoinRoom(ctx, "c2", JoinRoomIntent{RoomCode: code, PlayerName: "Bheem"})

	mgr.StartGame(code)
	started := pub.lastRoom(t)
	require.Equal(t, game.StatusInGame, started.Snap.Status)
	aryaID := started.Snap.Players[0].ID

	before := pub.roomCount()
	mgr.SubmitAction(code, aryaID, game.ActionRequest{ActionType: game.ActionDrawCard})
	require.Equal(t, before+1, pub.roomCount(), "a valid action republishes")

	last := pub.lastRoom(t)
	assert.Len(t, last.Snap.Players[0].Hand, 6)
	assert.Equal(t, 2, last.Snap.Players[0].KarmaPoints)

	// Stale action from the non-active player: no publication.
	bheemID := started.Snap.Players[1].ID
	before = pub.roomCount()
	mgr.SubmitAction(code, bheemID, game.ActionRequest{ActionType: game.ActionEndTurn})
	assert.Equal(t, before, pub.roomCount())

	// Turn passing pokes the bot driver.
	bots.mu.Lock()
	pokesBefore := len(bots.maybeRun)
	bots.mu.Unlock()
	mgr.SubmitAction(code, aryaID, game.ActionRequest{ActionType: game.ActionEndTurn})
	bots.mu.Lock()
	defer bots.mu.Unlock()
	assert.Greater(t, len(bots.maybeRun), pokesBefore)
}

func TestChatMessage(t *testing.T) {
	mgr, pub, _ := newTestManager(t)
	ctx := context.Background()

	mgr.CreateRoom(ctx, "c1", CreateRoomIntent{RoomName: "r", MaxPlayers: 2, PlayerName: "Arya"})
	created := pub.lastRoom(t)

	mgr.ChatMessage(created.RoomCode, created.AssignedPlayerID, "Arya", "hello")

	last := pub.lastRoom(t)
	require.Len(t, last.Snap.Messages, 1)
	assert.Equal(t, "hello", last.Snap.Messages[0].Text)
	assert.Empty(t, last.TargetClientID, "chat publications are not targeted")
}

func TestResetRoom_StopsBots(t *testing.T) {
	mgr, pub, bots := newTestManager(t)

	mgr.CreateRoom(context.Background(), "c1", CreateRoomIntent{
		RoomName: "solo", MaxPlayers: 4, PlayerName: "Arya", IsSinglePlayer: true,
	})
	code := pub.lastRoom(t).RoomCode

	mgr.ResetRoom(code)

	last := pub.lastRoom(t)
	assert.Equal(t, game.StatusWaiting, last.Snap.Status)
	assert.Nil(t, last.Snap.Winner)

	bots.mu.Lock()
	defer bots.mu.Unlock()
	assert.Contains(t, bots.stopped, code)
}

func TestPublish_RefusesCorruptedSnapshot(t *testing.T) {
	mgr, pub, _ := newTestManager(t)
	ctx := context.Background()

	mgr.CreateRoom(ctx, "c1", CreateRoomIntent{RoomName: "r", MaxPlayers: 2, PlayerName: "Arya"})
	created := pub.lastRoom(t)

	// Corrupt the aggregate directly; the next publication must be withheld.
	r, _ := mgr.GetRoom(created.RoomCode)
	r.Players[0].KarmaPoints = -5

	before := pub.roomCount()
	mgr.ChatMessage(created.RoomCode, created.AssignedPlayerID, "Arya", "boom")
	assert.Equal(t, before, pub.roomCount())
}

func TestMarkDisconnected(t *testing.T) {
	mgr, pub, _ := newTestManager(t)

	mgr.CreateRoom(context.Background(), "c1", CreateRoomIntent{RoomName: "r", MaxPlayers: 2, PlayerName: "Arya"})
	created := pub.lastRoom(t)

	mgr.MarkDisconnected(created.RoomCode, created.AssignedPlayerID)

	last := pub.lastRoom(t)
	assert.False(t, last.Snap.Players[0].IsConnected)
}
