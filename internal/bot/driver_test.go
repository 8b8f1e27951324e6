package bot

import (
	"sync"
	"testing"
	"time"

	"github.com/asurahunt/karma-server-go/internal/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeController serves a fixed snapshot and records submitted actions.
type fakeController struct {
	mu       sync.Mutex
	snap     game.RoomSnapshot
	ok       bool
	actions  []game.ActionRequest
	actorIDs []string
}

func (f *fakeController) SnapshotRoom(string) (game.RoomSnapshot, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snap, f.ok
}

func (f *fakeController) SubmitAction(_, playerID string, req game.ActionRequest) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.actions = append(f.actions, req)
	f.actorIDs = append(f.actorIDs, playerID)
}

func (f *fakeController) Rules() game.Rules {
	return game.DefaultRules()
}

func (f *fakeController) lastAction(t *testing.T) game.ActionRequest {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.actions)
	return f.actions[len(f.actions)-1]
}

func botSnapshot(karma int, hand, sena, assuras []*game.Card) (game.RoomSnapshot, game.PlayerSnapshot) {
	active := game.PlayerSnapshot{
		ID:          NewBotID(),
		Name:        Name(0),
		KarmaPoints: karma,
		Hand:        hand,
		Sena:        sena,
	}
	snap := game.RoomSnapshot{
		Status:            game.StatusInGame,
		ActivePlayerIndex: 0,
		Players:           []game.PlayerSnapshot{active},
		Assuras:           assuras,
	}
	return snap, active
}

func testAssura(requirement string) *game.Card {
	return &game.Card{
		ID:           game.NewID(),
		Type:         game.CardTypeAssura,
		Name:         "Test Assura",
		CaptureRange: game.RollBand{Min: 2, Max: 12}, // every roll captures
		Requirement:  requirement,
	}
}

func testMajor(class game.ForceClass) *game.Card {
	return &game.Card{
		ID:    game.NewID(),
		Type:  game.CardTypeMajor,
		Name:  "Test Major",
		Class: class,
	}
}

func TestStep_AttemptsSatisfiableCapture(t *testing.T) {
	sena := []*game.Card{testMajor(game.ClassVanas), testMajor(game.ClassVanas)}
	target := testAssura("2 Vanas")
	snap, active := botSnapshot(3, nil, sena, []*game.Card{target})

	ctrl := &fakeController{snap: snap, ok: true}
	d := NewDriver(ctrl, time.Millisecond, zap.NewNop())

	d.step("ROOM", snap, active)

	act := ctrl.lastAction(t)
	assert.Equal(t, game.ActionCaptureResult, act.ActionType)
	assert.Equal(t, target.ID, act.CardID)
	assert.Equal(t, 2, act.Cost)
	assert.True(t, act.IsCaptured, "a roll in [2,12] always lands in the capture band")
}

func TestStep_SkipsUnsatisfiableCapture(t *testing.T) {
	target := testAssura("2 Vanas") // bot has no Vanas fielded
	major := testMajor(game.ClassNagas)
	snap, active := botSnapshot(3, []*game.Card{major}, nil, []*game.Card{target})

	ctrl := &fakeController{snap: snap, ok: true}
	d := NewDriver(ctrl, time.Millisecond, zap.NewNop())

	d.step("ROOM", snap, active)

	act := ctrl.lastAction(t)
	assert.Equal(t, game.ActionPlayCard, act.ActionType)
	assert.Equal(t, major.ID, act.CardID)
	assert.Equal(t, majorPlayCost, act.Cost)
}

func TestStep_EndsTurnWhenNothingToDo(t *testing.T) {
	// No karma for captures, no major in hand.
	snap, active := botSnapshot(0, []*game.Card{{ID: "x", Type: game.CardTypeCurse}}, nil, nil)

	ctrl := &fakeController{snap: snap, ok: true}
	d := NewDriver(ctrl, time.Millisecond, zap.NewNop())

	d.step("ROOM", snap, active)

	assert.Equal(t, game.ActionEndTurn, ctrl.lastAction(t).ActionType)
}

func TestMaybeRun_IgnoresHumanTurn(t *testing.T) {
	snap := game.RoomSnapshot{
		Status:            game.StatusInGame,
		ActivePlayerIndex: 0,
		Players:           []game.PlayerSnapshot{{ID: "human-1"}},
	}
	ctrl := &fakeController{snap: snap, ok: true}
	d := NewDriver(ctrl, time.Millisecond, zap.NewNop())

	d.MaybeRun("ROOM")

	d.mu.Lock()
	defer d.mu.Unlock()
	assert.False(t, d.running["ROOM"])
}

func TestMaybeRun_GuardsAgainstSecondLoop(t *testing.T) {
	snap, _ := botSnapshot(0, nil, nil, nil)
	ctrl := &fakeController{snap: snap, ok: true}
	d := NewDriver(ctrl, 50*time.Millisecond, zap.NewNop())

	d.MaybeRun("ROOM")
	d.MaybeRun("ROOM")

	d.mu.Lock()
	running := d.running["ROOM"]
	cancels := len(d.cancels)
	d.mu.Unlock()

	assert.True(t, running)
	assert.Equal(t, 1, cancels, "a second MaybeRun must not spawn another loop")

	d.Stop("ROOM")
	require.Eventually(t, func() bool {
		d.mu.Lock()
		defer d.mu.Unlock()
		return !d.running["ROOM"]
	}, time.Second, 5*time.Millisecond)
}

func TestRun_StopsWhenRoomDisappears(t *testing.T) {
	snap, _ := botSnapshot(0, nil, nil, nil)
	ctrl := &fakeController{snap: snap, ok: true}
	d := NewDriver(ctrl, time.Millisecond, zap.NewNop())

	d.MaybeRun("ROOM")

	// The room vanishes mid-loop.
	ctrl.mu.Lock()
	ctrl.ok = false
	ctrl.mu.Unlock()

	require.Eventually(t, func() bool {
		d.mu.Lock()
		defer d.mu.Unlock()
		return !d.running["ROOM"]
	}, time.Second, 5*time.Millisecond)
}

func TestIsBot(t *testing.T) {
	assert.True(t, IsBot(NewBotID()))
	assert.False(t, IsBot("player-123"))
	assert.False(t, IsBot(""))
}

func TestName_CyclesWithNumbers(t *testing.T) {
	assert.Equal(t, "Sethu Bot", Name(0))
	assert.Equal(t, "Kishkindha Bot", Name(1))
	assert.Equal(t, "Sethu Bot 2", Name(4))
}
