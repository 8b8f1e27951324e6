package bot

import (
	"sync"
	"time"

	"github.com/asurahunt/karma-server-go/internal/game"
	"go.uber.org/zap"
)

// Controller is the slice of the room registry the driver needs: read a
// room and submit actions into it exactly as a human client would. Bot
// actions go through the same per-room serialization as everyone else's.
type Controller interface {
	SnapshotRoom(roomCode string) (game.RoomSnapshot, bool)
	SubmitAction(roomCode, playerID string, req game.ActionRequest)
	Rules() game.Rules
}

// majorPlayCost is the karma a bot spends to field a Major.
const majorPlayCost = 1

// Driver runs automated turns. At most one loop is active per room; the
// loop paces itself with a fixed delay between sub-steps so humans can
// watch the published state advance, and keeps going while the turn stays
// with a bot (covering consecutive bot turns without spawning new loops).
type Driver struct {
	ctrl   Controller
	delay  time.Duration
	logger *zap.Logger

	mu      sync.Mutex
	running map[string]bool
	cancels map[string]chan struct{}
}

// NewDriver creates a bot driver with the given pacing delay.
func NewDriver(ctrl Controller, delay time.Duration, logger *zap.Logger) *Driver {
	if delay <= 0 {
		delay = 1200 * time.Millisecond
	}
	return &Driver{
		ctrl:    ctrl,
		delay:   delay,
		logger:  logger,
		running: make(map[string]bool),
		cancels: make(map[string]chan struct{}),
	}
}

// MaybeRun starts a bot loop for the room if its active player is a bot and
// no loop is already running. Safe to call after every applied intent.
func (d *Driver) MaybeRun(roomCode string) {
	snap, ok := d.ctrl.SnapshotRoom(roomCode)
	if !ok || !activeIsBot(snap) {
		return
	}

	d.mu.Lock()
	if d.running[roomCode] {
		d.mu.Unlock()
		return
	}
	cancel := make(chan struct{})
	d.running[roomCode] = true
	d.cancels[roomCode] = cancel
	d.mu.Unlock()

	go d.run(roomCode, cancel)
}

// Stop cancels the room's bot loop, if any. Called on room reset.
func (d *Driver) Stop(roomCode string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if cancel, ok := d.cancels[roomCode]; ok {
		close(cancel)
		delete(d.cancels, roomCode)
	}
}

func (d *Driver) release(roomCode string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	delete(d.running, roomCode)
	if cancel, ok := d.cancels[roomCode]; ok {
		select {
		case <-cancel:
		default:
			close(cancel)
		}
		delete(d.cancels, roomCode)
	}
}

func (d *Driver) run(roomCode string, cancel <-chan struct{}) {
	defer d.release(roomCode)

	for {
		select {
		case <-cancel:
			return
		case <-time.After(d.delay):
		}

		snap, ok := d.ctrl.SnapshotRoom(roomCode)
		if !ok || !activeIsBot(snap) {
			return
		}

		active := snap.Players[snap.ActivePlayerIndex]
		d.step(roomCode, snap, active)
	}
}

// step issues the bot's next action: attempt a satisfiable capture, else
// field a Major from hand, else end the turn.
func (d *Driver) step(roomCode string, snap game.RoomSnapshot, active game.PlayerSnapshot) {
	rules := d.ctrl.Rules()

	if active.KarmaPoints >= rules.CaptureCost {
		if target := pickCapture(snap.Assuras, active.Sena); target != nil {
			roll := game.RollDice()
			captured := target.CaptureRange.Contains(roll)
			d.logger.Debug("bot capture attempt",
				zap.String("room_code", roomCode),
				zap.String("bot_id", active.ID),
				zap.String("assura", target.Name),
				zap.Int("roll", roll),
				zap.Bool("captured", captured),
			)
			d.ctrl.SubmitAction(roomCode, active.ID, game.ActionRequest{
				ActionType: game.ActionCaptureResult,
				CardID:     target.ID,
				Cost:       rules.CaptureCost,
				IsCaptured: captured,
			})
			return
		}
	}

	if active.KarmaPoints >= majorPlayCost {
		if major := firstMajor(active.Hand); major != nil {
			d.ctrl.SubmitAction(roomCode, active.ID, game.ActionRequest{
				ActionType: game.ActionPlayCard,
				CardID:     major.ID,
				Cost:       majorPlayCost,
			})
			return
		}
	}

	d.ctrl.SubmitAction(roomCode, active.ID, game.ActionRequest{
		ActionType: game.ActionEndTurn,
	})
}

func activeIsBot(snap game.RoomSnapshot) bool {
	if snap.Status != game.StatusInGame {
		return false
	}
	if snap.ActivePlayerIndex < 0 || snap.ActivePlayerIndex >= len(snap.Players) {
		return false
	}
	return IsBot(snap.Players[snap.ActivePlayerIndex].ID)
}

// pickCapture returns the first face-up Assura whose requirement the bot's
// sena already satisfies, or nil.
func pickCapture(assuras, sena []*game.Card) *game.Card {
	for _, a := range assuras {
		if game.MeetsRequirement(sena, a.Requirement) {
			return a
		}
	}
	return nil
}

func firstMajor(hand []*game.Card) *game.Card {
	for _, c := range hand {
		if c.Type == game.CardTypeMajor {
			return c
		}
	}
	return nil
}
