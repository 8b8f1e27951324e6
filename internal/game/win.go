package game

import (
	"fmt"
	"time"
)

// Win condition identifiers.
const (
	WinAssuraCapture = "assura-capture"
	WinClassMastery  = "class-mastery"
)

// checkWinLocked scans players in turn order and finishes the game on the
// first satisfied condition. For each player the Assura-capture condition is
// evaluated before class mastery. The winner is set at most once; once the
// room is finished the checker never runs again. Callers must hold the room
// mutex.
func (r *Room) checkWinLocked() {
	if r.Status != StatusInGame || r.Winner != nil {
		return
	}

	for _, p := range r.Players {
		if len(p.Jail) >= JailWinCount {
			r.declareWinner(p, WinAssuraCapture)
			return
		}
		if hasClassMastery(p.Sena) {
			r.declareWinner(p, WinClassMastery)
			return
		}
	}
}

func (r *Room) declareWinner(p *Player, condition string) {
	r.Status = StatusFinished
	r.Winner = &Winner{
		ID:        p.ID,
		Name:      p.Name,
		Color:     p.Color,
		Condition: condition,
		Timestamp: time.Now(),
	}
	r.appendLog(LogSystem, fmt.Sprintf("%s wins by %s!", p.Name, condition))
}

// hasClassMastery reports whether the sena fields at least one Major of
// every force class.
func hasClassMastery(sena []*Card) bool {
	seen := make(map[ForceClass]bool, len(ForceClasses))
	for _, c := range sena {
		if c.Type == CardTypeMajor && c.Class != "" {
			seen[c.Class] = true
		}
	}
	return len(seen) == len(ForceClasses)
}
