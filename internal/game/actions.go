package game

import (
	"fmt"
	"time"
)

// ActionType names an in-game action.
type ActionType string

const (
	ActionDrawCard      ActionType = "DRAW_CARD"
	ActionPlayCard      ActionType = "PLAY_CARD"
	ActionCaptureResult ActionType = "CAPTURE_RESULT"
	ActionEndTurn       ActionType = "END_TURN"
)

// TargetInfo names the sena card an attachment is played onto.
type TargetInfo struct {
	PlayerID string `json:"playerId"`
	CardID   string `json:"cardId"`
}

// ActionRequest is the wire payload of a game_action intent. The fields
// consulted depend on the action type.
type ActionRequest struct {
	ActionType ActionType  `json:"actionType"`
	CardID     string      `json:"cardId,omitempty"`
	Cost       int         `json:"cost"`
	IsCaptured bool        `json:"isCaptured"`
	Target     *TargetInfo `json:"targetInfo,omitempty"`
}

// Every in-game action is a silent no-op unless the room is in-game and the
// acting player holds the turn. Stale client actions must never crash a
// session or surface errors; they simply change nothing. Each method
// reports whether state changed so callers know when to republish.

// isActing reports whether the action may proceed and returns the acting
// player. Callers must hold the room mutex.
func (r *Room) isActing(playerID string) (*Player, bool) {
	if r.Status != StatusInGame {
		return nil, false
	}
	if r.ActivePlayerIndex < 0 || r.ActivePlayerIndex >= len(r.Players) {
		return nil, false
	}
	active := r.Players[r.ActivePlayerIndex]
	if active.ID != playerID {
		return nil, false
	}
	return active, true
}

// DrawCard moves the top deck card into the acting player's hand for the
// draw cost. An exhausted deck is replenished by reshuffling the submerge
// pile first; if both are empty the action is a no-op.
func (r *Room) DrawCard(playerID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.isActing(playerID)
	if !ok {
		return false
	}
	if p.KarmaPoints < r.rules.DrawCost {
		return false
	}

	if len(r.DrawDeck) == 0 && len(r.SubmergePile) > 0 {
		r.DrawDeck = r.SubmergePile
		r.SubmergePile = make([]*Card, 0)
		Shuffle(r.DrawDeck)
		r.appendLog(LogSystem, "The submerge pile churns back into the deck.")
	}
	if len(r.DrawDeck) == 0 {
		return false
	}

	card := r.DrawDeck[0]
	r.DrawDeck = r.DrawDeck[1:]
	p.Hand = append(p.Hand, card)
	p.KarmaPoints -= r.rules.DrawCost

	r.appendLog(LogDraw, fmt.Sprintf("%s draws a card. (-%d KP)", p.Name, r.rules.DrawCost))
	return true
}

// PlayCard removes the named card from the acting player's hand and resolves
// it by type: Majors are fielded to the sena, attachments bind to a targeted
// sena card, anything untargeted is discarded face-up to the submerge pile.
func (r *Room) PlayCard(playerID, cardID string, cost int, target *TargetInfo) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.isActing(playerID)
	if !ok {
		return false
	}
	if cost < 0 || p.KarmaPoints < cost {
		return false
	}

	card, remaining := removeCardByID(p.Hand, cardID)
	if card == nil {
		return false
	}
	p.Hand = remaining
	p.KarmaPoints -= cost

	switch card.Type {
	case CardTypeMajor:
		card.AttachedAstras = make([]*Card, 0)
		card.Curses = make([]*Card, 0)
		card.Mayas = make([]*Card, 0)
		p.Sena = append(p.Sena, card)
		r.appendLog(LogPlay, fmt.Sprintf("%s fields %s to the sena. (-%d KP)", p.Name, card.Name, cost))
		r.applyPowerEffect(p, card)
	default:
		if target != nil && r.attachCard(card, target) {
			r.appendLog(LogPlay, fmt.Sprintf("%s plays %s onto a fielded Major. (-%d KP)", p.Name, card.Name, cost))
		} else {
			r.SubmergePile = append(r.SubmergePile, card)
			r.appendLog(LogPlay, fmt.Sprintf("%s plays %s. It sinks to the submerge pile. (-%d KP)", p.Name, card.Name, cost))
		}
	}

	r.checkWinLocked()
	return true
}

// attachCard binds an attachment card onto the targeted sena entry. Callers
// must hold the room mutex.
func (r *Room) attachCard(card *Card, target *TargetInfo) bool {
	owner := r.findPlayer(target.PlayerID)
	if owner == nil {
		return false
	}
	for _, senaCard := range owner.Sena {
		if senaCard.ID != target.CardID {
			continue
		}
		switch card.Type {
		case CardTypeAstra:
			senaCard.AttachedAstras = append(senaCard.AttachedAstras, card)
		case CardTypeCurse:
			senaCard.Curses = append(senaCard.Curses, card)
		case CardTypeMaya:
			senaCard.Mayas = append(senaCard.Mayas, card)
		default:
			return false
		}
		return true
	}
	return false
}

// applyPowerEffect fires a fielded Major's one-shot power effect. Callers
// must hold the room mutex.
func (r *Room) applyPowerEffect(p *Player, card *Card) {
	if card.Invoked {
		return
	}
	card.Invoked = true

	switch card.PowerEffect {
	case PowerEffectDraw:
		if len(r.DrawDeck) == 0 && len(r.SubmergePile) > 0 {
			r.DrawDeck = r.SubmergePile
			r.SubmergePile = make([]*Card, 0)
			Shuffle(r.DrawDeck)
		}
		if len(r.DrawDeck) > 0 {
			p.Hand = append(p.Hand, r.DrawDeck[0])
			r.DrawDeck = r.DrawDeck[1:]
			r.appendLog(LogSystem, fmt.Sprintf("%s's arrival lets %s draw a free card.", card.Name, p.Name))
		}
	case PowerEffectKarma:
		if p.KarmaPoints < r.rules.MaxKarma {
			p.KarmaPoints++
			r.appendLog(LogSystem, fmt.Sprintf("%s's arrival grants %s 1 KP.", card.Name, p.Name))
		}
	case PowerEffectProtection:
		r.appendLog(LogSystem, fmt.Sprintf("%s stands guard over %s's sena.", card.Name, p.Name))
	case PowerEffectDamage:
		r.appendLog(LogSystem, fmt.Sprintf("%s arrives spoiling for a fight.", card.Name))
	}
}

// ResolveCapture settles a capture attempt against a face-up Assura. The
// cost is the price of the attempt and is deducted regardless of outcome.
// On success the Assura moves to the acting player's jail and the realm
// backfills from the reserve.
func (r *Room) ResolveCapture(playerID, cardID string, isCaptured bool, cost int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.isActing(playerID)
	if !ok {
		return false
	}
	if cost <= 0 {
		cost = r.rules.CaptureCost
	}
	if p.KarmaPoints < cost {
		return false
	}
	p.KarmaPoints -= cost

	if !isCaptured {
		r.appendLog(LogCapture, fmt.Sprintf("%s's capture attempt fails. (-%d KP)", p.Name, cost))
		return true
	}

	card, remaining := removeCardByID(r.Assuras, cardID)
	if card == nil {
		// Attempt cost already paid; the target left the realm under them.
		r.appendLog(LogCapture, fmt.Sprintf("%s grasps at an Assura no longer in the realm. (-%d KP)", p.Name, cost))
		return true
	}
	r.Assuras = remaining
	p.Jail = append(p.Jail, card)

	if len(r.AssuraReserve) > 0 {
		r.Assuras = append(r.Assuras, r.AssuraReserve[0])
		r.AssuraReserve = r.AssuraReserve[1:]
	}

	r.appendLog(LogCapture, fmt.Sprintf("%s captures %s! (%d jailed, -%d KP)", p.Name, card.Name, len(p.Jail), cost))
	r.checkWinLocked()
	return true
}

// EndTurn passes the turn to the next seated player and refills the new
// active player's karma to the turn allowance.
func (r *Room) EndTurn(playerID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.isActing(playerID)
	if !ok {
		return false
	}

	r.ActivePlayerIndex = (r.ActivePlayerIndex + 1) % len(r.Players)
	r.CurrentTurn++
	r.TurnStartTime = time.Now()

	next := r.Players[r.ActivePlayerIndex]
	next.KarmaPoints = r.rules.TurnKarma
	for _, c := range next.Sena {
		c.Invoked = false
	}

	r.appendLog(LogTurn, fmt.Sprintf("Turn %d. %s takes the field.", r.CurrentTurn, next.Name))
	return true
}
