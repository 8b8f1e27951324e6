package game

import (
	"math/rand"

	"github.com/google/uuid"
)

// roomCodeAlphabet avoids ambiguous glyphs (0/O, 1/I/L).
const roomCodeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

// RoomCodeLength is the fixed length of every room code.
const RoomCodeLength = 6

// NewID returns a fresh globally unique identifier.
func NewID() string {
	return uuid.New().String()
}

// NewRoomCode returns a random 6-character room code. Uniqueness across
// live rooms is the registry's responsibility, not this function's.
func NewRoomCode() string {
	buf := make([]byte, RoomCodeLength)
	for i := range buf {
		buf[i] = roomCodeAlphabet[rand.Intn(len(roomCodeAlphabet))]
	}
	return string(buf)
}

// Shuffle permutes the cards in place (Fisher-Yates).
func Shuffle(cards []*Card) {
	for i := len(cards) - 1; i > 0; i-- {
		j := rand.Intn(i + 1)
		cards[i], cards[j] = cards[j], cards[i]
	}
}

// playerColors are the selectable player colors with pick weights.
var playerColors = []struct {
	Color  string
	Weight int
}{
	{"crimson", 3},
	{"saffron", 3},
	{"indigo", 2},
	{"emerald", 2},
	{"gold", 1},
	{"violet", 1},
}

// PickColor returns a weighted-random player color.
func PickColor() string {
	total := 0
	for _, c := range playerColors {
		total += c.Weight
	}
	n := rand.Intn(total)
	for _, c := range playerColors {
		n -= c.Weight
		if n < 0 {
			return c.Color
		}
	}
	return playerColors[0].Color
}

// RollDice returns the sum of two six-sided dice.
func RollDice() int {
	return rand.Intn(6) + rand.Intn(6) + 2
}
