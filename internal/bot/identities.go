package bot

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// botIDPrefix marks a player id as belonging to an automated player.
const botIDPrefix = "bot-"

// botNames is the fixed pool of bot display names. When a room needs more
// bots than names, numbering wraps ("Sethu Bot 2", ...).
var botNames = []string{
	"Sethu Bot",
	"Kishkindha Bot",
	"Panchavati Bot",
	"Dandaka Bot",
}

// NewBotID returns a fresh player id carrying the bot marker.
func NewBotID() string {
	return botIDPrefix + uuid.New().String()
}

// IsBot reports whether the player id belongs to an automated player.
func IsBot(playerID string) bool {
	return strings.HasPrefix(playerID, botIDPrefix)
}

// Name returns the display name for the i-th bot seated in a room.
func Name(i int) string {
	name := botNames[i%len(botNames)]
	if i >= len(botNames) {
		name = fmt.Sprintf("%s %d", name, i/len(botNames)+1)
	}
	return name
}
