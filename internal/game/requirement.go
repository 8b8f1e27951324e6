package game

import (
	"strconv"
	"strings"
)

// MeetsRequirement reports whether the given fielded forces satisfy a
// capture requirement of the form "<count> <classOrName|Any>", e.g.
// "2 Vanas" or "3 Any". An empty requirement is always satisfied. The
// predicate is pure and must be re-evaluated on every attempt; forces
// change turn to turn.
func MeetsRequirement(forces []*Card, requirement string) bool {
	requirement = strings.TrimSpace(requirement)
	if requirement == "" {
		return true
	}

	parts := strings.Fields(requirement)
	if len(parts) < 2 {
		// Malformed requirement: treat as unsatisfiable rather than free.
		return false
	}

	count, err := strconv.Atoi(parts[0])
	if err != nil || count < 0 {
		return false
	}

	target := strings.Join(parts[1:], " ")
	if strings.EqualFold(target, "Any") {
		return len(forces) >= count
	}

	matched := 0
	for _, c := range forces {
		if strings.EqualFold(string(c.Class), target) || strings.EqualFold(c.Name, target) {
			matched++
		}
	}
	return matched >= count
}
