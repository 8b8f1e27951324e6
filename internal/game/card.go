package game

import (
	"github.com/google/uuid"
)

// CardType discriminates the play semantics of a card.
type CardType string

const (
	CardTypeMajor   CardType = "MAJOR"
	CardTypeAstra   CardType = "ASTRA"
	CardTypeCurse   CardType = "CURSE"
	CardTypeMaya    CardType = "MAYA"
	CardTypeShakny  CardType = "SHAKNY"
	CardTypeClash   CardType = "CLASH"
	CardTypeAssura  CardType = "ASSURA"
	CardTypeGeneral CardType = "GENERAL"
)

func (t CardType) String() string {
	return string(t)
}

// ForceClass is the class symbol carried by Major cards. There are exactly
// six classes; class mastery requires fielding one Major of each.
type ForceClass string

const (
	ClassVanas     ForceClass = "Vanas"
	ClassNagas     ForceClass = "Nagas"
	ClassYakshas   ForceClass = "Yakshas"
	ClassGandharva ForceClass = "Gandharvas"
	ClassKinnaras  ForceClass = "Kinnaras"
	ClassRakshas   ForceClass = "Rakshas"
)

// ForceClasses lists every class in a fixed order.
var ForceClasses = []ForceClass{
	ClassVanas,
	ClassNagas,
	ClassYakshas,
	ClassGandharva,
	ClassKinnaras,
	ClassRakshas,
}

// PowerEffect is the one-shot effect a Major card fires when fielded.
type PowerEffect string

const (
	PowerEffectDraw       PowerEffect = "draw"
	PowerEffectKarma      PowerEffect = "kp"
	PowerEffectProtection PowerEffect = "protection"
	PowerEffectDamage     PowerEffect = "damage"
	PowerEffectNone       PowerEffect = "none"
)

// RollBand is an inclusive two-die-sum band [Min, Max].
type RollBand struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Contains reports whether the given two-die sum falls inside the band.
func (b RollBand) Contains(sum int) bool {
	return sum >= b.Min && sum <= b.Max
}

// Card is a single card instance. Instances are tracked by identity: two
// cards with identical attributes are still distinct, and an instance lives
// in exactly one zone at a time. Moving a card between zones is always a
// remove-then-append, never a copy.
type Card struct {
	ID          string   `json:"id"`
	Type        CardType `json:"type"`
	Name        string   `json:"name"`
	Description string   `json:"description"`

	// Major-only fields.
	Class       ForceClass  `json:"class,omitempty"`
	PowerRange  RollBand    `json:"powerRange,omitempty"`
	PowerEffect PowerEffect `json:"powerEffect,omitempty"`
	Invoked     bool        `json:"invoked"`

	// Assura-only fields. The three bands are disjoint.
	CaptureRange     RollBand `json:"captureRange,omitempty"`
	RetaliationRange RollBand `json:"retaliationRange,omitempty"`
	SafeRange        RollBand `json:"safeRange,omitempty"`
	Requirement      string   `json:"requirement,omitempty"`

	// Attachment lists, populated while the card sits in a sena.
	AttachedAstras []*Card `json:"attachedAstras"`
	Curses         []*Card `json:"curses"`
	Mayas          []*Card `json:"mayas"`
}

// newCard builds a card with a fresh id and empty attachment lists.
func newCard(cardType CardType, name, description string) *Card {
	return &Card{
		ID:             uuid.New().String(),
		Type:           cardType,
		Name:           name,
		Description:    description,
		AttachedAstras: make([]*Card, 0),
		Curses:         make([]*Card, 0),
		Mayas:          make([]*Card, 0),
	}
}

// Clone deep-copies the card, including attachments. Used when building
// snapshots so observers never alias live state.
func (c *Card) Clone() *Card {
	if c == nil {
		return nil
	}
	cp := *c
	cp.AttachedAstras = cloneCards(c.AttachedAstras)
	cp.Curses = cloneCards(c.Curses)
	cp.Mayas = cloneCards(c.Mayas)
	return &cp
}

func cloneCards(cards []*Card) []*Card {
	out := make([]*Card, 0, len(cards))
	for _, c := range cards {
		out = append(out, c.Clone())
	}
	return out
}

// removeCardByID removes the first card with the given id from the slice.
// Returns the removed card and the remaining slice, or nil if absent.
func removeCardByID(cards []*Card, id string) (*Card, []*Card) {
	for i, c := range cards {
		if c.ID == id {
			return c, append(cards[:i], cards[i+1:]...)
		}
	}
	return nil, cards
}
