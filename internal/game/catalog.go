package game

import "fmt"

// Deck composition: counts per card type in the master deck.
const (
	majorCount  = 30
	astraCount  = 20
	curseCount  = 15
	mayaCount   = 15
	shaknyCount = 12
	clashCount  = 12
)

// MasterDeckSize is the total number of cards produced by NewMasterDeck.
const MasterDeckSize = majorCount + astraCount + curseCount + mayaCount + shaknyCount + clashCount

var majorNames = []string{
	"Angada", "Sugriva", "Nala", "Neela", "Jambavan",
	"Vibhishana", "Sushena", "Dadhimukha", "Kesari", "Mainda",
}

var astraNames = []string{
	"Brahmastra", "Agneyastra", "Varunastra", "Vayvastra", "Nagastra",
}

var curseNames = []string{
	"Shranap", "Mohini's Bind", "Kala Jaal", "Vismriti",
}

var mayaNames = []string{
	"Chhaya Roop", "Antardhan", "Roopantar",
}

var shaknyNames = []string{
	"Shakuni's Dice", "Loaded Throw", "Fate's Nudge",
}

var clashNames = []string{
	"Dwandva", "Challenge of Bali", "Rann Bhoomi",
}

// cycleName returns the i-th name from the pool, suffixing a roman ordinal
// ("II", "III", ...) once the pool wraps.
func cycleName(pool []string, i int) string {
	name := pool[i%len(pool)]
	gen := i / len(pool)
	if gen == 0 {
		return name
	}
	return fmt.Sprintf("%s %s", name, romanNumeral(gen+1))
}

func romanNumeral(n int) string {
	values := []int{10, 9, 5, 4, 1}
	symbols := []string{"X", "IX", "V", "IV", "I"}
	out := ""
	for i, v := range values {
		for n >= v {
			out += symbols[i]
			n -= v
		}
	}
	return out
}

// majorTemplates cycle class, power band and power effect across the Major
// run so the deck carries every class and effect kind.
var majorTemplates = []struct {
	Class  ForceClass
	Power  RollBand
	Effect PowerEffect
}{
	{ClassVanas, RollBand{Min: 4, Max: 7}, PowerEffectDraw},
	{ClassNagas, RollBand{Min: 5, Max: 8}, PowerEffectKarma},
	{ClassYakshas, RollBand{Min: 6, Max: 9}, PowerEffectProtection},
	{ClassGandharva, RollBand{Min: 5, Max: 9}, PowerEffectDamage},
	{ClassKinnaras, RollBand{Min: 4, Max: 8}, PowerEffectNone},
	{ClassRakshas, RollBand{Min: 7, Max: 10}, PowerEffectDamage},
}

// NewMasterDeck builds the universal draw deck: a fixed multiset of
// non-Assura, non-General cards, each instance carrying a fresh id. The
// returned deck is already shuffled.
func NewMasterDeck() []*Card {
	deck := make([]*Card, 0, MasterDeckSize)

	for i := 0; i < majorCount; i++ {
		tpl := majorTemplates[i%len(majorTemplates)]
		c := newCard(CardTypeMajor, cycleName(majorNames, i),
			fmt.Sprintf("A %s warrior of the vanguard.", tpl.Class))
		c.Class = tpl.Class
		c.PowerRange = tpl.Power
		c.PowerEffect = tpl.Effect
		deck = append(deck, c)
	}
	for i := 0; i < astraCount; i++ {
		deck = append(deck, newCard(CardTypeAstra, cycleName(astraNames, i),
			"A celestial weapon. Attach to one of your Majors to empower it."))
	}
	for i := 0; i < curseCount; i++ {
		deck = append(deck, newCard(CardTypeCurse, cycleName(curseNames, i),
			"A binding curse. Attach to an enemy Major to weaken it."))
	}
	for i := 0; i < mayaCount; i++ {
		deck = append(deck, newCard(CardTypeMaya, cycleName(mayaNames, i),
			"An illusion. Attach to a Major to cloak or misdirect."))
	}
	for i := 0; i < shaknyCount; i++ {
		deck = append(deck, newCard(CardTypeShakny, cycleName(shaknyNames, i),
			"Bend the dice. Play before a roll to shift its outcome."))
	}
	for i := 0; i < clashCount; i++ {
		deck = append(deck, newCard(CardTypeClash, cycleName(clashNames, i),
			"Interrupt with a direct challenge."))
	}

	Shuffle(deck)
	return deck
}

// assuraCatalog is the fixed set of capturable Assura cards. Each carries
// three disjoint two-die-sum bands and a capture requirement.
var assuraCatalog = []struct {
	Name        string
	Description string
	Capture     RollBand
	Retaliation RollBand
	Safe        RollBand
	Requirement string
}{
	{"Ravana", "The ten-headed king of Lanka.", RollBand{10, 12}, RollBand{2, 5}, RollBand{6, 9}, "2 Vanas"},
	{"Kumbhakarna", "The sleeping giant.", RollBand{9, 12}, RollBand{2, 4}, RollBand{5, 8}, "3 Any"},
	{"Indrajit", "Conqueror of Indra, master of illusions.", RollBand{10, 12}, RollBand{2, 6}, RollBand{7, 9}, "2 Nagas"},
	{"Maricha", "The golden deer, shapeshifter.", RollBand{8, 12}, RollBand{2, 3}, RollBand{4, 7}, "1 Any"},
	{"Surpanakha", "The vengeful sister.", RollBand{9, 12}, RollBand{2, 5}, RollBand{6, 8}, "2 Any"},
	{"Tataka", "The forest demoness.", RollBand{8, 12}, RollBand{2, 4}, RollBand{5, 7}, "2 Yakshas"},
	{"Subahu", "Defiler of sacrifices.", RollBand{9, 12}, RollBand{2, 4}, RollBand{5, 8}, "2 Rakshas"},
	{"Khara", "Commander of fourteen thousand.", RollBand{10, 12}, RollBand{2, 5}, RollBand{6, 9}, "3 Any"},
	{"Dushana", "Khara's ruthless general.", RollBand{9, 12}, RollBand{2, 5}, RollBand{6, 8}, "2 Gandharvas"},
	{"Akshayakumara", "Ravana's youngest son.", RollBand{8, 12}, RollBand{2, 3}, RollBand{4, 7}, "2 Kinnaras"},
}

// NewAssuraPool builds the full shuffled Assura pool. The first three go
// face-up to the realm; the rest become the reserve.
func NewAssuraPool() []*Card {
	pool := make([]*Card, 0, len(assuraCatalog))
	for _, a := range assuraCatalog {
		c := newCard(CardTypeAssura, a.Name, a.Description)
		c.CaptureRange = a.Capture
		c.RetaliationRange = a.Retaliation
		c.SafeRange = a.Safe
		c.Requirement = a.Requirement
		pool = append(pool, c)
	}
	Shuffle(pool)
	return pool
}

var generalCatalog = []struct {
	Name        string
	Description string
}{
	{"Rama", "Once per turn, your first Draw costs no Karma."},
	{"Lakshmana", "Your Majors enter with +1 to their power range."},
	{"Hanuman", "Your capture attempts cost 1 less Karma."},
	{"Bharata", "Gain 1 Karma whenever an opponent captures an Assura."},
	{"Shatrughna", "Curses attached to your Majors expire after one round."},
	{"Jatayu", "Once per game, cancel a retaliation against you."},
}

// NewGenerals builds the shuffled pool of six General hero cards. Each
// player is dealt exactly one at game start, cycling if players outnumber
// generals.
func NewGenerals() []*Card {
	pool := make([]*Card, 0, len(generalCatalog))
	for _, g := range generalCatalog {
		pool = append(pool, newCard(CardTypeGeneral, g.Name, g.Description))
	}
	Shuffle(pool)
	return pool
}
