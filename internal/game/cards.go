package game

import (
	"fmt"

	"github.com/user/noodle-factory/internal/types"
)

// ReturnOfReggie only enters the draw pool after Reggie has escaped
const ReturnOfReggie = "Return of Reggie"

// CardCatalog is an immutable, ordered set of cards keyed by name.
// Cards returned from it share their requirement and modifier maps with the
// catalog; callers must not mutate them.
type CardCatalog struct {
	cards  []types.Card
	byName map[string]int
}

// NewCardCatalog builds a catalog, rejecting empty or duplicate names
func NewCardCatalog(cards []types.Card) (*CardCatalog, error) {
	c := &CardCatalog{
		cards:  make([]types.Card, 0, len(cards)),
		byName: make(map[string]int, len(cards)),
	}
	for _, card := range cards {
		if card.Name == "" {
			return nil, fmt.Errorf("card with empty name")
		}
		if _, exists := c.byName[card.Name]; exists {
			return nil, fmt.Errorf("duplicate card: %s", card.Name)
		}
		c.byName[card.Name] = len(c.cards)
		c.cards = append(c.cards, card)
	}
	return c, nil
}

// DefaultCardCatalog returns the built-in card catalog
func DefaultCardCatalog() *CardCatalog {
	c, err := NewCardCatalog(defaultCards())
	if err != nil {
		panic(err)
	}
	return c
}

// Get looks up a card by name
func (c *CardCatalog) Get(name string) (types.Card, bool) {
	i, ok := c.byName[name]
	if !ok {
		return types.Card{}, false
	}
	return c.cards[i], true
}

// Has reports whether the catalog defines the named card
func (c *CardCatalog) Has(name string) bool {
	_, ok := c.byName[name]
	return ok
}

// Len returns the number of cards in the catalog
func (c *CardCatalog) Len() int {
	return len(c.cards)
}

// All returns every card in catalog order
func (c *CardCatalog) All() []types.Card {
	out := make([]types.Card, len(c.cards))
	copy(out, c.cards)
	return out
}

// IsEligible reports whether the card may be drawn or played in the given state
func IsEligible(card types.Card, s *types.ResourceState) bool {
	if card.RequiresFlag == "" {
		return true
	}
	return s.Flag(card.RequiresFlag)
}

// Eligible returns the cards currently in the draw pool, in catalog order.
// It is re-derived on every call since flags change from turn to turn.
func (c *CardCatalog) Eligible(s *types.ResourceState) []types.Card {
	out := make([]types.Card, 0, len(c.cards))
	for _, card := range c.cards {
		if IsEligible(card, s) {
			out = append(out, card)
		}
	}
	return out
}

// DrawCard picks a uniformly random card from the eligible pool
func (c *CardCatalog) DrawCard(s *types.ResourceState, rng Randomizer) (types.Card, error) {
	pool := c.Eligible(s)
	if len(pool) == 0 {
		return types.Card{}, ErrNoEligibleCards
	}
	return pool[rng.Intn(len(pool))], nil
}

func defaultCards() []types.Card {
	return []types.Card{
		{
			Name:          "Overtime Shift",
			Description:   "Keep the lines running through the night.",
			Requirements:  map[types.Resource]int{types.WorkerEnergy: 20},
			StatModifiers: map[types.Resource]int{types.WorkerEnergy: -20, types.PastaPrestige: 10, types.ChaosLevel: 5},
			Effect:        EffectOvertime,
		},
		{
			Name:          "Noodle Rush",
			Description:   "Flood the market with fresh noodles.",
			Requirements:  map[types.Resource]int{types.Ingredients: 10},
			StatModifiers: map[types.Resource]int{types.Ingredients: -10, types.PastaPrestige: 15, types.ChaosLevel: 10},
			Effect:        EffectNoodleRush,
		},
		{
			Name:          "Perfect Al Dente",
			Description:   "Cook one flawless batch for the connoisseurs.",
			Requirements:  map[types.Resource]int{types.PastaPrestige: 20, types.Ingredients: 5},
			StatModifiers: map[types.Resource]int{types.Ingredients: -5, types.PastaPrestige: 20, types.ChaosLevel: -5},
			Effect:        EffectAlDente,
		},
		{
			Name:          "Ingredient Delivery",
			Description:   "A truck full of flour, eggs and questionable spices.",
			StatModifiers: map[types.Resource]int{types.Ingredients: 20, types.ChaosLevel: 5},
			Effect:        EffectDelivery,
		},
		{
			Name:          "Hire Temp Workers",
			Description:   "Two temps arrive, eager and confused.",
			Requirements:  map[types.Resource]int{types.PastaPrestige: 15},
			StatModifiers: map[types.Resource]int{types.PastaPrestige: -15, types.WorkerCount: 2, types.WorkerEnergy: 10},
		},
		{
			Name:          "Union Meeting",
			Description:   "Everyone gathers in the break room to air grievances.",
			StatModifiers: map[types.Resource]int{types.ChaosLevel: -10, types.WorkerEnergy: 15, types.PastaPrestige: -5},
			Effect:        EffectUnionMeeting,
		},
		{
			Name:          "Worker Strike",
			Description:   "The workers put down their ladles.",
			StatModifiers: map[types.Resource]int{types.ChaosLevel: 20, types.WorkerEnergy: 20},
			Effect:        EffectStrike,
		},
		{
			Name:          "Reggie's Escape Plan",
			Description:   "Reggie has been eyeing that ventilation shaft for weeks.",
			Requirements:  map[types.Resource]int{types.WorkerCount: 1},
			StatModifiers: map[types.Resource]int{types.WorkerCount: -1, types.ChaosLevel: 15},
			Effect:        EffectReggieEscape,
		},
		{
			Name:          ReturnOfReggie,
			Description:   "A familiar hairnet appears at the loading dock.",
			StatModifiers: map[types.Resource]int{types.WorkerCount: 1, types.PastaPrestige: 25, types.ChaosLevel: 10},
			Effect:        EffectReggieReturn,
			RequiresFlag:  types.FlagReggieEscaped,
		},
		{
			Name:          "Weevil Infestation",
			Description:   "Something is moving in the flour sacks.",
			StatModifiers: map[types.Resource]int{types.Ingredients: -5, types.ChaosLevel: 10},
			Effect:        EffectWeevils,
		},
		{
			Name:          "Lesser Weevil Pact",
			Description:   "Make peace with the smallest of the weevils.",
			Requirements:  map[types.Resource]int{types.ChaosLevel: 30},
			StatModifiers: map[types.Resource]int{types.ChaosLevel: -15, types.Ingredients: 10},
			Effect:        EffectWeevilPact,
		},
		{
			Name:          "Magic Noodle Spell",
			Description:   "Chant over the boiling vats.",
			Requirements:  map[types.Resource]int{types.ChaosLevel: 40},
			StatModifiers: map[types.Resource]int{types.ChaosLevel: -25, types.PastaPrestige: 5},
			Effect:        EffectMagicSpell,
		},
		{
			Name:          "Enchanted Colander",
			Description:   "It drains water. It also conjures pasta.",
			Requirements:  map[types.Resource]int{types.PastaPrestige: 30},
			StatModifiers: map[types.Resource]int{types.PastaPrestige: -10, types.Ingredients: 15},
			Effect:        EffectColander,
		},
		{
			Name:          "Machine Malfunction",
			Description:   "The extruder makes a noise it has never made before.",
			StatModifiers: map[types.Resource]int{types.ChaosLevel: 25, types.WorkerEnergy: -10},
			Effect:        EffectMalfunction,
		},
		{
			Name:          "Quality Inspection",
			Description:   "Invite an inspector to certify your noodles.",
			Requirements:  map[types.Resource]int{types.PastaPrestige: 10},
			StatModifiers: map[types.Resource]int{types.PastaPrestige: 10, types.ChaosLevel: -5},
			Effect:        EffectInspection,
		},
		{
			Name:          "Coffee Break",
			Description:   "Fifteen minutes of peace and bitter coffee.",
			StatModifiers: map[types.Resource]int{types.WorkerEnergy: 25, types.ChaosLevel: 3, types.PastaPrestige: -2},
		},
		{
			Name:          "Midnight Tasting",
			Description:   "An exclusive tasting for the city's night owls.",
			Requirements:  map[types.Resource]int{types.Ingredients: 15},
			StatModifiers: map[types.Resource]int{types.Ingredients: -15, types.PastaPrestige: 30, types.WorkerEnergy: -15},
			Effect:        EffectMidnightTasting,
		},
		{
			Name:          "Sell Surplus",
			Description:   "Offload the extra stock to a wholesale buyer.",
			Requirements:  map[types.Resource]int{types.Ingredients: 25},
			StatModifiers: map[types.Resource]int{types.Ingredients: -25, types.PastaPrestige: 20},
			Effect:        EffectSellSurplus,
		},
	}
}
