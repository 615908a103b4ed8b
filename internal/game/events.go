package game

import (
	"fmt"

	"github.com/user/noodle-factory/internal/types"
)

// EventCatalog is an immutable, ordered set of binary-choice events
type EventCatalog struct {
	events []types.Event
	byID   map[string]int
}

// NewEventCatalog builds a catalog, rejecting empty or duplicate ids
func NewEventCatalog(events []types.Event) (*EventCatalog, error) {
	c := &EventCatalog{
		events: make([]types.Event, 0, len(events)),
		byID:   make(map[string]int, len(events)),
	}
	for _, event := range events {
		if event.ID == "" {
			return nil, fmt.Errorf("event with empty id")
		}
		if _, exists := c.byID[event.ID]; exists {
			return nil, fmt.Errorf("duplicate event: %s", event.ID)
		}
		c.byID[event.ID] = len(c.events)
		c.events = append(c.events, event)
	}
	return c, nil
}

// DefaultEventCatalog returns the built-in event catalog
func DefaultEventCatalog() *EventCatalog {
	c, err := NewEventCatalog(defaultEvents())
	if err != nil {
		panic(err)
	}
	return c
}

// Get looks up an event by id
func (c *EventCatalog) Get(id string) (types.Event, bool) {
	i, ok := c.byID[id]
	if !ok {
		return types.Event{}, false
	}
	return c.events[i], true
}

// Len returns the number of events in the catalog
func (c *EventCatalog) Len() int {
	return len(c.events)
}

// All returns every event in catalog order
func (c *EventCatalog) All() []types.Event {
	out := make([]types.Event, len(c.events))
	copy(out, c.events)
	return out
}

// DrawEvent picks a uniformly random event from the full catalog
func (c *EventCatalog) DrawEvent(rng Randomizer) (types.Event, error) {
	if len(c.events) == 0 {
		return types.Event{}, ErrNoEvents
	}
	return c.events[rng.Intn(len(c.events))], nil
}

func defaultEvents() []types.Event {
	return []types.Event{
		{
			ID:   "rival_factory",
			Text: "A rival factory offers to buy your secret sauce recipe.",
			Left: types.EventOutcome{
				Text:          "You sell. The money buys a mountain of flour.",
				StatModifiers: map[types.Resource]int{types.PastaPrestige: -10, types.Ingredients: 25},
			},
			Right: types.EventOutcome{
				Text:          "You refuse. The rivals sulk loudly across the street.",
				StatModifiers: map[types.Resource]int{types.ChaosLevel: 10, types.PastaPrestige: 10},
			},
		},
		{
			ID:   "health_inspector",
			Text: "A health inspector is at the front door, clipboard in hand.",
			Left: types.EventOutcome{
				Text:          "A bowl of ramen changes hands. The inspector leaves happy.",
				StatModifiers: map[types.Resource]int{types.PastaPrestige: -15, types.ChaosLevel: -10},
			},
			Right: types.EventOutcome{
				Text:   "You open the doors wide.",
				Effect: EffectInspectorVisit,
			},
		},
		{
			ID:   "power_outage",
			Text: "The lights flicker and die mid-boil.",
			Left: types.EventOutcome{
				Text:          "The generators roar to life, eating through supplies.",
				StatModifiers: map[types.Resource]int{types.Ingredients: -10, types.ChaosLevel: 5},
			},
			Right: types.EventOutcome{
				Text:          "Everyone goes home early and sleeps like a log.",
				StatModifiers: map[types.Resource]int{types.WorkerEnergy: 30, types.PastaPrestige: -10},
			},
		},
		{
			ID:   "noodle_critic",
			Text: "A famous noodle critic walks in unannounced.",
			Left: types.EventOutcome{
				Text:   "You serve the house special.",
				Effect: EffectCriticSpecial,
			},
			Right: types.EventOutcome{
				Text:          "You hide in the walk-in freezer until they leave.",
				StatModifiers: map[types.Resource]int{types.ChaosLevel: 5},
			},
		},
		{
			ID:   "weevil_king",
			Text: "The Weevil King demands tribute from your pantry.",
			Left: types.EventOutcome{
				Text:          "You negotiate with the lesser weevil instead.",
				StatModifiers: map[types.Resource]int{types.Ingredients: -5, types.ChaosLevel: -10},
				Effect:        EffectWeevilDeal,
			},
			Right: types.EventOutcome{
				Text:   "You fumigate everything.",
				Effect: EffectFumigate,
			},
		},
		{
			ID:   "reggie_sighting",
			Text: "Someone swears they saw Reggie behind the dumpsters.",
			Left: types.EventOutcome{
				Text:          "You chase a shadow around the block. It was a raccoon.",
				StatModifiers: map[types.Resource]int{types.ChaosLevel: 10, types.WorkerEnergy: -10},
			},
			Right: types.EventOutcome{
				Text:   "You leave a bowl of noodles by the back door.",
				Effect: EffectReggieBowl,
			},
		},
		{
			ID:   "flour_storm",
			Text: "A ventilation fan blows flour over the entire factory.",
			Left: types.EventOutcome{
				Text:          "Everyone spends the shift cleaning.",
				StatModifiers: map[types.Resource]int{types.WorkerEnergy: -15},
			},
			Right: types.EventOutcome{
				Text:          "You sell flour-dusted noodles as avant-garde art.",
				StatModifiers: map[types.Resource]int{types.PastaPrestige: 15, types.ChaosLevel: 15},
			},
		},
		{
			ID:   "union_vote",
			Text: "The workers vote on whether to strike.",
			Left: types.EventOutcome{
				Text:          "You accept their demands before the vote.",
				StatModifiers: map[types.Resource]int{types.PastaPrestige: -15, types.WorkerEnergy: 30},
				Effect:        EffectUnionAccept,
			},
			Right: types.EventOutcome{
				Text:          "You refuse to negotiate.",
				StatModifiers: map[types.Resource]int{types.ChaosLevel: 20},
				Effect:        EffectUnionRefuse,
			},
		},
	}
}
