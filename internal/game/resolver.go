package game

import (
	"sort"

	"github.com/user/noodle-factory/internal/types"
)

// CheckRequirements returns a *RequirementError for the first unmet
// requirement, in resource-name order. Unknown resources read as 0.
func CheckRequirements(card types.Card, s *types.ResourceState) error {
	keys := make([]string, 0, len(card.Requirements))
	for r := range card.Requirements {
		keys = append(keys, string(r))
	}
	sort.Strings(keys)

	for _, k := range keys {
		r := types.Resource(k)
		required := card.Requirements[r]
		if actual := s.Value(r); actual < required {
			return &RequirementError{
				Card:     card.Name,
				Resource: r,
				Required: required,
				Actual:   actual,
			}
		}
	}
	return nil
}

// applyModifiers adds every delta to the state. Deltas on unknown resources
// are dropped. No clamping is applied.
func applyModifiers(mods map[types.Resource]int, s *types.ResourceState) {
	for r, delta := range mods {
		s.Add(r, delta)
	}
}

// ResolveCard plays a card against the state. Requirements are validated
// before anything is touched; on failure the state is left unchanged. The
// declarative modifiers are applied next, then the card's effect runs against
// the updated state. When progress is non-nil the card is recorded as played.
func ResolveCard(card types.Card, s *types.ResourceState, progress *types.Progress) (string, error) {
	if err := CheckRequirements(card, s); err != nil {
		return "", err
	}

	applyModifiers(card.StatModifiers, s)

	narrative := applyEffect(card.Effect, s)
	if narrative == "" {
		narrative = card.Description
	}

	if progress != nil {
		progress.MarkPlayed(card.Name)
	}

	return narrative, nil
}

// ResolveEventChoice applies one side of an event to the state
func ResolveEventChoice(event types.Event, side types.Side, s *types.ResourceState) (string, error) {
	var outcome types.EventOutcome
	switch side {
	case types.Left:
		outcome = event.Left
	case types.Right:
		outcome = event.Right
	default:
		return "", ErrInvalidChoice
	}

	applyModifiers(outcome.StatModifiers, s)

	narrative := outcome.Text
	if extra := applyEffect(outcome.Effect, s); extra != "" {
		if narrative != "" {
			narrative += " "
		}
		narrative += extra
	}
	return narrative, nil
}

// ValidateCatalog lists catalog entries that reference resources or effects
// the engine does not know. These are tolerated at runtime.
func ValidateCatalog(cards *CardCatalog, events *EventCatalog) []string {
	var problems []string
	probe := &types.ResourceState{}

	checkMods := func(owner string, mods map[types.Resource]int) {
		for r := range mods {
			if !probe.Known(r) {
				problems = append(problems, owner+": unknown resource "+string(r))
			}
		}
	}
	checkEffect := func(owner, tag string) {
		if tag != "" && !KnownEffect(tag) {
			problems = append(problems, owner+": unknown effect "+tag)
		}
	}

	if cards != nil {
		for _, c := range cards.All() {
			checkMods("card "+c.Name, c.Requirements)
			checkMods("card "+c.Name, c.StatModifiers)
			checkEffect("card "+c.Name, c.Effect)
		}
	}
	if events != nil {
		for _, e := range events.All() {
			checkMods("event "+e.ID+"/left", e.Left.StatModifiers)
			checkMods("event "+e.ID+"/right", e.Right.StatModifiers)
			checkEffect("event "+e.ID+"/left", e.Left.Effect)
			checkEffect("event "+e.ID+"/right", e.Right.Effect)
		}
	}
	sort.Strings(problems)
	return problems
}
