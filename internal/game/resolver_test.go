package game

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/noodle-factory/internal/types"
)

func TestResolveCard_UnmetRequirementsLeaveStateUnchanged(t *testing.T) {
	for _, card := range DefaultCardCatalog().All() {
		if len(card.Requirements) == 0 {
			continue
		}

		t.Run(card.Name, func(t *testing.T) {
			state := &types.ResourceState{Flags: map[string]bool{"seen": true}}
			before := state.Clone()
			progress := types.NewProgress()

			narrative, err := ResolveCard(card, state, progress)
			assert.Error(t, err)
			assert.True(t, errors.Is(err, ErrRequirementNotMet))
			assert.Empty(t, narrative)
			assert.Equal(t, before, state)
			assert.Empty(t, progress.Played)

			var reqErr *RequirementError
			require.True(t, errors.As(err, &reqErr))
			assert.Equal(t, card.Name, reqErr.Card)
			assert.Equal(t, 0, reqErr.Actual)
		})
	}
}

func TestResolveCard_AppliesDeclaredModifiers(t *testing.T) {
	catalog := DefaultCardCatalog()
	state := &types.ResourceState{ChaosLevel: 10, PastaPrestige: 20, Ingredients: 30, WorkerCount: 5, WorkerEnergy: 100}

	card, ok := catalog.Get("Coffee Break")
	require.True(t, ok)

	narrative, err := ResolveCard(card, state, nil)
	assert.NoError(t, err)
	assert.Equal(t, card.Description, narrative)
	assert.Equal(t, 13, state.ChaosLevel)
	assert.Equal(t, 18, state.PastaPrestige)
	assert.Equal(t, 30, state.Ingredients)
	assert.Equal(t, 5, state.WorkerCount)
	assert.Equal(t, 125, state.WorkerEnergy)

	card, ok = catalog.Get("Hire Temp Workers")
	require.True(t, ok)

	_, err = ResolveCard(card, state, nil)
	assert.NoError(t, err)
	assert.Equal(t, 3, state.PastaPrestige)
	assert.Equal(t, 7, state.WorkerCount)
	assert.Equal(t, 135, state.WorkerEnergy)
}

func TestResolveCard_EffectSeesPostModifierState(t *testing.T) {
	card, ok := DefaultCardCatalog().Get("Worker Strike")
	require.True(t, ok)

	// The +20 chaos modifier lifts 50 to 70 before the effect runs
	state := &types.ResourceState{ChaosLevel: 50, WorkerCount: 4, WorkerEnergy: 10}
	_, err := ResolveCard(card, state, nil)
	assert.NoError(t, err)
	assert.Equal(t, 70, state.ChaosLevel)
	assert.Equal(t, 30, state.WorkerEnergy)
	assert.Equal(t, 1, state.StrikeDeaths)
	assert.Equal(t, 1, state.LostWorkers)
	assert.Equal(t, 3, state.WorkerCount)
	assert.Equal(t, 0, state.SurvivedStrikes)

	// Below the threshold the strike is survived
	state = &types.ResourceState{ChaosLevel: 49, WorkerCount: 4}
	_, err = ResolveCard(card, state, nil)
	assert.NoError(t, err)
	assert.Equal(t, 69, state.ChaosLevel)
	assert.Equal(t, 1, state.SurvivedStrikes)
	assert.Equal(t, 0, state.StrikeDeaths)
	assert.Equal(t, 4, state.WorkerCount)
}

func TestResolveCard_NoClamping(t *testing.T) {
	card, ok := DefaultCardCatalog().Get("Union Meeting")
	require.True(t, ok)

	state := &types.ResourceState{ChaosLevel: 0, PastaPrestige: 0, WorkerCount: 5}
	_, err := ResolveCard(card, state, nil)
	assert.NoError(t, err)
	assert.Equal(t, -10, state.ChaosLevel)
	assert.Equal(t, -5, state.PastaPrestige)
}

func TestResolveCard_UnknownResourceIsNoop(t *testing.T) {
	card := types.Card{
		Name:          "Mystery Box",
		Description:   "Nobody knows what is inside.",
		Requirements:  map[types.Resource]int{"mystery": 0},
		StatModifiers: map[types.Resource]int{"mystery": 5, types.ChaosLevel: 1},
		Effect:        "no_such_effect",
	}
	state := &types.ResourceState{}

	narrative, err := ResolveCard(card, state, nil)
	assert.NoError(t, err)
	assert.Equal(t, "Nobody knows what is inside.", narrative)
	assert.Equal(t, 1, state.ChaosLevel)
	assert.Equal(t, 0, state.Value("mystery"))

	// An unknown resource reads as 0, so a positive threshold fails
	card.Requirements = map[types.Resource]int{"mystery": 1}
	_, err = ResolveCard(card, state, nil)
	assert.True(t, errors.Is(err, ErrRequirementNotMet))
	assert.Equal(t, 1, state.ChaosLevel)
}

func TestResolveCard_PlayedSetIsIdempotent(t *testing.T) {
	card, ok := DefaultCardCatalog().Get("Coffee Break")
	require.True(t, ok)

	state := &types.ResourceState{}
	progress := types.NewProgress()

	_, err := ResolveCard(card, state, progress)
	require.NoError(t, err)
	_, err = ResolveCard(card, state, progress)
	require.NoError(t, err)

	assert.Len(t, progress.Played, 1)
	assert.True(t, progress.Played["Coffee Break"])
	assert.Equal(t, 50, state.WorkerEnergy)
}

func TestResolveCard_BonusBranchFloors(t *testing.T) {
	card, ok := DefaultCardCatalog().Get("Sell Surplus")
	require.True(t, ok)

	// 60 chaos: 40 - 25 = 15 left, floor(15 * 0.3) = 4 kept
	state := &types.ResourceState{ChaosLevel: 60, Ingredients: 40}
	_, err := ResolveCard(card, state, nil)
	assert.NoError(t, err)
	assert.Equal(t, 4, state.Ingredients)
	assert.Equal(t, 11, state.LostIngredients)
	assert.Equal(t, 20, state.PastaPrestige)
}

func TestResolveEventChoice(t *testing.T) {
	event, ok := DefaultEventCatalog().Get("union_vote")
	require.True(t, ok)

	// Test case 1: left side
	state := &types.ResourceState{PastaPrestige: 20, WorkerEnergy: 10}
	narrative, err := ResolveEventChoice(event, types.Left, state)
	assert.NoError(t, err)
	assert.Contains(t, narrative, event.Left.Text)
	assert.Equal(t, 5, state.PastaPrestige)
	assert.Equal(t, 40, state.WorkerEnergy)
	assert.Equal(t, 1, state.SurvivedStrikes)

	// Test case 2: right side with exhausted workers
	state = &types.ResourceState{WorkerEnergy: 10, WorkerCount: 3}
	_, err = ResolveEventChoice(event, types.Right, state)
	assert.NoError(t, err)
	assert.Equal(t, 20, state.ChaosLevel)
	assert.Equal(t, 1, state.StrikeDeaths)
	assert.Equal(t, 2, state.WorkerCount)

	// Test case 3: invalid choice
	state = &types.ResourceState{}
	before := state.Clone()
	_, err = ResolveEventChoice(event, "up", state)
	assert.True(t, errors.Is(err, ErrInvalidChoice))
	assert.Equal(t, before, state)
}

func TestValidateCatalog(t *testing.T) {
	assert.Empty(t, ValidateCatalog(DefaultCardCatalog(), DefaultEventCatalog()))

	cards, err := NewCardCatalog([]types.Card{
		{Name: "Odd", StatModifiers: map[types.Resource]int{"glitter": 1}, Effect: "sparkle"},
	})
	require.NoError(t, err)

	problems := ValidateCatalog(cards, nil)
	assert.Equal(t, []string{"card Odd: unknown effect sparkle", "card Odd: unknown resource glitter"}, problems)
}

func TestChaosTier(t *testing.T) {
	cases := map[int]int{-5: 0, 0: 0, 19: 0, 20: 1, 39: 1, 40: 2, 59: 2, 60: 3, 79: 3, 80: 4, 100: 4, 250: 4}
	for level, want := range cases {
		assert.Equal(t, want, ChaosTier(level), "level %d", level)
	}
}
