package game

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/noodle-factory/internal/types"
)

func drawAll(t *testing.T, catalog *CardCatalog, state *types.ResourceState) map[string]bool {
	t.Helper()

	seen := make(map[string]bool)
	for i := 0; i < catalog.Len(); i++ {
		card, err := catalog.DrawCard(state, &fixedRoller{ints: []int{i}})
		require.NoError(t, err)
		seen[card.Name] = true
	}
	return seen
}

func TestCardCatalog_ReggieGatedOnEscape(t *testing.T) {
	catalog := DefaultCardCatalog()
	state := &types.ResourceState{}

	eligible := catalog.Eligible(state)
	assert.Len(t, eligible, catalog.Len()-1)
	for _, card := range eligible {
		assert.NotEqual(t, ReturnOfReggie, card.Name)
	}
	assert.False(t, drawAll(t, catalog, state)[ReturnOfReggie])

	state.SetFlag(types.FlagReggieEscaped, true)
	assert.Len(t, catalog.Eligible(state), catalog.Len())
	assert.True(t, drawAll(t, catalog, state)[ReturnOfReggie])
}

func TestCardCatalog_RejectsDuplicates(t *testing.T) {
	_, err := NewCardCatalog([]types.Card{{Name: "Boil"}, {Name: "Boil"}})
	assert.Error(t, err)

	_, err = NewCardCatalog([]types.Card{{Name: ""}})
	assert.Error(t, err)

	_, err = NewEventCatalog([]types.Event{{ID: "storm"}, {ID: "storm"}})
	assert.Error(t, err)
}

func TestCardCatalog_DrawFromEmptyPool(t *testing.T) {
	catalog, err := NewCardCatalog([]types.Card{{Name: "Locked", RequiresFlag: "never"}})
	require.NoError(t, err)

	_, err = catalog.DrawCard(&types.ResourceState{}, &fixedRoller{})
	assert.True(t, errors.Is(err, ErrNoEligibleCards))

	events, err := NewEventCatalog(nil)
	require.NoError(t, err)
	_, err = events.DrawEvent(&fixedRoller{})
	assert.True(t, errors.Is(err, ErrNoEvents))
}

func TestDataLoader(t *testing.T) {
	dir := t.TempDir()
	loader := NewDataLoader(dir)

	// Missing files surface as fs.ErrNotExist
	_, err := loader.LoadCards()
	assert.True(t, errors.Is(err, os.ErrNotExist))
	_, err = loader.LoadEvents()
	assert.True(t, errors.Is(err, os.ErrNotExist))

	cardsJSON := `[
		{"name": "Boil", "description": "Boil the water.", "stat_modifiers": {"chaosLevel": 2}},
		{"name": "Drain", "description": "Drain the pot.", "requirements": {"ingredients": 5}, "effect": "delivery"}
	]`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cards.json"), []byte(cardsJSON), 0644))

	eventsJSON := `[
		{"id": "spill", "text": "The pot tips over.",
		 "left": {"text": "Mop it up.", "stat_modifiers": {"workerEnergy": -5}},
		 "right": {"text": "Ignore it.", "stat_modifiers": {"chaosLevel": 5}}}
	]`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "events.json"), []byte(eventsJSON), 0644))

	cards, err := loader.LoadCards()
	require.NoError(t, err)
	assert.Equal(t, 2, cards.Len())
	card, ok := cards.Get("Drain")
	require.True(t, ok)
	assert.Equal(t, 5, card.Requirements[types.Ingredients])
	assert.Equal(t, EffectDelivery, card.Effect)

	events, err := loader.LoadEvents()
	require.NoError(t, err)
	event, ok := events.Get("spill")
	require.True(t, ok)
	assert.Equal(t, -5, event.Left.StatModifiers[types.WorkerEnergy])

	// Malformed JSON is an error, not a missing file
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cards.json"), []byte("{"), 0644))
	_, err = loader.LoadCards()
	assert.Error(t, err)
	assert.False(t, errors.Is(err, os.ErrNotExist))
}
