package game

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/user/noodle-factory/internal/types"
)

// Randomizer is the source of randomness for draws and risk rolls
type Randomizer interface {
	Intn(n int) int
	Float64() float64
}

// DataLoader handles loading catalog overrides from files
type DataLoader struct {
	basePath string
}

// NewDataLoader creates a new data loader
func NewDataLoader(basePath string) *DataLoader {
	return &DataLoader{
		basePath: basePath,
	}
}

// LoadCards loads card definitions from cards.json
func (dl *DataLoader) LoadCards() (*CardCatalog, error) {
	path := filepath.Join(dl.basePath, "cards.json")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read cards file: %w", err)
	}

	var cards []types.Card
	if err := json.Unmarshal(data, &cards); err != nil {
		return nil, fmt.Errorf("failed to parse cards data: %w", err)
	}

	return NewCardCatalog(cards)
}

// LoadEvents loads event definitions from events.json
func (dl *DataLoader) LoadEvents() (*EventCatalog, error) {
	path := filepath.Join(dl.basePath, "events.json")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read events file: %w", err)
	}

	var events []types.Event
	if err := json.Unmarshal(data, &events); err != nil {
		return nil, fmt.Errorf("failed to parse events data: %w", err)
	}

	return NewEventCatalog(events)
}

// DiceRoller handles random rolls for the game
type DiceRoller struct {
	rng *rand.Rand
}

// NewDiceRoller creates a new dice roller with a time-seeded random number generator
func NewDiceRoller() *DiceRoller {
	return NewSeededDiceRoller(time.Now().UnixNano())
}

// NewSeededDiceRoller creates a dice roller with a fixed seed
func NewSeededDiceRoller(seed int64) *DiceRoller {
	return &DiceRoller{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// Intn returns a uniform value in [0, n)
func (dr *DiceRoller) Intn(n int) int {
	return dr.rng.Intn(n)
}

// Float64 returns a uniform value in [0, 1)
func (dr *DiceRoller) Float64() float64 {
	return dr.rng.Float64()
}
