package game

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/user/noodle-factory/config"
	"github.com/user/noodle-factory/internal/interfaces"
	"github.com/user/noodle-factory/internal/types"
	"go.uber.org/zap"
)

// Decision kinds recorded in the history
const (
	DecisionCard  = "card"
	DecisionEvent = "event"
)

// GameManager owns one player's game: the resource state, the turn counter,
// the pending event and the persisted progress record.
type GameManager struct {
	state     *types.ResourceState
	turn      int
	sessionID string
	pending   *types.Event
	history   []types.Decision
	stateLock sync.Mutex

	progress *types.Progress
	storage  *ProgressStore
	persist  bool

	cards      *CardCatalog
	events     *EventCatalog
	evaluator  *Evaluator
	diceRoller Randomizer

	config        config.Config
	Logger        *zap.Logger
	chaosListener interfaces.ChaosListener
}

// Ensure GameManager satisfies the interfaces.GameManager interface
var _ interfaces.GameManager = (*GameManager)(nil)

// NewGameManager creates a game manager over the built-in catalogs. A nil
// store or logger falls back to an in-memory store and a no-op logger.
func NewGameManager(cfg config.Config, store KeyValueStore, logger *zap.Logger) *GameManager {
	if store == nil {
		store = NewMemoryStore()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	var roller Randomizer
	if cfg.Game.Seed != 0 {
		roller = NewSeededDiceRoller(cfg.Game.Seed)
	} else {
		roller = NewDiceRoller()
	}

	gm := &GameManager{
		storage:    NewProgressStore(store),
		persist:    true,
		cards:      DefaultCardCatalog(),
		events:     DefaultEventCatalog(),
		diceRoller: roller,
		config:     cfg,
		Logger:     logger,
	}
	gm.evaluator = NewEvaluator(gm.cards, gm.diceRoller)

	// Try to load existing progress
	progress, err := gm.storage.Load(context.Background())
	if err != nil {
		gm.disablePersistence(err)
		progress = types.NewProgress()
	}
	gm.progress = progress

	gm.resetGame()
	return gm
}

// SetCatalogs replaces the card and event catalogs. Nil arguments keep the current catalog.
func (gm *GameManager) SetCatalogs(cards *CardCatalog, events *EventCatalog) {
	gm.stateLock.Lock()
	defer gm.stateLock.Unlock()

	if cards != nil {
		gm.cards = cards
	}
	if events != nil {
		gm.events = events
	}
	gm.evaluator = NewEvaluator(gm.cards, gm.diceRoller)

	for _, problem := range ValidateCatalog(gm.cards, gm.events) {
		gm.Logger.Debug("Catalog entry references unknown key", zap.String("problem", problem))
	}
}

// SetRandomizer replaces the source of randomness
func (gm *GameManager) SetRandomizer(rng Randomizer) {
	gm.stateLock.Lock()
	defer gm.stateLock.Unlock()

	gm.diceRoller = rng
	gm.evaluator = NewEvaluator(gm.cards, rng)
}

// SetChaosListener registers the collaborator notified of chaos changes
func (gm *GameManager) SetChaosListener(listener interfaces.ChaosListener) {
	gm.stateLock.Lock()
	defer gm.stateLock.Unlock()

	gm.chaosListener = listener
}

func (gm *GameManager) resetGame() {
	gm.state = &types.ResourceState{
		ChaosLevel:    gm.config.Game.StartingChaos,
		PastaPrestige: gm.config.Game.StartingPrestige,
		Ingredients:   gm.config.Game.StartingIngredients,
		WorkerCount:   gm.config.Game.StartingWorkers,
		WorkerEnergy:  gm.config.Game.StartingEnergy,
	}
	gm.turn = 0
	gm.sessionID = uuid.New().String()
	gm.pending = nil
	gm.history = make([]types.Decision, 0)
}

func (gm *GameManager) disablePersistence(err error) {
	if !gm.persist {
		return
	}
	gm.persist = false
	gm.Logger.Warn("Progress store unavailable, nothing will persist this session", zap.Error(err))
}

// saveProgress persists the progress record. Failures never reach the caller.
func (gm *GameManager) saveProgress() {
	if !gm.persist {
		return
	}
	if err := gm.storage.Save(context.Background(), gm.progress); err != nil {
		gm.disablePersistence(err)
	}
}

// NewGame starts a fresh game with the configured starting meters.
// Persisted progress is kept.
func (gm *GameManager) NewGame() types.ResourceState {
	gm.stateLock.Lock()
	defer gm.stateLock.Unlock()

	gm.resetGame()
	gm.Logger.Info("New game started", zap.String("session_id", gm.sessionID))
	gm.notifyChaos()
	return *gm.state.Clone()
}

// State returns a snapshot of the resource state
func (gm *GameManager) State() types.ResourceState {
	gm.stateLock.Lock()
	defer gm.stateLock.Unlock()

	return *gm.state.Clone()
}

// Turn returns the current turn counter
func (gm *GameManager) Turn() int {
	gm.stateLock.Lock()
	defer gm.stateLock.Unlock()

	return gm.turn
}

// SessionID returns the id of the current game
func (gm *GameManager) SessionID() string {
	gm.stateLock.Lock()
	defer gm.stateLock.Unlock()

	return gm.sessionID
}

// EligibleCards returns the current draw pool
func (gm *GameManager) EligibleCards() []types.Card {
	gm.stateLock.Lock()
	defer gm.stateLock.Unlock()

	return gm.cards.Eligible(gm.state)
}

// DrawCard draws a random card from the eligible pool
func (gm *GameManager) DrawCard() (types.Card, error) {
	gm.stateLock.Lock()
	defer gm.stateLock.Unlock()

	return gm.cards.DrawCard(gm.state, gm.diceRoller)
}

// PlayCard resolves the named card against the current state. An unmet
// requirement leaves the state untouched and the card playable later.
func (gm *GameManager) PlayCard(name string) (*types.TurnResult, error) {
	gm.stateLock.Lock()
	defer gm.stateLock.Unlock()

	card, exists := gm.cards.Get(name)
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrCardNotFound, name)
	}
	if !IsEligible(card, gm.state) {
		return nil, fmt.Errorf("%w: %s", ErrCardNotEligible, name)
	}

	narrative, err := ResolveCard(card, gm.state, gm.progress)
	if err != nil {
		gm.Logger.Info("Card rejected",
			zap.String("card", name),
			zap.Error(err))
		return nil, err
	}

	gm.Logger.Info("Card played",
		zap.String("card", name),
		zap.Int("turn", gm.turn),
		zap.Int("chaos_level", gm.state.ChaosLevel))

	gm.record(DecisionCard, name, "", narrative)
	return gm.finishAction(narrative), nil
}

// DrawEvent draws a random event and marks it pending until resolved
func (gm *GameManager) DrawEvent() (types.Event, error) {
	gm.stateLock.Lock()
	defer gm.stateLock.Unlock()

	event, err := gm.events.DrawEvent(gm.diceRoller)
	if err != nil {
		return types.Event{}, err
	}
	gm.pending = &event

	gm.Logger.Info("Event drawn",
		zap.String("event", event.ID),
		zap.Int("turn", gm.turn))

	return event, nil
}

// ResolveEvent applies the chosen side of the pending event. Each drawn
// event resolves exactly once.
func (gm *GameManager) ResolveEvent(eventID string, choice types.Side) (*types.TurnResult, error) {
	gm.stateLock.Lock()
	defer gm.stateLock.Unlock()

	event, exists := gm.events.Get(eventID)
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrEventNotFound, eventID)
	}
	if gm.pending == nil || gm.pending.ID != eventID {
		return nil, fmt.Errorf("%w: %s", ErrEventNotPending, eventID)
	}

	narrative, err := ResolveEventChoice(event, choice, gm.state)
	if err != nil {
		return nil, err
	}
	gm.pending = nil

	gm.Logger.Info("Event resolved",
		zap.String("event", eventID),
		zap.String("choice", string(choice)),
		zap.Int("chaos_level", gm.state.ChaosLevel))

	gm.record(DecisionEvent, eventID, string(choice), narrative)
	return gm.finishAction(narrative), nil
}

// AdvanceTurn moves to the next turn and updates the streak counters
func (gm *GameManager) AdvanceTurn() (*types.TurnResult, error) {
	gm.stateLock.Lock()
	defer gm.stateLock.Unlock()

	gm.turn++

	s := gm.state
	if s.ChaosLevel < ChaosTierStep {
		s.ChaosControlTurns++
	} else {
		s.ChaosControlTurns = 0
	}
	if s.ChaosLevel >= 40 && s.ChaosLevel < 60 {
		s.ChaosSteadyTurns++
	} else {
		s.ChaosSteadyTurns = 0
	}

	gm.Logger.Debug("Turn advanced",
		zap.Int("turn", gm.turn),
		zap.Int("chaos_level", s.ChaosLevel))

	return gm.finishAction(""), nil
}

// finishAction runs achievement evaluation after a state change, persists
// progress and notifies the chaos listener. Callers hold the lock.
func (gm *GameManager) finishAction(narrative string) *types.TurnResult {
	if gm.state.ChaosLevel >= MaxChaos {
		gm.state.HadMaxChaos = true
	}

	unlocked := gm.evaluator.Evaluate(gm.state, gm.turn, gm.progress)
	risks, riskUnlocked := gm.evaluator.EvaluateRisks(gm.state, gm.progress)
	unlocked = append(unlocked, riskUnlocked...)

	// Risk branches can push chaos over the top
	if gm.state.ChaosLevel >= MaxChaos {
		gm.state.HadMaxChaos = true
	}

	for _, a := range unlocked {
		gm.Logger.Info("Achievement unlocked",
			zap.String("achievement", a.ID),
			zap.String("session_id", gm.sessionID))
	}

	gm.saveProgress()
	gm.notifyChaos()

	return &types.TurnResult{
		Narrative:  narrative,
		State:      *gm.state.Clone(),
		Turn:       gm.turn,
		Unlocked:   unlocked,
		Risks:      risks,
		Eligible:   gm.cards.Eligible(gm.state),
		ChaosLevel: gm.state.ChaosLevel,
		ChaosTier:  ChaosTier(gm.state.ChaosLevel),
	}
}

func (gm *GameManager) notifyChaos() {
	if gm.chaosListener == nil {
		return
	}
	gm.chaosListener.OnChaosChange(gm.state.ChaosLevel, ChaosTier(gm.state.ChaosLevel))
}

func (gm *GameManager) record(kind, subject, choice, narrative string) {
	gm.history = append(gm.history, types.Decision{
		ID:        uuid.New().String(),
		Kind:      kind,
		Subject:   subject,
		Choice:    choice,
		Turn:      gm.turn,
		Timestamp: time.Now(),
		Narrative: narrative,
	})
}

// Achievements lists every achievement with its unlock state
func (gm *GameManager) Achievements() []types.AchievementStatus {
	gm.stateLock.Lock()
	defer gm.stateLock.Unlock()

	statuses := make([]types.AchievementStatus, 0)
	for _, a := range gm.evaluator.Achievements() {
		statuses = append(statuses, types.AchievementStatus{
			ID:          a.ID,
			Description: a.Description,
			Reward:      a.Reward,
			Unlocked:    gm.progress.IsUnlocked(a.ID),
		})
	}
	for _, ra := range gm.evaluator.RiskAchievements() {
		statuses = append(statuses, types.AchievementStatus{
			ID:          ra.ID,
			Description: ra.Description,
			Risk:        true,
			Unlocked:    gm.progress.IsUnlocked(ra.ID),
		})
	}
	return statuses
}

// Progress returns a snapshot of the progress record
func (gm *GameManager) Progress() *types.Progress {
	gm.stateLock.Lock()
	defer gm.stateLock.Unlock()

	return gm.progress.Clone()
}

// CompletionPercent returns the share of the card catalog played so far
func (gm *GameManager) CompletionPercent() float64 {
	gm.stateLock.Lock()
	defer gm.stateLock.Unlock()

	return gm.evaluator.CompletionPercent(gm.progress)
}

// History returns the decisions made in the current game
func (gm *GameManager) History() []types.Decision {
	gm.stateLock.Lock()
	defer gm.stateLock.Unlock()

	out := make([]types.Decision, len(gm.history))
	copy(out, gm.history)
	return out
}

// ResetProgress clears unlocked achievements, the first-session flag and
// the played cards, both in memory and in the store.
func (gm *GameManager) ResetProgress() error {
	gm.stateLock.Lock()
	defer gm.stateLock.Unlock()

	gm.progress = types.NewProgress()
	if !gm.persist {
		return nil
	}
	if err := gm.storage.Reset(context.Background()); err != nil {
		// Gameplay continues without persistence
		gm.disablePersistence(err)
		return nil
	}
	gm.Logger.Info("Progress reset")
	return nil
}
