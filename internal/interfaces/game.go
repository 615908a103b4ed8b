package interfaces

import "github.com/user/noodle-factory/internal/types"

// ChaosListener receives the chaos level and its tier after every resolved action
type ChaosListener interface {
	OnChaosChange(level, tier int)
}

// GameManager defines the interface for game operations
type GameManager interface {
	NewGame() types.ResourceState
	State() types.ResourceState
	Turn() int
	SessionID() string
	EligibleCards() []types.Card
	DrawCard() (types.Card, error)
	PlayCard(name string) (*types.TurnResult, error)
	DrawEvent() (types.Event, error)
	ResolveEvent(eventID string, choice types.Side) (*types.TurnResult, error)
	AdvanceTurn() (*types.TurnResult, error)
	Achievements() []types.AchievementStatus
	CompletionPercent() float64
	History() []types.Decision
	ResetProgress() error
}
