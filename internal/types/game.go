package types

import "time"

// Resource names a ResourceState field that catalogs can reference
type Resource string

const (
	ChaosLevel    Resource = "chaosLevel"
	PastaPrestige Resource = "pastaPrestige"
	Ingredients   Resource = "ingredients"
	WorkerCount   Resource = "workerCount"
	WorkerEnergy  Resource = "workerEnergy"

	LostWorkers       Resource = "lostWorkers"
	LostIngredients   Resource = "lostIngredients"
	StrikeDeaths      Resource = "strikeDeaths"
	SurvivedStrikes   Resource = "survivedStrikes"
	ChaosSteadyTurns  Resource = "chaosSteadyTurns"
	ChaosControlTurns Resource = "chaosControlTurns"
	UsedMagicCards    Resource = "usedMagicCards"
	PerfectCooks      Resource = "perfectCooks"
)

// ResourceState is the mutable record of a player's meters and tracking counters
type ResourceState struct {
	ChaosLevel    int `json:"chaosLevel"`
	PastaPrestige int `json:"pastaPrestige"`
	Ingredients   int `json:"ingredients"`
	WorkerCount   int `json:"workerCount"`
	WorkerEnergy  int `json:"workerEnergy"`

	// Counters read by achievements
	LostWorkers       int `json:"lostWorkers"`
	LostIngredients   int `json:"lostIngredients"`
	StrikeDeaths      int `json:"strikeDeaths"`
	SurvivedStrikes   int `json:"survivedStrikes"`
	ChaosSteadyTurns  int `json:"chaosSteadyTurns"`
	ChaosControlTurns int `json:"chaosControlTurns"`
	UsedMagicCards    int `json:"usedMagicCards"`
	PerfectCooks      int `json:"perfectCooks"`

	HadMaxChaos        bool `json:"hadMaxChaos"`
	ReggieEscaped      bool `json:"reggieEscaped"`
	ReggieComplete     bool `json:"reggieComplete"`
	ChosenLesserWeevil bool `json:"chosenLesserWeevil"`

	// Single-use narrative flags; a missing key reads as false
	Flags map[string]bool `json:"flags,omitempty"`
}

// Card is a playable card definition
type Card struct {
	Name          string           `json:"name"`
	Description   string           `json:"description"`
	Requirements  map[Resource]int `json:"requirements,omitempty"`
	StatModifiers map[Resource]int `json:"stat_modifiers,omitempty"`
	Effect        string           `json:"effect,omitempty"`

	// Gated cards only enter the draw pool once the named flag is set
	RequiresFlag string `json:"requires_flag,omitempty"`
}

// Side selects one half of a binary-choice event
type Side string

const (
	Left  Side = "left"
	Right Side = "right"
)

// Event is a binary-choice random event
type Event struct {
	ID    string       `json:"id"`
	Text  string       `json:"text"`
	Left  EventOutcome `json:"left"`
	Right EventOutcome `json:"right"`
}

// EventOutcome is one side of an event
type EventOutcome struct {
	Text          string           `json:"text"`
	StatModifiers map[Resource]int `json:"stat_modifiers,omitempty"`
	Effect        string           `json:"effect,omitempty"`
}

// AchievementKind selects how an achievement is checked
type AchievementKind string

const (
	KindCondition    AchievementKind = "condition"
	KindCompletion   AchievementKind = "completion"
	KindFirstSession AchievementKind = "first_session"
)

// Achievement is a static achievement definition
type Achievement struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Reward      string          `json:"reward"`
	Kind        AchievementKind `json:"kind"`

	// Percentage of the card catalog that must have been played (completion kind only)
	Threshold int `json:"threshold,omitempty"`
}

// RiskAchievement is an achievement whose outcome is decided by a single random draw
type RiskAchievement struct {
	ID            string  `json:"id"`
	Description   string  `json:"description"`
	SuccessChance float64 `json:"success_chance"`
}

// UnlockedAchievement is surfaced to the UI when an achievement unlocks
type UnlockedAchievement struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Reward      string `json:"reward"`
}

// RiskOutcome is the result of resolving a risk achievement
type RiskOutcome struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Succeeded bool   `json:"succeeded"`
}

// Progress is the persisted achievement and played-card record
type Progress struct {
	Unlocked     []string        `json:"unlocked"`
	FirstSession bool            `json:"first_session"`
	Played       map[string]bool `json:"played"`
}

// Decision represents a resolved player action
type Decision struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"` // card, event
	Subject   string    `json:"subject"`
	Choice    string    `json:"choice,omitempty"`
	Turn      int       `json:"turn"`
	Timestamp time.Time `json:"timestamp"`
	Narrative string    `json:"narrative"`
}

// TurnResult is returned to the UI after every player action
type TurnResult struct {
	Narrative  string                `json:"narrative"`
	State      ResourceState         `json:"state"`
	Turn       int                   `json:"turn"`
	Unlocked   []UnlockedAchievement `json:"unlocked"`
	Risks      []RiskOutcome         `json:"risks,omitempty"`
	Eligible   []Card                `json:"eligible"`
	ChaosLevel int                   `json:"chaos_level"`
	ChaosTier  int                   `json:"chaos_tier"`
}

// AchievementStatus pairs an achievement definition with its unlock state
type AchievementStatus struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Reward      string `json:"reward"`
	Risk        bool   `json:"risk"`
	Unlocked    bool   `json:"unlocked"`
}
