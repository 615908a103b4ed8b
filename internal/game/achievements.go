package game

import (
	"fmt"
	"math"

	"github.com/user/noodle-factory/internal/types"
)

// Achievement ids referenced outside the catalog
const (
	AchievementFirstShift   = "First Shift"
	AchievementChaosLord    = "Chaos Lord"
	AchievementLegend       = "Card Collector Legend"
	AchievementEdgeRunner   = "Edge Runner"
	AchievementDoubleOrNada = "Double or Nothing"
)

type checkFunc func(s *types.ResourceState, turn int) bool

// conditionChecks holds the predicates of condition achievements, keyed by id
var conditionChecks = map[string]checkFunc{
	AchievementChaosLord: func(s *types.ResourceState, _ int) bool { return s.ChaosLevel >= 70 },
	"Zen Master":         func(s *types.ResourceState, _ int) bool { return s.ChaosControlTurns >= 5 },
	"Steady Hands":       func(s *types.ResourceState, _ int) bool { return s.ChaosSteadyTurns >= 10 },
	"Maximum Overdrive":  func(s *types.ResourceState, _ int) bool { return s.HadMaxChaos },
	"Prestige Chef":      func(s *types.ResourceState, _ int) bool { return s.PastaPrestige >= 100 },
	"Noodle Emperor":     func(s *types.ResourceState, _ int) bool { return s.PastaPrestige >= 250 },
	"Hoarder":            func(s *types.ResourceState, _ int) bool { return s.Ingredients >= 100 },
	"Heavy Heart":        func(s *types.ResourceState, _ int) bool { return s.LostWorkers >= 3 },
	"Pantry Graveyard":   func(s *types.ResourceState, _ int) bool { return s.LostIngredients >= 50 },
	"Strike Survivor":    func(s *types.ResourceState, _ int) bool { return s.SurvivedStrikes >= 3 },
	"Picket Line":        func(s *types.ResourceState, _ int) bool { return s.StrikeDeaths >= 1 },
	"The Great Escape":   func(s *types.ResourceState, _ int) bool { return s.ReggieEscaped },
	"Prodigal Reggie":    func(s *types.ResourceState, _ int) bool { return s.ReggieComplete },
	"Weevil Whisperer":   func(s *types.ResourceState, _ int) bool { return s.ChosenLesserWeevil },
	"Noodle Wizard":      func(s *types.ResourceState, _ int) bool { return s.UsedMagicCards >= 5 },
	"Perfectionist":      func(s *types.ResourceState, _ int) bool { return s.PerfectCooks >= 3 },
	"Veteran":            func(_ *types.ResourceState, turn int) bool { return turn >= 50 },
	"Centurion":          func(s *types.ResourceState, turn int) bool { return turn >= 100 && s.WorkerCount > 0 },
}

func defaultAchievements() []types.Achievement {
	return []types.Achievement{
		{ID: AchievementFirstShift, Description: "Clock in at the noodle factory for the first time", Reward: "A commemorative hairnet", Kind: types.KindFirstSession},
		{ID: AchievementChaosLord, Description: "Reach a chaos level of 70", Reward: "The factory bends to your madness", Kind: types.KindCondition},
		{ID: "Zen Master", Description: "Keep chaos below 20 for 5 turns in a row", Reward: "A bonsai for the break room", Kind: types.KindCondition},
		{ID: "Steady Hands", Description: "Hold chaos between 40 and 59 for 10 turns in a row", Reward: "Nerves of boiled steel", Kind: types.KindCondition},
		{ID: "Maximum Overdrive", Description: "Push chaos to 100", Reward: "The smoke alarm knows your name", Kind: types.KindCondition},
		{ID: "Prestige Chef", Description: "Reach 100 pasta prestige", Reward: "A tall white hat", Kind: types.KindCondition},
		{ID: "Noodle Emperor", Description: "Reach 250 pasta prestige", Reward: "A throne made of lasagna sheets", Kind: types.KindCondition},
		{ID: "Hoarder", Description: "Stockpile 100 ingredients", Reward: "An extra pantry shelf", Kind: types.KindCondition},
		{ID: "Heavy Heart", Description: "Lose 3 workers", Reward: "A moment of silence", Kind: types.KindCondition},
		{ID: "Pantry Graveyard", Description: "Lose 50 ingredients", Reward: "A very full compost bin", Kind: types.KindCondition},
		{ID: "Strike Survivor", Description: "Survive 3 strikes", Reward: "A framed picket sign", Kind: types.KindCondition},
		{ID: "Picket Line", Description: "Lose a worker to a strike", Reward: "A memorial ladle", Kind: types.KindCondition},
		{ID: "The Great Escape", Description: "Let Reggie escape", Reward: "An empty hairnet", Kind: types.KindCondition},
		{ID: "Prodigal Reggie", Description: "Welcome Reggie back", Reward: "Reggie's secret spice blend", Kind: types.KindCondition},
		{ID: "Weevil Whisperer", Description: "Side with the lesser weevil", Reward: "A tiny weevil crown", Kind: types.KindCondition},
		{ID: "Noodle Wizard", Description: "Play 5 magic cards", Reward: "A pointy chef's hat", Kind: types.KindCondition},
		{ID: "Perfectionist", Description: "Cook 3 perfect batches", Reward: "A golden timer", Kind: types.KindCondition},
		{ID: "Veteran", Description: "Survive 50 turns", Reward: "A long-service apron", Kind: types.KindCondition},
		{ID: "Centurion", Description: "Reach turn 100 with workers still on the floor", Reward: "A statue in the lobby", Kind: types.KindCondition},
		{ID: "Card Collector", Description: "Play 25% of all cards", Reward: "A card binder", Kind: types.KindCompletion, Threshold: 25},
		{ID: "Card Collector Pro", Description: "Play 50% of all cards", Reward: "Plastic sleeves", Kind: types.KindCompletion, Threshold: 50},
		{ID: "Card Collector Master", Description: "Play 75% of all cards", Reward: "A display case", Kind: types.KindCompletion, Threshold: 75},
		{ID: AchievementLegend, Description: "Play every card at least once", Reward: "The complete noodle codex", Kind: types.KindCompletion, Threshold: 100},
	}
}

type riskStrategy struct {
	check     func(s *types.ResourceState) bool
	onSuccess func(s *types.ResourceState) string
	onFailure func(s *types.ResourceState) string
}

// riskStrategies holds the behavior of risk achievements, keyed by id
var riskStrategies = map[string]riskStrategy{
	AchievementEdgeRunner: {
		check: func(s *types.ResourceState) bool {
			return s.Ingredients >= 20 && s.ChaosLevel >= 40 && s.ChaosLevel < 60
		},
		onSuccess: func(s *types.ResourceState) string {
			s.ChaosLevel = max(0, s.ChaosLevel-20)
			s.Ingredients += 15
			return "<strong>Edge Runner!</strong> You dance along the edge of disaster and come back with 15 extra ingredients."
		},
		onFailure: func(s *types.ResourceState) string {
			s.Ingredients = int(math.Floor(float64(s.Ingredients) * 0.3))
			s.ChaosLevel += 25
			return fmt.Sprintf("<em>Over the edge.</em> The pantry collapses, leaving %d ingredients.", s.Ingredients)
		},
	},
	AchievementDoubleOrNada: {
		check: func(s *types.ResourceState) bool {
			return s.PastaPrestige >= 50 && s.ChaosLevel >= 60
		},
		onSuccess: func(s *types.ResourceState) string {
			s.PastaPrestige += 50
			s.ChaosLevel = max(0, s.ChaosLevel-30)
			return "<strong>Jackpot!</strong> The gamble pays off and the city talks of nothing else."
		},
		onFailure: func(s *types.ResourceState) string {
			s.PastaPrestige = int(math.Floor(float64(s.PastaPrestige) * 0.5))
			s.ChaosLevel += 15
			return "<em>Bust.</em> Half your reputation evaporates with the steam."
		},
	},
}

func defaultRiskAchievements() []types.RiskAchievement {
	return []types.RiskAchievement{
		{ID: AchievementEdgeRunner, Description: "Gamble the pantry while chaos simmers between 40 and 59", SuccessChance: 0.5},
		{ID: AchievementDoubleOrNada, Description: "Bet your reputation while the factory burns", SuccessChance: 0.3},
	}
}
