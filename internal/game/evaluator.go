package game

import (
	"github.com/user/noodle-factory/internal/types"
)

// Evaluator checks achievement definitions against the current state
type Evaluator struct {
	achievements []types.Achievement
	risks        []types.RiskAchievement
	cards        *CardCatalog
	rng          Randomizer
}

// NewEvaluator creates an evaluator over the built-in achievement catalog.
// Completion achievements are measured against cards.
func NewEvaluator(cards *CardCatalog, rng Randomizer) *Evaluator {
	return &Evaluator{
		achievements: defaultAchievements(),
		risks:        defaultRiskAchievements(),
		cards:        cards,
		rng:          rng,
	}
}

// Achievements returns the achievement definitions in catalog order
func (e *Evaluator) Achievements() []types.Achievement {
	out := make([]types.Achievement, len(e.achievements))
	copy(out, e.achievements)
	return out
}

// RiskAchievements returns the risk achievement definitions in catalog order
func (e *Evaluator) RiskAchievements() []types.RiskAchievement {
	out := make([]types.RiskAchievement, len(e.risks))
	copy(out, e.risks)
	return out
}

// CompletionPercent returns the share of the card catalog that has been
// played, from 0 to 100. Played names missing from the catalog are ignored.
func (e *Evaluator) CompletionPercent(progress *types.Progress) float64 {
	total := e.cards.Len()
	if total == 0 {
		return 0
	}
	played := 0
	for name, ok := range progress.Played {
		if ok && e.cards.Has(name) {
			played++
		}
	}
	return float64(played) / float64(total) * 100
}

// Evaluate walks every achievement in catalog order and unlocks those whose
// check passes. Ids already in progress are skipped. The first-session
// achievement is granted once, driven by its own flag rather than a check.
// Only achievements unlocked by this call are returned.
func (e *Evaluator) Evaluate(s *types.ResourceState, turn int, progress *types.Progress) []types.UnlockedAchievement {
	unlocked := make([]types.UnlockedAchievement, 0)

	for _, a := range e.achievements {
		if a.Kind == types.KindFirstSession {
			if progress.FirstSession {
				continue
			}
			progress.FirstSession = true
			if progress.Unlock(a.ID) {
				unlocked = append(unlocked, toUnlocked(a))
			}
			continue
		}

		if progress.IsUnlocked(a.ID) {
			continue
		}
		if !e.check(a, s, turn, progress) {
			continue
		}
		if progress.Unlock(a.ID) {
			unlocked = append(unlocked, toUnlocked(a))
		}
	}

	return unlocked
}

func (e *Evaluator) check(a types.Achievement, s *types.ResourceState, turn int, progress *types.Progress) bool {
	switch a.Kind {
	case types.KindCompletion:
		return e.CompletionPercent(progress) >= float64(a.Threshold)
	case types.KindCondition:
		fn, ok := conditionChecks[a.ID]
		if !ok {
			return false
		}
		return fn(s, turn)
	}
	return false
}

// ResolveRisk draws once and runs the success or failure branch of the
// risk achievement. Success iff the draw is below the success chance.
func (e *Evaluator) ResolveRisk(ra types.RiskAchievement, s *types.ResourceState) types.RiskOutcome {
	strategy, ok := riskStrategies[ra.ID]
	if !ok {
		return types.RiskOutcome{ID: ra.ID}
	}

	if e.rng.Float64() < ra.SuccessChance {
		return types.RiskOutcome{ID: ra.ID, Text: strategy.onSuccess(s), Succeeded: true}
	}
	return types.RiskOutcome{ID: ra.ID, Text: strategy.onFailure(s), Succeeded: false}
}

// EvaluateRisks resolves every risk achievement whose trigger holds. There is
// no attempted guard: a risk fires again on every evaluation while its
// condition stays true. The first attempt also unlocks the achievement.
func (e *Evaluator) EvaluateRisks(s *types.ResourceState, progress *types.Progress) ([]types.RiskOutcome, []types.UnlockedAchievement) {
	outcomes := make([]types.RiskOutcome, 0)
	unlocked := make([]types.UnlockedAchievement, 0)

	for _, ra := range e.risks {
		strategy, ok := riskStrategies[ra.ID]
		if !ok || !strategy.check(s) {
			continue
		}
		outcome := e.ResolveRisk(ra, s)
		outcomes = append(outcomes, outcome)
		if progress.Unlock(ra.ID) {
			unlocked = append(unlocked, types.UnlockedAchievement{
				ID:          ra.ID,
				Description: ra.Description,
				Reward:      outcome.Text,
			})
		}
	}

	return outcomes, unlocked
}

func toUnlocked(a types.Achievement) types.UnlockedAchievement {
	return types.UnlockedAchievement{
		ID:          a.ID,
		Description: a.Description,
		Reward:      a.Reward,
	}
}
