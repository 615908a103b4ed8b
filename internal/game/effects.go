package game

import (
	"math"

	"github.com/user/noodle-factory/internal/types"
)

// effectFunc runs after a card's or event side's declarative modifiers have
// been applied. It may mutate the state further and returns narrative text.
type effectFunc func(s *types.ResourceState) string

// Effect tags referenced by the catalogs
const (
	EffectOvertime        = "overtime"
	EffectNoodleRush      = "noodle_rush"
	EffectAlDente         = "al_dente"
	EffectDelivery        = "delivery"
	EffectUnionMeeting    = "union_meeting"
	EffectStrike          = "strike"
	EffectReggieEscape    = "reggie_escape"
	EffectReggieReturn    = "reggie_return"
	EffectWeevils         = "weevils"
	EffectWeevilPact      = "weevil_pact"
	EffectMagicSpell      = "magic_spell"
	EffectColander        = "colander"
	EffectMalfunction     = "malfunction"
	EffectInspection      = "inspection"
	EffectMidnightTasting = "midnight_tasting"
	EffectSellSurplus     = "sell_surplus"

	EffectInspectorVisit = "inspector_visit"
	EffectCriticSpecial  = "critic_special"
	EffectWeevilDeal     = "weevil_deal"
	EffectFumigate       = "fumigate"
	EffectReggieBowl     = "reggie_bowl"
	EffectUnionAccept    = "union_accept"
	EffectUnionRefuse    = "union_refuse"
)

var effects = map[string]effectFunc{
	EffectOvertime: func(s *types.ResourceState) string {
		if s.WorkerEnergy <= 0 {
			s.WorkerCount--
			s.LostWorkers++
			return "A worker collapses into the flour bin and quits on the spot."
		}
		return "The night crew pushes through. Noodles pile up to the ceiling."
	},
	EffectNoodleRush: func(s *types.ResourceState) string {
		if s.ChaosLevel >= 60 {
			lost := loseIngredients(s, 0.5)
			if lost > 0 {
				return "The rush turns into a stampede. Half the pantry ends up on the floor."
			}
		}
		return "Orders fly out the door faster than the boiling pots can keep up."
	},
	EffectAlDente: func(s *types.ResourceState) string {
		if s.ChaosLevel < 20 {
			s.PerfectCooks++
			return "Perfectly al dente. The kitchen falls silent in respect."
		}
		return "Close enough to al dente. Nobody complains out loud."
	},
	EffectDelivery: func(s *types.ResourceState) string {
		if s.ChaosLevel >= 80 {
			s.Ingredients -= 10
			s.LostIngredients += 10
			return "The delivery truck crashes through the loading dock. Some crates survive."
		}
		return "Fresh flour and eggs arrive right on time."
	},
	EffectUnionMeeting: func(s *types.ResourceState) string {
		if s.WorkerCount < 3 {
			s.SetFlag("unionSong", true)
			return "The few remaining workers sing a mournful union song."
		}
		return "The meeting runs long, but tempers cool."
	},
	EffectStrike: func(s *types.ResourceState) string {
		if s.ChaosLevel >= 70 {
			s.StrikeDeaths++
			s.LostWorkers++
			s.WorkerCount--
			return "The picket line turns ugly. Someone does not come back."
		}
		s.SurvivedStrikes++
		return "The strike ends with handshakes and a free lunch."
	},
	EffectReggieEscape: func(s *types.ResourceState) string {
		s.ReggieEscaped = true
		s.LostWorkers++
		return "Reggie climbs out through the ventilation shaft, still wearing his hairnet."
	},
	EffectReggieReturn: func(s *types.ResourceState) string {
		s.ReggieComplete = true
		return "Reggie walks back in carrying a sack of exotic spices. No questions asked."
	},
	EffectWeevils: func(s *types.ResourceState) string {
		if s.Ingredients < 10 {
			s.LostIngredients += 5
			return "The weevils have won the pantry. For now."
		}
		return "A few weevils are spotted. The flour gets sifted twice."
	},
	EffectWeevilPact: func(s *types.ResourceState) string {
		s.ChosenLesserWeevil = true
		return "The lesser weevil bows. An uneasy alliance is formed."
	},
	EffectMagicSpell: func(s *types.ResourceState) string {
		s.UsedMagicCards++
		if s.UsedMagicCards >= 3 {
			s.SetFlag("apprenticeWizard", true)
			return "The noodles glow faintly. You are getting good at this."
		}
		return "A shimmer passes over the factory floor and the panic subsides."
	},
	EffectColander: func(s *types.ResourceState) string {
		s.UsedMagicCards++
		if s.ChaosLevel >= 50 {
			s.Ingredients = int(math.Floor(float64(s.Ingredients) * 1.5))
			return "The colander feeds on the chaos and overflows with fresh pasta."
		}
		return "The colander hums quietly and produces a modest heap of noodles."
	},
	EffectMalfunction: func(s *types.ResourceState) string {
		if s.WorkerEnergy <= 0 {
			s.LostWorkers++
			s.WorkerCount--
			return "The extruder jams and an exhausted worker walks out for good."
		}
		return "The extruder sputters, bangs and keeps going. Mostly."
	},
	EffectInspection: func(s *types.ResourceState) string {
		if s.ChaosLevel >= 50 {
			s.PastaPrestige -= 30
			return "The inspector slips on a puddle of sauce. The report is scathing."
		}
		return "The inspector nods approvingly at the spotless drying racks."
	},
	EffectMidnightTasting: func(s *types.ResourceState) string {
		s.SetFlag("midnightTaster", true)
		return "Critics whisper about a secret midnight tasting menu."
	},
	EffectSellSurplus: func(s *types.ResourceState) string {
		if s.ChaosLevel >= 60 {
			loseIngredients(s, 0.3)
			return "In the confusion, the buyers walk off with far more than they paid for."
		}
		return "The surplus sells at a tidy profit."
	},

	EffectInspectorVisit: func(s *types.ResourceState) string {
		if s.ChaosLevel >= 50 {
			s.PastaPrestige -= 20
			return "The inspector finds a noodle in the light fixture. Points deducted."
		}
		s.PastaPrestige += 15
		return "The inspector leaves with a glowing review and a takeaway box."
	},
	EffectCriticSpecial: func(s *types.ResourceState) string {
		if s.PastaPrestige >= 50 {
			s.PastaPrestige += 25
			return "The critic weeps into the broth. Five stars."
		}
		s.PastaPrestige -= 10
		return "The critic shrugs. \"Fine,\" they write."
	},
	EffectWeevilDeal: func(s *types.ResourceState) string {
		s.ChosenLesserWeevil = true
		return "The lesser weevil agrees to guard the pantry from its larger cousins."
	},
	EffectFumigate: func(s *types.ResourceState) string {
		loseIngredients(s, 0.3)
		return "The weevils are gone. So is most of the pantry."
	},
	EffectReggieBowl: func(s *types.ResourceState) string {
		s.SetFlag("reggieBowl", true)
		return "By morning the bowl is empty and licked clean."
	},
	EffectUnionAccept: func(s *types.ResourceState) string {
		s.SurvivedStrikes++
		return "The workers cheer. Production resumes with renewed vigor."
	},
	EffectUnionRefuse: func(s *types.ResourceState) string {
		if s.WorkerEnergy < 40 {
			s.StrikeDeaths++
			s.LostWorkers++
			s.WorkerCount--
			return "Exhausted and furious, the strike claims a casualty."
		}
		s.SurvivedStrikes++
		return "The workers grumble but return to the vats."
	},
}

// applyEffect dispatches the tagged effect. Unknown or empty tags return an
// empty narrative and leave the state untouched.
func applyEffect(tag string, s *types.ResourceState) string {
	if tag == "" {
		return ""
	}
	fn, ok := effects[tag]
	if !ok {
		return ""
	}
	return fn(s)
}

// KnownEffect reports whether the tag has a registered effect
func KnownEffect(tag string) bool {
	_, ok := effects[tag]
	return ok
}

// loseIngredients keeps floor(ingredients*keep) and books the rest as lost.
// It returns the number of ingredients lost.
func loseIngredients(s *types.ResourceState, keep float64) int {
	kept := int(math.Floor(float64(s.Ingredients) * keep))
	lost := s.Ingredients - kept
	s.Ingredients = kept
	if lost > 0 {
		s.LostIngredients += lost
	}
	return lost
}
