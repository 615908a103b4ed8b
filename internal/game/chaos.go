package game

// Chaos thresholds
const (
	ChaosTierStep = 20
	MaxChaosTier  = 4
	MaxChaos      = 100
)

// ChaosTier buckets a chaos level into 0..4 for presentation:
// below 20 is 0, 20-39 is 1, 40-59 is 2, 60-79 is 3, 80 and above is 4.
func ChaosTier(level int) int {
	if level < 0 {
		return 0
	}
	tier := level / ChaosTierStep
	if tier > MaxChaosTier {
		return MaxChaosTier
	}
	return tier
}
