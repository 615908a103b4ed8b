package types

// Flag names backed by typed ResourceState fields
const (
	FlagHadMaxChaos        = "hadMaxChaos"
	FlagReggieEscaped      = "reggieEscaped"
	FlagReggieComplete     = "reggieComplete"
	FlagChosenLesserWeevil = "chosenLesserWeevil"
)

// counter returns a pointer to the integer field named by r, or nil when
// the state has no such field.
func (s *ResourceState) counter(r Resource) *int {
	switch r {
	case ChaosLevel:
		return &s.ChaosLevel
	case PastaPrestige:
		return &s.PastaPrestige
	case Ingredients:
		return &s.Ingredients
	case WorkerCount:
		return &s.WorkerCount
	case WorkerEnergy:
		return &s.WorkerEnergy
	case LostWorkers:
		return &s.LostWorkers
	case LostIngredients:
		return &s.LostIngredients
	case StrikeDeaths:
		return &s.StrikeDeaths
	case SurvivedStrikes:
		return &s.SurvivedStrikes
	case ChaosSteadyTurns:
		return &s.ChaosSteadyTurns
	case ChaosControlTurns:
		return &s.ChaosControlTurns
	case UsedMagicCards:
		return &s.UsedMagicCards
	case PerfectCooks:
		return &s.PerfectCooks
	}
	return nil
}

// Known reports whether r names an integer field of the state
func (s *ResourceState) Known(r Resource) bool {
	return s.counter(r) != nil
}

// Value returns the value of the named resource. Unknown resources read as 0.
func (s *ResourceState) Value(r Resource) int {
	if p := s.counter(r); p != nil {
		return *p
	}
	return 0
}

// Add applies delta to the named resource. It is a no-op for unknown
// resources and reports whether the field exists.
func (s *ResourceState) Add(r Resource, delta int) bool {
	p := s.counter(r)
	if p == nil {
		return false
	}
	*p += delta
	return true
}

// Set overwrites the named resource. Unknown resources are ignored.
func (s *ResourceState) Set(r Resource, value int) bool {
	p := s.counter(r)
	if p == nil {
		return false
	}
	*p = value
	return true
}

// Flag returns the named flag; absent flags read as false
func (s *ResourceState) Flag(name string) bool {
	switch name {
	case FlagHadMaxChaos:
		return s.HadMaxChaos
	case FlagReggieEscaped:
		return s.ReggieEscaped
	case FlagReggieComplete:
		return s.ReggieComplete
	case FlagChosenLesserWeevil:
		return s.ChosenLesserWeevil
	}
	return s.Flags[name]
}

// SetFlag sets the named flag
func (s *ResourceState) SetFlag(name string, value bool) {
	switch name {
	case FlagHadMaxChaos:
		s.HadMaxChaos = value
	case FlagReggieEscaped:
		s.ReggieEscaped = value
	case FlagReggieComplete:
		s.ReggieComplete = value
	case FlagChosenLesserWeevil:
		s.ChosenLesserWeevil = value
	default:
		if s.Flags == nil {
			s.Flags = make(map[string]bool)
		}
		s.Flags[name] = value
	}
}

// Clone returns a deep copy of the state
func (s *ResourceState) Clone() *ResourceState {
	c := *s
	if s.Flags != nil {
		c.Flags = make(map[string]bool, len(s.Flags))
		for k, v := range s.Flags {
			c.Flags[k] = v
		}
	}
	return &c
}

// NewProgress returns an empty progress record
func NewProgress() *Progress {
	return &Progress{
		Unlocked: make([]string, 0),
		Played:   make(map[string]bool),
	}
}

// IsUnlocked reports whether the achievement id has been unlocked
func (p *Progress) IsUnlocked(id string) bool {
	for _, u := range p.Unlocked {
		if u == id {
			return true
		}
	}
	return false
}

// Unlock appends id to the unlocked list. It returns false when the id
// is already owned.
func (p *Progress) Unlock(id string) bool {
	if p.IsUnlocked(id) {
		return false
	}
	p.Unlocked = append(p.Unlocked, id)
	return true
}

// MarkPlayed records a played card. Replaying a card does not add a second entry.
func (p *Progress) MarkPlayed(name string) bool {
	if p.Played == nil {
		p.Played = make(map[string]bool)
	}
	if p.Played[name] {
		return false
	}
	p.Played[name] = true
	return true
}

// Clone returns a deep copy of the progress record
func (p *Progress) Clone() *Progress {
	c := &Progress{
		Unlocked:     append(make([]string, 0, len(p.Unlocked)), p.Unlocked...),
		FirstSession: p.FirstSession,
		Played:       make(map[string]bool, len(p.Played)),
	}
	for k, v := range p.Played {
		c.Played[k] = v
	}
	return c
}
