package game

import (
	"errors"
	"fmt"

	"github.com/user/noodle-factory/internal/types"
)

var (
	ErrRequirementNotMet = errors.New("requirement not met")
	ErrCardNotFound      = errors.New("card not found")
	ErrCardNotEligible   = errors.New("card not eligible")
	ErrNoEligibleCards   = errors.New("no eligible cards")
	ErrEventNotFound     = errors.New("event not found")
	ErrEventNotPending   = errors.New("event not pending")
	ErrNoEvents          = errors.New("no events available")
	ErrInvalidChoice     = errors.New("invalid choice")
	ErrStoreUnavailable  = errors.New("persisted store unavailable")
)

// RequirementError reports the first unmet requirement of a card
type RequirementError struct {
	Card     string
	Resource types.Resource
	Required int
	Actual   int
}

func (e *RequirementError) Error() string {
	return fmt.Sprintf("%s: %s needs %s >= %d (have %d)", ErrRequirementNotMet, e.Card, e.Resource, e.Required, e.Actual)
}

func (e *RequirementError) Unwrap() error {
	return ErrRequirementNotMet
}
