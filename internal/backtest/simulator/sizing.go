package simulator

import (
	"fmt"
	"math"

	"github.com/rxtech-lab/argo-crossover/pkg/errors"
)

// Sizing decides how much cash a Buy event spends.
type Sizing interface {
	// Allocate returns the cash to convert into shares given the cash on hand.
	Allocate(cash float64) float64
	// Name returns a display label for the policy
	Name() string
}

type SizingPolicy string

const (
	// SizingPolicyAllIn spends all cash on a Buy event and liquidates everything on a Sell event.
	SizingPolicyAllIn SizingPolicy = "all_in"
	// SizingPolicyFractional spends a fixed percentage of current cash on each Buy event.
	SizingPolicyFractional SizingPolicy = "fractional"
)

var AllSizingPolicies = []any{
	SizingPolicyAllIn,
	SizingPolicyFractional,
}

// GetSizingHandler returns the sizing for policy. percentage is only read by the fractional policy.
func GetSizingHandler(policy SizingPolicy, percentage float64) (Sizing, error) {
	switch policy {
	case SizingPolicyAllIn:
		return NewAllInSizing(), nil
	case SizingPolicyFractional:
		return NewFractionalSizing(percentage)
	default:
		return nil, errors.Newf(errors.ErrCodeInvalidParameter, "unknown sizing policy %q", policy)
	}
}

type AllInSizing struct{}

func NewAllInSizing() Sizing {
	return &AllInSizing{}
}

func (s *AllInSizing) Allocate(cash float64) float64 {
	return cash
}

func (s *AllInSizing) Name() string {
	return string(SizingPolicyAllIn)
}

// FractionalSizing spends Percentage% of the cash on hand per Buy event, so repeated Buy
// events while partially invested scale further in.
type FractionalSizing struct {
	Percentage float64
}

func NewFractionalSizing(percentage float64) (Sizing, error) {
	if math.IsNaN(percentage) || percentage <= 0 || percentage > 100 {
		return nil, errors.Newf(errors.ErrCodeInvalidParameter,
			"fractional sizing percentage must be in (0, 100], got %v", percentage)
	}

	return &FractionalSizing{Percentage: percentage}, nil
}

func (s *FractionalSizing) Allocate(cash float64) float64 {
	if s.Percentage == 100 {
		return cash
	}

	return cash * s.Percentage / 100
}

func (s *FractionalSizing) Name() string {
	return fmt.Sprintf("%s_%g", SizingPolicyFractional, s.Percentage)
}
