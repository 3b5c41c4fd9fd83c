package discount

import "goodfood/internal/domain"

// SingleRate reproduces the observed pricing rule: five percent off any
// order whose line total exceeds the threshold. The historical source
// carried a second branch above 1,000,000 at the same rate, which the first
// branch shadows, so parity collapses to one branch.
type SingleRate struct{}

func (SingleRate) Discount(total float64) float64 {
	if total > 500_000 {
		return total * 0.05
	}
	return 0
}

// Tiered is the corrected reading of the shadowed branch: a higher rate for
// the upper tier.
type Tiered struct{}

func (Tiered) Discount(total float64) float64 {
	switch {
	case total > 1_000_000:
		return total * 0.10
	case total > 500_000:
		return total * 0.05
	default:
		return 0
	}
}

// ForName resolves a configured policy name, defaulting to the observed
// single-rate behavior.
func ForName(name string) domain.DiscountPolicy {
	if name == "tiered" {
		return Tiered{}
	}
	return SingleRate{}
}
