package plans

import (
	"github.com/rentora/rentora/pkg/tenant"
)

// Tier identifies a built-in subscription tier.
type Tier string

const (
	TierFree         Tier = "free"
	TierStarter      Tier = "starter"
	TierProfessional Tier = "professional"
	TierEnterprise   Tier = "enterprise"
)

// Plan describes a subscription tier and the resource ceilings it grants a
// tenant. Limits use tenant.Unlimited (-1) for no ceiling.
type Plan struct {
	ID          Tier          `json:"id" yaml:"id"`
	Name        string        `json:"name" yaml:"name"`
	Description string        `json:"description" yaml:"description"`
	Limits      tenant.Limits `json:"limits" yaml:"limits"`
	Public      bool          `json:"public" yaml:"public"`
	TrialDays   int           `json:"trial_days" yaml:"trial_days"`
}

// Valid reports whether the plan is internally consistent: a non-empty id and
// name, and every limit either non-negative or tenant.Unlimited.
func (p Plan) Valid() bool {
	if p.ID == "" || p.Name == "" {
		return false
	}
	for _, limit := range []int64{
		p.Limits.Users,
		p.Limits.Vehicles,
		p.Limits.MonthlyBookings,
		p.Limits.StorageGB,
	} {
		if limit < 0 && limit != tenant.Unlimited {
			return false
		}
	}
	return true
}

// Allows reports whether a resource with the given current usage can grow by
// one under the given limit.
func Allows(limit, current int64) bool {
	if limit == tenant.Unlimited {
		return true
	}
	return current < limit
}

// Builtin returns the default tier catalog. Deployments can replace it with
// LoadYAML.
func Builtin() map[Tier]Plan {
	return map[Tier]Plan{
		TierFree: {
			ID:          TierFree,
			Name:        "Free",
			Description: "Evaluation tier for small fleets",
			Limits: tenant.Limits{
				Users:           2,
				Vehicles:        5,
				MonthlyBookings: 50,
				StorageGB:       1,
			},
			Public: true,
		},
		TierStarter: {
			ID:          TierStarter,
			Name:        "Starter",
			Description: "Independent rental shops",
			Limits: tenant.Limits{
				Users:           5,
				Vehicles:        25,
				MonthlyBookings: 500,
				StorageGB:       10,
			},
			Public:    true,
			TrialDays: 14,
		},
		TierProfessional: {
			ID:          TierProfessional,
			Name:        "Professional",
			Description: "Multi-location rental businesses",
			Limits: tenant.Limits{
				Users:           25,
				Vehicles:        200,
				MonthlyBookings: 5000,
				StorageGB:       100,
			},
			Public:    true,
			TrialDays: 14,
		},
		TierEnterprise: {
			ID:          TierEnterprise,
			Name:        "Enterprise",
			Description: "Franchise networks and large fleets",
			Limits: tenant.Limits{
				Users:           tenant.Unlimited,
				Vehicles:        tenant.Unlimited,
				MonthlyBookings: tenant.Unlimited,
				StorageGB:       1000,
			},
			Public: false,
		},
	}
}
