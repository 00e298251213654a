package plans

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

// Catalog is an immutable set of plans keyed by tier. Build it once at
// startup; lookups are read-only afterwards.
type Catalog struct {
	plans map[Tier]Plan
}

// NewCatalog copies the given plans into a catalog, rejecting invalid ones.
func NewCatalog(plans map[Tier]Plan) (*Catalog, error) {
	if len(plans) == 0 {
		return nil, ErrEmptyCatalog
	}
	for tier, plan := range plans {
		if plan.ID != tier {
			return nil, errors.Join(ErrInvalidPlan, fmt.Errorf("plan %q keyed as %q", plan.ID, tier))
		}
		if !plan.Valid() {
			return nil, errors.Join(ErrInvalidPlan, fmt.Errorf("plan %q failed validation", tier))
		}
	}
	return &Catalog{plans: maps.Clone(plans)}, nil
}

// MustCatalog panics on an invalid plan set. Intended for the built-in
// catalog at startup.
func MustCatalog(plans map[Tier]Plan) *Catalog {
	c, err := NewCatalog(plans)
	if err != nil {
		panic(err)
	}
	return c
}

// Get returns the plan for the tier or ErrPlanNotFound.
func (c *Catalog) Get(tier Tier) (Plan, error) {
	plan, ok := c.plans[tier]
	if !ok {
		return Plan{}, ErrPlanNotFound
	}
	return plan, nil
}

// Public returns the self-registration plans sorted by tier id.
func (c *Catalog) Public() []Plan {
	out := make([]Plan, 0, len(c.plans))
	for _, plan := range c.plans {
		if plan.Public {
			out = append(out, plan)
		}
	}
	slices.SortFunc(out, func(a, b Plan) int {
		if a.ID < b.ID {
			return -1
		}
		if a.ID > b.ID {
			return 1
		}
		return 0
	})
	return out
}

// LoadYAML reads a plan catalog from a YAML stream of the form:
//
//	plans:
//	  - id: starter
//	    name: Starter
//	    limits: {users: 5, vehicles: 25, monthly_bookings: 500, storage_gb: 10}
func LoadYAML(r io.Reader) (*Catalog, error) {
	var doc struct {
		Plans []Plan `yaml:"plans"`
	}
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Join(ErrInvalidCatalogFile, err)
	}

	plans := make(map[Tier]Plan, len(doc.Plans))
	for _, plan := range doc.Plans {
		if _, exists := plans[plan.ID]; exists {
			return nil, errors.Join(ErrInvalidCatalogFile, fmt.Errorf("duplicate plan %q", plan.ID))
		}
		plans[plan.ID] = plan
	}
	return NewCatalog(plans)
}

// LoadFile reads a plan catalog from a YAML file.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Join(ErrInvalidCatalogFile, err)
	}
	defer f.Close()
	return LoadYAML(f)
}
