package plans

import "errors"

var (
	ErrPlanNotFound       = errors.New("plans: plan not found")
	ErrEmptyCatalog       = errors.New("plans: catalog has no plans")
	ErrInvalidPlan        = errors.New("plans: invalid plan")
	ErrInvalidCatalogFile = errors.New("plans: invalid catalog file")
)
