package scoped

import (
	"errors"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// mergeFilter converts any caller filter into a bson.D with the bound tenant
// id appended. Caller-supplied tenant_id conditions are dropped first so a
// conflicting value cannot widen or redirect the query. Tenant ids are
// stored as their string form.
func mergeFilter(filter any, tenantID uuid.UUID) (bson.D, error) {
	doc, err := toDocument(filter)
	if err != nil {
		return nil, errors.Join(ErrInvalidFilter, err)
	}

	merged := make(bson.D, 0, len(doc)+1)
	for _, elem := range doc {
		if elem.Key == FieldTenantID {
			continue
		}
		merged = append(merged, elem)
	}
	merged = append(merged, bson.E{Key: FieldTenantID, Value: tenantID.String()})
	return merged, nil
}

// injectTenantID marshals a document and stamps the bound tenant id onto it,
// replacing any tenant_id the caller set.
func injectTenantID(document any, tenantID uuid.UUID) (bson.D, error) {
	doc, err := toDocument(document)
	if err != nil {
		return nil, errors.Join(ErrInvalidDocument, err)
	}

	stamped := make(bson.D, 0, len(doc)+1)
	for _, elem := range doc {
		if elem.Key == FieldTenantID {
			continue
		}
		stamped = append(stamped, elem)
	}
	stamped = append(stamped, bson.E{Key: FieldTenantID, Value: tenantID.String()})
	return stamped, nil
}

// toDocument normalizes bson.D, bson.M, structs, and nil into a bson.D via a
// marshal round trip, preserving element order for ordered inputs.
func toDocument(v any) (bson.D, error) {
	if v == nil {
		return bson.D{}, nil
	}
	if d, ok := v.(bson.D); ok {
		return d, nil
	}

	raw, err := bson.Marshal(v)
	if err != nil {
		return nil, err
	}
	var doc bson.D
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}
