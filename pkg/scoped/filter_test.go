package scoped

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func findKey(t *testing.T, doc bson.D, key string) (any, int) {
	t.Helper()
	value := any(nil)
	count := 0
	for _, elem := range doc {
		if elem.Key == key {
			value = elem.Value
			count++
		}
	}
	return value, count
}

func TestMergeFilter(t *testing.T) {
	t.Parallel()

	tenantID := uuid.New()

	t.Run("appends tenant id to plain filter", func(t *testing.T) {
		t.Parallel()

		merged, err := mergeFilter(bson.M{"brand": "Toyota"}, tenantID)
		require.NoError(t, err)

		got, n := findKey(t, merged, FieldTenantID)
		assert.Equal(t, 1, n)
		assert.Equal(t, tenantID.String(), got)

		brand, _ := findKey(t, merged, "brand")
		assert.Equal(t, "Toyota", brand)
	})

	t.Run("nil filter becomes tenant-only filter", func(t *testing.T) {
		t.Parallel()

		merged, err := mergeFilter(nil, tenantID)
		require.NoError(t, err)
		require.Len(t, merged, 1)
		assert.Equal(t, FieldTenantID, merged[0].Key)
		assert.Equal(t, tenantID.String(), merged[0].Value)
	})

	t.Run("conflicting tenant id is overridden", func(t *testing.T) {
		t.Parallel()

		otherTenant := uuid.New()
		merged, err := mergeFilter(bson.M{
			FieldTenantID: otherTenant.String(),
			"status":      "available",
		}, tenantID)
		require.NoError(t, err)

		got, n := findKey(t, merged, FieldTenantID)
		assert.Equal(t, 1, n, "bound id must be the only tenant condition")
		assert.Equal(t, tenantID.String(), got)
	})

	t.Run("matching tenant id is not duplicated", func(t *testing.T) {
		t.Parallel()

		merged, err := mergeFilter(bson.D{{Key: FieldTenantID, Value: tenantID.String()}}, tenantID)
		require.NoError(t, err)

		_, n := findKey(t, merged, FieldTenantID)
		assert.Equal(t, 1, n)
	})

	t.Run("preserves element order of ordered filters", func(t *testing.T) {
		t.Parallel()

		merged, err := mergeFilter(bson.D{
			{Key: "status", Value: "available"},
			{Key: "seats", Value: bson.D{{Key: "$gte", Value: 4}}},
		}, tenantID)
		require.NoError(t, err)
		require.Len(t, merged, 3)
		assert.Equal(t, "status", merged[0].Key)
		assert.Equal(t, "seats", merged[1].Key)
		assert.Equal(t, FieldTenantID, merged[2].Key)
	})

	t.Run("rejects unmarshalable filter", func(t *testing.T) {
		t.Parallel()

		_, err := mergeFilter(make(chan int), tenantID)
		require.ErrorIs(t, err, ErrInvalidFilter)
	})
}

func TestInjectTenantID(t *testing.T) {
	t.Parallel()

	tenantID := uuid.New()

	t.Run("stamps documents from structs", func(t *testing.T) {
		t.Parallel()

		type vehicle struct {
			ID    string `bson:"_id"`
			Brand string `bson:"brand"`
		}

		doc, err := injectTenantID(vehicle{ID: "v1", Brand: "Kia"}, tenantID)
		require.NoError(t, err)

		got, n := findKey(t, doc, FieldTenantID)
		assert.Equal(t, 1, n)
		assert.Equal(t, tenantID.String(), got)
	})

	t.Run("replaces caller-set tenant id", func(t *testing.T) {
		t.Parallel()

		doc, err := injectTenantID(bson.M{
			FieldTenantID: uuid.NewString(),
			"brand":       "Kia",
		}, tenantID)
		require.NoError(t, err)

		got, n := findKey(t, doc, FieldTenantID)
		assert.Equal(t, 1, n)
		assert.Equal(t, tenantID.String(), got)
	})
}

func TestFor(t *testing.T) {
	t.Parallel()

	t.Run("rejects zero tenant id", func(t *testing.T) {
		t.Parallel()

		_, err := For(nil, uuid.Nil)
		require.ErrorIs(t, err, ErrNoTenant)
	})
}
