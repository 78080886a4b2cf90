package query

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestFilter(t *testing.T) {
	t.Run("comparison operators", func(t *testing.T) {
		params := url.Values{}
		params.Set("amount[gte]", "100")

		filter := New(params).Filter().FilterDoc()

		assert.Equal(t, bson.M{"amount": bson.M{"$gte": float64(100)}}, filter)
	})

	t.Run("equality and comparison combined", func(t *testing.T) {
		params := url.Values{}
		params.Set("category", "groceries")
		params.Set("amount[gt]", "10")
		params.Set("amount[lte]", "500")

		filter := New(params).Filter().FilterDoc()

		assert.Equal(t, "groceries", filter["category"])
		assert.Equal(t, bson.M{"$gt": float64(10), "$lte": float64(500)}, filter["amount"])
	})

	t.Run("reserved keys are excluded", func(t *testing.T) {
		params := url.Values{}
		params.Set("sort", "-amount")
		params.Set("fields", "category")
		params.Set("page", "2")
		params.Set("limit", "10")
		params.Set("chart", "expense")

		filter := New(params).Filter().FilterDoc()

		assert.Equal(t, bson.M{"chart": "expense"}, filter)
	})

	t.Run("whole-word keyword match only", func(t *testing.T) {
		params := url.Values{}
		params.Set("amount[gtex]", "100")
		params.Set("amount[Gte]", "100")

		filter := New(params).Filter().FilterDoc()

		// Neither bracket content is exactly a comparison keyword, so both
		// stay literal equality keys.
		assert.Equal(t, float64(100), filter["amount[gtex]"])
		assert.Equal(t, float64(100), filter["amount[Gte]"])
		assert.NotContains(t, filter, "amount")
	})

	t.Run("operator and dotted keys are dropped", func(t *testing.T) {
		params := url.Values{}
		params.Set("$where", "sleep(10000)")
		params.Set("$expr", "1")
		params.Set("account.role", "admin")
		params.Set("$gt[gte]", "1")
		params.Set("amount[gte]", "100")

		filter := New(params).Filter().FilterDoc()

		assert.Equal(t, bson.M{"amount": bson.M{"$gte": float64(100)}}, filter)
	})

	t.Run("non-numeric values stay strings", func(t *testing.T) {
		params := url.Values{}
		params.Set("status", "Completed")

		filter := New(params).Filter().FilterDoc()

		assert.Equal(t, "Completed", filter["status"])
	})
}

func TestSort(t *testing.T) {
	t.Run("comma-separated list with descending prefix", func(t *testing.T) {
		params := url.Values{}
		params.Set("sort", "-amount,category")

		features := New(params).Sort()

		assert.Equal(t, bson.D{
			{Key: "amount", Value: -1},
			{Key: "category", Value: 1},
		}, features.sort)
	})

	t.Run("defaults to newest first", func(t *testing.T) {
		features := New(url.Values{}).Sort()

		assert.Equal(t, bson.D{{Key: "created_at", Value: -1}}, features.sort)
	})
}

func TestLimitFields(t *testing.T) {
	t.Run("inclusion projection", func(t *testing.T) {
		params := url.Values{}
		params.Set("fields", "category,amount")

		features := New(params).LimitFields()

		assert.Equal(t, bson.D{
			{Key: "category", Value: 1},
			{Key: "amount", Value: 1},
		}, features.projection)
	})

	t.Run("no projection by default", func(t *testing.T) {
		features := New(url.Values{}).LimitFields()

		assert.Empty(t, features.projection)
	})
}

func TestChaining(t *testing.T) {
	params := url.Values{}
	params.Set("amount[gte]", "100")
	params.Set("sort", "-amount")
	params.Set("fields", "category,amount")

	features := New(params).Filter().Sort().LimitFields()

	assert.Equal(t, bson.M{"amount": bson.M{"$gte": float64(100)}}, features.FilterDoc())
	assert.Equal(t, bson.D{{Key: "amount", Value: -1}}, features.sort)
	assert.Equal(t, bson.D{
		{Key: "category", Value: 1},
		{Key: "amount", Value: 1},
	}, features.projection)
	assert.NotNil(t, features.FindOptions())
}
