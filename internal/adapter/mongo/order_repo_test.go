package mongo

import (
	"testing"

	"github.com/Abdurahmanit/GroupProject/plant-service/internal/domain/entity"
	"github.com/Abdurahmanit/GroupProject/plant-service/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func stage(t *testing.T, p bson.D, op string) interface{} {
	t.Helper()
	require.Len(t, p, 1)
	require.Equal(t, op, p[0].Key)
	return p[0].Value
}

func joinedKeys(t *testing.T, v interface{}) []string {
	t.Helper()
	d, ok := v.(bson.D)
	require.True(t, ok)
	keys := make([]string, 0, len(d))
	for _, e := range d {
		keys = append(keys, e.Key)
	}
	return keys
}

func TestEnrichPipeline_CustomerView(t *testing.T) {
	p := enrichPipeline(repository.OrderFilter{CustomerEmail: "c@x"}, entity.CustomerView)
	require.Len(t, p, 7)

	match := stage(t, p[0], "$match")
	assert.Equal(t, bson.D{{Key: "customer.email", Value: "c@x"}}, match)

	stage(t, p[1], "$addFields")
	stage(t, p[2], "$lookup")
	assert.Equal(t, "$plant", stage(t, p[3], "$unwind"))

	assert.Equal(t, []string{"name", "image", "category"}, joinedKeys(t, stage(t, p[4], "$addFields")))
	assert.Equal(t, []string{"plant", "plantObjectId"}, joinedKeys(t, stage(t, p[5], "$project")))
	stage(t, p[6], "$sort")
}

func TestEnrichPipeline_SellerViewOmitsImageAndCategory(t *testing.T) {
	p := enrichPipeline(repository.OrderFilter{SellerEmail: "s@x"}, entity.SellerView)

	match := stage(t, p[0], "$match")
	assert.Equal(t, bson.D{{Key: "seller", Value: "s@x"}}, match)
	assert.Equal(t, []string{"name"}, joinedKeys(t, stage(t, p[4], "$addFields")))
}

func TestEnrichPipeline_UnwindIsInnerJoin(t *testing.T) {
	p := enrichPipeline(repository.OrderFilter{CustomerEmail: "c@x"}, entity.CustomerView)

	// A plain string unwind drops documents with an empty lookup result.
	_, isString := stage(t, p[3], "$unwind").(string)
	assert.True(t, isString)
}

func TestAdjustFilter(t *testing.T) {
	id := primitive.NewObjectID()

	credit := adjustFilter(id, 5)
	assert.Equal(t, bson.M{"_id": id}, credit)

	debit := adjustFilter(id, -3)
	assert.Equal(t, bson.M{"_id": id, "quantity": bson.M{"$gte": 3}}, debit)
}

func TestOrderDocument_RoundTrip(t *testing.T) {
	order := &entity.Order{
		PlantID:  "65f000000000000000000001",
		Customer: entity.CustomerInfo{Name: "C", Email: "c@x"},
		Seller:   "s@x",
		Quantity: 2,
		Price:    20,
		Status:   entity.OrderStatusPending,
	}
	doc := toOrderDocument(order)
	doc.ID = primitive.NewObjectID()

	got := doc.toDomain()
	assert.Equal(t, doc.ID.Hex(), got.ID)
	assert.Equal(t, order.Customer, got.Customer)
	assert.Equal(t, order.Status, got.Status)
}
