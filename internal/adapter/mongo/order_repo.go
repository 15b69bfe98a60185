package mongo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Abdurahmanit/GroupProject/plant-service/internal/domain/entity"
	"github.com/Abdurahmanit/GroupProject/plant-service/internal/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type orderRepository struct {
	collection *mongo.Collection
}

func NewOrderRepository(db *mongo.Database) repository.OrderRepository {
	return &orderRepository{collection: db.Collection(ordersCollection)}
}

func (r *orderRepository) Create(ctx context.Context, order *entity.Order) (string, error) {
	res, err := r.collection.InsertOne(ctx, toOrderDocument(order))
	if err != nil {
		return "", fmt.Errorf("failed to create order: %w", err)
	}
	objectID, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("failed to convert inserted ID to ObjectID")
	}
	return objectID.Hex(), nil
}

func (r *orderRepository) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid order ID format: %w", repository.ErrNotFound)
	}

	var doc orderDocument
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get order by ID %s: %w", id, err)
	}
	order := doc.toDomain()
	return &order, nil
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id string, status entity.OrderStatus) (*entity.Order, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid order ID format: %w", repository.ErrNotFound)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc orderDocument
	err = r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": objID},
		bson.M{"$set": bson.M{"status": string(status)}},
		opts,
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update status for order %s: %w", id, err)
	}
	order := doc.toDomain()
	return &order, nil
}

func (r *orderRepository) DeleteCancellable(ctx context.Context, id string) (bool, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, fmt.Errorf("invalid order ID format: %w", repository.ErrNotFound)
	}

	res, err := r.collection.DeleteOne(ctx, bson.M{
		"_id":    objID,
		"status": bson.M{"$ne": string(entity.OrderStatusDelivered)},
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete order %s: %w", id, err)
	}
	return res.DeletedCount == 1, nil
}

func (r *orderRepository) ListEnriched(ctx context.Context, filter repository.OrderFilter, view entity.OrderView) ([]entity.EnrichedOrder, error) {
	cursor, err := r.collection.Aggregate(ctx, enrichPipeline(filter, view))
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate orders: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []enrichedOrderDocument
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode enriched orders: %w", err)
	}

	orders := make([]entity.EnrichedOrder, 0, len(docs))
	for i := range docs {
		orders = append(orders, docs[i].toDomain())
	}
	return orders, nil
}

// enrichPipeline joins each matching order with its plant. $unwind without
// preserveNullAndEmptyArrays drops orders whose plant no longer exists.
func enrichPipeline(filter repository.OrderFilter, view entity.OrderView) mongo.Pipeline {
	match := bson.D{}
	if filter.CustomerEmail != "" {
		match = append(match, bson.E{Key: "customer.email", Value: filter.CustomerEmail})
	}
	if filter.SellerEmail != "" {
		match = append(match, bson.E{Key: "seller", Value: filter.SellerEmail})
	}

	joined := bson.D{{Key: "name", Value: "$plant.name"}}
	if view == entity.CustomerView {
		joined = append(joined,
			bson.E{Key: "image", Value: "$plant.image"},
			bson.E{Key: "category", Value: "$plant.category"},
		)
	}

	return mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$addFields", Value: bson.D{
			{Key: "plantObjectId", Value: bson.D{{Key: "$convert", Value: bson.D{
				{Key: "input", Value: "$plantId"},
				{Key: "to", Value: "objectId"},
				{Key: "onError", Value: nil},
				{Key: "onNull", Value: nil},
			}}}},
		}}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: plantsCollection},
			{Key: "localField", Value: "plantObjectId"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "plant"},
		}}},
		{{Key: "$unwind", Value: "$plant"}},
		{{Key: "$addFields", Value: joined}},
		{{Key: "$project", Value: bson.D{
			{Key: "plant", Value: 0},
			{Key: "plantObjectId", Value: 0},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}}}},
	}
}
