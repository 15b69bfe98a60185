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

type plantRepository struct {
	collection *mongo.Collection
}

func NewPlantRepository(db *mongo.Database) repository.PlantRepository {
	return &plantRepository{collection: db.Collection(plantsCollection)}
}

func (r *plantRepository) Create(ctx context.Context, plant *entity.Plant) (string, error) {
	res, err := r.collection.InsertOne(ctx, toPlantDocument(plant))
	if err != nil {
		return "", fmt.Errorf("failed to create plant: %w", err)
	}
	objectID, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("failed to convert inserted ID to ObjectID")
	}
	return objectID.Hex(), nil
}

func (r *plantRepository) GetByID(ctx context.Context, id string) (*entity.Plant, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid plant ID format: %w", repository.ErrNotFound)
	}

	var doc plantDocument
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get plant by ID %s: %w", id, err)
	}
	plant := doc.toDomain()
	return &plant, nil
}

func (r *plantRepository) List(ctx context.Context) ([]entity.Plant, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list plants: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []plantDocument
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode listed plants: %w", err)
	}

	plants := make([]entity.Plant, 0, len(docs))
	for i := range docs {
		plants = append(plants, docs[i].toDomain())
	}
	return plants, nil
}

func (r *plantRepository) AdjustQuantity(ctx context.Context, id string, delta int) (int, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return 0, fmt.Errorf("invalid plant ID format: %w", repository.ErrNotFound)
	}

	filter := adjustFilter(objID, delta)
	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(bson.M{"quantity": 1})

	var doc plantDocument
	err = r.collection.FindOneAndUpdate(ctx, filter, bson.M{"$inc": bson.M{"quantity": delta}}, opts).Decode(&doc)
	if err == nil {
		return doc.Quantity, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return 0, fmt.Errorf("failed to adjust quantity for plant %s: %w", id, err)
	}

	count, err := r.collection.CountDocuments(ctx, bson.M{"_id": objID})
	if err != nil {
		return 0, fmt.Errorf("failed to check plant %s: %w", id, err)
	}
	if count == 0 {
		return 0, repository.ErrNotFound
	}
	return 0, repository.ErrInsufficientStock
}

// adjustFilter guards debits with a floor so stock never goes negative.
func adjustFilter(id primitive.ObjectID, delta int) bson.M {
	filter := bson.M{"_id": id}
	if delta < 0 {
		filter["quantity"] = bson.M{"$gte": -delta}
	}
	return filter
}
