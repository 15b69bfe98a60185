package repository

import (
	"context"
	"io"

	"github.com/Abdurahmanit/GroupProject/plant-service/internal/domain/entity"
)

type PlantRepository interface {
	Create(ctx context.Context, plant *entity.Plant) (string, error)
	GetByID(ctx context.Context, id string) (*entity.Plant, error)
	List(ctx context.Context) ([]entity.Plant, error)
	// AdjustQuantity applies delta atomically and returns the resulting quantity.
	// A debit that would go below zero fails with ErrInsufficientStock.
	AdjustQuantity(ctx context.Context, id string, delta int) (int, error)
}

type UploadImageParams struct {
	FileName    string
	ContentType string
	Size        int64
	Body        io.Reader
}

type ImageStorage interface {
	Upload(ctx context.Context, params UploadImageParams) (string, error)
}
