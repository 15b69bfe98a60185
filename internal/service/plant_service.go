package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Abdurahmanit/GroupProject/plant-service/internal/domain/entity"
	"github.com/Abdurahmanit/GroupProject/plant-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/plant-service/internal/repository"
)

type PlantService interface {
	Create(ctx context.Context, sellerEmail string, plant entity.Plant) (*entity.Plant, error)
	List(ctx context.Context) ([]entity.Plant, error)
	Get(ctx context.Context, id string) (*entity.Plant, error)
	UploadImage(ctx context.Context, params repository.UploadImageParams) (string, error)
}

type plantService struct {
	plants  repository.PlantRepository
	storage repository.ImageStorage
	log     logger.Logger
}

// NewPlantService builds the catalog. storage may be nil when no bucket is configured.
func NewPlantService(plants repository.PlantRepository, storage repository.ImageStorage, log logger.Logger) PlantService {
	return &plantService{
		plants:  plants,
		storage: storage,
		log:     log,
	}
}

func (s *plantService) Create(ctx context.Context, sellerEmail string, plant entity.Plant) (*entity.Plant, error) {
	plant.ID = ""
	plant.Seller.Email = sellerEmail
	plant.CreatedAt = time.Now().UTC()
	if err := plant.Validate(); err != nil {
		return nil, err
	}

	id, err := s.plants.Create(ctx, &plant)
	if err != nil {
		s.log.Errorf("Failed to create plant for seller %s: %v", sellerEmail, err)
		return nil, fmt.Errorf("failed to create plant: %w", err)
	}
	plant.ID = id

	s.log.Infof("Seller %s listed plant %s (%s)", sellerEmail, id, plant.Name)
	return &plant, nil
}

func (s *plantService) List(ctx context.Context) ([]entity.Plant, error) {
	plants, err := s.plants.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list plants: %w", err)
	}
	return plants, nil
}

func (s *plantService) Get(ctx context.Context, id string) (*entity.Plant, error) {
	plant, err := s.plants.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("plant %s: %w", id, entity.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get plant: %w", err)
	}
	return plant, nil
}

func (s *plantService) UploadImage(ctx context.Context, params repository.UploadImageParams) (string, error) {
	if s.storage == nil {
		return "", fmt.Errorf("%w: image storage is not configured", entity.ErrUnavailable)
	}
	if params.Size <= 0 {
		return "", fmt.Errorf("%w: image is empty", entity.ErrInvalidInput)
	}

	url, err := s.storage.Upload(ctx, params)
	if err != nil {
		s.log.Errorf("Failed to upload image %s: %v", params.FileName, err)
		return "", fmt.Errorf("failed to upload image: %w", err)
	}
	return url, nil
}
