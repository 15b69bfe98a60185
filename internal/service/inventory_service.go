package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Abdurahmanit/GroupProject/plant-service/internal/domain/entity"
	"github.com/Abdurahmanit/GroupProject/plant-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/plant-service/internal/platform/metrics"
	"github.com/Abdurahmanit/GroupProject/plant-service/internal/repository"
)

type InventoryService interface {
	// AdjustQuantity applies a signed delta to a plant's stock and returns the
	// new count. Debits never take stock below zero.
	AdjustQuantity(ctx context.Context, plantID string, delta int) (int, error)
}

type inventoryService struct {
	plants  repository.PlantRepository
	metrics *metrics.Manager
	log     logger.Logger
}

func NewInventoryService(plants repository.PlantRepository, m *metrics.Manager, log logger.Logger) InventoryService {
	return &inventoryService{
		plants:  plants,
		metrics: m,
		log:     log,
	}
}

func (s *inventoryService) AdjustQuantity(ctx context.Context, plantID string, delta int) (int, error) {
	if delta == 0 {
		return 0, fmt.Errorf("%w: quantity delta must not be zero", entity.ErrInvalidInput)
	}
	direction := "credit"
	if delta < 0 {
		direction = "debit"
	}

	quantity, err := s.plants.AdjustQuantity(ctx, plantID, delta)
	switch {
	case err == nil:
		s.record(direction, "ok")
		s.log.Debugf("Plant %s quantity adjusted by %d to %d", plantID, delta, quantity)
		return quantity, nil
	case errors.Is(err, repository.ErrNotFound):
		s.record(direction, "not_found")
		return 0, fmt.Errorf("plant %s: %w", plantID, entity.ErrNotFound)
	case errors.Is(err, repository.ErrInsufficientStock):
		s.record(direction, "insufficient")
		s.log.Warnf("Rejected debit of %d on plant %s: insufficient stock", -delta, plantID)
		return 0, fmt.Errorf("%w: not enough stock for plant %s", entity.ErrConflict, plantID)
	default:
		s.record(direction, "error")
		s.log.Errorf("Failed to adjust quantity for plant %s: %v", plantID, err)
		return 0, fmt.Errorf("failed to adjust quantity: %w", err)
	}
}

func (s *inventoryService) record(direction, outcome string) {
	if s.metrics != nil {
		s.metrics.InventoryAdjustmentsTotal.WithLabelValues(direction, outcome).Inc()
	}
}
