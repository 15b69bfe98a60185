package repository

import (
	"context"

	"github.com/Abdurahmanit/GroupProject/plant-service/internal/domain/entity"
)

// OrderFilter narrows an enriched listing. Exactly one field is expected to be set.
type OrderFilter struct {
	CustomerEmail string
	SellerEmail   string
}

type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) (string, error)
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	UpdateStatus(ctx context.Context, id string, status entity.OrderStatus) (*entity.Order, error)
	// DeleteCancellable removes the order unless it is delivered.
	// It reports whether a record was removed.
	DeleteCancellable(ctx context.Context, id string) (bool, error)
	ListEnriched(ctx context.Context, filter OrderFilter, view entity.OrderView) ([]entity.EnrichedOrder, error)
}

// Transactor runs fn so that its store writes commit or fail together when the
// backing store supports it. fn must use the ctx it is given.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
