package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Abdurahmanit/GroupProject/plant-service/internal/adapter/nats"
	"github.com/Abdurahmanit/GroupProject/plant-service/internal/domain/entity"
	"github.com/Abdurahmanit/GroupProject/plant-service/internal/notification"
	"github.com/Abdurahmanit/GroupProject/plant-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/plant-service/internal/platform/metrics"
	"github.com/Abdurahmanit/GroupProject/plant-service/internal/repository"
	"github.com/cenkalti/backoff/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("plant-service/service")

const compensationTimeout = 10 * time.Second

type OrderService interface {
	PlaceOrder(ctx context.Context, input entity.PlaceOrderInput) (*entity.Order, error)
	SetStatus(ctx context.Context, orderID string, status entity.OrderStatus) (*entity.Order, error)
	Cancel(ctx context.Context, orderID, callerEmail string) error
	ListForCustomer(ctx context.Context, email string) ([]entity.EnrichedOrder, error)
	ListForSeller(ctx context.Context, email string) ([]entity.EnrichedOrder, error)
}

// RoleLookup resolves the stored role of a user.
type RoleLookup interface {
	GetRole(ctx context.Context, email string) (entity.Role, error)
}

type orderService struct {
	orders       repository.OrderRepository
	plants       repository.PlantRepository
	inventory    InventoryService
	tx           repository.Transactor
	roles        RoleLookup
	notifier     notification.Enqueuer
	msgPublisher nats.MessagePublisher
	metrics      *metrics.Manager
	log          logger.Logger

	creditBackOff func() backoff.BackOff
}

func NewOrderService(
	orders repository.OrderRepository,
	plants repository.PlantRepository,
	inventory InventoryService,
	tx repository.Transactor,
	roles RoleLookup,
	notifier notification.Enqueuer,
	msgPublisher nats.MessagePublisher,
	m *metrics.Manager,
	log logger.Logger,
) OrderService {
	return &orderService{
		orders:       orders,
		plants:       plants,
		inventory:    inventory,
		tx:           tx,
		roles:        roles,
		notifier:     notifier,
		msgPublisher: msgPublisher,
		metrics:      m,
		log:          log,

		creditBackOff: defaultCreditBackOff,
	}
}

func defaultCreditBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 100 * time.Millisecond
	b.MaxInterval = 2 * time.Second
	b.MaxElapsedTime = 0
	return backoff.WithMaxRetries(b, 4)
}

func (s *orderService) PlaceOrder(ctx context.Context, input entity.PlaceOrderInput) (*entity.Order, error) {
	ctx, span := tracer.Start(ctx, "OrderService.PlaceOrder")
	defer span.End()
	span.SetAttributes(
		attribute.String("plant.id", input.PlantID),
		attribute.Int("order.quantity", input.Quantity),
	)

	s.log.Infof("Placing order for %s: plant %s x%d", input.Customer.Email, input.PlantID, input.Quantity)

	plant, err := s.plants.GetByID(ctx, input.PlantID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("plant %s: %w", input.PlantID, entity.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load plant for order: %w", err)
	}

	order, err := entity.NewOrder(plant, input.Customer, input.Quantity, input.Address)
	if err != nil {
		return nil, err
	}
	if order.Seller == "" {
		return nil, fmt.Errorf("%w: plant %s has no seller", entity.ErrInvalidInput, plant.ID)
	}

	err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		if _, err := s.inventory.AdjustQuantity(txCtx, order.PlantID, -order.Quantity); err != nil {
			return err
		}
		id, err := s.orders.Create(txCtx, order)
		if err != nil {
			s.compensateDebit(txCtx, order)
			return fmt.Errorf("failed to store order: %w", err)
		}
		order.ID = id
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "place order failed")
		s.log.Errorf("Failed to place order for %s on plant %s: %v", input.Customer.Email, input.PlantID, err)
		return nil, err
	}
	span.SetAttributes(attribute.String("order.id", order.ID))

	s.notifyOrderPlaced(ctx, order)

	if err = s.msgPublisher.Publish(ctx, nats.SubjectOrderPlaced, orderPlacedEvent{
		OrderID:       order.ID,
		PlantID:       order.PlantID,
		CustomerEmail: order.Customer.Email,
		SellerEmail:   order.Seller,
		Quantity:      order.Quantity,
		Price:         order.Price,
		PlacedAt:      order.CreatedAt,
	}); err != nil {
		s.log.Warnf("Failed to publish %s for order %s: %v", nats.SubjectOrderPlaced, order.ID, err)
	}
	if s.metrics != nil {
		s.metrics.OrdersPlacedTotal.Inc()
	}

	s.log.Infof("Order %s placed for %s", order.ID, order.Customer.Email)
	return order, nil
}

// compensateDebit returns stock taken for an order that could not be stored.
// Inside a store transaction the abort already undoes the debit and this
// credit is discarded with it.
func (s *orderService) compensateDebit(ctx context.Context, order *entity.Order) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), compensationTimeout)
	defer cancel()

	if _, err := s.inventory.AdjustQuantity(ctx, order.PlantID, order.Quantity); err != nil {
		s.log.Errorf("Compensating credit of %d for plant %s failed: %v", order.Quantity, order.PlantID, err)
	}
}

// notifyOrderPlaced queues both emails independently.
func (s *orderService) notifyOrderPlaced(ctx context.Context, order *entity.Order) {
	for _, email := range []notification.Email{
		notification.OrderConfirmation(order),
		notification.SellerFulfilment(order),
	} {
		if err := s.notifier.Enqueue(ctx, email); err != nil {
			s.log.Warnf("Failed to queue %q email to %s for order %s: %v", email.Subject, email.To, order.ID, err)
		}
	}
}

func (s *orderService) SetStatus(ctx context.Context, orderID string, status entity.OrderStatus) (*entity.Order, error) {
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: unknown order status %q", entity.ErrInvalidInput, status)
	}

	order, err := s.orders.UpdateStatus(ctx, orderID, status)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("order %s: %w", orderID, entity.ErrNotFound)
		}
		s.log.Errorf("Failed to update status of order %s: %v", orderID, err)
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	if s.metrics != nil {
		s.metrics.OrderStatusUpdatesTotal.WithLabelValues(string(status)).Inc()
	}
	if err = s.msgPublisher.Publish(ctx, nats.SubjectOrderStatusUpdated, orderStatusEvent{OrderID: order.ID, Status: order.Status}); err != nil {
		s.log.Warnf("Failed to publish %s for order %s: %v", nats.SubjectOrderStatusUpdated, order.ID, err)
	}

	s.log.Infof("Order %s status set to %s", orderID, status)
	return order, nil
}

func (s *orderService) Cancel(ctx context.Context, orderID, callerEmail string) error {
	ctx, span := tracer.Start(ctx, "OrderService.Cancel")
	defer span.End()
	span.SetAttributes(attribute.String("order.id", orderID))

	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("order %s: %w", orderID, entity.ErrNotFound)
		}
		return fmt.Errorf("failed to load order %s: %w", orderID, err)
	}

	if !strings.EqualFold(order.Customer.Email, callerEmail) {
		role, err := s.roles.GetRole(ctx, callerEmail)
		if err != nil {
			return fmt.Errorf("failed to resolve caller role: %w", err)
		}
		if role != entity.RoleAdmin {
			s.log.Warnf("User %s tried to cancel order %s owned by %s", callerEmail, orderID, order.Customer.Email)
			return fmt.Errorf("%w: only the customer or an admin can cancel this order", entity.ErrForbidden)
		}
	}

	if !order.CanBeCancelled() {
		return fmt.Errorf("%w: cannot cancel once the product is delivered", entity.ErrConflict)
	}

	var creditErr error
	err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		creditErr = nil
		removed, err := s.orders.DeleteCancellable(txCtx, orderID)
		if err != nil {
			return fmt.Errorf("failed to delete order %s: %w", orderID, err)
		}
		if !removed {
			return s.cancelRaceError(txCtx, orderID)
		}
		creditErr = s.restoreStock(txCtx, order)
		return creditErr
	})
	if err != nil && creditErr != nil && s.orderRemoved(ctx, orderID) {
		// The delete committed outside a transaction; the cancel stands.
		s.log.Errorw("order cancelled but stock was not restored",
			"order_id", orderID, "plant_id", order.PlantID, "quantity", order.Quantity, "error", creditErr)
		span.RecordError(creditErr)
		err = nil
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "cancel failed")
		return err
	}

	if s.metrics != nil {
		s.metrics.OrdersCancelledTotal.Inc()
	}
	if err = s.msgPublisher.Publish(ctx, nats.SubjectOrderCancelled, orderCancelledEvent{
		OrderID:     orderID,
		PlantID:     order.PlantID,
		Quantity:    order.Quantity,
		CancelledBy: callerEmail,
	}); err != nil {
		s.log.Warnf("Failed to publish %s for order %s: %v", nats.SubjectOrderCancelled, orderID, err)
	}

	s.log.Infof("Order %s cancelled by %s", orderID, callerEmail)
	return nil
}

// restoreStock credits a cancelled order's quantity back, retrying store
// errors on a context detached from the request. A plant that no longer
// exists is skipped.
func (s *orderService) restoreStock(ctx context.Context, order *entity.Order) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), compensationTimeout)
	defer cancel()

	operation := func() error {
		_, err := s.inventory.AdjustQuantity(ctx, order.PlantID, order.Quantity)
		if errors.Is(err, entity.ErrNotFound) || errors.Is(err, entity.ErrInvalidInput) {
			return backoff.Permanent(err)
		}
		return err
	}
	notify := func(err error, next time.Duration) {
		s.log.Warnf("Restoring %d to plant %s for order %s failed, retrying in %s: %v",
			order.Quantity, order.PlantID, order.ID, next, err)
	}

	err := backoff.RetryNotify(operation, backoff.WithContext(s.creditBackOff(), ctx), notify)
	if errors.Is(err, entity.ErrNotFound) {
		s.log.Warnf("Plant %s of cancelled order %s no longer exists, stock not restored", order.PlantID, order.ID)
		return nil
	}
	return err
}

// orderRemoved reports whether the order is confirmed gone from the store.
func (s *orderService) orderRemoved(ctx context.Context, orderID string) bool {
	_, err := s.orders.GetByID(ctx, orderID)
	return errors.Is(err, repository.ErrNotFound)
}

// cancelRaceError explains why a conditional delete matched nothing: the order
// was delivered or removed after it was loaded.
func (s *orderService) cancelRaceError(ctx context.Context, orderID string) error {
	if _, err := s.orders.GetByID(ctx, orderID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("order %s: %w", orderID, entity.ErrNotFound)
		}
		return fmt.Errorf("failed to reload order %s: %w", orderID, err)
	}
	return fmt.Errorf("%w: cannot cancel once the product is delivered", entity.ErrConflict)
}

func (s *orderService) ListForCustomer(ctx context.Context, email string) ([]entity.EnrichedOrder, error) {
	orders, err := s.orders.ListEnriched(ctx, repository.OrderFilter{CustomerEmail: email}, entity.CustomerView)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders for customer %s: %w", email, err)
	}
	return orders, nil
}

func (s *orderService) ListForSeller(ctx context.Context, email string) ([]entity.EnrichedOrder, error) {
	orders, err := s.orders.ListEnriched(ctx, repository.OrderFilter{SellerEmail: email}, entity.SellerView)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders for seller %s: %w", email, err)
	}
	return orders, nil
}
