package entity

import (
	"fmt"
	"strings"
	"time"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "Pending"
	OrderStatusInProcess OrderStatus = "In Progress"
	OrderStatusDelivered OrderStatus = "Delivered"
	OrderStatusCancelled OrderStatus = "Cancelled"
)

func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusInProcess, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

type CustomerInfo struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
	Image string `json:"image,omitempty"`
}

type Order struct {
	ID        string       `json:"_id,omitempty"`
	PlantID   string       `json:"plantId"`
	Customer  CustomerInfo `json:"customer"`
	Seller    string       `json:"seller"`
	Quantity  int          `json:"quantity"`
	Price     float64      `json:"price"`
	Address   string       `json:"address,omitempty"`
	Status    OrderStatus  `json:"status"`
	CreatedAt time.Time    `json:"createdAt,omitempty"`
}

// PlaceOrderInput is what a customer submits at checkout.
type PlaceOrderInput struct {
	PlantID  string       `json:"plantId"`
	Customer CustomerInfo `json:"customer"`
	Quantity int          `json:"quantity"`
	Address  string       `json:"address"`
}

// NewOrder prices the order from the plant and points it at the plant's seller.
func NewOrder(plant *Plant, customer CustomerInfo, quantity int, address string) (*Order, error) {
	if plant == nil || plant.ID == "" {
		return nil, fmt.Errorf("%w: plant is required", ErrInvalidInput)
	}
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", ErrInvalidInput)
	}
	if strings.TrimSpace(customer.Email) == "" {
		return nil, fmt.Errorf("%w: customer email is required", ErrInvalidInput)
	}
	return &Order{
		PlantID:   plant.ID,
		Customer:  customer,
		Seller:    plant.Seller.Email,
		Quantity:  quantity,
		Price:     plant.Price * float64(quantity),
		Address:   address,
		Status:    OrderStatusPending,
		CreatedAt: time.Now().UTC(),
	}, nil
}

func (o *Order) CanBeCancelled() bool {
	return o.Status != OrderStatusDelivered
}

// OrderView selects which plant attributes are joined onto an order listing.
type OrderView int

const (
	CustomerView OrderView = iota
	SellerView
)

// EnrichedOrder is an order joined with attributes of the plant it refers to.
// Image and Category are only filled in the customer view.
type EnrichedOrder struct {
	Order
	Name     string `json:"name"`
	Image    string `json:"image,omitempty"`
	Category string `json:"category,omitempty"`
}
