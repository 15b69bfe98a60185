package service

import (
	"time"

	"github.com/Abdurahmanit/GroupProject/plant-service/internal/domain/entity"
)

type orderPlacedEvent struct {
	OrderID       string    `json:"order_id"`
	PlantID       string    `json:"plant_id"`
	CustomerEmail string    `json:"customer_email"`
	SellerEmail   string    `json:"seller_email"`
	Quantity      int       `json:"quantity"`
	Price         float64   `json:"price"`
	PlacedAt      time.Time `json:"placed_at"`
}

type orderStatusEvent struct {
	OrderID string             `json:"order_id"`
	Status  entity.OrderStatus `json:"status"`
}

type orderCancelledEvent struct {
	OrderID     string `json:"order_id"`
	PlantID     string `json:"plant_id"`
	Quantity    int    `json:"quantity"`
	CancelledBy string `json:"cancelled_by"`
}

type userRoleEvent struct {
	Email  string            `json:"email"`
	Role   entity.Role       `json:"role"`
	Status entity.UserStatus `json:"status"`
}
