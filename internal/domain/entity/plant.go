package entity

import (
	"fmt"
	"strings"
	"time"
)

type SellerInfo struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
	Image string `json:"image,omitempty"`
}

type Plant struct {
	ID          string     `json:"_id,omitempty"`
	Name        string     `json:"name"`
	Category    string     `json:"category"`
	Description string     `json:"description,omitempty"`
	Image       string     `json:"image,omitempty"`
	Price       float64    `json:"price"`
	Quantity    int        `json:"quantity"`
	Seller      SellerInfo `json:"seller"`
	CreatedAt   time.Time  `json:"createdAt,omitempty"`
}

func (p *Plant) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: plant name is required", ErrInvalidInput)
	}
	if p.Price < 0 {
		return fmt.Errorf("%w: price must not be negative", ErrInvalidInput)
	}
	if p.Quantity < 0 {
		return fmt.Errorf("%w: quantity must not be negative", ErrInvalidInput)
	}
	if p.Seller.Email == "" {
		return fmt.Errorf("%w: seller email is required", ErrInvalidInput)
	}
	return nil
}
