package mongo

import (
	"time"

	"github.com/Abdurahmanit/GroupProject/plant-service/internal/domain/entity"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type userDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Email     string             `bson:"email"`
	Name      string             `bson:"name,omitempty"`
	Image     string             `bson:"image,omitempty"`
	Role      string             `bson:"role"`
	Status    string             `bson:"status,omitempty"`
	Timestamp time.Time          `bson:"timestamp"`
}

func toUserDocument(u *entity.User) userDocument {
	return userDocument{
		Email:     u.Email,
		Name:      u.Name,
		Image:     u.Image,
		Role:      string(u.Role),
		Status:    string(u.Status),
		Timestamp: u.CreatedAt,
	}
}

func (d *userDocument) toDomain() entity.User {
	return entity.User{
		ID:        d.ID.Hex(),
		Email:     d.Email,
		Name:      d.Name,
		Image:     d.Image,
		Role:      entity.Role(d.Role),
		Status:    entity.UserStatus(d.Status),
		CreatedAt: d.Timestamp,
	}
}

type sellerDocument struct {
	Name  string `bson:"name,omitempty"`
	Email string `bson:"email"`
	Image string `bson:"image,omitempty"`
}

type plantDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	Category    string             `bson:"category"`
	Description string             `bson:"description,omitempty"`
	Image       string             `bson:"image,omitempty"`
	Price       float64            `bson:"price"`
	Quantity    int                `bson:"quantity"`
	Seller      sellerDocument     `bson:"seller"`
	CreatedAt   time.Time          `bson:"createdAt"`
}

func toPlantDocument(p *entity.Plant) plantDocument {
	return plantDocument{
		Name:        p.Name,
		Category:    p.Category,
		Description: p.Description,
		Image:       p.Image,
		Price:       p.Price,
		Quantity:    p.Quantity,
		Seller: sellerDocument{
			Name:  p.Seller.Name,
			Email: p.Seller.Email,
			Image: p.Seller.Image,
		},
		CreatedAt: p.CreatedAt,
	}
}

func (d *plantDocument) toDomain() entity.Plant {
	return entity.Plant{
		ID:          d.ID.Hex(),
		Name:        d.Name,
		Category:    d.Category,
		Description: d.Description,
		Image:       d.Image,
		Price:       d.Price,
		Quantity:    d.Quantity,
		Seller: entity.SellerInfo{
			Name:  d.Seller.Name,
			Email: d.Seller.Email,
			Image: d.Seller.Image,
		},
		CreatedAt: d.CreatedAt,
	}
}

type customerDocument struct {
	Name  string `bson:"name,omitempty"`
	Email string `bson:"email"`
	Image string `bson:"image,omitempty"`
}

// orderDocument keeps plantId as a hex string, the way orders have always
// referenced plants in this collection.
type orderDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	PlantID   string             `bson:"plantId"`
	Customer  customerDocument   `bson:"customer"`
	Seller    string             `bson:"seller"`
	Quantity  int                `bson:"quantity"`
	Price     float64            `bson:"price"`
	Address   string             `bson:"address,omitempty"`
	Status    string             `bson:"status"`
	CreatedAt time.Time          `bson:"createdAt"`
}

func toOrderDocument(o *entity.Order) orderDocument {
	return orderDocument{
		PlantID: o.PlantID,
		Customer: customerDocument{
			Name:  o.Customer.Name,
			Email: o.Customer.Email,
			Image: o.Customer.Image,
		},
		Seller:    o.Seller,
		Quantity:  o.Quantity,
		Price:     o.Price,
		Address:   o.Address,
		Status:    string(o.Status),
		CreatedAt: o.CreatedAt,
	}
}

func (d *orderDocument) toDomain() entity.Order {
	return entity.Order{
		ID:      d.ID.Hex(),
		PlantID: d.PlantID,
		Customer: entity.CustomerInfo{
			Name:  d.Customer.Name,
			Email: d.Customer.Email,
			Image: d.Customer.Image,
		},
		Seller:    d.Seller,
		Quantity:  d.Quantity,
		Price:     d.Price,
		Address:   d.Address,
		Status:    entity.OrderStatus(d.Status),
		CreatedAt: d.CreatedAt,
	}
}

// enrichedOrderDocument is one row of the enrichment aggregation.
type enrichedOrderDocument struct {
	Order    orderDocument `bson:",inline"`
	Name     string        `bson:"name"`
	Image    string        `bson:"image,omitempty"`
	Category string        `bson:"category,omitempty"`
}

func (d *enrichedOrderDocument) toDomain() entity.EnrichedOrder {
	return entity.EnrichedOrder{
		Order:    d.Order.toDomain(),
		Name:     d.Name,
		Image:    d.Image,
		Category: d.Category,
	}
}
