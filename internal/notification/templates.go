package notification

import (
	"fmt"

	"github.com/Abdurahmanit/GroupProject/plant-service/internal/domain/entity"
)

// OrderConfirmation is sent to the customer once an order is stored.
func OrderConfirmation(order *entity.Order) Email {
	return Email{
		To:      order.Customer.Email,
		Subject: "Plant Order",
		Message: fmt.Sprintf("You've placed an order successfully. Transaction Id: %s", order.ID),
	}
}

// SellerFulfilment asks the seller to prepare the order.
func SellerFulfilment(order *entity.Order) Email {
	customer := order.Customer.Name
	if customer == "" {
		customer = order.Customer.Email
	}
	return Email{
		To:      order.Seller,
		Subject: "Hurry!, You have an order to process",
		Message: fmt.Sprintf("Get the plants ready for %s", customer),
	}
}
