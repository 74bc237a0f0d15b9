package models

import (
	"time"

	"github.com/google/uuid"
)

// Order statuses, in their usual lifecycle order.
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

// ValidOrderStatus reports whether status is a known order status.
func ValidOrderStatus(status string) bool {
	switch status {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// Order is stamped with the identity that placed it; the shipping address is
// copied in at placement so later address-book edits do not rewrite history.
type Order struct {
	BaseModel
	UserID          uuid.UUID   `gorm:"type:uuid;index" json:"user_id"`
	User            *User       `json:"user,omitempty"`
	Phone           string      `json:"phone"`
	Items           []OrderItem `json:"items,omitempty"`
	Total           float64     `json:"total"`
	ShippingStreet  string      `json:"shipping_street"`
	ShippingCity    string      `json:"shipping_city"`
	ShippingState   string      `json:"shipping_state"`
	ShippingPincode string      `json:"shipping_pincode"`
	ShippingCountry string      `json:"shipping_country"`
	PaymentMethod   string      `json:"payment_method"`
	PaymentID       string      `json:"payment_id"`
	Status          string      `gorm:"default:pending" json:"status"`
	PlacedAt        time.Time   `json:"placed_at"`
}

// OrderItem is a line of an order. Product identity is kept as the public
// product code so deleted catalog rows do not orphan order history.
type OrderItem struct {
	BaseModel
	OrderID     uuid.UUID `gorm:"type:uuid;index" json:"order_id"`
	ProductCode string    `json:"product_code"`
	Name        string    `json:"name"`
	Price       float64   `json:"price"`
	Quantity    int       `json:"quantity"`
	Image       string    `json:"image"`
}
