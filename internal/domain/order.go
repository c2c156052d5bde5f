package domain

import (
	"errors"
	"strings"
	"time"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusInProcess  OrderStatus = "inProcess"
	OrderStatusInShipping OrderStatus = "inShipping"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusRejected   OrderStatus = "rejected"
)

var orderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusConfirmed,
	OrderStatusInProcess,
	OrderStatusInShipping,
	OrderStatusDelivered,
	OrderStatusRejected,
}

var ErrUnknownOrderStatus = errors.New("unknown order status")

// ParseOrderStatus accepts any known status regardless of case. There is no
// transition graph: admins may move an order between any two statuses.
func ParseOrderStatus(s string) (OrderStatus, error) {
	for _, st := range orderStatuses {
		if strings.EqualFold(string(st), strings.TrimSpace(s)) {
			return st, nil
		}
	}
	return "", ErrUnknownOrderStatus
}

func (s OrderStatus) String() string {
	return string(s)
}

type PaymentStatus string

const (
	PaymentStatusUnpaid PaymentStatus = "unpaid"
	PaymentStatusPaid   PaymentStatus = "paid"
)

type OrderItem struct {
	ProductID string  `bson:"product_id" json:"productId"`
	Title     string  `bson:"title" json:"title"`
	Image     string  `bson:"image" json:"image"`
	Price     float64 `bson:"price" json:"price"`
	Quantity  int     `bson:"quantity" json:"quantity"`
	Meters    float64 `bson:"meters" json:"meters"`
	Size      string  `bson:"size" json:"size"`
}

// AddressInfo is the shipping address frozen onto an order.
type AddressInfo struct {
	AddressID string `bson:"address_id" json:"addressId"`
	Address   string `bson:"address" json:"address"`
	City      string `bson:"city" json:"city"`
	Pincode   string `bson:"pincode" json:"pincode"`
	Phone     string `bson:"phone" json:"phone"`
	Notes     string `bson:"notes" json:"notes"`
}

type Order struct {
	ID              string        `bson:"_id,omitempty" json:"id"`
	UserID          string        `bson:"user_id" json:"userId"`
	CartID          string        `bson:"cart_id" json:"cartId"`
	Items           []OrderItem   `bson:"items" json:"cartItems"`
	Address         AddressInfo   `bson:"address" json:"addressInfo"`
	OrderStatus     OrderStatus   `bson:"order_status" json:"orderStatus"`
	PaymentMethod   string        `bson:"payment_method" json:"paymentMethod"`
	PaymentStatus   PaymentStatus `bson:"payment_status" json:"paymentStatus"`
	TotalAmount     float64       `bson:"total_amount" json:"totalAmount"`
	Currency        string        `bson:"currency" json:"currency"`
	GatewayOrderID  string        `bson:"gateway_order_id" json:"gatewayOrderId"`
	PaymentID       string        `bson:"payment_id" json:"paymentId"`
	PayerID         string        `bson:"payer_id" json:"payerId"`
	OrderDate       time.Time     `bson:"order_date" json:"orderDate"`
	OrderUpdateDate time.Time     `bson:"order_update_date" json:"orderUpdateDate"`
}

func (o *Order) IsPaid() bool {
	return o.PaymentStatus == PaymentStatusPaid
}
