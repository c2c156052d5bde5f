package domain

import (
	"strings"
	"time"
)

type Cart struct {
	ID        string     `bson:"_id,omitempty" json:"id"`
	UserID    string     `bson:"user_id" json:"userId"`
	Items     []CartItem `bson:"items" json:"items"`
	CreatedAt time.Time  `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time  `bson:"updated_at" json:"updatedAt"`
}

type CartItem struct {
	ProductID string    `bson:"product_id" json:"productId"`
	Quantity  int       `bson:"quantity" json:"quantity"`
	Meters    float64   `bson:"meters" json:"meters"`
	Size      string    `bson:"size" json:"size"`
	TotalCost float64   `bson:"total_cost" json:"totalCost"`
	AddedAt   time.Time `bson:"added_at" json:"addedAt"`
}

// Matches reports whether the line is the (product, size) pair.
func (i CartItem) Matches(productID, size string) bool {
	return i.ProductID == productID && strings.EqualFold(i.Size, size)
}

// Amount is the measured amount of the line: meters for fabric, pieces otherwise.
func (i CartItem) Amount(p *Product) float64 {
	if p.SoldByMeter() {
		return i.Meters
	}
	return float64(i.Quantity)
}

// FindItem returns the index of the (product, size) line, or -1.
func (c *Cart) FindItem(productID, size string) int {
	for i, item := range c.Items {
		if item.Matches(productID, size) {
			return i
		}
	}
	return -1
}
