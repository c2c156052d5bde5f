package domain

import (
	"math"
	"time"
)

// SellingUnit says how a product is measured in a cart.
type SellingUnit string

const (
	UnitPiece SellingUnit = "piece"
	UnitMeter SellingUnit = "meter" // fabric, sold by length
)

func (u SellingUnit) Valid() bool {
	return u == UnitPiece || u == UnitMeter
}

type Product struct {
	ID          string      `bson:"_id,omitempty" json:"id"`
	Title       string      `bson:"title" json:"title"`
	Description string      `bson:"description" json:"description"`
	Category    string      `bson:"category" json:"category"`
	Brand       string      `bson:"brand" json:"brand"`
	Price       float64     `bson:"price" json:"price"`
	SalePrice   float64     `bson:"sale_price" json:"salePrice"`
	TotalStock  int         `bson:"total_stock" json:"totalStock"`
	Sizes       string      `bson:"sizes" json:"sizes"`
	Unit        SellingUnit `bson:"unit" json:"unit"`
	Images      []string    `bson:"images" json:"images"`
	CreatedAt   time.Time   `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time   `bson:"updated_at" json:"updatedAt"`
}

// UnitPrice is the price charged per piece or per meter.
func (p *Product) UnitPrice() float64 {
	if p.SalePrice > 0 {
		return p.SalePrice
	}
	return p.Price
}

func (p *Product) SoldByMeter() bool {
	return p.Unit == UnitMeter
}

// StockDemand returns how many units of overall stock a line consumes.
// Fabric stock is kept in whole meters, so a partial meter takes a full one.
func StockDemand(p *Product, quantity int, meters float64) int {
	if p.SoldByMeter() {
		return int(math.Ceil(meters))
	}
	return quantity
}
