package service

import (
	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/shopspring/decimal"
)

// lineCost prices a cart line at the product's current unit price, to the paisa.
func lineCost(p *domain.Product, quantity int, meters float64) float64 {
	amount := decimal.NewFromInt(int64(quantity))
	if p.SoldByMeter() {
		amount = decimal.NewFromFloat(meters)
	}
	return amount.Mul(decimal.NewFromFloat(p.UnitPrice())).Round(2).InexactFloat64()
}
