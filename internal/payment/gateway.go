// Package payment talks to the hosted payment gateway: it opens payment
// intents for new orders and checks the signature returned after the buyer pays.
package payment

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
	ErrInvalidAmount      = errors.New("amount must be positive")
	ErrMalformedResponse  = errors.New("malformed gateway response")
)

// Intent is a gateway-side order the client checkout widget pays against.
type Intent struct {
	GatewayOrderID string `json:"gatewayOrderId"`
	Amount         int64  `json:"amount"` // minor units
	Currency       string `json:"currency"`
	KeyID          string `json:"keyId"`
}

type Gateway interface {
	CreateIntent(ctx context.Context, amount int64, currency, receipt string) (*Intent, error)
	VerifySignature(gatewayOrderID, paymentID, signature string) bool
}

// ToMinorUnits converts a major-unit amount (rupees) into minor units (paise),
// rounding half away from zero.
func ToMinorUnits(amount float64) int64 {
	return decimal.NewFromFloat(amount).Shift(2).Round(0).IntPart()
}
