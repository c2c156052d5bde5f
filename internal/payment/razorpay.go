package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/razorpay/razorpay-go"
	"github.com/sony/gobreaker/v2"
)

// orderCreator is the slice of the Razorpay SDK the adapter needs.
type orderCreator interface {
	Create(data map[string]interface{}, extraHeaders map[string]string) (map[string]interface{}, error)
}

type RazorpayConfig struct {
	KeyID     string
	KeySecret string
	Timeout   time.Duration
}

type RazorpayGateway struct {
	orders  orderCreator
	keyID   string
	secret  []byte
	timeout time.Duration
	breaker *gobreaker.CircuitBreaker[*Intent]
	logger  *slog.Logger
}

func NewRazorpayGateway(cfg RazorpayConfig, logger *slog.Logger) *RazorpayGateway {
	client := razorpay.NewClient(cfg.KeyID, cfg.KeySecret)
	return newRazorpayGateway(client.Order, cfg, logger)
}

func newRazorpayGateway(orders orderCreator, cfg RazorpayConfig, logger *slog.Logger) *RazorpayGateway {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	g := &RazorpayGateway{
		orders:  orders,
		keyID:   cfg.KeyID,
		secret:  []byte(cfg.KeySecret),
		timeout: cfg.Timeout,
		logger:  logger,
	}
	g.breaker = gobreaker.NewCircuitBreaker[*Intent](gobreaker.Settings{
		Name:        "razorpay",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				"breaker", name, "from", from.String(), "to", to.String())
		},
		IsExcluded: func(err error) bool {
			return errors.Is(err, context.Canceled)
		},
	})
	return g
}

func (g *RazorpayGateway) CreateIntent(ctx context.Context, amount int64, currency, receipt string) (*Intent, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	intent, err := g.breaker.Execute(func() (*Intent, error) {
		return g.createOrder(ctx, amount, currency, receipt)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}
	if err != nil {
		return nil, err
	}
	return intent, nil
}

// createOrder runs the blocking SDK call in a goroutine so ctx and the
// configured timeout can cut it short.
func (g *RazorpayGateway) createOrder(ctx context.Context, amount int64, currency, receipt string) (*Intent, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	type result struct {
		body map[string]interface{}
		err  error
	}
	done := make(chan result, 1)
	go func() {
		body, err := g.orders.Create(map[string]interface{}{
			"amount":   amount,
			"currency": currency,
			"receipt":  receipt,
		}, nil)
		done <- result{body: body, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %v", ErrGatewayUnavailable, ctx.Err())
	case res := <-done:
		if res.err != nil {
			return nil, fmt.Errorf("%w: %v", ErrGatewayUnavailable, res.err)
		}
		return g.parseIntent(res.body, amount, currency)
	}
}

func (g *RazorpayGateway) parseIntent(body map[string]interface{}, amount int64, currency string) (*Intent, error) {
	id, _ := body["id"].(string)
	if id == "" {
		return nil, ErrMalformedResponse
	}

	intent := &Intent{
		GatewayOrderID: id,
		Amount:         amount,
		Currency:       currency,
		KeyID:          g.keyID,
	}
	// the SDK decodes JSON numbers as float64
	if v, ok := body["amount"].(float64); ok {
		intent.Amount = int64(v)
	}
	if v, ok := body["currency"].(string); ok && v != "" {
		intent.Currency = v
	}
	return intent, nil
}

// VerifySignature checks hex(HMAC-SHA256(secret, gatewayOrderID|paymentID)) in constant time.
func (g *RazorpayGateway) VerifySignature(gatewayOrderID, paymentID, signature string) bool {
	if gatewayOrderID == "" || paymentID == "" || signature == "" {
		return false
	}
	expected := Sign(g.secret, gatewayOrderID, paymentID)
	return hmac.Equal([]byte(expected), []byte(signature))
}

// Sign produces the signature the gateway attaches to a successful payment.
func Sign(secret []byte, gatewayOrderID, paymentID string) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(gatewayOrderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}
