package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/internal/events"
	"github.com/fjod/go_cart/storefront/internal/payment"
	"github.com/fjod/go_cart/storefront/internal/repository"
)

const (
	defaultPaymentMethod = "razorpay"
	sizeSwapAttempts     = 3
)

// CartClearer removes a user's cart once its order is paid.
type CartClearer interface {
	ClearCart(ctx context.Context, userID string) error
}

type CreateOrderInput struct {
	UserID        string
	CartID        string
	Items         []domain.OrderItem
	Address       domain.AddressInfo
	PaymentMethod string
	TotalAmount   float64
}

type CreateOrderResult struct {
	OrderID        string `json:"orderId"`
	GatewayOrderID string `json:"gatewayOrderId"`
	Amount         int64  `json:"amount"`
	Currency       string `json:"currency"`
	KeyID          string `json:"keyId"`
}

type CaptureInput struct {
	OrderID   string
	PaymentID string
	PayerID   string
	Signature string
}

type OrderService struct {
	orders    repository.OrderRepository
	products  repository.ProductRepository
	carts     CartClearer
	gateway   payment.Gateway
	publisher events.Publisher
	currency  string
	logger    *slog.Logger
}

func NewOrderService(
	orders repository.OrderRepository,
	products repository.ProductRepository,
	carts CartClearer,
	gateway payment.Gateway,
	publisher events.Publisher,
	currency string,
	logger *slog.Logger,
) *OrderService {
	return &OrderService{
		orders:    orders,
		products:  products,
		carts:     carts,
		gateway:   gateway,
		publisher: publisher,
		currency:  currency,
		logger:    logger,
	}
}

// Create opens a gateway payment intent and stores the order as pending/unpaid.
// Nothing is stored when the gateway call fails.
func (s *OrderService) Create(ctx context.Context, in CreateOrderInput) (*CreateOrderResult, error) {
	if err := validateCreateOrder(in); err != nil {
		return nil, err
	}

	orderID := repository.NewOrderID()
	amount := payment.ToMinorUnits(in.TotalAmount)
	if amount <= 0 {
		return nil, fmt.Errorf("%w: total amount rounds to zero", ErrInvalidInput)
	}

	intent, err := s.gateway.CreateIntent(ctx, amount, s.currency, orderID)
	if err != nil {
		s.logger.ErrorContext(ctx, "payment intent failed", "order_id", orderID, "user_id", in.UserID, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrGateway, err)
	}

	method := in.PaymentMethod
	if method == "" {
		method = defaultPaymentMethod
	}

	order := &domain.Order{
		ID:             orderID,
		UserID:         in.UserID,
		CartID:         in.CartID,
		Items:          in.Items,
		Address:        in.Address,
		OrderStatus:    domain.OrderStatusPending,
		PaymentMethod:  method,
		PaymentStatus:  domain.PaymentStatusUnpaid,
		TotalAmount:    in.TotalAmount,
		Currency:       intent.Currency,
		GatewayOrderID: intent.GatewayOrderID,
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "order created",
		"order_id", order.ID, "user_id", order.UserID, "gateway_order_id", intent.GatewayOrderID, "amount", intent.Amount)

	return &CreateOrderResult{
		OrderID:        order.ID,
		GatewayOrderID: intent.GatewayOrderID,
		Amount:         intent.Amount,
		Currency:       intent.Currency,
		KeyID:          intent.KeyID,
	}, nil
}

func validateCreateOrder(in CreateOrderInput) error {
	if in.UserID == "" {
		return fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if len(in.Items) == 0 {
		return fmt.Errorf("%w: order has no items", ErrInvalidInput)
	}
	if in.TotalAmount <= 0 {
		return fmt.Errorf("%w: total amount must be positive", ErrInvalidInput)
	}
	for _, item := range in.Items {
		if item.ProductID == "" {
			return fmt.Errorf("%w: item without product id", ErrInvalidInput)
		}
		if item.Quantity < 0 || item.Meters < 0 {
			return fmt.Errorf("%w: item %s has a negative amount", ErrInvalidInput, item.ProductID)
		}
		if item.Quantity == 0 && item.Meters == 0 {
			return fmt.Errorf("%w: item %s has no quantity", ErrInvalidInput, item.ProductID)
		}
	}
	return nil
}

// stockKey identifies one stock counter: a size bucket, or overall stock when size is empty.
type stockKey struct {
	productID string
	size      string
}

type stockDemand struct {
	key      stockKey
	quantity int
}

// Capture verifies the gateway signature, takes stock for every line and marks
// the order paid. Either all stock is taken or none is.
func (s *OrderService) Capture(ctx context.Context, in CaptureInput) (*domain.Order, error) {
	if in.OrderID == "" || in.PaymentID == "" || in.Signature == "" {
		return nil, fmt.Errorf("%w: order id, payment id and signature are required", ErrInvalidInput)
	}

	order, err := s.orders.GetByID(ctx, in.OrderID)
	if err != nil {
		return nil, err
	}
	if order.IsPaid() {
		return nil, ErrOrderAlreadyPaid
	}

	if !s.gateway.VerifySignature(order.GatewayOrderID, in.PaymentID, in.Signature) {
		s.logger.WarnContext(ctx, "payment signature mismatch", "order_id", order.ID, "payment_id", in.PaymentID)
		return nil, ErrInvalidSignature
	}

	demands, products, err := s.checkStock(ctx, order)
	if err != nil {
		return nil, err
	}

	applied, err := s.takeStock(ctx, demands, products)
	if err != nil {
		s.restoreStock(applied)
		return nil, err
	}

	if err := s.orders.MarkPaid(ctx, order.ID, in.PaymentID, in.PayerID); err != nil {
		s.restoreStock(applied)
		if errors.Is(err, repository.ErrOrderNotPending) {
			return nil, ErrOrderAlreadyPaid
		}
		return nil, err
	}

	order.PaymentStatus = domain.PaymentStatusPaid
	order.OrderStatus = domain.OrderStatusConfirmed
	order.PaymentID = in.PaymentID
	order.PayerID = in.PayerID
	order.OrderUpdateDate = time.Now()

	// one cart per user, so the user id is the cart key; CartID is kept for the record
	if err := s.carts.ClearCart(ctx, order.UserID); err != nil && !errors.Is(err, repository.ErrCartNotFound) {
		s.logger.ErrorContext(ctx, "failed to clear cart after capture", "order_id", order.ID, "user_id", order.UserID, "error", err)
	}

	if err := s.publisher.PublishOrderCaptured(ctx, events.NewOrderCaptured(order)); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish order captured event", "order_id", order.ID, "error", err)
	}

	s.logger.InfoContext(ctx, "order captured", "order_id", order.ID, "payment_id", in.PaymentID)
	return order, nil
}

// checkStock aggregates the order's demand per stock counter and verifies every
// counter can cover it. It does not write.
func (s *OrderService) checkStock(ctx context.Context, order *domain.Order) ([]stockDemand, map[string]*domain.Product, error) {
	ids := make([]string, 0, len(order.Items))
	for _, item := range order.Items {
		ids = append(ids, item.ProductID)
	}
	products, err := s.products.GetByIDs(ctx, ids)
	if err != nil {
		return nil, nil, err
	}

	totals := make(map[stockKey]int)
	var keys []stockKey
	for _, item := range order.Items {
		p, ok := products[item.ProductID]
		if !ok {
			return nil, nil, fmt.Errorf("%w: %s", repository.ErrProductNotFound, item.ProductID)
		}
		if err := validateLineAmount(p, item); err != nil {
			return nil, nil, err
		}
		key := stockKey{productID: p.ID}
		if item.Size != "" && len(domain.ParseSizes(p.Sizes)) > 0 {
			key.size = strings.ToUpper(strings.TrimSpace(item.Size))
		}
		if _, seen := totals[key]; !seen {
			keys = append(keys, key)
		}
		totals[key] += domain.StockDemand(p, item.Quantity, item.Meters)
	}

	sort.Slice(keys, func(i, j int) bool {
		if keys[i].productID != keys[j].productID {
			return keys[i].productID < keys[j].productID
		}
		return keys[i].size < keys[j].size
	})

	demands := make([]stockDemand, 0, len(keys))
	for _, key := range keys {
		need := totals[key]
		if err := available(products[key.productID], key.size, need); err != nil {
			return nil, nil, err
		}
		demands = append(demands, stockDemand{key: key, quantity: need})
	}
	return demands, products, nil
}

// validateLineAmount rejects lines that would not take a positive amount of
// stock in the product's own unit.
func validateLineAmount(p *domain.Product, item domain.OrderItem) error {
	if item.Quantity < 0 || item.Meters < 0 {
		return fmt.Errorf("%w: item %s has a negative amount", ErrInvalidInput, item.ProductID)
	}
	if p.SoldByMeter() && item.Meters <= 0 {
		return fmt.Errorf("%w: item %s needs meters", ErrInvalidInput, item.ProductID)
	}
	if !p.SoldByMeter() && item.Quantity <= 0 {
		return fmt.Errorf("%w: item %s needs a quantity", ErrInvalidInput, item.ProductID)
	}
	return nil
}

func available(p *domain.Product, size string, need int) error {
	if size == "" {
		if p.TotalStock < need {
			return fmt.Errorf("%w: %s has %d, needs %d", ErrInsufficientStock, p.Title, p.TotalStock, need)
		}
		return nil
	}
	have, ok := domain.ParseSizes(p.Sizes).Available(size)
	if !ok || have < need {
		return fmt.Errorf("%w: %s size %s has %d, needs %d", ErrInsufficientStock, p.Title, size, have, need)
	}
	return nil
}

// takeStock applies every demand with conditional updates and returns what it
// managed to apply, so a failure can be rolled back.
func (s *OrderService) takeStock(ctx context.Context, demands []stockDemand, products map[string]*domain.Product) ([]stockDemand, error) {
	applied := make([]stockDemand, 0, len(demands))
	for _, d := range demands {
		var err error
		if d.key.size == "" {
			err = s.products.DecrementStock(ctx, d.key.productID, d.quantity)
			if errors.Is(err, repository.ErrStockConflict) {
				err = fmt.Errorf("%w: %s sold out during capture", ErrInsufficientStock, d.key.productID)
			}
		} else {
			err = s.adjustSize(ctx, products[d.key.productID], d.key.size, -d.quantity)
		}
		if err != nil {
			return applied, err
		}
		applied = append(applied, d)
	}
	return applied, nil
}

// adjustSize moves a size bucket by delta with compare-and-set on the sizes
// string, reloading the product when another writer got there first.
func (s *OrderService) adjustSize(ctx context.Context, p *domain.Product, size string, delta int) error {
	current := p
	for attempt := 0; attempt < sizeSwapAttempts; attempt++ {
		stock := domain.ParseSizes(current.Sizes)
		var (
			next domain.SizeStock
			err  error
		)
		if delta < 0 {
			next, err = stock.Decrement(size, -delta)
		} else {
			next, err = stock.Increment(size, delta)
		}
		if err != nil {
			return fmt.Errorf("%w: %s size %s: %v", ErrInsufficientStock, current.Title, size, err)
		}

		err = s.products.SwapSizes(ctx, current.ID, current.Sizes, next.String())
		if err == nil {
			// later demands on the same product must see this write
			current.Sizes = next.String()
			*p = *current
			return nil
		}
		if !errors.Is(err, repository.ErrStockConflict) {
			return err
		}

		current, err = s.products.GetByID(ctx, p.ID)
		if err != nil {
			return err
		}
	}
	return fmt.Errorf("%w: %s size %s kept changing", ErrInsufficientStock, p.Title, size)
}

// restoreStock puts back stock taken by a capture that could not finish.
// It runs on a fresh context so a cancelled request still rolls back.
func (s *OrderService) restoreStock(applied []stockDemand) {
	if len(applied) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for _, d := range applied {
		var err error
		if d.key.size == "" {
			err = s.products.IncrementStock(ctx, d.key.productID, d.quantity)
		} else {
			var p *domain.Product
			p, err = s.products.GetByID(ctx, d.key.productID)
			if err == nil {
				err = s.adjustSize(ctx, p, d.key.size, d.quantity)
			}
		}
		if err != nil {
			s.logger.Error("failed to restore stock", "product_id", d.key.productID, "size", d.key.size, "quantity", d.quantity, "error", err)
		}
	}
}

func (s *OrderService) ListByUser(ctx context.Context, userID string) ([]*domain.Order, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	return s.orders.ListByUser(ctx, userID)
}

func (s *OrderService) Details(ctx context.Context, id string) (*domain.Order, error) {
	return s.orders.GetByID(ctx, id)
}

func (s *OrderService) ListAll(ctx context.Context) ([]*domain.Order, error) {
	return s.orders.ListAll(ctx)
}

// UpdateStatus sets the fulfillment status. Any known status may follow any other.
func (s *OrderService) UpdateStatus(ctx context.Context, id, status string) (*domain.Order, error) {
	st, err := domain.ParseOrderStatus(status)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := s.orders.UpdateStatus(ctx, id, st); err != nil {
		return nil, err
	}
	return s.orders.GetByID(ctx, id)
}
