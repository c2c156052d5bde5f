package repository

import (
	"context"
	"errors"

	"github.com/fjod/go_cart/storefront/internal/domain"
)

var (
	ErrCartNotFound    = errors.New("cart not found")
	ErrItemNotFound    = errors.New("item not found in cart")
	ErrProductNotFound = errors.New("product not found")
	ErrOrderNotFound   = errors.New("order not found")
	ErrOrderNotPending = errors.New("order is not awaiting payment")
	ErrAddressNotFound = errors.New("address not found")
	ErrFeatureNotFound = errors.New("feature image not found")
	ErrStockConflict   = errors.New("stock changed or ran out during update")
)

// CartRepository defines the interface for cart data operations
// Consumers define this interface, not the MongoDB implementation
type CartRepository interface {
	GetCart(ctx context.Context, userID string) (*domain.Cart, error)
	AddItem(ctx context.Context, userID string, item domain.CartItem) error
	UpdateItem(ctx context.Context, userID string, item domain.CartItem) error
	RemoveItem(ctx context.Context, userID string, productID string) error
	RemoveProducts(ctx context.Context, userID string, productIDs []string) error
	DeleteCart(ctx context.Context, userID string) error
}

// Sort keys accepted by ProductFilter.SortBy.
const (
	SortPriceLowToHigh = "price-lowtohigh"
	SortPriceHighToLow = "price-hightolow"
	SortTitleAToZ      = "title-atoz"
	SortTitleZToA      = "title-ztoa"
)

type ProductFilter struct {
	Categories []string
	Brands     []string
	SortBy     string
}

type ProductRepository interface {
	Create(ctx context.Context, p *domain.Product) error
	Update(ctx context.Context, p *domain.Product) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	GetByIDs(ctx context.Context, ids []string) (map[string]*domain.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]*domain.Product, error)
	Search(ctx context.Context, keyword string) ([]*domain.Product, error)
	// DecrementStock takes quantity from total stock only if enough remains.
	DecrementStock(ctx context.Context, id string, quantity int) error
	IncrementStock(ctx context.Context, id string, quantity int) error
	// SwapSizes replaces the sizes string only if it still equals from.
	SwapSizes(ctx context.Context, id, from, to string) error
}

type OrderRepository interface {
	Create(ctx context.Context, o *domain.Order) error
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Order, error)
	ListAll(ctx context.Context) ([]*domain.Order, error)
	MarkPaid(ctx context.Context, id, paymentID, payerID string) error
	UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) error
}

type AddressRepository interface {
	Create(ctx context.Context, a *domain.Address) error
	ListByUser(ctx context.Context, userID string) ([]*domain.Address, error)
	Update(ctx context.Context, a *domain.Address) error
	Delete(ctx context.Context, userID, id string) error
}

type FeatureRepository interface {
	Create(ctx context.Context, f *domain.FeatureImage) error
	List(ctx context.Context) ([]*domain.FeatureImage, error)
	Delete(ctx context.Context, id string) error
}
