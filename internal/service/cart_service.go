package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/fjod/go_cart/storefront/internal/cache"
	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/internal/repository"
	"golang.org/x/sync/singleflight"
)

type AddItemInput struct {
	UserID    string
	ProductID string
	Quantity  int
	Meters    float64
	Size      string
}

// UpdateItemInput replaces the quantity (or meters) of a line. With an empty
// Size the first line of the product is updated.
type UpdateItemInput struct {
	UserID    string
	ProductID string
	Quantity  int
	Meters    float64
	Size      string
}

// CartLine is a cart item with the live product fields the shop displays.
type CartLine struct {
	ProductID string             `json:"productId"`
	Title     string             `json:"title"`
	Images    []string           `json:"images"`
	Price     float64            `json:"price"`
	SalePrice float64            `json:"salePrice"`
	Category  string             `json:"category"`
	Brand     string             `json:"brand"`
	Unit      domain.SellingUnit `json:"unit"`
	Quantity  int                `json:"quantity"`
	Meters    float64            `json:"meters"`
	Size      string             `json:"size"`
	TotalCost float64            `json:"totalCost"`
}

type CartView struct {
	ID        string     `json:"id,omitempty"`
	UserID    string     `json:"userId"`
	Items     []CartLine `json:"items"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

type CartService struct {
	repo     repository.CartRepository
	products repository.ProductRepository
	cache    cache.CartCache
	sfg      singleflight.Group // collapses concurrent cache misses per user
	logger   *slog.Logger
}

func NewCartService(repo repository.CartRepository, products repository.ProductRepository, c cache.CartCache, logger *slog.Logger) *CartService {
	return &CartService{
		repo:     repo,
		products: products,
		cache:    c,
		logger:   logger,
	}
}

// getCart returns the stored cart, or an empty one when the user has none.
func (s *CartService) getCart(ctx context.Context, userID string) (*domain.Cart, error) {
	v, err, _ := s.sfg.Do(userID, func() (interface{}, error) {
		cart, err := s.cache.Get(ctx, userID)
		if err == nil {
			return cart, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.logger.WarnContext(ctx, "cache get failed", "user_id", userID, "error", err)
		}

		cart, err = s.repo.GetCart(ctx, userID)
		if errors.Is(err, repository.ErrCartNotFound) {
			now := time.Now()
			return &domain.Cart{UserID: userID, Items: []domain.CartItem{}, CreatedAt: now, UpdatedAt: now}, nil
		}
		if err != nil {
			return nil, err
		}

		// filled before returning so a following mutation's invalidation cannot be overtaken
		setCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		if err := s.cache.Set(setCtx, userID, cart); err != nil {
			s.logger.WarnContext(ctx, "cache set failed", "user_id", userID, "error", err)
		}

		return cart, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.Cart), nil
}

// FetchCart returns the cart with product details. Lines whose product no
// longer exists are dropped from the result and removed from storage.
func (s *CartService) FetchCart(ctx context.Context, userID string) (*CartView, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	cart, err := s.getCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	view := &CartView{
		ID:        cart.ID,
		UserID:    userID,
		Items:     make([]CartLine, 0, len(cart.Items)),
		CreatedAt: cart.CreatedAt,
		UpdatedAt: cart.UpdatedAt,
	}
	if len(cart.Items) == 0 {
		return view, nil
	}

	ids := make([]string, 0, len(cart.Items))
	for _, item := range cart.Items {
		ids = append(ids, item.ProductID)
	}
	products, err := s.products.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	var stale []string
	for _, item := range cart.Items {
		p, ok := products[item.ProductID]
		if !ok {
			stale = append(stale, item.ProductID)
			continue
		}
		view.Items = append(view.Items, CartLine{
			ProductID: item.ProductID,
			Title:     p.Title,
			Images:    p.Images,
			Price:     p.Price,
			SalePrice: p.SalePrice,
			Category:  p.Category,
			Brand:     p.Brand,
			Unit:      p.Unit,
			Quantity:  item.Quantity,
			Meters:    item.Meters,
			Size:      item.Size,
			TotalCost: item.TotalCost,
		})
	}

	if len(stale) > 0 {
		s.logger.InfoContext(ctx, "dropping deleted products from cart", "user_id", userID, "product_ids", stale)
		if err := s.repo.RemoveProducts(ctx, userID, stale); err != nil {
			s.logger.ErrorContext(ctx, "failed to remove stale cart items", "user_id", userID, "error", err)
		} else {
			s.invalidateCache(userID)
		}
	}

	return view, nil
}

// AddItem merges into an existing (product, size) line or appends a new one.
// Stock is not checked here; it is enforced at capture.
func (s *CartService) AddItem(ctx context.Context, in AddItemInput) (*CartView, error) {
	if in.UserID == "" || in.ProductID == "" {
		return nil, fmt.Errorf("%w: user id and product id are required", ErrInvalidInput)
	}
	size := strings.TrimSpace(in.Size)

	p, err := s.products.GetByID(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if err := validateAmount(p, in.Quantity, in.Meters); err != nil {
		return nil, err
	}
	if err := validateSize(p, size); err != nil {
		return nil, err
	}

	cart, err := s.repo.GetCart(ctx, in.UserID)
	if err != nil && !errors.Is(err, repository.ErrCartNotFound) {
		return nil, err
	}

	idx := -1
	if cart != nil {
		idx = cart.FindItem(in.ProductID, size)
	}

	if idx >= 0 {
		line := cart.Items[idx]
		if p.SoldByMeter() {
			line.Meters += in.Meters
		} else {
			line.Quantity += in.Quantity
		}
		line.TotalCost = lineCost(p, line.Quantity, line.Meters)
		err = s.repo.UpdateItem(ctx, in.UserID, line)
	} else {
		line := domain.CartItem{ProductID: in.ProductID, Size: size}
		if p.SoldByMeter() {
			line.Meters = in.Meters
		} else {
			line.Quantity = in.Quantity
		}
		line.TotalCost = lineCost(p, line.Quantity, line.Meters)
		err = s.repo.AddItem(ctx, in.UserID, line)
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "cart add item failed", "user_id", in.UserID, "product_id", in.ProductID, "error", err)
		return nil, err
	}

	s.invalidateCache(in.UserID)
	return s.FetchCart(ctx, in.UserID)
}

func (s *CartService) UpdateQuantity(ctx context.Context, in UpdateItemInput) (*CartView, error) {
	if in.UserID == "" || in.ProductID == "" {
		return nil, fmt.Errorf("%w: user id and product id are required", ErrInvalidInput)
	}

	cart, err := s.repo.GetCart(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	idx := -1
	if size := strings.TrimSpace(in.Size); size != "" {
		idx = cart.FindItem(in.ProductID, size)
	} else {
		for i, item := range cart.Items {
			if item.ProductID == in.ProductID {
				idx = i
				break
			}
		}
	}
	if idx < 0 {
		return nil, repository.ErrItemNotFound
	}

	p, err := s.products.GetByID(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if err := validateAmount(p, in.Quantity, in.Meters); err != nil {
		return nil, err
	}

	line := cart.Items[idx]
	if p.SoldByMeter() {
		line.Meters = in.Meters
	} else {
		line.Quantity = in.Quantity
	}
	line.TotalCost = lineCost(p, line.Quantity, line.Meters)

	if err := s.repo.UpdateItem(ctx, in.UserID, line); err != nil {
		s.logger.ErrorContext(ctx, "cart update quantity failed", "user_id", in.UserID, "product_id", in.ProductID, "error", err)
		return nil, err
	}

	s.invalidateCache(in.UserID)
	return s.FetchCart(ctx, in.UserID)
}

// RemoveItem deletes every line for the product.
func (s *CartService) RemoveItem(ctx context.Context, userID, productID string) (*CartView, error) {
	if userID == "" || productID == "" {
		return nil, fmt.Errorf("%w: user id and product id are required", ErrInvalidInput)
	}
	if err := s.repo.RemoveItem(ctx, userID, productID); err != nil {
		return nil, err
	}

	s.invalidateCache(userID)
	return s.FetchCart(ctx, userID)
}

func (s *CartService) ClearCart(ctx context.Context, userID string) error {
	if err := s.repo.DeleteCart(ctx, userID); err != nil {
		return err
	}

	s.invalidateCache(userID)
	return nil
}

func (s *CartService) invalidateCache(userID string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.Delete(ctx, userID); err != nil {
		s.logger.Warn("cache invalidate failed", "user_id", userID, "error", err)
	}
}

func validateAmount(p *domain.Product, quantity int, meters float64) error {
	if p.SoldByMeter() {
		if meters <= 0 {
			return fmt.Errorf("%w: meters must be positive", ErrInvalidInput)
		}
		return nil
	}
	if quantity <= 0 {
		return fmt.Errorf("%w: quantity must be positive", ErrInvalidInput)
	}
	return nil
}

// validateSize requires a stocked size for products with a size breakdown.
func validateSize(p *domain.Product, size string) error {
	sizes := domain.ParseSizes(p.Sizes)
	if len(sizes) == 0 {
		return nil
	}
	if size == "" {
		return fmt.Errorf("%w: size is required for this product", ErrInvalidInput)
	}
	if _, ok := sizes.Available(size); !ok {
		return fmt.Errorf("%w: size %q is not offered", ErrInvalidInput, size)
	}
	return nil
}
