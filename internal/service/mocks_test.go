package service

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fjod/go_cart/storefront/internal/cache"
	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/internal/events"
	"github.com/fjod/go_cart/storefront/internal/payment"
	"github.com/fjod/go_cart/storefront/internal/repository"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type mockCartRepository struct {
	m     sync.RWMutex
	carts map[string]*domain.Cart
	err   error
	// calls
	removedProducts []string
}

func newMockCartRepository() *mockCartRepository {
	return &mockCartRepository{carts: make(map[string]*domain.Cart)}
}

func (m *mockCartRepository) GetCart(_ context.Context, userID string) (*domain.Cart, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	c, ok := m.carts[userID]
	if !ok {
		return nil, repository.ErrCartNotFound
	}
	cp := *c
	cp.Items = append([]domain.CartItem(nil), c.Items...)
	return &cp, nil
}

func (m *mockCartRepository) AddItem(_ context.Context, userID string, item domain.CartItem) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	c, ok := m.carts[userID]
	if !ok {
		c = &domain.Cart{ID: "cart-" + userID, UserID: userID, CreatedAt: time.Now()}
		m.carts[userID] = c
	}
	c.Items = append(c.Items, item)
	c.UpdatedAt = time.Now()
	return nil
}

func (m *mockCartRepository) UpdateItem(_ context.Context, userID string, item domain.CartItem) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	c, ok := m.carts[userID]
	if !ok {
		return repository.ErrItemNotFound
	}
	for i := range c.Items {
		if c.Items[i].ProductID == item.ProductID && c.Items[i].Size == item.Size {
			c.Items[i].Quantity = item.Quantity
			c.Items[i].Meters = item.Meters
			c.Items[i].TotalCost = item.TotalCost
			return nil
		}
	}
	return repository.ErrItemNotFound
}

func (m *mockCartRepository) RemoveItem(_ context.Context, userID string, productID string) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	c, ok := m.carts[userID]
	if !ok {
		return repository.ErrItemNotFound
	}
	kept := c.Items[:0:0]
	for _, item := range c.Items {
		if item.ProductID != productID {
			kept = append(kept, item)
		}
	}
	if len(kept) == len(c.Items) {
		return repository.ErrItemNotFound
	}
	c.Items = kept
	return nil
}

func (m *mockCartRepository) RemoveProducts(_ context.Context, userID string, productIDs []string) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	m.removedProducts = append(m.removedProducts, productIDs...)
	c, ok := m.carts[userID]
	if !ok {
		return repository.ErrCartNotFound
	}
	drop := make(map[string]bool)
	for _, id := range productIDs {
		drop[id] = true
	}
	kept := c.Items[:0:0]
	for _, item := range c.Items {
		if !drop[item.ProductID] {
			kept = append(kept, item)
		}
	}
	c.Items = kept
	return nil
}

func (m *mockCartRepository) DeleteCart(_ context.Context, userID string) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	if _, ok := m.carts[userID]; !ok {
		return repository.ErrCartNotFound
	}
	delete(m.carts, userID)
	return nil
}

func (m *mockCartRepository) items(userID string) []domain.CartItem {
	m.m.RLock()
	defer m.m.RUnlock()
	c, ok := m.carts[userID]
	if !ok {
		return nil
	}
	return append([]domain.CartItem(nil), c.Items...)
}

type mockCache struct {
	m       sync.RWMutex
	carts   map[string]*domain.Cart
	err     error
	deletes int
}

func newMockCache() *mockCache {
	return &mockCache{carts: make(map[string]*domain.Cart)}
}

func (m *mockCache) Get(_ context.Context, userID string) (*domain.Cart, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	c, ok := m.carts[userID]
	if !ok {
		return nil, cache.ErrCacheMiss
	}
	return c, nil
}

func (m *mockCache) Set(_ context.Context, userID string, cart *domain.Cart) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	m.carts[userID] = cart
	return nil
}

func (m *mockCache) Delete(_ context.Context, userID string) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.deletes++
	delete(m.carts, userID)
	return m.err
}

func (m *mockCache) deleteCount() int {
	m.m.RLock()
	defer m.m.RUnlock()
	return m.deletes
}

type mockProductRepository struct {
	m        sync.RWMutex
	products map[string]*domain.Product
	err      error
	// swapConflicts makes the next N SwapSizes calls fail as if another writer won
	swapConflicts int
	swaps         int
	decrements    int
}

func newMockProductRepository(products ...*domain.Product) *mockProductRepository {
	m := &mockProductRepository{products: make(map[string]*domain.Product)}
	for _, p := range products {
		m.products[p.ID] = p
	}
	return m
}

func (m *mockProductRepository) get(id string) *domain.Product {
	m.m.RLock()
	defer m.m.RUnlock()
	p, ok := m.products[id]
	if !ok {
		return nil
	}
	cp := *p
	return &cp
}

func (m *mockProductRepository) Create(_ context.Context, p *domain.Product) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	if p.ID == "" {
		p.ID = "prod-" + strings.ToLower(strings.ReplaceAll(p.Title, " ", "-"))
	}
	cp := *p
	m.products[p.ID] = &cp
	return nil
}

func (m *mockProductRepository) Update(_ context.Context, p *domain.Product) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	if _, ok := m.products[p.ID]; !ok {
		return repository.ErrProductNotFound
	}
	cp := *p
	m.products[p.ID] = &cp
	return nil
}

func (m *mockProductRepository) Delete(_ context.Context, id string) error {
	m.m.Lock()
	defer m.m.Unlock()
	if _, ok := m.products[id]; !ok {
		return repository.ErrProductNotFound
	}
	delete(m.products, id)
	return nil
}

func (m *mockProductRepository) GetByID(_ context.Context, id string) (*domain.Product, error) {
	if m.err != nil {
		return nil, m.err
	}
	p := m.get(id)
	if p == nil {
		return nil, repository.ErrProductNotFound
	}
	return p, nil
}

func (m *mockProductRepository) GetByIDs(_ context.Context, ids []string) (map[string]*domain.Product, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := make(map[string]*domain.Product)
	for _, id := range ids {
		if p := m.get(id); p != nil {
			out[id] = p
		}
	}
	return out, nil
}

func (m *mockProductRepository) List(_ context.Context, filter repository.ProductFilter) ([]*domain.Product, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	out := make([]*domain.Product, 0)
	for _, p := range m.products {
		if len(filter.Categories) > 0 && !contains(filter.Categories, p.Category) {
			continue
		}
		if len(filter.Brands) > 0 && !contains(filter.Brands, p.Brand) {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		switch filter.SortBy {
		case repository.SortPriceHighToLow:
			return out[i].Price > out[j].Price
		case repository.SortTitleAToZ:
			return out[i].Title < out[j].Title
		case repository.SortTitleZToA:
			return out[i].Title > out[j].Title
		default:
			return out[i].Price < out[j].Price
		}
	})
	return out, nil
}

func (m *mockProductRepository) Search(_ context.Context, keyword string) ([]*domain.Product, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	out := make([]*domain.Product, 0)
	kw := strings.ToLower(keyword)
	for _, p := range m.products {
		if strings.Contains(strings.ToLower(p.Title), kw) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockProductRepository) DecrementStock(_ context.Context, id string, quantity int) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.decrements++
	p, ok := m.products[id]
	if !ok || p.TotalStock < quantity {
		return repository.ErrStockConflict
	}
	p.TotalStock -= quantity
	return nil
}

func (m *mockProductRepository) IncrementStock(_ context.Context, id string, quantity int) error {
	m.m.Lock()
	defer m.m.Unlock()
	p, ok := m.products[id]
	if !ok {
		return repository.ErrProductNotFound
	}
	p.TotalStock += quantity
	return nil
}

func (m *mockProductRepository) SwapSizes(_ context.Context, id, from, to string) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.swaps++
	if m.swapConflicts > 0 {
		m.swapConflicts--
		return repository.ErrStockConflict
	}
	p, ok := m.products[id]
	if !ok || p.Sizes != from {
		return repository.ErrStockConflict
	}
	p.Sizes = to
	return nil
}

func (m *mockProductRepository) writes() int {
	m.m.RLock()
	defer m.m.RUnlock()
	return m.swaps + m.decrements
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

type mockOrderRepository struct {
	m      sync.RWMutex
	orders map[string]*domain.Order
	err    error
	seq    int
}

func newMockOrderRepository() *mockOrderRepository {
	return &mockOrderRepository{orders: make(map[string]*domain.Order)}
}

func (m *mockOrderRepository) Create(_ context.Context, o *domain.Order) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	m.seq++
	if o.ID == "" {
		o.ID = "order-" + string(rune('0'+m.seq))
	}
	o.OrderDate = time.Now().Add(time.Duration(m.seq) * time.Second)
	o.OrderUpdateDate = o.OrderDate
	cp := *o
	m.orders[o.ID] = &cp
	return nil
}

func (m *mockOrderRepository) GetByID(_ context.Context, id string) (*domain.Order, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	o, ok := m.orders[id]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}
	cp := *o
	return &cp, nil
}

func (m *mockOrderRepository) list(keep func(*domain.Order) bool) []*domain.Order {
	m.m.RLock()
	defer m.m.RUnlock()
	out := make([]*domain.Order, 0)
	for _, o := range m.orders {
		if keep(o) {
			cp := *o
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderDate.After(out[j].OrderDate) })
	return out
}

func (m *mockOrderRepository) ListByUser(_ context.Context, userID string) ([]*domain.Order, error) {
	return m.list(func(o *domain.Order) bool { return o.UserID == userID }), nil
}

func (m *mockOrderRepository) ListAll(context.Context) ([]*domain.Order, error) {
	return m.list(func(*domain.Order) bool { return true }), nil
}

func (m *mockOrderRepository) MarkPaid(_ context.Context, id, paymentID, payerID string) error {
	m.m.Lock()
	defer m.m.Unlock()
	o, ok := m.orders[id]
	if !ok || o.PaymentStatus != domain.PaymentStatusUnpaid {
		return repository.ErrOrderNotPending
	}
	o.PaymentStatus = domain.PaymentStatusPaid
	o.OrderStatus = domain.OrderStatusConfirmed
	o.PaymentID = paymentID
	o.PayerID = payerID
	return nil
}

func (m *mockOrderRepository) UpdateStatus(_ context.Context, id string, status domain.OrderStatus) error {
	m.m.Lock()
	defer m.m.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return repository.ErrOrderNotFound
	}
	o.OrderStatus = status
	return nil
}

func (m *mockOrderRepository) count() int {
	m.m.RLock()
	defer m.m.RUnlock()
	return len(m.orders)
}

const testSecret = "test-secret"

type mockGateway struct {
	m       sync.Mutex
	err     error
	intents []string
}

func (g *mockGateway) CreateIntent(_ context.Context, amount int64, currency, receipt string) (*payment.Intent, error) {
	g.m.Lock()
	defer g.m.Unlock()
	if g.err != nil {
		return nil, g.err
	}
	g.intents = append(g.intents, receipt)
	return &payment.Intent{
		GatewayOrderID: "gw_" + receipt,
		Amount:         amount,
		Currency:       currency,
		KeyID:          "rzp_test",
	}, nil
}

func (g *mockGateway) VerifySignature(gatewayOrderID, paymentID, signature string) bool {
	return payment.Sign([]byte(testSecret), gatewayOrderID, paymentID) == signature
}

type mockPublisher struct {
	m      sync.Mutex
	events []events.OrderCaptured
	err    error
}

func (p *mockPublisher) PublishOrderCaptured(_ context.Context, ev events.OrderCaptured) error {
	p.m.Lock()
	defer p.m.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, ev)
	return nil
}

func (p *mockPublisher) Close() error { return nil }

func (p *mockPublisher) published() []events.OrderCaptured {
	p.m.Lock()
	defer p.m.Unlock()
	return append([]events.OrderCaptured(nil), p.events...)
}

type mockAddressRepository struct {
	m         sync.RWMutex
	addresses map[string]*domain.Address
	seq       int
}

func newMockAddressRepository() *mockAddressRepository {
	return &mockAddressRepository{addresses: make(map[string]*domain.Address)}
}

func (m *mockAddressRepository) Create(_ context.Context, a *domain.Address) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.seq++
	a.ID = "addr-" + string(rune('0'+m.seq))
	cp := *a
	m.addresses[a.ID] = &cp
	return nil
}

func (m *mockAddressRepository) ListByUser(_ context.Context, userID string) ([]*domain.Address, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	out := make([]*domain.Address, 0)
	for _, a := range m.addresses {
		if a.UserID == userID {
			cp := *a
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockAddressRepository) Update(_ context.Context, a *domain.Address) error {
	m.m.Lock()
	defer m.m.Unlock()
	cur, ok := m.addresses[a.ID]
	if !ok || cur.UserID != a.UserID {
		return repository.ErrAddressNotFound
	}
	cp := *a
	m.addresses[a.ID] = &cp
	return nil
}

func (m *mockAddressRepository) Delete(_ context.Context, userID, id string) error {
	m.m.Lock()
	defer m.m.Unlock()
	cur, ok := m.addresses[id]
	if !ok || cur.UserID != userID {
		return repository.ErrAddressNotFound
	}
	delete(m.addresses, id)
	return nil
}

type mockFeatureRepository struct {
	m        sync.RWMutex
	features []*domain.FeatureImage
}

func (m *mockFeatureRepository) Create(_ context.Context, f *domain.FeatureImage) error {
	m.m.Lock()
	defer m.m.Unlock()
	f.ID = "feat-" + string(rune('a'+len(m.features)))
	m.features = append(m.features, f)
	return nil
}

func (m *mockFeatureRepository) List(context.Context) ([]*domain.FeatureImage, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	return append([]*domain.FeatureImage(nil), m.features...), nil
}

func (m *mockFeatureRepository) Delete(_ context.Context, id string) error {
	m.m.Lock()
	defer m.m.Unlock()
	for i, f := range m.features {
		if f.ID == id {
			m.features = append(m.features[:i], m.features[i+1:]...)
			return nil
		}
	}
	return repository.ErrFeatureNotFound
}
