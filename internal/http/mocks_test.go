package http

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/fjod/go_cart/storefront/internal/repository"
	"github.com/fjod/go_cart/storefront/internal/service"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-jwt-secret")

type cartServiceMock struct {
	cart      *service.CartView
	err       error
	lastAdd   service.AddItemInput
	lastUpd   service.UpdateItemInput
	lastUser  string
	callCount int
}

func (m *cartServiceMock) FetchCart(ctx context.Context, userID string) (*service.CartView, error) {
	m.callCount++
	m.lastUser = userID
	return m.cart, m.err
}

func (m *cartServiceMock) AddItem(ctx context.Context, in service.AddItemInput) (*service.CartView, error) {
	m.callCount++
	m.lastAdd = in
	return m.cart, m.err
}

func (m *cartServiceMock) UpdateQuantity(ctx context.Context, in service.UpdateItemInput) (*service.CartView, error) {
	m.callCount++
	m.lastUpd = in
	return m.cart, m.err
}

func (m *cartServiceMock) RemoveItem(ctx context.Context, userID, productID string) (*service.CartView, error) {
	m.callCount++
	m.lastUser = userID
	return m.cart, m.err
}

type orderServiceMock struct {
	orders      map[string]*domain.Order
	createRes   *service.CreateOrderResult
	err         error
	captureErr  error
	lastCreate  service.CreateOrderInput
	lastCapture service.CaptureInput
	captures    int
	lastStatus  string
}

func (m *orderServiceMock) Create(ctx context.Context, in service.CreateOrderInput) (*service.CreateOrderResult, error) {
	m.lastCreate = in
	return m.createRes, m.err
}

func (m *orderServiceMock) Capture(ctx context.Context, in service.CaptureInput) (*domain.Order, error) {
	m.captures++
	m.lastCapture = in
	if m.captureErr != nil {
		return nil, m.captureErr
	}
	o := *m.orders[in.OrderID]
	o.PaymentStatus = domain.PaymentStatusPaid
	o.OrderStatus = domain.OrderStatusConfirmed
	return &o, nil
}

func (m *orderServiceMock) ListByUser(ctx context.Context, userID string) ([]*domain.Order, error) {
	var out []*domain.Order
	for _, o := range m.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, m.err
}

func (m *orderServiceMock) Details(ctx context.Context, id string) (*domain.Order, error) {
	o, ok := m.orders[id]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}
	return o, nil
}

func (m *orderServiceMock) ListAll(ctx context.Context) ([]*domain.Order, error) {
	out := make([]*domain.Order, 0, len(m.orders))
	for _, o := range m.orders {
		out = append(out, o)
	}
	return out, m.err
}

func (m *orderServiceMock) UpdateStatus(ctx context.Context, id, status string) (*domain.Order, error) {
	m.lastStatus = status
	if m.err != nil {
		return nil, m.err
	}
	o, ok := m.orders[id]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}
	o.OrderStatus = domain.OrderStatus(status)
	return o, nil
}

type catalogServiceMock struct {
	product    *domain.Product
	products   []*domain.Product
	err        error
	lastFilter repository.ProductFilter
	lastInput  service.ProductInput
	lastPatch  service.ProductPatch
	lastSearch string
}

func (m *catalogServiceMock) Create(ctx context.Context, in service.ProductInput) (*domain.Product, error) {
	m.lastInput = in
	return m.product, m.err
}

func (m *catalogServiceMock) Update(ctx context.Context, id string, patch service.ProductPatch) (*domain.Product, error) {
	m.lastPatch = patch
	return m.product, m.err
}

func (m *catalogServiceMock) Delete(ctx context.Context, id string) error {
	return m.err
}

func (m *catalogServiceMock) Get(ctx context.Context, id string) (*domain.Product, error) {
	return m.product, m.err
}

func (m *catalogServiceMock) List(ctx context.Context, filter repository.ProductFilter) ([]*domain.Product, error) {
	m.lastFilter = filter
	return m.products, m.err
}

func (m *catalogServiceMock) Search(ctx context.Context, keyword string) ([]*domain.Product, error) {
	m.lastSearch = keyword
	return m.products, m.err
}

type addressServiceMock struct {
	address  *domain.Address
	err      error
	lastUser string
}

func (m *addressServiceMock) Add(ctx context.Context, userID string, in service.AddressInput) (*domain.Address, error) {
	m.lastUser = userID
	return m.address, m.err
}

func (m *addressServiceMock) List(ctx context.Context, userID string) ([]*domain.Address, error) {
	m.lastUser = userID
	if m.address == nil {
		return []*domain.Address{}, m.err
	}
	return []*domain.Address{m.address}, m.err
}

func (m *addressServiceMock) Update(ctx context.Context, userID, addressID string, in service.AddressInput) (*domain.Address, error) {
	m.lastUser = userID
	return m.address, m.err
}

func (m *addressServiceMock) Delete(ctx context.Context, userID, addressID string) error {
	m.lastUser = userID
	return m.err
}

type featureServiceMock struct {
	features []*domain.FeatureImage
	err      error
	added    string
}

func (m *featureServiceMock) Add(ctx context.Context, image string) (*domain.FeatureImage, error) {
	m.added = image
	if m.err != nil {
		return nil, m.err
	}
	return &domain.FeatureImage{ID: "f1", Image: image}, nil
}

func (m *featureServiceMock) List(ctx context.Context) ([]*domain.FeatureImage, error) {
	return m.features, m.err
}

func (m *featureServiceMock) Delete(ctx context.Context, id string) error {
	return m.err
}

type testServer struct {
	handler   http.Handler
	carts     *cartServiceMock
	orders    *orderServiceMock
	catalog   *catalogServiceMock
	addresses *addressServiceMock
	features  *featureServiceMock
}

func newTestServer() *testServer {
	ts := &testServer{
		carts:     &cartServiceMock{cart: &service.CartView{UserID: "u1", Items: []service.CartLine{}}},
		orders:    &orderServiceMock{orders: map[string]*domain.Order{}},
		catalog:   &catalogServiceMock{},
		addresses: &addressServiceMock{},
		features:  &featureServiceMock{},
	}
	ts.handler = NewRouter(RouterConfig{
		Carts:          ts.carts,
		Orders:         ts.orders,
		Catalog:        ts.catalog,
		Addresses:      ts.addresses,
		Features:       ts.features,
		JWTSecret:      testSecret,
		RequestTimeout: 5 * time.Second,
		Logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	return ts
}

func signToken(t *testing.T, userID, role string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID:   userID,
		Role:     role,
		Email:    userID + "@example.com",
		UserName: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := token.SignedString(testSecret)
	require.NoError(t, err)
	return signed
}
