// internal/adapters/in/http/handler/handler_test.go
package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agrimarket/internal/adapters/in/http/middleware"
	"agrimarket/internal/application/query"
	"agrimarket/internal/application/usecase"
	acctdom "agrimarket/internal/domain/account"
	cartdom "agrimarket/internal/domain/cart"
	listdom "agrimarket/internal/domain/listing"
	orderdom "agrimarket/internal/domain/order"
	sessdom "agrimarket/internal/domain/session"
)

// ------------------------------------------------------------
// in-memory fakes
// ------------------------------------------------------------

type memListings struct {
	byID map[string]*listdom.Listing
}

func newMemListings(ls ...*listdom.Listing) *memListings {
	m := &memListings{byID: map[string]*listdom.Listing{}}
	for _, l := range ls {
		m.byID[l.ID] = l
	}
	return m
}

func (m *memListings) GetByID(_ context.Context, id string) (*listdom.Listing, error) {
	l, ok := m.byID[id]
	if !ok {
		return nil, listdom.ErrNotFound
	}
	cp := *l
	return &cp, nil
}

func (m *memListings) GetByIDs(_ context.Context, ids []string) (map[string]*listdom.Listing, error) {
	out := map[string]*listdom.Listing{}
	for _, id := range ids {
		if l, ok := m.byID[id]; ok {
			cp := *l
			out[id] = &cp
		}
	}
	return out, nil
}

func (m *memListings) ListAll(_ context.Context) ([]*listdom.Listing, error) {
	out := []*listdom.Listing{}
	for _, l := range m.byID {
		cp := *l
		out = append(out, &cp)
	}
	return out, nil
}

func (m *memListings) ListByFarmer(_ context.Context, farmerID string) ([]*listdom.Listing, error) {
	out := []*listdom.Listing{}
	for _, l := range m.byID {
		if l.FarmerID == farmerID {
			cp := *l
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memListings) Search(_ context.Context, q string) ([]*listdom.Listing, error) {
	out := []*listdom.Listing{}
	for _, l := range m.byID {
		if strings.HasPrefix(strings.ToLower(l.CropName), strings.ToLower(q)) {
			cp := *l
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memListings) Suggestions(_ context.Context, limit int) ([]*listdom.Listing, error) {
	all, _ := m.ListAll(context.Background())
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (m *memListings) Create(_ context.Context, l *listdom.Listing) error {
	cp := *l
	m.byID[l.ID] = &cp
	return nil
}

func (m *memListings) Update(_ context.Context, l *listdom.Listing) error {
	cp := *l
	m.byID[l.ID] = &cp
	return nil
}

func (m *memListings) Delete(_ context.Context, id string) error {
	delete(m.byID, id)
	return nil
}

type memCarts struct {
	byBuyer map[string]*cartdom.Cart
}

func newMemCarts() *memCarts { return &memCarts{byBuyer: map[string]*cartdom.Cart{}} }

func (m *memCarts) GetByBuyerID(_ context.Context, buyerID string) (*cartdom.Cart, error) {
	c, ok := m.byBuyer[buyerID]
	if !ok {
		return nil, nil
	}
	cp := *c
	cp.Lines = append([]cartdom.Line(nil), c.Lines...)
	return &cp, nil
}

func (m *memCarts) Upsert(_ context.Context, c *cartdom.Cart) error {
	cp := *c
	cp.Lines = append([]cartdom.Line(nil), c.Lines...)
	m.byBuyer[c.ID] = &cp
	return nil
}

func (m *memCarts) DeleteByBuyerID(_ context.Context, buyerID string) error {
	delete(m.byBuyer, buyerID)
	return nil
}

type memOrders struct {
	created []orderdom.Order
}

func (m *memOrders) GetByID(_ context.Context, id string) (orderdom.Order, error) {
	for _, o := range m.created {
		if o.ID == id {
			return o, nil
		}
	}
	return orderdom.Order{}, orderdom.ErrNotFound
}

func (m *memOrders) GetByIdempotencyKey(_ context.Context, key string) (orderdom.Order, error) {
	for _, o := range m.created {
		if o.IdempotencyKey == key {
			return o, nil
		}
	}
	return orderdom.Order{}, orderdom.ErrNotFound
}

func (m *memOrders) Create(_ context.Context, o orderdom.Order) error {
	m.created = append(m.created, o)
	return nil
}

func (m *memOrders) ListByBuyer(_ context.Context, buyerID string) ([]orderdom.Order, error) {
	out := []orderdom.Order{}
	for _, o := range m.created {
		if o.BuyerID == buyerID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *memOrders) ListByFarmer(_ context.Context, farmerID string) ([]orderdom.Order, error) {
	out := []orderdom.Order{}
	for _, o := range m.created {
		if o.FarmerID == farmerID {
			out = append(out, o)
		}
	}
	return out, nil
}

type memSessions struct {
	byToken map[string]sessdom.Session
}

func newMemSessions() *memSessions { return &memSessions{byToken: map[string]sessdom.Session{}} }

func (m *memSessions) Put(_ context.Context, s sessdom.Session, _ time.Duration) error {
	m.byToken[s.Token] = s
	return nil
}

func (m *memSessions) Get(_ context.Context, token string) (sessdom.Session, error) {
	s, ok := m.byToken[token]
	if !ok {
		return sessdom.Session{}, sessdom.ErrNotFound
	}
	return s, nil
}

func (m *memSessions) Delete(_ context.Context, token string) error {
	delete(m.byToken, token)
	return nil
}

// ------------------------------------------------------------
// harness
// ------------------------------------------------------------

func buyerSession(t *testing.T, sessions *memSessions, email string) string {
	t.Helper()
	tok := "tok-" + email
	require.NoError(t, sessions.Put(context.Background(), sessdom.Session{
		Token: tok,
		Email: email,
		Role:  acctdom.RoleBuyer,
	}, time.Hour))
	return tok
}

func wheatListing() *listdom.Listing {
	return &listdom.Listing{
		ID:                "crop-1",
		FarmerID:          "farmer@example.com",
		FarmerName:        "Ravi",
		CropName:          "Wheat",
		UnitPrice:         25,
		Unit:              "kg",
		AvailableQuantity: 100,
	}
}

func doJSON(t *testing.T, h http.Handler, method, target, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// ------------------------------------------------------------
// cart
// ------------------------------------------------------------

func cartHandlerUnderTest(listings *memListings, carts *memCarts, sessions *memSessions) http.Handler {
	uc := usecase.NewCartUsecase(carts, listings)
	q := query.NewCartQuery(carts, listings)
	auth := &middleware.SessionAuth{Sessions: sessions}
	return auth.Handler(NewCartHandler(uc, q))
}

func TestCartRequiresSession(t *testing.T) {
	h := cartHandlerUnderTest(newMemListings(), newMemCarts(), newMemSessions())

	rec := doJSON(t, h, http.MethodGet, "/api/cart", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCartAddAndView(t *testing.T) {
	listings := newMemListings(wheatListing())
	carts := newMemCarts()
	sessions := newMemSessions()
	h := cartHandlerUnderTest(listings, carts, sessions)
	tok := buyerSession(t, sessions, "asha@example.com")

	rec := doJSON(t, h, http.MethodPost, "/api/cart/items", tok,
		cartItemRequest{ListingID: "crop-1", Quantity: 3})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(t, h, http.MethodGet, "/api/cart/view", tok, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var view query.CartView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	require.Len(t, view.Lines, 1)
	assert.Equal(t, "Wheat", view.Lines[0].CropName)
	assert.Equal(t, 3, view.Lines[0].Quantity)
	assert.Equal(t, "75.00", view.TotalDisplay)
}

func TestCartViewKeepsLineForMissingListing(t *testing.T) {
	listings := newMemListings(wheatListing())
	carts := newMemCarts()
	sessions := newMemSessions()
	h := cartHandlerUnderTest(listings, carts, sessions)
	tok := buyerSession(t, sessions, "asha@example.com")

	rec := doJSON(t, h, http.MethodPost, "/api/cart/items", tok,
		cartItemRequest{ListingID: "crop-1", Quantity: 2})
	require.Equal(t, http.StatusOK, rec.Code)

	// listing disappears between add and view
	require.NoError(t, listings.Delete(context.Background(), "crop-1"))

	rec = doJSON(t, h, http.MethodGet, "/api/cart/view", tok, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var view query.CartView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	require.Len(t, view.Lines, 1)
	assert.Equal(t, query.UnknownFarmer, view.Lines[0].FarmerName)
	assert.False(t, view.Lines[0].Purchasable)
	assert.Equal(t, "0.00", view.TotalDisplay)
}

// ------------------------------------------------------------
// orders
// ------------------------------------------------------------

func TestPlaceOrderOverHTTP(t *testing.T) {
	listings := newMemListings(wheatListing())
	carts := newMemCarts()
	orders := &memOrders{}
	sessions := newMemSessions()

	uc := usecase.NewOrderUsecase(orders, listings, carts)
	auth := &middleware.SessionAuth{Sessions: sessions}
	h := auth.Handler(NewOrderHandler(uc))
	tok := buyerSession(t, sessions, "asha@example.com")

	tomorrow := time.Now().AddDate(0, 0, 1).Format("2006-01-02")
	rec := doJSON(t, h, http.MethodPost, "/api/orders", tok, placeOrderRequest{
		ListingID:       "crop-1",
		Quantity:        3,
		DeliveryAddress: "12 Mandi Road, Pune 411001",
		DeliveryDate:    tomorrow,
		PaymentMethod:   "cash_on_delivery",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var res struct {
		Total         string `json:"total"`
		AlreadyPlaced bool   `json:"alreadyPlaced"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "75.00", res.Total)
	assert.False(t, res.AlreadyPlaced)
	require.Len(t, orders.created, 1)
	assert.Equal(t, "asha@example.com", orders.created[0].BuyerID)
}

func TestPlaceOrderValidationFailureOverHTTP(t *testing.T) {
	listings := newMemListings(wheatListing())
	orders := &memOrders{}
	sessions := newMemSessions()

	uc := usecase.NewOrderUsecase(orders, listings, newMemCarts())
	auth := &middleware.SessionAuth{Sessions: sessions}
	h := auth.Handler(NewOrderHandler(uc))
	tok := buyerSession(t, sessions, "asha@example.com")

	rec := doJSON(t, h, http.MethodPost, "/api/orders", tok, placeOrderRequest{
		ListingID:       "crop-1",
		Quantity:        3,
		DeliveryAddress: "", // first check fails
		DeliveryDate:    "2030-01-01",
		PaymentMethod:   "cash_on_delivery",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body struct {
		Error  string `json:"error"`
		Fields []struct {
			Field string `json:"field"`
		} `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "validation_failed", body.Error)
	require.Len(t, body.Fields, 1)
	assert.Equal(t, "deliveryAddress", body.Fields[0].Field)
	assert.Empty(t, orders.created)
}

func TestBuyerHistoryIsOwnOnly(t *testing.T) {
	listings := newMemListings(wheatListing())
	orders := &memOrders{}
	sessions := newMemSessions()

	uc := usecase.NewOrderUsecase(orders, listings, newMemCarts())
	auth := &middleware.SessionAuth{Sessions: sessions}
	h := auth.Handler(NewOrderHandler(uc))
	tok := buyerSession(t, sessions, "asha@example.com")

	rec := doJSON(t, h, http.MethodGet, "/api/orders/buyer/other@example.com", tok, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/api/orders/buyer/asha@example.com", tok, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

// ------------------------------------------------------------
// profiles
// ------------------------------------------------------------

type memAccounts struct {
	byEmail map[string]*acctdom.Account
}

func (m *memAccounts) GetByEmail(_ context.Context, email string) (*acctdom.Account, error) {
	a, ok := m.byEmail[email]
	if !ok {
		return nil, acctdom.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *memAccounts) Create(_ context.Context, a *acctdom.Account) error {
	cp := *a
	m.byEmail[a.Email] = &cp
	return nil
}

func (m *memAccounts) Update(_ context.Context, a *acctdom.Account) error {
	cp := *a
	m.byEmail[a.Email] = &cp
	return nil
}

func TestProfileOwnershipEnforced(t *testing.T) {
	accounts := &memAccounts{byEmail: map[string]*acctdom.Account{
		"asha@example.com": {
			Email:        "asha@example.com",
			Role:         acctdom.RoleBuyer,
			Name:         "Asha Kumar",
			PasswordHash: "x$y",
		},
	}}
	sessions := newMemSessions()
	uc := usecase.NewAccountUsecase(accounts, sessions)
	auth := &middleware.SessionAuth{Sessions: sessions}
	h := auth.Handler(NewProfileHandler(uc))
	tok := buyerSession(t, sessions, "asha@example.com")

	rec := doJSON(t, h, http.MethodGet, "/api/buyer/asha@example.com", tok, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var got acctdom.Account
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "Asha Kumar", got.Name)

	// someone else's profile
	rec = doJSON(t, h, http.MethodGet, "/api/buyer/other@example.com", tok, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// wrong role segment
	rec = doJSON(t, h, http.MethodGet, "/api/farmer/asha@example.com", tok, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
