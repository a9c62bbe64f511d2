// internal/adapters/in/http/handler/order_handler.go
package handler

import (
	"net/http"
	"strings"

	"agrimarket/internal/adapters/in/http/middleware"
	"agrimarket/internal/application/usecase"
	acctdom "agrimarket/internal/domain/account"
	sessdom "agrimarket/internal/domain/session"
)

// OrderHandler serves order placement and history.
//
// Routes:
//   - POST /api/orders                    place one order (Idempotency-Key honored)
//   - GET  /api/orders/buyer/{email}      buyer history, newest first
//   - GET  /api/orders/farmer/{id}        farmer bookings, newest first
type OrderHandler struct {
	uc *usecase.OrderUsecase
}

func NewOrderHandler(uc *usecase.OrderUsecase) http.Handler {
	return &OrderHandler{uc: uc}
}

func (h *OrderHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.uc == nil {
		writeErr(w, http.StatusInternalServerError, "order handler is not configured")
		return
	}

	sess, ok := middleware.CurrentSession(r)
	if !ok {
		writeErr(w, http.StatusUnauthorized, "login required")
		return
	}

	path := strings.TrimRight(r.URL.Path, "/")
	switch {
	case r.Method == http.MethodPost && strings.HasSuffix(path, "/orders"):
		h.handlePlace(w, r, sess.Email)
	case r.Method == http.MethodGet && strings.Contains(path, "/orders/buyer/"):
		h.handleBuyerHistory(w, r, path, sess.Email)
	case r.Method == http.MethodGet && strings.Contains(path, "/orders/farmer/"):
		h.handleFarmerBookings(w, r, path, sess)
	default:
		methodNotAllowed(w)
	}
}

type placeOrderRequest struct {
	ListingID       string `json:"listingId"`
	Quantity        int    `json:"quantity"`
	DeliveryAddress string `json:"deliveryAddress"`
	DeliveryDate    string `json:"deliveryDate"`
	PaymentMethod   string `json:"paymentMethod"`
	FromCart        bool   `json:"fromCart"`
}

func (h *OrderHandler) handlePlace(w http.ResponseWriter, r *http.Request, buyerEmail string) {
	var in placeOrderRequest
	if err := decodeJSON(r, &in); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	res, err := h.uc.PlaceOrder(r.Context(), usecase.PlaceOrderCommand{
		BuyerID:         buyerEmail,
		ListingID:       in.ListingID,
		Quantity:        in.Quantity,
		DeliveryAddress: in.DeliveryAddress,
		DeliveryDate:    in.DeliveryDate,
		PaymentMethod:   in.PaymentMethod,
		IdempotencyKey:  strings.TrimSpace(r.Header.Get("Idempotency-Key")),
		FromCart:        in.FromCart,
	})
	if err != nil {
		writeUsecaseErr(w, err)
		return
	}

	code := http.StatusCreated
	if res.AlreadyPlaced {
		code = http.StatusOK
	}
	writeJSON(w, code, map[string]any{
		"order":         res.Order,
		"total":         res.TotalDisplay,
		"alreadyPlaced": res.AlreadyPlaced,
	})
}

func (h *OrderHandler) handleBuyerHistory(w http.ResponseWriter, r *http.Request, path, sessionEmail string) {
	email := lastSegment(path)
	if email == "" {
		notFound(w)
		return
	}
	// buyers only see their own history
	if !strings.EqualFold(email, sessionEmail) {
		writeErr(w, http.StatusForbidden, "history belongs to another buyer")
		return
	}

	out, err := h.uc.HistoryByBuyer(r.Context(), email)
	if err != nil {
		writeUsecaseErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *OrderHandler) handleFarmerBookings(w http.ResponseWriter, r *http.Request, path string, sess sessdom.Session) {
	farmerID := lastSegment(path)
	if farmerID == "" {
		notFound(w)
		return
	}
	if sess.Role != acctdom.RoleFarmer || !strings.EqualFold(farmerID, sess.Email) {
		writeErr(w, http.StatusForbidden, "bookings belong to another farmer")
		return
	}

	out, err := h.uc.BookingsByFarmer(r.Context(), farmerID)
	if err != nil {
		writeUsecaseErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func lastSegment(path string) string {
	i := strings.LastIndexByte(path, '/')
	if i < 0 || i == len(path)-1 {
		return ""
	}
	return path[i+1:]
}
