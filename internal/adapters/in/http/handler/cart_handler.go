// internal/adapters/in/http/handler/cart_handler.go
package handler

import (
	"net/http"
	"strings"

	"agrimarket/internal/adapters/in/http/middleware"
	"agrimarket/internal/application/query"
	"agrimarket/internal/application/usecase"
	sessdom "agrimarket/internal/domain/session"
)

// CartHandler serves the buyer's cart. All routes require a session; the
// buyer identity always comes from the session, never the payload.
//
// Routes:
//   - GET    /api/cart        raw cart (ids + quantities)
//   - GET    /api/cart/view   reconciled read model with live prices
//   - POST   /api/cart/items  add (or increment) one listing
//   - PUT    /api/cart/items  set a line's quantity
//   - DELETE /api/cart/items  remove one line
//   - DELETE /api/cart        clear
type CartHandler struct {
	uc        *usecase.CartUsecase
	cartQuery *query.CartQuery
}

func NewCartHandler(uc *usecase.CartUsecase, cartQuery *query.CartQuery) http.Handler {
	return &CartHandler{uc: uc, cartQuery: cartQuery}
}

func (h *CartHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.uc == nil {
		writeErr(w, http.StatusInternalServerError, "cart handler is not configured")
		return
	}

	sess, ok := middleware.CurrentSession(r)
	if !ok {
		writeErr(w, http.StatusUnauthorized, "login required")
		return
	}

	path := strings.TrimRight(r.URL.Path, "/")
	isGET := r.Method == http.MethodGet
	isPOST := r.Method == http.MethodPost
	isPUT := r.Method == http.MethodPut
	isDEL := r.Method == http.MethodDelete

	switch {
	case isGET && strings.HasSuffix(path, "/cart/view"):
		h.handleView(w, r, sess)
	case isGET && strings.HasSuffix(path, "/cart"):
		h.handleGet(w, r, sess)
	case isPOST && strings.HasSuffix(path, "/cart/items"):
		h.handleAddItem(w, r, sess)
	case isPUT && strings.HasSuffix(path, "/cart/items"):
		h.handleSetQuantity(w, r, sess)
	case isDEL && strings.HasSuffix(path, "/cart/items"):
		h.handleRemoveItem(w, r, sess)
	case isDEL && strings.HasSuffix(path, "/cart"):
		h.handleClear(w, r, sess)
	default:
		methodNotAllowed(w)
	}
}

type cartItemRequest struct {
	ListingID string `json:"listingId"`
	Quantity  int    `json:"quantity"`
}

func (h *CartHandler) handleGet(w http.ResponseWriter, r *http.Request, sess sessdom.Session) {
	c, err := h.uc.GetOrCreate(r.Context(), sess.Email)
	if err != nil {
		writeUsecaseErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *CartHandler) handleView(w http.ResponseWriter, r *http.Request, sess sessdom.Session) {
	if h.cartQuery == nil {
		writeErr(w, http.StatusInternalServerError, "cart view is not configured")
		return
	}
	view, err := h.cartQuery.View(r.Context(), sess.Email)
	if err != nil {
		writeUsecaseErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *CartHandler) handleAddItem(w http.ResponseWriter, r *http.Request, sess sessdom.Session) {
	var in cartItemRequest
	if err := decodeJSON(r, &in); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	c, err := h.uc.AddItem(r.Context(), sess.Email, in.ListingID, in.Quantity)
	if err != nil {
		writeUsecaseErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *CartHandler) handleSetQuantity(w http.ResponseWriter, r *http.Request, sess sessdom.Session) {
	var in cartItemRequest
	if err := decodeJSON(r, &in); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	c, err := h.uc.SetQuantity(r.Context(), sess.Email, in.ListingID, in.Quantity)
	if err != nil {
		writeUsecaseErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *CartHandler) handleRemoveItem(w http.ResponseWriter, r *http.Request, sess sessdom.Session) {
	var in cartItemRequest
	if err := decodeJSON(r, &in); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	c, err := h.uc.RemoveItem(r.Context(), sess.Email, in.ListingID)
	if err != nil {
		writeUsecaseErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *CartHandler) handleClear(w http.ResponseWriter, r *http.Request, sess sessdom.Session) {
	if err := h.uc.Clear(r.Context(), sess.Email); err != nil {
		writeUsecaseErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}
