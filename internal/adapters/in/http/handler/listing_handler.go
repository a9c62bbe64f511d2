// internal/adapters/in/http/handler/listing_handler.go
package handler

import (
	"net/http"
	"strings"

	"agrimarket/internal/adapters/in/http/middleware"
	"agrimarket/internal/application/usecase"
	acctdom "agrimarket/internal/domain/account"
	sessdom "agrimarket/internal/domain/session"
)

// ListingHandler serves the crop catalog.
//
// Routes (reads are public, writes require a farmer session):
//   - GET    /api/crops/crops        list all listings
//   - GET    /api/crops/search?query= prefix search by crop name
//   - GET    /api/crops/suggestions  recent listings for typeahead
//   - GET    /api/crops/mine         current farmer's listings
//   - GET    /api/crops/{id}
//   - POST   /api/crops
//   - PUT    /api/crops/{id}
//   - DELETE /api/crops/{id}
//   - POST   /api/crops/{id}/image-url  signed upload URL for the crop photo
type ListingHandler struct {
	uc       *usecase.ListingUsecase
	accounts *usecase.AccountUsecase
}

func NewListingHandler(uc *usecase.ListingUsecase, accounts *usecase.AccountUsecase) http.Handler {
	return &ListingHandler{uc: uc, accounts: accounts}
}

func (h *ListingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.uc == nil {
		writeErr(w, http.StatusInternalServerError, "listing handler is not configured")
		return
	}

	path := strings.TrimRight(r.URL.Path, "/")
	isGET := r.Method == http.MethodGet
	isPOST := r.Method == http.MethodPost
	isPUT := r.Method == http.MethodPut
	isDEL := r.Method == http.MethodDelete

	switch {
	case isGET && strings.HasSuffix(path, "/crops/crops"):
		h.handleListAll(w, r)
	case isGET && strings.HasSuffix(path, "/crops/search"):
		h.handleSearch(w, r)
	case isGET && strings.HasSuffix(path, "/crops/suggestions"):
		h.handleSuggestions(w, r)
	case isGET && strings.HasSuffix(path, "/crops/mine"):
		h.handleMine(w, r)
	case isPOST && strings.HasSuffix(path, "/crops"):
		h.handleCreate(w, r)
	case isPOST && strings.HasSuffix(path, "/image-url"):
		h.handleImageURL(w, r, path)
	case isGET:
		h.handleGet(w, r, path)
	case isPUT:
		h.handleUpdate(w, r, path)
	case isDEL:
		h.handleDelete(w, r, path)
	default:
		methodNotAllowed(w)
	}
}

// requireFarmer resolves the session and rejects non-farmers.
func requireFarmer(w http.ResponseWriter, r *http.Request) (sessdom.Session, bool) {
	sess, ok := middleware.CurrentSession(r)
	if !ok {
		writeErr(w, http.StatusUnauthorized, "login required")
		return sessdom.Session{}, false
	}
	if sess.Role != acctdom.RoleFarmer {
		writeErr(w, http.StatusForbidden, "farmer role required")
		return sessdom.Session{}, false
	}
	return sess, true
}

func (h *ListingHandler) handleListAll(w http.ResponseWriter, r *http.Request) {
	out, err := h.uc.ListAll(r.Context())
	if err != nil {
		writeUsecaseErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *ListingHandler) handleSearch(w http.ResponseWriter, r *http.Request) {
	out, err := h.uc.Search(r.Context(), r.URL.Query().Get("query"))
	if err != nil {
		writeUsecaseErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *ListingHandler) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	out, err := h.uc.Suggestions(r.Context())
	if err != nil {
		writeUsecaseErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *ListingHandler) handleMine(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireFarmer(w, r)
	if !ok {
		return
	}
	out, err := h.uc.ListByFarmer(r.Context(), sess.Email)
	if err != nil {
		writeUsecaseErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *ListingHandler) handleGet(w http.ResponseWriter, r *http.Request, path string) {
	id, ok := cropID(path)
	if !ok {
		notFound(w)
		return
	}
	l, err := h.uc.Get(r.Context(), id)
	if err != nil {
		writeUsecaseErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (h *ListingHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireFarmer(w, r)
	if !ok {
		return
	}

	var in usecase.ListingInput
	if err := decodeJSON(r, &in); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	l, err := h.uc.Create(r.Context(), sess.Email, h.farmerName(r, sess), in)
	if err != nil {
		writeUsecaseErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, l)
}

func (h *ListingHandler) handleUpdate(w http.ResponseWriter, r *http.Request, path string) {
	sess, ok := requireFarmer(w, r)
	if !ok {
		return
	}
	id, ok := cropID(path)
	if !ok {
		notFound(w)
		return
	}

	var in usecase.ListingInput
	if err := decodeJSON(r, &in); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	l, err := h.uc.Update(r.Context(), sess.Email, id, in)
	if err != nil {
		writeUsecaseErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (h *ListingHandler) handleDelete(w http.ResponseWriter, r *http.Request, path string) {
	sess, ok := requireFarmer(w, r)
	if !ok {
		return
	}
	id, ok := cropID(path)
	if !ok {
		notFound(w)
		return
	}
	if err := h.uc.Delete(r.Context(), sess.Email, id); err != nil {
		writeUsecaseErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *ListingHandler) handleImageURL(w http.ResponseWriter, r *http.Request, path string) {
	sess, ok := requireFarmer(w, r)
	if !ok {
		return
	}

	// .../crops/{id}/image-url
	trimmed := strings.TrimSuffix(path, "/image-url")
	id, ok := cropID(trimmed)
	if !ok {
		notFound(w)
		return
	}

	var in struct {
		ContentType string `json:"contentType"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	uploadURL, publicURL, err := h.uc.ImageUploadURL(r.Context(), sess.Email, id, in.ContentType)
	if err != nil {
		writeUsecaseErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"uploadUrl": uploadURL,
		"publicUrl": publicURL,
	})
}

// farmerName resolves the display name for new listings; falls back to the
// email's local part when the profile read fails.
func (h *ListingHandler) farmerName(r *http.Request, sess sessdom.Session) string {
	if h.accounts != nil {
		if acct, err := h.accounts.Profile(r.Context(), acctdom.RoleFarmer, sess.Email); err == nil && acct != nil {
			if name := strings.TrimSpace(acct.Name); name != "" {
				return name
			}
		}
	}
	if at := strings.IndexByte(sess.Email, '@'); at > 0 {
		return sess.Email[:at]
	}
	return sess.Email
}

// cropID extracts the trailing id segment of /api/crops/{id}.
func cropID(path string) (string, bool) {
	i := strings.LastIndex(path, "/crops/")
	if i < 0 {
		return "", false
	}
	id := strings.Trim(path[i+len("/crops/"):], "/")
	if id == "" || strings.Contains(id, "/") {
		return "", false
	}
	return id, true
}
