// internal/adapters/in/http/handler/auth_handler.go
package handler

import (
	"net/http"
	"strings"

	"agrimarket/internal/application/usecase"
	acctdom "agrimarket/internal/domain/account"
)

// AuthHandler serves registration, login and logout.
//
// Routes:
//   - POST /api/register/buyer
//   - POST /api/register/farmer
//   - POST /api/login
//   - POST /api/logout
type AuthHandler struct {
	uc *usecase.AccountUsecase
}

func NewAuthHandler(uc *usecase.AccountUsecase) http.Handler {
	return &AuthHandler{uc: uc}
}

func (h *AuthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.uc == nil {
		writeErr(w, http.StatusInternalServerError, "auth handler is not configured")
		return
	}
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	path := strings.TrimRight(r.URL.Path, "/")
	switch {
	case strings.HasSuffix(path, "/register/buyer"):
		h.handleRegister(w, r, acctdom.RoleBuyer)
	case strings.HasSuffix(path, "/register/farmer"):
		h.handleRegister(w, r, acctdom.RoleFarmer)
	case strings.HasSuffix(path, "/login"):
		h.handleLogin(w, r)
	case strings.HasSuffix(path, "/logout"):
		h.handleLogout(w, r)
	default:
		notFound(w)
	}
}

func (h *AuthHandler) handleRegister(w http.ResponseWriter, r *http.Request, role acctdom.Role) {
	var in usecase.RegisterInput
	if err := decodeJSON(r, &in); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	acct, err := h.uc.Register(r.Context(), role, in)
	if err != nil {
		writeUsecaseErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, acct)
}

func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	res, err := h.uc.Login(r.Context(), in.Email, in.Password)
	if err != nil {
		writeUsecaseErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *AuthHandler) handleLogout(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimSpace(strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer "))
	if token == "" {
		writeErr(w, http.StatusBadRequest, "missing bearer token")
		return
	}
	if err := h.uc.Logout(r.Context(), token); err != nil {
		writeUsecaseErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "logged_out"})
}
