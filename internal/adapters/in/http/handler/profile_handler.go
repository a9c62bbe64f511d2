// internal/adapters/in/http/handler/profile_handler.go
package handler

import (
	"net/http"
	"strings"

	"agrimarket/internal/adapters/in/http/middleware"
	"agrimarket/internal/application/usecase"
	acctdom "agrimarket/internal/domain/account"
)

// ProfileHandler serves account profiles, addressed by role and email.
//
// Routes:
//   - GET /api/buyer/{email},  PUT /api/buyer/{email}
//   - GET /api/farmer/{email}, PUT /api/farmer/{email}
//
// A session may only read and edit its own profile.
type ProfileHandler struct {
	uc *usecase.AccountUsecase
}

func NewProfileHandler(uc *usecase.AccountUsecase) http.Handler {
	return &ProfileHandler{uc: uc}
}

func (h *ProfileHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.uc == nil {
		writeErr(w, http.StatusInternalServerError, "profile handler is not configured")
		return
	}

	sess, ok := middleware.CurrentSession(r)
	if !ok {
		writeErr(w, http.StatusUnauthorized, "login required")
		return
	}

	role, email, ok := profileTarget(r.URL.Path)
	if !ok {
		notFound(w)
		return
	}
	if role != sess.Role || !strings.EqualFold(email, sess.Email) {
		writeErr(w, http.StatusForbidden, "profile belongs to another account")
		return
	}

	switch r.Method {
	case http.MethodGet:
		acct, err := h.uc.Profile(r.Context(), role, email)
		if err != nil {
			writeUsecaseErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, acct)

	case http.MethodPut:
		var in usecase.ProfileInput
		if err := decodeJSON(r, &in); err != nil {
			writeErr(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		acct, err := h.uc.UpdateProfile(r.Context(), role, email, in)
		if err != nil {
			writeUsecaseErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, acct)

	default:
		methodNotAllowed(w)
	}
}

// profileTarget parses ".../buyer/{email}" and ".../farmer/{email}".
func profileTarget(path string) (acctdom.Role, string, bool) {
	p := strings.TrimRight(path, "/")
	for _, role := range []acctdom.Role{acctdom.RoleBuyer, acctdom.RoleFarmer} {
		marker := "/" + string(role) + "/"
		if i := strings.LastIndex(p, marker); i >= 0 {
			email := strings.Trim(p[i+len(marker):], "/")
			if email != "" && !strings.Contains(email, "/") {
				return role, email, true
			}
		}
	}
	return "", "", false
}
