// internal/adapters/in/http/middleware/session_auth.go
package middleware

import (
	"context"
	"net/http"
	"strings"

	fbauth "firebase.google.com/go/v4/auth"

	acctdom "agrimarket/internal/domain/account"
	sessdom "agrimarket/internal/domain/session"
)

// FirebaseAuthClient is an alias so DI wiring can pass the client around
// without importing the firebase SDK everywhere.
type FirebaseAuthClient = fbauth.Client

// context keys use a private type, not raw strings (SA1029)
type ctxKey struct{ name string }

var ctxKeySession = ctxKey{name: "currentSession"}

// SessionAuth resolves
//
//   - Authorization: Bearer <TOKEN>
//
// against the session store. When a Firebase auth client is configured it is
// tried second, so mobile clients can present a Firebase ID token instead of
// a login-issued session token; the token's email claim becomes the
// identity and the role claim (default buyer) the role.
type SessionAuth struct {
	Sessions     sessdom.Store
	FirebaseAuth *FirebaseAuthClient // optional
}

func (m *SessionAuth) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.Sessions == nil {
			http.Error(w, "auth middleware not initialized", http.StatusServiceUnavailable)
			return
		}

		authHeader := r.Header.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			http.Error(w, "unauthorized: missing bearer token", http.StatusUnauthorized)
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if token == "" {
			http.Error(w, "unauthorized: empty bearer token", http.StatusUnauthorized)
			return
		}

		sess, err := m.Sessions.Get(r.Context(), token)
		if err != nil {
			sess, err = m.verifyFirebase(r.Context(), token)
		}
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), ctxKeySession, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *SessionAuth) verifyFirebase(ctx context.Context, idToken string) (sessdom.Session, error) {
	if m.FirebaseAuth == nil {
		return sessdom.Session{}, sessdom.ErrNotFound
	}

	token, err := m.FirebaseAuth.VerifyIDToken(ctx, idToken)
	if err != nil {
		return sessdom.Session{}, err
	}

	email := ""
	if raw, ok := token.Claims["email"]; ok {
		if e, ok2 := raw.(string); ok2 {
			email = strings.ToLower(strings.TrimSpace(e))
		}
	}
	if email == "" {
		return sessdom.Session{}, sessdom.ErrNotFound
	}

	role := acctdom.RoleBuyer
	if raw, ok := token.Claims["role"]; ok {
		if s, ok2 := raw.(string); ok2 {
			if parsed, perr := acctdom.ParseRole(s); perr == nil {
				role = parsed
			}
		}
	}

	return sessdom.Session{Token: idToken, Email: email, Role: role}, nil
}

// Optional resolves the bearer token when present but never rejects; the
// handler decides which operations require a session. Used on mixed
// public/private route groups like the crop catalog.
func (m *SessionAuth) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if m.Sessions == nil || !strings.HasPrefix(authHeader, "Bearer ") || token == "" {
			next.ServeHTTP(w, r)
			return
		}

		sess, err := m.Sessions.Get(r.Context(), token)
		if err != nil {
			sess, err = m.verifyFirebase(r.Context(), token)
		}
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), ctxKeySession, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// CurrentSession returns the authenticated session placed by SessionAuth.
func CurrentSession(r *http.Request) (sessdom.Session, bool) {
	v := r.Context().Value(ctxKeySession)
	sess, ok := v.(sessdom.Session)
	if !ok || strings.TrimSpace(sess.Email) == "" {
		return sessdom.Session{}, false
	}
	return sess, true
}
