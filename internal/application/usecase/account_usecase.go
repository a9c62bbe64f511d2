// internal/application/usecase/account_usecase.go
package usecase

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"strings"

	"github.com/google/uuid"

	acctdom "agrimarket/internal/domain/account"
	sessdom "agrimarket/internal/domain/session"
)

var (
	ErrAccountInvalidArgument = errors.New("account_usecase: invalid argument")
	ErrEmailTaken             = errors.New("account_usecase: email already registered")
	ErrBadCredentials         = errors.New("account_usecase: bad credentials")
)

// RegisterInput is the registration payload shared by both roles.
type RegisterInput struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Password      string `json:"password"`
	ContactNumber string `json:"contactNumber"`
	Address       string `json:"address"`
}

// ProfileInput is the editable profile subset (password changes excluded).
type ProfileInput struct {
	Name          string              `json:"name"`
	ContactNumber string              `json:"contactNumber"`
	Address       string              `json:"address"`
	BankDetails   acctdom.BankDetails `json:"bankDetails"`
}

// LoginResult is what the client persists as its session record.
type LoginResult struct {
	Token string       `json:"token"`
	Email string       `json:"email"`
	Role  acctdom.Role `json:"role"`
}

// AccountUsecase handles registration, login and profile edits.
// Password storage is salted SHA-256; security hardening beyond the
// original's behavior is out of scope.
type AccountUsecase struct {
	accounts acctdom.Repository
	sessions sessdom.Store
	clock    Clock
	newToken func() string
}

func NewAccountUsecase(accounts acctdom.Repository, sessions sessdom.Store) *AccountUsecase {
	return &AccountUsecase{
		accounts: accounts,
		sessions: sessions,
		clock:    systemClock{},
		newToken: uuid.NewString,
	}
}

func (uc *AccountUsecase) WithClock(c Clock) *AccountUsecase {
	if c != nil {
		uc.clock = c
	}
	return uc
}

// Register creates an account for the given role.
func (uc *AccountUsecase) Register(ctx context.Context, role acctdom.Role, in RegisterInput) (*acctdom.Account, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" {
		return nil, ErrAccountInvalidArgument
	}
	if err := acctdom.ValidatePassword(in.Password); err != nil {
		return nil, fieldErr("password", "Password must be 8+ chars with upper, lower, digit and special")
	}

	existing, err := uc.accounts.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, acctdom.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	now := uc.clock.Now()
	a, err := acctdom.New(email, role, in.Name, hashPassword(in.Password), now)
	if err != nil {
		return nil, err
	}
	a.ContactNumber = strings.TrimSpace(in.ContactNumber)
	a.Address = strings.TrimSpace(in.Address)
	if err := a.Validate(); err != nil {
		return nil, err
	}

	if err := uc.accounts.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// Login verifies credentials and opens a session.
func (uc *AccountUsecase) Login(ctx context.Context, email, password string) (LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return LoginResult{}, ErrAccountInvalidArgument
	}

	a, err := uc.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, acctdom.ErrNotFound) {
			return LoginResult{}, ErrBadCredentials
		}
		return LoginResult{}, err
	}
	if !verifyPassword(a.PasswordHash, password) {
		return LoginResult{}, ErrBadCredentials
	}

	s := sessdom.Session{
		Token:     uc.newToken(),
		Email:     a.Email,
		Role:      a.Role,
		CreatedAt: uc.clock.Now(),
	}
	if err := uc.sessions.Put(ctx, s, sessdom.DefaultTTL); err != nil {
		return LoginResult{}, err
	}

	return LoginResult{Token: s.Token, Email: s.Email, Role: s.Role}, nil
}

// Logout revokes the session token.
func (uc *AccountUsecase) Logout(ctx context.Context, token string) error {
	t := strings.TrimSpace(token)
	if t == "" {
		return ErrAccountInvalidArgument
	}
	return uc.sessions.Delete(ctx, t)
}

// Profile returns the account for role/email; the role must match the
// stored one so /api/buyer/x cannot read a farmer profile.
func (uc *AccountUsecase) Profile(ctx context.Context, role acctdom.Role, email string) (*acctdom.Account, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, ErrAccountInvalidArgument
	}

	a, err := uc.accounts.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if a.Role != role {
		return nil, acctdom.ErrNotFound
	}
	return a, nil
}

// UpdateProfile applies the editable subset and persists.
func (uc *AccountUsecase) UpdateProfile(ctx context.Context, role acctdom.Role, email string, in ProfileInput) (*acctdom.Account, error) {
	a, err := uc.Profile(ctx, role, email)
	if err != nil {
		return nil, err
	}

	if n := strings.TrimSpace(in.Name); n != "" {
		a.Name = n
	}
	a.ContactNumber = strings.TrimSpace(in.ContactNumber)
	a.Address = strings.TrimSpace(in.Address)
	a.BankDetails = in.BankDetails
	a.Touch(uc.clock.Now())

	if err := a.Validate(); err != nil {
		return nil, err
	}
	if err := uc.accounts.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// ----------------------------
// Password hashing
// ----------------------------

// Stored form: hex(salt) + "$" + hex(sha256(salt || password)).
func hashPassword(pw string) string {
	salt := make([]byte, 16)
	_, _ = rand.Read(salt)
	return hex.EncodeToString(salt) + "$" + hex.EncodeToString(digest(salt, pw))
}

func verifyPassword(stored, pw string) bool {
	parts := strings.SplitN(stored, "$", 2)
	if len(parts) != 2 {
		return false
	}
	salt, err := hex.DecodeString(parts[0])
	if err != nil {
		return false
	}
	want, err := hex.DecodeString(parts[1])
	if err != nil {
		return false
	}
	got := digest(salt, pw)
	return subtle.ConstantTimeCompare(want, got) == 1
}

func digest(salt []byte, pw string) []byte {
	h := sha256.New()
	h.Write(salt)
	h.Write([]byte(pw))
	return h.Sum(nil)
}
