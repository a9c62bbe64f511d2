// internal/domain/account/entity.go
package account

import (
	"errors"
	"regexp"
	"strings"
	"time"
)

// Role separates the two marketplace surfaces.
type Role string

const (
	RoleBuyer  Role = "buyer"
	RoleFarmer Role = "farmer"
)

// BankDetails are the farmer payout fields; every field is optional but
// validated for shape when present.
type BankDetails struct {
	BankName          string `json:"bankName" firestore:"bankName"`
	AccountNumber     string `json:"accountNumber" firestore:"accountNumber"`
	AccountHolderName string `json:"accountHolderName" firestore:"accountHolderName"`
	IFSCCode          string `json:"ifscCode" firestore:"ifscCode"`
}

// Account is a registered buyer or farmer.
// Email is the natural key (profile endpoints address accounts by email).
type Account struct {
	Email string `json:"email" firestore:"email"`
	Role  Role   `json:"role" firestore:"role"`
	Name  string `json:"name" firestore:"name"`

	// PasswordHash is a salted hash; plaintext never leaves the register
	// and login usecases. Hardening beyond this is out of scope.
	PasswordHash string `json:"-" firestore:"passwordHash"`

	ContactNumber string `json:"contactNumber" firestore:"contactNumber"`
	Address       string `json:"address" firestore:"address"`

	BankDetails BankDetails `json:"bankDetails" firestore:"bankDetails"`

	CreatedAt time.Time `json:"createdAt" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" firestore:"updatedAt"`
}

var (
	ErrInvalidEmail    = errors.New("account: invalid email")
	ErrInvalidRole     = errors.New("account: invalid role")
	ErrInvalidName     = errors.New("account: invalid name")
	ErrInvalidContact  = errors.New("account: invalid contact number")
	ErrInvalidAddress  = errors.New("account: invalid address")
	ErrInvalidBank     = errors.New("account: invalid bank details")
	ErrInvalidPassword = errors.New("account: invalid password")
	ErrNotFound        = errors.New("account: not found")
)

var (
	reName    = regexp.MustCompile(`^[a-zA-Z\s]{2,50}$`)
	reEmail   = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	reContact = regexp.MustCompile(`^[0-9]{10}$`)
	reAccount = regexp.MustCompile(`^[0-9]{9,18}$`)
	reIFSC    = regexp.MustCompile(`^[A-Z]{4}0[A-Z0-9]{6}$`)
)

func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "buyer":
		return RoleBuyer, nil
	case "farmer":
		return RoleFarmer, nil
	default:
		return "", ErrInvalidRole
	}
}

func New(email string, role Role, name, passwordHash string, now time.Time) (*Account, error) {
	a := &Account{
		Email:        strings.ToLower(strings.TrimSpace(email)),
		Role:         role,
		Name:         strings.TrimSpace(name),
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *Account) Touch(now time.Time) {
	a.UpdatedAt = now
}

func (a *Account) Validate() error {
	if a == nil || !reEmail.MatchString(a.Email) {
		return ErrInvalidEmail
	}
	if a.Role != RoleBuyer && a.Role != RoleFarmer {
		return ErrInvalidRole
	}
	if !reName.MatchString(a.Name) {
		return ErrInvalidName
	}
	if a.PasswordHash == "" {
		return ErrInvalidPassword
	}
	if a.ContactNumber != "" && !reContact.MatchString(a.ContactNumber) {
		return ErrInvalidContact
	}
	if a.Address != "" {
		if err := ValidateAddress(a.Address); err != nil {
			return err
		}
	}
	return a.BankDetails.Validate()
}

// ValidateAddress enforces the registration-form rule: at least 10 chars,
// containing both letters and digits.
func ValidateAddress(addr string) error {
	addr = strings.TrimSpace(addr)
	if len(addr) < 10 {
		return ErrInvalidAddress
	}
	hasAlpha, hasDigit := false, false
	for _, r := range addr {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
			hasAlpha = true
		case r >= '0' && r <= '9':
			hasDigit = true
		}
	}
	if !hasAlpha || !hasDigit {
		return ErrInvalidAddress
	}
	return nil
}

// Validate checks shapes only for fields that are present; bank details are
// optional as a whole.
func (b BankDetails) Validate() error {
	if b.AccountNumber != "" && !reAccount.MatchString(b.AccountNumber) {
		return ErrInvalidBank
	}
	if b.IFSCCode != "" && !reIFSC.MatchString(strings.ToUpper(b.IFSCCode)) {
		return ErrInvalidBank
	}
	return nil
}

// ValidatePassword enforces the registration password policy: at least 8
// chars with upper, lower, digit and special.
func ValidatePassword(pw string) error {
	if len(pw) < 8 {
		return ErrInvalidPassword
	}
	var upper, lower, digit, special bool
	for _, r := range pw {
		switch {
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= '0' && r <= '9':
			digit = true
		default:
			special = true
		}
	}
	if !upper || !lower || !digit || !special {
		return ErrInvalidPassword
	}
	return nil
}
