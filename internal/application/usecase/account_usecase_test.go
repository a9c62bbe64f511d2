// internal/application/usecase/account_usecase_test.go
package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	acctdom "agrimarket/internal/domain/account"
	sessdom "agrimarket/internal/domain/session"
)

type fakeAccounts struct {
	byEmail map[string]*acctdom.Account
}

func newFakeAccounts() *fakeAccounts {
	return &fakeAccounts{byEmail: map[string]*acctdom.Account{}}
}

func (f *fakeAccounts) GetByEmail(_ context.Context, email string) (*acctdom.Account, error) {
	a, ok := f.byEmail[email]
	if !ok {
		return nil, acctdom.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (f *fakeAccounts) Create(_ context.Context, a *acctdom.Account) error {
	if _, ok := f.byEmail[a.Email]; ok {
		return errors.New("already exists")
	}
	cp := *a
	f.byEmail[a.Email] = &cp
	return nil
}

func (f *fakeAccounts) Update(_ context.Context, a *acctdom.Account) error {
	cp := *a
	f.byEmail[a.Email] = &cp
	return nil
}

type fakeSessions struct {
	byToken map[string]sessdom.Session
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{byToken: map[string]sessdom.Session{}}
}

func (f *fakeSessions) Put(_ context.Context, s sessdom.Session, _ time.Duration) error {
	f.byToken[s.Token] = s
	return nil
}

func (f *fakeSessions) Get(_ context.Context, token string) (sessdom.Session, error) {
	s, ok := f.byToken[token]
	if !ok {
		return sessdom.Session{}, sessdom.ErrNotFound
	}
	return s, nil
}

func (f *fakeSessions) Delete(_ context.Context, token string) error {
	delete(f.byToken, token)
	return nil
}

const goodPassword = "Str0ng!pass"

func registered(t *testing.T) (*AccountUsecase, *fakeAccounts, *fakeSessions) {
	t.Helper()
	accounts := newFakeAccounts()
	sessions := newFakeSessions()
	uc := NewAccountUsecase(accounts, sessions)

	_, err := uc.Register(context.Background(), acctdom.RoleBuyer, RegisterInput{
		Name:     "Asha Kumar",
		Email:    "Asha@Example.com",
		Password: goodPassword,
	})
	require.NoError(t, err)
	return uc, accounts, sessions
}

func TestRegisterLowercasesEmailAndHashesPassword(t *testing.T) {
	_, accounts, _ := registered(t)

	a, ok := accounts.byEmail["asha@example.com"]
	require.True(t, ok, "account stored under lowercased email")
	assert.NotContains(t, a.PasswordHash, goodPassword)
	assert.Contains(t, a.PasswordHash, "$")
}

func TestRegisterRejectsWeakPassword(t *testing.T) {
	uc := NewAccountUsecase(newFakeAccounts(), newFakeSessions())

	_, err := uc.Register(context.Background(), acctdom.RoleBuyer, RegisterInput{
		Name:     "Asha Kumar",
		Email:    "asha@example.com",
		Password: "short",
	})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "password", ve.Fields[0].Field)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	uc, _, _ := registered(t)

	_, err := uc.Register(context.Background(), acctdom.RoleFarmer, RegisterInput{
		Name:     "Other Person",
		Email:    "asha@example.com",
		Password: goodPassword,
	})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLoginOpensSession(t *testing.T) {
	uc, _, sessions := registered(t)

	res, err := uc.Login(context.Background(), "ASHA@example.com", goodPassword)
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, "asha@example.com", res.Email)
	assert.Equal(t, acctdom.RoleBuyer, res.Role)

	s, err := sessions.Get(context.Background(), res.Token)
	require.NoError(t, err)
	assert.Equal(t, "asha@example.com", s.Email)
}

func TestLoginBadCredentials(t *testing.T) {
	uc, _, _ := registered(t)

	_, err := uc.Login(context.Background(), "asha@example.com", "Wr0ng!pass1")
	assert.ErrorIs(t, err, ErrBadCredentials)

	// unknown email answers identically
	_, err = uc.Login(context.Background(), "nobody@example.com", goodPassword)
	assert.ErrorIs(t, err, ErrBadCredentials)
}

func TestLogoutRevokesToken(t *testing.T) {
	uc, _, sessions := registered(t)

	res, err := uc.Login(context.Background(), "asha@example.com", goodPassword)
	require.NoError(t, err)

	require.NoError(t, uc.Logout(context.Background(), res.Token))
	_, err = sessions.Get(context.Background(), res.Token)
	assert.ErrorIs(t, err, sessdom.ErrNotFound)
}

func TestProfileRoleMustMatch(t *testing.T) {
	uc, _, _ := registered(t)

	_, err := uc.Profile(context.Background(), acctdom.RoleFarmer, "asha@example.com")
	assert.ErrorIs(t, err, acctdom.ErrNotFound)

	a, err := uc.Profile(context.Background(), acctdom.RoleBuyer, "asha@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Asha Kumar", a.Name)
}

func TestUpdateProfileValidatesBankDetails(t *testing.T) {
	uc, _, _ := registered(t)

	_, err := uc.UpdateProfile(context.Background(), acctdom.RoleBuyer, "asha@example.com", ProfileInput{
		BankDetails: acctdom.BankDetails{IFSCCode: "not-an-ifsc"},
	})
	assert.Error(t, err)

	a, err := uc.UpdateProfile(context.Background(), acctdom.RoleBuyer, "asha@example.com", ProfileInput{
		ContactNumber: "9876543210",
		Address:       "12 Mandi Road, Pune 411001",
		BankDetails: acctdom.BankDetails{
			BankName:          "State Bank",
			AccountNumber:     "123456789012",
			AccountHolderName: "Asha Kumar",
			IFSCCode:          "SBIN0001234",
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "9876543210", a.ContactNumber)
	assert.Equal(t, "SBIN0001234", a.BankDetails.IFSCCode)
}

func TestPasswordHashRoundTrip(t *testing.T) {
	h := hashPassword(goodPassword)
	assert.True(t, verifyPassword(h, goodPassword))
	assert.False(t, verifyPassword(h, "Other!pass1"))
	assert.False(t, verifyPassword("garbage", goodPassword))
}
