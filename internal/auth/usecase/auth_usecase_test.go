package usecase

import (
	"testing"
	"time"

	authdomain "github.com/thamiresml/thracker-sub002/internal/auth/domain"
	authdto "github.com/thamiresml/thracker-sub002/internal/auth/dto"
	"github.com/thamiresml/thracker-sub002/pkg/config"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserRepo struct {
	users []*authdomain.User
}

func (f *fakeUserRepo) Create(user *authdomain.User) error {
	user.ID = uuid.New().String()
	f.users = append(f.users, user)
	return nil
}

func (f *fakeUserRepo) FindByEmail(email string) (*authdomain.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) FindByID(id string) (*authdomain.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) Update(user *authdomain.User) error { return nil }

func newAuthFixture() AuthUsecase {
	cfg := &config.Config{JWTSecret: "test-secret", JWTAccessExpiry: 15 * time.Minute}
	return NewAuthUsecase(&fakeUserRepo{}, cfg)
}

func TestRegisterLoginValidateRoundTrip(t *testing.T) {
	uc := newAuthFixture()

	registered, err := uc.Register(&authdto.RegisterRequest{
		Email:    "jane@example.com",
		Password: "secret123",
		Name:     "Jane",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, registered.AccessToken)

	loggedIn, err := uc.Login(&authdto.LoginRequest{Email: "jane@example.com", Password: "secret123"})
	require.NoError(t, err)

	user, err := uc.ValidateToken(loggedIn.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, user.ID)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	uc := newAuthFixture()

	req := &authdto.RegisterRequest{Email: "jane@example.com", Password: "secret123", Name: "Jane"}
	_, err := uc.Register(req)
	require.NoError(t, err)

	_, err = uc.Register(req)
	assert.ErrorContains(t, err, "already registered")
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	uc := newAuthFixture()

	_, err := uc.Register(&authdto.RegisterRequest{Email: "jane@example.com", Password: "secret123", Name: "Jane"})
	require.NoError(t, err)

	_, err = uc.Login(&authdto.LoginRequest{Email: "jane@example.com", Password: "wrong-password"})
	assert.Error(t, err)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	uc := newAuthFixture()

	_, err := uc.ValidateToken("not-a-token")
	assert.Error(t, err)
}
