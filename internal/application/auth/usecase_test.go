package auth_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/gestion-comercial-api/internal/application/auth"
	"github.com/jhoicas/gestion-comercial-api/internal/application/dto"
	"github.com/jhoicas/gestion-comercial-api/internal/domain"
	"github.com/jhoicas/gestion-comercial-api/internal/domain/entity"
	"github.com/jhoicas/gestion-comercial-api/pkg/jwt"
)

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*entity.User
}

func newFakeUserRepo() *fakeUserRepo { return &fakeUserRepo{users: map[string]*entity.User{}} }

func (f *fakeUserRepo) Create(_ context.Context, u *entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, x := range f.users {
		if x.Email == u.Email {
			return domain.ErrDuplicate
		}
	}
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) Update(_ context.Context, u *entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *fakeUserRepo) List(_ context.Context, _, _ int) ([]*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*entity.User, 0, len(f.users))
	for _, u := range f.users {
		out = append(out, u)
	}
	return out, nil
}

func seedUser(t *testing.T, repo *fakeUserRepo, email, password, status string) *entity.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	u := &entity.User{ID: "u-" + email, Email: email, PasswordHash: string(hash), Name: "Ana", Role: entity.RoleVendedor, Status: status}
	require.NoError(t, repo.Create(context.Background(), u))
	return u
}

var jwtCfg = auth.JWTConfig{Secret: "test-secret", ExpMinutes: 60, Issuer: "test"}

func TestLogin_OK(t *testing.T) {
	repo := newFakeUserRepo()
	u := seedUser(t, repo, "ana@example.com", "password123", entity.UserStatusActive)
	uc := auth.NewAuthUseCase(repo, jwtCfg)

	out, err := uc.Login(context.Background(), dto.LoginRequest{Email: " Ana@Example.com ", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, u.ID, out.User.ID)

	userID, role, err := jwt.Parse(jwtCfg.Secret, out.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, userID)
	assert.Equal(t, entity.RoleVendedor, role)
}

func TestLogin_CredencialesInvalidas(t *testing.T) {
	repo := newFakeUserRepo()
	seedUser(t, repo, "ana@example.com", "password123", entity.UserStatusActive)
	uc := auth.NewAuthUseCase(repo, jwtCfg)

	_, err := uc.Login(context.Background(), dto.LoginRequest{Email: "ana@example.com", Password: "mala"})
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))

	_, err = uc.Login(context.Background(), dto.LoginRequest{Email: "nadie@example.com", Password: "password123"})
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
}

func TestLogin_UsuarioInactivo(t *testing.T) {
	repo := newFakeUserRepo()
	seedUser(t, repo, "ana@example.com", "password123", entity.UserStatusInactive)
	uc := auth.NewAuthUseCase(repo, jwtCfg)

	_, err := uc.Login(context.Background(), dto.LoginRequest{Email: "ana@example.com", Password: "password123"})
	assert.True(t, errors.Is(err, domain.ErrForbidden))
}

func TestEnsureAdmin(t *testing.T) {
	repo := newFakeUserRepo()
	uc := auth.NewAuthUseCase(repo, jwtCfg)
	ctx := context.Background()

	created, err := uc.EnsureAdmin(ctx, "admin@example.com", "cambiar123")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = uc.EnsureAdmin(ctx, "admin@example.com", "cambiar123")
	require.NoError(t, err)
	assert.False(t, created)

	created, err = uc.EnsureAdmin(ctx, "", "")
	require.NoError(t, err)
	assert.False(t, created)

	out, err := uc.Login(ctx, dto.LoginRequest{Email: "admin@example.com", Password: "cambiar123"})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, out.User.Role)

	me, err := uc.Me(ctx, out.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", me.Email)
}
