package service

import (
	"context"
	"strings"
	"testing"

	"viveiro/internal/config"
	"viveiro/internal/domain"
	"viveiro/internal/dto"
	"viveiro/internal/model"
	"viveiro/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type stubUsuarios struct {
	byID map[uuid.UUID]*model.Usuario
}

func newStubUsuarios() *stubUsuarios {
	return &stubUsuarios{byID: map[uuid.UUID]*model.Usuario{}}
}

func (r *stubUsuarios) Create(_ context.Context, u *model.Usuario) error {
	u.ID = uuid.New()
	r.byID[u.ID] = u
	return nil
}

func (r *stubUsuarios) FindByUsername(_ context.Context, username string) (*model.Usuario, error) {
	for _, u := range r.byID {
		email := ""
		if u.Email != nil {
			email = strings.ToLower(*u.Email)
		}
		if u.Ativo && (u.Username == username || email == strings.ToLower(username)) {
			return u, nil
		}
	}
	return nil, naoEncontrado("usuário")
}

func (r *stubUsuarios) FindByID(_ context.Context, id uuid.UUID) (*model.Usuario, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, naoEncontrado("usuário")
	}
	return u, nil
}

func (r *stubUsuarios) List(_ context.Context) ([]model.Usuario, error) {
	var out []model.Usuario
	for _, u := range r.byID {
		out = append(out, *u)
	}
	return out, nil
}

func (r *stubUsuarios) Update(_ context.Context, u *model.Usuario) error {
	r.byID[u.ID] = u
	return nil
}

func (r *stubUsuarios) Desativar(_ context.Context, id uuid.UUID) error {
	u, ok := r.byID[id]
	if !ok {
		return naoEncontrado("usuário")
	}
	u.Ativo = false
	return nil
}

var _ repository.UsuarioRepository = (*stubUsuarios)(nil)

func authCfg() *config.Config {
	return &config.Config{JWTSecret: "test-secret", JWTExpirationHours: 8, JWTRefreshHours: 24}
}

func seedUsuario(t *testing.T, repo *stubUsuarios, username, senha string) *model.Usuario {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(senha), bcrypt.MinCost)
	require.NoError(t, err)
	email := username + "@viveiro.test"
	u := &model.Usuario{Username: username, Nome: "Operador", Email: &email, PasswordHash: string(hash), Rol: model.RolOperador, Ativo: true}
	require.NoError(t, repo.Create(context.Background(), u))
	return u
}

func TestAuth_LoginEmiteTokens(t *testing.T) {
	repo := newStubUsuarios()
	u := seedUsuario(t, repo, "caixa1", "senha-segura")
	svc := NewAuthService(repo, authCfg())

	resp, err := svc.Login(context.Background(), dto.LoginRequest{Username: "CAIXA1@viveiro.test", Password: "senha-segura"})
	require.NoError(t, err)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, 8*3600, resp.ExpiresIn)
	assert.Equal(t, u.ID.String(), resp.User.ID)

	claims, err := ParseToken("test-secret", resp.AccessToken)
	require.NoError(t, err)
	assert.True(t, claims.IsAccess())
	assert.Equal(t, model.RolOperador, claims.Rol)
	assert.Equal(t, u.ID.String(), claims.UserID)

	_, err = ParseToken("outro-segredo", resp.AccessToken)
	assert.Error(t, err)
}

func TestAuth_LoginCredenciaisInvalidas(t *testing.T) {
	repo := newStubUsuarios()
	seedUsuario(t, repo, "caixa1", "senha-segura")
	svc := NewAuthService(repo, authCfg())

	_, err := svc.Login(context.Background(), dto.LoginRequest{Username: "caixa1", Password: "errada"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = svc.Login(context.Background(), dto.LoginRequest{Username: "ninguem", Password: "senha-segura"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestAuth_RefreshExigeTokenDeRefresh(t *testing.T) {
	repo := newStubUsuarios()
	u := seedUsuario(t, repo, "caixa1", "senha-segura")
	svc := NewAuthService(repo, authCfg())
	ctx := context.Background()

	login, err := svc.Login(ctx, dto.LoginRequest{Username: "caixa1", Password: "senha-segura"})
	require.NoError(t, err)

	_, err = svc.Refresh(ctx, login.AccessToken)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	novo, err := svc.Refresh(ctx, login.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, novo.AccessToken)

	require.NoError(t, svc.DesativarUsuario(ctx, u.ID))
	_, err = svc.Refresh(ctx, login.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestAuth_CriarEAtualizarUsuario(t *testing.T) {
	repo := newStubUsuarios()
	svc := NewAuthService(repo, authCfg())
	ctx := context.Background()

	criado, err := svc.CriarUsuario(ctx, dto.CriarUsuarioRequest{Username: "gerente", Nome: "Gerente", Password: "12345678", Rol: model.RolGerente})
	require.NoError(t, err)
	assert.True(t, criado.Ativo)

	id := uuid.MustParse(criado.ID)
	atualizado, err := svc.AtualizarUsuario(ctx, id, dto.AtualizarUsuarioRequest{Rol: model.RolAdministrador})
	require.NoError(t, err)
	assert.Equal(t, model.RolAdministrador, atualizado.Rol)
	assert.Equal(t, "Gerente", atualizado.Nome)

	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(repo.byID[id].PasswordHash), []byte("12345678")))

	_, err = svc.AtualizarUsuario(ctx, uuid.New(), dto.AtualizarUsuarioRequest{Nome: "X"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
