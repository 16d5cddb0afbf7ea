package auth

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/satshine/satshine-backend/internal/domain/auth"
	"github.com/satshine/satshine-backend/internal/domain/employee"
	"github.com/satshine/satshine-backend/internal/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type passthroughTx struct{}

func (passthroughTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type employeeRepo struct {
	employee.EmployeeRepository
	byID map[string]employee.Employee
}

func (r *employeeRepo) GetByID(_ context.Context, id string) (employee.Employee, error) {
	e, ok := r.byID[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func (r *employeeRepo) GetByCode(_ context.Context, code string) (employee.Employee, error) {
	for _, e := range r.byID {
		if e.EmployeeCode == code {
			return e, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (r *employeeRepo) GetByEmail(_ context.Context, email string) (employee.Employee, error) {
	for _, e := range r.byID {
		if e.Email != nil && *e.Email == email {
			return e, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

type tokenStore struct {
	mu      sync.Mutex
	tokens  map[string]string
	revoked map[string]bool
}

func (s *tokenStore) CreateRefreshToken(_ context.Context, employeeID string, token string, _ int64, _ auth.SessionTrackingRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token] = employeeID
	return nil
}

func (s *tokenStore) IsRefreshTokenRevoked(_ context.Context, token string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tokens[token]; !ok {
		return true, nil
	}
	return s.revoked[token], nil
}

func (s *tokenStore) RevokeRefreshToken(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revoked[token] = true
	return nil
}

type fixture struct {
	svc    auth.AuthService
	jwt    jwt.Service
	store  *tokenStore
	emps   *employeeRepo
	mt     employee.Employee
	retire employee.Employee
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("field-pass-1"), bcrypt.MinCost)
	require.NoError(t, err)
	hashed := string(hash)
	email := "priya@satshine.example"

	f := &fixture{
		jwt:   jwt.NewJWTService("test-secret-key-for-jwt", time.Hour, 24*time.Hour, false),
		store: &tokenStore{tokens: map[string]string{}, revoked: map[string]bool{}},
		emps:  &employeeRepo{byID: map[string]employee.Employee{}},
	}
	f.mt = employee.Employee{
		ID: uuid.Must(uuid.NewV7()).String(), EmployeeCode: "MT-0101", FullName: "Priya",
		Email: &email, PasswordHash: &hashed, Designation: employee.DesignationMT, IsActive: true,
	}
	f.retire = employee.Employee{
		ID: uuid.Must(uuid.NewV7()).String(), EmployeeCode: "MT-0102", FullName: "Arun",
		PasswordHash: &hashed, Designation: employee.DesignationMT, IsActive: false,
	}
	f.emps.byID[f.mt.ID] = f.mt
	f.emps.byID[f.retire.ID] = f.retire

	f.svc = NewAuthService(passthroughTx{}, f.emps, f.jwt, f.store)
	return f
}

func (f *fixture) claims(t *testing.T, token string) map[string]interface{} {
	t.Helper()
	decoded, err := f.jwt.JWTAuth().Decode(token)
	require.NoError(t, err)
	claims, err := decoded.AsMap(context.Background())
	require.NoError(t, err)
	return claims
}

func TestLoginWithEmployeeCode(t *testing.T) {
	f := newFixture(t)
	session := auth.SessionTrackingRequest{IPAddress: "10.0.0.4", UserAgent: "field-app"}

	resp, err := f.svc.LoginWithEmployeeCode(context.Background(), auth.LoginEmployeeCodeRequest{
		EmployeeCode: " mt-0101 ", Password: "field-pass-1",
	}, session)
	require.NoError(t, err)

	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, f.mt.ID, f.store.tokens[resp.RefreshToken])

	claims := f.claims(t, resp.AccessToken)
	assert.Equal(t, f.mt.ID, claims["employee_id"])
	assert.Equal(t, "MT", claims["designation"])
}

func TestLoginWithEmployeeCode_Rejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  auth.LoginEmployeeCodeRequest
		want error
	}{
		{"wrong password", auth.LoginEmployeeCodeRequest{EmployeeCode: "MT-0101", Password: "nope"}, auth.ErrInvalidCredentials},
		{"unknown code", auth.LoginEmployeeCodeRequest{EmployeeCode: "MT-9999", Password: "field-pass-1"}, auth.ErrInvalidCredentials},
		{"inactive", auth.LoginEmployeeCodeRequest{EmployeeCode: "MT-0102", Password: "field-pass-1"}, auth.ErrAccountInactive},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.LoginWithEmployeeCode(ctx, tt.req, auth.SessionTrackingRequest{})
			assert.ErrorIs(t, err, tt.want)
		})
	}

	_, err := f.svc.LoginWithEmployeeCode(ctx, auth.LoginEmployeeCodeRequest{}, auth.SessionTrackingRequest{})
	assert.Error(t, err)
	assert.Empty(t, f.store.tokens)
}

func TestLoginWithGoogle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	resp, err := f.svc.LoginWithGoogle(ctx, "Priya@Satshine.example", true, auth.SessionTrackingRequest{})
	require.NoError(t, err)
	assert.Equal(t, f.mt.ID, f.claims(t, resp.AccessToken)["employee_id"])

	_, err = f.svc.LoginWithGoogle(ctx, "priya@satshine.example", false, auth.SessionTrackingRequest{})
	assert.ErrorIs(t, err, auth.ErrEmailNotVerified)

	_, err = f.svc.LoginWithGoogle(ctx, "stranger@gmail.com", true, auth.SessionTrackingRequest{})
	assert.ErrorIs(t, err, auth.ErrGoogleEmailNotFound)
}

func TestRefreshToken_PicksUpDesignationChange(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	login, err := f.svc.LoginWithEmployeeCode(ctx, auth.LoginEmployeeCodeRequest{EmployeeCode: "MT-0101", Password: "field-pass-1"}, auth.SessionTrackingRequest{})
	require.NoError(t, err)

	promoted := f.mt
	promoted.Designation = employee.DesignationDC
	f.emps.byID[promoted.ID] = promoted

	resp, err := f.svc.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	require.NoError(t, err)
	assert.Equal(t, "DC", f.claims(t, resp.AccessToken)["designation"])
}

func TestRefreshToken_Rejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	login, err := f.svc.LoginWithEmployeeCode(ctx, auth.LoginEmployeeCodeRequest{EmployeeCode: "MT-0101", Password: "field-pass-1"}, auth.SessionTrackingRequest{})
	require.NoError(t, err)

	_, err = f.svc.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: login.AccessToken})
	assert.ErrorIs(t, err, auth.ErrInvalidToken, "access tokens cannot refresh")

	_, err = f.svc.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: "garbage"})
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	require.NoError(t, f.svc.Logout(ctx, login.RefreshToken))
	_, err = f.svc.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	assert.ErrorIs(t, err, auth.ErrRefreshTokenRevoked)
}

func TestLogout_Idempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	login, err := f.svc.LoginWithEmployeeCode(ctx, auth.LoginEmployeeCodeRequest{EmployeeCode: "MT-0101", Password: "field-pass-1"}, auth.SessionTrackingRequest{})
	require.NoError(t, err)

	require.NoError(t, f.svc.Logout(ctx, login.RefreshToken))
	require.NoError(t, f.svc.Logout(ctx, login.RefreshToken))
	require.NoError(t, f.svc.Logout(ctx, ""))
	assert.True(t, f.store.revoked[login.RefreshToken])
}
