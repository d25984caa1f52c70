package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/resonoraudio/resonora/internal/apperror"
)

// mockAdminRepo implements AdminRepository for testing.
type mockAdminRepo struct {
	createFn          func(ctx context.Context, admin *AdminUser) error
	findByIDFn        func(ctx context.Context, id string) (*AdminUser, error)
	findByEmailFn     func(ctx context.Context, email string) (*AdminUser, error)
	emailExistsFn     func(ctx context.Context, email string) (bool, error)
	updateLastLoginFn func(ctx context.Context, id string) error
	updatePasswordFn  func(ctx context.Context, id, passwordHash string) error
	countFn           func(ctx context.Context) (int, error)
}

func (m *mockAdminRepo) Create(ctx context.Context, admin *AdminUser) error {
	if m.createFn != nil {
		return m.createFn(ctx, admin)
	}
	return nil
}

func (m *mockAdminRepo) FindByID(ctx context.Context, id string) (*AdminUser, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, apperror.NewNotFound("admin not found")
}

func (m *mockAdminRepo) FindByEmail(ctx context.Context, email string) (*AdminUser, error) {
	if m.findByEmailFn != nil {
		return m.findByEmailFn(ctx, email)
	}
	return nil, apperror.NewNotFound("admin not found")
}

func (m *mockAdminRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	if m.emailExistsFn != nil {
		return m.emailExistsFn(ctx, email)
	}
	return false, nil
}

func (m *mockAdminRepo) UpdateLastLogin(ctx context.Context, id string) error {
	if m.updateLastLoginFn != nil {
		return m.updateLastLoginFn(ctx, id)
	}
	return nil
}

func (m *mockAdminRepo) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	if m.updatePasswordFn != nil {
		return m.updatePasswordFn(ctx, id, passwordHash)
	}
	return nil
}

func (m *mockAdminRepo) Count(ctx context.Context) (int, error) {
	if m.countFn != nil {
		return m.countFn(ctx)
	}
	return 0, nil
}

// newTestService spins up a miniredis-backed auth service.
func newTestService(t *testing.T, repo AdminRepository) AuthService {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return NewAuthService(repo, rdb, time.Hour)
}

func assertAppError(t *testing.T, err error, expectedCode int) {
	t.Helper()
	if err == nil {
		t.Fatal("expected an error, got nil")
	}
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected AppError, got %T: %v", err, err)
	}
	if appErr.Code != expectedCode {
		t.Errorf("expected status code %d, got %d (message: %s)", expectedCode, appErr.Code, appErr.Message)
	}
}

// --- Password hashing ---

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := hashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("hashPassword: %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$") {
		t.Errorf("unexpected hash format: %s", hash)
	}
	if !verifyPassword("correct horse battery staple", hash) {
		t.Error("correct password rejected")
	}
	if verifyPassword("wrong password", hash) {
		t.Error("wrong password accepted")
	}
}

func TestHashPassword_UniqueSalts(t *testing.T) {
	h1, _ := hashPassword("same password")
	h2, _ := hashPassword("same password")
	if h1 == h2 {
		t.Error("two hashes of the same password must differ (random salt)")
	}
}

func TestVerifyPassword_MalformedHash(t *testing.T) {
	malformed := []string{"", "nothash", "$argon2id$v=19$bad", "$argon2id$v=19$m=x,t=y,p=z$salt$hash"}
	for _, h := range malformed {
		if verifyPassword("password", h) {
			t.Errorf("malformed hash %q accepted", h)
		}
	}
}

// --- Login / sessions ---

func loginRepo(t *testing.T, password string) *mockAdminRepo {
	t.Helper()
	hash, err := hashPassword(password)
	if err != nil {
		t.Fatal(err)
	}
	return &mockAdminRepo{
		findByEmailFn: func(ctx context.Context, email string) (*AdminUser, error) {
			if email == "ops@resonora.audio" {
				return &AdminUser{ID: "a-1", Email: email, Name: "Ops", PasswordHash: hash}, nil
			}
			return nil, apperror.NewNotFound("admin not found")
		},
	}
}

func TestLogin_SuccessCreatesSession(t *testing.T) {
	svc := newTestService(t, loginRepo(t, "hunter22hunter22"))

	token, admin, err := svc.Login(context.Background(), LoginInput{
		Email:    "Ops@Resonora.audio",
		Password: "hunter22hunter22",
	})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if admin.ID != "a-1" {
		t.Errorf("unexpected admin %q", admin.ID)
	}
	if len(token) != 64 {
		t.Errorf("expected a 64-char hex token, got %d chars", len(token))
	}

	session, err := svc.ValidateSession(context.Background(), token)
	if err != nil {
		t.Fatalf("ValidateSession: %v", err)
	}
	if session.AdminID != "a-1" || session.Email != "ops@resonora.audio" {
		t.Errorf("unexpected session %+v", session)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	svc := newTestService(t, loginRepo(t, "hunter22hunter22"))
	_, _, err := svc.Login(context.Background(), LoginInput{
		Email:    "ops@resonora.audio",
		Password: "not the password",
	})
	assertAppError(t, err, 401)
}

func TestLogin_UnknownEmailSameError(t *testing.T) {
	svc := newTestService(t, loginRepo(t, "hunter22hunter22"))
	_, _, err := svc.Login(context.Background(), LoginInput{
		Email:    "nobody@resonora.audio",
		Password: "hunter22hunter22",
	})
	assertAppError(t, err, 401)
	if !strings.Contains(err.Error(), "invalid email or password") {
		t.Errorf("unknown email must not be distinguishable: %q", err.Error())
	}
}

func TestDestroySession(t *testing.T) {
	svc := newTestService(t, loginRepo(t, "hunter22hunter22"))
	token, _, err := svc.Login(context.Background(), LoginInput{
		Email:    "ops@resonora.audio",
		Password: "hunter22hunter22",
	})
	if err != nil {
		t.Fatal(err)
	}

	if err := svc.DestroySession(context.Background(), token); err != nil {
		t.Fatalf("DestroySession: %v", err)
	}
	_, err = svc.ValidateSession(context.Background(), token)
	assertAppError(t, err, 401)
}

// --- Account management ---

func TestCreateAdmin_Success(t *testing.T) {
	var created *AdminUser
	repo := &mockAdminRepo{
		createFn: func(ctx context.Context, admin *AdminUser) error {
			created = admin
			return nil
		},
	}
	svc := newTestService(t, repo)

	admin, err := svc.CreateAdmin(context.Background(), CreateAdminInput{
		Email:    " Ops@Resonora.audio ",
		Name:     "Ops",
		Password: "hunter22hunter22",
	})
	if err != nil {
		t.Fatalf("CreateAdmin: %v", err)
	}
	if admin.Email != "ops@resonora.audio" {
		t.Errorf("email not normalized: %q", admin.Email)
	}
	if created == nil || created.PasswordHash == "" || created.PasswordHash == "hunter22hunter22" {
		t.Error("password must be stored hashed")
	}
	if admin.ID == "" {
		t.Error("expected a generated ID")
	}
}

func TestCreateAdmin_DuplicateEmail(t *testing.T) {
	repo := &mockAdminRepo{
		emailExistsFn: func(ctx context.Context, email string) (bool, error) { return true, nil },
	}
	svc := newTestService(t, repo)
	_, err := svc.CreateAdmin(context.Background(), CreateAdminInput{
		Email:    "ops@resonora.audio",
		Password: "hunter22hunter22",
	})
	assertAppError(t, err, 409)
}

func TestCreateAdmin_ShortPassword(t *testing.T) {
	svc := newTestService(t, &mockAdminRepo{})
	_, err := svc.CreateAdmin(context.Background(), CreateAdminInput{
		Email:    "ops@resonora.audio",
		Password: "short",
	})
	assertAppError(t, err, 400)
}

func TestChangePassword(t *testing.T) {
	hash, _ := hashPassword("old password 123")
	var updatedHash string
	repo := &mockAdminRepo{
		findByIDFn: func(ctx context.Context, id string) (*AdminUser, error) {
			return &AdminUser{ID: id, PasswordHash: hash}, nil
		},
		updatePasswordFn: func(ctx context.Context, id, passwordHash string) error {
			updatedHash = passwordHash
			return nil
		},
	}
	svc := newTestService(t, repo)

	if err := svc.ChangePassword(context.Background(), "a-1", "old password 123", "new password 456"); err != nil {
		t.Fatalf("ChangePassword: %v", err)
	}
	if !verifyPassword("new password 456", updatedHash) {
		t.Error("stored hash does not match the new password")
	}

	err := svc.ChangePassword(context.Background(), "a-1", "wrong current", "new password 456")
	assertAppError(t, err, 401)
}
