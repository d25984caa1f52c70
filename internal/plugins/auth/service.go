package auth

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/argon2"

	"github.com/resonoraudio/resonora/internal/apperror"
)

// sessionKeyPrefix is the Redis key prefix for session data.
const sessionKeyPrefix = "session:"

// sessionTokenBytes is the number of random bytes in a session token.
// 32 bytes = 256 bits of entropy, hex-encoded to 64 characters.
const sessionTokenBytes = 32

// argon2id parameters following the OWASP recommendation for a small
// self-hosted deployment: memory=64MB, iterations=3, parallelism=4.
const (
	argonTime    = 3
	argonMemory  = 64 * 1024 // 64 MB in KiB
	argonThreads = 4
	argonKeyLen  = 32
	argonSaltLen = 16
)

// AuthService defines the business logic contract for admin authentication.
type AuthService interface {
	Login(ctx context.Context, input LoginInput) (token string, admin *AdminUser, err error)
	ValidateSession(ctx context.Context, token string) (*Session, error)
	DestroySession(ctx context.Context, token string) error
	CreateAdmin(ctx context.Context, input CreateAdminInput) (*AdminUser, error)
	ChangePassword(ctx context.Context, adminID, current, next string) error
}

// authService implements AuthService with argon2id hashing and Redis sessions.
type authService struct {
	repo       AdminRepository
	redis      *redis.Client
	sessionTTL time.Duration
}

// NewAuthService creates a new auth service.
func NewAuthService(repo AdminRepository, rdb *redis.Client, sessionTTL time.Duration) AuthService {
	return &authService{repo: repo, redis: rdb, sessionTTL: sessionTTL}
}

// Login authenticates an admin by email and password. On success it creates a
// session in Redis and returns the token for the cookie.
func (s *authService) Login(ctx context.Context, input LoginInput) (string, *AdminUser, error) {
	admin, err := s.repo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(input.Email)))
	if err != nil {
		// Don't reveal whether the email exists.
		if apperror.SafeCode(err) == 404 {
			return "", nil, apperror.NewUnauthorized("invalid email or password")
		}
		return "", nil, apperror.NewInternal(fmt.Errorf("finding admin: %w", err))
	}

	if !verifyPassword(input.Password, admin.PasswordHash) {
		return "", nil, apperror.NewUnauthorized("invalid email or password")
	}

	token, err := s.createSession(ctx, admin)
	if err != nil {
		return "", nil, apperror.NewInternal(fmt.Errorf("creating session: %w", err))
	}

	if err := s.repo.UpdateLastLogin(ctx, admin.ID); err != nil {
		slog.Warn("failed to update last login",
			slog.String("admin_id", admin.ID),
			slog.Any("error", err),
		)
	}

	slog.Info("admin logged in", slog.String("admin_id", admin.ID), slog.String("email", admin.Email))
	return token, admin, nil
}

// ValidateSession looks up a session token in Redis.
func (s *authService) ValidateSession(ctx context.Context, token string) (*Session, error) {
	data, err := s.redis.Get(ctx, sessionKeyPrefix+token).Bytes()
	if err == redis.Nil {
		return nil, apperror.NewUnauthorized("session expired or invalid")
	}
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("reading session from Redis: %w", err))
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("unmarshaling session: %w", err))
	}
	return &session, nil
}

// DestroySession removes a session from Redis, logging the admin out.
func (s *authService) DestroySession(ctx context.Context, token string) error {
	if err := s.redis.Del(ctx, sessionKeyPrefix+token).Err(); err != nil {
		return apperror.NewInternal(fmt.Errorf("deleting session from Redis: %w", err))
	}
	return nil
}

// CreateAdmin creates a new admin account with a hashed password.
func (s *authService) CreateAdmin(ctx context.Context, input CreateAdminInput) (*AdminUser, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, apperror.NewBadRequest("a valid email is required")
	}
	if len(input.Password) < 8 {
		return nil, apperror.NewBadRequest("password must be at least 8 characters")
	}

	exists, err := s.repo.EmailExists(ctx, email)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("checking email: %w", err))
	}
	if exists {
		return nil, apperror.NewConflict("an account with this email already exists")
	}

	hash, err := hashPassword(input.Password)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("hashing password: %w", err))
	}

	admin := &AdminUser{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         strings.TrimSpace(input.Name),
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, admin); err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("creating admin: %w", err))
	}

	slog.Info("admin account created", slog.String("admin_id", admin.ID), slog.String("email", admin.Email))
	return admin, nil
}

// ChangePassword verifies the current password and replaces it.
func (s *authService) ChangePassword(ctx context.Context, adminID, current, next string) error {
	if len(next) < 8 {
		return apperror.NewBadRequest("password must be at least 8 characters")
	}

	admin, err := s.repo.FindByID(ctx, adminID)
	if err != nil {
		return err
	}
	if !verifyPassword(current, admin.PasswordHash) {
		return apperror.NewUnauthorized("current password is incorrect")
	}

	hash, err := hashPassword(next)
	if err != nil {
		return apperror.NewInternal(fmt.Errorf("hashing password: %w", err))
	}
	if err := s.repo.UpdatePassword(ctx, adminID, hash); err != nil {
		return err
	}

	slog.Info("admin password changed", slog.String("admin_id", adminID))
	return nil
}

// createSession generates a random token, stores the session in Redis with
// the configured TTL, and returns the token.
func (s *authService) createSession(ctx context.Context, admin *AdminUser) (string, error) {
	token, err := generateSessionToken()
	if err != nil {
		return "", fmt.Errorf("generating session token: %w", err)
	}

	session := Session{
		AdminID:   admin.ID,
		Email:     admin.Email,
		Name:      admin.Name,
		CreatedAt: time.Now().UTC(),
	}
	data, err := json.Marshal(session)
	if err != nil {
		return "", fmt.Errorf("marshaling session: %w", err)
	}

	if err := s.redis.Set(ctx, sessionKeyPrefix+token, data, s.sessionTTL).Err(); err != nil {
		return "", fmt.Errorf("storing session in Redis: %w", err)
	}
	return token, nil
}

// --- Password hashing (argon2id) ---

// hashPassword creates an argon2id hash in the standard PHC string format:
// $argon2id$v=19$m=65536,t=3,p=4$<salt>$<hash>. The format is self-contained,
// so verification needs no separate salt storage.
func hashPassword(password string) (string, error) {
	salt := make([]byte, argonSaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generating salt: %w", err)
	}

	hash := argon2.IDKey([]byte(password), salt, argonTime, argonMemory, argonThreads, argonKeyLen)

	b64Salt := base64.RawStdEncoding.EncodeToString(salt)
	b64Hash := base64.RawStdEncoding.EncodeToString(hash)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, argonMemory, argonTime, argonThreads, b64Salt, b64Hash), nil
}

// verifyPassword checks a plaintext password against an argon2id hash string
// using the parameters embedded in the hash.
func verifyPassword(password, encodedHash string) bool {
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 {
		return false
	}

	var memory, iterations uint32
	var parallelism uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &iterations, &parallelism); err != nil {
		return false
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false
	}
	expected, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return false
	}

	computed := argon2.IDKey([]byte(password), salt, iterations, memory, parallelism, uint32(len(expected)))
	return subtle.ConstantTimeCompare(expected, computed) == 1
}

// generateSessionToken creates a cryptographically random hex-encoded token.
func generateSessionToken() (string, error) {
	b := make([]byte, sessionTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
