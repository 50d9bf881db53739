package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"learnhub/internal/models"
	"learnhub/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	defaultTokenTTL = 7 * 24 * time.Hour

	minUsernameLen = 3
	maxUsernameLen = 30
	minPasswordLen = 6
)

// Domain errors for auth flows.
var (
	ErrUsernameLength     = errors.New("username must be between 3 and 30 characters")
	ErrPasswordTooShort   = errors.New("password must be at least 6 characters")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrUserNotFound       = errors.New("user not found")
)

// AuthService handles registration, login, tokens and profile updates.
type AuthService struct {
	users repository.Users
	cfg   AuthConfig
}

func NewAuthService(users repository.Users, cfg AuthConfig) *AuthService {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = defaultTokenTTL
	}
	return &AuthService{users: users, cfg: cfg}
}

// Claims defines the JWT payload: the caller's identifier and username.
type Claims struct {
	jwt.RegisteredClaims
	UserID   int    `json:"user_id"`
	Username string `json:"username"`
}

// Register validates the credentials, hashes the password and creates the
// account, returning the stored user and a fresh token.
func (s *AuthService) Register(ctx context.Context, username, password string) (*models.User, string, error) {
	if n := len(username); n < minUsernameLen || n > maxUsernameLen {
		return nil, "", ErrUsernameLength
	}
	if len(password) < minPasswordLen {
		return nil, "", ErrPasswordTooShort
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	id, err := s.users.Create(ctx, username, hash)
	if err != nil {
		return nil, "", err
	}

	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if u == nil {
		return nil, "", fmt.Errorf("user %d vanished after insert", id)
	}

	token, err := s.issueToken(u.ID, u.Username)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// Login verifies the credentials and returns the user and a fresh token.
// Unknown username and wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, username, password string) (*models.User, string, error) {
	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, "", err
	}
	if u == nil {
		return nil, "", ErrInvalidCredentials
	}
	if err := verifyPassword(u.PasswordHash, password); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.issueToken(u.ID, u.Username)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// ParseToken verifies a bearer token and resolves the caller identity.
// Signature mismatch, malformed input and expiry all return ErrInvalidToken.
func (s *AuthService) ParseToken(accessToken string) (Identity, error) {
	token, err := jwt.ParseWithClaims(accessToken, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Ensure HMAC signing is used
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.SigningKey), nil
	})
	if err != nil {
		return Identity{}, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return Identity{}, ErrInvalidToken
	}
	return Identity{UserID: claims.UserID, Username: claims.Username}, nil
}

// GetProfile returns the user's profile or ErrUserNotFound.
func (s *AuthService) GetProfile(ctx context.Context, userID int) (*models.User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// UpdateProfile applies the provided fields. A new password is validated and
// re-hashed; the plaintext never reaches the store.
func (s *AuthService) UpdateProfile(ctx context.Context, userID int, upd ProfileUpdate) (*models.User, error) {
	patch := repository.ProfilePatch{Bio: upd.Bio}

	if upd.Username != nil {
		if n := len(*upd.Username); n < minUsernameLen || n > maxUsernameLen {
			return nil, ErrUsernameLength
		}
		patch.Username = upd.Username
	}
	if upd.Password != nil {
		if len(*upd.Password) < minPasswordLen {
			return nil, ErrPasswordTooShort
		}
		hash, err := hashPassword(*upd.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		patch.PasswordHash = &hash
	}

	u, err := s.users.UpdateProfile(ctx, userID, patch)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// helper: hash password safely
func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// helper: verify password against hash
func verifyPassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// helper: issue a signed JWT carrying the user's id and username
func (s *AuthService) issueToken(userID int, username string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.TokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		UserID:   userID,
		Username: username,
	})
	return token.SignedString([]byte(s.cfg.SigningKey))
}
