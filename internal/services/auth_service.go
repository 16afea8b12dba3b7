package services

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/matyasmehes/szakdolgozat/internal/auth"
	"github.com/matyasmehes/szakdolgozat/internal/models"
	"github.com/matyasmehes/szakdolgozat/internal/repositories"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenConfig carries the deployment-wide token settings. It is built once
// at process start and injected into the AuthService; nothing mutates it
// afterwards.
type TokenConfig struct {
	Secret   []byte
	Issuer   string
	Audience string
	TTL      time.Duration
}

// Claims are the identity attributes embedded in an issued token. The
// subject holds the user's ID in decimal form.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// UserID parses the subject claim as the authenticated user's ID. A missing
// or non-numeric subject is an authorization failure.
func (c *Claims) UserID() (uint, error) {
	id, err := strconv.ParseUint(c.Subject, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: non-numeric subject %q", ErrInvalidToken, c.Subject)
	}
	return uint(id), nil
}

// AuthService handles registration, login and bearer token issuance.
type AuthService struct {
	userRepo repositories.UserRepository
	tokens   TokenConfig
}

// NewAuthService creates a new AuthService. A zero token TTL defaults to 24
// hours.
func NewAuthService(userRepo repositories.UserRepository, tokens TokenConfig) *AuthService {
	if tokens.TTL == 0 {
		tokens.TTL = 24 * time.Hour
	}
	return &AuthService{
		userRepo: userRepo,
		tokens:   tokens,
	}
}

// Register creates a new user with a fresh salt and password digest.
// A duplicate email surfaces as repositories.ErrEmailTaken.
func (s *AuthService) Register(req *models.RegisterRequest) (*models.User, error) {
	salt, err := auth.GenerateSalt()
	if err != nil {
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	user := &models.User{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		PasswordHash: auth.HashPassword(req.Password, salt),
		Salt:         salt,
		Active:       true,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, repositories.ErrEmailTaken) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to register user: %w", err)
	}
	return user, nil
}

// Login verifies the credentials and returns a signed token. An unknown
// email and a wrong password both yield ErrInvalidCredentials.
func (s *AuthService) Login(email, password string) (string, error) {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return "", ErrInvalidCredentials
	}
	if !auth.VerifyPassword(password, user.PasswordHash, user.Salt) {
		return "", ErrInvalidCredentials
	}
	return s.IssueToken(user)
}

// IssueToken produces a signed bearer token for the user, valid from now
// until now + TTL.
func (s *AuthService) IssueToken(user *models.User) (string, error) {
	now := time.Now()
	claims := Claims{
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
			Issuer:    s.tokens.Issuer,
			Audience:  jwt.ClaimStrings{s.tokens.Audience},
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokens.TTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.tokens.Secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken verifies the signature, issuer, audience and expiry of a
// token and returns its claims. Expiry is enforced with zero leeway; a token
// is rejected from the exact expiry instant onwards.
func (s *AuthService) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) {
			return s.tokens.Secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.tokens.Issuer),
		jwt.WithAudience(s.tokens.Audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Profile returns the non-sensitive view of a user.
func (s *AuthService) Profile(userID uint) (*models.ProfileView, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	return &models.ProfileView{
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}, nil
}
