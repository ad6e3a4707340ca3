// Package auth implements staff login and token issuance for the admin
// endpoints (order listing, status updates, the live feed).
package auth

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pquerna/otp/totp"
	"golang.org/x/crypto/bcrypt"

	"dinarex/pkg/errors"
)

// Credentials is the configured staff account. TOTPSecret is optional;
// when set, logins require a valid code.
type Credentials struct {
	Email        string
	PasswordHash string
	TOTPSecret   string
}

// Service checks credentials and issues bearer tokens.
type Service struct {
	creds     Credentials
	jwtSecret string
	jwtExpiry time.Duration
}

// NewService constructs a Service for the configured staff account.
func NewService(creds Credentials, jwtSecret string, jwtExpiry time.Duration) *Service {
	return &Service{
		creds:     creds,
		jwtSecret: jwtSecret,
		jwtExpiry: jwtExpiry,
	}
}

// LoginRequest captures staff credentials.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	TOTPCode string `json:"totpCode,omitempty"`
}

// TokenResponse is returned on successful login.
type TokenResponse struct {
	AccessToken string    `json:"accessToken"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// Login verifies the password (and TOTP code when enabled) and issues a
// signed token.
func (s *Service) Login(req *LoginRequest) (*TokenResponse, error) {
	if !strings.EqualFold(strings.TrimSpace(req.Email), s.creds.Email) {
		return nil, errors.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.creds.PasswordHash), []byte(req.Password)); err != nil {
		return nil, errors.ErrInvalidCredentials
	}

	if s.creds.TOTPSecret != "" {
		if strings.TrimSpace(req.TOTPCode) == "" {
			return nil, errors.ErrTOTPRequired
		}
		if !totp.Validate(req.TOTPCode, s.creds.TOTPSecret) {
			return nil, errors.ErrTOTPInvalid
		}
	}

	return s.generateToken()
}

func (s *Service) generateToken() (*TokenResponse, error) {
	expiresAt := time.Now().Add(s.jwtExpiry)

	claims := jwt.MapClaims{
		"email": s.creds.Email,
		"role":  "staff",
		"exp":   expiresAt.Unix(),
		"iat":   time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	accessToken, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &TokenResponse{
		AccessToken: accessToken,
		ExpiresAt:   expiresAt,
	}, nil
}
