package jwt

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

// ConfigurationError reports a signing setting that is absent or unusable.
// It is a startup-class failure and must not be mapped to a per-request status.
type ConfigurationError struct {
	Setting string
}

func (e *ConfigurationError) Error() string {
	return "jwt: missing or invalid configuration: " + e.Setting
}

type Claims struct {
	UserID    uuid.UUID `json:"user_id"`
	TokenType string    `json:"token_type"`

	jwtlib.RegisteredClaims
}

type Service interface {
	GenerateAccessToken(userID uuid.UUID) (string, error)
	GenerateRefreshToken(userID uuid.UUID) (string, time.Time, error)
	ValidateAccessToken(tokenString string) (Claims, error)
	ValidateRefreshToken(tokenString string) (Claims, error)
}

type Options struct {
	AccessSecret     string
	RefreshSecret    string
	AccessExpiresIn  time.Duration
	RefreshExpiresIn time.Duration
}

type HMACService struct {
	accessSecret  []byte
	refreshSecret []byte

	accessExpiresIn  time.Duration
	refreshExpiresIn time.Duration

	now func() time.Time
}

func NewHMACService(opts Options) (*HMACService, error) {
	switch {
	case opts.AccessSecret == "":
		return nil, &ConfigurationError{Setting: "JWT_ACCESS_SECRET"}
	case opts.RefreshSecret == "":
		return nil, &ConfigurationError{Setting: "JWT_REFRESH_SECRET"}
	case opts.AccessExpiresIn <= 0:
		return nil, &ConfigurationError{Setting: "JWT_ACCESS_EXPIRES"}
	case opts.RefreshExpiresIn <= 0:
		return nil, &ConfigurationError{Setting: "JWT_REFRESH_EXPIRES"}
	}

	return &HMACService{
		accessSecret:     []byte(opts.AccessSecret),
		refreshSecret:    []byte(opts.RefreshSecret),
		accessExpiresIn:  opts.AccessExpiresIn,
		refreshExpiresIn: opts.RefreshExpiresIn,
		now:              time.Now,
	}, nil
}

// WithClock replaces the time source; used by tests to mint already-expired tokens.
func (s *HMACService) WithClock(now func() time.Time) *HMACService {
	cp := *s
	cp.now = now
	return &cp
}

func (s *HMACService) GenerateAccessToken(userID uuid.UUID) (string, error) {
	tok, _, err := s.generate(TokenTypeAccess, userID)
	return tok, err
}

func (s *HMACService) GenerateRefreshToken(userID uuid.UUID) (string, time.Time, error) {
	return s.generate(TokenTypeRefresh, userID)
}

func (s *HMACService) ValidateAccessToken(tokenString string) (Claims, error) {
	return s.validate(tokenString, s.accessSecret, TokenTypeAccess)
}

func (s *HMACService) ValidateRefreshToken(tokenString string) (Claims, error) {
	return s.validate(tokenString, s.refreshSecret, TokenTypeRefresh)
}

func (s *HMACService) RefreshTokenTTL() time.Duration {
	return s.refreshExpiresIn
}

func (s *HMACService) AccessTokenTTL() time.Duration {
	return s.accessExpiresIn
}

// HashToken is the at-rest form of a refresh token.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func (s *HMACService) generate(tokenType string, userID uuid.UUID) (string, time.Time, error) {
	if userID == uuid.Nil {
		return "", time.Time{}, ErrTokenInvalid
	}
	secret, expIn, err := s.secretAndExpiry(tokenType)
	if err != nil {
		return "", time.Time{}, err
	}

	now := s.now().UTC()
	exp := now.Add(expIn)

	c := Claims{
		UserID:    userID,
		TokenType: tokenType,
		RegisteredClaims: jwtlib.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwtlib.NewNumericDate(now),
			ExpiresAt: jwtlib.NewNumericDate(exp),
			Subject:   userID.String(),
		},
	}

	t := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, c)
	signed, err := t.SignedString(secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

func (s *HMACService) validate(tokenString string, secret []byte, wantType string) (Claims, error) {
	if tokenString == "" || len(secret) == 0 {
		return Claims{}, ErrTokenInvalid
	}

	p := jwtlib.NewParser(
		jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}),
		jwtlib.WithTimeFunc(s.now),
		jwtlib.WithExpirationRequired(),
	)

	var c Claims
	tok, err := p.ParseWithClaims(tokenString, &c, func(token *jwtlib.Token) (any, error) {
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwtlib.ErrTokenExpired) {
			return Claims{}, ErrTokenExpired
		}
		return Claims{}, ErrTokenInvalid
	}
	if tok == nil || !tok.Valid {
		return Claims{}, ErrTokenInvalid
	}
	if c.TokenType != wantType || c.UserID == uuid.Nil {
		return Claims{}, ErrTokenInvalid
	}

	return c, nil
}

func (s *HMACService) secretAndExpiry(tokenType string) ([]byte, time.Duration, error) {
	switch tokenType {
	case TokenTypeAccess:
		if s == nil || len(s.accessSecret) == 0 || s.accessExpiresIn <= 0 {
			return nil, 0, &ConfigurationError{Setting: "JWT_ACCESS_SECRET"}
		}
		return s.accessSecret, s.accessExpiresIn, nil
	case TokenTypeRefresh:
		if s == nil || len(s.refreshSecret) == 0 || s.refreshExpiresIn <= 0 {
			return nil, 0, &ConfigurationError{Setting: "JWT_REFRESH_SECRET"}
		}
		return s.refreshSecret, s.refreshExpiresIn, nil
	default:
		return nil, 0, ErrTokenInvalid
	}
}
