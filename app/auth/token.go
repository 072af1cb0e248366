package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/storelab/commerce-api/models"
)

const (
	typAccess  = "access"
	typRefresh = "refresh"
)

// ErrInvalidToken covers expired, malformed, mistyped and badly signed
// tokens alike.
var ErrInvalidToken = errors.New("invalid token")

// Claims is what the rest of the application consumes from a verified
// bearer token.
type Claims struct {
	UserID      uint
	Username    string
	Email       string
	IsSuperuser bool
}

// TokenManager issues and verifies HS256 access/refresh token pairs. Role
// flags ride inside the token so the admin gate can run without a database
// hit, but ownership checks always reload the user.
type TokenManager struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewTokenManager(secret string, accessTTL, refreshTTL time.Duration) *TokenManager {
	return &TokenManager{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// IssuePair returns a fresh access and refresh token for the user.
func (m *TokenManager) IssuePair(user *models.User) (access, refresh string, err error) {
	if access, err = m.issue(user, typAccess, m.accessTTL); err != nil {
		return "", "", err
	}
	if refresh, err = m.issue(user, typRefresh, m.refreshTTL); err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

// IssueAccess mints a new access token, used by the refresh endpoint.
func (m *TokenManager) IssueAccess(user *models.User) (string, error) {
	return m.issue(user, typAccess, m.accessTTL)
}

func (m *TokenManager) issue(user *models.User, typ string, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":      user.ID,
		"username":     user.Username,
		"email":        user.Email,
		"is_superuser": user.IsSuperuser,
		"typ":          typ,
		"iat":          now.Unix(),
		"exp":          now.Add(ttl).Unix(),
	})
	return token.SignedString(m.secret)
}

// ParseAccess verifies an access token and returns its claims.
func (m *TokenManager) ParseAccess(token string) (*Claims, error) {
	return m.parse(token, typAccess)
}

// ParseRefresh verifies a refresh token and returns its claims.
func (m *TokenManager) ParseRefresh(token string) (*Claims, error) {
	return m.parse(token, typRefresh)
}

func (m *TokenManager) parse(token, wantTyp string) (*Claims, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}
	if typ, _ := claims["typ"].(string); typ != wantTyp {
		return nil, ErrInvalidToken
	}
	id, ok := claims["user_id"].(float64)
	if !ok {
		return nil, ErrInvalidToken
	}

	username, _ := claims["username"].(string)
	email, _ := claims["email"].(string)
	isSuperuser, _ := claims["is_superuser"].(bool)
	return &Claims{
		UserID:      uint(id),
		Username:    username,
		Email:       email,
		IsSuperuser: isSuperuser,
	}, nil
}
