package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Verification failures. Handlers map both to 401.
var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// Claims carried by access and refresh tokens alike.
type Claims struct {
	UserID string `json:"user_id"`
	Phone  string `json:"phone"`
	Role   string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// Pair bundles a freshly issued access/refresh credential set.
type Pair struct {
	AccessToken        string
	RefreshToken       string
	TokenExpiry        time.Time
	RefreshTokenExpiry time.Time
}

// Manager signs and verifies session tokens. Access and refresh tokens use
// distinct injected secrets, so one kind cannot stand in for the other.
type Manager struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

// NewManager constructs a Manager with the given secrets and lifetimes.
func NewManager(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *Manager {
	return &Manager{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

// IssuePair mints a fresh access and refresh token for a user. The caller is
// responsible for persisting the pair on the user record.
func (m *Manager) IssuePair(userID uuid.UUID, phone, role string) (Pair, error) {
	access, accessExp, err := m.sign(m.accessSecret, userID, phone, role, m.accessTTL)
	if err != nil {
		return Pair{}, err
	}

	refresh, refreshExp, err := m.sign(m.refreshSecret, userID, phone, role, m.refreshTTL)
	if err != nil {
		return Pair{}, err
	}

	return Pair{
		AccessToken:        access,
		RefreshToken:       refresh,
		TokenExpiry:        accessExp,
		RefreshTokenExpiry: refreshExp,
	}, nil
}

// IssueAccess mints only a new access token, used when rotating on refresh.
func (m *Manager) IssueAccess(userID uuid.UUID, phone, role string) (string, time.Time, error) {
	return m.sign(m.accessSecret, userID, phone, role, m.accessTTL)
}

// VerifyAccess checks signature and expiry against the access secret.
func (m *Manager) VerifyAccess(tokenString string) (*Claims, error) {
	return parse(m.accessSecret, tokenString)
}

// VerifyRefresh checks signature and expiry against the refresh secret. The
// cross-check against the token stored on the user record happens in the
// session flow, not here.
func (m *Manager) VerifyRefresh(tokenString string) (*Claims, error) {
	return parse(m.refreshSecret, tokenString)
}

func (m *Manager) sign(secret []byte, userID uuid.UUID, phone, role string, ttl time.Duration) (string, time.Time, error) {
	now := time.Now()
	expiry := now.Add(ttl)

	claims := &Claims{
		UserID: userID.String(),
		Phone:  phone,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(expiry),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiry, nil
}

func parse(secret []byte, tokenString string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
