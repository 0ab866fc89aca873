package session

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harentsoaR/simple-ehr/internal/models"
)

var (
	ErrInvalidToken = errors.New("invalid session token")
	ErrRevoked      = errors.New("session has been revoked")
)

// Identity is the authenticated principal of one request.
type Identity struct {
	UserID    primitive.ObjectID
	Role      models.Role
	TokenID   string
	ExpiresAt time.Time
}

type Claims struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Revocations remembers logged-out token ids until they would have expired.
type Revocations interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// Manager issues and verifies signed session tokens.
type Manager struct {
	secret      []byte
	ttl         time.Duration
	revocations Revocations
}

func NewManager(secret string, ttl time.Duration, revocations Revocations) *Manager {
	return &Manager{secret: []byte(secret), ttl: ttl, revocations: revocations}
}

func (m *Manager) TTL() time.Duration { return m.ttl }

// Issue signs a token carrying the user's id and role.
func (m *Manager) Issue(userID primitive.ObjectID, role models.Role) (string, Identity, error) {
	if len(m.secret) == 0 {
		return "", Identity{}, errors.New("session secret is not configured")
	}
	now := time.Now()
	id := Identity{
		UserID:    userID,
		Role:      role,
		TokenID:   uuid.New().String(),
		ExpiresAt: now.Add(m.ttl),
	}
	claims := &Claims{
		UserID: userID.Hex(),
		Role:   role.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        id.TokenID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(id.ExpiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", Identity{}, errors.Wrap(err, "sign session token")
	}
	return token, id, nil
}

// Verify checks signature, expiry, role tag and revocation.
func (m *Manager) Verify(ctx context.Context, tokenStr string) (Identity, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	}, jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return Identity{}, errors.Wrap(ErrInvalidToken, errMessage(err))
	}

	role, err := models.ParseRole(claims.Role)
	if err != nil {
		return Identity{}, errors.Wrap(ErrInvalidToken, err.Error())
	}
	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return Identity{}, errors.Wrap(ErrInvalidToken, "malformed user id")
	}
	if claims.ID == "" {
		return Identity{}, errors.Wrap(ErrInvalidToken, "missing token id")
	}

	revoked, err := m.revocations.IsRevoked(ctx, claims.ID)
	if err != nil {
		return Identity{}, errors.Wrap(err, "check revocation")
	}
	if revoked {
		return Identity{}, ErrRevoked
	}

	return Identity{
		UserID:    userID,
		Role:      role,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// Revoke ends the session; the token stays rejected until its expiry.
func (m *Manager) Revoke(ctx context.Context, id Identity) error {
	ttl := time.Until(id.ExpiresAt)
	if ttl <= 0 {
		return nil
	}
	return m.revocations.Revoke(ctx, id.TokenID, ttl)
}

func errMessage(err error) string {
	if err == nil {
		return "token not valid"
	}
	return err.Error()
}
