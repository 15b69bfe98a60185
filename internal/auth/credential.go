package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Abdurahmanit/GroupProject/plant-service/internal/domain/entity"
	"github.com/golang-jwt/jwt/v5"
)

const CookieName = "token"

// Claims is the identity carried by a session credential.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

type Issuer struct {
	secret     []byte
	ttl        time.Duration
	production bool
	now        func() time.Time
}

func NewIssuer(secret string, ttl time.Duration, production bool) (*Issuer, error) {
	if secret == "" {
		return nil, errors.New("jwt secret must not be empty")
	}
	if ttl <= 0 {
		return nil, errors.New("token ttl must be positive")
	}
	return &Issuer{
		secret:     []byte(secret),
		ttl:        ttl,
		production: production,
		now:        time.Now,
	}, nil
}

// Issue signs a credential for email. There is no server-side session; the
// token stays valid until it expires.
func (i *Issuer) Issue(email string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "", fmt.Errorf("%w: email is required", entity.ErrInvalidInput)
	}

	now := i.now()
	claims := Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (i *Issuer) Verify(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, fmt.Errorf("%w: token is missing", entity.ErrUnauthenticated)
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return i.secret, nil
	}, jwt.WithTimeFunc(i.now), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: token has expired", entity.ErrUnauthenticated)
		}
		return nil, fmt.Errorf("%w: %v", entity.ErrUnauthenticated, err)
	}
	if !token.Valid || claims.Email == "" {
		return nil, fmt.Errorf("%w: token is not valid", entity.ErrUnauthenticated)
	}
	return claims, nil
}

// SessionCookie wraps a token for the browser. Production deployments serve
// the client from another site, so the cookie must be cross-site.
func (i *Issuer) SessionCookie(token string) *http.Cookie {
	c := i.baseCookie()
	c.Value = token
	c.Expires = i.now().Add(i.ttl)
	return c
}

// ClearedCookie expires the session cookie. The token itself is not revoked.
func (i *Issuer) ClearedCookie() *http.Cookie {
	c := i.baseCookie()
	c.MaxAge = -1
	c.Expires = time.Unix(0, 0)
	return c
}

func (i *Issuer) baseCookie() *http.Cookie {
	c := &http.Cookie{
		Name:     CookieName,
		Path:     "/",
		HttpOnly: true,
		Secure:   i.production,
		SameSite: http.SameSiteStrictMode,
	}
	if i.production {
		c.SameSite = http.SameSiteNoneMode
	}
	return c
}
