package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/Abdurahmanit/GroupProject/plant-service/internal/auth"
	"github.com/Abdurahmanit/GroupProject/plant-service/internal/domain/entity"
	"github.com/Abdurahmanit/GroupProject/plant-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/plant-service/internal/platform/metrics"
)

const (
	msgUnauthorized = "unauthorized access"
	msgForbidden    = "Forbidden Access!"
)

type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

type RoleResolver interface {
	GetRole(ctx context.Context, email string) (entity.Role, error)
}

// Gate guards routes with credential and role checks. Each check writes its
// own rejection and stops the chain.
type Gate struct {
	verifier TokenVerifier
	roles    RoleResolver
	metrics  *metrics.Manager
	log      logger.Logger
}

func NewGate(verifier TokenVerifier, roles RoleResolver, m *metrics.Manager, log logger.Logger) *Gate {
	return &Gate{
		verifier: verifier,
		roles:    roles,
		metrics:  m,
		log:      log.Named("Gate"),
	}
}

// RequireAuthenticated verifies the session credential from the token cookie,
// or from an Authorization bearer header, and stores its claims in the context.
func (g *Gate) RequireAuthenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := tokenFromRequest(r)
		if token == "" {
			g.reject(w, http.StatusUnauthorized, "missing_token", msgUnauthorized)
			return
		}

		claims, err := g.verifier.Verify(token)
		if err != nil {
			g.log.Debugf("Rejected credential on %s %s: %v", r.Method, r.URL.Path, err)
			g.reject(w, http.StatusUnauthorized, "invalid_token", msgUnauthorized)
			return
		}

		next.ServeHTTP(w, r.WithContext(withClaims(r.Context(), claims)))
	})
}

// RequireRole admits callers whose stored role is one of roles. It must run
// after RequireAuthenticated.
func (g *Gate) RequireRole(roles ...entity.Role) func(http.Handler) http.Handler {
	allowed := make(map[entity.Role]struct{}, len(roles))
	names := make([]string, 0, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
		names = append(names, string(role))
	}
	message := msgForbidden + " " + strings.Join(names, "/") + " only Actions"

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			email := CallerEmail(r.Context())
			if email == "" {
				g.reject(w, http.StatusUnauthorized, "missing_claims", msgUnauthorized)
				return
			}

			role, err := g.roles.GetRole(r.Context(), email)
			if err != nil {
				g.log.Errorf("Role lookup for %s failed: %v", email, err)
				writeMessage(w, http.StatusInternalServerError, "internal server error")
				return
			}
			if _, ok := allowed[role]; !ok {
				g.log.Infof("User %s with role %q denied %s %s", email, role, r.Method, r.URL.Path)
				g.reject(w, http.StatusForbidden, "role", message)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func (g *Gate) reject(w http.ResponseWriter, status int, reason, message string) {
	if g.metrics != nil {
		g.metrics.AuthRejectionsTotal.WithLabelValues(reason).Inc()
	}
	writeMessage(w, status, message)
}

func tokenFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie(auth.CookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	header := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": message})
}
