package handler

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/Abdurahmanit/GroupProject/plant-service/internal/domain/entity"
	"github.com/Abdurahmanit/GroupProject/plant-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/plant-service/internal/port/http/middleware"
	"github.com/Abdurahmanit/GroupProject/plant-service/internal/service"
	"github.com/go-chi/chi/v5"
)

type UserHandler struct {
	users service.UserService
	log   logger.Logger
}

func NewUserHandler(users service.UserService, log logger.Logger) *UserHandler {
	return &UserHandler{users: users, log: log}
}

type profileRequest struct {
	Name  string `json:"name"`
	Image string `json:"image"`
}

type roleResponse struct {
	Role *entity.Role `json:"role"`
}

type grantRoleRequest struct {
	Role entity.Role `json:"role"`
}

// Save handles POST /users/{email}: creates the user on first login and
// returns the stored record on every later one.
func (h *UserHandler) Save(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")

	var req profileRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.log, r, err)
		return
	}

	user, err := h.users.UpsertIfAbsent(r.Context(), email, entity.User{Name: req.Name, Image: req.Image})
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// RequestSeller handles PATCH /users/{email}.
func (h *UserHandler) RequestSeller(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")
	if err := selfOrAdmin(r.Context(), h.users, email); err != nil {
		writeError(w, h.log, r, err)
		return
	}

	if err := h.users.RequestRoleChange(r.Context(), email); err != nil {
		writeError(w, h.log, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mutationResult{Acknowledged: true, ModifiedCount: 1})
}

// GetRole handles GET /users/role/{email}. Unknown users get a null role.
func (h *UserHandler) GetRole(w http.ResponseWriter, r *http.Request) {
	role, err := h.users.GetRole(r.Context(), chi.URLParam(r, "email"))
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}

	resp := roleResponse{}
	if role != "" {
		resp.Role = &role
	}
	writeJSON(w, http.StatusOK, resp)
}

// GrantRole handles PATCH /update/role/{email}.
func (h *UserHandler) GrantRole(w http.ResponseWriter, r *http.Request) {
	var req grantRoleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.log, r, err)
		return
	}

	if _, err := h.users.GrantRole(r.Context(), chi.URLParam(r, "email"), req.Role); err != nil {
		writeError(w, h.log, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mutationResult{Acknowledged: true, ModifiedCount: 1})
}

// ListOthers handles GET /all-users/{email}.
func (h *UserHandler) ListOthers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.ListAllExcept(r.Context(), chi.URLParam(r, "email"))
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}
	if users == nil {
		users = []entity.User{}
	}
	writeJSON(w, http.StatusOK, users)
}

type roleGetter interface {
	GetRole(ctx context.Context, email string) (entity.Role, error)
}

// selfOrAdmin allows the caller to act on their own email; anyone else must
// be an admin.
func selfOrAdmin(ctx context.Context, roles roleGetter, email string) error {
	caller := middleware.CallerEmail(ctx)
	if caller == "" {
		return entity.ErrUnauthenticated
	}
	if strings.EqualFold(caller, email) {
		return nil
	}

	role, err := roles.GetRole(ctx, caller)
	if err != nil {
		return fmt.Errorf("failed to resolve caller role: %w", err)
	}
	if role != entity.RoleAdmin {
		return fmt.Errorf("%w: cannot act on behalf of %s", entity.ErrForbidden, email)
	}
	return nil
}
