package handler

import (
	"net/http"

	"github.com/Abdurahmanit/GroupProject/plant-service/internal/auth"
	"github.com/Abdurahmanit/GroupProject/plant-service/internal/platform/logger"
)

type CredentialIssuer interface {
	Issue(email string) (string, error)
	SessionCookie(token string) *http.Cookie
	ClearedCookie() *http.Cookie
}

type AuthHandler struct {
	issuer CredentialIssuer
	log    logger.Logger
}

func NewAuthHandler(issuer CredentialIssuer, log logger.Logger) *AuthHandler {
	return &AuthHandler{issuer: issuer, log: log}
}

type issueRequest struct {
	Email string `json:"email"`
}

type successResponse struct {
	Success bool `json:"success"`
}

// IssueToken handles POST /jwt.
func (h *AuthHandler) IssueToken(w http.ResponseWriter, r *http.Request) {
	var req issueRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.log, r, err)
		return
	}

	token, err := h.issuer.Issue(req.Email)
	if err != nil {
		writeError(w, h.log, r, err)
		return
	}

	http.SetCookie(w, h.issuer.SessionCookie(token))
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

// Logout handles GET /logout. Tokens stay valid until they expire.
func (h *AuthHandler) Logout(w http.ResponseWriter, _ *http.Request) {
	http.SetCookie(w, h.issuer.ClearedCookie())
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

var _ CredentialIssuer = (*auth.Issuer)(nil)
