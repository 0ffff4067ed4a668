/*
handlers_auth.go - Authentication endpoints

PURPOSE:
  Login, registration, token refresh, and the role-probe routes clients use
  to test what the current token can reach.

STATUS QUIRK:
  Login answers 404 (not 401) on bad credentials. Clients depend on it, so
  it stays. Wrong-password and unknown-email are indistinguishable either
  way.

SEE ALSO:
  - auth/password.go: Credential verification
  - auth/jwt.go: Token issuance and refresh
*/
package api

import (
	"errors"
	"net/http"

	"github.com/warp/mission-engine/core"
	"github.com/warp/mission-engine/user"
)

// Login exchanges an email/password pair for a signed token.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeValid(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid login request", err)
		return
	}

	u, err := h.Passwords.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, http.StatusNotFound, "Invalid email or password", nil)
		return
	}

	token, err := h.Tokens.Generate(u)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to issue token", err)
		return
	}

	writeJSON(w, http.StatusOK, TokenResponse{Token: token})
}

// Register creates an account with the default user role and logs it in.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := decodeValid(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid registration request", err)
		return
	}

	u, err := h.Passwords.Register(r.Context(), user.User{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		ManagerID: req.ManagerID,
	}, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrEmailExists):
			writeError(w, http.StatusConflict, "Email already registered", nil)
		case errors.Is(err, core.ErrWeakPassword):
			writeError(w, http.StatusBadRequest, "Password too weak", err)
		default:
			writeError(w, http.StatusInternalServerError, "Failed to register", err)
		}
		return
	}

	token, err := h.Tokens.Generate(u)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to issue token", err)
		return
	}

	writeJSON(w, http.StatusCreated, TokenResponse{Token: token})
}

// Refresh re-signs the still-valid token from the Authorization header.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token == "" {
		writeError(w, http.StatusBadRequest, "Missing authorization token", nil)
		return
	}

	fresh, err := h.Tokens.Refresh(token)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid or expired token", nil)
		return
	}

	writeJSON(w, http.StatusOK, TokenResponse{Token: fresh})
}

// ProbeOK answers a bare OK; the middleware in front of each probe route
// does the actual role check.
func (h *Handler) ProbeOK(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "OK"})
}
