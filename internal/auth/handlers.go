package auth

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"rentalboard/internal/api"
	"rentalboard/pkg/config"
)

type Handlers struct {
	Cfg config.Config
}

type loginRequest struct {
	Role     string `json:"role"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
	Role  string `json:"role"`
	Name  string `json:"name"`
}

// Login checks the role password and issues a session token. Two fixed
// roles only; the display name is free text used for audit entries.
func (h Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid json")
		return
	}

	role := req.Role
	if role == "" {
		role = RoleAgent
	}

	var expected string
	switch role {
	case RoleAdmin:
		expected = h.Cfg.Auth.AdminPassword
	case RoleAgent:
		expected = h.Cfg.Auth.AgentPassword
	default:
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "unknown role")
		return
	}

	if expected == "" || subtle.ConstantTimeCompare([]byte(req.Password), []byte(expected)) != 1 {
		api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "incorrect login")
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		if role == RoleAdmin {
			name = "Admin"
		} else {
			name = "Agent"
		}
	}

	token, err := IssueSessionToken(h.Cfg.Auth.SessionSecret, role, name, time.Now())
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "failed to issue session")
		return
	}

	api.WriteJSON(w, http.StatusOK, loginResponse{Token: token, Role: role, Name: name})
}
