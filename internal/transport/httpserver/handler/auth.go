package handler

import (
	"errors"
	"net/http"
	"strings"

	memberdomain "asociacion-app-go/internal/domain/member"
	"asociacion-app-go/internal/transport/httpserver/middleware"
)

type loginRequest struct {
	LoginName string `json:"login_name"`
	Password  string `json:"password"`
}

type loginResponse struct {
	Token  string         `json:"token"`
	Member memberResponse `json:"member"`
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	req.LoginName = strings.TrimSpace(req.LoginName)
	if req.LoginName == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "login_name and password are required")
		return
	}

	m, err := h.Members.Authenticate(r.Context(), req.LoginName, req.Password)
	if err != nil {
		if errors.Is(err, memberdomain.ErrInvalidCredentials) {
			h.log.BusinessError("auth.login: invalid credentials", err, "login_name", req.LoginName)
			writeError(w, http.StatusUnauthorized, "invalid_credentials", "usuario o contraseña incorrectos")
			return
		}
		h.log.InternalError("auth.login: authenticate failed", err, "login_name", req.LoginName)
		writeInternalError(w)
		return
	}

	token, err := h.auth.IssueToken(*m)
	if err != nil {
		h.log.InternalError("auth.login: issue token failed", err, "member_id", m.ID)
		writeInternalError(w)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{Token: token, Member: toMemberResponse(*m)})
}

// Logout kicks off a best-effort snapshot and returns immediately. Tokens
// are stateless, so there is no session to tear down; the snapshot runs in
// the background and its failures never surface here.
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	h.Backups.RunAsync()
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) AuthMe(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	m, err := h.Members.GetByID(r.Context(), user.ID)
	if err != nil {
		if errors.Is(err, memberdomain.ErrMemberNotFound) {
			writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
			return
		}
		h.log.InternalError("auth.me: get member failed", err, "member_id", user.ID)
		writeInternalError(w)
		return
	}

	writeJSON(w, http.StatusOK, toMemberResponse(*m))
}
