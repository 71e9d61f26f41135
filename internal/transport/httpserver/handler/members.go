package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	memberdomain "asociacion-app-go/internal/domain/member"
	"asociacion-app-go/internal/transport/httpserver/middleware"
	"github.com/go-chi/chi/v5"
)

type memberResponse struct {
	memberdomain.Member
	Expired bool `json:"expired"`
}

func toMemberResponse(m memberdomain.Member) memberResponse {
	return memberResponse{Member: m, Expired: m.IsExpired(time.Now())}
}

type createMemberRequest struct {
	Name       string  `json:"name"`
	LoginName  string  `json:"login_name"`
	Password   string  `json:"password"`
	Role       string  `json:"role"`
	BirthYear  *int    `json:"birth_year,omitempty"`
	BirthDate  *string `json:"birth_date,omitempty"`
	Address    *string `json:"address,omitempty"`
	PostalCode *string `json:"postal_code,omitempty"`
	Locality   *string `json:"locality,omitempty"`
}

func (h *Handlers) Me(w http.ResponseWriter, r *http.Request) {
	h.AuthMe(w, r)
}

func (h *Handlers) MyBeneficiaries(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	beneficiaries, err := h.Members.ListBeneficiaries(r.Context(), user.ID)
	if err != nil {
		h.log.InternalError("members.my_beneficiaries: list failed", err, "member_id", user.ID)
		writeInternalError(w)
		return
	}

	writeJSON(w, http.StatusOK, beneficiaries)
}

func (h *Handlers) ListMembers(w http.ResponseWriter, r *http.Request) {
	filter := memberdomain.ListFilter{
		Role:   strings.TrimSpace(r.URL.Query().Get("role")),
		Search: strings.TrimSpace(r.URL.Query().Get("search")),
	}

	members, err := h.Members.ListMembers(r.Context(), filter)
	if err != nil {
		h.log.InternalError("members.list: list failed", err)
		writeInternalError(w)
		return
	}

	result := make([]memberResponse, 0, len(members))
	for _, m := range members {
		result = append(result, toMemberResponse(m))
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handlers) GetMember(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	m, err := h.Members.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, memberdomain.ErrMemberNotFound) {
			writeError(w, http.StatusNotFound, "member_not_found", "socio no encontrado")
			return
		}
		h.log.InternalError("members.get: get failed", err, "member_id", id)
		writeInternalError(w)
		return
	}

	writeJSON(w, http.StatusOK, toMemberResponse(*m))
}

func (h *Handlers) CreateMember(w http.ResponseWriter, r *http.Request) {
	var req createMemberRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.LoginName = strings.TrimSpace(req.LoginName)
	if req.Name == "" || req.LoginName == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "name, login_name and password are required")
		return
	}
	role := req.Role
	if role == "" {
		role = memberdomain.RoleMember
	}
	if role != memberdomain.RoleMember && role != memberdomain.RoleBoard {
		writeError(w, http.StatusBadRequest, "invalid_request", "role must be socio or directiva")
		return
	}

	var birthDate *time.Time
	if req.BirthDate != nil {
		parsed, err := parseDateRequired(*req.BirthDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "birth_date must be YYYY-MM-DD")
			return
		}
		birthDate = &parsed
	}

	m, err := h.Members.CreateAccount(r.Context(), memberdomain.CreateAccountInput{
		Name:         req.Name,
		LoginName:    req.LoginName,
		Password:     req.Password,
		Role:         role,
		ValidThrough: memberdomain.EndOfYear(time.Now()),
		BirthYear:    req.BirthYear,
		BirthDate:    birthDate,
		Address:      req.Address,
		PostalCode:   req.PostalCode,
		Locality:     req.Locality,
	})
	if err != nil {
		if errors.Is(err, memberdomain.ErrDuplicateLogin) {
			h.log.BusinessError("members.create: duplicate login", err, "login_name", req.LoginName)
			writeError(w, http.StatusConflict, "duplicate_login", "el nombre de usuario ya existe")
			return
		}
		h.log.InternalError("members.create: create failed", err, "login_name", req.LoginName)
		writeInternalError(w)
		return
	}

	writeJSON(w, http.StatusCreated, toMemberResponse(*m))
}

func (h *Handlers) RenewMember(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	m, err := h.Members.RenewValidity(r.Context(), id)
	if err != nil {
		if errors.Is(err, memberdomain.ErrMemberNotFound) {
			writeError(w, http.StatusNotFound, "member_not_found", "socio no encontrado")
			return
		}
		h.log.InternalError("members.renew: renew failed", err, "member_id", id)
		writeInternalError(w)
		return
	}

	writeJSON(w, http.StatusOK, toMemberResponse(*m))
}

func (h *Handlers) ExpiringMembers(w http.ResponseWriter, r *http.Request) {
	members, err := h.Members.ExpiringSoon(r.Context(), memberdomain.ExpiryWindow)
	if err != nil {
		h.log.InternalError("members.expiring: list failed", err)
		writeInternalError(w)
		return
	}

	result := make([]memberResponse, 0, len(members))
	for _, m := range members {
		result = append(result, toMemberResponse(m))
	}
	writeJSON(w, http.StatusOK, result)
}
