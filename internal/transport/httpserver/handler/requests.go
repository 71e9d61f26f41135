package handler

import (
	"errors"
	"net/http"
	"strings"

	requestdomain "asociacion-app-go/internal/domain/request"
	"github.com/go-chi/chi/v5"
)

type dependentPayload struct {
	Name          string `json:"name"`
	FirstSurname  string `json:"first_surname"`
	SecondSurname string `json:"second_surname,omitempty"`
	BirthYear     int    `json:"birth_year"`
}

type submitRequestPayload struct {
	Name           string             `json:"name"`
	FirstSurname   string             `json:"first_surname"`
	SecondSurname  string             `json:"second_surname,omitempty"`
	Mobile         string             `json:"mobile"`
	BirthDate      string             `json:"birth_date"`
	HouseholdCount int                `json:"household_count"`
	PaymentMethod  string             `json:"payment_method"`
	Password       string             `json:"password"`
	Address        string             `json:"address,omitempty"`
	PostalCode     string             `json:"postal_code,omitempty"`
	Locality       string             `json:"locality,omitempty"`
	Dependents     []dependentPayload `json:"dependents"`
}

type submitResponse struct {
	requestdomain.MembershipRequest
	AccessToken string `json:"access_token"`
}

type approvalResponse struct {
	Request      *requestdomain.MembershipRequest `json:"request"`
	MemberID     string                           `json:"member_id"`
	MemberNumber string                           `json:"member_number"`
	LoginName    string                           `json:"login_name"`
	Password     string                           `json:"password"`
}

func (h *Handlers) SubmitRequest(w http.ResponseWriter, r *http.Request) {
	var payload submitRequestPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	input, errMsg := payload.toSubmitInput()
	if errMsg != "" {
		writeError(w, http.StatusBadRequest, "invalid_request", errMsg)
		return
	}

	req, err := h.Requests.Submit(r.Context(), input)
	if err != nil {
		if errors.Is(err, requestdomain.ErrInvalidInput) {
			h.log.BusinessError("requests.submit: invalid input", err)
			writeError(w, http.StatusBadRequest, "invalid_request", inputReason(err))
			return
		}
		h.log.InternalError("requests.submit: submit failed", err)
		writeInternalError(w)
		return
	}

	// The access token is disclosed exactly once, to the applicant, so they
	// can revisit the confirmation page.
	writeJSON(w, http.StatusCreated, submitResponse{
		MembershipRequest: *req,
		AccessToken:       req.AccessToken,
	})
}

func (h *Handlers) GetRequestByToken(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	req, err := h.Requests.GetByToken(r.Context(), token)
	if err != nil {
		if errors.Is(err, requestdomain.ErrRequestNotFound) {
			writeError(w, http.StatusNotFound, "request_not_found", "solicitud no encontrada")
			return
		}
		h.log.InternalError("requests.get_by_token: get failed", err)
		writeInternalError(w)
		return
	}

	writeJSON(w, http.StatusOK, req)
}

func (h *Handlers) ListRequests(w http.ResponseWriter, r *http.Request) {
	status := strings.TrimSpace(r.URL.Query().Get("status"))

	requests, err := h.Requests.List(r.Context(), status)
	if err != nil {
		h.log.InternalError("requests.list: list failed", err, "status", status)
		writeInternalError(w)
		return
	}

	writeJSON(w, http.StatusOK, requests)
}

func (h *Handlers) ApproveRequest(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	result, err := h.Requests.Approve(r.Context(), id)
	if err != nil {
		h.writeRequestError(w, err, "requests.approve", id)
		return
	}

	h.log.Info("requests.approve: request approved", "request_id", id, "member_number", result.MemberNumber)
	writeJSON(w, http.StatusOK, approvalResponse{
		Request:      result.Request,
		MemberID:     result.MemberID,
		MemberNumber: result.MemberNumber,
		LoginName:    result.LoginName,
		Password:     result.Password,
	})
}

func (h *Handlers) RejectRequest(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	req, err := h.Requests.Reject(r.Context(), id)
	if err != nil {
		h.writeRequestError(w, err, "requests.reject", id)
		return
	}

	writeJSON(w, http.StatusOK, req)
}

func (h *Handlers) EditRequest(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var payload submitRequestPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	input, errMsg := payload.toSubmitInput()
	if errMsg != "" {
		writeError(w, http.StatusBadRequest, "invalid_request", errMsg)
		return
	}

	req, err := h.Requests.Edit(r.Context(), requestdomain.EditInput{
		RequestID:      id,
		Name:           input.Name,
		FirstSurname:   input.FirstSurname,
		SecondSurname:  input.SecondSurname,
		Mobile:         input.Mobile,
		BirthDate:      input.BirthDate,
		HouseholdCount: input.HouseholdCount,
		PaymentMethod:  input.PaymentMethod,
		Address:        input.Address,
		PostalCode:     input.PostalCode,
		Locality:       input.Locality,
		Dependents:     input.Dependents,
	})
	if err != nil {
		if errors.Is(err, requestdomain.ErrInvalidInput) {
			h.log.BusinessError("requests.edit: invalid input", err, "request_id", id)
			writeError(w, http.StatusBadRequest, "invalid_request", inputReason(err))
			return
		}
		h.writeRequestError(w, err, "requests.edit", id)
		return
	}

	writeJSON(w, http.StatusOK, req)
}

func (h *Handlers) writeRequestError(w http.ResponseWriter, err error, op, requestID string) {
	switch {
	case errors.Is(err, requestdomain.ErrRequestNotFound):
		writeError(w, http.StatusNotFound, "request_not_found", "solicitud no encontrada")
	case errors.Is(err, requestdomain.ErrAlreadyProcessed):
		h.log.BusinessError(op+": already processed", err, "request_id", requestID)
		writeError(w, http.StatusConflict, "already_processed", "la solicitud ya ha sido tramitada")
	default:
		h.log.InternalError(op+": failed", err, "request_id", requestID)
		writeInternalError(w)
	}
}

func (p submitRequestPayload) toSubmitInput() (requestdomain.SubmitInput, string) {
	birthDate, err := parseDateRequired(p.BirthDate)
	if err != nil {
		return requestdomain.SubmitInput{}, "birth_date must be YYYY-MM-DD"
	}

	dependents := make([]requestdomain.DependentInput, 0, len(p.Dependents))
	for _, d := range p.Dependents {
		dependents = append(dependents, requestdomain.DependentInput{
			Name:          strings.TrimSpace(d.Name),
			FirstSurname:  strings.TrimSpace(d.FirstSurname),
			SecondSurname: strings.TrimSpace(d.SecondSurname),
			BirthYear:     d.BirthYear,
		})
	}

	return requestdomain.SubmitInput{
		Name:           strings.TrimSpace(p.Name),
		FirstSurname:   strings.TrimSpace(p.FirstSurname),
		SecondSurname:  strings.TrimSpace(p.SecondSurname),
		Mobile:         strings.TrimSpace(p.Mobile),
		BirthDate:      birthDate,
		HouseholdCount: p.HouseholdCount,
		PaymentMethod:  strings.TrimSpace(p.PaymentMethod),
		Password:       p.Password,
		Address:        strings.TrimSpace(p.Address),
		PostalCode:     strings.TrimSpace(p.PostalCode),
		Locality:       strings.TrimSpace(p.Locality),
		Dependents:     dependents,
	}, ""
}

// inputReason strips the sentinel prefix so the client sees only the
// human-readable reason.
func inputReason(err error) string {
	return strings.TrimPrefix(err.Error(), requestdomain.ErrInvalidInput.Error()+": ")
}
