package handler

import (
	"errors"
	"io"
	"net/http"
	"strings"

	enrollmentdomain "asociacion-app-go/internal/domain/enrollment"
	"asociacion-app-go/internal/transport/httpserver/middleware"
	"github.com/go-chi/chi/v5"
)

type enrollRequest struct {
	BeneficiaryID *string `json:"beneficiary_id,omitempty"`
}

func (h *Handlers) Enroll(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}
	activityID := chi.URLParam(r, "id")

	// An empty body means the member enrolls themselves.
	var req enrollRequest
	if err := decodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	e, err := h.Enrollments.Enroll(r.Context(), enrollmentdomain.EnrollInput{
		MemberID:      user.ID,
		ActivityID:    activityID,
		BeneficiaryID: req.BeneficiaryID,
	})
	if err != nil {
		h.writeEnrollmentError(w, err, "enrollments.enroll", user.ID, activityID)
		return
	}

	writeJSON(w, http.StatusCreated, e)
}

func (h *Handlers) CancelEnrollment(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}
	activityID := chi.URLParam(r, "id")

	var beneficiaryID *string
	if value := r.URL.Query().Get("beneficiary_id"); value != "" {
		beneficiaryID = &value
	}

	err := h.Enrollments.Cancel(r.Context(), enrollmentdomain.CancelInput{
		MemberID:      user.ID,
		ActivityID:    activityID,
		BeneficiaryID: beneficiaryID,
	})
	if err != nil {
		h.writeEnrollmentError(w, err, "enrollments.cancel", user.ID, activityID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) MyEnrollments(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	entries, err := h.Enrollments.MemberEnrollments(r.Context(), user.ID)
	if err != nil {
		h.log.InternalError("enrollments.mine: list failed", err, "member_id", user.ID)
		writeInternalError(w)
		return
	}

	writeJSON(w, http.StatusOK, entries)
}

func (h *Handlers) ActivityRoster(w http.ResponseWriter, r *http.Request) {
	activityID := chi.URLParam(r, "id")

	entries, err := h.Enrollments.Roster(r.Context(), activityID)
	if err != nil {
		h.log.InternalError("enrollments.roster: list failed", err, "activity_id", activityID)
		writeInternalError(w)
		return
	}

	writeJSON(w, http.StatusOK, entries)
}

func (h *Handlers) ToggleAttendance(w http.ResponseWriter, r *http.Request) {
	activityID := chi.URLParam(r, "id")
	enrollmentID := chi.URLParam(r, "enrollment_id")

	e, err := h.Enrollments.ToggleAttendance(r.Context(), activityID, enrollmentID)
	if err != nil {
		if errors.Is(err, enrollmentdomain.ErrEnrollmentNotFound) {
			writeError(w, http.StatusNotFound, "enrollment_not_found", "inscripción no encontrada")
			return
		}
		h.log.InternalError("enrollments.attendance: toggle failed", err, "activity_id", activityID, "enrollment_id", enrollmentID)
		writeInternalError(w)
		return
	}

	writeJSON(w, http.StatusOK, e)
}

func (h *Handlers) writeEnrollmentError(w http.ResponseWriter, err error, op, memberID, activityID string) {
	switch {
	case errors.Is(err, enrollmentdomain.ErrNotOwner):
		h.log.BusinessError(op+": beneficiary not owned", err, "member_id", memberID, "activity_id", activityID)
		writeError(w, http.StatusForbidden, "not_owner", "el beneficiario no pertenece a este socio")
	case errors.Is(err, enrollmentdomain.ErrAlreadyEnrolled):
		h.log.BusinessError(op+": already enrolled", err, "member_id", memberID, "activity_id", activityID)
		writeError(w, http.StatusConflict, "already_enrolled", "ya existe una inscripción para esta actividad")
	case errors.Is(err, enrollmentdomain.ErrActivityFull):
		h.log.BusinessError(op+": activity full", err, "member_id", memberID, "activity_id", activityID)
		writeError(w, http.StatusConflict, "activity_full", "no quedan plazas disponibles")
	case errors.Is(err, enrollmentdomain.ErrActivityPast):
		h.log.BusinessError(op+": activity past", err, "member_id", memberID, "activity_id", activityID)
		writeError(w, http.StatusConflict, "activity_past", "la actividad ya se ha celebrado")
	case errors.Is(err, enrollmentdomain.ErrAgeIneligible):
		h.log.BusinessError(op+": age ineligible", err, "member_id", memberID, "activity_id", activityID)
		reason := strings.TrimPrefix(err.Error(), enrollmentdomain.ErrAgeIneligible.Error()+": ")
		writeError(w, http.StatusUnprocessableEntity, "age_ineligible", reason)
	case errors.Is(err, enrollmentdomain.ErrNotEnrolled):
		h.log.BusinessError(op+": not enrolled", err, "member_id", memberID, "activity_id", activityID)
		writeError(w, http.StatusNotFound, "not_enrolled", "no existe una inscripción para esta actividad")
	default:
		h.log.InternalError(op+": failed", err, "member_id", memberID, "activity_id", activityID)
		writeInternalError(w)
	}
}
