package handler

import (
	"errors"
	"fmt"
	"net/http"

	activitydomain "asociacion-app-go/internal/domain/activity"
	"github.com/go-chi/chi/v5"
)

func (h *Handlers) ActivityRosterPDF(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	a, err := h.Activities.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, activitydomain.ErrActivityNotFound) {
			writeError(w, http.StatusNotFound, "activity_not_found", "actividad no encontrada")
			return
		}
		h.log.InternalError("exports.roster_pdf: get activity failed", err, "activity_id", id)
		writeInternalError(w)
		return
	}

	entries, err := h.Enrollments.Roster(r.Context(), id)
	if err != nil {
		h.log.InternalError("exports.roster_pdf: roster failed", err, "activity_id", id)
		writeInternalError(w)
		return
	}

	data, err := h.pdf.Roster(*a, entries)
	if err != nil {
		h.log.InternalError("exports.roster_pdf: render failed", err, "activity_id", id)
		writeInternalError(w)
		return
	}

	writePDF(w, fmt.Sprintf("roster-%s.pdf", a.ScheduledAt.Format("20060102")), data)
}

func (h *Handlers) ActivitiesPDF(w http.ResponseWriter, r *http.Request) {
	activities, err := h.Activities.ListActivities(r.Context(), activitydomain.ListFilter{})
	if err != nil {
		h.log.InternalError("exports.activities_pdf: list failed", err)
		writeInternalError(w)
		return
	}

	data, err := h.pdf.Activities(activities)
	if err != nil {
		h.log.InternalError("exports.activities_pdf: render failed", err)
		writeInternalError(w)
		return
	}

	writePDF(w, "actividades.pdf", data)
}

func writePDF(w http.ResponseWriter, filename string, data []byte) {
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
