package handler

import (
	"errors"
	"net/http"
	"strings"

	activitydomain "asociacion-app-go/internal/domain/activity"
	"github.com/go-chi/chi/v5"
)

type activityRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	ScheduledAt string  `json:"scheduled_at"`
	Capacity    int     `json:"capacity"`
	MinAge      *int    `json:"min_age,omitempty"`
	MaxAge      *int    `json:"max_age,omitempty"`
}

func (h *Handlers) ListActivities(w http.ResponseWriter, r *http.Request) {
	filter := activitydomain.ListFilter{
		UpcomingOnly: parseBoolParam(r.URL.Query().Get("upcoming")),
		Search:       strings.TrimSpace(r.URL.Query().Get("search")),
	}

	activities, err := h.Activities.ListActivities(r.Context(), filter)
	if err != nil {
		h.log.InternalError("activities.list: list failed", err)
		writeInternalError(w)
		return
	}

	writeJSON(w, http.StatusOK, activities)
}

func (h *Handlers) GetActivity(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	a, err := h.Activities.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, activitydomain.ErrActivityNotFound) {
			writeError(w, http.StatusNotFound, "activity_not_found", "actividad no encontrada")
			return
		}
		h.log.InternalError("activities.get: get failed", err, "activity_id", id)
		writeInternalError(w)
		return
	}

	occupancy, err := h.Activities.Occupancy(r.Context(), a.ID)
	if err != nil {
		h.log.InternalError("activities.get: occupancy failed", err, "activity_id", id)
		writeInternalError(w)
		return
	}

	writeJSON(w, http.StatusOK, activitydomain.WithOccupancy{
		Activity:  *a,
		Occupancy: occupancy,
		Available: a.Capacity - occupancy,
	})
}

func (h *Handlers) CreateActivity(w http.ResponseWriter, r *http.Request) {
	var req activityRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	input, ok := h.activityInput(w, req)
	if !ok {
		return
	}

	a, err := h.Activities.CreateActivity(r.Context(), activitydomain.CreateActivityInput{
		Name:        input.Name,
		Description: input.Description,
		ScheduledAt: input.ScheduledAt,
		Capacity:    input.Capacity,
		MinAge:      input.MinAge,
		MaxAge:      input.MaxAge,
	})
	if err != nil {
		h.writeActivityError(w, err, "activities.create")
		return
	}

	writeJSON(w, http.StatusCreated, a)
}

func (h *Handlers) UpdateActivity(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req activityRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	input, ok := h.activityInput(w, req)
	if !ok {
		return
	}
	input.ID = id

	a, err := h.Activities.UpdateActivity(r.Context(), input)
	if err != nil {
		h.writeActivityError(w, err, "activities.update")
		return
	}

	writeJSON(w, http.StatusOK, a)
}

func (h *Handlers) DeleteActivity(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.Activities.DeleteActivity(r.Context(), id); err != nil {
		if errors.Is(err, activitydomain.ErrActivityNotFound) {
			writeError(w, http.StatusNotFound, "activity_not_found", "actividad no encontrada")
			return
		}
		h.log.InternalError("activities.delete: delete failed", err, "activity_id", id)
		writeInternalError(w)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// activityInput validates the shared create/update payload. It writes the
// error response itself and reports success through the second return.
func (h *Handlers) activityInput(w http.ResponseWriter, req activityRequest) (activitydomain.UpdateActivityInput, bool) {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "name is required")
		return activitydomain.UpdateActivityInput{}, false
	}

	scheduledAt, err := parseDateTimeRequired(req.ScheduledAt)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "scheduled_at must be RFC3339")
		return activitydomain.UpdateActivityInput{}, false
	}

	return activitydomain.UpdateActivityInput{
		Name:        req.Name,
		Description: req.Description,
		ScheduledAt: scheduledAt,
		Capacity:    req.Capacity,
		MinAge:      req.MinAge,
		MaxAge:      req.MaxAge,
	}, true
}

func (h *Handlers) writeActivityError(w http.ResponseWriter, err error, op string) {
	switch {
	case errors.Is(err, activitydomain.ErrActivityNotFound):
		writeError(w, http.StatusNotFound, "activity_not_found", "actividad no encontrada")
	case errors.Is(err, activitydomain.ErrInvalidCapacity):
		h.log.BusinessError(op+": invalid capacity", err)
		writeError(w, http.StatusBadRequest, "invalid_capacity", "el aforo debe ser un número positivo")
	case errors.Is(err, activitydomain.ErrInvalidAgeRange):
		h.log.BusinessError(op+": invalid age range", err)
		writeError(w, http.StatusBadRequest, "invalid_age_range", "el rango de edad no es válido")
	default:
		h.log.InternalError(op+": failed", err)
		writeInternalError(w)
	}
}
