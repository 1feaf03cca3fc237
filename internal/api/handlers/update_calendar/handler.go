package update_calendar

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-BookingEngine/internal/api/handlers"
	"github.com/m04kA/SMC-BookingEngine/internal/api/middleware"
	"github.com/m04kA/SMC-BookingEngine/internal/service/calendars"
	"github.com/m04kA/SMC-BookingEngine/internal/service/calendars/models"
)

const (
	msgInvalidCalendarID  = "некорректный ID календаря"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgCalendarNotFound   = "календарь не найден"
	msgAccessDenied       = "доступ запрещен"
	msgInvalidPolicy      = "некорректная политика календаря"
)

type Handler struct {
	service CalendarService
	logger  Logger
}

func NewHandler(service CalendarService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/calendars/{calendarId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	calendarID, err := strconv.ParseInt(vars["calendarId"], 10, 64)
	if err != nil || calendarID <= 0 {
		h.logger.Warn("PUT /calendars/{id} - Invalid calendar ID: %s", vars["calendarId"])
		handlers.RespondBadRequest(w, msgInvalidCalendarID)
		return
	}

	var req models.UpdateCalendarRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /calendars/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.Actor = middleware.GetActor(r.Context())

	cal, err := h.service.Update(r.Context(), calendarID, &req)
	if err != nil {
		switch {
		case errors.Is(err, calendars.ErrAccessDenied):
			h.logger.Warn("PUT /calendars/{id} - Access denied: calendar_id=%d, actor=%s", calendarID, req.Actor.Ref())
			handlers.RespondForbidden(w, msgAccessDenied)
		case errors.Is(err, calendars.ErrCalendarNotFound):
			h.logger.Warn("PUT /calendars/{id} - Calendar not found: calendar_id=%d", calendarID)
			handlers.RespondNotFound(w, msgCalendarNotFound)
		case errors.Is(err, calendars.ErrInvalidInput):
			h.logger.Warn("PUT /calendars/{id} - Invalid policy: calendar_id=%d, error=%v", calendarID, err)
			handlers.RespondError(w, http.StatusUnprocessableEntity, msgInvalidPolicy)
		default:
			h.logger.Error("PUT /calendars/{id} - Failed to update calendar: calendar_id=%d, error=%v", calendarID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /calendars/{id} - Calendar updated successfully: calendar_id=%d, by=%s", calendarID, req.Actor.Ref())
	handlers.RespondJSON(w, http.StatusOK, cal)
}
