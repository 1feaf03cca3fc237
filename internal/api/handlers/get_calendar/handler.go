package get_calendar

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-BookingEngine/internal/api/handlers"
	"github.com/m04kA/SMC-BookingEngine/internal/service/calendars"
)

const (
	msgInvalidCalendarID = "некорректный ID календаря"
	msgCalendarNotFound  = "календарь не найден"
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

// Handle GET /api/v1/calendars/{calendarId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	calendarID, err := strconv.ParseInt(vars["calendarId"], 10, 64)
	if err != nil || calendarID <= 0 {
		h.logger.Warn("GET /calendars/{id} - Invalid calendar ID: %s", vars["calendarId"])
		handlers.RespondBadRequest(w, msgInvalidCalendarID)
		return
	}

	cal, err := h.service.GetByID(r.Context(), calendarID)
	if err != nil {
		if errors.Is(err, calendars.ErrCalendarNotFound) {
			h.logger.Warn("GET /calendars/{id} - Calendar not found: calendar_id=%d", calendarID)
			handlers.RespondNotFound(w, msgCalendarNotFound)
			return
		}
		h.logger.Error("GET /calendars/{id} - Failed to get calendar: calendar_id=%d, error=%v", calendarID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /calendars/{id} - Calendar retrieved successfully: calendar_id=%d", calendarID)
	handlers.RespondJSON(w, http.StatusOK, cal)
}
