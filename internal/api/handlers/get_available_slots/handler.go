package get_available_slots

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-BookingEngine/internal/api/handlers"
	"github.com/m04kA/SMC-BookingEngine/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-BookingEngine/internal/usecase/get_available_slots"
)

const (
	msgInvalidCalendarID = "некорректный ID календаря"
	msgMissingDate       = "не указана дата"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/calendars/{calendarId}/available-slots?date=YYYY-MM-DD
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	calendarID, err := strconv.ParseInt(vars["calendarId"], 10, 64)
	if err != nil || calendarID <= 0 {
		h.logger.Warn("GET /calendars/{id}/available-slots - Invalid calendar ID: %s", vars["calendarId"])
		handlers.RespondBadRequest(w, msgInvalidCalendarID)
		return
	}

	date := r.URL.Query().Get("date")
	if date == "" {
		h.logger.Warn("GET /calendars/{id}/available-slots - Missing date: calendar_id=%d", calendarID)
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &getAvailableSlots.Request{
		CalendarID: calendarID,
		Date:       date,
	})
	if err != nil {
		if domain.KindOf(err) == domain.KindInternal {
			h.logger.Error("GET /calendars/{id}/available-slots - Failed to get slots: calendar_id=%d, date=%s, error=%v",
				calendarID, date, err)
		} else {
			h.logger.Warn("GET /calendars/{id}/available-slots - Rejected: calendar_id=%d, date=%s, error=%v",
				calendarID, date, err)
		}
		handlers.RespondBookingError(w, err)
		return
	}

	h.logger.Info("GET /calendars/{id}/available-slots - Found %d slots: calendar_id=%d, date=%s",
		len(result.Slots), calendarID, date)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
