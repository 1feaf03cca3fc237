package create_booking

import (
	"net/http"

	"github.com/m04kA/SMC-BookingEngine/internal/api/handlers"
	"github.com/m04kA/SMC-BookingEngine/internal/api/middleware"
	"github.com/m04kA/SMC-BookingEngine/internal/domain"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidCalendarID  = "некорректный ID календаря"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	if req.CalendarID <= 0 {
		h.logger.Warn("POST /appointments - Invalid calendar ID: %d", req.CalendarID)
		handlers.RespondBadRequest(w, msgInvalidCalendarID)
		return
	}

	actor := middleware.GetActor(r.Context())

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(actor))
	if err != nil {
		kind := domain.KindOf(err)
		if kind == domain.KindInternal || kind == domain.KindCreationFailed {
			h.logger.Error("POST /appointments - Failed to create appointment: calendar_id=%d, actor=%s, error=%v",
				req.CalendarID, actor.Ref(), err)
		} else {
			h.logger.Warn("POST /appointments - Rejected: calendar_id=%d, actor=%s, kind=%s",
				req.CalendarID, actor.Ref(), kind)
		}
		handlers.RespondBookingError(w, err)
		return
	}

	h.logger.Info("POST /appointments - Appointment created successfully: appointment_id=%d, calendar_id=%d, status=%s",
		result.ID, req.CalendarID, result.Status)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
