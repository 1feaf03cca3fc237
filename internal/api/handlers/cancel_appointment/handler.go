package cancel_appointment

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-BookingEngine/internal/api/handlers"
	"github.com/m04kA/SMC-BookingEngine/internal/api/middleware"
	"github.com/m04kA/SMC-BookingEngine/internal/domain"
	cancelAppointment "github.com/m04kA/SMC-BookingEngine/internal/usecase/cancel_appointment"
)

const (
	msgInvalidAppointmentID = "некорректный ID записи"
	msgInvalidRequestBody   = "некорректное тело запроса"
)

type Handler struct {
	useCase CancelAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase CancelAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments/{appointmentId}/cancel
// Гость передает токен в теле или в query параметре token
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	appointmentID, err := strconv.ParseInt(vars["appointmentId"], 10, 64)
	if err != nil || appointmentID <= 0 {
		h.logger.Warn("POST /appointments/{id}/cancel - Invalid appointment ID: %s", vars["appointmentId"])
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	var body CancelRequest
	if r.ContentLength != 0 {
		if err := handlers.DecodeJSON(r, &body); err != nil {
			h.logger.Warn("POST /appointments/{id}/cancel - Invalid request body: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)
			return
		}
	}
	if body.Token == "" {
		body.Token = r.URL.Query().Get("token")
	}

	actor := middleware.GetActor(r.Context())

	result, err := h.useCase.Execute(r.Context(), &cancelAppointment.Request{
		Actor:         actor,
		AppointmentID: appointmentID,
		Token:         body.Token,
		Reason:        body.Reason,
	})
	if err != nil {
		if domain.KindOf(err) == domain.KindInternal {
			h.logger.Error("POST /appointments/{id}/cancel - Failed to cancel appointment: appointment_id=%d, actor=%s, error=%v",
				appointmentID, actor.Ref(), err)
		} else {
			h.logger.Warn("POST /appointments/{id}/cancel - Rejected: appointment_id=%d, actor=%s, error=%v",
				appointmentID, actor.Ref(), err)
		}
		handlers.RespondBookingError(w, err)
		return
	}

	h.logger.Info("POST /appointments/{id}/cancel - Appointment cancelled successfully: appointment_id=%d, by=%s",
		appointmentID, result.CancelledBy)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
