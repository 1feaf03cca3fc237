package update_appointment_status

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-BookingEngine/internal/api/handlers"
	"github.com/m04kA/SMC-BookingEngine/internal/api/middleware"
	"github.com/m04kA/SMC-BookingEngine/internal/domain"
	"github.com/m04kA/SMC-BookingEngine/internal/service/appointments/models"
)

const (
	msgInvalidAppointmentID = "некорректный ID записи"
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgMissingStatus        = "не указан статус"
)

type Handler struct {
	service AppointmentService
	logger  Logger
}

func NewHandler(service AppointmentService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/appointments/{appointmentId}/status
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	appointmentID, err := strconv.ParseInt(vars["appointmentId"], 10, 64)
	if err != nil || appointmentID <= 0 {
		h.logger.Warn("PATCH /appointments/{id}/status - Invalid appointment ID: %s", vars["appointmentId"])
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	var body UpdateStatusRequest
	if err := handlers.DecodeJSON(r, &body); err != nil {
		h.logger.Warn("PATCH /appointments/{id}/status - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	if body.Status == "" {
		handlers.RespondBadRequest(w, msgMissingStatus)
		return
	}

	actor := middleware.GetActor(r.Context())

	appt, err := h.service.UpdateStatus(r.Context(), appointmentID, &models.UpdateStatusRequest{
		Actor:  actor,
		Status: body.Status,
		Reason: body.Reason,
	})
	if err != nil {
		if domain.KindOf(err) == domain.KindInternal {
			h.logger.Error("PATCH /appointments/{id}/status - Failed to update status: appointment_id=%d, error=%v", appointmentID, err)
		} else {
			h.logger.Warn("PATCH /appointments/{id}/status - Rejected: appointment_id=%d, actor=%s, error=%v",
				appointmentID, actor.Ref(), err)
		}
		handlers.RespondBookingError(w, err)
		return
	}

	h.logger.Info("PATCH /appointments/{id}/status - Status updated: appointment_id=%d, status=%s, by=%s",
		appointmentID, appt.Status, actor.Ref())
	handlers.RespondJSON(w, http.StatusOK, appt)
}
