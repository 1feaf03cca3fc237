package get_account_appointments

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-BookingEngine/internal/api/handlers"
	"github.com/m04kA/SMC-BookingEngine/internal/api/middleware"
	"github.com/m04kA/SMC-BookingEngine/internal/domain"
	"github.com/m04kA/SMC-BookingEngine/internal/service/appointments/models"
)

const msgInvalidUserID = "некорректный ID пользователя"

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

// Handle GET /api/v1/users/{userId}/appointments?status=...
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	accountID, err := strconv.ParseInt(vars["userId"], 10, 64)
	if err != nil || accountID <= 0 {
		h.logger.Warn("GET /users/{id}/appointments - Invalid user ID: %s", vars["userId"])
		handlers.RespondBadRequest(w, msgInvalidUserID)
		return
	}

	req := &models.GetAccountAppointmentsRequest{
		Actor:     middleware.GetActor(r.Context()),
		AccountID: accountID,
	}
	if status := r.URL.Query().Get("status"); status != "" {
		req.Status = &status
	}

	list, err := h.service.GetAccountAppointments(r.Context(), req)
	if err != nil {
		if domain.KindOf(err) == domain.KindInternal {
			h.logger.Error("GET /users/{id}/appointments - Failed to get appointments: user_id=%d, error=%v", accountID, err)
		} else {
			h.logger.Warn("GET /users/{id}/appointments - Rejected: user_id=%d, actor=%s, error=%v", accountID, req.Actor.Ref(), err)
		}
		handlers.RespondBookingError(w, err)
		return
	}

	h.logger.Info("GET /users/{id}/appointments - Found %d appointments: user_id=%d", list.Total, accountID)
	handlers.RespondJSON(w, http.StatusOK, list)
}
