package update_appointment_status

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BookingEngine/internal/api/middleware"
	"github.com/m04kA/SMC-BookingEngine/internal/domain"
	"github.com/m04kA/SMC-BookingEngine/internal/events"
	"github.com/m04kA/SMC-BookingEngine/internal/service/appointments"
	"github.com/m04kA/SMC-BookingEngine/internal/service/appointments/models"
	"github.com/m04kA/SMC-BookingEngine/internal/testfixtures"
)

var adminHeaders = map[string]string{
	middleware.HeaderUserID:          "1",
	middleware.HeaderUserPermissions: string(domain.PermManageAppointments),
}

func newRouter(t *testing.T) (*mux.Router, string) {
	t.Helper()
	store := testfixtures.NewStore()
	store.AddCalendar(testfixtures.Calendar(1))

	b := testfixtures.Booking(1, testfixtures.Monday, "09:00")
	b.Status = domain.StatusPending
	appt := store.Put(b)

	svc := appointments.NewService(store, testfixtures.Calendars{Store: store},
		events.NewDispatcher(testfixtures.NopLogger{}), testfixtures.NewClock(time.Time{}), testfixtures.NopLogger{})

	router := mux.NewRouter()
	router.Use(middleware.Auth)
	router.HandleFunc("/api/v1/appointments/{appointmentId}/status", NewHandler(svc, testfixtures.NopLogger{}).Handle).
		Methods(http.MethodPatch)
	return router, "/api/v1/appointments/" + strconv.FormatInt(appt.ID, 10) + "/status"
}

func patch(router *mux.Router, target, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPatch, target, strings.NewReader(body))
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandle_Confirm(t *testing.T) {
	router, path := newRouter(t)

	rec := patch(router, path, `{"status":"confirmed"}`, adminHeaders)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.AppointmentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "confirmed", resp.Status)
	assert.NotNil(t, resp.ApprovedAt)

	// confirmed -> confirmed недопустим
	assert.Equal(t, http.StatusConflict, patch(router, path, `{"status":"confirmed"}`, adminHeaders).Code)
}

func TestHandle_Rejections(t *testing.T) {
	router, path := newRouter(t)

	assert.Equal(t, http.StatusForbidden,
		patch(router, path, `{"status":"confirmed"}`, map[string]string{middleware.HeaderUserID: "10"}).Code)
	assert.Equal(t, http.StatusBadRequest, patch(router, path, `{"status":"cancelled"}`, adminHeaders).Code)
	assert.Equal(t, http.StatusBadRequest, patch(router, path, `{}`, adminHeaders).Code)
	assert.Equal(t, http.StatusBadRequest, patch(router, path, `{`, adminHeaders).Code)
	assert.Equal(t, http.StatusNotFound,
		patch(router, "/api/v1/appointments/999/status", `{"status":"completed"}`, adminHeaders).Code)
}
