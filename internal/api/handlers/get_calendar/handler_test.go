package get_calendar

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BookingEngine/internal/service/calendars"
	"github.com/m04kA/SMC-BookingEngine/internal/service/calendars/models"
	"github.com/m04kA/SMC-BookingEngine/internal/testfixtures"
)

func serve(target string) *httptest.ResponseRecorder {
	store := testfixtures.NewStore()
	store.AddCalendar(testfixtures.Calendar(1))
	svc := calendars.NewService(testfixtures.Calendars{Store: store}, testfixtures.NopLogger{})

	router := mux.NewRouter()
	router.HandleFunc("/api/v1/calendars/{calendarId}", NewHandler(svc, testfixtures.NopLogger{}).Handle).Methods(http.MethodGet)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHandle(t *testing.T) {
	rec := serve("/api/v1/calendars/1")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.CalendarResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Clinic", resp.Name)
	assert.Equal(t, 30, resp.SlotDurationMinutes)
	require.Len(t, resp.WorkingHours, 1)
	assert.Equal(t, "09:00", resp.WorkingHours[0].Start)

	assert.Equal(t, http.StatusNotFound, serve("/api/v1/calendars/2").Code)
	assert.Equal(t, http.StatusBadRequest, serve("/api/v1/calendars/zero").Code)
}
