package get_available_slots

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BookingEngine/internal/domain"
	"github.com/m04kA/SMC-BookingEngine/internal/testfixtures"
	getAvailableSlots "github.com/m04kA/SMC-BookingEngine/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-BookingEngine/pkg/types"
)

type fakeUseCase struct {
	ExecuteFunc func(ctx context.Context, req *getAvailableSlots.Request) (*getAvailableSlots.Response, error)
}

func (f *fakeUseCase) Execute(ctx context.Context, req *getAvailableSlots.Request) (*getAvailableSlots.Response, error) {
	if f.ExecuteFunc == nil {
		panic("Execute not configured")
	}
	return f.ExecuteFunc(ctx, req)
}

func serve(h *Handler, target string) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.HandleFunc("/api/v1/calendars/{calendarId}/available-slots", h.Handle).Methods(http.MethodGet)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHandle_OK(t *testing.T) {
	var got *getAvailableSlots.Request
	uc := &fakeUseCase{ExecuteFunc: func(ctx context.Context, req *getAvailableSlots.Request) (*getAvailableSlots.Response, error) {
		got = req
		return &getAvailableSlots.Response{
			CalendarID:      7,
			Date:            testfixtures.Monday,
			Timezone:        "UTC",
			DurationMinutes: 30,
			Slots: []domain.AvailableSlot{
				{StartTime: types.MustTimeString("09:00"), EndTime: types.MustTimeString("09:30"), AvailableSpots: 1, TotalSpots: 2},
			},
		}, nil
	}}

	rec := serve(NewHandler(uc, testfixtures.NopLogger{}), "/api/v1/calendars/7/available-slots?date=2025-01-06")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(7), got.CalendarID)
	assert.Equal(t, "2025-01-06", got.Date)

	var resp AvailableSlotsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Slots, 1)
	assert.Equal(t, "09:00", resp.Slots[0].StartTime)
	assert.Equal(t, 1, resp.Slots[0].AvailableSpots)
	assert.Equal(t, "2025-01-06", resp.Date)
}

func TestHandle_EmptyDayIsEmptyArray(t *testing.T) {
	uc := &fakeUseCase{ExecuteFunc: func(ctx context.Context, req *getAvailableSlots.Request) (*getAvailableSlots.Response, error) {
		return &getAvailableSlots.Response{CalendarID: 7, Date: testfixtures.Monday}, nil
	}}

	rec := serve(NewHandler(uc, testfixtures.NopLogger{}), "/api/v1/calendars/7/available-slots?date=2025-01-06")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"slots":[]`)
}

func TestHandle_Errors(t *testing.T) {
	h := NewHandler(&fakeUseCase{}, testfixtures.NopLogger{})
	assert.Equal(t, http.StatusBadRequest, serve(h, "/api/v1/calendars/abc/available-slots?date=2025-01-06").Code)
	assert.Equal(t, http.StatusBadRequest, serve(h, "/api/v1/calendars/7/available-slots").Code)

	notFound := &fakeUseCase{ExecuteFunc: func(ctx context.Context, req *getAvailableSlots.Request) (*getAvailableSlots.Response, error) {
		return nil, domain.ErrInvalidCalendar
	}}
	assert.Equal(t, http.StatusNotFound,
		serve(NewHandler(notFound, testfixtures.NopLogger{}), "/api/v1/calendars/7/available-slots?date=2025-01-06").Code)

	badDate := &fakeUseCase{ExecuteFunc: func(ctx context.Context, req *getAvailableSlots.Request) (*getAvailableSlots.Response, error) {
		return nil, domain.ErrInvalidDate
	}}
	assert.Equal(t, http.StatusBadRequest,
		serve(NewHandler(badDate, testfixtures.NopLogger{}), "/api/v1/calendars/7/available-slots?date=06-01-2025").Code)
}
