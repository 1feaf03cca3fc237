package create_booking

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BookingEngine/internal/api/middleware"
	"github.com/m04kA/SMC-BookingEngine/internal/domain"
	"github.com/m04kA/SMC-BookingEngine/internal/testfixtures"
	createBooking "github.com/m04kA/SMC-BookingEngine/internal/usecase/create_booking"
	"github.com/m04kA/SMC-BookingEngine/pkg/types"
)

type fakeUseCase struct {
	ExecuteFunc func(ctx context.Context, req *createBooking.Request) (*createBooking.Response, error)
}

func (f *fakeUseCase) Execute(ctx context.Context, req *createBooking.Request) (*createBooking.Response, error) {
	if f.ExecuteFunc == nil {
		panic("Execute not configured")
	}
	return f.ExecuteFunc(ctx, req)
}

func serve(h *Handler, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/appointments", strings.NewReader(body))
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	middleware.OptionalAuth(http.HandlerFunc(h.Handle)).ServeHTTP(rec, req)
	return rec
}

func TestHandle_Created(t *testing.T) {
	var got *createBooking.Request
	uc := &fakeUseCase{ExecuteFunc: func(ctx context.Context, req *createBooking.Request) (*createBooking.Response, error) {
		got = req
		return &createBooking.Response{
			ID:                10,
			CalendarID:        1,
			Date:              testfixtures.Monday,
			StartTime:         types.MustTimeString("09:00"),
			EndTime:           types.MustTimeString("09:30"),
			Status:            domain.StatusPending,
			RequiresApproval:  true,
			ConfirmationToken: "tok",
			ValidationCode:    "ABCD2345",
			CreatedAt:         time.Date(2025, 1, 5, 8, 0, 0, 0, time.UTC),
		}, nil
	}}

	rec := serve(NewHandler(uc, testfixtures.NopLogger{}),
		`{"calendarId":1,"date":"2025-01-06","time":"09:00","email":"a@example.com","nationalId":"1234567","consent":true}`,
		map[string]string{middleware.HeaderUserID: "5"})

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp BookingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(10), resp.ID)
	assert.Equal(t, "2025-01-06", resp.Date)
	assert.Equal(t, "09:30", resp.EndTime)
	assert.True(t, resp.RequiresApproval)
	assert.Equal(t, "tok", resp.ConfirmationToken)

	require.NotNil(t, got)
	assert.Equal(t, int64(5), got.Actor.AccountID)
	assert.True(t, got.ConsentGiven)
	assert.Equal(t, "1234567", got.NationalID)
}

func TestHandle_Rejections(t *testing.T) {
	tests := []struct {
		err    error
		status int
		kind   string
	}{
		{domain.ErrSlotFull, http.StatusConflict, "slot_full"},
		{domain.ErrConsentRequired, http.StatusBadRequest, "consent_required"},
		{domain.ErrInvalidCalendar, http.StatusNotFound, "invalid_calendar"},
		{domain.ErrInternal, http.StatusInternalServerError, ""},
	}

	for _, tt := range tests {
		uc := &fakeUseCase{ExecuteFunc: func(ctx context.Context, req *createBooking.Request) (*createBooking.Response, error) {
			return nil, tt.err
		}}
		rec := serve(NewHandler(uc, testfixtures.NopLogger{}), `{"calendarId":1,"date":"2025-01-06","time":"09:00"}`, nil)

		assert.Equal(t, tt.status, rec.Code)
		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		if tt.kind != "" {
			assert.Equal(t, tt.kind, body["kind"])
		}
	}
}

func TestHandle_BadRequest(t *testing.T) {
	h := NewHandler(&fakeUseCase{}, testfixtures.NopLogger{})

	assert.Equal(t, http.StatusBadRequest, serve(h, `{`, nil).Code)
	assert.Equal(t, http.StatusBadRequest, serve(h, `{"date":"2025-01-06"}`, nil).Code)
}
