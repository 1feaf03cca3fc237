package cancel_appointment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BookingEngine/internal/api/middleware"
	"github.com/m04kA/SMC-BookingEngine/internal/domain"
	"github.com/m04kA/SMC-BookingEngine/internal/testfixtures"
	cancelAppointment "github.com/m04kA/SMC-BookingEngine/internal/usecase/cancel_appointment"
)

type fakeUseCase struct {
	ExecuteFunc func(ctx context.Context, req *cancelAppointment.Request) (*cancelAppointment.Response, error)
}

func (f *fakeUseCase) Execute(ctx context.Context, req *cancelAppointment.Request) (*cancelAppointment.Response, error) {
	if f.ExecuteFunc == nil {
		panic("Execute not configured")
	}
	return f.ExecuteFunc(ctx, req)
}

func serve(h *Handler, target, body string, headers map[string]string) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.Use(middleware.OptionalAuth)
	router.HandleFunc("/api/v1/appointments/{appointmentId}/cancel", h.Handle).Methods(http.MethodPost)

	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func cancelled(req *cancelAppointment.Request) *cancelAppointment.Response {
	return &cancelAppointment.Response{
		ID:          req.AppointmentID,
		Status:      domain.StatusCancelled,
		CancelledAt: time.Date(2025, 1, 5, 8, 0, 0, 0, time.UTC),
		CancelledBy: req.Actor.Ref(),
	}
}

func TestHandle_GuestTokenFromQuery(t *testing.T) {
	var got *cancelAppointment.Request
	uc := &fakeUseCase{ExecuteFunc: func(ctx context.Context, req *cancelAppointment.Request) (*cancelAppointment.Response, error) {
		got = req
		return cancelled(req), nil
	}}

	rec := serve(NewHandler(uc, testfixtures.NopLogger{}), "/api/v1/appointments/3/cancel?token=abc", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "abc", got.Token)
	assert.False(t, got.Actor.IsAuthenticated())

	var resp CancelResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "cancelled", resp.Status)
	assert.Equal(t, domain.GuestActor, resp.CancelledBy)
}

func TestHandle_BodyWithReason(t *testing.T) {
	var got *cancelAppointment.Request
	uc := &fakeUseCase{ExecuteFunc: func(ctx context.Context, req *cancelAppointment.Request) (*cancelAppointment.Response, error) {
		got = req
		return cancelled(req), nil
	}}

	rec := serve(NewHandler(uc, testfixtures.NopLogger{}), "/api/v1/appointments/3/cancel",
		`{"reason":"plans changed"}`, map[string]string{middleware.HeaderUserID: "9"})

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, got.Reason)
	assert.Equal(t, "plans changed", *got.Reason)
	assert.Equal(t, int64(9), got.Actor.AccountID)
}

func TestHandle_Errors(t *testing.T) {
	h := NewHandler(&fakeUseCase{}, testfixtures.NopLogger{})
	assert.Equal(t, http.StatusBadRequest, serve(h, "/api/v1/appointments/x/cancel", "", nil).Code)
	assert.Equal(t, http.StatusBadRequest, serve(h, "/api/v1/appointments/3/cancel", "{", nil).Code)

	tests := []struct {
		err    error
		status int
	}{
		{domain.ErrDeadlinePassed, http.StatusUnprocessableEntity},
		{domain.ErrAlreadyCancelled, http.StatusConflict},
		{domain.ErrUnauthorized, http.StatusForbidden},
		{domain.ErrAppointmentNotFound, http.StatusNotFound},
		{domain.ErrInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		uc := &fakeUseCase{ExecuteFunc: func(ctx context.Context, req *cancelAppointment.Request) (*cancelAppointment.Response, error) {
			return nil, tt.err
		}}
		rec := serve(NewHandler(uc, testfixtures.NopLogger{}), "/api/v1/appointments/3/cancel", "", nil)
		assert.Equal(t, tt.status, rec.Code, tt.err.Error())
	}
}
