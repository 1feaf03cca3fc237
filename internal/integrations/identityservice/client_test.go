package identityservice

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

func TestClient_ResolveOrCreate(t *testing.T) {
	var got ResolveRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/internal/accounts/resolve", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(ResolveResponse{AccountID: 42, Created: true})
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second, nopLogger{})
	id, err := client.ResolveOrCreate(context.Background(), "hash", "a@example.com", Profile{Phone: "+55"})

	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
	assert.Equal(t, "hash", got.NationalIDHash)
	assert.Equal(t, "a@example.com", got.Email)
	assert.Equal(t, "+55", got.Profile.Phone)
}

func TestClient_ResolveOrCreateErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{name: "conflict", status: http.StatusConflict, wantErr: ErrIdentityConflict},
		{name: "bad request", status: http.StatusBadRequest, wantErr: ErrInvalidResponse},
		{name: "server error", status: http.StatusInternalServerError, wantErr: ErrInvalidResponse},
		{name: "missing id", status: http.StatusOK, body: `{"account_id":0}`, wantErr: ErrInvalidResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := NewClient(server.URL, time.Second, nopLogger{})
			_, err := client.ResolveOrCreate(context.Background(), "hash", "a@example.com", Profile{})
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
