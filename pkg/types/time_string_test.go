package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeStringFromString(t *testing.T) {
	tests := []struct {
		in      string
		want    TimeString
		wantErr bool
	}{
		{in: "09:00", want: "09:00"},
		{in: "09:00:00", want: "09:00"},
		{in: "23:59:30", want: "23:59:30"},
		{in: "24:00", wantErr: true},
		{in: "9am", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := NewTimeStringFromString(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTimeFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTimeString_AddMinutes(t *testing.T) {
	got, err := MustTimeString("09:30").AddMinutes(45)
	require.NoError(t, err)
	assert.Equal(t, TimeString("10:15"), got)

	_, err = MustTimeString("23:45").AddMinutes(15)
	assert.ErrorIs(t, err, ErrTimeOutOfDay)
}

func TestTimeString_AddMinutesWrap(t *testing.T) {
	assert.Equal(t, TimeString("10:15"), MustTimeString("09:30").AddMinutesWrap(45))
	assert.Equal(t, TimeString("00:15"), MustTimeString("23:45").AddMinutesWrap(30))
	assert.Equal(t, TimeString("00:00"), MustTimeString("23:00").AddMinutesWrap(60))
	assert.Equal(t, TimeString("23:30"), MustTimeString("00:15").AddMinutesWrap(-45))
}

func TestTimeString_Compare(t *testing.T) {
	a := MustTimeString("09:00")
	b := MustTimeString("10:00:00")

	assert.True(t, a.IsBefore(b))
	assert.True(t, b.IsAfter(a))
	assert.True(t, a.Equal(MustTimeString("09:00:00")))
}

func TestTimeString_On(t *testing.T) {
	loc, err := time.LoadLocation("America/Sao_Paulo")
	require.NoError(t, err)

	date := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	got := MustTimeString("09:15").On(date, loc)

	assert.Equal(t, time.Date(2025, 1, 6, 9, 15, 0, 0, loc), got)
}

func TestTimeString_ScanAndValue(t *testing.T) {
	var ts TimeString
	require.NoError(t, ts.Scan([]byte("14:30:00")))
	assert.Equal(t, TimeString("14:30"), ts)

	require.NoError(t, ts.Scan("08:05:00.000000"))
	assert.Equal(t, TimeString("08:05"), ts)

	v, err := ts.Value()
	require.NoError(t, err)
	assert.Equal(t, "08:05:00", v)
}
