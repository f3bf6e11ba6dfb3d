package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/tunemate-go/internal/domain"
)

func TestResolveDateRange(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name      string
		from, to  string
		wantStart time.Time
		wantEnd   time.Time
		wantErr   bool
	}{
		{
			name:      "both empty",
			wantStart: time.Unix(0, 0).UTC(),
			wantEnd:   now,
		},
		{
			name:      "rfc3339 bounds",
			from:      "2024-06-01T10:00:00Z",
			to:        "2024-06-01T10:30:00Z",
			wantStart: time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2024, 6, 1, 10, 30, 0, 0, time.UTC),
		},
		{
			name:      "date only to covers the day",
			from:      "2024-05-31",
			to:        "2024-05-31",
			wantStart: time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2024, 5, 31, 23, 59, 59, int(time.Second-time.Nanosecond), time.UTC),
		},
		{name: "garbage from", from: "yesterday", wantErr: true},
		{name: "garbage to", to: "06/01/2024", wantErr: true},
		{name: "inverted", from: "2024-06-02", to: "2024-06-01T00:00:00Z", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, err := domain.ResolveDateRange(tt.from, tt.to, now)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.wantStart.Equal(start), "start %s", start)
			assert.True(t, tt.wantEnd.Equal(end), "end %s", end)
		})
	}
}
