package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSentAt(t *testing.T) {
	tests := []struct {
		name string
		date string
		want time.Time
		ok   bool
	}{
		{
			name: "rfc5322",
			date: "Mon, 2 Jun 2025 09:30:00 +0000",
			want: time.Date(2025, 6, 2, 9, 30, 0, 0, time.UTC),
			ok:   true,
		},
		{
			name: "rfc3339",
			date: "2025-06-02T09:30:00Z",
			want: time.Date(2025, 6, 2, 9, 30, 0, 0, time.UTC),
			ok:   true,
		},
		{
			name: "missing header",
			date: "",
			ok:   false,
		},
		{
			name: "garbage",
			date: "not a date",
			ok:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := RawMessage{Date: tt.date}
			got, ok := msg.SentAt()
			require.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.True(t, got.Equal(tt.want), "got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestThreadKey(t *testing.T) {
	msg := RawMessage{ID: "m1", ThreadID: "t1"}
	assert.Equal(t, "t1", msg.ThreadKey())

	solo := RawMessage{ID: "m2"}
	assert.Equal(t, "m2", solo.ThreadKey())
}

func TestCandidateKeys(t *testing.T) {
	p := PersonCandidate{Name: "Alice", Email: "Alice@Acme.com"}
	assert.Equal(t, "alice@acme.com", p.Key())

	mentioned := PersonCandidate{Name: "Bob", Context: "mentioned in thread"}
	assert.Equal(t, "Bob|mentioned in thread", mentioned.Key())

	c := CompanyCandidate{Name: "Acme", Domain: "Acme.com"}
	assert.Equal(t, "acme.com", c.Key())

	nameOnly := CompanyCandidate{Name: "Stealth Startup"}
	assert.Equal(t, "Stealth Startup", nameOnly.Key())
}
