package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func boolPtr(b bool) *bool { return &b }

func TestLoanActive(t *testing.T) {
	tests := []struct {
		name     string
		returned *bool
		want     bool
	}{
		{name: "returned unset means still out", returned: nil, want: true},
		{name: "explicit false means still out", returned: boolPtr(false), want: true},
		{name: "returned true", returned: boolPtr(true), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := &Loan{Returned: tt.returned}
			assert.Equal(t, tt.want, l.Active())
		})
	}
}

func TestLoanOverdueAsOf(t *testing.T) {
	now := time.Date(2024, 5, 10, 14, 30, 0, 0, time.UTC)
	const threshold = 3

	tests := []struct {
		name     string
		loanDate time.Time
		returned *bool
		want     bool
	}{
		{
			name:     "five days ago and still out",
			loanDate: now.AddDate(0, 0, -5),
			want:     true,
		},
		{
			name:     "exactly three days ago is overdue",
			loanDate: now.AddDate(0, 0, -3),
			want:     true,
		},
		{
			name:     "two days ago is not overdue",
			loanDate: now.AddDate(0, 0, -2),
			want:     false,
		},
		{
			name:     "five days ago but returned",
			loanDate: now.AddDate(0, 0, -5),
			returned: boolPtr(true),
			want:     false,
		},
		{
			name:     "five days ago with explicit false returned",
			loanDate: now.AddDate(0, 0, -5),
			returned: boolPtr(false),
			want:     true,
		},
		{
			name: "threshold boundary ignores time of day",
			// Late in the evening three days ago still counts as three calendar days.
			loanDate: time.Date(2024, 5, 7, 23, 59, 0, 0, time.UTC),
			want:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := &Loan{LoanDate: tt.loanDate, Returned: tt.returned}
			assert.Equal(t, tt.want, l.OverdueAsOf(now, threshold))
		})
	}
}

func TestLoanValidate(t *testing.T) {
	l := &Loan{BookID: "book-1", Customer: "Alice"}
	assert.NoError(t, l.Validate())

	missing := &Loan{}
	assert.Error(t, missing.Validate())
}

func TestDateOnly(t *testing.T) {
	ts := time.Date(2024, 5, 10, 23, 59, 59, 123, time.FixedZone("X", 3600))
	d := DateOnly(ts)

	assert.Equal(t, time.UTC, d.Location())
	assert.Equal(t, 0, d.Hour())
	assert.Equal(t, 10, d.Day())
}
