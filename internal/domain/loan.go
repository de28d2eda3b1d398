package domain

import (
	"strings"
	"time"

	"github.com/circulateapp/circulate-server/internal/errors"
)

// Loan represents a single lending of a book to a customer.
//
// A loan references its book by id only (weak reference), so a book can be
// deleted while loans recording its history remain. The Returned flag is
// tri-state: nil means the book is still out, false is an explicit
// un-return, true means the book came back.
type Loan struct {
	ID            string    `json:"id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	BookID        string    `json:"book_id"`
	Customer      string    `json:"customer"`
	CustomerEmail string    `json:"customer_email,omitempty"`
	LoanDate      time.Time `json:"loan_date"`
	Returned      *bool     `json:"returned,omitempty"`
}

// Active reports whether the loan is still outstanding,
// i.e. the returned flag is not set to true.
func (l *Loan) Active() bool {
	return l.Returned == nil || !*l.Returned
}

// OverdueAsOf reports whether the loan is overdue relative to now:
// still active, with a loan date at or before now minus thresholdDays
// calendar days. A loan taken exactly thresholdDays ago is overdue.
func (l *Loan) OverdueAsOf(now time.Time, thresholdDays int) bool {
	if !l.Active() {
		return false
	}
	cutoff := DateOnly(now).AddDate(0, 0, -thresholdDays)
	return !DateOnly(l.LoanDate).After(cutoff)
}

// Validate checks the loan's required fields.
func (l *Loan) Validate() error {
	fields := map[string]string{}
	if strings.TrimSpace(l.BookID) == "" {
		fields["book_id"] = "is required"
	}
	if strings.TrimSpace(l.Customer) == "" {
		fields["customer"] = "is required"
	}
	if len(fields) > 0 {
		return errors.ValidationWithDetails("invalid loan", fields)
	}
	return nil
}

// DateOnly truncates a time to its calendar date in UTC.
// Loan dates are calendar dates; the overdue policy compares whole days.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// LoanFilter selects loans whose book has the given ISBN OR whose
// customer matches the given customer. Fields combine as a union,
// not an intersection. Empty fields are ignored.
type LoanFilter struct {
	ISBN     string
	Customer string
}

// Empty reports whether no filter fields are set.
func (f LoanFilter) Empty() bool {
	return f.ISBN == "" && f.Customer == ""
}
