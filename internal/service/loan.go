package service

import (
	"context"
	"time"

	"github.com/circulateapp/circulate-server/internal/domain"
	"github.com/circulateapp/circulate-server/internal/errors"
	"github.com/circulateapp/circulate-server/internal/id"
	"github.com/circulateapp/circulate-server/internal/logger"
	"github.com/circulateapp/circulate-server/internal/store"
)

// LoanService manages the loan ledger.
type LoanService struct {
	store         store.Store
	logger        *logger.Logger
	thresholdDays int
}

// NewLoanService creates a new loan service. thresholdDays is the number
// of calendar days after which an active loan counts as late.
func NewLoanService(st store.Store, log *logger.Logger, thresholdDays int) *LoanService {
	return &LoanService{
		store:         st,
		logger:        log,
		thresholdDays: thresholdDays,
	}
}

// CreateLoanParams carries the input for lending a book.
// The book is addressed by ISBN; id resolution happens here at the boundary.
type CreateLoanParams struct {
	ISBN          string
	Customer      string
	CustomerEmail string
	LoanDate      time.Time // zero value defaults to today
}

// Create lends a book to a customer. The ISBN must resolve to a registered
// book and the book must not already be out on loan.
func (s *LoanService) Create(ctx context.Context, params CreateLoanParams) (*domain.Loan, error) {
	book, err := s.store.FindBookByISBN(ctx, params.ISBN)
	if err != nil {
		return nil, err
	}
	if book == nil {
		return nil, errors.BookNotFound("book not found for passed isbn")
	}

	now := time.Now()
	loanDate := params.LoanDate
	if loanDate.IsZero() {
		loanDate = now
	}

	loan := &domain.Loan{
		ID:            id.MustGenerate(id.PrefixLoan),
		CreatedAt:     now,
		UpdatedAt:     now,
		BookID:        book.ID,
		Customer:      params.Customer,
		CustomerEmail: params.CustomerEmail,
		LoanDate:      domain.DateOnly(loanDate),
	}
	if err := loan.Validate(); err != nil {
		return nil, err
	}

	if err := s.store.CreateLoan(ctx, loan); err != nil {
		return nil, err
	}

	s.logger.Info("loan created",
		"loan_id", loan.ID,
		"book_id", book.ID,
		"customer", loan.Customer,
	)
	return loan, nil
}

// Get returns the loan with the given id.
func (s *LoanService) Get(ctx context.Context, loanID string) (*domain.Loan, error) {
	loan, err := s.store.GetLoan(ctx, loanID)
	if err != nil {
		return nil, err
	}
	if loan == nil {
		return nil, errors.NotFoundf("loan %s not found", loanID)
	}
	return loan, nil
}

// SetReturned records the loan's returned flag exactly as given.
// Passing false or nil reactivates the loan; both directions are allowed.
func (s *LoanService) SetReturned(ctx context.Context, loanID string, returned *bool) (*domain.Loan, error) {
	loan, err := s.Get(ctx, loanID)
	if err != nil {
		return nil, err
	}

	loan.Returned = returned
	loan.UpdatedAt = time.Now()
	if err := s.store.UpdateLoan(ctx, loan); err != nil {
		return nil, err
	}

	s.logger.Info("loan returned flag updated",
		"loan_id", loan.ID,
		"returned", returned != nil && *returned,
	)
	return loan, nil
}

// Find returns a page of loans matching the filter. ISBN and customer
// combine as a union; an empty filter lists the entire ledger.
func (s *LoanService) Find(ctx context.Context, filter domain.LoanFilter, page store.PageRequest) (*store.Page[*domain.Loan], error) {
	return s.store.FindLoans(ctx, filter, page)
}

// LoansByBook returns the full lending history of a book, active and
// returned loans alike. The book must exist.
func (s *LoanService) LoansByBook(ctx context.Context, bookID string, page store.PageRequest) (*store.Page[*domain.Loan], error) {
	book, err := s.store.GetBook(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if book == nil {
		return nil, errors.BookNotFoundf("book %s not found", bookID)
	}
	return s.store.GetLoansByBook(ctx, bookID, page)
}

// AllLateLoans returns every active loan whose loan date is at least the
// threshold number of days in the past. A loan taken exactly threshold
// days ago is late.
func (s *LoanService) AllLateLoans(ctx context.Context) ([]*domain.Loan, error) {
	cutoff := domain.DateOnly(time.Now()).AddDate(0, 0, -s.thresholdDays)
	return s.store.FindOverdueLoans(ctx, cutoff)
}

// BookAvailable reports whether the book exists and has no active loan.
// Availability is always derived from the ledger, never stored.
func (s *LoanService) BookAvailable(ctx context.Context, bookID string) (bool, error) {
	book, err := s.store.GetBook(ctx, bookID)
	if err != nil {
		return false, err
	}
	if book == nil {
		return false, errors.BookNotFoundf("book %s not found", bookID)
	}

	loaned, err := s.store.ExistsActiveLoanForBook(ctx, bookID)
	if err != nil {
		return false, err
	}
	return !loaned, nil
}
