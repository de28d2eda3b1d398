// Package store defines the persistence contracts for the Circulate server.
package store

import (
	"context"
	"time"

	"github.com/circulateapp/circulate-server/internal/domain"
)

// BookStore provides persistence for the book catalog.
// Lookups return (nil, nil) when no record matches; absence is not an error.
type BookStore interface {
	CreateBook(ctx context.Context, book *domain.Book) error
	GetBook(ctx context.Context, id string) (*domain.Book, error)
	FindBookByISBN(ctx context.Context, isbn string) (*domain.Book, error)
	ExistsBookByISBN(ctx context.Context, isbn string) (bool, error)
	UpdateBook(ctx context.Context, book *domain.Book) error
	DeleteBook(ctx context.Context, id string) error
	FindBooks(ctx context.Context, filter domain.BookFilter, page PageRequest) (*Page[*domain.Book], error)
}

// LoanStore provides persistence for the loan ledger.
//
// CreateLoan must enforce the one-active-loan-per-book invariant atomically:
// under concurrent creates for the same book at most one may succeed.
type LoanStore interface {
	CreateLoan(ctx context.Context, loan *domain.Loan) error
	GetLoan(ctx context.Context, id string) (*domain.Loan, error)
	UpdateLoan(ctx context.Context, loan *domain.Loan) error
	FindLoans(ctx context.Context, filter domain.LoanFilter, page PageRequest) (*Page[*domain.Loan], error)
	GetLoansByBook(ctx context.Context, bookID string, page PageRequest) (*Page[*domain.Loan], error)
	ExistsActiveLoanForBook(ctx context.Context, bookID string) (bool, error)
	FindOverdueLoans(ctx context.Context, before time.Time) ([]*domain.Loan, error)
}

// Store combines all persistence contracts backed by a single database.
type Store interface {
	BookStore
	LoanStore
	Close() error
}
