package sqlite

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/circulateapp/circulate-server/internal/domain"
)

// newTestStore creates a store backed by a temp-file database.
func newTestStore(t *testing.T) *Store {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(dbPath, nil)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = s.Close()
	})
	return s
}

// makeTestBook creates a domain.Book with sensible defaults for testing.
func makeTestBook(id, title, author, isbn string) *domain.Book {
	now := time.Now()
	return &domain.Book{
		ID:        id,
		CreatedAt: now,
		UpdatedAt: now,
		Title:     title,
		Author:    author,
		ISBN:      isbn,
	}
}

// makeTestLoan creates a domain.Loan with sensible defaults for testing.
func makeTestLoan(id, bookID, customer string, loanDate time.Time) *domain.Loan {
	now := time.Now()
	return &domain.Loan{
		ID:        id,
		CreatedAt: now,
		UpdatedAt: now,
		BookID:    bookID,
		Customer:  customer,
		LoanDate:  loanDate,
	}
}
