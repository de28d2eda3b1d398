package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/circulateapp/circulate-server/internal/domain"
	"github.com/circulateapp/circulate-server/internal/errors"
	"github.com/circulateapp/circulate-server/internal/store"
)

// loanColumns is the ordered list of columns selected in loan queries.
// Must match the scan order in scanLoan.
const loanColumns = `id, created_at, updated_at, book_id, customer, customer_email, loan_date, returned`

// scanLoan scans a sql.Row (or sql.Rows via its Scan method) into a domain.Loan.
func scanLoan(scanner interface{ Scan(dest ...any) error }) (*domain.Loan, error) {
	var l domain.Loan
	var (
		createdAt string
		updatedAt string
		email     sql.NullString
		loanDate  string
		returned  sql.NullInt64
	)

	err := scanner.Scan(
		&l.ID,
		&createdAt,
		&updatedAt,
		&l.BookID,
		&l.Customer,
		&email,
		&loanDate,
		&returned,
	)
	if err != nil {
		return nil, err
	}

	l.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	l.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}
	l.LoanDate, err = parseDate(loanDate)
	if err != nil {
		return nil, err
	}
	if email.Valid {
		l.CustomerEmail = email.String
	}
	l.Returned = boolPtr(returned)

	return &l, nil
}

// CreateLoan inserts a new loan after re-checking the active-loan invariant
// inside a transaction. The partial unique index on active loans backstops
// the check, so two concurrent creates for the same book cannot both commit.
func (s *Store) CreateLoan(ctx context.Context, loan *domain.Loan) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create loan: %w", err)
	}
	defer tx.Rollback()

	var active bool
	err = tx.QueryRowContext(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM loans
			WHERE book_id = ? AND (returned IS NULL OR returned = 0)
		)`, loan.BookID).Scan(&active)
	if err != nil {
		return fmt.Errorf("check active loan: %w", err)
	}
	if active {
		return errors.BookLoaned(fmt.Sprintf("book %s already loaned", loan.BookID))
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO loans (id, created_at, updated_at, book_id, customer, customer_email, loan_date, returned)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		loan.ID,
		formatTime(loan.CreatedAt),
		formatTime(loan.UpdatedAt),
		loan.BookID,
		loan.Customer,
		nullString(loan.CustomerEmail),
		formatDate(loan.LoanDate),
		nullBool(loan.Returned),
	)
	if err != nil {
		if isUniqueViolation(err, "loans.book_id") {
			return errors.BookLoaned(fmt.Sprintf("book %s already loaned", loan.BookID))
		}
		return fmt.Errorf("insert loan: %w", err)
	}

	if err := tx.Commit(); err != nil {
		if isUniqueViolation(err, "loans.book_id") {
			return errors.BookLoaned(fmt.Sprintf("book %s already loaned", loan.BookID))
		}
		return fmt.Errorf("commit create loan: %w", err)
	}
	return nil
}

// GetLoan returns the loan with the given id, or (nil, nil) if absent.
func (s *Store) GetLoan(ctx context.Context, id string) (*domain.Loan, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+loanColumns+` FROM loans WHERE id = ?`, id)

	l, err := scanLoan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get loan %s: %w", id, err)
	}
	return l, nil
}

// UpdateLoan persists the returned flag exactly as set on the loan.
// Setting it back to nil or false reactivates the loan; that path is kept
// open on purpose, matching the historical behavior of the service.
func (s *Store) UpdateLoan(ctx context.Context, loan *domain.Loan) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE loans SET returned = ?, updated_at = ?
		WHERE id = ?`,
		nullBool(loan.Returned),
		formatTime(loan.UpdatedAt),
		loan.ID,
	)
	if err != nil {
		if isUniqueViolation(err, "loans.book_id") {
			return errors.BookLoaned(fmt.Sprintf("book %s already loaned", loan.BookID))
		}
		return fmt.Errorf("update loan %s: %w", loan.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update loan %s: %w", loan.ID, err)
	}
	if n == 0 {
		return errors.NotFoundf("loan %s not found", loan.ID)
	}
	return nil
}

// FindLoans returns loans whose book has the filter's ISBN OR whose customer
// matches the filter's customer (union semantics). An empty filter lists all
// loans. Results are ordered by loan date then id.
func (s *Store) FindLoans(ctx context.Context, filter domain.LoanFilter, page store.PageRequest) (*store.Page[*domain.Loan], error) {
	page.Validate()

	// Left join: a loan keeps its row even if its book was deleted.
	from := ` FROM loans l LEFT JOIN books b ON b.id = l.book_id`

	where := ""
	var args []any
	switch {
	case filter.ISBN != "" && filter.Customer != "":
		where = ` WHERE b.isbn = ? OR l.customer = ?`
		args = append(args, filter.ISBN, filter.Customer)
	case filter.ISBN != "":
		where = ` WHERE b.isbn = ?`
		args = append(args, filter.ISBN)
	case filter.Customer != "":
		where = ` WHERE l.customer = ?`
		args = append(args, filter.Customer)
	}

	var total int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*)`+from+where, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count loans: %w", err)
	}

	query := `SELECT ` + prefixedLoanColumns() + from + where +
		` ORDER BY l.loan_date, l.id LIMIT ? OFFSET ?`
	rows, err := s.db.QueryContext(ctx, query, append(args, page.Size, page.Offset())...)
	if err != nil {
		return nil, fmt.Errorf("find loans: %w", err)
	}
	defer rows.Close()

	loans, err := collectLoans(rows)
	if err != nil {
		return nil, err
	}
	return store.NewPage(loans, total, page), nil
}

// GetLoansByBook returns all loans, active and returned, referencing the
// given book, ordered by loan date then id.
func (s *Store) GetLoansByBook(ctx context.Context, bookID string, page store.PageRequest) (*store.Page[*domain.Loan], error) {
	page.Validate()

	var total int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM loans WHERE book_id = ?`, bookID).Scan(&total); err != nil {
		return nil, fmt.Errorf("count loans by book: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+loanColumns+` FROM loans
		WHERE book_id = ?
		ORDER BY loan_date, id LIMIT ? OFFSET ?`,
		bookID, page.Size, page.Offset())
	if err != nil {
		return nil, fmt.Errorf("loans by book: %w", err)
	}
	defer rows.Close()

	loans, err := collectLoans(rows)
	if err != nil {
		return nil, err
	}
	return store.NewPage(loans, total, page), nil
}

// ExistsActiveLoanForBook reports whether the book currently has an
// outstanding loan. This is the source of truth for book availability.
func (s *Store) ExistsActiveLoanForBook(ctx context.Context, bookID string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM loans
			WHERE book_id = ? AND (returned IS NULL OR returned = 0)
		)`, bookID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("exists active loan: %w", err)
	}
	return exists, nil
}

// FindOverdueLoans returns active loans whose loan date is at or before the
// given cutoff date, ordered by loan date then id for reproducibility.
func (s *Store) FindOverdueLoans(ctx context.Context, before time.Time) ([]*domain.Loan, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+loanColumns+` FROM loans
		WHERE loan_date <= ? AND (returned IS NULL OR returned = 0)
		ORDER BY loan_date, id`,
		formatDate(before))
	if err != nil {
		return nil, fmt.Errorf("find overdue loans: %w", err)
	}
	defer rows.Close()

	return collectLoans(rows)
}

// collectLoans drains rows into a slice of loans.
func collectLoans(rows *sql.Rows) ([]*domain.Loan, error) {
	var loans []*domain.Loan
	for rows.Next() {
		l, err := scanLoan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan loan: %w", err)
		}
		loans = append(loans, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate loans: %w", err)
	}
	return loans, nil
}

// prefixedLoanColumns qualifies loan columns with the l alias for joins.
func prefixedLoanColumns() string {
	return `l.id, l.created_at, l.updated_at, l.book_id, l.customer, l.customer_email, l.loan_date, l.returned`
}
