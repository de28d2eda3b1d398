package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/circulateapp/circulate-server/internal/domain"
	"github.com/circulateapp/circulate-server/internal/errors"
	"github.com/circulateapp/circulate-server/internal/store"
)

// bookColumns is the ordered list of columns selected in book queries.
// Must match the scan order in scanBook.
const bookColumns = `id, created_at, updated_at, title, author, isbn`

// scanBook scans a sql.Row (or sql.Rows via its Scan method) into a domain.Book.
func scanBook(scanner interface{ Scan(dest ...any) error }) (*domain.Book, error) {
	var b domain.Book
	var createdAt, updatedAt string

	err := scanner.Scan(
		&b.ID,
		&createdAt,
		&updatedAt,
		&b.Title,
		&b.Author,
		&b.ISBN,
	)
	if err != nil {
		return nil, err
	}

	b.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	b.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &b, nil
}

// CreateBook inserts a new book. A duplicate ISBN surfaces as ErrDuplicateISBN.
func (s *Store) CreateBook(ctx context.Context, book *domain.Book) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO books (id, created_at, updated_at, title, author, isbn)
		VALUES (?, ?, ?, ?, ?, ?)`,
		book.ID,
		formatTime(book.CreatedAt),
		formatTime(book.UpdatedAt),
		book.Title,
		book.Author,
		book.ISBN,
	)
	if err != nil {
		if isUniqueViolation(err, "books.isbn") {
			return errors.ErrDuplicateISBN.WithCause(err)
		}
		return fmt.Errorf("insert book: %w", err)
	}
	return nil
}

// GetBook returns the book with the given id, or (nil, nil) if absent.
func (s *Store) GetBook(ctx context.Context, id string) (*domain.Book, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+bookColumns+` FROM books WHERE id = ?`, id)

	b, err := scanBook(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get book %s: %w", id, err)
	}
	return b, nil
}

// FindBookByISBN returns the book with the given ISBN, or (nil, nil) if absent.
func (s *Store) FindBookByISBN(ctx context.Context, isbn string) (*domain.Book, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+bookColumns+` FROM books WHERE isbn = ?`, isbn)

	b, err := scanBook(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find book by isbn %s: %w", isbn, err)
	}
	return b, nil
}

// ExistsBookByISBN reports whether any book carries the given ISBN.
func (s *Store) ExistsBookByISBN(ctx context.Context, isbn string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM books WHERE isbn = ?)`, isbn).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("exists book by isbn: %w", err)
	}
	return exists, nil
}

// UpdateBook replaces the title and author of an existing book.
// The ISBN column is deliberately not touched: ISBN is immutable after creation.
func (s *Store) UpdateBook(ctx context.Context, book *domain.Book) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE books SET title = ?, author = ?, updated_at = ?
		WHERE id = ?`,
		book.Title,
		book.Author,
		formatTime(book.UpdatedAt),
		book.ID,
	)
	if err != nil {
		return fmt.Errorf("update book %s: %w", book.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update book %s: %w", book.ID, err)
	}
	if n == 0 {
		return errors.NotFoundf("book %s not found", book.ID)
	}
	return nil
}

// DeleteBook removes a book. Its loan history is kept untouched.
func (s *Store) DeleteBook(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM books WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete book %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete book %s: %w", id, err)
	}
	if n == 0 {
		return errors.NotFoundf("book %s not found", id)
	}
	return nil
}

// FindBooks returns books matching every non-empty field of the filter,
// ordered by creation time then id for a stable result set.
func (s *Store) FindBooks(ctx context.Context, filter domain.BookFilter, page store.PageRequest) (*store.Page[*domain.Book], error) {
	page.Validate()

	where := ""
	var clauses []string
	var args []any

	if filter.Title != "" {
		clauses = append(clauses, `title LIKE '%' || ? || '%'`)
		args = append(args, filter.Title)
	}
	if filter.Author != "" {
		clauses = append(clauses, `author LIKE '%' || ? || '%'`)
		args = append(args, filter.Author)
	}
	if filter.ISBN != "" {
		clauses = append(clauses, `isbn = ?`)
		args = append(args, filter.ISBN)
	}
	for i, c := range clauses {
		if i == 0 {
			where = " WHERE " + c
		} else {
			where += " AND " + c
		}
	}

	var total int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM books`+where, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count books: %w", err)
	}

	query := `SELECT ` + bookColumns + ` FROM books` + where +
		` ORDER BY created_at, id LIMIT ? OFFSET ?`
	rows, err := s.db.QueryContext(ctx, query, append(args, page.Size, page.Offset())...)
	if err != nil {
		return nil, fmt.Errorf("find books: %w", err)
	}
	defer rows.Close()

	var books []*domain.Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, fmt.Errorf("scan book: %w", err)
		}
		books = append(books, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("find books: %w", err)
	}

	return store.NewPage(books, total, page), nil
}
