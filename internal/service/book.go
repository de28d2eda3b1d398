// Package service orchestrates the business operations of the library:
// catalog management, the loan ledger, and overdue notification.
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

// BookService manages the book catalog.
type BookService struct {
	store  store.Store
	logger *logger.Logger
}

// NewBookService creates a new book service.
func NewBookService(st store.Store, log *logger.Logger) *BookService {
	return &BookService{
		store:  st,
		logger: log,
	}
}

// Create registers a new book. The ISBN must not already be in the catalog.
func (s *BookService) Create(ctx context.Context, title, author, isbn string) (*domain.Book, error) {
	now := time.Now()
	book := &domain.Book{
		ID:        id.MustGenerate(id.PrefixBook),
		CreatedAt: now,
		UpdatedAt: now,
		Title:     title,
		Author:    author,
		ISBN:      isbn,
	}
	if err := book.Validate(); err != nil {
		return nil, err
	}

	exists, err := s.store.ExistsBookByISBN(ctx, isbn)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errors.DuplicateISBN("isbn already registered")
	}

	if err := s.store.CreateBook(ctx, book); err != nil {
		return nil, err
	}

	s.logger.Info("book registered",
		"book_id", book.ID,
		"isbn", book.ISBN,
	)
	return book, nil
}

// Get returns the book with the given id.
func (s *BookService) Get(ctx context.Context, bookID string) (*domain.Book, error) {
	book, err := s.store.GetBook(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if book == nil {
		return nil, errors.BookNotFoundf("book %s not found", bookID)
	}
	return book, nil
}

// Update replaces the book's title and author. The ISBN is immutable;
// any ISBN in the input is ignored.
func (s *BookService) Update(ctx context.Context, bookID, title, author string) (*domain.Book, error) {
	book, err := s.Get(ctx, bookID)
	if err != nil {
		return nil, err
	}

	book.Title = title
	book.Author = author
	book.UpdatedAt = time.Now()
	if err := book.Validate(); err != nil {
		return nil, err
	}

	if err := s.store.UpdateBook(ctx, book); err != nil {
		return nil, err
	}

	s.logger.Info("book updated", "book_id", book.ID)
	return book, nil
}

// Delete removes the book from the catalog. Loans referencing the book
// are historical records and are deliberately left in place.
func (s *BookService) Delete(ctx context.Context, bookID string) error {
	err := s.store.DeleteBook(ctx, bookID)
	if errors.Is(err, errors.ErrNotFound) {
		return errors.BookNotFoundf("book %s not found", bookID)
	}
	if err != nil {
		return err
	}

	s.logger.Info("book deleted", "book_id", bookID)
	return nil
}

// Find returns a page of books matching the filter. Title and author
// match partially, ISBN exactly; an empty filter lists the whole catalog.
func (s *BookService) Find(ctx context.Context, filter domain.BookFilter, page store.PageRequest) (*store.Page[*domain.Book], error) {
	return s.store.FindBooks(ctx, filter, page)
}
