package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/circulateapp/circulate-server/internal/domain"
	"github.com/circulateapp/circulate-server/internal/store"
)

func (s *Server) registerBookRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID:   "createBook",
		Method:        http.MethodPost,
		Path:          "/api/v1/books",
		Summary:       "Register book",
		Description:   "Registers a new book in the catalog. The ISBN must be unique.",
		Tags:          []string{"Books"},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "listBooks",
		Method:      http.MethodGet,
		Path:        "/api/v1/books",
		Summary:     "Search books",
		Description: "Returns a page of books. Title and author match partially, ISBN exactly.",
		Tags:        []string{"Books"},
	}, s.handleListBooks)

	huma.Register(s.api, huma.Operation{
		OperationID: "getBook",
		Method:      http.MethodGet,
		Path:        "/api/v1/books/{id}",
		Summary:     "Get book",
		Description: "Returns a book by ID",
		Tags:        []string{"Books"},
	}, s.handleGetBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateBook",
		Method:      http.MethodPut,
		Path:        "/api/v1/books/{id}",
		Summary:     "Update book",
		Description: "Replaces the book's title and author. The ISBN cannot be changed.",
		Tags:        []string{"Books"},
	}, s.handleUpdateBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteBook",
		Method:      http.MethodDelete,
		Path:        "/api/v1/books/{id}",
		Summary:     "Delete book",
		Description: "Removes a book from the catalog. Loan history is kept.",
		Tags:        []string{"Books"},
	}, s.handleDeleteBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "getBookLoans",
		Method:      http.MethodGet,
		Path:        "/api/v1/books/{id}/loans",
		Summary:     "Get book loans",
		Description: "Returns the full lending history of a book",
		Tags:        []string{"Books"},
	}, s.handleGetBookLoans)

	huma.Register(s.api, huma.Operation{
		OperationID: "getBookAvailability",
		Method:      http.MethodGet,
		Path:        "/api/v1/books/{id}/availability",
		Summary:     "Get book availability",
		Description: "Reports whether the book currently has no active loan",
		Tags:        []string{"Books"},
	}, s.handleGetBookAvailability)
}

// === DTOs ===

// BookResponse contains book data in API responses.
type BookResponse struct {
	ID        string    `json:"id" doc:"Book ID"`
	Title     string    `json:"title" doc:"Book title"`
	Author    string    `json:"author" doc:"Book author"`
	ISBN      string    `json:"isbn" doc:"Book ISBN"`
	CreatedAt time.Time `json:"created_at" doc:"Creation time"`
	UpdatedAt time.Time `json:"updated_at" doc:"Last update time"`
}

// PageResponse is a paginated slice of results.
type PageResponse[T any] struct {
	Items         []T `json:"items" doc:"Results on this page"`
	TotalElements int `json:"total_elements" doc:"Total matching records"`
	Page          int `json:"page" doc:"Zero-based page index"`
	Size          int `json:"size" doc:"Page size"`
}

// CreateBookRequest is the request body for registering a book.
type CreateBookRequest struct {
	Title  string `json:"title" validate:"required" doc:"Book title"`
	Author string `json:"author" validate:"required" doc:"Book author"`
	ISBN   string `json:"isbn" validate:"required" doc:"Book ISBN, unique in the catalog"`
}

// CreateBookInput wraps the create book request for Huma.
type CreateBookInput struct {
	Body CreateBookRequest
}

// BookOutput wraps the book response for Huma.
type BookOutput struct {
	Body BookResponse
}

// ListBooksInput contains query parameters for searching books.
type ListBooksInput struct {
	Title  string `query:"title" doc:"Partial title match"`
	Author string `query:"author" doc:"Partial author match"`
	ISBN   string `query:"isbn" doc:"Exact ISBN match"`
	Page   int    `query:"page" minimum:"0" doc:"Zero-based page index"`
	Size   int    `query:"size" minimum:"0" maximum:"100" doc:"Page size, defaults to 20"`
}

// BookPageOutput wraps a page of books for Huma.
type BookPageOutput struct {
	Body PageResponse[BookResponse]
}

// GetBookInput contains parameters for getting a book.
type GetBookInput struct {
	ID string `path:"id" doc:"Book ID"`
}

// UpdateBookRequest is the request body for updating a book.
// The ISBN is immutable and deliberately absent.
type UpdateBookRequest struct {
	Title  string `json:"title" validate:"required" doc:"Book title"`
	Author string `json:"author" validate:"required" doc:"Book author"`
}

// UpdateBookInput wraps the update book request for Huma.
type UpdateBookInput struct {
	ID   string `path:"id" doc:"Book ID"`
	Body UpdateBookRequest
}

// DeleteBookInput contains parameters for deleting a book.
type DeleteBookInput struct {
	ID string `path:"id" doc:"Book ID"`
}

// GetBookLoansInput contains parameters for a book's lending history.
type GetBookLoansInput struct {
	ID   string `path:"id" doc:"Book ID"`
	Page int    `query:"page" minimum:"0" doc:"Zero-based page index"`
	Size int    `query:"size" minimum:"0" maximum:"100" doc:"Page size, defaults to 20"`
}

// LoanPageOutput wraps a page of loans for Huma.
type LoanPageOutput struct {
	Body PageResponse[LoanResponse]
}

// AvailabilityResponse reports whether a book can be loaned right now.
type AvailabilityResponse struct {
	BookID    string `json:"book_id" doc:"Book ID"`
	Available bool   `json:"available" doc:"True when the book has no active loan"`
}

// AvailabilityOutput wraps the availability response for Huma.
type AvailabilityOutput struct {
	Body AvailabilityResponse
}

// === Handlers ===

func (s *Server) handleCreateBook(ctx context.Context, input *CreateBookInput) (*BookOutput, error) {
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	book, err := s.services.Book.Create(ctx, input.Body.Title, input.Body.Author, input.Body.ISBN)
	if err != nil {
		return nil, err
	}

	return &BookOutput{Body: toBookResponse(book)}, nil
}

func (s *Server) handleListBooks(ctx context.Context, input *ListBooksInput) (*BookPageOutput, error) {
	page, err := s.services.Book.Find(ctx, domain.BookFilter{
		Title:  input.Title,
		Author: input.Author,
		ISBN:   input.ISBN,
	}, store.PageRequest{Page: input.Page, Size: input.Size})
	if err != nil {
		return nil, err
	}

	items := make([]BookResponse, len(page.Items))
	for i, b := range page.Items {
		items[i] = toBookResponse(b)
	}

	return &BookPageOutput{Body: PageResponse[BookResponse]{
		Items:         items,
		TotalElements: page.TotalElements,
		Page:          page.PageIndex,
		Size:          page.PageSize,
	}}, nil
}

func (s *Server) handleGetBook(ctx context.Context, input *GetBookInput) (*BookOutput, error) {
	book, err := s.services.Book.Get(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &BookOutput{Body: toBookResponse(book)}, nil
}

func (s *Server) handleUpdateBook(ctx context.Context, input *UpdateBookInput) (*BookOutput, error) {
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	book, err := s.services.Book.Update(ctx, input.ID, input.Body.Title, input.Body.Author)
	if err != nil {
		return nil, err
	}
	return &BookOutput{Body: toBookResponse(book)}, nil
}

func (s *Server) handleDeleteBook(ctx context.Context, input *DeleteBookInput) (*MessageOutput, error) {
	if err := s.services.Book.Delete(ctx, input.ID); err != nil {
		return nil, err
	}
	return &MessageOutput{Body: MessageResponse{Message: "Book deleted"}}, nil
}

func (s *Server) handleGetBookLoans(ctx context.Context, input *GetBookLoansInput) (*LoanPageOutput, error) {
	page, err := s.services.Loan.LoansByBook(ctx, input.ID,
		store.PageRequest{Page: input.Page, Size: input.Size})
	if err != nil {
		return nil, err
	}

	items := make([]LoanResponse, len(page.Items))
	for i, l := range page.Items {
		items[i] = toLoanResponse(l)
	}

	return &LoanPageOutput{Body: PageResponse[LoanResponse]{
		Items:         items,
		TotalElements: page.TotalElements,
		Page:          page.PageIndex,
		Size:          page.PageSize,
	}}, nil
}

func (s *Server) handleGetBookAvailability(ctx context.Context, input *GetBookInput) (*AvailabilityOutput, error) {
	available, err := s.services.Loan.BookAvailable(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &AvailabilityOutput{Body: AvailabilityResponse{
		BookID:    input.ID,
		Available: available,
	}}, nil
}

func toBookResponse(b *domain.Book) BookResponse {
	return BookResponse{
		ID:        b.ID,
		Title:     b.Title,
		Author:    b.Author,
		ISBN:      b.ISBN,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}
