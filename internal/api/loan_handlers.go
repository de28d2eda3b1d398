package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/circulateapp/circulate-server/internal/domain"
	"github.com/circulateapp/circulate-server/internal/errors"
	"github.com/circulateapp/circulate-server/internal/service"
	"github.com/circulateapp/circulate-server/internal/store"
)

func (s *Server) registerLoanRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID:   "createLoan",
		Method:        http.MethodPost,
		Path:          "/api/v1/loans",
		Summary:       "Create loan",
		Description:   "Lends a book, addressed by ISBN, to a customer",
		Tags:          []string{"Loans"},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateLoan)

	huma.Register(s.api, huma.Operation{
		OperationID: "listLoans",
		Method:      http.MethodGet,
		Path:        "/api/v1/loans",
		Summary:     "Search loans",
		Description: "Returns a page of loans matching book ISBN or customer. Filters combine as a union.",
		Tags:        []string{"Loans"},
	}, s.handleListLoans)

	huma.Register(s.api, huma.Operation{
		OperationID: "getLoan",
		Method:      http.MethodGet,
		Path:        "/api/v1/loans/{id}",
		Summary:     "Get loan",
		Description: "Returns a loan by ID",
		Tags:        []string{"Loans"},
	}, s.handleGetLoan)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateLoanReturned",
		Method:      http.MethodPatch,
		Path:        "/api/v1/loans/{id}",
		Summary:     "Update loan returned flag",
		Description: "Records whether the book came back. Clearing the flag reactivates the loan.",
		Tags:        []string{"Loans"},
	}, s.handleUpdateLoanReturned)
}

// === DTOs ===

// LoanResponse contains loan data in API responses.
type LoanResponse struct {
	ID            string    `json:"id" doc:"Loan ID"`
	BookID        string    `json:"book_id" doc:"Loaned book ID"`
	Customer      string    `json:"customer" doc:"Customer name"`
	CustomerEmail string    `json:"customer_email,omitempty" doc:"Customer email for notifications"`
	LoanDate      string    `json:"loan_date" doc:"Calendar date the loan started (YYYY-MM-DD)"`
	Returned      *bool     `json:"returned,omitempty" doc:"Unset while the book is out"`
	CreatedAt     time.Time `json:"created_at" doc:"Creation time"`
	UpdatedAt     time.Time `json:"updated_at" doc:"Last update time"`
}

// CreateLoanRequest is the request body for lending a book.
type CreateLoanRequest struct {
	ISBN          string `json:"isbn" validate:"required" doc:"ISBN of the book to lend"`
	Customer      string `json:"customer" validate:"required" doc:"Customer name"`
	CustomerEmail string `json:"customer_email,omitempty" validate:"omitempty,email" doc:"Customer email for overdue notices"`
	LoanDate      string `json:"loan_date,omitempty" doc:"Loan start date (YYYY-MM-DD), defaults to today"`
}

// CreateLoanInput wraps the create loan request for Huma.
type CreateLoanInput struct {
	Body CreateLoanRequest
}

// LoanOutput wraps the loan response for Huma.
type LoanOutput struct {
	Body LoanResponse
}

// ListLoansInput contains query parameters for searching loans.
type ListLoansInput struct {
	ISBN     string `query:"isbn" doc:"Exact ISBN of the loaned book"`
	Customer string `query:"customer" doc:"Exact customer name"`
	Page     int    `query:"page" minimum:"0" doc:"Zero-based page index"`
	Size     int    `query:"size" minimum:"0" maximum:"100" doc:"Page size, defaults to 20"`
}

// GetLoanInput contains parameters for getting a loan.
type GetLoanInput struct {
	ID string `path:"id" doc:"Loan ID"`
}

// UpdateLoanReturnedRequest is the request body for the returned flag.
type UpdateLoanReturnedRequest struct {
	Returned *bool `json:"returned,omitempty" doc:"True when the book came back, false or null to reactivate"`
}

// UpdateLoanReturnedInput wraps the returned flag update for Huma.
type UpdateLoanReturnedInput struct {
	ID   string `path:"id" doc:"Loan ID"`
	Body UpdateLoanReturnedRequest
}

// === Handlers ===

func (s *Server) handleCreateLoan(ctx context.Context, input *CreateLoanInput) (*LoanOutput, error) {
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	var loanDate time.Time
	if input.Body.LoanDate != "" {
		parsed, err := time.Parse(time.DateOnly, input.Body.LoanDate)
		if err != nil {
			return nil, errors.Validation("loan_date must be a date in YYYY-MM-DD format")
		}
		loanDate = parsed
	}

	loan, err := s.services.Loan.Create(ctx, service.CreateLoanParams{
		ISBN:          input.Body.ISBN,
		Customer:      input.Body.Customer,
		CustomerEmail: input.Body.CustomerEmail,
		LoanDate:      loanDate,
	})
	if errors.Is(err, errors.ErrBookNotFound) {
		// An unresolvable ISBN is a caller mistake here, not a missing resource.
		return nil, errors.Validation("book not found for passed isbn")
	}
	if err != nil {
		return nil, err
	}

	return &LoanOutput{Body: toLoanResponse(loan)}, nil
}

func (s *Server) handleListLoans(ctx context.Context, input *ListLoansInput) (*LoanPageOutput, error) {
	page, err := s.services.Loan.Find(ctx, domain.LoanFilter{
		ISBN:     input.ISBN,
		Customer: input.Customer,
	}, store.PageRequest{Page: input.Page, Size: input.Size})
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

func (s *Server) handleGetLoan(ctx context.Context, input *GetLoanInput) (*LoanOutput, error) {
	loan, err := s.services.Loan.Get(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &LoanOutput{Body: toLoanResponse(loan)}, nil
}

func (s *Server) handleUpdateLoanReturned(ctx context.Context, input *UpdateLoanReturnedInput) (*LoanOutput, error) {
	loan, err := s.services.Loan.SetReturned(ctx, input.ID, input.Body.Returned)
	if err != nil {
		return nil, err
	}
	return &LoanOutput{Body: toLoanResponse(loan)}, nil
}

func toLoanResponse(l *domain.Loan) LoanResponse {
	return LoanResponse{
		ID:            l.ID,
		BookID:        l.BookID,
		Customer:      l.Customer,
		CustomerEmail: l.CustomerEmail,
		LoanDate:      l.LoanDate.Format(time.DateOnly),
		Returned:      l.Returned,
		CreatedAt:     l.CreatedAt,
		UpdatedAt:     l.UpdatedAt,
	}
}
