package api

import (
	"github.com/circulateapp/circulate-server/internal/service"
)

// Services groups all business logic services used by the API server.
// This reduces the parameter count for NewServer and improves testability.
type Services struct {
	Book *service.BookService
	Loan *service.LoanService
}
