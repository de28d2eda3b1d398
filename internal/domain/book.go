// Package domain contains the core business entities and domain logic for the Circulate library service.
package domain

import (
	"strings"
	"time"

	"github.com/circulateapp/circulate-server/internal/errors"
)

// Book represents a registered book in the library inventory.
//
// A book carries no loan state. Whether a book is out on loan is always
// derived by querying the loan ledger, never stored here.
type Book struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	ISBN      string    `json:"isbn"`
}

// Validate checks the book's required fields.
// ISBN uniqueness is enforced by the catalog, not here.
func (b *Book) Validate() error {
	fields := map[string]string{}
	if strings.TrimSpace(b.Title) == "" {
		fields["title"] = "is required"
	}
	if strings.TrimSpace(b.Author) == "" {
		fields["author"] = "is required"
	}
	if strings.TrimSpace(b.ISBN) == "" {
		fields["isbn"] = "is required"
	}
	if len(fields) > 0 {
		return errors.ValidationWithDetails("invalid book", fields)
	}
	return nil
}

// BookFilter selects books by any combination of fields.
// Title and author match partially, ISBN matches exactly.
// Empty fields are ignored.
type BookFilter struct {
	Title  string
	Author string
	ISBN   string
}

// Empty reports whether no filter fields are set.
func (f BookFilter) Empty() bool {
	return f.Title == "" && f.Author == "" && f.ISBN == ""
}
