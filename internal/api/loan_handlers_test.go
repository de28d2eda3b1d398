package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createLoan(t *testing.T, ts *testServer, isbn, customer string) LoanResponse {
	t.Helper()

	resp := ts.api.Post("/api/v1/loans", map[string]any{
		"isbn":     isbn,
		"customer": customer,
	})
	require.Equal(t, http.StatusCreated, resp.Code, "create loan failed: %s", resp.Body.String())

	var loan LoanResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &loan))
	return loan
}

func TestCreateLoan(t *testing.T) {
	ts := setupTestServer(t)

	book := createBook(t, ts, "Clean Code", "Martin", "111")

	resp := ts.api.Post("/api/v1/loans", map[string]any{
		"isbn":           "111",
		"customer":       "Alice",
		"customer_email": "alice@example.com",
	})
	require.Equal(t, http.StatusCreated, resp.Code)

	var loan LoanResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &loan))
	assert.Equal(t, book.ID, loan.BookID)
	assert.Equal(t, "Alice", loan.Customer)
	assert.NotEmpty(t, loan.LoanDate)
	assert.Nil(t, loan.Returned)
}

func TestCreateLoan_UnknownISBN(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/loans", map[string]any{
		"isbn":     "999",
		"customer": "Alice",
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Contains(t, resp.Body.String(), "book not found for passed isbn")
}

func TestCreateLoan_BookAlreadyLoaned(t *testing.T) {
	ts := setupTestServer(t)

	createBook(t, ts, "T", "A", "111")
	createLoan(t, ts, "111", "Alice")

	resp := ts.api.Post("/api/v1/loans", map[string]any{
		"isbn":     "111",
		"customer": "Bob",
	})
	assert.Equal(t, http.StatusConflict, resp.Code)
	assert.Contains(t, resp.Body.String(), "BOOK_ALREADY_LOANED")
}

func TestCreateLoan_WithExplicitLoanDate(t *testing.T) {
	ts := setupTestServer(t)

	createBook(t, ts, "T", "A", "111")

	resp := ts.api.Post("/api/v1/loans", map[string]any{
		"isbn":      "111",
		"customer":  "Alice",
		"loan_date": "2026-08-01",
	})
	require.Equal(t, http.StatusCreated, resp.Code)

	var loan LoanResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &loan))
	assert.Equal(t, "2026-08-01", loan.LoanDate)
}

func TestCreateLoan_BadLoanDate(t *testing.T) {
	ts := setupTestServer(t)

	createBook(t, ts, "T", "A", "111")

	resp := ts.api.Post("/api/v1/loans", map[string]any{
		"isbn":      "111",
		"customer":  "Alice",
		"loan_date": "01/08/2026",
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestCreateLoan_BadEmail(t *testing.T) {
	ts := setupTestServer(t)

	createBook(t, ts, "T", "A", "111")

	resp := ts.api.Post("/api/v1/loans", map[string]any{
		"isbn":           "111",
		"customer":       "Alice",
		"customer_email": "not-an-email",
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestGetLoan(t *testing.T) {
	ts := setupTestServer(t)

	createBook(t, ts, "T", "A", "111")
	loan := createLoan(t, ts, "111", "Alice")

	resp := ts.api.Get("/api/v1/loans/" + loan.ID)
	require.Equal(t, http.StatusOK, resp.Code)

	var got LoanResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &got))
	assert.Equal(t, loan.ID, got.ID)
}

func TestGetLoan_NotFound(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/loans/loan-missing")
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestUpdateLoanReturned_RoundTrip(t *testing.T) {
	ts := setupTestServer(t)

	createBook(t, ts, "T", "A", "111")
	loan := createLoan(t, ts, "111", "Alice")

	resp := ts.api.Patch("/api/v1/loans/"+loan.ID, map[string]any{
		"returned": true,
	})
	require.Equal(t, http.StatusOK, resp.Code)

	var got LoanResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &got))
	require.NotNil(t, got.Returned)
	assert.True(t, *got.Returned)

	// The book can be lent again once returned.
	createLoan(t, ts, "111", "Bob")

	// Un-returning the original loan is rejected while the new one is active.
	resp = ts.api.Patch("/api/v1/loans/"+loan.ID, map[string]any{
		"returned": false,
	})
	assert.Equal(t, http.StatusConflict, resp.Code)
	assert.Contains(t, resp.Body.String(), "BOOK_ALREADY_LOANED")
}

func TestListLoans_UnionFilter(t *testing.T) {
	ts := setupTestServer(t)

	createBook(t, ts, "T1", "A", "111")
	createBook(t, ts, "T2", "A", "222")
	createLoan(t, ts, "111", "Alice")
	createLoan(t, ts, "222", "Bob")

	resp := ts.api.Get("/api/v1/loans?isbn=111&customer=Bob")
	require.Equal(t, http.StatusOK, resp.Code)

	var page PageResponse[LoanResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &page))
	assert.Equal(t, 2, page.TotalElements)

	resp = ts.api.Get("/api/v1/loans?customer=Bob")
	require.Equal(t, http.StatusOK, resp.Code)
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &page))
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Bob", page.Items[0].Customer)

	resp = ts.api.Get("/api/v1/loans")
	require.Equal(t, http.StatusOK, resp.Code)
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &page))
	assert.Equal(t, 2, page.TotalElements)
}
