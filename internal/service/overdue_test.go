package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/circulateapp/circulate-server/internal/domain"
)

func TestOverdueService_Run(t *testing.T) {
	loans, books := newLoanService(t)
	ctx := context.Background()
	today := domain.DateOnly(time.Now())

	_, err := books.Create(ctx, "T1", "A", "111")
	require.NoError(t, err)
	_, err = books.Create(ctx, "T2", "A", "222")
	require.NoError(t, err)
	_, err = books.Create(ctx, "T3", "A", "333")
	require.NoError(t, err)

	// Overdue with email.
	_, err = loans.Create(ctx, CreateLoanParams{
		ISBN: "111", Customer: "Alice", CustomerEmail: "alice@example.com",
		LoanDate: today.AddDate(0, 0, -5),
	})
	require.NoError(t, err)

	// Overdue without email: skipped.
	_, err = loans.Create(ctx, CreateLoanParams{
		ISBN: "222", Customer: "Bob",
		LoanDate: today.AddDate(0, 0, -5),
	})
	require.NoError(t, err)

	// Recent loan: not overdue.
	_, err = loans.Create(ctx, CreateLoanParams{
		ISBN: "333", Customer: "Carol", CustomerEmail: "carol@example.com",
		LoanDate: today,
	})
	require.NoError(t, err)

	sender := &fakeSender{}
	svc := NewOverdueService(loans, sender, testOverdueConfig(), newTestLogger())

	require.NoError(t, svc.Run(ctx))

	sent := sender.sent()
	require.Len(t, sent, 1)
	assert.Equal(t, []string{"alice@example.com"}, sent[0])
	assert.Equal(t, "Overdue loan notice", sender.subjects[0])
	assert.Equal(t, "Please return your book.", sender.bodies[0])
}

func TestOverdueService_Run_NoRecipientsSendsNothing(t *testing.T) {
	loans, books := newLoanService(t)
	ctx := context.Background()

	_, err := books.Create(ctx, "T", "A", "111")
	require.NoError(t, err)
	_, err = loans.Create(ctx, CreateLoanParams{ISBN: "111", Customer: "Alice"})
	require.NoError(t, err)

	sender := &fakeSender{}
	svc := NewOverdueService(loans, sender, testOverdueConfig(), newTestLogger())

	require.NoError(t, svc.Run(ctx))
	assert.Empty(t, sender.sent())
}

func TestOverdueService_Run_DeduplicatesRecipients(t *testing.T) {
	loans, books := newLoanService(t)
	ctx := context.Background()
	today := domain.DateOnly(time.Now())

	_, err := books.Create(ctx, "T1", "A", "111")
	require.NoError(t, err)
	_, err = books.Create(ctx, "T2", "A", "222")
	require.NoError(t, err)

	for _, isbn := range []string{"111", "222"} {
		_, err = loans.Create(ctx, CreateLoanParams{
			ISBN: isbn, Customer: "Alice", CustomerEmail: "alice@example.com",
			LoanDate: today.AddDate(0, 0, -5),
		})
		require.NoError(t, err)
	}

	sender := &fakeSender{}
	svc := NewOverdueService(loans, sender, testOverdueConfig(), newTestLogger())

	require.NoError(t, svc.Run(ctx))

	sent := sender.sent()
	require.Len(t, sent, 1)
	assert.Equal(t, []string{"alice@example.com"}, sent[0])
}

func TestOverdueService_Run_PropagatesSendFailure(t *testing.T) {
	loans, books := newLoanService(t)
	ctx := context.Background()
	today := domain.DateOnly(time.Now())

	_, err := books.Create(ctx, "T", "A", "111")
	require.NoError(t, err)
	_, err = loans.Create(ctx, CreateLoanParams{
		ISBN: "111", Customer: "Alice", CustomerEmail: "alice@example.com",
		LoanDate: today.AddDate(0, 0, -5),
	})
	require.NoError(t, err)

	sender := &fakeSender{err: errors.New("smtp down")}
	svc := NewOverdueService(loans, sender, testOverdueConfig(), newTestLogger())

	err = svc.Run(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "smtp down")
}
