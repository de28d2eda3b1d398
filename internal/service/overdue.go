package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/circulateapp/circulate-server/internal/config"
	"github.com/circulateapp/circulate-server/internal/logger"
	"github.com/circulateapp/circulate-server/internal/mail"
)

// OverdueService scans the ledger for late loans and notifies customers
// by email. One scan sends at most one message per overdue loan recipient.
type OverdueService struct {
	loans  *LoanService
	sender mail.Sender
	cfg    config.OverdueConfig
	logger *logger.Logger
}

// NewOverdueService creates a new overdue notification service.
func NewOverdueService(loans *LoanService, sender mail.Sender, cfg config.OverdueConfig, log *logger.Logger) *OverdueService {
	return &OverdueService{
		loans:  loans,
		sender: sender,
		cfg:    cfg,
		logger: log,
	}
}

// Run performs a single overdue scan. Loans without a customer email are
// counted but skipped; a delivery failure is reported, not retried.
func (s *OverdueService) Run(ctx context.Context) error {
	runID := uuid.NewString()
	log := s.logger.WithField("scan_id", runID)

	late, err := s.loans.AllLateLoans(ctx)
	if err != nil {
		return fmt.Errorf("scan overdue loans: %w", err)
	}

	var recipients []string
	seen := make(map[string]bool)
	skipped := 0
	for _, loan := range late {
		if loan.CustomerEmail == "" {
			skipped++
			continue
		}
		if !seen[loan.CustomerEmail] {
			seen[loan.CustomerEmail] = true
			recipients = append(recipients, loan.CustomerEmail)
		}
	}

	log.Info("overdue scan finished",
		"overdue_loans", len(late),
		"recipients", len(recipients),
		"without_email", skipped,
	)

	if len(recipients) == 0 {
		return nil
	}

	if err := s.sender.Send(ctx, s.cfg.Subject, s.cfg.Message, recipients); err != nil {
		return fmt.Errorf("send overdue notifications: %w", err)
	}

	log.Info("overdue notifications sent", "recipients", len(recipients))
	return nil
}
