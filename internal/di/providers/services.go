package providers

import (
	"github.com/samber/do/v2"

	"github.com/circulateapp/circulate-server/internal/config"
	"github.com/circulateapp/circulate-server/internal/logger"
	"github.com/circulateapp/circulate-server/internal/mail"
	"github.com/circulateapp/circulate-server/internal/service"
)

// ProvideMailSender provides the outbound mail sender.
func ProvideMailSender(i do.Injector) (mail.Sender, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	return mail.New(cfg.Mail, log), nil
}

// ProvideBookService provides the book catalog service.
func ProvideBookService(i do.Injector) (*service.BookService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewBookService(storeHandle.Store, log), nil
}

// ProvideLoanService provides the loan ledger service.
func ProvideLoanService(i do.Injector) (*service.LoanService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewLoanService(storeHandle.Store, log, cfg.Overdue.ThresholdDays), nil
}

// ProvideOverdueService provides the overdue notification service.
func ProvideOverdueService(i do.Injector) (*service.OverdueService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	loans := do.MustInvoke[*service.LoanService](i)
	sender := do.MustInvoke[mail.Sender](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewOverdueService(loans, sender, cfg.Overdue, log), nil
}
