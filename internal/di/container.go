// Package di provides dependency injection configuration for the Circulate server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/circulateapp/circulate-server/internal/config"
	"github.com/circulateapp/circulate-server/internal/di/providers"
	"github.com/circulateapp/circulate-server/internal/logger"
	"github.com/circulateapp/circulate-server/internal/mail"
	"github.com/circulateapp/circulate-server/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)

	// Database layer
	do.Provide(injector, providers.ProvideStore)

	// Mail
	do.Provide(injector, providers.ProvideMailSender)

	// Business services
	do.Provide(injector, providers.ProvideBookService)
	do.Provide(injector, providers.ProvideLoanService)
	do.Provide(injector, providers.ProvideOverdueService)

	// Workers
	do.Provide(injector, providers.ProvideOverdueScanJob)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and returns handles for lifecycle management.
// This triggers lazy initialization of all core services.
func Bootstrap(injector *do.RootScope) error {
	if _, err := do.Invoke[*config.Config](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*logger.Logger](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*providers.StoreHandle](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[mail.Sender](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*service.BookService](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*service.LoanService](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*service.OverdueService](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*providers.OverdueScanJob](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*providers.HTTPServerHandle](injector); err != nil {
		return err
	}
	return nil
}
