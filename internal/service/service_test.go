package service

import (
	"context"
	"io"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/circulateapp/circulate-server/internal/config"
	"github.com/circulateapp/circulate-server/internal/logger"
	"github.com/circulateapp/circulate-server/internal/store"
	"github.com/circulateapp/circulate-server/internal/store/sqlite"
)

func newTestLogger() *logger.Logger {
	return logger.New(logger.Config{Writer: io.Discard, Format: "json"})
}

func newTestStore(t *testing.T) store.Store {
	t.Helper()

	s, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = s.Close()
	})
	return s
}

func newBookService(t *testing.T) (*BookService, store.Store) {
	t.Helper()
	st := newTestStore(t)
	return NewBookService(st, newTestLogger()), st
}

func newLoanService(t *testing.T) (*LoanService, *BookService) {
	t.Helper()
	st := newTestStore(t)
	log := newTestLogger()
	return NewLoanService(st, log, 3), NewBookService(st, log)
}

// fakeSender records sent messages for assertions.
type fakeSender struct {
	mu         sync.Mutex
	subjects   []string
	bodies     []string
	recipients [][]string
	err        error
}

func (f *fakeSender) Send(_ context.Context, subject, body string, recipients []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.subjects = append(f.subjects, subject)
	f.bodies = append(f.bodies, body)
	f.recipients = append(f.recipients, recipients)
	return nil
}

func (f *fakeSender) sent() [][]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.recipients
}

func testOverdueConfig() config.OverdueConfig {
	return config.OverdueConfig{
		ThresholdDays: 3,
		Subject:       "Overdue loan notice",
		Message:       "Please return your book.",
	}
}
