package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/circulateapp/circulate-server/internal/config"
	"github.com/circulateapp/circulate-server/internal/logger"
	"github.com/circulateapp/circulate-server/internal/scheduler"
	"github.com/circulateapp/circulate-server/internal/service"
)

// OverdueScanJob runs the periodic overdue loan scan.
type OverdueScanJob struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Shutdown implements do.Shutdownable.
func (j *OverdueScanJob) Shutdown() error {
	j.cancel()
	<-j.done
	return nil
}

// ProvideOverdueScanJob provides the periodic overdue notification job.
func ProvideOverdueScanJob(i do.Injector) (*OverdueScanJob, error) {
	cfg := do.MustInvoke[*config.Config](i)
	overdue := do.MustInvoke[*service.OverdueService](i)
	log := do.MustInvoke[*logger.Logger](i)

	sched := scheduler.New("overdue-scan", cfg.Overdue.ScanInterval, overdue.Run, log)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sched.Run(ctx)
		close(done)
	}()

	log.Info("Overdue scan job started", "interval", cfg.Overdue.ScanInterval)

	return &OverdueScanJob{cancel: cancel, done: done}, nil
}
