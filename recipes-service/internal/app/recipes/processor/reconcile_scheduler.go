package processor

import (
	"context"
	"time"

	"github.com/ahmed-elshahat-702/recipe-hub/pkg/logger"
	"github.com/ahmed-elshahat-702/recipe-hub/recipes-service/internal/app/recipes/service"

	"github.com/robfig/cron/v3"
)

// ReconcileScheduler периодически запускает сверку обратных индексов пользователей
type ReconcileScheduler struct {
	cron       *cron.Cron
	reconciler service.Reconciler
	timeout    time.Duration
}

func NewReconcileScheduler(reconciler service.Reconciler, timeout time.Duration) *ReconcileScheduler {
	c := cron.New(
		cron.WithLogger(cron.PrintfLogger(logger.Logger())),
		// Следующий запуск пропускается, пока не закончился предыдущий
		cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
	)

	return &ReconcileScheduler{
		cron:       c,
		reconciler: reconciler,
		timeout:    timeout,
	}
}

// Start регистрирует задачу по расписанию и выполняет первую сверку сразу
func (s *ReconcileScheduler) Start(ctx context.Context, schedule string) error {
	logger.Info().Str("schedule", schedule).Msg("Starting index reconcile scheduler")

	_, err := s.cron.AddFunc(schedule, func() {
		s.run(ctx, "scheduled")
	})
	if err != nil {
		return err
	}

	s.cron.Start()

	go s.run(ctx, "initial")

	return nil
}

func (s *ReconcileScheduler) run(ctx context.Context, trigger string) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	report, err := s.reconciler.Reconcile(ctx)
	if err != nil {
		logger.Error().
			Err(err).
			Str("trigger", trigger).
			Int("added", report.Added).
			Int("removed", report.Removed).
			Int("failed", report.Failed).
			Msg("Index reconcile failed")
		return
	}

	logger.Info().
		Str("trigger", trigger).
		Int("added", report.Added).
		Int("removed", report.Removed).
		Dur("duration", time.Since(start)).
		Msg("Index reconcile completed")
}

func (s *ReconcileScheduler) Stop() {
	logger.Info().Msg("Stopping index reconcile scheduler...")
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info().Msg("Index reconcile scheduler stopped")
}

func (s *ReconcileScheduler) GetEntries() []cron.Entry {
	return s.cron.Entries()
}
