package workers

import (
	"sync"
	"time"

	"festmatch_backend/internal/logger"
	"festmatch_backend/internal/services"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// QuotaWorker runs the subscription maintenance jobs: the daily swipe
// counter reset shortly after midnight and an hourly expiry sweep. Both
// underlying operations are idempotent, so a missed or doubled run is
// harmless.
type QuotaWorker struct {
	db                  *gorm.DB
	subscriptionService services.SubscriptionService
	cron                *cron.Cron
	mu                  sync.Mutex
	running             bool
}

func NewQuotaWorker(db *gorm.DB, subscriptionService services.SubscriptionService) *QuotaWorker {
	return &QuotaWorker{
		db:                  db,
		subscriptionService: subscriptionService,
	}
}

func (w *QuotaWorker) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return nil
	}

	w.cron = cron.New()

	if _, err := w.cron.AddFunc("5 0 * * *", w.resetSwipeLimits); err != nil {
		return err
	}
	if _, err := w.cron.AddFunc("@hourly", w.expireSubscriptions); err != nil {
		return err
	}

	w.cron.Start()
	w.running = true
	logger.Info("quota worker started")
	return nil
}

func (w *QuotaWorker) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return
	}
	ctx := w.cron.Stop()
	<-ctx.Done()
	w.running = false
	logger.Info("quota worker stopped")
}

func (w *QuotaWorker) resetSwipeLimits() {
	count, err := w.subscriptionService.ResetDailySwipeLimits(w.db, time.Now())
	logger.WorkerLog("quota", "reset daily swipe limits", err)
	if err == nil && count > 0 {
		logger.Info("daily swipe limits reset", "users", count)
	}
}

func (w *QuotaWorker) expireSubscriptions() {
	count, err := w.subscriptionService.ExpireSubscriptions(w.db, time.Now())
	logger.WorkerLog("quota", "expire subscriptions", err)
	if err == nil && count > 0 {
		logger.Info("subscriptions expired", "users", count)
	}
}
