// Package services содержит фоновые задачи по подпискам: перевод закончившихся
// подписок в expired и публикацию уведомлений о скором окончании.
package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/gym-manager/internal/lib/metrics"
	"github.com/magabrotheeeer/gym-manager/internal/lib/period"
	"github.com/magabrotheeeer/gym-manager/internal/lib/sl"
	"github.com/magabrotheeeer/gym-manager/internal/models"
	"github.com/magabrotheeeer/gym-manager/internal/rabbitmq"
)

// SubscriptionRepository описывает хранилище, которое нужно планировщику.
type SubscriptionRepository interface {
	ListSubscriptionsByStatus(ctx context.Context, status models.SubscriptionStatus) ([]*models.Subscription, error)
	UpdateSubscription(ctx context.Context, sub models.Subscription) error
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetPackage(ctx context.Context, id string) (*models.Package, error)
}

// Publisher отправляет сообщение в брокер.
type Publisher interface {
	Publish(routingKey string, message any) error
}

// Deduper не дает отправить одно и то же уведомление дважды.
type Deduper interface {
	MarkNotified(ctx context.Context, key string, ttl time.Duration) (bool, error)
	UnmarkNotified(ctx context.Context, key string) error
}

// Options настройки планировщика.
type Options struct {
	NoticeDays    int
	Notifications bool
	Location      *time.Location
}

// SchedulerService периодически обслуживает подписки.
type SchedulerService struct {
	repo      SubscriptionRepository
	publisher Publisher
	dedup     Deduper
	opts      Options
	log       *slog.Logger
	now       func() time.Time
}

// NewSchedulerService создает новый экземпляр SchedulerService.
func NewSchedulerService(repo SubscriptionRepository, publisher Publisher, dedup Deduper, opts Options, log *slog.Logger) *SchedulerService {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	return &SchedulerService{
		repo:      repo,
		publisher: publisher,
		dedup:     dedup,
		opts:      opts,
		log:       log,
		now:       time.Now,
	}
}

// Run выполняет обход сразу и затем каждые interval до отмены ctx.
func (s *SchedulerService) Run(ctx context.Context, interval time.Duration) {
	s.RunOnce(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("scheduler stopped")
			return
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}

// RunOnce выполняет один обход. Ошибки логируются, следующий обход попробует снова.
func (s *SchedulerService) RunOnce(ctx context.Context) {
	expired, err := s.ExpireEnded(ctx)
	if err != nil {
		s.log.Error("failed to expire ended subscriptions", sl.Err(err))
	} else if expired > 0 {
		s.log.Info("expired ended subscriptions", slog.Int("count", expired))
	}

	if !s.opts.Notifications {
		return
	}
	published, err := s.NotifyExpiring(ctx)
	if err != nil {
		s.log.Error("failed to publish expiring notices", sl.Err(err))
		return
	}
	s.log.Info("published expiring notices", slog.Int("count", published))
}

// ExpireEnded сохраняет статус expired для активных подписок, срок которых прошел.
func (s *SchedulerService) ExpireEnded(ctx context.Context) (int, error) {
	subs, err := s.repo.ListSubscriptionsByStatus(ctx, models.SubscriptionActive)
	if err != nil {
		return 0, err
	}
	now := s.now()
	count := 0
	for _, sub := range subs {
		if sub.EffectiveStatus(now) != models.SubscriptionExpired {
			continue
		}
		sub.Status = models.SubscriptionExpired
		sub.UpdatedAt = now
		if err := s.repo.UpdateSubscription(ctx, *sub); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

// NotifyExpiring публикует уведомления по активным подпискам, которые
// заканчиваются ровно через NoticeDays календарных дней.
func (s *SchedulerService) NotifyExpiring(ctx context.Context) (int, error) {
	subs, err := s.repo.ListSubscriptionsByStatus(ctx, models.SubscriptionActive)
	if err != nil {
		return 0, err
	}
	now := s.now().In(s.opts.Location)
	target := period.DateKey(period.AddDays(period.StartOfDay(now), s.opts.NoticeDays))

	published := 0
	for _, sub := range subs {
		if !sub.IsCurrentlyActive(now) || period.DateKey(sub.EndDate.In(s.opts.Location)) != target {
			continue
		}
		notice, ok := s.notice(ctx, sub, now)
		if !ok {
			continue
		}
		key := sub.ID + ":" + target
		fresh, err := s.dedup.MarkNotified(ctx, key, time.Duration(s.opts.NoticeDays+2)*24*time.Hour)
		if err != nil {
			return published, err
		}
		if !fresh {
			continue
		}
		if err := s.publisher.Publish(rabbitmq.RoutingExpiring, notice); err != nil {
			s.log.Error("failed to publish message", sl.ID("subscription_id", sub.ID), sl.Err(err))
			// отметка снимается, следующий обход отправит уведомление снова
			if uerr := s.dedup.UnmarkNotified(ctx, key); uerr != nil {
				s.log.Error("failed to clear notification mark", sl.ID("subscription_id", sub.ID), sl.Err(uerr))
			}
			continue
		}
		metrics.NotificationsPublished.Inc()
		published++
	}
	return published, nil
}

func (s *SchedulerService) notice(ctx context.Context, sub *models.Subscription, now time.Time) (models.ExpiringNotice, bool) {
	user, err := s.repo.GetUser(ctx, sub.UserID)
	if err != nil {
		s.log.Warn("trainee not found for subscription", sl.ID("subscription_id", sub.ID), sl.Err(err))
		return models.ExpiringNotice{}, false
	}
	if user.Email == nil || *user.Email == "" {
		return models.ExpiringNotice{}, false
	}
	packageName := ""
	if pkg, err := s.repo.GetPackage(ctx, sub.PackageID); err == nil {
		packageName = pkg.Name
	}
	return models.ExpiringNotice{
		SubscriptionID: sub.ID,
		TraineeName:    user.Name,
		Email:          *user.Email,
		PackageName:    packageName,
		EndDate:        sub.EndDate,
		DaysRemaining:  sub.DaysRemaining(now),
	}, true
}
