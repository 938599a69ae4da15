package worker

import (
	"context"
	"time"

	"go-telehealth/internal/domain/repository"
	"go-telehealth/internal/service"
	"go-telehealth/pkg/rabbitmq"

	"github.com/sirupsen/logrus"
)

// SubscriptionReminder publishes subscription.expiring once for every
// subscription that lapses within the window.
type SubscriptionReminder struct {
	log              *logrus.Logger
	subscriptionRepo repository.SubscriptionRepository
	marker           service.ReminderMarker
	publisher        rabbitmq.Publisher
	window           time.Duration
	timeout          time.Duration
	now              func() time.Time
}

func NewSubscriptionReminder(
	log *logrus.Logger,
	subscriptionRepo repository.SubscriptionRepository,
	marker service.ReminderMarker,
	publisher rabbitmq.Publisher,
	window time.Duration,
) *SubscriptionReminder {
	return &SubscriptionReminder{
		log:              log,
		subscriptionRepo: subscriptionRepo,
		marker:           marker,
		publisher:        publisher,
		window:           window,
		timeout:          time.Minute,
		now:              time.Now,
	}
}

func (j *SubscriptionReminder) Name() string {
	return "subscription reminder"
}

func (j *SubscriptionReminder) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	sent, err := j.RunOnce(ctx)
	if err != nil {
		j.log.Warnf("Subscription reminder run failed: %v", err)
		return
	}
	j.log.Infof("Subscription reminder run finished, %d reminders sent", sent)
}

// RunOnce performs a single pass and returns the number of events published.
func (j *SubscriptionReminder) RunOnce(ctx context.Context) (int, error) {
	now := j.now().UTC()
	subs, err := j.subscriptionRepo.FindEndingBetween(ctx, now, now.Add(j.window))
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, sub := range subs {
		latest, err := j.subscriptionRepo.FindLatestActive(ctx, sub.UserID, sub.WalletAddress, now)
		if err != nil {
			j.log.Warnf("Failed to load latest subscription for %s: %v", sub.ID, err)
			continue
		}
		if latest != nil && latest.ID != sub.ID {
			// Renewed; the newer row gets its own reminder when it lapses
			continue
		}

		first, err := j.marker.Mark(ctx, sub.ID)
		if err != nil {
			j.log.Warnf("Failed to mark reminder for subscription %s: %v", sub.ID, err)
			continue
		}
		if !first {
			continue
		}

		event := rabbitmq.SubscriptionEvent{
			SubscriptionID:  sub.ID,
			UserID:          sub.UserID,
			WalletAddress:   sub.WalletAddress,
			SubscriptionEnd: sub.SubscriptionEnd,
			Timestamp:       now,
		}
		if err := j.publisher.Publish(ctx, rabbitmq.RoutingSubscriptionExpiring, event); err != nil {
			j.log.Warnf("Failed to publish reminder for subscription %s: %v", sub.ID, err)
			if err := j.marker.Unmark(ctx, sub.ID); err != nil {
				j.log.Warnf("Failed to clear reminder marker for subscription %s: %v", sub.ID, err)
			}
			continue
		}
		sent++
	}

	return sent, nil
}
