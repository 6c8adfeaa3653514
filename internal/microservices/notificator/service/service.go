package service

import (
	"context"

	"restaurant-ops/internal/common/logger"
	"restaurant-ops/internal/config"
	"restaurant-ops/internal/microservices/notificator/repository"
)

type Service struct {
	AlertService AlertServiceInterface
	Notifier     *Notifier
	Triggers     *TriggerManager
}

// New wires the notification services. Subscriptions run under base, which
// should live as long as the process.
func New(base context.Context, repo repository.Repository, sender Sender, cfg config.NotificationsConfig, opts ...NotifierOption) *Service {
	log := logger.New("notificator")

	dispatcher := NewDispatcher(sender, cfg.MaxParallel, log)
	if repo.DeliveryRepo != nil {
		opts = append(opts, WithDeliveryLog(repo.DeliveryRepo))
	}
	notifier := NewNotifier(repo.LookupRepo, dispatcher, log, opts...)

	orders := NewOrderNotifier(repo.LookupRepo, notifier, log)
	tables := NewTableNotifier(repo.LookupRepo, notifier, log)

	triggers := NewTriggerManager(base,
		NewSubscription("orders", repo.Orders, orders.HandleEvent, cfg.QueueDepth, log),
		NewSubscription("tables", repo.Tables, tables.HandleEvent, cfg.QueueDepth, log),
		log,
	)

	return &Service{
		AlertService: NewAlertService(repo.LookupRepo, notifier, cfg.LowStockTimeout, log),
		Notifier:     notifier,
		Triggers:     triggers,
	}
}
