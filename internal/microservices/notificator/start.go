package notificator

import (
	"context"
	"fmt"

	"restaurant-ops/internal/config"
	"restaurant-ops/internal/connections/rabbitmq"
	"restaurant-ops/internal/microservices/notificator/service"
)

// Start runs the notification-subscriber mode until ctx is canceled.
func Start(ctx context.Context, cfg config.RabbitMQConfig) error {
	if !cfg.Enabled() {
		return fmt.Errorf("notification-subscriber needs rabbitmq.host to be set")
	}
	rmqClient, err := rabbitmq.Dial(cfg)
	if err != nil {
		return err
	}
	defer rmqClient.Close()

	if err := rmqClient.DeclareFanout(cfg.Exchange, cfg.Queue); err != nil {
		return err
	}

	svc := service.NewNotificatorService(rmqClient.Channel(), cfg.Queue)
	return svc.Notify(ctx)
}
