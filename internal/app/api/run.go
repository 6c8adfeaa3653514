package api

import (
	"context"
	"fmt"
	"time"

	"restaurant-ops/internal/common/httpx"
	"restaurant-ops/internal/common/logger"
	"restaurant-ops/internal/config"
	"restaurant-ops/internal/connections/brevo"
	"restaurant-ops/internal/connections/database"
	"restaurant-ops/internal/connections/mongodb"
	"restaurant-ops/internal/connections/rabbitmq"
	notifhandlers "restaurant-ops/internal/microservices/notificator/handlers"
	notifrepo "restaurant-ops/internal/microservices/notificator/repository"
	notifservice "restaurant-ops/internal/microservices/notificator/service"
	reporthandlers "restaurant-ops/internal/microservices/report/handlers"
	reportrepo "restaurant-ops/internal/microservices/report/repository"
	reportservice "restaurant-ops/internal/microservices/report/service"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Run serves the HTTP API and the change triggers until ctx is canceled.
func Run(ctx context.Context, cfg *config.Config) error {
	lg := logger.New("api")

	loc, err := time.LoadLocation(cfg.Reports.Timezone)
	if err != nil {
		return fmt.Errorf("reports timezone: %w", err)
	}

	// 1. Document store
	client, err := mongodb.Connect(ctx, cfg.Mongo)
	if err != nil {
		return err
	}
	defer func() { _ = client.Disconnect(context.Background()) }()
	db := client.Database(cfg.Mongo.Database)

	checks := map[string]Pinger{
		"mongo": func(ctx context.Context) error { return client.Ping(ctx, readpref.Primary()) },
	}

	// 2. Optional delivery log
	var pool *pgxpool.Pool
	if cfg.Database.Enabled() {
		pool, err = database.ConnectDB(ctx, cfg.Database)
		if err != nil {
			return err
		}
		defer pool.Close()
		checks["postgres"] = pool.Ping
	}

	var opts []notifservice.NotifierOption

	// 3. Optional fan-out broker
	if cfg.RabbitMQ.Enabled() {
		rmqClient, err := rabbitmq.Dial(cfg.RabbitMQ)
		if err != nil {
			return err
		}
		defer rmqClient.Close()
		if err := rmqClient.DeclareFanout(cfg.RabbitMQ.Exchange, cfg.RabbitMQ.Queue); err != nil {
			return err
		}
		opts = append(opts, notifservice.WithPublisher(rmqClient, cfg.RabbitMQ.Exchange))
		checks["rabbitmq"] = func(context.Context) error { return rmqClient.Ping() }
	}

	// 4. Services
	nRepo := notifrepo.New(db, pool)
	if nRepo.DeliveryRepo != nil {
		if err := nRepo.DeliveryRepo.EnsureSchema(ctx); err != nil {
			return err
		}
	}
	nSvc := notifservice.New(ctx, *nRepo, brevo.New(cfg.Email), cfg.Notifications, opts...)
	defer nSvc.Triggers.Shutdown()

	rSvc := reportservice.New(*reportrepo.New(db), loc)

	state := nSvc.Triggers.ControlTriggers(cfg.Notifications.WatchOrders, cfg.Notifications.WatchTables)
	lg.Info().
		Bool("order_watching", state.OrderWatching).
		Bool("table_watching", state.TableWatching).
		Msg("initial trigger state")

	// 5. HTTP
	router := NewRouter(lg, checks,
		reporthandlers.New(rSvc).ReportHandler,
		notifhandlers.New(nSvc).NotificationHandler,
	)
	lg.Info().Str("addr", cfg.HTTP.Addr).Msg("service_started")
	return httpx.New(cfg.HTTP.Addr, router).Run(ctx)
}
