package repository

import (
	"context"
	"fmt"

	"restaurant-ops/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const deliveriesSchema = `
CREATE TABLE IF NOT EXISTS notification_deliveries (
	id              BIGSERIAL PRIMARY KEY,
	notification_id TEXT        NOT NULL,
	kind            TEXT        NOT NULL,
	recipient       TEXT        NOT NULL,
	subject         TEXT        NOT NULL,
	success         BOOLEAN     NOT NULL,
	error           TEXT        NOT NULL DEFAULT '',
	created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS notification_deliveries_created_at_idx
	ON notification_deliveries (created_at DESC);
`

var deliveryColumns = []string{"notification_id", "kind", "recipient", "subject", "success", "error", "created_at"}

type DeliveryRepositoryInterface interface {
	EnsureSchema(ctx context.Context) error
	Record(ctx context.Context, deliveries []domain.Delivery) error
	Recent(ctx context.Context, limit int) ([]domain.Delivery, error)
}

type DeliveryRepository struct {
	pool *pgxpool.Pool
}

func NewDeliveryRepository(pool *pgxpool.Pool) DeliveryRepositoryInterface {
	return &DeliveryRepository{pool: pool}
}

func (r *DeliveryRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, deliveriesSchema); err != nil {
		return fmt.Errorf("ensure notification_deliveries: %w", err)
	}
	return nil
}

func (r *DeliveryRepository) Record(ctx context.Context, deliveries []domain.Delivery) error {
	if len(deliveries) == 0 {
		return nil
	}
	_, err := r.pool.CopyFrom(ctx,
		pgx.Identifier{"notification_deliveries"},
		deliveryColumns,
		pgx.CopyFromSlice(len(deliveries), func(i int) ([]any, error) {
			d := deliveries[i]
			return []any{d.NotificationID, d.Kind, d.Recipient, d.Subject, d.Success, d.Error, d.CreatedAt}, nil
		}),
	)
	if err != nil {
		return fmt.Errorf("record %d deliveries: %w", len(deliveries), err)
	}
	return nil
}

func (r *DeliveryRepository) Recent(ctx context.Context, limit int) ([]domain.Delivery, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT notification_id, kind, recipient, subject, success, error, created_at
		FROM notification_deliveries
		ORDER BY created_at DESC, id DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("recent deliveries: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Delivery, 0, limit)
	for rows.Next() {
		var d domain.Delivery
		if err := rows.Scan(&d.NotificationID, &d.Kind, &d.Recipient, &d.Subject, &d.Success, &d.Error, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan delivery: %w", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("recent deliveries: %w", err)
	}
	return out, nil
}
