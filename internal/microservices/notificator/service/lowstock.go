package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"restaurant-ops/internal/domain"
	"restaurant-ops/internal/microservices/notificator/repository"

	"github.com/rs/zerolog"
)

const (
	msgNoLowStock = "No low-stock items to alert."
	msgNoStaff    = "No staff members found to notify."
	msgAlertSent  = "Low-stock alert dispatched."
)

type LowStockAlertResult struct {
	Message         string   `json:"message"`
	Items           int      `json:"items"`
	SuccessfulSents []string `json:"successfulSents"`
	FailedSents     []string `json:"failedSents"`
}

type AlertServiceInterface interface {
	GetLowStockItems(ctx context.Context) ([]domain.InventoryItem, error)
	PushLowStockAlert(ctx context.Context) (LowStockAlertResult, error)
}

type AlertService struct {
	lookup   repository.LookupRepositoryInterface
	notifier *Notifier
	timeout  time.Duration
	log      zerolog.Logger
}

func NewAlertService(lookup repository.LookupRepositoryInterface, notifier *Notifier, timeout time.Duration, log zerolog.Logger) AlertServiceInterface {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &AlertService{lookup: lookup, notifier: notifier, timeout: timeout, log: log}
}

// GetLowStockItems returns every inventory item at or below its threshold.
func (as *AlertService) GetLowStockItems(ctx context.Context) ([]domain.InventoryItem, error) {
	qctx, cancel := context.WithTimeout(ctx, as.timeout)
	defer cancel()

	items, err := as.lookup.FindLowStock(qctx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, domain.Unavailablef("low-stock query timed out after %s", as.timeout)
		}
		return nil, fmt.Errorf("get low-stock items: %w", err)
	}
	if items == nil {
		items = []domain.InventoryItem{}
	}
	return items, nil
}

func (as *AlertService) PushLowStockAlert(ctx context.Context) (LowStockAlertResult, error) {
	// 1. Find what needs restocking
	items, err := as.GetLowStockItems(ctx)
	if err != nil {
		return LowStockAlertResult{}, err
	}
	if len(items) == 0 {
		return LowStockAlertResult{Message: msgNoLowStock, SuccessfulSents: []string{}, FailedSents: []string{}}, nil
	}

	// 2. Find who to tell
	recipients, err := as.notifier.StaffRecipients(ctx)
	if err != nil {
		return LowStockAlertResult{}, err
	}
	if len(recipients) == 0 {
		return LowStockAlertResult{}, domain.NotFoundf(msgNoStaff)
	}

	// 3. One shared body for everyone
	subject, body := ComposeLowStockMessage(items)
	res := as.notifier.Deliver(ctx, domain.KindLowStock, subject, body, recipients)

	as.log.Info().
		Int("items", len(items)).
		Int("succeeded", len(res.Succeeded)).
		Int("failed", len(res.Failed)).
		Msg("low-stock alert pushed")

	return LowStockAlertResult{
		Message:         msgAlertSent,
		Items:           len(items),
		SuccessfulSents: res.Succeeded,
		FailedSents:     res.FailedEmails(),
	}, nil
}
