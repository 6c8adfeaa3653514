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

type TableNotifier struct {
	lookup   repository.LookupRepositoryInterface
	notifier *Notifier
	now      func() time.Time
	log      zerolog.Logger
}

func NewTableNotifier(lookup repository.LookupRepositoryInterface, notifier *Notifier, log zerolog.Logger) *TableNotifier {
	return &TableNotifier{lookup: lookup, notifier: notifier, now: time.Now, log: log}
}

// HandleEvent re-reads a changed table and notifies the staff about it.
func (tn *TableNotifier) HandleEvent(ctx context.Context, ev domain.ChangeEvent) error {
	id := ev.DocumentKey.ID
	log := tn.log.With().Str("table_id", id.Hex()).Str("operation", ev.OperationType).Logger()

	table, err := tn.lookup.FindTable(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		log.Warn().Msg("changed table no longer exists")
		return nil
	}
	if err != nil {
		return fmt.Errorf("load table %s: %w", id.Hex(), err)
	}

	view := TableView{Table: table, StaffEmail: tn.staffEmail(ctx, table), At: tn.now().UTC()}
	logBroken(log, "reservation_staff", view.StaffEmail.Err, view.StaffEmail.Broken())

	recipients, err := tn.notifier.StaffRecipients(ctx)
	if err != nil {
		return err
	}
	if len(recipients) == 0 {
		log.Warn().Msg("no staff to notify about table update")
		return nil
	}
	subject, body := ComposeTableMessage(view)
	tn.notifier.Deliver(ctx, domain.KindTable, subject, body, recipients)
	return nil
}

// staffEmail follows the table's latest reservation to its assigned staff.
func (tn *TableNotifier) staffEmail(ctx context.Context, table domain.Table) Resolved[string] {
	res, err := tn.lookup.FindLatestReservation(ctx, table.ID)
	if err != nil {
		return Missing[string](err)
	}
	if res.AssignedTo.IsZero() {
		return Missing[string](domain.ErrNotFound)
	}
	staff, err := tn.lookup.FindUser(ctx, res.AssignedTo)
	if err != nil {
		return Missing[string](err)
	}
	return Found(staff.Email)
}
