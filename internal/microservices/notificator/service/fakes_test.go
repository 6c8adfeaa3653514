package service

import (
	"context"
	"errors"
	"sync"

	"restaurant-ops/internal/domain"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeLookup struct {
	users        map[primitive.ObjectID]domain.User
	menu         map[primitive.ObjectID]domain.MenuItem
	tables       map[primitive.ObjectID]domain.Table
	reservations map[primitive.ObjectID]domain.Reservation
	lowStock     []domain.InventoryItem

	userErr     error
	menuErr     error
	staffErr    error
	lowStockErr error
	blockLow    bool
}

func newFakeLookup() *fakeLookup {
	return &fakeLookup{
		users:        map[primitive.ObjectID]domain.User{},
		menu:         map[primitive.ObjectID]domain.MenuItem{},
		tables:       map[primitive.ObjectID]domain.Table{},
		reservations: map[primitive.ObjectID]domain.Reservation{},
	}
}

func (f *fakeLookup) addUser(u domain.User) domain.User {
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	f.users[u.ID] = u
	return u
}

func (f *fakeLookup) FindUser(_ context.Context, id primitive.ObjectID) (domain.User, error) {
	if f.userErr != nil {
		return domain.User{}, f.userErr
	}
	u, ok := f.users[id]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return u, nil
}

func (f *fakeLookup) FindUsersByRole(_ context.Context, role domain.Role) ([]domain.User, error) {
	if f.staffErr != nil {
		return nil, f.staffErr
	}
	var out []domain.User
	for _, u := range f.users {
		if u.Role == role {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeLookup) FindMenuItems(_ context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]domain.MenuItem, error) {
	if f.menuErr != nil {
		return nil, f.menuErr
	}
	out := map[primitive.ObjectID]domain.MenuItem{}
	for _, id := range ids {
		if m, ok := f.menu[id]; ok {
			out[id] = m
		}
	}
	return out, nil
}

func (f *fakeLookup) FindTable(_ context.Context, id primitive.ObjectID) (domain.Table, error) {
	t, ok := f.tables[id]
	if !ok {
		return domain.Table{}, domain.ErrNotFound
	}
	return t, nil
}

func (f *fakeLookup) FindLatestReservation(_ context.Context, tableID primitive.ObjectID) (domain.Reservation, error) {
	r, ok := f.reservations[tableID]
	if !ok {
		return domain.Reservation{}, domain.ErrNotFound
	}
	return r, nil
}

func (f *fakeLookup) FindLowStock(ctx context.Context) ([]domain.InventoryItem, error) {
	if f.blockLow {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return f.lowStock, f.lowStockErr
}

type sentMail struct {
	To, Subject, Body string
}

// fakeSender records every send and fails for the addresses in fail.
type fakeSender struct {
	mu   sync.Mutex
	fail map[string]bool
	sent []sentMail
}

func (s *fakeSender) Send(_ context.Context, to, subject, body string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail[to] {
		return errors.New("mailbox unavailable")
	}
	s.sent = append(s.sent, sentMail{To: to, Subject: subject, Body: body})
	return nil
}

func (s *fakeSender) mails() []sentMail {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]sentMail(nil), s.sent...)
}

type published struct {
	Exchange, Key string
	Body          []byte
}

type fakePublisher struct {
	mu   sync.Mutex
	msgs []published
	err  error
}

func (p *fakePublisher) Publish(_ context.Context, exchange, key string, body []byte, _ amqp.Table, _ string, _ bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.msgs = append(p.msgs, published{Exchange: exchange, Key: key, Body: body})
	return p.err
}

type fakeDeliveries struct {
	mu   sync.Mutex
	rows []domain.Delivery
	err  error
}

func (d *fakeDeliveries) EnsureSchema(context.Context) error { return nil }

func (d *fakeDeliveries) Record(_ context.Context, rows []domain.Delivery) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return d.err
	}
	d.rows = append(d.rows, rows...)
	return nil
}

func (d *fakeDeliveries) Recent(_ context.Context, limit int) ([]domain.Delivery, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]domain.Delivery, 0, limit)
	for i := len(d.rows) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, d.rows[i])
	}
	return out, nil
}
