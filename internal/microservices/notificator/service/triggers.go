package service

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

type TriggerState struct {
	OrderWatching bool `json:"orderWatching"`
	TableWatching bool `json:"tableWatching"`
}

type TriggerStatus struct {
	TriggerState
	OrderQueueDepth int `json:"orderQueueDepth"`
	TableQueueDepth int `json:"tableQueueDepth"`
}

// TriggerManager owns the order and table subscriptions. Subscriptions run
// under the manager's base context, not the caller's.
type TriggerManager struct {
	mu     sync.Mutex
	base   context.Context
	orders *Subscription
	tables *Subscription
	log    zerolog.Logger
}

func NewTriggerManager(base context.Context, orders, tables *Subscription, log zerolog.Logger) *TriggerManager {
	return &TriggerManager{base: base, orders: orders, tables: tables, log: log}
}

// ControlTriggers brings each stream to the requested state and returns the
// resulting state. Repeating a call changes nothing.
func (m *TriggerManager) ControlTriggers(watchOrders, watchTables bool) TriggerState {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.apply(m.orders, watchOrders)
	m.apply(m.tables, watchTables)

	state := m.stateLocked()
	m.log.Info().
		Bool("order_watching", state.OrderWatching).
		Bool("table_watching", state.TableWatching).
		Msg("triggers updated")
	return state
}

func (m *TriggerManager) apply(s *Subscription, want bool) {
	if want {
		s.Start(m.base)
		return
	}
	s.Stop()
}

func (m *TriggerManager) State() TriggerState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stateLocked()
}

func (m *TriggerManager) Status() TriggerStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return TriggerStatus{
		TriggerState:    m.stateLocked(),
		OrderQueueDepth: m.orders.Depth(),
		TableQueueDepth: m.tables.Depth(),
	}
}

func (m *TriggerManager) stateLocked() TriggerState {
	return TriggerState{OrderWatching: m.orders.Active(), TableWatching: m.tables.Active()}
}

// Shutdown stops both subscriptions.
func (m *TriggerManager) Shutdown() {
	m.ControlTriggers(false, false)
}
