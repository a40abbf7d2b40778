package store

import (
	"sync"
	"time"

	"github.com/rakhadi/utangku/internal/domain"
)

// MemoryStore is an in-memory implementation of both repositories, used for
// tests and for running the server without postgres.
type MemoryStore struct {
	mu           sync.RWMutex
	debts        map[string]domain.DebtItem
	installments map[string]domain.DebtInstallment
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		debts:        make(map[string]domain.DebtItem),
		installments: make(map[string]domain.DebtInstallment),
	}
}

// Create stores a new debt.
func (m *MemoryStore) Create(debt *domain.DebtItem) error {
	if err := debt.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	debt.UpdatedAt = time.Now()
	m.debts[debt.ID] = *debt
	return nil
}

// GetByID returns a debt owned by the user, excluding soft-deleted ones.
func (m *MemoryStore) GetByID(userID, id string) (*domain.DebtItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	debt, ok := m.debts[id]
	if !ok || debt.Deleted || debt.UserID != userID {
		return nil, domain.ErrDebtNotFound
	}
	copied := debt
	return &copied, nil
}

// ListByUser returns all non-deleted debts owned by the user.
func (m *MemoryStore) ListByUser(userID string) ([]domain.DebtItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var debts []domain.DebtItem
	for _, debt := range m.debts {
		if debt.UserID == userID && !debt.Deleted {
			debts = append(debts, debt)
		}
	}
	return debts, nil
}

// Update replaces a stored debt.
func (m *MemoryStore) Update(debt *domain.DebtItem) error {
	if err := debt.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.debts[debt.ID]
	if !ok || existing.Deleted || existing.UserID != debt.UserID {
		return domain.ErrDebtNotFound
	}
	debt.UpdatedAt = time.Now()
	m.debts[debt.ID] = *debt
	return nil
}

// SoftDelete flags a debt as deleted without removing it.
func (m *MemoryStore) SoftDelete(userID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	debt, ok := m.debts[id]
	if !ok || debt.Deleted || debt.UserID != userID {
		return domain.ErrDebtNotFound
	}
	debt.Deleted = true
	debt.UpdatedAt = time.Now()
	m.debts[id] = debt
	return nil
}

// ListByDebt returns the persisted installments for one debt.
func (m *MemoryStore) ListByDebt(userID, debtID string) ([]domain.DebtInstallment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var installments []domain.DebtInstallment
	for _, inst := range m.installments {
		if inst.UserID == userID && inst.DebtID == debtID {
			installments = append(installments, inst)
		}
	}
	return installments, nil
}

// Upsert creates or replaces an installment record.
func (m *MemoryStore) Upsert(installment *domain.DebtInstallment) error {
	if installment.Period < 1 {
		return domain.ErrInstallmentBadPeriod
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.installments[installment.ID] = *installment
	return nil
}
