// Package store provides persistence for debts and installment records, with
// a postgres-backed implementation and an in-memory implementation.
package store

import "github.com/rakhadi/utangku/internal/domain"

// DebtRepository is the persistence surface for debt obligations.
type DebtRepository interface {
	Create(debt *domain.DebtItem) error
	GetByID(userID, id string) (*domain.DebtItem, error)
	ListByUser(userID string) ([]domain.DebtItem, error)
	Update(debt *domain.DebtItem) error
	SoftDelete(userID, id string) error
}

// InstallmentRepository is the persistence surface for installment records.
// The schedule generator treats persisted records as authoritative inputs;
// they are created and mutated here by user payment actions.
type InstallmentRepository interface {
	ListByDebt(userID, debtID string) ([]domain.DebtInstallment, error)
	Upsert(installment *domain.DebtInstallment) error
}
