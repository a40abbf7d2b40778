package store

import (
	"errors"
	"time"

	"github.com/rakhadi/utangku/internal/domain"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// PostgresStore implements both repositories on a postgres database.
type PostgresStore struct {
	db *gorm.DB
}

// NewPostgresStore connects to postgres with the given DSN and migrates the
// debt and installment tables.
func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&domain.DebtItem{}, &domain.DebtInstallment{}); err != nil {
		return nil, err
	}
	return &PostgresStore{db: db}, nil
}

// Create stores a new debt.
func (p *PostgresStore) Create(debt *domain.DebtItem) error {
	if err := debt.Validate(); err != nil {
		return err
	}
	debt.UpdatedAt = time.Now()
	return p.db.Create(debt).Error
}

// GetByID returns a debt owned by the user, excluding soft-deleted ones.
func (p *PostgresStore) GetByID(userID, id string) (*domain.DebtItem, error) {
	var debt domain.DebtItem
	err := p.db.Where("id = ? AND user_id = ? AND deleted = false", id, userID).First(&debt).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrDebtNotFound
	}
	if err != nil {
		return nil, err
	}
	return &debt, nil
}

// ListByUser returns all non-deleted debts owned by the user.
func (p *PostgresStore) ListByUser(userID string) ([]domain.DebtItem, error) {
	var debts []domain.DebtItem
	err := p.db.Where("user_id = ? AND deleted = false", userID).Find(&debts).Error
	return debts, err
}

// Update replaces a stored debt.
func (p *PostgresStore) Update(debt *domain.DebtItem) error {
	if err := debt.Validate(); err != nil {
		return err
	}
	debt.UpdatedAt = time.Now()
	result := p.db.Model(&domain.DebtItem{}).
		Where("id = ? AND user_id = ? AND deleted = false", debt.ID, debt.UserID).
		Updates(debt)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrDebtNotFound
	}
	return nil
}

// SoftDelete flags a debt as deleted without removing the row.
func (p *PostgresStore) SoftDelete(userID, id string) error {
	result := p.db.Model(&domain.DebtItem{}).
		Where("id = ? AND user_id = ? AND deleted = false", id, userID).
		Updates(map[string]interface{}{"deleted": true, "updated_at": time.Now()})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrDebtNotFound
	}
	return nil
}

// ListByDebt returns the persisted installments for one debt.
func (p *PostgresStore) ListByDebt(userID, debtID string) ([]domain.DebtInstallment, error) {
	var installments []domain.DebtInstallment
	err := p.db.Where("user_id = ? AND debt_id = ?", userID, debtID).
		Order("period asc").Find(&installments).Error
	return installments, err
}

// Upsert creates or replaces an installment record.
func (p *PostgresStore) Upsert(installment *domain.DebtInstallment) error {
	if installment.Period < 1 {
		return domain.ErrInstallmentBadPeriod
	}
	return p.db.Save(installment).Error
}
