package persistence

import (
	"context"

	appreferral "github.com/kivalao/backend/internal/application/referral"
	"github.com/kivalao/backend/internal/domain/referral"
	"gorm.io/gorm"
)

// GormTransactionScope implements TransactionScope using GORM transactions.
// It provides atomic execution of multiple repository operations.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
// If the function succeeds, the transaction is committed.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appreferral.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := &gormTransactionalRepositories{tx: tx}
		return fn(repos)
	})
}

// gormTransactionalRepositories provides access to all repositories within a transaction.
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

// CodeRepo returns the code repository scoped to the current transaction.
func (r *gormTransactionalRepositories) CodeRepo() referral.CodeRepository {
	return NewGormCodeRepository(r.tx)
}

// TransactionRepo returns the commission transaction repository scoped to the current transaction.
func (r *gormTransactionalRepositories) TransactionRepo() referral.TransactionRepository {
	return NewGormTransactionRepository(r.tx)
}

// Ensure GormTransactionScope implements TransactionScope
var _ appreferral.TransactionScope = (*GormTransactionScope)(nil)

// Ensure gormTransactionalRepositories implements TransactionalRepositories
var _ appreferral.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
