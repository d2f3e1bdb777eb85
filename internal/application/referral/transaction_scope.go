package referral

import (
	"context"

	"github.com/kivalao/backend/internal/domain/referral"
)

// TransactionScope provides transactional access to referral repositories.
// When a function is executed within a transaction scope, all repository
// operations are part of the same database transaction and commit or roll
// back atomically. Code redemption depends on this: the code state change
// and the commission transaction must land together or not at all.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the referral repositories
// within a transaction. All repositories returned share the same underlying
// database transaction.
type TransactionalRepositories interface {
	// CodeRepo returns the code repository scoped to the current transaction
	CodeRepo() referral.CodeRepository
	// TransactionRepo returns the commission transaction repository scoped to the current transaction
	TransactionRepo() referral.TransactionRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. Useful for tests.
type NoOpTransactionScope struct {
	codeRepo        referral.CodeRepository
	transactionRepo referral.TransactionRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	codeRepo referral.CodeRepository,
	transactionRepo referral.TransactionRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		codeRepo:        codeRepo,
		transactionRepo: transactionRepo,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// CodeRepo returns the code repository.
func (s *NoOpTransactionScope) CodeRepo() referral.CodeRepository {
	return s.codeRepo
}

// TransactionRepo returns the commission transaction repository.
func (s *NoOpTransactionScope) TransactionRepo() referral.TransactionRepository {
	return s.transactionRepo
}

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
