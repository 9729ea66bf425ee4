package unitofwork

import (
	"context"

	"workalone-be/internal/repository/contract"
)

// UnitOfWork scopes repository access to one transaction. Without Begin the
// accessors operate on the shared connection.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	EscalationContactRepository() contract.EscalationContactRepository
	SessionRepository() contract.SessionRepository
	MessageLogRepository() contract.MessageLogRepository
	DeliveryReceiptRepository() contract.DeliveryReceiptRepository
}
