package unitofwork

import "context"

// RepositoryFactory hands out fresh units of work. The engine opens one per
// state transition; read paths open one per request.
type RepositoryFactory interface {
	NewUnitOfWork(ctx context.Context) UnitOfWork
}
