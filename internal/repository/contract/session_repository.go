package contract

import (
	"context"

	"workalone-be/internal/entity"
	"workalone-be/internal/repository/specification"
)

type SessionRepository interface {
	Create(ctx context.Context, session *entity.Session) error
	Update(ctx context.Context, session *entity.Session) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Session, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Session, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	// GetOpenByUser returns the user's active or alert session, nil when none.
	// The engine keeps at most one open session per user.
	GetOpenByUser(ctx context.Context, userId uint) (*entity.Session, error)
	// GetAllOpen returns every active/alert session; used to re-arm timers on
	// boot.
	GetAllOpen(ctx context.Context) ([]*entity.Session, error)
	// GetAlertsByUsers returns alert sessions belonging to any of the given
	// users, oldest first.
	GetAlertsByUsers(ctx context.Context, userIds []uint) ([]*entity.Session, error)
	// GetLatestByUser returns the most recently started session, nil when the
	// user never started one.
	GetLatestByUser(ctx context.Context, userId uint) (*entity.Session, error)
}
