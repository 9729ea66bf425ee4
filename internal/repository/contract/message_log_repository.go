package contract

import (
	"context"

	"workalone-be/internal/entity"
	"workalone-be/internal/repository/specification"
)

// MessageLogRepository is append-only: rows are never updated or deleted by
// the engine.
type MessageLogRepository interface {
	Create(ctx context.Context, log *entity.MessageLog) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.MessageLog, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.MessageLog, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
