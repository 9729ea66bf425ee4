package contract

import (
	"context"

	"workalone-be/internal/entity"
	"workalone-be/internal/repository/specification"
)

type EscalationContactRepository interface {
	Create(ctx context.Context, contact *entity.EscalationContact) error
	Delete(ctx context.Context, id uint) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.EscalationContact, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.EscalationContact, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	GetByUser(ctx context.Context, userId uint) ([]*entity.EscalationContact, error)
	// GetByPhoneNumber returns every contact row for a number; one person may
	// guard several users, so this is a list.
	GetByPhoneNumber(ctx context.Context, phoneNumber string) ([]*entity.EscalationContact, error)
}
