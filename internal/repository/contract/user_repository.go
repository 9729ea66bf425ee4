package contract

import (
	"context"

	"workalone-be/internal/entity"
	"workalone-be/internal/repository/specification"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	Update(ctx context.Context, user *entity.User) error
	Delete(ctx context.Context, id uint) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.User, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	// Business specific
	GetByPhoneNumber(ctx context.Context, phoneNumber string) (*entity.User, error)
	GetWithContacts(ctx context.Context, id uint) (*entity.User, error)
}
