package contract

import (
	"context"

	"workalone-be/internal/entity"
	"workalone-be/internal/repository/specification"
)

type DeliveryReceiptRepository interface {
	Create(ctx context.Context, receipt *entity.DeliveryReceipt) error
	GetByMessageLog(ctx context.Context, messageLogId uint) ([]*entity.DeliveryReceipt, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
