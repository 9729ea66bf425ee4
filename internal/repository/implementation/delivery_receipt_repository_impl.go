package implementation

import (
	"context"

	"workalone-be/internal/entity"
	"workalone-be/internal/mapper"
	"workalone-be/internal/model"
	"workalone-be/internal/repository/contract"
	"workalone-be/internal/repository/specification"

	"gorm.io/gorm"
)

type DeliveryReceiptRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.MessageMapper
}

func NewDeliveryReceiptRepository(db *gorm.DB) contract.DeliveryReceiptRepository {
	return &DeliveryReceiptRepositoryImpl{
		db:     db,
		mapper: mapper.NewMessageMapper(),
	}
}

func (r *DeliveryReceiptRepositoryImpl) Create(ctx context.Context, receipt *entity.DeliveryReceipt) error {
	modelReceipt := r.mapper.ReceiptToModel(receipt)
	if err := r.db.WithContext(ctx).Create(modelReceipt).Error; err != nil {
		return err
	}
	*receipt = *r.mapper.ReceiptToEntity(modelReceipt)
	return nil
}

func (r *DeliveryReceiptRepositoryImpl) GetByMessageLog(ctx context.Context, messageLogId uint) ([]*entity.DeliveryReceipt, error) {
	var modelReceipts []*model.DeliveryReceipt
	err := r.db.WithContext(ctx).
		Where("message_log_id = ?", messageLogId).
		Order("id ASC").
		Find(&modelReceipts).Error
	if err != nil {
		return nil, err
	}

	out := make([]*entity.DeliveryReceipt, 0, len(modelReceipts))
	for _, m := range modelReceipts {
		out = append(out, r.mapper.ReceiptToEntity(m))
	}
	return out, nil
}

func (r *DeliveryReceiptRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&model.DeliveryReceipt{})
	for _, spec := range specs {
		query = spec.Apply(query)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
