package implementation

import (
	"context"
	"errors"

	"workalone-be/internal/entity"
	"workalone-be/internal/mapper"
	"workalone-be/internal/model"
	"workalone-be/internal/repository/contract"
	"workalone-be/internal/repository/specification"

	"gorm.io/gorm"
)

type MessageLogRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.MessageMapper
}

func NewMessageLogRepository(db *gorm.DB) contract.MessageLogRepository {
	return &MessageLogRepositoryImpl{
		db:     db,
		mapper: mapper.NewMessageMapper(),
	}
}

func (r *MessageLogRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *MessageLogRepositoryImpl) Create(ctx context.Context, log *entity.MessageLog) error {
	modelLog := r.mapper.ToModel(log)
	if err := r.db.WithContext(ctx).Create(modelLog).Error; err != nil {
		return err
	}
	*log = *r.mapper.ToEntity(modelLog)
	return nil
}

func (r *MessageLogRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.MessageLog, error) {
	var modelLog model.MessageLog
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)

	if err := query.First(&modelLog).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return r.mapper.ToEntity(&modelLog), nil
}

func (r *MessageLogRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.MessageLog, error) {
	var modelLogs []*model.MessageLog
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)

	if err := query.Find(&modelLogs).Error; err != nil {
		return nil, err
	}

	return r.mapper.ToEntities(modelLogs), nil
}

func (r *MessageLogRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.MessageLog{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
