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

type EscalationContactRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ContactMapper
}

func NewEscalationContactRepository(db *gorm.DB) contract.EscalationContactRepository {
	return &EscalationContactRepositoryImpl{
		db:     db,
		mapper: mapper.NewContactMapper(),
	}
}

func (r *EscalationContactRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *EscalationContactRepositoryImpl) Create(ctx context.Context, contact *entity.EscalationContact) error {
	modelContact := r.mapper.ToModel(contact)
	if err := r.db.WithContext(ctx).Create(modelContact).Error; err != nil {
		return err
	}
	*contact = *r.mapper.ToEntity(modelContact)
	return nil
}

func (r *EscalationContactRepositoryImpl) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.EscalationContact{}).Error
}

func (r *EscalationContactRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.EscalationContact, error) {
	var modelContact model.EscalationContact
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)

	if err := query.First(&modelContact).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return r.mapper.ToEntity(&modelContact), nil
}

func (r *EscalationContactRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.EscalationContact, error) {
	var modelContacts []*model.EscalationContact
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)

	if err := query.Find(&modelContacts).Error; err != nil {
		return nil, err
	}

	return r.mapper.ToEntities(modelContacts), nil
}

func (r *EscalationContactRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.EscalationContact{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *EscalationContactRepositoryImpl) GetByUser(ctx context.Context, userId uint) ([]*entity.EscalationContact, error) {
	return r.FindAll(ctx,
		specification.ContactOf{UserID: userId},
		specification.OrderBy{Field: "id"},
	)
}

func (r *EscalationContactRepositoryImpl) GetByPhoneNumber(ctx context.Context, phoneNumber string) ([]*entity.EscalationContact, error) {
	return r.FindAll(ctx,
		specification.ByPhoneNumber{PhoneNumber: phoneNumber},
		specification.OrderBy{Field: "id"},
	)
}
