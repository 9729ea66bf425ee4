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

type SessionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.SessionMapper
}

func NewSessionRepository(db *gorm.DB) contract.SessionRepository {
	return &SessionRepositoryImpl{
		db:     db,
		mapper: mapper.NewSessionMapper(),
	}
}

func (r *SessionRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *SessionRepositoryImpl) Create(ctx context.Context, session *entity.Session) error {
	modelSession := r.mapper.ToModel(session)
	if err := r.db.WithContext(ctx).Create(modelSession).Error; err != nil {
		return err
	}
	*session = *r.mapper.ToEntity(modelSession)
	return nil
}

func (r *SessionRepositoryImpl) Update(ctx context.Context, session *entity.Session) error {
	modelSession := r.mapper.ToModel(session)
	if err := r.db.WithContext(ctx).Save(modelSession).Error; err != nil {
		return err
	}
	*session = *r.mapper.ToEntity(modelSession)
	return nil
}

func (r *SessionRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Session, error) {
	var modelSession model.Session
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)

	if err := query.First(&modelSession).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return r.mapper.ToEntity(&modelSession), nil
}

func (r *SessionRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Session, error) {
	var modelSessions []*model.Session
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)

	if err := query.Find(&modelSessions).Error; err != nil {
		return nil, err
	}

	return r.mapper.ToEntities(modelSessions), nil
}

func (r *SessionRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Session{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *SessionRepositoryImpl) GetOpenByUser(ctx context.Context, userId uint) (*entity.Session, error) {
	return r.FindOne(ctx,
		specification.OwnedBy{UserID: userId},
		specification.OpenOnly{},
		specification.OrderBy{Field: "started_at", Desc: true},
	)
}

func (r *SessionRepositoryImpl) GetAllOpen(ctx context.Context) ([]*entity.Session, error) {
	return r.FindAll(ctx,
		specification.OpenOnly{},
		specification.OrderBy{Field: "last_check_in_at"},
	)
}

func (r *SessionRepositoryImpl) GetAlertsByUsers(ctx context.Context, userIds []uint) ([]*entity.Session, error) {
	if len(userIds) == 0 {
		return nil, nil
	}
	var modelSessions []*model.Session
	err := r.db.WithContext(ctx).
		Where("user_id IN ?", userIds).
		Where("status = ?", string(entity.SessionStatusAlert)).
		Order("started_at ASC").
		Find(&modelSessions).Error
	if err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(modelSessions), nil
}

func (r *SessionRepositoryImpl) GetLatestByUser(ctx context.Context, userId uint) (*entity.Session, error) {
	return r.FindOne(ctx,
		specification.OwnedBy{UserID: userId},
		specification.OrderBy{Field: "started_at", Desc: true},
	)
}
