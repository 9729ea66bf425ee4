package mapper

import (
	"workalone-be/internal/entity"
	"workalone-be/internal/model"
)

type SessionMapper struct{}

func NewSessionMapper() *SessionMapper {
	return &SessionMapper{}
}

func (m *SessionMapper) ToEntity(s *model.Session) *entity.Session {
	if s == nil {
		return nil
	}
	return &entity.Session{
		Id:                   s.Id,
		UserId:               s.UserId,
		StartedAt:            s.StartedAt,
		EndedAt:              s.EndedAt,
		LastCheckInAt:        s.LastCheckInAt,
		Status:               entity.SessionStatus(s.Status),
		CheckedInByContactId: s.CheckedInByContactId,
		CreatedAt:            s.CreatedAt,
		UpdatedAt:            s.UpdatedAt,
	}
}

func (m *SessionMapper) ToEntities(sessions []*model.Session) []*entity.Session {
	out := make([]*entity.Session, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, m.ToEntity(s))
	}
	return out
}

func (m *SessionMapper) ToModel(s *entity.Session) *model.Session {
	if s == nil {
		return nil
	}
	return &model.Session{
		Id:                   s.Id,
		UserId:               s.UserId,
		StartedAt:            s.StartedAt,
		EndedAt:              s.EndedAt,
		LastCheckInAt:        s.LastCheckInAt,
		Status:               string(s.Status),
		CheckedInByContactId: s.CheckedInByContactId,
		CreatedAt:            s.CreatedAt,
		UpdatedAt:            s.UpdatedAt,
	}
}
