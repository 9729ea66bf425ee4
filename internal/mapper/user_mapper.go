package mapper

import (
	"time"

	"workalone-be/internal/entity"
	"workalone-be/internal/model"
)

type UserMapper struct {
	contacts *ContactMapper
}

func NewUserMapper() *UserMapper {
	return &UserMapper{contacts: NewContactMapper()}
}

func (m *UserMapper) ToEntity(u *model.User) *entity.User {
	if u == nil {
		return nil
	}
	out := &entity.User{
		Id:            u.Id,
		PhoneNumber:   u.PhoneNumber,
		FirstName:     u.FirstName,
		LastName:      u.LastName,
		DelayInterval: time.Duration(u.DelayInterval) * time.Minute,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
	for i := range u.Contacts {
		out.Contacts = append(out.Contacts, *m.contacts.ToEntity(&u.Contacts[i]))
	}
	return out
}

func (m *UserMapper) ToModel(u *entity.User) *model.User {
	if u == nil {
		return nil
	}
	out := &model.User{
		Id:            u.Id,
		PhoneNumber:   u.PhoneNumber,
		FirstName:     u.FirstName,
		LastName:      u.LastName,
		DelayInterval: int64(u.DelayInterval / time.Minute),
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
	for i := range u.Contacts {
		out.Contacts = append(out.Contacts, *m.contacts.ToModel(&u.Contacts[i]))
	}
	return out
}

func (m *UserMapper) ToEntities(users []*model.User) []*entity.User {
	out := make([]*entity.User, 0, len(users))
	for _, u := range users {
		out = append(out, m.ToEntity(u))
	}
	return out
}

type ContactMapper struct{}

func NewContactMapper() *ContactMapper {
	return &ContactMapper{}
}

func (m *ContactMapper) ToEntity(c *model.EscalationContact) *entity.EscalationContact {
	if c == nil {
		return nil
	}
	return &entity.EscalationContact{
		Id:          c.Id,
		ContactOf:   c.ContactOf,
		FirstName:   c.FirstName,
		LastName:    c.LastName,
		PhoneNumber: c.PhoneNumber,
		CreatedAt:   c.CreatedAt,
	}
}

func (m *ContactMapper) ToEntities(contacts []*model.EscalationContact) []*entity.EscalationContact {
	out := make([]*entity.EscalationContact, 0, len(contacts))
	for _, c := range contacts {
		out = append(out, m.ToEntity(c))
	}
	return out
}

func (m *ContactMapper) ToModel(c *entity.EscalationContact) *model.EscalationContact {
	if c == nil {
		return nil
	}
	return &model.EscalationContact{
		Id:          c.Id,
		ContactOf:   c.ContactOf,
		FirstName:   c.FirstName,
		LastName:    c.LastName,
		PhoneNumber: c.PhoneNumber,
		CreatedAt:   c.CreatedAt,
	}
}
