package mapper

import (
	"workalone-be/internal/entity"
	"workalone-be/internal/model"

	"gorm.io/datatypes"
)

type MessageMapper struct{}

func NewMessageMapper() *MessageMapper {
	return &MessageMapper{}
}

func (m *MessageMapper) ToEntity(l *model.MessageLog) *entity.MessageLog {
	if l == nil {
		return nil
	}
	return &entity.MessageLog{
		Id:          l.Id,
		UserId:      l.UserId,
		ContactId:   l.ContactId,
		Timestamp:   l.Timestamp,
		MessageText: l.MessageText,
		Direction:   entity.Direction(l.Direction),
	}
}

func (m *MessageMapper) ToEntities(logs []*model.MessageLog) []*entity.MessageLog {
	out := make([]*entity.MessageLog, 0, len(logs))
	for _, l := range logs {
		out = append(out, m.ToEntity(l))
	}
	return out
}

func (m *MessageMapper) ToModel(l *entity.MessageLog) *model.MessageLog {
	if l == nil {
		return nil
	}
	return &model.MessageLog{
		Id:          l.Id,
		UserId:      l.UserId,
		ContactId:   l.ContactId,
		Timestamp:   l.Timestamp,
		MessageText: l.MessageText,
		Direction:   string(l.Direction),
	}
}

func (m *MessageMapper) ReceiptToEntity(r *model.DeliveryReceipt) *entity.DeliveryReceipt {
	if r == nil {
		return nil
	}
	return &entity.DeliveryReceipt{
		Id:           r.Id,
		MessageLogId: r.MessageLogId,
		ProviderSid:  r.ProviderSid,
		Status:       entity.DeliveryStatus(r.Status),
		ErrorMessage: r.ErrorMessage,
		Payload:      []byte(r.Payload),
		CreatedAt:    r.CreatedAt,
	}
}

func (m *MessageMapper) ReceiptToModel(r *entity.DeliveryReceipt) *model.DeliveryReceipt {
	if r == nil {
		return nil
	}
	return &model.DeliveryReceipt{
		Id:           r.Id,
		MessageLogId: r.MessageLogId,
		ProviderSid:  r.ProviderSid,
		Status:       string(r.Status),
		ErrorMessage: r.ErrorMessage,
		Payload:      datatypes.JSON(r.Payload),
		CreatedAt:    r.CreatedAt,
	}
}
