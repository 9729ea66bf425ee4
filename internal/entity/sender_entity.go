// FILE: internal/entity/sender_entity.go
package entity

type SenderKind string

const (
	SenderKindUser    SenderKind = "user"
	SenderKindContact SenderKind = "contact"
	SenderKindUnknown SenderKind = "unknown"
)

// Sender is the result of resolving an inbound phone number: a user, a
// contact, or nobody we know. When a number exists in both tables the user
// match wins.
type Sender struct {
	Kind    SenderKind
	User    *User
	Contact *EscalationContact
}

func (s Sender) UserId() *uint {
	if s.User == nil {
		return nil
	}
	id := s.User.Id
	return &id
}

func (s Sender) ContactId() *uint {
	if s.Contact == nil {
		return nil
	}
	id := s.Contact.Id
	return &id
}
