// FILE: internal/entity/user_entity.go
package entity

import "time"

// User is a monitored person. DelayInterval is how long they may go between
// check-ins before an open session escalates.
type User struct {
	Id            uint
	PhoneNumber   string
	FirstName     string
	LastName      string
	DelayInterval time.Duration
	Contacts      []EscalationContact
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// EscalationContact is someone notified when their user misses a deadline.
type EscalationContact struct {
	Id          uint
	ContactOf   uint
	FirstName   string
	LastName    string
	PhoneNumber string
	CreatedAt   time.Time
}

func (c *EscalationContact) FullName() string {
	if c.LastName == "" {
		return c.FirstName
	}
	return c.FirstName + " " + c.LastName
}
