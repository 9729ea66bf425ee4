// FILE: internal/entity/session_entity.go
package entity

import "time"

type SessionStatus string

const (
	SessionStatusActive   SessionStatus = "active"
	SessionStatusInactive SessionStatus = "inactive"
	SessionStatusAlert    SessionStatus = "alert"
)

// Session is one monitored stretch of work. A session is "open" while its
// status is active or alert; inactive is terminal and carries EndedAt.
type Session struct {
	Id                   uint
	UserId               uint
	StartedAt            time.Time
	EndedAt              *time.Time
	LastCheckInAt        time.Time
	Status               SessionStatus
	CheckedInByContactId *uint
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

func (s *Session) IsOpen() bool {
	return s.Status == SessionStatusActive || s.Status == SessionStatusAlert
}

// Deadline is the moment the session escalates unless a check-in lands first.
func (s *Session) Deadline(delay time.Duration) time.Time {
	return s.LastCheckInAt.Add(delay)
}
