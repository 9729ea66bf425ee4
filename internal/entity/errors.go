// FILE: internal/entity/errors.go
package entity

import "fmt"

// ConflictError means a session start collided with a session that is
// already open for the same user.
type ConflictError struct {
	UserId    uint
	SessionId uint
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("user %d already has open session %d", e.UserId, e.SessionId)
}

// InvalidTransitionError means a command is not legal for the session's
// current status (or there is no session at all, Status empty).
type InvalidTransitionError struct {
	Command string
	Status  SessionStatus
}

func (e *InvalidTransitionError) Error() string {
	if e.Status == "" {
		return fmt.Sprintf("command %q requires an open session", e.Command)
	}
	return fmt.Sprintf("command %q is not valid while session is %s", e.Command, e.Status)
}

// UnknownSenderError means an inbound phone number matched neither a user
// nor a contact. It is logged, never surfaced to the sender.
type UnknownSenderError struct {
	PhoneNumber string
}

func (e *UnknownSenderError) Error() string {
	return fmt.Sprintf("no user or contact with phone number %s", e.PhoneNumber)
}

// StoreError wraps a durable-write failure. Transitions retry these with
// backoff and treat them as fatal once attempts are exhausted.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// GatewayError wraps a delivery failure for a single recipient. It never
// aborts the transition that triggered the send.
type GatewayError struct {
	To  string
	Err error
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("gateway send to %s: %v", e.To, e.Err)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}
