// FILE: internal/dto/ops_dto.go
package dto

import "time"

// --- Auth DTOs ---

type OpsLoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type OpsLoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// --- Overview DTOs ---

type OverviewResponse struct {
	TotalUsers       int64            `json:"total_users"`
	OpenSessions     int64            `json:"open_sessions"`
	AlertingSessions int64            `json:"alerting_sessions"`
	MessagesToday    int64            `json:"messages_today"`
	SessionsByStatus map[string]int64 `json:"sessions_by_status"`
}

// --- User DTOs ---

type ContactResponse struct {
	Id          uint   `json:"id"`
	FullName    string `json:"full_name"`
	PhoneNumber string `json:"phone_number"`
}

type UserListResponse struct {
	Id            uint   `json:"id"`
	FullName      string `json:"full_name"`
	PhoneNumber   string `json:"phone_number"`
	DelayMinutes  int    `json:"delay_minutes"`
	ContactCount  int    `json:"contact_count"`
	SessionStatus string `json:"session_status"` // latest session status, "none" if never monitored
}

type UserDetailResponse struct {
	UserListResponse
	Contacts []ContactResponse `json:"contacts"`
	Sessions []SessionResponse `json:"sessions"`
}

// --- Session DTOs ---

type SessionResponse struct {
	Id                   uint       `json:"id"`
	UserId               uint       `json:"user_id"`
	Status               string     `json:"status"` // active, alert, inactive
	StartedAt            time.Time  `json:"started_at"`
	EndedAt              *time.Time `json:"ended_at"`
	LastCheckInAt        time.Time  `json:"last_check_in_at"`
	Deadline             *time.Time `json:"deadline,omitempty"` // open sessions only
	CheckedInByContactId *uint      `json:"checked_in_by_contact_id"`
}

type SessionDetailResponse struct {
	SessionResponse
	UserFullName string               `json:"user_full_name"`
	Messages     []MessageLogResponse `json:"messages"`
}

type PagedSessionsResponse struct {
	Items []SessionResponse `json:"items"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}

// --- Message DTOs ---

type MessageLogResponse struct {
	Id          uint      `json:"id"`
	UserId      *uint     `json:"user_id"`
	ContactId   *uint     `json:"contact_id"`
	Direction   string    `json:"direction"` // incoming, outgoing
	Timestamp   time.Time `json:"timestamp"`
	MessageText string    `json:"message_text"`
}

type PagedMessagesResponse struct {
	Items []MessageLogResponse `json:"items"`
	Total int64                `json:"total"`
	Page  int                  `json:"page"`
	Limit int                  `json:"limit"`
}

// --- System Log DTOs ---

type LogListResponse struct {
	Id        string `json:"id"` // MD5 hash of the log line, not a database id
	Level     string `json:"level"`
	Module    string `json:"module"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

type LogDetailResponse struct {
	LogListResponse
	Details map[string]interface{} `json:"details"`
}

// --- Health DTOs ---

type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Gateway  string `json:"gateway"`
	Uptime   string `json:"uptime"`
}
