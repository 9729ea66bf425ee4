// FILE: internal/service/monitor_service.go
package service

import (
	"context"
	"time"

	"workalone-be/internal/dto"
	"workalone-be/internal/entity"
	"workalone-be/internal/pkg/logger"
	"workalone-be/internal/repository/specification"
	"workalone-be/internal/repository/unitofwork"
	"workalone-be/pkg/clock"

	"gorm.io/gorm"
)

// IMonitorService is the read side of the ops dashboard. It never mutates
// engine state; every mutation in the system arrives over SMS.
type IMonitorService interface {
	GetOverview(ctx context.Context) (*dto.OverviewResponse, error)
	GetAllUsers(ctx context.Context, page, limit int) ([]*dto.UserListResponse, error)
	GetUserDetail(ctx context.Context, userId uint) (*dto.UserDetailResponse, error)
	GetSessions(ctx context.Context, status string, page, limit int) (*dto.PagedSessionsResponse, error)
	GetSessionDetail(ctx context.Context, sessionId uint) (*dto.SessionDetailResponse, error)
	GetMessages(ctx context.Context, userId *uint, page, limit int) (*dto.PagedMessagesResponse, error)
	GetSystemLogs(ctx context.Context, page, limit int, level string) ([]*dto.LogListResponse, error)
	GetLogDetail(ctx context.Context, logId string) (*dto.LogDetailResponse, error)
	GetHealth(ctx context.Context) *dto.HealthResponse
}

type monitorService struct {
	uowFactory  unitofwork.RepositoryFactory
	db          *gorm.DB
	logger      logger.ILogger
	clock       clock.Clock
	gatewayName string
	startedAt   time.Time
}

func NewMonitorService(
	uowFactory unitofwork.RepositoryFactory,
	db *gorm.DB,
	log logger.ILogger,
	clk clock.Clock,
	gatewayName string,
) IMonitorService {
	return &monitorService{
		uowFactory:  uowFactory,
		db:          db,
		logger:      log,
		clock:       clk,
		gatewayName: gatewayName,
		startedAt:   time.Now(),
	}
}

func normalizePaging(page, limit int) (int, int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	return page, limit, (page - 1) * limit
}

// ============================================================================
// Overview
// ============================================================================

func (s *monitorService) GetOverview(ctx context.Context) (*dto.OverviewResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	totalUsers, err := uow.UserRepository().Count(ctx)
	if err != nil {
		return nil, err
	}

	byStatus := make(map[string]int64, 3)
	for _, status := range []entity.SessionStatus{
		entity.SessionStatusActive,
		entity.SessionStatusAlert,
		entity.SessionStatusInactive,
	} {
		count, err := uow.SessionRepository().Count(ctx, specification.ByStatus{Status: status})
		if err != nil {
			return nil, err
		}
		byStatus[string(status)] = count
	}

	now := s.clock.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	messagesToday, err := uow.MessageLogRepository().Count(ctx, specification.LoggedAfter{After: midnight})
	if err != nil {
		return nil, err
	}

	return &dto.OverviewResponse{
		TotalUsers:       totalUsers,
		OpenSessions:     byStatus[string(entity.SessionStatusActive)] + byStatus[string(entity.SessionStatusAlert)],
		AlertingSessions: byStatus[string(entity.SessionStatusAlert)],
		MessagesToday:    messagesToday,
		SessionsByStatus: byStatus,
	}, nil
}

// ============================================================================
// Users
// ============================================================================

func (s *monitorService) GetAllUsers(ctx context.Context, page, limit int) ([]*dto.UserListResponse, error) {
	_, limit, offset := normalizePaging(page, limit)
	uow := s.uowFactory.NewUnitOfWork(ctx)

	users, err := uow.UserRepository().FindAll(ctx,
		specification.OrderBy{Field: "id"},
		specification.Pagination{Limit: limit, Offset: offset},
	)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.UserListResponse, 0, len(users))
	for _, user := range users {
		contactCount, err := uow.EscalationContactRepository().Count(ctx, specification.ContactOf{UserID: user.Id})
		if err != nil {
			return nil, err
		}
		status := "none"
		latest, err := uow.SessionRepository().GetLatestByUser(ctx, user.Id)
		if err != nil {
			return nil, err
		}
		if latest != nil {
			status = string(latest.Status)
		}
		res = append(res, &dto.UserListResponse{
			Id:            user.Id,
			FullName:      user.FullName(),
			PhoneNumber:   user.PhoneNumber,
			DelayMinutes:  int(user.DelayInterval.Minutes()),
			ContactCount:  int(contactCount),
			SessionStatus: status,
		})
	}
	return res, nil
}

func (s *monitorService) GetUserDetail(ctx context.Context, userId uint) (*dto.UserDetailResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().GetWithContacts(ctx, userId)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}

	sessions, err := uow.SessionRepository().FindAll(ctx,
		specification.OwnedBy{UserID: user.Id},
		specification.OrderBy{Field: "started_at", Desc: true},
		specification.Pagination{Limit: 10},
	)
	if err != nil {
		return nil, err
	}

	status := "none"
	if latest, err := uow.SessionRepository().GetLatestByUser(ctx, user.Id); err == nil && latest != nil {
		status = string(latest.Status)
	}

	contacts := make([]dto.ContactResponse, 0, len(user.Contacts))
	for i := range user.Contacts {
		contacts = append(contacts, dto.ContactResponse{
			Id:          user.Contacts[i].Id,
			FullName:    user.Contacts[i].FullName(),
			PhoneNumber: user.Contacts[i].PhoneNumber,
		})
	}

	sessionItems := make([]dto.SessionResponse, 0, len(sessions))
	for _, session := range sessions {
		sessionItems = append(sessionItems, toSessionResponse(session, user.DelayInterval))
	}

	return &dto.UserDetailResponse{
		UserListResponse: dto.UserListResponse{
			Id:            user.Id,
			FullName:      user.FullName(),
			PhoneNumber:   user.PhoneNumber,
			DelayMinutes:  int(user.DelayInterval.Minutes()),
			ContactCount:  len(user.Contacts),
			SessionStatus: status,
		},
		Contacts: contacts,
		Sessions: sessionItems,
	}, nil
}

// ============================================================================
// Sessions
// ============================================================================

func (s *monitorService) GetSessions(ctx context.Context, status string, page, limit int) (*dto.PagedSessionsResponse, error) {
	page, limit, offset := normalizePaging(page, limit)
	uow := s.uowFactory.NewUnitOfWork(ctx)

	var filters []specification.Specification
	switch entity.SessionStatus(status) {
	case entity.SessionStatusActive, entity.SessionStatusAlert, entity.SessionStatusInactive:
		filters = append(filters, specification.ByStatus{Status: entity.SessionStatus(status)})
	}

	total, err := uow.SessionRepository().Count(ctx, filters...)
	if err != nil {
		return nil, err
	}

	specs := append(filters,
		specification.OrderBy{Field: "started_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: offset},
	)
	sessions, err := uow.SessionRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	delays, err := s.delayByUser(ctx, uow, sessions)
	if err != nil {
		return nil, err
	}

	items := make([]dto.SessionResponse, 0, len(sessions))
	for _, session := range sessions {
		items = append(items, toSessionResponse(session, delays[session.UserId]))
	}

	return &dto.PagedSessionsResponse{Items: items, Total: total, Page: page, Limit: limit}, nil
}

func (s *monitorService) GetSessionDetail(ctx context.Context, sessionId uint) (*dto.SessionDetailResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.SessionRepository().FindOne(ctx, specification.ByID{ID: sessionId})
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, nil
	}

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: session.UserId})
	if err != nil {
		return nil, err
	}

	fullName := ""
	var delay time.Duration
	if user != nil {
		fullName = user.FullName()
		delay = user.DelayInterval
	}

	// The transcript: traffic attributed to the user inside the session's
	// lifetime.
	msgSpecs := []specification.Specification{
		specification.FilterBy{Field: "user_id", Value: session.UserId},
		specification.LoggedAfter{After: session.StartedAt},
		specification.OrderBy{Field: "timestamp"},
	}
	if session.EndedAt != nil {
		msgSpecs = append(msgSpecs, specification.LoggedBefore{Before: *session.EndedAt})
	}
	messages, err := uow.MessageLogRepository().FindAll(ctx, msgSpecs...)
	if err != nil {
		return nil, err
	}

	items := make([]dto.MessageLogResponse, 0, len(messages))
	for _, msg := range messages {
		items = append(items, toMessageResponse(msg))
	}

	return &dto.SessionDetailResponse{
		SessionResponse: toSessionResponse(session, delay),
		UserFullName:    fullName,
		Messages:        items,
	}, nil
}

// delayByUser loads the check-in interval for every distinct user in the
// page so open sessions can expose their deadline.
func (s *monitorService) delayByUser(ctx context.Context, uow unitofwork.UnitOfWork, sessions []*entity.Session) (map[uint]time.Duration, error) {
	ids := make([]uint, 0, len(sessions))
	seen := make(map[uint]bool, len(sessions))
	for _, session := range sessions {
		if !seen[session.UserId] {
			seen[session.UserId] = true
			ids = append(ids, session.UserId)
		}
	}
	delays := make(map[uint]time.Duration, len(ids))
	if len(ids) == 0 {
		return delays, nil
	}

	users, err := uow.UserRepository().FindAll(ctx, specification.ByIDs{IDs: ids})
	if err != nil {
		return nil, err
	}
	for _, user := range users {
		delays[user.Id] = user.DelayInterval
	}
	return delays, nil
}

func toSessionResponse(session *entity.Session, delay time.Duration) dto.SessionResponse {
	res := dto.SessionResponse{
		Id:                   session.Id,
		UserId:               session.UserId,
		Status:               string(session.Status),
		StartedAt:            session.StartedAt,
		EndedAt:              session.EndedAt,
		LastCheckInAt:        session.LastCheckInAt,
		CheckedInByContactId: session.CheckedInByContactId,
	}
	if session.Status == entity.SessionStatusActive && delay > 0 {
		deadline := session.Deadline(delay)
		res.Deadline = &deadline
	}
	return res
}

// ============================================================================
// Messages
// ============================================================================

func (s *monitorService) GetMessages(ctx context.Context, userId *uint, page, limit int) (*dto.PagedMessagesResponse, error) {
	page, limit, offset := normalizePaging(page, limit)
	uow := s.uowFactory.NewUnitOfWork(ctx)

	var filters []specification.Specification
	if userId != nil {
		filters = append(filters, specification.FilterBy{Field: "user_id", Value: *userId})
	}

	total, err := uow.MessageLogRepository().Count(ctx, filters...)
	if err != nil {
		return nil, err
	}

	specs := append(filters,
		specification.OrderBy{Field: "timestamp", Desc: true},
		specification.Pagination{Limit: limit, Offset: offset},
	)
	messages, err := uow.MessageLogRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	items := make([]dto.MessageLogResponse, 0, len(messages))
	for _, msg := range messages {
		items = append(items, toMessageResponse(msg))
	}

	return &dto.PagedMessagesResponse{Items: items, Total: total, Page: page, Limit: limit}, nil
}

func toMessageResponse(msg *entity.MessageLog) dto.MessageLogResponse {
	return dto.MessageLogResponse{
		Id:          msg.Id,
		UserId:      msg.UserId,
		ContactId:   msg.ContactId,
		Direction:   string(msg.Direction),
		Timestamp:   msg.Timestamp,
		MessageText: msg.MessageText,
	}
}

// ============================================================================
// Logs
// ============================================================================

func (s *monitorService) GetSystemLogs(ctx context.Context, page, limit int, level string) ([]*dto.LogListResponse, error) {
	_, limit, offset := normalizePaging(page, limit)

	entries, err := s.logger.GetLogs(level, limit, offset)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.LogListResponse, 0, len(entries))
	for _, entry := range entries {
		res = append(res, &dto.LogListResponse{
			Id:        entry.Id,
			Level:     entry.Level,
			Module:    entry.Module,
			Message:   entry.Message,
			Timestamp: entry.Timestamp,
		})
	}
	return res, nil
}

func (s *monitorService) GetLogDetail(ctx context.Context, logId string) (*dto.LogDetailResponse, error) {
	entry, err := s.logger.GetLogById(logId)
	if err != nil {
		return nil, err
	}

	return &dto.LogDetailResponse{
		LogListResponse: dto.LogListResponse{
			Id:        entry.Id,
			Level:     entry.Level,
			Module:    entry.Module,
			Message:   entry.Message,
			Timestamp: entry.Timestamp,
		},
		Details: entry.Details,
	}, nil
}

// ============================================================================
// Health
// ============================================================================

func (s *monitorService) GetHealth(ctx context.Context) *dto.HealthResponse {
	res := &dto.HealthResponse{
		Status:   "ok",
		Database: "ok",
		Gateway:  s.gatewayName,
		Uptime:   time.Since(s.startedAt).Round(time.Second).String(),
	}

	sqlDB, err := s.db.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		res.Status = "degraded"
		res.Database = "unreachable"
	}
	return res
}
