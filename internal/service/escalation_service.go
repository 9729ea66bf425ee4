// FILE: internal/service/escalation_service.go
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"workalone-be/internal/constant"
	"workalone-be/internal/dto"
	"workalone-be/internal/entity"
	"workalone-be/internal/events"
	"workalone-be/internal/pkg/logger"
	"workalone-be/internal/repository/specification"
	"workalone-be/internal/repository/unitofwork"
	"workalone-be/pkg/clock"
)

// IEscalationService owns the session state machine: every status
// transition, every deadline timer, and the escalation fan-out go through
// it. Transitions for one user are serialized; different users proceed in
// parallel.
type IEscalationService interface {
	StartSession(ctx context.Context, user *entity.User) (*entity.Session, error)
	CheckIn(ctx context.Context, user *entity.User) (*entity.Session, error)
	StopSession(ctx context.Context, user *entity.User) (*entity.Session, error)
	ResolveByContact(ctx context.Context, contact *entity.EscalationContact, user *entity.User) (*entity.Session, error)
	HandleDeadline(ctx context.Context, sessionId uint)
	Resume(ctx context.Context) error
	Shutdown()
}

type escalationService struct {
	uowFactory unitofwork.RepositoryFactory
	outbound   IOutboundService
	publisher  events.Publisher
	deadlines  IPublisherService // nil: fired deadlines are handled inline
	clock      clock.Clock
	logger     logger.ILogger

	maxStoreAttempts uint
	retryInterval    time.Duration

	guard     sync.Mutex
	userLocks map[uint]*sync.Mutex

	timersMu sync.Mutex
	timers   map[uint]clock.Timer
	stopped  bool
}

func NewEscalationService(
	uowFactory unitofwork.RepositoryFactory,
	outbound IOutboundService,
	publisher events.Publisher,
	deadlines IPublisherService,
	clk clock.Clock,
	log logger.ILogger,
	maxStoreAttempts uint,
	retryInterval time.Duration,
) IEscalationService {
	if maxStoreAttempts == 0 {
		maxStoreAttempts = 3
	}
	if retryInterval <= 0 {
		retryInterval = constant.StoreRetryInterval
	}
	return &escalationService{
		uowFactory:       uowFactory,
		outbound:         outbound,
		publisher:        publisher,
		deadlines:        deadlines,
		clock:            clk,
		logger:           log,
		maxStoreAttempts: maxStoreAttempts,
		retryInterval:    retryInterval,
		userLocks:        make(map[uint]*sync.Mutex),
		timers:           make(map[uint]clock.Timer),
	}
}

// userLock returns the mutex serializing every transition for one user.
// User scope is a superset of session scope, so it also enforces the
// single-open-session invariant. Locks are never removed; the map is
// bounded by the user population.
func (s *escalationService) userLock(userId uint) *sync.Mutex {
	s.guard.Lock()
	defer s.guard.Unlock()
	lock, ok := s.userLocks[userId]
	if !ok {
		lock = &sync.Mutex{}
		s.userLocks[userId] = lock
	}
	return lock
}

// armTimer replaces any pending timer for the session in O(1).
func (s *escalationService) armTimer(sessionId uint, d time.Duration) {
	s.timersMu.Lock()
	defer s.timersMu.Unlock()
	if s.stopped {
		return
	}
	if t, ok := s.timers[sessionId]; ok {
		t.Stop()
	}
	if d < 0 {
		d = 0
	}
	s.timers[sessionId] = s.clock.AfterFunc(d, func() {
		s.onDeadline(sessionId)
	})
}

func (s *escalationService) cancelTimer(sessionId uint) {
	s.timersMu.Lock()
	defer s.timersMu.Unlock()
	if t, ok := s.timers[sessionId]; ok {
		t.Stop()
		delete(s.timers, sessionId)
	}
}

// onDeadline hands a fired deadline to the dispatch pipeline, or processes
// it inline when no pipeline is wired (tests, simulation).
func (s *escalationService) onDeadline(sessionId uint) {
	if s.deadlines == nil {
		s.HandleDeadline(context.Background(), sessionId)
		return
	}

	payload, err := json.Marshal(dto.EscalateDeadlineMessage{SessionId: sessionId})
	if err != nil {
		s.logger.Error("ESCALATION", "Failed to marshal deadline message", map[string]interface{}{
			"session_id": sessionId,
			"error":      err.Error(),
		})
		return
	}
	if err := s.deadlines.Publish(context.Background(), payload); err != nil {
		s.logger.Error("ESCALATION", "Failed to publish deadline, handling inline", map[string]interface{}{
			"session_id": sessionId,
			"error":      err.Error(),
		})
		s.HandleDeadline(context.Background(), sessionId)
	}
}

func (s *escalationService) StartSession(ctx context.Context, user *entity.User) (*entity.Session, error) {
	lock := s.userLock(user.Id)
	lock.Lock()
	defer lock.Unlock()

	uow := s.uowFactory.NewUnitOfWork(ctx)
	open, err := uow.SessionRepository().GetOpenByUser(ctx, user.Id)
	if err != nil {
		return nil, &entity.StoreError{Op: "lookup open session", Err: err}
	}
	if open != nil {
		return nil, &entity.ConflictError{UserId: user.Id, SessionId: open.Id}
	}

	now := s.clock.Now()
	session := &entity.Session{
		UserId:        user.Id,
		StartedAt:     now,
		LastCheckInAt: now,
		Status:        entity.SessionStatusActive,
	}
	if err := retryStore(ctx, "create session", s.maxStoreAttempts, func() error {
		return uow.SessionRepository().Create(ctx, session)
	}); err != nil {
		return nil, err
	}

	s.armTimer(session.Id, user.DelayInterval)
	s.publisher.PublishSessionStarted(ctx, user.Id, session.Id, user.FullName(), session.Deadline(user.DelayInterval))
	s.logger.Info("ESCALATION", "Session started", map[string]interface{}{
		"user_id":    user.Id,
		"session_id": session.Id,
		"deadline":   session.Deadline(user.DelayInterval),
	})
	return session, nil
}

func (s *escalationService) CheckIn(ctx context.Context, user *entity.User) (*entity.Session, error) {
	lock := s.userLock(user.Id)
	lock.Lock()
	defer lock.Unlock()

	uow := s.uowFactory.NewUnitOfWork(ctx)
	session, err := uow.SessionRepository().GetOpenByUser(ctx, user.Id)
	if err != nil {
		return nil, &entity.StoreError{Op: "lookup open session", Err: err}
	}
	if session == nil {
		return nil, &entity.InvalidTransitionError{Command: "OK"}
	}
	if session.Status != entity.SessionStatusActive {
		// An alerted session is never silently revived by a check-in; the
		// contacts are already involved.
		return nil, &entity.InvalidTransitionError{Command: "OK", Status: session.Status}
	}

	session.LastCheckInAt = s.clock.Now()
	if err := retryStore(ctx, "record check-in", s.maxStoreAttempts, func() error {
		return uow.SessionRepository().Update(ctx, session)
	}); err != nil {
		return nil, err
	}

	s.armTimer(session.Id, user.DelayInterval)
	s.publisher.PublishCheckInRecorded(ctx, user.Id, session.Id, nil, session.Deadline(user.DelayInterval))
	s.logger.Info("ESCALATION", "Check-in recorded", map[string]interface{}{
		"user_id":    user.Id,
		"session_id": session.Id,
		"deadline":   session.Deadline(user.DelayInterval),
	})
	return session, nil
}

func (s *escalationService) StopSession(ctx context.Context, user *entity.User) (*entity.Session, error) {
	lock := s.userLock(user.Id)
	lock.Lock()
	defer lock.Unlock()

	uow := s.uowFactory.NewUnitOfWork(ctx)
	session, err := uow.SessionRepository().GetOpenByUser(ctx, user.Id)
	if err != nil {
		return nil, &entity.StoreError{Op: "lookup open session", Err: err}
	}
	if session == nil {
		return nil, &entity.InvalidTransitionError{Command: "STOP"}
	}

	now := s.clock.Now()
	session.Status = entity.SessionStatusInactive
	session.EndedAt = &now
	if err := retryStore(ctx, "end session", s.maxStoreAttempts, func() error {
		return uow.SessionRepository().Update(ctx, session)
	}); err != nil {
		return nil, err
	}

	s.cancelTimer(session.Id)
	s.publisher.PublishSessionStopped(ctx, user.Id, session.Id)
	s.logger.Info("ESCALATION", "Session stopped", map[string]interface{}{
		"user_id":    user.Id,
		"session_id": session.Id,
	})
	return session, nil
}

func (s *escalationService) ResolveByContact(ctx context.Context, contact *entity.EscalationContact, user *entity.User) (*entity.Session, error) {
	if contact.ContactOf != user.Id {
		return nil, &entity.InvalidTransitionError{Command: "RESOLVE"}
	}

	lock := s.userLock(user.Id)
	lock.Lock()
	defer lock.Unlock()

	uow := s.uowFactory.NewUnitOfWork(ctx)
	session, err := uow.SessionRepository().GetOpenByUser(ctx, user.Id)
	if err != nil {
		return nil, &entity.StoreError{Op: "lookup open session", Err: err}
	}
	if session == nil {
		return nil, &entity.InvalidTransitionError{Command: "RESOLVE"}
	}
	if session.Status != entity.SessionStatusAlert {
		return nil, &entity.InvalidTransitionError{Command: "RESOLVE", Status: session.Status}
	}

	now := s.clock.Now()
	contactId := contact.Id
	session.Status = entity.SessionStatusInactive
	session.EndedAt = &now
	session.CheckedInByContactId = &contactId
	if err := retryStore(ctx, "resolve alert", s.maxStoreAttempts, func() error {
		return uow.SessionRepository().Update(ctx, session)
	}); err != nil {
		return nil, err
	}

	s.cancelTimer(session.Id)
	s.publisher.PublishAlertResolved(ctx, user.Id, session.Id, contact.Id, contact.FullName())
	s.logger.Info("ESCALATION", "Alert resolved by contact", map[string]interface{}{
		"user_id":    user.Id,
		"session_id": session.Id,
		"contact_id": contact.Id,
	})
	return session, nil
}

type deadlineOutcome int

const (
	outcomeEscalated deadlineOutcome = iota
	outcomeStale
	outcomeRearm
)

// HandleDeadline processes one fired deadline. Safe for stale timers: the
// session is re-read under the user's lock inside the same transaction that
// writes alert, and anything but an overdue active session is a no-op.
func (s *escalationService) HandleDeadline(ctx context.Context, sessionId uint) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.SessionRepository().FindOne(ctx, specification.ByID{ID: sessionId})
	if err != nil {
		s.logger.Error("ESCALATION", "Deadline lookup failed", map[string]interface{}{
			"session_id": sessionId,
			"error":      err.Error(),
		})
		s.armTimer(sessionId, s.retryInterval)
		return
	}
	if session == nil {
		s.cancelTimer(sessionId)
		return
	}

	lock := s.userLock(session.UserId)
	lock.Lock()
	defer lock.Unlock()

	user, err := uow.UserRepository().GetWithContacts(ctx, session.UserId)
	if err != nil {
		s.logger.Error("ESCALATION", "Deadline user lookup failed", map[string]interface{}{
			"session_id": sessionId,
			"user_id":    session.UserId,
			"error":      err.Error(),
		})
		s.armTimer(sessionId, s.retryInterval)
		return
	}
	if user == nil {
		// User deleted; the session row is gone with it (cascade).
		s.cancelTimer(sessionId)
		return
	}

	var outcome deadlineOutcome
	var rearmIn time.Duration

	err = retryStore(ctx, "mark session alerted", s.maxStoreAttempts, func() error {
		txUow := s.uowFactory.NewUnitOfWork(ctx)
		if err := txUow.Begin(ctx); err != nil {
			return err
		}
		defer txUow.Rollback()

		cur, err := txUow.SessionRepository().FindOne(ctx, specification.ByID{ID: sessionId})
		if err != nil {
			return err
		}
		if cur == nil || cur.Status != entity.SessionStatusActive {
			// Stopped, resolved, or already alerted since the timer fired.
			outcome = outcomeStale
			return nil
		}

		now := s.clock.Now()
		if deadline := cur.Deadline(user.DelayInterval); deadline.After(now) {
			// A check-in landed first; the deadline moved.
			outcome = outcomeRearm
			rearmIn = deadline.Sub(now)
			return nil
		}

		cur.Status = entity.SessionStatusAlert
		if err := txUow.SessionRepository().Update(ctx, cur); err != nil {
			return err
		}
		if err := txUow.Commit(); err != nil {
			return err
		}
		outcome = outcomeEscalated
		return nil
	})
	if err != nil {
		// The deadline must not be lost: alert the operators and try again
		// on a short timer.
		s.logger.Error("ESCALATION", "Store retries exhausted marking alert", map[string]interface{}{
			"session_id": sessionId,
			"user_id":    user.Id,
			"error":      err.Error(),
		})
		s.publisher.PublishStoreRetriesExhausted(ctx, "mark session alerted", sessionId, err.Error())
		s.armTimer(sessionId, s.retryInterval)
		return
	}

	switch outcome {
	case outcomeStale:
		s.cancelTimer(sessionId)
		return
	case outcomeRearm:
		s.armTimer(sessionId, rearmIn)
		return
	}

	// Alert is durable; an alerted session holds no deadline.
	s.cancelTimer(sessionId)

	// Fan-out. One text per contact, failures isolated per recipient.
	notified, failures := 0, 0
	text := fmt.Sprintf(constant.EscalationAlert, user.FullName())
	for _, contact := range user.Contacts {
		userId := user.Id
		contactId := contact.Id
		if _, err := s.outbound.Send(ctx, contact.PhoneNumber, text, &userId, &contactId); err != nil {
			failures++
			s.publisher.PublishEscalationSendFailed(ctx, user.Id, sessionId, contact.Id, user.FullName(), contact.PhoneNumber, err.Error())
			continue
		}
		notified++
	}

	s.publisher.PublishSessionAlerted(ctx, user.Id, sessionId, user.FullName(), notified, failures)
	s.logger.Warn("ESCALATION", "Session escalated", map[string]interface{}{
		"user_id":           user.Id,
		"session_id":        sessionId,
		"contacts_notified": notified,
		"delivery_failures": failures,
	})
}

// Resume re-arms timers for every open session. Called once on boot before
// traffic is accepted. Overdue sessions fire immediately.
func (s *escalationService) Resume(ctx context.Context) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	sessions, err := uow.SessionRepository().GetAllOpen(ctx)
	if err != nil {
		return &entity.StoreError{Op: "load open sessions", Err: err}
	}

	rearmed := 0
	for _, session := range sessions {
		if session.Status != entity.SessionStatusActive {
			continue // alerted sessions wait for a human, not a timer
		}
		user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: session.UserId})
		if err != nil {
			return &entity.StoreError{Op: "load session user", Err: err}
		}
		if user == nil {
			continue
		}
		wait := session.Deadline(user.DelayInterval).Sub(s.clock.Now())
		s.armTimer(session.Id, wait)
		rearmed++
	}

	s.logger.Info("ESCALATION", "Resumed monitoring", map[string]interface{}{
		"open_sessions": len(sessions),
		"timers_armed":  rearmed,
	})
	return nil
}

// Shutdown stops every pending timer. In-flight transitions finish; open
// sessions get their timers back from Resume on the next boot.
func (s *escalationService) Shutdown() {
	s.timersMu.Lock()
	defer s.timersMu.Unlock()
	s.stopped = true
	for id, t := range s.timers {
		t.Stop()
		delete(s.timers, id)
	}
}
