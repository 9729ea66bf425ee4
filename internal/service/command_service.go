// FILE: internal/service/command_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"workalone-be/internal/constant"
	"workalone-be/internal/entity"
	"workalone-be/internal/events"
	"workalone-be/internal/pkg/logger"
	"workalone-be/internal/repository/specification"
	"workalone-be/internal/repository/unitofwork"
)

// ICommandService turns raw inbound messages into engine transitions and
// auto-replies. It owns sender resolution and the keyword grammar; the
// escalation service owns the state machine.
type ICommandService interface {
	HandleInbound(ctx context.Context, msg entity.InboundMessage) error
}

type commandService struct {
	uowFactory       unitofwork.RepositoryFactory
	escalation       IEscalationService
	outbound         IOutboundService
	publisher        events.Publisher
	logger           logger.ILogger
	maxStoreAttempts uint
}

func NewCommandService(
	uowFactory unitofwork.RepositoryFactory,
	escalation IEscalationService,
	outbound IOutboundService,
	publisher events.Publisher,
	log logger.ILogger,
	maxStoreAttempts uint,
) ICommandService {
	if maxStoreAttempts == 0 {
		maxStoreAttempts = 3
	}
	return &commandService{
		uowFactory:       uowFactory,
		escalation:       escalation,
		outbound:         outbound,
		publisher:        publisher,
		logger:           log,
		maxStoreAttempts: maxStoreAttempts,
	}
}

func (s *commandService) HandleInbound(ctx context.Context, msg entity.InboundMessage) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	sender, guarded, err := s.resolveSender(ctx, uow, msg.FromPhoneNumber)
	if err != nil {
		return err
	}

	// The audit row is written before any transition so that chit-chat,
	// unknown numbers, and failed commands all leave exactly one trace.
	row := &entity.MessageLog{
		UserId:      sender.UserId(),
		ContactId:   sender.ContactId(),
		Timestamp:   msg.ReceivedAt,
		MessageText: msg.Text,
		Direction:   entity.DirectionIncoming,
	}
	if err := retryStore(ctx, "log incoming message", s.maxStoreAttempts, func() error {
		return uow.MessageLogRepository().Create(ctx, row)
	}); err != nil {
		return err
	}

	keyword, arg := parseCommand(msg.Text)
	s.publisher.PublishMessageReceived(ctx, msg.FromPhoneNumber, string(sender.Kind), keyword)

	switch sender.Kind {
	case entity.SenderKindUser:
		return s.handleUserCommand(ctx, sender.User, keyword)
	case entity.SenderKindContact:
		return s.handleContactCommand(ctx, uow, sender.Contact, guarded, keyword, arg)
	default:
		s.logger.Info("COMMAND", "Message from unknown number logged", map[string]interface{}{
			"from": msg.FromPhoneNumber,
		})
		return nil
	}
}

// resolveSender maps a phone number onto a user or contact. A user match
// wins when the number exists in both tables. The full contact row list
// comes back too: one person may guard several users, and RESOLVE needs all
// of those bindings.
func (s *commandService) resolveSender(ctx context.Context, uow unitofwork.UnitOfWork, phoneNumber string) (entity.Sender, []*entity.EscalationContact, error) {
	user, err := uow.UserRepository().GetByPhoneNumber(ctx, phoneNumber)
	if err != nil {
		return entity.Sender{}, nil, &entity.StoreError{Op: "resolve sender", Err: err}
	}
	if user != nil {
		return entity.Sender{Kind: entity.SenderKindUser, User: user}, nil, nil
	}

	contacts, err := uow.EscalationContactRepository().GetByPhoneNumber(ctx, phoneNumber)
	if err != nil {
		return entity.Sender{}, nil, &entity.StoreError{Op: "resolve sender", Err: err}
	}
	if len(contacts) > 0 {
		return entity.Sender{Kind: entity.SenderKindContact, Contact: contacts[0]}, contacts, nil
	}
	return entity.Sender{Kind: entity.SenderKindUnknown}, nil, nil
}

// parseCommand splits a message into its keyword (lowercased first token)
// and the first integer in the remainder, -1 when there is none.
func parseCommand(text string) (string, int) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return "", -1
	}
	keyword := strings.ToLower(fields[0])
	for _, field := range fields[1:] {
		if n, err := strconv.Atoi(strings.Trim(field, "#.,!?:;")); err == nil && n >= 0 {
			return keyword, n
		}
	}
	return keyword, -1
}

func (s *commandService) handleUserCommand(ctx context.Context, user *entity.User, keyword string) error {
	delayMinutes := int(user.DelayInterval.Minutes())

	switch keyword {
	case constant.CommandStart:
		_, err := s.escalation.StartSession(ctx, user)
		if err == nil {
			return s.replyToUser(ctx, user, fmt.Sprintf(constant.ReplyStarted, delayMinutes))
		}
		var conflict *entity.ConflictError
		if errors.As(err, &conflict) {
			return s.replyToUser(ctx, user, constant.ReplyAlreadyStarted)
		}
		return err

	case constant.CommandOk, constant.CommandCheckIn:
		_, err := s.escalation.CheckIn(ctx, user)
		if err == nil {
			return s.replyToUser(ctx, user, fmt.Sprintf(constant.ReplyCheckedIn, delayMinutes))
		}
		var invalid *entity.InvalidTransitionError
		if errors.As(err, &invalid) {
			if invalid.Status == entity.SessionStatusAlert {
				return s.replyToUser(ctx, user, constant.ReplyCheckInWhileAlert)
			}
			return s.replyToUser(ctx, user, constant.ReplyNoSession)
		}
		return err

	case constant.CommandStop:
		_, err := s.escalation.StopSession(ctx, user)
		if err == nil {
			return s.replyToUser(ctx, user, constant.ReplyStopped)
		}
		var invalid *entity.InvalidTransitionError
		if errors.As(err, &invalid) {
			return s.replyToUser(ctx, user, constant.ReplyNoSession)
		}
		return err

	case constant.CommandInfo, constant.CommandHelp:
		return s.replyToUser(ctx, user, constant.InfoForUser)

	default:
		// Chit-chat: logged above, no transition, no reply.
		return nil
	}
}

func (s *commandService) handleContactCommand(ctx context.Context, uow unitofwork.UnitOfWork, contact *entity.EscalationContact, guarded []*entity.EscalationContact, keyword string, arg int) error {
	switch keyword {
	case constant.CommandResolve, constant.CommandConfirm:
		return s.resolveAlert(ctx, uow, contact, guarded, arg)
	case constant.CommandInfo, constant.CommandHelp:
		return s.replyToContact(ctx, contact, constant.InfoForContact)
	default:
		return nil
	}
}

// resolveAlert closes an alert guarded by this contact. When several of the
// contact's users are alerting at once, the contact picks one by user id.
func (s *commandService) resolveAlert(ctx context.Context, uow unitofwork.UnitOfWork, contact *entity.EscalationContact, guarded []*entity.EscalationContact, arg int) error {
	userIds := make([]uint, 0, len(guarded))
	byUser := make(map[uint]*entity.EscalationContact, len(guarded))
	for _, row := range guarded {
		userIds = append(userIds, row.ContactOf)
		byUser[row.ContactOf] = row
	}

	alerts, err := uow.SessionRepository().GetAlertsByUsers(ctx, userIds)
	if err != nil {
		return &entity.StoreError{Op: "list alerts for contact", Err: err}
	}

	var target *entity.Session
	switch {
	case arg >= 0:
		for _, alert := range alerts {
			if alert.UserId == uint(arg) {
				target = alert
				break
			}
		}
		if target == nil {
			return s.replyToContact(ctx, contact, constant.ReplyResolveUnknownId)
		}
	case len(alerts) == 0:
		return s.replyToContact(ctx, contact, constant.ReplyNoAlerts)
	case len(alerts) == 1:
		target = alerts[0]
	default:
		return s.replyToContact(ctx, contact, s.disambiguationList(ctx, uow, alerts))
	}

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: target.UserId})
	if err != nil {
		return &entity.StoreError{Op: "load alerting user", Err: err}
	}
	if user == nil {
		return s.replyToContact(ctx, contact, constant.ReplyResolveUnknownId)
	}

	if _, err := s.escalation.ResolveByContact(ctx, byUser[target.UserId], user); err != nil {
		var invalid *entity.InvalidTransitionError
		if errors.As(err, &invalid) {
			// The alert closed between listing and resolving.
			return s.replyToContact(ctx, contact, constant.ReplyNoAlerts)
		}
		return err
	}

	// The receipt is attributed to both parties so it shows up in the
	// user's session transcript too.
	userId := user.Id
	contactId := contact.Id
	if _, err := s.outbound.Send(ctx, contact.PhoneNumber, fmt.Sprintf(constant.ReplyResolved, user.FullName()), &userId, &contactId); err != nil {
		s.logger.Warn("COMMAND", "Auto-reply to contact failed", map[string]interface{}{
			"contact_id": contact.Id,
			"error":      err.Error(),
		})
	}
	return nil
}

// disambiguationList renders the numbered alert list a contact picks from,
// oldest alert first.
func (s *commandService) disambiguationList(ctx context.Context, uow unitofwork.UnitOfWork, alerts []*entity.Session) string {
	var b strings.Builder
	b.WriteString(constant.ReplyDisambiguate)
	for _, alert := range alerts {
		name := fmt.Sprintf("user %d", alert.UserId)
		if user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: alert.UserId}); err == nil && user != nil {
			name = user.FullName()
		}
		b.WriteString(fmt.Sprintf("\n%d: %s", alert.UserId, name))
	}
	return b.String()
}

// Auto-replies flow through the outbound messenger like any other send. A
// failed reply is logged and swallowed: it must not fail the inbound, whose
// audit row and transition are already committed.
func (s *commandService) replyToUser(ctx context.Context, user *entity.User, text string) error {
	userId := user.Id
	if _, err := s.outbound.Send(ctx, user.PhoneNumber, text, &userId, nil); err != nil {
		s.logger.Warn("COMMAND", "Auto-reply to user failed", map[string]interface{}{
			"user_id": user.Id,
			"error":   err.Error(),
		})
	}
	return nil
}

func (s *commandService) replyToContact(ctx context.Context, contact *entity.EscalationContact, text string) error {
	contactId := contact.Id
	if _, err := s.outbound.Send(ctx, contact.PhoneNumber, text, nil, &contactId); err != nil {
		s.logger.Warn("COMMAND", "Auto-reply to contact failed", map[string]interface{}{
			"contact_id": contact.Id,
			"error":      err.Error(),
		})
	}
	return nil
}
