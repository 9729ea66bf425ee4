// FILE: internal/service/engine_fixture_test.go
package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"workalone-be/internal/entity"
	"workalone-be/internal/model"
	"workalone-be/internal/pkg/logger"
	"workalone-be/internal/repository/unitofwork"
	"workalone-be/pkg/clock"
	"workalone-be/pkg/database"
	"workalone-be/pkg/gateway"

	"gorm.io/gorm"
)

// nopLogger satisfies logger.ILogger for tests that do not inspect logs.
type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }
func (nopLogger) GetLogs(level string, limit, offset int) ([]logger.LogEntry, error) {
	return nil, nil
}
func (nopLogger) GetLogById(id string) (*logger.LogEntry, error) {
	return nil, errors.New("log not found")
}

// recordingPublisher captures emitted event codes in order.
type recordingPublisher struct {
	mu    sync.Mutex
	codes []string
}

func (p *recordingPublisher) record(code string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.codes = append(p.codes, code)
}

func (p *recordingPublisher) count(code string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, c := range p.codes {
		if c == code {
			n++
		}
	}
	return n
}

func (p *recordingPublisher) PublishSessionStarted(ctx context.Context, userId, sessionId uint, fullName string, deadline time.Time) {
	p.record("SESSION_STARTED")
}
func (p *recordingPublisher) PublishCheckInRecorded(ctx context.Context, userId, sessionId uint, byContactId *uint, deadline time.Time) {
	p.record("CHECK_IN_RECORDED")
}
func (p *recordingPublisher) PublishSessionAlerted(ctx context.Context, userId, sessionId uint, fullName string, contactsNotified, deliveryFailures int) {
	p.record("SESSION_ALERTED")
}
func (p *recordingPublisher) PublishAlertResolved(ctx context.Context, userId, sessionId, contactId uint, contactName string) {
	p.record("ALERT_RESOLVED")
}
func (p *recordingPublisher) PublishSessionStopped(ctx context.Context, userId, sessionId uint) {
	p.record("SESSION_STOPPED")
}
func (p *recordingPublisher) PublishMessageReceived(ctx context.Context, from, senderKind, command string) {
	p.record("MESSAGE_RECEIVED")
}
func (p *recordingPublisher) PublishEscalationSendFailed(ctx context.Context, userId, sessionId, contactId uint, fullName, phoneNumber, reason string) {
	p.record("ESCALATION_SEND_FAILED")
}
func (p *recordingPublisher) PublishStoreRetriesExhausted(ctx context.Context, op string, sessionId uint, reason string) {
	p.record("STORE_RETRIES_EXHAUSTED")
}

// engineFixture wires the real services against an in-memory database, a
// recording gateway, and a hand-driven clock.
type engineFixture struct {
	t        *testing.T
	db       *gorm.DB
	clk      *clock.Manual
	gw       *gateway.MemoryGateway
	events   *recordingPublisher
	factory  unitofwork.RepositoryFactory
	outbound IOutboundService
	engine   IEscalationService
	command  ICommandService
}

func newEngineFixture(t *testing.T) *engineFixture {
	t.Helper()

	db, err := database.NewSqliteDB(":memory:")
	if err != nil {
		t.Fatalf("Failed to open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&model.User{}, &model.EscalationContact{}, &model.Session{},
		&model.MessageLog{}, &model.DeliveryReceipt{},
	); err != nil {
		t.Fatalf("AutoMigrate failed: %v", err)
	}

	clk := clock.NewManual(time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC))
	gw := gateway.NewMemoryGateway()
	rec := &recordingPublisher{}
	factory := unitofwork.NewRepositoryFactory(db)

	// Two attempts keep the exhausted-retries tests fast.
	outbound := NewOutboundService(factory, gw, clk, nopLogger{}, 5*time.Second, 2)
	engine := NewEscalationService(factory, outbound, rec, nil, clk, nopLogger{}, 2, 30*time.Second)
	command := NewCommandService(factory, engine, outbound, rec, nopLogger{}, 2)

	return &engineFixture{
		t:        t,
		db:       db,
		clk:      clk,
		gw:       gw,
		events:   rec,
		factory:  factory,
		outbound: outbound,
		engine:   engine,
		command:  command,
	}
}

func contactRow(first, last, phone string) model.EscalationContact {
	return model.EscalationContact{FirstName: first, LastName: last, PhoneNumber: phone}
}

// seedUser creates a user with contacts and returns the entity with its
// contact list loaded.
func (f *engineFixture) seedUser(phone, first, last string, delayMinutes int64, contacts ...model.EscalationContact) *entity.User {
	f.t.Helper()

	row := model.User{
		PhoneNumber:   phone,
		FirstName:     first,
		LastName:      last,
		DelayInterval: delayMinutes,
		Contacts:      contacts,
	}
	if err := f.db.Create(&row).Error; err != nil {
		f.t.Fatalf("Failed to seed user: %v", err)
	}

	user, err := f.factory.NewUnitOfWork(context.Background()).UserRepository().GetWithContacts(context.Background(), row.Id)
	if err != nil || user == nil {
		f.t.Fatalf("Failed to reload seeded user: %v", err)
	}
	return user
}

// sessionRow reloads the session by id straight from the database.
func (f *engineFixture) sessionRow(id uint) *model.Session {
	f.t.Helper()
	var s model.Session
	if err := f.db.First(&s, id).Error; err != nil {
		f.t.Fatalf("Failed to load session %d: %v", id, err)
	}
	return &s
}

func (f *engineFixture) inbound(from, text string) {
	f.t.Helper()
	err := f.command.HandleInbound(context.Background(), entity.InboundMessage{
		FromPhoneNumber: from,
		Text:            text,
		ReceivedAt:      f.clk.Now(),
	})
	if err != nil {
		f.t.Fatalf("HandleInbound(%q) failed: %v", text, err)
	}
}

func (f *engineFixture) lastSentTo(phone string) string {
	f.t.Helper()
	sent := f.gw.SentTo(phone)
	if len(sent) == 0 {
		f.t.Fatalf("No messages sent to %s", phone)
	}
	return sent[len(sent)-1].Body
}
