package implementation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"workalone-be/internal/entity"
	"workalone-be/internal/model"
	"workalone-be/pkg/database"
)

func newRepoDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.NewSqliteDB(":memory:")
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	err = db.AutoMigrate(
		&model.User{},
		&model.EscalationContact{},
		&model.Session{},
		&model.MessageLog{},
		&model.DeliveryReceipt{},
	)
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func createUserRow(t *testing.T, db *gorm.DB, phone, firstName string) uint {
	t.Helper()
	row := model.User{
		PhoneNumber:   phone,
		FirstName:     firstName,
		DelayInterval: 30,
	}
	if err := db.Create(&row).Error; err != nil {
		t.Fatalf("failed to create user row: %v", err)
	}
	return row.Id
}

func createSession(t *testing.T, db *gorm.DB, userId uint, status entity.SessionStatus, startedAt time.Time) *entity.Session {
	t.Helper()
	repo := NewSessionRepository(db)
	session := &entity.Session{
		UserId:        userId,
		StartedAt:     startedAt,
		LastCheckInAt: startedAt,
		Status:        status,
	}
	if status == entity.SessionStatusInactive {
		ended := startedAt.Add(time.Hour)
		session.EndedAt = &ended
	}
	if err := repo.Create(context.Background(), session); err != nil {
		t.Fatalf("failed to create session: %v", err)
	}
	return session
}

func TestSessionRepositoryGetOpenByUser(t *testing.T) {
	db := newRepoDB(t)
	repo := NewSessionRepository(db)
	ctx := context.Background()
	base := time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC)

	userId := createUserRow(t, db, "+15550100001", "Dana")

	found, err := repo.GetOpenByUser(ctx, userId)
	assert.NoError(t, err)
	assert.Nil(t, found, "no sessions yet")

	createSession(t, db, userId, entity.SessionStatusInactive, base)
	found, err = repo.GetOpenByUser(ctx, userId)
	assert.NoError(t, err)
	assert.Nil(t, found, "a closed session is not open")

	open := createSession(t, db, userId, entity.SessionStatusActive, base.Add(2*time.Hour))
	found, err = repo.GetOpenByUser(ctx, userId)
	assert.NoError(t, err)
	if assert.NotNil(t, found) {
		assert.Equal(t, open.Id, found.Id)
		assert.Equal(t, entity.SessionStatusActive, found.Status)
	}
}

func TestSessionRepositoryGetOpenByUserIncludesAlerts(t *testing.T) {
	db := newRepoDB(t)
	repo := NewSessionRepository(db)
	ctx := context.Background()

	userId := createUserRow(t, db, "+15550100001", "Dana")
	alert := createSession(t, db, userId, entity.SessionStatusAlert, time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC))

	found, err := repo.GetOpenByUser(ctx, userId)
	assert.NoError(t, err)
	if assert.NotNil(t, found) {
		assert.Equal(t, alert.Id, found.Id)
		assert.Equal(t, entity.SessionStatusAlert, found.Status)
	}
}

func TestSessionRepositoryGetAllOpenOrdersByOldestCheckIn(t *testing.T) {
	db := newRepoDB(t)
	repo := NewSessionRepository(db)
	ctx := context.Background()
	base := time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC)

	quiet := createUserRow(t, db, "+15550100001", "Dana")
	overdue := createUserRow(t, db, "+15550100002", "Tomas")
	done := createUserRow(t, db, "+15550100003", "Aiko")

	createSession(t, db, quiet, entity.SessionStatusActive, base.Add(2*time.Hour))
	oldest := createSession(t, db, overdue, entity.SessionStatusAlert, base.Add(time.Hour))
	createSession(t, db, done, entity.SessionStatusInactive, base)

	open, err := repo.GetAllOpen(ctx)
	assert.NoError(t, err)
	if assert.Len(t, open, 2) {
		// Longest silence first, so a restart re-arms the most urgent
		// session before the rest.
		assert.Equal(t, oldest.Id, open[0].Id)
		assert.Equal(t, overdue, open[0].UserId)
		assert.Equal(t, quiet, open[1].UserId)
	}
}

func TestSessionRepositoryGetAlertsByUsers(t *testing.T) {
	db := newRepoDB(t)
	repo := NewSessionRepository(db)
	ctx := context.Background()
	base := time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC)

	first := createUserRow(t, db, "+15550100001", "Dana")
	second := createUserRow(t, db, "+15550100002", "Tomas")
	third := createUserRow(t, db, "+15550100003", "Aiko")

	newer := createSession(t, db, first, entity.SessionStatusAlert, base.Add(time.Hour))
	older := createSession(t, db, second, entity.SessionStatusAlert, base)
	createSession(t, db, third, entity.SessionStatusActive, base)

	alerts, err := repo.GetAlertsByUsers(ctx, []uint{first, second, third})
	assert.NoError(t, err)
	if assert.Len(t, alerts, 2) {
		// Oldest alert first: disambiguation lists lead with the session
		// that has waited longest for help.
		assert.Equal(t, older.Id, alerts[0].Id)
		assert.Equal(t, newer.Id, alerts[1].Id)
	}

	alerts, err = repo.GetAlertsByUsers(ctx, []uint{third})
	assert.NoError(t, err)
	assert.Empty(t, alerts, "active sessions are not alerts")

	alerts, err = repo.GetAlertsByUsers(ctx, nil)
	assert.NoError(t, err)
	assert.Empty(t, alerts)
}

func TestSessionRepositoryGetLatestByUser(t *testing.T) {
	db := newRepoDB(t)
	repo := NewSessionRepository(db)
	ctx := context.Background()
	base := time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC)

	userId := createUserRow(t, db, "+15550100001", "Dana")
	createSession(t, db, userId, entity.SessionStatusInactive, base)
	latest := createSession(t, db, userId, entity.SessionStatusInactive, base.Add(3*time.Hour))

	found, err := repo.GetLatestByUser(ctx, userId)
	assert.NoError(t, err)
	if assert.NotNil(t, found) {
		assert.Equal(t, latest.Id, found.Id)
	}

	found, err = repo.GetLatestByUser(ctx, 9999)
	assert.NoError(t, err)
	assert.Nil(t, found)
}

func TestSessionRepositoryUpdateRoundTripsCloseFields(t *testing.T) {
	db := newRepoDB(t)
	repo := NewSessionRepository(db)
	ctx := context.Background()
	base := time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC)

	userId := createUserRow(t, db, "+15550100001", "Dana")
	contact := model.EscalationContact{ContactOf: userId, FirstName: "Priya", PhoneNumber: "+15550200001"}
	if err := db.Create(&contact).Error; err != nil {
		t.Fatalf("failed to create contact row: %v", err)
	}

	session := createSession(t, db, userId, entity.SessionStatusAlert, base)

	ended := base.Add(2 * time.Hour)
	session.Status = entity.SessionStatusInactive
	session.EndedAt = &ended
	session.CheckedInByContactId = &contact.Id
	assert.NoError(t, repo.Update(ctx, session))

	found, err := repo.GetLatestByUser(ctx, userId)
	assert.NoError(t, err)
	if assert.NotNil(t, found) {
		assert.Equal(t, entity.SessionStatusInactive, found.Status)
		if assert.NotNil(t, found.EndedAt) {
			assert.WithinDuration(t, ended, *found.EndedAt, time.Second)
		}
		if assert.NotNil(t, found.CheckedInByContactId) {
			assert.Equal(t, contact.Id, *found.CheckedInByContactId)
		}
	}
}
