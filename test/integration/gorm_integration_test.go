package integration

import (
	"context"
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"workalone-be/internal/entity"
	"workalone-be/internal/repository/unitofwork"
	"workalone-be/pkg/database"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
)

func TestGormConnection(t *testing.T) {
	// Load .env from root
	err := godotenv.Load("../../.env")
	if err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}

	// Verify Wiring
	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	uow := uowFactory.NewUnitOfWork(context.Background())

	assert.NotNil(t, uow.UserRepository())
	assert.NotNil(t, uow.SessionRepository())
	assert.NotNil(t, uow.MessageLogRepository())

	// Basic Ping
	sqlDB, _ := gormDB.DB()
	err = sqlDB.Ping()
	assert.NoError(t, err)
	t.Log("Successfully connected to DB and initialized UnitOfWork Factory")

	// Verify Data Access (implies columns exist)
	t.Run("Check User Repository", func(t *testing.T) {
		count, err := uow.UserRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("User count: %d", count)
	})

	t.Run("Check Session Repository", func(t *testing.T) {
		count, err := uow.SessionRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("Session count: %d", count)
	})

	t.Run("Check Transactional Session Create", func(t *testing.T) {
		ctx := context.Background()

		// Unique phone per run so reruns do not trip the unique index.
		phone := fmt.Sprintf("+1999%010d", time.Now().UnixNano()%10000000000)
		user := &entity.User{
			PhoneNumber:   phone,
			FirstName:     "Integration",
			LastName:      "Probe",
			DelayInterval: 30 * time.Minute,
		}
		err := uow.UserRepository().Create(ctx, user)
		assert.NoError(t, err)
		t.Cleanup(func() {
			// Cascades take the contact and session rows with it.
			assert.NoError(t, uow.UserRepository().Delete(context.Background(), user.Id))
		})

		contact := &entity.EscalationContact{
			ContactOf:   user.Id,
			FirstName:   "Probe",
			LastName:    "Guardian",
			PhoneNumber: fmt.Sprintf("+1998%010d", time.Now().UnixNano()%10000000000),
		}
		err = uow.EscalationContactRepository().Create(ctx, contact)
		assert.NoError(t, err)

		// Transaction Test
		err = uow.Begin(ctx)
		assert.NoError(t, err)
		defer uow.Rollback()

		now := time.Now().UTC()
		session := &entity.Session{
			UserId:        user.Id,
			StartedAt:     now,
			LastCheckInAt: now,
			Status:        entity.SessionStatusActive,
		}
		err = uow.SessionRepository().Create(ctx, session)
		assert.NoError(t, err)

		err = uow.Commit()
		assert.NoError(t, err)

		found, err := uow.SessionRepository().GetOpenByUser(ctx, user.Id)
		assert.NoError(t, err)
		if assert.NotNil(t, found) {
			assert.Equal(t, session.Id, found.Id)
		}
		t.Log("Successfully created Session in Transaction")
	})

	t.Run("Check Rollback Discards Writes", func(t *testing.T) {
		ctx := context.Background()

		phone := fmt.Sprintf("+1997%010d", time.Now().UnixNano()%10000000000)
		user := &entity.User{
			PhoneNumber:   phone,
			FirstName:     "Rollback",
			DelayInterval: 30 * time.Minute,
		}
		err := uow.UserRepository().Create(ctx, user)
		assert.NoError(t, err)
		t.Cleanup(func() {
			assert.NoError(t, uow.UserRepository().Delete(context.Background(), user.Id))
		})

		err = uow.Begin(ctx)
		assert.NoError(t, err)

		now := time.Now().UTC()
		err = uow.SessionRepository().Create(ctx, &entity.Session{
			UserId:        user.Id,
			StartedAt:     now,
			LastCheckInAt: now,
			Status:        entity.SessionStatusActive,
		})
		assert.NoError(t, err)

		err = uow.Rollback()
		assert.NoError(t, err)

		found, err := uow.SessionRepository().GetOpenByUser(ctx, user.Id)
		assert.NoError(t, err)
		assert.Nil(t, found, "rolled back session must not be visible")
	})
}
