package implementation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"workalone-be/internal/model"
)

func createContactRow(t *testing.T, db *gorm.DB, contactOf uint, firstName, phone string) uint {
	t.Helper()
	row := model.EscalationContact{
		ContactOf:   contactOf,
		FirstName:   firstName,
		PhoneNumber: phone,
	}
	if err := db.Create(&row).Error; err != nil {
		t.Fatalf("failed to create contact row: %v", err)
	}
	return row.Id
}

func TestUserRepositoryGetByPhoneNumber(t *testing.T) {
	db := newRepoDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	createUserRow(t, db, "+15550100001", "Dana")
	row := model.User{PhoneNumber: "+15550100002", FirstName: "Tomas", LastName: "Herrera", DelayInterval: 45}
	if err := db.Create(&row).Error; err != nil {
		t.Fatalf("failed to create user row: %v", err)
	}

	user, err := repo.GetByPhoneNumber(ctx, "+15550100002")
	assert.NoError(t, err)
	if assert.NotNil(t, user) {
		assert.Equal(t, row.Id, user.Id)
		assert.Equal(t, "Tomas Herrera", user.FullName())
		// The column stores minutes; the entity carries a duration.
		assert.Equal(t, 45*time.Minute, user.DelayInterval)
	}

	user, err = repo.GetByPhoneNumber(ctx, "+19990000000")
	assert.NoError(t, err)
	assert.Nil(t, user, "unknown numbers are a lookup miss, not an error")
}

func TestUserRepositoryGetWithContacts(t *testing.T) {
	db := newRepoDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	guarded := createUserRow(t, db, "+15550100001", "Dana")
	alone := createUserRow(t, db, "+15550100002", "Tomas")
	first := createContactRow(t, db, guarded, "Priya", "+15550200001")
	second := createContactRow(t, db, guarded, "Marcus", "+15550200002")

	user, err := repo.GetWithContacts(ctx, guarded)
	assert.NoError(t, err)
	if assert.NotNil(t, user) && assert.Len(t, user.Contacts, 2) {
		assert.Equal(t, first, user.Contacts[0].Id)
		assert.Equal(t, second, user.Contacts[1].Id)
		assert.Equal(t, guarded, user.Contacts[0].ContactOf)
	}

	user, err = repo.GetWithContacts(ctx, alone)
	assert.NoError(t, err)
	if assert.NotNil(t, user) {
		assert.Empty(t, user.Contacts)
	}

	user, err = repo.GetWithContacts(ctx, 9999)
	assert.NoError(t, err)
	assert.Nil(t, user)
}

func TestContactRepositoryGetByPhoneNumberReturnsEveryGuardedUser(t *testing.T) {
	db := newRepoDB(t)
	repo := NewEscalationContactRepository(db)
	ctx := context.Background()

	dana := createUserRow(t, db, "+15550100001", "Dana")
	aiko := createUserRow(t, db, "+15550100003", "Aiko")

	// One guardian, two monitored users. RESOLVE disambiguation depends on
	// getting both rows back.
	forDana := createContactRow(t, db, dana, "Priya", "+15550200001")
	forAiko := createContactRow(t, db, aiko, "Priya", "+15550200001")

	contacts, err := repo.GetByPhoneNumber(ctx, "+15550200001")
	assert.NoError(t, err)
	if assert.Len(t, contacts, 2) {
		assert.Equal(t, forDana, contacts[0].Id)
		assert.Equal(t, forAiko, contacts[1].Id)
		assert.Equal(t, dana, contacts[0].ContactOf)
		assert.Equal(t, aiko, contacts[1].ContactOf)
	}

	contacts, err = repo.GetByPhoneNumber(ctx, "+19990000000")
	assert.NoError(t, err)
	assert.Empty(t, contacts)
}

func TestContactRepositoryGetByUser(t *testing.T) {
	db := newRepoDB(t)
	repo := NewEscalationContactRepository(db)
	ctx := context.Background()

	dana := createUserRow(t, db, "+15550100001", "Dana")
	tomas := createUserRow(t, db, "+15550100002", "Tomas")
	first := createContactRow(t, db, dana, "Priya", "+15550200001")
	second := createContactRow(t, db, dana, "Marcus", "+15550200002")
	createContactRow(t, db, tomas, "Ingrid", "+15550200003")

	contacts, err := repo.GetByUser(ctx, dana)
	assert.NoError(t, err)
	if assert.Len(t, contacts, 2) {
		assert.Equal(t, first, contacts[0].Id)
		assert.Equal(t, second, contacts[1].Id)
	}
}
