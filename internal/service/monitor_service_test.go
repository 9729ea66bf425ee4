package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newMonitorFixture(t *testing.T) (*engineFixture, IMonitorService) {
	t.Helper()
	f := newEngineFixture(t)
	monitor := NewMonitorService(f.factory, f.db, nopLogger{}, f.clk, "memory")
	return f, monitor
}

func TestMonitorOverview(t *testing.T) {
	f, monitor := newMonitorFixture(t)
	ctx := context.Background()

	dana := f.seedUser("+15550100001", "Dana", "Whitfield", 30, contactRow("Priya", "Nair", "+15550200001"))
	tomas := f.seedUser("+15550100002", "Tomas", "Herrera", 45)

	f.inbound(dana.PhoneNumber, "start")
	f.inbound(tomas.PhoneNumber, "start")
	// Dana's 30 minute deadline fires; Tomas at 45 minutes is still inside his.
	f.clk.Advance(31 * time.Minute)

	overview, err := monitor.GetOverview(ctx)
	assert.NoError(t, err)
	assert.Equal(t, int64(2), overview.TotalUsers)
	assert.Equal(t, int64(2), overview.OpenSessions)
	assert.Equal(t, int64(1), overview.AlertingSessions)
	assert.Equal(t, int64(1), overview.SessionsByStatus["active"])
	assert.Equal(t, int64(1), overview.SessionsByStatus["alert"])
	assert.Equal(t, int64(0), overview.SessionsByStatus["inactive"])

	// 2 incoming starts, 2 started replies, 1 escalation alert to the guardian.
	assert.Equal(t, int64(5), overview.MessagesToday)
}

func TestMonitorUserListAndDetail(t *testing.T) {
	f, monitor := newMonitorFixture(t)
	ctx := context.Background()

	dana := f.seedUser("+15550100001", "Dana", "Whitfield", 30,
		contactRow("Priya", "Nair", "+15550200001"),
		contactRow("Marcus", "Bell", "+15550200002"),
	)
	f.seedUser("+15550100002", "Tomas", "Herrera", 45)

	f.inbound(dana.PhoneNumber, "start")

	users, err := monitor.GetAllUsers(ctx, 1, 20)
	assert.NoError(t, err)
	if assert.Len(t, users, 2) {
		assert.Equal(t, "Dana Whitfield", users[0].FullName)
		assert.Equal(t, 30, users[0].DelayMinutes)
		assert.Equal(t, 2, users[0].ContactCount)
		assert.Equal(t, "active", users[0].SessionStatus)
		assert.Equal(t, "none", users[1].SessionStatus)
	}

	detail, err := monitor.GetUserDetail(ctx, dana.Id)
	assert.NoError(t, err)
	if assert.NotNil(t, detail) {
		assert.Len(t, detail.Contacts, 2)
		if assert.Len(t, detail.Sessions, 1) {
			// Open sessions expose their deadline so the dashboard can show
			// a countdown.
			if assert.NotNil(t, detail.Sessions[0].Deadline) {
				assert.True(t, detail.Sessions[0].Deadline.Equal(f.clk.Now().Add(30*time.Minute)))
			}
		}
	}

	missing, err := monitor.GetUserDetail(ctx, 9999)
	assert.NoError(t, err)
	assert.Nil(t, missing)
}

func TestMonitorSessionsFilterAndDetail(t *testing.T) {
	f, monitor := newMonitorFixture(t)
	ctx := context.Background()

	dana := f.seedUser("+15550100001", "Dana", "Whitfield", 30)
	tomas := f.seedUser("+15550100002", "Tomas", "Herrera", 45)

	f.inbound(dana.PhoneNumber, "start")
	f.inbound(tomas.PhoneNumber, "start")
	f.clk.Advance(10 * time.Minute)
	f.inbound(dana.PhoneNumber, "stop")

	all, err := monitor.GetSessions(ctx, "", 1, 20)
	assert.NoError(t, err)
	assert.Equal(t, int64(2), all.Total)

	closed, err := monitor.GetSessions(ctx, "inactive", 1, 20)
	assert.NoError(t, err)
	if assert.Equal(t, int64(1), closed.Total) && assert.Len(t, closed.Items, 1) {
		assert.Equal(t, dana.Id, closed.Items[0].UserId)
		assert.Nil(t, closed.Items[0].Deadline, "closed sessions have no deadline")
	}

	detail, err := monitor.GetSessionDetail(ctx, closed.Items[0].Id)
	assert.NoError(t, err)
	if assert.NotNil(t, detail) {
		assert.Equal(t, "Dana Whitfield", detail.UserFullName)
		// The transcript: start, started reply, stop, stopped reply.
		assert.Len(t, detail.Messages, 4)
		assert.Equal(t, "incoming", detail.Messages[0].Direction)
		assert.Equal(t, "start", detail.Messages[0].MessageText)
	}

	missing, err := monitor.GetSessionDetail(ctx, 9999)
	assert.NoError(t, err)
	assert.Nil(t, missing)
}

func TestMonitorMessagesFilterByUser(t *testing.T) {
	f, monitor := newMonitorFixture(t)
	ctx := context.Background()

	dana := f.seedUser("+15550100001", "Dana", "Whitfield", 30)
	tomas := f.seedUser("+15550100002", "Tomas", "Herrera", 45)

	f.inbound(dana.PhoneNumber, "start")
	f.inbound(tomas.PhoneNumber, "start")

	page, err := monitor.GetMessages(ctx, &dana.Id, 1, 20)
	assert.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
	for _, item := range page.Items {
		if assert.NotNil(t, item.UserId) {
			assert.Equal(t, dana.Id, *item.UserId)
		}
	}

	everything, err := monitor.GetMessages(ctx, nil, 1, 20)
	assert.NoError(t, err)
	assert.Equal(t, int64(4), everything.Total)
}

func TestMonitorHealth(t *testing.T) {
	_, monitor := newMonitorFixture(t)

	health := monitor.GetHealth(context.Background())
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, "ok", health.Database)
	assert.Equal(t, "memory", health.Gateway)
	assert.NotEmpty(t, health.Uptime)
}
