package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"

	"workalone-be/internal/constant"
	"workalone-be/internal/dto"
	"workalone-be/internal/entity"
	"workalone-be/internal/model"
)

// The pipeline under test is the real one from the rest binary: publisher
// service into a gochannel topic, dispatch workers draining it into the
// command router and the escalation engine.
func newDispatchFixture(t *testing.T) (*engineFixture, IPublisherService, IPublisherService) {
	t.Helper()
	f := newEngineFixture(t)

	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	t.Cleanup(func() { _ = pubSub.Close() })

	dispatch := NewDispatchService(pubSub, constant.TopicInbound, constant.TopicDeadline, f.command, f.engine, 2)
	if err := dispatch.Start(context.Background()); err != nil {
		t.Fatalf("failed to start dispatch: %v", err)
	}

	inbound := NewPublisherService(constant.TopicInbound, pubSub)
	deadlines := NewPublisherService(constant.TopicDeadline, pubSub)
	return f, inbound, deadlines
}

func TestDispatchRoutesInboundToCommandRouter(t *testing.T) {
	f, inbound, _ := newDispatchFixture(t)
	ctx := context.Background()

	dana := f.seedUser("+15550100001", "Dana", "Whitfield", 30)

	payload, err := json.Marshal(dto.ProcessInboundMessage{
		From:        dana.PhoneNumber,
		Body:        "start",
		ReceivedAt:  f.clk.Now(),
		ProviderSid: "SM100",
	})
	assert.NoError(t, err)
	assert.NoError(t, inbound.Publish(ctx, payload))

	assert.Eventually(t, func() bool {
		return len(f.gw.SentTo(dana.PhoneNumber)) == 1
	}, 2*time.Second, 10*time.Millisecond, "the start reply never arrived")

	session := f.sessionRow(1)
	assert.Equal(t, string(entity.SessionStatusActive), session.Status)
}

func TestDispatchRoutesDeadlinesToEngine(t *testing.T) {
	f, _, deadlines := newDispatchFixture(t)
	ctx := context.Background()

	dana := f.seedUser("+15550100001", "Dana", "Whitfield", 30, contactRow("Priya", "Nair", "+15550200001"))

	// A session another instance started: this process holds no timer for
	// it, so the only path to escalation is the topic.
	now := f.clk.Now()
	row := model.Session{
		UserId:        dana.Id,
		StartedAt:     now.Add(-45 * time.Minute),
		LastCheckInAt: now.Add(-31 * time.Minute),
		Status:        string(entity.SessionStatusActive),
	}
	if err := f.db.Create(&row).Error; err != nil {
		t.Fatalf("failed to seed session: %v", err)
	}

	deadlinePayload, _ := json.Marshal(dto.EscalateDeadlineMessage{SessionId: row.Id})
	assert.NoError(t, deadlines.Publish(ctx, deadlinePayload))

	assert.Eventually(t, func() bool {
		return len(f.gw.SentTo("+15550200001")) == 1
	}, 2*time.Second, 10*time.Millisecond, "the guardian was never alerted")

	session := f.sessionRow(row.Id)
	assert.Equal(t, string(entity.SessionStatusAlert), session.Status)
}

func TestDispatchSurvivesMalformedPayloads(t *testing.T) {
	f, inbound, _ := newDispatchFixture(t)
	ctx := context.Background()

	dana := f.seedUser("+15550100001", "Dana", "Whitfield", 30)

	assert.NoError(t, inbound.Publish(ctx, []byte("not json at all")))

	payload, _ := json.Marshal(dto.ProcessInboundMessage{
		From: dana.PhoneNumber, Body: "start", ReceivedAt: f.clk.Now(), ProviderSid: "SM300",
	})
	assert.NoError(t, inbound.Publish(ctx, payload))

	assert.Eventually(t, func() bool {
		return len(f.gw.SentTo(dana.PhoneNumber)) == 1
	}, 2*time.Second, 10*time.Millisecond, "a bad payload wedged the workers")
}
