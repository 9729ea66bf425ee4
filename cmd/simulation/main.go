// An end-to-end run of the check-in engine against an in-memory database and
// a recording gateway. Time is advanced by hand, so the whole monitored shift
// plays out in milliseconds. Exits non-zero on the first violated check.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"workalone-be/internal/entity"
	"workalone-be/internal/events"
	"workalone-be/internal/model"
	"workalone-be/internal/pkg/logger"
	"workalone-be/internal/repository/unitofwork"
	"workalone-be/internal/service"
	"workalone-be/pkg/clock"
	"workalone-be/pkg/database"
	"workalone-be/pkg/gateway"

	"github.com/fatih/color"
	"gorm.io/gorm"
)

const (
	userPhone    = "+15550100001"
	guardAPhone  = "+15550200001"
	guardBPhone  = "+15550200002"
	delayMinutes = 30
)

func main() {
	// 1. Setup: fresh schema, recording gateway, hand-driven clock
	db, err := database.NewSqliteDB(":memory:")
	if err != nil {
		log.Fatal("Failed to open in-memory database:", err)
	}
	if err := db.AutoMigrate(
		&model.User{}, &model.EscalationContact{}, &model.Session{},
		&model.MessageLog{}, &model.DeliveryReceipt{},
	); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	seed(db)

	sysLogger := logger.NewZapLogger("simulation.log.csv", false)
	defer sysLogger.Sync()

	clk := clock.NewManual(time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC))
	gw := gateway.NewMemoryGateway()
	uowFactory := unitofwork.NewRepositoryFactory(db)

	// Events stay in-process: no NATS, no dashboard.
	eventPublisher := events.NewNatsPublisher(nil, nil, sysLogger)

	outbound := service.NewOutboundService(uowFactory, gw, clk, sysLogger, 5*time.Second, 3)
	escalation := service.NewEscalationService(
		uowFactory, outbound, eventPublisher, nil, clk, sysLogger, 3, 30*time.Second,
	)
	command := service.NewCommandService(uowFactory, escalation, outbound, eventPublisher, sysLogger, 3)

	ctx := context.Background()
	inbound := func(from, text string) {
		color.Yellow("  %s -> %q", from, text)
		err := command.HandleInbound(ctx, entity.InboundMessage{
			FromPhoneNumber: from,
			Text:            text,
			ReceivedAt:      clk.Now(),
		})
		if err != nil {
			fail("HandleInbound(%q) returned error: %v", text, err)
		}
	}

	// 2. Worker starts a monitored shift
	color.Cyan("== 08:00 Shift starts ==")
	inbound(userPhone, "START")
	expectStatus(db, entity.SessionStatusActive)
	expectSentCount(gw, userPhone, 1) // started confirmation

	// 3. Check-in just before the deadline
	clk.Advance(29 * time.Minute)
	color.Cyan("== 08:29 Worker checks in ==")
	inbound(userPhone, "OK")
	expectStatus(db, entity.SessionStatusActive)

	// 4. The check-in moved the deadline, so nothing fires at the old one
	clk.Advance(29 * time.Minute)
	expectStatus(db, entity.SessionStatusActive)
	expectSentCount(gw, guardAPhone, 0)

	// 5. Silence past the new deadline escalates
	clk.Advance(2 * time.Minute)
	color.Cyan("== 09:00 Deadline missed, contacts alerted ==")
	expectStatus(db, entity.SessionStatusAlert)
	expectSentCount(gw, guardAPhone, 1)
	expectSentCount(gw, guardBPhone, 1)

	// 6. A check-in during an alert must not quietly close it
	inbound(userPhone, "OK")
	expectStatus(db, entity.SessionStatusAlert)

	// 7. A guardian confirms the worker is fine
	color.Cyan("== 09:05 Guardian resolves the alert ==")
	clk.Advance(5 * time.Minute)
	inbound(guardAPhone, "RESOLVE")
	expectStatus(db, entity.SessionStatusInactive)

	var closed model.Session
	if err := db.Order("id desc").First(&closed).Error; err != nil {
		fail("Failed to reload session: %v", err)
	}
	if closed.CheckedInByContactId == nil {
		fail("Resolved session has no resolving contact recorded")
	}
	if closed.EndedAt == nil {
		fail("Resolved session has no end time")
	}

	// 8. Every message in and out left an audit row; every send a receipt
	var incoming, outgoing, receipts, failedReceipts int64
	db.Model(&model.MessageLog{}).Where("direction = ?", "incoming").Count(&incoming)
	db.Model(&model.MessageLog{}).Where("direction = ?", "outgoing").Count(&outgoing)
	db.Model(&model.DeliveryReceipt{}).Count(&receipts)
	db.Model(&model.DeliveryReceipt{}).Where("status = ?", "failed").Count(&failedReceipts)

	if incoming != 4 {
		fail("Expected 4 incoming audit rows (START, OK, OK, RESOLVE), got %d", incoming)
	}
	if outgoing != int64(len(gw.Sent())) {
		fail("Outgoing rows (%d) do not match gateway deliveries (%d)", outgoing, len(gw.Sent()))
	}
	if receipts != outgoing {
		fail("Expected one receipt per outgoing row, got %d receipts for %d rows", receipts, outgoing)
	}
	if failedReceipts != 0 {
		fail("Expected no failed deliveries, got %d", failedReceipts)
	}

	fmt.Println()
	color.Green("✅ Simulation passed: %d inbound, %d outbound, alert raised and resolved.", incoming, outgoing)
}

func seed(db *gorm.DB) {
	user := model.User{
		PhoneNumber:   userPhone,
		FirstName:     "Dana",
		LastName:      "Whitfield",
		DelayInterval: delayMinutes,
		Contacts: []model.EscalationContact{
			{FirstName: "Priya", LastName: "Nair", PhoneNumber: guardAPhone},
			{FirstName: "Marcus", LastName: "Bell", PhoneNumber: guardBPhone},
		},
	}
	if err := db.Create(&user).Error; err != nil {
		log.Fatal("Seed failed:", err)
	}
}

func expectStatus(db *gorm.DB, want entity.SessionStatus) {
	var s model.Session
	if err := db.Order("id desc").First(&s).Error; err != nil {
		fail("No session found: %v", err)
	}
	if s.Status != string(want) {
		fail("Expected session status %q, got %q", want, s.Status)
	}
	log.Printf("  session #%d status=%s", s.Id, s.Status)
}

func expectSentCount(gw *gateway.MemoryGateway, to string, want int) {
	got := len(gw.SentTo(to))
	if got != want {
		fail("Expected %d message(s) to %s, got %d", want, to, got)
	}
}

func fail(format string, args ...interface{}) {
	color.Red("❌ "+format, args...)
	os.Exit(1)
}
