// Scans the database for states the engine should never produce: duplicate
// open sessions, closed sessions without an end time, alerts nobody can
// answer, outgoing messages with no delivery receipt. Run it after an
// incident or a restore; exits non-zero when anything is off.
package main

import (
	"log"
	"os"
	"strings"

	"workalone-be/pkg/database"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

func main() {
	// 1. Load Environment
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	// 2. Connect to DB
	db, err := openDatabase()
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	color.Cyan("🔍 DATA INTEGRITY CHECK")
	violations := 0

	// 3. One open session per user
	type dupRow struct {
		UserId uint
		N      int64
	}
	var dups []dupRow
	mustScan(db.Raw(`
		SELECT user_id, COUNT(*) AS n FROM sessions
		WHERE status IN ('active', 'alert')
		GROUP BY user_id HAVING COUNT(*) > 1`).Scan(&dups))
	section("Users with more than one open session", len(dups))
	for _, d := range dups {
		log.Printf("    user %d holds %d open sessions", d.UserId, d.N)
		violations++
	}

	// 4. Terminal state must carry an end time, open state must not
	var ids []uint
	mustScan(db.Raw(`SELECT id FROM sessions WHERE status = 'inactive' AND ended_at IS NULL`).Scan(&ids))
	section("Closed sessions missing ended_at", len(ids))
	violations += listIds(ids)

	mustScan(db.Raw(`SELECT id FROM sessions WHERE status IN ('active', 'alert') AND ended_at IS NOT NULL`).Scan(&ids))
	section("Open sessions carrying ended_at", len(ids))
	violations += listIds(ids)

	// 5. Every alert needs someone to answer it
	mustScan(db.Raw(`
		SELECT s.id FROM sessions s
		WHERE s.status = 'alert'
		AND NOT EXISTS (SELECT 1 FROM escalation_contacts c WHERE c.contact_of = s.user_id)`).Scan(&ids))
	section("Alerts whose user has no escalation contacts", len(ids))
	violations += listIds(ids)

	// 6. Resolution attribution must point at one of the user's own contacts
	mustScan(db.Raw(`
		SELECT s.id FROM sessions s
		JOIN escalation_contacts c ON c.id = s.checked_in_by_contact_id
		WHERE c.contact_of <> s.user_id`).Scan(&ids))
	section("Sessions resolved by a foreign contact", len(ids))
	violations += listIds(ids)

	// 7. Every outgoing message should have at least one delivery receipt
	mustScan(db.Raw(`
		SELECT m.id FROM message_logs m
		WHERE m.direction = 'outgoing'
		AND NOT EXISTS (SELECT 1 FROM delivery_receipts r WHERE r.message_log_id = m.id)`).Scan(&ids))
	section("Outgoing messages without a delivery receipt", len(ids))
	violations += listIds(ids)

	log.Println(strings.Repeat("─", 50))
	if violations > 0 {
		color.Red("❌ Found %d integrity violations", violations)
		os.Exit(1)
	}
	color.Green("✅ No integrity violations found")
}

func section(title string, n int) {
	log.Println(strings.Repeat("─", 50))
	log.Printf("%s: %d", title, n)
}

func listIds(ids []uint) int {
	for _, id := range ids {
		log.Printf("    session/message %d", id)
	}
	return len(ids)
}

func mustScan(tx *gorm.DB) {
	if tx.Error != nil {
		log.Fatal("Query failed:", tx.Error)
	}
}

func openDatabase() (*gorm.DB, error) {
	if os.Getenv("DB_DRIVER") == "sqlite" {
		path := os.Getenv("DB_SQLITE_PATH")
		if path == "" {
			path = "workalone.db"
		}
		return database.NewSqliteDB(path)
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}
	return database.NewGormDBFromDSN(dsn)
}
