package main

import (
	"log"
	"os"

	"workalone-be/internal/model"
	"workalone-be/pkg/database"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

func main() {
	// 1. Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	// 2. Connect to Database using existing GORM helpers
	db, err := openDatabase()
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	color.Cyan("Starting GORM Migration...")

	// 3. AutoMigrate All Models
	log.Println("Step 1: Running AutoMigrate...")

	models := []interface{}{
		&model.User{},
		&model.EscalationContact{},
		&model.Session{},
		&model.MessageLog{},
		&model.DeliveryReceipt{},
	}

	if err := db.AutoMigrate(models...); err != nil {
		log.Fatalf("Error: AutoMigrate failed: %v", err)
	}

	// 4. Post-Migration: constraints AutoMigrate doesn't express
	log.Println("Step 2: Creating partial indexes...")

	postMigrationSQL := []string{
		// One open session per user, enforced at the storage layer. The
		// engine serializes per user in memory, but a second instance
		// pointed at the same database must hit this wall.
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_sessions_one_open_per_user
		 ON sessions (user_id) WHERE status IN ('active', 'alert');`,
	}

	for _, sql := range postMigrationSQL {
		if err := db.Exec(sql).Error; err != nil {
			log.Printf("Warn: Failed to execute post-migration SQL: %v", err)
		}
	}

	color.Green("✅ Success: Database migration completed successfully via GORM.")
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
