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

// Demo fixtures: two monitored workers plus a third whose guardian also
// guards the first. The shared guardian is what exercises the RESOLVE
// disambiguation path.
func main() {
	// Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	db, err := openDatabase()
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	color.Cyan("Seeding demo users and escalation contacts...")

	users := []struct {
		user     model.User
		contacts []model.EscalationContact
	}{
		{
			user: model.User{
				PhoneNumber:   "+15550100001",
				FirstName:     "Dana",
				LastName:      "Whitfield",
				DelayInterval: 30,
			},
			contacts: []model.EscalationContact{
				{FirstName: "Priya", LastName: "Nair", PhoneNumber: "+15550200001"},
				{FirstName: "Marcus", LastName: "Bell", PhoneNumber: "+15550200002"},
			},
		},
		{
			user: model.User{
				PhoneNumber:   "+15550100002",
				FirstName:     "Tomas",
				LastName:      "Herrera",
				DelayInterval: 45,
			},
			contacts: []model.EscalationContact{
				{FirstName: "Ingrid", LastName: "Sol", PhoneNumber: "+15550200003"},
			},
		},
		{
			user: model.User{
				PhoneNumber:   "+15550100003",
				FirstName:     "Aiko",
				LastName:      "Tanaka",
				DelayInterval: 60,
			},
			contacts: []model.EscalationContact{
				// Same guardian as Dana's first contact.
				{FirstName: "Priya", LastName: "Nair", PhoneNumber: "+15550200001"},
			},
		},
	}

	for _, u := range users {
		var existing model.User
		if err := db.Where("phone_number = ?", u.user.PhoneNumber).First(&existing).Error; err == nil {
			log.Printf("User '%s' already exists, skipping...", u.user.PhoneNumber)
			continue
		}

		record := u.user
		record.Contacts = u.contacts
		if err := db.Create(&record).Error; err != nil {
			log.Printf("Error creating user '%s': %v", record.PhoneNumber, err)
			continue
		}
		log.Printf("Created user: %s %s (%s) with %d contact(s)",
			record.FirstName, record.LastName, record.PhoneNumber, len(record.Contacts))
	}

	color.Green("✅ Seeding completed!")
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
