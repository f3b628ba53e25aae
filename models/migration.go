package models

import (
	"log"

	"bitbucket.org/tallyworks/counts_backend/config"
)

// MigrateTable creates/updates the schema. Idempotent: safe to run before
// every load (the aggregate-store contract assumes "create if missing" ran).
func MigrateTable() {
	db := config.GetDB()

	err := db.AutoMigrate(
		&TagLine{}, &TagAggregate{}, &DuplicateTag{},
		&Employee{}, &Zone{},
		&CorrectionEntry{}, &CorrectionResult{},
		&EmployeeSnapshot{}, &ZoneSnapshot{},
		&EmployeeSeasonTotal{}, &ZoneSeasonTotal{},
		&CountLoad{},
		&Operator{},
	)
	if err != nil {
		log.Fatal(err)
	}
}
