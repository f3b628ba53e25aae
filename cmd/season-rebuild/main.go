// season-rebuild recomputes the season total tables from store snapshots.
//
// Season rows are derived data: the merger keeps them in sync with snapshots
// delta by delta, but if a season row goes missing or drifts (manual edits,
// a crash between writes) the load endpoint refuses to merge and points here.
// This tool wipes employee_season_totals and zone_season_totals and rebuilds
// both from the snapshot tables inside one transaction.
//
// Usage (from backend directory):
//   DB_USER=... DB_PASSWORD=... DB_HOST=... DB_PORT=... DB_NAME=... go run ./cmd/season-rebuild
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"bitbucket.org/tallyworks/counts_backend/config"
	"bitbucket.org/tallyworks/counts_backend/models"
	"bitbucket.org/tallyworks/counts_backend/models/reports"
	"gorm.io/gorm"
)

func main() {
	dryRun := flag.Bool("dry-run", false, "Print the row counts that would be rebuilt and exit without writing.")
	flag.Parse()

	ctx := context.Background()
	config.ConnectDatabaseWithRetry()
	db := config.GetDB()
	if db == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil)")
		os.Exit(1)
	}
	models.MigrateTable()

	if *dryRun {
		var employees, zones int64
		if err := db.WithContext(ctx).Model(&models.EmployeeSnapshot{}).
			Distinct("employee_id").Count(&employees).Error; err != nil {
			fmt.Fprintf(os.Stderr, "failed to count employee snapshots: %v\n", err)
			os.Exit(1)
		}
		if err := db.WithContext(ctx).Model(&models.ZoneSnapshot{}).
			Distinct("zone_id").Count(&zones).Error; err != nil {
			fmt.Fprintf(os.Stderr, "failed to count zone snapshots: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("would rebuild %d employee season rows and %d zone season rows\n", employees, zones)
		return
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(`DELETE FROM employee_season_totals`).Error; err != nil {
			return err
		}
		if err := tx.Exec(`
			INSERT INTO employee_season_totals
				(employee_id, name, total_tags, total_quantity, total_price,
				 discrepancy_dollars, discrepancy_tags, hours, store_count,
				 created_at, updated_at)
			SELECT
				es.employee_id,
				SUBSTRING_INDEX(GROUP_CONCAT(es.name ORDER BY es.count_date DESC SEPARATOR 0x1f), 0x1f, 1),
				COALESCE(SUM(es.total_tags), 0),
				COALESCE(SUM(es.total_quantity), 0),
				COALESCE(SUM(es.total_price), 0),
				COALESCE(SUM(es.discrepancy_dollars), 0),
				COALESCE(SUM(es.discrepancy_tags), 0),
				COALESCE(SUM(es.hours), 0),
				COUNT(DISTINCT es.store_id),
				NOW(),
				NOW()
			FROM employee_snapshots es
			GROUP BY es.employee_id
		`).Error; err != nil {
			return err
		}

		if err := tx.Exec(`DELETE FROM zone_season_totals`).Error; err != nil {
			return err
		}
		return tx.Exec(`
			INSERT INTO zone_season_totals
				(zone_id, name, total_tags, total_quantity, total_price,
				 discrepancy_dollars, discrepancy_tags, store_count,
				 created_at, updated_at)
			SELECT
				zs.zone_id,
				SUBSTRING_INDEX(GROUP_CONCAT(zs.name ORDER BY zs.count_date DESC SEPARATOR 0x1f), 0x1f, 1),
				COALESCE(SUM(zs.total_tags), 0),
				COALESCE(SUM(zs.total_quantity), 0),
				COALESCE(SUM(zs.total_price), 0),
				COALESCE(SUM(zs.discrepancy_dollars), 0),
				COALESCE(SUM(zs.discrepancy_tags), 0),
				COUNT(DISTINCT zs.store_id),
				NOW(),
				NOW()
			FROM zone_snapshots zs
			GROUP BY zs.zone_id
		`).Error
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "rebuild failed (season tables unchanged): %v\n", err)
		os.Exit(1)
	}

	var employees, zones int64
	db.WithContext(ctx).Model(&models.EmployeeSeasonTotal{}).Count(&employees)
	db.WithContext(ctx).Model(&models.ZoneSeasonTotal{}).Count(&zones)
	fmt.Printf("rebuilt %d employee season rows and %d zone season rows\n", employees, zones)

	if strings.TrimSpace(os.Getenv("REDIS_ADDRESS")) != "" {
		config.ConnectRedisWithRetry()
		reports.InvalidateSeasonCache()
	}
}
