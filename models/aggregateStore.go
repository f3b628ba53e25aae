package models

import (
	"context"
	"errors"

	"bitbucket.org/tallyworks/counts_backend/config"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormAggregateStore is the read/write adapter over the persisted aggregate
// tables (store snapshots + season totals). Gets return (nil, nil) for a
// missing row; Saves upsert on the primary key.
type GormAggregateStore struct {
	db *gorm.DB
}

func NewAggregateStore(db *gorm.DB) *GormAggregateStore {
	if db == nil {
		db = config.GetDB()
	}
	return &GormAggregateStore{db: db}
}

// Transact runs fn in one database transaction. The callback receives a
// store bound to the transaction so every read sees the state it will write
// against (read existing row, compute delta, write new row, atomically).
func (s *GormAggregateStore) Transact(ctx context.Context, fn func(AggregateStore) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormAggregateStore{db: tx})
	})
}

func (s *GormAggregateStore) EmployeeSnapshot(ctx context.Context, storeId string, employeeId string) (*EmployeeSnapshot, error) {
	var snap EmployeeSnapshot
	err := s.db.WithContext(ctx).
		Where("store_id = ? AND employee_id = ?", storeId, employeeId).
		First(&snap).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &snap, nil
}

func (s *GormAggregateStore) SaveEmployeeSnapshot(ctx context.Context, snap *EmployeeSnapshot) error {
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(snap).Error
}

func (s *GormAggregateStore) EmployeeSeason(ctx context.Context, employeeId string) (*EmployeeSeasonTotal, error) {
	var row EmployeeSeasonTotal
	err := s.db.WithContext(ctx).
		Where("employee_id = ?", employeeId).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (s *GormAggregateStore) SaveEmployeeSeason(ctx context.Context, row *EmployeeSeasonTotal) error {
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(row).Error
}

func (s *GormAggregateStore) ZoneSnapshot(ctx context.Context, storeId string, zoneId int) (*ZoneSnapshot, error) {
	var snap ZoneSnapshot
	err := s.db.WithContext(ctx).
		Where("store_id = ? AND zone_id = ?", storeId, zoneId).
		First(&snap).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &snap, nil
}

func (s *GormAggregateStore) SaveZoneSnapshot(ctx context.Context, snap *ZoneSnapshot) error {
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(snap).Error
}

func (s *GormAggregateStore) ZoneSeason(ctx context.Context, zoneId int) (*ZoneSeasonTotal, error) {
	var row ZoneSeasonTotal
	err := s.db.WithContext(ctx).
		Where("zone_id = ?", zoneId).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (s *GormAggregateStore) SaveZoneSeason(ctx context.Context, row *ZoneSeasonTotal) error {
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(row).Error
}
