package models

import "time"

// CountLoad records one load action per store for operational visibility.
type CountLoad struct {
	Id            int        `gorm:"primaryKey;autoIncrement" json:"id"`
	StoreId       string     `gorm:"size:32;index" json:"store_id"`
	CorrelationId string     `gorm:"size:64" json:"correlation_id"`
	OperatorId    int        `json:"operator_id"`
	OperatorName  string     `gorm:"size:100" json:"operator_name"`
	Status        LoadStatus `gorm:"size:20" json:"status"`
	Message       string     `gorm:"size:255" json:"message"`
	StartedAt     time.Time  `json:"started_at"`
	FinishedAt    *time.Time `json:"finished_at"`
}
