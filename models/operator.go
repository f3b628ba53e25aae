package models

import "time"

// Operator is a console user allowed to trigger loads and read reports.
type Operator struct {
	Id       int    `gorm:"primaryKey;autoIncrement" json:"id"`
	Username string `gorm:"size:50;uniqueIndex" json:"username"`
	Name     string `gorm:"size:100" json:"name"`
	Password string `gorm:"size:100" json:"-"`
	IsActive bool   `gorm:"default:true" json:"is_active"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
