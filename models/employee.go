package models

// Employee is the per-event employee directory row from the counting source.
type Employee struct {
	StoreId    string `gorm:"primaryKey;size:32" json:"store_id"`
	EmployeeId string `gorm:"primaryKey;size:16" json:"employee_id"`
	Name       string `gorm:"size:100" json:"name"`
}
