package models

// Zone is a physical area/department within a store. Zone totals come from a
// tag-range rollup, not line attribution, so zones have no duplicate problem.
type Zone struct {
	StoreId string `gorm:"primaryKey;size:32" json:"store_id"`
	ZoneId  int    `gorm:"primaryKey" json:"zone_id"`
	Name    string `gorm:"size:100" json:"name"`
	TagFrom int    `json:"tag_from"`
	TagTo   int    `json:"tag_to"`
}
