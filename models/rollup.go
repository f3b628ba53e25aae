package models

import "github.com/shopspring/decimal"

// Rollup is a quantity/price pair produced by either totaling path (bulk
// tag-aggregate read or line-level sum).
type Rollup struct {
	Quantity decimal.Decimal `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

func (r Rollup) Add(o Rollup) Rollup {
	return Rollup{
		Quantity: r.Quantity.Add(o.Quantity),
		Price:    r.Price.Add(o.Price),
	}
}

// ZoneRollup is the range-based zone rollup: distinct tag count plus totals.
type ZoneRollup struct {
	Tags     int             `json:"tags"`
	Quantity decimal.Decimal `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}
