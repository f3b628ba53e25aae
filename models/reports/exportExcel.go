package reports

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// ExportEmployeeSeasonExcel renders the employee season report as a
// spreadsheet. The caller streams the file (HTTP attachment).
func ExportEmployeeSeasonExcel(ctx context.Context) (*excelize.File, error) {
	data, err := GetEmployeeSeasonReport(ctx, nil, nil)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	const sheet = "Sheet1"
	if _, err := f.NewSheet(sheet); err != nil {
		return nil, err
	}

	headers := []string{"Employee", "Name", "Stores", "Tags", "Quantity", "Price",
		"Discrepancy $", "Discrepancy Tags", "Discrepancy %", "Hours", "UPH"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for i, d := range data {
		row := i + 2
		f.SetCellValue(sheet, "A"+fmt.Sprint(row), d.EmployeeId)
		f.SetCellValue(sheet, "B"+fmt.Sprint(row), d.Name)
		f.SetCellValue(sheet, "C"+fmt.Sprint(row), d.StoreCount)
		f.SetCellValue(sheet, "D"+fmt.Sprint(row), d.TotalTags)
		f.SetCellValue(sheet, "E"+fmt.Sprint(row), d.TotalQuantity.String())
		f.SetCellValue(sheet, "F"+fmt.Sprint(row), d.TotalPrice.String())
		f.SetCellValue(sheet, "G"+fmt.Sprint(row), d.DiscrepancyDollars.String())
		f.SetCellValue(sheet, "H"+fmt.Sprint(row), d.DiscrepancyTags)
		f.SetCellValue(sheet, "I"+fmt.Sprint(row), d.DiscrepancyPercent.StringFixed(2))
		f.SetCellValue(sheet, "J"+fmt.Sprint(row), d.Hours.String())
		f.SetCellValue(sheet, "K"+fmt.Sprint(row), d.UnitsPerHour.StringFixed(1))
	}

	return f, nil
}

// ExportZoneSeasonExcel renders the zone season report.
func ExportZoneSeasonExcel(ctx context.Context) (*excelize.File, error) {
	data, err := GetZoneSeasonReport(ctx, nil, nil)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	const sheet = "Sheet1"
	if _, err := f.NewSheet(sheet); err != nil {
		return nil, err
	}

	headers := []string{"Zone", "Name", "Stores", "Tags", "Quantity", "Price",
		"Discrepancy $", "Discrepancy Tags", "Discrepancy %"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for i, d := range data {
		row := i + 2
		f.SetCellValue(sheet, "A"+fmt.Sprint(row), d.ZoneId)
		f.SetCellValue(sheet, "B"+fmt.Sprint(row), d.Name)
		f.SetCellValue(sheet, "C"+fmt.Sprint(row), d.StoreCount)
		f.SetCellValue(sheet, "D"+fmt.Sprint(row), d.TotalTags)
		f.SetCellValue(sheet, "E"+fmt.Sprint(row), d.TotalQuantity.String())
		f.SetCellValue(sheet, "F"+fmt.Sprint(row), d.TotalPrice.String())
		f.SetCellValue(sheet, "G"+fmt.Sprint(row), d.DiscrepancyDollars.String())
		f.SetCellValue(sheet, "H"+fmt.Sprint(row), d.DiscrepancyTags)
		f.SetCellValue(sheet, "I"+fmt.Sprint(row), d.DiscrepancyPercent.StringFixed(2))
	}

	return f, nil
}
