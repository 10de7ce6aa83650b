package payslip

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// buildRegisterWorkbook renders the monthly payslip register as an xlsx
// workbook: one header row, one row per slip.
func buildRegisterWorkbook(month, year int, rows []RegisterRow) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := fmt.Sprintf("Register %04d-%02d", year, month)
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{"Payslip Number", "Employee Number", "Employee Name", "Gross Salary", "Total Deductions", "Net Salary"}
	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			return nil, err
		}
	}

	for i, r := range rows {
		row := i + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), r.PayslipNumber)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), r.EmployeeNumber)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), r.EmployeeName)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), r.GrossSalary)
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), r.TotalDeduction)
		f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), r.NetSalary)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
