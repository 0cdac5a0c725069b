package reports

import (
	"bytes"
	"context"
	"fmt"
	"strconv"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
)

type Service struct {
	Store *Store
}

func NewService(store *Store) *Service {
	return &Service{Store: store}
}

func (s *Service) Roster(ctx context.Context, eventID string) (*Roster, error) {
	return s.Store.Roster(ctx, eventID)
}

// BuildPDF renders the roster as a printable attendance sheet.
func BuildPDF(roster *Roster) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Attendance Sheet")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Event: %s", roster.EventName))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Date: %s  Window: %s - %s", roster.EventDate.Format("2006-01-02"), roster.StartTime, roster.EndTime))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Location: %s", roster.Address))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(10, 8, "#", "1", 0, "", false, 0, "")
	pdf.CellFormat(50, 8, "Name", "1", 0, "", false, 0, "")
	pdf.CellFormat(55, 8, "Email", "1", 0, "", false, 0, "")
	pdf.CellFormat(40, 8, "Department", "1", 0, "", false, 0, "")
	pdf.CellFormat(35, 8, "Marked At", "1", 0, "", false, 0, "")
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for i, row := range roster.Rows {
		pdf.CellFormat(10, 7, strconv.Itoa(i+1), "1", 0, "", false, 0, "")
		pdf.CellFormat(50, 7, row.Name, "1", 0, "", false, 0, "")
		pdf.CellFormat(55, 7, row.Email, "1", 0, "", false, 0, "")
		pdf.CellFormat(40, 7, row.Department, "1", 0, "", false, 0, "")
		pdf.CellFormat(35, 7, row.MarkedAt.Format("15:04:05"), "1", 0, "", false, 0, "")
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BuildXLSX renders the roster as a spreadsheet.
func BuildXLSX(roster *Roster) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Sheet1"
	headers := []string{"#", "Name", "Email", "Designation", "Department", "Marked At"}
	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, err
		}
	}

	for i, row := range roster.Rows {
		values := []any{i + 1, row.Name, row.Email, row.Designation, row.Department, row.MarkedAt.Format("2006-01-02 15:04:05")}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
