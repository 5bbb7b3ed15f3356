package usecase

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"travelscan-service/internal/domain/entity"
	"travelscan-service/pkg/dates"
)

// utf8BOM makes spreadsheet tools detect the encoding of the CSV export
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ExportHeader is the fixed column order of passenger exports
var ExportHeader = []string{
	"Name",
	"Passport Number",
	"Date of Birth",
	"Nationality",
	"Passport Issue Date",
	"Passport Expiry Date",
	"Visa Type",
	"Flight Number",
	"Booking Reference",
	"Ticket Number",
	"Departure",
	"Arrival",
	"Transit Stop",
	"Seat Number",
	"Inflight Meal",
}

// Exporter serializes consolidated passenger lists for download
type Exporter struct {
	formatter *dates.Formatter
}

// NewExporter creates an exporter using the given date formatter
func NewExporter(formatter *dates.Formatter) *Exporter {
	return &Exporter{formatter: formatter}
}

// row renders one passenger in export column order. Date columns are
// normalized to the canonical layout.
func (e *Exporter) row(p entity.PassengerRecord) []string {
	return []string{
		p.Name,
		p.PassportNumber,
		e.formatter.Format(p.DateOfBirth),
		p.Nationality,
		e.formatter.Format(p.PassportIssueDate),
		e.formatter.Format(p.ExpiryDate),
		p.VisaType,
		p.FlightNumber,
		p.BookingReference,
		p.TicketNumber,
		p.Departure,
		p.Arrival,
		p.TransitStop,
		p.SeatNumber,
		p.InflightMeal,
	}
}

// dateColumns are the indexes of row() entries holding dates
var dateColumns = map[int]bool{2: true, 4: true, 5: true}

// WriteCSV writes the passenger list as UTF-8 CSV with a BOM prefix.
// Date cells are wrapped in an ="" literal marker so spreadsheet tools do
// not rewrite them into their own date format.
func (e *Exporter) WriteCSV(w io.Writer, passengers []entity.PassengerRecord) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return fmt.Errorf("failed to write BOM: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(ExportHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, p := range passengers {
		row := e.row(p)
		for i := range row {
			if dateColumns[i] && row[i] != "" {
				row[i] = fmt.Sprintf("=%q", row[i])
			}
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteXLSX writes the passenger list as an XLSX workbook. Date cells go in
// as plain strings, which spreadsheet tools leave alone, so no literal
// marker is needed here.
func (e *Exporter) WriteXLSX(w io.Writer, passengers []entity.PassengerRecord) error {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	for i, h := range ExportHeader {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return fmt.Errorf("failed to set header cell: %w", err)
		}
	}

	for rowIdx, p := range passengers {
		for colIdx, value := range e.row(p) {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err := f.SetCellStr(sheet, cell, value); err != nil {
				return fmt.Errorf("failed to set cell: %w", err)
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return f.Close()
}
