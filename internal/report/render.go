// Package report renders the monthly payroll spreadsheet of a trainer.
package report

import (
	"fmt"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"
)

const (
	// ContentType is the media type of rendered reports.
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	// SheetName is the name of the single worksheet.
	SheetName = "Abrechnung"

	creator      = "volley-abrechnung"
	defaultSheet = "Sheet1"
)

type column struct {
	header string
	width  float64
}

var columns = []column{
	{"Datum", 18},
	{"Team", 24},
	{"Ort", 18},
	{"Stunden", 12},
	{"Notiz", 40},
	{"Freigabe", 12},
}

// Trainer is the trainer snapshot printed on a report.
type Trainer struct {
	Name        string
	Email       string
	RatePerHour float64
	IBAN        *string
}

// Session is one report row.
type Session struct {
	Date     time.Time
	TeamName string
	Hours    float64
	Note     *string
	Location *string
	Approved bool
}

// Input holds everything needed to render one trainer-month.
// Sessions are printed in the given order; Month is metadata only.
type Input struct {
	Trainer  Trainer
	Sessions []Session
	Month    string
}

// Totals returns the summed hours and the amount owed at rate.
func Totals(sessions []Session, rate float64) (hours, amount float64) {
	for _, s := range sessions {
		hours += s.Hours
	}
	return hours, hours * rate
}

// Renderer builds XLSX reports.
type Renderer struct {
	now func() time.Time
}

// NewRenderer creates a Renderer stamping documents with the current time.
func NewRenderer() *Renderer {
	return &Renderer{now: time.Now}
}

// Render builds the spreadsheet for in and returns the encoded workbook.
func (r *Renderer) Render(in Input) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(defaultSheet, SheetName); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if err := f.SetDocProps(&excelize.DocProperties{
		Creator: creator,
		Created: r.now().UTC().Format(time.RFC3339),
		Title:   "Abrechnung " + in.Month,
		Subject: in.Trainer.Name,
	}); err != nil {
		return nil, fmt.Errorf("set doc props: %w", err)
	}

	header := make([]interface{}, len(columns))
	for i, c := range columns {
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetColWidth(SheetName, name, name, c.width); err != nil {
			return nil, fmt.Errorf("set width %s: %w", name, err)
		}
		header[i] = c.header
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	row := 2
	for _, s := range in.Sessions {
		values := []interface{}{
			FormatDate(s.Date),
			s.TeamName,
			deref(s.Location),
			s.Hours,
			deref(s.Note),
			approvalLabel(s.Approved),
		}
		if err := f.SetSheetRow(SheetName, cell("A", row), &values); err != nil {
			return nil, fmt.Errorf("write row %d: %w", row, err)
		}
		row++
	}

	totalHours, totalAmount := Totals(in.Sessions, in.Trainer.RatePerHour)
	summary := []interface{}{
		"",
		"",
		"",
		totalHours,
		fmt.Sprintf("Gesamtsumme bei %s / Std.", FormatEuro(in.Trainer.RatePerHour)),
		FormatEuro(totalAmount),
	}
	if err := f.SetSheetRow(SheetName, cell("A", row), &summary); err != nil {
		return nil, fmt.Errorf("write summary: %w", err)
	}

	if err := applyStyles(f, row); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("encode workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func applyStyles(f *excelize.File, summaryRow int) error {
	border := []excelize.Border{
		{Type: "top", Color: "000000", Style: 1},
		{Type: "left", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
	}
	alignment := &excelize.Alignment{Horizontal: "left", Vertical: "center", WrapText: true}

	plain, err := f.NewStyle(&excelize.Style{Border: border, Alignment: alignment})
	if err != nil {
		return fmt.Errorf("create style: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Border: border, Alignment: alignment, Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create bold style: %w", err)
	}

	last := lastColumn()
	if err := f.SetCellStyle(SheetName, "A1", cell(last, summaryRow), plain); err != nil {
		return fmt.Errorf("style cells: %w", err)
	}
	for _, r := range []int{1, summaryRow} {
		if err := f.SetCellStyle(SheetName, cell("A", r), cell(last, r), bold); err != nil {
			return fmt.Errorf("style row %d: %w", r, err)
		}
	}
	return nil
}

func lastColumn() string {
	name, _ := excelize.ColumnNumberToName(len(columns))
	return name
}

func cell(col string, row int) string {
	return col + strconv.Itoa(row)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
