// Package export renders board-facing PDF documents: per-activity rosters
// and the activities listing.
package export

import (
	"bytes"
	"fmt"
	"time"

	"asociacion-app-go/internal/domain/activity"
	"asociacion-app-go/internal/domain/enrollment"
	"github.com/go-pdf/fpdf"
)

type RosterPDF struct {
	title string
	now   func() time.Time
}

func NewRosterPDF(associationName string) *RosterPDF {
	return &RosterPDF{title: associationName, now: time.Now}
}

// Roster renders the attendee list for one activity, with a checkbox-style
// attendance column the board can mark on paper.
func (p *RosterPDF) Roster(a activity.Activity, entries []enrollment.RosterEntry) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(tr(a.Name), false)
	pdf.AddPage()

	p.header(pdf, tr)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 8, tr(a.Name), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, tr(fmt.Sprintf("Fecha: %s    Aforo: %d    Inscritos: %d",
		a.ScheduledAt.Format("02/01/2006 15:04"), a.Capacity, len(entries))), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(12, 7, "#", "1", 0, "C", true, 0, "")
	pdf.CellFormat(90, 7, tr("Inscrito"), "1", 0, "L", true, 0, "")
	pdf.CellFormat(60, 7, tr("Socio"), "1", 0, "L", true, 0, "")
	pdf.CellFormat(28, 7, tr("Asistencia"), "1", 1, "C", true, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for i, e := range entries {
		mark := ""
		if e.Attended {
			mark = "X"
		}
		pdf.CellFormat(12, 7, fmt.Sprintf("%d", i+1), "1", 0, "C", false, 0, "")
		pdf.CellFormat(90, 7, tr(e.AttendeeName), "1", 0, "L", false, 0, "")
		pdf.CellFormat(60, 7, tr(e.MemberName), "1", 0, "L", false, 0, "")
		pdf.CellFormat(28, 7, mark, "1", 1, "C", false, 0, "")
	}

	return render(pdf)
}

// Activities renders the full activities listing with derived occupancy.
func (p *RosterPDF) Activities(list []activity.WithOccupancy) ([]byte, error) {
	pdf := fpdf.New("L", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(tr("Actividades"), false)
	pdf.AddPage()

	p.header(pdf, tr)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 8, tr("Listado de actividades"), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(95, 7, tr("Actividad"), "1", 0, "L", true, 0, "")
	pdf.CellFormat(40, 7, tr("Fecha"), "1", 0, "L", true, 0, "")
	pdf.CellFormat(25, 7, tr("Aforo"), "1", 0, "C", true, 0, "")
	pdf.CellFormat(25, 7, tr("Inscritos"), "1", 0, "C", true, 0, "")
	pdf.CellFormat(25, 7, tr("Libres"), "1", 0, "C", true, 0, "")
	pdf.CellFormat(45, 7, tr("Edades"), "1", 1, "C", true, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for _, a := range list {
		pdf.CellFormat(95, 7, tr(a.Name), "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 7, a.ScheduledAt.Format("02/01/2006 15:04"), "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 7, fmt.Sprintf("%d", a.Capacity), "1", 0, "C", false, 0, "")
		pdf.CellFormat(25, 7, fmt.Sprintf("%d", a.Occupancy), "1", 0, "C", false, 0, "")
		pdf.CellFormat(25, 7, fmt.Sprintf("%d", a.Available), "1", 0, "C", false, 0, "")
		pdf.CellFormat(45, 7, tr(ageBand(a.MinAge, a.MaxAge)), "1", 1, "C", false, 0, "")
	}

	return render(pdf)
}

func (p *RosterPDF) header(pdf *fpdf.Fpdf, tr func(string) string) {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, tr(p.title), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(0, 5, tr("Generado el "+p.now().Format("02/01/2006 15:04")), "", 1, "C", false, 0, "")
	pdf.Ln(4)
}

func ageBand(minAge, maxAge *int) string {
	switch {
	case minAge != nil && maxAge != nil:
		return fmt.Sprintf("%d-%d años", *minAge, *maxAge)
	case minAge != nil:
		return fmt.Sprintf("desde %d años", *minAge)
	case maxAge != nil:
		return fmt.Sprintf("hasta %d años", *maxAge)
	default:
		return "todas"
	}
}

func render(pdf *fpdf.Fpdf) ([]byte, error) {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
