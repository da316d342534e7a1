package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/planea/back/internal/models"
)

const (
	lineHeight = 5.5
	fontFamily = "Helvetica"
)

// pdfDoc wraps fpdf with a cp1252 translator so Spanish accents render with
// the core fonts.
type pdfDoc struct {
	*fpdf.Fpdf
	tr func(string) string
}

func newPDF(title string, info DocumentInfo) *pdfDoc {
	pdf := fpdf.New("P", "mm", "Letter", "")
	day := info.day()
	pdf.SetCreationDate(day)
	pdf.SetModificationDate(day)
	pdf.SetTitle(title, true)
	pdf.SetAuthor(info.SchoolName, true)
	pdf.SetMargins(18, 18, 18)
	pdf.SetAutoPageBreak(true, 18)
	pdf.AliasNbPages("")

	doc := &pdfDoc{Fpdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
	pdf.SetFooterFunc(func() {
		pdf.SetY(-14)
		pdf.SetFont(fontFamily, "I", 8)
		pdf.SetTextColor(120, 120, 120)
		pdf.CellFormat(0, 8, doc.tr(fmt.Sprintf("%s · Página %d/{nb}", info.SchoolName, pdf.PageNo())), "", 0, "C", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
	})
	pdf.AddPage()
	return doc
}

func (d *pdfDoc) title(text string) {
	d.SetFont(fontFamily, "B", 16)
	d.MultiCell(0, 8, d.tr(text), "", "C", false)
	d.Ln(3)
}

func (d *pdfDoc) heading(text string) {
	d.Ln(2)
	d.SetFont(fontFamily, "B", 12)
	d.SetFillColor(217, 226, 243)
	d.CellFormat(0, 7, d.tr(text), "", 1, "L", true, 0, "")
	d.Ln(1)
}

func (d *pdfDoc) text(text string) {
	if strings.TrimSpace(text) == "" {
		return
	}
	d.SetFont(fontFamily, "", 10)
	d.MultiCell(0, lineHeight, d.tr(strings.TrimSpace(text)), "", "L", false)
}

func (d *pdfDoc) labeled(label, text string) {
	d.SetFont(fontFamily, "B", 10)
	d.Write(lineHeight, d.tr(label+": "))
	d.SetFont(fontFamily, "", 10)
	d.Write(lineHeight, d.tr(text))
	d.Ln(lineHeight)
}

func (d *pdfDoc) bullets(items []string) {
	d.SetFont(fontFamily, "", 10)
	left, _, _, _ := d.GetMargins()
	for _, item := range items {
		d.SetX(left + 3)
		d.MultiCell(0, lineHeight, d.tr("• "+item), "", "L", false)
	}
}

func (d *pdfDoc) bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// LessonPlanPDF renders plan with the same section order as the docx.
func LessonPlanPDF(plan *models.GeneratedLessonPlan, info DocumentInfo) ([]byte, error) {
	d := newPDF("Planificación "+plan.Subject, info)
	d.title("PLANIFICACIÓN DIDÁCTICA")

	for _, row := range [][2]string{
		{"Centro educativo", info.SchoolName},
		{"Asignatura", plan.Subject},
		{"Grado", plan.Grade},
		{"Unidad", plan.Unit},
		{"Duración", plan.Duration},
		{"Fecha", info.day().Format("02/01/2006")},
	} {
		d.SetFont(fontFamily, "B", 10)
		d.CellFormat(45, 7, d.tr(row[0]), "1", 0, "L", false, 0, "")
		d.SetFont(fontFamily, "", 10)
		d.CellFormat(0, 7, d.tr(row[1]), "1", 1, "L", false, 0, "")
	}

	d.heading("Contenido conceptual")
	d.text(plan.ConceptualContent)
	d.heading("Indicador de logro")
	d.text(plan.AchievementIndicator)

	d.heading("Integración de la fe")
	d.labeled("Objetivo", plan.FaithIntegration.Objective)
	d.labeled("Versículo", plan.FaithIntegration.Verse)
	d.labeled("Concepto", plan.FaithIntegration.Concept)

	d.heading("Secuencia metodológica")
	for i, step := range plan.Methodology {
		d.SetFont(fontFamily, "B", 10)
		header := fmt.Sprintf("%d. %s", i+1, step.Phase)
		if step.Title != "" {
			header += " - " + step.Title
		}
		if step.Time != "" {
			header += " (" + step.Time + ")"
		}
		d.MultiCell(0, lineHeight, d.tr(header), "", "L", false)
		d.bullets(step.Activities)
		if len(step.Resources) > 0 {
			d.SetFont(fontFamily, "I", 9)
			d.MultiCell(0, lineHeight, d.tr("Recursos: "+strings.Join(step.Resources, ", ")), "", "L", false)
		}
		d.Ln(1)
	}

	d.heading("Evaluación")
	if len(plan.Evaluation.Qualitative) > 0 {
		d.labeled("Cualitativa", "")
		d.bullets(plan.Evaluation.Qualitative)
	}
	if len(plan.Evaluation.Quantitative) > 0 {
		d.labeled("Cuantitativa", "")
		d.bullets(plan.Evaluation.Quantitative)
	}

	if strings.TrimSpace(plan.TeacherGuide) != "" {
		d.heading("Guía para el docente")
		d.text(plan.TeacherGuide)
	}
	if strings.TrimSpace(plan.Homework) != "" {
		d.heading("Tarea")
		d.text(plan.Homework)
	}
	if len(plan.Resources) > 0 {
		d.heading("Recursos")
		d.bullets(plan.Resources)
	}
	return d.bytes()
}

// WorksheetPDF renders a printable student worksheet followed by the answer
// key on its own page.
func WorksheetPDF(ws *models.Worksheet, info DocumentInfo) ([]byte, error) {
	d := newPDF(ws.Title, info)
	d.title(ws.Title)

	d.SetFont(fontFamily, "", 10)
	d.CellFormat(120, 8, d.tr("Nombre: ____________________________________"), "", 0, "L", false, 0, "")
	d.CellFormat(0, 8, d.tr("Fecha: ______________"), "", 1, "L", false, 0, "")
	d.Ln(2)

	d.text(ws.Instructions)
	if ws.Verse != "" {
		d.SetFont(fontFamily, "I", 10)
		d.MultiCell(0, lineHeight, d.tr(ws.Verse), "", "C", false)
	}

	left, _, right, _ := d.GetMargins()
	pageW, _ := d.GetPageSize()
	n := 0
	for _, section := range ws.Sections {
		d.heading(section.Title)
		for _, ex := range section.Exercises {
			n++
			d.SetFont(fontFamily, "", 10)
			d.MultiCell(0, lineHeight, d.tr(fmt.Sprintf("%d. %s", n, ex.Prompt)), "", "L", false)
			for i, opt := range ex.Options {
				d.SetX(left + 6)
				d.MultiCell(0, lineHeight, d.tr(fmt.Sprintf("%c) %s", 'a'+i, opt)), "", "L", false)
			}
			for i := 0; i < ex.AnswerLines; i++ {
				d.Ln(6)
				y := d.GetY()
				d.SetDrawColor(160, 160, 160)
				d.Line(left+4, y, pageW-right, y)
			}
			d.Ln(3)
		}
	}

	if len(ws.AnswerKey) > 0 {
		d.AddPage()
		d.title("Clave de respuestas (docente)")
		for i, answer := range ws.AnswerKey {
			d.text(fmt.Sprintf("%d. %s", i+1, answer))
		}
	}
	return d.bytes()
}

// FlashcardsPDF lays cards out two per row, four rows per page, ready to
// cut along the borders.
func FlashcardsPDF(set *models.FlashcardSet, info DocumentInfo) ([]byte, error) {
	d := newPDF(set.Title, info)
	d.title(set.Title)

	const (
		cols    = 2
		rows    = 4
		cardH   = 52.0
		gap     = 4.0
		padding = 4.0
	)
	left, top, right, _ := d.GetMargins()
	pageW, _ := d.GetPageSize()
	cardW := (pageW - left - right - gap*(cols-1)) / cols
	startY := d.GetY()
	// Pages are broken by the grid, not by overflowing text.
	d.SetAutoPageBreak(false, 0)

	for i, card := range set.Cards {
		slot := i % (cols * rows)
		if i > 0 && slot == 0 {
			d.AddPage()
			startY = top
		}
		x := left + float64(slot%cols)*(cardW+gap)
		y := startY + float64(slot/cols)*(cardH+gap)

		d.SetDrawColor(90, 90, 90)
		d.SetDashPattern([]float64{1.5, 1.5}, 0)
		d.Rect(x, y, cardW, cardH, "D")
		d.SetDashPattern([]float64{}, 0)

		d.SetXY(x+padding, y+padding)
		d.SetFont(fontFamily, "B", 13)
		d.MultiCell(cardW-2*padding, 6, d.tr(card.Term), "", "C", false)
		d.SetX(x + padding)
		d.SetFont(fontFamily, "", 9.5)
		d.MultiCell(cardW-2*padding, 4.6, d.tr(card.Definition), "", "L", false)
		if card.Example != "" {
			d.SetX(x + padding)
			d.SetFont(fontFamily, "I", 9)
			d.MultiCell(cardW-2*padding, 4.4, d.tr("Ej.: "+card.Example), "", "L", false)
		}
	}
	return d.bytes()
}
