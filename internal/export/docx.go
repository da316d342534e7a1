package export

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"github.com/planea/back/internal/models"
)

const (
	ContentTypeDocx = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	ContentTypePDF  = "application/pdf"
	ContentTypeText = "text/plain; charset=utf-8"
)

// DocumentInfo is the context printed on every exported document.
type DocumentInfo struct {
	SchoolName string
	Date       time.Time
}

func (i DocumentInfo) day() time.Time {
	d := i.Date
	if d.IsZero() {
		d = time.Now()
	}
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, d.Location())
}

// Filename builds "<prefix>_<Subject>_<YYYY-MM-DD>.<ext>".
func Filename(prefix, subject string, date time.Time, ext string) string {
	return fmt.Sprintf("%s_%s_%s.%s", prefix, safeName(subject), date.Format("2006-01-02"), ext)
}

func safeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "General"
	}
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t':
			return '_'
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return -1
		}
		return r
	}, s)
}

// LessonPlanDocx renders plan as a Word document. Output is byte-identical
// for identical input and date.
func LessonPlanDocx(plan *models.GeneratedLessonPlan, info DocumentInfo) ([]byte, error) {
	day := info.day()
	d := &docxBody{}

	d.title("PLANIFICACIÓN DIDÁCTICA")
	d.table([]int{2600, 6760}, []bool{true, false}, [][][]string{
		{{"Centro educativo"}, {info.SchoolName}},
		{{"Asignatura"}, {plan.Subject}},
		{{"Grado"}, {plan.Grade}},
		{{"Unidad"}, {plan.Unit}},
		{{"Duración"}, {plan.Duration}},
		{{"Fecha"}, {day.Format("02/01/2006")}},
	})

	d.heading("Contenido conceptual")
	d.text(plan.ConceptualContent)

	d.heading("Indicador de logro")
	d.text(plan.AchievementIndicator)

	d.heading("Integración de la fe")
	d.labeled("Objetivo", plan.FaithIntegration.Objective)
	d.labeled("Versículo", plan.FaithIntegration.Verse)
	d.labeled("Concepto", plan.FaithIntegration.Concept)

	d.heading("Secuencia metodológica")
	rows := [][][]string{{{"Momento"}, {"Actividades"}, {"Recursos"}, {"Tiempo"}}}
	for _, step := range plan.Methodology {
		phase := []string{step.Phase}
		if step.Title != "" {
			phase = append(phase, step.Title)
		}
		rows = append(rows, [][]string{phase, bulletLines(step.Activities), bulletLines(step.Resources), {step.Time}})
	}
	d.headedTable([]int{2000, 4160, 2200, 1000}, rows)

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

	return packDocx(d.String(), "Planificación "+plan.Subject, day)
}

func bulletLines(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, "• "+item)
	}
	return out
}

// docxBody accumulates WordprocessingML body content.
type docxBody struct {
	strings.Builder
}

func escape(s string) string {
	var b bytes.Buffer
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}

// run emits one run; newlines become line breaks.
func run(text string, bold bool, size int) string {
	var b strings.Builder
	b.WriteString("<w:r>")
	if bold || size > 0 {
		b.WriteString("<w:rPr>")
		if bold {
			b.WriteString("<w:b/>")
		}
		if size > 0 {
			fmt.Fprintf(&b, `<w:sz w:val="%d"/>`, size)
		}
		b.WriteString("</w:rPr>")
	}
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			b.WriteString("<w:br/>")
		}
		fmt.Fprintf(&b, `<w:t xml:space="preserve">%s</w:t>`, escape(line))
	}
	b.WriteString("</w:r>")
	return b.String()
}

func paragraph(align string, spacingAfter int, runs ...string) string {
	var b strings.Builder
	b.WriteString("<w:p><w:pPr>")
	fmt.Fprintf(&b, `<w:spacing w:after="%d"/>`, spacingAfter)
	if align != "" {
		fmt.Fprintf(&b, `<w:jc w:val="%s"/>`, align)
	}
	b.WriteString("</w:pPr>")
	for _, r := range runs {
		b.WriteString(r)
	}
	b.WriteString("</w:p>")
	return b.String()
}

func (d *docxBody) title(text string) {
	d.WriteString(paragraph("center", 240, run(text, true, 32)))
}

func (d *docxBody) heading(text string) {
	d.WriteString(paragraph("", 80, run(text, true, 26)))
}

func (d *docxBody) text(text string) {
	d.WriteString(paragraph("", 160, run(strings.TrimSpace(text), false, 0)))
}

func (d *docxBody) labeled(label, text string) {
	if strings.TrimSpace(text) == "" {
		d.WriteString(paragraph("", 60, run(label+":", true, 0)))
		return
	}
	d.WriteString(paragraph("", 60, run(label+": ", true, 0), run(text, false, 0)))
}

func (d *docxBody) bullets(items []string) {
	for _, item := range items {
		d.WriteString(paragraph("", 40, run("• "+item, false, 0)))
	}
}

// table writes rows of cells; each cell is a list of paragraphs. boldCols
// marks label columns.
func (d *docxBody) table(widths []int, boldCols []bool, rows [][][]string) {
	d.writeTable(widths, rows, func(row, col int) (bool, string) {
		return col < len(boldCols) && boldCols[col], ""
	})
}

// headedTable shades and bolds the first row.
func (d *docxBody) headedTable(widths []int, rows [][][]string) {
	d.writeTable(widths, rows, func(row, col int) (bool, string) {
		if row == 0 {
			return true, "D9E2F3"
		}
		return false, ""
	})
}

func (d *docxBody) writeTable(widths []int, rows [][][]string, style func(row, col int) (bool, string)) {
	d.WriteString(`<w:tbl><w:tblPr><w:tblW w:w="5000" w:type="pct"/><w:tblBorders>`)
	for _, side := range []string{"top", "left", "bottom", "right", "insideH", "insideV"} {
		fmt.Fprintf(d, `<w:%s w:val="single" w:sz="4" w:space="0" w:color="808080"/>`, side)
	}
	d.WriteString(`</w:tblBorders></w:tblPr><w:tblGrid>`)
	for _, w := range widths {
		fmt.Fprintf(d, `<w:gridCol w:w="%d"/>`, w)
	}
	d.WriteString(`</w:tblGrid>`)

	for r, row := range rows {
		d.WriteString("<w:tr>")
		for c, cell := range row {
			bold, fill := style(r, c)
			d.WriteString("<w:tc><w:tcPr>")
			if c < len(widths) {
				fmt.Fprintf(d, `<w:tcW w:w="%d" w:type="dxa"/>`, widths[c])
			}
			if fill != "" {
				fmt.Fprintf(d, `<w:shd w:val="clear" w:color="auto" w:fill="%s"/>`, fill)
			}
			d.WriteString("</w:tcPr>")
			if len(cell) == 0 {
				cell = []string{""}
			}
			for _, line := range cell {
				d.WriteString(paragraph("", 0, run(line, bold, 0)))
			}
			d.WriteString("</w:tc>")
		}
		d.WriteString("</w:tr>")
	}
	d.WriteString("</w:tbl>")
	d.WriteString(paragraph("", 120))
}

const contentTypesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
	`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>` +
	`<Default Extension="xml" ContentType="application/xml"/>` +
	`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>` +
	`<Override PartName="/docProps/core.xml" ContentType="application/vnd.openxmlformats-package.core-properties+xml"/>` +
	`</Types>`

const rootRelsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
	`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>` +
	`<Relationship Id="rId2" Type="http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties" Target="docProps/core.xml"/>` +
	`</Relationships>`

func documentXML(body string) string {
	return `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
		body +
		`<w:sectPr><w:pgSz w:w="12240" w:h="15840"/><w:pgMar w:top="1134" w:right="1134" w:bottom="1134" w:left="1134" w:header="708" w:footer="708" w:gutter="0"/></w:sectPr>` +
		`</w:body></w:document>`
}

func coreXML(title string, day time.Time) string {
	stamp := day.UTC().Format("2006-01-02T15:04:05Z")
	return `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties" xmlns:dc="http://purl.org/dc/elements/1.1/" xmlns:dcterms="http://purl.org/dc/terms/" xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">` +
		`<dc:title>` + escape(title) + `</dc:title>` +
		`<dcterms:created xsi:type="dcterms:W3CDTF">` + stamp + `</dcterms:created>` +
		`<dcterms:modified xsi:type="dcterms:W3CDTF">` + stamp + `</dcterms:modified>` +
		`</cp:coreProperties>`
}

// packDocx zips the package parts in a fixed order with fixed timestamps.
func packDocx(body, title string, day time.Time) ([]byte, error) {
	parts := []struct{ name, content string }{
		{"[Content_Types].xml", contentTypesXML},
		{"_rels/.rels", rootRelsXML},
		{"docProps/core.xml", coreXML(title, day)},
		{"word/document.xml", documentXML(body)},
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, p := range parts {
		w, err := zw.CreateHeader(&zip.FileHeader{Name: p.name, Method: zip.Deflate, Modified: day})
		if err != nil {
			return nil, fmt.Errorf("create %s: %w", p.name, err)
		}
		if _, err := w.Write([]byte(p.content)); err != nil {
			return nil, fmt.Errorf("write %s: %w", p.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("close docx: %w", err)
	}
	return buf.Bytes(), nil
}
