package cli

import (
	"encoding/base64"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/planea/back/internal/models"
	"github.com/planea/back/internal/services"
)

func newPlanCmd(app *App) *cobra.Command {
	var (
		req          models.LessonPlanRequest
		documentPath string
		format       string
		outDir       string
	)

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Generate a lesson plan",
		Example: `  planea plan --subject "Matemáticas" --grade "5to Grado" --topic "Fracciones" --duration "90 min" --export docx
  planea plan --subject "Ciencias Naturales" --grade "3er Grado" --topic "El agua" --duration "45 min" --document libro.pdf --section "Capítulo 4"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "" && format != services.FormatDocx && format != services.FormatPDF && format != services.FormatImagePrompts {
				return fmt.Errorf("unknown export format %q (docx, pdf, image-prompts)", format)
			}
			if documentPath != "" {
				att, err := readAttachment(documentPath)
				if err != nil {
					return err
				}
				req.Document = att
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Generando planificación: %s · %s · %s\n", req.Subject, req.Grade, req.Topic)
			plan, err := app.Lessons.GeneratePlan(cmd.Context(), req)
			if err != nil {
				return fmt.Errorf("%s: %w", services.UserMessage(err), err)
			}
			printPlan(out, plan)

			if format == "" {
				return nil
			}
			file, err := app.Exports.Export(plan, format)
			if err != nil {
				return err
			}
			path := filepath.Join(outDir, file.Filename)
			if err := os.WriteFile(path, file.Data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
			fmt.Fprintf(out, "\nArchivo guardado: %s\n", path)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&req.Subject, "subject", "", "Subject from the catalog")
	f.StringVar(&req.Grade, "grade", "", "Grade from the catalog")
	f.StringVar(&req.Topic, "topic", "", "Lesson topic")
	f.StringVar(&req.Duration, "duration", "", "Total lesson time, e.g. \"90 min\"")
	f.StringVar(&req.BiblicalFocus, "verse", "", "Optional biblical focus")
	f.StringVar(&req.SectionLocator, "section", "", "Section of the attached document to use")
	f.StringVar(&req.ContentFocus, "focus", "", "Optional content focus")
	f.StringVar(&req.Model, "model", "", "Primary model; fallbacks still apply")
	f.StringVar(&documentPath, "document", "", "Reference document (PDF or image)")
	f.StringVar(&format, "export", "", "Export format: docx, pdf or image-prompts")
	f.StringVar(&outDir, "out", ".", "Directory for the exported file")
	for _, name := range []string{"subject", "grade", "topic", "duration"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func readAttachment(path string) (*models.Attachment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	mimeType := mime.TypeByExtension(filepath.Ext(path))
	if mimeType == "" {
		mimeType = "application/pdf"
	}
	return &models.Attachment{
		Name:     filepath.Base(path),
		MimeType: mimeType,
		Data:     base64.StdEncoding.EncodeToString(data),
	}, nil
}

func printPlan(w io.Writer, plan *models.GeneratedLessonPlan) {
	fmt.Fprintf(w, "\n%s (modelo: %s, id: %s)\n", plan.Unit, plan.Model, plan.ID)
	fmt.Fprintf(w, "Indicador de logro: %s\n", plan.AchievementIndicator)
	fmt.Fprintf(w, "Versículo: %s\n", plan.FaithIntegration.Verse)
	fmt.Fprintln(w, "Secuencia:")
	for i, step := range plan.Methodology {
		fmt.Fprintf(w, "  %d. %s - %s (%s)\n", i+1, step.Phase, step.Title, step.Time)
	}
}
