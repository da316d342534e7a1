package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planea/back/internal/config"
	"github.com/planea/back/internal/platform/logger"
	"github.com/planea/back/internal/repositories"
	"github.com/planea/back/internal/services"
	"github.com/planea/back/internal/testutil"
	"github.com/planea/back/internal/utils"
)

const planReply = `{
  "unit": "Unidad 3: Números racionales",
  "achievementIndicator": "Compara fracciones",
  "conceptualContent": "Fracciones",
  "faithIntegration": {"objective": "Orden", "verse": "1 Corintios 14:40", "concept": "Orden"},
  "methodology": [{"phase": "Orientar", "title": "Pizza", "activities": ["Dividir"], "resources": [], "time": "90 min"}],
  "evaluation": {"qualitative": [], "quantitative": []},
  "resources": []
}`

func testApp(fake *testutil.FakeAI) *App {
	log := logger.NewNop()
	catalog := config.MustDefaultCatalog()
	plans := repositories.NewMemoryPlanRepository()
	deps := services.Dependencies{
		Gateway:        testutil.NewGateway(fake, "m"),
		Prompts:        utils.NewPromptLoader(""),
		Validator:      utils.NewValidator(catalog),
		Catalog:        catalog,
		Logger:         log,
		SchoolName:     "Colegio Betania",
		MaxUploadBytes: 1 << 20,
	}
	return &App{
		Catalog: catalog,
		Lessons: services.NewLessonService(deps, plans),
		Exports: services.NewExportService(plans, "Colegio Betania", log),
	}
}

func run(app *App, args ...string) (string, error) {
	cmd := NewRootCmd(app)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestPlanCommandExportsDocx(t *testing.T) {
	dir := t.TempDir()
	fake := &testutil.FakeAI{Replies: map[string]string{"m": planReply}}

	out, err := run(testApp(fake), "plan",
		"--subject", "Matemáticas", "--grade", "5to Grado", "--topic", "Fracciones", "--duration", "90 min",
		"--export", "docx", "--out", dir)
	require.NoError(t, err, out)

	assert.Contains(t, out, "Unidad 3: Números racionales")
	assert.Contains(t, out, "1. Orientar - Pizza (90 min)")

	matches, err := filepath.Glob(filepath.Join(dir, "Planificacion_Matemáticas_*.docx"))
	require.NoError(t, err)
	require.Len(t, matches, 1)
	data, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	assert.Equal(t, "PK", string(data[:2]))
}

func TestPlanCommandAttachesDocument(t *testing.T) {
	doc := filepath.Join(t.TempDir(), "libro.pdf")
	require.NoError(t, os.WriteFile(doc, []byte("%PDF-1.4"), 0o644))
	fake := &testutil.FakeAI{Replies: map[string]string{"m": planReply}}

	_, err := run(testApp(fake), "plan",
		"--subject", "Matemáticas", "--grade", "5to Grado", "--topic", "Fracciones", "--duration", "90 min",
		"--document", doc)
	require.NoError(t, err)

	parts := fake.Calls()[0].Contents[0].Parts
	require.Len(t, parts, 2)
	assert.Equal(t, "application/pdf", parts[1].File.MimeType)
	assert.Equal(t, []byte("%PDF-1.4"), parts[1].File.Data)
}

func TestPlanCommandErrors(t *testing.T) {
	_, err := run(testApp(&testutil.FakeAI{}), "plan", "--subject", "Matemáticas")
	assert.Error(t, err)

	_, err = run(testApp(&testutil.FakeAI{}), "plan",
		"--subject", "Matemáticas", "--grade", "5to Grado", "--topic", "Fracciones", "--duration", "90 min", "--export", "odt")
	assert.ErrorContains(t, err, "unknown export format")

	_, err = run(testApp(&testutil.FakeAI{Unconfigured: true}), "plan",
		"--subject", "Matemáticas", "--grade", "5to Grado", "--topic", "Fracciones", "--duration", "90 min")
	assert.ErrorContains(t, err, "clave de API")
}

func TestCatalogCommand(t *testing.T) {
	out, err := run(testApp(&testutil.FakeAI{}), "catalog")
	require.NoError(t, err)
	assert.Contains(t, out, "Matemáticas")
	assert.Contains(t, out, "5to Grado")
	assert.Contains(t, out, "Orientar")
}
