package export

import (
	"fmt"
	"strings"

	"github.com/planea/back/internal/models"
)

// ImagePromptsText renders the plan's image prompts as a numbered list for
// pasting into an image generator.
func ImagePromptsText(plan *models.GeneratedLessonPlan, info DocumentInfo) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "Prompts de imágenes - %s - %s\n", plan.Subject, firstNonEmpty(plan.Topic, plan.Unit))
	fmt.Fprintf(&b, "%s · %s\n", plan.Grade, info.day().Format("2006-01-02"))
	b.WriteString(strings.Repeat("=", 40) + "\n\n")
	for i, prompt := range plan.ImagePrompts {
		fmt.Fprintf(&b, "%d. %s\n\n", i+1, strings.TrimSpace(prompt))
	}
	return []byte(b.String())
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
