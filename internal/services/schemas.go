package services

import (
	c "github.com/planea/back/internal/clients"
)

func lessonPlanSchema(phases []string) *c.Schema {
	phase := c.String("Fase metodológica")
	if len(phases) > 0 {
		phase = c.Enum("Fase metodológica", phases...)
	}
	return c.Object(
		c.Prop("unit", c.String("Unidad o bloque temático")),
		c.Prop("achievementIndicator", c.String("Indicador de logro")),
		c.Prop("conceptualContent", c.String("Contenido conceptual")),
		c.Prop("faithIntegration", c.Object(
			c.Prop("objective", c.String("Objetivo de integración de la fe")),
			c.Prop("verse", c.String("Versículo con referencia")),
			c.Prop("concept", c.String("Concepto bíblico")),
		)),
		c.Prop("methodology", c.ArrayOf(c.Object(
			c.Prop("phase", phase),
			c.Prop("title", c.String("Título del momento")),
			c.Prop("activities", c.StringList("Actividades")),
			c.Prop("resources", c.StringList("Recursos")),
			c.Prop("time", c.String("Tiempo estimado, por ejemplo 20 min")),
		), "Secuencia metodológica ordenada")),
		c.Prop("evaluation", c.Object(
			c.Prop("qualitative", c.StringList("Criterios cualitativos")),
			c.Prop("quantitative", c.StringList("Criterios cuantitativos")),
		)),
		c.OptionalProp("teacherGuide", c.String("Guía para el docente")),
		c.OptionalProp("homework", c.String("Tarea")),
		c.Prop("resources", c.StringList("Recursos y materiales")),
		c.OptionalProp("imagePrompts", c.StringList("Descripciones para generar imágenes")),
	)
}

func homeMessageSchema() *c.Schema {
	return c.Object(
		c.Prop("subjectLine", c.String("Asunto")),
		c.Prop("greeting", c.String("Saludo")),
		c.Prop("body", c.String("Cuerpo del mensaje")),
		c.Prop("activitiesAtHome", c.StringList("Actividades para casa")),
		c.Prop("verseReflection", c.String("Reflexión sobre el versículo")),
		c.Prop("closing", c.String("Despedida")),
	)
}

func quizSchema() *c.Schema {
	return c.Object(
		c.Prop("title", c.String("Título")),
		c.Prop("instructions", c.String("Instrucciones")),
		c.Prop("questions", c.ArrayOf(c.Object(
			c.Prop("question", c.String("Pregunta")),
			c.Prop("options", c.StringList("Opciones")),
			c.Prop("answer", c.String("Respuesta correcta")),
			c.Prop("explanation", c.String("Explicación")),
		), "Preguntas")),
	)
}

func rubricSchema() *c.Schema {
	return c.Object(
		c.Prop("title", c.String("Título")),
		c.Prop("instructions", c.String("Instrucciones")),
		c.Prop("rubric", c.ArrayOf(c.Object(
			c.Prop("criterion", c.String("Criterio")),
			c.Prop("levels", c.ArrayOf(c.Object(
				c.Prop("level", c.String("Nivel de desempeño")),
				c.Prop("description", c.String("Descripción")),
				c.Prop("points", c.Integer("Puntaje")),
			), "Niveles")),
		), "Criterios")),
	)
}

func adaptationSchema() *c.Schema {
	return c.Object(
		c.Prop("need", c.String("Necesidad atendida")),
		c.Prop("strategies", c.StringList("Estrategias")),
		c.Prop("adaptedActivities", c.StringList("Actividades adaptadas")),
		c.Prop("evaluationAdjustments", c.StringList("Ajustes de evaluación")),
		c.Prop("resources", c.StringList("Recursos de apoyo")),
	)
}

func gamificationSchema() *c.Schema {
	return c.Object(
		c.Prop("dynamics", c.ArrayOf(c.Object(
			c.Prop("name", c.String("Nombre")),
			c.Prop("objective", c.String("Objetivo")),
			c.Prop("materials", c.StringList("Materiales")),
			c.Prop("steps", c.StringList("Pasos")),
			c.Prop("duration", c.String("Duración")),
			c.Prop("faithConnection", c.String("Conexión con valores cristianos")),
		), "Dinámicas")),
	)
}

func worksheetSchema() *c.Schema {
	return c.Object(
		c.Prop("title", c.String("Título")),
		c.Prop("instructions", c.String("Instrucciones generales")),
		c.Prop("verse", c.String("Versículo")),
		c.Prop("sections", c.ArrayOf(c.Object(
			c.Prop("title", c.String("Título de la sección")),
			c.Prop("exercises", c.ArrayOf(c.Object(
				c.Prop("prompt", c.String("Enunciado")),
				c.OptionalProp("options", c.StringList("Opciones si es de selección")),
				c.OptionalProp("answerLines", c.Integer("Líneas de respuesta")),
			), "Ejercicios")),
		), "Secciones")),
		c.Prop("answerKey", c.StringList("Clave de respuestas")),
	)
}

func whiteboardSchema() *c.Schema {
	return c.Object(
		c.Prop("title", c.String("Título")),
		c.Prop("verse", c.String("Versículo")),
		c.Prop("zones", c.ArrayOf(c.Object(
			c.Prop("name", c.String("Nombre de la zona")),
			c.Prop("position", c.Enum("Posición", "izquierda", "centro", "derecha", "superior", "inferior")),
			c.Prop("content", c.StringList("Contenido")),
		), "Zonas")),
		c.Prop("keyVocabulary", c.StringList("Vocabulario clave")),
	)
}

func slideDeckSchema() *c.Schema {
	return c.Object(
		c.Prop("title", c.String("Título de la presentación")),
		c.Prop("slides", c.ArrayOf(c.Object(
			c.Prop("title", c.String("Título")),
			c.Prop("bullets", c.StringList("Viñetas")),
			c.Prop("speakerNotes", c.String("Notas para el docente")),
			c.OptionalProp("imagePrompt", c.String("Descripción de imagen")),
		), "Diapositivas")),
	)
}

func flashcardSchema() *c.Schema {
	return c.Object(
		c.Prop("title", c.String("Título")),
		c.Prop("cards", c.ArrayOf(c.Object(
			c.Prop("term", c.String("Término")),
			c.Prop("definition", c.String("Definición")),
			c.Prop("example", c.String("Ejemplo")),
		), "Tarjetas")),
	)
}
