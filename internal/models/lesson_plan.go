package models

import (
	"fmt"
	"strings"
	"time"
)

// Attachment is a binary document sent along with a generation request.
// Data is base64 encoded, optionally as a data URL the way the browser
// file reader produces it.
type Attachment struct {
	Name     string `json:"name,omitempty"`
	MimeType string `json:"mimeType" validate:"required"`
	Data     string `json:"data" validate:"required"`
}

type LessonPlanRequest struct {
	Subject        string      `json:"subject" validate:"required,subject"`
	Grade          string      `json:"grade" validate:"required,grade"`
	Topic          string      `json:"topic" validate:"required,max=300"`
	BiblicalFocus  string      `json:"biblicalFocus,omitempty" validate:"max=300"`
	Duration       string      `json:"duration" validate:"required,max=50"`
	Document       *Attachment `json:"document,omitempty"`
	SectionLocator string      `json:"sectionLocator,omitempty" validate:"max=200"`
	ContentFocus   string      `json:"contentFocus,omitempty" validate:"max=200"`
	Model          string      `json:"model,omitempty" validate:"max=100"`
}

type FaithIntegration struct {
	Objective string `json:"objective"`
	Verse     string `json:"verse"`
	Concept   string `json:"concept"`
}

// MethodologyStep is one phase of the lesson's activity sequence.
type MethodologyStep struct {
	Phase      string   `json:"phase"`
	Title      string   `json:"title"`
	Activities []string `json:"activities"`
	Resources  []string `json:"resources"`
	Time       string   `json:"time"`
}

type Evaluation struct {
	Qualitative  []string `json:"qualitative"`
	Quantitative []string `json:"quantitative"`
}

type GeneratedLessonPlan struct {
	ID                   string            `json:"id"`
	CreatedAt            time.Time         `json:"createdAt"`
	Model                string            `json:"model,omitempty"`
	Subject              string            `json:"subject"`
	Grade                string            `json:"grade"`
	Topic                string            `json:"topic,omitempty"`
	Duration             string            `json:"duration,omitempty"`
	Unit                 string            `json:"unit"`
	AchievementIndicator string            `json:"achievementIndicator"`
	ConceptualContent    string            `json:"conceptualContent"`
	FaithIntegration     FaithIntegration  `json:"faithIntegration"`
	Methodology          []MethodologyStep `json:"methodology"`
	Evaluation           Evaluation        `json:"evaluation"`
	TeacherGuide         string            `json:"teacherGuide,omitempty"`
	Homework             string            `json:"homework,omitempty"`
	Resources            []string          `json:"resources"`
	ImagePrompts         []string          `json:"imagePrompts,omitempty"`
}

// Validate rejects model output that parsed as JSON but is missing the
// parts every plan needs.
func (p GeneratedLessonPlan) Validate() error {
	if strings.TrimSpace(p.ConceptualContent) == "" && strings.TrimSpace(p.AchievementIndicator) == "" {
		return fmt.Errorf("plan has neither conceptual content nor achievement indicator")
	}
	if len(p.Methodology) == 0 {
		return fmt.Errorf("plan has no methodology steps")
	}
	return nil
}

// PlanStats feeds the dashboard counters.
type PlanStats struct {
	Total     int            `json:"total"`
	BySubject map[string]int `json:"bySubject"`
	ByGrade   map[string]int `json:"byGrade"`
}

// PlanSummary is the list view of a saved plan.
type PlanSummary struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	Subject   string    `json:"subject"`
	Grade     string    `json:"grade"`
	Topic     string    `json:"topic"`
	Unit      string    `json:"unit"`
}

func (p *GeneratedLessonPlan) Summary() PlanSummary {
	return PlanSummary{
		ID:        p.ID,
		CreatedAt: p.CreatedAt,
		Subject:   p.Subject,
		Grade:     p.Grade,
		Topic:     p.Topic,
		Unit:      p.Unit,
	}
}

// ExportFile is a rendered artifact ready to be downloaded.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}
