package models

import (
	"fmt"
	"strings"
)

// PlanContext is shared by every classroom-material request. When PlanID is
// set, empty fields are filled in from the saved plan.
type PlanContext struct {
	PlanID  string `json:"planId,omitempty" validate:"omitempty,uuid"`
	Subject string `json:"subject,omitempty" validate:"omitempty,subject"`
	Grade   string `json:"grade,omitempty" validate:"omitempty,grade"`
	Topic   string `json:"topic,omitempty" validate:"max=300"`
	Verse   string `json:"verse,omitempty" validate:"max=300"`
	Model   string `json:"model,omitempty" validate:"max=100"`
}

// FillFrom copies topic, grade, subject and verse from a saved plan without
// overriding what the caller sent.
func (c *PlanContext) FillFrom(plan *GeneratedLessonPlan) {
	if plan == nil {
		return
	}
	if c.Subject == "" {
		c.Subject = plan.Subject
	}
	if c.Grade == "" {
		c.Grade = plan.Grade
	}
	if c.Topic == "" {
		c.Topic = plan.Topic
		if c.Topic == "" {
			c.Topic = plan.Unit
		}
	}
	if c.Verse == "" {
		c.Verse = plan.FaithIntegration.Verse
	}
}

// Home-review message sent to families.

type HomeMessageRequest struct {
	PlanContext
	StudentName string   `json:"studentName,omitempty" validate:"max=100"`
	Tone        string   `json:"tone,omitempty" validate:"omitempty,oneof=formal cercano motivador"`
	Highlights  []string `json:"highlights,omitempty" validate:"max=10,dive,max=300"`
	SendTo      string   `json:"sendTo,omitempty" validate:"omitempty,email"`
}

type HomeMessage struct {
	SubjectLine      string   `json:"subjectLine"`
	Greeting         string   `json:"greeting"`
	Body             string   `json:"body"`
	ActivitiesAtHome []string `json:"activitiesAtHome"`
	VerseReflection  string   `json:"verseReflection"`
	Closing          string   `json:"closing"`
	DeliveredTo      string   `json:"deliveredTo,omitempty"`
	DeliveryError    string   `json:"deliveryError,omitempty"`
}

func (m HomeMessage) Validate() error {
	if strings.TrimSpace(m.Body) == "" {
		return fmt.Errorf("home message body is empty")
	}
	return nil
}

// PlainText renders the message the way it goes out by e-mail.
func (m HomeMessage) PlainText() string {
	var b strings.Builder
	if m.Greeting != "" {
		b.WriteString(m.Greeting + "\n\n")
	}
	b.WriteString(m.Body + "\n")
	if len(m.ActivitiesAtHome) > 0 {
		b.WriteString("\nActividades para repasar en casa:\n")
		for _, a := range m.ActivitiesAtHome {
			b.WriteString("- " + a + "\n")
		}
	}
	if m.VerseReflection != "" {
		b.WriteString("\n" + m.VerseReflection + "\n")
	}
	if m.Closing != "" {
		b.WriteString("\n" + m.Closing + "\n")
	}
	return b.String()
}

// Quiz or rubric.

const (
	AssessmentQuiz   = "quiz"
	AssessmentRubric = "rubric"
)

type AssessmentRequest struct {
	PlanContext
	Kind          string `json:"kind" validate:"required,oneof=quiz rubric"`
	QuestionCount int    `json:"questionCount,omitempty" validate:"omitempty,min=1,max=30"`
}

type QuizQuestion struct {
	Question    string   `json:"question"`
	Options     []string `json:"options"`
	Answer      string   `json:"answer"`
	Explanation string   `json:"explanation"`
}

type RubricLevel struct {
	Level       string `json:"level"`
	Description string `json:"description"`
	Points      int    `json:"points"`
}

type RubricCriterion struct {
	Criterion string        `json:"criterion"`
	Levels    []RubricLevel `json:"levels"`
}

type Assessment struct {
	Kind         string            `json:"kind"`
	Title        string            `json:"title"`
	Instructions string            `json:"instructions"`
	Questions    []QuizQuestion    `json:"questions,omitempty"`
	Rubric       []RubricCriterion `json:"rubric,omitempty"`
}

func (a Assessment) Validate() error {
	if len(a.Questions) == 0 && len(a.Rubric) == 0 {
		return fmt.Errorf("assessment has neither questions nor rubric criteria")
	}
	return nil
}

// Special-needs adaptation.

type AdaptationRequest struct {
	PlanContext
	Needs    string `json:"needs" validate:"required,max=300"`
	Activity string `json:"activity,omitempty" validate:"max=1000"`
}

type Adaptation struct {
	Need                  string   `json:"need"`
	Strategies            []string `json:"strategies"`
	AdaptedActivities     []string `json:"adaptedActivities"`
	EvaluationAdjustments []string `json:"evaluationAdjustments"`
	Resources             []string `json:"resources"`
}

func (a Adaptation) Validate() error {
	if len(a.Strategies) == 0 {
		return fmt.Errorf("adaptation has no strategies")
	}
	return nil
}

// Gamified dynamics.

type GamificationRequest struct {
	PlanContext
	GroupSize int    `json:"groupSize,omitempty" validate:"omitempty,min=1,max=60"`
	Duration  string `json:"duration,omitempty" validate:"max=50"`
}

type Dynamic struct {
	Name            string   `json:"name"`
	Objective       string   `json:"objective"`
	Materials       []string `json:"materials"`
	Steps           []string `json:"steps"`
	Duration        string   `json:"duration"`
	FaithConnection string   `json:"faithConnection"`
}

type GamificationSuggestions struct {
	Dynamics []Dynamic `json:"dynamics"`
}

func (g GamificationSuggestions) Validate() error {
	if len(g.Dynamics) == 0 {
		return fmt.Errorf("no dynamics suggested")
	}
	return nil
}

// Printable worksheet.

type WorksheetRequest struct {
	PlanContext
	ExerciseCount int `json:"exerciseCount,omitempty" validate:"omitempty,min=1,max=30"`
}

type Exercise struct {
	Prompt      string   `json:"prompt"`
	Options     []string `json:"options,omitempty"`
	AnswerLines int      `json:"answerLines,omitempty"`
}

type WorksheetSection struct {
	Title     string     `json:"title"`
	Exercises []Exercise `json:"exercises"`
}

type Worksheet struct {
	Title        string             `json:"title"`
	Instructions string             `json:"instructions"`
	Verse        string             `json:"verse"`
	Sections     []WorksheetSection `json:"sections"`
	AnswerKey    []string           `json:"answerKey"`
}

func (w Worksheet) Validate() error {
	if len(w.Sections) == 0 {
		return fmt.Errorf("worksheet has no sections")
	}
	return nil
}

// Whiteboard layout.

type WhiteboardRequest struct {
	PlanContext
}

type WhiteboardZone struct {
	Name     string   `json:"name"`
	Position string   `json:"position"`
	Content  []string `json:"content"`
}

type WhiteboardLayout struct {
	Title         string           `json:"title"`
	Verse         string           `json:"verse"`
	Zones         []WhiteboardZone `json:"zones"`
	KeyVocabulary []string         `json:"keyVocabulary"`
}

func (w WhiteboardLayout) Validate() error {
	if len(w.Zones) == 0 {
		return fmt.Errorf("whiteboard has no zones")
	}
	return nil
}

// Slide deck.

type SlideDeckRequest struct {
	PlanContext
	SlideCount int `json:"slideCount,omitempty" validate:"omitempty,min=3,max=20"`
}

type Slide struct {
	Title        string   `json:"title"`
	Bullets      []string `json:"bullets"`
	SpeakerNotes string   `json:"speakerNotes"`
	ImagePrompt  string   `json:"imagePrompt,omitempty"`
}

type SlideDeck struct {
	Title  string  `json:"title"`
	Slides []Slide `json:"slides"`
}

func (d SlideDeck) Validate() error {
	if len(d.Slides) == 0 {
		return fmt.Errorf("slide deck is empty")
	}
	return nil
}

// Vocabulary flashcards.

type FlashcardRequest struct {
	PlanContext
	Count int `json:"count,omitempty" validate:"omitempty,min=2,max=40"`
}

type Flashcard struct {
	Term       string `json:"term"`
	Definition string `json:"definition"`
	Example    string `json:"example"`
}

type FlashcardSet struct {
	Title string      `json:"title"`
	Cards []Flashcard `json:"cards"`
}

func (f FlashcardSet) Validate() error {
	if len(f.Cards) == 0 {
		return fmt.Errorf("flashcard set is empty")
	}
	return nil
}

// Class kit: several materials for one saved plan in a single request.

const (
	KitSlides       = "slides"
	KitWorksheet    = "worksheet"
	KitFlashcards   = "flashcards"
	KitQuiz         = "quiz"
	KitRubric       = "rubric"
	KitGamification = "gamification"
	KitWhiteboard   = "whiteboard"
)

type ClassKitRequest struct {
	PlanID string   `json:"planId" validate:"required,uuid"`
	Items  []string `json:"items" validate:"required,min=1,max=7,dive,oneof=slides worksheet flashcards quiz rubric gamification whiteboard"`
	Model  string   `json:"model,omitempty" validate:"max=100"`
}

type ClassKit struct {
	PlanID       string                   `json:"planId"`
	Slides       *SlideDeck               `json:"slides,omitempty"`
	Worksheet    *Worksheet               `json:"worksheet,omitempty"`
	Flashcards   *FlashcardSet            `json:"flashcards,omitempty"`
	Quiz         *Assessment              `json:"quiz,omitempty"`
	Rubric       *Assessment              `json:"rubric,omitempty"`
	Gamification *GamificationSuggestions `json:"gamification,omitempty"`
	Whiteboard   *WhiteboardLayout        `json:"whiteboard,omitempty"`
	Errors       map[string]string        `json:"errors,omitempty"`
}
