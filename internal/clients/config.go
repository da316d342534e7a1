package clients

// Task identifies the kind of generation being performed.
type Task string

const (
	TaskLessonPlan   Task = "lesson_plan"
	TaskHomeMessage  Task = "home_message"
	TaskAssessment   Task = "assessment"
	TaskAdaptation   Task = "adaptation"
	TaskGamification Task = "gamification"
	TaskWorksheet    Task = "worksheet"
	TaskWhiteboard   Task = "whiteboard"
	TaskSlides       Task = "slides"
	TaskFlashcards   Task = "flashcards"
	TaskChat         Task = "chat"
)

// TaskConfig holds per-task sampling parameters.
type TaskConfig struct {
	Temperature float64
	MaxTokens   int
}

// DefaultTasks returns the sampling defaults for every task.
func DefaultTasks() map[Task]TaskConfig {
	return map[Task]TaskConfig{
		TaskLessonPlan:   {Temperature: 0.7, MaxTokens: 8192},
		TaskHomeMessage:  {Temperature: 0.8, MaxTokens: 2048},
		TaskAssessment:   {Temperature: 0.4, MaxTokens: 4096},
		TaskAdaptation:   {Temperature: 0.5, MaxTokens: 4096},
		TaskGamification: {Temperature: 0.9, MaxTokens: 4096},
		TaskWorksheet:    {Temperature: 0.5, MaxTokens: 4096},
		TaskWhiteboard:   {Temperature: 0.6, MaxTokens: 2048},
		TaskSlides:       {Temperature: 0.7, MaxTokens: 4096},
		TaskFlashcards:   {Temperature: 0.5, MaxTokens: 4096},
		TaskChat:         {Temperature: 0.7, MaxTokens: 2048},
	}
}

// GatewayConfig configures the model cascade.
type GatewayConfig struct {
	DefaultModel   string
	FallbackModels []string
	Tasks          map[Task]TaskConfig
}
