package drill

import (
	"github.com/Neio/wordmaster/internal/library"
	"github.com/Neio/wordmaster/internal/quiz"
)

// Screens a View can show.
const (
	ScreenSetup    = "setup"
	ScreenQuestion = "question"
	ScreenFeedback = "feedback"
	ScreenSummary  = "summary"
)

// View is everything a client needs to render its current screen.
// Exactly one of Setup, Question, Feedback or Summary is set, matching Screen.
type View struct {
	Screen   string        `json:"screen"`
	Theme    string        `json:"theme"`
	Message  string        `json:"message,omitempty"`
	Setup    *SetupView    `json:"setup,omitempty"`
	Question *QuestionView `json:"question,omitempty"`
	Feedback *FeedbackView `json:"feedback,omitempty"`
	Summary  *quiz.Summary `json:"summary,omitempty"`
}

// SetupView lists what can be drilled.
type SetupView struct {
	Lessons       []LessonSummary `json:"lessons"`
	MasteredCount int             `json:"mastered_count"`
}

// LessonSummary describes one library lesson.
type LessonSummary struct {
	Book      string `json:"book"`
	Chapter   string `json:"chapter"`
	Words     int    `json:"words"`
	Incorrect int    `json:"incorrect"`
}

// QuestionView is the prompt for the current word. The word itself is only spoken.
type QuestionView struct {
	Number   int                `json:"number"`
	Total    int                `json:"total"`
	Progress int                `json:"progress"`
	Mode     string             `json:"mode"`
	Score    quiz.Score         `json:"score"`
	Lesson   *library.LessonRef `json:"lesson,omitempty"`
}

// FeedbackView is the outcome of the last answer.
type FeedbackView struct {
	quiz.Feedback
	Number int        `json:"number"`
	Total  int        `json:"total"`
	Score  quiz.Score `json:"score"`
	Last   bool       `json:"last"`
}

// ProgressView is a snapshot of long-term progress.
type ProgressView struct {
	Mastered  []string          `json:"mastered"`
	Incorrect []IncorrectRecord `json:"incorrect"`
}

// IncorrectRecord is one outstanding miss.
type IncorrectRecord struct {
	Word    string `json:"word"`
	Book    string `json:"book,omitempty"`
	Chapter string `json:"chapter,omitempty"`
}

func questionView(s quiz.Session) *QuestionView {
	return &QuestionView{
		Number:   s.Index() + 1,
		Total:    s.Total(),
		Progress: s.Index() * 100 / s.Total(),
		Mode:     s.Mode().String(),
		Score:    s.Score(),
		Lesson:   s.Lesson(),
	}
}

func feedbackView(s quiz.Session, fb quiz.Feedback) *FeedbackView {
	return &FeedbackView{
		Feedback: fb,
		Number:   s.Index() + 1,
		Total:    s.Total(),
		Score:    s.Score(),
		Last:     s.Index()+1 >= s.Total(),
	}
}
