package models

// Quiz represents an AI generated quiz attached to a course topic
type Quiz struct {
	Model
	CourseID  uint           `json:"course_id" gorm:"index;not null"`
	Topic     string         `json:"topic"`
	Questions []QuizQuestion `gorm:"foreignKey:QuizID" json:"questions,omitempty"`
}

// QuizQuestion is a single multiple choice question
type QuizQuestion struct {
	Model
	QuizID   uint     `json:"quiz_id" gorm:"index;not null"`
	Question string   `json:"question"`
	Options  []string `json:"options" gorm:"serializer:json"`
	Answer   int      `json:"-"` // index into Options, hidden from takers
}

// QuizAttempt records a user's graded attempt at a quiz
type QuizAttempt struct {
	Model
	QuizID  uint    `json:"quiz_id" gorm:"index;not null"`
	UserID  uint    `json:"user_id" gorm:"index;not null"`
	Answers []int   `json:"answers" gorm:"serializer:json"`
	Score   float64 `json:"score"`
	Graded  bool    `json:"graded"`
}

type GenerateQuizRequest struct {
	CourseID      uint   `json:"course_id" binding:"required"`
	Topic         string `json:"topic" binding:"required" conform:"trim"`
	QuestionCount int    `json:"question_count"`
}

type SubmitQuizRequest struct {
	Answers []int `json:"answers" binding:"required"`
}

// StudySuggestion is advice derived from recent quiz performance
type StudySuggestion struct {
	Topic  string `json:"topic"`
	Reason string `json:"reason"`
}

// LearningPathStep is one step of an adaptive learning path
type LearningPathStep struct {
	Order int    `json:"order"`
	Topic string `json:"topic"`
	Focus string `json:"focus"`
}
