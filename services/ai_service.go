package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/mindboosthq/mindboost-api/config"
	"github.com/mindboosthq/mindboost-api/db"
	apiError "github.com/mindboosthq/mindboost-api/errors"
	"github.com/mindboosthq/mindboost-api/models"
	"gorm.io/gorm"
	"resty.dev/v3"
)

const defaultQuestionCount = 5

type AIService interface {
	GenerateQuiz(request *models.GenerateQuizRequest) (*models.Quiz, error)
	GetQuiz(quizID uint) (*models.Quiz, error)
	GetQuizzesForCourse(courseID uint) ([]models.Quiz, error)
	SubmitQuizAttempt(userID, quizID uint, request *models.SubmitQuizRequest) (*models.QuizAttempt, error)
	GetStudySuggestions(userID uint) ([]models.StudySuggestion, error)
	GetLearningPath(userID uint, subject string) ([]models.LearningPathStep, error)
}

type aiService struct {
	Config          *config.Config
	quizRepo        db.QuizRepository
	notificationSvc NotificationService
	client          *resty.Client
}

// completionRequest is the request body for the AI provider's text
// completion endpoint
type completionRequest struct {
	Model          string `json:"model"`
	Prompt         string `json:"prompt"`
	ResponseFormat string `json:"response_format"`
}

type completionResponse struct {
	Choices []struct {
		Text string `json:"text"`
	} `json:"choices"`
}

// generatedQuestion is the JSON shape the model is asked to produce
type generatedQuestion struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Answer   int      `json:"answer"`
}

func NewAIService(quizRepo db.QuizRepository, notificationSvc NotificationService, conf *config.Config) AIService {
	client := resty.New().
		SetBaseURL(conf.AiApiBaseURL).
		SetAuthToken(conf.AiApiKey).
		SetTimeout(60 * time.Second)

	return &aiService{
		Config:          conf,
		quizRepo:        quizRepo,
		notificationSvc: notificationSvc,
		client:          client,
	}
}

// complete sends a prompt to the AI provider and returns the raw text
// of the first choice
func (s *aiService) complete(prompt string) (string, error) {
	var result completionResponse
	resp, err := s.client.R().
		SetBody(completionRequest{
			Model:          "mindboost-tutor-1",
			Prompt:         prompt,
			ResponseFormat: "json",
		}).
		SetResult(&result).
		Post("/v1/completions")
	if err != nil {
		return "", err
	}
	if resp.IsError() {
		return "", fmt.Errorf("ai provider returned %s", resp.Status())
	}
	if len(result.Choices) == 0 {
		return "", errors.New("ai provider returned no choices")
	}
	return result.Choices[0].Text, nil
}

// GenerateQuiz asks the model for multiple choice questions on a topic
// and persists them as a quiz
func (s *aiService) GenerateQuiz(request *models.GenerateQuizRequest) (*models.Quiz, error) {
	if err := models.CleanInput(request); err != nil {
		return nil, apiError.ErrBadRequest
	}
	count := request.QuestionCount
	if count <= 0 || count > 20 {
		count = defaultQuestionCount
	}

	prompt := fmt.Sprintf(
		"Generate %d multiple choice questions on the topic %q for an exam preparation quiz. "+
			"Respond with a JSON array of objects with fields question, options (4 strings) and answer (index of the correct option).",
		count, request.Topic)

	text, err := s.complete(prompt)
	if err != nil {
		log.Printf("GenerateQuiz ai call failed: %v", err)
		return nil, apiError.New("tutoring service unavailable", http.StatusBadGateway)
	}

	var generated []generatedQuestion
	if err := json.Unmarshal([]byte(text), &generated); err != nil {
		log.Printf("GenerateQuiz could not parse model output: %v", err)
		return nil, apiError.New("tutoring service returned malformed questions", http.StatusBadGateway)
	}

	quiz := &models.Quiz{
		CourseID: request.CourseID,
		Topic:    request.Topic,
	}
	for _, q := range generated {
		if q.Question == "" || len(q.Options) < 2 || q.Answer < 0 || q.Answer >= len(q.Options) {
			continue
		}
		quiz.Questions = append(quiz.Questions, models.QuizQuestion{
			Question: q.Question,
			Options:  q.Options,
			Answer:   q.Answer,
		})
	}
	if len(quiz.Questions) == 0 {
		return nil, apiError.New("tutoring service returned no usable questions", http.StatusBadGateway)
	}

	if err := s.quizRepo.CreateQuiz(quiz); err != nil {
		log.Printf("GenerateQuiz error saving quiz: %v", err)
		return nil, apiError.ErrInternalServerError
	}
	return quiz, nil
}

func (s *aiService) GetQuiz(quizID uint) (*models.Quiz, error) {
	quiz, err := s.quizRepo.GetQuizByID(quizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apiError.ErrNotFound
		}
		return nil, apiError.ErrInternalServerError
	}
	return quiz, nil
}

func (s *aiService) GetQuizzesForCourse(courseID uint) ([]models.Quiz, error) {
	return s.quizRepo.GetQuizzesForCourse(courseID)
}

// SubmitQuizAttempt grades the submitted answers against the stored
// answer key and notifies the user of their score
func (s *aiService) SubmitQuizAttempt(userID, quizID uint, request *models.SubmitQuizRequest) (*models.QuizAttempt, error) {
	quiz, err := s.GetQuiz(quizID)
	if err != nil {
		return nil, err
	}
	if len(request.Answers) != len(quiz.Questions) {
		return nil, apiError.New(
			fmt.Sprintf("expected %d answers, got %d", len(quiz.Questions), len(request.Answers)),
			http.StatusBadRequest)
	}

	correct := 0
	for i, question := range quiz.Questions {
		if request.Answers[i] == question.Answer {
			correct++
		}
	}
	score := float64(correct) / float64(len(quiz.Questions)) * 100

	attempt := &models.QuizAttempt{
		QuizID:  quizID,
		UserID:  userID,
		Answers: request.Answers,
		Score:   score,
		Graded:  true,
	}
	if err := s.quizRepo.CreateAttempt(attempt); err != nil {
		log.Printf("SubmitQuizAttempt error saving attempt: %v", err)
		return nil, apiError.ErrInternalServerError
	}

	if s.notificationSvc != nil {
		if _, err := s.notificationSvc.Dispatch(userID, &models.NotificationParams{
			Type:    models.NotificationTypeGrading,
			Title:   "Quiz graded",
			Message: fmt.Sprintf("You scored %.0f%% on the %s quiz.", score, quiz.Topic),
		}); err != nil {
			log.Printf("SubmitQuizAttempt error dispatching notification: %v", err)
		}
	}

	return attempt, nil
}

// GetStudySuggestions summarizes the user's recent attempts and asks
// the model where to focus next
func (s *aiService) GetStudySuggestions(userID uint) ([]models.StudySuggestion, error) {
	attempts, err := s.quizRepo.GetAttemptsForUser(userID, 10)
	if err != nil {
		return nil, apiError.ErrInternalServerError
	}
	if len(attempts) == 0 {
		return nil, apiError.New("no quiz attempts to base suggestions on", http.StatusNotFound)
	}

	var summary strings.Builder
	for _, attempt := range attempts {
		quiz, err := s.quizRepo.GetQuizByID(attempt.QuizID)
		if err != nil {
			continue
		}
		fmt.Fprintf(&summary, "topic %q score %.0f%%; ", quiz.Topic, attempt.Score)
	}

	prompt := fmt.Sprintf(
		"A student has these recent quiz results: %s "+
			"Respond with a JSON array of objects with fields topic and reason, "+
			"listing the topics the student should revise first.",
		summary.String())

	text, err := s.complete(prompt)
	if err != nil {
		log.Printf("GetStudySuggestions ai call failed: %v", err)
		return nil, apiError.New("tutoring service unavailable", http.StatusBadGateway)
	}

	var suggestions []models.StudySuggestion
	if err := json.Unmarshal([]byte(text), &suggestions); err != nil {
		log.Printf("GetStudySuggestions could not parse model output: %v", err)
		return nil, apiError.New("tutoring service returned malformed suggestions", http.StatusBadGateway)
	}
	return suggestions, nil
}

// GetLearningPath asks the model for an ordered study plan on a subject
func (s *aiService) GetLearningPath(userID uint, subject string) ([]models.LearningPathStep, error) {
	if strings.TrimSpace(subject) == "" {
		return nil, apiError.ErrBadRequest
	}

	attempts, err := s.quizRepo.GetAttemptsForUser(userID, 10)
	if err != nil {
		return nil, apiError.ErrInternalServerError
	}

	prompt := fmt.Sprintf(
		"Build an ordered study plan for the subject %q for an exam candidate with %d recorded quiz attempts. "+
			"Respond with a JSON array of objects with fields order, topic and focus.",
		subject, len(attempts))

	text, err := s.complete(prompt)
	if err != nil {
		log.Printf("GetLearningPath ai call failed: %v", err)
		return nil, apiError.New("tutoring service unavailable", http.StatusBadGateway)
	}

	var steps []models.LearningPathStep
	if err := json.Unmarshal([]byte(text), &steps); err != nil {
		log.Printf("GetLearningPath could not parse model output: %v", err)
		return nil, apiError.New("tutoring service returned malformed plan", http.StatusBadGateway)
	}
	return steps, nil
}
